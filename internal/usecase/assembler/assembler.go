// Package assembler turns the retrieved ticks into their final ordered form.
package assembler

import (
	"cmp"
	"slices"

	tickv1 "github.com/muhammadchandra19/tickfeed/internal/domain/tick/v1"
)

// Assemble returns a copy of ticks sorted ascending by sequence. Equal
// sequences keep their retrieval order; nothing is deduplicated.
func Assemble(ticks []tickv1.Tick) []tickv1.Tick {
	out := slices.Clone(ticks)
	slices.SortStableFunc(out, func(a, b tickv1.Tick) int {
		return cmp.Compare(a.Sequence, b.Sequence)
	})
	return out
}

// Records converts ticks to document records, preserving order.
func Records(ticks []tickv1.Tick) []tickv1.Record {
	records := make([]tickv1.Record, 0, len(ticks))
	for _, t := range ticks {
		records = append(records, t.ToRecord())
	}
	return records
}
