// Package gap tracks which feed sequences were skipped during a bulk transfer.
package gap

import "slices"

// Tracker holds the next expected sequence and the stack of sequences known
// to be missing. It is not safe for concurrent use.
type Tracker struct {
	// expected is wider than a sequence so a record at math.MaxInt32 cannot
	// wrap it.
	expected int64
	pending  []int32
}

// NewTracker returns a tracker expecting sequence 1.
func NewTracker() *Tracker {
	return &Tracker{expected: 1}
}

// Observe records that seq arrived. Every sequence between the expected one
// and seq is marked missing. A late arrival (seq below expected) clears its
// own pending entry and leaves expected untouched.
// Callers bound the gap first; Observe allocates one entry per skipped
// sequence.
func (t *Tracker) Observe(seq int32) {
	next := int64(seq)
	if next < t.expected {
		t.Resolve(seq)
		return
	}

	for t.expected < next {
		t.pending = append(t.pending, int32(t.expected))
		t.expected++
	}
	t.expected = next + 1
}

// Resolve removes seq from the pending set and reports whether it was there.
func (t *Tracker) Resolve(seq int32) bool {
	i := slices.Index(t.pending, seq)
	if i < 0 {
		return false
	}
	t.pending = slices.Delete(t.pending, i, i+1)
	return true
}

// IsEmpty reports whether no sequence is pending.
func (t *Tracker) IsEmpty() bool {
	return len(t.pending) == 0
}

// Next returns the most recently discovered pending sequence.
func (t *Tracker) Next() (int32, bool) {
	if len(t.pending) == 0 {
		return 0, false
	}
	return t.pending[len(t.pending)-1], true
}

// Expected returns the sequence the tracker expects next.
func (t *Tracker) Expected() int64 {
	return t.expected
}

// Pending returns a copy of the pending sequences in discovery order.
func (t *Tracker) Pending() []int32 {
	return slices.Clone(t.pending)
}

// Len returns the number of pending sequences.
func (t *Tracker) Len() int {
	return len(t.pending)
}
