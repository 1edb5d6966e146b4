package session

import (
	"context"
	"io"

	tickv1 "github.com/muhammadchandra19/tickfeed/internal/domain/tick/v1"
	"github.com/muhammadchandra19/tickfeed/internal/protocol"
)

func newTick(seq int32) tickv1.Tick {
	return tickv1.Tick{Symbol: [4]byte{'M', 'S', 'F', 'T'}, Side: 'B', Quantity: 10 * seq, Price: 100 + seq, Sequence: seq}
}

func encodeTicks(ticks ...tickv1.Tick) []byte {
	var buf []byte
	for _, t := range ticks {
		buf = protocol.Encode(buf, t)
	}
	return buf
}

func encodeSeqs(seqs ...int32) []byte {
	ticks := make([]tickv1.Tick, 0, len(seqs))
	for _, seq := range seqs {
		ticks = append(ticks, newTick(seq))
	}
	return encodeTicks(ticks...)
}

func sequences(ticks []tickv1.Tick) []int32 {
	out := make([]int32, 0, len(ticks))
	for _, t := range ticks {
		out = append(out, t.Sequence)
	}
	return out
}

// chunkReceiver serves chunks one Receive call at a time, then final.
func chunkReceiver(final error, chunks ...[]byte) func(context.Context, []byte) (int, error) {
	i := 0
	return func(_ context.Context, buf []byte) (int, error) {
		if i >= len(chunks) {
			if final == nil {
				return 0, io.EOF
			}
			return 0, final
		}
		n := copy(buf, chunks[i])
		if n < len(chunks[i]) {
			chunks[i] = chunks[i][n:]
		} else {
			i++
		}
		return n, nil
	}
}
