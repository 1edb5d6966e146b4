package feedserver

import (
	"math/rand/v2"

	tickv1 "github.com/muhammadchandra19/tickfeed/internal/domain/tick/v1"
)

var symbols = [][4]byte{
	{'M', 'S', 'F', 'T'},
	{'A', 'A', 'P', 'L'},
	{'A', 'M', 'Z', 'N'},
	{'M', 'E', 'T', 'A'},
}

// Generate returns n valid ticks with sequences 1..n. The same seed always
// yields the same ticks.
func Generate(n int, seed uint64) []tickv1.Tick {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	ticks := make([]tickv1.Tick, 0, n)
	for i := range n {
		side := byte('B')
		if rng.IntN(2) == 1 {
			side = 'S'
		}

		ticks = append(ticks, tickv1.Tick{
			Symbol:   symbols[rng.IntN(len(symbols))],
			Side:     side,
			Quantity: int32(rng.IntN(100) + 1),
			Price:    int32(rng.IntN(150) + 50),
			Sequence: int32(i + 1),
		})
	}
	return ticks
}
