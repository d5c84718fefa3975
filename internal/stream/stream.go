// Package stream implements the deterministic 64-bit value sequence used as
// test payload.
//
// The sequence is a linear congruential generator. It is fast and fully
// reproducible from its seed, which is all a media exerciser needs: the
// verifier replays the exact sequence the writer produced without the data
// ever being stored anywhere else. It is not suitable for anything that needs
// unpredictability.
package stream

import "github.com/hupe1980/filltest/internal/block"

const (
	// Multiplier of the update rule.
	Multiplier uint64 = 0x27BB2EE687B0B0FD
	// Increment of the update rule.
	Increment uint64 = 0xB504F32D
)

// Generator holds the cursor of one stream.
type Generator struct {
	state uint64
}

// New returns a generator positioned at seed.
func New(seed uint64) *Generator {
	return &Generator{state: seed}
}

// Next advances the cursor and returns the new state.
func (g *Generator) Next() uint64 {
	g.state = Multiplier*g.state + Increment
	return g.state
}

// Fill packs the next values into every unit of b.
func (g *Generator) Fill(b block.Block) {
	b.Fill(g.Next)
}

// Compare checks the complete units among the first n bytes of b against the
// next values of the stream. The stream advances once per unit whether or not
// it matched, so one bad unit never shifts the comparison of the ones after
// it. onMismatch is called for every unit that differs. It returns the number
// of mismatches.
func (g *Generator) Compare(b block.Block, n int, onMismatch func(unit int, expected, actual uint64)) int {
	bad := 0
	b.Drain(n, func(i int, actual uint64) {
		expected := g.Next()
		if actual != expected {
			bad++
			if onMismatch != nil {
				onMismatch(i, expected, actual)
			}
		}
	})
	return bad
}
