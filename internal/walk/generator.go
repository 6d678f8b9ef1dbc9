package walk

import (
	"math"
	"math/rand/v2"
)

// Generator produces batches of walks from its own random stream.
type Generator struct {
	src rand.Source
}

// NewGenerator returns a generator seeded from process entropy; two calls
// never share a stream.
func NewGenerator() *Generator {
	return &Generator{src: rand.NewPCG(rand.Uint64(), rand.Uint64())}
}

// NewSeededGenerator returns a generator whose output is fully determined by seed.
func NewSeededGenerator(seed int64) *Generator {
	s := uint64(seed)
	return &Generator{src: rand.NewPCG(s, s^0x9e3779b97f4a7c15)}
}

// Generate validates p and numWalks, then draws numWalks independent walks.
func (g *Generator) Generate(p Params, numWalks int) (*Batch, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if numWalks < 1 {
		return nil, &ParamError{Field: "walks", Value: numWalks, Reason: "must be at least 1"}
	}

	step := p.stepper(g.src)
	batch := &Batch{
		Params: p,
		Walks:  make([]Walk, numWalks),
	}
	for i := range batch.Walks {
		w := build(p, step)
		// Overflowed positions stay non-finite, so the terminal is enough.
		if t := w.Terminal(); math.IsInf(t, 0) || math.IsNaN(t) {
			return nil, &ParamError{Field: "params", Value: p, Reason: "walk values overflow float64"}
		}
		batch.Walks[i] = w
	}
	return batch, nil
}

func build(p Params, step Stepper) Walk {
	w := make(Walk, p.Steps+1)
	w[0] = p.Start
	for i := 1; i <= p.Steps; i++ {
		w[i] = w[i-1] + step.Next()
	}
	return w
}

// Generate draws a batch from a fresh, unseeded generator.
func Generate(p Params, numWalks int) (*Batch, error) {
	return NewGenerator().Generate(p, numWalks)
}
