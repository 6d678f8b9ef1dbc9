package walk

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Stepper draws successive increments of a walk.
type Stepper interface {
	Next() float64
}

type gaussianStep struct {
	dist distuv.Normal
}

func (g *gaussianStep) Next() float64 { return g.dist.Rand() }

type discreteStep struct {
	coin distuv.Bernoulli
	size float64
}

func (d *discreteStep) Next() float64 {
	if d.coin.Rand() == 1 {
		return d.size
	}
	return -d.size
}

// stepper is the single place where Kind selects a distribution.
func (p Params) stepper(src rand.Source) Stepper {
	switch p.Kind {
	case KindDiscrete:
		return &discreteStep{
			coin: distuv.Bernoulli{P: 0.5, Src: src},
			size: p.StepSize,
		}
	default:
		return &gaussianStep{
			dist: distuv.Normal{Mu: p.Drift, Sigma: p.Volatility, Src: src},
		}
	}
}
