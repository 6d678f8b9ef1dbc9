package stats

import (
	"github.com/san-kum/randwalk/internal/walk"
	"gonum.org/v1/gonum/stat"
)

// Band is the cross-walk mean and population std at one step.
type Band struct {
	Step   int     `json:"step"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

func (b Band) Lower() float64 { return b.Mean - b.StdDev }
func (b Band) Upper() float64 { return b.Mean + b.StdDev }

// Envelope computes one Band per step index of b.
func Envelope(b *walk.Batch) ([]Band, error) {
	if b.Len() == 0 {
		return nil, walk.ErrEmptyBatch
	}

	steps := len(b.Walks[0])
	bands := make([]Band, steps)
	for i := 0; i < steps; i++ {
		mean, std := stat.PopMeanStdDev(b.Column(i), nil)
		bands[i] = Band{Step: i, Mean: mean, StdDev: std}
	}
	return bands, nil
}
