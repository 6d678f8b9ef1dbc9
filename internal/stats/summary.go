// Package stats reduces walk batches to terminal-value summaries.
//
// Standard deviations are population standard deviations (divide by n).
// Histograms use equal-width bins spanning exactly [min, max] of the
// terminal values; the last bin is closed so the maximum is counted.
package stats

import (
	"math"
	"slices"

	"github.com/san-kum/randwalk/internal/walk"
	"gonum.org/v1/gonum/stat"
)

// DefaultBins is the histogram bin count used when callers have no preference.
const DefaultBins = 20

// Summary describes the distribution of terminal values of a batch.
type Summary struct {
	Count     int       `json:"count"`
	Mean      float64   `json:"mean"`
	StdDev    float64   `json:"std_dev"`
	Min       float64   `json:"min"`
	Max       float64   `json:"max"`
	Median    float64   `json:"median"`
	Q1        float64   `json:"q1"`
	Q3        float64   `json:"q3"`
	Histogram Histogram `json:"histogram"`
}

// Summarize reduces the terminal values of b.
func Summarize(b *walk.Batch, bins int) (*Summary, error) {
	if b.Len() == 0 {
		return nil, walk.ErrEmptyBatch
	}
	return FromValues(b.Terminals(), bins)
}

// FromValues summarizes raw terminal values.
func FromValues(values []float64, bins int) (*Summary, error) {
	if len(values) == 0 {
		return nil, walk.ErrEmptyBatch
	}
	if bins < 1 {
		return nil, &walk.ParamError{Field: "bins", Value: bins, Reason: "must be at least 1"}
	}

	if err := checkFinite(values); err != nil {
		return nil, err
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	mean, std := stat.PopMeanStdDev(sorted, nil)
	if math.IsInf(mean, 0) || math.IsNaN(mean) || math.IsInf(std, 0) || math.IsNaN(std) {
		return nil, &walk.ParamError{Field: "terminals", Value: len(sorted), Reason: "moments overflow float64"}
	}

	return &Summary{
		Count:     len(sorted),
		Mean:      mean,
		StdDev:    std,
		Min:       sorted[0],
		Max:       sorted[len(sorted)-1],
		Median:    stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Q1:        stat.Quantile(0.25, stat.Empirical, sorted, nil),
		Q3:        stat.Quantile(0.75, stat.Empirical, sorted, nil),
		Histogram: histogramSorted(sorted, bins),
	}, nil
}
