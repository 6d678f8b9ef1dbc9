package stats

import (
	"fmt"
	"math"
	"slices"

	"github.com/san-kum/randwalk/internal/walk"
	"gonum.org/v1/gonum/stat"
)

// Histogram counts values in equal-width bins.
// len(Edges) == len(Counts)+1; bin i covers [Edges[i], Edges[i+1]).
type Histogram struct {
	Edges  []float64 `json:"edges"`
	Counts []int     `json:"counts"`
}

// NewHistogram bins values into bins equal-width buckets over [min, max].
func NewHistogram(values []float64, bins int) (Histogram, error) {
	if len(values) == 0 {
		return Histogram{}, walk.ErrEmptyBatch
	}
	if bins < 1 {
		return Histogram{}, &walk.ParamError{Field: "bins", Value: bins, Reason: "must be at least 1"}
	}
	if err := checkFinite(values); err != nil {
		return Histogram{}, err
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	return histogramSorted(sorted, bins), nil
}

func checkFinite(values []float64) error {
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &walk.ParamError{Field: fmt.Sprintf("terminals[%d]", i), Value: v, Reason: "must be finite"}
		}
	}
	return nil
}

// edges interpolates between lo and hi without forming hi-lo, which
// overflows when the values straddle zero near the float64 limits.
func edges(lo, hi float64, bins int) []float64 {
	e := make([]float64, bins+1)
	for i := range e {
		t := float64(i) / float64(bins)
		e[i] = min(lo*(1-t)+hi*t, hi)
		if i > 0 {
			e[i] = max(e[i], e[i-1])
		}
	}
	e[0], e[bins] = lo, hi
	return e
}

func histogramSorted(sorted []float64, bins int) Histogram {
	lo, hi := sorted[0], sorted[len(sorted)-1]

	h := Histogram{
		Edges:  edges(lo, hi, bins),
		Counts: make([]int, bins),
	}

	if lo == hi {
		h.Counts[0] = len(sorted)
		return h
	}

	// stat.Histogram bins are half-open, so the last divider sits one ULP
	// above max to keep max inside the final bin.
	dividers := slices.Clone(h.Edges)
	dividers[bins] = math.Nextafter(hi, math.Inf(1))

	for i, c := range stat.Histogram(nil, dividers, sorted, nil) {
		h.Counts[i] = int(c)
	}
	return h
}

func (h Histogram) Bins() int { return len(h.Counts) }

// Total is the number of values binned.
func (h Histogram) Total() int {
	n := 0
	for _, c := range h.Counts {
		n += c
	}
	return n
}

func (h Histogram) Width() float64 {
	if len(h.Edges) < 2 {
		return 0
	}
	n := float64(len(h.Counts))
	return h.Edges[len(h.Edges)-1]/n - h.Edges[0]/n
}

// Peak returns the largest bin count.
func (h Histogram) Peak() int {
	if len(h.Counts) == 0 {
		return 0
	}
	return slices.Max(h.Counts)
}
