package stats_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/randwalk/internal/stats"
	"github.com/san-kum/randwalk/internal/walk"
)

func batchEndingAt(terminals ...float64) *walk.Batch {
	b := &walk.Batch{Params: walk.Params{Steps: 1}}
	for _, v := range terminals {
		b.Walks = append(b.Walks, walk.Walk{0, v})
	}
	return b
}

var _ = Describe("Summarize", func() {
	It("returns the common value and zero spread for identical terminals", func() {
		s, err := stats.Summarize(batchEndingAt(3, 3, 3, 3, 3), stats.DefaultBins)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Count).To(Equal(5))
		Expect(s.Mean).To(Equal(3.0))
		Expect(s.StdDev).To(Equal(0.0))
		Expect(s.Min).To(Equal(3.0))
		Expect(s.Max).To(Equal(3.0))
	})

	It("uses the population standard deviation", func() {
		s, err := stats.Summarize(batchEndingAt(1, 2, 3, 4, 5), stats.DefaultBins)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Mean).To(BeNumerically("~", 3.0, 1e-12))
		Expect(s.StdDev).To(BeNumerically("~", math.Sqrt2, 1e-9))
		Expect(s.StdDev).To(BeNumerically("~", 1.4142, 1e-4))
	})

	It("reports order statistics of the terminal values", func() {
		s, err := stats.Summarize(batchEndingAt(5, 1, 4, 2, 3), 4)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Min).To(Equal(1.0))
		Expect(s.Max).To(Equal(5.0))
		Expect(s.Median).To(Equal(3.0))
		Expect(s.Q1).To(BeNumerically("<=", s.Median))
		Expect(s.Q3).To(BeNumerically(">=", s.Median))
	})

	It("ignores every value but the last of each walk", func() {
		b := &walk.Batch{Walks: []walk.Walk{{100, -50, 2}, {-7, 80, 4}}}
		s, err := stats.Summarize(b, 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Mean).To(Equal(3.0))
		Expect(s.StdDev).To(Equal(1.0))
	})

	It("fails with ErrEmptyBatch for an empty or nil batch", func() {
		_, err := stats.Summarize(&walk.Batch{}, stats.DefaultBins)
		Expect(err).To(MatchError(walk.ErrEmptyBatch))

		_, err = stats.Summarize(nil, stats.DefaultBins)
		Expect(err).To(MatchError(walk.ErrEmptyBatch))

		_, err = stats.FromValues(nil, stats.DefaultBins)
		Expect(err).To(MatchError(walk.ErrEmptyBatch))
	})

	It("rejects a non-positive bin count", func() {
		_, err := stats.Summarize(batchEndingAt(1, 2), 0)
		Expect(err).To(MatchError(walk.ErrInvalidParameter))
	})

	It("does not reorder the caller's values", func() {
		values := []float64{3, 1, 2}
		_, err := stats.FromValues(values, 3)
		Expect(err).NotTo(HaveOccurred())
		Expect(values).To(Equal([]float64{3, 1, 2}))
	})
})

var _ = Describe("Summary overflow", func() {
	It("rejects values whose moments overflow", func() {
		_, err := stats.FromValues([]float64{-1e308, 0, 1e308}, 20)
		Expect(err).To(MatchError(walk.ErrInvalidParameter))

		var pe *walk.ParamError
		Expect(errors.As(err, &pe)).To(BeTrue())
		Expect(pe.Field).To(Equal("terminals"))
	})

	It("rejects non-finite terminals", func() {
		_, err := stats.FromValues([]float64{0, math.Inf(1)}, 5)
		Expect(err).To(MatchError(walk.ErrInvalidParameter))
	})

	It("never reports a non-finite summary for huge volatility", func() {
		p := walk.Params{Kind: walk.KindGaussian, Steps: 10, Volatility: 1e307}
		for seed := int64(1); seed <= 10; seed++ {
			b, err := walk.NewSeededGenerator(seed).Generate(p, 50)
			if err != nil {
				Expect(err).To(MatchError(walk.ErrInvalidParameter))
				continue
			}
			s, err := stats.Summarize(b, stats.DefaultBins)
			if err != nil {
				Expect(err).To(MatchError(walk.ErrInvalidParameter))
				continue
			}
			Expect(math.IsInf(s.Mean, 0) || math.IsNaN(s.Mean)).To(BeFalse())
			Expect(math.IsInf(s.StdDev, 0) || math.IsNaN(s.StdDev)).To(BeFalse())
		}
	})
})

var _ = Describe("Histogram", func() {
	It("spans exactly [min, max] with equal-width bins", func() {
		h, err := stats.NewHistogram([]float64{-2, 0.5, 3, 7.25, 8}, 5)
		Expect(err).NotTo(HaveOccurred())
		Expect(h.Edges).To(HaveLen(6))
		Expect(h.Counts).To(HaveLen(5))
		Expect(h.Edges[0]).To(Equal(-2.0))
		Expect(h.Edges[5]).To(Equal(8.0))
		Expect(h.Width()).To(BeNumerically("~", 2.0, 1e-12))
		for i := 1; i < len(h.Edges); i++ {
			Expect(h.Edges[i] - h.Edges[i-1]).To(BeNumerically("~", 2.0, 1e-9))
		}
	})

	It("counts the maximum in the last bin", func() {
		h, err := stats.NewHistogram([]float64{0, 1, 2, 3, 4}, 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(h.Counts).To(Equal([]int{2, 3}))
	})

	It("puts values on an inner edge into the upper bin", func() {
		h, err := stats.NewHistogram([]float64{0, 1, 1, 4}, 4)
		Expect(err).NotTo(HaveOccurred())
		Expect(h.Counts).To(Equal([]int{1, 2, 0, 1}))
	})

	It("handles a single distinct value without error", func() {
		h, err := stats.NewHistogram([]float64{3, 3, 3}, stats.DefaultBins)
		Expect(err).NotTo(HaveOccurred())
		Expect(h.Total()).To(Equal(3))
		Expect(h.Counts[0]).To(Equal(3))
		Expect(h.Peak()).To(Equal(3))
		Expect(h.Edges[0]).To(Equal(3.0))
		Expect(h.Edges[len(h.Edges)-1]).To(Equal(3.0))
	})

	It("supports a single bin", func() {
		h, err := stats.NewHistogram([]float64{-1, 0, 9}, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(h.Edges).To(Equal([]float64{-1, 9}))
		Expect(h.Counts).To(Equal([]int{3}))
	})

	It("always accounts for every generated walk", func() {
		for seed := int64(1); seed <= 5; seed++ {
			b, err := walk.NewSeededGenerator(seed).Generate(walk.DefaultParams(), 257)
			Expect(err).NotTo(HaveOccurred())

			s, err := stats.Summarize(b, stats.DefaultBins)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Histogram.Total()).To(Equal(257))
			Expect(s.Histogram.Bins()).To(Equal(stats.DefaultBins))
			Expect(s.Histogram.Edges[0]).To(Equal(s.Min))
			Expect(s.Histogram.Edges[stats.DefaultBins]).To(Equal(s.Max))
		}
	})

	It("bins values spread across the whole float64 range", func() {
		var (
			h   stats.Histogram
			err error
		)
		Expect(func() {
			h, err = stats.NewHistogram([]float64{-1e308, 0, 1e308}, 20)
		}).NotTo(Panic())
		Expect(err).NotTo(HaveOccurred())
		Expect(h.Total()).To(Equal(3))
		Expect(h.Edges[0]).To(Equal(-1e308))
		Expect(h.Edges[20]).To(Equal(1e308))
		for i := 1; i < len(h.Edges); i++ {
			Expect(h.Edges[i]).To(BeNumerically(">=", h.Edges[i-1]))
			Expect(math.IsInf(h.Edges[i], 0)).To(BeFalse())
		}
		Expect(h.Counts[0]).To(Equal(1))
		Expect(h.Counts[10]).To(Equal(1))
		Expect(h.Counts[19]).To(Equal(1))
		Expect(math.IsInf(h.Width(), 0)).To(BeFalse())
	})

	It("rejects non-finite values", func() {
		_, err := stats.NewHistogram([]float64{1, math.NaN()}, 3)
		Expect(err).To(MatchError(walk.ErrInvalidParameter))

		_, err = stats.NewHistogram([]float64{math.Inf(-1), 1}, 3)
		Expect(err).To(MatchError(walk.ErrInvalidParameter))
	})

	It("rejects empty input and zero bins", func() {
		_, err := stats.NewHistogram(nil, 3)
		Expect(err).To(MatchError(walk.ErrEmptyBatch))

		_, err = stats.NewHistogram([]float64{1}, 0)
		Expect(err).To(MatchError(walk.ErrInvalidParameter))
	})
})

var _ = Describe("Envelope", func() {
	It("computes per-step cross-walk mean and spread", func() {
		b := &walk.Batch{Walks: []walk.Walk{{0, 1, 4}, {0, 3, 0}}}
		bands, err := stats.Envelope(b)
		Expect(err).NotTo(HaveOccurred())
		Expect(bands).To(HaveLen(3))

		Expect(bands[0].Mean).To(Equal(0.0))
		Expect(bands[0].StdDev).To(Equal(0.0))
		Expect(bands[1].Mean).To(Equal(2.0))
		Expect(bands[1].StdDev).To(Equal(1.0))
		Expect(bands[2].Lower()).To(Equal(0.0))
		Expect(bands[2].Upper()).To(Equal(4.0))
	})

	It("collapses to the deterministic path when volatility is zero", func() {
		p := walk.Params{Kind: walk.KindGaussian, Steps: 10, Start: 1, Drift: 0.5}
		b, err := walk.Generate(p, 4)
		Expect(err).NotTo(HaveOccurred())

		bands, err := stats.Envelope(b)
		Expect(err).NotTo(HaveOccurred())
		for i, band := range bands {
			Expect(band.Mean).To(Equal(1 + 0.5*float64(i)))
			Expect(band.StdDev).To(Equal(0.0))
		}
	})

	It("fails on an empty batch", func() {
		_, err := stats.Envelope(&walk.Batch{})
		Expect(err).To(MatchError(walk.ErrEmptyBatch))
	})
})
