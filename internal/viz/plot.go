package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/randwalk/internal/stats"
	"github.com/san-kum/randwalk/internal/walk"
)

const (
	DefaultPlotWidth  = 80
	DefaultPlotHeight = 15
	DefaultMaxSeries  = 10
)

type PlotOptions struct {
	Width     int
	Height    int
	MaxSeries int
	Caption   string
	Theme     Theme
}

func (o PlotOptions) withDefaults() PlotOptions {
	if o.Width <= 0 {
		o.Width = DefaultPlotWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultPlotHeight
	}
	if o.MaxSeries <= 0 {
		o.MaxSeries = DefaultMaxSeries
	}
	if o.Theme.Name == "" {
		o.Theme = DefaultTheme
	}
	return o
}

// PlotWalks overlays the first MaxSeries walks of b.
func PlotWalks(b *walk.Batch, opts PlotOptions) string {
	if b.Len() == 0 {
		return ""
	}
	opts = opts.withDefaults()

	n := min(b.Len(), opts.MaxSeries)
	series := make([][]float64, n)
	colors := make([]asciigraph.AnsiColor, n)
	for i := range n {
		series[i] = b.Walks[i]
		colors[i] = opts.Theme.seriesColor(i)
	}

	caption := opts.Caption
	if caption == "" {
		caption = fmt.Sprintf("%s walk, %d of %d paths", b.Params.Kind, n, b.Len())
	}

	return asciigraph.PlotMany(series,
		asciigraph.Height(opts.Height),
		asciigraph.Width(opts.Width),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(colors...),
	)
}

// PlotEnvelope draws the cross-walk mean with its one sigma band.
func PlotEnvelope(bands []stats.Band, opts PlotOptions) string {
	if len(bands) == 0 {
		return ""
	}
	opts = opts.withDefaults()

	lower := make([]float64, len(bands))
	mean := make([]float64, len(bands))
	upper := make([]float64, len(bands))
	for i, b := range bands {
		lower[i] = b.Lower()
		mean[i] = b.Mean
		upper[i] = b.Upper()
	}

	caption := opts.Caption
	if caption == "" {
		caption = "mean ± 1σ"
	}

	t := opts.Theme
	return asciigraph.PlotMany([][]float64{lower, mean, upper},
		asciigraph.Height(opts.Height),
		asciigraph.Width(opts.Width),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(t.seriesColor(1), t.seriesColor(0), t.seriesColor(1)),
		asciigraph.SeriesLegends("-1σ", "mean", "+1σ"),
	)
}

// RenderHistogram draws one row per bin: range, bar and count. width is the
// length of the longest bar.
func RenderHistogram(h stats.Histogram, width int, theme Theme) string {
	if h.Bins() == 0 {
		return ""
	}
	if width <= 0 {
		width = 40
	}
	styles := NewStyles(theme)
	peak := h.Peak()

	var sb strings.Builder
	for i, c := range h.Counts {
		n := 0
		if peak > 0 {
			n = c * width / peak
		}
		if c > 0 && n == 0 {
			n = 1
		}
		label := fmt.Sprintf("[%9.3f, %9.3f%s", h.Edges[i], h.Edges[i+1], closing(i, h.Bins()))
		bar := styles.Bar.Render(strings.Repeat("█", n)) + strings.Repeat(" ", width-n)
		fmt.Fprintf(&sb, "%s %s %d\n", styles.Subtle.Render(label), bar, c)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func closing(i, bins int) string {
	if i == bins-1 {
		return "]"
	}
	return ")"
}

// SummaryPanel renders the walk parameters next to the terminal statistics.
func SummaryPanel(s *stats.Summary, p walk.Params, theme Theme) string {
	styles := NewStyles(theme)

	row := func(label string, value any) string {
		var v string
		switch x := value.(type) {
		case float64:
			v = fmt.Sprintf("%.4f", x)
		default:
			v = fmt.Sprint(x)
		}
		return styles.Label.Render(label) + styles.Value.Render(v)
	}

	params := lipgloss.JoinVertical(lipgloss.Left,
		styles.Title.Render("PARAMETERS"),
		row("kind", p.Kind),
		row("steps", p.Steps),
		row("start", p.Start),
		row("drift", p.Drift),
		row("volatility", p.Volatility),
		row("step size", p.StepSize),
	)

	if s == nil {
		return styles.Panel.Render(params)
	}

	terminal := lipgloss.JoinVertical(lipgloss.Left,
		styles.Title.Render("TERMINAL VALUES"),
		row("walks", s.Count),
		row("mean", s.Mean),
		row("std dev", s.StdDev),
		row("min", s.Min),
		row("q1", s.Q1),
		row("median", s.Median),
		row("q3", s.Q3),
		row("max", s.Max),
	)

	return styles.Panel.Render(lipgloss.JoinHorizontal(lipgloss.Top, params, "    ", terminal))
}
