package viz

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles are the lipgloss styles derived from a Theme.
type Styles struct {
	Panel    lipgloss.Style
	Title    lipgloss.Style
	Label    lipgloss.Style
	Value    lipgloss.Style
	Selected lipgloss.Style
	Bar      lipgloss.Style
	KeyHint  lipgloss.Style
	Status   lipgloss.Style
	Error    lipgloss.Style
	Subtle   lipgloss.Style
}

func NewStyles(t Theme) Styles {
	return Styles{
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Muted).
			Padding(0, 2),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Secondary),
		Label: lipgloss.NewStyle().
			Foreground(t.Muted).
			Width(12),
		Value: lipgloss.NewStyle().
			Foreground(t.Text).
			Bold(true),
		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Primary),
		Bar: lipgloss.NewStyle().
			Foreground(t.Primary),
		KeyHint: lipgloss.NewStyle().
			Foreground(t.Muted).
			Italic(true),
		Status: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Success),
		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Error),
		Subtle: lipgloss.NewStyle().
			Foreground(t.Muted),
	}
}

// GradientText colours each rune of text on a linear ramp between two hex colours.
func GradientText(text string, startColor, endColor lipgloss.Color) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}

	sr, sg, sb := parseHex(string(startColor))
	er, eg, eb := parseHex(string(endColor))

	var result strings.Builder
	for i, c := range runes {
		t := 0.0
		if len(runes) > 1 {
			t = float64(i) / float64(len(runes)-1)
		}
		r := lerp(sr, er, t)
		g := lerp(sg, eg, t)
		b := lerp(sb, eb, t)

		style := lipgloss.NewStyle().Foreground(lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r, g, b)))
		result.WriteString(style.Render(string(c)))
	}
	return result.String()
}

// Sparkline renders values as a single row of block characters, sampled to width.
func Sparkline(values []float64, width int) string {
	if width <= 0 {
		return ""
	}
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	step := max(len(values)/width, 1)

	var result strings.Builder
	for i := 0; i < width && i*step < len(values); i++ {
		norm := (values[i*step] - lo) / rng
		idx := int(norm * float64(len(chars)-1))
		idx = min(max(idx, 0), len(chars)-1)
		result.WriteRune(chars[idx])
	}
	return result.String()
}

func parseHex(hex string) (r, g, b int) {
	if len(hex) != 7 || hex[0] != '#' {
		return 255, 255, 255
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return 255, 255, 255
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}

func lerp(a, b int, t float64) int {
	return min(max(int(float64(a)+t*float64(b-a)), 0), 255)
}
