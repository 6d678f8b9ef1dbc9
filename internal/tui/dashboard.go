// Package tui implements the interactive walk dashboard.
package tui

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/randwalk/internal/config"
	"github.com/san-kum/randwalk/internal/experiment"
	"github.com/san-kum/randwalk/internal/viz"
	"github.com/san-kum/randwalk/internal/walk"
)

type view int

const (
	viewPaths view = iota
	viewEnvelope
	viewHistogram
	numViews
)

func (v view) String() string {
	switch v {
	case viewEnvelope:
		return "envelope"
	case viewHistogram:
		return "histogram"
	default:
		return "paths"
	}
}

// field is one adjustable config value and its arrow-key increment.
type field struct {
	name  string
	delta float64
}

var fields = []field{
	{"steps", 10},
	{"start", 1},
	{"drift", 0.01},
	{"volatility", 0.1},
	{"step_size", 0.1},
	{"walks", 10},
	{"bins", 1},
}

// Model is the dashboard state. Every regenerate builds a fresh Experiment
// from cfg; nothing outlives the model.
type Model struct {
	cfg    *config.Config
	result *experiment.Result
	err    error
	status string

	view  view
	theme viz.Theme

	cursor  int
	editing bool
	editBuf string

	width  int
	height int
}

func New(cfg *config.Config) Model {
	m := Model{
		cfg:    cfg.Clone(),
		theme:  viz.DefaultTheme,
		width:  100,
		height: 32,
	}
	m.regenerate()
	return m
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.editing {
			return m.editKey(msg), nil
		}
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down":
		if m.cursor < len(fields)-1 {
			m.cursor++
		}
	case "left":
		m.adjust(-1)
	case "right":
		m.adjust(1)
	case "enter":
		m.editing = true
		v, _ := m.cfg.Get(fields[m.cursor].name)
		m.editBuf = strconv.FormatFloat(v, 'f', -1, 64)
	case "k":
		kinds := walk.Kinds()
		for i, k := range kinds {
			if k == m.cfg.Kind {
				m.cfg.Kind = kinds[(i+1)%len(kinds)]
				break
			}
		}
		m.regenerate()
	case "g", "r":
		m.regenerate()
	case "v":
		m.view = (m.view + 1) % numViews
	case "t":
		m.theme = viz.NextTheme(m.theme.Name)
	case "s":
		if m.cfg.Seed == 0 {
			m.cfg.Seed = rand.Int64N(1<<31) + 1
		} else {
			m.cfg.Seed = 0
		}
		m.regenerate()
	}
	return m, nil
}

func (m Model) editKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "enter":
		m.editing = false
		v, err := strconv.ParseFloat(m.editBuf, 64)
		m.editBuf = ""
		if err != nil {
			m.err = fmt.Errorf("%s: not a number", fields[m.cursor].name)
			return m
		}
		m.set(v)
	case "esc":
		m.editing = false
		m.editBuf = ""
	case "backspace":
		if len(m.editBuf) > 0 {
			m.editBuf = m.editBuf[:len(m.editBuf)-1]
		}
	default:
		for _, c := range msg.Runes {
			if (c >= '0' && c <= '9') || c == '.' || c == '-' || c == 'e' {
				m.editBuf += string(c)
			}
		}
	}
	return m
}

func (m *Model) adjust(sign float64) {
	f := fields[m.cursor]
	v, err := m.cfg.Get(f.name)
	if err != nil {
		m.err = err
		return
	}
	m.set(v + sign*f.delta)
}

// set assigns the selected field and regenerates. A rejected value is rolled
// back so the dashboard keeps showing a valid configuration.
func (m *Model) set(v float64) {
	prev := m.cfg.Clone()
	if err := m.cfg.Set(fields[m.cursor].name, v); err != nil {
		m.err = err
		return
	}
	if !m.regenerate() {
		m.cfg = prev
	}
}

func (m *Model) regenerate() bool {
	result, err := experiment.New(experiment.FromConfig(m.cfg)).Run()
	if err != nil {
		m.err = err
		return false
	}
	m.result = result
	m.err = nil
	seed := "random"
	if m.cfg.Seed != 0 {
		seed = strconv.FormatInt(m.cfg.Seed, 10)
	}
	m.status = fmt.Sprintf("%d walks in %s  seed %s", result.Batch.Len(), result.Elapsed.Round(time.Microsecond), seed)
	return true
}

func (m Model) View() string {
	styles := viz.NewStyles(m.theme)

	var b strings.Builder
	b.WriteString("\n  " + viz.GradientText("r a n d w a l k", m.theme.Primary, m.theme.Secondary))
	b.WriteString("  " + styles.Subtle.Render(m.cfg.Kind.Description()) + "\n\n")

	body := lipgloss.JoinHorizontal(lipgloss.Top, m.viewParams(styles), "   ", m.viewChart())
	b.WriteString(body + "\n\n")

	if m.result != nil {
		b.WriteString(viz.SummaryPanel(m.result.Summary, m.result.Batch.Params, m.theme) + "\n")
	}

	if m.err != nil {
		b.WriteString("  " + styles.Error.Render("error: "+m.err.Error()) + "\n")
	} else {
		b.WriteString("  " + styles.Status.Render(m.status) + "  " + styles.Value.Render(m.meanTrend()) + "\n")
	}

	b.WriteString(styles.KeyHint.Render("  ↑↓ select  ←→ adjust  enter edit  k kind  g regenerate  v view  t theme  s seed  q quit") + "\n")
	return b.String()
}

const trendWidth = 24

// meanTrend sketches the cross-walk mean per step.
func (m Model) meanTrend() string {
	if m.result == nil {
		return ""
	}
	means := make([]float64, len(m.result.Envelope))
	for i, band := range m.result.Envelope {
		means[i] = band.Mean
	}
	return viz.Sparkline(means, trendWidth)
}

func (m Model) viewParams(styles viz.Styles) string {
	var b strings.Builder
	b.WriteString(styles.Title.Render("kind") + "  " + styles.Value.Render(m.cfg.Kind.String()) + "\n\n")

	for i, f := range fields {
		v, _ := m.cfg.Get(f.name)
		val := fmt.Sprintf("%10s", strconv.FormatFloat(v, 'g', 6, 64))
		if m.editing && i == m.cursor {
			val = fmt.Sprintf("%10s", m.editBuf+"▋")
		}
		if i == m.cursor {
			b.WriteString(styles.Selected.Render("▸ "+fmt.Sprintf("%-11s", f.name)) + styles.Selected.Render(val) + "\n")
		} else {
			b.WriteString("  " + styles.Label.Render(f.name) + styles.Value.Render(val) + "\n")
		}
	}

	b.WriteString("\n" + styles.Subtle.Render("view  "+m.view.String()) + "\n")
	b.WriteString(styles.Subtle.Render("theme "+m.theme.Name) + "\n")
	return b.String()
}

func (m Model) viewChart() string {
	if m.result == nil {
		return ""
	}
	opts := viz.PlotOptions{
		Width:  max(m.width-50, 30),
		Height: max(m.height-24, 8),
		Theme:  m.theme,
	}
	switch m.view {
	case viewEnvelope:
		return viz.PlotEnvelope(m.result.Envelope, opts)
	case viewHistogram:
		return viz.RenderHistogram(m.result.Summary.Histogram, max(opts.Width-30, 10), m.theme)
	default:
		return viz.PlotWalks(m.result.Batch, opts)
	}
}

// Run starts the dashboard on the alternate screen.
func Run(cfg *config.Config) error {
	p := tea.NewProgram(New(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
