// Package viz renders walk batches and summaries for the terminal.
//
// Path and envelope charts are drawn with asciigraph; histograms and the
// summary panel are lipgloss blocks. Everything returns plain strings so the
// CLI and the dashboard share the same renderings:
//
//   - [PlotWalks]: overlay of up to MaxSeries paths
//   - [PlotEnvelope]: mean path with a one sigma band
//   - [RenderHistogram]: one bar per bin of terminal values
//   - [SummaryPanel]: parameters and terminal statistics
//
// Five colour themes are built in; see [ThemeNames].
package viz
