// Package export writes walk batches and summaries as CSV or JSON tables.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/randwalk/internal/experiment"
	"github.com/san-kum/randwalk/internal/stats"
	"github.com/san-kum/randwalk/internal/walk"
)

type Document struct {
	ID         string         `json:"id"`
	Seed       int64          `json:"seed,omitempty"`
	Kind       walk.Kind      `json:"kind"`
	Steps      int            `json:"steps"`
	Start      float64        `json:"start"`
	Drift      float64        `json:"drift"`
	Volatility float64        `json:"volatility"`
	StepSize   float64        `json:"step_size"`
	NumWalks   int            `json:"num_walks"`
	Summary    *stats.Summary `json:"summary"`
	Envelope   []stats.Band   `json:"envelope,omitempty"`
	Walks      []walk.Walk    `json:"walks,omitempty"`
}

func NewDocument(result *experiment.Result, includeWalks bool) Document {
	p := result.Batch.Params
	doc := Document{
		ID:         result.ID,
		Seed:       result.Seed,
		Kind:       p.Kind,
		Steps:      p.Steps,
		Start:      p.Start,
		Drift:      p.Drift,
		Volatility: p.Volatility,
		StepSize:   p.StepSize,
		NumWalks:   result.Batch.Len(),
		Summary:    result.Summary,
	}
	if includeWalks {
		doc.Envelope = result.Envelope
		doc.Walks = result.Batch.Walks
	}
	return doc
}

func WriteJSON(w io.Writer, result *experiment.Result, includeWalks bool) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewDocument(result, includeWalks))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// WriteCSV writes one row per step index and one column per walk.
func WriteCSV(w io.Writer, b *walk.Batch) error {
	if b.Len() == 0 {
		return walk.ErrEmptyBatch
	}

	cw := csv.NewWriter(w)

	header := make([]string, 0, b.Len()+1)
	header = append(header, "step")
	for i := range b.Walks {
		header = append(header, fmt.Sprintf("walk_%d", i))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	row := make([]string, b.Len()+1)
	for step := range b.Walks[0] {
		row[0] = strconv.Itoa(step)
		for j, path := range b.Walks {
			row[j+1] = formatFloat(path[step])
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteHistogramCSV writes one lo,hi,count row per bin.
func WriteHistogramCSV(w io.Writer, h stats.Histogram) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"lo", "hi", "count"}); err != nil {
		return err
	}
	for i, c := range h.Counts {
		row := []string{formatFloat(h.Edges[i]), formatFloat(h.Edges[i+1]), strconv.Itoa(c)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteEnvelopeCSV writes step,mean,std,lower,upper rows.
func WriteEnvelopeCSV(w io.Writer, bands []stats.Band) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"step", "mean", "std", "lower", "upper"}); err != nil {
		return err
	}
	for _, b := range bands {
		row := []string{
			strconv.Itoa(b.Step),
			formatFloat(b.Mean),
			formatFloat(b.StdDev),
			formatFloat(b.Lower()),
			formatFloat(b.Upper()),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
