// Package experiment bundles one generate-and-summarize request.
//
// An Experiment owns its generator and result; nothing is shared between
// experiments, so hosts create one per request or interaction.
package experiment

import (
	"time"

	"github.com/google/uuid"
	"github.com/san-kum/randwalk/internal/config"
	"github.com/san-kum/randwalk/internal/stats"
	"github.com/san-kum/randwalk/internal/walk"
)

type Config struct {
	Params walk.Params
	Walks  int
	Bins   int
	// Seed 0 draws from process entropy.
	Seed int64
}

// FromConfig extracts the experiment settings from a loaded config.
func FromConfig(c *config.Config) Config {
	return Config{
		Params: c.Params(),
		Walks:  c.Walks,
		Bins:   c.Bins,
		Seed:   c.Seed,
	}
}

type Result struct {
	ID       string
	Seed     int64
	Batch    *walk.Batch
	Summary  *stats.Summary
	Envelope []stats.Band
	Elapsed  time.Duration
}

type Experiment struct {
	cfg Config
	gen *walk.Generator
}

func New(cfg Config) *Experiment {
	gen := walk.NewGenerator()
	if cfg.Seed != 0 {
		gen = walk.NewSeededGenerator(cfg.Seed)
	}
	return &Experiment{cfg: cfg, gen: gen}
}

// Run generates the batch and summarizes it. Bins are checked before any
// walk is drawn.
func (e *Experiment) Run() (*Result, error) {
	if e.cfg.Bins < 1 {
		return nil, &walk.ParamError{Field: "bins", Value: e.cfg.Bins, Reason: "must be at least 1"}
	}

	start := time.Now()

	batch, err := e.gen.Generate(e.cfg.Params, e.cfg.Walks)
	if err != nil {
		return nil, err
	}

	summary, err := stats.Summarize(batch, e.cfg.Bins)
	if err != nil {
		return nil, err
	}

	envelope, err := stats.Envelope(batch)
	if err != nil {
		return nil, err
	}

	return &Result{
		ID:       uuid.NewString(),
		Seed:     e.cfg.Seed,
		Batch:    batch,
		Summary:  summary,
		Envelope: envelope,
		Elapsed:  time.Since(start),
	}, nil
}

func (e *Experiment) Config() Config {
	return e.cfg
}
