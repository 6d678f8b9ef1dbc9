package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/san-kum/randwalk/internal/config"
	"github.com/san-kum/randwalk/internal/experiment"
	"github.com/san-kum/randwalk/internal/stats"
	"github.com/san-kum/randwalk/internal/walk"
)

// WalkRequest overlays the server defaults. Absent fields keep the default;
// a preset is applied before the explicit fields.
type WalkRequest struct {
	Preset     string     `json:"preset"`
	Kind       *walk.Kind `json:"kind"`
	Steps      *int       `json:"steps"`
	Start      *float64   `json:"start"`
	Drift      *float64   `json:"drift"`
	Volatility *float64   `json:"volatility"`
	StepSize   *float64   `json:"step_size"`
	Walks      *int       `json:"walks"`
	Bins       *int       `json:"bins"`
	Seed       *int64     `json:"seed"`
}

type SummaryRequest struct {
	Terminals []float64 `json:"terminals"`
	Bins      *int      `json:"bins"`
}

type WalksResponse struct {
	ID     string      `json:"id"`
	Seed   int64       `json:"seed,omitempty"`
	Params walk.Params `json:"params"`
	Walks  []walk.Walk `json:"walks"`
}

type SimulationResponse struct {
	ID       string         `json:"id"`
	Seed     int64          `json:"seed,omitempty"`
	Params   walk.Params    `json:"params"`
	Summary  *stats.Summary `json:"summary"`
	Envelope []stats.Band   `json:"envelope"`
	Walks    []walk.Walk    `json:"walks,omitempty"`
}

type KindInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// resolve builds the effective config for one request and enforces the
// server limits.
func (s *Server) resolve(req WalkRequest) (*config.Config, error) {
	cfg := s.defaults.Clone()
	if req.Preset != "" && !cfg.Apply(req.Preset) {
		return nil, &walk.ParamError{Field: "preset", Value: req.Preset, Reason: "unknown preset"}
	}

	if req.Kind != nil {
		cfg.Kind = *req.Kind
	}
	if req.Steps != nil {
		cfg.Steps = *req.Steps
	}
	if req.Start != nil {
		cfg.Start = *req.Start
	}
	if req.Drift != nil {
		cfg.Drift = *req.Drift
	}
	if req.Volatility != nil {
		cfg.Volatility = *req.Volatility
	}
	if req.StepSize != nil {
		cfg.StepSize = *req.StepSize
	}
	if req.Walks != nil {
		cfg.Walks = *req.Walks
	}
	if req.Bins != nil {
		cfg.Bins = *req.Bins
	}
	if req.Seed != nil {
		cfg.Seed = *req.Seed
	}

	if cfg.Steps > s.cfg.MaxSteps {
		return nil, &walk.ParamError{Field: "steps", Value: cfg.Steps, Reason: fmt.Sprintf("exceeds server limit %d", s.cfg.MaxSteps)}
	}
	if cfg.Walks > s.cfg.MaxWalks {
		return nil, &walk.ParamError{Field: "walks", Value: cfg.Walks, Reason: fmt.Sprintf("exceeds server limit %d", s.cfg.MaxWalks)}
	}
	if cfg.Steps > 0 && cfg.Walks > 0 {
		if n := int64(cfg.Steps+1) * int64(cfg.Walks); n > int64(s.cfg.MaxValues) {
			return nil, &walk.ParamError{Field: "steps*walks", Value: n, Reason: fmt.Sprintf("exceeds server limit %d values", s.cfg.MaxValues)}
		}
	}
	return cfg, nil
}

// bind decodes an optional JSON body; an empty body leaves v untouched.
func bind(c *gin.Context, v any) error {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return nil
	}
	if err := c.ShouldBindJSON(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, walk.ErrInvalidParameter):
		return http.StatusBadRequest
	case errors.Is(err, walk.ErrEmptyBatch):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(c *gin.Context, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "request_id", c.GetString(requestIDKey), "error", err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func (s *Server) countBatch(b *walk.Batch) {
	s.metrics.walksGenerated.Add(float64(b.Len()))
	s.metrics.stepsGenerated.Add(float64(b.Len() * b.Params.Steps))
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) presets(c *gin.Context) {
	out := make(map[string]*config.Config, len(config.Presets))
	for _, name := range config.ListPresets() {
		out[name] = config.GetPreset(name)
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) kinds(c *gin.Context) {
	var out []KindInfo
	for _, k := range walk.Kinds() {
		out = append(out, KindInfo{Name: k.String(), Description: k.Description()})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) walks(c *gin.Context) {
	var req WalkRequest
	if err := bind(c, &req); err != nil {
		s.fail(c, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	cfg, err := s.resolve(req)
	if err != nil {
		s.fail(c, statusFor(err), err)
		return
	}

	gen := walk.NewGenerator()
	if cfg.Seed != 0 {
		gen = walk.NewSeededGenerator(cfg.Seed)
	}
	batch, err := gen.Generate(cfg.Params(), cfg.Walks)
	if err != nil {
		s.fail(c, statusFor(err), err)
		return
	}
	s.countBatch(batch)

	c.JSON(http.StatusOK, WalksResponse{
		ID:     uuid.NewString(),
		Seed:   cfg.Seed,
		Params: batch.Params,
		Walks:  batch.Walks,
	})
}

func (s *Server) simulations(c *gin.Context) {
	var req WalkRequest
	if err := bind(c, &req); err != nil {
		s.fail(c, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	cfg, err := s.resolve(req)
	if err != nil {
		s.fail(c, statusFor(err), err)
		return
	}

	result, err := experiment.New(experiment.FromConfig(cfg)).Run()
	if err != nil {
		s.fail(c, statusFor(err), err)
		return
	}
	s.countBatch(result.Batch)
	s.logger.Debug("simulation", "request_id", c.GetString(requestIDKey), "result_id", result.ID, "elapsed", result.Elapsed)

	resp := SimulationResponse{
		ID:       result.ID,
		Seed:     result.Seed,
		Params:   result.Batch.Params,
		Summary:  result.Summary,
		Envelope: result.Envelope,
	}
	if c.Query("walks") == "true" {
		resp.Walks = result.Batch.Walks
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) summaries(c *gin.Context) {
	var req SummaryRequest
	if err := bind(c, &req); err != nil {
		s.fail(c, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if len(req.Terminals) > s.cfg.MaxValues {
		err := &walk.ParamError{Field: "terminals", Value: len(req.Terminals), Reason: fmt.Sprintf("exceeds server limit %d values", s.cfg.MaxValues)}
		s.fail(c, statusFor(err), err)
		return
	}
	bins := s.defaults.Bins
	if req.Bins != nil {
		bins = *req.Bins
	}

	summary, err := stats.FromValues(req.Terminals, bins)
	if err != nil {
		s.fail(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
