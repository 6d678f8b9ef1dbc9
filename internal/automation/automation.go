package automation

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/san-kum/randwalk/internal/config"
	"github.com/san-kum/randwalk/internal/experiment"
	"gopkg.in/yaml.v3"
)

// Scenario defines a scripted sequence of experiments
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Runs        []Run  `yaml:"runs"`
}

// Run is a single experiment in a scenario. It starts from Preset (or the
// defaults) and overlays every other field present in the yaml.
type Run struct {
	Label  string
	Preset string
	Config *config.Config
}

func (r *Run) UnmarshalYAML(node *yaml.Node) error {
	var head struct {
		Label  string `yaml:"label"`
		Preset string `yaml:"preset"`
	}
	if err := node.Decode(&head); err != nil {
		return err
	}

	base := config.DefaultConfig()
	if head.Preset != "" {
		if !base.Apply(head.Preset) {
			return fmt.Errorf("unknown preset %q (available: %v)", head.Preset, config.ListPresets())
		}
	}
	if err := node.Decode(base); err != nil {
		return err
	}

	r.Label = head.Label
	r.Preset = head.Preset
	r.Config = base
	return nil
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Runs) == 0 {
		return nil, fmt.Errorf("scenario %q has no runs", scenario.Name)
	}
	return &scenario, nil
}

// RunScenario executes all runs in order and stops at the first failure.
func RunScenario(ctx context.Context, scenario *Scenario, logger *slog.Logger) ([]*experiment.Result, error) {
	results := make([]*experiment.Result, 0, len(scenario.Runs))

	for i, run := range scenario.Runs {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		logger.Debug("scenario run starting",
			"run", i+1,
			"label", run.Label,
			"kind", run.Config.Kind,
			"steps", run.Config.Steps,
			"walks", run.Config.Walks,
			"seed", run.Config.Seed,
		)
		result, err := experiment.New(experiment.FromConfig(run.Config)).Run()
		if err != nil {
			return results, fmt.Errorf("run %d (%s): %w", i+1, run.Label, err)
		}

		logger.Info("scenario run complete",
			"run", i+1,
			"of", len(scenario.Runs),
			"label", run.Label,
			"id", result.ID,
			"mean", result.Summary.Mean,
			"std", result.Summary.StdDev,
		)
		results = append(results, result)
	}

	return results, nil
}

// ParameterSweep varies one config parameter over an evenly spaced range.
type ParameterSweep struct {
	Base     *config.Config
	Param    string
	Min      float64
	Max      float64
	NumSteps int
}

// SweepResult holds the terminal statistics at one parameter value
type SweepResult struct {
	Value  float64
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

// Values returns the parameter values the sweep visits.
func (s *ParameterSweep) Values() []float64 {
	if s.NumSteps == 1 {
		return []float64{s.Min}
	}
	vals := make([]float64, s.NumSteps)
	step := (s.Max - s.Min) / float64(s.NumSteps-1)
	for i := range vals {
		vals[i] = s.Min + float64(i)*step
	}
	vals[len(vals)-1] = s.Max
	return vals
}

// RunSweep executes a parameter sweep. With a seeded base config, point i
// uses Base.Seed+i so the whole sweep is reproducible.
func RunSweep(ctx context.Context, sweep *ParameterSweep, logger *slog.Logger) ([]SweepResult, error) {
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("sweep needs at least 1 step, got %d", sweep.NumSteps)
	}
	if _, err := sweep.Base.Get(sweep.Param); err != nil {
		return nil, err
	}

	values := sweep.Values()
	results := make([]SweepResult, 0, len(values))

	for i, v := range values {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		cfg := sweep.Base.Clone()
		if err := cfg.Set(sweep.Param, v); err != nil {
			return results, fmt.Errorf("sweep %s=%.4f: %w", sweep.Param, v, err)
		}
		if cfg.Seed != 0 {
			cfg.Seed += int64(i)
		}

		result, err := experiment.New(experiment.FromConfig(cfg)).Run()
		if err != nil {
			return results, fmt.Errorf("sweep %s=%.4f: %w", sweep.Param, v, err)
		}

		results = append(results, SweepResult{
			Value:  v,
			Mean:   result.Summary.Mean,
			StdDev: result.Summary.StdDev,
			Min:    result.Summary.Min,
			Max:    result.Summary.Max,
		})

		logger.Debug("sweep point", "step", i+1, "of", len(values), "param", sweep.Param, "value", v)
	}

	return results, nil
}
