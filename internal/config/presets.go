package config

import (
	"sort"

	"github.com/san-kum/randwalk/internal/walk"
)

var Presets = map[string]*Config{
	"coin_flip": {
		Kind: walk.KindDiscrete, Steps: 100, StepSize: 1, Walks: 200, Bins: 20,
	},
	"standard": {
		Kind: walk.KindGaussian, Steps: 250, Volatility: 1, StepSize: 1, Walks: 500, Bins: 20,
	},
	"bull": {
		Kind: walk.KindGaussian, Steps: 250, Drift: 0.05, Volatility: 1, StepSize: 1, Walks: 500, Bins: 20,
	},
	"bear": {
		Kind: walk.KindGaussian, Steps: 250, Drift: -0.05, Volatility: 1, StepSize: 1, Walks: 500, Bins: 20,
	},
	"volatile": {
		Kind: walk.KindGaussian, Steps: 250, Volatility: 3, StepSize: 1, Walks: 500, Bins: 30,
	},
	"deterministic": {
		Kind: walk.KindGaussian, Steps: 50, Drift: 0.1, Volatility: 0, StepSize: 1, Walks: 5, Bins: 5,
	},
	"price": {
		Kind: walk.KindGaussian, Steps: 252, Start: 100, Drift: 0.02, Volatility: 0.5, StepSize: 1, Walks: 1000, Bins: 40,
	},
}

// GetPreset returns a copy of the named preset with the ambient sections
// taken from DefaultConfig, or nil when the name is unknown.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := p.Clone()
	def := DefaultConfig()
	cfg.Logging = def.Logging
	cfg.Server = def.Server
	return cfg
}

// Apply overlays the walk fields of the named preset onto c, keeping c's
// logging and server sections. It reports whether the preset exists.
func (c *Config) Apply(name string) bool {
	p := GetPreset(name)
	if p == nil {
		return false
	}
	p.Logging = c.Logging
	p.Server = c.Server
	*c = *p
	return true
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
