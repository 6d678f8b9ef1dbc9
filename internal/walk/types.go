package walk

import (
	"fmt"
	"math"
	"strings"
)

// Kind selects the distribution every increment of a walk is drawn from.
type Kind int

const (
	// KindGaussian draws increments from Normal(Drift, Volatility).
	KindGaussian Kind = iota
	// KindDiscrete draws +StepSize or -StepSize with equal probability.
	KindDiscrete
)

var kindNames = map[Kind]string{
	KindGaussian: "gaussian",
	KindDiscrete: "discrete",
}

var kindInfo = map[Kind]string{
	KindGaussian: "normal increments with mean=drift, std=volatility",
	KindDiscrete: "coin flip increments of +/- step size",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Description is a one-line explanation of the step distribution.
func (k Kind) Description() string {
	return kindInfo[k]
}

func (k Kind) valid() bool {
	_, ok := kindNames[k]
	return ok
}

// ParseKind maps a kind name to its Kind. Matching is case-insensitive.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return 0, &ParamError{Field: "kind", Value: s, Reason: "unknown step distribution"}
}

// Kinds returns every supported kind in declaration order.
func Kinds() []Kind {
	return []Kind{KindGaussian, KindDiscrete}
}

func (k Kind) MarshalText() ([]byte, error) {
	if !k.valid() {
		return nil, &ParamError{Field: "kind", Value: int(k), Reason: "unknown step distribution"}
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Params describes how each walk in a batch is generated.
type Params struct {
	Kind       Kind    `json:"kind" yaml:"kind"`
	Steps      int     `json:"steps" yaml:"steps"`
	Start      float64 `json:"start" yaml:"start"`
	Drift      float64 `json:"drift" yaml:"drift"`
	Volatility float64 `json:"volatility" yaml:"volatility"`
	StepSize   float64 `json:"step_size" yaml:"step_size"`
}

func DefaultParams() Params {
	return Params{
		Kind:       KindGaussian,
		Steps:      100,
		Start:      0,
		Drift:      0,
		Volatility: 1,
		StepSize:   1,
	}
}

// Validate reports the first parameter that violates the walk invariants.
func (p Params) Validate() error {
	if !p.Kind.valid() {
		return &ParamError{Field: "kind", Value: int(p.Kind), Reason: "unknown step distribution"}
	}
	if p.Steps < 1 {
		return &ParamError{Field: "steps", Value: p.Steps, Reason: "must be at least 1"}
	}
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"start", p.Start},
		{"drift", p.Drift},
		{"volatility", p.Volatility},
		{"step_size", p.StepSize},
	} {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return &ParamError{Field: f.name, Value: f.value, Reason: "must be finite"}
		}
	}
	if p.Volatility < 0 {
		return &ParamError{Field: "volatility", Value: p.Volatility, Reason: "must be non-negative"}
	}
	if p.StepSize < 0 {
		return &ParamError{Field: "step_size", Value: p.StepSize, Reason: "must be non-negative"}
	}
	return nil
}

// Walk is one path: index 0 holds the start value, index i the value after i steps.
type Walk []float64

func (w Walk) Clone() Walk {
	c := make(Walk, len(w))
	copy(c, w)
	return c
}

// Terminal returns the last value of the walk.
func (w Walk) Terminal() float64 {
	if len(w) == 0 {
		return math.NaN()
	}
	return w[len(w)-1]
}

// Increments returns the len(w)-1 step deltas.
func (w Walk) Increments() []float64 {
	if len(w) < 2 {
		return nil
	}
	inc := make([]float64, len(w)-1)
	for i := 1; i < len(w); i++ {
		inc[i-1] = w[i] - w[i-1]
	}
	return inc
}

// Batch holds independent walks drawn under the same Params.
// Walks must not be mutated once the batch is returned.
type Batch struct {
	Params Params `json:"params"`
	Walks  []Walk `json:"walks"`
}

func (b *Batch) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Walks)
}

// Terminals returns the last value of every walk, in batch order.
func (b *Batch) Terminals() []float64 {
	if b == nil {
		return nil
	}
	out := make([]float64, len(b.Walks))
	for i, w := range b.Walks {
		out[i] = w.Terminal()
	}
	return out
}

// Column returns the value of every walk at step i.
func (b *Batch) Column(i int) []float64 {
	out := make([]float64, len(b.Walks))
	for j, w := range b.Walks {
		out[j] = w[i]
	}
	return out
}
