package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/san-kum/randwalk/internal/config"
	"github.com/san-kum/randwalk/internal/walk"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func executeSplit(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func csvRows(t *testing.T, s string) [][]string {
	t.Helper()
	records, err := csv.NewReader(strings.NewReader(s)).ReadAll()
	if err != nil {
		t.Fatalf("invalid csv: %v", err)
	}
	return records
}

func TestExportCSV(t *testing.T) {
	out, err := execute(t, "export-csv", "--steps", "3", "--walks", "2", "--seed", "1")
	if err != nil {
		t.Fatal(err)
	}
	rows := csvRows(t, out)
	if len(rows) != 5 {
		t.Fatalf("rows got %d, want 5", len(rows))
	}
	if strings.Join(rows[0], ",") != "step,walk_0,walk_1" {
		t.Errorf("header got %v", rows[0])
	}
}

func TestExportCSV_Envelope(t *testing.T) {
	out, err := execute(t, "export-csv", "--envelope", "--steps", "4", "--walks", "3")
	if err != nil {
		t.Fatal(err)
	}
	rows := csvRows(t, out)
	if len(rows) != 6 || rows[0][0] != "step" || rows[0][1] != "mean" {
		t.Errorf("unexpected envelope csv: %v", rows)
	}
}

func TestConfigPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("steps: 7\nwalks: 1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
		rows int
	}{
		{"config file", []string{"--config", path}, 8},
		{"preset over config", []string{"--config", path, "--preset", "deterministic"}, 51},
		{"flag over preset", []string{"--config", path, "--preset", "deterministic", "--steps", "3"}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"export-csv"}, tt.args...)
			out, err := execute(t, args...)
			if err != nil {
				t.Fatal(err)
			}
			if got := len(csvRows(t, out)) - 1; got != tt.rows {
				t.Errorf("rows got %d, want %d", got, tt.rows)
			}
		})
	}
}

func TestExportJSON(t *testing.T) {
	out, err := execute(t, "export-json", "--preset", "deterministic", "--no-walks")
	if err != nil {
		t.Fatal(err)
	}
	var doc struct {
		Kind    string `json:"kind"`
		Steps   int    `json:"steps"`
		Walks   []any  `json:"walks"`
		Summary struct {
			Mean   float64 `json:"mean"`
			StdDev float64 `json:"std_dev"`
		} `json:"summary"`
	}
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if doc.Kind != "gaussian" || doc.Steps != 50 || doc.Walks != nil {
		t.Errorf("unexpected document: %+v", doc)
	}
	if d := doc.Summary.Mean - 5; d > 1e-9 || d < -1e-9 {
		t.Errorf("mean got %v, want 5", doc.Summary.Mean)
	}
}

func TestHist(t *testing.T) {
	out, err := execute(t, "hist", "--csv", "--walks", "40", "--bins", "4", "--seed", "9")
	if err != nil {
		t.Fatal(err)
	}
	rows := csvRows(t, out)
	if len(rows) != 5 {
		t.Fatalf("rows got %d, want 5", len(rows))
	}

	out, err = execute(t, "hist", "--walks", "10", "--bins", "2")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "BIN") || strings.Count(out, "\n") != 3 {
		t.Errorf("unexpected table:\n%s", out)
	}
}

func TestRun(t *testing.T) {
	out, err := execute(t, "run", "--steps", "20", "--walks", "5", "--envelope")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"5 of 5 paths", "mean ± 1σ", "TERMINAL VALUES"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestRun_SaveConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.yaml")
	if _, err := execute(t, "run", "--preset", "bull", "--steps", "7", "--walks", "3", "--seed", "5", "--save-config", path); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("reload saved config: %v", err)
	}
	want := config.GetPreset("bull")
	if cfg.Steps != 7 || cfg.Walks != 3 || cfg.Seed != 5 || cfg.Drift != want.Drift {
		t.Errorf("saved config = %+v", cfg)
	}

	fromFile, err := execute(t, "export-csv", "--config", path)
	if err != nil {
		t.Fatal(err)
	}
	fromFlags, err := execute(t, "export-csv", "--preset", "bull", "--steps", "7", "--walks", "3", "--seed", "5")
	if err != nil {
		t.Fatal(err)
	}
	if fromFile != fromFlags {
		t.Error("saved config does not reproduce the run")
	}

	if _, err := execute(t, "run", "--save-config", filepath.Join(t.TempDir(), "missing", "x.yaml")); err == nil {
		t.Error("expected error for unwritable path")
	}
}

func TestTraceLogsTerminals(t *testing.T) {
	stdout, stderr, err := executeSplit(t, "export-csv", "--steps", "4", "--walks", "3", "--seed", "2", "--log-level", "trace")
	if err != nil {
		t.Fatal(err)
	}
	rows := csvRows(t, stdout)
	if got := strings.Count(stderr, "level=TRACE msg=walk"); got != 3 {
		t.Errorf("trace lines got %d, want 3:\n%s", got, stderr)
	}
	last := rows[len(rows)-1][1:]
	for _, line := range strings.Split(strings.TrimSpace(stderr), "\n") {
		if !strings.Contains(line, "level=TRACE") {
			continue
		}
		var idx int
		var term float64
		rest := line[strings.Index(line, "index="):]
		if _, err := fmt.Sscanf(rest, "index=%d terminal=%g", &idx, &term); err != nil {
			t.Fatalf("unparsable trace line %q: %v", line, err)
		}
		want, err := strconv.ParseFloat(last[idx], 64)
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(term-want) > 1e-6 {
			t.Errorf("walk %d: traced terminal %v, csv %v", idx, term, want)
		}
	}

	_, stderr, err = executeSplit(t, "export-csv", "--steps", "4", "--walks", "3", "--log-level", "debug")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(stderr, "TRACE") {
		t.Errorf("trace output at debug level:\n%s", stderr)
	}
}

func TestListings(t *testing.T) {
	out, err := execute(t, "presets")
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"coin_flip", "standard", "bull", "bear", "volatile", "deterministic", "price"} {
		if !strings.Contains(out, name) {
			t.Errorf("presets missing %s", name)
		}
	}

	out, err = execute(t, "kinds")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "gaussian") || !strings.Contains(out, "discrete") {
		t.Errorf("kinds output:\n%s", out)
	}
}

func TestSweep(t *testing.T) {
	out, err := execute(t, "sweep", "drift", "--preset", "deterministic", "--min", "-1", "--max", "1", "--n", "3")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"-50.0000", "50.0000", "terminal mean vs drift"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	if _, err := execute(t, "sweep", "gravity"); err == nil {
		t.Error("expected error for unknown parameter")
	}
}

func TestScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	data := `name: drift comparison
runs:
  - label: flat
    preset: deterministic
    drift: 0
  - preset: deterministic
    steps: 10
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "scenario", path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"scenario: drift comparison", "flat", "#2", "1.0000"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestScenario_ConfigLogging(t *testing.T) {
	dir := t.TempDir()
	scenario := filepath.Join(dir, "scenario.yaml")
	if err := os.WriteFile(scenario, []byte("runs:\n  - preset: deterministic\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfgPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("logging:\n  level: debug\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, stderr, err := executeSplit(t, "scenario", scenario, "--config", cfgPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stderr, "level=DEBUG msg=\"scenario run starting\"") {
		t.Errorf("config log level ignored:\n%s", stderr)
	}

	_, stderr, err = executeSplit(t, "scenario", scenario)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(stderr, "level=DEBUG") {
		t.Errorf("debug output without debug level:\n%s", stderr)
	}

	if _, err := execute(t, "scenario", scenario, "--config", filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected missing config error")
	}
}

func TestErrors(t *testing.T) {
	if _, err := execute(t, "export-csv", "--steps", "0"); !errors.Is(err, walk.ErrInvalidParameter) {
		t.Errorf("expected invalid parameter, got %v", err)
	}
	if _, err := execute(t, "export-csv", "--kind", "levy"); !errors.Is(err, walk.ErrInvalidParameter) {
		t.Errorf("expected invalid kind, got %v", err)
	}
	if _, err := execute(t, "export-csv", "--preset", "moon"); err == nil {
		t.Error("expected unknown preset error")
	}
	if _, err := execute(t, "export-csv", "--config", filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected missing config error")
	}
}
