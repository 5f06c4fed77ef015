package impulse_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/setanarut/impulse"
)

func TestDefaultConfig(t *testing.T) {
	cfg := impulse.DefaultConfig()
	if cfg.Iterations != 10 || cfg.ERP != 0.2 || cfg.TimeStep != 1.0/60 {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if cfg.SolverMode != impulse.SolverUseWarmstarting|impulse.SolverUseFrictionWarmstarting {
		t.Error("unexpected default mode", cfg.SolverMode)
	}
	if err := cfg.Validate(); err != nil {
		t.Error(err)
	}
}

func TestParseConfigKeepsDefaults(t *testing.T) {
	cfg, err := impulse.ParseConfig([]byte("iterations: 4\nsplit_impulse: true\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Iterations != 4 || !cfg.SplitImpulse {
		t.Errorf("keys not applied: %+v", cfg)
	}
	if cfg.ERP != 0.2 || cfg.WarmstartingFactor != 1 {
		t.Error("omitted keys should keep their defaults")
	}
	if cfg.SolverMode != impulse.DefaultConfig().SolverMode {
		t.Error("omitted mode should keep its default")
	}
}

func TestParseConfigSolverMode(t *testing.T) {
	cfg, err := impulse.ParseConfig([]byte("solver_mode: [random_order, Simd, two_friction_directions]\n"))
	if err != nil {
		t.Fatal(err)
	}
	want := impulse.SolverRandomOrder | impulse.SolverSIMD | impulse.SolverUse2FrictionDirections
	if cfg.SolverMode != want {
		t.Errorf("mode = %v, want %v", cfg.SolverMode, want)
	}
	if cfg.SolverMode.String() != "random_order|two_friction_directions|simd" {
		t.Error("unexpected string", cfg.SolverMode.String())
	}
}

func TestParseConfigErrors(t *testing.T) {
	for _, tc := range []struct {
		yaml string
		msg  string
	}{
		{"solver_mode: [warp_drive]\n", `unknown solver mode "warp_drive"`},
		{"iterations: -1\n", "iterations must be non-negative"},
		{"time_step: 0\n", "time step must be positive"},
		{"erp: 1.5\n", "erp must be in [0, 1]"},
		{"iterations: [1\n", "unmarshal config"},
	} {
		_, err := impulse.ParseConfig([]byte(tc.yaml))
		if err == nil {
			t.Errorf("%q: expected an error", tc.yaml)
			continue
		}
		if !strings.Contains(err.Error(), tc.msg) {
			t.Errorf("%q: error %q does not mention %q", tc.yaml, err, tc.msg)
		}
	}
}

func TestConfigMarshalRoundTrip(t *testing.T) {
	cfg := impulse.DefaultConfig()
	cfg.Iterations = 25
	cfg.SplitImpulse = true
	cfg.SolverMode |= impulse.SolverEnableFrictionDirectionCaching | impulse.SolverRandomOrder

	data, err := cfg.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "friction_direction_caching") {
		t.Error("mode should be written by name:\n", string(data))
	}
	got, err := impulse.ParseConfig(data)
	if err != nil {
		t.Fatal(err)
	}
	if *got != *cfg {
		t.Errorf("round trip changed the config:\n%+v\n%+v", got, cfg)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "solver.yaml")
	if err := os.WriteFile(path, []byte("erp: 0.4\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := impulse.LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ERP != 0.4 {
		t.Error("erp", cfg.ERP)
	}

	if _, err := impulse.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestParseSolverMode(t *testing.T) {
	mode, err := impulse.ParseSolverMode([]string{" warmstarting ", "friction_warmstarting"})
	if err != nil {
		t.Fatal(err)
	}
	if mode != impulse.DefaultConfig().SolverMode {
		t.Error("unexpected mode", mode)
	}
	if names := impulse.SolverMode(0).Names(); len(names) != 0 {
		t.Error("empty mode has names", names)
	}
}
