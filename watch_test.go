package impulse_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/setanarut/impulse"
)

func TestConfigWatcherReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "solver.yaml")
	if err := os.WriteFile(path, []byte("iterations: 10\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := impulse.NewConfigWatcher(path)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("iterations: 42\nsolver_mode: [simd]\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	timeout := time.After(5 * time.Second)
	for {
		select {
		case cfg := <-w.Configs:
			if cfg.Iterations != 42 {
				continue
			}
			if cfg.SolverMode != impulse.SolverSIMD {
				t.Error("mode", cfg.SolverMode)
			}
			return
		case err := <-w.Errors:
			t.Log("watch error:", err)
		case <-timeout:
			t.Fatal("config was not reloaded")
		}
	}
}

func TestConfigWatcherReportsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "solver.yaml")
	if err := os.WriteFile(path, []byte("iterations: 10\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	w, err := impulse.NewConfigWatcher(path)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("iterations: -3\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case err := <-w.Errors:
		if err == nil {
			t.Error("nil error")
		}
	case cfg := <-w.Configs:
		t.Error("invalid config delivered", cfg)
	case <-time.After(5 * time.Second):
		t.Fatal("no error reported")
	}
}

func TestConfigWatcherCloseIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "solver.yaml")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	w, err := impulse.NewConfigWatcher(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Error(err)
	}
	if err := w.Close(); err != nil {
		t.Error("second close", err)
	}
	if _, ok := <-w.Configs; ok {
		t.Error("Configs should be closed")
	}
}

func TestNewConfigWatcherMissingDirectory(t *testing.T) {
	if _, err := impulse.NewConfigWatcher(filepath.Join(t.TempDir(), "missing", "solver.yaml")); err == nil {
		t.Error("expected an error")
	}
}
