package loader

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_Minimal(t *testing.T) {
	path := filepath.Join("..", "testdata", "minimal.yaml")
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error loading minimal.yaml: %v", err)
	}

	if cfg.Source != "system" {
		t.Errorf("expected source 'system', got %q", cfg.Source)
	}
	// defaults
	if cfg.LAMMPS.Dir != "lammps" {
		t.Errorf("expected default lammps dir, got %q", cfg.LAMMPS.Dir)
	}
	if cfg.PkgConfig.Name != "liblammps" {
		t.Errorf("expected default pkg-config name, got %q", cfg.PkgConfig.Name)
	}
	if cfg.Bindings.Output != "generated" {
		t.Errorf("expected default output dir, got %q", cfg.Bindings.Output)
	}
}

func TestLoadConfig_Full(t *testing.T) {
	path := filepath.Join("..", "testdata", "full.yaml")
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error loading full.yaml: %v", err)
	}

	if cfg.LAMMPS.Makefile != "build-data/Makefile.lammps" {
		t.Errorf("unexpected makefile %q", cfg.LAMMPS.Makefile)
	}
	if len(cfg.Packages) != 2 || cfg.Packages[0] != "molecule" {
		t.Errorf("unexpected packages %v", cfg.Packages)
	}
	if !cfg.HasFeature("exceptions") {
		t.Error("expected exceptions feature")
	}
	if cfg.Bindings.Allow != "^lammps_" {
		t.Errorf("unexpected allow pattern %q", cfg.Bindings.Allow)
	}
	if cfg.Make.Jobs != 4 {
		t.Errorf("expected 4 jobs, got %d", cfg.Make.Jobs)
	}
}

func TestLoadConfig_NotFound(t *testing.T) {
	_, err := LoadConfig("/nonexistent/lammpsys.yaml")
	if err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestLoadConfig_SchemaFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("source: sideways\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected schema validation error")
	}
}

func TestParseConfigNoValidate_Empty(t *testing.T) {
	cfg, err := ParseConfigNoValidate(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Source != "auto" {
		t.Errorf("expected default source 'auto', got %q", cfg.Source)
	}
}

func TestLoadConfig_Example(t *testing.T) {
	path := filepath.Join("..", "examples", "hello-lammps", "lammpsys.yaml")
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("example config does not load: %v", err)
	}
	if cfg.Bindings.Output != "lammps" {
		t.Errorf("expected output 'lammps', got %q", cfg.Bindings.Output)
	}
	if cfg.LAMMPS.Machine != "go" {
		t.Errorf("expected default machine, got %q", cfg.LAMMPS.Machine)
	}
}
