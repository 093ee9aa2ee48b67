package resolver

import (
	"os"
	"path/filepath"
	"testing"
)

func fakeTool(t *testing.T, name string) string {
	t.Helper()
	tmp := t.TempDir()
	fakeExe := filepath.Join(tmp, name)
	if err := os.WriteFile(fakeExe, []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatal(err)
	}
	return fakeExe
}

func TestResolve_ExplicitPath(t *testing.T) {
	fakeExe := fakeTool(t, "make")

	path, err := Make.Resolve(fakeExe)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != fakeExe {
		t.Errorf("expected %q, got %q", fakeExe, path)
	}
}

func TestResolve_ExplicitPathNotFound(t *testing.T) {
	_, err := Make.Resolve("/nonexistent/make")
	if err == nil {
		t.Error("expected error for nonexistent explicit path")
	}
}

func TestResolve_EnvVar(t *testing.T) {
	fakeExe := fakeTool(t, "pkg-config")
	t.Setenv("LAMMPSYS_PKG_CONFIG_PATH", fakeExe)

	path, err := PkgConfig.Resolve("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != fakeExe {
		t.Errorf("expected %q, got %q", fakeExe, path)
	}
}

func TestResolve_EnvVarQuoted(t *testing.T) {
	fakeExe := fakeTool(t, "cpp")
	t.Setenv("LAMMPSYS_CPP_PATH", `"`+fakeExe+`"`)

	path, err := CPP.Resolve("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != fakeExe {
		t.Errorf("expected %q, got %q", fakeExe, path)
	}
}

func TestResolve_EnvVarNotFound(t *testing.T) {
	t.Setenv("LAMMPSYS_MAKE_PATH", "/nonexistent/make")
	_, err := Make.Resolve("")
	if err == nil {
		t.Error("expected error for nonexistent env path")
	}
}

func TestResolve_PATH(t *testing.T) {
	fakeExe := fakeTool(t, "lammpsys-test-tool")
	t.Setenv("PATH", filepath.Dir(fakeExe))

	tool := Tool{Name: "lammpsys-test-tool", EnvVar: "LAMMPSYS_TEST_TOOL_PATH"}
	path, err := tool.Resolve("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != fakeExe {
		t.Errorf("expected %q, got %q", fakeExe, path)
	}
}

func TestResolve_NotInPATH(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	tool := Tool{Name: "lammpsys-missing-tool", EnvVar: "LAMMPSYS_MISSING_TOOL_PATH"}
	if _, err := tool.Resolve(""); err == nil {
		t.Error("expected error for tool missing from PATH")
	}
}

func TestResolveMode(t *testing.T) {
	tests := []struct {
		flag, env, config string
		want              string
		wantErr           bool
	}{
		{"", "", "", "auto", false},
		{"", "", "system", "system", false},
		{"", "build", "system", "build", false},
		{"system", "build", "auto", "system", false},
		{"", "'system'", "", "system", false},
		{"", "sideways", "auto", "", true},
		{"bogus", "", "", "", true},
	}

	for _, tt := range tests {
		t.Setenv(SourceEnvVar, tt.env)
		got, err := ResolveMode(tt.flag, tt.config)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ResolveMode(%q, env=%q, %q): expected error", tt.flag, tt.env, tt.config)
			}
			continue
		}
		if err != nil {
			t.Errorf("ResolveMode(%q, env=%q, %q): unexpected error: %v", tt.flag, tt.env, tt.config, err)
			continue
		}
		if string(got) != tt.want {
			t.Errorf("ResolveMode(%q, env=%q, %q) = %q, want %q", tt.flag, tt.env, tt.config, got, tt.want)
		}
	}
}
