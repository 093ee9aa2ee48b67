package resolver

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/lammps-go/lammpsys/model"
)

// Tool describes an external program and how to override its location.
type Tool struct {
	Name   string // executable looked up in PATH, e.g. "make"
	EnvVar string // e.g. "LAMMPSYS_MAKE_PATH"
}

var (
	Make      = Tool{Name: "make", EnvVar: "LAMMPSYS_MAKE_PATH"}
	PkgConfig = Tool{Name: "pkg-config", EnvVar: "LAMMPSYS_PKG_CONFIG_PATH"}
	CPP       = Tool{Name: "cpp", EnvVar: "LAMMPSYS_CPP_PATH"}
)

// SourceEnvVar overrides the configured source mode.
const SourceEnvVar = "LAMMPSYS_SOURCE"

// Resolve finds the tool binary using the resolution order:
// 1. Explicit flag path (if non-empty)
// 2. The tool's environment variable
// 3. The tool's name in PATH
func (t Tool) Resolve(flagPath string) (string, error) {
	if flagPath != "" {
		if _, err := os.Stat(flagPath); err != nil {
			return "", fmt.Errorf("%s not found at specified path: %s", t.Name, flagPath)
		}
		return flagPath, nil
	}

	if envPath := clean(t.EnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err != nil {
			return "", fmt.Errorf("%s not found at %s: %s", t.Name, t.EnvVar, envPath)
		}
		return envPath, nil
	}

	path, err := exec.LookPath(t.Name)
	if err != nil {
		return "", fmt.Errorf("%s not found in PATH; set the flag or %s environment variable", t.Name, t.EnvVar)
	}
	return path, nil
}

// ResolveMode picks the source mode: flag value, then LAMMPSYS_SOURCE, then
// the configured value. Empty values are skipped.
func ResolveMode(flagValue, configValue string) (model.Mode, error) {
	if flagValue != "" {
		return model.ParseMode(flagValue)
	}
	if env := clean(SourceEnvVar); env != "" {
		m, err := model.ParseMode(env)
		if err != nil {
			return "", fmt.Errorf("%s: %w", SourceEnvVar, err)
		}
		return m, nil
	}
	if configValue == "" {
		return model.ModeAuto, nil
	}
	return model.ParseMode(configValue)
}

// clean trims quotes and spaces from an environment value.
func clean(key string) string {
	return strings.Trim(os.Getenv(key), "\"' ")
}
