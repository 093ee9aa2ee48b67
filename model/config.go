package model

import (
	"fmt"
	"slices"

	"github.com/lammps-go/lammpsys/ccflags"
)

// Config is the top-level structure of a lammpsys.yaml file.
type Config struct {
	Source    string          `yaml:"source,omitempty"`
	LAMMPS    LAMMPSConfig    `yaml:"lammps"`
	Features  []string        `yaml:"features,omitempty"`
	Packages  []string        `yaml:"packages,omitempty"`
	PkgConfig PkgConfigConfig `yaml:"pkg_config,omitempty"`
	Bindings  BindingsConfig  `yaml:"bindings,omitempty"`
	Make      MakeConfig      `yaml:"make,omitempty"`
}

// LAMMPSConfig describes the LAMMPS source checkout used for builds.
type LAMMPSConfig struct {
	Dir         string `yaml:"dir,omitempty"`
	Makefile    string `yaml:"makefile,omitempty"`
	Machine     string `yaml:"machine,omitempty"`
	CleanScript string `yaml:"clean_script,omitempty"`
}

// PkgConfigConfig describes how to find a system installation.
type PkgConfigConfig struct {
	Name   string `yaml:"name,omitempty"`
	Header string `yaml:"header,omitempty"`
}

// BindingsConfig controls binding generation.
type BindingsConfig struct {
	Package string   `yaml:"package,omitempty"`
	Output  string   `yaml:"output,omitempty"`
	Allow   string   `yaml:"allow,omitempty"`
	Block   []string `yaml:"block,omitempty"`
}

// MakeConfig holds settings for make invocations.
type MakeConfig struct {
	Jobs int `yaml:"jobs,omitempty"`
}

// Mode selects where the library comes from.
type Mode string

const (
	// ModeAuto probes for a system library and builds from source if that fails.
	ModeAuto   Mode = "auto"
	ModeSystem Mode = "system"
	ModeBuild  Mode = "build"
)

// AllModes is the complete list of valid source modes.
var AllModes = []Mode{ModeAuto, ModeSystem, ModeBuild}

// ParseMode validates a source mode string.
func ParseMode(s string) (Mode, error) {
	for _, m := range AllModes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("bad source mode %q (want one of auto, system, build)", s)
}

// Feature names.
const (
	FeatureExceptions = "exceptions"
	FeatureMPI        = "mpi"
	FeatureSystemMPI  = "system-mpi"
)

// AllFeatures is the complete list of valid features.
var AllFeatures = []string{FeatureExceptions, FeatureMPI, FeatureSystemMPI}

// Defaults.
const (
	DefaultDir           = "lammps"
	DefaultMachine       = "go"
	DefaultPkgConfigName = "liblammps"
	DefaultSystemHeader  = "lammps/library.h"
	DefaultPackage       = "lammps"
	DefaultOutput        = "generated"
	DefaultAllow         = "^lammps.*"
)

// ApplyDefaults fills in every unset field.
func (c *Config) ApplyDefaults() {
	if c.Source == "" {
		c.Source = string(ModeAuto)
	}
	if c.LAMMPS.Dir == "" {
		c.LAMMPS.Dir = DefaultDir
	}
	if c.LAMMPS.Machine == "" {
		c.LAMMPS.Machine = DefaultMachine
	}
	if c.PkgConfig.Name == "" {
		c.PkgConfig.Name = DefaultPkgConfigName
	}
	if c.PkgConfig.Header == "" {
		c.PkgConfig.Header = DefaultSystemHeader
	}
	if c.Bindings.Package == "" {
		c.Bindings.Package = DefaultPackage
	}
	if c.Bindings.Output == "" {
		c.Bindings.Output = DefaultOutput
	}
	if c.Bindings.Allow == "" {
		c.Bindings.Allow = DefaultAllow
	}
}

// HasFeature reports whether the named feature is enabled.
func (c *Config) HasFeature(name string) bool {
	return slices.Contains(c.Features, name)
}

// EffectiveBlock returns the functions excluded from the bindings.
//
// lammps_open takes an MPI_Comm, so it is excluded unless the mpi feature
// provides a real communicator type; an explicit block list replaces the
// default entirely.
func (c *Config) EffectiveBlock() []string {
	if c.Bindings.Block != nil {
		return c.Bindings.Block
	}
	if c.HasFeature(FeatureMPI) {
		return nil
	}
	return []string{"lammps_open"}
}

// featureDefines maps features to the preprocessor definition they need in
// LMP_INC. Features without an entry only affect lammpsys itself.
var featureDefines = map[string]ccflags.DefinePair{
	FeatureExceptions: {Name: "LAMMPS_EXCEPTIONS"},
}

// FeatureDefines returns the -D flags added to LMP_INC for enabled features,
// in AllFeatures order.
func (c *Config) FeatureDefines() ccflags.List {
	var pairs []ccflags.DefinePair
	for _, f := range AllFeatures {
		if pair, ok := featureDefines[f]; ok && c.HasFeature(f) {
			pairs = append(pairs, pair)
		}
	}
	return ccflags.DefinesFromPairs(pairs)
}

// BuildMeta is what the link step hands to binding generation.
type BuildMeta struct {
	// Header is the path used in the #include directive.
	Header string
	// IncludeDirs holds -I flags.
	IncludeDirs ccflags.List
	// Defines holds -D flags, plus any -I flags that came along with them
	// from the same Makefile variables.
	Defines ccflags.List
	// LinkFlags holds -L, -l and any other linker arguments.
	LinkFlags ccflags.List
	// Origin describes where the library came from, for reports.
	Origin string
	// SourceDir is the LAMMPS checkout for source builds, empty otherwise.
	SourceDir string
}

// CompileFlags returns defines followed by include directories.
func (m *BuildMeta) CompileFlags() ccflags.List {
	return ccflags.Concat(m.Defines, m.IncludeDirs)
}
