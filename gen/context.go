package gen

import (
	"github.com/lammps-go/lammpsys/model"
)

// Context holds everything a generator needs to produce output.
type Context struct {
	Config    *model.Config
	Meta      *model.BuildMeta
	Functions []Function
	OutputDir string
	Verbose   bool
	DryRun    bool
}

// NewContext creates a new generation context.
func NewContext(cfg *model.Config, meta *model.BuildMeta, functions []Function, outputDir string) *Context {
	return &Context{
		Config:    cfg,
		Meta:      meta,
		Functions: functions,
		OutputDir: outputDir,
	}
}

// Package is the Go package name of the generated files.
func (c *Context) Package() string {
	return c.Config.Bindings.Package
}
