// Package probe looks for a system installation of LAMMPS with pkg-config.
package probe

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/lammps-go/lammpsys/ccflags"
	"github.com/lammps-go/lammpsys/model"
)

// PkgConfig holds configuration for a pkg-config probe.
type PkgConfig struct {
	Path   string // resolved pkg-config binary
	Name   string // package name, e.g. "liblammps"
	Header string // include path of the C API header, e.g. "lammps/library.h"
	Logger *slog.Logger
}

// Probe asks pkg-config for the compile and link flags of the package.
//
// The CMake build of LAMMPS installs a .pc file and puts the header under
// an unambiguous "lammps/" directory, so that is what is looked for.
func Probe(ctx context.Context, pc *PkgConfig) (*model.BuildMeta, error) {
	logger := pc.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var version, cflags, libs string
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		version, err = pc.query(ctx, "--modversion")
		return err
	})
	g.Go(func() (err error) {
		cflags, err = pc.query(ctx, "--cflags")
		return err
	})
	g.Go(func() (err error) {
		libs, err = pc.query(ctx, "--libs")
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	compile, err := ccflags.Parse(cflags)
	if err != nil {
		return nil, fmt.Errorf("parsing %s --cflags output: %w", pc.Name, err)
	}
	link, err := ccflags.Parse(libs)
	if err != nil {
		return nil, fmt.Errorf("parsing %s --libs output: %w", pc.Name, err)
	}

	if ignored := compile.Filter(ccflags.Other, ccflags.LibDir, ccflags.Lib); len(ignored) > 0 {
		logger.Debug("ignoring non-preprocessor cflags", "package", pc.Name, "flags", ignored.WithoutSpace())
	}

	meta := &model.BuildMeta{
		Header:      pc.Header,
		IncludeDirs: compile.Filter(ccflags.IncludeDir),
		Defines:     compile.Filter(ccflags.Define),
		LinkFlags:   link,
		Origin:      fmt.Sprintf("pkg-config %s %s", pc.Name, version),
	}
	logger.Info("found system library", "package", pc.Name, "version", version)
	return meta, nil
}

func (pc *PkgConfig) query(ctx context.Context, option string) (string, error) {
	cmd := exec.CommandContext(ctx, pc.Path, option, pc.Name)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("pkg-config %s %s failed: %w\n%s", option, pc.Name, err, strings.TrimSpace(stderr.String()))
	}
	return strings.TrimSpace(stdout.String()), nil
}
