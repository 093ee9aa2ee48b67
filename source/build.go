// Package source builds LAMMPS from a git checkout with its traditional
// Makefile build.
package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/lammps-go/lammpsys/ccflags"
	"github.com/lammps-go/lammpsys/makefile"
	"github.com/lammps-go/lammpsys/model"
)

// Makefile variables whose flags are collected. Relative -I/-L paths in them
// are written relative to src/MAKE, e.g. "MPI_PATH = -L../STUBS".
var (
	CompileVars = []string{"LMP_INC", "MPI_INC", "FFT_INC", "JPG_INC"}
	LinkVars    = []string{"MPI_PATH", "FFT_PATH", "JPG_PATH", "MPI_LIB", "FFT_LIB", "JPG_LIB"}
)

// Builder builds liblammps from source.
type Builder struct {
	Config   *model.Config
	Repo     string // absolute path of the LAMMPS checkout
	MakePath string
	Jobs     int // 0 means NumCPU+1
	DryRun   bool
	Stderr   io.Writer
	Logger   *slog.Logger
}

func (b *Builder) logger() *slog.Logger {
	if b.Logger != nil {
		return b.Logger
	}
	return slog.Default()
}

func (b *Builder) srcDir() string {
	return filepath.Join(b.Repo, "src")
}

// MachineMakefilePath is where the generated machine Makefile is written.
func (b *Builder) MachineMakefilePath() string {
	return filepath.Join(b.srcDir(), "MAKE", "MINE", "Makefile."+b.Config.LAMMPS.Machine)
}

func (b *Builder) jobs() int {
	if b.Jobs > 0 {
		return b.Jobs
	}
	if b.Config.Make.Jobs > 0 {
		return b.Config.Make.Jobs
	}
	return runtime.NumCPU() + 1
}

func (b *Builder) runner() *MakeRunner {
	return &MakeRunner{
		MakePath: b.MakePath,
		Dir:      b.srcDir(),
		Jobs:     b.jobs(),
		DryRun:   b.DryRun,
		Stderr:   b.Stderr,
		Logger:   b.logger(),
	}
}

// Build cleans the checkout, writes the machine Makefile, installs the
// configured packages and builds the static library.
func (b *Builder) Build(ctx context.Context) (*model.BuildMeta, error) {
	if err := b.Clean(ctx); err != nil {
		return nil, fmt.Errorf("cleaning: %w", err)
	}

	mk, err := b.WriteMakefile()
	if err != nil {
		return nil, err
	}

	defines, linkFlags, err := b.CollectFlags(mk)
	if err != nil {
		return nil, err
	}

	runner := b.runner()
	for _, pkg := range b.Config.Packages {
		if err := runner.Run(ctx, "yes-"+pkg); err != nil {
			return nil, fmt.Errorf("installing package %s: %w", pkg, err)
		}
	}

	// Needed for serial builds; whether it is linked is up to the Makefile.
	if err := runner.Run(ctx, "mpi-stubs"); err != nil {
		return nil, fmt.Errorf("building MPI stubs: %w", err)
	}

	if err := runner.RunFastAndLoose(ctx, b.Config.LAMMPS.Machine, "mode=lib"); err != nil {
		return nil, fmt.Errorf("building liblammps: %w", err)
	}

	link := ccflags.Concat(
		ccflags.List{
			ccflags.LibDirFlag(b.srcDir()),
			ccflags.LibFlag("lammps"),
			// the static library is C++
			ccflags.LibFlag("stdc++"),
		},
		linkFlags,
	)

	return &model.BuildMeta{
		Header:      "src/library.h",
		IncludeDirs: ccflags.List{ccflags.IncludeDirFlag(b.Repo)},
		Defines:     defines,
		LinkFlags:   link,
		Origin:      "source " + b.Repo,
		SourceDir:   b.Repo,
	}, nil
}

// WriteMakefile copies the user's Makefile into src/MAKE/MINE, adding
// feature defines to LMP_INC. Those are the only changes made.
func (b *Builder) WriteMakefile() (*makefile.Makefile, error) {
	mk, err := makefile.Load(b.Config.LAMMPS.Makefile)
	if err != nil {
		return nil, err
	}
	if err := mk.AppendFlags("LMP_INC", b.Config.FeatureDefines()...); err != nil {
		return nil, fmt.Errorf("%s: %w", b.Config.LAMMPS.Makefile, err)
	}

	path := b.MachineMakefilePath()
	if b.DryRun {
		fmt.Printf("  Would write: %s\n", path)
		return mk, nil
	}
	if err := mk.Save(path); err != nil {
		return nil, err
	}
	b.logger().Debug("wrote machine makefile", "path", path)
	return mk, nil
}

// CollectFlags gathers the preprocessor flags needed to parse the headers and
// the linker flags needed to link the static library, with relative paths
// made absolute against src/MAKE.
func (b *Builder) CollectFlags(mk *makefile.Makefile) (defines, link ccflags.List, err error) {
	base := filepath.Join(b.srcDir(), "MAKE")
	if resolved, err := filepath.EvalSymlinks(base); err == nil {
		base = resolved
	} else if !b.DryRun {
		return nil, nil, fmt.Errorf("resolving %s: %w", base, err)
	}

	defines, err = mk.GatherFlags(CompileVars...)
	if err != nil {
		return nil, nil, err
	}
	link, err = mk.GatherFlags(LinkVars...)
	if err != nil {
		return nil, nil, err
	}
	if defines, err = defines.MakePathsAbsolute(base); err != nil {
		return nil, nil, err
	}
	if link, err = link.MakePathsAbsolute(base); err != nil {
		return nil, nil, err
	}
	return defines, link, nil
}

// Clean removes previous build products. LAMMPS's own "make clean-all" does
// not remove installed packages or libraries, so either the configured clean
// script runs or object directories and libraries are deleted directly.
func (b *Builder) Clean(ctx context.Context) error {
	if script := b.Config.LAMMPS.CleanScript; script != "" {
		if b.DryRun {
			fmt.Printf("  Would run: %s\n", script)
			return nil
		}
		b.logger().Info("running clean script", "script", script)
		cmd := exec.CommandContext(ctx, script)
		cmd.Dir = b.Repo
		cmd.Stderr = b.Stderr
		if cmd.Stderr == nil {
			cmd.Stderr = os.Stderr
		}
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("clean script %s: %w", script, err)
		}
		return nil
	}

	targets, err := cleanTargets(b.srcDir())
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.jobs())
	for _, target := range targets {
		target := target
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if b.DryRun {
				fmt.Printf("  Would remove: %s\n", target)
				return nil
			}
			b.logger().Debug("removing", "path", target)
			return os.RemoveAll(target)
		})
	}
	return g.Wait()
}

// cleanTargets lists object directories and built libraries in src.
func cleanTargets(src string) ([]string, error) {
	entries, err := os.ReadDir(src)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", src, err)
	}
	var targets []string
	for _, e := range entries {
		name := e.Name()
		switch {
		case e.IsDir() && strings.HasPrefix(name, "Obj_"):
		case !e.IsDir() && strings.HasPrefix(name, "liblammps") &&
			(strings.HasSuffix(name, ".a") || strings.HasSuffix(name, ".so")):
		default:
			continue
		}
		targets = append(targets, filepath.Join(src, name))
	}
	return targets, nil
}
