package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// MakeRunner runs make in a LAMMPS src directory.
type MakeRunner struct {
	MakePath string
	Dir      string // <repo>/src
	Jobs     int    // used for parallel runs
	DryRun   bool
	Stderr   io.Writer
	Logger   *slog.Logger
}

// Run runs make serially. Some LAMMPS rules have incomplete dependency
// lists and only work this way.
func (r *MakeRunner) Run(ctx context.Context, args ...string) error {
	return r.run(ctx, args)
}

// RunParallel runs make with -j<Jobs>.
func (r *MakeRunner) RunParallel(ctx context.Context, args ...string) error {
	return r.run(ctx, append([]string{fmt.Sprintf("-j%d", r.Jobs)}, args...))
}

// RunFastAndLoose builds as much as possible in parallel before finishing
// serially. The LAMMPS Makefiles sporadically fail under -j, so the first
// two attempts may fail and only the final serial run decides the outcome:
//
//  1. make -jN args
//  2. make -jN --keep-going args
//  3. make args
//
// A successful first run ends the sequence early.
func (r *MakeRunner) RunFastAndLoose(ctx context.Context, args ...string) error {
	err := r.RunParallel(ctx, args...)
	if err == nil {
		return nil
	}
	r.logger().Warn("parallel make failed, retrying with --keep-going", "error", err)
	if err := r.RunParallel(ctx, append([]string{"--keep-going"}, args...)...); err != nil {
		r.logger().Warn("parallel make failed again, finishing serially", "error", err)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return r.Run(ctx, args...)
}

func (r *MakeRunner) run(ctx context.Context, args []string) error {
	if r.DryRun {
		fmt.Printf("  Would run: %s %s (in %s)\n", r.MakePath, strings.Join(args, " "), r.Dir)
		return nil
	}
	r.logger().Info("running make", "dir", r.Dir, "args", strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, r.MakePath, args...)
	cmd.Dir = r.Dir
	// stdout is noise from the compiler; diagnostics go to stderr
	cmd.Stdout = nil
	cmd.Stderr = r.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("make %s: %w", strings.Join(args, " "), err)
	}
	return nil
}

func (r *MakeRunner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}
