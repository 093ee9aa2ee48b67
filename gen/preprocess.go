package gen

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/lammps-go/lammpsys/ccflags"
	"github.com/lammps-go/lammpsys/model"
)

// wrapperName is the file handed to the preprocessor.
const wrapperName = "include_lammps.h"

// PreprocessConfig holds configuration for running the C preprocessor over
// the library header.
type PreprocessConfig struct {
	CPPPath string       // resolved cpp binary path
	Header  string       // path for the #include directive
	Flags   ccflags.List // defines and include dirs, in order
	FakeMPI bool         // put a stub mpi.h ahead of every other include dir
	DryRun  bool
	Verbose bool
}

// PreprocessFlags returns the flags needed to parse meta.Header: defines,
// then include dirs, then the MPI STUBS directory of a source checkout so
// that a serial build still finds an mpi.h.
func PreprocessFlags(meta *model.BuildMeta) ccflags.List {
	flags := meta.CompileFlags()
	if meta.SourceDir != "" {
		flags = append(flags, ccflags.IncludeDirFlag(filepath.Join(meta.SourceDir, "src", "STUBS")))
	}
	return flags
}

// Preprocess runs cpp over a one-line wrapper that includes cfg.Header and
// returns the preprocessed text. In dry-run mode it prints the command and
// returns an empty string.
func Preprocess(ctx context.Context, cfg *PreprocessConfig) (string, error) {
	work, err := os.MkdirTemp("", "lammpsys-cpp-")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(work)

	wrapper := filepath.Join(work, wrapperName)
	if err := os.WriteFile(wrapper, []byte(fmt.Sprintf("#include <%s>\n", cfg.Header)), 0644); err != nil {
		return "", fmt.Errorf("writing include wrapper: %w", err)
	}

	flags := cfg.Flags
	if cfg.FakeMPI {
		fakeDir := filepath.Join(work, FakeSystemDir)
		if err := os.MkdirAll(fakeDir, 0755); err != nil {
			return "", err
		}
		if err := os.WriteFile(filepath.Join(fakeDir, "mpi.h"), []byte(FakeMPIHeader), 0644); err != nil {
			return "", fmt.Errorf("writing fake mpi.h: %w", err)
		}
		flags = ccflags.Concat(ccflags.List{ccflags.IncludeDirFlag(fakeDir)}, flags)
	}

	args := append(flags.Args(), wrapper)
	if cfg.DryRun {
		fmt.Printf("  Would run: %s %s\n", cfg.CPPPath, strings.Join(args, " "))
		return "", nil
	}
	if cfg.Verbose {
		fmt.Printf("  Running: %s %s\n", cfg.CPPPath, strings.Join(args, " "))
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, cfg.CPPPath, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("cpp failed: %w\n%s", err, stderr.String())
	}
	return stdout.String(), nil
}
