package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lammps-go/lammpsys/loader"
	"github.com/lammps-go/lammpsys/logutil"
	"github.com/lammps-go/lammpsys/model"
	"github.com/lammps-go/lammpsys/validate"
)

const defaultConfigPath = "lammpsys.yaml"

var (
	verbose    int
	quiet      bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "lammpsys",
	Short: "Build or locate liblammps and generate cgo bindings for it",
	Long:  "lammpsys finds a system LAMMPS library with pkg-config or builds one from a source checkout, then generates the cgo flags and function list for its C API.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		slog.SetDefault(logutil.NewLogger(os.Stderr, logutil.Level(verbose, quiet)))
	},
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "Verbose output (repeat for trace logging)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath, "Path to lammpsys.yaml")
}

// Execute runs the CLI. Interrupts cancel running subprocesses.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

// loadConfig loads and validates the configuration file. When the file is
// missing and required is false, defaults are used. The returned directory
// is what relative paths in the configuration are resolved against.
func loadConfig(required bool) (*model.Config, string, error) {
	cfg, err := loader.LoadConfig(configPath)
	if errors.Is(err, fs.ErrNotExist) && !required {
		slog.Debug("no config file, using defaults", "path", configPath)
		cfg = &model.Config{}
		cfg.ApplyDefaults()
		return cfg, ".", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("loading config: %w", err)
	}

	result := validate.Validate(cfg)
	if !result.IsValid() {
		return nil, "", fmt.Errorf("validation failed:\n%s", result.Error())
	}
	return cfg, filepath.Dir(configPath), nil
}

// resolvePath interprets p relative to base unless it is absolute.
func resolvePath(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
