package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lammps-go/lammpsys/gen"
	"github.com/lammps-go/lammpsys/logutil"
	"github.com/lammps-go/lammpsys/model"
	"github.com/lammps-go/lammpsys/probe"
	"github.com/lammps-go/lammpsys/resolver"
	"github.com/lammps-go/lammpsys/source"
)

var (
	buildSource       string
	buildOutput       string
	buildMake         string
	buildPkgConfig    string
	buildCPP          string
	buildJobs         int
	buildDryRun       bool
	buildSkipBindings bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Locate or build liblammps and generate bindings",
	Args:  cobra.NoArgs,
	RunE:  runBuild,
}

func init() {
	buildCmd.Flags().StringVar(&buildSource, "source", "", "Where liblammps comes from: auto, system or build (overrides config and "+resolver.SourceEnvVar+")")
	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "", "Output directory (default from config)")
	buildCmd.Flags().StringVar(&buildMake, "make", "", "Path to make")
	buildCmd.Flags().StringVar(&buildPkgConfig, "pkg-config", "", "Path to pkg-config")
	buildCmd.Flags().StringVar(&buildCPP, "cpp", "", "Path to the C preprocessor")
	buildCmd.Flags().IntVarP(&buildJobs, "jobs", "j", 0, "Parallel make jobs (default from config, else CPUs+1)")
	buildCmd.Flags().BoolVar(&buildDryRun, "dry-run", false, "Show what would be run and written without doing it")
	buildCmd.Flags().BoolVar(&buildSkipBindings, "skip-bindings", false, "Stop after the library is available")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, base, err := loadConfig(false)
	if err != nil {
		return err
	}

	mode, err := resolver.ResolveMode(buildSource, cfg.Source)
	if err != nil {
		return err
	}
	if !quiet {
		fmt.Printf("Locating liblammps (source: %s)\n", mode)
	}

	meta, err := obtainLibrary(ctx, cfg, base, mode)
	if err != nil {
		return err
	}
	if !quiet {
		fmt.Printf("Using liblammps from %s\n", meta.Origin)
	}
	if buildSkipBindings {
		return nil
	}

	cppPath, err := resolver.CPP.Resolve(buildCPP)
	if err != nil {
		return fmt.Errorf("a C preprocessor is required: %w\n\nUse --skip-bindings to only build the library.", err)
	}
	text, err := gen.Preprocess(ctx, &gen.PreprocessConfig{
		CPPPath: cppPath,
		Header:  meta.Header,
		Flags:   gen.PreprocessFlags(meta),
		FakeMPI: !cfg.HasFeature(model.FeatureSystemMPI),
		DryRun:  buildDryRun,
		Verbose: verbose > 0,
	})
	if err != nil {
		return fmt.Errorf("preprocessing %s: %w", meta.Header, err)
	}

	funcs, err := gen.ScanFunctions(text, cfg.Bindings.Allow, cfg.EffectiveBlock())
	if err != nil {
		return err
	}
	if len(funcs) == 0 && !buildDryRun {
		return fmt.Errorf("no functions matching %q found in %s", cfg.Bindings.Allow, meta.Header)
	}
	slog.Debug("scanned header", "header", meta.Header, "functions", len(funcs))
	for _, fn := range funcs {
		logutil.Trace("bound function", "prototype", fn.Prototype)
	}

	output := buildOutput
	if output == "" {
		output = resolvePath(base, cfg.Bindings.Output)
	}

	gctx := gen.NewContext(cfg, meta, funcs, output)
	gctx.Verbose = verbose > 0
	gctx.DryRun = buildDryRun

	files, err := gen.Run(gctx, gen.GeneratorsForConfig(cfg))
	if err != nil {
		return err
	}
	res, err := gen.WriteFiles(output, files, buildDryRun, verbose > 0)
	if err != nil {
		return err
	}

	if !quiet {
		fmt.Printf("Generated %d files in %s (%d functions)\n", res.Written, output, len(funcs))
	}
	return nil
}

// obtainLibrary returns build metadata for the requested mode. In auto mode
// a failed probe falls back to building from source.
func obtainLibrary(ctx context.Context, cfg *model.Config, base string, mode model.Mode) (*model.BuildMeta, error) {
	switch mode {
	case model.ModeSystem:
		return probeSystem(ctx, cfg, buildPkgConfig)
	case model.ModeBuild:
		return buildFromSource(ctx, cfg, base)
	}

	meta, err := probeSystem(ctx, cfg, buildPkgConfig)
	if err == nil {
		return meta, nil
	}
	slog.Warn("system liblammps not found, building from source", "error", firstLine(err.Error()))
	return buildFromSource(ctx, cfg, base)
}

func probeSystem(ctx context.Context, cfg *model.Config, pkgConfigFlag string) (*model.BuildMeta, error) {
	pkgConfig, err := resolver.PkgConfig.Resolve(pkgConfigFlag)
	if err != nil {
		return nil, err
	}
	return probe.Probe(ctx, &probe.PkgConfig{
		Path:   pkgConfig,
		Name:   cfg.PkgConfig.Name,
		Header: cfg.PkgConfig.Header,
		Logger: slog.Default(),
	})
}

func buildFromSource(ctx context.Context, cfg *model.Config, base string) (*model.BuildMeta, error) {
	if cfg.LAMMPS.Makefile == "" {
		return nil, fmt.Errorf("building from source needs lammps.makefile in %s", configPath)
	}

	repo, err := resolver.RepoDir(resolvePath(base, cfg.LAMMPS.Dir))
	if err != nil {
		return nil, fmt.Errorf("LAMMPS checkout: %w", err)
	}
	if head, err := resolver.SubmoduleHead(repo); err != nil {
		slog.Warn("could not read checkout HEAD", "error", err)
	} else if head != "" {
		slog.Info("LAMMPS checkout", "dir", repo, "head", head)
	}

	makePath, err := resolver.Make.Resolve(buildMake)
	if err != nil {
		return nil, err
	}

	local := *cfg
	local.LAMMPS.Makefile = resolvePath(base, cfg.LAMMPS.Makefile)
	// the clean script runs from the checkout directory
	if strings.ContainsRune(cfg.LAMMPS.CleanScript, os.PathSeparator) {
		script, err := filepath.Abs(resolvePath(base, cfg.LAMMPS.CleanScript))
		if err != nil {
			return nil, err
		}
		local.LAMMPS.CleanScript = script
	}

	b := &source.Builder{
		Config:   &local,
		Repo:     repo,
		MakePath: makePath,
		Jobs:     buildJobs,
		DryRun:   buildDryRun,
		Logger:   slog.Default(),
	}
	if !quiet {
		fmt.Printf("Building liblammps in %s\n", repo)
	}
	return b.Build(ctx)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
