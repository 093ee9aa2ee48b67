package cmd

import (
	_ "embed"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lammps-go/lammpsys/gen"
	"github.com/lammps-go/lammpsys/model"
)

//go:embed templates/Makefile.lammps
var makefileTemplate []byte

var (
	initOutput   string
	initSource   string
	initPackages []string
	initFeatures []string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Scaffold lammpsys.yaml and a starter LAMMPS Makefile",
	Args:  cobra.NoArgs,
	RunE:  runInit,
}

func init() {
	initCmd.Flags().StringVarP(&initOutput, "output", "o", ".", "Output directory")
	initCmd.Flags().StringVar(&initSource, "source", string(model.ModeAuto), "Source mode (auto, system, build)")
	initCmd.Flags().StringSliceVar(&initPackages, "packages", nil, "LAMMPS packages to build (comma-separated)")
	initCmd.Flags().StringSliceVar(&initFeatures, "features", nil, "Features to enable: exceptions, mpi, system-mpi")
	rootCmd.AddCommand(initCmd)
}

const initMakefilePath = "build-data/Makefile.lammps"

func runInit(cmd *cobra.Command, args []string) error {
	if _, err := model.ParseMode(initSource); err != nil {
		return err
	}

	if !quiet {
		fmt.Printf("Initializing lammpsys in %s\n", initOutput)
	}

	files := []*gen.OutputFile{
		{Path: defaultConfigPath, Content: []byte(configTemplate(initSource, initFeatures, initPackages)), Scaffold: true},
		{Path: initMakefilePath, Content: makefileTemplate, Scaffold: true},
	}
	res, err := gen.WriteFiles(initOutput, files, false, verbose > 0)
	if err != nil {
		return err
	}

	if !quiet {
		fmt.Printf("Created %d file(s)", res.Written)
		if res.Skipped > 0 {
			fmt.Printf(", %d existing file(s) preserved", res.Skipped)
		}
		fmt.Println()
		fmt.Printf("\nNext: lammpsys validate %s\n", filepath.Join(initOutput, defaultConfigPath))
	}
	return nil
}

func configTemplate(source string, features, packages []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "source: %s\n\n", source)
	b.WriteString("lammps:\n")
	fmt.Fprintf(&b, "  dir: %s\n", model.DefaultDir)
	fmt.Fprintf(&b, "  makefile: %s\n", initMakefilePath)
	fmt.Fprintf(&b, "  machine: %s\n", model.DefaultMachine)
	writeList(&b, "features", features)
	writeList(&b, "packages", packages)
	b.WriteString("\nbindings:\n")
	fmt.Fprintf(&b, "  package: %s\n", model.DefaultPackage)
	fmt.Fprintf(&b, "  output: %s\n", model.DefaultOutput)
	fmt.Fprintf(&b, "  allow: %q\n", model.DefaultAllow)
	return b.String()
}

func writeList(b *strings.Builder, key string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s:\n", key)
	for _, item := range items {
		fmt.Fprintf(b, "  - %s\n", item)
	}
}
