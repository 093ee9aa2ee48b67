package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lammps-go/lammpsys/ccflags"
	"github.com/lammps-go/lammpsys/makefile"
)

var (
	flagsMakefile   string
	flagsVars       []string
	flagsRelativeTo string
	flagsSpace      bool
	flagsKinds      []string
)

var flagsCmd = &cobra.Command{
	Use:   "flags [-- flag...]",
	Short: "Parse compiler/linker flags and print them normalized",
	Long: `Parses -D, -I, -L and -l flags from the arguments, or from Makefile
variables with --makefile and --var, and prints them back on one line.
Flags to parse go after "--" so they are not taken as options.

  lammpsys flags --relative-to src/MAKE -- -I ../STUBS -lmpi_stubs
  lammpsys flags --makefile Makefile.go --var MPI_INC --var MPI_PATH --space`,
	RunE: runFlags,
}

func init() {
	flagsCmd.Flags().StringVarP(&flagsMakefile, "makefile", "m", "", "Read flags from this Makefile")
	flagsCmd.Flags().StringSliceVar(&flagsVars, "var", nil, "Makefile variables to read, in order")
	flagsCmd.Flags().StringVar(&flagsRelativeTo, "relative-to", "", "Make relative -I and -L paths absolute against this directory")
	flagsCmd.Flags().BoolVar(&flagsSpace, "space", false, "Separate each option from its value (-l m instead of -lm)")
	flagsCmd.Flags().StringSliceVar(&flagsKinds, "kind", nil, "Only print these kinds: define, include-dir, lib-dir, lib, other")
	rootCmd.AddCommand(flagsCmd)
}

func runFlags(cmd *cobra.Command, args []string) error {
	var list ccflags.List
	var err error
	switch {
	case flagsMakefile != "":
		if len(args) > 0 {
			return fmt.Errorf("give either flags or --makefile, not both")
		}
		if len(flagsVars) == 0 {
			return fmt.Errorf("--makefile needs at least one --var")
		}
		mk, err := makefile.Load(flagsMakefile)
		if err != nil {
			return err
		}
		list, err = mk.GatherFlags(flagsVars...)
		if err != nil {
			return fmt.Errorf("%s: %w", flagsMakefile, err)
		}
	default:
		list, err = ccflags.Parse(strings.Join(args, " "))
		if err != nil {
			return err
		}
	}

	if flagsRelativeTo != "" {
		if list, err = list.MakePathsAbsolute(flagsRelativeTo); err != nil {
			return err
		}
	}
	if len(flagsKinds) > 0 {
		kinds, err := parseKinds(flagsKinds)
		if err != nil {
			return err
		}
		list = list.Filter(kinds...)
	}

	if flagsSpace {
		fmt.Fprintln(cmd.OutOrStdout(), list.WithSpace())
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), list.WithoutSpace())
	}
	return nil
}

func parseKinds(names []string) ([]ccflags.Kind, error) {
	all := []ccflags.Kind{ccflags.Define, ccflags.IncludeDir, ccflags.LibDir, ccflags.Lib, ccflags.Other}
	var kinds []ccflags.Kind
outer:
	for _, name := range names {
		for _, k := range all {
			if k.String() == name {
				kinds = append(kinds, k)
				continue outer
			}
		}
		return nil, fmt.Errorf("unknown flag kind %q", name)
	}
	return kinds, nil
}
