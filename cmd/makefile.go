package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lammps-go/lammpsys/ccflags"
	"github.com/lammps-go/lammpsys/makefile"
)

var (
	mkFlags  bool
	mkSpace  bool
	mkOutput string
)

var makefileCmd = &cobra.Command{
	Use:   "makefile",
	Short: "Read or rewrite one variable of a Makefile",
}

var makefileGetCmd = &cobra.Command{
	Use:   "get <makefile> <name>",
	Short: "Print the value of a variable",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		mk, err := makefile.Load(args[0])
		if err != nil {
			return err
		}
		if !mkFlags {
			text, err := mk.Text(args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		}
		flags, err := mk.Flags(args[1])
		if err != nil {
			return err
		}
		if mkSpace {
			fmt.Fprintln(cmd.OutOrStdout(), flags.WithSpace())
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), flags.WithoutSpace())
		}
		return nil
	},
}

var makefileSetCmd = &cobra.Command{
	Use:   "set <makefile> <name> [-- value...]",
	Short: "Replace the value of a variable, leaving every other line as is",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, name := args[0], args[1]
		value := strings.Join(args[2:], " ")

		mk, err := makefile.Load(path)
		if err != nil {
			return err
		}
		if mkFlags {
			flags, perr := ccflags.Parse(value)
			if perr != nil {
				return perr
			}
			err = mk.SetFlags(name, flags)
		} else {
			err = mk.SetText(name, value)
		}
		if err != nil {
			return err
		}

		out := mkOutput
		if out == "" {
			out = path
		}
		if err := mk.Save(out); err != nil {
			return err
		}
		if verbose > 0 {
			fmt.Printf("  Wrote: %s\n", out)
		}
		return nil
	},
}

func init() {
	makefileCmd.PersistentFlags().BoolVar(&mkFlags, "flags", false, "Treat the value as compiler/linker flags")
	makefileGetCmd.Flags().BoolVar(&mkSpace, "space", false, "With --flags, separate each option from its value")
	makefileSetCmd.Flags().StringVarP(&mkOutput, "output", "o", "", "Write to this file instead of rewriting in place")
	makefileCmd.AddCommand(makefileGetCmd, makefileSetCmd)
	rootCmd.AddCommand(makefileCmd)
}
