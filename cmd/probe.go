package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var probePkgConfig string

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Look for a system liblammps with pkg-config and print its flags",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig(false)
		if err != nil {
			return err
		}
		meta, err := probeSystem(cmd.Context(), cfg, probePkgConfig)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "origin:   %s\n", meta.Origin)
		fmt.Fprintf(out, "header:   %s\n", meta.Header)
		fmt.Fprintf(out, "cflags:   %s\n", meta.CompileFlags().WithoutSpace())
		fmt.Fprintf(out, "ldflags:  %s\n", meta.LinkFlags.WithSpace())
		return nil
	},
}

func init() {
	probeCmd.Flags().StringVar(&probePkgConfig, "pkg-config", "", "Path to pkg-config")
	rootCmd.AddCommand(probeCmd)
}
