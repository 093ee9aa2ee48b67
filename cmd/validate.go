package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [lammpsys.yaml]",
	Short: "Check a configuration file without building anything",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		configPath = args[0]
	}

	if !quiet {
		fmt.Printf("Validating %s\n", configPath)
	}

	cfg, _, err := loadConfig(true)
	if err != nil {
		return err
	}

	if verbose > 0 {
		fmt.Printf("  Source: %s\n", cfg.Source)
		fmt.Printf("  Features: %v\n", cfg.Features)
		fmt.Printf("  Packages: %d\n", len(cfg.Packages))
		fmt.Printf("  Blocked functions: %v\n", cfg.EffectiveBlock())
	}

	if !quiet {
		fmt.Println("Validation passed.")
	}
	return nil
}
