package main

import (
	"os"

	"github.com/lammps-go/lammpsys/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
