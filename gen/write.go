package gen

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteResult counts what WriteFiles did.
type WriteResult struct {
	Written int
	Skipped int // scaffold files that already existed
}

// WriteFiles writes files under dir, creating directories as needed.
// Scaffold files are only written when they don't already exist.
func WriteFiles(dir string, files []*OutputFile, dryRun, verbose bool) (WriteResult, error) {
	var res WriteResult
	for _, f := range files {
		outPath := filepath.Join(dir, f.Path)

		if f.Scaffold {
			if _, err := os.Stat(outPath); err == nil {
				res.Skipped++
				if verbose {
					fmt.Printf("  Scaffold exists, skipped: %s\n", outPath)
				}
				continue
			}
		}

		if dryRun {
			fmt.Printf("  Would write: %s\n", outPath)
			continue
		}

		if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
			return res, fmt.Errorf("creating directory for %s: %w", outPath, err)
		}
		if err := os.WriteFile(outPath, f.Content, 0644); err != nil {
			return res, fmt.Errorf("writing %s: %w", outPath, err)
		}

		res.Written++
		if verbose {
			fmt.Printf("  Wrote: %s\n", outPath)
		}
	}
	return res, nil
}
