package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/lammps-go/lammpsys/model"
)

var cIdentPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidationError represents a single semantic validation error.
type ValidationError struct {
	Path    string // e.g., "bindings.block[1]"
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidationResult holds all validation errors.
type ValidationResult struct {
	Errors []ValidationError
}

func (r *ValidationResult) addError(path, message string) {
	r.Errors = append(r.Errors, ValidationError{Path: path, Message: message})
}

func (r *ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

func (r *ValidationResult) Error() string {
	if r.IsValid() {
		return ""
	}
	var msgs []string
	for _, e := range r.Errors {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "\n")
}

// Validate performs the checks the JSON Schema cannot express.
// cfg is expected to have had defaults applied.
func Validate(cfg *model.Config) *ValidationResult {
	result := &ValidationResult{}

	mode, err := model.ParseMode(cfg.Source)
	if err != nil {
		result.addError("source", err.Error())
	}

	// Anything that may build from source needs a Makefile to start from.
	if (mode == model.ModeAuto || mode == model.ModeBuild) && cfg.LAMMPS.Makefile == "" {
		result.addError("lammps.makefile", fmt.Sprintf("required when source is %q", cfg.Source))
	}

	if cfg.HasFeature(model.FeatureSystemMPI) && !cfg.HasFeature(model.FeatureMPI) {
		result.addError("features", fmt.Sprintf("%q requires %q", model.FeatureSystemMPI, model.FeatureMPI))
	}

	seen := make(map[string]bool)
	for i, pkg := range cfg.Packages {
		if seen[pkg] {
			result.addError(fmt.Sprintf("packages[%d]", i), fmt.Sprintf("duplicate package %q", pkg))
		}
		seen[pkg] = true
	}

	if _, err := regexp.Compile(cfg.Bindings.Allow); err != nil {
		result.addError("bindings.allow", fmt.Sprintf("invalid regular expression: %v", err))
	}

	for i, name := range cfg.Bindings.Block {
		if !cIdentPattern.MatchString(name) {
			result.addError(fmt.Sprintf("bindings.block[%d]", i), fmt.Sprintf("%q is not a C identifier", name))
		}
	}

	if cfg.Make.Jobs < 0 {
		result.addError("make.jobs", "must not be negative")
	}

	return result
}
