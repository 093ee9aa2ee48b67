package loader

import (
	"bytes"
	"fmt"
	"os"

	"github.com/lammps-go/lammpsys/model"
	"gopkg.in/yaml.v3"
)

// LoadConfig reads and parses a lammpsys.yaml file.
// It validates the YAML against the JSON Schema before unmarshalling and
// fills in defaults afterwards.
func LoadConfig(path string) (*model.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig validates and parses configuration bytes.
func ParseConfig(data []byte) (*model.Config, error) {
	if err := ValidateSchema(data); err != nil {
		return nil, fmt.Errorf("schema validation: %w", err)
	}
	return ParseConfigNoValidate(data)
}

// ParseConfigNoValidate parses without schema validation.
// Used when schema validation has already been performed.
func ParseConfigNoValidate(data []byte) (*model.Config, error) {
	var cfg model.Config
	if len(bytes.TrimSpace(data)) > 0 {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}
