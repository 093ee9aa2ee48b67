package gen

import (
	"fmt"
	"sort"
	"sync"

	"github.com/lammps-go/lammpsys/model"
)

// OutputFile represents a single generated file.
type OutputFile struct {
	Path     string // Relative path within output directory
	Content  []byte
	Scaffold bool // If true, only write when file doesn't already exist
}

// Generator is the interface all code generators implement.
// Adding an output requires only implementing this interface and calling
// Register() in init().
type Generator interface {
	// Name returns the generator name (e.g., "cgo_flags", "bindings").
	Name() string

	// Generate produces output files for the given build.
	Generate(ctx *Context) ([]*OutputFile, error)
}

var (
	registryMu sync.RWMutex
	registry   = map[string]func() Generator{}
)

// Register adds a generator factory to the registry.
// Typically called from init() in each generator's file.
func Register(name string, factory func() Generator) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[name]; exists {
		panic(fmt.Sprintf("generator %q already registered", name))
	}
	registry[name] = factory
}

// Get returns a new instance of the named generator.
func Get(name string) (Generator, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	factory, ok := registry[name]
	if !ok {
		return nil, false
	}
	return factory(), true
}

// All returns the names of all registered generators, sorted.
func All() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GeneratorsForConfig returns the generator names a build runs, in order.
func GeneratorsForConfig(cfg *model.Config) []string {
	names := []string{"cgo_flags", "bindings"}
	if !cfg.HasFeature(model.FeatureSystemMPI) {
		names = append(names, "fake_mpi")
	}
	return names
}

// Run runs the named generators in order and collects their output.
func Run(ctx *Context, names []string) ([]*OutputFile, error) {
	var all []*OutputFile
	for _, name := range names {
		g, ok := Get(name)
		if !ok {
			return nil, fmt.Errorf("unknown generator %q", name)
		}
		if ctx.Verbose {
			fmt.Printf("  Running generator: %s\n", g.Name())
		}
		files, err := g.Generate(ctx)
		if err != nil {
			return nil, fmt.Errorf("generator %s failed: %w", name, err)
		}
		all = append(all, files...)
	}
	return all, nil
}
