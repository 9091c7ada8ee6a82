package benchmark

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	goutils "go.viam.com/utils"

	"github.com/HexaEngine/HexaEngine-sub024/octree"
)

// Workload defaults.
const (
	DefaultObjects     = 10000
	DefaultIterations  = 1024
	DefaultWarmup      = 100
	DefaultSeed        = 1237896
	DefaultWorldExtent = 10000
	DefaultSpawnExtent = 8000
	DefaultMaxRadius   = 4
	DefaultMaxVelocity = 10
)

// A Config describes a benchmark run. Zero values select the defaults.
type Config struct {
	Objects     int   `json:"objects,omitempty"`
	Iterations  int   `json:"iterations,omitempty"`
	Warmup      int   `json:"warmup,omitempty"`
	Seed        int64 `json:"seed,omitempty"`
	WorldExtent int   `json:"world_extent,omitempty"`
	SpawnExtent int   `json:"spawn_extent,omitempty"`
	MaxRadius   int   `json:"max_radius,omitempty"`
	MaxVelocity int   `json:"max_velocity,omitempty"`
	Verify      bool  `json:"verify,omitempty"`

	// Phases selects the phases to run, in order. Empty runs all of them.
	Phases []Phase `json:"phases,omitempty"`
	// Octree overrides the tree thresholds. Its world, when unset, spans WorldExtent on every axis.
	Octree *octree.Config `json:"octree,omitempty"`
}

// DefaultConfig returns the configuration of the reference workload.
func DefaultConfig() Config {
	cfg := Config{}
	cfg.applyDefaults()
	return cfg
}

// ReadConfig reads a JSON config from path. Unset fields take their defaults.
func ReadConfig(path string) (Config, error) {
	//nolint:gosec
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "cannot read benchmark config %q", path)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "cannot parse benchmark config %q", path)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (config *Config) applyDefaults() {
	config.Objects = withDefault(config.Objects, DefaultObjects)
	config.Iterations = withDefault(config.Iterations, DefaultIterations)
	config.Warmup = withDefault(config.Warmup, DefaultWarmup)
	config.WorldExtent = withDefault(config.WorldExtent, DefaultWorldExtent)
	config.SpawnExtent = withDefault(config.SpawnExtent, DefaultSpawnExtent)
	config.MaxRadius = withDefault(config.MaxRadius, DefaultMaxRadius)
	config.MaxVelocity = withDefault(config.MaxVelocity, DefaultMaxVelocity)
	if config.Seed == 0 {
		config.Seed = DefaultSeed
	}
	if len(config.Phases) == 0 {
		config.Phases = AllPhases()
	}
}

// Validate ensures all parts of the config are valid.
func (config *Config) Validate(path string) error {
	for _, field := range []struct {
		name     string
		value    int
		minValue int
	}{
		{"objects", config.Objects, 1},
		{"iterations", config.Iterations, 1},
		{"warmup", config.Warmup, 0},
		{"world_extent", config.WorldExtent, 1},
		{"spawn_extent", config.SpawnExtent, 1},
		{"max_radius", config.MaxRadius, 2},
		{"max_velocity", config.MaxVelocity, 1},
	} {
		if field.value < field.minValue {
			return goutils.NewConfigValidationError(path,
				errors.Errorf("%s must be at least %d, got %d", field.name, field.minValue, field.value))
		}
	}
	if config.SpawnExtent+config.MaxRadius > config.WorldExtent {
		return goutils.NewConfigValidationError(path,
			errors.Errorf("spawn_extent (%d) plus max_radius (%d) exceeds world_extent (%d)",
				config.SpawnExtent, config.MaxRadius, config.WorldExtent))
	}

	for idx, phase := range config.Phases {
		if !lo.Contains(AllPhases(), phase) {
			return goutils.NewConfigValidationError(fmt.Sprintf("%s.%s.%d", path, "phases", idx),
				errors.Errorf("unknown phase %q", phase))
		}
	}
	if dups := lo.FindDuplicates(config.Phases); len(dups) > 0 {
		return goutils.NewConfigValidationError(path, errors.Errorf("phases listed more than once: %v", dups))
	}

	if config.Octree != nil {
		treeCfg := config.treeConfig()
		if err := treeCfg.Validate(fmt.Sprintf("%s.%s", path, "octree")); err != nil {
			return err
		}
	}
	return nil
}

// treeConfig returns the octree config used by the run.
func (config *Config) treeConfig() octree.Config {
	var treeCfg octree.Config
	if config.Octree != nil {
		treeCfg = *config.Octree
	}
	if treeCfg.World == (octree.WorldConfig{}) {
		e := float64(config.WorldExtent)
		treeCfg.World = octree.WorldConfig{Min: r3.Vector{X: -e, Y: -e, Z: -e}, Max: r3.Vector{X: e, Y: e, Z: e}}
	}
	return treeCfg
}

func withDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}
