package octree

import (
	"fmt"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	goutils "go.viam.com/utils"

	"github.com/HexaEngine/HexaEngine-sub024/spatialmath"
)

// A Config describes the world covered by an octree and the thresholds that shape it. Zero values
// select the defaults.
type Config struct {
	Capacity          int         `json:"capacity,omitempty"`
	World             WorldConfig `json:"world"`
	SplitThreshold    int         `json:"split_threshold,omitempty"`
	MaxDepth          int         `json:"max_depth,omitempty"`
	CollapseThreshold int         `json:"collapse_threshold,omitempty"`
	ListPoolSize      int         `json:"list_pool_size,omitempty"`
}

// WorldConfig is the box covered by the root node.
type WorldConfig struct {
	Min r3.Vector `json:"min"`
	Max r3.Vector `json:"max"`
}

// Validate ensures all parts of the config are valid.
func (config *Config) Validate(path string) error {
	if config.World.Min == (r3.Vector{}) && config.World.Max == (r3.Vector{}) {
		return goutils.NewConfigValidationFieldRequiredError(path, "world")
	}
	if _, err := config.WorldBounds(); err != nil {
		return goutils.NewConfigValidationError(fmt.Sprintf("%s.%s", path, "world"), err)
	}

	for _, field := range []struct {
		name  string
		value int
	}{
		{"capacity", config.Capacity},
		{"split_threshold", config.SplitThreshold},
		{"max_depth", config.MaxDepth},
		{"collapse_threshold", config.CollapseThreshold},
		{"list_pool_size", config.ListPoolSize},
	} {
		if field.value < 0 {
			return goutils.NewConfigValidationError(path, errors.Errorf("%s cannot be negative", field.name))
		}
	}

	split := withDefault(config.SplitThreshold, DefaultSplitThreshold)
	collapse := withDefault(config.CollapseThreshold, DefaultCollapseThreshold)
	if collapse >= split {
		return goutils.NewConfigValidationError(path,
			errors.Errorf("collapse_threshold (%d) must be below split_threshold (%d)", collapse, split))
	}
	return nil
}

// WorldBounds returns the configured world as a box.
func (config *Config) WorldBounds() (spatialmath.Box, error) {
	return spatialmath.NewBox(config.World.Min, config.World.Max)
}
