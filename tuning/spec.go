// Package tuning loads navigation tunables from yaml files and watches
// them for changes so a running simulation can pick up new cache and
// steering thresholds between ticks. Graph-affecting fields still require
// a rebuild; Apply only feeds them into the next Build call.
package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/milk9111/platformnav/nav"
)

// Spec mirrors nav.Config in yaml. Zero fields keep the value already in
// the config being overridden, so a file only needs the tunables it
// changes.
type Spec struct {
	NodeSpacing          float64 `yaml:"node_spacing"`
	TrajectorySteps      int     `yaml:"trajectory_steps"`
	MaxDropOffset        float64 `yaml:"max_drop_offset"`
	MaxDropHeight        float64 `yaml:"max_drop_height"`
	DropEffortMultiplier float64 `yaml:"drop_effort_multiplier"`
	CellSize             float64 `yaml:"cell_size"`

	Gravity   float64 `yaml:"gravity"`
	JumpForce float64 `yaml:"jump_force"`

	EffortWeight            float64 `yaml:"effort_weight"`
	VerticalHeuristicWeight float64 `yaml:"vertical_heuristic_weight"`

	MaxSpeed float64 `yaml:"max_speed"`

	GoalChangeThreshold    float64 `yaml:"goal_change_threshold"`
	PathDeviationThreshold float64 `yaml:"path_deviation_threshold"`
	NodeReachedThreshold   float64 `yaml:"node_reached_threshold"`
}

// LoadSpec reads and unmarshals a yaml file into any spec type.
func LoadSpec[T any](path string) (T, error) {
	var zero T

	data, err := os.ReadFile(path)
	if err != nil {
		return zero, fmt.Errorf("tuning: load %s: %w", path, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("tuning: unmarshal %s: %w", path, err)
	}

	return spec, nil
}

// Load reads a tuning file.
func Load(path string) (Spec, error) {
	return LoadSpec[Spec](path)
}

// Apply overlays the spec's non-zero fields onto cfg and returns the
// result. Threshold fields are given in plain units and squared here.
func (s Spec) Apply(cfg nav.Config) nav.Config {
	if s.NodeSpacing > 0 {
		cfg.NodeSpacing = s.NodeSpacing
	}
	if s.TrajectorySteps > 0 {
		cfg.TrajectorySteps = s.TrajectorySteps
	}
	if s.MaxDropOffset > 0 {
		cfg.MaxDropOffset = s.MaxDropOffset
	}
	if s.MaxDropHeight > 0 {
		cfg.MaxDropHeight = s.MaxDropHeight
	}
	if s.DropEffortMultiplier > 0 {
		cfg.DropEffortMultiplier = s.DropEffortMultiplier
	}
	if s.CellSize > 0 {
		cfg.CellSize = s.CellSize
	}
	if s.Gravity > 0 {
		cfg.Gravity = s.Gravity
	}
	if s.JumpForce > 0 {
		cfg.JumpForce = s.JumpForce
	}
	if s.EffortWeight > 0 {
		cfg.EffortWeight = s.EffortWeight
	}
	if s.VerticalHeuristicWeight > 0 {
		cfg.VerticalHeuristicWeight = s.VerticalHeuristicWeight
	}
	if s.MaxSpeed > 0 {
		cfg.MaxSpeed = s.MaxSpeed
	}
	if s.GoalChangeThreshold > 0 {
		cfg.GoalChangeThresholdSq = s.GoalChangeThreshold * s.GoalChangeThreshold
	}
	if s.PathDeviationThreshold > 0 {
		cfg.PathDeviationThresholdSq = s.PathDeviationThreshold * s.PathDeviationThreshold
	}
	if s.NodeReachedThreshold > 0 {
		cfg.NodeReachedThresholdSq = s.NodeReachedThreshold * s.NodeReachedThreshold
	}
	return cfg
}
