package main

import (
	"github.com/pthm-cable/shoal/config"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all tunable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of creature balance parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Perception
			{Name: "detection_per_size", Path: "creatures.detection_per_size", Min: 4, Max: 10, Default: 7},
			{Name: "detection_base", Path: "creatures.detection_base", Min: 60, Max: 200, Default: 120},
			{Name: "chase_range_scale", Path: "creatures.chase_range_scale", Min: 1.0, Max: 1.6, Default: 1.2},
			// Combat
			{Name: "attack_cooldown_ms", Path: "creatures.attack_cooldown_ms", Min: 300, Max: 1200, Default: 600},
			{Name: "lifesteal", Path: "creatures.lifesteal", Min: 0, Max: 0.6, Default: 0.25},
			// Movement
			{Name: "flee_speed_scale", Path: "creatures.flee.speed_scale", Min: 0.9, Max: 1.4, Default: 1.15},
			{Name: "chase_speed_scale", Path: "creatures.chase.speed_scale", Min: 0.8, Max: 1.3, Default: 1.0},
			// Food
			{Name: "food_respawn_ms", Path: "food.respawn_ms", Min: 2000, Max: 12000, Default: 6000},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(spec.Max, max(spec.Min, v[i]))
	}
	return clamped
}

// fields returns pointers to the config values in Specs order.
func (pv *ParamVector) fields(cfg *config.Config) []*float64 {
	return []*float64{
		&cfg.Creatures.DetectionPerSize,
		&cfg.Creatures.DetectionBase,
		&cfg.Creatures.ChaseRangeScale,
		&cfg.Creatures.AttackCooldownMs,
		&cfg.Creatures.Lifesteal,
		&cfg.Creatures.Flee.SpeedScale,
		&cfg.Creatures.Chase.SpeedScale,
		&cfg.Food.RespawnMs,
	}
}

// ApplyToConfig writes clamped parameter values into cfg.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)
	for i, f := range pv.fields(cfg) {
		*f = clamped[i]
	}
}

// ExtractFromConfig reads the current parameter values from cfg.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	fields := pv.fields(cfg)
	v := make([]float64, len(fields))
	for i, f := range fields {
		v[i] = *f
	}
	return v
}
