package main

import (
	"github.com/zeal8/bloom/config"
)

// ParamSpec defines a single tunable flow parameter.
type ParamSpec struct {
	Name    string  // YAML key in the preset
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Starting value
}

// ParamVector holds the set of tunable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the flower flow parameters the tuner searches over.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "pull_strength", Min: 0.02, Max: 0.3, Default: 0.1},
			{Name: "flow_amplitude", Min: 0.002, Max: 0.05, Default: 0.015},
			{Name: "containment_exponent", Min: 1, Max: 8, Default: 4},
			{Name: "spawn_flow_amplitude", Min: 0, Max: 0.08, Default: 0.03},
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
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToPreset writes clamped parameter values into a preset.
// Order must match Specs order.
func (pv *ParamVector) ApplyToPreset(p *config.PresetConfig, values []float64) {
	clamped := pv.Clamp(values)
	p.PullStrength = clamped[0]
	p.FlowAmplitude = clamped[1]
	p.ContainmentExponent = clamped[2]
	p.SpawnFlowAmplitude = clamped[3]
}

// ExtractFromPreset reads the current parameter values from a preset.
func (pv *ParamVector) ExtractFromPreset(p config.PresetConfig) []float64 {
	return []float64{
		p.PullStrength,
		p.FlowAmplitude,
		p.ContainmentExponent,
		p.SpawnFlowAmplitude,
	}
}
