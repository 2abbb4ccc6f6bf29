// Package systems holds the particle simulations: field seeding, the flow
// evaluator and the per-kind recurrences. Nothing here draws.
package systems

import "github.com/zeal8/bloom/config"

// Particle is one point of a flower field.
type Particle struct {
	X, Y, Z float64 // current position; Z is depth

	// Spawn parameters. Never read by Advance.
	R, Theta, Height float64
}

// Finite reports whether every coordinate is a finite number.
func (p Particle) Finite() bool {
	return finite(p.X) && finite(p.Y) && finite(p.Z)
}

// PointerState is the last known pointer position on the surface.
type PointerState struct {
	X, Y   float64
	Active bool
}

// Center is a point on the surface in pixels.
type Center struct {
	X, Y float64
}

// FlowParams holds everything Advance needs besides the particle and time.
type FlowParams struct {
	Center Center
	Unit   float64 // pixels per form unit

	FormScale           float64
	FlowSpeed           float64
	FlowAmplitude       float64
	SpawnFlowAmplitude  float64
	PullStrength        float64
	ContainmentExponent float64
	BobSpeed            float64
	BobAmplitude        float64

	Opacity      float64
	ParticleSize float64

	PointerRadius   float64
	PointerStrength float64
	PointerSwirl    float64
}

// FlowParamsFromPreset builds flow parameters for a field laid out at center.
func FlowParamsFromPreset(p config.PresetConfig, center Center, unit float64) FlowParams {
	return FlowParams{
		Center:              center,
		Unit:                unit,
		FormScale:           p.FormScale,
		FlowSpeed:           p.FlowSpeed,
		FlowAmplitude:       p.FlowAmplitude,
		SpawnFlowAmplitude:  p.SpawnFlowAmplitude,
		PullStrength:        p.PullStrength,
		ContainmentExponent: p.ContainmentExponent,
		BobSpeed:            p.BobSpeed,
		BobAmplitude:        p.BobAmplitude,
		Opacity:             p.Opacity,
		ParticleSize:        p.ParticleSize,
		PointerRadius:       p.PointerRadius,
		PointerStrength:     p.PointerStrength,
		PointerSwirl:        p.PointerSwirl,
	}
}

// wallThreshold is the distance, in form units, where the containment wall saturates.
func (f FlowParams) wallThreshold() float64 {
	return f.FormScale * 0.8
}

// SpawnBound is the largest distance from the center a freshly seeded particle can have.
func (f FlowParams) SpawnBound() float64 {
	return f.FormScale * 0.5 * (1 + f.SpawnFlowAmplitude) * f.Unit
}

// ContainmentBound is an upper bound on the distance from the center that
// repeated Advance calls without a pointer can reach, for any time.
// Inside the wall threshold a step grows the radius by at most (1+amp);
// beyond it the pull outweighs the flow and the radius shrinks.
func (f FlowParams) ContainmentBound() float64 {
	r := f.wallThreshold() * (1 + f.FlowAmplitude) * f.Unit
	if spawn := f.SpawnBound(); spawn > r {
		return spawn
	}
	return r
}
