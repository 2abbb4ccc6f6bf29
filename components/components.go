// Package components defines ECS components for particle storage.
package components

// Position is a particle's current surface position and depth.
type Position struct {
	X, Y float64
	Z    float64 // Depth; drives size and opacity
}

// Seed holds the polar parameters a particle was spawned with.
// It never changes after spawn.
type Seed struct {
	R      float64 // Spawn radius in pixels
	Theta  float64 // Spawn angle in radians
	Height float64 // Spawn depth
}
