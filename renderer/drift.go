package renderer

import (
	"github.com/zeal8/bloom/systems"
)

// DriftRenderer draws the drifting cloud.
type DriftRenderer struct {
	Palette Palette
}

// NewDriftRenderer creates a drift renderer.
func NewDriftRenderer(pal Palette) *DriftRenderer {
	return &DriftRenderer{Palette: pal}
}

// Draw paints one frame of drift particles.
func (r *DriftRenderer) Draw(s Surface, particles []systems.DriftParticle) {
	s.Fade(r.Palette.Background, r.Palette.Trail)
	for i := range particles {
		p := &particles[i]
		s.Disc(p.X, p.Y, p.Size, r.Palette.Particle, p.Alpha)
	}
}
