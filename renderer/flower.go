package renderer

import (
	"github.com/zeal8/bloom/systems"
)

// FlowerRenderer draws a flower field as depth-shaded discs over a fading background.
type FlowerRenderer struct {
	Palette     Palette
	Interactive bool
}

// NewFlowerRenderer creates a flower renderer.
func NewFlowerRenderer(pal Palette, interactive bool) *FlowerRenderer {
	return &FlowerRenderer{Palette: pal, Interactive: interactive}
}

// Draw paints one frame. The caller brackets it with Begin and End.
func (r *FlowerRenderer) Draw(s Surface, field *systems.FlowerField, ptr systems.PointerState) {
	s.Fade(r.Palette.Background, r.Palette.Trail)

	f := field.Params()
	cx, cy := f.Center.X, f.Center.Y
	field.Each(func(p systems.Particle) {
		opacity, size := systems.Appearance(p, f)

		influence := 0.0
		if r.Interactive {
			influence = systems.PointerInfluence(p.X, p.Y, f, ptr)
		}
		s.Disc(p.X, p.Y, size, r.Palette.ParticleColor(p.X, p.Y, cx, cy, influence), opacity)
	})
}
