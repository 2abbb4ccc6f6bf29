package renderer

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/zeal8/bloom/systems"
)

// Segment shading: fresh segments are light and faint, old ones dark and solid.
const (
	spiralFreshGray  = 170
	spiralAgedGray   = 85
	spiralFreshAlpha = 0.3
	spiralAgedAlpha  = 1.0
	spiralLineWidth  = 1.0
	spiralDotRadius  = 3.0
)

// SpiralRenderer draws the continuously drawn spiral and its head dot.
type SpiralRenderer struct {
	Palette Palette
}

// NewSpiralRenderer creates a spiral renderer.
func NewSpiralRenderer(pal Palette) *SpiralRenderer {
	return &SpiralRenderer{Palette: pal}
}

// Draw paints one frame of the spiral as seen at clock value now.
func (r *SpiralRenderer) Draw(s Surface, sp *systems.Spiral, now float64) {
	s.Fade(r.Palette.Background, r.Palette.Trail)

	points := sp.Points()
	for i := 1; i < len(points); i++ {
		p1, p2 := points[i-1], points[i]
		gray, alpha := SpiralSegmentShade(systems.SegmentAge(now, p1.Timestamp))
		s.Line(p1.X, p1.Y, p2.X, p2.Y, spiralLineWidth, gray, alpha)
	}

	x, y := sp.Head()
	s.Disc(x, y, spiralDotRadius, r.Palette.Particle, 1)
}

// SpiralSegmentShade maps a segment age in [0, 1] to its gray and alpha.
func SpiralSegmentShade(age float64) (colorful.Color, float64) {
	age = clamp01(age)
	level := math.Floor(spiralFreshGray + (spiralAgedGray-spiralFreshGray)*age)
	v := level / 255
	return colorful.Color{R: v, G: v, B: v}, spiralFreshAlpha + (spiralAgedAlpha-spiralFreshAlpha)*age
}
