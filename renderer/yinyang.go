package renderer

import (
	"github.com/zeal8/bloom/systems"
)

const (
	yinYangLineWidth = 0.6
	yinAlpha         = 0.3
)

// YinYangRenderer draws wavy concentric rings with a faint yin half.
type YinYangRenderer struct {
	Palette Palette

	buf []systems.RingPoint
}

// NewYinYangRenderer creates a yin-yang renderer.
func NewYinYangRenderer(pal Palette) *YinYangRenderer {
	return &YinYangRenderer{Palette: pal}
}

// Draw paints every ring at clock value t. Each segment takes the shade of
// the vertex it ends on.
func (r *YinYangRenderer) Draw(s Surface, y *systems.YinYang, t float64) {
	s.Fade(r.Palette.Background, r.Palette.Trail)

	for i := 0; i < y.RingCount(); i++ {
		r.buf = y.Ring(r.buf[:0], i, t)
		for j := 1; j < len(r.buf); j++ {
			a, b := r.buf[j-1], r.buf[j]
			alpha := 1.0
			if b.Yin {
				alpha = yinAlpha
			}
			s.Line(a.X, a.Y, b.X, b.Y, yinYangLineWidth, r.Palette.Accent, alpha)
		}
	}
}
