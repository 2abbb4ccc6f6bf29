package renderer

import (
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"
	"github.com/lucasb-eyer/go-colorful"
)

// svgScale is the number of SVG user units per logical pixel.
// svgo takes integer coordinates, so drawing at 10x keeps 0.1px precision.
const svgScale = 10

// SVGSurface buffers drawing calls and writes them as one SVG document.
//
// SVG has no persistent raster, so trails are reproduced by painter's order:
// the surface keeps every frame since the last opaque fade, up to MaxFrames,
// and Flush replays them in order.
type SVGSurface struct {
	MaxFrames int
	Title     string

	w, h   float64
	frames [][]Op
	cur    []Op
	out    io.Writer
}

// NewSVGSurface creates a surface that writes to out on Flush.
func NewSVGSurface(out io.Writer, w, h float64) *SVGSurface {
	return &SVGSurface{MaxFrames: 8, w: w, h: h, out: out}
}

func (s *SVGSurface) Size() (float64, float64) { return s.w, s.h }

func (s *SVGSurface) Resize(w, h, _ float64) {
	s.w, s.h = w, h
	s.frames = nil
}

func (s *SVGSurface) Clear(c colorful.Color) {
	s.frames = [][]Op{{{Kind: OpFade, Color: c, Alpha: 1}}}
}

func (s *SVGSurface) Begin() {
	s.cur = nil
}

func (s *SVGSurface) End() {
	s.frames = append(s.frames, s.cur)
	if s.MaxFrames > 0 && len(s.frames) > s.MaxFrames {
		s.frames = s.frames[len(s.frames)-s.MaxFrames:]
	}
	s.cur = nil
}

func (s *SVGSurface) Fade(c colorful.Color, alpha float64) {
	if alpha >= 1 {
		// Nothing drawn earlier can show through
		s.frames = s.frames[:0]
		s.cur = s.cur[:0]
	}
	s.cur = append(s.cur, Op{Kind: OpFade, Color: c, Alpha: alpha})
}

func (s *SVGSurface) Disc(x, y, r float64, c colorful.Color, alpha float64) {
	s.cur = append(s.cur, Op{Kind: OpDisc, X: x, Y: y, Size: r, Color: c, Alpha: alpha})
}

func (s *SVGSurface) Line(x1, y1, x2, y2, width float64, c colorful.Color, alpha float64) {
	s.cur = append(s.cur, Op{Kind: OpLine, X: x1, Y: y1, X2: x2, Y2: y2, Size: width, Color: c, Alpha: alpha})
}

// Flush writes the buffered frames as a complete SVG document.
func (s *SVGSurface) Flush() error {
	if s.out == nil {
		return nil
	}
	w, h := int(math.Ceil(s.w)), int(math.Ceil(s.h))
	canvas := svg.New(s.out)
	canvas.Startview(w, h, 0, 0, w*svgScale, h*svgScale)
	if s.Title != "" {
		canvas.Title(s.Title)
	}

	for _, frame := range s.frames {
		for _, op := range frame {
			switch op.Kind {
			case OpFade:
				canvas.Rect(0, 0, w*svgScale, h*svgScale, fillStyle(op.Color, op.Alpha))
			case OpDisc:
				r := max(1, scaled(op.Size))
				canvas.Circle(scaled(op.X), scaled(op.Y), r, fillStyle(op.Color, op.Alpha))
			case OpLine:
				canvas.Line(scaled(op.X), scaled(op.Y), scaled(op.X2), scaled(op.Y2),
					strokeStyle(op.Color, op.Alpha, op.Size*svgScale))
			}
		}
	}
	canvas.End()
	return nil
}

// Close flushes the document.
func (s *SVGSurface) Close() error {
	if err := s.Flush(); err != nil {
		return fmt.Errorf("writing svg: %w", err)
	}
	s.out = nil
	return nil
}

func scaled(v float64) int {
	return int(math.Round(v * svgScale))
}

func fillStyle(c colorful.Color, alpha float64) string {
	r, g, b := c.Clamped().RGB255()
	return fmt.Sprintf("fill:rgb(%d,%d,%d);fill-opacity:%.3f;stroke:none", r, g, b, clamp01(alpha))
}

func strokeStyle(c colorful.Color, alpha, width float64) string {
	r, g, b := c.Clamped().RGB255()
	return fmt.Sprintf("stroke:rgb(%d,%d,%d);stroke-opacity:%.3f;stroke-width:%.1f;fill:none",
		r, g, b, clamp01(alpha), width)
}
