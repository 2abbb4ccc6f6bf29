package renderer

import "github.com/lucasb-eyer/go-colorful"

// OpKind identifies a recorded drawing call.
type OpKind uint8

const (
	OpFade OpKind = iota
	OpDisc
	OpLine
)

// Op is one recorded drawing call.
type Op struct {
	Kind   OpKind
	X, Y   float64 // Disc center or line start
	X2, Y2 float64 // Line end
	Size   float64 // Disc radius or line width
	Color  colorful.Color
	Alpha  float64
}

// Recorder is an in-memory Surface that logs drawing calls per frame.
// It backs headless runs and tests.
type Recorder struct {
	w, h       float64
	pixelRatio float64

	frame   []Op
	last    []Op
	frames  int
	resizes int
	clears  int
	cleared colorful.Color
	closed  bool
}

// NewRecorder creates a recorder of the given logical size.
func NewRecorder(w, h float64) *Recorder {
	return &Recorder{w: w, h: h, pixelRatio: 1}
}

func (r *Recorder) Size() (float64, float64) { return r.w, r.h }

func (r *Recorder) Resize(w, h, pixelRatio float64) {
	r.w, r.h, r.pixelRatio = w, h, pixelRatio
	r.resizes++
}

func (r *Recorder) Clear(c colorful.Color) {
	r.clears++
	r.cleared = c
}

func (r *Recorder) Begin() {
	r.frame = r.frame[:0]
}

func (r *Recorder) End() {
	r.last = append(r.last[:0], r.frame...)
	r.frames++
}

func (r *Recorder) Fade(c colorful.Color, alpha float64) {
	r.frame = append(r.frame, Op{Kind: OpFade, Size: r.w, Color: c, Alpha: alpha})
}

func (r *Recorder) Disc(x, y, radius float64, c colorful.Color, alpha float64) {
	r.frame = append(r.frame, Op{Kind: OpDisc, X: x, Y: y, Size: radius, Color: c, Alpha: alpha})
}

func (r *Recorder) Line(x1, y1, x2, y2, width float64, c colorful.Color, alpha float64) {
	r.frame = append(r.frame, Op{Kind: OpLine, X: x1, Y: y1, X2: x2, Y2: y2, Size: width, Color: c, Alpha: alpha})
}

func (r *Recorder) Close() error {
	r.closed = true
	return nil
}

// LastFrame returns the calls of the most recently completed frame.
func (r *Recorder) LastFrame() []Op { return r.last }

// Frames returns the number of completed frames.
func (r *Recorder) Frames() int { return r.frames }

// Resizes returns the number of Resize calls.
func (r *Recorder) Resizes() int { return r.resizes }

// Clears returns the number of Clear calls and the last color cleared to.
func (r *Recorder) Clears() (int, colorful.Color) { return r.clears, r.cleared }

// PixelRatio returns the last pixel ratio passed to Resize.
func (r *Recorder) PixelRatio() float64 { return r.pixelRatio }

// Closed reports whether Close was called.
func (r *Recorder) Closed() bool { return r.closed }

// Count returns how many calls of kind k the last frame made.
func (r *Recorder) Count(k OpKind) int {
	n := 0
	for _, op := range r.last {
		if op.Kind == k {
			n++
		}
	}
	return n
}
