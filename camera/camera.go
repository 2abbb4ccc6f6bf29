// Package camera maps a host display region onto the drawing surface.
package camera

import "math"

// Options configures how a display size becomes a surface size.
type Options struct {
	MinSize       float64 // floor for each side; guards zero-sized containers
	MaxSize       float64 // cap for each side, 0 for none
	UnitRatio     float64 // pixels per form unit as a fraction of the short side
	PixelRatioCap float64 // device pixel ratio cap, 0 for none
	Square        bool    // use the short side for both dimensions
}

// Viewport is the render surface state of one animation instance.
type Viewport struct {
	// Surface size in logical pixels
	Width, Height float64

	// Display size the surface is shown at; pointer events arrive in these units
	DisplayW, DisplayH float64

	// Device pixel ratio after the cap
	PixelRatio float64

	opts Options
}

// New creates a viewport for a display of the given size.
func New(displayW, displayH, pixelRatio float64, opts Options) *Viewport {
	if opts.MinSize <= 0 {
		opts.MinSize = 1
	}
	v := &Viewport{opts: opts}
	v.Resize(displayW, displayH, pixelRatio)
	return v
}

// Resize recomputes the surface for a new display size.
// Returns true if the surface size or pixel ratio changed.
func (v *Viewport) Resize(displayW, displayH, pixelRatio float64) bool {
	w := v.side(displayW)
	h := v.side(displayH)
	if v.opts.Square {
		s := math.Min(w, h)
		w, h = s, s
	}
	pr := v.pixelRatio(pixelRatio)

	changed := w != v.Width || h != v.Height || pr != v.PixelRatio
	v.Width, v.Height = w, h
	v.DisplayW = v.floor(displayW)
	v.DisplayH = v.floor(displayH)
	v.PixelRatio = pr
	return changed
}

func (v *Viewport) floor(d float64) float64 {
	if math.IsNaN(d) || d < v.opts.MinSize {
		return v.opts.MinSize
	}
	return d
}

func (v *Viewport) side(d float64) float64 {
	d = v.floor(d)
	if v.opts.MaxSize > 0 && d > v.opts.MaxSize {
		d = v.opts.MaxSize
	}
	return d
}

func (v *Viewport) pixelRatio(pr float64) float64 {
	if pr <= 0 || math.IsNaN(pr) {
		pr = 1
	}
	if v.opts.PixelRatioCap > 0 && pr > v.opts.PixelRatioCap {
		pr = v.opts.PixelRatioCap
	}
	return pr
}

// Center returns the surface center.
func (v *Viewport) Center() (x, y float64) {
	return v.Width / 2, v.Height / 2
}

// ShortSide returns the smaller surface dimension.
func (v *Viewport) ShortSide() float64 {
	return math.Min(v.Width, v.Height)
}

// Unit returns the number of pixels in one form unit.
func (v *Viewport) Unit() float64 {
	return v.ShortSide() * v.opts.UnitRatio
}

// MaxRadius returns the largest circle that fits the surface around its center.
func (v *Viewport) MaxRadius() float64 {
	return v.ShortSide() / 2
}

// BufferSize returns the backing buffer size in device pixels.
func (v *Viewport) BufferSize() (w, h int) {
	return int(math.Round(v.Width * v.PixelRatio)), int(math.Round(v.Height * v.PixelRatio))
}

// Offset returns where the surface's top left corner sits on the display.
// The surface is centered and never stretched.
func (v *Viewport) Offset() (x, y float64) {
	return (v.DisplayW - v.Width) / 2, (v.DisplayH - v.Height) / 2
}

// DisplayToSurface converts a pointer position in display coordinates
// into surface coordinates.
func (v *Viewport) DisplayToSurface(dx, dy float64) (sx, sy float64) {
	ox, oy := v.Offset()
	return dx - ox, dy - oy
}

// Contains reports whether a display position lies on the surface.
func (v *Viewport) Contains(dx, dy float64) bool {
	sx, sy := v.DisplayToSurface(dx, dy)
	return sx >= 0 && sy >= 0 && sx < v.Width && sy < v.Height
}
