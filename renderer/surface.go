// Package renderer draws animation state onto drawing surfaces.
package renderer

import "github.com/lucasb-eyer/go-colorful"

// Surface is a 2D drawing target. Coordinates are logical pixels with the
// origin at the top left. Alpha values are in [0, 1].
type Surface interface {
	Size() (w, h float64)
	// Resize may discard the drawn content. Clear sets it to an opaque color
	// and can be called outside Begin and End.
	Resize(w, h, pixelRatio float64)
	Clear(c colorful.Color)

	// Begin and End bracket one frame of drawing.
	Begin()
	End()

	// Fade paints the whole surface with c at alpha. Alpha 1 is a clear.
	Fade(c colorful.Color, alpha float64)
	Disc(x, y, r float64, c colorful.Color, alpha float64)
	Line(x1, y1, x2, y2, width float64, c colorful.Color, alpha float64)

	Close() error
}
