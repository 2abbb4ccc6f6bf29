package renderer

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/zeal8/bloom/systems"
)

// VesselCPU projects the vase on any Surface. It mirrors the GPU vertex
// stage and is used for snapshots, headless runs and tests.
type VesselCPU struct {
	Palette Palette
	Params  VesselParams

	attrs []systems.VesselAttrs
}

// NewVesselCPU creates a CPU vase renderer.
func NewVesselCPU(pal Palette, attrs []systems.VesselAttrs, params VesselParams) *VesselCPU {
	return &VesselCPU{Palette: pal, Params: params, attrs: attrs}
}

// Draw paints one frame at time t.
func (v *VesselCPU) Draw(s Surface, t float64) {
	s.Fade(v.Palette.Background, v.Palette.Trail)

	w, h := s.Size()
	for _, a := range v.attrs {
		pos := systems.VesselPosition(a.Base, t, v.Params.RotationSpeed, v.Params.Scale)
		x, y, r, ok := projectVessel(pos, float64(a.Size), w, h)
		if !ok {
			continue
		}
		shade := float64(a.Shade)
		s.Disc(x, y, r, colorful.Color{R: shade, G: shade, B: shade}, v.Params.Opacity)
	}
}

// Close is a no-op; the CPU path owns no GPU resources.
func (v *VesselCPU) Close() error { return nil }

// projectVessel maps a model-space position through the vessel camera onto a
// w x h surface. Returns the sprite radius in pixels; ok is false behind the camera.
func projectVessel(pos [3]float64, size, w, h float64) (x, y, r float64, ok bool) {
	depth := vesselCameraZ - pos[2]
	if depth <= 0 || h <= 0 {
		return 0, 0, 0, false
	}
	tanHalf := math.Tan(vesselFovY * math.Pi / 360)
	aspect := w / h

	ndcX := pos[0] / (depth * tanHalf * aspect)
	ndcY := pos[1] / (depth * tanHalf)

	x = (ndcX + 1) / 2 * w
	y = (1 - ndcY) / 2 * h
	r = size * vesselSpriteScale / depth / 2
	return x, y, r, true
}
