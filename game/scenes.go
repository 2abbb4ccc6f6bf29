package game

import (
	"math"
	"math/rand"

	"github.com/zeal8/bloom/camera"
	"github.com/zeal8/bloom/config"
	"github.com/zeal8/bloom/renderer"
	"github.com/zeal8/bloom/systems"
)

// scene is one animation kind: its particle state and how it is drawn.
type scene interface {
	// layout fully reseeds for the current viewport.
	layout(vp *camera.Viewport, rng *rand.Rand)
	step(t float64, ptr systems.PointerState)
	draw(s renderer.Surface, t float64, ptr systems.PointerState)
	count() int
	close() error
}

// fieldScene is implemented by scenes with a radial particle field.
type fieldScene interface {
	// sample returns each particle's distance from the field center and depth.
	sample() (radii, depths []float64)
}

// squareKind reports whether a kind draws on a square surface.
func squareKind(kind string) bool {
	switch kind {
	case config.KindFlower, config.KindSpiral, config.KindYinYang:
		return true
	}
	return false
}

func newScene(p config.PresetConfig, pal renderer.Palette, interactive bool, surface renderer.Surface) scene {
	switch p.Kind {
	case config.KindVessel:
		return &vesselScene{preset: p, palette: pal, surface: surface}
	case config.KindDrift:
		return &driftScene{preset: p, renderer: renderer.NewDriftRenderer(pal)}
	case config.KindSpiral:
		return &spiralScene{spiral: &systems.Spiral{}, renderer: renderer.NewSpiralRenderer(pal)}
	case config.KindYinYang:
		return &yinYangScene{yinyang: &systems.YinYang{}, renderer: renderer.NewYinYangRenderer(pal)}
	default:
		return &flowerScene{
			preset:   p,
			field:    systems.NewFlowerField(),
			renderer: renderer.NewFlowerRenderer(pal, interactive),
		}
	}
}

// flowerScene is the flow field on a disc.
type flowerScene struct {
	preset   config.PresetConfig
	field    *systems.FlowerField
	renderer *renderer.FlowerRenderer
}

func (s *flowerScene) params(vp *camera.Viewport) systems.FlowParams {
	cx, cy := vp.Center()
	return systems.FlowParamsFromPreset(s.preset, systems.Center{X: cx, Y: cy}, vp.Unit())
}

func (s *flowerScene) layout(vp *camera.Viewport, rng *rand.Rand) {
	s.field.Seed(rng, s.preset.Count, s.params(vp))
}

// restore replaces the field with saved particles laid out for vp.
func (s *flowerScene) restore(vp *camera.Viewport, particles []systems.Particle) {
	s.field.Restore(particles, s.params(vp))
}

func (s *flowerScene) step(t float64, ptr systems.PointerState) {
	s.field.Step(t, ptr)
}

func (s *flowerScene) draw(surf renderer.Surface, _ float64, ptr systems.PointerState) {
	s.renderer.Draw(surf, s.field, ptr)
}

func (s *flowerScene) count() int { return s.field.Count() }

func (s *flowerScene) close() error { return nil }

func (s *flowerScene) sample() (radii, depths []float64) {
	c := s.field.Params().Center
	radii = make([]float64, 0, s.field.Count())
	depths = make([]float64, 0, s.field.Count())
	s.field.Each(func(p systems.Particle) {
		radii = append(radii, math.Hypot(p.X-c.X, p.Y-c.Y))
		depths = append(depths, p.Z)
	})
	return radii, depths
}

// vesselRenderer is satisfied by the GPU and CPU vase renderers.
type vesselRenderer interface {
	Draw(s renderer.Surface, t float64)
	Close() error
}

// vesselScene is the rotating vase. Its attributes are generated once per
// instance; a resize only rescales the sprites.
type vesselScene struct {
	preset  config.PresetConfig
	palette renderer.Palette
	surface renderer.Surface

	attrs  []systems.VesselAttrs
	gpu    *renderer.VesselGPU
	render vesselRenderer
}

func (s *vesselScene) layout(vp *camera.Viewport, rng *rand.Rand) {
	_, bufH := vp.BufferSize()
	if s.render != nil {
		if s.gpu != nil {
			s.gpu.Resize(bufH)
		}
		return
	}

	s.attrs = systems.SeedVessel(rng, s.preset.Count, s.preset.ParticleSize)
	params := renderer.VesselParams{
		RotationSpeed: s.preset.RotationSpeed,
		Scale:         s.preset.FormScale,
		Opacity:       s.preset.Opacity,
	}

	if rs, ok := s.surface.(*renderer.RaylibSurface); ok && rs.Ready() {
		gpu := renderer.NewVesselGPU(s.palette, s.attrs, params)
		gpu.Init(bufH)
		if gpu.Enabled() {
			s.gpu = gpu
			s.render = gpu
			return
		}
	}
	s.render = renderer.NewVesselCPU(s.palette, s.attrs, params)
}

func (s *vesselScene) step(float64, systems.PointerState) {}

func (s *vesselScene) draw(surf renderer.Surface, t float64, _ systems.PointerState) {
	if s.render != nil {
		s.render.Draw(surf, t)
	}
}

func (s *vesselScene) count() int { return len(s.attrs) }

func (s *vesselScene) close() error {
	if s.render == nil {
		return nil
	}
	err := s.render.Close()
	s.render, s.gpu = nil, nil
	return err
}

// driftScene is the drifting cloud.
type driftScene struct {
	preset    config.PresetConfig
	particles []systems.DriftParticle
	renderer  *renderer.DriftRenderer
}

func (s *driftScene) layout(vp *camera.Viewport, rng *rand.Rand) {
	cx, cy := vp.Center()
	s.particles = systems.SeedDrift(rng, s.preset.Count, systems.Center{X: cx, Y: cy}, vp.ShortSide())
}

func (s *driftScene) step(t float64, _ systems.PointerState) {
	for i := range s.particles {
		s.particles[i] = systems.AdvanceDrift(s.particles[i], t)
	}
}

func (s *driftScene) draw(surf renderer.Surface, _ float64, _ systems.PointerState) {
	s.renderer.Draw(surf, s.particles)
}

func (s *driftScene) count() int { return len(s.particles) }

func (s *driftScene) close() error { return nil }

func (s *driftScene) sample() (radii, depths []float64) {
	radii = make([]float64, len(s.particles))
	depths = make([]float64, len(s.particles))
	for i, p := range s.particles {
		radii[i] = math.Hypot(p.X-p.HomeX, p.Y-p.HomeY)
	}
	return radii, depths
}

// spiralScene draws one point per frame outward from the center.
type spiralScene struct {
	spiral   *systems.Spiral
	renderer *renderer.SpiralRenderer
}

func (s *spiralScene) layout(vp *camera.Viewport, _ *rand.Rand) {
	s.spiral.Layout(vp.ShortSide())
}

func (s *spiralScene) step(t float64, _ systems.PointerState) {
	s.spiral.Step(t)
}

func (s *spiralScene) draw(surf renderer.Surface, t float64, _ systems.PointerState) {
	s.renderer.Draw(surf, s.spiral, t)
}

func (s *spiralScene) count() int { return len(s.spiral.Points()) }

func (s *spiralScene) close() error { return nil }

// yinYangScene draws the wavy ring emblem. It has no per-particle state.
type yinYangScene struct {
	yinyang  *systems.YinYang
	renderer *renderer.YinYangRenderer
}

func (s *yinYangScene) layout(vp *camera.Viewport, _ *rand.Rand) {
	*s.yinyang = *systems.NewYinYang(vp.ShortSide())
}

func (s *yinYangScene) step(float64, systems.PointerState) {}

func (s *yinYangScene) draw(surf renderer.Surface, t float64, _ systems.PointerState) {
	s.renderer.Draw(surf, s.yinyang, t)
}

func (s *yinYangScene) count() int { return s.yinyang.RingCount() }

func (s *yinYangScene) close() error { return nil }
