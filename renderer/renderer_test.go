package renderer

import (
	"bytes"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/zeal8/bloom/config"
	"github.com/zeal8/bloom/systems"
)

var lightTheme = config.ThemeConfig{
	Background:   "#FFFFFF",
	Particle:     "#333333",
	Accent:       "#C8553D",
	TrailOpacity: 0.05,
}

func testField(n int) *systems.FlowerField {
	f := systems.FlowParams{
		Center:              systems.Center{X: 275, Y: 275},
		Unit:                150,
		FormScale:           2.4,
		FlowSpeed:           0.5,
		FlowAmplitude:       0.015,
		SpawnFlowAmplitude:  0.03,
		PullStrength:        0.1,
		ContainmentExponent: 4,
		BobSpeed:            0.15,
		BobAmplitude:        0.01,
		Opacity:             0.35,
		ParticleSize:        0.6,
		PointerRadius:       100,
		PointerStrength:     0.5,
	}
	ff := systems.NewFlowerField()
	ff.Seed(rand.New(rand.NewSource(1)), n, f)
	return ff
}

func TestNewPalette(t *testing.T) {
	pal, err := NewPalette(lightTheme, 0.05)
	if err != nil {
		t.Fatalf("NewPalette: %v", err)
	}
	if pal.Gradient {
		t.Error("solid theme should not be a gradient")
	}
	if r, g, b := pal.Particle.RGB255(); r != 0x33 || g != 0x33 || b != 0x33 {
		t.Errorf("particle color = %d,%d,%d, want 51,51,51", r, g, b)
	}

	bad := lightTheme
	bad.Background = "not-a-color"
	if _, err := NewPalette(bad, 0.05); err == nil {
		t.Error("expected error for malformed background")
	}
}

func TestParticleColorGradient(t *testing.T) {
	pal := MustPalette(config.ThemeConfig{Background: "#000000", Particle: config.Gradient, Accent: "#FFFFFF"}, 0.06)
	if !pal.Gradient {
		t.Fatal("expected gradient palette")
	}

	// Right of center: atan2 = 0, hue 180
	h, s, l := pal.ParticleColor(10, 0, 0, 0, 0).Hsl()
	if math.Abs(h-180) > 0.5 || math.Abs(s-0.7) > 0.01 || math.Abs(l-0.6) > 0.01 {
		t.Errorf("got hsl(%f, %f, %f), want hsl(180, 0.7, 0.6)", h, s, l)
	}
}

func TestParticleColorAccentBlend(t *testing.T) {
	pal := MustPalette(lightTheme, 0.05)

	if c := pal.ParticleColor(0, 0, 0, 0, 0); !c.AlmostEqualRgb(pal.Particle) {
		t.Errorf("zero influence should keep base color, got %s", c.Hex())
	}
	if c := pal.ParticleColor(0, 0, 0, 0, 1); !c.AlmostEqualRgb(pal.Accent) {
		t.Errorf("full influence should reach accent, got %s", c.Hex())
	}
	mid := pal.ParticleColor(0, 0, 0, 0, 0.5)
	want := pal.Particle.BlendRgb(pal.Accent, 0.5)
	if !mid.AlmostEqualRgb(want) {
		t.Errorf("half influence = %s, want %s", mid.Hex(), want.Hex())
	}
}

func TestFlowerRendererFadesThenDraws(t *testing.T) {
	rec := NewRecorder(550, 550)
	field := testField(300)
	r := NewFlowerRenderer(MustPalette(lightTheme, 0.05), false)

	rec.Begin()
	r.Draw(rec, field, systems.PointerState{})
	rec.End()

	ops := rec.LastFrame()
	if len(ops) != 301 {
		t.Fatalf("expected 1 fade + 300 discs, got %d ops", len(ops))
	}
	if ops[0].Kind != OpFade || ops[0].Alpha != 0.05 {
		t.Errorf("first op should be a 0.05 fade, got %+v", ops[0])
	}
	for _, op := range ops[1:] {
		if op.Kind != OpDisc {
			t.Fatalf("expected disc, got %+v", op)
		}
		if op.Alpha < 0 || op.Alpha > 1 || op.Size < 0.001 {
			t.Fatalf("bad disc appearance: %+v", op)
		}
	}
}

func TestFlowerRendererEmptyField(t *testing.T) {
	rec := NewRecorder(100, 100)
	r := NewFlowerRenderer(MustPalette(lightTheme, 0.05), true)

	rec.Begin()
	r.Draw(rec, testField(0), systems.PointerState{X: 50, Y: 50, Active: true})
	rec.End()

	if rec.Count(OpFade) != 1 || rec.Count(OpDisc) != 0 {
		t.Errorf("empty field should only fade, got %+v", rec.LastFrame())
	}
}

func TestFlowerRendererPointerTint(t *testing.T) {
	pal := MustPalette(lightTheme, 0.05)
	field := testField(2000)
	ptr := systems.PointerState{X: 275, Y: 275, Active: true}

	tinted := func(interactive bool) int {
		rec := NewRecorder(550, 550)
		rec.Begin()
		NewFlowerRenderer(pal, interactive).Draw(rec, field, ptr)
		rec.End()
		n := 0
		for _, op := range rec.LastFrame() {
			if op.Kind == OpDisc && !op.Color.AlmostEqualRgb(pal.Particle) {
				n++
			}
		}
		return n
	}

	if n := tinted(false); n != 0 {
		t.Errorf("non-interactive renderer tinted %d particles", n)
	}
	if n := tinted(true); n == 0 {
		t.Error("interactive renderer should tint particles near the pointer")
	}
}

func TestSpiralSegmentShade(t *testing.T) {
	tests := []struct {
		age       float64
		wantGray  uint8
		wantAlpha float64
	}{
		{0, 170, 0.3},
		{1, 85, 1.0},
		{2, 85, 1.0},
	}
	for _, tt := range tests {
		c, alpha := SpiralSegmentShade(tt.age)
		r, _, _ := c.RGB255()
		if r != tt.wantGray || math.Abs(alpha-tt.wantAlpha) > 1e-12 {
			t.Errorf("age %v: got gray %d alpha %f, want %d %f", tt.age, r, alpha, tt.wantGray, tt.wantAlpha)
		}
	}
}

func TestSpiralRenderer(t *testing.T) {
	sp := systems.NewSpiral(300)
	for i := 0; i < 10; i++ {
		sp.Step(float64(i) * 0.00375)
	}
	pal := MustPalette(config.ThemeConfig{Background: "#FFFFFF", Particle: "#505050", TrailOpacity: 1}, 1)

	rec := NewRecorder(300, 300)
	rec.Begin()
	NewSpiralRenderer(pal).Draw(rec, sp, 0.0375)
	rec.End()

	if rec.Count(OpLine) != 9 {
		t.Errorf("expected 9 segments, got %d", rec.Count(OpLine))
	}
	if rec.Count(OpDisc) != 1 {
		t.Errorf("expected one head dot, got %d", rec.Count(OpDisc))
	}
}

func TestYinYangRenderer(t *testing.T) {
	y := systems.NewYinYang(200)
	pal := MustPalette(config.ThemeConfig{Background: "#FFFFFF", Particle: "#505050", Accent: "#000000"}, 1)

	rec := NewRecorder(200, 200)
	rec.Begin()
	NewYinYangRenderer(pal).Draw(rec, y, 0)
	rec.End()

	faint, solid := 0, 0
	for _, op := range rec.LastFrame() {
		if op.Kind != OpLine {
			continue
		}
		switch op.Alpha {
		case yinAlpha:
			faint++
		case 1:
			solid++
		}
	}
	if faint == 0 || solid == 0 {
		t.Errorf("expected faint and solid segments, got %d faint %d solid", faint, solid)
	}
}

func TestDriftRenderer(t *testing.T) {
	particles := systems.SeedDrift(rand.New(rand.NewSource(2)), 50, systems.Center{X: 100, Y: 100}, 200)
	pal := MustPalette(config.ThemeConfig{Background: "#000000", Particle: "#FFFFFF", TrailOpacity: 0.1}, 0.1)

	rec := NewRecorder(200, 200)
	rec.Begin()
	NewDriftRenderer(pal).Draw(rec, particles)
	rec.End()

	if rec.Count(OpDisc) != 50 {
		t.Errorf("expected 50 discs, got %d", rec.Count(OpDisc))
	}
	if ops := rec.LastFrame(); ops[0].Alpha != 0.1 {
		t.Errorf("drift trail alpha = %f, want 0.1", ops[0].Alpha)
	}
}

func TestVesselCPUProjectsOnSurface(t *testing.T) {
	attrs := systems.SeedVessel(rand.New(rand.NewSource(3)), 2000, 1.3)
	pal := MustPalette(config.ThemeConfig{Background: "#F8F6F0", Particle: "#1A1A1A"}, 1)
	v := NewVesselCPU(pal, attrs, VesselParams{RotationSpeed: 0.25, Scale: 2.8, Opacity: 0.4})

	rec := NewRecorder(600, 600)
	rec.Begin()
	v.Draw(rec, 1.5)
	rec.End()

	if rec.Count(OpDisc) != 2000 {
		t.Fatalf("expected 2000 sprites, got %d", rec.Count(OpDisc))
	}
	for _, op := range rec.LastFrame()[1:] {
		if op.X < 0 || op.X > 600 || op.Y < 0 || op.Y > 600 {
			t.Fatalf("sprite off surface at (%f, %f)", op.X, op.Y)
		}
		if op.Size <= 0 || math.IsNaN(op.Size) {
			t.Fatalf("bad sprite radius %f", op.Size)
		}
	}
}

func TestProjectVesselCenter(t *testing.T) {
	x, y, r, ok := projectVessel([3]float64{0, 0, 0}, 1, 400, 300)
	if !ok || x != 200 || y != 150 {
		t.Errorf("origin should project to the surface center, got (%f, %f) ok=%v", x, y, ok)
	}
	if math.Abs(r-vesselSpriteScale/vesselCameraZ/2) > 1e-12 {
		t.Errorf("radius = %f", r)
	}
	if _, _, _, ok := projectVessel([3]float64{0, 0, 6}, 1, 400, 300); ok {
		t.Error("point behind the camera should be rejected")
	}
}

func TestSVGSurfaceKeepsTrailFrames(t *testing.T) {
	var buf bytes.Buffer
	s := NewSVGSurface(&buf, 100, 50)
	s.MaxFrames = 2
	s.Title = "test"

	black := colorful.Color{}
	for i := 0; i < 5; i++ {
		s.Begin()
		s.Fade(black, 0.1)
		s.Disc(float64(i)*10, 25, 2, black, 0.5)
		s.End()
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, `viewBox="0 0 1000 500"`) {
		t.Errorf("expected scaled viewBox, got %q", out[:min(len(out), 200)])
	}
	if n := strings.Count(out, "<circle"); n != 2 {
		t.Errorf("expected 2 buffered frames of circles, got %d", n)
	}
	if !strings.Contains(out, "<title>test</title>") {
		t.Error("missing title")
	}
}

func TestSVGSurfaceOpaqueFadeDropsHistory(t *testing.T) {
	var buf bytes.Buffer
	s := NewSVGSurface(&buf, 10, 10)

	white := colorful.Color{R: 1, G: 1, B: 1}
	for i := 0; i < 3; i++ {
		s.Begin()
		s.Fade(white, 1)
		s.Line(0, 0, 10, 10, 1, white, 1)
		s.End()
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if n := strings.Count(buf.String(), "<line"); n != 1 {
		t.Errorf("opaque fade should drop earlier frames, got %d lines", n)
	}
}

func TestSVGSurfaceClearReplacesHistory(t *testing.T) {
	var buf bytes.Buffer
	s := NewSVGSurface(&buf, 10, 10)

	black := colorful.Color{}
	for i := 0; i < 3; i++ {
		s.Begin()
		s.Fade(black, 0.05)
		s.Disc(5, 5, 1, black, 0.5)
		s.End()
	}
	s.Clear(colorful.Color{R: 1})
	s.Begin()
	s.Disc(5, 5, 1, black, 0.5)
	s.End()
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	out := buf.String()
	if n := strings.Count(out, "<circle"); n != 1 {
		t.Errorf("clear should drop earlier frames, got %d circles", n)
	}
	if !strings.Contains(out, "fill:rgb(255,0,0);fill-opacity:1.000") {
		t.Error("expected an opaque rect in the clear color")
	}
}

func TestRecorderCounts(t *testing.T) {
	rec := NewRecorder(10, 10)
	rec.Resize(20, 20, 2)
	rec.Begin()
	rec.Fade(colorful.Color{}, 1)
	rec.End()
	if err := rec.Close(); err != nil {
		t.Fatal(err)
	}
	if rec.Frames() != 1 || rec.Resizes() != 1 || !rec.Closed() || rec.PixelRatio() != 2 {
		t.Errorf("unexpected recorder state: frames=%d resizes=%d closed=%v pr=%f",
			rec.Frames(), rec.Resizes(), rec.Closed(), rec.PixelRatio())
	}
	if w, h := rec.Size(); w != 20 || h != 20 {
		t.Errorf("size = %fx%f, want 20x20", w, h)
	}
}
