package systems

import (
	"math"
	"math/rand"
	"testing"
)

func TestAdvanceDeterministic(t *testing.T) {
	f := testFlowParams()
	rng := rand.New(rand.NewSource(42))
	particles := SeedFlower(rng, 200, f)
	ptr := PointerState{X: 120, Y: 90, Active: true}

	for i, p := range particles {
		a := Advance(p, 1.25, f, ptr)
		b := Advance(p, 1.25, f, ptr)
		if a != b {
			t.Fatalf("particle %d: Advance not deterministic: %+v vs %+v", i, a, b)
		}
	}
}

func TestAdvanceKeepsSpawnParams(t *testing.T) {
	f := testFlowParams()
	p := Particle{X: 130, Y: 80, Z: 0.2, R: 12, Theta: 1.1, Height: 0.2}
	next := Advance(p, 3, f, PointerState{})
	if next.R != p.R || next.Theta != p.Theta || next.Height != p.Height {
		t.Errorf("spawn parameters changed: %+v -> %+v", p, next)
	}
}

// The 1000 particle / 1000 frame scenario at time step 0.0005.
func TestAdvanceContainmentScenario(t *testing.T) {
	f := testFlowParams()
	rng := rand.New(rand.NewSource(1))
	particles := SeedFlower(rng, 1000, f)
	bound := f.ContainmentBound()

	const dt = 0.0005
	tm := 0.0
	for frame := 0; frame < 1000; frame++ {
		tm += dt
		for i := range particles {
			particles[i] = Advance(particles[i], tm, f, PointerState{})
		}
	}

	for i, p := range particles {
		if !p.Finite() {
			t.Fatalf("particle %d not finite after 1000 frames: %+v", i, p)
		}
		if d := distance(p.X, p.Y, f.Center.X, f.Center.Y); d > bound+1e-9 {
			t.Fatalf("particle %d escaped: distance %.4f > bound %.4f", i, d, bound)
		}
	}
}

func TestAdvanceContainmentLongRun(t *testing.T) {
	tests := []struct {
		name string
		dt   float64
	}{
		{"small step", 0.000458024},
		{"frame delta", 1.0 / 60},
		{"large step", 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := testFlowParams()
			rng := rand.New(rand.NewSource(7))
			particles := SeedFlower(rng, 300, f)
			bound := f.ContainmentBound()

			tm := 0.0
			for frame := 0; frame < 5000; frame++ {
				tm += tt.dt
				for i := range particles {
					particles[i] = Advance(particles[i], tm, f, PointerState{})
					if d := distance(particles[i].X, particles[i].Y, f.Center.X, f.Center.Y); d > bound+1e-9 {
						t.Fatalf("frame %d particle %d escaped: %.4f > %.4f", frame, i, d, bound)
					}
				}
			}
		})
	}
}

func TestAdvanceFromOutsideShrinks(t *testing.T) {
	f := testFlowParams()
	wall := f.wallThreshold() * f.Unit
	p := Particle{X: f.Center.X + wall*3, Y: f.Center.Y}

	prev := distance(p.X, p.Y, f.Center.X, f.Center.Y)
	for i := 0; i < 50; i++ {
		p = Advance(p, float64(i)*0.01, f, PointerState{})
		d := distance(p.X, p.Y, f.Center.X, f.Center.Y)
		if d > wall && d >= prev {
			t.Fatalf("step %d: distance %.4f did not shrink from %.4f beyond the wall", i, d, prev)
		}
		prev = d
	}
}

func TestAdvanceAtCenter(t *testing.T) {
	f := testFlowParams()
	p := Particle{X: f.Center.X, Y: f.Center.Y}
	next := Advance(p, 10, f, PointerState{X: f.Center.X, Y: f.Center.Y, Active: true})
	if !next.Finite() {
		t.Fatalf("particle at center became non-finite: %+v", next)
	}
	if next.X != f.Center.X || next.Y != f.Center.Y {
		t.Errorf("particle at center moved to (%f, %f)", next.X, next.Y)
	}
}

func TestPointerInfluence(t *testing.T) {
	f := testFlowParams()
	ptr := PointerState{X: 100, Y: 100, Active: true}

	tests := []struct {
		name string
		x, y float64
		ptr  PointerState
		want float64
	}{
		{"at radius", 200, 100, ptr, 0},
		{"beyond radius", 250, 100, ptr, 0},
		{"on pointer", 100, 100, ptr, 0},
		{"half way", 150, 100, ptr, 0.5},
		{"inactive", 150, 100, PointerState{X: 100, Y: 100}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PointerInfluence(tt.x, tt.y, f, tt.ptr)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("PointerInfluence(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestPointerPushDirection(t *testing.T) {
	f := testFlowParams()
	f.PointerSwirl = 0
	ptr := PointerState{X: 100, Y: 100, Active: true}

	dx, dy := PointerPush(150, 100, f, ptr)
	if dx <= 0 {
		t.Errorf("push should point away from pointer, got dx=%f", dx)
	}
	if math.Abs(dy) > 1e-12 {
		t.Errorf("push without swirl should be radial, got dy=%f", dy)
	}

	f.PointerSwirl = 1
	_, dy = PointerPush(150, 100, f, ptr)
	if math.Abs(dy-dx) > 1e-12 {
		t.Errorf("full swirl should equal push rotated a quarter turn, got dy=%f dx=%f", dy, dx)
	}
}

func TestPointerPushContinuousAtRadius(t *testing.T) {
	f := testFlowParams()
	ptr := PointerState{X: 0, Y: 0, Active: true}

	inX, inY := PointerPush(f.PointerRadius-1e-6, 0, f, ptr)
	outX, outY := PointerPush(f.PointerRadius+1e-6, 0, f, ptr)
	if math.Hypot(inX-outX, inY-outY) > 1e-6 {
		t.Errorf("push jumps at the radius edge: inside (%g, %g) outside (%g, %g)", inX, inY, outX, outY)
	}
}

func TestAppearanceClamped(t *testing.T) {
	f := testFlowParams()

	tests := []struct {
		name string
		z    float64
	}{
		{"flat", 0},
		{"near", 1.5},
		{"far", -1.5},
		{"very near", 40},
		{"very far", -40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opacity, size := Appearance(Particle{Z: tt.z}, f)
			if opacity < 0 || opacity > 1 {
				t.Errorf("opacity %f outside [0, 1]", opacity)
			}
			if size < 0.001 {
				t.Errorf("size %f below floor", size)
			}
		})
	}

	opacity, size := Appearance(Particle{}, f)
	if opacity != f.Opacity || size != f.ParticleSize {
		t.Errorf("flat particle should use base opacity and size, got %f %f", opacity, size)
	}
}

func TestAdvanceDriftReturnsHome(t *testing.T) {
	p := DriftParticle{X: 400, Y: 100, HomeX: 100, HomeY: 100, Speed: 0.3, Heading: 0}
	start := distance(p.X, p.Y, p.HomeX, p.HomeY)
	for i := 0; i < 2000; i++ {
		p = AdvanceDrift(p, float64(i)*0.01)
	}
	if d := distance(p.X, p.Y, p.HomeX, p.HomeY); d >= start {
		t.Errorf("drift particle did not move toward home: %f >= %f", d, start)
	}
}

func TestVesselPosition(t *testing.T) {
	// The vessel profile vanishes at the center and at the rim.
	for _, base := range [][3]float32{{0, 1, 0}, {1, 1, 0}, {0, 0.5, -1}} {
		pos := VesselPosition(base, 2, 0.25, 1)
		if pos[0] != 0 || pos[2] != 0 {
			t.Errorf("base %v should collapse to the axis, got %v", base, pos)
		}
		if math.Abs(pos[1]+1.2) > 1e-12 {
			t.Errorf("base %v should sit at -1.2, got %f", base, pos[1])
		}
	}

	// Deterministic and linear in scale.
	base := [3]float32{0.7, 1, 0}
	a := VesselPosition(base, 0, 0.25, 1)
	b := VesselPosition(base, 0, 0.25, 1)
	if a != b {
		t.Errorf("VesselPosition not deterministic: %v vs %v", a, b)
	}
	scaled := VesselPosition(base, 0, 0.25, 2)
	if math.Abs(scaled[0]-2*a[0]) > 1e-12 {
		t.Errorf("scale should multiply x: %f vs %f", scaled[0], a[0])
	}
}
