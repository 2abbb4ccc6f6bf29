package systems

import "math"

// Advance moves p one step through the flow field at time t.
//
// Polar coordinates come from the current position, so this is a recurrence:
// floating-point drift over very long runs is expected. Two counter-rotating
// sinusoidal terms are blended by depth, a quartic soft wall pulls particles
// back toward the center, and depth bobs on its own slow sinusoid. An active
// pointer within PointerRadius pushes particles away and swirls them.
//
// Advance is pure: the same inputs always give the same output.
func Advance(p Particle, t float64, f FlowParams, ptr PointerState) Particle {
	dx := p.X - f.Center.X
	dy := p.Y - f.Center.Y

	dist := 0.0
	if f.Unit > 0 {
		dist = math.Hypot(dx, dy) / f.Unit
	}
	angle := math.Atan2(dy, dx)

	height := 0.0
	if f.FormScale != 0 {
		height = p.Z / (f.FormScale * 0.4)
	}

	phase := t * f.FlowSpeed
	flow := math.Sin(angle*2-phase+height*2) * f.FlowAmplitude
	counter := math.Cos(angle*2+phase-height*2) * f.FlowAmplitude
	combined := blend(flow, counter, height)

	pull := containment(dist, f.wallThreshold(), f.ContainmentExponent, f.PullStrength)

	px, py := PointerPush(p.X, p.Y, f, ptr)

	p.X = p.X + px + dx*combined - dx*pull
	p.Y = p.Y + py + dy*combined - dy*pull
	p.Z = p.Z + math.Sin(t*f.BobSpeed+dist*2)*f.BobAmplitude
	return p
}

// PointerPush returns the displacement an active pointer applies at (x, y).
// The push points away from the pointer with magnitude falling linearly to
// exactly zero at PointerRadius; the swirl is the push rotated a quarter turn.
func PointerPush(x, y float64, f FlowParams, ptr PointerState) (float64, float64) {
	influence := PointerInfluence(x, y, f, ptr)
	if influence == 0 {
		return 0, 0
	}
	mx := x - ptr.X
	my := y - ptr.Y
	md := math.Hypot(mx, my)

	force := influence * f.PointerStrength
	ux, uy := mx/md, my/md
	pushX := ux * force
	pushY := uy * force

	// Rotate (ux, uy) by 90 degrees for the swirl
	swirlX := -uy * force * f.PointerSwirl
	swirlY := ux * force * f.PointerSwirl

	return pushX + swirlX, pushY + swirlY
}

// PointerInfluence is 1 at the pointer, falling linearly to 0 at PointerRadius.
// It is 0 for inactive pointers and for a particle exactly on the pointer,
// where no push direction exists.
func PointerInfluence(x, y float64, f FlowParams, ptr PointerState) float64 {
	if !ptr.Active || f.PointerRadius <= 0 {
		return 0
	}
	md := distance(x, y, ptr.X, ptr.Y)
	if md <= 0 || md >= f.PointerRadius {
		return 0
	}
	return 1 - md/f.PointerRadius
}

// Appearance maps depth to rendered opacity and radius.
// depth = 1 + z/2 scales both linearly; opacity is clamped to [0, 1].
func Appearance(p Particle, f FlowParams) (opacity, size float64) {
	depth := 1 + p.Z*0.5
	opacity = clamp01(f.Opacity * depth)
	size = math.Max(0.001, f.ParticleSize*depth)
	return opacity, size
}

// AdvanceDrift moves a drift particle one step at time t.
// Particles travel along their heading with a gentle wave and are pulled
// home once they stray more than 50px.
func AdvanceDrift(p DriftParticle, t float64) DriftParticle {
	wave := math.Sin(t + p.Heading)

	p.X += math.Cos(p.Heading)*p.Speed + wave*0.2
	p.Y += math.Sin(p.Heading)*p.Speed + wave*0.1

	dx := p.HomeX - p.X
	dy := p.HomeY - p.Y
	if math.Hypot(dx, dy) > 50 {
		p.X += dx * 0.01
		p.Y += dy * 0.01
	}
	return p
}

// VesselPosition is the CPU mirror of the vase vertex stage. It returns the
// animated model-space position for a static base position at time t.
func VesselPosition(base [3]float32, t, rotationSpeed, scale float64) [3]float64 {
	x, height, z := float64(base[0]), float64(base[1]), float64(base[2])

	radius := math.Hypot(x, z)
	angle := math.Atan2(z, x)

	vessel := smoothstep(0.3, 0.7, radius) * (1 - smoothstep(0.7, 1.0, radius))

	angle += t * rotationSpeed
	space := math.Sin(t*0.8+radius*3) * 0.1
	newRadius := (radius + space) * vessel

	return [3]float64{
		math.Cos(angle) * newRadius * scale,
		(height*vessel - 1.2) * scale,
		math.Sin(angle) * newRadius * scale,
	}
}
