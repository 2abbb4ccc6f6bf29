package systems

import (
	"math"
	"math/rand"
)

// SeedFlower spawns n particles on a disc around f.Center.
//
// Radii are drawn as U^0.5 so density is even over the disc area rather than
// piling up in the middle. Each particle gets one application of the spawn
// flow and containment terms so the field starts close to its steady shape.
func SeedFlower(rng *rand.Rand, n int, f FlowParams) []Particle {
	if n <= 0 {
		return []Particle{}
	}
	particles := make([]Particle, n)
	for i := range particles {
		particles[i] = spawnFlower(rng, f)
	}
	return particles
}

func spawnFlower(rng *rand.Rand, f FlowParams) Particle {
	theta := rng.Float64() * 2 * math.Pi
	r := math.Pow(rng.Float64(), 0.5) * f.FormScale * 0.5 * f.Unit
	height := (rng.Float64()*2 - 1) * f.FormScale * 0.3

	dist := 0.0
	if f.Unit > 0 {
		dist = r / f.Unit
	}
	flow := math.Sin(theta*2+height*2) * f.SpawnFlowAmplitude
	counter := math.Cos(theta*2-height*2) * f.SpawnFlowAmplitude
	combined := blend(flow, counter, height)
	pull := containment(dist, f.wallThreshold(), f.ContainmentExponent, f.PullStrength)

	dx := r * math.Cos(theta)
	dy := r * math.Sin(theta)

	return Particle{
		X:      f.Center.X + dx + dx*combined - dx*pull,
		Y:      f.Center.Y + dy + dy*combined - dy*pull,
		Z:      height,
		R:      r,
		Theta:  theta,
		Height: height,
	}
}

// VesselAttrs are the static per-particle attributes of the vase. They are
// generated once and uploaded once; all motion comes from the time uniform.
type VesselAttrs struct {
	Base  [3]float32 // x, height, z in model units
	Shade float32    // gray level
	Size  float32    // sprite size before depth attenuation
}

// SeedVessel lays n particles along a 20-turn spiral whose height follows a
// half sine, giving the vase silhouette once the vertex stage shapes it.
func SeedVessel(rng *rand.Rand, n int, particleSize float64) []VesselAttrs {
	if n <= 0 {
		return []VesselAttrs{}
	}
	attrs := make([]VesselAttrs, n)
	for i := range attrs {
		t := float64(i) / float64(n)

		radius := math.Pow(t, 0.5)
		angle := t * math.Pi * 40
		height := math.Sin(t*math.Pi) * 1.8

		randRadius := radius + (rng.Float64()-0.5)*0.05
		randAngle := angle + (rng.Float64()-0.5)*0.1

		shade := 0.1 + math.Sqrt(radius)*0.1 + rng.Float64()*0.02
		size := ((1.0-math.Abs(height*0.5))*0.2 + 0.1) * particleSize

		attrs[i] = VesselAttrs{
			Base: [3]float32{
				float32(math.Cos(randAngle) * randRadius),
				float32(height),
				float32(math.Sin(randAngle) * randRadius),
			},
			Shade: float32(shade),
			Size:  float32(size),
		}
	}
	return attrs
}

// DriftParticle is one point of the drifting cloud.
type DriftParticle struct {
	X, Y         float64
	HomeX, HomeY float64
	Size         float64
	Speed        float64
	Heading      float64
	Alpha        float64
}

// SeedDrift spawns n particles uniformly in radius (not area) within
// 30% of baseSize around center.
func SeedDrift(rng *rand.Rand, n int, center Center, baseSize float64) []DriftParticle {
	if n <= 0 {
		return []DriftParticle{}
	}
	particles := make([]DriftParticle, n)
	for i := range particles {
		theta := rng.Float64() * 2 * math.Pi
		r := rng.Float64() * baseSize * 0.3
		x := center.X + r*math.Cos(theta)
		y := center.Y + r*math.Sin(theta)

		particles[i] = DriftParticle{
			X:       x,
			Y:       y,
			HomeX:   x,
			HomeY:   y,
			Size:    rng.Float64()*2 + 1,
			Speed:   rng.Float64()*0.5 + 0.2,
			Heading: rng.Float64() * 2 * math.Pi,
			Alpha:   rng.Float64()*0.5 + 0.3,
		}
	}
	return particles
}
