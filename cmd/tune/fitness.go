package main

import (
	"math"
	"math/rand"
	"sync"

	"github.com/zeal8/bloom/config"
	"github.com/zeal8/bloom/systems"
	"github.com/zeal8/bloom/telemetry"
)

// Fitness terms.
const (
	surfaceSize      = 550.0 // flower surface the presets were designed for
	overflowWeight   = 10.0
	nonFinitePenalty = 10.0
	minMotion        = 0.05 // px per frame below which the field looks frozen
)

// FitnessEvaluator runs headless flower fields and scores how well they keep their form.
type FitnessEvaluator struct {
	params    *ParamVector
	base      config.PresetConfig
	unitRatio float64
	particles int
	frames    int
	seeds     []int64

	mu          sync.Mutex
	lastResult  runResult
	bestFitness float64
}

// NewFitnessEvaluator creates a new evaluator for a base preset.
func NewFitnessEvaluator(params *ParamVector, base config.PresetConfig, unitRatio float64, particles, frames int, seeds []int64) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		base:        base,
		unitRatio:   unitRatio,
		particles:   particles,
		frames:      frames,
		seeds:       seeds,
		bestFitness: math.Inf(1),
	}
}

// runResult holds the score terms from one or more runs.
type runResult struct {
	ks        float64 // radial distribution drift between first and last frame
	overflow  float64 // how far the field left the surface disc, as a fraction of its radius
	stillness float64 // penalty for a field that barely moves
	nonFinite int
}

func (r runResult) fitness() float64 {
	f := r.ks + overflowWeight*r.overflow + r.stillness
	if r.nonFinite > 0 {
		f += nonFinitePenalty
	}
	return f
}

// LastResult returns the averaged terms from the most recent evaluation.
func (fe *FitnessEvaluator) LastResult() runResult {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastResult
}

// Evaluate computes fitness for a parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	preset := fe.base
	fe.params.ApplyToPreset(&preset, x)

	// Each run owns its field, so seeds run in parallel
	results := make([]runResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.run(preset, s)
		}(i, seed)
	}
	wg.Wait()

	var avg runResult
	var total float64
	for _, r := range results {
		avg.ks += r.ks
		avg.overflow += r.overflow
		avg.stillness += r.stillness
		avg.nonFinite += r.nonFinite
		total += r.fitness()
	}
	n := float64(len(results))
	avg.ks /= n
	avg.overflow /= n
	avg.stillness /= n
	fitness := total / n

	fe.mu.Lock()
	fe.lastResult = avg
	if fitness < fe.bestFitness {
		fe.bestFitness = fitness
	}
	fe.mu.Unlock()
	return fitness
}

// run advances one field and scores it.
func (fe *FitnessEvaluator) run(preset config.PresetConfig, seed int64) runResult {
	rng := rand.New(rand.NewSource(seed))
	half := surfaceSize / 2
	f := systems.FlowParamsFromPreset(preset, systems.Center{X: half, Y: half}, surfaceSize*fe.unitRatio)

	field := systems.NewFlowerField()
	field.Seed(rng, fe.particles, f)
	initial := radii(field, f.Center)

	var res runResult
	var prev []systems.Particle
	t := 0.0
	for frame := 0; frame < fe.frames; frame++ {
		if frame == fe.frames-1 {
			prev = field.Particles()
		}
		t += preset.TimeStep
		field.Step(t, systems.PointerState{})
	}

	final := field.Particles()
	maxR := 0.0
	for _, p := range final {
		if !p.Finite() {
			res.nonFinite++
			continue
		}
		maxR = math.Max(maxR, math.Hypot(p.X-f.Center.X, p.Y-f.Center.Y))
	}
	res.overflow = math.Max(0, maxR/half-1)
	res.ks = telemetry.RadialKS(initial, radii(field, f.Center))

	if len(prev) == len(final) && len(final) > 0 {
		var moved float64
		for i := range final {
			moved += math.Hypot(final[i].X-prev[i].X, final[i].Y-prev[i].Y)
		}
		moved /= float64(len(final))
		if moved < minMotion {
			res.stillness = (minMotion - moved) / minMotion
		}
	}
	return res
}

func radii(field *systems.FlowerField, c systems.Center) []float64 {
	out := make([]float64, 0, field.Count())
	field.Each(func(p systems.Particle) {
		if p.Finite() {
			out = append(out, math.Hypot(p.X-c.X, p.Y-c.Y))
		}
	})
	return out
}
