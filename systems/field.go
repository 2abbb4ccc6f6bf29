package systems

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/zeal8/bloom/components"
)

// FlowerField stores a flower field as entities in an ECS world.
// Each particle is one entity with a Position and its spawn Seed.
type FlowerField struct {
	world  *ecs.World
	mapper *ecs.Map2[components.Position, components.Seed]
	filter *ecs.Filter2[components.Position, components.Seed]

	params FlowParams
	count  int
}

// NewFlowerField creates an empty field.
func NewFlowerField() *FlowerField {
	world := ecs.NewWorld()
	return &FlowerField{
		world:  world,
		mapper: ecs.NewMap2[components.Position, components.Seed](world),
		filter: ecs.NewFilter2[components.Position, components.Seed](world),
	}
}

// Seed replaces every particle with n freshly spawned ones.
func (ff *FlowerField) Seed(rng *rand.Rand, n int, f FlowParams) {
	ff.clear()
	ff.params = f

	for _, p := range SeedFlower(rng, n, f) {
		pos := components.Position{X: p.X, Y: p.Y, Z: p.Z}
		seed := components.Seed{R: p.R, Theta: p.Theta, Height: p.Height}
		ff.mapper.NewEntity(&pos, &seed)
	}
	ff.count = max(n, 0)
}

// Restore replaces every particle with the given ones, as saved by a snapshot.
func (ff *FlowerField) Restore(particles []Particle, f FlowParams) {
	ff.clear()
	ff.params = f

	for _, p := range particles {
		pos := components.Position{X: p.X, Y: p.Y, Z: p.Z}
		seed := components.Seed{R: p.R, Theta: p.Theta, Height: p.Height}
		ff.mapper.NewEntity(&pos, &seed)
	}
	ff.count = len(particles)
}

func (ff *FlowerField) clear() {
	ff.world.RemoveEntities(ff.filter.Batch(), nil)
	ff.count = 0
}

// Params returns the flow parameters the field was last seeded with.
func (ff *FlowerField) Params() FlowParams {
	return ff.params
}

// SetPointerParams updates the pointer tuning without reseeding.
func (ff *FlowerField) SetPointerParams(radius, strength, swirl float64) {
	ff.params.PointerRadius = radius
	ff.params.PointerStrength = strength
	ff.params.PointerSwirl = swirl
}

// Step advances every particle once at time t.
func (ff *FlowerField) Step(t float64, ptr PointerState) {
	query := ff.filter.Query()
	for query.Next() {
		pos, seed := query.Get()
		p := Particle{X: pos.X, Y: pos.Y, Z: pos.Z, R: seed.R, Theta: seed.Theta, Height: seed.Height}
		p = Advance(p, t, ff.params, ptr)
		pos.X, pos.Y, pos.Z = p.X, p.Y, p.Z
	}
}

// Each calls fn for every particle.
func (ff *FlowerField) Each(fn func(p Particle)) {
	query := ff.filter.Query()
	for query.Next() {
		pos, seed := query.Get()
		fn(Particle{X: pos.X, Y: pos.Y, Z: pos.Z, R: seed.R, Theta: seed.Theta, Height: seed.Height})
	}
}

// Particles returns a copy of the current field.
func (ff *FlowerField) Particles() []Particle {
	out := make([]Particle, 0, ff.count)
	ff.Each(func(p Particle) {
		out = append(out, p)
	})
	return out
}

// Count returns the number of live particles.
func (ff *FlowerField) Count() int {
	return ff.count
}
