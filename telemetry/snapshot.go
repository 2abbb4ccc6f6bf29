package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zeal8/bloom/systems"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds a flower field's complete state for restoring a run.
type Snapshot struct {
	Version int    `json:"version"`
	RNGSeed int64  `json:"rng_seed"`
	Preset  string `json:"preset"`

	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	PixelRatio float64 `json:"pixel_ratio"`

	Frame   int64   `json:"frame"`
	SimTime float64 `json:"sim_time"`

	Particles []ParticleState `json:"particles"`
}

// ParticleState is the JSON form of one particle.
type ParticleState struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Z      float64 `json:"z"`
	R      float64 `json:"r"`
	Theta  float64 `json:"theta"`
	Height float64 `json:"height"`
}

// FromParticles converts particles to their JSON form.
func FromParticles(ps []systems.Particle) []ParticleState {
	out := make([]ParticleState, len(ps))
	for i, p := range ps {
		out[i] = ParticleState{X: p.X, Y: p.Y, Z: p.Z, R: p.R, Theta: p.Theta, Height: p.Height}
	}
	return out
}

// ToParticles converts the JSON form back to particles.
func (s *Snapshot) ToParticles() []systems.Particle {
	out := make([]systems.Particle, len(s.Particles))
	for i, p := range s.Particles {
		out[i] = systems.Particle{X: p.X, Y: p.Y, Z: p.Z, R: p.R, Theta: p.Theta, Height: p.Height}
	}
	return out
}

// SaveSnapshot writes a snapshot to dir.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%d", snapshot.Frame)
	if snapshot.Preset != "" {
		sanitized := strings.ReplaceAll(snapshot.Preset, " ", "_")
		name = fmt.Sprintf("snapshot_%s_%d", sanitized, snapshot.Frame)
	}
	path := filepath.Join(dir, name+".json")

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", snapshot.Version, SnapshotVersion)
	}
	return &snapshot, nil
}
