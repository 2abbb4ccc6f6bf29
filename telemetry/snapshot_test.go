package telemetry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/zeal8/bloom/systems"
)

func TestSnapshotSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()

	particles := []systems.Particle{
		{X: 150, Y: 250, Z: 0.1, R: 40, Theta: 1.2, Height: 0.1},
		{X: 300, Y: 275, Z: -0.4, R: 25, Theta: 4.0, Height: -0.4},
	}
	snapshot := &Snapshot{
		Version:    SnapshotVersion,
		RNGSeed:    42,
		Preset:     "flower",
		Width:      550,
		Height:     550,
		PixelRatio: 2,
		Frame:      1000,
		SimTime:    0.458,
		Particles:  FromParticles(particles),
	}

	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("Snapshot file not created at %s", path)
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}
	if loaded.RNGSeed != 42 || loaded.Frame != 1000 || loaded.Preset != "flower" {
		t.Errorf("header mismatch: %+v", loaded)
	}

	restored := loaded.ToParticles()
	if len(restored) != len(particles) {
		t.Fatalf("particle count mismatch: got %d, want %d", len(restored), len(particles))
	}
	for i := range particles {
		if restored[i] != particles[i] {
			t.Errorf("particle %d: got %+v, want %+v", i, restored[i], particles[i])
		}
	}
}

func TestSnapshotFilename(t *testing.T) {
	tmpDir := t.TempDir()

	path, err := SaveSnapshot(&Snapshot{Version: SnapshotVersion, Preset: "flower dark", Frame: 5000}, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if want := filepath.Join(tmpDir, "snapshot_flower_dark_5000.json"); path != want {
		t.Errorf("Path mismatch: got %s, want %s", path, want)
	}

	path, err = SaveSnapshot(&Snapshot{Version: SnapshotVersion, Frame: 3000}, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if want := filepath.Join(tmpDir, "snapshot_3000.json"); path != want {
		t.Errorf("Path mismatch: got %s, want %s", path, want)
	}
}

func TestLoadSnapshotRejectsVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.json")
	if err := os.WriteFile(path, []byte(`{"version": 99}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSnapshot(path); err == nil {
		t.Error("expected error for unknown snapshot version")
	}
}
