// Package game runs one animation instance: it owns the viewport, the
// scene, the frame scheduler and the listener subscriptions, and turns host
// frame callbacks into simulation steps and draws.
package game

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/zeal8/bloom/camera"
	"github.com/zeal8/bloom/config"
	"github.com/zeal8/bloom/renderer"
	"github.com/zeal8/bloom/systems"
	"github.com/zeal8/bloom/telemetry"
)

var (
	// ErrStopped is returned when starting an instance that was stopped.
	ErrStopped = errors.New("animation stopped")
	// ErrNoSnapshot is returned for kinds without saveable particle state.
	ErrNoSnapshot = errors.New("preset has no snapshot support")
	// ErrNilSnapshot is returned by Restore when given no snapshot.
	ErrNilSnapshot = errors.New("nil snapshot")
)

// randomChoices are the presets the random pseudo-preset picks from.
var randomChoices = []string{"flower", "yinyang"}

// Options configures one instance. Zero values take the preset's settings.
type Options struct {
	Theme       string // overrides the preset theme
	Interactive *bool  // overrides the preset interactive flag
	Seed        int64  // 0 picks a seed from the wall clock

	// Initial display size
	DisplayW, DisplayH float64
	PixelRatio         float64

	Output   *telemetry.OutputManager // closed by Stop
	Perf     *telemetry.PerfCollector
	LogStats bool
}

// Game is one running animation instance.
type Game struct {
	name        string
	preset      config.PresetConfig
	interactive bool
	palette     renderer.Palette
	seed        int64
	rng         *rand.Rand

	viewport *camera.Viewport
	surface  renderer.Surface
	scene    scene

	scheduler *Scheduler
	clock     *Clock
	debouncer *ResizeDebouncer
	pointer   systems.PointerState

	unsubscribe []func()
	live        bool
	stopped     bool

	// Last host time seen by HostFrame
	now     time.Duration
	frames  int64
	reseeds int

	perf        *telemetry.PerfCollector
	output      *telemetry.OutputManager
	logStats    bool
	statsWindow int64
}

// ResolvePreset maps the random pseudo-preset to a concrete preset name.
func ResolvePreset(name string, rng *rand.Rand) string {
	if name == config.RandomPreset {
		return randomChoices[rng.Intn(len(randomChoices))]
	}
	return name
}

// NewGame creates an idle instance drawing to surface. The field is seeded
// immediately; Start begins accepting frames.
func NewGame(cfg *config.Config, presetName string, surface renderer.Surface, opts Options) (*Game, error) {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	name := ResolvePreset(presetName, rng)
	preset, err := cfg.Preset(name)
	if err != nil {
		return nil, err
	}

	themeName := preset.Theme
	if opts.Theme != "" {
		themeName = opts.Theme
	}
	theme, err := cfg.Theme(themeName)
	if err != nil {
		return nil, err
	}
	pal, err := renderer.NewPalette(theme, preset.Trail(theme))
	if err != nil {
		return nil, fmt.Errorf("theme %q: %w", themeName, err)
	}

	interactive := preset.Interactive
	if opts.Interactive != nil {
		interactive = *opts.Interactive
	}

	displayW, displayH := opts.DisplayW, opts.DisplayH
	if displayW == 0 && displayH == 0 {
		displayW, displayH = float64(cfg.Screen.Width), float64(cfg.Screen.Height)
	}
	vp := camera.New(displayW, displayH, opts.PixelRatio, camera.Options{
		MinSize:       float64(max(cfg.Surface.MinSize, preset.MinSize)),
		MaxSize:       float64(preset.MaxSize),
		UnitRatio:     cfg.Surface.UnitRatio,
		PixelRatioCap: cfg.Surface.PixelRatioCap,
		Square:        squareKind(preset.Kind),
	})

	perf := opts.Perf
	if perf == nil {
		perf = telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow)
	}

	g := &Game{
		name:        name,
		preset:      preset,
		interactive: interactive,
		palette:     pal,
		seed:        seed,
		rng:         rng,
		viewport:    vp,
		surface:     surface,
		clock:       NewClock(preset.TimeStep),
		debouncer:   NewResizeDebouncer(time.Duration(cfg.Resize.DebounceMS) * time.Millisecond),
		perf:        perf,
		output:      opts.Output,
		logStats:    opts.LogStats,
		statsWindow: int64(cfg.Telemetry.StatsWindow),
	}
	g.scheduler = NewScheduler(preset.TargetFPS, g.frame)

	g.resizeSurface()
	g.scene = newScene(preset, pal, interactive, surface)
	g.reseed()

	if err := g.output.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}
	return g, nil
}

// Start subscribes to events and moves the scheduler to running.
// events may be nil for instances driven only by HostFrame.
func (g *Game) Start(events *Events) error {
	if g.stopped {
		return ErrStopped
	}
	if g.live {
		return nil
	}
	g.live = true

	if events != nil {
		g.unsubscribe = append(g.unsubscribe,
			events.OnResize(g.onResize),
			events.OnPointerMove(g.onPointerMove),
			events.OnPointerLeave(g.onPointerLeave),
			events.OnPointerPress(g.onPointerPress),
		)
	}
	g.scheduler.Start()

	slog.Info("animation started",
		"preset", g.name,
		"kind", g.preset.Kind,
		"count", g.scene.count(),
		"width", g.viewport.Width,
		"height", g.viewport.Height,
		"target_fps", g.preset.TargetFPS,
		"interactive", g.interactive,
		"seed", g.seed,
	)
	return nil
}

// Stop tears the instance down: the scheduler stops, every listener is
// removed, GPU resources are released and the surface and output are closed.
// Later host frames and events are ignored. Stop is idempotent.
func (g *Game) Stop() error {
	if g.stopped {
		return nil
	}
	g.stopped = true
	g.live = false

	g.scheduler.Stop()
	for _, unsub := range g.unsubscribe {
		unsub()
	}
	g.unsubscribe = nil
	g.debouncer.Cancel()
	g.pointer = systems.PointerState{}

	err := errors.Join(
		g.scene.close(),
		g.surface.Close(),
		g.output.Close(),
	)
	slog.Info("animation stopped", "preset", g.name, "frames", g.frames, "reseeds", g.reseeds)
	return err
}

// HostFrame is the host's per-display-frame callback with a monotonic time.
// A pending resize is applied first; then the scheduler decides whether a
// frame runs. Returns true if a frame ran.
func (g *Game) HostFrame(now time.Duration) bool {
	if !g.live {
		return false
	}
	g.now = now

	g.perf.StartHostFrame()
	g.perf.StartPhase(telemetry.PhaseResize)
	if size, ok := g.debouncer.Poll(now); ok {
		g.applyResize(size)
	}

	ran := g.scheduler.Tick(now)
	if !ran {
		g.perf.RecordSkip()
	}
	g.perf.EndHostFrame()
	return ran
}

// frame is the scheduler callback for one accepted frame.
func (g *Game) frame(_, delta time.Duration) {
	g.perf.RecordFrame()
	t := g.clock.Advance(delta)

	g.perf.StartPhase(telemetry.PhaseFlow)
	g.scene.step(t, g.pointer)

	g.perf.StartPhase(telemetry.PhaseRender)
	g.surface.Begin()
	g.scene.draw(g.surface, t, g.pointer)
	g.surface.End()

	g.frames++
	if g.statsWindow > 0 && g.frames%g.statsWindow == 0 {
		g.perf.StartPhase(telemetry.PhaseTelemetry)
		g.flushTelemetry()
	}
}

// applyResize lays the instance out for a new display size and reseeds.
func (g *Game) applyResize(size Size) {
	g.viewport.Resize(size.Width, size.Height, size.PixelRatio)
	g.resizeSurface()
	g.reseed()
}

// resizeSurface fits the surface to the viewport and clears it to the
// theme background.
func (g *Game) resizeSurface() {
	g.surface.Resize(g.viewport.Width, g.viewport.Height, g.viewport.PixelRatio)
	g.surface.Clear(g.palette.Background)
}

// Reseed regenerates the particles for the current size and restarts the clock.
func (g *Game) Reseed() {
	if g.stopped {
		return
	}
	g.reseed()
}

func (g *Game) reseed() {
	g.scene.layout(g.viewport, g.rng)
	g.clock.Reset()
	g.reseeds++
	slog.Debug("reseeded",
		"preset", g.name,
		"count", g.scene.count(),
		"width", g.viewport.Width,
		"height", g.viewport.Height,
	)
}

func (g *Game) onResize(size Size) {
	if !g.live {
		return
	}
	g.debouncer.Notify(g.now, size)
}

func (g *Game) onPointerMove(x, y float64) {
	if !g.live || !g.interactive {
		return
	}
	if !g.viewport.Contains(x, y) {
		g.pointer = systems.PointerState{}
		return
	}
	sx, sy := g.viewport.DisplayToSurface(x, y)
	g.pointer = systems.PointerState{X: sx, Y: sy, Active: true}
}

func (g *Game) onPointerLeave() {
	if !g.live {
		return
	}
	g.pointer = systems.PointerState{}
}

func (g *Game) onPointerPress(x, y float64) {
	if !g.live || g.preset.Kind != config.KindDrift {
		return
	}
	if g.viewport.Contains(x, y) {
		g.reseed()
	}
}

// Snapshot captures the flower field for a later Restore.
func (g *Game) Snapshot() (*telemetry.Snapshot, error) {
	fs, ok := g.scene.(*flowerScene)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoSnapshot, g.preset.Kind)
	}
	return &telemetry.Snapshot{
		Version:    telemetry.SnapshotVersion,
		RNGSeed:    g.seed,
		Preset:     g.name,
		Width:      g.viewport.DisplayW,
		Height:     g.viewport.DisplayH,
		PixelRatio: g.viewport.PixelRatio,
		Frame:      g.frames,
		SimTime:    g.clock.Now(),
		Particles:  telemetry.FromParticles(fs.field.Particles()),
	}, nil
}

// Restore replaces the flower field with a snapshot's particles, display
// size and clock.
func (g *Game) Restore(snap *telemetry.Snapshot) error {
	if snap == nil {
		return ErrNilSnapshot
	}
	fs, ok := g.scene.(*flowerScene)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoSnapshot, g.preset.Kind)
	}
	if snap.Preset != g.name {
		return fmt.Errorf("snapshot preset %q does not match %q", snap.Preset, g.name)
	}

	g.viewport.Resize(snap.Width, snap.Height, snap.PixelRatio)
	g.resizeSurface()
	fs.restore(g.viewport, snap.ToParticles())
	g.clock.Set(snap.SimTime)
	g.frames = snap.Frame
	g.scheduler.ResetClock()

	slog.Info("restored snapshot", "preset", g.name, "frame", snap.Frame, "particles", fs.count())
	return nil
}

// Preset returns the resolved preset name.
func (g *Game) Preset() string { return g.name }

// Kind returns the animation kind.
func (g *Game) Kind() string { return g.preset.Kind }

// Interactive reports whether pointer input affects the animation.
func (g *Game) Interactive() bool { return g.interactive }

// Background returns the theme background, for clearing around the surface.
func (g *Game) Background() colorful.Color { return g.palette.Background }

// Seed returns the RNG seed in use.
func (g *Game) Seed() int64 { return g.seed }

// Running reports whether the instance accepts frames.
func (g *Game) Running() bool { return g.live && g.scheduler.Running() }

// Viewport returns the current surface layout.
func (g *Game) Viewport() *camera.Viewport { return g.viewport }

// Scheduler returns the frame scheduler.
func (g *Game) Scheduler() *Scheduler { return g.scheduler }

// Pointer returns the current pointer state in surface coordinates.
func (g *Game) Pointer() systems.PointerState { return g.pointer }

// Count returns the number of live particles, points or rings.
func (g *Game) Count() int { return g.scene.count() }

// Frames returns the number of accepted frames.
func (g *Game) Frames() int64 { return g.frames }

// Time returns the animation clock.
func (g *Game) Time() float64 { return g.clock.Now() }

// Reseeds returns how many times the particles were regenerated.
func (g *Game) Reseeds() int { return g.reseeds }

// Sample returns particle distances from the field center and depths.
// ok is false for kinds without a radial field.
func (g *Game) Sample() (radii, depths []float64, ok bool) {
	fs, ok := g.scene.(fieldScene)
	if !ok {
		return nil, nil, false
	}
	radii, depths = fs.sample()
	return radii, depths, true
}
