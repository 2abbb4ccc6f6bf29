package main

import (
	"errors"
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/zeal8/bloom/config"
	"github.com/zeal8/bloom/game"
	"github.com/zeal8/bloom/renderer"
	"github.com/zeal8/bloom/telemetry"
)

// headlessHostRate is the simulated display refresh for headless runs.
const headlessHostRate = 60

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	presetName := flag.String("preset", "flower", "Preset name, or \"random\"")
	theme := flag.String("theme", "", "Theme override (empty = preset theme)")
	interactive := flag.String("interactive", "", "Pointer interaction override: true or false (empty = preset)")
	headless := flag.Bool("headless", false, "Run without graphics on a simulated clock")
	maxFrames := flag.Int64("frames", 0, "Stop after N accepted frames (0 = unlimited)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	logStats := flag.Bool("log-stats", false, "Output field and perf stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for snapshot files (S key, and on exit)")
	restorePath := flag.String("restore", "", "Snapshot file to restore on start")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	output, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output manager", "error", err)
		os.Exit(1)
	}

	opts := game.Options{
		Theme:    *theme,
		Seed:     *seed,
		Output:   output,
		LogStats: *logStats,
	}
	switch *interactive {
	case "":
	case "true", "false":
		v := *interactive == "true"
		opts.Interactive = &v
	default:
		slog.Error("invalid -interactive value", "value", *interactive)
		os.Exit(1)
	}

	if *headless {
		err = runHeadless(cfg, *presetName, opts, *maxFrames, *snapshotDir, *restorePath)
	} else {
		err = runWindow(cfg, *presetName, opts, *maxFrames, *snapshotDir, *restorePath)
	}
	if err != nil {
		slog.Error("animation failed", "error", err)
		os.Exit(1)
	}
}

// runHeadless drives the instance from a simulated host clock into an
// in-memory surface. Useful for telemetry and snapshot runs.
func runHeadless(cfg *config.Config, preset string, opts game.Options, maxFrames int64, snapshotDir, restorePath string) error {
	opts.DisplayW, opts.DisplayH = float64(cfg.Screen.Width), float64(cfg.Screen.Height)
	opts.PixelRatio = 1

	rec := renderer.NewRecorder(opts.DisplayW, opts.DisplayH)
	g, err := game.NewGame(cfg, preset, rec, opts)
	if err != nil {
		return err
	}
	defer g.Stop()

	if err := restore(g, restorePath); err != nil {
		return err
	}
	if err := g.Start(nil); err != nil {
		return err
	}

	slog.Info("starting headless run",
		"preset", g.Preset(),
		"seed", g.Seed(),
		"max_frames", maxFrames,
	)

	var now time.Duration
	for maxFrames <= 0 || g.Frames() < maxFrames {
		now += time.Second / headlessHostRate
		g.HostFrame(now)
	}
	slog.Info("max frames reached", "frames", g.Frames(), "sim_time", g.Time())

	saveSnapshot(g, snapshotDir)
	return nil
}

// runWindow hosts the instance in a resizable raylib window.
func runWindow(cfg *config.Config, preset string, opts game.Options, maxFrames int64, snapshotDir, restorePath string) error {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), cfg.Screen.Title)
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	pixelRatio := float64(rl.GetWindowScaleDPI().X)
	opts.DisplayW, opts.DisplayH = float64(rl.GetScreenWidth()), float64(rl.GetScreenHeight())
	opts.PixelRatio = pixelRatio

	surface := renderer.NewRaylibSurface(opts.DisplayW, opts.DisplayH, pixelRatio)
	g, err := game.NewGame(cfg, preset, surface, opts)
	if err != nil {
		surface.Close()
		return err
	}
	defer g.Stop()

	if err := restore(g, restorePath); err != nil {
		return err
	}

	events := game.NewEvents()
	if err := g.Start(events); err != nil {
		return err
	}

	host := newWindowHost(events, pixelRatio)
	start := time.Now()
	for !rl.WindowShouldClose() {
		host.poll()

		switch {
		case rl.IsKeyPressed(rl.KeyR):
			g.Reseed()
		case rl.IsKeyPressed(rl.KeyS):
			saveSnapshot(g, snapshotDir)
		}

		g.HostFrame(time.Since(start))

		r, gr, b := g.Background().RGB255()
		rl.BeginDrawing()
		rl.ClearBackground(rl.NewColor(r, gr, b, 255))
		ox, oy := g.Viewport().Offset()
		surface.Blit(ox, oy)
		rl.EndDrawing()

		if maxFrames > 0 && g.Frames() >= maxFrames {
			break
		}
	}

	saveSnapshot(g, snapshotDir)
	return nil
}

// windowHost turns raylib's polled input into dispatched events.
type windowHost struct {
	events     *game.Events
	pixelRatio float64

	lastX, lastY float32
	inside       bool
}

func newWindowHost(events *game.Events, pixelRatio float64) *windowHost {
	return &windowHost{events: events, pixelRatio: pixelRatio}
}

func (h *windowHost) poll() {
	if rl.IsWindowResized() {
		h.events.DispatchResize(game.Size{
			Width:      float64(rl.GetScreenWidth()),
			Height:     float64(rl.GetScreenHeight()),
			PixelRatio: h.pixelRatio,
		})
	}

	onScreen := rl.IsCursorOnScreen()
	if h.inside && !onScreen {
		h.events.DispatchPointerLeave()
	}
	h.inside = onScreen
	if !onScreen {
		return
	}

	pos := rl.GetMousePosition()
	if pos.X != h.lastX || pos.Y != h.lastY {
		h.lastX, h.lastY = pos.X, pos.Y
		h.events.DispatchPointerMove(float64(pos.X), float64(pos.Y))
	}
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		h.events.DispatchPointerPress(float64(pos.X), float64(pos.Y))
	}
}

func restore(g *game.Game, path string) error {
	if path == "" {
		return nil
	}
	snap, err := telemetry.LoadSnapshot(path)
	if err != nil {
		return err
	}
	return g.Restore(snap)
}

func saveSnapshot(g *game.Game, dir string) {
	if dir == "" {
		return
	}
	snap, err := g.Snapshot()
	if errors.Is(err, game.ErrNoSnapshot) {
		slog.Warn("snapshot skipped", "preset", g.Preset(), "reason", err)
		return
	}
	if err != nil {
		slog.Error("failed to capture snapshot", "error", err)
		return
	}
	path, err := telemetry.SaveSnapshot(snap, dir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}
	slog.Info("snapshot saved", "path", path, "frame", snap.Frame)
}
