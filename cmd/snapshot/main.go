// Snapshot tool - renders a preset headlessly and writes the last frames to a file.
//
// SVG output draws on the CPU and needs no display. PNG output renders through
// raylib in a hidden window, so the vase uses its GPU path.
//
// Usage: go run ./cmd/snapshot -preset flower -frames 120 -out flower.svg
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/zeal8/bloom/config"
	"github.com/zeal8/bloom/game"
	"github.com/zeal8/bloom/renderer"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	presetName := flag.String("preset", "flower", "Preset name, or \"random\"")
	theme := flag.String("theme", "", "Theme override (empty = preset theme)")
	frames := flag.Int64("frames", 120, "Accepted frames to simulate before writing")
	trail := flag.Int("trail", 8, "SVG only: frames kept for the trail effect")
	width := flag.Int("width", 550, "Display width")
	height := flag.Int("height", 550, "Display height")
	seed := flag.Int64("seed", 1, "RNG seed")
	outPath := flag.String("out", "snapshot.svg", "Output path (.svg or .png)")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	if err := config.Init(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	opts := game.Options{
		Theme:      *theme,
		Seed:       *seed,
		DisplayW:   float64(*width),
		DisplayH:   float64(*height),
		PixelRatio: 1,
	}

	var err error
	switch strings.ToLower(filepath.Ext(*outPath)) {
	case ".png":
		err = renderPNG(*presetName, opts, *frames, *outPath)
	case ".svg":
		err = renderSVG(*presetName, opts, *frames, *trail, *outPath)
	default:
		err = fmt.Errorf("unsupported output type %q", filepath.Ext(*outPath))
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Snapshot failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Snapshot of %s written to: %s (%dx%d, %d frames)\n", *presetName, *outPath, *width, *height, *frames)
}

func renderSVG(preset string, opts game.Options, frames int64, trail int, outPath string) error {
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	defer f.Close()

	surface := renderer.NewSVGSurface(f, opts.DisplayW, opts.DisplayH)
	surface.MaxFrames = trail
	surface.Title = preset

	g, err := game.NewGame(config.Cfg(), preset, surface, opts)
	if err != nil {
		return err
	}
	run(g, frames)
	// Stop closes the surface, which writes the document
	return g.Stop()
}

func renderPNG(preset string, opts game.Options, frames int64, outPath string) error {
	rl.SetConfigFlags(rl.FlagWindowHidden)
	rl.InitWindow(int32(opts.DisplayW), int32(opts.DisplayH), "Snapshot")
	defer rl.CloseWindow()

	surface := renderer.NewRaylibSurface(opts.DisplayW, opts.DisplayH, 1)
	g, err := game.NewGame(config.Cfg(), preset, surface, opts)
	if err != nil {
		surface.Close()
		return err
	}
	defer g.Stop()

	run(g, frames)
	return surface.ExportPNG(outPath)
}

// run drives g on a simulated 60Hz host until frames have been accepted.
func run(g *game.Game, frames int64) {
	if err := g.Start(nil); err != nil {
		return
	}
	var now time.Duration
	for i := 0; g.Frames() < frames && i < int(frames)*1000; i++ {
		now += time.Second / 60
		g.HostFrame(now)
	}
}
