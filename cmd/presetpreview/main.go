// Preset preview tool - live animation with a control panel for presets,
// themes and flow tunables.
//
// Usage: go run ./cmd/presetpreview
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gopkg.in/yaml.v3"

	"github.com/zeal8/bloom/config"
	"github.com/zeal8/bloom/game"
	"github.com/zeal8/bloom/renderer"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 550
	previewX     = 10
	previewY     = 10
	panelWidth   = windowWidth - previewSize - 40
)

// slider is one tunable bound to a preset field.
type slider struct {
	label    string
	min, max float32
	format   string
	get      func(p *config.PresetConfig) float64
	set      func(p *config.PresetConfig, v float64)
}

var sliders = []slider{
	{"Count", 0, 50000, "%.0f",
		func(p *config.PresetConfig) float64 { return float64(p.Count) },
		func(p *config.PresetConfig, v float64) { p.Count = int(v) }},
	{"Time step", 0, 0.02, "%.5f",
		func(p *config.PresetConfig) float64 { return p.TimeStep },
		func(p *config.PresetConfig, v float64) { p.TimeStep = v }},
	{"Opacity", 0.05, 1, "%.2f",
		func(p *config.PresetConfig) float64 { return p.Opacity },
		func(p *config.PresetConfig, v float64) { p.Opacity = v }},
	{"Particle size", 0.1, 3, "%.2f",
		func(p *config.PresetConfig) float64 { return p.ParticleSize },
		func(p *config.PresetConfig, v float64) { p.ParticleSize = v }},
	{"Flow amplitude", 0, 0.05, "%.4f",
		func(p *config.PresetConfig) float64 { return p.FlowAmplitude },
		func(p *config.PresetConfig, v float64) { p.FlowAmplitude = v }},
	{"Pull strength", 0.02, 0.3, "%.3f",
		func(p *config.PresetConfig) float64 { return p.PullStrength },
		func(p *config.PresetConfig, v float64) { p.PullStrength = v }},
	{"Containment exponent", 1, 8, "%.2f",
		func(p *config.PresetConfig) float64 { return p.ContainmentExponent },
		func(p *config.PresetConfig, v float64) { p.ContainmentExponent = v }},
	{"Pointer swirl", 0, 1, "%.2f",
		func(p *config.PresetConfig) float64 { return p.PointerSwirl },
		func(p *config.PresetConfig, v float64) { p.PointerSwirl = v }},
}

// previewState is what the panel edits. Any change rebuilds the instance.
type previewState struct {
	presetIdx int
	themeIdx  int
	preset    config.PresetConfig
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	presets := cfg.Derived.PresetNames
	themes := cfg.Derived.ThemeNames

	rl.SetConfigFlags(rl.FlagMsaa4xHint)
	rl.InitWindow(windowWidth, windowHeight, "Preset Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	state := previewState{presetIdx: indexOf(presets, "flower")}
	state.preset = cfg.Presets[presets[state.presetIdx]]
	state.themeIdx = indexOf(themes, state.preset.Theme)

	events := game.NewEvents()
	var g *game.Game
	var surface *renderer.RaylibSurface
	seed := int64(1)
	start := time.Now()

	rebuild := func() {
		if g != nil {
			g.Stop()
		}
		name := presets[state.presetIdx]
		cfg.Presets[name] = state.preset

		surface = renderer.NewRaylibSurface(previewSize, previewSize, 1)
		var err error
		g, err = game.NewGame(cfg, name, surface, game.Options{
			Theme:      themes[state.themeIdx],
			Seed:       seed,
			DisplayW:   previewSize,
			DisplayH:   previewSize,
			PixelRatio: 1,
		})
		if err != nil {
			slog.Error("failed to build preview", "preset", name, "error", err)
			surface.Close()
			g = nil
			return
		}
		g.Start(events)
	}
	rebuild()
	defer func() {
		if g != nil {
			g.Stop()
		}
	}()

	pointerInside := false
	for !rl.WindowShouldClose() {
		// Pointer events relative to the preview area
		mouse := rl.GetMousePosition()
		mx, my := float64(mouse.X-previewX), float64(mouse.Y-previewY)
		inside := mx >= 0 && my >= 0 && mx < previewSize && my < previewSize
		if inside {
			events.DispatchPointerMove(mx, my)
			if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
				events.DispatchPointerPress(mx, my)
			}
		} else if pointerInside {
			events.DispatchPointerLeave()
		}
		pointerInside = inside

		if g != nil {
			g.HostFrame(time.Since(start))
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		if g != nil {
			ox, oy := g.Viewport().Offset()
			surface.Blit(previewX+ox, previewY+oy)
		}
		rl.DrawRectangleLines(previewX, previewY, previewSize, previewSize, rl.DarkGray)

		statsY := int32(previewY + previewSize + 15)
		if g != nil {
			rl.DrawText(fmt.Sprintf("Preset: %s (%s)  Count: %d  Frames: %d  FPS: %d",
				g.Preset(), g.Kind(), g.Count(), g.Frames(), rl.GetFPS()), previewX+5, statsY, 16, rl.DarkGray)
			rl.DrawText(fmt.Sprintf("Time: %.3f  Seed: %d  Interactive: %v",
				g.Time(), g.Seed(), g.Interactive()), previewX+5, statsY+20, 16, rl.DarkGray)
		}

		// Control panel
		panelX := float32(previewSize + 30)
		panelY := float32(10)
		changed := false

		rl.DrawText("Preset", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 28
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 30, Height: 30}, "<") {
			state.presetIdx = (state.presetIdx + len(presets) - 1) % len(presets)
			state.preset = cfg.Presets[presets[state.presetIdx]]
			state.themeIdx = indexOf(themes, state.preset.Theme)
			changed = true
		}
		gui.Label(rl.Rectangle{X: panelX + 40, Y: panelY, Width: 200, Height: 30}, presets[state.presetIdx])
		if gui.Button(rl.Rectangle{X: panelX + 250, Y: panelY, Width: 30, Height: 30}, ">") {
			state.presetIdx = (state.presetIdx + 1) % len(presets)
			state.preset = cfg.Presets[presets[state.presetIdx]]
			state.themeIdx = indexOf(themes, state.preset.Theme)
			changed = true
		}
		panelY += 40

		rl.DrawText("Theme", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 28
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 30, Height: 30}, "<") {
			state.themeIdx = (state.themeIdx + len(themes) - 1) % len(themes)
			changed = true
		}
		gui.Label(rl.Rectangle{X: panelX + 40, Y: panelY, Width: 200, Height: 30}, themes[state.themeIdx])
		if gui.Button(rl.Rectangle{X: panelX + 250, Y: panelY, Width: 30, Height: 30}, ">") {
			state.themeIdx = (state.themeIdx + 1) % len(themes)
			changed = true
		}
		panelY += 45

		for _, s := range sliders {
			rl.DrawText(s.label, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 18
			cur := float32(s.get(&state.preset))
			next := gui.SliderBar(
				rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
				"", "",
				cur, s.min, s.max,
			)
			rl.DrawText(fmt.Sprintf(s.format, cur), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
			if next != cur {
				s.set(&state.preset, float64(next))
				changed = true
			}
			panelY += 32
		}
		panelY += 10

		// Buttons
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(state.preset.Interactive, "Interactive", "Static")) {
			state.preset.Interactive = !state.preset.Interactive
			changed = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reseed") && g != nil {
			g.Reseed()
		}
		panelY += 40
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Random Seed") {
			seed = int64(rl.GetRandomValue(1, 99999))
			changed = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset Preset") {
			if defaults, err := config.Load(""); err == nil {
				if p, ok := defaults.Presets[presets[state.presetIdx]]; ok {
					state.preset = p
					state.themeIdx = indexOf(themes, p.Theme)
					changed = true
				}
			}
		}

		// Instructions
		rl.DrawText("Press C to copy the preset YAML to the clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(presetYAML(presets[state.presetIdx], state.preset, themes[state.themeIdx]))
		}

		rl.EndDrawing()

		if changed {
			rebuild()
		}
	}
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return 0
}

// presetYAML renders the edited preset as a loadable config fragment.
func presetYAML(name string, p config.PresetConfig, theme string) string {
	p.Theme = theme
	doc := map[string]map[string]config.PresetConfig{"presets": {name: p}}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
