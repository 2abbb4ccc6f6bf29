// Package config provides configuration loading and access for the animation engine.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Animation kinds understood by the engine.
const (
	KindFlower  = "flower"  // 2D flow field on a disc
	KindVessel  = "vessel"  // GPU point sprites on a surface of revolution
	KindDrift   = "drift"   // drifting cloud with home pull
	KindSpiral  = "spiral"  // continuously drawn spiral
	KindYinYang = "yinyang" // wavy concentric rings
)

// RandomPreset picks between the flower and yin-yang presets at instance creation.
const RandomPreset = "random"

var (
	// ErrUnknownPreset is returned when a preset name is not configured.
	ErrUnknownPreset = errors.New("unknown preset")
	// ErrUnknownTheme is returned when a theme name is not configured.
	ErrUnknownTheme = errors.New("unknown theme")
	// ErrUnknownKind is returned when a preset names an animation kind the engine lacks.
	ErrUnknownKind = errors.New("unknown animation kind")
)

// Config holds all engine configuration parameters.
type Config struct {
	Screen    ScreenConfig            `yaml:"screen"`
	Surface   SurfaceConfig           `yaml:"surface"`
	Resize    ResizeConfig            `yaml:"resize"`
	Telemetry TelemetryConfig         `yaml:"telemetry"`
	Themes    map[string]ThemeConfig  `yaml:"themes"`
	Presets   map[string]PresetConfig `yaml:"presets"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds window settings for the raylib host.
type ScreenConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"` // Host callback rate (0 = uncapped)
	Title     string `yaml:"title"`
}

// SurfaceConfig holds layout constants shared by every preset.
type SurfaceConfig struct {
	MinSize       int     `yaml:"min_size"`        // Floor for width/height (guards center/radius math)
	UnitRatio     float64 `yaml:"unit_ratio"`      // Pixels per form unit, as a fraction of the short side
	PixelRatioCap float64 `yaml:"pixel_ratio_cap"` // Device pixel ratio ceiling
}

// ResizeConfig holds resize debounce parameters.
type ResizeConfig struct {
	DebounceMS int `yaml:"debounce_ms"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         int `yaml:"stats_window"`          // Accepted frames per field stats record
	PerfCollectorWindow int `yaml:"perf_collector_window"` // Frames averaged by the perf collector
}

// ThemeConfig is a color palette. Colors are hex strings; Particle may be "gradient".
type ThemeConfig struct {
	Background   string  `yaml:"background"`
	Particle     string  `yaml:"particle"`
	Accent       string  `yaml:"accent"`
	TrailOpacity float64 `yaml:"trail_opacity"`
}

// Gradient is the Particle value that selects hue-by-angle coloring.
const Gradient = "gradient"

// PresetConfig parameterizes one animation instance. Zero fields take kind defaults.
type PresetConfig struct {
	Kind        string `yaml:"kind"`
	Theme       string `yaml:"theme"`
	Interactive bool   `yaml:"interactive"`

	Count        int     `yaml:"count"`
	FormScale    float64 `yaml:"form_scale"`
	FlowSpeed    float64 `yaml:"flow_speed"`
	TimeStep     float64 `yaml:"time_step"` // Clock increment per accepted frame (0 = frame delta in seconds)
	Opacity      float64 `yaml:"opacity"`
	ParticleSize float64 `yaml:"particle_size"`
	TargetFPS    int     `yaml:"target_fps"` // 0 = every host frame
	TrailOpacity float64 `yaml:"trail_opacity"` // 0 = theme default
	MaxSize      int     `yaml:"max_size"`      // Surface clamp in pixels (0 = none)
	MinSize      int     `yaml:"min_size"`      // Overrides surface.min_size when larger

	// Flow tunables
	FlowAmplitude       float64 `yaml:"flow_amplitude"`
	SpawnFlowAmplitude  float64 `yaml:"spawn_flow_amplitude"`
	PullStrength        float64 `yaml:"pull_strength"`
	ContainmentExponent float64 `yaml:"containment_exponent"`
	BobSpeed            float64 `yaml:"bob_speed"`
	BobAmplitude        float64 `yaml:"bob_amplitude"`
	RotationSpeed       float64 `yaml:"rotation_speed"`

	// Pointer tunables
	PointerRadius   float64 `yaml:"pointer_radius"`
	PointerStrength float64 `yaml:"pointer_strength"`
	PointerSwirl    float64 `yaml:"pointer_swirl"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	PresetNames []string // Sorted preset names
	ThemeNames  []string // Sorted theme names
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used. Presets and themes in the
// user file replace the default entry of the same name.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// computeDerived validates presets, fills kind defaults and caches sorted names.
func (c *Config) computeDerived() error {
	if c.Surface.MinSize < 1 {
		c.Surface.MinSize = 1
	}
	if c.Surface.UnitRatio <= 0 {
		c.Surface.UnitRatio = 150.0 / 550.0
	}
	if c.Surface.PixelRatioCap <= 0 {
		c.Surface.PixelRatioCap = 2
	}
	if c.Resize.DebounceMS < 0 {
		c.Resize.DebounceMS = 0
	}
	if c.Telemetry.StatsWindow < 1 {
		c.Telemetry.StatsWindow = 60
	}

	for name, p := range c.Presets {
		if p.Kind == "" {
			p.Kind = KindFlower
		}
		if !knownKind(p.Kind) {
			return fmt.Errorf("preset %q: %w: %s", name, ErrUnknownKind, p.Kind)
		}
		if p.Theme != "" {
			if _, ok := c.Themes[p.Theme]; !ok {
				return fmt.Errorf("preset %q: %w: %s", name, ErrUnknownTheme, p.Theme)
			}
		}
		p.applyDefaults()
		c.Presets[name] = p
	}

	c.Derived.PresetNames = sortedKeys(c.Presets)
	c.Derived.ThemeNames = sortedKeys(c.Themes)
	return nil
}

// applyDefaults fills zero-valued tunables with the kind's reference values.
func (p *PresetConfig) applyDefaults() {
	if p.Theme == "" {
		p.Theme = "light"
	}
	if p.Count < 0 {
		p.Count = 0
	}

	switch p.Kind {
	case KindFlower:
		setDefault(&p.FormScale, 2.4)
		setDefault(&p.FlowSpeed, 0.5)
		setDefault(&p.TimeStep, 0.000475)
		setDefault(&p.Opacity, 0.35)
		setDefault(&p.ParticleSize, 0.6)
		setDefault(&p.FlowAmplitude, 0.015)
		setDefault(&p.SpawnFlowAmplitude, 0.03)
		setDefault(&p.PullStrength, 0.1)
		setDefault(&p.ContainmentExponent, 4)
		setDefault(&p.BobSpeed, 0.15)
		setDefault(&p.BobAmplitude, 0.01)
		setDefault(&p.PointerRadius, 100)
		setDefault(&p.PointerStrength, 0.5)
	case KindVessel:
		setDefault(&p.FormScale, 2.8)
		setDefault(&p.RotationSpeed, 0.25)
		setDefault(&p.Opacity, 0.4)
		setDefault(&p.ParticleSize, 1.3)
	case KindDrift:
		setDefault(&p.TimeStep, 0.01)
	case KindSpiral:
		setDefault(&p.TimeStep, 0.00375)
		if p.MinSize == 0 {
			p.MinSize = 200
		}
	case KindYinYang:
		setDefault(&p.TimeStep, 0.015)
	}
}

// Preset returns the named preset. RandomPreset is resolved by the caller.
func (c *Config) Preset(name string) (PresetConfig, error) {
	p, ok := c.Presets[name]
	if !ok {
		return PresetConfig{}, fmt.Errorf("%w: %s", ErrUnknownPreset, name)
	}
	return p, nil
}

// Theme returns the named theme.
func (c *Config) Theme(name string) (ThemeConfig, error) {
	t, ok := c.Themes[name]
	if !ok {
		return ThemeConfig{}, fmt.Errorf("%w: %s", ErrUnknownTheme, name)
	}
	return t, nil
}

// Trail returns the effective trail opacity for a preset under a theme.
func (p PresetConfig) Trail(theme ThemeConfig) float64 {
	if p.TrailOpacity > 0 {
		return p.TrailOpacity
	}
	if theme.TrailOpacity > 0 {
		return theme.TrailOpacity
	}
	return 1
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// WritePresetYAML writes a single named preset as a loadable config fragment.
func WritePresetYAML(path, name string, p PresetConfig) error {
	doc := struct {
		Presets map[string]PresetConfig `yaml:"presets"`
	}{Presets: map[string]PresetConfig{name: p}}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshaling preset: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing preset file: %w", err)
	}
	return nil
}

func knownKind(kind string) bool {
	switch kind {
	case KindFlower, KindVessel, KindDrift, KindSpiral, KindYinYang:
		return true
	}
	return false
}

func setDefault(v *float64, def float64) {
	if *v == 0 {
		*v = def
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
