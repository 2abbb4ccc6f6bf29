package renderer

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/zeal8/bloom/config"
)

// Palette is a resolved theme.
type Palette struct {
	Background colorful.Color
	Particle   colorful.Color
	Accent     colorful.Color
	Gradient   bool    // color particles by angle around the field center
	Trail      float64 // per-frame background fade alpha
}

// NewPalette parses a theme's hex colors.
func NewPalette(theme config.ThemeConfig, trail float64) (Palette, error) {
	bg, err := colorful.Hex(theme.Background)
	if err != nil {
		return Palette{}, fmt.Errorf("parsing background color: %w", err)
	}

	p := Palette{Background: bg, Trail: clamp01(trail)}

	if theme.Particle == config.Gradient {
		p.Gradient = true
	} else {
		p.Particle, err = colorful.Hex(theme.Particle)
		if err != nil {
			return Palette{}, fmt.Errorf("parsing particle color: %w", err)
		}
	}

	if theme.Accent != "" {
		p.Accent, err = colorful.Hex(theme.Accent)
		if err != nil {
			return Palette{}, fmt.Errorf("parsing accent color: %w", err)
		}
	} else {
		p.Accent = p.Particle
	}
	return p, nil
}

// MustPalette is like NewPalette but panics on error.
func MustPalette(theme config.ThemeConfig, trail float64) Palette {
	p, err := NewPalette(theme, trail)
	if err != nil {
		panic(err)
	}
	return p
}

// ParticleColor returns the color of a particle at (x, y) around (cx, cy).
// influence in [0, 1] shifts the color toward the accent.
func (p Palette) ParticleColor(x, y, cx, cy, influence float64) colorful.Color {
	base := p.Particle
	if p.Gradient {
		hue := math.Atan2(y-cy, x-cx)*180/math.Pi + 180
		base = colorful.Hsl(hue, 0.7, 0.6)
	}
	if influence <= 0 {
		return base
	}
	return base.BlendRgb(p.Accent, clamp01(influence)).Clamped()
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// rgba8 converts a color and alpha to 8-bit channels.
func rgba8(c colorful.Color, alpha float64) (r, g, b, a uint8) {
	r, g, b = c.Clamped().RGB255()
	a = uint8(math.Round(clamp01(alpha) * 255))
	return r, g, b, a
}
