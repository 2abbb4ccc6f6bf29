package renderer

import (
	"errors"
	"fmt"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/lucasb-eyer/go-colorful"
)

// OpenGL blend factors and equations.
const (
	glZero             = 0
	glOne              = 1
	glSrcAlpha         = 0x0302
	glOneMinusSrcAlpha = 0x0303
	glFuncAdd          = 0x8006
)

// RaylibSurface draws into an off-screen render texture so partial fades
// accumulate across frames the way a canvas does. Blit copies it to the window.
type RaylibSurface struct {
	w, h       float64
	pixelRatio float64

	target   rl.RenderTexture2D
	ready    bool
	drawing  bool
	disabled bool
}

// NewRaylibSurface creates a surface. Must be called after the raylib window
// is created; without a window the surface stays disabled and draws nothing.
func NewRaylibSurface(w, h, pixelRatio float64) *RaylibSurface {
	s := &RaylibSurface{}
	s.Resize(w, h, pixelRatio)
	return s
}

func (s *RaylibSurface) Size() (float64, float64) { return s.w, s.h }

func (s *RaylibSurface) Resize(w, h, pixelRatio float64) {
	if pixelRatio <= 0 {
		pixelRatio = 1
	}
	s.w, s.h, s.pixelRatio = w, h, pixelRatio
	s.unload()

	if !rl.IsWindowReady() {
		s.disable("no window")
		return
	}
	s.target = rl.LoadRenderTexture(int32(w*pixelRatio), int32(h*pixelRatio))
	if s.target.ID == 0 {
		s.disable("render texture unavailable")
		return
	}
	s.ready = true
	s.disabled = false
	s.Clear(colorful.Color{})
}

// Clear fills the target with c at full alpha.
func (s *RaylibSurface) Clear(c colorful.Color) {
	if !s.ready {
		return
	}
	r, g, b, _ := rgba8(c, 1)
	if s.drawing {
		rl.ClearBackground(rl.NewColor(r, g, b, 255))
		return
	}
	rl.BeginTextureMode(s.target)
	rl.ClearBackground(rl.NewColor(r, g, b, 255))
	rl.EndTextureMode()
}

func (s *RaylibSurface) disable(reason string) {
	if !s.disabled {
		slog.Warn("raylib surface disabled", "reason", reason)
	}
	s.disabled = true
}

// Ready reports whether the surface has a render target.
func (s *RaylibSurface) Ready() bool { return s.ready }

func (s *RaylibSurface) Begin() {
	if !s.ready {
		return
	}
	rl.BeginTextureMode(s.target)
	// Color blends as usual; destination alpha is kept, so the target stays
	// as opaque as its last clear.
	rl.SetBlendFactorsSeparate(glSrcAlpha, glOneMinusSrcAlpha, glZero, glOne, glFuncAdd, glFuncAdd)
	rl.BeginBlendMode(rl.BlendCustomSeparate)
	s.drawing = true
}

func (s *RaylibSurface) End() {
	if !s.drawing {
		return
	}
	rl.EndBlendMode()
	rl.EndTextureMode()
	s.drawing = false
}

func (s *RaylibSurface) Fade(c colorful.Color, alpha float64) {
	if !s.drawing {
		return
	}
	r, g, b, a := rgba8(c, alpha)
	rl.DrawRectangle(0, 0, s.target.Texture.Width, s.target.Texture.Height, rl.NewColor(r, g, b, a))
}

func (s *RaylibSurface) Disc(x, y, radius float64, c colorful.Color, alpha float64) {
	if !s.drawing {
		return
	}
	r, g, b, a := rgba8(c, alpha)
	pr := s.pixelRatio
	rl.DrawCircleV(rl.NewVector2(float32(x*pr), float32(y*pr)), float32(radius*pr), rl.NewColor(r, g, b, a))
}

func (s *RaylibSurface) Line(x1, y1, x2, y2, width float64, c colorful.Color, alpha float64) {
	if !s.drawing {
		return
	}
	r, g, b, a := rgba8(c, alpha)
	pr := s.pixelRatio
	rl.DrawLineEx(
		rl.NewVector2(float32(x1*pr), float32(y1*pr)),
		rl.NewVector2(float32(x2*pr), float32(y2*pr)),
		float32(width*pr),
		rl.NewColor(r, g, b, a),
	)
}

// Blit draws the accumulated surface into the current window frame at (x, y)
// in logical pixels. Call between rl.BeginDrawing and rl.EndDrawing.
func (s *RaylibSurface) Blit(x, y float64) {
	if !s.ready {
		return
	}
	tex := s.target.Texture
	// Render textures are stored upside down
	src := rl.NewRectangle(0, 0, float32(tex.Width), -float32(tex.Height))
	dst := rl.NewRectangle(float32(x), float32(y), float32(s.w), float32(s.h))
	rl.DrawTexturePro(tex, src, dst, rl.NewVector2(0, 0), 0, rl.White)
}

// ExportPNG writes the accumulated surface to a PNG file.
func (s *RaylibSurface) ExportPNG(path string) error {
	if !s.ready {
		return errors.New("raylib surface has no render target")
	}
	img := rl.LoadImageFromTexture(s.target.Texture)
	defer rl.UnloadImage(img)
	// Render textures are stored upside down
	rl.ImageFlipVertical(img)
	if !rl.ExportImage(*img, path) {
		return fmt.Errorf("exporting %s", path)
	}
	return nil
}

func (s *RaylibSurface) unload() {
	if s.drawing {
		rl.EndBlendMode()
		rl.EndTextureMode()
		s.drawing = false
	}
	if s.ready {
		rl.UnloadRenderTexture(s.target)
		s.ready = false
	}
}

func (s *RaylibSurface) Close() error {
	s.unload()
	return nil
}
