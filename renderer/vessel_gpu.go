package renderer

import (
	_ "embed"
	"log/slog"
	"math"
	"unsafe"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/zeal8/bloom/systems"
)

//go:embed shaders/vessel.vs
var vesselVS string

//go:embed shaders/vessel.fs
var vesselFS string

// Vessel camera, matching the perspective the vase was designed for.
const (
	vesselCameraZ     = 5.0
	vesselFovY        = 75.0
	vesselSpriteScale = 150.0 // sprite pixels per unit size at unit view depth
)

// VesselParams are the per-instance uniforms of the vase.
type VesselParams struct {
	RotationSpeed float64
	Scale         float64
	Opacity       float64
}

// VesselGPU renders the vase as camera-facing quads on the GPU.
//
// Per-particle attributes are uploaded once; each frame only the time
// uniform changes. Six vertices per particle, no index buffer:
// vertex position is the base position, texcoord the quad corner,
// texcoord2.x the sprite size and color the shade.
type VesselGPU struct {
	Palette Palette
	Params  VesselParams

	attrs    []systems.VesselAttrs
	mesh     rl.Mesh
	material rl.Material
	camera   rl.Camera3D

	timeLoc, pointScaleLoc int32

	initialized bool
	disabled    bool
}

// NewVesselGPU creates a GPU vase renderer for the given attributes.
// Init must be called after the raylib window is created.
func NewVesselGPU(pal Palette, attrs []systems.VesselAttrs, params VesselParams) *VesselGPU {
	return &VesselGPU{
		Palette: pal,
		Params:  params,
		attrs:   attrs,
		camera: rl.Camera3D{
			Position:   rl.NewVector3(0, 0, vesselCameraZ),
			Target:     rl.NewVector3(0, 0, 0),
			Up:         rl.NewVector3(0, 1, 0),
			Fovy:       vesselFovY,
			Projection: rl.CameraPerspective,
		},
	}
}

// Init compiles the shader and uploads the mesh. bufferHeight is the render
// target height in device pixels.
func (v *VesselGPU) Init(bufferHeight int) {
	if v.initialized || v.disabled {
		return
	}
	if !rl.IsWindowReady() {
		v.disable("no window")
		return
	}

	shader := rl.LoadShaderFromMemory(vesselVS, vesselFS)
	if shader.ID == 0 {
		v.disable("shader failed to compile")
		return
	}

	v.material = rl.LoadMaterialDefault()
	v.material.Shader = shader
	v.timeLoc = rl.GetShaderLocation(shader, "time")
	v.pointScaleLoc = rl.GetShaderLocation(shader, "pointScale")

	setFloat(shader, rl.GetShaderLocation(shader, "rotationSpeed"), v.Params.RotationSpeed)
	setFloat(shader, rl.GetShaderLocation(shader, "scale"), v.Params.Scale)
	setFloat(shader, rl.GetShaderLocation(shader, "opacity"), v.Params.Opacity)
	v.Resize(bufferHeight)

	if len(v.attrs) > 0 {
		v.mesh = buildVesselMesh(v.attrs)
		rl.UploadMesh(&v.mesh, false)
	}

	v.initialized = true
	slog.Info("vessel renderer ready", "particles", len(v.attrs))
}

func (v *VesselGPU) disable(reason string) {
	v.disabled = true
	slog.Warn("vessel renderer disabled", "reason", reason)
}

// Enabled reports whether Draw will render anything.
func (v *VesselGPU) Enabled() bool {
	return v.initialized && !v.disabled
}

// Resize updates the sprite scale for a new render target height.
func (v *VesselGPU) Resize(bufferHeight int) {
	if bufferHeight < 1 {
		bufferHeight = 1
	}
	if v.material.Shader.ID == 0 {
		return
	}
	fovRad := vesselFovY * math.Pi / 180
	setFloat(v.material.Shader, v.pointScaleLoc, vesselSpriteScale*math.Tan(fovRad/2)/float64(bufferHeight))
}

// Draw paints one frame at time t. s must be the raylib surface currently
// being drawn; any other surface only receives the background fade.
func (v *VesselGPU) Draw(s Surface, t float64) {
	s.Fade(v.Palette.Background, v.Palette.Trail)
	if !v.Enabled() || len(v.attrs) == 0 {
		return
	}
	if rs, ok := s.(*RaylibSurface); !ok || !rs.drawing {
		return
	}

	setFloat(v.material.Shader, v.timeLoc, t)

	rl.BeginMode3D(v.camera)
	rl.DisableDepthMask()
	rl.DisableBackfaceCulling()
	rl.DrawMesh(v.mesh, v.material, rl.MatrixIdentity())
	rl.EnableBackfaceCulling()
	rl.EnableDepthMask()
	rl.EndMode3D()
}

// Close releases the mesh, shader and material.
func (v *VesselGPU) Close() error {
	if !v.initialized {
		return nil
	}
	if len(v.attrs) > 0 {
		rl.UnloadMesh(&v.mesh)
	}
	// Also unloads the shader
	rl.UnloadMaterial(v.material)
	v.initialized = false
	return nil
}

func setFloat(shader rl.Shader, loc int32, value float64) {
	if loc < 0 {
		return
	}
	rl.SetShaderValue(shader, loc, []float32{float32(value)}, rl.ShaderUniformFloat)
}

// quadCorners are the texcoords of the two triangles making one sprite.
var quadCorners = [6][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 0}, {1, 1}, {0, 1}}

// buildVesselMesh fills a mesh in C memory so raylib can free it on unload.
func buildVesselMesh(attrs []systems.VesselAttrs) rl.Mesh {
	vc := len(attrs) * len(quadCorners)
	mesh := rl.Mesh{
		VertexCount:   int32(vc),
		TriangleCount: int32(len(attrs) * 2),
	}
	mesh.Vertices = (*float32)(rl.MemAlloc(uint32(vc * 3 * 4)))
	mesh.Texcoords = (*float32)(rl.MemAlloc(uint32(vc * 2 * 4)))
	mesh.Texcoords2 = (*float32)(rl.MemAlloc(uint32(vc * 2 * 4)))
	mesh.Colors = (*uint8)(rl.MemAlloc(uint32(vc * 4)))

	verts := unsafe.Slice(mesh.Vertices, vc*3)
	uvs := unsafe.Slice(mesh.Texcoords, vc*2)
	uvs2 := unsafe.Slice(mesh.Texcoords2, vc*2)
	colors := unsafe.Slice(mesh.Colors, vc*4)

	for i, a := range attrs {
		shade := uint8(math.Round(float64(a.Shade) * 255))
		for c, corner := range quadCorners {
			k := i*len(quadCorners) + c
			copy(verts[k*3:k*3+3], a.Base[:])
			uvs[k*2], uvs[k*2+1] = corner[0], corner[1]
			uvs2[k*2], uvs2[k*2+1] = a.Size, 0
			colors[k*4], colors[k*4+1], colors[k*4+2], colors[k*4+3] = shade, shade, shade, 255
		}
	}
	return mesh
}
