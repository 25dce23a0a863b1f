package renderer

import (
	"fmt"
	"path/filepath"
	"runtime"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/snail/scene"
	"github.com/pthm-cable/snail/shell"
)

// MaxLights must match the array size in shell.fs.
const MaxLights = 4

// ShellRenderer draws the shell mesh with a Phong shader and the active
// texture.
type ShellRenderer struct {
	shader   rl.Shader
	material rl.Material

	ambientLoc    int32
	lightDirLoc   int32
	lightColorLoc int32
	lightCountLoc int32
	viewPosLoc    int32
	specularLoc   int32

	mesh     rl.Mesh
	hasMesh  bool
	revision int

	texture     *TextureUploader
	initialized bool
}

// NewShellRenderer creates a shell renderer.
func NewShellRenderer() *ShellRenderer {
	return &ShellRenderer{texture: NewTextureUploader(), revision: -1}
}

// Init loads the shader from shaderDir (must be called after the raylib
// window is created).
func (s *ShellRenderer) Init(shaderDir string) error {
	if s.initialized {
		return nil
	}

	vs := filepath.Join(shaderDir, "shell.vs")
	fs := filepath.Join(shaderDir, "shell.fs")
	s.shader = rl.LoadShader(vs, fs)
	if s.shader.ID == 0 {
		return fmt.Errorf("loading shell shader from %s", shaderDir)
	}

	s.ambientLoc = rl.GetShaderLocation(s.shader, "ambient")
	s.lightDirLoc = rl.GetShaderLocation(s.shader, "lightDir")
	s.lightColorLoc = rl.GetShaderLocation(s.shader, "lightColor")
	s.lightCountLoc = rl.GetShaderLocation(s.shader, "lightCount")
	s.specularLoc = rl.GetShaderLocation(s.shader, "specular")
	s.viewPosLoc = rl.GetShaderLocation(s.shader, "viewPos")
	s.shader.UpdateLocation(rl.ShaderLocVectorView, s.viewPosLoc)

	rl.SetShaderValue(s.shader, s.specularLoc, []float32{0.25, 32}, rl.ShaderUniformVec2)

	s.material = rl.LoadMaterialDefault()
	s.material.Shader = s.shader
	s.initialized = true
	return nil
}

// UploadMesh replaces the GPU mesh when revision differs from the last
// upload.
func (s *ShellRenderer) UploadMesh(b shell.GPUBuffers, revision int) {
	if revision == s.revision || b.VertexCount() == 0 {
		return
	}
	s.unloadMesh()

	mesh := rl.Mesh{
		VertexCount:   int32(b.VertexCount()),
		TriangleCount: int32(b.VertexCount() / 3),
		Vertices:      &b.Positions[0],
		Normals:       &b.Normals[0],
		Texcoords:     &b.Texcoords[0],
	}

	// raylib reads the Go slices during upload only.
	var pinner runtime.Pinner
	pinner.Pin(mesh.Vertices)
	pinner.Pin(mesh.Normals)
	pinner.Pin(mesh.Texcoords)
	rl.UploadMesh(&mesh, false)
	pinner.Unpin()

	// Drop CPU pointers so UnloadMesh never frees Go memory.
	mesh.Vertices = nil
	mesh.Normals = nil
	mesh.Texcoords = nil

	s.mesh = mesh
	s.hasMesh = true
	s.revision = revision
}

// Texture returns the uploader holding the shell texture.
func (s *ShellRenderer) Texture() *TextureUploader { return s.texture }

// SetLighting uploads light uniforms.
func (s *ShellRenderer) SetLighting(l scene.Lighting) {
	if !s.initialized {
		return
	}
	var dirs, colors [MaxLights * 3]float32
	n := 0
	for _, light := range l.Directional {
		if n == MaxLights {
			break
		}
		copy(dirs[n*3:], light.Direction[:])
		copy(colors[n*3:], light.Color[:])
		n++
	}
	rl.SetShaderValue(s.shader, s.ambientLoc, l.Ambient[:], rl.ShaderUniformVec3)
	rl.SetShaderValueV(s.shader, s.lightDirLoc, dirs[:], rl.ShaderUniformVec3, MaxLights)
	rl.SetShaderValueV(s.shader, s.lightColorLoc, colors[:], rl.ShaderUniformVec3, MaxLights)
	rl.SetShaderValue(s.shader, s.lightCountLoc, []float32{float32(n)}, rl.ShaderUniformFloat)
}

// Draw renders the shell. Must be called inside BeginMode3D.
func (s *ShellRenderer) Draw(cam rl.Camera3D) {
	if !s.initialized || !s.hasMesh || !s.texture.Loaded() {
		return
	}
	rl.SetShaderValue(s.shader, s.viewPosLoc,
		[]float32{cam.Position.X, cam.Position.Y, cam.Position.Z}, rl.ShaderUniformVec3)
	rl.SetMaterialTexture(&s.material, rl.MapDiffuse, s.texture.Texture())
	rl.DisableBackfaceCulling()
	rl.DrawMesh(s.mesh, s.material, rl.MatrixIdentity())
	rl.EnableBackfaceCulling()
}

func (s *ShellRenderer) unloadMesh() {
	if s.hasMesh {
		rl.UnloadMesh(&s.mesh)
		s.hasMesh = false
	}
}

// Unload frees resources.
func (s *ShellRenderer) Unload() {
	s.unloadMesh()
	s.texture.Unload()
	if s.initialized {
		rl.UnloadShader(s.shader)
		s.initialized = false
	}
}
