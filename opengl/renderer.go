package opengl

import (
	"fmt"
	"strings"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"infiniteroad/core"
	"infiniteroad/logger"
	"infiniteroad/scene"
)

// GPUMesh holds the OpenGL buffer objects for an uploaded mesh.
type GPUMesh struct {
	VAO        uint32
	VBO        uint32
	EBO        uint32
	IndexCount int32
	HasIndices bool
}

// FrameStats describes the last RenderScene call.
type FrameStats struct {
	Drawn    int
	Culled   int
	Vertices int
	Resident int // meshes currently holding GPU buffers
}

// Renderer is the OpenGL rendering backend.
type Renderer struct {
	program   uint32
	gpuMeshes map[*scene.Mesh]*GPUMesh
	log       logger.Logger

	// FrustumCulling skips nodes outside the camera volume.
	FrustumCulling bool
	// Wireframe forces every triangle mesh to draw as lines.
	Wireframe bool

	loc struct {
		mvp, model                     int32
		ambient, sunDir, sunColor      int32
		pointPos, pointColor, pointRng int32
	}
}

// vertex shader: MVP transform, world position and normal for lighting
const vertSrc = `
#version 410 core
layout(location = 0) in vec3 inPosition;
layout(location = 1) in vec3 inNormal;
layout(location = 2) in vec2 inUV;
layout(location = 3) in vec4 inColor;

uniform mat4 mvp;
uniform mat4 model;

out vec4 fragColor;
out vec3 fragNormal;
out vec3 fragWorld;

void main() {
    gl_Position = mvp * vec4(inPosition, 1.0);
    fragColor   = inColor;
    fragNormal  = mat3(model) * inNormal;
    fragWorld   = (model * vec4(inPosition, 1.0)).xyz;
}
` + "\x00"

// fragment shader: ambient + one directional + one point light
const fragSrc = `
#version 410 core
in vec4 fragColor;
in vec3 fragNormal;
in vec3 fragWorld;

uniform vec3  ambient;
uniform vec3  sunDir;
uniform vec3  sunColor;
uniform vec3  pointPos;
uniform vec3  pointColor;
uniform float pointRange;

out vec4 outColor;

void main() {
    vec3 n = normalize(fragNormal);
    vec3 light = ambient + sunColor * max(dot(n, -sunDir), 0.0);

    if (pointRange > 0.0) {
        vec3  toLight = pointPos - fragWorld;
        float d       = length(toLight);
        float falloff = clamp(1.0 - d / pointRange, 0.0, 1.0);
        light += pointColor * falloff * max(dot(n, toLight / max(d, 1e-4)), 0.0);
    }
    outColor = vec4(fragColor.rgb * light, fragColor.a);
}
` + "\x00"

// NewRenderer initialises OpenGL.
// Must be called after the GLFW window context is made current.
func NewRenderer(log logger.Logger) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	log.Infof("OpenGL version: %s", gl.GoStr(gl.GetString(gl.VERSION)))

	prog, err := newProgram(vertSrc, fragSrc)
	if err != nil {
		return nil, fmt.Errorf("shader compile: %w", err)
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.MULTISAMPLE)

	r := &Renderer{
		program:        prog,
		gpuMeshes:      make(map[*scene.Mesh]*GPUMesh),
		log:            log,
		FrustumCulling: true,
	}
	uniform := func(name string) int32 { return gl.GetUniformLocation(prog, gl.Str(name+"\x00")) }
	r.loc.mvp = uniform("mvp")
	r.loc.model = uniform("model")
	r.loc.ambient = uniform("ambient")
	r.loc.sunDir = uniform("sunDir")
	r.loc.sunColor = uniform("sunColor")
	r.loc.pointPos = uniform("pointPos")
	r.loc.pointColor = uniform("pointColor")
	r.loc.pointRng = uniform("pointRange")
	return r, nil
}

// SetViewport resizes the OpenGL viewport.
func (r *Renderer) SetViewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

// RenderScene clears to the sky colour and draws every visible node.
func (r *Renderer) RenderScene(s *scene.Scene) FrameStats {
	gl.ClearColor(s.SkyColor.R, s.SkyColor.G, s.SkyColor.B, s.SkyColor.A)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	var stats FrameStats
	if s.Camera == nil {
		return stats
	}

	gl.UseProgram(r.program)
	r.applyLights(s)

	var nodes []*scene.Node
	if r.FrustumCulling {
		f := s.Camera.Frustum()
		nodes = s.VisibleNodes(&f)
		stats.Culled = len(s.VisibleNodes(nil)) - len(nodes)
	} else {
		nodes = s.VisibleNodes(nil)
	}

	vp := s.Camera.GetViewProjectionMatrix()
	for _, n := range nodes {
		model := n.GetWorldMatrix()
		if r.drawMesh(n.Mesh, vp.Mul4(model), model) {
			stats.Drawn++
			stats.Vertices += len(n.Mesh.Vertices)
		}
	}
	stats.Resident = len(r.gpuMeshes)
	return stats
}

func (r *Renderer) applyLights(s *scene.Scene) {
	amb := s.Ambient
	gl.Uniform3f(r.loc.ambient, amb.R, amb.G, amb.B)

	if sun := s.FirstLight(scene.LightTypeDirectional); sun != nil {
		c := sun.Color.Scale(sun.Intensity)
		gl.Uniform3f(r.loc.sunDir, sun.Direction.X(), sun.Direction.Y(), sun.Direction.Z())
		gl.Uniform3f(r.loc.sunColor, c.R, c.G, c.B)
	} else {
		gl.Uniform3f(r.loc.sunColor, 0, 0, 0)
	}

	if pt := s.FirstLight(scene.LightTypePoint); pt != nil {
		c := pt.Color.Scale(pt.Intensity)
		gl.Uniform3f(r.loc.pointPos, pt.Position.X(), pt.Position.Y(), pt.Position.Z())
		gl.Uniform3f(r.loc.pointColor, c.R, c.G, c.B)
		gl.Uniform1f(r.loc.pointRng, pt.Range)
	} else {
		gl.Uniform1f(r.loc.pointRng, 0)
	}
}

// drawMesh uploads mesh data on first use, then issues a draw call.
func (r *Renderer) drawMesh(mesh *scene.Mesh, mvp, model mgl32.Mat4) bool {
	gpu := r.ensureUploaded(mesh)
	if gpu == nil {
		return false
	}

	gl.UniformMatrix4fv(r.loc.mvp, 1, false, &mvp[0])
	gl.UniformMatrix4fv(r.loc.model, 1, false, &model[0])

	wire := mesh.DrawMode == scene.DrawTriangles && (mesh.Wireframe || r.Wireframe)
	if wire {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	}

	mode := uint32(gl.TRIANGLES)
	if mesh.DrawMode == scene.DrawLines {
		mode = gl.LINES
	}

	gl.BindVertexArray(gpu.VAO)
	if gpu.HasIndices {
		gl.DrawElements(mode, gpu.IndexCount, gl.UNSIGNED_INT, nil)
	} else {
		gl.DrawArrays(mode, 0, int32(len(mesh.Vertices)))
	}
	gl.BindVertexArray(0)

	if wire {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
	return true
}

// ReleaseMesh frees GPU buffers for the given mesh.
func (r *Renderer) ReleaseMesh(mesh *scene.Mesh) {
	if gpu, ok := r.gpuMeshes[mesh]; ok {
		gl.DeleteVertexArrays(1, &gpu.VAO)
		gl.DeleteBuffers(1, &gpu.VBO)
		if gpu.HasIndices {
			gl.DeleteBuffers(1, &gpu.EBO)
		}
		delete(r.gpuMeshes, mesh)
		mesh.GPUData = nil
	}
}

// ReleaseNode frees the GPU buffers of every mesh under node. Evicted road
// segments come through here.
func (r *Renderer) ReleaseNode(node *scene.Node) {
	for _, m := range node.Meshes() {
		r.ReleaseMesh(m)
	}
}

// Destroy releases all GPU resources.
func (r *Renderer) Destroy() {
	for mesh := range r.gpuMeshes {
		r.ReleaseMesh(mesh)
	}
	gl.DeleteProgram(r.program)
}

// ensureUploaded uploads vertex/index data if not already done.
func (r *Renderer) ensureUploaded(mesh *scene.Mesh) *GPUMesh {
	if gpu, ok := r.gpuMeshes[mesh]; ok {
		return gpu
	}
	if len(mesh.Vertices) == 0 {
		return nil
	}

	stride := int32(unsafe.Sizeof(core.Vertex{}))

	gpu := &GPUMesh{
		IndexCount: int32(len(mesh.Indices)),
		HasIndices: len(mesh.Indices) > 0,
	}

	gl.GenVertexArrays(1, &gpu.VAO)
	gl.GenBuffers(1, &gpu.VBO)
	gl.BindVertexArray(gpu.VAO)

	gl.BindBuffer(gl.ARRAY_BUFFER, gpu.VBO)
	gl.BufferData(gl.ARRAY_BUFFER,
		len(mesh.Vertices)*int(stride),
		gl.Ptr(mesh.Vertices),
		gl.STATIC_DRAW)

	var v core.Vertex
	attribs := []struct {
		size   int32
		offset uintptr
	}{
		{3, unsafe.Offsetof(v.Position)},
		{3, unsafe.Offsetof(v.Normal)},
		{2, unsafe.Offsetof(v.UV)},
		{4, unsafe.Offsetof(v.Color)},
	}
	for loc, a := range attribs {
		gl.EnableVertexAttribArray(uint32(loc))
		gl.VertexAttribPointerWithOffset(uint32(loc), a.size, gl.FLOAT, false, stride, a.offset)
	}

	if gpu.HasIndices {
		gl.GenBuffers(1, &gpu.EBO)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, gpu.EBO)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER,
			len(mesh.Indices)*4,
			gl.Ptr(mesh.Indices),
			gl.STATIC_DRAW)
	}

	gl.BindVertexArray(0)

	r.gpuMeshes[mesh] = gpu
	mesh.GPUData = gpu
	return gpu
}

// ── shader helpers ────────────────────────────────────────────────────────────

func newProgram(vertSrc, fragSrc string) (uint32, error) {
	vert, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex: %w", err)
	}
	frag, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, fmt.Errorf("fragment: %w", err)
	}

	prog := gl.CreateProgram()
	gl.AttachShader(prog, vert)
	gl.AttachShader(prog, frag)
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		return 0, fmt.Errorf("link failed: %v", log)
	}

	gl.DeleteShader(vert)
	gl.DeleteShader(frag)
	return prog, nil
}

func compileShader(src string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src)
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		return 0, fmt.Errorf("compile failed: %v", log)
	}
	return shader, nil
}
