package mesh

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/experience/internal/engine/scene"
	"github.com/Faultbox/experience/internal/engine/shader"
	"github.com/Faultbox/experience/internal/engine/shader/shaders"
	"github.com/Faultbox/experience/internal/engine/texture"
)

// Material binds a program and its uniforms for a draw.
type Material interface {
	Bind(ctx *scene.DrawContext) *shader.Program
}

// StandardMaterial is a lit material with a flat color, optionally
// multiplied by a color map sampled at the mesh UVs.
type StandardMaterial struct {
	Color     mgl32.Vec3
	Roughness float32
	Metalness float32
	Map       *texture.Texture

	program *shader.Program
}

// NewStandardProgram compiles the shared lit program.
func NewStandardProgram() (*shader.Program, error) {
	p, err := shader.NewProgram(shaders.StandardVertexShader, shaders.StandardFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("standard program: %w", err)
	}
	return p, nil
}

// NewStandardMaterial returns a material drawn with program.
func NewStandardMaterial(program *shader.Program, color mgl32.Vec3) *StandardMaterial {
	return &StandardMaterial{Color: color, Roughness: 0.5, program: program}
}

// Bind implements Material.
func (m *StandardMaterial) Bind(ctx *scene.DrawContext) *shader.Program {
	p := m.program
	p.Use()
	p.SetVec3("uColor", m.Color)
	p.SetFloat("uRoughness", m.Roughness)
	p.SetFloat("uMetalness", m.Metalness)
	p.SetVec3("uCameraPos", ctx.CameraPos)
	p.SetVec3("uLightDir", ctx.Light.Direction())
	p.SetVec3("uLightColor", ctx.Light.Color)
	p.SetFloat("uLightIntensity", ctx.Light.Intensity)
	p.SetVec3("uAmbient", ctx.Ambient)
	p.SetFloat("uExposure", ctx.Exposure)
	p.SetFloat("uEnvIntensity", ctx.EnvIntensity)

	if ctx.Environment != nil {
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, ctx.Environment.ID)
		p.SetInt("uEnvMap", 0)
		p.SetInt("uHasEnvMap", 1)
	} else {
		p.SetInt("uHasEnvMap", 0)
	}

	// The shadow sampler always points at unit 1 so it never aliases the
	// environment map's unit.
	p.SetInt("uShadowMap", 1)
	if ctx.ShadowMap != 0 {
		gl.ActiveTexture(gl.TEXTURE1)
		gl.BindTexture(gl.TEXTURE_2D, ctx.ShadowMap)
		p.SetMat4("uLightSpace", ctx.LightSpace)
		p.SetFloat("uShadowNormalBias", ctx.Light.NormalBias)
		p.SetInt("uHasShadow", 1)
	} else {
		p.SetInt("uHasShadow", 0)
	}

	p.SetInt("uMap", 2)
	if m.Map != nil {
		gl.ActiveTexture(gl.TEXTURE2)
		gl.BindTexture(gl.TEXTURE_2D, m.Map.ID)
		p.SetInt("uHasMap", 1)
	} else {
		p.SetInt("uHasMap", 0)
	}
	gl.ActiveTexture(gl.TEXTURE0)
	return p
}

// ShaderMaterial draws with a custom program and a free-form uniform set.
type ShaderMaterial struct {
	Program  *shader.Program
	Uniforms map[string]any
}

// NewShaderMaterial compiles the given sources.
func NewShaderMaterial(vertexSrc, fragmentSrc string) (*ShaderMaterial, error) {
	p, err := shader.NewProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return nil, err
	}
	return &ShaderMaterial{Program: p, Uniforms: make(map[string]any)}, nil
}

// Bind implements Material. Uniforms of unsupported types are skipped.
func (m *ShaderMaterial) Bind(ctx *scene.DrawContext) *shader.Program {
	m.Program.Use()
	for name, v := range m.Uniforms {
		_ = m.Program.Set(name, v)
	}
	return m.Program
}
