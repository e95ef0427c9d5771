// Package shadow renders the key light's depth map and builds the matrix
// that projects world space into it.
package shadow

import (
	"errors"
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// ErrIncomplete is returned when the driver rejects the depth framebuffer.
var ErrIncomplete = errors.New("shadow framebuffer incomplete")

// Resolution limits. Sizes are rounded up to a power of two.
const (
	DefaultResolution = 1024
	MinResolution     = 256
	MaxResolution     = 8192
)

// Depth offset applied while rendering casters, in glPolygonOffset units.
const (
	DefaultSlopeBias    = 2
	DefaultConstantBias = 4
)

// Map is a square depth texture with comparison sampling enabled, so the
// lit pass can read it through a sampler2DShadow.
type Map struct {
	fbo     uint32
	texture uint32
	size    int32

	// SlopeBias and ConstantBias push caster depth away from the light to
	// keep curved surfaces from shadowing themselves.
	SlopeBias    float32
	ConstantBias float32
}

// Resolution returns the side length the map is allocated with for a
// requested size: a power of two within [MinResolution, MaxResolution].
// Zero or less selects DefaultResolution.
func Resolution(requested int32) int32 {
	if requested <= 0 {
		return DefaultResolution
	}
	size := int32(MinResolution)
	for size < requested && size < MaxResolution {
		size <<= 1
	}
	return size
}

// NewMap allocates the depth texture and its framebuffer. Must run on the
// GL thread.
func NewMap(requested int32) (*Map, error) {
	m := &Map{
		size:         Resolution(requested),
		SlopeBias:    DefaultSlopeBias,
		ConstantBias: DefaultConstantBias,
	}

	gl.GenTextures(1, &m.texture)
	gl.BindTexture(gl.TEXTURE_2D, m.texture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.DEPTH_COMPONENT24, m.size, m.size, 0, gl.DEPTH_COMPONENT, gl.FLOAT, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	// Outside the light volume everything reads as lit.
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_BORDER)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_BORDER)
	border := [4]float32{1, 1, 1, 1}
	gl.TexParameterfv(gl.TEXTURE_2D, gl.TEXTURE_BORDER_COLOR, &border[0])
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_COMPARE_MODE, gl.COMPARE_REF_TO_TEXTURE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_COMPARE_FUNC, gl.LEQUAL)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	gl.GenFramebuffers(1, &m.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, m.fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, m.texture, 0)
	gl.DrawBuffer(gl.NONE)
	gl.ReadBuffer(gl.NONE)
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)

	if status != gl.FRAMEBUFFER_COMPLETE {
		m.Delete()
		return nil, fmt.Errorf("%w: status 0x%x at %dpx", ErrIncomplete, status, m.size)
	}
	return m, nil
}

// Size returns the side length in texels.
func (m *Map) Size() int32 { return m.size }

// Texture returns the depth texture name for binding in the lit pass.
func (m *Map) Texture() uint32 { return m.texture }

// Render clears the depth map and runs draw with the map bound as the
// target. The caller's viewport and framebuffer are restored afterwards.
func (m *Map) Render(draw func()) {
	var viewport [4]int32
	gl.GetIntegerv(gl.VIEWPORT, &viewport[0])

	gl.BindFramebuffer(gl.FRAMEBUFFER, m.fbo)
	gl.Viewport(0, 0, m.size, m.size)
	gl.Clear(gl.DEPTH_BUFFER_BIT)
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.POLYGON_OFFSET_FILL)
	gl.PolygonOffset(m.SlopeBias, m.ConstantBias)

	draw()

	gl.Disable(gl.POLYGON_OFFSET_FILL)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(viewport[0], viewport[1], viewport[2], viewport[3])
}

// Delete releases the framebuffer and texture.
func (m *Map) Delete() {
	if m.fbo != 0 {
		gl.DeleteFramebuffers(1, &m.fbo)
		m.fbo = 0
	}
	if m.texture != 0 {
		gl.DeleteTextures(1, &m.texture)
		m.texture = 0
	}
}
