// Package ui2d draws screen-space panels and text on top of the 3D frame.
package ui2d

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/experience/internal/engine/shader"
	"github.com/Faultbox/experience/internal/engine/shader/shaders"
)

const (
	solidStride = 6 // pos2 + color4
	textStride  = 8 // pos2 + uv2 + color4
)

// Renderer batches 2D quads in point coordinates with the origin at the
// top-left and flushes them in End.
type Renderer struct {
	screenWidth  int
	screenHeight int

	solidShader *shader.Program
	textShader  *shader.Program

	solidVAO, solidVBO uint32
	textVAO, textVBO   uint32

	solidVertices []float32
	textVertices  []float32

	font *Font
}

// New creates a 2D renderer for a surface of width x height points. Must
// run on the GL thread.
func New(width, height int) (*Renderer, error) {
	r := &Renderer{
		screenWidth:   width,
		screenHeight:  height,
		solidVertices: make([]float32, 0, 1024),
		textVertices:  make([]float32, 0, 4096),
	}

	var err error
	r.solidShader, err = shader.NewProgram(shaders.OverlaySolidVertexShader, shaders.OverlaySolidFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("create solid shader: %w", err)
	}
	r.textShader, err = shader.NewProgram(shaders.OverlayTextVertexShader, shaders.OverlayTextFragmentShader)
	if err != nil {
		r.solidShader.Delete()
		return nil, fmt.Errorf("create text shader: %w", err)
	}

	r.solidVAO, r.solidVBO = newQuadBuffers(solidStride, []int32{2, 4})
	r.textVAO, r.textVBO = newQuadBuffers(textStride, []int32{2, 2, 4})
	r.font = NewFont()
	return r, nil
}

// newQuadBuffers creates a VAO/VBO pair with tightly packed float
// attributes of the given sizes at locations 0, 1, ...
func newQuadBuffers(stride int, sizes []int32) (uint32, uint32) {
	var vao, vbo uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)

	offset := 0
	for i, n := range sizes {
		gl.VertexAttribPointerWithOffset(uint32(i), n, gl.FLOAT, false, int32(stride*4), uintptr(offset*4))
		gl.EnableVertexAttribArray(uint32(i))
		offset += int(n)
	}

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return vao, vbo
}

// Resize updates the screen dimensions in points.
func (r *Renderer) Resize(width, height int) {
	r.screenWidth = width
	r.screenHeight = height
}

// Begin starts a new UI frame.
func (r *Renderer) Begin() {
	r.solidVertices = r.solidVertices[:0]
	r.textVertices = r.textVertices[:0]
}

// End draws everything queued since Begin, solids first, then text.
func (r *Renderer) End() {
	prevBlend := gl.IsEnabled(gl.BLEND)
	prevDepth := gl.IsEnabled(gl.DEPTH_TEST)

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Disable(gl.DEPTH_TEST)

	proj := Ortho(r.screenWidth, r.screenHeight)

	if len(r.solidVertices) > 0 {
		r.solidShader.Use()
		r.solidShader.SetMat4("uProjection", proj)
		flush(r.solidVAO, r.solidVBO, r.solidVertices, solidStride)
	}

	if len(r.textVertices) > 0 {
		r.textShader.Use()
		r.textShader.SetMat4("uProjection", proj)
		r.textShader.SetInt("uTexture", 0)
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, r.font.TextureID())
		flush(r.textVAO, r.textVBO, r.textVertices, textStride)
	}

	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.UseProgram(0)

	if !prevBlend {
		gl.Disable(gl.BLEND)
	}
	if prevDepth {
		gl.Enable(gl.DEPTH_TEST)
	}
}

func flush(vao, vbo uint32, vertices []float32, stride int) {
	gl.BindVertexArray(vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STREAM_DRAW)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(vertices)/stride))
}

// Ortho maps points with a top-left origin to clip space.
func Ortho(width, height int) mgl32.Mat4 {
	return mgl32.Ortho(0, float32(max(width, 1)), float32(max(height, 1)), 0, -1, 1)
}

// Close releases renderer resources.
func (r *Renderer) Close() {
	if r.font != nil {
		r.font.Close()
	}
	for _, vao := range []*uint32{&r.solidVAO, &r.textVAO} {
		if *vao != 0 {
			gl.DeleteVertexArrays(1, vao)
			*vao = 0
		}
	}
	for _, vbo := range []*uint32{&r.solidVBO, &r.textVBO} {
		if *vbo != 0 {
			gl.DeleteBuffers(1, vbo)
			*vbo = 0
		}
	}
	if r.solidShader != nil {
		r.solidShader.Delete()
	}
	if r.textShader != nil {
		r.textShader.Delete()
	}
}

// DrawRect draws a filled rectangle.
func (r *Renderer) DrawRect(x, y, width, height float32, color Color) {
	r.solidVertices = appendQuad(r.solidVertices, x, y, width, height, color)
}

// DrawRectOutline draws a rectangle outline.
func (r *Renderer) DrawRectOutline(x, y, width, height, thickness float32, color Color) {
	r.DrawRect(x, y, width, thickness, color)
	r.DrawRect(x, y+height-thickness, width, thickness, color)
	r.DrawRect(x, y+thickness, thickness, height-thickness*2, color)
	r.DrawRect(x+width-thickness, y+thickness, thickness, height-thickness*2, color)
}

// DrawPanel draws a panel with border.
func (r *Renderer) DrawPanel(x, y, width, height float32, bg, border Color) {
	r.DrawRect(x, y, width, height, bg)
	r.DrawRectOutline(x, y, width, height, 1, border)
}

// appendQuad appends two triangles of pos2 + color4 vertices.
func appendQuad(v []float32, x, y, w, h float32, c Color) []float32 {
	return append(v,
		x, y, c.R, c.G, c.B, c.A,
		x+w, y, c.R, c.G, c.B, c.A,
		x+w, y+h, c.R, c.G, c.B, c.A,

		x, y, c.R, c.G, c.B, c.A,
		x+w, y+h, c.R, c.G, c.B, c.A,
		x, y+h, c.R, c.G, c.B, c.A,
	)
}

// appendGlyph appends two triangles of pos2 + uv2 + color4 vertices.
func appendGlyph(v []float32, x, y, w, h, u0, v0, u1, v1 float32, c Color) []float32 {
	return append(v,
		x, y, u0, v0, c.R, c.G, c.B, c.A,
		x+w, y, u1, v0, c.R, c.G, c.B, c.A,
		x+w, y+h, u1, v1, c.R, c.G, c.B, c.A,

		x, y, u0, v0, c.R, c.G, c.B, c.A,
		x+w, y+h, u1, v1, c.R, c.G, c.B, c.A,
		x, y+h, u0, v1, c.R, c.G, c.B, c.A,
	)
}

// DrawText draws text with its top-left corner at (x, y).
func (r *Renderer) DrawText(x, y float32, text string, scale float32, color Color) {
	r.textVertices = layoutText(r.textVertices, r.font.Atlas, x, y, text, scale, color)
}

func layoutText(v []float32, a *Atlas, x, y float32, text string, scale float32, color Color) []float32 {
	charW := float32(a.GlyphW) * scale
	charH := float32(a.GlyphH) * scale

	curX := x
	for _, c := range text {
		if c == '\n' {
			curX = x
			y += charH
			continue
		}
		if c != ' ' {
			u0, v0, u1, v1 := a.UV(c)
			v = appendGlyph(v, curX, y, charW, charH, u0, v0, u1, v1, color)
		}
		curX += charW
	}
	return v
}

// MeasureText returns the width and height of rendered text.
func (r *Renderer) MeasureText(text string, scale float32) (float32, float32) {
	return r.font.MeasureText(text, scale)
}
