package ui2d

import (
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	firstGlyph   = ' '
	lastGlyph    = '~'
	atlasColumns = 16
)

// Atlas is a fixed-width glyph sheet for printable ASCII.
type Atlas struct {
	Image         *image.Alpha
	GlyphW        int
	GlyphH        int
	columns, rows int
}

// NewAtlas rasterizes printable ASCII from the fixed-width face into a
// single alpha image.
func NewAtlas(face *basicfont.Face) *Atlas {
	count := int(lastGlyph - firstGlyph + 1)
	a := &Atlas{
		GlyphW:  face.Advance,
		GlyphH:  face.Height,
		columns: atlasColumns,
		rows:    (count + atlasColumns - 1) / atlasColumns,
	}
	a.Image = image.NewAlpha(image.Rect(0, 0, a.columns*a.GlyphW, a.rows*a.GlyphH))

	d := &font.Drawer{Dst: a.Image, Src: image.Opaque, Face: face}
	for c := firstGlyph; c <= lastGlyph; c++ {
		x, y := a.cell(c)
		d.Dot = fixed.P(x, y+face.Ascent)
		d.DrawString(string(c))
	}
	return a
}

func (a *Atlas) cell(c rune) (int, int) {
	i := int(c - firstGlyph)
	return (i % a.columns) * a.GlyphW, (i / a.columns) * a.GlyphH
}

// UV returns the texture rectangle of c. Runes outside printable ASCII
// map to '?'.
func (a *Atlas) UV(c rune) (u0, v0, u1, v1 float32) {
	if c < firstGlyph || c > lastGlyph {
		c = '?'
	}
	x, y := a.cell(c)
	w := float32(a.Image.Rect.Dx())
	h := float32(a.Image.Rect.Dy())
	return float32(x) / w, float32(y) / h, float32(x+a.GlyphW) / w, float32(y+a.GlyphH) / h
}

// MeasureText returns the size of text drawn at scale.
func (a *Atlas) MeasureText(text string, scale float32) (float32, float32) {
	lines, longest, cur := 1, 0, 0
	for _, c := range text {
		if c == '\n' {
			lines++
			cur = 0
			continue
		}
		cur++
		longest = max(longest, cur)
	}
	return float32(longest*a.GlyphW) * scale, float32(lines*a.GlyphH) * scale
}

// Font is an Atlas uploaded as a single-channel texture.
type Font struct {
	*Atlas
	texture uint32
}

// NewFont builds the 7x13 atlas and uploads it. Must run on the GL thread.
func NewFont() *Font {
	f := &Font{Atlas: NewAtlas(basicfont.Face7x13)}
	img := f.Image

	gl.GenTextures(1, &f.texture)
	gl.BindTexture(gl.TEXTURE_2D, f.texture)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.R8,
		int32(img.Rect.Dx()), int32(img.Rect.Dy()), 0,
		gl.RED, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return f
}

// TextureID returns the GL texture name.
func (f *Font) TextureID() uint32 { return f.texture }

// Close deletes the texture.
func (f *Font) Close() {
	if f.texture != 0 {
		gl.DeleteTextures(1, &f.texture)
		f.texture = 0
	}
}
