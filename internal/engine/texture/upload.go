package texture

import (
	"github.com/go-gl/gl/v4.1-core/gl"
)

// Mapping describes how a texture is sampled.
type Mapping int

const (
	MappingUV Mapping = iota
	// MappingEquirectangular samples the texture by direction (latitude/longitude).
	MappingEquirectangular
)

// Texture is an uploaded GL texture.
type Texture struct {
	ID      uint32
	Width   int
	Height  int
	Mapping Mapping
}

// Upload2D creates an sRGB texture with mipmaps. Rows are flipped so the
// first image row lands at v = 1. Must run on the GL thread.
func Upload2D(img *Image) *Texture {
	w, h := img.Width(), img.Height()
	stride := img.RGBA.Stride
	flipped := make([]uint8, w*h*4)
	for y := 0; y < h; y++ {
		copy(flipped[(h-1-y)*w*4:(h-y)*w*4], img.RGBA.Pix[y*stride:y*stride+w*4])
	}

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.SRGB8_ALPHA8, int32(w), int32(h), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(flipped))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	return &Texture{ID: id, Width: w, Height: h, Mapping: MappingUV}
}

// UploadHDR creates a floating point texture for an equirectangular
// environment map with the top row at v = 1. Must run on the GL thread.
func UploadHDR(img *HDRImage) *Texture {
	row := img.Width * 3
	flipped := make([]float32, len(img.Pix))
	for y := 0; y < img.Height; y++ {
		copy(flipped[(img.Height-1-y)*row:(img.Height-y)*row], img.Pix[y*row:(y+1)*row])
	}

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGB16F, int32(img.Width), int32(img.Height), 0, gl.RGB, gl.FLOAT, gl.Ptr(flipped))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	return &Texture{ID: id, Width: img.Width, Height: img.Height, Mapping: MappingEquirectangular}
}

// Delete releases the GL texture.
func (t *Texture) Delete() {
	if t != nil && t.ID != 0 {
		gl.DeleteTextures(1, &t.ID)
		t.ID = 0
	}
}
