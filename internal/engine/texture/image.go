// Package texture decodes image files and uploads them as OpenGL textures.
package texture

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"  // GIF decoder registration
	_ "image/jpeg" // JPEG decoder registration
	_ "image/png"  // PNG decoder registration
	"io"
	"os"

	"github.com/mdouchement/hdr"
	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"  // BMP decoder registration
	_ "golang.org/x/image/tiff" // TIFF decoder registration
	_ "golang.org/x/image/webp" // WebP decoder registration
)

// Image is a decoded flat texture.
type Image struct {
	RGBA   *image.RGBA
	Format string
}

// Width returns the pixel width.
func (i *Image) Width() int { return i.RGBA.Bounds().Dx() }

// Height returns the pixel height.
func (i *Image) Height() int { return i.RGBA.Bounds().Dy() }

// maxTexturePixels bounds the decoded size of a flat texture before
// downscaling.
const maxTexturePixels = 1 << 26

// Loader decodes flat textures from disk. Images larger than MaxSize on
// either axis are downscaled to fit, preserving aspect ratio.
type Loader struct {
	MaxSize int
}

// Load reads and decodes path. The context is checked before the file is
// read, and the header size is checked before pixels are decoded.
func (l Loader) Load(ctx context.Context, path string) (*Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening texture: %w", err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("decoding texture %s: %w", path, err)
	}
	if cfg.Width*cfg.Height > maxTexturePixels {
		return nil, fmt.Errorf("texture %s is %dx%d: %w", path, cfg.Width, cfg.Height, ErrTooLarge)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewinding texture: %w", err)
	}

	src, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding texture %s: %w", path, err)
	}
	switch src.(type) {
	case *HDRImage, hdr.Image:
		return nil, fmt.Errorf("texture %s is HDR, load it as an environment", path)
	}
	return &Image{RGBA: l.toRGBA(src), Format: format}, nil
}

func (l Loader) toRGBA(src image.Image) *image.RGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if l.MaxSize > 0 && (w > l.MaxSize || h > l.MaxSize) {
		if w >= h {
			h = max(1, h*l.MaxSize/w)
			w = l.MaxSize
		} else {
			w = max(1, w*l.MaxSize/h)
			h = l.MaxSize
		}
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
		return dst
	}
	if rgba, ok := src.(*image.RGBA); ok && b.Min == (image.Point{}) {
		return rgba
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

// LoadHDR reads and decodes a Radiance HDR environment map.
func LoadHDR(ctx context.Context, path string) (*HDRImage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening environment map: %w", err)
	}
	defer f.Close()

	img, err := DecodeHDR(f)
	if err != nil {
		return nil, fmt.Errorf("decoding environment map %s: %w", path, err)
	}
	return img, nil
}
