package texture

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"strconv"
	"strings"

	"github.com/mdouchement/hdr"
	"github.com/mdouchement/hdr/codec/rgbe"
)

var (
	// ErrNotHDR is returned when the Radiance signature is missing.
	ErrNotHDR = errors.New("not a Radiance HDR file")
	// ErrTooLarge is returned when an image header declares more pixels
	// than the decoders accept.
	ErrTooLarge = errors.New("image too large")
)

const (
	maxHDRDimension = 1 << 15
	maxHDRPixels    = 8192 * 4096
)

func init() {
	image.RegisterFormat("hdr", "#?", func(r io.Reader) (image.Image, error) {
		return DecodeHDR(r)
	}, DecodeHDRConfig)
}

// HDRImage holds linear float RGB pixels, top row first.
type HDRImage struct {
	Width    int
	Height   int
	Pix      []float32 // 3 floats per pixel
	Exposure float64
}

// RGB returns the linear color at (x, y).
func (h *HDRImage) RGB(x, y int) (r, g, b float32) {
	i := (y*h.Width + x) * 3
	return h.Pix[i], h.Pix[i+1], h.Pix[i+2]
}

// ColorModel implements image.Image.
func (h *HDRImage) ColorModel() color.Model { return color.RGBA64Model }

// Bounds implements image.Image.
func (h *HDRImage) Bounds() image.Rectangle { return image.Rect(0, 0, h.Width, h.Height) }

// At implements image.Image by clamping to [0, 1]. Use RGB for HDR values.
func (h *HDRImage) At(x, y int) color.Color {
	if x < 0 || y < 0 || x >= h.Width || y >= h.Height {
		return color.RGBA64{}
	}
	r, g, b := h.RGB(x, y)
	return color.RGBA64{R: clamp16(r), G: clamp16(g), B: clamp16(b), A: 0xffff}
}

func clamp16(v float32) uint16 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 0xffff
	}
	return uint16(v * 0xffff)
}

type hdrHeader struct {
	width, height int
	exposure      float64
}

// DecodeHDRConfig reads only the header.
func DecodeHDRConfig(r io.Reader) (image.Config, error) {
	h, err := readHDRHeader(bufio.NewReader(r))
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{ColorModel: color.RGBA64Model, Width: h.width, Height: h.height}, nil
}

// DecodeHDR decodes a Radiance RGBE image. The header is checked against the
// size limits before any pixel storage is allocated; scanlines are decoded
// by the rgbe codec.
func DecodeHDR(r io.Reader) (*HDRImage, error) {
	var head bytes.Buffer
	br := bufio.NewReader(r)
	h, err := readHDRHeader(bufio.NewReader(io.TeeReader(br, &head)))
	if err != nil {
		return nil, err
	}

	src, err := rgbe.Decode(io.MultiReader(&head, br))
	if err != nil {
		return nil, fmt.Errorf("decoding scanlines: %w", err)
	}
	m, ok := src.(hdr.Image)
	if !ok {
		return nil, fmt.Errorf("rgbe codec returned %T", src)
	}
	b := m.Bounds()
	if b.Dx() != h.width || b.Dy() != h.height {
		return nil, fmt.Errorf("decoded %dx%d, header says %dx%d", b.Dx(), b.Dy(), h.width, h.height)
	}

	img := &HDRImage{
		Width:    h.width,
		Height:   h.height,
		Pix:      make([]float32, 0, h.width*h.height*3),
		Exposure: h.exposure,
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			cr, cg, cb, _ := m.HDRAt(x, y).HDRRGBA()
			img.Pix = append(img.Pix, float32(cr), float32(cg), float32(cb))
		}
	}
	return img, nil
}

func readHDRHeader(br *bufio.Reader) (hdrHeader, error) {
	h := hdrHeader{exposure: 1}

	line, err := br.ReadString('\n')
	if err != nil {
		return h, fmt.Errorf("reading signature: %w", err)
	}
	line = strings.TrimSpace(line)
	if line != "#?RADIANCE" && line != "#?RGBE" {
		return h, ErrNotHDR
	}

	for {
		line, err = br.ReadString('\n')
		if err != nil {
			return h, fmt.Errorf("reading header: %w", err)
		}
		line = strings.TrimSpace(line)
		if line == "" {
			break
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		switch key {
		case "FORMAT":
			if value != "32-bit_rle_rgbe" {
				return h, fmt.Errorf("unsupported HDR format %q", value)
			}
		case "EXPOSURE":
			if e, err := strconv.ParseFloat(value, 64); err == nil && e > 0 {
				h.exposure *= e
			}
		}
	}

	line, err = br.ReadString('\n')
	if err != nil {
		return h, fmt.Errorf("reading resolution: %w", err)
	}
	fields := strings.Fields(line)
	if len(fields) != 4 || fields[2] != "+X" {
		return h, fmt.Errorf("unsupported HDR orientation %q", strings.TrimSpace(line))
	}
	if fields[0] != "-Y" {
		return h, fmt.Errorf("unsupported HDR orientation %q", strings.TrimSpace(line))
	}
	if h.height, err = strconv.Atoi(fields[1]); err != nil {
		return h, fmt.Errorf("bad height: %w", err)
	}
	if h.width, err = strconv.Atoi(fields[3]); err != nil {
		return h, fmt.Errorf("bad width: %w", err)
	}
	if h.width <= 0 || h.height <= 0 || h.width > maxHDRDimension || h.height > maxHDRDimension {
		return h, fmt.Errorf("invalid HDR size %dx%d", h.width, h.height)
	}
	if h.width*h.height > maxHDRPixels {
		return h, fmt.Errorf("HDR size %dx%d: %w", h.width, h.height, ErrTooLarge)
	}
	return h, nil
}
