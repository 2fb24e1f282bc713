package lut

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/draw"

	"github.com/Carmen-Shannon/oxy-rp/common"
)

// Format is an image container for exported LUT strips.
type Format int

const (
	FormatPNG Format = iota
	FormatWebP
	FormatTGA
)

func (f Format) String() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatWebP:
		return "webp"
	case FormatTGA:
		return "tga"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// ParseFormat resolves a format name or file extension such as "webp" or ".tga".
//
// Parameters:
//   - name: the format name, case-insensitive, with or without a leading dot
//
// Returns:
//   - Format: the format
//   - error: an error if the name is unknown
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "png":
		return FormatPNG, nil
	case "webp":
		return FormatWebP, nil
	case "tga":
		return FormatTGA, nil
	}
	return 0, fmt.Errorf("unknown image format %q", name)
}

func to8(v float32) uint8 {
	return uint8(common.Saturate(v)*255 + 0.5)
}

// Image converts the strip to 8-bit gamma-space pixels. Values above 1 are clipped.
//
// Returns:
//   - *image.NRGBA: the strip image
func (l *LUT) Image() *image.NRGBA {
	w, h := l.Dimensions()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := l.At(x, y)
			img.SetNRGBA(x, y, color.NRGBA{
				R: to8(common.LinearToGamma(c[0])),
				G: to8(common.LinearToGamma(c[1])),
				B: to8(common.LinearToGamma(c[2])),
				A: 255,
			})
		}
	}
	return img
}

// Encode writes the strip in the given format, enlarged by an integer factor with nearest-neighbour
// filtering so single texels stay visible.
//
// Parameters:
//   - w: the destination
//   - format: the container format
//   - scale: the enlargement factor; values below 1 are treated as 1
//
// Returns:
//   - error: an error if encoding fails
func (l *LUT) Encode(w io.Writer, format Format, scale int) error {
	var img image.Image = l.Image()
	if scale > 1 {
		b := img.Bounds()
		dst := image.NewNRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
		draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
		img = dst
	}
	return EncodeImage(w, img, format)
}

// EncodeImage writes img in the given format.
//
// Parameters:
//   - w: the destination
//   - img: the image to encode
//   - format: the container format
//
// Returns:
//   - error: an error if encoding fails
func EncodeImage(w io.Writer, img image.Image, format Format) error {
	var err error
	switch format {
	case FormatPNG:
		err = png.Encode(w, img)
	case FormatWebP:
		err = nativewebp.Encode(w, img, nil)
	case FormatTGA:
		err = tga.Encode(w, img)
	default:
		err = fmt.Errorf("unknown image format %d", int(format))
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", format, err)
	}
	return nil
}
