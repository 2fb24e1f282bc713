package lut

import (
	"image"
	"image/color"

	"github.com/Carmen-Shannon/oxy-rp/common"
)

// Apply grades an 8-bit image through the LUT. Pixels are decoded from gamma to linear space, graded and
// encoded back; alpha is preserved.
//
// Parameters:
//   - src: the image to grade
//
// Returns:
//   - *image.NRGBA: the graded image with src's bounds
func (l *LUT) Apply(src image.Image) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			p := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
			in := [3]float32{
				common.GammaToLinear(float32(p.R) / 255),
				common.GammaToLinear(float32(p.G) / 255),
				common.GammaToLinear(float32(p.B) / 255),
			}
			out := l.Sample(in)
			dst.SetNRGBA(x, y, color.NRGBA{
				R: to8(common.LinearToGamma(out[0])),
				G: to8(common.LinearToGamma(out[1])),
				B: to8(common.LinearToGamma(out[2])),
				A: p.A,
			})
		}
	}
	return dst
}
