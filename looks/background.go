package looks

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// whitenBackground pushes near-white pixels outside the protected center
// towards pure white, so catalog shots on off-white paper sit cleanly on
// white grid cells. Pixels with luminance between lower and upper are blended.
func whitenBackground(src image.Image, lower, upper uint8, protect float64) *image.NRGBA {
	img := imaging.Clone(src)
	if lower >= upper || protect < 0 || protect > 1 {
		return img
	}
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	pw := int(float64(width) * protect)
	ph := int(float64(height) * protect)
	x0, y0 := (width-pw)/2, (height-ph)/2
	x1, y1 := x0+pw, y0+ph
	span := float64(upper - lower)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x >= x0 && x < x1 && y >= y0 && y < y1 {
				continue
			}
			c := img.NRGBAAt(x, y)
			luminance := 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
			switch {
			case luminance <= float64(lower):
			case luminance >= float64(upper):
				img.SetNRGBA(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: c.A})
			default:
				f := (luminance - float64(lower)) / span
				img.SetNRGBA(x, y, color.NRGBA{
					R: blend(c.R, f),
					G: blend(c.G, f),
					B: blend(c.B, f),
					A: c.A,
				})
			}
		}
	}
	return img
}

func blend(v uint8, f float64) uint8 {
	return uint8(math.Round(float64(v)*(1-f) + 255*f))
}
