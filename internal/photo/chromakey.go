package photo

import (
	"image"
	"image/color"
	"image/draw"
)

// DefaultThreshold is the channel value above which a pixel counts as
// background.
const DefaultThreshold = 180

// ChromaKey returns a copy of img where every pixel whose red, green and
// blue channels all exceed threshold is turned white. Alpha is kept, and
// all other pixels are copied unchanged.
func ChromaKey(img image.Image, threshold uint8) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(b)
	draw.Draw(out, b, img, b.Min, draw.Src)

	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := out.Pix[out.PixOffset(b.Min.X, y):]
		for x := 0; x < b.Dx(); x++ {
			px := row[x*4 : x*4+4 : x*4+4]
			if px[0] > threshold && px[1] > threshold && px[2] > threshold {
				px[0], px[1], px[2] = 0xff, 0xff, 0xff
			}
		}
	}
	return out
}

// IsKeyed reports whether c would be whitened at threshold.
func IsKeyed(c color.Color, threshold uint8) bool {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return n.R > threshold && n.G > threshold && n.B > threshold
}
