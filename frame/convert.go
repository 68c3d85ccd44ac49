package frame

import (
	"image"
	"image/color"
	"math"
)

// FromImage converts a decoded frame to intensities using the 16-bit gray
// model, so 16-bit camera data keeps its full range (0..65535).
func FromImage(img image.Image) *Image {
	b := img.Bounds()
	out := New(b.Dy(), b.Dx())
	switch src := img.(type) {
	case *image.Gray16:
		for y := 0; y < out.Height; y++ {
			row := out.Row(y)
			for x := range row {
				row[x] = float64(src.Gray16At(b.Min.X+x, b.Min.Y+y).Y)
			}
		}
	case *image.Gray:
		for y := 0; y < out.Height; y++ {
			row := out.Row(y)
			for x := range row {
				row[x] = float64(src.GrayAt(b.Min.X+x, b.Min.Y+y).Y) * 257
			}
		}
	default:
		for y := 0; y < out.Height; y++ {
			row := out.Row(y)
			for x := range row {
				g := color.Gray16Model.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray16)
				row[x] = float64(g.Y)
			}
		}
	}
	return out
}

// ToGray16 renders im as a 16-bit grayscale image, mapping value*scale to the
// 0..65535 range with clipping. A scale <= 0 selects auto-scaling so that the
// largest finite sample maps to full white.
func ToGray16(im *Image, scale float64) *image.Gray16 {
	if scale <= 0 {
		peak := 0.0
		for _, v := range im.Pix {
			if !math.IsInf(v, 0) && !math.IsNaN(v) && v > peak {
				peak = v
			}
		}
		scale = 1
		if peak > 0 {
			scale = math.MaxUint16 / peak
		}
	}

	out := image.NewGray16(image.Rect(0, 0, im.Width, im.Height))
	for y := 0; y < im.Height; y++ {
		for x, v := range im.Row(y) {
			s := v * scale
			switch {
			case math.IsNaN(s) || s <= 0:
				s = 0
			case s >= math.MaxUint16:
				s = math.MaxUint16
			}
			out.SetGray16(x, y, color.Gray16{Y: uint16(math.Round(s))})
		}
	}
	return out
}
