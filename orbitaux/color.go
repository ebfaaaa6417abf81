package orbitaux

import (
	"image/color"
)

// ColorConversionTwoTone returns an inside/outside color conversion usable with glrender.NewImageRenderer.
func ColorConversionTwoTone(inside, outside color.Color) func(bool) color.Color {
	return func(in bool) color.Color {
		if in {
			return inside
		}
		return outside
	}
}

// colorToFloats returns c's red, green and blue channels in [0, 1] for use as a shader uniform.
func colorToFloats(c color.Color) (r, g, b float32) {
	r0, g0, b0, _ := c.RGBA()
	return float32(r0) / 0xffff, float32(g0) / 0xffff, float32(b0) / 0xffff
}
