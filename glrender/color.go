package glrender

import (
	"image/color"

	math "github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms1"
)

// HSV conversions follow Esme Lamb's (@dedelala) color work presented at Gophercon AU 2024.
// https://github.com/dedelala/disco/tree/main/color

// hsv holds hue, saturation and value, each in [0, 1].
type hsv struct{ h, s, v float32 }

// ColorGradient returns a function that interpolates between c0 and c1 in HSV space
// taking the short way around the hue circle. t is clamped to [0, 1].
func ColorGradient(c0, c1 color.Color) func(t float32) color.RGBA {
	a, b := toHSV(c0), toHSV(c1)
	switch {
	case b.h-a.h > 0.5:
		a.h += 1
	case b.h-a.h < -0.5:
		b.h += 1
	}
	return func(t float32) color.RGBA {
		t = ms1.Clamp(t, 0, 1)
		c := hsv{
			h: ms1.Interp(a.h, b.h, t),
			s: ms1.Interp(a.s, b.s, t),
			v: ms1.Interp(a.v, b.v, t),
		}
		if c.h > 1 {
			c.h -= 1
		}
		return c.rgba()
	}
}

// Shade scales the brightness of c by ambient plus the diffuse contribution of
// a light hitting a surface at cosTheta. Back facing light contributes nothing.
func Shade(c color.Color, ambient, cosTheta float32) color.RGBA {
	k := ms1.Clamp(ambient+(1-ambient)*max(cosTheta, 0), 0, 1)
	hc := toHSV(c)
	hc.v *= k
	return hc.rgba()
}

func toHSV(c color.Color) hsv {
	r0, g0, b0, _ := c.RGBA()
	r, g, b := float32(r0>>8)/255, float32(g0>>8)/255, float32(b0>>8)/255
	xmax, xmin := max(r, g, b), min(r, g, b)
	chroma := xmax - xmin
	out := hsv{v: xmax}
	switch {
	case chroma == 0:
	case xmax == r:
		out.h = (g - b) / (6 * chroma)
	case xmax == g:
		out.h = 1.0/3 + (b-r)/(6*chroma)
	default:
		out.h = 2.0/3 + (r-g)/(6*chroma)
	}
	if out.h < 0 {
		out.h += 1
	}
	if xmax > 0 {
		out.s = chroma / xmax
	}
	return out
}

func (c hsv) rgba() color.RGBA {
	chroma := c.s * c.v
	x := chroma * (1 - math.Abs(math.Mod(c.h*6, 2)-1))
	var r, g, b float32
	switch sector := int(c.h * 6); sector {
	case 0, 6:
		r, g, b = chroma, x, 0
	case 1:
		r, g, b = x, chroma, 0
	case 2:
		r, g, b = 0, chroma, x
	case 3:
		r, g, b = 0, x, chroma
	case 4:
		r, g, b = x, 0, chroma
	default:
		r, g, b = chroma, 0, x
	}
	m := c.v - chroma
	return color.RGBA{R: to8(r + m), G: to8(g + m), B: to8(b + m), A: 255}
}

func to8(f float32) uint8 {
	return uint8(math.Round(ms1.Clamp(f, 0, 1) * 255))
}
