package glrender

import (
	"image/color"
	"testing"
)

func TestColorGradient(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	blue := color.RGBA{B: 255, A: 255}
	grad := ColorGradient(red, blue)
	var tests = []struct {
		t    float32
		want color.RGBA
	}{
		{t: -1, want: red},
		{t: 0, want: red},
		{t: 1, want: blue},
		{t: 2, want: blue},
		// Red to blue takes the short way around the hue circle through magenta.
		{t: 0.5, want: color.RGBA{R: 255, B: 255, A: 255}},
	}
	for _, test := range tests {
		if got := grad(test.t); got != test.want {
			t.Errorf("gradient(%g): want %v, got %v", test.t, test.want, got)
		}
	}
}

func TestShade(t *testing.T) {
	c := color.RGBA{R: 200, G: 100, B: 50, A: 255}
	if got := Shade(c, 0.2, 1); got != c {
		t.Errorf("fully lit want %v, got %v", c, got)
	}
	dark := Shade(c, 0.2, -1)
	if dark.R >= c.R || dark.R == 0 {
		t.Errorf("back facing surface should keep ambient light only, got %v", dark)
	}
	if Shade(c, 0.2, -1) != Shade(c, 0.2, 0) {
		t.Error("negative incidence should clamp to zero")
	}
}
