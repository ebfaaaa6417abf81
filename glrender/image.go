package glrender

import (
	"errors"
	"image"
	"image/color"

	math "github.com/chewxy/math32"
	"github.com/soypat/geometry/ms2"
	"github.com/soypat/orbit/forge/textmesh"
)

type setImage = interface {
	image.Image
	Set(x, y int, c color.Color)
}

// ImageRenderer rasterizes 2D shapes to images, useful for previewing text layout.
type ImageRenderer struct {
	conv     func(inside bool) color.Color
	outlines [][]ms2.Vec
	holes    [][]ms2.Vec
}

// NewImageRenderer instances a new [ImageRenderer]. A nil bool->color conversion function
// results in a simple black-white color scheme where black is the interior of the shapes.
func NewImageRenderer(conversion func(inside bool) color.Color) *ImageRenderer {
	if conversion == nil {
		conversion = func(inside bool) color.Color {
			if inside {
				return color.Black
			}
			return color.White
		}
	}
	return &ImageRenderer{conv: conversion}
}

// Render fits the shapes' bounding box to img and fills every pixel whose center
// lies inside a shape. Curves are flattened with curveSegments lines each.
func (ir *ImageRenderer) Render(shapes []textmesh.Shape, curveSegments int, img setImage) error {
	ir.outlines = ir.outlines[:0]
	ir.holes = ir.holes[:0]
	bb := ms2.Box{
		Min: ms2.Vec{X: math.Inf(1), Y: math.Inf(1)},
		Max: ms2.Vec{X: math.Inf(-1), Y: math.Inf(-1)},
	}
	for _, s := range shapes {
		outline, holes := s.ExtractPoints(curveSegments)
		if len(outline) < 3 {
			continue
		}
		for _, p := range outline {
			bb.Min = ms2.Vec{X: min(bb.Min.X, p.X), Y: min(bb.Min.Y, p.Y)}
			bb.Max = ms2.Vec{X: max(bb.Max.X, p.X), Y: max(bb.Max.Y, p.Y)}
		}
		ir.outlines = append(ir.outlines, outline)
		ir.holes = append(ir.holes, holes...)
	}
	if len(ir.outlines) == 0 {
		return errors.New("no shapes to render")
	}
	imgBB := img.Bounds()
	dxi, dyi := imgBB.Dx(), imgBB.Dy()
	if dxi == 0 || dyi == 0 {
		return errors.New("empty image")
	}
	dx := (bb.Max.X - bb.Min.X) / float32(dxi)
	dy := (bb.Max.Y - bb.Min.Y) / float32(dyi)
	for j := 0; j < dyi; j++ {
		// Image rows grow downwards.
		y := bb.Max.Y - (float32(j)+0.5)*dy
		for i := 0; i < dxi; i++ {
			x := bb.Min.X + (float32(i)+0.5)*dx
			img.Set(i+imgBB.Min.X, j+imgBB.Min.Y, ir.conv(ir.inside(ms2.Vec{X: x, Y: y})))
		}
	}
	return nil
}

// inside applies the even-odd rule over every outline and hole.
func (ir *ImageRenderer) inside(p ms2.Vec) bool {
	in := false
	for _, poly := range ir.outlines {
		if pointInPolygon(p, poly) {
			in = !in
		}
	}
	for _, poly := range ir.holes {
		if pointInPolygon(p, poly) {
			in = !in
		}
	}
	return in
}

func pointInPolygon(p ms2.Vec, poly []ms2.Vec) bool {
	inside := false
	n := len(poly)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := poly[i], poly[j]
		if (a.Y > p.Y) != (b.Y > p.Y) &&
			p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
	}
	return inside
}
