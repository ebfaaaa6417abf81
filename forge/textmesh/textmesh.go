// Package textmesh turns text into extruded 3D geometry from font glyph outlines.
package textmesh

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/soypat/geometry/ms3"
)

// GeometryType identifies geometries built by [Builder.TextGeometry].
const GeometryType = "TextGeometry"

// Default parameter values used in place of zero fields of [Params].
const (
	DefaultSize           = 100
	DefaultDepth          = 50
	DefaultCurveSegments  = 12
	DefaultBevelThickness = 10
	DefaultBevelSize      = 8
	DefaultBevelOffset    = 0
	DefaultBevelSegments  = 3
)

// Params configures text geometry generation. Zero valued numeric fields take
// their Default* value. A negative Depth, BevelThickness, BevelSize or
// BevelSegments requests an explicit zero, so Depth: -1 yields flat text.
type Params struct {
	// Font provides glyph outlines. It must implement [ShapeGenerator].
	Font any
	// Size is the text height of an em.
	Size float32
	// Depth is the extrusion length along +Z.
	Depth float32
	// CurveSegments is the number of line segments each glyph curve is divided into.
	CurveSegments int

	BevelEnabled   bool
	BevelThickness float32
	BevelSize      float32
	BevelOffset    float32
	BevelSegments  int
}

// ShapeGenerator is implemented by fonts that can lay out text as filled 2D shapes.
// Shapes are positioned with the first line's baseline on y=0 starting at x=0.
type ShapeGenerator interface {
	GenerateShapes(text string, size float32) ([]Shape, error)
}

// ExtrudeSettings is the normalized set of parameters passed to an [Extruder].
type ExtrudeSettings struct {
	Depth          float32
	CurveSegments  int
	BevelEnabled   bool
	BevelThickness float32
	BevelSize      float32
	BevelOffset    float32
	BevelSegments  int
}

// Extruder converts 2D shapes into a triangle mesh, appending to dst.
type Extruder interface {
	Extrude(dst []ms3.Triangle, shapes []Shape, settings ExtrudeSettings) ([]ms3.Triangle, error)
}

// Geometry is the result of text geometry construction.
type Geometry struct {
	Type     string
	Shapes   []Shape
	Settings ExtrudeSettings
	// Triangles is the extruded mesh. Empty if the builder has no extruder.
	Triangles []ms3.Triangle
}

// Empty reports whether g contains no shapes.
func (g Geometry) Empty() bool { return len(g.Shapes) == 0 }

var defaultLogger = sync.OnceValue(func() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          "textmesh",
	})
})

// Builder constructs text geometry. The zero value builds shapes without triangles.
// A Builder keeps no state between calls.
type Builder struct {
	// Extruder receives the generated shapes and settings. May be nil.
	Extruder Extruder
	// Logger receives diagnostics. If nil a package level logger writing to stderr is used.
	Logger *log.Logger
}

// TextGeometry lays out text with p.Font and extrudes the resulting shapes.
// TextGeometry does not fail: if the font cannot generate shapes an empty
// geometry is returned and a warning is logged.
func (b *Builder) TextGeometry(text string, p Params) Geometry {
	gen, ok := p.Font.(ShapeGenerator)
	if !ok {
		b.logger().Warn("font does not generate shapes, returning empty geometry", "font", fmt.Sprintf("%T", p.Font))
		return Geometry{Type: GeometryType}
	}
	p.setDefaults()
	shapes, err := gen.GenerateShapes(text, p.Size)
	if err != nil {
		b.logger().Warn("generating shapes, returning empty geometry", "err", err, "text", text)
		return Geometry{Type: GeometryType}
	}
	g := Geometry{
		Type:     GeometryType,
		Shapes:   shapes,
		Settings: p.settings(),
	}
	if b.Extruder != nil && len(shapes) > 0 {
		g.Triangles, err = b.Extruder.Extrude(nil, shapes, g.Settings)
		if err != nil {
			b.logger().Warn("extruding shapes", "err", err, "text", text)
			g.Triangles = nil
		}
	}
	return g
}

func (b *Builder) logger() *log.Logger {
	if b.Logger != nil {
		return b.Logger
	}
	return defaultLogger()
}

func (p *Params) setDefaults() {
	if p.Size == 0 {
		p.Size = DefaultSize
	}
	p.Depth = orDefault(p.Depth, DefaultDepth)
	if p.CurveSegments == 0 {
		p.CurveSegments = DefaultCurveSegments
	}
	p.BevelThickness = orDefault(p.BevelThickness, DefaultBevelThickness)
	p.BevelSize = orDefault(p.BevelSize, DefaultBevelSize)
	p.BevelSegments = orDefault(p.BevelSegments, DefaultBevelSegments)
}

// orDefault returns def for zero v and zero for negative v.
func orDefault[T int | float32](v, def T) T {
	switch {
	case v == 0:
		return def
	case v < 0:
		return 0
	}
	return v
}

func (p *Params) settings() ExtrudeSettings {
	return ExtrudeSettings{
		Depth:          p.Depth,
		CurveSegments:  p.CurveSegments,
		BevelEnabled:   p.BevelEnabled,
		BevelThickness: p.BevelThickness,
		BevelSize:      p.BevelSize,
		BevelOffset:    p.BevelOffset,
		BevelSegments:  p.BevelSegments,
	}
}
