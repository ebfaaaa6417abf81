// Package orbitaux provides auxiliary helpers to get started with orbit quickly:
// exporting text meshes to files and an interactive viewer for triangle meshes.
// Applications will usually want to write their own since needs vary widely.
package orbitaux

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	math "github.com/chewxy/math32"
	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/orbit"
	"github.com/soypat/orbit/forge/textmesh"
	"github.com/soypat/orbit/glrender"
)

type RenderConfig struct {
	// STLOutput receives the extruded text mesh in binary STL format.
	STLOutput io.Writer
	// VisualOutput receives a PNG image of the text outlines.
	VisualOutput io.Writer
	// VisualHeight is the height of the PNG image in pixels. Defaults to 256.
	VisualHeight int
	Silent       bool
}

// Render builds the text geometry for text and writes the requested outputs.
func Render(text string, p textmesh.Params, cfg RenderConfig) (err error) {
	if cfg.STLOutput == nil && cfg.VisualOutput == nil {
		return errors.New("Render requires output parameter in config")
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "orbitaux"})
	if cfg.Silent {
		logger.SetLevel(log.ErrorLevel)
	}
	watch := stopwatch()
	b := textmesh.Builder{Extruder: glrender.Extruder{}, Logger: logger}
	g := b.TextGeometry(text, p)
	if g.Empty() {
		return errors.New("text produced no geometry")
	}
	logger.Info("built text geometry", "shapes", len(g.Shapes), "triangles", len(g.Triangles), "took", watch())

	if cfg.VisualOutput != nil {
		watch = stopwatch()
		err = writePNG(cfg.VisualOutput, g, cfg.VisualHeight)
		if err != nil {
			return fmt.Errorf("writing PNG: %w", err)
		}
		logger.Info("wrote image", "output", outputName(cfg.VisualOutput, "PNG"), "took", watch())
	}
	if cfg.STLOutput != nil {
		if len(g.Triangles) == 0 {
			return errors.New("text produced no triangles")
		}
		watch = stopwatch()
		err = glrender.WriteBinarySTL(cfg.STLOutput, g.Triangles)
		if err != nil {
			return fmt.Errorf("writing STL file: %w", err)
		}
		logger.Info("wrote mesh", "output", outputName(cfg.STLOutput, "STL"), "took", watch())
	}
	return nil
}

func writePNG(w io.Writer, g textmesh.Geometry, height int) error {
	if height <= 0 {
		height = 256
	}
	bb := shapeBounds(g.Shapes, g.Settings.CurveSegments)
	sz := ms2.Sub(bb.Max, bb.Min)
	if sz.Y <= 0 || sz.X <= 0 {
		return errors.New("degenerate geometry")
	}
	width := max(1, int(float32(height)*sz.X/sz.Y))
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	ir := glrender.NewImageRenderer(ColorConversionTwoTone(color.RGBA{R: 0x20, G: 0x30, B: 0x50, A: 255}, color.White))
	err := ir.Render(g.Shapes, g.Settings.CurveSegments, img)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

func shapeBounds(shapes []textmesh.Shape, curveSegments int) ms2.Box {
	bb := ms2.Box{
		Min: ms2.Vec{X: math.Inf(1), Y: math.Inf(1)},
		Max: ms2.Vec{X: math.Inf(-1), Y: math.Inf(-1)},
	}
	for _, s := range shapes {
		for _, p := range s.Outline.Points(curveSegments) {
			bb.Min = ms2.Vec{X: min(bb.Min.X, p.X), Y: min(bb.Min.Y, p.Y)}
			bb.Max = ms2.Vec{X: max(bb.Max.X, p.X), Y: max(bb.Max.Y, p.Y)}
		}
	}
	return bb
}

func outputName(w io.Writer, fallback string) string {
	if fp, ok := w.(*os.File); ok {
		return fp.Name()
	}
	return fallback
}

func stopwatch() func() time.Duration {
	start := time.Now()
	return func() time.Duration {
		return time.Since(start)
	}
}

// UIConfig configures the interactive viewer opened by [UI].
type UIConfig struct {
	Width, Height int
	// Context cancels the viewer when done.
	Context context.Context
	// Controls configures the orbit controls. The zero value uses [orbit.DefaultConfig].
	Controls orbit.Config
	// ControlsFile is an optional TOML controls configuration file. It is loaded on
	// startup and reloaded whenever it changes, overriding Controls.
	ControlsFile string
	// MeshColor is the base color of the model. Defaults to a light blue.
	MeshColor color.Color
	Logger    *log.Logger
}

func (cfg *UIConfig) setDefaults() {
	if cfg.Width == 0 {
		cfg.Width = 800
	}
	if cfg.Height == 0 {
		cfg.Height = 600
	}
	if cfg.Controls == (orbit.Config{}) {
		cfg.Controls = orbit.DefaultConfig()
	}
	if cfg.MeshColor == nil {
		cfg.MeshColor = color.RGBA{R: 0xa6, G: 0xd9, B: 0xff, A: 255}
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "orbitaux", ReportTimestamp: true})
	}
}

// UI opens a window displaying model. The camera orbits the model's bounding box
// center driven by [orbit.Controls]: drag to rotate, scroll to zoom, right drag or
// arrow keys to pan and the R key to reset the view. UI blocks until the window is
// closed or the context is done. Requires cgo.
func UI(model []ms3.Triangle, cfg UIConfig) error {
	if len(model) == 0 {
		return errors.New("empty model")
	}
	cfg.setDefaults()
	if cfg.ControlsFile != "" {
		ccfg, err := LoadConfig(cfg.ControlsFile)
		if err != nil {
			return err
		}
		ccfg.Logger = cfg.Controls.Logger
		cfg.Controls = ccfg
	}
	if cfg.Controls.Logger == nil {
		cfg.Controls.Logger = cfg.Logger
	}
	return ui(model, cfg)
}

// meshBounds returns the axis aligned bounding box of model.
func meshBounds(model []ms3.Triangle) ms3.Box {
	bb := ms3.Box{Min: model[0][0], Max: model[0][0]}
	for _, t := range model {
		for _, v := range t {
			bb.Min = ms3.Vec{X: min(bb.Min.X, v.X), Y: min(bb.Min.Y, v.Y), Z: min(bb.Min.Z, v.Z)}
			bb.Max = ms3.Vec{X: max(bb.Max.X, v.X), Y: max(bb.Max.Y, v.Y), Z: max(bb.Max.Z, v.Z)}
		}
	}
	return bb
}

// interleave appends model's vertices to dst as position and facet normal triplets.
func interleave(dst []float32, model []ms3.Triangle) []float32 {
	for _, t := range model {
		n := facetNormal(t)
		for _, v := range t {
			dst = append(dst, v.X, v.Y, v.Z, n.X, n.Y, n.Z)
		}
	}
	return dst
}

func facetNormal(t ms3.Triangle) ms3.Vec {
	n := ms3.Cross(ms3.Sub(t[1], t[0]), ms3.Sub(t[2], t[0]))
	if n == (ms3.Vec{}) {
		return n
	}
	return ms3.Unit(n)
}
