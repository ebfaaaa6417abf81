package textmesh

import (
	"errors"
	"fmt"
	"unicode"

	"github.com/golang/freetype/truetype"
	"github.com/soypat/geometry/ms2"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

const firstBasic = '!'
const lastBasic = '~'

var _ ShapeGenerator = (*TTF)(nil)

// TTF generates text shapes from a TrueType font. Glyph outlines are cached
// after first use. A TTF is not safe for concurrent use.
type TTF struct {
	ttf truetype.Font
	gb  truetype.GlyphBuf
	// basicGlyphs optimized array access for common ASCII glyphs.
	basicGlyphs [lastBasic - firstBasic + 1]glyph
	// Other kinds of glyphs.
	otherGlyphs map[rune]glyph
	loaded      bool
}

// glyph holds a glyph's shapes in font units.
type glyph struct {
	shapes []Shape
	ok     bool
}

// LoadTTFBytes loads a TTF file blob into f. After calling Load the TTF is ready to generate shapes.
func (f *TTF) LoadTTFBytes(ttf []byte) error {
	font, err := truetype.Parse(ttf)
	if err != nil {
		return err
	}
	f.reset()
	f.ttf = *font
	f.loaded = true
	return nil
}

// reset clears cached glyphs without removing the underlying font.
func (f *TTF) reset() {
	for i := range f.basicGlyphs {
		f.basicGlyphs[i] = glyph{}
	}
	if f.otherGlyphs == nil {
		f.otherGlyphs = make(map[rune]glyph)
	} else {
		clear(f.otherGlyphs)
	}
}

// GenerateShapes lays out text scaled so an em measures size. Glyphs are spaced
// by their advance width and kerning. Newlines move the pen down by the height of
// the font's bounding box.
func (f *TTF) GenerateShapes(text string, size float32) ([]Shape, error) {
	if f == nil || !f.loaded {
		return nil, errors.New("no font loaded")
	}
	scale := f.scale()
	k := size / float32(f.ttf.FUnitsPerEm())
	lineHeight := f.lineHeight()
	var shapes []Shape
	var xOfs, yOfs float32
	var idxPrev truetype.Index
	hasPrev := false
	for _, c := range text {
		if c == '\n' {
			xOfs = 0
			yOfs -= lineHeight
			hasPrev = false
			continue
		}
		idx := f.ttf.Index(c)
		hm := f.ttf.HMetric(scale, idx)
		if unicode.IsSpace(c) {
			if c == '\t' {
				hm.AdvanceWidth *= 4
			}
			xOfs += float32(hm.AdvanceWidth)
			hasPrev = false
			continue
		} else if !unicode.IsGraphic(c) {
			return nil, fmt.Errorf("char %q not graphic", c)
		}
		if hasPrev {
			xOfs += float32(f.ttf.Kern(scale, idxPrev, idx))
		}
		g, err := f.glyph(c)
		if err != nil {
			return nil, fmt.Errorf("char %q: %w", c, err)
		}
		offset := ms2.Vec{X: xOfs, Y: yOfs}
		for _, s := range g.shapes {
			shapes = append(shapes, s.transform(k, offset))
		}
		xOfs += float32(hm.AdvanceWidth)
		idxPrev = idx
		hasPrev = true
	}
	return shapes, nil
}

// Kern returns the horizontal adjustment for the given glyph pair in font units.
// A positive kern means to move the glyphs further apart.
func (f *TTF) Kern(c0, c1 rune) float32 {
	return float32(f.ttf.Kern(f.scale(), f.ttf.Index(c0), f.ttf.Index(c1)))
}

// AdvanceWidth returns the horizontal distance the pen moves after drawing c, in font units.
func (f *TTF) AdvanceWidth(c rune) float32 {
	return float32(f.ttf.HMetric(f.scale(), f.ttf.Index(c)).AdvanceWidth)
}

// UnitsPerEm returns the number of font units in an em.
func (f *TTF) UnitsPerEm() int { return int(f.ttf.FUnitsPerEm()) }

func (f *TTF) glyph(c rune) (g glyph, err error) {
	if c >= firstBasic && c <= lastBasic {
		// Basic ASCII glyph case.
		g = f.basicGlyphs[c-firstBasic]
		if !g.ok {
			g, err = f.makeGlyph(c)
			if err != nil {
				return glyph{}, err
			}
			f.basicGlyphs[c-firstBasic] = g
		}
		return g, nil
	}
	g, ok := f.otherGlyphs[c]
	if !ok {
		g, err = f.makeGlyph(c)
		if err != nil {
			return glyph{}, err
		}
		f.otherGlyphs[c] = g
	}
	return g, nil
}

// scale is the scale at which font metrics and outlines are returned in font units.
func (f *TTF) scale() fixed.Int26_6 {
	return fixed.Int26_6(f.ttf.FUnitsPerEm())
}

func (f *TTF) lineHeight() float32 {
	bb := f.ttf.Bounds(f.scale())
	return float32(bb.Max.Y - bb.Min.Y)
}

func (f *TTF) makeGlyph(char rune) (glyph, error) {
	g := &f.gb
	err := g.Load(&f.ttf, f.scale(), f.ttf.Index(char), font.HintingNone)
	if err != nil {
		return glyph{}, err
	}
	contours := make([]Path, 0, len(g.Ends))
	start := 0
	for _, end := range g.Ends {
		if end > start {
			contours = append(contours, ttfContour(g.Points[start:end]))
		}
		start = end
	}
	return glyph{shapes: ShapesFromContours(contours), ok: true}, nil
}

// ttfContour converts a TrueType quadratic contour to a path. Consecutive
// off-curve points have an implied on-curve point at their midpoint.
func ttfContour(points []truetype.Point) Path {
	n := len(points)
	start := -1
	for i := range points {
		if onCurve(points[i]) {
			start = i
			break
		}
	}
	var first ms2.Vec
	if start < 0 {
		// All control points, begin at an implied on-curve point.
		first = midpoint(p2v(points[n-1]), p2v(points[0]))
		start = n - 1
	} else {
		first = p2v(points[start])
	}
	var path Path
	path.MoveTo(first)
	var ctrl ms2.Vec
	pending := false
	for i := 1; i <= n; i++ {
		p := points[(start+i)%n]
		v := p2v(p)
		if onCurve(p) {
			if pending {
				path.QuadTo(ctrl, v)
				pending = false
			} else {
				path.LineTo(v)
			}
			continue
		}
		if pending {
			path.QuadTo(ctrl, midpoint(ctrl, v))
		}
		ctrl = v
		pending = true
	}
	if pending {
		path.QuadTo(ctrl, first)
	}
	return path
}

func onCurve(p truetype.Point) bool { return p.Flags&1 != 0 }

func midpoint(a, b ms2.Vec) ms2.Vec {
	return ms2.Scale(0.5, ms2.Add(a, b))
}

func p2v(p truetype.Point) ms2.Vec {
	return ms2.Vec{X: float32(p.X), Y: float32(p.Y)}
}
