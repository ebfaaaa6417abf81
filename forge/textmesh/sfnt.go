package textmesh

import (
	"errors"
	"fmt"
	"unicode"

	"github.com/soypat/geometry/ms2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

var _ ShapeGenerator = (*SFNT)(nil)

// SFNT generates text shapes from a TrueType or OpenType (CFF) font parsed with
// golang.org/x/image/font/sfnt. Cubic outlines are kept as cubic segments.
// An SFNT is not safe for concurrent use.
type SFNT struct {
	font  *sfnt.Font
	buf   sfnt.Buffer
	cache map[sfnt.GlyphIndex][]Shape
}

// LoadSFNTBytes parses an OpenType font blob into f.
func (f *SFNT) LoadSFNTBytes(b []byte) error {
	fnt, err := sfnt.Parse(b)
	if err != nil {
		return err
	}
	f.font = fnt
	f.cache = make(map[sfnt.GlyphIndex][]Shape)
	return nil
}

// GenerateShapes lays out text scaled so an em measures size, following the same
// rules as [TTF.GenerateShapes].
func (f *SFNT) GenerateShapes(text string, size float32) ([]Shape, error) {
	if f == nil || f.font == nil {
		return nil, errors.New("no font loaded")
	}
	upem := float32(f.font.UnitsPerEm())
	ppem := f.ppem()
	k := size / upem
	bounds, err := f.font.Bounds(&f.buf, ppem, font.HintingNone)
	if err != nil {
		return nil, err
	}
	lineHeight := fromFixed(bounds.Max.Y - bounds.Min.Y)
	var shapes []Shape
	var xOfs, yOfs float32
	var idxPrev sfnt.GlyphIndex
	hasPrev := false
	for _, c := range text {
		if c == '\n' {
			xOfs = 0
			yOfs -= lineHeight
			hasPrev = false
			continue
		}
		idx, err := f.font.GlyphIndex(&f.buf, c)
		if err != nil {
			return nil, fmt.Errorf("char %q: %w", c, err)
		}
		advance, err := f.font.GlyphAdvance(&f.buf, idx, ppem, font.HintingNone)
		if err != nil {
			return nil, fmt.Errorf("char %q: %w", c, err)
		}
		if unicode.IsSpace(c) {
			if c == '\t' {
				advance *= 4
			}
			xOfs += fromFixed(advance)
			hasPrev = false
			continue
		} else if !unicode.IsGraphic(c) {
			return nil, fmt.Errorf("char %q not graphic", c)
		}
		if hasPrev {
			kern, err := f.font.Kern(&f.buf, idxPrev, idx, ppem, font.HintingNone)
			if err == nil {
				xOfs += fromFixed(kern)
			} else if !errors.Is(err, sfnt.ErrNotFound) {
				return nil, fmt.Errorf("kerning %q: %w", c, err)
			}
		}
		glyphShapes, err := f.glyph(idx)
		if err != nil {
			return nil, fmt.Errorf("char %q: %w", c, err)
		}
		offset := ms2.Vec{X: xOfs, Y: yOfs}
		for _, s := range glyphShapes {
			shapes = append(shapes, s.transform(k, offset))
		}
		xOfs += fromFixed(advance)
		idxPrev = idx
		hasPrev = true
	}
	return shapes, nil
}

// ppem is chosen so 26.6 fixed point values are font units times 64.
func (f *SFNT) ppem() fixed.Int26_6 {
	return fixed.I(int(f.font.UnitsPerEm()))
}

func (f *SFNT) glyph(idx sfnt.GlyphIndex) ([]Shape, error) {
	if shapes, ok := f.cache[idx]; ok {
		return shapes, nil
	}
	segs, err := f.font.LoadGlyph(&f.buf, idx, f.ppem(), nil)
	if err != nil {
		return nil, err
	}
	var contours []Path
	var current Path
	for _, seg := range segs {
		if seg.Op == sfnt.SegmentOpMoveTo && len(current) > 0 {
			contours = append(contours, current)
			current = nil
		}
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			current.MoveTo(fixedToVec(seg.Args[0]))
		case sfnt.SegmentOpLineTo:
			current.LineTo(fixedToVec(seg.Args[0]))
		case sfnt.SegmentOpQuadTo:
			current.QuadTo(fixedToVec(seg.Args[0]), fixedToVec(seg.Args[1]))
		case sfnt.SegmentOpCubeTo:
			current.CubeTo(fixedToVec(seg.Args[0]), fixedToVec(seg.Args[1]), fixedToVec(seg.Args[2]))
		}
	}
	if len(current) > 0 {
		contours = append(contours, current)
	}
	shapes := ShapesFromContours(contours)
	f.cache[idx] = shapes
	return shapes, nil
}

func fromFixed(v fixed.Int26_6) float32 { return float32(v) / 64 }

// fixedToVec converts a point in sfnt's Y down space to font units with Y up.
func fixedToVec(p fixed.Point26_6) ms2.Vec {
	return ms2.Vec{X: fromFixed(p.X), Y: -fromFixed(p.Y)}
}
