package textmesh

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	math "github.com/chewxy/math32"
	"github.com/golang/freetype/truetype"
	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
	"golang.org/x/image/font/gofont/goregular"
)

type fakeFont struct {
	size   float32
	shapes []Shape
	err    error
}

func (f *fakeFont) GenerateShapes(text string, size float32) ([]Shape, error) {
	f.size = size
	return f.shapes, f.err
}

type fakeExtruder struct {
	settings ExtrudeSettings
	calls    int
}

func (e *fakeExtruder) Extrude(dst []ms3.Triangle, shapes []Shape, settings ExtrudeSettings) ([]ms3.Triangle, error) {
	e.settings = settings
	e.calls++
	return append(dst, make([]ms3.Triangle, 2*len(shapes))...), nil
}

func square(x, y, side float32) Path {
	var p Path
	p.MoveTo(ms2.Vec{X: x, Y: y})
	p.LineTo(ms2.Vec{X: x + side, Y: y})
	p.LineTo(ms2.Vec{X: x + side, Y: y + side})
	p.LineTo(ms2.Vec{X: x, Y: y + side})
	return p
}

func TestTextGeometryWithoutShapeGenerator(t *testing.T) {
	for _, fnt := range []any{nil, 42, "Helvetica", &truetype.Font{}, (*TTF)(nil), (*SFNT)(nil)} {
		var buf bytes.Buffer
		b := Builder{Logger: log.New(&buf), Extruder: &fakeExtruder{}}
		g := b.TextGeometry("hello", Params{Font: fnt})
		if g.Type != GeometryType {
			t.Errorf("%T: want type %q, got %q", fnt, GeometryType, g.Type)
		}
		if !g.Empty() || len(g.Triangles) != 0 {
			t.Errorf("%T: want empty geometry, got %d shapes %d triangles", fnt, len(g.Shapes), len(g.Triangles))
		}
		if n := strings.Count(buf.String(), "WARN"); n != 1 {
			t.Errorf("%T: want one diagnostic, got %d:\n%s", fnt, n, buf.String())
		}
	}
}

func TestTextGeometryGenerateError(t *testing.T) {
	var buf bytes.Buffer
	b := Builder{Logger: log.New(&buf)}
	g := b.TextGeometry("x", Params{Font: &fakeFont{err: errors.New("broken font")}})
	if !g.Empty() {
		t.Error("want empty geometry")
	}
	if !strings.Contains(buf.String(), "broken font") {
		t.Errorf("diagnostic missing error: %s", buf.String())
	}
}

func TestTextGeometryDefaults(t *testing.T) {
	fnt := &fakeFont{shapes: []Shape{{Outline: square(0, 0, 1)}}}
	ext := &fakeExtruder{}
	b := Builder{Extruder: ext}
	g := b.TextGeometry("a", Params{Font: fnt})
	want := ExtrudeSettings{
		Depth:          DefaultDepth,
		CurveSegments:  DefaultCurveSegments,
		BevelThickness: DefaultBevelThickness,
		BevelSize:      DefaultBevelSize,
		BevelOffset:    DefaultBevelOffset,
		BevelSegments:  DefaultBevelSegments,
	}
	if fnt.size != DefaultSize {
		t.Errorf("want default size %d, got %g", DefaultSize, fnt.size)
	}
	if g.Settings != want || ext.settings != want {
		t.Errorf("want settings %+v, got %+v (extruder got %+v)", want, g.Settings, ext.settings)
	}
	if len(g.Triangles) != 2 || ext.calls != 1 {
		t.Errorf("extruder result not returned: %d triangles, %d calls", len(g.Triangles), ext.calls)
	}

	p := Params{
		Font:           fnt,
		Size:           12,
		Depth:          3,
		CurveSegments:  5,
		BevelEnabled:   true,
		BevelThickness: 1,
		BevelSize:      0.5,
		BevelOffset:    -0.25,
		BevelSegments:  7,
	}
	g = b.TextGeometry("a", p)
	want = ExtrudeSettings{
		Depth:          3,
		CurveSegments:  5,
		BevelEnabled:   true,
		BevelThickness: 1,
		BevelSize:      0.5,
		BevelOffset:    -0.25,
		BevelSegments:  7,
	}
	if fnt.size != 12 || g.Settings != want {
		t.Errorf("explicit params not forwarded: size %g settings %+v", fnt.size, g.Settings)
	}
}

func TestTextGeometryExplicitZero(t *testing.T) {
	fnt := &fakeFont{shapes: []Shape{{Outline: square(0, 0, 1)}}}
	var tests = []struct {
		p    Params
		want ExtrudeSettings
	}{
		{
			p: Params{Depth: -1},
			want: ExtrudeSettings{
				CurveSegments:  DefaultCurveSegments,
				BevelThickness: DefaultBevelThickness,
				BevelSize:      DefaultBevelSize,
				BevelSegments:  DefaultBevelSegments,
			},
		},
		{
			p: Params{Depth: 2, BevelEnabled: true, BevelThickness: -1, BevelSize: -3, BevelSegments: -1},
			want: ExtrudeSettings{
				Depth:         2,
				CurveSegments: DefaultCurveSegments,
				BevelEnabled:  true,
			},
		},
	}
	for _, test := range tests {
		var b Builder
		test.p.Font = fnt
		g := b.TextGeometry("a", test.p)
		if g.Settings != test.want {
			t.Errorf("params %+v: want settings %+v, got %+v", test.p, test.want, g.Settings)
		}
	}
}

func TestTextGeometryNoExtruder(t *testing.T) {
	var b Builder
	g := b.TextGeometry("a", Params{Font: &fakeFont{shapes: []Shape{{Outline: square(0, 0, 1)}}}})
	if len(g.Shapes) != 1 || len(g.Triangles) != 0 {
		t.Errorf("want shapes without triangles, got %d shapes %d triangles", len(g.Shapes), len(g.Triangles))
	}
}

func fonts(t *testing.T) map[string]ShapeGenerator {
	t.Helper()
	var ttf TTF
	err := ttf.LoadTTFBytes(goregular.TTF)
	if err != nil {
		t.Fatal(err)
	}
	var otf SFNT
	err = otf.LoadSFNTBytes(goregular.TTF)
	if err != nil {
		t.Fatal(err)
	}
	return map[string]ShapeGenerator{"ttf": &ttf, "sfnt": &otf}
}

func TestGlyphTopology(t *testing.T) {
	var tests = []struct {
		text   string
		shapes int
		holes  int
	}{
		{text: "o", shapes: 1, holes: 1},
		{text: "B", shapes: 1, holes: 2},
		{text: "i", shapes: 2, holes: 0},
		{text: "l", shapes: 1, holes: 0},
		{text: "oo", shapes: 2, holes: 2},
		{text: " ", shapes: 0, holes: 0},
	}
	for name, fnt := range fonts(t) {
		for _, test := range tests {
			shapes, err := fnt.GenerateShapes(test.text, 10)
			if err != nil {
				t.Fatalf("%s %q: %v", name, test.text, err)
			}
			holes := 0
			for _, s := range shapes {
				holes += len(s.Holes)
			}
			if len(shapes) != test.shapes || holes != test.holes {
				t.Errorf("%s %q: want %d shapes %d holes, got %d shapes %d holes", name, test.text, test.shapes, test.holes, len(shapes), holes)
			}
		}
	}
}

func TestProvidersAgree(t *testing.T) {
	fs := fonts(t)
	const size = 100
	a, err := fs["ttf"].GenerateShapes("Go!", size)
	if err != nil {
		t.Fatal(err)
	}
	b, err := fs["sfnt"].GenerateShapes("Go!", size)
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != len(b) {
		t.Fatalf("shape count mismatch: %d vs %d", len(a), len(b))
	}
	for i := range a {
		boxA := polyBox(a[i].Outline.Points(DefaultCurveSegments))
		boxB := polyBox(b[i].Outline.Points(DefaultCurveSegments))
		if !boxClose(boxA, boxB, 0.5) {
			t.Errorf("shape %d bounds differ: ttf %v sfnt %v", i, boxA, boxB)
		}
	}
}

func TestLayout(t *testing.T) {
	var ttf TTF
	err := ttf.LoadTTFBytes(goregular.TTF)
	if err != nil {
		t.Fatal(err)
	}
	const size = 20
	k := float32(size) / float32(ttf.UnitsPerEm())
	shapes, err := ttf.GenerateShapes("ll", size)
	if err != nil {
		t.Fatal(err)
	}
	if len(shapes) != 2 {
		t.Fatalf("want 2 shapes, got %d", len(shapes))
	}
	dx := shapes[1].Outline[0].Args[0].X - shapes[0].Outline[0].Args[0].X
	want := (ttf.AdvanceWidth('l') + ttf.Kern('l', 'l')) * k
	if math.Abs(dx-want) > 1e-3 {
		t.Errorf("want glyph spacing %g, got %g", want, dx)
	}

	shapes, err = ttf.GenerateShapes("l\nl", size)
	if err != nil {
		t.Fatal(err)
	}
	if len(shapes) != 2 {
		t.Fatalf("want 2 shapes, got %d", len(shapes))
	}
	first, second := shapes[0].Outline[0].Args[0], shapes[1].Outline[0].Args[0]
	if math.Abs(first.X-second.X) > 1e-3 {
		t.Errorf("newline did not return to line start: %g vs %g", first.X, second.X)
	}
	if second.Y >= first.Y-size {
		t.Errorf("newline did not move down a line: %g -> %g", first.Y, second.Y)
	}

	shapes, err = ttf.GenerateShapes("H", size)
	if err != nil {
		t.Fatal(err)
	}
	box := polyBox(shapes[0].Outline.Points(1))
	if box.Min.Y < -1e-3 || box.Max.Y > size || box.Max.Y < size/2 {
		t.Errorf("capital H should sit on the baseline below one em: %v", box)
	}
}

func TestUnloadedFont(t *testing.T) {
	var ttf TTF
	if _, err := ttf.GenerateShapes("a", 1); err == nil {
		t.Error("expected error from unloaded TTF")
	}
	var otf SFNT
	if _, err := otf.GenerateShapes("a", 1); err == nil {
		t.Error("expected error from unloaded SFNT")
	}
}

func TestPathPoints(t *testing.T) {
	var p Path
	p.MoveTo(ms2.Vec{X: 0, Y: 0})
	p.LineTo(ms2.Vec{X: 1, Y: 0})
	p.QuadTo(ms2.Vec{X: 1, Y: 1}, ms2.Vec{X: 0, Y: 1})
	p.CubeTo(ms2.Vec{X: -0.5, Y: 1}, ms2.Vec{X: -0.5, Y: 0}, ms2.Vec{X: 0, Y: 0})
	pts := p.Points(4)
	// Start, line end, 4 quad points, 3 cube points without the closing point.
	if len(pts) != 9 {
		t.Fatalf("want 9 points, got %d: %v", len(pts), pts)
	}
	mid := pts[3] // Quad at t=0.5.
	if math.Abs(mid.X-0.75) > 1e-6 || math.Abs(mid.Y-0.75) > 1e-6 {
		t.Errorf("quad midpoint want (0.75, 0.75), got %v", mid)
	}
	if SignedArea(pts) <= 0 {
		t.Errorf("counter clockwise path has area %g", SignedArea(pts))
	}
}

func TestShapesFromContours(t *testing.T) {
	outer := square(0, 0, 10)
	hole := square(2, 2, 6)
	island := square(4, 4, 2)
	other := square(20, 0, 3)
	shapes := ShapesFromContours([]Path{island, hole, outer, other})
	if len(shapes) != 3 {
		t.Fatalf("want 3 shapes, got %d", len(shapes))
	}
	holes := 0
	for _, s := range shapes {
		holes += len(s.Holes)
		outline, hs := s.ExtractPoints(1)
		if SignedArea(outline) <= 0 {
			t.Error("outline not counter clockwise")
		}
		for _, h := range hs {
			if SignedArea(h) >= 0 {
				t.Error("hole not clockwise")
			}
		}
	}
	if holes != 1 {
		t.Errorf("want 1 hole, got %d", holes)
	}
}

func TestTTFContourAllOffCurve(t *testing.T) {
	pts := []truetype.Point{
		{X: 0, Y: -10},
		{X: 10, Y: 0},
		{X: 0, Y: 10},
		{X: -10, Y: 0},
	}
	p := ttfContour(pts)
	if len(p) != 5 || p[0].Op != MoveTo {
		t.Fatalf("want move and 4 quads, got %+v", p)
	}
	if p[0].Args[0] != (ms2.Vec{X: -5, Y: -5}) {
		t.Errorf("want start at implied point (-5,-5), got %v", p[0].Args[0])
	}
	for _, seg := range p[1:] {
		if seg.Op != QuadTo {
			t.Errorf("want quad segment, got %v", seg.Op)
		}
	}
	if p[4].Args[1] != p[0].Args[0] {
		t.Error("contour not closed on start point")
	}
}

func polyBox(pts []ms2.Vec) ms2.Box {
	box := ms2.Box{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		box.Min = ms2.Vec{X: min(box.Min.X, p.X), Y: min(box.Min.Y, p.Y)}
		box.Max = ms2.Vec{X: max(box.Max.X, p.X), Y: max(box.Max.Y, p.Y)}
	}
	return box
}

func boxClose(a, b ms2.Box, tol float32) bool {
	return math.Abs(a.Min.X-b.Min.X) < tol && math.Abs(a.Min.Y-b.Min.Y) < tol &&
		math.Abs(a.Max.X-b.Max.X) < tol && math.Abs(a.Max.Y-b.Max.Y) < tol
}
