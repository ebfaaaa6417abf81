package textmesh

import (
	"slices"

	math "github.com/chewxy/math32"
	"github.com/soypat/geometry/ms2"
)

// Op is a path drawing command.
type Op uint8

const (
	MoveTo Op = iota
	LineTo
	QuadTo
	CubeTo
)

// Segment is a single path command. MoveTo and LineTo use Args[0], QuadTo uses
// Args[0] as control point and Args[1] as end point, CubeTo uses all three.
type Segment struct {
	Op   Op
	Args [3]ms2.Vec
}

// end returns the point the pen is left at after the segment is drawn.
func (s Segment) end() ms2.Vec {
	switch s.Op {
	case QuadTo:
		return s.Args[1]
	case CubeTo:
		return s.Args[2]
	}
	return s.Args[0]
}

// Path is a closed contour. It starts with a MoveTo segment and the last
// point is implicitly joined to the first.
type Path []Segment

func (p *Path) MoveTo(pt ms2.Vec) {
	*p = append(*p, Segment{Op: MoveTo, Args: [3]ms2.Vec{pt}})
}

func (p *Path) LineTo(pt ms2.Vec) {
	*p = append(*p, Segment{Op: LineTo, Args: [3]ms2.Vec{pt}})
}

func (p *Path) QuadTo(ctrl, pt ms2.Vec) {
	*p = append(*p, Segment{Op: QuadTo, Args: [3]ms2.Vec{ctrl, pt}})
}

func (p *Path) CubeTo(ctrl0, ctrl1, pt ms2.Vec) {
	*p = append(*p, Segment{Op: CubeTo, Args: [3]ms2.Vec{ctrl0, ctrl1, pt}})
}

// Points flattens the contour into a polygon. Each curve segment is divided
// into curveSegments straight lines. Repeated consecutive points and a closing
// point equal to the first are omitted.
func (p Path) Points(curveSegments int) []ms2.Vec {
	if curveSegments < 1 {
		curveSegments = 1
	}
	var pts []ms2.Vec
	add := func(v ms2.Vec) {
		if len(pts) == 0 || pts[len(pts)-1] != v {
			pts = append(pts, v)
		}
	}
	var pen ms2.Vec
	for _, seg := range p {
		switch seg.Op {
		case MoveTo, LineTo:
			add(seg.Args[0])
		case QuadTo:
			for i := 1; i <= curveSegments; i++ {
				t := float32(i) / float32(curveSegments)
				add(quadBezier(pen, seg.Args[0], seg.Args[1], t))
			}
		case CubeTo:
			for i := 1; i <= curveSegments; i++ {
				t := float32(i) / float32(curveSegments)
				add(cubeBezier(pen, seg.Args[0], seg.Args[1], seg.Args[2], t))
			}
		}
		pen = seg.end()
	}
	if len(pts) > 1 && pts[0] == pts[len(pts)-1] {
		pts = pts[:len(pts)-1]
	}
	return pts
}

func (p Path) transform(scale float32, offset ms2.Vec) Path {
	out := make(Path, len(p))
	for i, seg := range p {
		out[i].Op = seg.Op
		for j := range seg.Args {
			out[i].Args[j] = ms2.Scale(scale, ms2.Add(seg.Args[j], offset))
		}
	}
	return out
}

func quadBezier(p0, c, p1 ms2.Vec, t float32) ms2.Vec {
	mt := 1 - t
	a, b, d := mt*mt, 2*mt*t, t*t
	return ms2.Vec{
		X: a*p0.X + b*c.X + d*p1.X,
		Y: a*p0.Y + b*c.Y + d*p1.Y,
	}
}

func cubeBezier(p0, c0, c1, p1 ms2.Vec, t float32) ms2.Vec {
	mt := 1 - t
	a, b, c, d := mt*mt*mt, 3*mt*mt*t, 3*mt*t*t, t*t*t
	return ms2.Vec{
		X: a*p0.X + b*c0.X + c*c1.X + d*p1.X,
		Y: a*p0.Y + b*c0.Y + c*c1.Y + d*p1.Y,
	}
}

// Shape is a filled region: an outline with zero or more holes cut out of it.
type Shape struct {
	Outline Path
	Holes   []Path
}

// ExtractPoints flattens the shape. The outline is returned counter clockwise
// and holes clockwise, with the Y axis pointing up.
func (s Shape) ExtractPoints(curveSegments int) (outline []ms2.Vec, holes [][]ms2.Vec) {
	outline = s.Outline.Points(curveSegments)
	if SignedArea(outline) < 0 {
		slices.Reverse(outline)
	}
	for _, h := range s.Holes {
		pts := h.Points(curveSegments)
		if len(pts) < 3 {
			continue
		}
		if SignedArea(pts) > 0 {
			slices.Reverse(pts)
		}
		holes = append(holes, pts)
	}
	return outline, holes
}

func (s Shape) transform(scale float32, offset ms2.Vec) Shape {
	out := Shape{Outline: s.Outline.transform(scale, offset)}
	for _, h := range s.Holes {
		out.Holes = append(out.Holes, h.transform(scale, offset))
	}
	return out
}

// SignedArea returns the area enclosed by the polygon. It is positive when
// the polygon winds counter clockwise.
func SignedArea(poly []ms2.Vec) float32 {
	n := len(poly)
	var sum float32
	for i := range poly {
		a, b := poly[i], poly[(i+1)%n]
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum / 2
}

// ShapesFromContours groups closed contours into shapes. A contour nested inside
// an even number of other contours is an outline, an odd number makes it a hole of
// the smallest contour containing it. Winding direction is ignored so TrueType and
// PostScript outline conventions both work.
func ShapesFromContours(contours []Path) []Shape {
	const sampling = 4
	type contour struct {
		path   Path
		poly   []ms2.Vec
		area   float32
		depth  int
		parent int
		shape  int
	}
	cs := make([]contour, 0, len(contours))
	for _, p := range contours {
		poly := p.Points(sampling)
		area := math.Abs(SignedArea(poly))
		if len(poly) < 3 || area == 0 {
			continue
		}
		cs = append(cs, contour{path: p, poly: poly, area: area, parent: -1, shape: -1})
	}
	for i := range cs {
		probe := cs[i].poly[0]
		for j := range cs {
			if i == j || cs[j].area <= cs[i].area || !pointInPolygon(probe, cs[j].poly) {
				continue
			}
			cs[i].depth++
			if cs[i].parent < 0 || cs[j].area < cs[cs[i].parent].area {
				cs[i].parent = j
			}
		}
	}
	var shapes []Shape
	for i := range cs {
		if cs[i].depth%2 == 0 {
			cs[i].shape = len(shapes)
			shapes = append(shapes, Shape{Outline: cs[i].path})
		}
	}
	for i := range cs {
		if cs[i].depth%2 == 0 {
			continue
		}
		owner := cs[cs[i].parent].shape
		if owner < 0 {
			// Overlapping contours broke the nesting, keep it as a solid.
			shapes = append(shapes, Shape{Outline: cs[i].path})
			continue
		}
		shapes[owner].Holes = append(shapes[owner].Holes, cs[i].path)
	}
	return shapes
}

// pointInPolygon reports whether p is inside poly using the even-odd rule.
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
