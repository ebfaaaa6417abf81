package glrender

import (
	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/orbit/forge/textmesh"
)

var _ textmesh.Extruder = Extruder{}

// Extruder extrudes shapes into closed prisms along +Z. Caps are triangulated
// with holes removed and side walls follow the flattened outlines.
// Bevel settings are carried but not rendered.
type Extruder struct{}

// Extrude appends the extruded mesh of shapes to dst.
func (Extruder) Extrude(dst []ms3.Triangle, shapes []textmesh.Shape, settings textmesh.ExtrudeSettings) ([]ms3.Triangle, error) {
	er, err := NewExtrusionRenderer(shapes, settings)
	if err != nil {
		return dst, err
	}
	tris, err := RenderAll(er, nil)
	return append(dst, tris...), err
}

func (er *ExtrusionRenderer) extrudeShape(dst []ms3.Triangle, shape textmesh.Shape) []ms3.Triangle {
	outline, holes := shape.ExtractPoints(er.settings.CurveSegments)
	if len(outline) < 3 {
		return dst
	}
	depth := er.settings.Depth
	er.caps = Triangulate(er.caps[:0], outline, holes)
	if depth == 0 {
		// Flat text is a single upward facing cap.
		for _, t := range er.caps {
			dst = append(dst, ms3.Triangle{at(t[0], 0), at(t[1], 0), at(t[2], 0)})
		}
		return dst
	}
	for _, t := range er.caps {
		// Back cap faces -Z, front cap faces +Z.
		dst = append(dst,
			ms3.Triangle{at(t[0], 0), at(t[2], 0), at(t[1], 0)},
			ms3.Triangle{at(t[0], depth), at(t[1], depth), at(t[2], depth)},
		)
	}
	dst = appendWalls(dst, outline, depth)
	for _, h := range holes {
		dst = appendWalls(dst, h, depth)
	}
	return dst
}

// appendWalls appends the side quads of ring. Counter clockwise rings
// produce outward facing walls, clockwise rings (holes) face into the hole.
func appendWalls(dst []ms3.Triangle, ring []ms2.Vec, depth float32) []ms3.Triangle {
	n := len(ring)
	for i := range ring {
		a, b := ring[i], ring[(i+1)%n]
		a0, b0 := at(a, 0), at(b, 0)
		a1, b1 := at(a, depth), at(b, depth)
		dst = append(dst, ms3.Triangle{a0, b0, b1}, ms3.Triangle{a0, b1, a1})
	}
	return dst
}

func at(v ms2.Vec, z float32) ms3.Vec {
	return ms3.Vec{X: v.X, Y: v.Y, Z: z}
}
