package glrender

import (
	"cmp"
	"slices"

	math "github.com/chewxy/math32"
	"github.com/soypat/geometry/ms2"
)

// Triangulate appends to dst triangles covering the polygon outline with holes
// cut out. The outline must wind counter clockwise and holes clockwise.
// Returned triangles wind counter clockwise.
func Triangulate(dst [][3]ms2.Vec, outline []ms2.Vec, holes [][]ms2.Vec) [][3]ms2.Vec {
	if len(outline) < 3 {
		return dst
	}
	poly := slices.Clone(outline)
	if len(holes) > 0 {
		poly = bridgeHoles(poly, holes)
	}
	return earClip(dst, poly)
}

// bridgeHoles merges holes into poly by joining each hole's rightmost vertex to a
// visible vertex of poly with a zero width channel. Holes are processed right to left.
func bridgeHoles(poly []ms2.Vec, holes [][]ms2.Vec) []ms2.Vec {
	type hole struct {
		pts   []ms2.Vec
		right int
	}
	hs := make([]hole, 0, len(holes))
	for _, h := range holes {
		if len(h) < 3 {
			continue
		}
		right := 0
		for i := range h {
			if h[i].X > h[right].X {
				right = i
			}
		}
		hs = append(hs, hole{pts: h, right: right})
	}
	slices.SortFunc(hs, func(a, b hole) int {
		return cmp.Compare(b.pts[b.right].X, a.pts[a.right].X)
	})
	for _, h := range hs {
		m := bridgeVertex(poly, h.pts[h.right])
		poly = splice(poly, m, h.pts, h.right)
	}
	return poly
}

// splice inserts hole into poly after vertex m, starting and ending at hole[start],
// then returns to poly[m].
func splice(poly []ms2.Vec, m int, hole []ms2.Vec, start int) []ms2.Vec {
	out := make([]ms2.Vec, 0, len(poly)+len(hole)+2)
	out = append(out, poly[:m+1]...)
	for i := 0; i <= len(hole); i++ {
		out = append(out, hole[(start+i)%len(hole)])
	}
	return append(out, poly[m:]...)
}

// bridgeVertex returns the index of a vertex of poly visible from h, a point inside poly.
// A ray is cast from h towards +X. The endpoint with largest X of the closest edge hit is
// the candidate unless other vertices lie in the triangle formed by h, the hit and the
// candidate, in which case the one with smallest angle to the ray is chosen.
func bridgeVertex(poly []ms2.Vec, h ms2.Vec) int {
	n := len(poly)
	best := -1
	hitX := math.Inf(1)
	for i := range poly {
		a, b := poly[i], poly[(i+1)%n]
		if a.Y == b.Y || h.Y < min(a.Y, b.Y) || h.Y > max(a.Y, b.Y) {
			continue
		}
		x := a.X + (h.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
		if x < h.X || x >= hitX {
			continue
		}
		hitX = x
		if a.X > b.X {
			best = i
		} else {
			best = (i + 1) % n
		}
	}
	if best < 0 {
		return nearestVertex(poly, h)
	}
	hit := ms2.Vec{X: hitX, Y: h.Y}
	cand := poly[best]
	if cand == hit {
		return best
	}
	bestTan := math.Inf(1)
	bestDist := math.Inf(1)
	for i, p := range poly {
		if p == cand || p.X < h.X || !inTriangle(p, h, hit, cand) {
			continue
		}
		dx, dy := p.X-h.X, math.Abs(p.Y-h.Y)
		if dx == 0 {
			continue
		}
		tan := dy / dx
		dist := dx*dx + dy*dy
		if tan < bestTan || (tan == bestTan && dist < bestDist) {
			bestTan, bestDist = tan, dist
			best = i
		}
	}
	return best
}

func nearestVertex(poly []ms2.Vec, h ms2.Vec) int {
	best := 0
	bestDist := math.Inf(1)
	for i, p := range poly {
		d := ms2.Norm(ms2.Sub(p, h))
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// earClip triangulates a simple counter clockwise polygon by removing ears.
// Zero width channels from bridged holes are allowed.
func earClip(dst [][3]ms2.Vec, poly []ms2.Vec) [][3]ms2.Vec {
	idx := make([]int, len(poly))
	for i := range idx {
		idx[i] = i
	}
	start := 0
	for len(idx) > 3 {
		n := len(idx)
		clipped := false
		for try := 0; try < n; try++ {
			i := (start + try) % n
			a, b, c := poly[idx[(i+n-1)%n]], poly[idx[i]], poly[idx[(i+1)%n]]
			if turn(a, b, c) <= 0 || containsVertex(poly, idx, a, b, c) {
				continue
			}
			dst = append(dst, [3]ms2.Vec{a, b, c})
			idx = slices.Delete(idx, i, i+1)
			start = i
			clipped = true
			break
		}
		if clipped {
			continue
		}
		// No valid ear due to degenerate or self touching input.
		// Drop the flattest vertex to guarantee progress.
		flat := 0
		flatTurn := math.Inf(1)
		for i := range idx {
			a, b, c := poly[idx[(i+n-1)%n]], poly[idx[i]], poly[idx[(i+1)%n]]
			if t := math.Abs(turn(a, b, c)); t < flatTurn {
				flat, flatTurn = i, t
			}
		}
		a, b, c := poly[idx[(flat+n-1)%n]], poly[idx[flat]], poly[idx[(flat+1)%n]]
		if turn(a, b, c) > 0 {
			dst = append(dst, [3]ms2.Vec{a, b, c})
		}
		idx = slices.Delete(idx, flat, flat+1)
		start = flat
	}
	if len(idx) == 3 {
		a, b, c := poly[idx[0]], poly[idx[1]], poly[idx[2]]
		if turn(a, b, c) > 0 {
			dst = append(dst, [3]ms2.Vec{a, b, c})
		}
	}
	return dst
}

// turn is twice the signed area of triangle abc. Positive for a left turn at b.
func turn(a, b, c ms2.Vec) float32 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

func containsVertex(poly []ms2.Vec, idx []int, a, b, c ms2.Vec) bool {
	for _, j := range idx {
		p := poly[j]
		if p == a || p == b || p == c {
			continue
		}
		if inTriangle(p, a, b, c) {
			return true
		}
	}
	return false
}

// inTriangle reports whether p lies inside or on the boundary of triangle abc of any winding.
func inTriangle(p, a, b, c ms2.Vec) bool {
	d1 := turn(a, b, p)
	d2 := turn(b, c, p)
	d3 := turn(c, a, p)
	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}
