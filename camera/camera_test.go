package camera

import (
	"testing"

	math "github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/soypat/orbit"
)

const tol = 1e-5

func TestLookAt(t *testing.T) {
	var tests = []struct {
		eye, target mgl32.Vec3
	}{
		{eye: mgl32.Vec3{0, 0, 5}},
		{eye: mgl32.Vec3{3, 4, 5}, target: mgl32.Vec3{1, 1, 1}},
		{eye: mgl32.Vec3{-10, 0, 0}},
		{eye: mgl32.Vec3{0, 10, 0}}, // Looking straight down.
		{eye: mgl32.Vec3{0, -7, 0.5}, target: mgl32.Vec3{0, 1, 0}},
	}
	for _, test := range tests {
		cam := NewPerspective(math.Pi/4, 1, 0.1, 100)
		cam.SetPosition(test.eye)
		cam.LookAt(test.target)
		want := test.target.Sub(test.eye).Normalize()
		got := cam.Forward()
		if !got.ApproxEqualThreshold(want, 1e-3) {
			t.Errorf("eye %v target %v: forward %v, want %v", test.eye, test.target, got, want)
		}
		right := cam.Quaternion().Rotate(mgl32.Vec3{1, 0, 0})
		if math.Abs(right[1]) > tol {
			t.Errorf("eye %v: camera rolled, right axis %v", test.eye, right)
		}
	}
}

func TestLookAtFrontIsIdentity(t *testing.T) {
	cam := NewPerspective(math.Pi/4, 1, 0.1, 100)
	cam.SetPosition(mgl32.Vec3{0, 0, 5})
	cam.LookAt(mgl32.Vec3{})
	if !cam.Quaternion().ApproxEqualThreshold(mgl32.QuatIdent(), tol) {
		t.Errorf("want identity orientation, got %v", cam.Quaternion())
	}
}

func TestViewIsWorldInverse(t *testing.T) {
	cam := NewOrthographic(-2, 2, 1, -1, 0.1, 100)
	cam.SetPosition(mgl32.Vec3{4, -3, 7})
	cam.LookAt(mgl32.Vec3{1, 2, 0})
	got := cam.ViewMatrix().Mul4(cam.WorldMatrix())
	if !got.ApproxEqualThreshold(mgl32.Ident4(), 1e-4) {
		t.Errorf("view*world not identity:\n%v", got)
	}
	// Target must land on the camera's -Z axis.
	p := mgl32.TransformCoordinate(mgl32.Vec3{1, 2, 0}, cam.ViewMatrix())
	if math.Abs(p[0]) > 1e-4 || math.Abs(p[1]) > 1e-4 || p[2] >= 0 {
		t.Errorf("target not in front of camera: %v", p)
	}
}

func TestZoomProjection(t *testing.T) {
	ortho := NewOrthographic(-2, 2, 1, -1, 0.1, 100)
	before := ortho.ProjectionMatrix()
	ortho.SetZoom(2)
	ortho.UpdateProjectionMatrix()
	after := ortho.ProjectionMatrix()
	if math.Abs(after[0]-2*before[0]) > tol || math.Abs(after[5]-2*before[5]) > tol {
		t.Errorf("orthographic zoom 2 should double scale: before %v after %v", before, after)
	}

	persp := NewPerspective(math.Pi/2, 1, 0.1, 100)
	before = persp.ProjectionMatrix()
	persp.SetZoom(2)
	persp.UpdateProjectionMatrix()
	after = persp.ProjectionMatrix()
	if math.Abs(after[5]-2*before[5]) > tol {
		t.Errorf("perspective zoom 2 should halve tan(fov/2): before %g after %g", before[5], after[5])
	}
	if _, ok := persp.Projection().(*orbit.PerspectiveProjection); !ok {
		t.Errorf("unexpected projection %T", persp.Projection())
	}
	if _, ok := ortho.Projection().(*orbit.OrthographicProjection); !ok {
		t.Errorf("unexpected projection %T", ortho.Projection())
	}
}

func TestSetAspect(t *testing.T) {
	cam := NewPerspective(math.Pi/3, 1, 0.1, 100)
	cam.SetAspect(2)
	m := cam.ProjectionMatrix()
	if math.Abs(m[5]-2*m[0]) > tol {
		t.Errorf("aspect 2 should halve x scale: %v", m)
	}
}
