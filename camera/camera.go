// Package camera implements perspective and orthographic cameras that can be
// driven by orbit.Controls and rendered with OpenGL style matrices.
package camera

import (
	math "github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/soypat/orbit"
)

var _ orbit.Camera = (*Camera)(nil)

// Camera is a positioned and oriented view with either a perspective or an
// orthographic projection. It looks down its local -Z axis with +Y up.
type Camera struct {
	position   mgl32.Vec3
	quaternion mgl32.Quat
	up         mgl32.Vec3
	zoom       float32

	perspective  *orbit.PerspectiveProjection
	orthographic *orbit.OrthographicProjection
	projection   mgl32.Mat4
}

// NewPerspective returns a camera at the origin looking down -Z. fovy is the vertical field of view in radians.
func NewPerspective(fovy, aspect, near, far float32) *Camera {
	c := &Camera{
		perspective: &orbit.PerspectiveProjection{FOV: fovy, Aspect: aspect, Near: near, Far: far},
	}
	c.init()
	return c
}

// NewOrthographic returns a camera at the origin looking down -Z that sees the box
// delimited by the arguments when zoom is 1.
func NewOrthographic(left, right, top, bottom, near, far float32) *Camera {
	c := &Camera{
		orthographic: &orbit.OrthographicProjection{Left: left, Right: right, Top: top, Bottom: bottom, Near: near, Far: far},
	}
	c.init()
	return c
}

func (c *Camera) init() {
	c.quaternion = mgl32.QuatIdent()
	c.up = mgl32.Vec3{0, 1, 0}
	c.zoom = 1
	c.UpdateProjectionMatrix()
}

func (c *Camera) Position() mgl32.Vec3     { return c.position }
func (c *Camera) SetPosition(p mgl32.Vec3) { c.position = p }
func (c *Camera) Quaternion() mgl32.Quat   { return c.quaternion }

// SetQuaternion sets the camera's world orientation.
func (c *Camera) SetQuaternion(q mgl32.Quat) { c.quaternion = q.Normalize() }
func (c *Camera) Up() mgl32.Vec3             { return c.up }

// SetUp sets the up direction used by LookAt. Set it before creating orbit.Controls,
// the controls capture the orbit axis on creation.
func (c *Camera) SetUp(up mgl32.Vec3) { c.up = up.Normalize() }
func (c *Camera) Zoom() float32       { return c.zoom }
func (c *Camera) SetZoom(z float32)   { c.zoom = z }

// Projection returns the camera's projection parameters. Modifications to
// the returned value take effect after UpdateProjectionMatrix.
func (c *Camera) Projection() orbit.Projection {
	if c.perspective != nil {
		return c.perspective
	} else if c.orthographic != nil {
		return c.orthographic
	}
	return nil
}

// SetAspect sets the width/height aspect ratio of a perspective camera and updates the projection matrix.
func (c *Camera) SetAspect(aspect float32) {
	if c.perspective != nil {
		c.perspective.Aspect = aspect
		c.UpdateProjectionMatrix()
	}
}

// LookAt rotates the camera so that its -Z axis points at target and its +Y axis
// lies in the plane spanned by the view direction and Up.
func (c *Camera) LookAt(target mgl32.Vec3) {
	z := c.position.Sub(target)
	if z.LenSqr() == 0 {
		z[2] = 1
	}
	z = z.Normalize()
	x := c.up.Cross(z)
	if x.LenSqr() == 0 {
		// Up and view direction are parallel.
		if math.Abs(c.up[2]) == 1 {
			z[0] += 1e-4
		} else {
			z[2] += 1e-4
		}
		z = z.Normalize()
		x = c.up.Cross(z)
	}
	x = x.Normalize()
	y := z.Cross(x)
	rot := mgl32.Mat4{
		x[0], x[1], x[2], 0,
		y[0], y[1], y[2], 0,
		z[0], z[1], z[2], 0,
		0, 0, 0, 1,
	}
	c.quaternion = mgl32.Mat4ToQuat(rot).Normalize()
}

// Forward returns the direction the camera is looking at.
func (c *Camera) Forward() mgl32.Vec3 {
	return c.quaternion.Rotate(mgl32.Vec3{0, 0, -1})
}

// UpdateProjectionMatrix recalculates the projection matrix from the projection parameters and zoom.
func (c *Camera) UpdateProjectionMatrix() {
	zoom := c.zoom
	if zoom <= 0 {
		zoom = 1
	}
	switch {
	case c.perspective != nil:
		p := c.perspective
		fovy := 2 * math.Atan(math.Tan(p.FOV/2)/zoom)
		c.projection = mgl32.Perspective(fovy, p.Aspect, p.Near, p.Far)
	case c.orthographic != nil:
		o := c.orthographic
		dx := (o.Right - o.Left) / (2 * zoom)
		dy := (o.Top - o.Bottom) / (2 * zoom)
		cx := (o.Right + o.Left) / 2
		cy := (o.Top + o.Bottom) / 2
		c.projection = mgl32.Ortho(cx-dx, cx+dx, cy-dy, cy+dy, o.Near, o.Far)
	}
}

// ProjectionMatrix returns the matrix calculated by the last UpdateProjectionMatrix call.
func (c *Camera) ProjectionMatrix() mgl32.Mat4 { return c.projection }

// WorldMatrix returns the camera's local to world transform.
func (c *Camera) WorldMatrix() mgl32.Mat4 {
	return mgl32.Translate3D(c.position[0], c.position[1], c.position[2]).Mul4(c.quaternion.Mat4())
}

// ViewMatrix returns the world to camera transform.
func (c *Camera) ViewMatrix() mgl32.Mat4 {
	p := c.position
	return c.quaternion.Conjugate().Mat4().Mul4(mgl32.Translate3D(-p[0], -p[1], -p[2]))
}

// ViewProjection returns the combined world to clip space transform.
func (c *Camera) ViewProjection() mgl32.Mat4 {
	return c.projection.Mul4(c.ViewMatrix())
}
