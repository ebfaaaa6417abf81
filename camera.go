package orbit

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Camera is the view [Controls] moves around its target.
// See package camera for perspective and orthographic implementations.
type Camera interface {
	Position() mgl32.Vec3
	SetPosition(mgl32.Vec3)
	// Quaternion returns the camera's world orientation. The camera looks down its local -Z axis.
	Quaternion() mgl32.Quat
	// Up is the camera's up direction used as the orbit axis.
	Up() mgl32.Vec3
	// LookAt orients the camera so it faces target while keeping Up upwards.
	LookAt(target mgl32.Vec3)
	Zoom() float32
	SetZoom(float32)
	// UpdateProjectionMatrix must be called after changing projection parameters or zoom.
	UpdateProjectionMatrix()
	// Projection returns the camera's projection parameters. A nil Projection
	// marks a projection Controls does not know how to pan or dolly.
	Projection() Projection
}

// Projection is either a [*PerspectiveProjection] or an [*OrthographicProjection].
type Projection interface {
	isProjection()
}

// PerspectiveProjection describes a perspective camera frustum.
type PerspectiveProjection struct {
	// FOV is the vertical field of view in radians.
	FOV       float32
	Aspect    float32
	Near, Far float32
}

// OrthographicProjection describes an orthographic camera's visible box before zoom is applied.
type OrthographicProjection struct {
	Left, Right float32
	Top, Bottom float32
	Near, Far   float32
}

func (*PerspectiveProjection) isProjection()  {}
func (*OrthographicProjection) isProjection() {}

// cameraMatrix returns the camera's world rotation. Column 0 is the camera's
// right direction and column 1 its up direction in world space.
func cameraMatrix(cam Camera) mgl32.Mat4 {
	return cam.Quaternion().Mat4()
}
