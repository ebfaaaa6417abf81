package orbit

import (
	math "github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Spherical is a point in spherical coordinates with a y-up convention.
// Phi is the polar angle from the +Y axis and Theta the azimuthal angle
// around the Y axis measured from +Z.
type Spherical struct {
	Radius float32
	Phi    float32
	Theta  float32
}

const poleEpsilon = 1e-6

// SetFromVec3 sets s to the spherical coordinates of v.
func (s *Spherical) SetFromVec3(v mgl32.Vec3) {
	s.Radius = v.Len()
	if s.Radius == 0 {
		s.Theta = 0
		s.Phi = 0
		return
	}
	s.Theta = math.Atan2(v[0], v[2])
	s.Phi = math.Acos(clamp(v[1]/s.Radius, -1, 1))
}

// Vec3 returns the cartesian coordinates of s.
func (s Spherical) Vec3() mgl32.Vec3 {
	sinPhi, cosPhi := math.Sincos(s.Phi)
	sinTheta, cosTheta := math.Sincos(s.Theta)
	sinPhiRadius := sinPhi * s.Radius
	return mgl32.Vec3{
		sinPhiRadius * sinTheta,
		cosPhi * s.Radius,
		sinPhiRadius * cosTheta,
	}
}

// MakeSafe restricts Phi to (0, π) so the coordinates never sit exactly on a pole.
func (s *Spherical) MakeSafe() {
	s.Phi = clamp(s.Phi, poleEpsilon, math.Pi-poleEpsilon)
}
