package impulse

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// angularMotionThreshold caps the rotation integrated in a single step (radians).
const angularMotionThreshold = 0.5 * math.Pi

// Transform represents a rigid 3D transformation: a rotation basis followed by a translation.
//
//	p' = Basis * p + Origin
//
// The basis is kept orthonormal; Rotation holds the same orientation as a
// unit quaternion so integration does not accumulate drift in the matrix.
type Transform struct {
	Basis    mgl64.Mat3
	Origin   mgl64.Vec3
	Rotation mgl64.Quat
}

// NewTransformIdentity creates and returns an identity transformation.
func NewTransformIdentity() Transform {
	return Transform{
		Basis:    mgl64.Ident3(),
		Rotation: mgl64.QuatIdent(),
	}
}

// NewTransform returns a rigid transform from an orientation and a translation.
func NewTransform(rotation mgl64.Quat, origin mgl64.Vec3) Transform {
	rotation = rotation.Normalize()
	return Transform{
		Basis:    quatMat3(rotation),
		Origin:   origin,
		Rotation: rotation,
	}
}

// Apply applies the transformation to a point.
func (t Transform) Apply(p mgl64.Vec3) mgl64.Vec3 {
	return t.Basis.Mul3x1(p).Add(t.Origin)
}

// ApplyVector rotates a direction without translating it.
func (t Transform) ApplyVector(v mgl64.Vec3) mgl64.Vec3 {
	return t.Basis.Mul3x1(v)
}

// InverseApply maps a world point into the local frame.
func (t Transform) InverseApply(p mgl64.Vec3) mgl64.Vec3 {
	return t.Basis.Transpose().Mul3x1(p.Sub(t.Origin))
}

// InverseApplyVector maps a world direction into the local frame.
func (t Transform) InverseApplyVector(v mgl64.Vec3) mgl64.Vec3 {
	return t.Basis.Transpose().Mul3x1(v)
}

// Integrate advances t by a linear and angular velocity over dt.
//
// The rotation uses the exponential map with a Taylor expansion for small
// angles, and the angle per step is clamped to angularMotionThreshold.
func (t Transform) Integrate(linear, angular mgl64.Vec3, dt float64) Transform {
	origin := t.Origin.Add(linear.Mul(dt))

	angle := angular.Len()
	if angle*dt > angularMotionThreshold {
		angular = angular.Mul(angularMotionThreshold / dt / angle)
		angle = angularMotionThreshold / dt
	}

	var axis mgl64.Vec3
	if angle < 0.001 {
		// use Taylor's expansions of sync function
		axis = angular.Mul(0.5*dt - (dt*dt*dt)*(0.020833333333)*angle*angle)
	} else {
		// sync(fAngle) = sin(c*fAngle)/t
		axis = angular.Mul(math.Sin(0.5*angle*dt) / angle)
	}

	dorn := mgl64.Quat{W: math.Cos(angle * dt * 0.5), V: axis}
	rotation := dorn.Mul(t.Rotation).Normalize()
	return NewTransform(rotation, origin)
}

// quatMat3 returns the rotation matrix of a unit quaternion.
func quatMat3(q mgl64.Quat) mgl64.Mat3 {
	x, y, z, w := q.V[0], q.V[1], q.V[2], q.W
	return mgl64.Mat3{
		1 - 2*y*y - 2*z*z, 2*x*y + 2*w*z, 2*x*z - 2*w*y,
		2*x*y - 2*w*z, 1 - 2*x*x - 2*z*z, 2*y*z + 2*w*x,
		2*x*z + 2*w*y, 2*y*z - 2*w*x, 1 - 2*x*x - 2*y*y,
	}
}
