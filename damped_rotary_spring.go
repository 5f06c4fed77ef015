package impulse

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// DampedRotarySpring is an angular spring about an axis. It supplies no rows:
// the spring impulse is applied once from ApplyCachedImpulse and the damping
// from IterateLegacy on every iteration.
type DampedRotarySpring struct {
	*Constraint

	// Axis is in body A local coordinates, or world coordinates when A is nil.
	Axis                          mgl64.Vec3
	RestAngle, Stiffness, Damping float64
	SpringTorqueFunc              func(spring *DampedRotarySpring, relativeAngle float64) float64

	axis             mgl64.Vec3
	targetWrn, wCoef float64
	iSum, jAcc       float64
	jSpring          float64
}

func defaultSpringTorque(spring *DampedRotarySpring, relativeAngle float64) float64 {
	return (relativeAngle - spring.RestAngle) * spring.Stiffness
}

func NewDampedRotarySpring(a, b *Body, axis mgl64.Vec3, restAngle, stiffness, damping float64) *DampedRotarySpring {
	joint := &DampedRotarySpring{
		Axis:             axis,
		RestAngle:        restAngle,
		Stiffness:        stiffness,
		Damping:          damping,
		SpringTorqueFunc: defaultSpringTorque,
	}
	joint.Constraint = NewConstraint(a, b)
	return joint
}

func (spring *DampedRotarySpring) RowCount() int {
	return 0
}

// FillRows prepares the per-solve spring state.
func (spring *DampedRotarySpring) FillRows(_ []JointRow, info *JointInfo) {
	a := spring.bodyA
	b := spring.bodyB
	axis := axisWorld(a, spring.Axis)
	spring.axis = axis

	moment := angularMoment(a, axis) + angularMoment(b, axis)
	if moment == 0 {
		spring.iSum = 0
		spring.wCoef = 0
		spring.jSpring = 0
		spring.jAcc = 0
		return
	}
	spring.iSum = 1.0 / moment

	spring.wCoef = 1.0 - math.Exp(-spring.Damping*info.TimeStep*moment)
	spring.targetWrn = 0

	spring.jSpring = spring.SpringTorqueFunc(spring, spring.RelativeAngle()) * info.TimeStep
	spring.jAcc = spring.jSpring
}

// ApplyCachedImpulse applies the spring impulse, so it acts even when the
// solve runs no iterations.
func (spring *DampedRotarySpring) ApplyCachedImpulse(a, b *SolverBody) {
	if spring.iSum == 0 {
		return
	}
	a.ApplyAngularImpulse(spring.axis.Mul(-spring.jSpring))
	b.ApplyAngularImpulse(spring.axis.Mul(spring.jSpring))
}

// IterateLegacy applies the damping impulse.
func (spring *DampedRotarySpring) IterateLegacy(a, b *SolverBody, _ float64) {
	if spring.iSum == 0 {
		return
	}
	axis := spring.axis

	wrn := a.AngularVelocity().Sub(b.AngularVelocity()).Dot(axis)

	wDamp := (spring.targetWrn - wrn) * spring.wCoef
	spring.targetWrn = wrn + wDamp

	jDamp := wDamp * spring.iSum
	spring.jAcc += jDamp

	a.ApplyAngularImpulse(axis.Mul(jDamp))
	b.ApplyAngularImpulse(axis.Mul(-jDamp))
}

// RelativeAngle returns the rotation of A relative to B about the spring axis, in (-π, π].
func (spring *DampedRotarySpring) RelativeAngle() float64 {
	axis := axisWorld(spring.bodyA, spring.Axis)
	q := rotationOf(spring.bodyA).Mul(rotationOf(spring.bodyB).Conjugate())
	angle := 2 * math.Atan2(q.V.Dot(axis), q.W)
	if angle > math.Pi {
		angle -= 2 * math.Pi
	} else if angle <= -math.Pi {
		angle += 2 * math.Pi
	}
	return angle
}

// Impulse returns the angular impulse of the last solve.
func (spring *DampedRotarySpring) Impulse() float64 {
	return spring.jAcc
}

// angularMoment returns axis·(I⁻¹ axis), zero for the world anchor.
func angularMoment(body *Body, axis mgl64.Vec3) float64 {
	if body == nil {
		return 0
	}
	return axis.Dot(mulElem(body.inertiaInverseWorld.Mul3x1(axis), body.angularFactor))
}
