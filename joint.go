package impulse

import "github.com/go-gl/mathgl/mgl64"

// Joint supplies constraint rows to the solver.
//
// RowCount is asked once per solve. FillRows then receives exactly that many
// rows, already reset to unbounded limits and zero values, and fills in the
// Jacobian, the positional error velocity and the limits. A nil body is the
// fixed world anchor.
type Joint interface {
	BodyA() *Body
	BodyB() *Body
	RowCount() int
	FillRows(rows []JointRow, info *JointInfo)
}

// LegacyIterator is implemented by joints that need to act on the bodies
// during every iteration instead of (or besides) supplying rows.
type LegacyIterator interface {
	IterateLegacy(a, b *SolverBody, timeStep float64)
}

// CachedImpulser is implemented by joints that apply an impulse to the bodies
// once per solve, after setup and before the first iteration.
type CachedImpulser interface {
	ApplyCachedImpulse(a, b *SolverBody)
}

// impulseReporter receives the summed row impulse at the end of a solve.
type impulseReporter interface {
	setAppliedImpulse(j float64)
}

type enabler interface {
	Enabled() bool
}

// Constraint holds the state shared by all joints. Joints embed it.
type Constraint struct {
	UserData any

	// MaxForce is the maximum force a joint can apply. Defaults to infinity.
	MaxForce float64
	// MaxBias is the maximum speed a joint corrects its positional error at. Defaults to infinity.
	MaxBias float64

	bodyA, bodyB   *Body
	disabled       bool
	appliedImpulse float64
}

// NewConstraint returns a constraint base between a and b.
func NewConstraint(a, b *Body) *Constraint {
	assert(a != b, "constraint bodies must differ")
	return &Constraint{
		bodyA:    a,
		bodyB:    b,
		MaxForce: infinity,
		MaxBias:  infinity,
	}
}

func (c *Constraint) BodyA() *Body {
	return c.bodyA
}

func (c *Constraint) BodyB() *Body {
	return c.bodyB
}

// Enabled reports whether the solver picks up the joint.
func (c *Constraint) Enabled() bool {
	return !c.disabled
}

func (c *Constraint) SetEnabled(enabled bool) {
	c.disabled = !enabled
}

// AppliedImpulse returns the sum of the row impulses of the last solve.
func (c *Constraint) AppliedImpulse() float64 {
	return c.appliedImpulse
}

func (c *Constraint) setAppliedImpulse(j float64) {
	c.appliedImpulse = j
}

// clampRow applies MaxForce and MaxBias to a filled row.
func (c *Constraint) clampRow(row *JointRow, info *JointInfo) {
	if c.MaxForce != infinity {
		limitImpulse(row, c.MaxForce*info.TimeStep)
	}
	if c.MaxBias != infinity {
		row.RHS = clamp(row.RHS, -c.MaxBias, c.MaxBias)
	}
}

// anchorWorld returns the world position of a body-local anchor and its
// offset from the body origin. For the world anchor the anchor is already in
// world space and the offset is zero.
func anchorWorld(body *Body, anchor mgl64.Vec3) (p, r mgl64.Vec3) {
	if body == nil {
		return anchor, mgl64.Vec3{}
	}
	p = body.LocalToWorld(anchor)
	return p, p.Sub(body.transform.Origin)
}

// axisWorld rotates a body-local axis into world space.
func axisWorld(body *Body, axis mgl64.Vec3) mgl64.Vec3 {
	if body == nil {
		return axis.Normalize()
	}
	return body.transform.ApplyVector(axis).Normalize()
}

func rotationOf(body *Body) mgl64.Quat {
	if body == nil {
		return mgl64.QuatIdent()
	}
	return body.transform.Rotation
}
