package impulse

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// SolverConstraint is a single scalar constraint row: one contact normal,
// one friction direction, or one joint degree of freedom.
type SolverConstraint struct {
	ContactNormal      mgl64.Vec3 // linear Jacobian axis of body A; body B uses its negation
	RelPos1CrossNormal mgl64.Vec3 // angular Jacobian axis of body A
	RelPos2CrossNormal mgl64.Vec3 // angular Jacobian axis of body B
	AngularComponentA  mgl64.Vec3 // invInertiaA * RelPos1CrossNormal * angularFactorA
	AngularComponentB  mgl64.Vec3 // invInertiaB * RelPos2CrossNormal * angularFactorB

	JacDiagABInv   float64 // relaxation over the effective inverse mass of the row
	AppliedImpulse float64
	RHS            float64
	CFM            float64
	LowerLimit     float64
	UpperLimit     float64
	Friction       float64

	// Split impulse state.
	RHSPenetration     float64
	AppliedPushImpulse float64

	// For a normal row the index of its first friction row; for a friction
	// row the index of its normal row.
	FrictionIndex int

	SolverBodyIDA int
	SolverBodyIDB int

	originalContactPoint *ContactPoint
	joint                Joint
}

// ContactPoint returns the persistent point a contact or friction row was built from.
func (c *SolverConstraint) ContactPoint() *ContactPoint {
	return c.originalContactPoint
}

// JointRow is the view of one constraint row a Joint fills in.
//
// LinearAxis applies to body A; body B implicitly uses -LinearAxis.
// The row drives LinearAxis·(vA) + AngularA·(wA) - LinearAxis·(vB) + AngularB·(wB)
// towards RHS, which is a velocity (positional error times fps times erp).
type JointRow struct {
	LinearAxis mgl64.Vec3
	AngularA   mgl64.Vec3
	AngularB   mgl64.Vec3
	RHS        float64
	CFM        float64
	Lower      float64
	Upper      float64
}

func (r *JointRow) reset() {
	*r = JointRow{Lower: -infinity, Upper: infinity}
}

// JointInfo carries the per-solve parameters handed to Joint.FillRows.
type JointInfo struct {
	FPS      float64 // 1 / TimeStep
	ERP      float64
	TimeStep float64
}

// limitImpulse clamps the row limits of r to [-max, max] when max is finite.
func limitImpulse(r *JointRow, max float64) {
	if math.IsInf(max, 1) || max == infinity {
		return
	}
	r.Lower = math.Max(r.Lower, -max)
	r.Upper = math.Min(r.Upper, max)
}
