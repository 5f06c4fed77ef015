package impulse

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// SlideJoint keeps the distance between two anchors within [Min, Max],
// like a rope or a telescoping rod.
type SlideJoint struct {
	*Constraint

	AnchorA, AnchorB mgl64.Vec3
	Min, Max         float64

	// computed in RowCount, used by FillRows
	pdist float64
	n     mgl64.Vec3
	r1    mgl64.Vec3
	r2    mgl64.Vec3
}

func NewSlideJoint(a, b *Body, anchorA, anchorB mgl64.Vec3, min, max float64) *SlideJoint {
	joint := &SlideJoint{
		AnchorA: anchorA,
		AnchorB: anchorB,
		Min:     min,
		Max:     max,
	}
	joint.Constraint = NewConstraint(a, b)
	return joint
}

// RowCount is 1 while the distance is outside [Min, Max] and 0 otherwise.
func (joint *SlideJoint) RowCount() int {
	p1, r1 := anchorWorld(joint.bodyA, joint.AnchorA)
	p2, r2 := anchorWorld(joint.bodyB, joint.AnchorB)
	joint.r1, joint.r2 = r1, r2

	delta := p2.Sub(p1)
	dist := delta.Len()
	joint.n = safeNormalize(delta)
	switch {
	case dist > joint.Max:
		joint.pdist = dist - joint.Max
	case dist < joint.Min:
		joint.pdist = dist - joint.Min
	default:
		joint.pdist = 0
		return 0
	}
	if joint.n == (mgl64.Vec3{}) {
		return 0
	}
	return 1
}

func (joint *SlideJoint) FillRows(rows []JointRow, info *JointInfo) {
	if len(rows) == 0 {
		return
	}
	n := joint.n

	row := &rows[0]
	row.LinearAxis = n
	row.AngularA = joint.r1.Cross(n)
	row.AngularB = n.Cross(joint.r2)
	row.RHS = info.FPS * info.ERP * joint.pdist
	if joint.pdist > 0 {
		// too far apart, the joint can only pull
		row.Lower, row.Upper = 0, infinity
	} else {
		row.Lower, row.Upper = -infinity, 0
	}
	joint.clampRow(row, info)
}

// Violation returns how far the current distance is outside [Min, Max], zero inside.
func (joint *SlideJoint) Violation() float64 {
	p1, _ := anchorWorld(joint.bodyA, joint.AnchorA)
	p2, _ := anchorWorld(joint.bodyB, joint.AnchorB)
	dist := p2.Sub(p1).Len()
	return math.Max(0, math.Max(dist-joint.Max, joint.Min-dist))
}
