package impulse

import "github.com/go-gl/mathgl/mgl64"

// GrooveJoint keeps an anchor on body B on the segment [GrooveA, GrooveB]
// fixed to body A, like a bead on a rail.
type GrooveJoint struct {
	*Constraint

	// GrooveA and GrooveB are in body A local coordinates, or world
	// coordinates when A is nil.
	GrooveA, GrooveB mgl64.Vec3
	AnchorB          mgl64.Vec3

	// computed in RowCount, used by FillRows
	axis   mgl64.Vec3
	p1, p2 mgl64.Vec3
	r1, r2 mgl64.Vec3
	clamp  float64
}

func NewGrooveJoint(a, b *Body, grooveA, grooveB, anchorB mgl64.Vec3) *GrooveJoint {
	assert(grooveA != grooveB, "groove ends must differ")
	joint := &GrooveJoint{
		GrooveA: grooveA,
		GrooveB: grooveB,
		AnchorB: anchorB,
	}
	joint.Constraint = NewConstraint(a, b)
	return joint
}

// RowCount is 2 while the anchor lies between the ends of the groove, and 3
// when it has to be pushed back over one of them.
func (joint *GrooveJoint) RowCount() int {
	ta, _ := anchorWorld(joint.bodyA, joint.GrooveA)
	tb, _ := anchorWorld(joint.bodyA, joint.GrooveB)
	joint.p2, joint.r2 = anchorWorld(joint.bodyB, joint.AnchorB)

	groove := tb.Sub(ta)
	length := groove.Len()
	joint.axis = groove.Mul(1 / length)

	td := joint.p2.Sub(ta).Dot(joint.axis)
	switch {
	case td <= 0:
		joint.clamp = td
		joint.p1 = ta
	case td >= length:
		joint.clamp = td - length
		joint.p1 = tb
	default:
		joint.clamp = 0
		joint.p1 = ta.Add(joint.axis.Mul(td))
	}
	joint.r1 = mgl64.Vec3{}
	if joint.bodyA != nil {
		joint.r1 = joint.p1.Sub(joint.bodyA.transform.Origin)
	}

	if joint.clamp == 0 {
		return 2
	}
	return 3
}

func (joint *GrooveJoint) FillRows(rows []JointRow, info *JointInfo) {
	k := info.FPS * info.ERP
	delta := joint.p2.Sub(joint.p1)

	n1, n2 := planeSpace(joint.axis)
	for i, n := range [2]mgl64.Vec3{n1, n2} {
		row := &rows[i]
		row.LinearAxis = n
		row.AngularA = joint.r1.Cross(n)
		row.AngularB = n.Cross(joint.r2)
		row.RHS = k * delta.Dot(n)
		joint.clampRow(row, info)
	}
	if len(rows) < 3 {
		return
	}

	// past an end of the groove, the joint can only push back along it
	n := joint.axis
	row := &rows[2]
	row.LinearAxis = n
	row.AngularA = joint.r1.Cross(n)
	row.AngularB = n.Cross(joint.r2)
	row.RHS = k * joint.clamp
	if joint.clamp > 0 {
		row.Lower, row.Upper = 0, infinity
	} else {
		row.Lower, row.Upper = -infinity, 0
	}
	joint.clampRow(row, info)
}

// Offset returns the world distance from the anchor on B to the groove.
func (joint *GrooveJoint) Offset() float64 {
	joint.RowCount()
	return joint.p2.Sub(joint.p1).Len()
}
