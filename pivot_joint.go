package impulse

import "github.com/go-gl/mathgl/mgl64"

// PivotJoint is a ball and socket: it pins one point of each body together.
type PivotJoint struct {
	*Constraint
	AnchorA, AnchorB mgl64.Vec3
}

// NewPivotJoint creates a pivot joint around a world point.
func NewPivotJoint(a, b *Body, pivot mgl64.Vec3) *PivotJoint {
	var anchorA mgl64.Vec3
	var anchorB mgl64.Vec3

	if a != nil {
		anchorA = a.WorldToLocal(pivot)
	} else {
		anchorA = pivot
	}

	if b != nil {
		anchorB = b.WorldToLocal(pivot)
	} else {
		anchorB = pivot
	}

	return NewPivotJoint2(a, b, anchorA, anchorB)
}

// NewPivotJoint2 creates a pivot joint from two body local anchors.
func NewPivotJoint2(a, b *Body, anchorA, anchorB mgl64.Vec3) *PivotJoint {
	joint := &PivotJoint{
		AnchorA: anchorA,
		AnchorB: anchorB,
	}
	joint.Constraint = NewConstraint(a, b)
	return joint
}

func (joint *PivotJoint) RowCount() int {
	return 3
}

func (joint *PivotJoint) FillRows(rows []JointRow, info *JointInfo) {
	p1, r1 := anchorWorld(joint.bodyA, joint.AnchorA)
	p2, r2 := anchorWorld(joint.bodyB, joint.AnchorB)

	k := info.FPS * info.ERP
	for i := range 3 {
		var axis mgl64.Vec3
		axis[i] = 1

		row := &rows[i]
		row.LinearAxis = axis
		row.AngularA = r1.Cross(axis)
		row.AngularB = axis.Cross(r2)
		row.RHS = k * (p2[i] - p1[i])
		joint.clampRow(row, info)
	}
}

// Separation returns the world distance between the two anchors.
func (joint *PivotJoint) Separation() float64 {
	p1, _ := anchorWorld(joint.bodyA, joint.AnchorA)
	p2, _ := anchorWorld(joint.bodyB, joint.AnchorB)
	return p2.Sub(p1).Len()
}
