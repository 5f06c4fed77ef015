package impulse

import "github.com/go-gl/mathgl/mgl64"

// PinJoint keeps two anchor points at a fixed distance, like a massless rod.
type PinJoint struct {
	*Constraint
	AnchorA, AnchorB mgl64.Vec3
	Dist             float64
}

// NewPinJoint creates a pin joint. The distance is taken from the current
// positions of the anchors. Anchors are in body local coordinates, or world
// coordinates for a nil body.
func NewPinJoint(a, b *Body, anchorA, anchorB mgl64.Vec3) *PinJoint {
	joint := &PinJoint{
		AnchorA: anchorA,
		AnchorB: anchorB,
	}

	p1, _ := anchorWorld(a, anchorA)
	p2, _ := anchorWorld(b, anchorB)
	joint.Dist = p2.Sub(p1).Len()

	// TODO: warn about joint.Dist == 0 being unstable, use pivot joint

	joint.Constraint = NewConstraint(a, b)
	return joint
}

func (joint *PinJoint) RowCount() int {
	return 1
}

func (joint *PinJoint) FillRows(rows []JointRow, info *JointInfo) {
	p1, r1 := anchorWorld(joint.bodyA, joint.AnchorA)
	p2, r2 := anchorWorld(joint.bodyB, joint.AnchorB)

	delta := p2.Sub(p1)
	dist := delta.Len()
	n := safeNormalize(delta)

	row := &rows[0]
	row.LinearAxis = n
	row.AngularA = r1.Cross(n)
	row.AngularB = n.Cross(r2)
	row.RHS = info.FPS * info.ERP * (dist - joint.Dist)
	joint.clampRow(row, info)
}

// Distance returns the current distance between the anchors.
func (joint *PinJoint) Distance() float64 {
	p1, _ := anchorWorld(joint.bodyA, joint.AnchorA)
	p2, _ := anchorWorld(joint.bodyB, joint.AnchorB)
	return p2.Sub(p1).Len()
}
