package impulse

import "github.com/go-gl/mathgl/mgl64"

// GearJoint keeps the angular velocities of two bodies about an axis at a fixed ratio.
type GearJoint struct {
	*Constraint
	// Axis is in body A local coordinates, or world coordinates when A is nil.
	Axis mgl64.Vec3

	ratio float64
}

// NewGearJoint creates a gear joint so that wA·axis = ratio * wB·axis.
func NewGearJoint(a, b *Body, axis mgl64.Vec3, ratio float64) *GearJoint {
	assert(ratio != 0, "gear ratio must be non-zero")
	joint := &GearJoint{
		Axis:  axis,
		ratio: ratio,
	}
	joint.Constraint = NewConstraint(a, b)
	return joint
}

func (joint *GearJoint) Ratio() float64 {
	return joint.ratio
}

func (joint *GearJoint) SetRatio(ratio float64) {
	assert(ratio != 0, "gear ratio must be non-zero")
	joint.ratio = ratio
}

func (joint *GearJoint) RowCount() int {
	return 1
}

func (joint *GearJoint) FillRows(rows []JointRow, info *JointInfo) {
	axis := axisWorld(joint.bodyA, joint.Axis)

	row := &rows[0]
	row.AngularA = axis
	row.AngularB = axis.Mul(-joint.ratio)
	row.RHS = 0
	joint.clampRow(row, info)
}
