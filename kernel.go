package impulse

// resolveSingleConstraintRowGeneric applies one clamped impulse update to a row
// with both limits.
func resolveSingleConstraintRowGeneric(a, b *SolverBody, c *SolverConstraint) {
	deltaImpulse := c.RHS - c.AppliedImpulse*c.CFM
	deltaVel1Dotn := c.ContactNormal.Dot(a.DeltaLinearVelocity) + c.RelPos1CrossNormal.Dot(a.DeltaAngularVelocity)
	deltaVel2Dotn := -c.ContactNormal.Dot(b.DeltaLinearVelocity) + c.RelPos2CrossNormal.Dot(b.DeltaAngularVelocity)

	deltaImpulse -= deltaVel1Dotn * c.JacDiagABInv
	deltaImpulse -= deltaVel2Dotn * c.JacDiagABInv

	sum := c.AppliedImpulse + deltaImpulse
	if sum < c.LowerLimit {
		deltaImpulse = c.LowerLimit - c.AppliedImpulse
		c.AppliedImpulse = c.LowerLimit
	} else if sum > c.UpperLimit {
		deltaImpulse = c.UpperLimit - c.AppliedImpulse
		c.AppliedImpulse = c.UpperLimit
	} else {
		c.AppliedImpulse = sum
	}

	a.ApplyImpulse(mulElem(c.ContactNormal, a.InvMass), c.AngularComponentA, deltaImpulse)
	b.ApplyImpulse(mulElem(c.ContactNormal.Mul(-1), b.InvMass), c.AngularComponentB, deltaImpulse)
}

// resolveSingleConstraintRowLowerLimit is resolveSingleConstraintRowGeneric
// without the upper bound, used for non-penetration rows.
func resolveSingleConstraintRowLowerLimit(a, b *SolverBody, c *SolverConstraint) {
	deltaImpulse := c.RHS - c.AppliedImpulse*c.CFM
	deltaVel1Dotn := c.ContactNormal.Dot(a.DeltaLinearVelocity) + c.RelPos1CrossNormal.Dot(a.DeltaAngularVelocity)
	deltaVel2Dotn := -c.ContactNormal.Dot(b.DeltaLinearVelocity) + c.RelPos2CrossNormal.Dot(b.DeltaAngularVelocity)

	deltaImpulse -= deltaVel1Dotn * c.JacDiagABInv
	deltaImpulse -= deltaVel2Dotn * c.JacDiagABInv

	sum := c.AppliedImpulse + deltaImpulse
	if sum < c.LowerLimit {
		deltaImpulse = c.LowerLimit - c.AppliedImpulse
		c.AppliedImpulse = c.LowerLimit
	} else {
		c.AppliedImpulse = sum
	}

	a.ApplyImpulse(mulElem(c.ContactNormal, a.InvMass), c.AngularComponentA, deltaImpulse)
	b.ApplyImpulse(mulElem(c.ContactNormal.Mul(-1), b.InvMass), c.AngularComponentB, deltaImpulse)
}

// resolveSplitPenetrationImpulse resolves RHSPenetration into the push and turn
// velocities of the bodies, leaving the regular velocity deltas untouched.
func resolveSplitPenetrationImpulse(a, b *SolverBody, c *SolverConstraint) {
	if c.RHSPenetration == 0 {
		return
	}
	deltaImpulse := c.RHSPenetration - c.AppliedPushImpulse*c.CFM
	deltaVel1Dotn := c.ContactNormal.Dot(a.PushVelocity) + c.RelPos1CrossNormal.Dot(a.TurnVelocity)
	deltaVel2Dotn := -c.ContactNormal.Dot(b.PushVelocity) + c.RelPos2CrossNormal.Dot(b.TurnVelocity)

	deltaImpulse -= deltaVel1Dotn * c.JacDiagABInv
	deltaImpulse -= deltaVel2Dotn * c.JacDiagABInv

	sum := c.AppliedPushImpulse + deltaImpulse
	if sum < c.LowerLimit {
		deltaImpulse = c.LowerLimit - c.AppliedPushImpulse
		c.AppliedPushImpulse = c.LowerLimit
	} else {
		c.AppliedPushImpulse = sum
	}

	a.ApplyPushImpulse(mulElem(c.ContactNormal, a.InvMass), c.AngularComponentA, deltaImpulse)
	b.ApplyPushImpulse(mulElem(c.ContactNormal.Mul(-1), b.InvMass), c.AngularComponentB, deltaImpulse)
}

// The unrolled variants below compute the same update on raw components.
// They keep every intermediate in registers and avoid the vector method
// calls of the reference kernels. Operation order matches the reference.

func resolveSingleConstraintRowGenericUnrolled(a, b *SolverBody, c *SolverConstraint) {
	n, r1, r2 := &c.ContactNormal, &c.RelPos1CrossNormal, &c.RelPos2CrossNormal
	dla, daa := &a.DeltaLinearVelocity, &a.DeltaAngularVelocity
	dlb, dab := &b.DeltaLinearVelocity, &b.DeltaAngularVelocity

	deltaImpulse := c.RHS - c.AppliedImpulse*c.CFM
	deltaVel1Dotn := (n[0]*dla[0] + n[1]*dla[1] + n[2]*dla[2]) + (r1[0]*daa[0] + r1[1]*daa[1] + r1[2]*daa[2])
	deltaVel2Dotn := -(n[0]*dlb[0] + n[1]*dlb[1] + n[2]*dlb[2]) + (r2[0]*dab[0] + r2[1]*dab[1] + r2[2]*dab[2])

	deltaImpulse -= deltaVel1Dotn * c.JacDiagABInv
	deltaImpulse -= deltaVel2Dotn * c.JacDiagABInv

	sum := c.AppliedImpulse + deltaImpulse
	if sum < c.LowerLimit {
		deltaImpulse = c.LowerLimit - c.AppliedImpulse
		c.AppliedImpulse = c.LowerLimit
	} else if sum > c.UpperLimit {
		deltaImpulse = c.UpperLimit - c.AppliedImpulse
		c.AppliedImpulse = c.UpperLimit
	} else {
		c.AppliedImpulse = sum
	}
	applyUnrolled(a, b, c, deltaImpulse)
}

func resolveSingleConstraintRowLowerLimitUnrolled(a, b *SolverBody, c *SolverConstraint) {
	n, r1, r2 := &c.ContactNormal, &c.RelPos1CrossNormal, &c.RelPos2CrossNormal
	dla, daa := &a.DeltaLinearVelocity, &a.DeltaAngularVelocity
	dlb, dab := &b.DeltaLinearVelocity, &b.DeltaAngularVelocity

	deltaImpulse := c.RHS - c.AppliedImpulse*c.CFM
	deltaVel1Dotn := (n[0]*dla[0] + n[1]*dla[1] + n[2]*dla[2]) + (r1[0]*daa[0] + r1[1]*daa[1] + r1[2]*daa[2])
	deltaVel2Dotn := -(n[0]*dlb[0] + n[1]*dlb[1] + n[2]*dlb[2]) + (r2[0]*dab[0] + r2[1]*dab[1] + r2[2]*dab[2])

	deltaImpulse -= deltaVel1Dotn * c.JacDiagABInv
	deltaImpulse -= deltaVel2Dotn * c.JacDiagABInv

	sum := c.AppliedImpulse + deltaImpulse
	if sum < c.LowerLimit {
		deltaImpulse = c.LowerLimit - c.AppliedImpulse
		c.AppliedImpulse = c.LowerLimit
	} else {
		c.AppliedImpulse = sum
	}
	applyUnrolled(a, b, c, deltaImpulse)
}

func applyUnrolled(a, b *SolverBody, c *SolverConstraint, d float64) {
	n := &c.ContactNormal
	ca, cb := &c.AngularComponentA, &c.AngularComponentB

	a.DeltaLinearVelocity[0] += n[0] * a.InvMass[0] * d
	a.DeltaLinearVelocity[1] += n[1] * a.InvMass[1] * d
	a.DeltaLinearVelocity[2] += n[2] * a.InvMass[2] * d
	a.DeltaAngularVelocity[0] += ca[0] * d
	a.DeltaAngularVelocity[1] += ca[1] * d
	a.DeltaAngularVelocity[2] += ca[2] * d

	b.DeltaLinearVelocity[0] += -n[0] * b.InvMass[0] * d
	b.DeltaLinearVelocity[1] += -n[1] * b.InvMass[1] * d
	b.DeltaLinearVelocity[2] += -n[2] * b.InvMass[2] * d
	b.DeltaAngularVelocity[0] += cb[0] * d
	b.DeltaAngularVelocity[1] += cb[1] * d
	b.DeltaAngularVelocity[2] += cb[2] * d
}

// rowKernel is the signature shared by all resolution kernels.
type rowKernel func(a, b *SolverBody, c *SolverConstraint)

// kernels picks the generic and lower-limit kernels for the solver mode.
func kernels(mode SolverMode) (generic, lowerLimit rowKernel) {
	if mode&SolverSIMD != 0 {
		return resolveSingleConstraintRowGenericUnrolled, resolveSingleConstraintRowLowerLimitUnrolled
	}
	return resolveSingleConstraintRowGeneric, resolveSingleConstraintRowLowerLimit
}
