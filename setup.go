package impulse

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// getOrInitSolverBody returns the solver body index of body, creating the
// record on first use. The world anchor (nil) is always index 0.
func (s *Solver) getOrInitSolverBody(body *Body) int {
	if body == nil {
		return 0
	}
	if id, ok := s.slots[body]; ok {
		return id
	}
	id := s.bodies.expand()
	s.bodies.at(id).Init(body)
	s.slots[body] = id
	return id
}

// setup converts joints and manifolds into rows and warm starts the contacts.
func (s *Solver) setup(bodies []*Body, manifolds []*Manifold, joints []Joint, cfg *Config) {
	clear(s.slots)
	s.bodies.reset()
	s.contacts.reset()
	s.frictions.reset()
	s.jointRows.reset()
	s.bodies.at(s.bodies.expand()).Init(nil)
	for _, body := range bodies {
		s.getOrInitSolverBody(body)
	}

	s.setupJoints(joints, cfg)

	for _, m := range manifolds {
		s.convertContact(m, cfg)
	}

	s.orderContact = identityOrder(s.orderContact, s.contacts.len())
	s.orderFriction = identityOrder(s.orderFriction, s.frictions.len())
}

func (s *Solver) setupJoints(joints []Joint, cfg *Config) {
	s.joints = s.joints[:0]
	total := 0
	for _, joint := range joints {
		if e, ok := joint.(enabler); ok && !e.Enabled() {
			continue
		}
		n := joint.RowCount()
		assert(n >= 0, "joint reported a negative row count")
		s.joints = append(s.joints, jointRef{joint: joint, first: total, count: n})
		total += n
	}

	s.jointRows.expandN(total)
	if cap(s.rowView) < total {
		s.rowView = make([]JointRow, total)
	}
	s.rowView = s.rowView[:total]

	info := JointInfo{
		FPS:      1 / cfg.TimeStep,
		ERP:      cfg.ERP,
		TimeStep: cfg.TimeStep,
	}

	for k := range s.joints {
		ref := &s.joints[k]
		ref.slotA = s.getOrInitSolverBody(ref.joint.BodyA())
		ref.slotB = s.getOrInitSolverBody(ref.joint.BodyB())

		rows := s.rowView[ref.first : ref.first+ref.count]
		for i := range rows {
			rows[i].reset()
		}
		ref.joint.FillRows(rows, &info)

		sbA := s.bodies.at(ref.slotA)
		sbB := s.bodies.at(ref.slotB)
		vA, wA := bodyVelocity(ref.joint.BodyA())
		vB, wB := bodyVelocity(ref.joint.BodyB())

		for i := range rows {
			row := &rows[i]
			c := s.jointRows.at(ref.first + i)

			c.ContactNormal = row.LinearAxis
			c.RelPos1CrossNormal = row.AngularA
			c.RelPos2CrossNormal = row.AngularB
			c.LowerLimit = row.Lower
			c.UpperLimit = row.Upper
			c.CFM = row.CFM
			c.SolverBodyIDA = ref.slotA
			c.SolverBodyIDB = ref.slotB
			c.joint = ref.joint

			c.AngularComponentA = mulElem(sbA.InverseInertiaWorld().Mul3x1(row.AngularA), sbA.AngularFactor)
			c.AngularComponentB = mulElem(sbB.InverseInertiaWorld().Mul3x1(row.AngularB), sbB.AngularFactor)

			lin := row.LinearAxis
			sum := lin.Dot(mulElem(lin, sbA.InvMass)) + row.AngularA.Dot(c.AngularComponentA)
			sum += lin.Dot(mulElem(lin, sbB.InvMass)) + row.AngularB.Dot(c.AngularComponentB)
			if sum > 0 {
				c.JacDiagABInv = 1 / sum
			} else {
				c.JacDiagABInv = 0
			}

			vel1Dotn := lin.Dot(vA) + row.AngularA.Dot(wA)
			vel2Dotn := -lin.Dot(vB) + row.AngularB.Dot(wB)
			relVel := vel1Dotn + vel2Dotn

			// row.RHS holds the positional error filled in by the joint
			penetrationImpulse := row.RHS * c.JacDiagABInv
			velocityImpulse := (0 - relVel) * c.JacDiagABInv
			c.RHS = penetrationImpulse + velocityImpulse
			c.AppliedImpulse = 0
		}
	}

	for _, ref := range s.joints {
		if ci, ok := ref.joint.(CachedImpulser); ok {
			ci.ApplyCachedImpulse(s.bodies.at(ref.slotA), s.bodies.at(ref.slotB))
		}
	}
}

// convertContact builds the normal and friction rows of every point of m.
func (s *Solver) convertContact(m *Manifold, cfg *Config) {
	if m.IsStatic() {
		return
	}
	idA := s.getOrInitSolverBody(m.BodyA)
	idB := s.getOrInitSolverBody(m.BodyB)
	sbA := s.bodies.at(idA)
	sbB := s.bodies.at(idB)
	originA := bodyOrigin(m.BodyA)
	originB := bodyOrigin(m.BodyB)
	vA, wA := bodyVelocity(m.BodyA)
	vB, wB := bodyVelocity(m.BodyB)
	mode := cfg.SolverMode

	for i := range m.Points {
		cp := &m.Points[i]
		if cp.Distance > m.ContactProcessingThreshold {
			continue
		}

		relPos1 := cp.PositionWorldOnA.Sub(originA)
		relPos2 := cp.PositionWorldOnB.Sub(originB)
		vel1 := vA.Add(wA.Cross(relPos1))
		vel2 := vB.Add(wB.Cross(relPos2))
		vel := vel1.Sub(vel2)

		index := s.contacts.expand()
		c := s.contacts.at(index)
		c.SolverBodyIDA = idA
		c.SolverBodyIDB = idB
		c.originalContactPoint = cp

		relVel := s.setupContactRow(c, sbA, sbB, cp, relPos1, relPos2, vel, cfg)

		// friction
		c.FrictionIndex = s.frictions.len()
		if mode&SolverEnableFrictionDirectionCaching == 0 || !cp.LateralFrictionInitialized {
			lateral := vel.Sub(cp.NormalWorldOnB.Mul(relVel))
			lateralSq := lengthSq(lateral)
			if mode&SolverDisableVelocityDependentFrictionDirection == 0 && lateralSq > simdEpsilon {
				cp.LateralFrictionDir1 = lateral.Mul(1 / math.Sqrt(lateralSq))
				if mode&SolverUse2FrictionDirections != 0 {
					cp.LateralFrictionDir2 = cp.LateralFrictionDir1.Cross(cp.NormalWorldOnB).Normalize()
				}
			} else {
				cp.LateralFrictionDir1, cp.LateralFrictionDir2 = planeSpace(cp.NormalWorldOnB)
			}
			cp.LateralFrictionDir1 = applyAnisotropicFriction(m.BodyB, applyAnisotropicFriction(m.BodyA, cp.LateralFrictionDir1))
			s.addFrictionRow(cp.LateralFrictionDir1, index, sbA, sbB, cp, relPos1, relPos2)
			if mode&SolverUse2FrictionDirections != 0 {
				cp.LateralFrictionDir2 = applyAnisotropicFriction(m.BodyB, applyAnisotropicFriction(m.BodyA, cp.LateralFrictionDir2))
				s.addFrictionRow(cp.LateralFrictionDir2, index, sbA, sbB, cp, relPos1, relPos2)
			}
			cp.LateralFrictionInitialized = true
		} else {
			s.addFrictionRow(cp.LateralFrictionDir1, index, sbA, sbB, cp, relPos1, relPos2)
			if mode&SolverUse2FrictionDirections != 0 {
				s.addFrictionRow(cp.LateralFrictionDir2, index, sbA, sbB, cp, relPos1, relPos2)
			}
		}

		s.warmstartFriction(s.contacts.at(index), sbA, sbB, cp, cfg)
	}
}

// setupContactRow fills the non-penetration row c and returns the normal
// relative velocity at the point.
func (s *Solver) setupContactRow(c *SolverConstraint, sbA, sbB *SolverBody, cp *ContactPoint, relPos1, relPos2, vel mgl64.Vec3, cfg *Config) float64 {
	n := cp.NormalWorldOnB

	torqueAxis0 := relPos1.Cross(n)
	torqueAxis1 := relPos2.Cross(n)
	c.AngularComponentA = mulElem(sbA.InverseInertiaWorld().Mul3x1(torqueAxis0), sbA.AngularFactor)
	c.AngularComponentB = mulElem(sbB.InverseInertiaWorld().Mul3x1(torqueAxis1.Mul(-1)), sbB.AngularFactor)

	denom0 := n.Dot(mulElem(n, sbA.InvMass)) + n.Dot(c.AngularComponentA.Cross(relPos1))
	denom1 := n.Dot(mulElem(n, sbB.InvMass)) + n.Dot(c.AngularComponentB.Mul(-1).Cross(relPos2))
	const relaxation = 1.0
	if denom := denom0 + denom1; denom > 0 {
		c.JacDiagABInv = relaxation / denom
	} else {
		c.JacDiagABInv = 0
	}

	c.ContactNormal = n
	c.RelPos1CrossNormal = torqueAxis0
	c.RelPos2CrossNormal = torqueAxis1.Mul(-1)

	relVel := n.Dot(vel)
	penetration := cp.Distance + cfg.LinearSlop
	c.Friction = cp.CombinedFriction

	restitution := 0.0
	if cp.Lifetime <= cfg.RestingContactRestitutionThreshold {
		restitution = math.Max(0, cp.CombinedRestitution*-relVel)
	}

	if cfg.SolverMode&SolverUseWarmstarting != 0 {
		c.AppliedImpulse = cp.AppliedImpulse * cfg.WarmstartingFactor
		sbA.ApplyImpulse(mulElem(n, sbA.InvMass), c.AngularComponentA, c.AppliedImpulse)
		sbB.ApplyImpulse(mulElem(n.Mul(-1), sbB.InvMass), c.AngularComponentB, c.AppliedImpulse)
	} else {
		c.AppliedImpulse = 0
	}
	c.AppliedPushImpulse = 0

	velocityError := restitution - relVel
	positionalError := 0.0
	if penetration > 0 {
		// separated: allow closing the gap within this step
		velocityError -= penetration / cfg.TimeStep
	} else {
		positionalError = -penetration * cfg.ERP / cfg.TimeStep
	}

	penetrationImpulse := positionalError * c.JacDiagABInv
	velocityImpulse := velocityError * c.JacDiagABInv
	if !cfg.SplitImpulse || penetration > cfg.SplitImpulsePenetrationThreshold {
		c.RHS = penetrationImpulse + velocityImpulse
		c.RHSPenetration = 0
	} else {
		c.RHS = velocityImpulse
		c.RHSPenetration = penetrationImpulse
	}

	c.CFM = 0
	c.LowerLimit = 0
	c.UpperLimit = bigImpulse
	return relVel
}

// addFrictionRow appends a friction row along dir for the normal row at normalIndex.
func (s *Solver) addFrictionRow(dir mgl64.Vec3, normalIndex int, sbA, sbB *SolverBody, cp *ContactPoint, relPos1, relPos2 mgl64.Vec3) {
	index := s.frictions.expand()
	f := s.frictions.at(index)
	n := s.contacts.at(normalIndex)

	f.ContactNormal = dir
	f.SolverBodyIDA = n.SolverBodyIDA
	f.SolverBodyIDB = n.SolverBodyIDB
	f.originalContactPoint = cp
	f.Friction = cp.CombinedFriction
	f.FrictionIndex = normalIndex

	ftorqueAxis0 := relPos1.Cross(dir)
	ftorqueAxis1 := relPos2.Cross(dir.Mul(-1))
	f.RelPos1CrossNormal = ftorqueAxis0
	f.RelPos2CrossNormal = ftorqueAxis1
	f.AngularComponentA = mulElem(sbA.InverseInertiaWorld().Mul3x1(ftorqueAxis0), sbA.AngularFactor)
	f.AngularComponentB = mulElem(sbB.InverseInertiaWorld().Mul3x1(ftorqueAxis1), sbB.AngularFactor)

	denom0 := dir.Dot(mulElem(dir, sbA.InvMass)) + dir.Dot(f.AngularComponentA.Cross(relPos1))
	denom1 := dir.Dot(mulElem(dir, sbB.InvMass)) + dir.Dot(f.AngularComponentB.Mul(-1).Cross(relPos2))
	const relaxation = 1.0
	denom := denom0 + denom1
	if denom > 0 {
		f.JacDiagABInv = relaxation / denom
	} else {
		f.JacDiagABInv = 0
	}

	vA, wA := bodyVelocity(sbA.body)
	vB, wB := bodyVelocity(sbB.body)
	vel1Dotn := dir.Dot(vA) + ftorqueAxis0.Dot(wA)
	vel2Dotn := -dir.Dot(vB) + ftorqueAxis1.Dot(wB)
	relVel := vel1Dotn + vel2Dotn

	f.RHS = (0 - relVel) * f.JacDiagABInv
	f.CFM = 0
	f.LowerLimit = -infinity
	f.UpperLimit = infinity
	f.AppliedImpulse = 0
	f.AppliedPushImpulse = 0
}

// warmstartFriction starts the friction rows of normal row c from the
// impulses persisted on cp.
func (s *Solver) warmstartFriction(c *SolverConstraint, sbA, sbB *SolverBody, cp *ContactPoint, cfg *Config) {
	if cfg.SolverMode&SolverUseFrictionWarmstarting == 0 {
		return
	}
	impulses := [2]float64{cp.LateralImpulse.X, cp.LateralImpulse.Y}
	count := frictionRowsPerContact(cfg.SolverMode)
	for k := range count {
		f := s.frictions.at(c.FrictionIndex + k)
		f.AppliedImpulse = impulses[k] * cfg.WarmstartingFactor
		sbA.ApplyImpulse(mulElem(f.ContactNormal, sbA.InvMass), f.AngularComponentA, f.AppliedImpulse)
		sbB.ApplyImpulse(mulElem(f.ContactNormal.Mul(-1), sbB.InvMass), f.AngularComponentB, f.AppliedImpulse)
	}
}

func frictionRowsPerContact(mode SolverMode) int {
	if mode&SolverUse2FrictionDirections != 0 {
		return 2
	}
	return 1
}

// applyAnisotropicFriction scales dir by the body's per-axis friction in its local frame.
func applyAnisotropicFriction(body *Body, dir mgl64.Vec3) mgl64.Vec3 {
	if body == nil || !body.anisotropic {
		return dir
	}
	local := body.transform.InverseApplyVector(dir)
	local = mulElem(local, body.anisotropicFriction)
	return body.transform.ApplyVector(local)
}

func bodyOrigin(body *Body) mgl64.Vec3 {
	if body == nil {
		return mgl64.Vec3{}
	}
	return body.transform.Origin
}

func bodyVelocity(body *Body) (linear, angular mgl64.Vec3) {
	if body == nil {
		return
	}
	return body.velocity, body.angularVelocity
}
