package impulse

import "math"

// finish persists impulses for warm starting, writes velocities back to the
// bodies and empties the pools.
func (s *Solver) finish(cfg *Config) {
	frictionWarmstart := cfg.SolverMode&SolverUseFrictionWarmstarting != 0
	frictionRows := frictionRowsPerContact(cfg.SolverMode)

	for j := range s.contacts.len() {
		c := s.contacts.at(j)
		cp := c.ContactPoint()
		assert(cp != nil, "contact row without a contact point")
		cp.AppliedImpulse = c.AppliedImpulse
		if frictionWarmstart {
			cp.LateralImpulse.X = s.frictions.at(c.FrictionIndex).AppliedImpulse
			if frictionRows == 2 {
				cp.LateralImpulse.Y = s.frictions.at(c.FrictionIndex + 1).AppliedImpulse
			}
		}
	}

	for _, ref := range s.joints {
		if ref.count == 0 {
			continue
		}
		r, ok := ref.joint.(impulseReporter)
		if !ok {
			continue
		}
		var sq float64
		for i := range ref.count {
			j := s.jointRows.at(ref.first + i).AppliedImpulse
			sq += j * j
		}
		r.setAppliedImpulse(math.Sqrt(sq))
	}

	for i := range s.bodies.len() {
		s.bodies.at(i).WritebackVelocity(cfg.TimeStep, cfg.SplitImpulse)
	}

	s.stats = SolverStats{
		Bodies:       s.bodies.len(),
		ContactRows:  s.contacts.len(),
		FrictionRows: s.frictions.len(),
		JointRows:    s.jointRows.len(),
		Iterations:   cfg.Iterations,
	}

	s.bodies.reset()
	s.contacts.reset()
	s.frictions.reset()
	s.jointRows.reset()
	s.joints = s.joints[:0]
	clear(s.slots)
}
