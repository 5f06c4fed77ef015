package impulse

// iterate runs cfg.Iterations sweeps over all rows.
func (s *Solver) iterate(cfg *Config) {
	generic, lowerLimit := kernels(cfg.SolverMode)
	randomOrder := cfg.SolverMode&SolverRandomOrder != 0

	for iteration := 0; iteration < cfg.Iterations; iteration++ {
		if randomOrder && iteration&7 == 0 {
			s.rng.shuffle(s.orderContact)
			s.rng.shuffle(s.orderFriction)
		}

		// joint rows, in order
		for j := range s.jointRows.len() {
			c := s.jointRows.at(j)
			generic(s.bodies.at(c.SolverBodyIDA), s.bodies.at(c.SolverBodyIDB), c)
		}
		for _, ref := range s.joints {
			if it, ok := ref.joint.(LegacyIterator); ok {
				it.IterateLegacy(s.bodies.at(ref.slotA), s.bodies.at(ref.slotB), cfg.TimeStep)
			}
		}

		// non-penetration
		for _, j := range s.orderContact {
			c := s.contacts.at(j)
			lowerLimit(s.bodies.at(c.SolverBodyIDA), s.bodies.at(c.SolverBodyIDB), c)
		}

		// friction, bounded by the current normal impulse
		for _, j := range s.orderFriction {
			f := s.frictions.at(j)
			totalImpulse := s.contacts.at(f.FrictionIndex).AppliedImpulse
			if totalImpulse > 0 {
				f.LowerLimit = -(f.Friction * totalImpulse)
				f.UpperLimit = f.Friction * totalImpulse
			} else {
				// no normal force: take back any warm-started friction
				f.LowerLimit, f.UpperLimit = 0, 0
			}
			generic(s.bodies.at(f.SolverBodyIDA), s.bodies.at(f.SolverBodyIDB), f)
		}

		if cfg.SplitImpulse {
			for _, j := range s.orderContact {
				c := s.contacts.at(j)
				resolveSplitPenetrationImpulse(s.bodies.at(c.SolverBodyIDA), s.bodies.at(c.SolverBodyIDB), c)
			}
		}
	}
}
