package impulse

// Solver is a sequential impulse constraint solver.
//
// A Solver is not safe for concurrent use. Independent islands can be solved
// in parallel with one Solver each, as long as they share no contact point
// and no joint.
type Solver struct {
	bodies    pool[SolverBody]
	contacts  pool[SolverConstraint]
	frictions pool[SolverConstraint]
	jointRows pool[SolverConstraint]

	orderContact  []int
	orderFriction []int

	// scratch handed to Joint.FillRows
	rowView []JointRow
	joints  []jointRef

	// slots maps a body to its solver body index for the current solve.
	slots map[*Body]int

	rng   lcg
	stats SolverStats
}

// jointRef records where the rows of one joint live.
type jointRef struct {
	joint        Joint
	first, count int
	slotA, slotB int
}

// SolverStats describes the last call to SolveGroup.
type SolverStats struct {
	Bodies       int
	ContactRows  int
	FrictionRows int
	JointRows    int
	Iterations   int
}

// NewSolver returns a solver with a zero seed.
func NewSolver() *Solver {
	return &Solver{
		slots: map[*Body]int{},
	}
}

// Reset zeroes the seed of the row shuffle, so the next solves reproduce the
// orders of a fresh solver.
func (s *Solver) Reset() {
	s.rng.seed = 0
}

// Seed returns the current seed of the row shuffle.
func (s *Solver) Seed() uint32 {
	return s.rng.seed
}

// Stats returns the row counts of the last solve.
func (s *Solver) Stats() SolverStats {
	return s.stats
}

// SolveGroup solves the contacts of manifolds and the rows of joints for one
// time step and writes the resulting velocities back to the bodies.
//
// Every body of the island gets a solver body in the order of bodies; bodies
// only reached through a manifold or a joint are appended after them.
// Impulses of contact points are read for warm starting and written back at
// the end. drawer and profiler may be nil. The result is reserved for a
// solver residual and is always 0.
func (s *Solver) SolveGroup(bodies []*Body, manifolds []*Manifold, joints []Joint, cfg *Config, drawer DebugDrawer, profiler Profiler) float64 {
	defer profile(profiler, "solveGroup")()

	assert(cfg != nil, "nil solver config")
	assert(cfg.Iterations >= 0, "negative iteration count ", cfg.Iterations)
	if len(manifolds)+len(joints) == 0 {
		s.stats = SolverStats{}
		return 0
	}
	if s.slots == nil {
		s.slots = make(map[*Body]int, len(bodies))
	}

	leave := profile(profiler, "solveGroupCacheFriendlySetup")
	s.setup(bodies, manifolds, joints, cfg)
	leave()

	leave = profile(profiler, "solveGroupCacheFriendlyIterations")
	s.iterate(cfg)
	leave()

	leave = profile(profiler, "solveGroupCacheFriendlyFinish")
	s.finish(cfg)
	leave()

	if drawer != nil && drawer.Flags()&DrawCollisionPoints != 0 {
		for _, m := range manifolds {
			DrawManifold(m, drawer)
		}
	}
	return 0
}
