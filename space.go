package impulse

import (
	"log"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
)

// CollideFunc refreshes the manifolds of a space, usually through Manifold.Update.
// It runs after velocities are integrated and before the solver.
type CollideFunc func(space *Space)

// Space is a minimal island: it integrates its bodies around one Solver.
type Space struct {
	UserData any

	// Gravity to pass to rigid bodies when integrating velocity.
	Gravity mgl64.Vec3

	// Config is handed to the solver on every step; its TimeStep is
	// overwritten by the step's dt.
	Config *Config

	Bodies    []*Body
	Manifolds []*Manifold
	Joints    []Joint

	// CollideFunc, when set, refreshes the manifolds each step. Without it,
	// manifolds are refreshed from the bodies' new transforms after each step.
	CollideFunc CollideFunc

	// Drawer and Profiler are forwarded to the solver. Both may be nil.
	Drawer   DebugDrawer
	Profiler Profiler

	solver    *Solver
	postSteps []postStep
	stamp     uint
	currDT    float64
	locked    bool
}

// NewSpace allocates and initializes a Space
func NewSpace() *Space {
	return &Space{
		Config:    DefaultConfig(),
		Bodies:    []*Body{},
		Manifolds: []*Manifold{},
		Joints:    []Joint{},
		solver:    NewSolver(),
	}
}

// Solver returns the solver owned by the space.
func (s *Space) Solver() *Solver {
	return s.solver
}

// AddBody adds body to the space.
//
// Do not add the same Body twice.
func (s *Space) AddBody(body *Body) *Body {
	s.assertUnlocked()
	s.Bodies = append(s.Bodies, body)
	return body
}

// RemoveBody removes a body and every manifold and joint that references it.
func (s *Space) RemoveBody(body *Body) {
	s.assertUnlocked()
	s.Bodies = slices.DeleteFunc(s.Bodies, func(b *Body) bool {
		return b == body
	})
	s.Manifolds = slices.DeleteFunc(s.Manifolds, func(m *Manifold) bool {
		return m.BodyA == body || m.BodyB == body
	})
	s.Joints = slices.DeleteFunc(s.Joints, func(j Joint) bool {
		return j.BodyA() == body || j.BodyB() == body
	})
}

func (s *Space) ContainsBody(body *Body) bool {
	return slices.Contains(s.Bodies, body)
}

func (s *Space) AddJoint(joint Joint) Joint {
	s.assertUnlocked()
	s.Joints = append(s.Joints, joint)
	return joint
}

func (s *Space) RemoveJoint(joint Joint) {
	s.assertUnlocked()
	s.Joints = slices.DeleteFunc(s.Joints, func(j Joint) bool {
		return j == joint
	})
}

// Manifold returns the manifold between a and b in either order, creating it
// when the pair has none yet.
func (s *Space) Manifold(a, b *Body) *Manifold {
	for _, m := range s.Manifolds {
		if (m.BodyA == a && m.BodyB == b) || (m.BodyA == b && m.BodyB == a) {
			return m
		}
	}
	m := NewManifold(a, b)
	if s.Config != nil {
		m.ContactBreakingThreshold = s.Config.ContactBreakingThreshold
	}
	s.Manifolds = append(s.Manifolds, m)
	return m
}

func (s *Space) RemoveManifold(manifold *Manifold) {
	s.Manifolds = slices.DeleteFunc(s.Manifolds, func(m *Manifold) bool {
		return m == manifold
	})
}

// Step makes the space step forward in time by dt.
func (s *Space) Step(dt float64) {
	if dt == 0 {
		return
	}

	s.stamp++
	s.currDT = dt

	cfg := *s.Config
	cfg.TimeStep = dt

	s.locked = true
	{
		// Integrate velocities.
		gravity := s.Gravity
		for _, body := range s.Bodies {
			body.velocityFunc(body, gravity, dt)
		}

		// Find contacts.
		if s.CollideFunc != nil {
			s.CollideFunc(s)
		}

		// Run the impulse solver.
		s.solver.SolveGroup(s.Bodies, s.Manifolds, s.Joints, &cfg, s.Drawer, s.Profiler)

		// Integrate positions
		for _, body := range s.Bodies {
			body.positionFunc(body, dt)
		}

		if s.CollideFunc == nil {
			for _, m := range s.Manifolds {
				m.RefreshContactPoints()
			}
		}
	}
	s.locked = false
	s.runPostSteps()
}

// Stamp returns the number of steps taken.
func (s *Space) Stamp() uint {
	return s.stamp
}

func (s *Space) TimeStep() float64 {
	return s.currDT
}

// IsLocked reports whether the space is inside Step, where bodies, joints and
// manifolds cannot be added or removed.
func (s *Space) IsLocked() bool {
	return s.locked
}

func (s *Space) assertUnlocked() {
	if s.locked {
		log.Fatalln("impulse: bodies and joints cannot be added or removed during Space.Step; use a post-step callback")
	}
}

// PostStepFunc edits the space once the solver results of a step are in.
type PostStepFunc func(space *Space, key, data any)

type postStep struct {
	f         PostStepFunc
	key, data any
}

// AddPostStepCallback schedules f to run at the end of the current step, after
// velocities and positions are final. Only one callback is kept per non-nil
// key; a second one for the same key is refused and false is returned.
func (s *Space) AddPostStepCallback(f PostStepFunc, key, data any) bool {
	if key != nil && slices.ContainsFunc(s.postSteps, func(p postStep) bool { return p.key == key }) {
		return false
	}
	s.postSteps = append(s.postSteps, postStep{f: f, key: key, data: data})
	return true
}

// runPostSteps runs the scheduled callbacks once. Callbacks they schedule run
// after the next step.
func (s *Space) runPostSteps() {
	pending := s.postSteps
	s.postSteps = nil
	for _, p := range pending {
		if p.f != nil {
			p.f(s, p.key, p.data)
		}
	}
}
