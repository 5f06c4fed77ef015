package impulse

import "github.com/go-gl/mathgl/mgl64"

// Draw flags
const (
	DrawBodies          = 1 << 0
	DrawConstraints     = 1 << 1
	DrawCollisionPoints = 1 << 2
)

// 16 bytes
type FColor struct {
	R, G, B, A float32
}

// DebugDrawer receives line primitives from DrawSpace and from the solver.
type DebugDrawer interface {
	DrawLine(from, to mgl64.Vec3, color FColor, data any)
	DrawDot(size float64, pos mgl64.Vec3, color FColor, data any)
	DrawContactPoint(point, normal mgl64.Vec3, distance float64, lifetime int, color FColor, data any)

	Flags() uint
	BodyColor(body *Body, data any) FColor
	ConstraintColor() FColor
	CollisionPointColor() FColor
	Data() any
}

// Profiler receives scoped timing markers. Nil profilers are ignored.
type Profiler interface {
	Enter(name string)
	Leave(name string)
}

// profile enters a scope and returns the function that leaves it.
func profile(p Profiler, name string) func() {
	if p == nil {
		return func() {}
	}
	p.Enter(name)
	return func() { p.Leave(name) }
}

// DrawBody draws the local axes of a body.
func DrawBody(body *Body, drawer DebugDrawer) {
	data := drawer.Data()
	color := drawer.BodyColor(body, data)

	t := body.Transform()
	o := t.Origin
	for i := range 3 {
		var axis mgl64.Vec3
		axis[i] = 0.5
		drawer.DrawLine(o, t.Apply(axis), color, data)
	}
	drawer.DrawDot(3, o, color, data)
}

// DrawJoint draws joints with the drawer implementation
func DrawJoint(joint Joint, drawer DebugDrawer) {
	data := drawer.Data()
	color := drawer.ConstraintColor()

	bodyA := joint.BodyA()
	bodyB := joint.BodyB()

	switch joint := joint.(type) {
	case *PinJoint:
		a, _ := anchorWorld(bodyA, joint.AnchorA)
		b, _ := anchorWorld(bodyB, joint.AnchorB)

		drawer.DrawDot(5, a, color, data)
		drawer.DrawDot(5, b, color, data)
		drawer.DrawLine(a, b, color, data)
	case *SlideJoint:
		a, _ := anchorWorld(bodyA, joint.AnchorA)
		b, _ := anchorWorld(bodyB, joint.AnchorB)

		drawer.DrawDot(5, a, color, data)
		drawer.DrawDot(5, b, color, data)
		drawer.DrawLine(a, b, color, data)
	case *PivotJoint:
		a, _ := anchorWorld(bodyA, joint.AnchorA)
		b, _ := anchorWorld(bodyB, joint.AnchorB)

		drawer.DrawDot(5, a, color, data)
		drawer.DrawDot(5, b, color, data)
	case *GrooveJoint:
		a, _ := anchorWorld(bodyA, joint.GrooveA)
		b, _ := anchorWorld(bodyA, joint.GrooveB)
		c, _ := anchorWorld(bodyB, joint.AnchorB)

		drawer.DrawLine(a, b, color, data)
		drawer.DrawDot(5, c, color, data)
	// these have no anchors
	case *GearJoint:
	case *DampedRotarySpring:
	default:
		if bodyA == nil || bodyB == nil {
			return
		}
		drawer.DrawLine(bodyA.Position(), bodyB.Position(), color, data)
	}
}

// DrawManifold draws the contact points of a manifold.
func DrawManifold(m *Manifold, drawer DebugDrawer) {
	data := drawer.Data()
	color := drawer.CollisionPointColor()
	for i := range m.Points {
		cp := &m.Points[i]
		drawer.DrawContactPoint(cp.PositionWorldOnB, cp.NormalWorldOnB, cp.Distance, cp.Lifetime, color, data)
	}
}

// DrawSpace draws all bodies, joints and contact points of the space,
// filtered by the drawer flags.
func DrawSpace(space *Space, drawer DebugDrawer) {
	flags := drawer.Flags()
	if flags&DrawBodies != 0 {
		for _, body := range space.Bodies {
			DrawBody(body, drawer)
		}
	}
	if flags&DrawConstraints != 0 {
		for _, joint := range space.Joints {
			DrawJoint(joint, drawer)
		}
	}
	if flags&DrawCollisionPoints != 0 {
		for _, m := range space.Manifolds {
			DrawManifold(m, drawer)
		}
	}
}
