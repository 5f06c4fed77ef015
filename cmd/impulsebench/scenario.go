package main

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/setanarut/impulse"
)

var gravity = mgl64.Vec3{0, -10, 0}

var scenarios = map[string]func(*impulse.Space){
	"box":      boxScenario,
	"stack":    stackScenario,
	"pendulum": pendulumScenario,
}

// box is the collision shape the scenarios attach as body UserData.
type box struct {
	halfExtents mgl64.Vec3
}

func newBox(space *impulse.Space, mass float64, halfExtents, position mgl64.Vec3) *impulse.Body {
	body := impulse.NewBody(mass, impulse.MomentForBox(mass, halfExtents))
	body.SetPosition(position)
	body.UserData = &box{halfExtents: halfExtents}
	return space.AddBody(body)
}

// boxScenario drops one box onto the ground.
func boxScenario(space *impulse.Space) {
	ground := space.AddBody(impulse.NewStaticBody())
	b := newBox(space, 1, mgl64.Vec3{0.5, 0.5, 0.5}, mgl64.Vec3{0, 1, 0})
	b.SetVelocity(mgl64.Vec3{1, 0, 0})
	space.CollideFunc = func(space *impulse.Space) {
		collideBoxPlane(space, b, ground, 0)
	}
}

// stackScenario rests a column of boxes on the ground.
func stackScenario(space *impulse.Space) {
	ground := space.AddBody(impulse.NewStaticBody())
	half := mgl64.Vec3{0.5, 0.5, 0.5}
	boxes := []*impulse.Body{}
	for i := range 5 {
		boxes = append(boxes, newBox(space, 1, half, mgl64.Vec3{0, 0.5 + float64(i), 0}))
	}
	space.CollideFunc = func(space *impulse.Space) {
		collideBoxPlane(space, boxes[0], ground, 0)
		for i := 1; i < len(boxes); i++ {
			below := boxes[i-1]
			top := below.Position().Y() + below.UserData.(*box).halfExtents.Y()
			collideBoxPlane(space, boxes[i], below, top)
		}
	}
}

// pendulumScenario hangs a chain of boxes from a world pivot, with a spring
// on the last link, and a bead on a groove.
func pendulumScenario(space *impulse.Space) {
	half := mgl64.Vec3{0.1, 0.4, 0.1}
	var prev *impulse.Body
	for i := range 4 {
		link := newBox(space, 1, half, mgl64.Vec3{0.8*float64(i) + 0.4, 5, 0})
		link.SetRotation(mgl64.QuatRotate(mgl64.DegToRad(90), mgl64.Vec3{0, 0, 1}))
		pivot := mgl64.Vec3{0.8 * float64(i), 5, 0}
		space.AddJoint(impulse.NewPivotJoint(prev, link, pivot))
		prev = link
	}
	space.AddJoint(impulse.NewSlideJoint(nil, prev, mgl64.Vec3{0, 5, 0}, mgl64.Vec3{0, 0.4, 0}, 0, 3))
	spring := impulse.NewDampedRotarySpring(nil, prev, mgl64.Vec3{0, 0, 1}, 0, 5, 0.5)
	space.AddJoint(spring)

	// a bead on a rail beside the chain
	bead := newBox(space, 0.5, mgl64.Vec3{0.1, 0.1, 0.1}, mgl64.Vec3{-1, 4, 0})
	space.AddJoint(impulse.NewGrooveJoint(nil, bead, mgl64.Vec3{-2, 5, 0}, mgl64.Vec3{-2, 2, 0}, mgl64.Vec3{}))
}

// collideBoxPlane contacts the corners of body's box against the plane
// y = height belonging to other, keeping the four deepest corners.
func collideBoxPlane(space *impulse.Space, body, other *impulse.Body, height float64) {
	m := space.Manifold(body, other)
	n := mgl64.Vec3{0, 1, 0}
	h := body.UserData.(*box).halfExtents

	fresh := []impulse.ContactPoint{}
	for _, sx := range []float64{-1, 1} {
		for _, sy := range []float64{-1, 1} {
			for _, sz := range []float64{-1, 1} {
				corner := body.LocalToWorld(mgl64.Vec3{sx * h[0], sy * h[1], sz * h[2]})
				dist := corner.Y() - height
				if dist > m.ContactBreakingThreshold {
					continue
				}
				onB := corner.Sub(n.Mul(dist))
				fresh = append(fresh, m.NewPoint(corner, onB, n, dist))
			}
		}
	}
	sort.Slice(fresh, func(i, j int) bool {
		return fresh[i].Distance < fresh[j].Distance
	})
	if len(fresh) > impulse.MaxContactsPerManifold {
		fresh = fresh[:impulse.MaxContactsPerManifold]
	}
	m.Update(fresh)
}
