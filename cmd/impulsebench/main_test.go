package main

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/setanarut/impulse"
)

func TestScenariosStayFinite(t *testing.T) {
	for name, build := range scenarios {
		space := impulse.NewSpace()
		space.Gravity = gravity
		build(space)
		for range 120 {
			space.Step(space.Config.TimeStep)
		}
		for _, body := range space.Bodies {
			p := body.Position()
			if math.IsNaN(p.Len()) || math.IsInf(p.Len(), 0) {
				t.Errorf("%s: body %v at %v", name, body, p)
			}
		}
		if impulse.DebugInfo(space) == "" {
			t.Errorf("%s: empty summary", name)
		}
	}
}

func TestBoxScenarioLands(t *testing.T) {
	space := impulse.NewSpace()
	space.Gravity = gravity
	boxScenario(space)
	for range 180 {
		space.Step(1.0 / 60)
	}
	box := space.Bodies[1]
	if y := box.Position().Y(); y < 0.4 || y > 0.55 {
		t.Error("box should land on the ground, y =", y)
	}
}

func TestDropFallenRemovesBodies(t *testing.T) {
	space := impulse.NewSpace()
	space.Gravity = gravity
	boxScenario(space)
	dropFallen(space)

	box := space.Bodies[1]
	box.SetPosition(mgl64.Vec3{0, 2 * killY, 0})
	space.Step(1.0 / 60)
	if space.ContainsBody(box) {
		t.Error("a body below the kill height should be removed")
	}
	if len(space.Manifolds) != 0 {
		t.Error("its manifold should go with it")
	}
}
