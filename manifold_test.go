package impulse_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/setanarut/impulse"
	"github.com/setanarut/vec"
)

func TestManifoldAddPointReplacesShallowest(t *testing.T) {
	body := impulse.NewBody(1, mgl64.Vec3{1, 1, 1})
	m := impulse.NewManifold(body, nil)
	n := mgl64.Vec3{0, 1, 0}
	for i, d := range []float64{-0.1, -0.05, 0.01, -0.2} {
		m.AddPoint(mgl64.Vec3{float64(i), 0, 0}, mgl64.Vec3{}, n, d)
	}
	m.AddPoint(mgl64.Vec3{9, 0, 0}, mgl64.Vec3{}, n, -0.3)

	if len(m.Points) != impulse.MaxContactsPerManifold {
		t.Fatal("manifold grew past its capacity")
	}
	if m.Points[2].Distance != -0.3 || m.Points[2].PositionWorldOnA.X() != 9 {
		t.Error("the shallowest point should be replaced, got", m.Points[2])
	}
}

func TestManifoldNewPointUsesLocalFrames(t *testing.T) {
	a := impulse.NewBody(1, mgl64.Vec3{1, 1, 1})
	a.SetPosition(mgl64.Vec3{0, 2, 0})
	m := impulse.NewManifold(a, nil)
	m.Friction = 0.7
	m.Restitution = 0.1

	cp := m.NewPoint(mgl64.Vec3{1, 1, 0}, mgl64.Vec3{1, 1, 0}, mgl64.Vec3{0, 1, 0}, 0)
	if cp.LocalPointA != (mgl64.Vec3{1, -1, 0}) {
		t.Error("local point on A", cp.LocalPointA)
	}
	if cp.LocalPointB != (mgl64.Vec3{1, 1, 0}) {
		t.Error("local point on the world", cp.LocalPointB)
	}
	if cp.CombinedFriction != 0.7 || cp.CombinedRestitution != 0.1 {
		t.Error("material not copied")
	}
	if len(m.Points) != 0 {
		t.Error("NewPoint must not add the point")
	}
}

func TestManifoldUpdateCarriesImpulses(t *testing.T) {
	box, _, m := boxOnGround(mgl64.Vec3{})
	for i := range m.Points {
		m.Points[i].AppliedImpulse = float64(i + 1)
		m.Points[i].LateralImpulse = vec.Vec2{X: 0.5, Y: -0.5}
		m.Points[i].LateralFrictionInitialized = true
		m.Points[i].Lifetime = 3
	}

	n := mgl64.Vec3{0, 1, 0}
	// first corner moved slightly, second one far away, the others are gone
	moved := box.LocalToWorld(mgl64.Vec3{-0.5, -0.5, -0.495})
	far := box.LocalToWorld(mgl64.Vec3{0, -0.5, 0})
	m.Update([]impulse.ContactPoint{
		m.NewPoint(moved, moved, n, 0),
		m.NewPoint(far, far, n, 0),
	})

	if len(m.Points) != 2 {
		t.Fatal("expected the fresh points only, got", len(m.Points))
	}
	kept := m.Points[0]
	if kept.AppliedImpulse != 1 || kept.LateralImpulse.X != 0.5 || !kept.LateralFrictionInitialized || kept.Lifetime != 4 {
		t.Error("matched point lost its state", kept)
	}
	fresh := m.Points[1]
	if fresh.AppliedImpulse != 0 || fresh.LateralImpulse != (vec.Vec2{}) || fresh.LateralFrictionInitialized || fresh.Lifetime != 0 {
		t.Error("unmatched point should start fresh", fresh)
	}
}

func TestManifoldUpdateMatchesOnce(t *testing.T) {
	_, _, m := boxOnGround(mgl64.Vec3{})
	m.Points = m.Points[:1]
	m.Points[0].AppliedImpulse = 2
	p := m.Points[0].PositionWorldOnA
	n := mgl64.Vec3{0, 1, 0}

	m.Update([]impulse.ContactPoint{m.NewPoint(p, p, n, 0), m.NewPoint(p, p, n, 0)})
	if m.Points[0].AppliedImpulse != 2 || m.Points[1].AppliedImpulse != 0 {
		t.Error("an old point can feed a single fresh point")
	}
}

func TestManifoldRefreshDropsSeparatedPoints(t *testing.T) {
	box, _, m := boxOnGround(mgl64.Vec3{})
	box.SetPosition(mgl64.Vec3{0, 0.51, 0})
	m.RefreshContactPoints()
	if len(m.Points) != 4 {
		t.Fatal("points within the breaking threshold should stay, got", len(m.Points))
	}
	for i := range m.Points {
		if !near(m.Points[i].Distance, 0.01, 1e-12) || m.Points[i].Lifetime != 1 {
			t.Error("point not refreshed", m.Points[i])
		}
	}

	box.SetPosition(mgl64.Vec3{0, 0.6, 0})
	m.RefreshContactPoints()
	if len(m.Points) != 0 {
		t.Error("separated points should be dropped, got", len(m.Points))
	}
}

func TestManifoldRefreshDropsSlidPoints(t *testing.T) {
	box, _, m := boxOnGround(mgl64.Vec3{})
	box.SetPosition(mgl64.Vec3{0.1, 0.5, 0})
	m.RefreshContactPoints()
	if len(m.Points) != 0 {
		t.Error("points that slid past the threshold should be dropped, got", len(m.Points))
	}
}

func TestContactPointTotalImpulse(t *testing.T) {
	cp := impulse.ContactPoint{
		NormalWorldOnB:      mgl64.Vec3{0, 1, 0},
		LateralFrictionDir1: mgl64.Vec3{1, 0, 0},
		LateralFrictionDir2: mgl64.Vec3{0, 0, 1},
		AppliedImpulse:      2,
		LateralImpulse:      vec.Vec2{X: -0.5, Y: 0.25},
	}
	if got := cp.TotalImpulse(); got != (mgl64.Vec3{-0.5, 2, 0.25}) {
		t.Error("total impulse", got)
	}
}

func TestManifoldFrictionImpulse(t *testing.T) {
	_, _, m := boxOnGround(mgl64.Vec3{})
	m.Points[0].AppliedImpulse = 1
	m.Points[0].LateralImpulse = vec.Vec2{X: 0.3, Y: 0.4}
	m.Points[1].LateralImpulse = vec.Vec2{X: 1}

	sum, ratio := m.FrictionImpulse()
	if !near(sum.X, 1.3, 1e-12) || !near(sum.Y, 0.4, 1e-12) {
		t.Error("sum", sum)
	}
	if !near(ratio, 0.5, 1e-12) {
		t.Error("ratio", ratio)
	}
}

func TestManifoldIsStatic(t *testing.T) {
	dynamic := impulse.NewBody(1, mgl64.Vec3{1, 1, 1})
	if impulse.NewManifold(dynamic, nil).IsStatic() {
		t.Error("a dynamic body makes the pair solvable")
	}
	if !impulse.NewManifold(impulse.NewStaticBody(), impulse.NewKinematicBody()).IsStatic() {
		t.Error("static against kinematic is never solved")
	}
}
