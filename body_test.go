package impulse_test

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/setanarut/impulse"
)

func TestBodyMass(t *testing.T) {
	body := impulse.NewBody(4, mgl64.Vec3{1, 2, 4})
	if body.InverseMass() != 0.25 {
		t.Error("inverse mass", body.InverseMass())
	}

	body.SetType(impulse.Static)
	if body.InverseMass() != 0 || body.InverseInertiaWorld() != (mgl64.Mat3{}) {
		t.Error("static bodies have infinite mass")
	}
	if body.Mass() != 4 {
		t.Error("the mass is kept for when the body becomes dynamic again")
	}

	body.SetType(impulse.Dynamic)
	if body.InverseMass() != 0.25 {
		t.Error("inverse mass after becoming dynamic", body.InverseMass())
	}
}

func TestBodyStaticIsImmovable(t *testing.T) {
	body := impulse.NewStaticBody()
	body.SetVelocity(mgl64.Vec3{1, 0, 0})
	body.ApplyImpulseAtWorldPoint(mgl64.Vec3{0, 10, 0}, mgl64.Vec3{1, 0, 0})
	impulse.BodyUpdateVelocity(body, mgl64.Vec3{0, -10, 0}, 1)
	impulse.BodyUpdatePosition(body, 1)
	if body.Position() != (mgl64.Vec3{}) {
		t.Error("static body moved", body.Position())
	}
}

func TestBodyRotatedInverseInertia(t *testing.T) {
	body := impulse.NewBody(1, mgl64.Vec3{1, 2, 4})
	body.SetRotation(mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 0, 1}))

	// a quarter turn about z swaps the x and y axes
	inv := body.InverseInertiaWorld()
	want := mgl64.Diag3(mgl64.Vec3{0.5, 1, 0.25})
	if !nearMat(inv, want, 1e-12) {
		t.Errorf("inverse inertia = %v, want %v", inv, want)
	}
}

func TestBodyApplyImpulse(t *testing.T) {
	body := impulse.NewBody(2, mgl64.Vec3{1, 1, 1})
	body.ApplyImpulseAtWorldPoint(mgl64.Vec3{0, 2, 0}, mgl64.Vec3{1, 0, 0})

	if body.Velocity() != (mgl64.Vec3{0, 1, 0}) {
		t.Error("velocity", body.Velocity())
	}
	if body.AngularVelocity() != (mgl64.Vec3{0, 0, 2}) {
		t.Error("angular velocity", body.AngularVelocity())
	}
	if v := body.VelocityAtWorldPoint(mgl64.Vec3{1, 0, 0}); !nearVec(v, mgl64.Vec3{0, 3, 0}, 1e-12) {
		t.Error("point velocity", v)
	}
}

func TestBodyLinearFactor(t *testing.T) {
	body := impulse.NewBody(1, mgl64.Vec3{1, 1, 1})
	body.SetLinearFactor(mgl64.Vec3{1, 0, 1})
	body.SetAngularFactor(mgl64.Vec3{})
	body.ApplyImpulseAtWorldPoint(mgl64.Vec3{1, 1, 0}, mgl64.Vec3{0, 0, 1})

	if body.Velocity() != (mgl64.Vec3{1, 0, 0}) || body.AngularVelocity() != (mgl64.Vec3{}) {
		t.Error("locked axes moved", body.Velocity(), body.AngularVelocity())
	}
}

func TestBodyKineticEnergy(t *testing.T) {
	body := impulse.NewBody(2, mgl64.Vec3{1, 2, 3})
	body.SetVelocity(mgl64.Vec3{3, 0, 4})
	body.SetAngularVelocity(mgl64.Vec3{0, 1, 0})
	if !near(body.KineticEnergy(), 0.5*(2*25+2), 1e-12) {
		t.Error("kinetic energy", body.KineticEnergy())
	}
	if impulse.NewStaticBody().KineticEnergy() != 0 {
		t.Error("static bodies have no kinetic energy")
	}
}

func TestBodyIntegration(t *testing.T) {
	body := impulse.NewBody(1, mgl64.Vec3{1, 1, 1})
	body.SetForce(mgl64.Vec3{6, 0, 0})
	impulse.BodyUpdateVelocity(body, mgl64.Vec3{0, -10, 0}, 0.5)

	if body.Velocity() != (mgl64.Vec3{3, -5, 0}) {
		t.Error("velocity", body.Velocity())
	}
	if body.Force() != (mgl64.Vec3{}) {
		t.Error("forces should be cleared after integration")
	}

	impulse.BodyUpdatePosition(body, 0.5)
	if !nearVec(body.Position(), mgl64.Vec3{1.5, -2.5, 0}, 1e-12) {
		t.Error("position", body.Position())
	}
}

func TestBodyDamping(t *testing.T) {
	body := impulse.NewBody(1, mgl64.Vec3{1, 1, 1})
	body.SetDamping(0.5, 0.5)
	body.SetVelocity(mgl64.Vec3{2, 0, 0})
	body.SetAngularVelocity(mgl64.Vec3{0, 2, 0})
	impulse.BodyUpdateVelocity(body, mgl64.Vec3{}, 1)

	if body.Velocity() != (mgl64.Vec3{1, 0, 0}) || body.AngularVelocity() != (mgl64.Vec3{0, 1, 0}) {
		t.Error("damping", body.Velocity(), body.AngularVelocity())
	}
}

func TestBodyWorldLocalRoundTrip(t *testing.T) {
	body := impulse.NewBody(1, mgl64.Vec3{1, 1, 1})
	body.SetPosition(mgl64.Vec3{1, 2, 3})
	body.SetRotation(mgl64.QuatRotate(0.7, mgl64.Vec3{1, 1, 0}.Normalize()))

	p := mgl64.Vec3{-4, 0.5, 2}
	if got := body.LocalToWorld(body.WorldToLocal(p)); !nearVec(got, p, 1e-12) {
		t.Error("round trip", got)
	}
}

func TestMomentForBox(t *testing.T) {
	got := impulse.MomentForBox(12, mgl64.Vec3{0.5, 1, 1.5})
	if !nearVec(got, mgl64.Vec3{13, 10, 5}, 1e-12) {
		t.Error("box inertia", got)
	}
}

func TestBodyTypeString(t *testing.T) {
	if impulse.Kinematic.String() != "kinematic" || impulse.BodyType(9).String() != "BodyType(9)" {
		t.Fail()
	}
}
