package impulse

import (
	"fmt"
	"log"

	"github.com/go-gl/mathgl/mgl64"
)

var bodyCur int = 0

// BodyVelocityFunc is rigid body velocity update function type.
type BodyVelocityFunc func(body *Body, gravity mgl64.Vec3, dt float64)

// BodyPositionFunc is rigid body position update function type.
type BodyPositionFunc func(body *Body, dt float64)

type Body struct {
	// UserData is an object that this body is associated with.
	//
	// You can use this get a reference to your game object or controller object from within callbacks.
	UserData any

	id                  int              // Body id
	bodyType            BodyType         // Dynamic, Kinematic or Static
	velocityFunc        BodyVelocityFunc // Integration function
	positionFunc        BodyPositionFunc // Integration function
	mass                float64          // Mass
	massInverse         float64          // Mass inverse
	linearFactor        mgl64.Vec3       // Per-axis multiplier on linear response
	angularFactor       mgl64.Vec3       // Per-axis multiplier on angular response
	inertiaLocal        mgl64.Vec3       // Diagonal of the local inertia tensor
	inertiaInverseLocal mgl64.Vec3       // Diagonal of the local inverse inertia tensor
	inertiaInverseWorld mgl64.Mat3       // R * diag(inertiaInverseLocal) * R^T
	transform           Transform
	velocity            mgl64.Vec3 // Linear velocity
	angularVelocity     mgl64.Vec3 // Angular velocity (world space)
	force               mgl64.Vec3 // Force
	torque              mgl64.Vec3 // Torque
	linearDamping       float64
	angularDamping      float64
	anisotropicFriction mgl64.Vec3
	anisotropic         bool
}

// String returns body id as string
func (b Body) String() string {
	return fmt.Sprint("Body ", b.id, " (", b.bodyType, ")")
}

// NewBody Initializes a rigid body with the given mass and diagonal local inertia.
//
// Use the MomentFor* helpers to estimate the inertia of common primitives.
func NewBody(mass float64, inertia mgl64.Vec3) *Body {
	body := &Body{
		id:                  bodyCur,
		transform:           NewTransformIdentity(),
		velocityFunc:        BodyUpdateVelocity,
		positionFunc:        BodyUpdatePosition,
		linearFactor:        mgl64.Vec3{1, 1, 1},
		angularFactor:       mgl64.Vec3{1, 1, 1},
		anisotropicFriction: mgl64.Vec3{1, 1, 1},
	}
	bodyCur++
	body.SetMass(mass)
	body.SetInertia(inertia)
	return body
}

// NewStaticBody allocates and initializes a Body, and set it as a static body.
func NewStaticBody() *Body {
	body := NewBody(0, mgl64.Vec3{})
	body.SetType(Static)
	return body
}

// NewKinematicBody allocates and initializes a Body, and set it as a kinematic body.
func NewKinematicBody() *Body {
	body := NewBody(0, mgl64.Vec3{})
	body.SetType(Kinematic)
	return body
}

// ID returns the process-unique id of the body.
func (body *Body) ID() int {
	return body.id
}

// Mass returns mass of the body
func (body *Body) Mass() float64 {
	return body.mass
}

// InverseMass returns the inverse mass of the body, zero for static and kinematic bodies.
func (body *Body) InverseMass() float64 {
	return body.massInverse
}

// SetMass sets mass of the body. A zero mass makes the body immovable.
func (body *Body) SetMass(mass float64) {
	if mass < 0 {
		log.Fatalln("Body mass must be non-negative")
	}
	body.mass = mass
	if mass == 0 || body.bodyType != Dynamic {
		body.massInverse = 0
		return
	}
	body.massInverse = 1 / mass
}

// Inertia returns the diagonal of the local inertia tensor.
func (body *Body) Inertia() mgl64.Vec3 {
	return body.inertiaLocal
}

// SetInertia sets the diagonal of the local inertia tensor.
//
// Axes with zero inertia do not rotate.
func (body *Body) SetInertia(inertia mgl64.Vec3) {
	body.inertiaLocal = inertia
	for i := range 3 {
		if inertia[i] != 0 && body.bodyType == Dynamic {
			body.inertiaInverseLocal[i] = 1 / inertia[i]
		} else {
			body.inertiaInverseLocal[i] = 0
		}
	}
	body.updateInertiaTensor()
}

// InverseInertiaWorld returns the world space inverse inertia tensor.
func (body *Body) InverseInertiaWorld() mgl64.Mat3 {
	return body.inertiaInverseWorld
}

func (body *Body) updateInertiaTensor() {
	r := body.transform.Basis
	body.inertiaInverseWorld = r.Mul3(mgl64.Diag3(body.inertiaInverseLocal)).Mul3(r.Transpose())
}

// SetType sets the type of the body.
func (body *Body) SetType(bt BodyType) {
	if body.bodyType == bt {
		return
	}
	body.bodyType = bt
	if bt != Dynamic {
		body.velocity = mgl64.Vec3{}
		body.angularVelocity = mgl64.Vec3{}
	}
	body.SetMass(body.mass)
	body.SetInertia(body.inertiaLocal)
}

// Type returns the type of the body.
func (body *Body) Type() BodyType {
	return body.bodyType
}

// LinearFactor returns the per-axis linear response multiplier.
func (body *Body) LinearFactor() mgl64.Vec3 {
	return body.linearFactor
}

// SetLinearFactor sets the per-axis linear response multiplier. Zero locks an axis.
func (body *Body) SetLinearFactor(f mgl64.Vec3) {
	body.linearFactor = f
}

// AngularFactor returns the per-axis angular response multiplier.
func (body *Body) AngularFactor() mgl64.Vec3 {
	return body.angularFactor
}

// SetAngularFactor sets the per-axis angular response multiplier. Zero locks an axis.
func (body *Body) SetAngularFactor(f mgl64.Vec3) {
	body.angularFactor = f
}

// AnisotropicFriction returns the per-axis friction scaling in body local space.
func (body *Body) AnisotropicFriction() mgl64.Vec3 {
	return body.anisotropicFriction
}

// SetAnisotropicFriction sets the per-axis friction scaling in body local space.
func (body *Body) SetAnisotropicFriction(f mgl64.Vec3) {
	body.anisotropicFriction = f
	body.anisotropic = f != mgl64.Vec3{1, 1, 1}
}

// HasAnisotropicFriction reports whether friction differs per local axis.
func (body *Body) HasAnisotropicFriction() bool {
	return body.anisotropic
}

// SetDamping sets the linear and angular damping rates (fraction of velocity lost per second).
func (body *Body) SetDamping(linear, angular float64) {
	body.linearDamping = clamp(linear, 0, 1)
	body.angularDamping = clamp(angular, 0, 1)
}

// Position returns the position of the body.
func (body *Body) Position() mgl64.Vec3 {
	return body.transform.Origin
}

// SetPosition sets the position of the body.
func (body *Body) SetPosition(position mgl64.Vec3) {
	body.transform.Origin = position
}

// Rotation returns the orientation of the body.
func (body *Body) Rotation() mgl64.Quat {
	return body.transform.Rotation
}

// SetRotation sets the orientation of the body.
func (body *Body) SetRotation(rotation mgl64.Quat) {
	body.SetTransform(NewTransform(rotation, body.transform.Origin))
}

// Transform returns body's transform
func (body *Body) Transform() Transform {
	return body.transform
}

// SetTransform sets transform and refreshes the world inertia tensor.
func (body *Body) SetTransform(t Transform) {
	body.transform = t
	body.updateInertiaTensor()
}

// Velocity returns the velocity of the body.
func (body *Body) Velocity() mgl64.Vec3 {
	return body.velocity
}

// SetVelocity sets the velocity of the body.
func (body *Body) SetVelocity(v mgl64.Vec3) {
	body.velocity = v
}

// AngularVelocity returns the angular velocity of the body.
func (body *Body) AngularVelocity() mgl64.Vec3 {
	return body.angularVelocity
}

// SetAngularVelocity sets the angular velocity of the body.
func (body *Body) SetAngularVelocity(w mgl64.Vec3) {
	body.angularVelocity = w
}

// Force returns the force applied to the body for the next time step.
func (body *Body) Force() mgl64.Vec3 {
	return body.force
}

// SetForce sets the force applied to the body for the next time step.
func (body *Body) SetForce(force mgl64.Vec3) {
	body.force = force
}

// Torque returns the torque applied to the body for the next time step.
func (body *Body) Torque() mgl64.Vec3 {
	return body.torque
}

// SetTorque sets the torque applied to the body for the next time step.
func (body *Body) SetTorque(torque mgl64.Vec3) {
	body.torque = torque
}

// KineticEnergy returns the kinetic energy of this body.
func (body *Body) KineticEnergy() float64 {
	if body.massInverse == 0 {
		return 0
	}
	w := body.transform.InverseApplyVector(body.angularVelocity)
	return 0.5 * (body.mass*lengthSq(body.velocity) + mulElem(body.inertiaLocal, w).Dot(w))
}

// WorldToLocal converts from world to body local coordinates.
func (body *Body) WorldToLocal(point mgl64.Vec3) mgl64.Vec3 {
	return body.transform.InverseApply(point)
}

// LocalToWorld converts from body local to world coordinates.
func (body *Body) LocalToWorld(point mgl64.Vec3) mgl64.Vec3 {
	return body.transform.Apply(point)
}

// ApplyForceAtWorldPoint applies a force at world point.
func (body *Body) ApplyForceAtWorldPoint(force, point mgl64.Vec3) {
	body.force = body.force.Add(force)
	r := point.Sub(body.transform.Origin)
	body.torque = body.torque.Add(r.Cross(force))
}

// ApplyImpulseAtWorldPoint applies impulse at world point
func (body *Body) ApplyImpulseAtWorldPoint(impulse, point mgl64.Vec3) {
	if body.massInverse == 0 {
		return
	}
	r := point.Sub(body.transform.Origin)
	body.velocity = body.velocity.Add(mulElem(impulse.Mul(body.massInverse), body.linearFactor))
	body.angularVelocity = body.angularVelocity.Add(mulElem(body.inertiaInverseWorld.Mul3x1(r.Cross(impulse)), body.angularFactor))
}

// VelocityAtWorldPoint returns the world velocity of a point on the body given relative to its center.
func (body *Body) VelocityAtWorldPoint(rel mgl64.Vec3) mgl64.Vec3 {
	return body.velocity.Add(body.angularVelocity.Cross(rel))
}

// SetVelocityUpdateFunc sets the callback used to update a body's velocity.
func (body *Body) SetVelocityUpdateFunc(f BodyVelocityFunc) {
	body.velocityFunc = f
}

// SetPositionUpdateFunc sets the callback used to update a body's position.
func (body *Body) SetPositionUpdateFunc(f BodyPositionFunc) {
	body.positionFunc = f
}

// BodyUpdateVelocity is default velocity integration function.
func BodyUpdateVelocity(body *Body, gravity mgl64.Vec3, dt float64) {
	if body.Type() != Dynamic || body.massInverse == 0 {
		return
	}

	body.velocity = body.velocity.Add(gravity.Add(body.force.Mul(body.massInverse)).Mul(dt))
	body.angularVelocity = body.angularVelocity.Add(body.inertiaInverseWorld.Mul3x1(body.torque).Mul(dt))

	body.velocity = body.velocity.Mul(1 - clamp(body.linearDamping*dt, 0, 1))
	body.angularVelocity = body.angularVelocity.Mul(1 - clamp(body.angularDamping*dt, 0, 1))

	body.force = mgl64.Vec3{}
	body.torque = mgl64.Vec3{}
}

// BodyUpdatePosition is default position integration function.
func BodyUpdatePosition(body *Body, dt float64) {
	if body.Type() == Static {
		return
	}
	body.SetTransform(body.transform.Integrate(body.velocity, body.angularVelocity, dt))
}

// MomentForBox returns the diagonal inertia of a solid box with the given half extents.
func MomentForBox(mass float64, halfExtents mgl64.Vec3) mgl64.Vec3 {
	lx, ly, lz := 2*halfExtents[0], 2*halfExtents[1], 2*halfExtents[2]
	return mgl64.Vec3{
		mass / 12 * (ly*ly + lz*lz),
		mass / 12 * (lx*lx + lz*lz),
		mass / 12 * (lx*lx + ly*ly),
	}
}

// MomentForSphere returns the diagonal inertia of a solid sphere.
func MomentForSphere(mass, radius float64) mgl64.Vec3 {
	i := 0.4 * mass * radius * radius
	return mgl64.Vec3{i, i, i}
}
