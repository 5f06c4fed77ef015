package impulse

import "github.com/go-gl/mathgl/mgl64"

// SolverBody is the per-body working set touched by the iteration loop.
//
// It holds velocity changes accumulated since the solve started, never the
// body's velocity itself, so the inner loop reads and writes small records.
type SolverBody struct {
	DeltaLinearVelocity  mgl64.Vec3
	DeltaAngularVelocity mgl64.Vec3
	InvMass              mgl64.Vec3 // body inverse mass times linear factor
	AngularFactor        mgl64.Vec3

	// Penetration recovery velocities, only used with split impulse.
	PushVelocity mgl64.Vec3
	TurnVelocity mgl64.Vec3

	body *Body // nil for the fixed anchor
}

// Init resets the record for body. A nil body is the fixed world anchor.
func (sb *SolverBody) Init(body *Body) {
	sb.body = body
	sb.DeltaLinearVelocity = mgl64.Vec3{}
	sb.DeltaAngularVelocity = mgl64.Vec3{}
	sb.PushVelocity = mgl64.Vec3{}
	sb.TurnVelocity = mgl64.Vec3{}
	if body == nil {
		sb.InvMass = mgl64.Vec3{}
		sb.AngularFactor = mgl64.Vec3{1, 1, 1}
		return
	}
	sb.InvMass = body.linearFactor.Mul(body.massInverse)
	sb.AngularFactor = body.angularFactor
}

// Body returns the rigid body behind this record, nil for the fixed anchor.
func (sb *SolverBody) Body() *Body {
	return sb.body
}

// AngularVelocity returns the body angular velocity including the accumulated delta.
func (sb *SolverBody) AngularVelocity() mgl64.Vec3 {
	if sb.body == nil {
		return sb.DeltaAngularVelocity
	}
	return sb.body.angularVelocity.Add(sb.DeltaAngularVelocity)
}

// ApplyImpulse adds linearComponent*magnitude and angularComponent*magnitude
// to the delta velocities. No clamping happens here.
//
// angularComponent is expected to already carry the inverse inertia and the
// angular factor.
func (sb *SolverBody) ApplyImpulse(linearComponent, angularComponent mgl64.Vec3, magnitude float64) {
	sb.DeltaLinearVelocity = sb.DeltaLinearVelocity.Add(linearComponent.Mul(magnitude))
	sb.DeltaAngularVelocity = sb.DeltaAngularVelocity.Add(angularComponent.Mul(magnitude))
}

// ApplyPushImpulse is ApplyImpulse for the penetration recovery velocities.
func (sb *SolverBody) ApplyPushImpulse(linearComponent, angularComponent mgl64.Vec3, magnitude float64) {
	sb.PushVelocity = sb.PushVelocity.Add(linearComponent.Mul(magnitude))
	sb.TurnVelocity = sb.TurnVelocity.Add(angularComponent.Mul(magnitude))
}

// ApplyAngularImpulse changes the angular delta by an angular impulse given in world space.
func (sb *SolverBody) ApplyAngularImpulse(j mgl64.Vec3) {
	if sb.body == nil {
		return
	}
	w := sb.body.inertiaInverseWorld.Mul3x1(j)
	sb.DeltaAngularVelocity = sb.DeltaAngularVelocity.Add(mulElem(w, sb.AngularFactor))
}

// InverseInertiaWorld returns the world inverse inertia of the body, zero for the anchor.
func (sb *SolverBody) InverseInertiaWorld() mgl64.Mat3 {
	if sb.body == nil {
		return mgl64.Mat3{}
	}
	return sb.body.inertiaInverseWorld
}

// WritebackVelocity folds the deltas into the owning body's velocity.
//
// With splitImpulse set the push and turn velocities move the body's
// transform over timeStep without being added to its reported velocity.
func (sb *SolverBody) WritebackVelocity(timeStep float64, splitImpulse bool) {
	body := sb.body
	if body == nil || body.massInverse == 0 {
		return
	}
	body.velocity = body.velocity.Add(sb.DeltaLinearVelocity)
	body.angularVelocity = body.angularVelocity.Add(sb.DeltaAngularVelocity)

	if splitImpulse && (sb.PushVelocity != mgl64.Vec3{} || sb.TurnVelocity != mgl64.Vec3{}) {
		body.SetTransform(body.transform.Integrate(sb.PushVelocity, sb.TurnVelocity, timeStep))
	}
}
