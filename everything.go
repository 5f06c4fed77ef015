package impulse

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	infinity float64 = math.MaxFloat64

	// bigImpulse is the finite stand-in for an unbounded contact upper limit.
	bigImpulse float64 = 1e10

	// simdEpsilon is the lateral speed squared below which friction directions
	// are derived from the contact normal alone.
	simdEpsilon float64 = 1.1920929e-07

	sqrt12 float64 = 0.7071067811865475244008443621048490
)

// BodyType for bodies; Dynamic, Kinematic or Static
type BodyType uint8

const (
	Dynamic   BodyType = 0
	Kinematic BodyType = 1
	Static    BodyType = 2
)

func (t BodyType) String() string {
	switch t {
	case Dynamic:
		return "dynamic"
	case Kinematic:
		return "kinematic"
	case Static:
		return "static"
	}
	return fmt.Sprintf("BodyType(%d)", uint8(t))
}

func assert(truth bool, msg ...any) {
	if !truth {
		panic(fmt.Sprint(append([]any{"impulse: assertion failed: "}, msg...)...))
	}
}

func clamp(f, min, max float64) float64 {
	if f > min {
		return math.Min(f, max)
	} else {
		return math.Min(min, max)
	}
}

// mulElem multiplies two vectors component-wise.
func mulElem(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

func lengthSq(a mgl64.Vec3) float64 {
	return a.Dot(a)
}

// safeNormalize returns the unit vector of a, or the zero vector when a is too short.
func safeNormalize(a mgl64.Vec3) mgl64.Vec3 {
	l2 := lengthSq(a)
	if l2 < simdEpsilon*simdEpsilon {
		return mgl64.Vec3{}
	}
	return a.Mul(1 / math.Sqrt(l2))
}

// planeSpace returns two unit vectors p, q that complete n to an orthonormal basis.
func planeSpace(n mgl64.Vec3) (p, q mgl64.Vec3) {
	if math.Abs(n[2]) > sqrt12 {
		// choose p in y-z plane
		a := n[1]*n[1] + n[2]*n[2]
		k := 1 / math.Sqrt(a)
		p = mgl64.Vec3{0, -n[2] * k, n[1] * k}
		q = mgl64.Vec3{a * k, -n[0] * p[2], n[0] * p[1]}
		return p, q
	}
	// choose p in x-y plane
	a := n[0]*n[0] + n[1]*n[1]
	k := 1 / math.Sqrt(a)
	p = mgl64.Vec3{-n[1] * k, n[0] * k, 0}
	q = mgl64.Vec3{-n[2] * p[1], n[2] * p[0], a * k}
	return p, q
}

// DebugInfo returns a short summary of the last solve of the space.
func DebugInfo(space *Space) string {
	points := 0
	for _, m := range space.Manifolds {
		points += len(m.Points)
	}

	var ke float64
	for _, body := range space.Bodies {
		if body.Type() != Dynamic {
			continue
		}
		ke += body.KineticEnergy()
	}

	stats := space.solver.Stats()
	return fmt.Sprintf(`Manifolds: %d - Contact Points: %d
Joints: %d, Iterations: %d
Rows: %d contact, %d friction, %d joint
KE: %e`, len(space.Manifolds), points,
		len(space.Joints), space.Config.Iterations,
		stats.ContactRows, stats.FrictionRows, stats.JointRows, ke)
}
