package impulse

import (
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/setanarut/vec"
)

// MaxContactsPerManifold is the number of points a manifold keeps.
const MaxContactsPerManifold int = 4

// ContactPoint is a persistent contact between two bodies, produced by the
// collision system and carried across frames for warm starting.
type ContactPoint struct {
	// LocalPointA and LocalPointB are the contact in each body's local frame.
	// They are used to match points between frames.
	LocalPointA, LocalPointB mgl64.Vec3

	PositionWorldOnA mgl64.Vec3
	PositionWorldOnB mgl64.Vec3
	// NormalWorldOnB points from B towards A.
	NormalWorldOnB mgl64.Vec3
	// Distance is the signed separation. Overlapping means it will be negative.
	Distance float64

	CombinedFriction    float64
	CombinedRestitution float64

	// Lifetime counts the frames this point has persisted.
	Lifetime int

	// AppliedImpulse is the normal impulse of the last solve.
	AppliedImpulse float64
	// LateralImpulse holds the friction impulses of the last solve.
	// X is along LateralFrictionDir1, Y along LateralFrictionDir2.
	LateralImpulse vec.Vec2

	LateralFrictionDir1        mgl64.Vec3
	LateralFrictionDir2        mgl64.Vec3
	LateralFrictionInitialized bool
}

// TotalImpulse returns the world impulse applied on body A at this point.
func (cp *ContactPoint) TotalImpulse() mgl64.Vec3 {
	j := cp.NormalWorldOnB.Mul(cp.AppliedImpulse)
	j = j.Add(cp.LateralFrictionDir1.Mul(cp.LateralImpulse.X))
	return j.Add(cp.LateralFrictionDir2.Mul(cp.LateralImpulse.Y))
}

// Manifold is the set of contact points between two bodies.
//
// The solver reads the points at the start of a solve and writes the
// resulting impulses back at the end.
type Manifold struct {
	UserData any

	BodyA, BodyB *Body
	Points       []ContactPoint

	// ContactProcessingThreshold: points further apart than this are not solved.
	ContactProcessingThreshold float64
	// ContactBreakingThreshold: points that drift more than this are dropped
	// and fresh points within this distance of an old one inherit its impulses.
	ContactBreakingThreshold float64

	// Friction and Restitution are copied into points made by NewPoint.
	Friction, Restitution float64
}

// NewManifold returns an empty manifold between a and b.
func NewManifold(a, b *Body) *Manifold {
	return &Manifold{
		BodyA:                      a,
		BodyB:                      b,
		Points:                     make([]ContactPoint, 0, MaxContactsPerManifold),
		ContactProcessingThreshold: infinity,
		ContactBreakingThreshold:   0.02,
		Friction:                   0.5,
	}
}

// AddPoint appends a contact computed from world positions and returns it.
func (m *Manifold) AddPoint(onA, onB, normalOnB mgl64.Vec3, distance float64) *ContactPoint {
	cp := m.NewPoint(onA, onB, normalOnB, distance)
	if len(m.Points) >= MaxContactsPerManifold {
		i := m.shallowest()
		m.Points[i] = cp
		return &m.Points[i]
	}
	m.Points = append(m.Points, cp)
	return &m.Points[len(m.Points)-1]
}

// NewPoint returns a contact between the manifold's bodies without adding it.
func (m *Manifold) NewPoint(onA, onB, normalOnB mgl64.Vec3, distance float64) ContactPoint {
	cp := ContactPoint{
		PositionWorldOnA: onA,
		PositionWorldOnB: onB,
		NormalWorldOnB:   normalOnB,
		Distance:         distance,
	}
	if m.BodyA != nil {
		cp.LocalPointA = m.BodyA.WorldToLocal(onA)
	} else {
		cp.LocalPointA = onA
	}
	if m.BodyB != nil {
		cp.LocalPointB = m.BodyB.WorldToLocal(onB)
	} else {
		cp.LocalPointB = onB
	}
	cp.CombinedFriction, cp.CombinedRestitution = m.Friction, m.Restitution
	return cp
}

func (m *Manifold) shallowest() int {
	idx, max := 0, -infinity
	for i := range m.Points {
		if m.Points[i].Distance > max {
			idx, max = i, m.Points[i].Distance
		}
	}
	return idx
}

// Update replaces the points of the manifold with fresh points from the
// collision system.
//
// Each fresh point inherits the impulses, friction directions and lifetime of
// the closest cached point within ContactBreakingThreshold, so warm starting
// survives re-detection.
func (m *Manifold) Update(fresh []ContactPoint) {
	old := make([]ContactPoint, len(m.Points))
	copy(old, m.Points)
	used := make([]bool, len(old))

	threshold := m.ContactBreakingThreshold * m.ContactBreakingThreshold
	m.Points = m.Points[:0]
	for _, con := range fresh {
		best, bestDist := -1, threshold
		for j := range old {
			if used[j] {
				continue
			}
			d := lengthSq(old[j].LocalPointA.Sub(con.LocalPointA))
			if d < bestDist {
				best, bestDist = j, d
			}
		}
		if best >= 0 {
			// Copy the persistent contact information.
			used[best] = true
			con.AppliedImpulse = old[best].AppliedImpulse
			con.LateralImpulse = old[best].LateralImpulse
			con.LateralFrictionDir1 = old[best].LateralFrictionDir1
			con.LateralFrictionDir2 = old[best].LateralFrictionDir2
			con.LateralFrictionInitialized = old[best].LateralFrictionInitialized
			con.Lifetime = old[best].Lifetime + 1
		} else {
			con.AppliedImpulse = 0
			con.LateralImpulse = vec.Vec2{}
			con.LateralFrictionInitialized = false
			con.Lifetime = 0
		}
		m.Points = append(m.Points, con)
		if len(m.Points) == MaxContactsPerManifold {
			break
		}
	}
}

// RefreshContactPoints recomputes world positions and distances from the
// bodies' current transforms and drops points that separated or slid more
// than ContactBreakingThreshold.
func (m *Manifold) RefreshContactPoints() {
	for i := range m.Points {
		cp := &m.Points[i]
		if m.BodyA != nil {
			cp.PositionWorldOnA = m.BodyA.LocalToWorld(cp.LocalPointA)
		}
		if m.BodyB != nil {
			cp.PositionWorldOnB = m.BodyB.LocalToWorld(cp.LocalPointB)
		}
		cp.Distance = cp.PositionWorldOnA.Sub(cp.PositionWorldOnB).Dot(cp.NormalWorldOnB)
		cp.Lifetime++
	}

	threshold := m.ContactBreakingThreshold
	m.Points = slices.DeleteFunc(m.Points, func(cp ContactPoint) bool {
		if cp.Distance > threshold {
			return true
		}
		projected := cp.PositionWorldOnA.Sub(cp.NormalWorldOnB.Mul(cp.Distance))
		drift := projected.Sub(cp.PositionWorldOnB)
		return lengthSq(drift) > threshold*threshold
	})
}

// FrictionImpulse returns the sum of the lateral impulses of all points and
// the largest friction-to-normal ratio, for reporting.
func (m *Manifold) FrictionImpulse() (sum vec.Vec2, maxRatio float64) {
	for i := range m.Points {
		cp := &m.Points[i]
		sum = sum.Add(cp.LateralImpulse)
		if cp.AppliedImpulse > 0 {
			maxRatio = math.Max(maxRatio, cp.LateralImpulse.Mag()/cp.AppliedImpulse)
		}
	}
	return sum, maxRatio
}

// IsStatic reports whether neither body can move, in which case the solver skips the pair.
func (m *Manifold) IsStatic() bool {
	return (m.BodyA == nil || m.BodyA.massInverse == 0) && (m.BodyB == nil || m.BodyB.massInverse == 0)
}
