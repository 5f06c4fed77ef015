package impulse_test

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/setanarut/impulse"
)

var boxHalf = mgl64.Vec3{0.5, 0.5, 0.5}

// boxOnGround returns a unit box resting on a static ground at y = 0 and
// their manifold with the four bottom corners as contacts.
func boxOnGround(velocity mgl64.Vec3) (box, ground *impulse.Body, m *impulse.Manifold) {
	ground = impulse.NewStaticBody()
	box = impulse.NewBody(1, impulse.MomentForBox(1, boxHalf))
	box.SetPosition(mgl64.Vec3{0, 0.5, 0})
	box.SetVelocity(velocity)

	m = impulse.NewManifold(box, ground)
	n := mgl64.Vec3{0, 1, 0}
	for _, sx := range []float64{-1, 1} {
		for _, sz := range []float64{-1, 1} {
			p := mgl64.Vec3{sx * 0.5, 0, sz * 0.5}
			m.AddPoint(p, p, n, 0)
		}
	}
	return box, ground, m
}

// collideBoxPlane refreshes the manifold of body against the plane y = height
// owned by other, keeping the four deepest corners.
func collideBoxPlane(space *impulse.Space, body, other *impulse.Body, half mgl64.Vec3, height float64) {
	m := space.Manifold(body, other)
	n := mgl64.Vec3{0, 1, 0}

	fresh := []impulse.ContactPoint{}
	for _, sx := range []float64{-1, 1} {
		for _, sy := range []float64{-1, 1} {
			for _, sz := range []float64{-1, 1} {
				corner := body.LocalToWorld(mgl64.Vec3{sx * half[0], sy * half[1], sz * half[2]})
				dist := corner.Y() - height
				if dist > m.ContactBreakingThreshold {
					continue
				}
				fresh = append(fresh, m.NewPoint(corner, corner.Sub(n.Mul(dist)), n, dist))
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

// pointVelocity returns the velocity of a world point attached to body.
func pointVelocity(body *impulse.Body, p mgl64.Vec3) mgl64.Vec3 {
	if body == nil {
		return mgl64.Vec3{}
	}
	return body.VelocityAtWorldPoint(p.Sub(body.Position()))
}

// normalVelocity returns the separating velocity of a contact, positive when the bodies move apart.
func normalVelocity(m *impulse.Manifold, cp *impulse.ContactPoint) float64 {
	va := pointVelocity(m.BodyA, cp.PositionWorldOnA)
	vb := pointVelocity(m.BodyB, cp.PositionWorldOnB)
	return va.Sub(vb).Dot(cp.NormalWorldOnB)
}

func near(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

func nearVec(a, b mgl64.Vec3, tolerance float64) bool {
	return a.Sub(b).Len() <= tolerance
}

func nearMat(a, b mgl64.Mat3, tolerance float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > tolerance {
			return false
		}
	}
	return true
}
