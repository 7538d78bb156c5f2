package world

import (
	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/kinematic/collision"
	"github.com/oomph-ac/kinematic/omath"
)

const (
	// maxAdvanceIterations caps conservative advancement per body and cast.
	maxAdvanceIterations = 48
	// contactTolerance is the separation at which a sweep reports contact.
	contactTolerance float32 = 1e-4
	broadphaseMargin float32 = 0.01
)

// separation returns the signed distance between the query segment [a, b] inflated by r and the
// collider of body, the normal pointing from the collider to the query and the closest point on
// the collider surface.
func separation(body *Body, a, b mgl32.Vec3, r float32) (float32, mgl32.Vec3, mgl32.Vec3) {
	pose := body.Pose
	switch c := body.Collider.(type) {
	case Box:
		la, lb := pose.InverseTransform(a), pose.InverseTransform(b)
		ab := lb.Sub(la)
		s, d := minimizeOnSegment(func(s float32) float32 {
			dist, _ := boxDistance(la.Add(ab.Mul(s)), c.HalfExtents)
			return dist
		})
		p := la.Add(ab.Mul(s))
		d, grad := boxDistance(p, c.HalfExtents)
		surface := p.Sub(grad.Mul(d))
		return d - r, pose.Rotation.Rotate(grad), pose.Transform(surface)
	case Capsule:
		ca, cb := pose.Transform(c.Start), pose.Transform(c.End)
		s, t := closestSegmentSegment(a, b, ca, cb)
		p1 := a.Add(b.Sub(a).Mul(s))
		p2 := ca.Add(cb.Sub(ca).Mul(t))
		n := omath.SafeNormalize(p1.Sub(p2))
		if omath.IsZero(n) {
			n = omath.SafeNormalize(p1.Sub(pose.Position))
			if omath.IsZero(n) {
				n = omath.Up
			}
		}
		return p1.Sub(p2).Len() - c.Radius - r, n, p2.Add(n.Mul(c.Radius))
	}
	return math32.MaxFloat32, omath.Up, pose.Position
}

// sweep advances the query along dir until it touches the body. Every step moves by the current
// separation over the closing speed, which never passes the first contact of convex shapes.
func sweep(body *Body, a, b mgl32.Vec3, r float32, dir mgl32.Vec3, length float32, ray bool) (collision.Hit, bool) {
	var t float32
	for i := 0; i < maxAdvanceIterations; i++ {
		off := dir.Mul(t)
		dist, n, p := separation(body, a.Add(off), b.Add(off), r)
		if dist <= contactTolerance {
			if ray && i == 0 && dist < 0 {
				return collision.Hit{}, false
			}
			h := collision.Hit{
				Body:     body.ID,
				Position: p,
				Normal:   n,
				Distance: t,
				Material: body.Material,
			}
			if length > 0 {
				h.Fraction = t / length
			}
			return h, true
		}
		rate := n.Dot(dir)
		if rate >= 0 {
			return collision.Hit{}, false
		}
		t += dist / -rate
		if t > length {
			return collision.Hit{}, false
		}
	}
	return collision.Hit{}, false
}

func segmentBounds(a, b mgl32.Vec3, r float32) cube.BBox {
	return cube.Box(
		math32.Min(a[0], b[0])-r, math32.Min(a[1], b[1])-r, math32.Min(a[2], b[2])-r,
		math32.Max(a[0], b[0])+r, math32.Max(a[1], b[1])+r, math32.Max(a[2], b[2])+r,
	).Grow(broadphaseMargin)
}

// ShapeCastAll ...
func (w *World) ShapeCastAll(shape collision.Shape, start, end mgl32.Vec3, rotation mgl32.Quat, hits []collision.Hit) []collision.Hit {
	a, b := shape.Segment(collision.Pose{Position: start, Rotation: rotation})
	delta := end.Sub(start)
	length := delta.Len()
	dir := omath.SafeNormalize(delta)
	bounds := segmentBounds(a, b, shape.Radius()).Extend(delta)

	w.RLock()
	defer w.RUnlock()
	for _, body := range w.bodies {
		if body.Material.Response == collision.ResponseNone || !body.Bounds.IntersectsWith(bounds) {
			continue
		}
		if h, ok := sweep(body, a, b, shape.Radius(), dir, length, false); ok {
			hits = append(hits, h)
		}
	}
	return hits
}

// RaycastAll ...
func (w *World) RaycastAll(origin, dir mgl32.Vec3, length float32, hits []collision.Hit) []collision.Hit {
	dir = omath.SafeNormalize(dir)
	if omath.IsZero(dir) {
		return hits
	}
	bounds := segmentBounds(origin, origin, 0).Extend(dir.Mul(length))

	w.RLock()
	defer w.RUnlock()
	for _, body := range w.bodies {
		if body.Material.Response == collision.ResponseNone || !body.Bounds.IntersectsWith(bounds) {
			continue
		}
		if h, ok := sweep(body, origin, origin, 0, dir, length, true); ok {
			hits = append(hits, h)
		}
	}
	return hits
}

// ShapeDistanceAll ...
func (w *World) ShapeDistanceAll(shape collision.Shape, pose collision.Pose, maxDistance float32, hits []collision.Hit) []collision.Hit {
	a, b := shape.Segment(pose)
	r := shape.Radius()
	bounds := segmentBounds(a, b, r+math32.Max(maxDistance, 0))

	w.RLock()
	defer w.RUnlock()
	for _, body := range w.bodies {
		if body.Material.Response == collision.ResponseNone || !body.Bounds.IntersectsWith(bounds) {
			continue
		}
		dist, n, p := separation(body, a, b, r)
		if dist > maxDistance {
			continue
		}
		hits = append(hits, collision.Hit{
			Body:     body.ID,
			Position: p,
			Normal:   n,
			Distance: dist,
			Material: body.Material,
		})
	}
	return hits
}
