package world

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// goldenIterations bounds the search along a query segment against a box.
	goldenIterations = 40
	invPhi           = 0.6180339887
	tieTolerance     = 1e-6
)

// boxDistance returns the signed distance from local point p to a box with the given half
// extents, together with the outward gradient.
func boxDistance(p, half mgl32.Vec3) (float32, mgl32.Vec3) {
	var q, outside mgl32.Vec3
	for i := 0; i < 3; i++ {
		q[i] = math32.Abs(p[i]) - half[i]
		outside[i] = math32.Max(q[i], 0)
	}
	if l := outside.Len(); l > 0 {
		grad := mgl32.Vec3{}
		for i := 0; i < 3; i++ {
			grad[i] = sign(p[i]) * outside[i] / l
		}
		return l, grad
	}

	axis := 0
	for i := 1; i < 3; i++ {
		if q[i] > q[axis] {
			axis = i
		}
	}
	grad := mgl32.Vec3{}
	grad[axis] = sign(p[axis])
	return q[axis], grad
}

func sign(v float32) float32 {
	if v < 0 {
		return -1
	}
	return 1
}

// closestOnSegment returns the parameter of the point on [a, b] closest to p.
func closestOnSegment(p, a, b mgl32.Vec3) float32 {
	ab := b.Sub(a)
	l := ab.LenSqr()
	if l <= 1e-12 {
		return 0
	}
	return mgl32.Clamp(p.Sub(a).Dot(ab)/l, 0, 1)
}

// closestSegmentSegment returns the parameters s and t of the closest points between the
// segments [p1, q1] and [p2, q2].
func closestSegmentSegment(p1, q1, p2, q2 mgl32.Vec3) (float32, float32) {
	const eps = 1e-12
	d1, d2 := q1.Sub(p1), q2.Sub(p2)
	r := p1.Sub(p2)
	a, e := d1.LenSqr(), d2.LenSqr()
	f := d2.Dot(r)

	if a <= eps && e <= eps {
		return 0, 0
	}
	if a <= eps {
		return 0, mgl32.Clamp(f/e, 0, 1)
	}
	c := d1.Dot(r)
	if e <= eps {
		return mgl32.Clamp(-c/a, 0, 1), 0
	}

	b := d1.Dot(d2)
	denom := a*e - b*b
	var s float32
	if denom > eps {
		s = mgl32.Clamp((b*f-c*e)/denom, 0, 1)
	}
	t := (b*s + f) / e
	if t < 0 {
		t, s = 0, mgl32.Clamp(-c/a, 0, 1)
	} else if t > 1 {
		t, s = 1, mgl32.Clamp((b-c)/a, 0, 1)
	}
	return s, t
}

// minimizeOnSegment finds the parameter in [0, 1] minimising a convex function along a segment.
// Ties resolve towards the lower parameter.
func minimizeOnSegment(f func(s float32) float32) (float32, float32) {
	lo, hi := float32(0), float32(1)
	x1 := hi - invPhi*(hi-lo)
	x2 := lo + invPhi*(hi-lo)
	f1, f2 := f(x1), f(x2)
	for i := 0; i < goldenIterations; i++ {
		if f1 <= f2 {
			hi, x2, f2 = x2, x1, f1
			x1 = hi - invPhi*(hi-lo)
			f1 = f(x1)
		} else {
			lo, x1, f1 = x1, x2, f2
			x2 = lo + invPhi*(hi-lo)
			f2 = f(x2)
		}
	}

	best, bestValue := float32(0), f(0)
	mid := (lo + hi) * 0.5
	if v := f(mid); v < bestValue-tieTolerance {
		best, bestValue = mid, v
	}
	if v := f(1); v < bestValue-tieTolerance {
		best, bestValue = 1, v
	}
	return best, bestValue
}
