package omath

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Epsilon is the length under which a vector is treated as having no direction.
const Epsilon float32 = 1e-6

var (
	// Up is the world up axis.
	Up = mgl32.Vec3{0, 1, 0}
	// Zero is the zero vector.
	Zero = mgl32.Vec3{}
)

// SafeNormalize returns the unit vector of v, or the zero vector if v has no usable length.
func SafeNormalize(v mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l <= Epsilon || math32.IsNaN(l) || math32.IsInf(l, 0) {
		return mgl32.Vec3{}
	}
	return v.Mul(1 / l)
}

// IsZero reports whether every component of v is exactly zero.
func IsZero(v mgl32.Vec3) bool {
	return v[0] == 0 && v[1] == 0 && v[2] == 0
}

// ProjectOnPlane removes the component of v along the plane normal n. n must be a unit vector.
func ProjectOnPlane(v, n mgl32.Vec3) mgl32.Vec3 {
	return v.Sub(n.Mul(v.Dot(n)))
}

// ProjectOnVector returns the component of v along the unit vector dir.
func ProjectOnVector(v, dir mgl32.Vec3) mgl32.Vec3 {
	return dir.Mul(v.Dot(dir))
}

// ReorientOnPlaneAlongDirection rotates v onto the plane with normal n, keeping its length and
// staying within the plane spanned by v and along.
func ReorientOnPlaneAlongDirection(v, n, along mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l <= Epsilon {
		return mgl32.Vec3{}
	}
	axis := v.Cross(along)
	return SafeNormalize(n.Cross(axis)).Mul(l)
}

// ReverseProjectOnVector returns the vector along dir whose projection onto the direction of
// projected has the length of projected. The result is capped at maxLength.
func ReverseProjectOnVector(projected, dir mgl32.Vec3, maxLength float32) mgl32.Vec3 {
	ratio := SafeNormalize(projected).Dot(dir)
	if ratio <= Epsilon {
		return dir.Mul(maxLength)
	}
	return dir.Mul(mgl32.Clamp(projected.Len()/ratio, 0, maxLength))
}

// AngleRadians returns the angle between two unit vectors.
func AngleRadians(a, b mgl32.Vec3) float32 {
	return math32.Acos(mgl32.Clamp(a.Dot(b), -1, 1))
}

// SignedAngleRadians returns the angle from a to b around axis, negative when the rotation is
// clockwise when looking down the axis.
func SignedAngleRadians(a, b, axis mgl32.Vec3) float32 {
	return math32.Atan2(a.Cross(b).Dot(axis), a.Dot(b))
}

// DotRatioFromAngle converts a slope angle in degrees to the minimum dot product between the
// surface normal and up.
func DotRatioFromAngle(degrees float32) float32 {
	return math32.Cos(mgl32.DegToRad(degrees))
}

// ProjectVelocityOnGround projects v onto the ground plane n, along the heading of v. The projected
// speed scales from zero when v points along up to the full speed when v lies on the ground plane,
// measured on the angle of v with up rather than on a plain reorientation. A v pointing into the
// ground, such as a level heading meeting an uphill slope, keeps its full speed.
func ProjectVelocityOnGround(v, n, up mgl32.Vec3) mgl32.Vec3 {
	speed := v.Len()
	if speed <= Epsilon {
		return mgl32.Vec3{}
	}
	right := v.Cross(up)
	if right.LenSqr() <= Epsilon*Epsilon {
		// Straight along up, no heading left on the ground.
		return mgl32.Vec3{}
	}
	tangent := SafeNormalize(n.Cross(right))
	if IsZero(tangent) {
		return mgl32.Vec3{}
	}

	velocityAngle := AngleRadians(v.Mul(1/speed), up)
	tangentAngle := AngleRadians(tangent, up)
	if velocityAngle <= tangentAngle {
		if tangentAngle <= Epsilon {
			return mgl32.Vec3{}
		}
		return tangent.Mul(speed * velocityAngle / tangentAngle)
	}
	return tangent.Mul(speed)
}

// TwistAround returns the twist part of q around the unit axis.
func TwistAround(q mgl32.Quat, axis mgl32.Vec3) mgl32.Quat {
	p := axis.Mul(q.V.Dot(axis))
	twist := mgl32.Quat{W: q.W, V: p}
	l := twist.Len()
	if l <= Epsilon {
		return mgl32.QuatIdent()
	}
	return mgl32.Quat{W: twist.W / l, V: twist.V.Mul(1 / l)}
}

// RotationDelta returns the rotation that takes from to to.
func RotationDelta(from, to mgl32.Quat) mgl32.Quat {
	return to.Mul(from.Inverse()).Normalize()
}

// Float32ApproxEq determines whether two floating point numbers are close enough to each other
// by a threshold of 1e-5.
func Float32ApproxEq(a, b float32) bool {
	return math32.Abs(a-b) <= 1e-5
}

// Vec3ApproxEq compares two vectors component-wise. Components differ by at most threshold, or
// by threshold relative to their magnitude once it exceeds one, so components near zero are
// compared absolutely.
func Vec3ApproxEq(a, b mgl32.Vec3, threshold float32) bool {
	for i := 0; i < 3; i++ {
		scale := math32.Max(1, math32.Max(math32.Abs(a[i]), math32.Abs(b[i])))
		if math32.Abs(a[i]-b[i]) > threshold*scale {
			return false
		}
	}
	return true
}
