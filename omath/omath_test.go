package omath

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

func TestSafeNormalizeZero(t *testing.T) {
	if n := SafeNormalize(mgl32.Vec3{}); !IsZero(n) {
		t.Fatalf("expected zero vector, got %v", n)
	}
	if n := SafeNormalize(mgl32.Vec3{1e-9, 0, 0}); !IsZero(n) {
		t.Fatalf("expected zero vector for tiny input, got %v", n)
	}
	n := SafeNormalize(mgl32.Vec3{3, 0, 4})
	if !Float32ApproxEq(n.Len(), 1) {
		t.Fatalf("expected unit length, got %v", n.Len())
	}
}

func TestReorientKeepsLength(t *testing.T) {
	slope := mgl32.Vec3{-math32.Sin(mgl32.DegToRad(30)), math32.Cos(mgl32.DegToRad(30)), 0}
	v := ReorientOnPlaneAlongDirection(mgl32.Vec3{5, 0, 0}, slope, Up)
	if !Float32ApproxEq(v.Len(), 5) {
		t.Fatalf("expected length 5, got %v", v.Len())
	}
	if math32.Abs(v.Dot(slope)) > 1e-5 {
		t.Fatalf("expected vector on plane, got dot %v", v.Dot(slope))
	}
	if v.X() <= 0 || v.Y() <= 0 {
		t.Fatalf("expected uphill heading, got %v", v)
	}
}

func TestReverseProjectOnVectorCapped(t *testing.T) {
	// A steep normal needs a long vertical push to clear a small overlap.
	n := SafeNormalize(mgl32.Vec3{1, 0.05, 0})
	v := ReverseProjectOnVector(n.Mul(0.1), Up, 1)
	if !Float32ApproxEq(v.Len(), 1) {
		t.Fatalf("expected capped length 1, got %v", v.Len())
	}

	n = SafeNormalize(mgl32.Vec3{0, 1, 1})
	v = ReverseProjectOnVector(n.Mul(0.1), Up, 10)
	if math32.Abs(v.Dot(n)-0.1) > 1e-5 {
		t.Fatalf("expected projection back onto normal to equal overlap, got %v", v.Dot(n))
	}
}

func TestProjectVelocityOnGroundBounded(t *testing.T) {
	slope := mgl32.Vec3{-math32.Sin(mgl32.DegToRad(20)), math32.Cos(mgl32.DegToRad(20)), 0}
	for _, v := range []mgl32.Vec3{{5, 0, 0}, {5, 3, 0}, {5, -3, 1}, {0, 4, 0}, {-2, -8, 2}} {
		p := ProjectVelocityOnGround(v, slope, Up)
		if p.Len() > v.Len()+1e-4 {
			t.Fatalf("projection of %v amplified speed to %v", v, p)
		}
		if math32.Abs(p.Dot(slope)) > 1e-4 {
			t.Fatalf("projection of %v left the ground plane: %v", v, p)
		}
		if math32.Abs(p.Dot(Up)) > p.Len()*math32.Sin(mgl32.DegToRad(20))+1e-4 {
			t.Fatalf("projection of %v exceeds slope bound: %v", v, p)
		}
	}

	flat := ProjectVelocityOnGround(mgl32.Vec3{5, 0, 0}, Up, Up)
	if !Vec3ApproxEq(flat, mgl32.Vec3{5, 0, 0}, 1e-5) {
		t.Fatalf("expected unchanged velocity on flat ground, got %v", flat)
	}
}

func TestProjectVelocityOnGroundUphill(t *testing.T) {
	angle := mgl32.DegToRad(20)
	slope := mgl32.Vec3{-math32.Sin(angle), math32.Cos(angle), 0}
	uphill := mgl32.Vec3{math32.Cos(angle), math32.Sin(angle), 0}

	p := ProjectVelocityOnGround(mgl32.Vec3{5, 0, 0}, slope, Up)
	if !Vec3ApproxEq(p, uphill.Mul(5), 1e-4) {
		t.Fatalf("expected a level walk onto the slope to keep its speed as %v, got %v", uphill.Mul(5), p)
	}
	p = ProjectVelocityOnGround(mgl32.Vec3{3, -4, 0}, slope, Up)
	if !Vec3ApproxEq(p, uphill.Mul(5), 1e-4) {
		t.Fatalf("expected velocity into the slope to keep its speed, got %v", p)
	}
	p = ProjectVelocityOnGround(uphill.Mul(5), slope, Up)
	if !Vec3ApproxEq(p, uphill.Mul(5), 1e-4) {
		t.Fatalf("expected velocity along the slope to be unchanged, got %v", p)
	}
}

func TestTwistAround(t *testing.T) {
	yaw := mgl32.QuatRotate(mgl32.DegToRad(40), Up)
	roll := mgl32.QuatRotate(mgl32.DegToRad(25), mgl32.Vec3{1, 0, 0})
	twist := TwistAround(yaw.Mul(roll), Up)
	if math32.Abs(math32.Abs(twist.Dot(yaw))-1) > 1e-3 {
		t.Fatalf("expected twist to match yaw, got %v", twist)
	}
	if q := TwistAround(roll, Up); math32.Abs(q.W-1) > 1e-5 {
		t.Fatalf("expected no twist from pure roll, got %v", q)
	}
}

func TestStatistics(t *testing.T) {
	nums := []float32{2, 4, 4, 4, 5, 5, 7, 9}
	if Mean(nums) != 5 {
		t.Fatalf("expected mean 5, got %v", Mean(nums))
	}
	if StandardDeviation(nums) != 2 {
		t.Fatalf("expected standard deviation 2, got %v", StandardDeviation(nums))
	}
	if Mean([]int{}) != 0 {
		t.Fatal("expected zero mean for empty input")
	}
}
