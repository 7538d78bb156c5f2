package world

import (
	"testing"

	"github.com/chewxy/math32"
	df_cube "github.com/df-mc/dragonfly/server/block/cube"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/kinematic/collision"
	"github.com/oomph-ac/kinematic/omath"
)

func newFloorWorld() (*World, collision.BodyID) {
	w := New(nil)
	id := w.AddBox(cube.Box(-10, -1, -10, 10, 0, 10), collision.Material{})
	return w, id
}

func TestShapeCastHitsFloor(t *testing.T) {
	w, floor := newFloorWorld()
	sphere := collision.Sphere{R: 0.5}

	hits := w.ShapeCastAll(sphere, mgl32.Vec3{0, 2, 0}, mgl32.Vec3{0, 0, 0}, mgl32.QuatIdent(), nil)
	if len(hits) != 1 {
		t.Fatalf("expected one hit, got %d", len(hits))
	}
	h := hits[0]
	if h.Body != floor {
		t.Fatalf("expected floor body %d, got %d", floor, h.Body)
	}
	if math32.Abs(h.Distance-1.5) > 1e-3 || math32.Abs(h.Fraction-0.75) > 1e-3 {
		t.Fatalf("expected hit at 1.5 (fraction 0.75), got %v (%v)", h.Distance, h.Fraction)
	}
	if !omath.Vec3ApproxEq(h.Normal, mgl32.Vec3{0, 1, 0}, 1e-4) {
		t.Fatalf("expected up normal, got %v", h.Normal)
	}
	if !omath.Vec3ApproxEq(h.Position, mgl32.Vec3{0, 0, 0}, 1e-3) {
		t.Fatalf("expected contact at origin, got %v", h.Position)
	}

	if hits := w.ShapeCastAll(sphere, mgl32.Vec3{0, 2, 0}, mgl32.Vec3{0, 4, 0}, mgl32.QuatIdent(), nil); len(hits) != 0 {
		t.Fatalf("expected no hit moving away, got %v", hits)
	}
}

func TestCapsuleCastAgainstCapsule(t *testing.T) {
	w := New(nil)
	w.Add(BodySettings{
		Collider: Capsule{Start: mgl32.Vec3{0, -1, 0}, End: mgl32.Vec3{0, 1, 0}, Radius: 0.5},
		Pose:     collision.NewPose(mgl32.Vec3{5, 1, 0}),
		Motion:   MotionKinematic,
	})
	capsule := collision.UprightCapsule(2, 0.5)

	hits := w.ShapeCastAll(capsule, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{10, 0, 0}, mgl32.QuatIdent(), nil)
	if len(hits) != 1 {
		t.Fatalf("expected one hit, got %d", len(hits))
	}
	if math32.Abs(hits[0].Distance-4) > 1e-3 {
		t.Fatalf("expected hit after 4 units, got %v", hits[0].Distance)
	}
	if !omath.Vec3ApproxEq(hits[0].Normal, mgl32.Vec3{-1, 0, 0}, 1e-3) {
		t.Fatalf("expected normal facing the caster, got %v", hits[0].Normal)
	}
}

func TestRaycast(t *testing.T) {
	w, _ := newFloorWorld()

	hits := w.RaycastAll(mgl32.Vec3{1, 5, 1}, mgl32.Vec3{0, -1, 0}, 10, nil)
	if len(hits) != 1 || math32.Abs(hits[0].Distance-5) > 1e-3 {
		t.Fatalf("expected a hit at distance 5, got %v", hits)
	}
	if hits := w.RaycastAll(mgl32.Vec3{1, 5, 1}, mgl32.Vec3{0, -1, 0}, 4, nil); len(hits) != 0 {
		t.Fatalf("expected a short ray to miss, got %v", hits)
	}
	if hits := w.RaycastAll(mgl32.Vec3{1, -0.5, 1}, mgl32.Vec3{0, -1, 0}, 4, nil); len(hits) != 0 {
		t.Fatalf("expected a ray starting inside to report nothing, got %v", hits)
	}
}

func TestShapeDistancePenetration(t *testing.T) {
	w, _ := newFloorWorld()
	capsule := collision.UprightCapsule(2, 0.5)

	hits := w.ShapeDistanceAll(capsule, collision.NewPose(mgl32.Vec3{0, -0.2, 0}), 0, nil)
	if len(hits) != 1 {
		t.Fatalf("expected one penetrating hit, got %d", len(hits))
	}
	if math32.Abs(hits[0].Distance+0.2) > 1e-4 {
		t.Fatalf("expected penetration of 0.2, got %v", hits[0].Distance)
	}
	if hits := w.ShapeDistanceAll(capsule, collision.NewPose(mgl32.Vec3{0, 0.2, 0}), 0, nil); len(hits) != 0 {
		t.Fatalf("expected no hit when separated, got %v", hits)
	}
}

func TestDeferredAndStep(t *testing.T) {
	w := New(nil)
	crate := w.Add(BodySettings{
		Collider: Box{HalfExtents: mgl32.Vec3{0.5, 0.5, 0.5}},
		Pose:     collision.NewPose(mgl32.Vec3{0, 5, 0}),
		Motion:   MotionDynamic,
		Mass:     10,
	})
	platform := w.Add(BodySettings{
		Collider:       Box{HalfExtents: mgl32.Vec3{2, 0.25, 2}},
		Pose:           collision.NewPose(mgl32.Vec3{0, 0, 0}),
		Motion:         MotionKinematic,
		LinearVelocity: mgl32.Vec3{1, 0, 0},
		Tracked:        true,
	})

	w.ApplyDeferred([]collision.DeferredImpulse{
		{Body: crate, LinearVelocityChange: mgl32.Vec3{2, 0, 0}, Displacement: mgl32.Vec3{0, 0.5, 0}},
		{Body: platform, LinearVelocityChange: mgl32.Vec3{5, 0, 0}},
	})
	b, _ := w.Body(crate)
	if b.LinearVelocity != (mgl32.Vec3{2, 0, 0}) || b.Pose.Position != (mgl32.Vec3{0, 5.5, 0}) {
		t.Fatalf("expected impulse applied to crate, got %v at %v", b.LinearVelocity, b.Pose.Position)
	}
	p, _ := w.Body(platform)
	if p.LinearVelocity != (mgl32.Vec3{1, 0, 0}) {
		t.Fatalf("expected kinematic platform to ignore impulses, got %v", p.LinearVelocity)
	}

	w.Step(0.5, mgl32.Vec3{0, -10, 0})
	prev, curr, ok := w.TrackedPlatformTransform(platform)
	if !ok {
		t.Fatal("expected platform to be tracked")
	}
	if !omath.Vec3ApproxEq(curr.Position.Sub(prev.Position), mgl32.Vec3{0.5, 0, 0}, 1e-5) {
		t.Fatalf("expected platform to move 0.5, moved %v", curr.Position.Sub(prev.Position))
	}
	if _, _, ok := w.TrackedPlatformTransform(crate); ok {
		t.Fatal("expected crate not to be tracked")
	}
	b, _ = w.Body(crate)
	if b.LinearVelocity.Y() != -5 {
		t.Fatalf("expected gravity to apply to crate, got %v", b.LinearVelocity)
	}

	if err := w.Remove(platform); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, _, ok := w.TrackedPlatformTransform(platform); ok {
		t.Fatal("expected removed platform to have no transform")
	}
	if err := w.Remove(platform); err == nil {
		t.Fatal("expected error removing a missing body")
	}
}

func TestAddBlockCollisions(t *testing.T) {
	w := New(nil)
	ids := w.AddBlockCollisions(df_cube.Pos{2, 0, 3}, FullBlock(), collision.Material{})
	if len(ids) != 1 {
		t.Fatalf("expected one body, got %d", len(ids))
	}
	b, ok := w.Body(ids[0])
	if !ok {
		t.Fatal("expected block body to exist")
	}
	if !omath.Vec3ApproxEq(b.Pose.Position, mgl32.Vec3{2.5, 0.5, 3.5}, 1e-6) {
		t.Fatalf("expected block centered at (2.5, 0.5, 3.5), got %v", b.Pose.Position)
	}
	hits := w.RaycastAll(mgl32.Vec3{2.5, 3, 3.5}, mgl32.Vec3{0, -1, 0}, 5, nil)
	if len(hits) != 1 || math32.Abs(hits[0].Distance-2) > 1e-3 {
		t.Fatalf("expected to hit the block top at 2, got %v", hits)
	}
}

func TestRestingAndDamping(t *testing.T) {
	w := New(nil)
	crate := w.Add(BodySettings{
		Collider:       Box{HalfExtents: mgl32.Vec3{0.5, 0.5, 0.5}},
		Pose:           collision.NewPose(mgl32.Vec3{0, 0.5, 0}),
		Motion:         MotionDynamic,
		Mass:           1,
		Resting:        true,
		LinearDamping:  1,
		LinearVelocity: mgl32.Vec3{2, 0, 0},
	})
	w.Step(0.5, mgl32.Vec3{0, -10, 0})

	b, _ := w.Body(crate)
	if !omath.Vec3ApproxEq(b.LinearVelocity, mgl32.Vec3{1, 0, 0}, 1e-6) {
		t.Fatalf("expected resting crate to lose half its velocity, got %v", b.LinearVelocity)
	}
	if b.Pose.Position.Y() != 0.5 {
		t.Fatalf("expected resting crate to stay on the ground, got %v", b.Pose.Position)
	}
}
