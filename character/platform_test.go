package character

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/kinematic/collision"
	"github.com/oomph-ac/kinematic/omath"
	"github.com/oomph-ac/kinematic/world"
)

func TestRidePlatform(t *testing.T) {
	w := world.New(nil)
	platform := w.Add(world.BodySettings{
		Collider:       world.Box{HalfExtents: mgl32.Vec3{5, 0.5, 5}},
		Pose:           collision.NewPose(mgl32.Vec3{0, -0.5, 0}),
		Motion:         world.MotionKinematic,
		LinearVelocity: mgl32.Vec3{1, 0, 0},
		Tracked:        true,
	})
	a := newActor(w, 2, 0.5, mgl32.Vec3{0, 0.01, 0}, testProperties())

	update(w, a, nil)
	if a.Body.ParentID != platform {
		t.Fatalf("expected actor to be parented to the platform, got %v", a.Body.ParentID)
	}

	w.Step(testDeltaTime, testGravity)
	update(w, a, nil)
	if math32.Abs(a.Position.X()-0.1) > 1e-3 {
		t.Fatalf("expected actor to be carried by 0.1, got x %v", a.Position.X())
	}
	if !omath.Vec3ApproxEq(a.Body.ParentVelocity, mgl32.Vec3{1, 0, 0}, 1e-3) {
		t.Fatalf("expected parent velocity (1, 0, 0), got %v", a.Body.ParentVelocity)
	}
	if a.Body.Velocity.Len() > 1e-3 {
		t.Fatalf("expected no own velocity while riding, got %v", a.Body.Velocity)
	}

	// Leaving the platform keeps the momentum it gave.
	w.Step(testDeltaTime, testGravity)
	a.Position = a.Position.Add(mgl32.Vec3{0, 1, 0})
	update(w, a, nil)
	if a.Body.ParentID != collision.NoBody || a.Body.IsGrounded {
		t.Fatalf("expected actor to be detached and airborne, got parent %v", a.Body.ParentID)
	}
	if !omath.Vec3ApproxEq(a.Body.Velocity, mgl32.Vec3{1, 0, 0}, 1e-3) {
		t.Fatalf("expected platform momentum (1, 0, 0), got %v", a.Body.Velocity)
	}
}

func TestRemovedParentIsDropped(t *testing.T) {
	w := world.New(nil)
	platform := w.Add(world.BodySettings{
		Collider: world.Box{HalfExtents: mgl32.Vec3{5, 0.5, 5}},
		Pose:     collision.NewPose(mgl32.Vec3{0, -0.5, 0}),
		Motion:   world.MotionKinematic,
		Tracked:  true,
	})
	a := newActor(w, 2, 0.5, mgl32.Vec3{0, 0.01, 0}, testProperties())
	update(w, a, nil)
	if a.Body.ParentID != platform {
		t.Fatalf("expected actor to be parented to the platform, got %v", a.Body.ParentID)
	}

	if err := w.Remove(platform); err != nil {
		t.Fatalf("remove platform: %v", err)
	}
	update(w, a, nil)
	if a.Body.ParentID != collision.NoBody {
		t.Fatalf("expected parent to be dropped, got %v", a.Body.ParentID)
	}
	if a.Body.ParentVelocity.Len() != 0 {
		t.Fatalf("expected no parent velocity, got %v", a.Body.ParentVelocity)
	}
}

func TestUntrackedGroundIsNotAParent(t *testing.T) {
	w := newFloorWorld()
	a := newActor(w, 2, 0.5, mgl32.Vec3{0, 0.01, 0}, testProperties())
	update(w, a, nil)
	if !a.Body.IsGrounded || a.Body.ParentID != collision.NoBody {
		t.Fatalf("expected grounded actor without parent, got grounded %v parent %v", a.Body.IsGrounded, a.Body.ParentID)
	}
}

func TestPlatformRotationIsTwistOnly(t *testing.T) {
	w := world.New(nil)
	spin := mgl32.QuatRotate(mgl32.DegToRad(10), mgl32.Vec3{0, 1, 0})
	platform := w.Add(world.BodySettings{
		Collider: world.Box{HalfExtents: mgl32.Vec3{5, 0.5, 5}},
		Pose:     collision.NewPose(mgl32.Vec3{0, -0.5, 0}),
		Motion:   world.MotionKinematic,
		Tracked:  true,
	})
	a := newActor(w, 2, 0.5, mgl32.Vec3{1, 0.01, 0}, testProperties())
	update(w, a, nil)

	tilt := mgl32.QuatRotate(mgl32.DegToRad(5), mgl32.Vec3{1, 0, 0})
	if err := w.MoveBody(platform, collision.Pose{Position: mgl32.Vec3{0, -0.5, 0}, Rotation: spin.Mul(tilt)}); err != nil {
		t.Fatalf("move platform: %v", err)
	}
	ctx := NewContext(w, nil, testDeltaTime, testGravity, nil)
	defer ctx.Release()
	ctx.Initialize(a)
	ctx.ParentMovement(a)

	up := a.Rotation.Rotate(mgl32.Vec3{0, 1, 0})
	if !omath.Vec3ApproxEq(up, mgl32.Vec3{0, 1, 0}, 1e-4) {
		t.Fatalf("expected actor to stay upright, got up %v", up)
	}
	if a.Rotation.Len() < 0.999 || a.Rotation.W > 0.99999 {
		t.Fatalf("expected actor to turn with the platform, got %v", a.Rotation)
	}
}
