package character

import (
	"testing"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/kinematic/collision"
	"github.com/oomph-ac/kinematic/omath"
)

// newStepWorld returns a floor with a 0.2 high step starting at x = 0.
func newStepWorld() (w collision.World, step collision.BodyID) {
	fw := newFloorWorld()
	step = fw.AddBox(cube.Box(0, 0, -5, 5, 0.2, 5), collision.Material{})
	return fw, step
}

func TestGroundedOnStepEdge(t *testing.T) {
	w, step := newStepWorld()
	props := testProperties()
	// Only the step edge is within reach of the ground cast, at a slope steeper than allowed.
	a := NewActor(collision.NoBody, collision.UprightCapsule(2, 0.5), mgl32.Vec3{-0.38, 0.045, 0}, props)
	ctx := NewContext(w, nil, testDeltaTime, testGravity, nil)
	defer ctx.Release()

	edge := collision.BasicHit{Body: step, Position: mgl32.Vec3{0, 0.2, 0}, Normal: mgl32.Vec3{-0.8, 0.6, 0}}
	if !ctx.IsGroundedOnSteps(a, edge, 0.3, 0.1) {
		t.Fatal("expected walkable ground on both sides of the step edge")
	}
	if ctx.IsGroundedOnSteps(a, edge, 0.15, 0.1) {
		t.Fatal("expected a step higher than the max step height not to count as ground")
	}

	grounded, hit, distance := ctx.DetectGrounding(a, GroundProbeLength)
	if !grounded || hit.Body != step {
		t.Fatalf("expected to be grounded on the step edge, got %v %+v", grounded, hit)
	}
	if hit.Normal.Dot(omath.Up) >= props.MaxGroundedSlopeDotProduct {
		t.Fatalf("expected the edge normal to fail the slope test, got %v", hit.Normal)
	}
	if distance < 0.019 || distance > 0.0201 {
		t.Fatalf("expected the edge 0.02 below the actor, got %v", distance)
	}

	a.Properties.Step.StepHandling = false
	if grounded, _, _ := ctx.DetectGrounding(a, GroundProbeLength); grounded {
		t.Fatal("expected the step edge alone not to ground the actor without step handling")
	}
}

func TestGroundingToleranceBand(t *testing.T) {
	w, step := newStepWorld()
	props := testProperties()
	props.Step.StepHandling = false
	ctx := NewContext(w, nil, testDeltaTime, testGravity, nil)
	defer ctx.Release()

	// The edge is hit 0.01 below the actor and the floor 0.0129 further, inside the band.
	a := NewActor(collision.NoBody, collision.UprightCapsule(2, 0.5), mgl32.Vec3{-0.39, 0.0229, 0}, props)
	hits := ctx.CastShapeAll(a, a.Position, omath.Up.Mul(-1), GroundProbeLength, false)
	if closest := ClosestObstructingHit(hits, omath.Up.Mul(-1)); closest < 0 || hits[closest].Body != step {
		t.Fatalf("expected the step edge to be the closest hit, got %v", hits)
	}
	grounded, hit, distance := ctx.DetectGrounding(a, GroundProbeLength)
	if !grounded || hit.Body != 1 {
		t.Fatalf("expected to be grounded on the floor next to the edge, got %v %+v", grounded, hit)
	}
	if distance < 0.022 || distance > 0.0231 {
		t.Fatalf("expected the floor 0.0229 below the actor, got %v", distance)
	}

	// Here the floor is 0.025 past the edge, outside the band.
	b := NewActor(collision.NoBody, collision.UprightCapsule(2, 0.5), mgl32.Vec3{-0.38, 0.045, 0}, props)
	if grounded, hit, _ := ctx.DetectGrounding(b, 0.1); grounded {
		t.Fatalf("expected the floor outside the band to be ignored, got %+v", hit)
	}
}
