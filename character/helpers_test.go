package character

import (
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/kinematic/collision"
	"github.com/oomph-ac/kinematic/omath"
	"github.com/oomph-ac/kinematic/world"
)

const testDeltaTime float32 = 0.1

var testGravity = mgl32.Vec3{0, -9.81, 0}

// newFloorWorld returns a world with a large floor whose top is at y = 0.
func newFloorWorld() *world.World {
	w := world.New(nil)
	w.AddBox(cube.Box(-20, -1, -20, 20, 0, 20), collision.Material{})
	return w
}

// newActor adds a kinematic character body for a capsule actor standing at pos.
func newActor(w *world.World, height, radius float32, pos mgl32.Vec3, props Properties) *Actor {
	shape := collision.UprightCapsule(height, radius)
	id := w.Add(world.BodySettings{
		Collider:  world.FromShape(shape),
		Pose:      collision.NewPose(pos),
		Motion:    world.MotionKinematic,
		Mass:      props.Mass,
		Character: true,
	})
	return NewActor(id, shape, pos, props)
}

func testProperties() Properties {
	p := DefaultProperties()
	p.MaxGroundedSlopeDotProduct = omath.DotRatioFromAngle(45)
	p.Step.MaxStepHeight = 0.3
	return p
}

func update(w collision.World, a *Actor, control func(ctx *Context, a *Actor)) *Context {
	ctx := NewContext(w, nil, testDeltaTime, testGravity, nil)
	Update(ctx, a, control)
	return ctx
}

func setVelocity(v mgl32.Vec3) func(*Context, *Actor) {
	return func(_ *Context, a *Actor) {
		a.Body.Velocity = v
	}
}
