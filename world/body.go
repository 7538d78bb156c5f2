package world

import (
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/kinematic/collision"
)

// MotionType is how a body moves.
type MotionType uint8

const (
	// MotionStatic bodies never move.
	MotionStatic MotionType = iota
	// MotionKinematic bodies move by their velocity and ignore impulses.
	MotionKinematic
	// MotionDynamic bodies are integrated under gravity and receive deferred impulses.
	MotionDynamic
)

// BodySettings describes a body to add to a World.
type BodySettings struct {
	Collider Collider
	Pose     collision.Pose
	Motion   MotionType
	Mass     float32
	Material collision.Material

	LinearVelocity  mgl32.Vec3
	AngularVelocity mgl32.Vec3

	// Character marks the body as the proxy of a character actor. Character bodies are moved by
	// their actor and skipped by Step.
	Character bool
	// Tracked bodies expose their previous and current pose for platform riding.
	Tracked bool
	// Resting dynamic bodies ignore gravity. The world has no contact solver, so a dynamic body
	// placed on the ground needs this to stay there.
	Resting bool
	// LinearDamping is the fraction of linear velocity a dynamic body loses per second.
	LinearDamping float32
}

// Body is a copy of the state of a body.
type Body struct {
	ID collision.BodyID
	BodySettings

	PreviousPose collision.Pose
	Bounds       cube.BBox
}

func (b *Body) massProperties() collision.MassProperties {
	props := collision.MassProperties{InertiaOrientation: b.Pose.Rotation}
	if b.Motion != MotionDynamic || b.Mass <= 0 {
		return props
	}
	props.InverseMass = 1 / b.Mass
	in := b.Collider.inertia(b.Mass)
	for i := 0; i < 3; i++ {
		if in[i] > 0 {
			props.InverseInertia[i] = 1 / in[i]
		}
	}
	return props
}

func (b *Body) motion() collision.Motion {
	return collision.Motion{
		LinearVelocity:  b.LinearVelocity,
		AngularVelocity: b.AngularVelocity,
		CenterOfMass:    b.Pose.Position,
		Mass:            b.massProperties(),
		Dynamic:         b.Motion == MotionDynamic,
		Character:       b.Character,
	}
}

func (b *Body) refreshBounds() {
	b.Bounds = worldBounds(b.Collider, b.Pose)
}

// integrate advances the pose of a moving body by its velocities.
func (b *Body) integrate(dt float32, gravity mgl32.Vec3) {
	b.PreviousPose = b.Pose
	if b.Motion == MotionStatic {
		return
	}
	if b.Motion == MotionDynamic {
		if !b.Resting {
			b.LinearVelocity = b.LinearVelocity.Add(gravity.Mul(dt))
		}
		b.LinearVelocity = b.LinearVelocity.Mul(max(0, 1-b.LinearDamping*dt))
	}
	b.Pose.Position = b.Pose.Position.Add(b.LinearVelocity.Mul(dt))
	if b.AngularVelocity.LenSqr() > 0 {
		spin := mgl32.Quat{V: b.AngularVelocity.Mul(0.5 * dt)}.Mul(b.Pose.Rotation)
		b.Pose.Rotation = b.Pose.Rotation.Add(spin).Normalize()
	}
	b.refreshBounds()
}
