package character

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/kinematic/assert"
	"github.com/oomph-ac/kinematic/collision"
	"github.com/oomph-ac/kinematic/omath"
)

// Body is the persistent motion state of an actor.
type Body struct {
	// Velocity is relative to the parent the actor is riding, if any.
	Velocity mgl32.Vec3

	IsGrounded              bool
	WasGroundedBeforeUpdate bool
	GroundHit               collision.BasicHit
	// GroundingUp is the unit up axis used for slope evaluation during the update.
	GroundingUp mgl32.Vec3

	ParentID               collision.BodyID
	PreviousParentID       collision.BodyID
	ParentLocalAnchorPoint mgl32.Vec3
	ParentVelocity         mgl32.Vec3
	RotationFromParent     mgl32.Quat

	LastUpdateDeltaTime float32
}

// StepAndSlopeProperties configures step handling and slope forecasting.
type StepAndSlopeProperties struct {
	StepHandling  bool
	MaxStepHeight float32
	// ExtraStepChecksDistance is an extra horizontal distance used by step assisted grounding.
	ExtraStepChecksDistance float32
	// CharacterWidthForStepGroundingCheck accounts for the slope of the step surface under the
	// actor when measuring a step.
	CharacterWidthForStepGroundingCheck float32

	PreventGroundingWhenMovingTowardsNoGrounding bool
	HasMaxDownwardSlopeChangeAngle               bool
	// MaxDownwardSlopeChangeAngle is in degrees.
	MaxDownwardSlopeChangeAngle float32
}

// Properties are the tunables of an actor.
type Properties struct {
	EvaluateGrounding          bool
	SnapToGround               bool
	GroundSnappingDistance     float32
	MaxGroundedSlopeDotProduct float32

	DetectMovementCollisions          bool
	DecollideFromOverlaps             bool
	ProjectVelocityOnInitialOverlaps  bool
	MaxContinuousCollisionsIterations int
	MaxOverlapDecollisionIterations   int

	DiscardMovementWhenExceedMaxIterations         bool
	KillVelocityWhenExceedMaxIterations            bool
	KillVelocityWhenExceedMaxDecollisionIterations bool

	DetectObstructionsForParentBodyMovement bool
	DetectMovingPlatforms                   bool

	SimulateDynamicBody bool
	Mass                float32
	IgnoreDynamicBodies bool

	Step StepAndSlopeProperties
}

// DefaultProperties returns properties for a walking actor with a 60 degree slope limit.
func DefaultProperties() Properties {
	return Properties{
		EvaluateGrounding:                 true,
		SnapToGround:                      true,
		GroundSnappingDistance:            0.5,
		MaxGroundedSlopeDotProduct:        omath.DotRatioFromAngle(60),
		DetectMovementCollisions:          true,
		DecollideFromOverlaps:             true,
		MaxContinuousCollisionsIterations: 8,
		MaxOverlapDecollisionIterations:   2,

		DiscardMovementWhenExceedMaxIterations:         true,
		KillVelocityWhenExceedMaxIterations:            true,
		KillVelocityWhenExceedMaxDecollisionIterations: true,

		DetectObstructionsForParentBodyMovement: true,
		DetectMovingPlatforms:                   true,
		SimulateDynamicBody:                     true,
		Mass:                                    1,

		Step: StepAndSlopeProperties{
			StepHandling:                   true,
			MaxStepHeight:                  0.5,
			ExtraStepChecksDistance:        0.1,
			MaxDownwardSlopeChangeAngle:    90,
			HasMaxDownwardSlopeChangeAngle: false,
		},
	}
}

// ShouldIgnoreDynamicBodies reports whether movement queries pass through dynamic bodies.
func (p Properties) ShouldIgnoreDynamicBodies() bool {
	return p.IgnoreDynamicBodies || !p.SimulateDynamicBody
}

// Actor is a character moved through a collision world.
type Actor struct {
	// BodyID is the body representing the actor in the world. Hits with it are ignored.
	BodyID collision.BodyID
	Shape  collision.Shape

	Position mgl32.Vec3
	Rotation mgl32.Quat

	Body       Body
	Properties Properties

	// CharacterHits holds every hit accepted during the last update, in order.
	CharacterHits []Hit
	// VelocityProjectionHits holds the planes constraining the velocity during the last update.
	VelocityProjectionHits []VelocityProjectionHit
	// StatefulHits carries hits across updates with their Enter, Stay or Exit state.
	StatefulHits []StatefulHit
	// DeferredImpulses are changes to other bodies, to be applied once every actor has updated.
	DeferredImpulses []collision.DeferredImpulse

	previousStatefulHits []StatefulHit
}

// NewActor creates an actor standing at pos.
func NewActor(id collision.BodyID, shape collision.Shape, pos mgl32.Vec3, props Properties) *Actor {
	assert.IsTrue(shape != nil, "actor %d has no shape", id)
	return &Actor{
		BodyID:   id,
		Shape:    shape,
		Position: pos,
		Rotation: mgl32.QuatIdent(),
		Body: Body{
			GroundingUp:        omath.Up,
			RotationFromParent: mgl32.QuatIdent(),
		},
		Properties: props,
	}
}

// Pose returns the current pose of the actor.
func (a *Actor) Pose() collision.Pose {
	return collision.Pose{Position: a.Position, Rotation: a.Rotation}
}

// LocalUp returns the up axis of the actor rotation.
func (a *Actor) LocalUp() mgl32.Vec3 {
	return a.Rotation.Rotate(omath.Up)
}
