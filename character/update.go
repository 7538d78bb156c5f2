package character

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/kinematic/collision"
	"github.com/oomph-ac/kinematic/omath"
)

// Initialize clears the per update buffers and resets the transient state of the actor.
func (ctx *Context) Initialize(a *Actor) {
	body := &a.Body
	a.CharacterHits = a.CharacterHits[:0]
	a.VelocityProjectionHits = a.VelocityProjectionHits[:0]
	a.DeferredImpulses = a.DeferredImpulses[:0]

	body.LastUpdateDeltaTime = ctx.DeltaTime
	body.WasGroundedBeforeUpdate = body.IsGrounded
	body.PreviousParentID = body.ParentID
	body.RotationFromParent = mgl32.QuatIdent()
	body.IsGrounded = false
	body.GroundHit = collision.BasicHit{}

	ctx.Processor.UpdateGroundingUp(ctx, a)
	if omath.IsZero(omath.SafeNormalize(body.GroundingUp)) {
		body.GroundingUp = omath.Up
	}
}

// MovementAndDecollisions moves the actor, resolves the overlaps left behind and exchanges
// momentum with the bodies hit.
func (ctx *Context) MovementAndDecollisions(a *Actor) {
	props := &a.Properties
	body := &a.Body
	originalDir := omath.SafeNormalize(body.Velocity)

	confirmedNoOverlap := false
	if props.DetectMovementCollisions {
		confirmedNoOverlap = ctx.MoveWithCollisions(a, originalDir)
	} else {
		a.Position = a.Position.Add(body.Velocity.Mul(ctx.DeltaTime))
	}
	if props.DecollideFromOverlaps && !confirmedNoOverlap {
		ctx.SolveOverlaps(a, originalDir)
	}
	ctx.collectTriggerHits(a)
	if len(a.CharacterHits) > 0 {
		ctx.ProcessCharacterHitDynamics(a)
	}
}

// collectTriggerHits reports the trigger volumes the actor is inside as hits, so that stateful
// hits track them.
func (ctx *Context) collectTriggerHits(a *Actor) {
	ctx.distanceHits = ctx.World.ShapeDistanceAll(a.Shape, a.Pose(), 0, ctx.distanceHits[:0])
	for _, h := range ctx.distanceHits {
		if h.Body == a.BodyID || h.Material.Response != collision.ResponseTrigger {
			continue
		}
		a.CharacterHits = append(a.CharacterHits, newHit(h.Basic(), a.Body.IsGrounded, false, a.Body.Velocity))
	}
}

// Update runs every phase of an actor update in order. control is called after grounding and may
// change the velocity of the actor; it may be nil.
func Update(ctx *Context, a *Actor, control func(ctx *Context, a *Actor)) {
	ctx.Initialize(a)
	ctx.ParentMovement(a)
	ctx.Grounding(a)
	if control != nil {
		control(ctx, a)
	}
	ctx.PreventGroundingFromFutureSlopeChange(a)
	ctx.GroundPushing(a)
	ctx.MovementAndDecollisions(a)
	ctx.MovingPlatformDetection(a)
	ctx.ParentMomentum(a)
	ctx.ProcessStatefulHits(a)
}
