package character

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/kinematic/collision"
)

// GroundingEvaluation tells IsGroundedOnHit why a hit is being evaluated.
type GroundingEvaluation uint8

const (
	GroundingDefault GroundingEvaluation = iota
	GroundingDetection
	GroundingOverlapDecollision
	GroundingInitialOverlaps
	GroundingMovementHit
	GroundingStepUpHit
)

// Processor is implemented by callers to change how an actor reacts to collisions. Every call
// receives the update context and the actor being updated. Implementations usually embed
// DefaultProcessor and override the methods they need.
type Processor interface {
	// UpdateGroundingUp sets Body.GroundingUp for the update.
	UpdateGroundingUp(ctx *Context, a *Actor)
	// CanCollideWithHit admits or rejects a raw hit.
	CanCollideWithHit(ctx *Context, a *Actor, hit collision.Hit) bool
	// IsGroundedOnHit decides whether the actor can stand on the hit.
	IsGroundedOnHit(ctx *Context, a *Actor, hit collision.BasicHit, eval GroundingEvaluation) bool
	// OnMovementHit reacts to a hit found by the movement loop. It may change the remaining
	// movement and replace the hit.
	OnMovementHit(ctx *Context, a *Actor, hit *Hit, remainingDir *mgl32.Vec3, remainingLen *float32, originalDir mgl32.Vec3, hitDistance float32)
	// ProjectVelocityOnHits constrains velocity by the given planes, most recent last.
	ProjectVelocityOnHits(ctx *Context, a *Actor, velocity *mgl32.Vec3, isGrounded *bool, groundHit *collision.BasicHit, hits []VelocityProjectionHit, originalDir mgl32.Vec3)
	// OverrideDynamicHitMasses may change the mass terms used to solve a dynamic hit.
	OverrideDynamicHitMasses(ctx *Context, a *Actor, self, other *collision.MassProperties, hit Hit)
}

// DefaultProcessor implements Processor with the stock behaviour.
type DefaultProcessor struct{}

// UpdateGroundingUp uses the up axis of the actor rotation.
func (DefaultProcessor) UpdateGroundingUp(_ *Context, a *Actor) {
	a.Body.GroundingUp = a.LocalUp()
}

// CanCollideWithHit admits hits on collidable materials.
func (DefaultProcessor) CanCollideWithHit(_ *Context, _ *Actor, hit collision.Hit) bool {
	return hit.Material.IsCollidable()
}

// IsGroundedOnHit accepts walkable slopes, and step edges when step handling is enabled.
func (DefaultProcessor) IsGroundedOnHit(ctx *Context, a *Actor, hit collision.BasicHit, eval GroundingEvaluation) bool {
	return ctx.DefaultIsGroundedOnHit(a, hit, eval)
}

// OnMovementHit attempts a step up, and otherwise projects the velocity on the hit.
func (DefaultProcessor) OnMovementHit(ctx *Context, a *Actor, hit *Hit, remainingDir *mgl32.Vec3, remainingLen *float32, originalDir mgl32.Vec3, hitDistance float32) {
	ctx.DefaultOnMovementHit(a, hit, remainingDir, remainingLen, originalDir, hitDistance)
}

// ProjectVelocityOnHits runs the crease and corner projection.
func (DefaultProcessor) ProjectVelocityOnHits(ctx *Context, a *Actor, velocity *mgl32.Vec3, isGrounded *bool, groundHit *collision.BasicHit, hits []VelocityProjectionHit, originalDir mgl32.Vec3) {
	ctx.DefaultProjectVelocityOnHits(a, velocity, isGrounded, groundHit, hits, originalDir)
}

// OverrideDynamicHitMasses keeps the masses unchanged.
func (DefaultProcessor) OverrideDynamicHitMasses(*Context, *Actor, *collision.MassProperties, *collision.MassProperties, Hit) {
}
