package character

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/kinematic/omath"
)

// MoveWithCollisions moves the actor by its velocity over the delta time, stopping at and reacting
// to every obstruction on the way. It returns true when a cast from the final position found
// nothing at all, which rules out overlaps there. A cast that skipped dynamic bodies rules out
// nothing.
func (ctx *Context) MoveWithCollisions(a *Actor, originalDir mgl32.Vec3) bool {
	props := &a.Properties
	body := &a.Body
	report := &ctx.Report
	report.reset()

	if body.IsGrounded {
		body.Velocity = omath.ProjectVelocityOnGround(body.Velocity, body.GroundHit.Normal, body.GroundingUp)
	}
	remainingDir := omath.SafeNormalize(body.Velocity)
	remainingLen := body.Velocity.Len() * ctx.DeltaTime
	report.Intended = remainingLen

	if props.ProjectVelocityOnInitialOverlaps {
		ctx.projectOnInitialOverlaps(a, originalDir)
		before := remainingLen
		remainingDir = omath.SafeNormalize(body.Velocity)
		remainingLen = body.Velocity.Len() * ctx.DeltaTime
		report.ProjectedAway += before - remainingLen
	}

	ignoreDynamic := props.ShouldIgnoreDynamicBodies()
	confirmedNoOverlap := false
	for report.Iterations < props.MaxContinuousCollisionsIterations && remainingLen > 0 {
		report.Iterations++

		hits := ctx.CastShapeAll(a, a.Position, remainingDir, remainingLen+CollisionOffset, ignoreDynamic)
		closest := ClosestObstructingHit(hits, remainingDir)
		if closest < 0 {
			a.Position = a.Position.Add(remainingDir.Mul(remainingLen))
			report.Advanced = append(report.Advanced, remainingLen)
			remainingLen = 0
			// Dynamic bodies left out of the cast may still overlap the actor.
			confirmedNoOverlap = len(hits) == 0 && !ignoreDynamic
			break
		}
		raw := hits[closest]

		hitDistance := max(0, raw.Distance-CollisionOffset)
		moved := min(remainingLen, hitDistance)
		a.Position = a.Position.Add(remainingDir.Mul(moved))
		remainingLen -= moved
		report.Advanced = append(report.Advanced, moved)

		groundedOnHit := props.EvaluateGrounding && ctx.Processor.IsGroundedOnHit(ctx, a, raw.Basic(), GroundingMovementHit)
		hit := newHit(raw.Basic(), body.IsGrounded, groundedOnHit, body.Velocity)
		ctx.Processor.OnMovementHit(ctx, a, &hit, &remainingDir, &remainingLen, originalDir, hitDistance)
		hit.VelocityAfterHit = body.Velocity
		a.CharacterHits = append(a.CharacterHits, hit)
	}

	if remainingLen > 0 {
		ctx.Log.Debug("movement iterations exhausted", "actor", a.BodyID, "iterations", report.Iterations, "remaining", remainingLen)
		if props.DiscardMovementWhenExceedMaxIterations {
			report.Leftover = remainingLen
		} else {
			a.Position = a.Position.Add(remainingDir.Mul(remainingLen))
			report.Advanced = append(report.Advanced, remainingLen)
		}
		if props.KillVelocityWhenExceedMaxIterations {
			body.Velocity = mgl32.Vec3{}
		}
	}
	return confirmedNoOverlap
}

// DefaultOnMovementHit tries to step up onto a non ground hit, and otherwise adds the hit to the
// projection planes, projects the velocity and shortens the remaining movement by the speed lost.
func (ctx *Context) DefaultOnMovementHit(a *Actor, hit *Hit, remainingDir *mgl32.Vec3, remainingLen *float32, originalDir mgl32.Vec3, hitDistance float32) {
	body := &a.Body
	if ctx.CheckForSteppingUpHit(a, hit, remainingDir, remainingLen, hitDistance) {
		ctx.Report.SteppedUp = true
		return
	}

	a.VelocityProjectionHits = append(a.VelocityProjectionHits, NewVelocityProjectionHit(hit.Basic(), hit.IsGroundedOnHit))
	speedBefore := body.Velocity.Len()
	ctx.Processor.ProjectVelocityOnHits(ctx, a, &body.Velocity, &body.IsGrounded, &body.GroundHit, a.VelocityProjectionHits, originalDir)

	var ratio float32
	if speedBefore > 0 {
		ratio = body.Velocity.Len() / speedBefore
	}
	shortened := *remainingLen * ratio
	ctx.Report.ProjectedAway += *remainingLen - shortened
	*remainingLen = shortened
	*remainingDir = omath.SafeNormalize(body.Velocity)
}

// projectOnInitialOverlaps treats the colliders already touching the actor as projection planes.
func (ctx *Context) projectOnInitialOverlaps(a *Actor, originalDir mgl32.Vec3) {
	body := &a.Body
	hits := ctx.ShapeDistanceAll(a, a.Pose(), 0, a.Properties.ShouldIgnoreDynamicBodies())
	for _, h := range hits {
		grounded := a.Properties.EvaluateGrounding && ctx.Processor.IsGroundedOnHit(ctx, a, h.Basic(), GroundingInitialOverlaps)
		a.VelocityProjectionHits = append(a.VelocityProjectionHits, NewVelocityProjectionHit(h.Basic(), grounded))
		ctx.Processor.ProjectVelocityOnHits(ctx, a, &body.Velocity, &body.IsGrounded, &body.GroundHit, a.VelocityProjectionHits, originalDir)
	}
}
