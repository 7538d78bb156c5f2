package character

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/kinematic/collision"
	"github.com/oomph-ac/kinematic/omath"
)

// CheckForSteppingUpHit tries to climb the obstruction described by hit: cast up by the max step
// height, across the obstruction, then down onto it. On success the actor is moved onto the step
// and grounded on it, the velocity is flattened and hit is replaced by the step surface hit.
func (ctx *Context) CheckForSteppingUpHit(a *Actor, hit *Hit, remainingDir *mgl32.Vec3, remainingLen *float32, hitDistance float32) bool {
	body := &a.Body
	step := a.Properties.Step
	up := body.GroundingUp
	if !step.StepHandling || step.MaxStepHeight <= 0 || !body.IsGrounded || hit.IsGroundedOnHit {
		return false
	}
	if math32.Abs(remainingDir.Dot(up)) >= MaxStepUpDirectionDot || ctx.World.IsBodyDynamic(hit.Body) {
		return false
	}
	ignoreDynamic := a.Properties.ShouldIgnoreDynamicBodies()

	upDistance := step.MaxStepHeight
	if h, ok := ctx.castObstruction(a, a.Position, up, step.MaxStepHeight, ignoreDynamic); ok {
		upDistance = max(0, h.Distance-CollisionOffset)
	}
	if upDistance <= 0 {
		return false
	}
	top := a.Position.Add(up.Mul(upDistance))

	forwardDir := omath.SafeNormalize(omath.ProjectOnPlane(hit.Normal.Mul(-1), up))
	if omath.IsZero(forwardDir) {
		return false
	}
	forwardDistance := omath.ProjectOnVector(remainingDir.Mul(*remainingLen), hit.Normal).Len()
	forwardDistance = max(forwardDistance, MinStepForwardDistance)
	if h, ok := ctx.castObstruction(a, top, forwardDir, forwardDistance, ignoreDynamic); ok {
		forwardDistance = max(0, h.Distance-CollisionOffset)
	}
	if forwardDistance <= omath.Epsilon {
		return false
	}
	over := top.Add(forwardDir.Mul(forwardDistance))

	downHit, ok := ctx.castObstruction(a, over, up.Mul(-1), upDistance, ignoreDynamic)
	if !ok {
		return false
	}
	stepHit := downHit.Basic()
	groundedOnStep := ctx.Processor.IsGroundedOnHit(ctx, a, stepHit, GroundingStepUpHit)
	if !groundedOnStep {
		return false
	}

	hitHeight := upDistance - max(0, downHit.Distance-CollisionOffset)
	steppedHeight := max(0, hitHeight)
	if width := step.CharacterWidthForStepGroundingCheck; width > 0 {
		slopeDir := omath.SafeNormalize(up.Cross(stepHit.Normal).Cross(stepHit.Normal)).Mul(-1)
		origin := stepHit.Position.Add(up.Mul(CollisionOffset)).Add(slopeDir.Mul(CollisionOffset))
		if slopeHit, ok := ctx.RaycastClosest(a, origin, up.Mul(-1), step.MaxStepHeight, ignoreDynamic); ok {
			stepHit = slopeHit.Basic()
			steppedHeight = hitHeight + math32.Tan(omath.AngleRadians(stepHit.Normal, up))*width*0.5
		}
	}
	if steppedHeight >= step.MaxStepHeight {
		return false
	}

	a.Position = a.Position.Add(up.Mul(hitHeight)).Add(forwardDir.Mul(forwardDistance))
	body.IsGrounded = true
	body.GroundHit = stepHit

	velocityBefore := body.Velocity
	body.Velocity = omath.ProjectOnPlane(body.Velocity, up)
	*remainingDir = omath.SafeNormalize(body.Velocity)
	consumed := min(forwardDistance, *remainingLen)
	*remainingLen -= consumed
	ctx.Report.SteppedOver += consumed

	*hit = newHit(stepHit, body.IsGrounded, groundedOnStep, velocityBefore)
	ctx.Log.Debug("stepped up", "actor", a.BodyID, "body", stepHit.Body, "height", hitHeight)
	return true
}

// castObstruction sweeps the actor shape and returns the closest hit facing against dir.
func (ctx *Context) castObstruction(a *Actor, start, dir mgl32.Vec3, length float32, ignoreDynamic bool) (collision.Hit, bool) {
	hits := ctx.CastShapeAll(a, start, dir, length, ignoreDynamic)
	if i := ClosestObstructingHit(hits, dir); i >= 0 {
		return hits[i], true
	}
	return collision.Hit{}, false
}
