package character

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/kinematic/collision"
	"github.com/oomph-ac/kinematic/omath"
)

// IsGroundedOnSlopeNormal reports whether a surface with normal n is walkable.
func IsGroundedOnSlopeNormal(maxDot float32, n, up mgl32.Vec3) bool {
	return n.Dot(up) > maxDot
}

// DefaultIsGroundedOnHit accepts walkable slopes. When step handling is enabled, a ground probe
// hit on a step edge is also accepted if there is walkable ground on both sides of the edge.
func (ctx *Context) DefaultIsGroundedOnHit(a *Actor, hit collision.BasicHit, eval GroundingEvaluation) bool {
	up := a.Body.GroundingUp
	if IsGroundedOnSlopeNormal(a.Properties.MaxGroundedSlopeDotProduct, hit.Normal, up) {
		return true
	}
	step := a.Properties.Step
	if step.StepHandling && eval == GroundingDetection && hit.Normal.Dot(up) > DotProductSimilarityEpsilon {
		return ctx.IsGroundedOnSteps(a, hit, step.MaxStepHeight, step.ExtraStepChecksDistance)
	}
	return false
}

// IsGroundedOnSteps probes around a step edge: down from just behind the edge, then across the
// edge at the height found, then down onto the upper surface.
func (ctx *Context) IsGroundedOnSteps(a *Actor, hit collision.BasicHit, maxStepHeight, extraDistance float32) bool {
	if maxStepHeight <= 0 {
		return false
	}
	up := a.Body.GroundingUp
	down := up.Mul(-1)
	maxDot := a.Properties.MaxGroundedSlopeDotProduct
	ignoreDynamic := a.Properties.ShouldIgnoreDynamicBodies()
	back := omath.SafeNormalize(omath.ProjectOnPlane(hit.Normal, up))
	if omath.IsZero(back) {
		return false
	}

	probe := func(origin, dir mgl32.Vec3, length float32) (collision.Hit, bool) {
		h, ok := ctx.RaycastClosest(a, origin, dir, length, ignoreDynamic)
		return h, ok && h.Distance > 0
	}

	backHit, ok := probe(hit.Position.Add(back.Mul(StepGroundingDetectionHorizontalOffset)), down, maxStepHeight)
	groundedBack := ok && IsGroundedOnSlopeNormal(maxDot, backHit.Normal, up)
	if !groundedBack && extraDistance > StepGroundingDetectionHorizontalOffset {
		backHit, ok = probe(hit.Position.Add(back.Mul(extraDistance)), down, maxStepHeight)
		groundedBack = ok && IsGroundedOnSlopeNormal(maxDot, backHit.Normal, up)
	}
	if !groundedBack {
		return false
	}

	height := maxStepHeight - backHit.Distance
	top := hit.Position.Add(up.Mul(height))
	if forwardHit, ok := ctx.RaycastClosest(a, top, back.Mul(-1), StepGroundingDetectionHorizontalOffset, ignoreDynamic); ok {
		return forwardHit.Distance > 0 && IsGroundedOnSlopeNormal(maxDot, forwardHit.Normal, up)
	}

	forwardHit, ok := probe(top.Sub(back.Mul(StepGroundingDetectionHorizontalOffset)), down, maxStepHeight)
	if ok && IsGroundedOnSlopeNormal(maxDot, forwardHit.Normal, up) {
		return true
	}
	if extraDistance > StepGroundingDetectionHorizontalOffset {
		forwardHit, ok = probe(top.Sub(back.Mul(extraDistance)), down, maxStepHeight)
		return ok && IsGroundedOnSlopeNormal(maxDot, forwardHit.Normal, up)
	}
	return false
}

// DetectGrounding casts the actor down by probeLength and returns whether it stands on ground,
// the ground hit and the distance to it. It does not change the actor.
func (ctx *Context) DetectGrounding(a *Actor, probeLength float32) (bool, collision.BasicHit, float32) {
	up := a.Body.GroundingUp
	down := up.Mul(-1)
	hits := ctx.CastShapeAll(a, a.Position, down, probeLength, a.Properties.ShouldIgnoreDynamicBodies())

	closest := ClosestObstructingHit(hits, down)
	if closest < 0 {
		return false, collision.BasicHit{}, 0
	}
	c := hits[closest]
	if ctx.Processor.IsGroundedOnHit(ctx, a, c.Basic(), GroundingDetection) {
		return true, c.Basic(), c.Distance
	}

	// The closest hit may be an unwalkable edge right next to a walkable face.
	ctx.groundHits = append(ctx.groundHits[:0], hits...)
	sort.SliceStable(ctx.groundHits, func(i, j int) bool {
		return ctx.groundHits[i].Fraction < ctx.groundHits[j].Fraction
	})
	for _, h := range ctx.groundHits {
		if h.Distance-c.Distance > GroundedHitDistanceTolerance {
			break
		}
		if !IsObstructing(h, down) || (h.Body == c.Body && h.Position == c.Position) {
			continue
		}
		if ctx.Processor.IsGroundedOnHit(ctx, a, h.Basic(), GroundingDetection) {
			return true, h.Basic(), h.Distance
		}
	}
	return false, collision.BasicHit{}, 0
}

// Grounding detects the ground under the actor, snaps the actor onto it and projects the
// velocity on it.
func (ctx *Context) Grounding(a *Actor) {
	props := &a.Properties
	body := &a.Body
	if !props.EvaluateGrounding {
		return
	}

	probe := GroundProbeLength
	if body.WasGroundedBeforeUpdate && props.SnapToGround {
		probe = max(props.GroundSnappingDistance, GroundProbeLength)
	}
	grounded, groundHit, distance := ctx.DetectGrounding(a, probe)
	body.IsGrounded = grounded
	if !grounded {
		body.GroundHit = collision.BasicHit{}
		return
	}
	body.GroundHit = groundHit

	if props.SnapToGround {
		a.Position = a.Position.Sub(body.GroundingUp.Mul(distance)).Add(body.GroundingUp.Mul(CollisionOffset))
	}

	velocityBefore := body.Velocity
	a.VelocityProjectionHits = append(a.VelocityProjectionHits, NewVelocityProjectionHit(groundHit, true))
	projectionGrounded := body.WasGroundedBeforeUpdate
	projectionGround := body.GroundHit
	ctx.Processor.ProjectVelocityOnHits(ctx, a, &body.Velocity, &projectionGrounded, &projectionGround, a.VelocityProjectionHits, omath.SafeNormalize(body.Velocity))

	hit := newHit(groundHit, body.WasGroundedBeforeUpdate, true, velocityBefore)
	hit.VelocityAfterHit = body.Velocity
	a.CharacterHits = append(a.CharacterHits, hit)
}
