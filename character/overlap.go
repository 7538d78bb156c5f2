package character

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/kinematic/collision"
	"github.com/oomph-ac/kinematic/omath"
)

// SolveOverlaps pushes the actor out of the colliders it penetrates, one collider per iteration.
// A kinematic actor only decollides from non dynamic colliders and defers a displacement for
// every dynamic collider it penetrates. A dynamic actor decollides from whichever collider
// penetrates most, sharing the displacement with dynamic colliders by mass.
func (ctx *Context) SolveOverlaps(a *Actor, originalDir mgl32.Vec3) {
	props := &a.Properties
	body := &a.Body
	up := body.GroundingUp
	clearMap(ctx.processedBodies)

	for iteration := 0; ; iteration++ {
		hits := ctx.ShapeDistanceAll(a, a.Pose(), 0, false)

		n := 0
		for _, h := range hits {
			if h.Distance >= 0 {
				continue
			}
			dynamic := ctx.World.IsBodyDynamic(h.Body)
			if dynamic && !props.SimulateDynamicBody {
				ctx.deferOverlapDisplacement(a, h)
				continue
			}
			if dynamic && props.IgnoreDynamicBodies {
				continue
			}
			hits[n] = h
			n++
		}
		hits = hits[:n]
		best := MostPenetratingHit(hits)
		if best < 0 {
			return
		}
		if iteration >= props.MaxOverlapDecollisionIterations {
			ctx.Log.Debug("overlap iterations exhausted", "actor", a.BodyID, "iterations", iteration)
			if props.KillVelocityWhenExceedMaxDecollisionIterations {
				body.Velocity = mgl32.Vec3{}
			}
			return
		}

		hit := hits[best]
		dynamic := ctx.World.IsBodyDynamic(hit.Body)
		overlap := -hit.Distance
		groundedOnHit := props.EvaluateGrounding && ctx.Processor.IsGroundedOnHit(ctx, a, hit.Basic(), GroundingOverlapDecollision)

		decollision := hit.Normal.Mul(overlap)
		maxLength := overlap * DefaultReverseProjectionMaxLengthRatio
		switch {
		case groundedOnHit && hit.Normal.Dot(up) > MinDotRatioForVerticalDecollision:
			decollision = omath.ReverseProjectOnVector(decollision, up, maxLength)
		case body.IsGrounded && !dynamic:
			if dir := omath.SafeNormalize(omath.ProjectOnPlane(hit.Normal, body.GroundHit.Normal)); !omath.IsZero(dir) {
				decollision = omath.ReverseProjectOnVector(decollision, dir, maxLength)
			}
		}

		if dynamic {
			selfShare := ctx.selfDecollisionShare(a, hit.Body)
			if selfShare < 1 {
				ctx.DeferImpulse(a, collision.DeferredImpulse{Body: hit.Body, Displacement: decollision.Mul(selfShare - 1)})
			}
			decollision = decollision.Mul(selfShare)
		}
		a.Position = a.Position.Add(decollision)

		velocityBefore := body.Velocity
		a.VelocityProjectionHits = append(a.VelocityProjectionHits, NewVelocityProjectionHit(hit.Basic(), groundedOnHit))
		ctx.Processor.ProjectVelocityOnHits(ctx, a, &body.Velocity, &body.IsGrounded, &body.GroundHit, a.VelocityProjectionHits, originalDir)

		h := newHit(hit.Basic(), body.IsGrounded, groundedOnHit, velocityBefore)
		h.VelocityAfterHit = body.Velocity
		a.CharacterHits = append(a.CharacterHits, h)
	}
}

// deferOverlapDisplacement pushes a dynamic body out of a kinematic actor, once per body.
func (ctx *Context) deferOverlapDisplacement(a *Actor, h collision.Hit) {
	if _, done := ctx.processedBodies.Get(h.Body); done {
		return
	}
	ctx.processedBodies.Set(h.Body, struct{}{})
	ctx.DeferImpulse(a, collision.DeferredImpulse{Body: h.Body, Displacement: h.Normal.Mul(h.Distance)})

	hit := newHit(h.Basic(), a.Body.IsGrounded, false, a.Body.Velocity)
	a.CharacterHits = append(a.CharacterHits, hit)
}

// selfDecollisionShare returns the part of a decollision the actor takes on itself when
// separating from a dynamic body, by inverse mass.
func (ctx *Context) selfDecollisionShare(a *Actor, other collision.BodyID) float32 {
	motion, ok := ctx.World.BodyVelocityAndMass(other)
	self := characterMass(a.Properties).InverseMass
	if !ok || self+motion.Mass.InverseMass <= 0 {
		return 1
	}
	return self / (self + motion.Mass.InverseMass)
}

// DeferImpulse queues a change on another body.
func (ctx *Context) DeferImpulse(a *Actor, imp collision.DeferredImpulse) {
	a.DeferredImpulses = append(a.DeferredImpulses, imp)
}
