package character

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/kinematic/collision"
	"github.com/oomph-ac/kinematic/omath"
)

// SlopeForecast is the result of DetectFutureSlopeChange.
type SlopeForecast struct {
	// MovingTowardsNoGrounding is true when there is no ground ahead at all.
	MovingTowardsNoGrounding bool
	FoundSlopeHit            bool
	// Angle is the signed change of slope in radians. Going downhill is negative.
	Angle float32
	Hit   collision.Hit
}

// DetectFutureSlopeChange forecasts the surface the actor reaches after dt along its velocity,
// probing forward from the ground contact, then down, then back towards the actor, then down
// again a little further ahead.
func (ctx *Context) DetectFutureSlopeChange(a *Actor, verticalOffset, downDepth, dt float32) SlopeForecast {
	var f SlopeForecast
	body := &a.Body
	if !body.IsGrounded {
		return f
	}
	dir := omath.SafeNormalize(body.Velocity)
	length := body.Velocity.Len() * dt
	if omath.IsZero(dir) || length <= 0 {
		return f
	}
	up := body.GroundingUp
	down := up.Mul(-1)
	right := omath.SafeNormalize(dir.Cross(up))
	ignoreDynamic := a.Properties.ShouldIgnoreDynamicBodies()
	found := func(h collision.Hit) SlopeForecast {
		return SlopeForecast{
			FoundSlopeHit: true,
			Angle:         omath.SignedAngleRadians(body.GroundHit.Normal, h.Normal, right),
			Hit:           h,
		}
	}

	start := body.GroundHit.Position.Add(up.Mul(verticalOffset))
	if h, ok := ctx.RaycastClosest(a, start, dir, length, ignoreDynamic); ok {
		return found(h)
	}
	ahead := start.Add(dir.Mul(length))
	if h, ok := ctx.RaycastClosest(a, ahead, down, downDepth, ignoreDynamic); ok {
		return found(h)
	}
	below := ahead.Add(down.Mul(downDepth))
	if h, ok := ctx.RaycastClosest(a, below, dir.Mul(-1), length, ignoreDynamic); ok {
		return found(h)
	}
	further := ahead.Add(dir.Mul(SecondaryNoGroundingCheckDistance))
	if h, ok := ctx.RaycastClosest(a, further, down, downDepth, ignoreDynamic); ok {
		return found(h)
	}
	f.MovingTowardsNoGrounding = true
	return f
}

// PreventGroundingFromFutureSlopeChange ungrounds the actor when it is about to walk off a ledge
// or onto a downward slope steeper than allowed.
func (ctx *Context) PreventGroundingFromFutureSlopeChange(a *Actor) {
	step := a.Properties.Step
	if !a.Body.IsGrounded || !(step.PreventGroundingWhenMovingTowardsNoGrounding || step.HasMaxDownwardSlopeChangeAngle) {
		return
	}
	downDepth := max(GroundProbeLength, a.Properties.GroundSnappingDistance)
	if step.StepHandling {
		downDepth = max(downDepth, step.MaxStepHeight)
	}
	f := ctx.DetectFutureSlopeChange(a, CollisionOffset, downDepth+CollisionOffset, ctx.DeltaTime)
	if step.PreventGroundingWhenMovingTowardsNoGrounding && f.MovingTowardsNoGrounding {
		a.Body.IsGrounded = false
		return
	}
	if step.HasMaxDownwardSlopeChangeAngle && f.FoundSlopeHit && mgl32.RadToDeg(f.Angle) < -step.MaxDownwardSlopeChangeAngle {
		a.Body.IsGrounded = false
	}
}
