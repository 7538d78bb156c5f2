package character

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/kinematic/collision"
	"github.com/oomph-ac/kinematic/omath"
)

// platformPointVelocity returns the velocity of a world point carried by a body moving from prev
// to curr over dt.
func platformPointVelocity(prev, curr collision.Pose, point mgl32.Vec3, dt float32) mgl32.Vec3 {
	if dt <= 0 {
		return mgl32.Vec3{}
	}
	return curr.Transform(prev.InverseTransform(point)).Sub(point).Mul(1 / dt)
}

// SetParent attaches the actor to a tracked body at a world anchor point, or detaches it when
// id is NoBody or not tracked.
func (ctx *Context) SetParent(a *Actor, id collision.BodyID, anchor mgl32.Vec3) {
	body := &a.Body
	if id != collision.NoBody {
		if _, curr, ok := ctx.World.TrackedPlatformTransform(id); ok {
			body.ParentID = id
			body.ParentLocalAnchorPoint = curr.InverseTransform(anchor)
			return
		}
	}
	body.ParentID = collision.NoBody
	body.ParentLocalAnchorPoint = mgl32.Vec3{}
}

// ParentMovement carries the actor along with the movement of its parent since the last update.
// Only the rotation of the parent around the grounding up axis is applied to the actor.
func (ctx *Context) ParentMovement(a *Actor) {
	body := &a.Body
	if body.ParentID == collision.NoBody {
		body.ParentVelocity = mgl32.Vec3{}
		return
	}
	prev, curr, ok := ctx.World.TrackedPlatformTransform(body.ParentID)
	if !ok {
		ctx.Log.Debug("parent lost", "actor", a.BodyID, "body", body.ParentID)
		body.ParentID = collision.NoBody
		body.ParentLocalAnchorPoint = mgl32.Vec3{}
		body.ParentVelocity = mgl32.Vec3{}
		return
	}

	displacement := curr.Transform(body.ParentLocalAnchorPoint).Sub(prev.Transform(body.ParentLocalAnchorPoint))

	rotation := omath.TwistAround(omath.RotationDelta(prev.Rotation, curr.Rotation), body.GroundingUp)
	body.RotationFromParent = rotation
	a.Rotation = rotation.Mul(a.Rotation).Normalize()

	if a.Properties.DetectObstructionsForParentBodyMovement && displacement.LenSqr() > 0 {
		dir := omath.SafeNormalize(displacement)
		length := displacement.Len()
		hits := ctx.CastShapeAll(a, a.Position, dir, length, a.Properties.ShouldIgnoreDynamicBodies())
		obstructed := -1
		for i, h := range hits {
			if h.Body == body.ParentID || !IsObstructing(h, dir) {
				continue
			}
			if obstructed < 0 || h.Distance < hits[obstructed].Distance {
				obstructed = i
			}
		}
		if obstructed >= 0 {
			displacement = dir.Mul(max(0, hits[obstructed].Distance-CollisionOffset))
		}
	}

	a.Position = a.Position.Add(displacement)
	if ctx.DeltaTime > 0 {
		body.ParentVelocity = displacement.Mul(1 / ctx.DeltaTime)
	}
}

// MovingPlatformDetection parents the actor to the tracked body it is grounded on, if any.
func (ctx *Context) MovingPlatformDetection(a *Actor) {
	body := &a.Body
	if !a.Properties.DetectMovingPlatforms {
		return
	}
	if body.IsGrounded {
		ctx.SetParent(a, body.GroundHit.Body, body.GroundHit.Position)
		return
	}
	ctx.SetParent(a, collision.NoBody, mgl32.Vec3{})
}

// ParentMomentum keeps the world velocity of the actor unchanged when its parent changes: the
// velocity of the old parent is added and the point velocity of the new parent removed.
func (ctx *Context) ParentMomentum(a *Actor) {
	body := &a.Body
	if body.ParentID == body.PreviousParentID {
		return
	}
	if body.PreviousParentID != collision.NoBody {
		body.Velocity = body.Velocity.Add(body.ParentVelocity)
	}
	if body.ParentID != collision.NoBody {
		if prev, curr, ok := ctx.World.TrackedPlatformTransform(body.ParentID); ok {
			body.Velocity = body.Velocity.Sub(platformPointVelocity(prev, curr, a.Position, ctx.DeltaTime))
			if body.IsGrounded {
				body.Velocity = omath.ProjectVelocityOnGround(body.Velocity, body.GroundHit.Normal, body.GroundingUp)
			}
		}
	}
}
