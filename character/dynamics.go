package character

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/kinematic/collision"
	"github.com/oomph-ac/kinematic/omath"
)

// characterMass returns the mass terms of an actor. Actors never rotate from impulses, and a
// kinematic actor has infinite mass.
func characterMass(p Properties) collision.MassProperties {
	m := collision.MassProperties{InertiaOrientation: mgl32.QuatIdent()}
	if p.SimulateDynamicBody && p.Mass > 0 {
		m.InverseMass = 1 / p.Mass
	}
	return m
}

// worldInverseInertia applies the inverse inertia tensor of m to v, in world space.
func worldInverseInertia(m collision.MassProperties, v mgl32.Vec3) mgl32.Vec3 {
	rot := m.InertiaOrientation
	if rot.Len() == 0 {
		rot = mgl32.QuatIdent()
	}
	local := rot.Conjugate().Rotate(v)
	local = mgl32.Vec3{local[0] * m.InverseInertia[0], local[1] * m.InverseInertia[1], local[2] * m.InverseInertia[2]}
	return rot.Rotate(local)
}

// SolveCollisionImpulses solves the normal impulse between two bodies touching at point, where
// normal points from b to a. It returns the impulse on a; the impulse on b is its opposite.
func SolveCollisionImpulses(a, b collision.Motion, point, normal mgl32.Vec3) mgl32.Vec3 {
	relative := a.PointVelocity(point).Sub(b.PointVelocity(point)).Dot(normal)
	if relative >= 0 {
		return mgl32.Vec3{}
	}
	ra, rb := point.Sub(a.CenterOfMass), point.Sub(b.CenterOfMass)
	inv := a.Mass.InverseMass + b.Mass.InverseMass
	inv += worldInverseInertia(a.Mass, ra.Cross(normal)).Cross(ra).Dot(normal)
	inv += worldInverseInertia(b.Mass, rb.Cross(normal)).Cross(rb).Dot(normal)
	if inv <= 0 {
		return mgl32.Vec3{}
	}
	return normal.Mul(-relative / inv)
}

// velocityChange returns the linear and angular velocity change of a body receiving impulse at
// point.
func velocityChange(m collision.Motion, impulse, point mgl32.Vec3) (mgl32.Vec3, mgl32.Vec3) {
	linear := impulse.Mul(m.Mass.InverseMass)
	angular := worldInverseInertia(m.Mass, point.Sub(m.CenterOfMass).Cross(impulse))
	return linear, angular
}

// ProcessCharacterHitDynamics exchanges momentum with every body hit during the update, once per
// body. The parent body is skipped. The actor share is applied to its velocity, the other share is
// deferred.
func (ctx *Context) ProcessCharacterHitDynamics(a *Actor) {
	props := &a.Properties
	body := &a.Body
	clearMap(ctx.processedBodies)

	for _, hit := range a.CharacterHits {
		if hit.Body == body.ParentID || !hit.Material.IsCollidable() {
			continue
		}
		if _, done := ctx.processedBodies.Get(hit.Body); done {
			continue
		}
		other, ok := ctx.World.BodyVelocityAndMass(hit.Body)
		if !ok {
			continue
		}
		ctx.processedBodies.Set(hit.Body, struct{}{})

		self := collision.Motion{
			LinearVelocity: body.Velocity.Add(body.ParentVelocity),
			CenterOfMass:   a.Position,
			Mass:           characterMass(*props),
			Dynamic:        props.SimulateDynamicBody,
			Character:      true,
		}

		normal := hit.Normal
		if hit.WasGroundedBeforeHit && hit.Body != body.GroundHit.Body {
			normal = omath.SafeNormalize(omath.ProjectOnPlane(hit.Normal, body.GroundingUp))
		} else if hit.IsGroundedOnHit {
			normal = body.GroundingUp
		}
		if omath.IsZero(normal) {
			continue
		}

		if props.SimulateDynamicBody && other.Dynamic && !other.Character &&
			self.Mass.InverseMass > 0 && other.Mass.InverseMass > 0 {
			ctx.Processor.OverrideDynamicHitMasses(ctx, a, &self.Mass, &other.Mass, hit)
		}
		if !props.SimulateDynamicBody && !other.Dynamic {
			// A kinematic actor against a kinematic body resolves as a unit mass.
			self.Mass.InverseMass = 1
			if other.Character {
				other.LinearVelocity = omath.ProjectOnPlane(other.LinearVelocity, normal)
			}
		}

		// Give back the velocity the projection removed along the normal so it is solved here.
		lost := omath.ProjectOnVector(hit.VelocityBeforeHit.Sub(hit.VelocityAfterHit), normal)
		self.LinearVelocity = self.LinearVelocity.Add(lost)

		impulse := SolveCollisionImpulses(self, other, hit.Position, normal)
		selfChange, _ := velocityChange(self, impulse, hit.Position)
		body.Velocity = body.Velocity.Add(lost).Add(selfChange)

		if hit.IsGroundedOnHit && body.Velocity.Dot(hit.Normal) < -DotProductSimilarityEpsilon {
			body.Velocity = omath.ProjectOnPlane(body.Velocity, body.GroundingUp)
			body.Velocity = omath.ReorientOnPlaneAlongDirection(body.Velocity, hit.Normal, body.GroundingUp)
		}

		// A character moving into us solves the collision in its own update.
		if other.Character && other.LinearVelocity.Dot(normal) > DotProductSimilarityEpsilon {
			continue
		}
		if other.Dynamic {
			linear, angular := velocityChange(other, impulse.Mul(-1), hit.Position)
			ctx.DeferImpulse(a, collision.DeferredImpulse{Body: hit.Body, LinearVelocityChange: linear, AngularVelocityChange: angular})
		}
	}
}

// GroundPushing pushes a dynamic ground body down with the weight of the actor.
func (ctx *Context) GroundPushing(a *Actor) {
	body := &a.Body
	props := &a.Properties
	if !body.IsGrounded || !props.SimulateDynamicBody || body.GroundHit.Body == collision.NoBody {
		return
	}
	ground, ok := ctx.World.BodyVelocityAndMass(body.GroundHit.Body)
	if !ok || !ground.Dynamic || ground.Character {
		return
	}
	normal := omath.SafeNormalize(ctx.Gravity.Mul(-1))
	if omath.IsZero(normal) {
		return
	}

	point := body.GroundHit.Position
	self := collision.Motion{
		LinearVelocity: ground.PointVelocity(point).Add(ctx.Gravity.Mul(ctx.DeltaTime)),
		CenterOfMass:   a.Position,
		Mass:           characterMass(*props),
		Dynamic:        true,
		Character:      true,
	}
	impulse := SolveCollisionImpulses(self, ground, point, normal)
	if impulse.LenSqr() == 0 {
		return
	}
	linear, angular := velocityChange(ground, impulse.Mul(-1), point)
	ctx.DeferImpulse(a, collision.DeferredImpulse{Body: body.GroundHit.Body, LinearVelocityChange: linear, AngularVelocityChange: angular})
}
