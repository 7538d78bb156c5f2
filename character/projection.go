package character

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/kinematic/collision"
	"github.com/oomph-ac/kinematic/omath"
)

// DefaultProjectVelocityOnHits constrains velocity by the most recent hit, then looks for a
// second plane the result still moves into. Two such planes form a crease the velocity is
// projected along. When the actor is grounded and neither plane is ground, or a third plane is
// still violated after the crease projection, the planes form a corner and velocity is zeroed.
// originalDir acts as an extra plane, so the velocity never turns back against where the actor
// meant to go.
func (ctx *Context) DefaultProjectVelocityOnHits(a *Actor, velocity *mgl32.Vec3, isGrounded *bool, groundHit *collision.BasicHit, hits []VelocityProjectionHit, originalDir mgl32.Vec3) {
	if len(hits) == 0 || velocity.LenSqr() <= 0 {
		return
	}
	up := a.Body.GroundingUp
	first := hits[len(hits)-1]

	if velocity.Dot(first.Normal) < 0 {
		*velocity = projectOnSingleHit(*velocity, first, isGrounded, groundHit, up)
	}

	pseudo := VelocityProjectionHit{Normal: originalDir}
	if *isGrounded {
		pseudo.Normal = omath.SafeNormalize(omath.ProjectOnPlane(originalDir, up))
	}
	// Candidate second planes: the original direction first, then every earlier hit.
	candidate := func(i int) (VelocityProjectionHit, bool) {
		if i == 0 {
			return pseudo, !omath.IsZero(pseudo.Normal)
		}
		return hits[i-1], true
	}
	count := len(hits)

	direction := omath.SafeNormalize(*velocity)
	for i := 0; i < count; i++ {
		second, ok := candidate(i)
		if !ok || direction.Dot(second.Normal) >= -DotProductSimilarityEpsilon {
			continue
		}

		if *isGrounded && !first.IsGroundedOnHit && !second.IsGroundedOnHit {
			*velocity = mgl32.Vec3{}
			return
		}
		if second.IsGroundedOnHit && !*isGrounded {
			*isGrounded = true
			*groundHit = collision.BasicHit{Body: second.Body, Position: second.Position, Normal: second.Normal}
		}

		crease := omath.SafeNormalize(first.Normal.Cross(second.Normal))
		if omath.IsZero(crease) {
			*velocity = omath.ProjectOnPlane(*velocity, second.Normal)
		} else {
			*velocity = omath.ProjectOnVector(*velocity, crease)
		}

		direction = omath.SafeNormalize(*velocity)
		for j := 0; j < count; j++ {
			if j == i {
				continue
			}
			third, ok := candidate(j)
			if ok && direction.Dot(third.Normal) < -DotProductSimilarityEpsilon {
				*velocity = mgl32.Vec3{}
				return
			}
		}
		return
	}
}

// projectOnSingleHit constrains v by one plane.
func projectOnSingleHit(v mgl32.Vec3, hit VelocityProjectionHit, isGrounded *bool, groundHit *collision.BasicHit, up mgl32.Vec3) mgl32.Vec3 {
	if *isGrounded {
		if hit.IsGroundedOnHit {
			*groundHit = collision.BasicHit{Body: hit.Body, Position: hit.Position, Normal: hit.Normal}
			return omath.ReorientOnPlaneAlongDirection(v, hit.Normal, up)
		}
		// Slide along the crease between the ground and the obstruction.
		crease := omath.SafeNormalize(groundHit.Normal.Cross(hit.Normal))
		if omath.IsZero(crease) {
			return omath.ProjectOnPlane(v, hit.Normal)
		}
		return omath.ProjectOnVector(v, crease)
	}

	if hit.IsGroundedOnHit {
		*isGrounded = true
		*groundHit = collision.BasicHit{Body: hit.Body, Position: hit.Position, Normal: hit.Normal}
	}
	return omath.ProjectOnPlane(v, hit.Normal)
}
