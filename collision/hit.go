package collision

import "github.com/go-gl/mathgl/mgl32"

// BodyID identifies a body in a collision world. NoBody is never assigned to a body.
type BodyID uint32

// NoBody is the zero BodyID.
const NoBody BodyID = 0

// Response describes how a collider reacts to contact.
type Response uint8

const (
	// ResponseCollide colliders block movement.
	ResponseCollide Response = iota
	// ResponseTrigger colliders are reported but never block movement.
	ResponseTrigger
	// ResponseNone colliders are ignored entirely.
	ResponseNone
)

// Material is the surface information attached to a collider.
type Material struct {
	Response Response
	// Tags is a free bitmask callers use for their own ignore rules.
	Tags uint32
}

// IsCollidable reports whether the material blocks movement.
func (m Material) IsCollidable() bool {
	return m.Response == ResponseCollide
}

// Hit is a single result of a ray, shape cast or distance query.
type Hit struct {
	Body     BodyID
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	// Fraction is the fraction of the cast at which the hit happened. It is zero for distance queries.
	Fraction float32
	// Distance is the travelled distance for casts, or the signed separation for distance queries
	// (negative when penetrating).
	Distance float32
	Material Material
}

// BasicHit is the reduced form of a hit kept as persistent state.
type BasicHit struct {
	Body     BodyID
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	Material Material
}

// Basic returns the persistent part of the hit.
func (h Hit) Basic() BasicHit {
	return BasicHit{Body: h.Body, Position: h.Position, Normal: h.Normal, Material: h.Material}
}

// DeferredImpulse is a change requested on another body. It is applied after all actors of a
// tick have been updated.
type DeferredImpulse struct {
	Body                  BodyID
	LinearVelocityChange  mgl32.Vec3
	AngularVelocityChange mgl32.Vec3
	Displacement          mgl32.Vec3
}
