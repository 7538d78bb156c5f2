package collision

import "github.com/go-gl/mathgl/mgl32"

// MassProperties are the mass terms used by the two body impulse solve.
type MassProperties struct {
	InverseMass float32
	// InverseInertia is the diagonal of the inverse inertia tensor in the inertia frame.
	InverseInertia     mgl32.Vec3
	InertiaOrientation mgl32.Quat
}

// Motion is the state of a body as seen by a query.
type Motion struct {
	LinearVelocity  mgl32.Vec3
	AngularVelocity mgl32.Vec3
	// CenterOfMass is in world space.
	CenterOfMass mgl32.Vec3
	Mass         MassProperties
	Dynamic      bool
	Character    bool
}

// PointVelocity returns the velocity of the body at a world point.
func (m Motion) PointVelocity(point mgl32.Vec3) mgl32.Vec3 {
	return m.LinearVelocity.Add(m.AngularVelocity.Cross(point.Sub(m.CenterOfMass)))
}

// World is the read-only query surface of a collision world for one tick. Implementations must
// be safe for concurrent use by many readers and must return hits in a deterministic order.
// Results are appended to the given slice, which is returned.
type World interface {
	// ShapeCastAll sweeps shape with the given rotation from start to end.
	ShapeCastAll(shape Shape, start, end mgl32.Vec3, rotation mgl32.Quat, hits []Hit) []Hit
	// RaycastAll casts a ray from origin along the unit direction dir.
	RaycastAll(origin, dir mgl32.Vec3, length float32, hits []Hit) []Hit
	// ShapeDistanceAll returns every collider closer to shape than maxDistance. Penetrating
	// colliders have a negative Distance.
	ShapeDistanceAll(shape Shape, pose Pose, maxDistance float32, hits []Hit) []Hit
	IsBodyDynamic(id BodyID) bool
	// BodyVelocityAndMass returns the motion of a moving body. ok is false for unknown and
	// static bodies.
	BodyVelocityAndMass(id BodyID) (Motion, bool)
	// TrackedPlatformTransform returns the previous and current pose of a tracked body. ok is
	// false if the body does not exist or is not tracked.
	TrackedPlatformTransform(id BodyID) (prev, curr Pose, ok bool)
}
