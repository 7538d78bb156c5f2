package collision

import "github.com/go-gl/mathgl/mgl32"

// ShapeKind is the kind of a character shape.
type ShapeKind uint8

const (
	ShapeSphere ShapeKind = iota
	ShapeCapsule
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeSphere:
		return "sphere"
	case ShapeCapsule:
		return "capsule"
	}
	return "unknown"
}

// Shape is a convex shape that can be swept through a World. Every supported shape is a
// segment inflated by a radius.
type Shape interface {
	Kind() ShapeKind
	// Segment returns the end points of the core segment in world space for the given pose.
	Segment(p Pose) (a, b mgl32.Vec3)
	Radius() float32
}

// Sphere is a sphere centered on the body origin.
type Sphere struct {
	Center mgl32.Vec3
	R      float32
}

func (s Sphere) Kind() ShapeKind { return ShapeSphere }
func (s Sphere) Radius() float32 { return s.R }

func (s Sphere) Segment(p Pose) (mgl32.Vec3, mgl32.Vec3) {
	c := p.Transform(s.Center)
	return c, c
}

// Capsule is a capsule whose core segment runs from Start to End in local space.
type Capsule struct {
	Start, End mgl32.Vec3
	R          float32
}

// UprightCapsule returns a capsule standing on the local origin with the given total height.
func UprightCapsule(height, radius float32) Capsule {
	return Capsule{
		Start: mgl32.Vec3{0, radius, 0},
		End:   mgl32.Vec3{0, max(radius, height-radius), 0},
		R:     radius,
	}
}

func (c Capsule) Kind() ShapeKind { return ShapeCapsule }
func (c Capsule) Radius() float32 { return c.R }

func (c Capsule) Segment(p Pose) (mgl32.Vec3, mgl32.Vec3) {
	return p.Transform(c.Start), p.Transform(c.End)
}

// Pose is a rigid transform.
type Pose struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
}

// NewPose returns a pose at pos with the identity rotation.
func NewPose(pos mgl32.Vec3) Pose {
	return Pose{Position: pos, Rotation: mgl32.QuatIdent()}
}

// Transform moves a local point into world space.
func (p Pose) Transform(local mgl32.Vec3) mgl32.Vec3 {
	return p.Position.Add(p.rotation().Rotate(local))
}

// InverseTransform moves a world point into the local space of the pose.
func (p Pose) InverseTransform(world mgl32.Vec3) mgl32.Vec3 {
	return p.rotation().Conjugate().Rotate(world.Sub(p.Position))
}

// rotation guards against the zero quaternion of an uninitialised pose.
func (p Pose) rotation() mgl32.Quat {
	if p.Rotation.W == 0 && p.Rotation.V[0] == 0 && p.Rotation.V[1] == 0 && p.Rotation.V[2] == 0 {
		return mgl32.QuatIdent()
	}
	return p.Rotation
}
