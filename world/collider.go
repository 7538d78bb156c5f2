package world

import (
	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/kinematic/collision"
)

// Collider is the geometry attached to a body, expressed in the local space of the body.
type Collider interface {
	// localBounds returns the local space half extents enclosing the collider.
	localBounds() mgl32.Vec3
	// inertia returns the diagonal of the inertia tensor for the given mass.
	inertia(mass float32) mgl32.Vec3
}

// Box is an oriented box centered on the body origin.
type Box struct {
	HalfExtents mgl32.Vec3
}

func (b Box) localBounds() mgl32.Vec3 { return b.HalfExtents }

func (b Box) inertia(mass float32) mgl32.Vec3 {
	x, y, z := b.HalfExtents[0]*2, b.HalfExtents[1]*2, b.HalfExtents[2]*2
	k := mass / 12
	return mgl32.Vec3{k * (y*y + z*z), k * (x*x + z*z), k * (x*x + y*y)}
}

// Capsule is a segment inflated by a radius. A capsule with equal end points is a sphere.
type Capsule struct {
	Start, End mgl32.Vec3
	Radius     float32
}

// FromShape builds a collider from a character shape.
func FromShape(s collision.Shape) Capsule {
	a, b := s.Segment(collision.NewPose(mgl32.Vec3{}))
	return Capsule{Start: a, End: b, Radius: s.Radius()}
}

func (c Capsule) localBounds() mgl32.Vec3 {
	r := c.Radius
	return mgl32.Vec3{
		math32.Max(math32.Abs(c.Start[0]), math32.Abs(c.End[0])) + r,
		math32.Max(math32.Abs(c.Start[1]), math32.Abs(c.End[1])) + r,
		math32.Max(math32.Abs(c.Start[2]), math32.Abs(c.End[2])) + r,
	}
}

// inertia approximates the capsule by its bounding box.
func (c Capsule) inertia(mass float32) mgl32.Vec3 {
	return Box{HalfExtents: c.localBounds()}.inertia(mass)
}

// worldBounds returns the axis aligned box enclosing a collider at the given pose.
func worldBounds(c Collider, pose collision.Pose) cube.BBox {
	half := c.localBounds()
	rot := pose.Rotation
	if rot.Len() == 0 {
		rot = mgl32.QuatIdent()
	}
	m := rot.Mat4()
	var ext mgl32.Vec3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			ext[i] += math32.Abs(m.At(i, j)) * half[j]
		}
	}
	p := pose.Position
	return cube.Box(p[0]-ext[0], p[1]-ext[1], p[2]-ext[2], p[0]+ext[0], p[1]+ext[1], p[2]+ext[2])
}
