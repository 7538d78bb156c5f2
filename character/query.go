package character

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/kinematic/collision"
)

// The query primitives wrap the collision world and drop hits the actor must not react to. The
// returned slices alias the context scratch buffers and are only valid until the next query of
// the same kind.

// CastShapeAll sweeps the actor shape from start along the unit dir.
func (ctx *Context) CastShapeAll(a *Actor, start, dir mgl32.Vec3, length float32, ignoreDynamic bool) []collision.Hit {
	ctx.castHits = ctx.World.ShapeCastAll(a.Shape, start, start.Add(dir.Mul(length)), a.Rotation, ctx.castHits[:0])
	ctx.castHits = ctx.filterHits(a, ctx.castHits, ignoreDynamic)
	return ctx.castHits
}

// CastShapeClosest returns the closest admitted hit of a sweep of the actor shape.
func (ctx *Context) CastShapeClosest(a *Actor, start, dir mgl32.Vec3, length float32, ignoreDynamic bool) (collision.Hit, bool) {
	var (
		h  collision.Hit
		ok bool
	)
	h, ok, ctx.castHits = collision.ShapeCastClosest(ctx.World, a.Shape, start, start.Add(dir.Mul(length)), a.Rotation, ctx.admits(a, ignoreDynamic), ctx.castHits)
	return h, ok
}

// RaycastAll casts a ray from origin along the unit dir.
func (ctx *Context) RaycastAll(a *Actor, origin, dir mgl32.Vec3, length float32, ignoreDynamic bool) []collision.Hit {
	ctx.rayHits = ctx.World.RaycastAll(origin, dir, length, ctx.rayHits[:0])
	ctx.rayHits = ctx.filterHits(a, ctx.rayHits, ignoreDynamic)
	return ctx.rayHits
}

// RaycastClosest returns the closest admitted ray hit.
func (ctx *Context) RaycastClosest(a *Actor, origin, dir mgl32.Vec3, length float32, ignoreDynamic bool) (collision.Hit, bool) {
	var (
		h  collision.Hit
		ok bool
	)
	h, ok, ctx.rayHits = collision.RaycastClosest(ctx.World, origin, dir, length, ctx.admits(a, ignoreDynamic), ctx.rayHits)
	return h, ok
}

// ShapeDistanceAll returns the colliders within maxDistance of the actor shape at pose.
func (ctx *Context) ShapeDistanceAll(a *Actor, pose collision.Pose, maxDistance float32, ignoreDynamic bool) []collision.Hit {
	ctx.distanceHits = ctx.World.ShapeDistanceAll(a.Shape, pose, maxDistance, ctx.distanceHits[:0])
	ctx.distanceHits = ctx.filterHits(a, ctx.distanceHits, ignoreDynamic)
	return ctx.distanceHits
}

// ShapeDistanceClosest returns the admitted collider closest to the actor shape at pose.
func (ctx *Context) ShapeDistanceClosest(a *Actor, pose collision.Pose, maxDistance float32, ignoreDynamic bool) (collision.Hit, bool) {
	var (
		h  collision.Hit
		ok bool
	)
	h, ok, ctx.distanceHits = collision.ShapeDistanceClosest(ctx.World, a.Shape, pose, maxDistance, ctx.admits(a, ignoreDynamic), ctx.distanceHits)
	return h, ok
}
