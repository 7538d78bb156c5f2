package world

import (
	df_cube "github.com/df-mc/dragonfly/server/block/cube"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/oomph-ac/kinematic/collision"
)

// DFBoxToCubeBox converts a dragonfly bounding box to a float32-cube bounding box.
func DFBoxToCubeBox(b df_cube.BBox) cube.BBox {
	return cube.Box(
		float32(b.Min().X()), float32(b.Min().Y()), float32(b.Min().Z()),
		float32(b.Max().X()), float32(b.Max().Y()), float32(b.Max().Z()),
	)
}

// AddBox adds a static axis aligned box and returns its id.
func (w *World) AddBox(box cube.BBox, material collision.Material) collision.BodyID {
	center := box.Min().Add(box.Max()).Mul(0.5)
	return w.Add(BodySettings{
		Collider: Box{HalfExtents: box.Max().Sub(box.Min()).Mul(0.5)},
		Pose:     collision.NewPose(center),
		Motion:   MotionStatic,
		Material: material,
	})
}

// AddBlockCollisions adds the collision boxes of a block model at pos as static bodies. The boxes
// are relative to the block position, as returned by a dragonfly block model.
func (w *World) AddBlockCollisions(pos df_cube.Pos, boxes []df_cube.BBox, material collision.Material) []collision.BodyID {
	ids := make([]collision.BodyID, 0, len(boxes))
	for _, b := range boxes {
		box := DFBoxToCubeBox(b.Translate(pos.Vec3()))
		if box.Max().Sub(box.Min()).LenSqr() == 0 {
			continue
		}
		ids = append(ids, w.AddBox(box, material))
	}
	w.logger.Debug("added block collisions", "pos", pos, "boxes", len(ids))
	return ids
}

// FullBlock is the collision box of a full solid block.
func FullBlock() []df_cube.BBox {
	return []df_cube.BBox{df_cube.Box(0, 0, 0, 1, 1, 1)}
}
