package collision

import "github.com/go-gl/mathgl/mgl32"

// Filter admits or rejects a hit. A nil Filter admits every hit.
type Filter func(h Hit) bool

// closest returns the admitted hit with the lowest distance. Ties keep the earliest hit.
func closest(hits []Hit, filter Filter) (Hit, bool) {
	best, found := Hit{}, false
	for _, h := range hits {
		if filter != nil && !filter(h) {
			continue
		}
		if !found || h.Distance < best.Distance {
			best, found = h, true
		}
	}
	return best, found
}

// ShapeCastClosest sweeps shape through w and returns the closest admitted hit. buf is used as
// scratch space and returned for reuse.
func ShapeCastClosest(w World, shape Shape, start, end mgl32.Vec3, rotation mgl32.Quat, filter Filter, buf []Hit) (Hit, bool, []Hit) {
	buf = w.ShapeCastAll(shape, start, end, rotation, buf[:0])
	h, ok := closest(buf, filter)
	return h, ok, buf
}

// RaycastClosest casts a ray through w and returns the closest admitted hit.
func RaycastClosest(w World, origin, dir mgl32.Vec3, length float32, filter Filter, buf []Hit) (Hit, bool, []Hit) {
	buf = w.RaycastAll(origin, dir, length, buf[:0])
	h, ok := closest(buf, filter)
	return h, ok, buf
}

// ShapeDistanceClosest returns the admitted collider closest to shape, which is the most
// penetrating one when several overlap.
func ShapeDistanceClosest(w World, shape Shape, pose Pose, maxDistance float32, filter Filter, buf []Hit) (Hit, bool, []Hit) {
	buf = w.ShapeDistanceAll(shape, pose, maxDistance, buf[:0])
	h, ok := closest(buf, filter)
	return h, ok, buf
}
