package character

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/kinematic/collision"
)

// IsAdmissible reports whether the actor reacts to a raw hit at all.
func (ctx *Context) IsAdmissible(a *Actor, h collision.Hit, ignoreDynamic bool) bool {
	if h.Body == a.BodyID {
		return false
	}
	if ignoreDynamic && ctx.World.IsBodyDynamic(h.Body) {
		return false
	}
	return ctx.Processor.CanCollideWithHit(ctx, a, h)
}

func (ctx *Context) admits(a *Actor, ignoreDynamic bool) collision.Filter {
	return func(h collision.Hit) bool {
		return ctx.IsAdmissible(a, h, ignoreDynamic)
	}
}

// filterHits removes inadmissible hits in place, keeping order.
func (ctx *Context) filterHits(a *Actor, hits []collision.Hit, ignoreDynamic bool) []collision.Hit {
	n := 0
	for _, h := range hits {
		if ctx.IsAdmissible(a, h, ignoreDynamic) {
			hits[n] = h
			n++
		}
	}
	return hits[:n]
}

// IsObstructing reports whether a hit normal faces against dir.
func IsObstructing(h collision.Hit, dir mgl32.Vec3) bool {
	return h.Normal.Dot(dir) < 0
}

// ClosestHit returns the index of the hit with the lowest distance, or -1. Ties keep the
// earliest hit.
func ClosestHit(hits []collision.Hit) int {
	best := -1
	for i, h := range hits {
		if best < 0 || h.Distance < hits[best].Distance {
			best = i
		}
	}
	return best
}

// ClosestObstructingHit returns the index of the closest hit facing against dir, or -1. Among
// hits at the same distance the one facing most directly against dir wins.
func ClosestObstructingHit(hits []collision.Hit, dir mgl32.Vec3) int {
	best := -1
	for i, h := range hits {
		if !IsObstructing(h, dir) {
			continue
		}
		if best < 0 {
			best = i
			continue
		}
		d := h.Distance - hits[best].Distance
		switch {
		case d < -DotProductSimilarityEpsilon*CollisionOffset:
			best = i
		case d <= DotProductSimilarityEpsilon*CollisionOffset && h.Normal.Dot(dir) < hits[best].Normal.Dot(dir):
			best = i
		}
	}
	return best
}

// MostPenetratingHit returns the index of the hit with the lowest negative distance, or -1 if no
// hit penetrates.
func MostPenetratingHit(hits []collision.Hit) int {
	best := -1
	for i, h := range hits {
		if h.Distance >= 0 {
			continue
		}
		if best < 0 || h.Distance < hits[best].Distance {
			best = i
		}
	}
	return best
}
