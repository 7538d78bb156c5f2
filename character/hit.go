package character

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/kinematic/collision"
)

// Hit is a collision accepted during an update.
type Hit struct {
	Body     collision.BodyID
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	Material collision.Material

	WasGroundedBeforeHit bool
	IsGroundedOnHit      bool
	VelocityBeforeHit    mgl32.Vec3
	VelocityAfterHit     mgl32.Vec3
}

// Basic returns the persistent part of the hit.
func (h Hit) Basic() collision.BasicHit {
	return collision.BasicHit{Body: h.Body, Position: h.Position, Normal: h.Normal, Material: h.Material}
}

func newHit(h collision.BasicHit, wasGrounded, groundedOnHit bool, velocity mgl32.Vec3) Hit {
	return Hit{
		Body:                 h.Body,
		Position:             h.Position,
		Normal:               h.Normal,
		Material:             h.Material,
		WasGroundedBeforeHit: wasGrounded,
		IsGroundedOnHit:      groundedOnHit,
		VelocityBeforeHit:    velocity,
		VelocityAfterHit:     velocity,
	}
}

// VelocityProjectionHit is a plane the velocity is constrained by.
type VelocityProjectionHit struct {
	Body            collision.BodyID
	Position        mgl32.Vec3
	Normal          mgl32.Vec3
	IsGroundedOnHit bool
}

// NewVelocityProjectionHit ...
func NewVelocityProjectionHit(h collision.BasicHit, grounded bool) VelocityProjectionHit {
	return VelocityProjectionHit{Body: h.Body, Position: h.Position, Normal: h.Normal, IsGroundedOnHit: grounded}
}

// HitState is the lifecycle state of a stateful hit.
type HitState uint8

const (
	HitEnter HitState = iota
	HitStay
	HitExit
)

func (s HitState) String() string {
	switch s {
	case HitEnter:
		return "enter"
	case HitStay:
		return "stay"
	case HitExit:
		return "exit"
	}
	return "unknown"
}

// StatefulHit is a hit tracked across updates.
type StatefulHit struct {
	Hit
	State HitState
}
