package world

import (
	"log/slog"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/kinematic/collision"
	"github.com/oomph-ac/kinematic/oerror"
	"github.com/sasha-s/go-deadlock"
)

// World is a reference collision world. Queries take a read lock and may run from many
// goroutines at once; mutation takes the write lock. Bodies are kept ordered by id so every
// query visits them in the same order.
type World struct {
	bodies []*Body
	nextID collision.BodyID

	logger *slog.Logger

	deadlock.RWMutex
}

// New creates an empty world. A nil logger discards all output.
func New(logger *slog.Logger) *World {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &World{nextID: 1, logger: logger}
}

// Add adds a body and returns its id.
func (w *World) Add(s BodySettings) collision.BodyID {
	w.Lock()
	defer w.Unlock()

	if s.Pose.Rotation.Len() == 0 {
		s.Pose.Rotation = mgl32.QuatIdent()
	}
	b := &Body{ID: w.nextID, BodySettings: s, PreviousPose: s.Pose}
	b.refreshBounds()
	w.nextID++
	w.bodies = append(w.bodies, b)
	return b.ID
}

// Remove removes a body from the world.
func (w *World) Remove(id collision.BodyID) error {
	w.Lock()
	defer w.Unlock()

	i, ok := w.index(id)
	if !ok {
		return oerror.New("world: unknown body %d", id)
	}
	w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
	w.logger.Debug("removed body", "body", id)
	return nil
}

// Body returns a copy of the body with the given id.
func (w *World) Body(id collision.BodyID) (Body, bool) {
	w.RLock()
	defer w.RUnlock()

	b := w.find(id)
	if b == nil {
		return Body{}, false
	}
	return *b, true
}

// Len returns the amount of bodies in the world.
func (w *World) Len() int {
	w.RLock()
	defer w.RUnlock()
	return len(w.bodies)
}

// MoveBody teleports a body, recording its old pose as the previous pose.
func (w *World) MoveBody(id collision.BodyID, pose collision.Pose) error {
	w.Lock()
	defer w.Unlock()

	b := w.find(id)
	if b == nil {
		return oerror.New("world: unknown body %d", id)
	}
	if pose.Rotation.Len() == 0 {
		pose.Rotation = mgl32.QuatIdent()
	}
	b.PreviousPose = b.Pose
	b.Pose = pose
	b.refreshBounds()
	return nil
}

// SetVelocity sets the linear and angular velocity of a body.
func (w *World) SetVelocity(id collision.BodyID, linear, angular mgl32.Vec3) error {
	w.Lock()
	defer w.Unlock()

	b := w.find(id)
	if b == nil {
		return oerror.New("world: unknown body %d", id)
	}
	b.LinearVelocity, b.AngularVelocity = linear, angular
	return nil
}

// ApplyDeferred applies impulses gathered during a tick, in order. Only dynamic bodies react.
func (w *World) ApplyDeferred(impulses []collision.DeferredImpulse) {
	w.Lock()
	defer w.Unlock()

	for _, imp := range impulses {
		b := w.find(imp.Body)
		if b == nil {
			w.logger.Debug("dropped impulse for missing body", "body", imp.Body)
			continue
		}
		if b.Motion != MotionDynamic {
			continue
		}
		b.LinearVelocity = b.LinearVelocity.Add(imp.LinearVelocityChange)
		b.AngularVelocity = b.AngularVelocity.Add(imp.AngularVelocityChange)
		if imp.Displacement.LenSqr() > 0 {
			b.Pose.Position = b.Pose.Position.Add(imp.Displacement)
			b.refreshBounds()
		}
	}
}

// Step integrates every non character body by dt. Dynamic bodies accelerate under gravity.
func (w *World) Step(dt float32, gravity mgl32.Vec3) {
	w.Lock()
	defer w.Unlock()

	for _, b := range w.bodies {
		if b.Character {
			continue
		}
		b.integrate(dt, gravity)
	}
}

// IsBodyDynamic ...
func (w *World) IsBodyDynamic(id collision.BodyID) bool {
	w.RLock()
	defer w.RUnlock()

	b := w.find(id)
	return b != nil && b.Motion == MotionDynamic
}

// BodyVelocityAndMass returns the motion of a moving body. Static bodies have none.
func (w *World) BodyVelocityAndMass(id collision.BodyID) (collision.Motion, bool) {
	w.RLock()
	defer w.RUnlock()

	b := w.find(id)
	if b == nil || b.Motion == MotionStatic {
		return collision.Motion{}, false
	}
	return b.motion(), true
}

// TrackedPlatformTransform ...
func (w *World) TrackedPlatformTransform(id collision.BodyID) (collision.Pose, collision.Pose, bool) {
	w.RLock()
	defer w.RUnlock()

	b := w.find(id)
	if b == nil || !b.Tracked {
		return collision.Pose{}, collision.Pose{}, false
	}
	return b.PreviousPose, b.Pose, true
}

func (w *World) index(id collision.BodyID) (int, bool) {
	i := sort.Search(len(w.bodies), func(i int) bool { return w.bodies[i].ID >= id })
	return i, i < len(w.bodies) && w.bodies[i].ID == id
}

func (w *World) find(id collision.BodyID) *Body {
	if i, ok := w.index(id); ok {
		return w.bodies[i]
	}
	return nil
}
