package character

import (
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/kinematic/collision"
	"github.com/oomph-ac/kinematic/oerror"
	"github.com/vmihailenco/msgpack/v5"
	"github.com/zeebo/xxh3"
)

// Snapshot is the full state of an actor, used to rewind it for re-simulation.
type Snapshot struct {
	ShapeKind    collision.ShapeKind
	Position     mgl32.Vec3
	Rotation     mgl32.Quat
	Body         Body
	StatefulHits []StatefulHit
}

// snapshotData has the fields of Snapshot without its methods, so msgpack encodes the fields
// instead of calling MarshalBinary again.
type snapshotData Snapshot

// Save captures the state of the actor.
func (a *Actor) Save() Snapshot {
	return Snapshot{
		ShapeKind:    a.Shape.Kind(),
		Position:     a.Position,
		Rotation:     a.Rotation,
		Body:         a.Body,
		StatefulHits: slices.Clone(a.StatefulHits),
	}
}

// Restore rewinds the actor to s. If the actor shape changed kind since s was saved, the state is
// still restored and an error is returned.
func (a *Actor) Restore(s Snapshot) error {
	a.Position = s.Position
	a.Rotation = s.Rotation
	a.Body = s.Body
	a.StatefulHits = append(a.StatefulHits[:0], s.StatefulHits...)
	a.CharacterHits = a.CharacterHits[:0]
	a.VelocityProjectionHits = a.VelocityProjectionHits[:0]
	a.DeferredImpulses = a.DeferredImpulses[:0]

	if kind := a.Shape.Kind(); kind != s.ShapeKind {
		return oerror.New("restore: snapshot of a %s applied to a %s actor", s.ShapeKind, kind)
	}
	return nil
}

// MarshalBinary encodes the snapshot with msgpack.
func (s Snapshot) MarshalBinary() ([]byte, error) {
	return msgpack.Marshal((*snapshotData)(&s))
}

// UnmarshalBinary decodes a snapshot encoded by MarshalBinary.
func (s *Snapshot) UnmarshalBinary(b []byte) error {
	if err := msgpack.Unmarshal(b, (*snapshotData)(s)); err != nil {
		return oerror.New("snapshot: %v", err)
	}
	return nil
}

// Checksum hashes the encoded snapshot. Two actors that simulated identically have equal
// checksums.
func (s Snapshot) Checksum() (uint64, error) {
	b, err := s.MarshalBinary()
	if err != nil {
		return 0, err
	}
	return xxh3.Hash(b), nil
}
