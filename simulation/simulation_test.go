package simulation

import (
	"testing"

	"github.com/chewxy/math32"
	df_cube "github.com/df-mc/dragonfly/server/block/cube"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/kinematic/character"
	"github.com/oomph-ac/kinematic/collision"
	"github.com/oomph-ac/kinematic/world"
)

const dt float32 = 1.0 / 20

var gravity = mgl32.Vec3{0, -9.81, 0}

func testProperties() character.Properties {
	p := character.DefaultProperties()
	p.Step.MaxStepHeight = 0.3
	return p
}

// newScene builds a floor with a wall, a step, a crate and a few walking actors.
func newScene(workers int) *Simulation {
	w := world.New(nil)
	w.AddBox(cube.Box(-20, -1, -20, 20, 0, 20), collision.Material{})
	w.AddBox(cube.Box(4, 0, -10, 5, 3, 10), collision.Material{})
	w.AddBlockCollisions(df_cube.Pos{-4, -1, 0}, []df_cube.BBox{df_cube.Box(0, 0, 0, 1, 1.2, 1)}, collision.Material{})
	w.Add(world.BodySettings{
		Collider:      world.Box{HalfExtents: mgl32.Vec3{0.5, 0.5, 0.5}},
		Pose:          collision.NewPose(mgl32.Vec3{0, 0.5, 4}),
		Motion:        world.MotionDynamic,
		Mass:          2,
		Resting:       true,
		LinearDamping: 2,
	})

	s := New(w, gravity, workers, nil)
	shape := collision.UprightCapsule(1.8, 0.3)
	for i, v := range []mgl32.Vec3{{0, 0, -3}, {2, 0, -2}, {3, 0, 0.5}, {-3, 0, 0}, {0, 0, 3}, {0, 0, 0}} {
		pos := mgl32.Vec3{float32(i%3) - 1, 0.01, float32(i/3) - 0.5}
		s.AddAgent(shape, pos, testProperties(), nil, Walk(v))
	}
	return s
}

func TestTickDeterministicAcrossWorkers(t *testing.T) {
	var sums []uint64
	for _, workers := range []int{1, 0, 2, 4} {
		s := newScene(workers)
		for i := 0; i < 40; i++ {
			if err := s.Tick(dt); err != nil {
				t.Fatalf("workers %d: tick %d: %v", workers, i, err)
			}
		}
		sum, err := s.Checksum()
		if err != nil {
			t.Fatalf("workers %d: checksum: %v", workers, err)
		}
		sums = append(sums, sum)
	}
	for i := 1; i < len(sums); i++ {
		if sums[i] != sums[0] {
			t.Fatalf("expected identical checksums for every worker count, got %x", sums)
		}
	}
}

func TestAgentBodiesFollowActors(t *testing.T) {
	s := newScene(1)
	for i := 0; i < 5; i++ {
		if err := s.Tick(dt); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}
	for _, agent := range s.Agents() {
		b, ok := s.World().Body(agent.Actor.BodyID)
		if !ok {
			t.Fatalf("missing body for agent %d", agent.Actor.BodyID)
		}
		if b.Pose.Position != agent.Actor.Position {
			t.Fatalf("expected body at %v, got %v", agent.Actor.Position, b.Pose.Position)
		}
		if !agent.Actor.Body.IsGrounded {
			t.Fatalf("expected agent %d to stay grounded", agent.Actor.BodyID)
		}
	}
	if st := s.Stats(); st.Ticks != 5 || st.Agents != 6 || st.Grounded != 6 || st.MaxTickTime < st.MeanTickTime {
		t.Fatalf("unexpected stats %+v", st)
	}
}

func TestAgentPushesCrate(t *testing.T) {
	for _, dynamic := range []bool{true, false} {
		w := world.New(nil)
		w.AddBox(cube.Box(-20, -1, -20, 20, 0, 20), collision.Material{})
		crate := w.Add(world.BodySettings{
			Collider: world.Box{HalfExtents: mgl32.Vec3{0.5, 0.5, 0.5}},
			Pose:     collision.NewPose(mgl32.Vec3{1.5, 0.5, 0}),
			Motion:   world.MotionDynamic,
			Mass:     1,
			Resting:  true,
		})
		props := testProperties()
		props.SimulateDynamicBody = dynamic
		s := New(w, gravity, 1, nil)
		agent := s.AddAgent(collision.UprightCapsule(1.8, 0.3), mgl32.Vec3{0, 0.01, 0}, props, nil, Walk(mgl32.Vec3{4, 0, 0}))

		for i := 0; i < 10; i++ {
			if err := s.Tick(dt); err != nil {
				t.Fatalf("dynamic %v: tick %d: %v", dynamic, i, err)
			}
		}
		b, _ := w.Body(crate)
		if b.Pose.Position.X() <= 1.5 || b.LinearVelocity.X() <= 0 {
			t.Fatalf("dynamic %v: expected crate to be pushed along x, got %v moving %v", dynamic, b.Pose.Position, b.LinearVelocity)
		}
		if gap := b.Pose.Position.X() - 0.5 - agent.Actor.Position.X(); gap < 0 {
			t.Fatalf("dynamic %v: expected the actor not to pass through the crate, gap %v", dynamic, gap)
		}
	}
}

func TestRemoveAgent(t *testing.T) {
	s := newScene(1)
	agents := s.Agents()
	if err := s.RemoveAgent(agents[0]); err != nil {
		t.Fatalf("remove agent: %v", err)
	}
	if _, ok := s.World().Body(agents[0].Actor.BodyID); ok {
		t.Fatal("expected agent body to be removed")
	}
	if err := s.RemoveAgent(agents[0]); err == nil {
		t.Fatal("expected removing twice to fail")
	}
	if len(s.Agents()) != len(agents)-1 {
		t.Fatalf("expected %d agents, got %d", len(agents)-1, len(s.Agents()))
	}
}

func TestFall(t *testing.T) {
	w := world.New(nil)
	s := New(w, gravity, 1, nil)
	agent := s.AddAgent(collision.UprightCapsule(1.8, 0.3), mgl32.Vec3{0, 10, 0}, testProperties(), nil, nil)
	for i := 0; i < 10; i++ {
		if err := s.Tick(dt); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}
	want := gravity.Y() * dt * 10
	if got := agent.Actor.Body.Velocity.Y(); math32.Abs(got-want) > 1e-3 {
		t.Fatalf("expected falling velocity %v, got %v", want, got)
	}
}

func TestRewindResimulates(t *testing.T) {
	w := world.New(nil)
	w.AddBox(cube.Box(-20, -1, -20, 20, 0, 20), collision.Material{})
	w.AddBox(cube.Box(2, 0, -10, 3, 3, 10), collision.Material{})
	s := New(w, gravity, 1, nil)
	agent := s.AddAgent(collision.UprightCapsule(1.8, 0.3), mgl32.Vec3{0, 0.01, 0}, testProperties(), nil, Walk(mgl32.Vec3{3, 0, 1}))

	for i := 0; i < 20; i++ {
		if err := s.Tick(dt); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}
	want, _ := s.Checksum()
	if err := s.Rewind(25); err == nil {
		t.Fatal("expected rewinding to a future tick to fail")
	}
	if err := s.Rewind(10); err != nil {
		t.Fatalf("rewind: %v", err)
	}
	if s.Ticks() != 10 || agent.History.Len() != 10 {
		t.Fatalf("expected to be back at tick 10 with 10 frames, got tick %d with %d frames", s.Ticks(), agent.History.Len())
	}
	f, _ := agent.History.Latest()
	if f.Tick != 10 || agent.Actor.Position != f.Snapshot.Position {
		t.Fatalf("expected actor at its tick 10 state, got %v", agent.Actor.Position)
	}

	for i := 0; i < 10; i++ {
		if err := s.Tick(dt); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}
	if got, _ := s.Checksum(); got != want {
		t.Fatal("expected re-simulated ticks to match the originals")
	}
}

func TestHistoryWraps(t *testing.T) {
	h := NewHistory(3)
	for tick := uint64(1); tick <= 5; tick++ {
		h.Add(Frame{Tick: tick})
	}
	if h.Len() != 3 {
		t.Fatalf("expected 3 frames, got %d", h.Len())
	}
	if _, ok := h.Get(2); ok {
		t.Fatal("expected tick 2 to be overwritten")
	}
	if f, ok := h.Get(4); !ok || f.Tick != 4 {
		t.Fatalf("expected frame of tick 4, got %v %v", f, ok)
	}
	h.DropAfter(3)
	if f, ok := h.Latest(); !ok || f.Tick != 3 || h.Len() != 1 {
		t.Fatalf("expected only tick 3 to remain, got %v with %d frames", f, h.Len())
	}
	h.Add(Frame{Tick: 4})
	if f, _ := h.Latest(); f.Tick != 4 || h.Len() != 2 {
		t.Fatalf("expected tick 4 after re-adding, got %v", f)
	}
}
