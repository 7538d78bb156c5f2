package simulation

import (
	"log/slog"
	"slices"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/kinematic/character"
	"github.com/oomph-ac/kinematic/collision"
	"github.com/oomph-ac/kinematic/oerror"
	"github.com/oomph-ac/kinematic/world"
	"github.com/oomph-ac/kinematic/worker"
	"github.com/sasha-s/go-deadlock"
	"github.com/zeebo/xxh3"
)

// tickSamples is the number of recent tick durations kept for Stats.
const tickSamples = 128

// Agent is an actor updated by a Simulation.
type Agent struct {
	Actor *character.Actor
	// Processor customises the collision response of the actor. It may be nil.
	Processor character.Processor
	// Control sets the velocity of the actor every tick, after grounding. It may be nil, in which
	// case the actor only falls.
	Control func(ctx *character.Context, a *character.Actor)
	// Report is the movement report of the last tick.
	Report character.MoveReport
	// History holds the state of the actor at the end of the last ticks.
	History *History
}

// Simulation steps a world together with the actors moving through it. Actors are updated in
// parallel against the world as it was at the start of the tick. Their effects on other bodies
// are applied afterwards in the order the actors were added, so a tick gives the same result
// for any number of workers.
type Simulation struct {
	mu deadlock.Mutex

	world   *world.World
	gravity mgl32.Vec3
	workers int
	log     *slog.Logger

	agents []*Agent
	byBody map[collision.BodyID]*Agent

	ticks     uint64
	durations []time.Duration
}

// New creates a simulation of w. workers is the number of actors updated at once; zero or less
// updates every actor at once and one updates them on the calling goroutine.
func New(w *world.World, gravity mgl32.Vec3, workers int, log *slog.Logger) *Simulation {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Simulation{
		world:   w,
		gravity: gravity,
		workers: workers,
		log:     log,
		byBody:  make(map[collision.BodyID]*Agent),
	}
}

// World returns the simulated world.
func (s *Simulation) World() *world.World {
	return s.world
}

// AddAgent adds an actor of the given shape standing at pos, together with the body representing
// it in the world.
func (s *Simulation) AddAgent(shape collision.Shape, pos mgl32.Vec3, props character.Properties, processor character.Processor, control func(*character.Context, *character.Actor)) *Agent {
	s.mu.Lock()
	defer s.mu.Unlock()

	motion := world.MotionKinematic
	if props.SimulateDynamicBody {
		motion = world.MotionDynamic
	}
	id := s.world.Add(world.BodySettings{
		Collider:  world.FromShape(shape),
		Pose:      collision.NewPose(pos),
		Motion:    motion,
		Mass:      props.Mass,
		Character: true,
	})
	agent := &Agent{
		Actor:     character.NewActor(id, shape, pos, props),
		Processor: processor,
		Control:   control,
		History:   NewHistory(historySize),
	}
	s.agents = append(s.agents, agent)
	s.byBody[id] = agent
	s.log.Debug("added agent", "body", id, "pos", pos)
	return agent
}

// RemoveAgent removes an agent and its body.
func (s *Simulation) RemoveAgent(agent *Agent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.Index(s.agents, agent)
	if i < 0 {
		return oerror.New("simulation: unknown agent %d", agent.Actor.BodyID)
	}
	s.agents = slices.Delete(s.agents, i, i+1)
	delete(s.byBody, agent.Actor.BodyID)
	return s.world.Remove(agent.Actor.BodyID)
}

// Agents returns the agents in the order they were added.
func (s *Simulation) Agents() []*Agent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.agents)
}

// Tick advances the simulation by dt: every actor is updated, the impulses the actors deferred
// are applied, actor bodies are moved to their actors and the world is stepped.
func (s *Simulation) Tick(dt float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := time.Now()

	if err := s.updateAgents(dt); err != nil {
		return err
	}
	for _, agent := range s.agents {
		s.applyDeferred(agent.Actor.DeferredImpulses)
	}
	for _, agent := range s.agents {
		a := agent.Actor
		if err := s.world.MoveBody(a.BodyID, a.Pose()); err != nil {
			return err
		}
		if err := s.world.SetVelocity(a.BodyID, a.Body.Velocity, mgl32.Vec3{}); err != nil {
			return err
		}
	}
	s.world.Step(dt, s.gravity)

	s.ticks++
	for _, agent := range s.agents {
		agent.History.Add(Frame{Tick: s.ticks, Snapshot: agent.Actor.Save()})
	}
	s.durations = append(s.durations, time.Since(start))
	if len(s.durations) > tickSamples {
		s.durations = slices.Delete(s.durations, 0, len(s.durations)-tickSamples)
	}
	return nil
}

func (s *Simulation) updateAgents(dt float32) error {
	update := func(i int) error {
		agent := s.agents[i]
		ctx := character.NewContext(s.world, agent.Processor, dt, s.gravity, s.log)
		defer ctx.Release()

		control := agent.Control
		if control == nil {
			control = Fall
		}
		character.Update(ctx, agent.Actor, control)
		agent.Report = ctx.Report
		agent.Report.Advanced = slices.Clone(ctx.Report.Advanced)
		return nil
	}

	if s.workers == 1 {
		for i := range s.agents {
			if err := update(i); err != nil {
				return err
			}
		}
		return nil
	}
	batch := len(s.agents)
	if s.workers > 0 {
		batch = (len(s.agents) + s.workers - 1) / s.workers
	}
	batches := 0
	if batch > 0 {
		batches = (len(s.agents) + batch - 1) / batch
	}
	return worker.Run("actor update", batches, func(b int) error {
		for i := b * batch; i < min((b+1)*batch, len(s.agents)); i++ {
			if err := update(i); err != nil {
				return err
			}
		}
		return nil
	})
}

// applyDeferred applies impulses to the actors they target, and passes the rest to the world.
func (s *Simulation) applyDeferred(impulses []collision.DeferredImpulse) {
	rest := impulses[:0:0]
	for _, imp := range impulses {
		target, ok := s.byBody[imp.Body]
		if !ok {
			rest = append(rest, imp)
			continue
		}
		a := target.Actor
		if !a.Properties.SimulateDynamicBody {
			continue
		}
		a.Body.Velocity = a.Body.Velocity.Add(imp.LinearVelocityChange)
		a.Position = a.Position.Add(imp.Displacement)
	}
	s.world.ApplyDeferred(rest)
}

// Ticks returns the number of ticks simulated.
func (s *Simulation) Ticks() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ticks
}

// Rewind restores every actor to its state at the end of tick and forgets the later frames, so
// that the ticks after it can be simulated again. Only actors are rewound; the world keeps its
// current state. Actors without a frame for tick are left as they are.
func (s *Simulation) Rewind(tick uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if tick > s.ticks {
		return oerror.New("simulation: cannot rewind to future tick %d, at %d", tick, s.ticks)
	}
	for _, agent := range s.agents {
		a := agent.Actor
		f, ok := agent.History.Get(tick)
		if !ok {
			s.log.Debug("no frame to rewind to", "body", a.BodyID, "tick", tick)
			continue
		}
		if err := a.Restore(f.Snapshot); err != nil {
			return err
		}
		agent.History.DropAfter(tick)
		if err := s.world.MoveBody(a.BodyID, a.Pose()); err != nil {
			return err
		}
		if err := s.world.SetVelocity(a.BodyID, a.Body.Velocity, mgl32.Vec3{}); err != nil {
			return err
		}
	}
	s.ticks = tick
	return nil
}

// Checksum hashes the state of every actor. Two simulations that ran identically have equal
// checksums.
func (s *Simulation) Checksum() (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := xxh3.New()
	for _, agent := range s.agents {
		b, err := agent.Actor.Save().MarshalBinary()
		if err != nil {
			return 0, err
		}
		_, _ = h.Write(b)
	}
	return h.Sum64(), nil
}

// Fall applies gravity to an airborne actor.
func Fall(ctx *character.Context, a *character.Actor) {
	if !a.Body.IsGrounded {
		a.Body.Velocity = a.Body.Velocity.Add(ctx.Gravity.Mul(ctx.DeltaTime))
	}
}

// Walk returns a control moving the actor at velocity along the ground. The vertical part of the
// actor velocity is kept and gravity applies while airborne.
func Walk(velocity mgl32.Vec3) func(*character.Context, *character.Actor) {
	return func(ctx *character.Context, a *character.Actor) {
		up := a.Body.GroundingUp
		vertical := up.Mul(a.Body.Velocity.Dot(up))
		if a.Body.IsGrounded {
			vertical = mgl32.Vec3{}
		}
		a.Body.Velocity = velocity.Sub(up.Mul(velocity.Dot(up))).Add(vertical)
		Fall(ctx, a)
	}
}
