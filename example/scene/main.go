package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	df_cube "github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/block/model"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/getsentry/sentry-go"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/kinematic/collision"
	"github.com/oomph-ac/kinematic/settings"
	"github.com/oomph-ac/kinematic/simulation"
	"github.com/oomph-ac/kinematic/world"
)

// The following program walks a few actors around a small scene with a slope, stairs, a wall, a
// moving platform and a crate, logging their state every second.
func main() {
	path := "kinematic.toml"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	s, err := settings.Load(path)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: s.LogLevel()}))

	if s.Debug.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: s.Debug.SentryDSN}); err != nil {
			panic(err)
		}
		defer sentry.Flush(time.Second * 5)
	}
	if s.Debug.StatsView {
		// set configurations before calling `statsview.New()` method
		viewer.SetConfiguration(viewer.WithTheme(viewer.ThemeWesteros), viewer.WithAddr(s.Debug.StatsViewAddr))

		mgr := statsview.New()
		go mgr.Start()
		defer mgr.Stop()
	}

	sim := simulation.New(buildScene(log), s.Gravity(), s.Simulation.Workers, log)
	shape := collision.UprightCapsule(float32(s.Character.Height), float32(s.Character.Radius))
	props := s.Character.Properties()
	for _, a := range []struct {
		pos, velocity mgl32.Vec3
	}{
		{pos: mgl32.Vec3{0, 0.01, 0}, velocity: mgl32.Vec3{0, 0, 3}},
		{pos: mgl32.Vec3{0, 0.01, -2}, velocity: mgl32.Vec3{3, 0, 0}},
		{pos: mgl32.Vec3{-2, 0.01, 2}, velocity: mgl32.Vec3{-2, 0, 0}},
		{pos: mgl32.Vec3{2, 0.01, 2}, velocity: mgl32.Vec3{0, 0, -3}},
		{pos: mgl32.Vec3{8, 1.01, -8}, velocity: mgl32.Vec3{}},
	} {
		sim.AddAgent(shape, a.pos, props, nil, simulation.Walk(a.velocity))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	dt := s.DeltaTime()
	t := time.NewTicker(time.Second / time.Duration(s.Simulation.TickRate))
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
		if err := sim.Tick(dt); err != nil {
			log.Error("tick failed", "err", err)
			return
		}

		st := sim.Stats()
		if st.Ticks%uint64(s.Simulation.TickRate) != 0 {
			continue
		}
		log.Info("tick",
			"ticks", st.Ticks,
			"agents", st.Agents,
			"grounded", st.Grounded,
			"mean", st.MeanTickTime,
			"stddev", st.StdDevTickTime,
			"max", st.MaxTickTime,
		)
		for _, agent := range sim.Agents() {
			a := agent.Actor
			log.Debug("agent",
				"body", a.BodyID,
				"pos", a.Position,
				"velocity", a.Body.Velocity,
				"grounded", a.Body.IsGrounded,
				"parent", a.Body.ParentID,
			)
		}
	}
}

// buildScene builds the world every actor walks through.
func buildScene(log *slog.Logger) *world.World {
	w := world.New(log)
	w.AddBox(cube.Box(-20, -1, -20, 20, 0, 20), collision.Material{})

	// A wall along x and a 25 degree ramp beyond it.
	w.AddBox(cube.Box(-10, 0, 10, 10, 3, 11), collision.Material{})
	w.Add(world.BodySettings{
		Collider: world.Box{HalfExtents: mgl32.Vec3{2, 0.25, 4}},
		Pose: collision.Pose{
			Position: mgl32.Vec3{-8, 0.5, 0},
			Rotation: mgl32.QuatRotate(mgl32.DegToRad(25), mgl32.Vec3{0, 0, 1}),
		},
	})

	// Stairs of slabs and full blocks going up along x.
	for i := 0; i < 4; i++ {
		pos := df_cube.Pos{3 + i, 0, -3}
		for z := 0; z < 3; z++ {
			pos[2] = -3 + z
			var boxes []df_cube.BBox
			if i%2 == 0 {
				boxes = model.Slab{}.BBox(pos, nil)
			} else {
				boxes = model.Solid{}.BBox(pos, nil)
			}
			w.AddBlockCollisions(pos, boxes, collision.Material{})
		}
	}

	// A platform drifting along z, a crate and a trigger volume.
	w.Add(world.BodySettings{
		Collider:       world.Box{HalfExtents: mgl32.Vec3{1.5, 0.5, 1.5}},
		Pose:           collision.NewPose(mgl32.Vec3{8, 0.5, -8}),
		Motion:         world.MotionKinematic,
		LinearVelocity: mgl32.Vec3{0, 0, 0.5},
		Tracked:        true,
	})
	w.Add(world.BodySettings{
		Collider:      world.Box{HalfExtents: mgl32.Vec3{0.5, 0.5, 0.5}},
		Pose:          collision.NewPose(mgl32.Vec3{0, 0.5, 5}),
		Motion:        world.MotionDynamic,
		Mass:          5,
		Resting:       true,
		LinearDamping: 2,
	})
	w.AddBox(cube.Box(-6, 0, -6, -4, 2, -4), collision.Material{Response: collision.ResponseTrigger})
	return w
}
