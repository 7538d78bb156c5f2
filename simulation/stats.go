package simulation

import (
	"time"

	"github.com/oomph-ac/kinematic/omath"
	"github.com/samber/lo"
)

// Stats summarises the recent ticks of a simulation.
type Stats struct {
	Ticks  uint64
	Agents int
	// Grounded is the number of actors standing on ground after the last tick.
	Grounded int
	// SteppedUp is the number of actors that climbed a step during the last tick.
	SteppedUp int
	// Leftover is the movement discarded during the last tick because the iteration limit was
	// reached, summed over every actor.
	Leftover float32

	MeanTickTime   time.Duration
	StdDevTickTime time.Duration
	MaxTickTime    time.Duration
}

// Stats returns statistics over the last ticks.
func (s *Simulation) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Stats{
		Ticks:  s.ticks,
		Agents: len(s.agents),
		Grounded: lo.CountBy(s.agents, func(a *Agent) bool {
			return a.Actor.Body.IsGrounded
		}),
		SteppedUp: lo.CountBy(s.agents, func(a *Agent) bool {
			return a.Report.SteppedUp
		}),
		Leftover: lo.SumBy(s.agents, func(a *Agent) float32 {
			return a.Report.Leftover
		}),
		MeanTickTime:   time.Duration(omath.Mean(s.durations)),
		StdDevTickTime: time.Duration(omath.StandardDeviation(s.durations)),
		MaxTickTime:    lo.Max(s.durations),
	}
}
