// Package rollout executes a strategy forward through the simulator for a
// bounded number of ticks, producing the event trace and per-objective
// scores the search ranks candidates by.
package rollout

import (
	"ashrun/evaluation"
	"ashrun/milestone"
	"ashrun/model"
	"ashrun/simulator"
)

// MaxTicks bounds how far a single rollout simulates forward.
const MaxTicks = 50

// Ending summarizes how a rollout concluded: the final tick reached and the
// surviving population counts at that point.
type Ending struct {
	FinalTick    int
	NumHumans    int
	NumZombies   int
}

// Rollout is the result of executing a strategy: its event trace, how it
// ended, and one score per entry of the score sheet it was run against.
type Rollout struct {
	Strategy model.Strategy
	Events   []model.Event
	Ending   Ending
	Scores   []float32
}

// actionCursor walks a strategy's milestones, advancing past any that
// report completion, and falling back to a no-op (stand still) action once
// every milestone is exhausted.
type actionCursor struct {
	milestones []model.Milestone
	index      int
}

func newActionCursor(strategy model.Strategy) *actionCursor {
	return &actionCursor{milestones: strategy.Milestones}
}

func (c *actionCursor) next(world model.World) model.Action {
	for c.index < len(c.milestones) {
		if action, ok := milestone.ToAction(c.milestones[c.index], world); ok {
			return action
		}
		c.index++
	}
	return model.Action{Target: world.Player.Pos}
}

// Run executes strategy from initial for up to MaxTicks ticks, scoring the
// resulting event trace once per entry of scoreSheet. initial is cloned
// internally; the caller's world is never mutated.
func Run(strategy model.Strategy, initial model.World, scoreSheet []evaluation.ScoreParams) Rollout {
	world := initial.Clone()
	cursor := newActionCursor(strategy)

	accumulators := make([]*evaluation.ScoreAccumulator, len(scoreSheet))
	for i, params := range scoreSheet {
		accumulators[i] = evaluation.NewScoreAccumulator(params, world.Tick)
		accumulators[i].PenalizeStrategyLength(len(strategy.Milestones))
	}

	var events []model.Event
	for i := 0; i < MaxTicks; i++ {
		action := cursor.next(world)
		tickEvents := simulator.Next(&world, action)
		for _, acc := range accumulators {
			acc.Accumulate(tickEvents)
		}
		events = append(events, tickEvents...)

		terminal := false
		for _, e := range tickEvents {
			if e.IsTerminal() {
				terminal = true
				break
			}
		}
		if terminal {
			break
		}
	}

	scores := make([]float32, len(accumulators))
	for i, acc := range accumulators {
		scores[i] = acc.TotalScore()
	}

	return Rollout{
		Strategy: strategy,
		Events:   events,
		Ending: Ending{
			FinalTick:  world.Tick,
			NumHumans:  len(world.Humans),
			NumZombies: len(world.Zombies),
		},
		Scores: scores,
	}
}

// StrategyToAction compiles strategy's first applicable action against
// world, the same compilation the search uses to pick the emitted action
// from the winning pool entry, without running a rollout.
func StrategyToAction(strategy model.Strategy, world model.World) model.Action {
	cursor := newActionCursor(strategy)
	return cursor.next(world)
}

// RunPruned is the single-objective variant: it terminates early once the
// accumulator's upper bound (evaluation.ScoreAccumulator.UpperBound) falls
// below bestScore. This is the historical pruned-search path
// (spec.md §9 Open Question (c)); the standardized multi-objective search in
// package search does not call it, but it is kept and tested as a faster
// alternative for single-objective use.
func RunPruned(strategy model.Strategy, initial model.World, params evaluation.ScoreParams, bestScore float32) Rollout {
	world := initial.Clone()
	cursor := newActionCursor(strategy)

	acc := evaluation.NewScoreAccumulator(params, world.Tick)
	acc.PenalizeStrategyLength(len(strategy.Milestones))

	var events []model.Event
	for i := 0; i < MaxTicks; i++ {
		action := cursor.next(world)
		tickEvents := simulator.Next(&world, action)
		acc.Accumulate(tickEvents)
		events = append(events, tickEvents...)

		terminal := false
		for _, e := range tickEvents {
			if e.IsTerminal() {
				terminal = true
				break
			}
		}
		if terminal {
			break
		}
		if acc.UpperBound(world) < bestScore {
			break
		}
	}

	return Rollout{
		Strategy: strategy,
		Events:   events,
		Ending: Ending{
			FinalTick:  world.Tick,
			NumHumans:  len(world.Humans),
			NumZombies: len(world.Zombies),
		},
		Scores: []float32{acc.TotalScore()},
	}
}
