// Package search implements the anytime pool search: the agent that turns a
// world observation and a score sheet into a ranked set of candidate
// strategies within a wall-clock deadline.
package search

import (
	"math/rand"
	"time"

	"ashrun/evaluation"
	"ashrun/geometry"
	"ashrun/model"
	"ashrun/mutation"
	"ashrun/rollout"
)

// Budget is the default per-turn search deadline.
const Budget = 90 * time.Millisecond

// maxMutationsPerCandidate bounds how many mutations are chained onto a
// cloned parent before a candidate is rolled out.
const maxMutationsPerCandidate = 2

const (
	cloneAndMutateProbability = 0.9
	continueMutatingProbability = 0.1
)

// Entry is one pool slot: the best strategy found so far under its
// score-sheet index, the score that earned it the slot, its score under the
// official objective (index 0), and how its rollout ended.
type Entry struct {
	Strategy model.Strategy
	Score    float32
	Actual   float32
	Ending   rollout.Ending
}

// Pool holds one Entry per score-sheet index, plus the single best rollout
// under the official objective: the candidate the driver ultimately acts on.
type Pool struct {
	Entries []Entry
	Best     Entry
}

// Strategies returns the pool's strategies, suitable for passing back in as
// the next turn's previousStrategies.
func (p Pool) Strategies() []model.Strategy {
	out := make([]model.Strategy, len(p.Entries))
	for i, e := range p.Entries {
		out[i] = e.Strategy
	}
	return out
}

// Choose runs the anytime pool search until deadline, returning the updated
// pool. world is the current observation, scoreSheet is this turn's
// objectives (index 0 is always evaluation.Official()), previousStrategies
// is the exported pool from the prior turn (empty on the first turn), rng is
// the caller-owned source of randomness, and deadline is the absolute
// wall-clock time the loop must stop by.
func Choose(world model.World, scoreSheet []evaluation.ScoreParams, previousStrategies []model.Strategy, rng *rand.Rand, deadline time.Time) Pool {
	pool := initializePool(world, scoreSheet)

	nextID := 1
	for _, s := range previousStrategies {
		seeded := s.Seed(nextID)
		nextID++
		result := rollout.Run(seeded, world, scoreSheet)
		absorb(&pool, result)
	}

	for time.Now().Before(deadline) {
		parentIdx := rng.Intn(len(pool.Entries))
		parent := pool.Entries[parentIdx].Strategy

		candidate := generateCandidate(parent, world, rng, &nextID)
		result := rollout.Run(candidate, world, scoreSheet)
		absorb(&pool, result)
	}

	return pool
}

// initializePool rolls out a single empty strategy and seeds every pool
// Entry and the best-rollout tracker with it.
func initializePool(world model.World, scoreSheet []evaluation.ScoreParams) Pool {
	empty := model.NewStrategy(0)
	result := rollout.Run(empty, world, scoreSheet)

	entries := make([]Entry, len(scoreSheet))
	for i := range entries {
		entries[i] = entryFrom(result, i)
	}
	return Pool{Entries: entries, Best: entryFrom(result, 0)}
}

// generateCandidate produces one new candidate strategy from parent: with
// probability cloneAndMutateProbability, a mutated clone of parent (up to
// maxMutationsPerCandidate mutations, each continuing with probability
// continueMutatingProbability); otherwise a from-scratch strategy. If no
// mutation succeeds, the result is an unmutated copy of parent under the new
// id, and the caller rolls it out like any other candidate.
func generateCandidate(parent model.Strategy, world model.World, rng *rand.Rand, nextID *int) model.Strategy {
	id := *nextID
	*nextID++

	if rng.Float32() < cloneAndMutateProbability {
		candidate := parent.Seed(id)
		mutated := false
		for i := 0; i < maxMutationsPerCandidate; i++ {
			if i > 0 && rng.Float32() >= continueMutatingProbability {
				break
			}
			if mutation.Mutate(&candidate, world, rng) {
				mutated = true
			}
		}
		if mutated {
			return candidate
		}
		return parent.Seed(id)
	}

	return fromScratch(id, world, rng)
}

// fromScratch builds a new strategy with no history: zero or one random
// MoveTo, followed by a KillZombie for every current zombie id in random
// order.
func fromScratch(id int, world model.World, rng *rand.Rand) model.Strategy {
	var milestones []model.Milestone

	if rng.Float32() < 0.5 {
		milestones = append(milestones, model.NewMoveTo(randomPoint(rng)))
	}

	ids := make([]int, 0, len(world.Zombies))
	for zid := range world.Zombies {
		ids = append(ids, zid)
	}
	rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
	for _, zid := range ids {
		milestones = append(milestones, model.NewKillZombie(zid))
	}

	return model.Strategy{ID: id, Milestones: milestones}
}

func randomPoint(rng *rand.Rand) geometry.V2 {
	return geometry.V2{X: rng.Float32() * model.MapWidth, Y: rng.Float32() * model.MapHeight}
}

// absorb folds result into pool: replacing any Entry whose score it beats,
// and updating Best when it beats Best under the official objective.
func absorb(pool *Pool, result rollout.Rollout) {
	for i := range pool.Entries {
		if i >= len(result.Scores) {
			break
		}
		if result.Scores[i] > pool.Entries[i].Score {
			pool.Entries[i] = entryFrom(result, i)
		}
	}
	if len(result.Scores) > 0 && result.Scores[0] > pool.Best.Score {
		pool.Best = entryFrom(result, 0)
	}
}

func entryFrom(result rollout.Rollout, scoreIndex int) Entry {
	return Entry{
		Strategy: result.Strategy,
		Score:    result.Scores[scoreIndex],
		Actual:   result.Scores[0],
		Ending:   result.Ending,
	}
}
