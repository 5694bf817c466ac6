// Package evaluation scores event traces produced by a rollout, and
// generates the randomized score sheet the search maintains its pool
// against.
package evaluation

import (
	"math"
	"math/rand"

	"ashrun/model"
)

const pointsPerMilestone float32 = -0.001

// ScoreParams are the objective weights one ScoreAccumulator evaluates
// against. Official is (1.0, 0.0, 1.0); the remaining score-sheet entries
// are randomized per turn's match.
type ScoreParams struct {
	KillZombiesMultiplier float32
	SaveHumansMultiplier  float32
	DiscountRate          float32 // >= 1
}

// Official returns the fixed, non-randomized objective weights: kills count
// fully, human losses are unweighted, no discounting.
func Official() ScoreParams {
	return ScoreParams{KillZombiesMultiplier: 1.0, SaveHumansMultiplier: 0.0, DiscountRate: 1.0}
}

// NewScoreSheet returns a score sheet of size n: index 0 is always Official,
// indices 1..n-1 are randomized per spec.md §4.4 (multipliers uniform in
// [0,1), discount rate uniform in [1,2)). n should be at least 1.
func NewScoreSheet(n int, rng *rand.Rand) []ScoreParams {
	if n < 1 {
		n = 1
	}
	sheet := make([]ScoreParams, n)
	sheet[0] = Official()
	for i := 1; i < n; i++ {
		sheet[i] = ScoreParams{
			KillZombiesMultiplier: rng.Float32(),
			SaveHumansMultiplier:  rng.Float32(),
			DiscountRate:          1 + rng.Float32(),
		}
	}
	return sheet
}

// ScoreAccumulator folds a sequence of events into a single scalar under one
// ScoreParams, applying the per-tick discount d(tick) = 1 / discountRate^(tick - initialTick).
type ScoreAccumulator struct {
	initialTick int
	totalScore  float32
	params      ScoreParams
}

// NewScoreAccumulator returns an accumulator seeded at world's current tick.
func NewScoreAccumulator(params ScoreParams, initialTick int) *ScoreAccumulator {
	return &ScoreAccumulator{initialTick: initialTick, params: params}
}

// TotalScore returns the running total.
func (a *ScoreAccumulator) TotalScore() float32 {
	return a.totalScore
}

// PenalizeStrategyLength applies the one-time per-strategy penalty favoring
// shorter plans under ties; callers apply this once, at rollout start.
func (a *ScoreAccumulator) PenalizeStrategyLength(numMilestones int) {
	a.totalScore += pointsPerMilestone * float32(numMilestones)
}

func (a *ScoreAccumulator) discount(tick int) float32 {
	return float32(1.0 / math.Pow(float64(a.params.DiscountRate), float64(tick-a.initialTick)))
}

// Accumulate folds each event's contribution into the running total per the
// table in spec.md §4.4.
func (a *ScoreAccumulator) Accumulate(events []model.Event) {
	for _, e := range events {
		d := a.discount(e.Tick)
		switch e.Kind {
		case model.ZombieKilled:
			a.totalScore += d * a.params.KillZombiesMultiplier * e.Score
		case model.HumanKilled:
			a.totalScore += d * a.params.SaveHumansMultiplier * -1000
		case model.Won:
			a.totalScore += d * (-0.01 * float32(e.Tick))
		case model.Lost:
			a.totalScore += d * (-0.01 * float32(e.Tick))
			a.totalScore += d * -1000 * float32(e.NumZombies)
		}
	}
}

// UpperBound returns total-score-so-far plus the best achievable additional
// kill score given only the remaining zombies and current humans: the
// Fibonacci-weighted sum Σ F(k)*10*H² for k=1..|zombies|. Used only by the
// single-objective pruned rollout variant (spec.md §4.4, §9(c)).
func (a *ScoreAccumulator) UpperBound(world model.World) float32 {
	h := float32(len(world.Humans))
	bound := a.totalScore
	for k := 1; k <= len(world.Zombies); k++ {
		bound += fibonacci(k) * 10 * h * h
	}
	return bound
}

// fibonacci returns F(k) for F(1)=1, F(2)=2, F(3)=3, F(4)=5, ..., matching
// the kill-order scoring sequence the simulator assigns.
func fibonacci(k int) float32 {
	if k <= 1 {
		return 1
	}
	a, b := float32(1), float32(2)
	for i := 2; i < k; i++ {
		a, b = b, a+b
	}
	return b
}
