// Package mutation implements the menu of structural and point mutations
// search.Choose applies to strategies between rollouts.
package mutation

import (
	"math/rand"

	"ashrun/geometry"
	"ashrun/model"
)

// mutateRadius is how far bumpMove jitters a MoveTo target: enough to step
// away from a just-completed kill (MaxPlayerStep + MaxPlayerKillRange) plus
// one unit of slack.
const mutateRadius float32 = model.MaxPlayerStep + model.MaxPlayerKillRange + 1

const (
	bumpMoveProbability     = 0.25
	replaceMoveProbability  = 0.50
	dropProbability         = 0.05
	insertAttackProbability = 0.10
	insertDefendProbability = 0.10
	bubbleProbability       = 0.10
	swapProbability         = 0.05
	displaceProbability     = 0.50

	replaceMoveKeepProbability = 0.9
)

// Mutate attempts the mutation menu in its fixed order, stopping at the
// first one that succeeds. It reports whether any mutation changed
// strategy.
func Mutate(strategy *model.Strategy, world model.World, rng *rand.Rand) bool {
	if rng.Float32() < bumpMoveProbability && bumpMove(strategy, rng) {
		return true
	}
	if rng.Float32() < replaceMoveProbability && replaceMove(strategy, rng) {
		return true
	}
	if rng.Float32() < dropProbability && dropElement(strategy, rng) {
		return true
	}
	if rng.Float32() < insertAttackProbability && insertAttack(strategy, world, rng) {
		return true
	}
	if rng.Float32() < insertDefendProbability && insertDefend(strategy, world, rng) {
		return true
	}
	if rng.Float32() < bubbleProbability && bubble(strategy, rng) {
		return true
	}
	if rng.Float32() < swapProbability && swap(strategy, rng) {
		return true
	}
	if rng.Float32() < displaceProbability && displaceSection(strategy, world, rng) {
		return true
	}
	return false
}

func bumpMove(strategy *model.Strategy, rng *rand.Rand) bool {
	idx, ok := chooseMoveIndex(strategy, rng)
	if !ok {
		return false
	}
	previous := strategy.Milestones[idx].Target
	jittered := geometry.V2{
		X: previous.X + (rng.Float32()*2-1)*mutateRadius,
		Y: previous.Y + (rng.Float32()*2-1)*mutateRadius,
	}.Clamp(model.MapWidth, model.MapHeight)
	strategy.Milestones[idx] = model.NewMoveTo(jittered)
	return true
}

func chooseMoveIndex(strategy *model.Strategy, rng *rand.Rand) (int, bool) {
	var moveIndices []int
	for i, m := range strategy.Milestones {
		if m.IsMoveTo() {
			moveIndices = append(moveIndices, i)
		}
	}
	if len(moveIndices) == 0 {
		return 0, false
	}
	return moveIndices[rng.Intn(len(moveIndices))], true
}

func replaceMove(strategy *model.Strategy, rng *rand.Rand) bool {
	kept := strategy.Milestones[:0:0]
	for _, m := range strategy.Milestones {
		if rng.Float32() < replaceMoveKeepProbability {
			kept = append(kept, m)
		}
	}
	strategy.Milestones = kept

	target := geometry.V2{
		X: rng.Float32() * model.MapWidth,
		Y: rng.Float32() * model.MapHeight,
	}
	insertAt := rng.Intn(len(strategy.Milestones) + 1)
	strategy.Milestones = insertMilestone(strategy.Milestones, insertAt, model.NewMoveTo(target))
	return true
}

func dropElement(strategy *model.Strategy, rng *rand.Rand) bool {
	if len(strategy.Milestones) == 0 {
		return false
	}
	idx := rng.Intn(len(strategy.Milestones))
	strategy.Milestones = append(strategy.Milestones[:idx], strategy.Milestones[idx+1:]...)
	return true
}

func insertAttack(strategy *model.Strategy, world model.World, rng *rand.Rand) bool {
	referenced := map[int]bool{}
	for _, m := range strategy.Milestones {
		if m.Kind == model.KillZombie {
			referenced[m.ZombieID] = true
		}
	}

	var candidates []int
	for id := range world.Zombies {
		if !referenced[id] {
			candidates = append(candidates, id)
		}
	}
	if len(candidates) == 0 {
		return false
	}
	zombieID := candidates[rng.Intn(len(candidates))]
	insertAt := rng.Intn(len(strategy.Milestones) + 1)
	strategy.Milestones = insertMilestone(strategy.Milestones, insertAt, model.NewKillZombie(zombieID))
	return true
}

func insertDefend(strategy *model.Strategy, world model.World, rng *rand.Rand) bool {
	if len(world.Humans) == 0 {
		return false
	}
	var candidates []model.Human
	for _, h := range world.Humans {
		candidates = append(candidates, h)
	}
	human := candidates[rng.Intn(len(candidates))]
	insertAt := rng.Intn(len(strategy.Milestones) + 1)
	strategy.Milestones = insertMilestone(strategy.Milestones, insertAt, model.NewMoveTo(human.Pos))
	return true
}

func bubble(strategy *model.Strategy, rng *rand.Rand) bool {
	if len(strategy.Milestones) < 2 {
		return false
	}
	i := rng.Intn(len(strategy.Milestones) - 1)
	strategy.Milestones[i], strategy.Milestones[i+1] = strategy.Milestones[i+1], strategy.Milestones[i]
	return true
}

func swap(strategy *model.Strategy, rng *rand.Rand) bool {
	if len(strategy.Milestones) < 2 {
		return false
	}
	i := rng.Intn(len(strategy.Milestones))
	j := rng.Intn(len(strategy.Milestones) - 1)
	if j >= i {
		j++
	}
	strategy.Milestones[i], strategy.Milestones[j] = strategy.Milestones[j], strategy.Milestones[i]
	return true
}

// displaceSection removes a contiguous run of milestones and reinserts it
// elsewhere, optionally reversed. The run length is skewed short by squaring
// a uniform draw, per spec.md §4.5, capped at min(|zombies|, 10).
func displaceSection(strategy *model.Strategy, world model.World, rng *rand.Rand) bool {
	if len(strategy.Milestones) < 2 {
		return false
	}

	maxLength := len(world.Zombies)
	if maxLength > 10 {
		maxLength = 10
	}

	from := rng.Intn(len(strategy.Milestones))
	room := len(strategy.Milestones) - from
	length := 1 + skewedLength(rng, maxLength, room)
	to := from + length
	if to > len(strategy.Milestones) {
		to = len(strategy.Milestones)
	}

	section := append([]model.Milestone(nil), strategy.Milestones[from:to]...)
	strategy.Milestones = append(strategy.Milestones[:from:from], strategy.Milestones[to:]...)

	if rng.Float32() < 0.5 {
		reverse(section)
	}

	insertAt := rng.Intn(len(strategy.Milestones) + 1)
	strategy.Milestones = insertMilestones(strategy.Milestones, insertAt, section)
	return true
}

// skewedLength draws floor(U^2 * maxLength) and clamps it into [0, room-1],
// matching the original's power-2 RangeRandom distribution: most draws are
// short, with an occasional long displaced section.
func skewedLength(rng *rand.Rand, maxLength, room int) int {
	if room <= 0 {
		return 0
	}
	u := rng.Float32()
	base := int(u * u * float32(maxLength))
	if base > room-1 {
		return room - 1
	}
	return base
}

func reverse(milestones []model.Milestone) {
	for i, j := 0, len(milestones)-1; i < j; i, j = i+1, j-1 {
		milestones[i], milestones[j] = milestones[j], milestones[i]
	}
}

func insertMilestone(milestones []model.Milestone, at int, m model.Milestone) []model.Milestone {
	return insertMilestones(milestones, at, []model.Milestone{m})
}

func insertMilestones(milestones []model.Milestone, at int, ms []model.Milestone) []model.Milestone {
	result := make([]model.Milestone, 0, len(milestones)+len(ms))
	result = append(result, milestones[:at]...)
	result = append(result, ms...)
	result = append(result, milestones[at:]...)
	return result
}
