// Package simulator implements the deterministic one-tick state transition
// the rest of the agent plans against.
package simulator

import (
	"sort"

	"ashrun/model"
)

// fibonacci returns F(k) for the sequence F(1)=1, F(2)=2, F(3)=3, F(4)=5, ...
// (i.e. the two leading 1s of the canonical sequence are collapsed into one,
// per the kill-scoring rule in spec.md §4.1).
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

// Next advances world by one tick under the given action and returns the
// events produced, in order. world is mutated in place; callers that need
// the prior state must clone it first.
//
// The step order is fixed and observable through events:
//  1. zombies move to their pre-announced next position
//  2. the player steps toward action.Target, floored to integer coordinates
//  3. the player kills every zombie within MaxPlayerKillRange (inclusive)
//  4. surviving zombies kill every co-located human
//  5. surviving zombies retarget to their nearest of {player, humans}
//  6. ending check: Lost takes precedence over Won (spec.md invariant iii)
func Next(world *model.World, action model.Action) []model.Event {
	if world.IsOver() {
		return nil
	}

	var events []model.Event

	moveZombies(world)
	movePlayer(world, action)
	events = append(events, killZombies(world)...)
	events = append(events, killHumans(world)...)
	retargetZombies(world)

	world.Tick++

	if len(world.Humans) == 0 {
		events = append(events, model.Event{Kind: model.Lost, Tick: world.Tick, NumZombies: len(world.Zombies)})
	} else if len(world.Zombies) == 0 {
		events = append(events, model.Event{Kind: model.Won, Tick: world.Tick, NumHumans: len(world.Humans)})
	}

	return events
}

// sortedZombieIDs and sortedHumanIDs give the simulator a fixed, deterministic
// iteration order over the entity maps: map iteration in Go is randomized,
// but the spec requires order-dependent behavior (kill-order scoring,
// "first encountered" tie-breaks) to be reproducible run to run.
func sortedZombieIDs(world *model.World) []int {
	ids := make([]int, 0, len(world.Zombies))
	for id := range world.Zombies {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func sortedHumanIDs(world *model.World) []int {
	ids := make([]int, 0, len(world.Humans))
	for id := range world.Humans {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func moveZombies(world *model.World) {
	for _, id := range sortedZombieIDs(world) {
		z := world.Zombies[id]
		z.Pos = z.Next
		world.Zombies[id] = z
	}
}

func movePlayer(world *model.World, action model.Action) {
	world.Player.Pos = world.Player.Pos.StepToward(action.Target, model.MaxPlayerStep).Floor()
}

// killZombies removes every zombie within kill range of the player and
// emits one ZombieKilled event per kill, scored by Fibonacci-of-kill-order
// times 10 times the human count squared, per spec.md §4.1 step 4.
func killZombies(world *model.World) []model.Event {
	numHumans := len(world.Humans)
	playerPos := world.Player.Pos

	var killedIDs []int
	for _, id := range sortedZombieIDs(world) {
		z := world.Zombies[id]
		if playerPos.DistanceSquared(z.Pos) <= model.MaxPlayerKillRange*model.MaxPlayerKillRange {
			killedIDs = append(killedIDs, id)
		}
	}
	if len(killedIDs) == 0 {
		return nil
	}

	events := make([]model.Event, 0, len(killedIDs))
	for i, id := range killedIDs {
		score := fibonacci(i+1) * 10 * float32(numHumans*numHumans)
		events = append(events, model.Event{Kind: model.ZombieKilled, Tick: world.Tick, ZombieID: id, Score: score})
		delete(world.Zombies, id)
	}
	return events
}

// killHumans removes every human co-located with a surviving zombie.
func killHumans(world *model.World) []model.Event {
	if len(world.Zombies) == 0 || len(world.Humans) == 0 {
		return nil
	}

	maxDistSq := model.MaxZombieKillRange * model.MaxZombieKillRange

	var killedIDs []int
	for _, id := range sortedHumanIDs(world) {
		h := world.Humans[id]
		for _, zid := range sortedZombieIDs(world) {
			if world.Zombies[zid].Pos.DistanceSquared(h.Pos) <= maxDistSq {
				killedIDs = append(killedIDs, id)
				break
			}
		}
	}
	if len(killedIDs) == 0 {
		return nil
	}

	events := make([]model.Event, 0, len(killedIDs))
	for _, id := range killedIDs {
		events = append(events, model.Event{Kind: model.HumanKilled, Tick: world.Tick, HumanID: id})
		delete(world.Humans, id)
	}
	return events
}

// retargetZombies points every surviving zombie at its nearest of {player,
// surviving humans}, one step (MaxZombieStep) closer, floored.
func retargetZombies(world *model.World) {
	humanIDs := sortedHumanIDs(world)
	for _, id := range sortedZombieIDs(world) {
		z := world.Zombies[id]
		target := world.Player.Pos
		bestDistSq := z.Pos.DistanceSquared(target)
		for _, hid := range humanIDs {
			h := world.Humans[hid]
			if d := z.Pos.DistanceSquared(h.Pos); d < bestDistSq {
				bestDistSq = d
				target = h.Pos
			}
		}
		z.Next = z.Pos.StepToward(target, model.MaxZombieStep).Floor()
		world.Zombies[id] = z
	}
}
