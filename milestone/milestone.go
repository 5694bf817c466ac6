// Package milestone compiles a model.Milestone into a concrete model.Action
// given the current world, advancing a strategy's cursor when a milestone is
// complete or no longer applicable.
package milestone

import (
	"ashrun/geometry"
	"ashrun/model"
)

// precision is the distance below which a MoveTo/ProtectHuman milestone is
// considered reached.
const precision float32 = 1.0

// ToAction maps a milestone to a destination point. ok is false when the
// milestone is exhausted (referenced entity gone, or target already
// reached): the caller should advance to the next milestone in that case.
// ToAction never modifies world.
func ToAction(m model.Milestone, world model.World) (action model.Action, ok bool) {
	switch m.Kind {
	case model.KillZombie:
		return killZombieAction(m.ZombieID, world)
	case model.ProtectHuman:
		return protectHumanAction(m.HumanID, world)
	case model.MoveTo:
		return moveToAction(m.Target, world)
	default:
		return model.Action{}, false
	}
}

func killZombieAction(zombieID int, world model.World) (model.Action, bool) {
	zombie, exists := world.Zombies[zombieID]
	if !exists {
		return model.Action{}, false
	}
	return model.Action{Target: zombie.Next}, true
}

func protectHumanAction(humanID int, world model.World) (model.Action, bool) {
	human, exists := world.Humans[humanID]
	if !exists {
		return model.Action{}, false
	}
	if world.Player.Pos.Distance(human.Pos) < precision {
		return model.Action{}, false
	}
	return model.Action{Target: human.Pos}, true
}

func moveToAction(target geometry.V2, world model.World) (model.Action, bool) {
	if world.Player.Pos.Distance(target) < precision {
		return model.Action{}, false
	}
	return model.Action{Target: target}, true
}
