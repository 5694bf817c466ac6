package rollout

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"ashrun/evaluation"
	"ashrun/geometry"
	"ashrun/model"
)

func worldWith(playerPos geometry.V2, humans []model.Human, zombies []model.Zombie) model.World {
	w := model.NewWorld()
	w.Player.Pos = playerPos
	for _, h := range humans {
		w.Humans[h.ID] = h
	}
	for _, z := range zombies {
		w.Zombies[z.ID] = z
	}
	return w
}

func TestRunEmptyStrategy(t *testing.T) {
	Convey("Scenario: empty strategy rollout terminates within MaxTicks", t, func() {
		w := worldWith(
			geometry.V2{X: 0, Y: 0},
			[]model.Human{{ID: 1, Pos: geometry.V2{X: 10000, Y: 0}}},
			[]model.Zombie{{ID: 1, Pos: geometry.V2{X: 10000, Y: 0}, Next: geometry.V2{X: 9600, Y: 0}}},
		)
		empty := model.NewStrategy(0)
		result := Run(empty, w, []evaluation.ScoreParams{evaluation.Official()})

		So(result.Ending.FinalTick, ShouldBeLessThanOrEqualTo, MaxTicks)
		So(len(result.Events) > 0, ShouldBeTrue)
		So(result.Scores[0], ShouldBeLessThan, float32(0))
	})
}

func TestRunScores(t *testing.T) {
	Convey("A strategy that kills an in-range zombie scores positively under Official", t, func() {
		w := worldWith(
			geometry.V2{X: 0, Y: 0},
			[]model.Human{{ID: 1, Pos: geometry.V2{X: 8000, Y: 4500}}},
			[]model.Zombie{{ID: 1, Pos: geometry.V2{X: 1500, Y: 0}, Next: geometry.V2{X: 1500, Y: 0}}},
		)
		strategy := model.Strategy{ID: 1, Milestones: []model.Milestone{model.NewKillZombie(1)}}
		result := Run(strategy, w, []evaluation.ScoreParams{evaluation.Official()})

		So(result.Scores[0], ShouldBeGreaterThan, float32(0))
		So(result.Ending.NumZombies, ShouldEqual, 0)
	})

	Convey("Rollout does not mutate the caller's world", t, func() {
		w := worldWith(
			geometry.V2{X: 0, Y: 0},
			[]model.Human{{ID: 1, Pos: geometry.V2{X: 8000, Y: 4500}}},
			[]model.Zombie{{ID: 1, Pos: geometry.V2{X: 1500, Y: 0}, Next: geometry.V2{X: 1500, Y: 0}}},
		)
		before := w.Clone()
		Run(model.NewStrategy(0), w, []evaluation.ScoreParams{evaluation.Official()})
		So(w, ShouldResemble, before)
	})

	Convey("Longer strategies are penalized relative to shorter ones with identical outcomes", t, func() {
		w := worldWith(
			geometry.V2{X: 0, Y: 0},
			[]model.Human{{ID: 1, Pos: geometry.V2{X: 8000, Y: 4500}}},
			[]model.Zombie{{ID: 1, Pos: geometry.V2{X: 1500, Y: 0}, Next: geometry.V2{X: 1500, Y: 0}}},
		)
		short := model.Strategy{ID: 1, Milestones: []model.Milestone{model.NewKillZombie(1)}}
		long := model.Strategy{ID: 2, Milestones: []model.Milestone{
			model.NewMoveTo(geometry.V2{X: 1500, Y: 0}),
			model.NewKillZombie(1),
		}}
		shortResult := Run(short, w, []evaluation.ScoreParams{evaluation.Official()})
		longResult := Run(long, w, []evaluation.ScoreParams{evaluation.Official()})

		So(shortResult.Scores[0], ShouldBeGreaterThan, longResult.Scores[0])
	})
}

func TestRunPruned(t *testing.T) {
	Convey("RunPruned stops early once the upper bound can't beat the incumbent", t, func() {
		w := worldWith(
			geometry.V2{X: 0, Y: 0},
			[]model.Human{{ID: 1, Pos: geometry.V2{X: 10000, Y: 0}}},
			[]model.Zombie{{ID: 1, Pos: geometry.V2{X: 10000, Y: 0}, Next: geometry.V2{X: 9600, Y: 0}}},
		)
		result := RunPruned(model.NewStrategy(0), w, evaluation.Official(), 1e9)
		So(result.Ending.FinalTick, ShouldBeLessThan, MaxTicks)
	})
}

func TestStrategyToAction(t *testing.T) {
	Convey("StrategyToAction compiles the first applicable action without simulating", t, func() {
		w := worldWith(geometry.V2{X: 0, Y: 0}, nil, []model.Zombie{{ID: 1, Pos: geometry.V2{X: 10, Y: 10}, Next: geometry.V2{X: 20, Y: 20}}})
		strategy := model.Strategy{ID: 1, Milestones: []model.Milestone{model.NewKillZombie(1)}}
		action := StrategyToAction(strategy, w)
		So(action.Target, ShouldResemble, geometry.V2{X: 20, Y: 20})
	})
}
