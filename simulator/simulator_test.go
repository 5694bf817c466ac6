package simulator

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

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

func TestSimulatorScenarios(t *testing.T) {
	Convey("Scenario: zombie far out of range pursues normally", t, func() {
		w := worldWith(
			geometry.V2{X: 0, Y: 0},
			[]model.Human{{ID: 1, Pos: geometry.V2{X: 8000, Y: 4500}}},
			[]model.Zombie{{ID: 1, Pos: geometry.V2{X: 0, Y: 4500}, Next: geometry.V2{X: 400, Y: 4500}}},
		)
		events := Next(&w, model.Action{Target: geometry.V2{X: 400, Y: 4500}})
		So(events, ShouldBeEmpty)
		So(w.Player.Pos.X, ShouldEqual, float32(88))
		So(w.Player.Pos.Y, ShouldEqual, float32(996))
		So(len(w.Zombies), ShouldEqual, 1)
	})

	Convey("Scenario: zombie already in kill range dies, then Won", t, func() {
		w := worldWith(
			geometry.V2{X: 0, Y: 0},
			[]model.Human{{ID: 1, Pos: geometry.V2{X: 8000, Y: 4500}}},
			[]model.Zombie{{ID: 1, Pos: geometry.V2{X: 1500, Y: 0}, Next: geometry.V2{X: 1500, Y: 0}}},
		)
		events := Next(&w, model.Action{Target: geometry.V2{X: 1500, Y: 0}})
		So(len(events), ShouldEqual, 2)
		So(events[0].Kind, ShouldEqual, model.ZombieKilled)
		So(events[0].Score, ShouldEqual, float32(10))
		So(events[1].Kind, ShouldEqual, model.Won)
	})

	Convey("Scenario: two zombies killed in one tick score 10 and 20", t, func() {
		w := worldWith(
			geometry.V2{X: 0, Y: 0},
			[]model.Human{{ID: 1, Pos: geometry.V2{X: 8000, Y: 4500}}},
			[]model.Zombie{
				{ID: 1, Pos: geometry.V2{X: 1500, Y: 0}, Next: geometry.V2{X: 1500, Y: 0}},
				{ID: 2, Pos: geometry.V2{X: 1500, Y: 1}, Next: geometry.V2{X: 1500, Y: 1}},
			},
		)
		events := Next(&w, model.Action{Target: geometry.V2{X: 1500, Y: 0}})
		So(len(events), ShouldEqual, 3)
		So(events[0].Score, ShouldEqual, float32(10))
		So(events[1].Score, ShouldEqual, float32(20))
		So(events[2].Kind, ShouldEqual, model.Won)
	})

	Convey("Scenario: human about to be eaten dies, then Lost", t, func() {
		w := worldWith(
			geometry.V2{X: 0, Y: 0},
			[]model.Human{{ID: 1, Pos: geometry.V2{X: 5000, Y: 5000}}},
			[]model.Zombie{{ID: 1, Pos: geometry.V2{X: 5000, Y: 5000}, Next: geometry.V2{X: 5000, Y: 5000}}},
		)
		events := Next(&w, model.Action{Target: geometry.V2{X: 0, Y: 0}})
		So(len(events), ShouldEqual, 2)
		So(events[0].Kind, ShouldEqual, model.HumanKilled)
		So(events[0].HumanID, ShouldEqual, 1)
		So(events[1].Kind, ShouldEqual, model.Lost)
		So(events[1].NumZombies, ShouldEqual, 1)
	})

	Convey("Once a world is over, Next emits nothing and does not mutate", t, func() {
		w := worldWith(geometry.V2{X: 0, Y: 0}, nil, []model.Zombie{{ID: 1, Pos: geometry.V2{X: 10, Y: 10}}})
		tick := w.Tick
		events := Next(&w, model.Action{Target: geometry.V2{X: 0, Y: 0}})
		So(events, ShouldBeEmpty)
		So(w.Tick, ShouldEqual, tick)
	})

	Convey("Population monotonicity across many ticks", t, func() {
		w := worldWith(
			geometry.V2{X: 0, Y: 0},
			[]model.Human{{ID: 1, Pos: geometry.V2{X: 8000, Y: 4500}}, {ID: 2, Pos: geometry.V2{X: 7000, Y: 4000}}},
			[]model.Zombie{{ID: 1, Pos: geometry.V2{X: 6000, Y: 4000}, Next: geometry.V2{X: 6000, Y: 4000}}},
		)
		for i := 0; i < 30 && !w.IsOver(); i++ {
			prevHumans, prevZombies := len(w.Humans), len(w.Zombies)
			events := Next(&w, model.Action{Target: geometry.V2{X: 6000, Y: 4000}})
			So(len(w.Humans), ShouldBeLessThanOrEqualTo, prevHumans)
			So(len(w.Zombies), ShouldBeLessThanOrEqualTo, prevZombies)

			terminalCount := 0
			for _, e := range events {
				if e.IsTerminal() {
					terminalCount++
				}
			}
			So(terminalCount, ShouldBeLessThanOrEqualTo, 1)
		}
	})

	Convey("Determinism: Next on two clones of the same world produces identical events", t, func() {
		base := worldWith(
			geometry.V2{X: 1000, Y: 2000},
			[]model.Human{{ID: 1, Pos: geometry.V2{X: 8000, Y: 4500}}},
			[]model.Zombie{{ID: 1, Pos: geometry.V2{X: 1500, Y: 0}, Next: geometry.V2{X: 1500, Y: 0}}},
		)
		w1 := base.Clone()
		w2 := base.Clone()
		action := model.Action{Target: geometry.V2{X: 1500, Y: 0}}

		e1 := Next(&w1, action)
		e2 := Next(&w2, action)

		So(len(e1), ShouldEqual, len(e2))
		for i := range e1 {
			So(e1[i], ShouldResemble, e2[i])
		}
		So(w1.Player.Pos, ShouldResemble, w2.Player.Pos)
	})

	Convey("Step clamp: player never moves more than MaxPlayerStep and lands on integers", t, func() {
		w := worldWith(geometry.V2{X: 0, Y: 0}, []model.Human{{ID: 1, Pos: geometry.V2{X: 1, Y: 1}}}, []model.Zombie{{ID: 1, Pos: geometry.V2{X: 16000, Y: 9000}, Next: geometry.V2{X: 16000, Y: 9000}}})
		Next(&w, model.Action{Target: geometry.V2{X: 16000, Y: 9000}})
		So(w.Player.Pos.Distance(geometry.V2{X: 0, Y: 0}), ShouldBeLessThanOrEqualTo, float32(1000.0001))
		So(w.Player.Pos.X, ShouldEqual, float32(int(w.Player.Pos.X)))
		So(w.Player.Pos.Y, ShouldEqual, float32(int(w.Player.Pos.Y)))
	})
}

func TestFibonacci(t *testing.T) {
	Convey("Fibonacci-of-kill-order sequence matches F(1)=1, F(2)=2, F(3)=3, F(4)=5...", t, func() {
		expected := []float32{1, 2, 3, 5, 8, 13}
		for i, want := range expected {
			So(fibonacci(i+1), ShouldEqual, want)
		}
	})
}
