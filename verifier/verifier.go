// Package verifier cross-checks this driver's own forward prediction
// against what the game engine actually reports next turn, logging
// divergence without altering behavior.
package verifier

import (
	"log"

	"ashrun/model"
)

// Verifier holds the prediction made at the end of the previous turn: the
// world this driver's own simulator expects to observe next.
type Verifier struct {
	logger    *log.Logger
	predicted *model.World
}

// New returns a Verifier that logs through logger. No prediction is held
// until the first call to SetPrediction.
func New(logger *log.Logger) *Verifier {
	return &Verifier{logger: logger}
}

// SetPrediction records world as the prediction to check against the next
// observed world.
func (v *Verifier) SetPrediction(world model.World) {
	w := world
	v.predicted = &w
}

// LogDivergence compares the held prediction against observed and logs one
// warning line per zombie or human id whose survival disagrees, or a single
// confirmation line when the prediction matched exactly. It is a no-op on
// the first turn, before any prediction has been recorded.
func (v *Verifier) LogDivergence(observed model.World) {
	if v.predicted == nil {
		return
	}

	mismatches := 0
	for id := range v.predicted.Zombies {
		if _, ok := observed.Zombies[id]; !ok {
			v.logger.Printf("prediction error: zombie %d predicted alive, observed dead", id)
			mismatches++
		}
	}
	for id := range observed.Zombies {
		if _, ok := v.predicted.Zombies[id]; !ok {
			v.logger.Printf("prediction error: zombie %d observed alive, predicted dead", id)
			mismatches++
		}
	}
	for id := range v.predicted.Humans {
		if _, ok := observed.Humans[id]; !ok {
			v.logger.Printf("prediction error: human %d predicted alive, observed dead", id)
			mismatches++
		}
	}
	for id := range observed.Humans {
		if _, ok := v.predicted.Humans[id]; !ok {
			v.logger.Printf("prediction error: human %d observed alive, predicted dead", id)
			mismatches++
		}
	}

	if mismatches == 0 {
		v.logger.Printf("no prediction errors at tick %d", observed.Tick)
	}
}
