// Package diagnostics is the off-by-default live feed of the search pool: an
// HTTP page plus a websocket push of each turn's pool state, for watching
// the agent think in real time.
package diagnostics

import (
	"ashrun/formatter"
	"ashrun/rollout"
	"ashrun/search"
)

// Snapshot is one turn's pool state, rendered into plain data suitable for
// JSON encoding to a browser client.
type Snapshot struct {
	Tick        int             `json:"tick"`
	TurnMillis  float64         `json:"turnMillis"`
	BestScore   float32         `json:"bestScore"`
	BestEnding  EndingView      `json:"bestEnding"`
	BestPlan    string          `json:"bestPlan"`
	PoolEntries []SnapshotEntry `json:"poolEntries"`
}

// SnapshotEntry renders one pool slot.
type SnapshotEntry struct {
	Index    int        `json:"index"`
	Score    float32    `json:"score"`
	Actual   float32    `json:"actual"`
	Ending   EndingView `json:"ending"`
	Plan     string     `json:"plan"`
}

// EndingView renders a rollout.Ending.
type EndingView struct {
	FinalTick  int `json:"finalTick"`
	NumHumans  int `json:"numHumans"`
	NumZombies int `json:"numZombies"`
}

// NewSnapshot renders pool into a Snapshot for publication. tick is the
// current game tick, turnMillis is how long this turn's search.Choose took.
func NewSnapshot(tick int, turnMillis float64, pool search.Pool) Snapshot {
	entries := make([]SnapshotEntry, len(pool.Entries))
	for i, e := range pool.Entries {
		entries[i] = SnapshotEntry{
			Index:  i,
			Score:  e.Score,
			Actual: e.Actual,
			Ending: endingView(e.Ending),
			Plan:   formatter.FormatStrategy(e.Strategy),
		}
	}
	return Snapshot{
		Tick:        tick,
		TurnMillis:  turnMillis,
		BestScore:   pool.Best.Score,
		BestEnding:  endingView(pool.Best.Ending),
		BestPlan:    formatter.FormatStrategy(pool.Best.Strategy),
		PoolEntries: entries,
	}
}

func endingView(e rollout.Ending) EndingView {
	return EndingView{FinalTick: e.FinalTick, NumHumans: e.NumHumans, NumZombies: e.NumZombies}
}
