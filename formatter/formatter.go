// Package formatter renders actions, strategies and milestones to the
// plain-text lines the driver writes to stdout and stderr.
package formatter

import (
	"fmt"
	"strings"

	"ashrun/model"
)

// FormatAction renders a as the single stdout line the game engine expects:
// zero-decimal target coordinates.
func FormatAction(a model.Action) string {
	return fmt.Sprintf("%.0f %.0f", a.Target.X, a.Target.Y)
}

// FormatStrategy renders s as a human-readable one-line plan, milestones
// separated by " -> ", for stderr diagnostics and the diagnostics feed.
func FormatStrategy(s model.Strategy) string {
	if len(s.Milestones) == 0 {
		return fmt.Sprintf("strategy#%d: (empty)", s.ID)
	}
	parts := make([]string, len(s.Milestones))
	for i, m := range s.Milestones {
		parts[i] = FormatMilestone(m)
	}
	return fmt.Sprintf("strategy#%d: %s", s.ID, strings.Join(parts, " -> "))
}

// FormatMilestone renders a single milestone, covering all three variants.
func FormatMilestone(m model.Milestone) string {
	switch m.Kind {
	case model.KillZombie:
		return fmt.Sprintf("kill(zombie#%d)", m.ZombieID)
	case model.ProtectHuman:
		return fmt.Sprintf("protect(human#%d)", m.HumanID)
	case model.MoveTo:
		return fmt.Sprintf("move_to(%.0f, %.0f)", m.Target.X, m.Target.Y)
	default:
		return "unknown_milestone"
	}
}
