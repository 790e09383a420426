package stats

import "fmt"

// Display is an on-screen text target.
type Display interface {
	SetLines(lines []string)
}

// SummaryLines returns the short on-screen summary for id.
func (t *Tracker) SummaryLines(id PlayerID) ([]string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	s, ok := t.players[id]
	if !ok {
		return nil, false
	}
	return []string{
		fmt.Sprintf("Player: %s", id),
		fmt.Sprintf("Score: %d", s.Score),
		fmt.Sprintf("K/D: %d/%d", s.Kills, s.Deaths),
		fmt.Sprintf("Streak: %d", s.CurrentStreak),
		fmt.Sprintf("Best: %d", s.BestStreak),
	}, true
}

// RenderSummary writes the summary for id to d. It does nothing when d is
// nil or id is not tracked.
func (t *Tracker) RenderSummary(id PlayerID, d Display) {
	if d == nil {
		return
	}
	lines, ok := t.SummaryLines(id)
	if !ok {
		return
	}
	d.SetLines(lines)
}
