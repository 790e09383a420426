package stats

import (
	"fmt"
	"slices"
)

// Report holds metrics derived from a player's raw counters.
type Report struct {
	Overview     Overview        `json:"overview"`
	Performance  Performance     `json:"performance"`
	Achievements []AchievementID `json:"achievements"`
}

// Overview is the headline section of a Report.
type Overview struct {
	KDR          float64 `json:"kdr"`
	WinRate      string  `json:"winRate"` // Percentage, two decimals, e.g. "66.67%"
	AverageScore float64 `json:"averageScore"`
}

// Performance is the detail section of a Report.
type Performance struct {
	BestStreak           int     `json:"bestStreak"`
	AverageDamagePerGame float64 `json:"averageDamagePerGame"`
	PowerupEfficiency    float64 `json:"powerupEfficiency"` // Powerups per second played
}

// BuildReport derives the report for id. Every denominator is clamped to at
// least 1. ok is false when id is not tracked.
func (t *Tracker) BuildReport(id PlayerID) (Report, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	s, ok := t.players[id]
	if !ok {
		return Report{}, false
	}
	return buildReport(s), true
}

func buildReport(s *PlayerStats) Report {
	matches := float64(max(1, s.MatchesPlayed))
	return Report{
		Overview: Overview{
			KDR:          float64(s.Kills) / float64(max(1, s.Deaths)),
			WinRate:      fmt.Sprintf("%.2f%%", float64(s.Wins)/matches*100),
			AverageScore: float64(s.Score) / matches,
		},
		Performance: Performance{
			BestStreak:           s.BestStreak,
			AverageDamagePerGame: float64(s.DamageDealt) / matches,
			PowerupEfficiency:    float64(s.PowerupsCollected) / max(1, s.TimePlayed),
		},
		Achievements: slices.Clone(s.Achievements),
	}
}
