package stats

import (
	"fmt"
	"slices"
	"strings"
)

// Built-in achievements.
const (
	CenturyKiller AchievementID = "CENTURY_KILLER"
	Unstoppable   AchievementID = "UNSTOPPABLE"
)

// EventAchievementUnlocked is the notification name for Unlock.
const EventAchievementUnlocked = "achievement-unlocked"

// Predicate is a condition over a player's stats.
type Predicate func(s *PlayerStats) bool

// Rule unlocks ID the first time Predicate holds.
type Rule struct {
	ID          AchievementID
	Description string
	Predicate   Predicate
}

// Unlock is emitted once per player and achievement.
type Unlock struct {
	PlayerID      PlayerID
	AchievementID AchievementID
}

// Name returns the event name.
func (Unlock) Name() string {
	return EventAchievementUnlocked
}

// DefaultRules returns the built-in achievement table.
func DefaultRules() []Rule {
	return []Rule{
		{
			ID:          CenturyKiller,
			Description: "Reach 100 kills",
			Predicate:   func(s *PlayerStats) bool { return s.Kills >= 100 },
		},
		{
			ID:          Unstoppable,
			Description: "Get a 10 kill streak",
			Predicate:   func(s *PlayerStats) bool { return s.CurrentStreak >= 10 },
		},
	}
}

// metrics exposes numeric stats to threshold rules by their JSON names.
var metrics = map[string]func(s *PlayerStats) float64{
	"score":             func(s *PlayerStats) float64 { return float64(s.Score) },
	"kills":             func(s *PlayerStats) float64 { return float64(s.Kills) },
	"deaths":            func(s *PlayerStats) float64 { return float64(s.Deaths) },
	"assists":           func(s *PlayerStats) float64 { return float64(s.Assists) },
	"timePlayed":        func(s *PlayerStats) float64 { return s.TimePlayed },
	"matchesPlayed":     func(s *PlayerStats) float64 { return float64(s.MatchesPlayed) },
	"wins":              func(s *PlayerStats) float64 { return float64(s.Wins) },
	"losses":            func(s *PlayerStats) float64 { return float64(s.Losses) },
	"damageDealt":       func(s *PlayerStats) float64 { return float64(s.DamageDealt) },
	"damageTaken":       func(s *PlayerStats) float64 { return float64(s.DamageTaken) },
	"powerupsCollected": func(s *PlayerStats) float64 { return float64(s.PowerupsCollected) },
	"currentStreak":     func(s *PlayerStats) float64 { return float64(s.CurrentStreak) },
	"bestStreak":        func(s *PlayerStats) float64 { return float64(s.BestStreak) },
	"averageSpeed":      func(s *PlayerStats) float64 { return s.AverageSpeed },
	"cellsVisited":      func(s *PlayerStats) float64 { return float64(len(s.HeatmapData)) },
}

// Metrics returns the metric names threshold rules may use, sorted.
func Metrics() []string {
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ThresholdRule builds a rule that unlocks id once metric >= threshold.
func ThresholdRule(id AchievementID, metric string, threshold float64, description string) (Rule, error) {
	get, ok := metrics[metric]
	if !ok {
		return Rule{}, fmt.Errorf("stats: unknown metric %q (known: %s)", metric, strings.Join(Metrics(), ", "))
	}
	if description == "" {
		description = fmt.Sprintf("Reach %g %s", threshold, metric)
	}
	return Rule{
		ID:          id,
		Description: description,
		Predicate:   func(s *PlayerStats) bool { return get(s) >= threshold },
	}, nil
}

// MergeRules appends extra to base, skipping rules whose ID is already present.
func MergeRules(base []Rule, extra ...Rule) []Rule {
	out := slices.Clone(base)
	for _, r := range extra {
		if slices.ContainsFunc(out, func(o Rule) bool { return o.ID == r.ID }) {
			continue
		}
		out = append(out, r)
	}
	return out
}
