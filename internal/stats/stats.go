// Package stats tracks per-player statistics: counters, a bounded movement
// history, a visit heatmap and unlocked achievements. The whole map of players
// can be persisted to and restored from a named storage slot as JSON.
package stats

import (
	"maps"
	"math"
	"slices"
	"strconv"
)

// PlayerID identifies a player.
type PlayerID string

// AchievementID identifies an achievement.
type AchievementID string

// Position is one movement sample. Time is in milliseconds.
type Position struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Time int64   `json:"time"`
}

// PlayerStats is the plain statistics record for one player.
type PlayerStats struct {
	// Basic stats
	Score   int `json:"score"`
	Kills   int `json:"kills"`
	Deaths  int `json:"deaths"`
	Assists int `json:"assists"`

	// Game performance
	TimePlayed    float64 `json:"timePlayed"` // Seconds
	MatchesPlayed int     `json:"matchesPlayed"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`

	// Detailed stats
	DamageDealt       int `json:"damageDealt"`
	DamageTaken       int `json:"damageTaken"`
	PowerupsCollected int `json:"powerupsCollected"`

	// Current match stats
	CurrentStreak int   `json:"currentStreak"`
	BestStreak    int   `json:"bestStreak"`
	LastDeathTime int64 `json:"lastDeathTime"` // Unix milliseconds

	// Position tracking
	MovementHistory []Position     `json:"movementHistory"`
	HeatmapData     map[string]int `json:"heatmapData"`

	// Performance metrics
	AverageSpeed float64   `json:"averageSpeed"` // Units per second over MovementHistory
	ReactionTime []float64 `json:"reactionTime"` // Milliseconds

	// Unlocked achievements in unlock order; never shrinks.
	Achievements []AchievementID `json:"achievements"`
}

// NewPlayerStats returns a zeroed record with its collections allocated.
func NewPlayerStats() *PlayerStats {
	return &PlayerStats{
		MovementHistory: []Position{},
		HeatmapData:     make(map[string]int),
		ReactionTime:    []float64{},
		Achievements:    []AchievementID{},
	}
}

// HasAchievement reports whether id is unlocked.
func (s *PlayerStats) HasAchievement(id AchievementID) bool {
	return slices.Contains(s.Achievements, id)
}

// Clone returns a deep copy.
func (s *PlayerStats) Clone() PlayerStats {
	c := *s
	c.MovementHistory = slices.Clone(s.MovementHistory)
	c.HeatmapData = maps.Clone(s.HeatmapData)
	c.ReactionTime = slices.Clone(s.ReactionTime)
	c.Achievements = slices.Clone(s.Achievements)
	return c
}

// normalize allocates collections a decoded record may be missing.
func (s *PlayerStats) normalize() {
	if s.MovementHistory == nil {
		s.MovementHistory = []Position{}
	}
	if s.HeatmapData == nil {
		s.HeatmapData = make(map[string]int)
	}
	if s.ReactionTime == nil {
		s.ReactionTime = []float64{}
	}
	if s.Achievements == nil {
		s.Achievements = []AchievementID{}
	}
}

// CellKey returns the heatmap key "gx,gy" of the grid cell containing (x, y).
func CellKey(x, y, cellSize float64) string {
	gx := int64(math.Floor(x / cellSize))
	gy := int64(math.Floor(y / cellSize))
	return strconv.FormatInt(gx, 10) + "," + strconv.FormatInt(gy, 10)
}
