package stats

import (
	"io"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Config configures a Tracker.
type Config struct {
	HistoryLimit int     // Movement samples kept per player
	CellSize     float64 // Heatmap grid cell size
	SlotKey      string  // Storage slot used by Persist and Restore
	Rules        []Rule  // Achievement table
}

// DefaultConfig returns the standard tracker settings.
func DefaultConfig() Config {
	return Config{
		HistoryLimit: 1000,
		CellSize:     32,
		SlotKey:      "playerStats",
		Rules:        DefaultRules(),
	}
}

// Tracker owns the statistics of every known player.
//
// Operations on an unknown player are no-ops. Records are created by Track.
// Achievement observers run synchronously, in emission order, after the
// tracker lock has been released, so they may call back into the tracker.
type Tracker struct {
	mu      sync.RWMutex
	players map[PlayerID]*PlayerStats
	cfg     Config
	slot    Slot
	logger  *log.Logger
	now     func() time.Time
	noSave  bool

	obsMu     sync.Mutex
	observers []observer
	nextObsID int
}

type observer struct {
	id int
	fn func(Unlock)
}

// NewTracker creates a tracker. slot and logger may be nil.
func NewTracker(cfg Config, slot Slot, logger *log.Logger) *Tracker {
	def := DefaultConfig()
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = def.HistoryLimit
	}
	if cfg.CellSize <= 0 {
		cfg.CellSize = def.CellSize
	}
	if cfg.SlotKey == "" {
		cfg.SlotKey = def.SlotKey
	}
	if cfg.Rules == nil {
		cfg.Rules = def.Rules
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Tracker{
		players: make(map[PlayerID]*PlayerStats),
		cfg:     cfg,
		slot:    slot,
		logger:  logger,
		now:     time.Now,
	}
}

// Rules returns the tracker's achievement table.
func (t *Tracker) Rules() []Rule {
	return slices.Clone(t.cfg.Rules)
}

// Track creates an empty record for id if none exists.
// Returns true if a record was created.
func (t *Tracker) Track(id PlayerID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.players[id]; ok {
		return false
	}
	t.players[id] = NewPlayerStats()
	t.logger.Debug("tracking player", "player", id)
	return true
}

// Has reports whether id has a record.
func (t *Tracker) Has(id PlayerID) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.players[id]
	return ok
}

// Players returns all tracked player IDs, sorted.
func (t *Tracker) Players() []PlayerID {
	t.mu.RLock()
	defer t.mu.RUnlock()

	ids := make([]PlayerID, 0, len(t.players))
	for id := range t.players {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Stats returns a copy of the record for id.
func (t *Tracker) Stats(id PlayerID) (PlayerStats, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	s, ok := t.players[id]
	if !ok {
		return PlayerStats{}, false
	}
	return s.Clone(), true
}

// update runs fn on the record for id under the write lock.
func (t *Tracker) update(id PlayerID, fn func(s *PlayerStats)) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.players[id]
	if !ok {
		return false
	}
	fn(s)
	return true
}

// RecordMovement appends a movement sample and bumps the heatmap cell of pos.
// ts is in milliseconds.
func (t *Tracker) RecordMovement(id PlayerID, x, y float64, ts int64) {
	t.update(id, func(s *PlayerStats) {
		s.MovementHistory = appendMovement(s.MovementHistory, Position{X: x, Y: y, Time: ts}, t.cfg.HistoryLimit)
		s.HeatmapData[CellKey(x, y, t.cfg.CellSize)]++
		s.AverageSpeed = averageSpeed(s.MovementHistory)
	})
}

// RecordKill counts a kill and extends the current streak.
func (t *Tracker) RecordKill(id PlayerID) {
	t.update(id, func(s *PlayerStats) {
		s.Kills++
		s.CurrentStreak++
	})
}

// RecordDeath counts a death, banks the current streak into the best streak
// and resets it.
func (t *Tracker) RecordDeath(id PlayerID) {
	now := t.now().UnixMilli()
	t.update(id, func(s *PlayerStats) {
		s.Deaths++
		s.BestStreak = max(s.BestStreak, s.CurrentStreak)
		s.CurrentStreak = 0
		s.LastDeathTime = now
	})
}

// RecordAssist counts an assist.
func (t *Tracker) RecordAssist(id PlayerID) {
	t.update(id, func(s *PlayerStats) {
		s.Assists++
	})
}

// RecordScore adds points to the score.
func (t *Tracker) RecordScore(id PlayerID, points int) {
	t.update(id, func(s *PlayerStats) {
		s.Score += points
	})
}

// RecordDamage adds to damage dealt and taken.
func (t *Tracker) RecordDamage(id PlayerID, dealt, taken int) {
	t.update(id, func(s *PlayerStats) {
		s.DamageDealt += dealt
		s.DamageTaken += taken
	})
}

// RecordPowerup counts a collected powerup.
func (t *Tracker) RecordPowerup(id PlayerID) {
	t.update(id, func(s *PlayerStats) {
		s.PowerupsCollected++
	})
}

// RecordMatch counts a finished match as a win or a loss.
func (t *Tracker) RecordMatch(id PlayerID, won bool) {
	t.update(id, func(s *PlayerStats) {
		s.MatchesPlayed++
		if won {
			s.Wins++
		} else {
			s.Losses++
		}
	})
}

// RecordReactionTime stores a reaction time sample in milliseconds.
// NaN and infinite samples are dropped since they cannot be saved.
func (t *Tracker) RecordReactionTime(id PlayerID, ms float64) {
	if math.IsNaN(ms) || math.IsInf(ms, 0) {
		t.logger.Warn("dropping reaction time", "player", id, "ms", ms)
		return
	}
	t.update(id, func(s *PlayerStats) {
		s.ReactionTime = append(s.ReactionTime, ms)
	})
}

// AddPlayTime adds d to the time played.
func (t *Tracker) AddPlayTime(id PlayerID, d time.Duration) {
	t.update(id, func(s *PlayerStats) {
		s.TimePlayed += d.Seconds()
	})
}

// EvaluateAchievements unlocks every rule whose predicate now holds and that
// was not unlocked before, notifying observers once per unlock.
// Returns the newly unlocked IDs in rule order.
func (t *Tracker) EvaluateAchievements(id PlayerID) []AchievementID {
	var unlocked []AchievementID
	t.update(id, func(s *PlayerStats) {
		for _, r := range t.cfg.Rules {
			if s.HasAchievement(r.ID) || !r.Predicate(s) {
				continue
			}
			s.Achievements = append(s.Achievements, r.ID)
			unlocked = append(unlocked, r.ID)
		}
	})

	for _, a := range unlocked {
		t.logger.Info("achievement unlocked", "player", id, "achievement", a)
		t.emit(Unlock{PlayerID: id, AchievementID: a})
	}
	return unlocked
}

// Subscribe registers fn for achievement unlocks. The returned function
// removes the subscription.
func (t *Tracker) Subscribe(fn func(Unlock)) (cancel func()) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()

	t.nextObsID++
	id := t.nextObsID
	t.observers = append(t.observers, observer{id: id, fn: fn})

	return func() {
		t.obsMu.Lock()
		defer t.obsMu.Unlock()
		t.observers = slices.DeleteFunc(t.observers, func(o observer) bool { return o.id == id })
	}
}

func (t *Tracker) emit(u Unlock) {
	t.obsMu.Lock()
	obs := slices.Clone(t.observers)
	t.obsMu.Unlock()

	for _, o := range obs {
		o.fn(u)
	}
}
