// Package app builds the application context shared by the command line,
// the local terminal session and the SSH server: configuration, logger,
// storage, the statistics tracker and the achievement bus.
package app

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/sprite-arena/internal/config"
	"github.com/vovakirdan/sprite-arena/internal/stats"
	"github.com/vovakirdan/sprite-arena/internal/storage"
)

// Options controls how New builds an App.
type Options struct {
	ConfigPath string      // Custom config file; empty uses the search order
	DBPath     string      // SQLite database; empty keeps stats in memory
	Logger     *log.Logger // Defaults to a stderr logger
	Slot       stats.Slot  // Used instead of DBPath when set
	ReadOnly   bool        // Never write statistics back to the slot
}

// App is the explicit application context.
type App struct {
	Config  config.ArenaConfig
	Logger  *log.Logger
	Store   *storage.Store // nil when running without a database
	Slot    stats.Slot
	Tracker *stats.Tracker
	Bus     *Bus

	unsubscribe func()
}

// New loads configuration, opens storage and restores saved statistics.
// A database that cannot be opened is logged and replaced by an in-memory
// slot so the game still works.
func New(opts Options) (*App, error) {
	logger := opts.Logger
	if logger == nil {
		logger = NewLogger(os.Stderr, "arena")
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	rules, err := buildRules(cfg.Achievements)
	if err != nil {
		return nil, err
	}

	a := &App{
		Config: cfg,
		Logger: logger,
		Bus:    NewBus(),
		Slot:   opts.Slot,
	}

	if a.Slot == nil && opts.DBPath != "" {
		store, err := storage.Open(opts.DBPath)
		if err != nil {
			logger.Warn("could not open stats database, using memory", "path", opts.DBPath, "error", err)
		} else {
			a.Store = store
			a.Slot = store
		}
	}
	if a.Slot == nil {
		a.Slot = storage.NewMemorySlot()
	}

	a.Tracker = stats.NewTracker(stats.Config{
		HistoryLimit: cfg.Stats.HistoryLimit,
		CellSize:     cfg.Stats.CellSize,
		SlotKey:      cfg.Stats.SlotKey,
		Rules:        rules,
	}, a.Slot, logger.WithPrefix("stats"))
	a.unsubscribe = a.Tracker.Subscribe(a.Bus.Publish)
	if opts.ReadOnly {
		a.Tracker.DisableSaving()
	}

	if _, err := a.Tracker.Restore(); err != nil {
		logger.Warn("could not restore stats, saving disabled", "error", err)
	}

	return a, nil
}

// buildRules returns the built-in achievements followed by the configured
// threshold achievements.
func buildRules(extra []config.AchievementRule) ([]stats.Rule, error) {
	rules := stats.DefaultRules()
	var errs []error
	for _, r := range extra {
		rule, err := stats.ThresholdRule(stats.AchievementID(r.ID), r.Metric, r.Threshold, r.Description)
		if err != nil {
			errs = append(errs, fmt.Errorf("achievement %s: %w", r.ID, err))
			continue
		}
		rules = stats.MergeRules(rules, rule)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("failed to build achievements: %w", err)
	}
	return rules, nil
}

func (a *App) persist() error {
	if err := a.Tracker.Persist(); err != nil && !errors.Is(err, stats.ErrSavingDisabled) {
		return err
	}
	return nil
}

// Close saves statistics unless saving is disabled and closes storage.
func (a *App) Close() error {
	var errs []error
	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
	}
	if err := a.persist(); err != nil {
		errs = append(errs, err)
	}
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			errs = append(errs, err)
		}
		a.Store = nil
	}
	return errors.Join(errs...)
}

// Session measures one stretch of gameplay for the session history.
type Session struct {
	app     *App
	player  stats.PlayerID
	start   stats.PlayerStats
	started time.Time
}

// StartSession begins a gameplay session for player, tracking them if needed.
func (a *App) StartSession(player stats.PlayerID) *Session {
	a.Tracker.Track(player)
	start, _ := a.Tracker.Stats(player)
	return &Session{
		app:     a,
		player:  player,
		start:   start,
		started: time.Now(),
	}
}

// Player returns the session's player.
func (s *Session) Player() stats.PlayerID {
	return s.player
}

// Record returns what changed since the session started.
func (s *Session) Record() storage.SessionRecord {
	now, _ := s.app.Tracker.Stats(s.player)
	return storage.SessionRecord{
		PlayerID: string(s.player),
		Score:    now.Score - s.start.Score,
		Kills:    now.Kills - s.start.Kills,
		Deaths:   now.Deaths - s.start.Deaths,
		Duration: int(time.Since(s.started).Seconds()),
	}
}

// End stores the session in the database and persists statistics when the
// app saves.
// Without a database only the statistics are persisted and the returned ID
// is empty.
func (s *Session) End() (string, error) {
	rec := s.Record()
	var id string
	if s.app.Store != nil {
		var err error
		id, err = s.app.Store.SaveSession(rec)
		if err != nil {
			return "", err
		}
	}
	if err := s.app.persist(); err != nil {
		return id, err
	}
	s.app.Logger.Info("session ended", "player", s.player, "session", id, "duration", rec.Duration)
	return id, nil
}
