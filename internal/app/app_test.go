package app

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/sprite-arena/internal/stats"
	"github.com/vovakirdan/sprite-arena/internal/storage"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func newTestApp(t *testing.T, dbPath string) *App {
	t.Helper()
	a, err := New(Options{DBPath: dbPath, Logger: quietLogger()})
	require.NoError(t, err)
	return a
}

func TestNewWithoutDatabaseUsesMemory(t *testing.T) {
	a := newTestApp(t, "")
	defer a.Close()

	assert.Nil(t, a.Store)
	assert.NotNil(t, a.Slot)
	assert.Equal(t, 800.0, a.Config.World.Width)
	assert.Len(t, a.Tracker.Rules(), 2)
}

func TestNewFallsBackWhenDatabaseFails(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	// The parent "directory" is a regular file, so the database cannot be created.
	a := newTestApp(t, filepath.Join(blocker, "stats.db"))
	defer a.Close()

	assert.Nil(t, a.Store)
	assert.NotNil(t, a.Slot)
}

func TestStatsSurviveRestart(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "stats.db")

	a := newTestApp(t, dbPath)
	a.Tracker.Track("p1")
	for i := 0; i < 10; i++ {
		a.Tracker.RecordKill("p1")
	}
	a.Tracker.EvaluateAchievements("p1")
	require.NoError(t, a.Close())

	b := newTestApp(t, dbPath)
	defer b.Close()

	s, ok := b.Tracker.Stats("p1")
	require.True(t, ok)
	assert.Equal(t, 10, s.Kills)
	assert.Equal(t, []stats.AchievementID{stats.Unstoppable}, s.Achievements)
}

func TestUnlocksReachTheBus(t *testing.T) {
	a := newTestApp(t, "")
	defer a.Close()

	ch := a.Bus.Subscribe()
	defer a.Bus.Unsubscribe(ch)

	a.Tracker.Track("p1")
	for i := 0; i < 10; i++ {
		a.Tracker.RecordKill("p1")
	}
	a.Tracker.EvaluateAchievements("p1")

	select {
	case u := <-ch:
		assert.Equal(t, stats.Unlock{PlayerID: "p1", AchievementID: stats.Unstoppable}, u)
	case <-time.After(time.Second):
		t.Fatal("no unlock published")
	}
}

func TestConfiguredAchievements(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arena.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
achievements:
  - id: EXPLORER
    metric: cellsVisited
    threshold: 2
`), 0o644))

	a, err := New(Options{ConfigPath: path, Logger: quietLogger()})
	require.NoError(t, err)
	defer a.Close()

	a.Tracker.Track("p1")
	a.Tracker.RecordMovement("p1", 0, 0, 0)
	a.Tracker.RecordMovement("p1", 100, 100, 100)
	assert.Equal(t, []stats.AchievementID{"EXPLORER"}, a.Tracker.EvaluateAchievements("p1"))
}

func TestUnknownAchievementMetricFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arena.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
achievements:
  - id: BAD
    metric: luck
    threshold: 1
`), 0o644))

	_, err := New(Options{ConfigPath: path, Logger: quietLogger()})
	assert.Error(t, err)
}

func TestSessionRecordsDelta(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "stats.db")
	a := newTestApp(t, dbPath)
	defer a.Close()

	a.Tracker.Track("p1")
	a.Tracker.RecordScore("p1", 100)

	sess := a.StartSession("p1")
	a.Tracker.RecordScore("p1", 40)
	a.Tracker.RecordKill("p1")

	id, err := sess.End()
	require.NoError(t, err)
	require.NotEmpty(t, id)

	history, err := a.Store.PlayerSessions("p1", 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, id, history[0].ID)
	assert.Equal(t, 40, history[0].Score)
	assert.Equal(t, 1, history[0].Kills)
}

func TestSessionWithoutDatabase(t *testing.T) {
	a := newTestApp(t, "")
	defer a.Close()

	sess := a.StartSession("p1")
	assert.True(t, a.Tracker.Has("p1"))

	id, err := sess.End()
	require.NoError(t, err)
	assert.Empty(t, id)
}

func TestOpenLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "arena.log")
	f, err := OpenLogFile(path)
	require.NoError(t, err)
	defer f.Close()

	logger := NewLogger(f, "test")
	logger.Info("hello", "k", "v")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
}

// flakySlot fails every Load while still accepting writes.
type flakySlot struct {
	*storage.MemorySlot
}

func (flakySlot) Load(string) ([]byte, bool, error) {
	return nil, false, errors.New("database is locked")
}

func TestCloseAfterFailedRestoreKeepsSavedStats(t *testing.T) {
	mem := storage.NewMemorySlot()
	key := stats.DefaultConfig().SlotKey
	saved := `{"alice":{"score":999}}`
	require.NoError(t, mem.Save(key, []byte(saved)))

	a, err := New(Options{Slot: flakySlot{mem}, Logger: quietLogger()})
	require.NoError(t, err)

	sess := a.StartSession("bob")
	a.Tracker.RecordKill("bob")
	_, err = sess.End()
	require.NoError(t, err)
	require.NoError(t, a.Close())

	data, ok, err := mem.Load(key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, saved, string(data))
}

func TestReadOnlyCloseDoesNotSave(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "stats.db")

	a := newTestApp(t, dbPath)
	a.Tracker.Track("alice")
	a.Tracker.RecordScore("alice", 999)
	require.NoError(t, a.Close())

	ro, err := New(Options{DBPath: dbPath, Logger: quietLogger(), ReadOnly: true})
	require.NoError(t, err)
	ro.Tracker.Track("bob")
	require.NoError(t, ro.Close())

	b := newTestApp(t, dbPath)
	defer b.Close()
	assert.Equal(t, []stats.PlayerID{"alice"}, b.Tracker.Players())
	s, ok := b.Tracker.Stats("alice")
	require.True(t, ok)
	assert.Equal(t, 999, s.Score)
}
