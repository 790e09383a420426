package stats

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapSlot is an in-memory Slot.
type mapSlot struct {
	mu   sync.Mutex
	data    map[string][]byte
	err     error
	loadErr error
}

func newMapSlot() *mapSlot {
	return &mapSlot{data: make(map[string][]byte)}
}

func (m *mapSlot) Load(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, false, m.err
	}
	if m.loadErr != nil {
		return nil, false, m.loadErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *mapSlot) Save(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.data[key] = append([]byte(nil), data...)
	return nil
}

func TestPersistRestoreRoundTrip(t *testing.T) {
	slot := newMapSlot()
	src := NewTracker(DefaultConfig(), slot, nil)
	src.Track("p1")
	src.Track("p2")

	for i := 0; i < 12; i++ {
		src.RecordKill("p1")
	}
	src.RecordDeath("p1")
	src.RecordMovement("p1", 100, 100, 10)
	src.RecordMovement("p1", 140, 100, 210)
	src.RecordScore("p2", 42)
	src.EvaluateAchievements("p1")

	require.NoError(t, src.Persist())

	dst := NewTracker(DefaultConfig(), slot, nil)
	n, err := dst.Restore()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	for _, id := range []PlayerID{"p1", "p2"} {
		want, _ := src.Stats(id)
		got, ok := dst.Stats(id)
		require.True(t, ok, "player %s should be restored", id)
		assert.Equal(t, want, got)
	}
}

func TestPersistUsesSlotKeyAndCamelCase(t *testing.T) {
	slot := newMapSlot()
	tr := NewTracker(DefaultConfig(), slot, nil)
	tr.Track("p1")
	tr.RecordMovement("p1", 40, 70, 5)
	require.NoError(t, tr.Persist())

	raw, ok := slot.data["playerStats"]
	require.True(t, ok)

	var decoded map[string]map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Contains(t, decoded, "p1")
	for _, field := range []string{"movementHistory", "heatmapData", "achievements", "currentStreak", "bestStreak"} {
		assert.Contains(t, decoded["p1"], field)
	}
	assert.JSONEq(t, `{"1,2":1}`, string(decoded["p1"]["heatmapData"]))
	assert.JSONEq(t, `[]`, string(decoded["p1"]["achievements"]))
}

func TestRestoreMergesAndOverwrites(t *testing.T) {
	slot := newMapSlot()
	saved := NewTracker(DefaultConfig(), slot, nil)
	saved.Track("p1")
	saved.RecordScore("p1", 500)
	require.NoError(t, saved.Persist())

	tr := NewTracker(DefaultConfig(), slot, nil)
	tr.Track("p1")
	tr.Track("local")
	tr.RecordScore("p1", 1)
	tr.RecordScore("local", 7)

	n, err := tr.Restore()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	p1, _ := tr.Stats("p1")
	assert.Equal(t, 500, p1.Score, "saved record replaces the in-memory one")
	local, ok := tr.Stats("local")
	require.True(t, ok, "players absent from the slot are kept")
	assert.Equal(t, 7, local.Score)
}

func TestRestoreAbsentSlot(t *testing.T) {
	tr := NewTracker(DefaultConfig(), newMapSlot(), nil)
	tr.Track("p1")

	n, err := tr.Restore()
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, []PlayerID{"p1"}, tr.Players())
}

func TestRestoreMalformedIsIgnored(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"garbage", "{not json"},
		{"array", "[1,2,3]"},
		{"null", "null"},
		{"null player", `{"p1":null}`},
		{"wrong type", `{"p1":{"kills":"many"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slot := newMapSlot()
			slot.data["playerStats"] = []byte(tt.data)

			tr := NewTracker(DefaultConfig(), slot, nil)
			tr.Track("keep")

			n, err := tr.Restore()
			require.NoError(t, err)
			assert.Zero(t, n)
			assert.Equal(t, []PlayerID{"keep"}, tr.Players())
		})
	}
}

func TestDecodeSnapshotNormalizes(t *testing.T) {
	saved, err := decodeSnapshot([]byte(`{"p1":{"kills":3}}`))
	require.NoError(t, err)

	s := saved["p1"]
	assert.Equal(t, 3, s.Kills)
	assert.NotNil(t, s.HeatmapData)
	assert.NotNil(t, s.MovementHistory)
	assert.NotNil(t, s.Achievements)

	_, err = decodeSnapshot([]byte("nope"))
	assert.ErrorIs(t, err, ErrMalformedSlot)
}

func TestRestoreTrimsOversizedHistory(t *testing.T) {
	slot := newMapSlot()
	big := NewTracker(Config{HistoryLimit: 50}, slot, nil)
	big.Track("p1")
	for i := 0; i < 50; i++ {
		big.RecordMovement("p1", 0, 0, int64(i))
	}
	require.NoError(t, big.Persist())

	small := NewTracker(Config{HistoryLimit: 10}, slot, nil)
	_, err := small.Restore()
	require.NoError(t, err)

	s, _ := small.Stats("p1")
	require.Len(t, s.MovementHistory, 10)
	assert.Equal(t, int64(40), s.MovementHistory[0].Time)
}

func TestPersistErrors(t *testing.T) {
	tr := NewTracker(DefaultConfig(), nil, nil)
	assert.Error(t, tr.Persist())
	_, err := tr.Restore()
	assert.Error(t, err)

	boom := errors.New("disk full")
	slot := newMapSlot()
	slot.err = boom
	tr = NewTracker(DefaultConfig(), slot, nil)
	assert.ErrorIs(t, tr.Persist(), boom)
	_, err = tr.Restore()
	assert.ErrorIs(t, err, boom)
}

func TestFailedRestoreKeepsSavedStats(t *testing.T) {
	slot := newMapSlot()
	saved := `{"alice":{"score":999}}`
	slot.data[DefaultConfig().SlotKey] = []byte(saved)
	slot.loadErr = errors.New("database is locked")

	tr := NewTracker(DefaultConfig(), slot, nil)
	_, err := tr.Restore()
	require.Error(t, err)

	tr.Track("bob")
	assert.ErrorIs(t, tr.Persist(), ErrSavingDisabled)
	assert.JSONEq(t, saved, string(slot.data[DefaultConfig().SlotKey]))
}

func TestDisableSaving(t *testing.T) {
	slot := newMapSlot()
	tr := NewTracker(DefaultConfig(), slot, nil)
	tr.Track("p1")
	tr.DisableSaving()

	assert.ErrorIs(t, tr.Persist(), ErrSavingDisabled)
	assert.Empty(t, slot.data)
}
