package stats

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTracker(t *testing.T) *Tracker {
	t.Helper()
	tr := NewTracker(DefaultConfig(), newMapSlot(), nil)
	tr.now = func() time.Time { return time.UnixMilli(1_700_000_000_000) }
	return tr
}

func TestUnknownPlayerIsNoOp(t *testing.T) {
	tr := newTestTracker(t)
	const ghost PlayerID = "ghost"

	assert.NotPanics(t, func() {
		tr.RecordMovement(ghost, 10, 10, 0)
		tr.RecordKill(ghost)
		tr.RecordDeath(ghost)
		tr.RecordAssist(ghost)
		tr.RecordScore(ghost, 10)
		tr.RecordDamage(ghost, 1, 1)
		tr.RecordPowerup(ghost)
		tr.RecordMatch(ghost, true)
		tr.RecordReactionTime(ghost, 200)
		tr.AddPlayTime(ghost, time.Second)
		assert.Empty(t, tr.EvaluateAchievements(ghost))
	})

	_, ok := tr.BuildReport(ghost)
	assert.False(t, ok)
	_, ok = tr.Stats(ghost)
	assert.False(t, ok)
	assert.False(t, tr.Has(ghost))
	assert.Empty(t, tr.Players())
}

func TestTrackIsIdempotent(t *testing.T) {
	tr := newTestTracker(t)

	assert.True(t, tr.Track("p1"))
	tr.RecordKill("p1")
	assert.False(t, tr.Track("p1"))

	s, ok := tr.Stats("p1")
	require.True(t, ok)
	assert.Equal(t, 1, s.Kills, "second Track must not reset the record")
}

func TestMovementHistoryIsBoundedFIFO(t *testing.T) {
	tr := newTestTracker(t)
	tr.Track("p1")

	for i := 0; i < 1001; i++ {
		tr.RecordMovement("p1", float64(i), 0, int64(i))
	}

	s, _ := tr.Stats("p1")
	require.Len(t, s.MovementHistory, 1000)
	assert.Equal(t, int64(1), s.MovementHistory[0].Time, "oldest sample should be evicted")
	assert.Equal(t, int64(1000), s.MovementHistory[999].Time)

	for i := 0; i < 500; i++ {
		tr.RecordMovement("p1", 0, 0, int64(2000+i))
	}
	s, _ = tr.Stats("p1")
	assert.Len(t, s.MovementHistory, 1000)
	assert.Equal(t, int64(501), s.MovementHistory[0].Time)
}

func TestHeatmapBucketsByCell(t *testing.T) {
	tr := newTestTracker(t)
	tr.Track("p1")

	tr.RecordMovement("p1", 0, 0, 0)
	tr.RecordMovement("p1", 31.9, 31.9, 1)
	tr.RecordMovement("p1", 32, 0, 2)
	tr.RecordMovement("p1", 400, 300, 3)
	tr.RecordMovement("p1", -1, -1, 4)

	s, _ := tr.Stats("p1")
	assert.Equal(t, map[string]int{
		"0,0":   2,
		"1,0":   1,
		"12,9":  1,
		"-1,-1": 1,
	}, s.HeatmapData)
}

func TestAverageSpeed(t *testing.T) {
	tr := newTestTracker(t)
	tr.Track("p1")

	// 200 units per second along x, sampled every 100ms
	for i := 0; i <= 10; i++ {
		tr.RecordMovement("p1", float64(i)*20, 0, int64(i)*100)
	}

	s, _ := tr.Stats("p1")
	assert.InDelta(t, 200, s.AverageSpeed, 1e-9)
}

func TestRecordDeathBanksStreak(t *testing.T) {
	tr := newTestTracker(t)
	tr.Track("p1")

	for i := 0; i < 5; i++ {
		tr.RecordKill("p1")
	}
	tr.RecordDeath("p1")
	for i := 0; i < 7; i++ {
		tr.RecordKill("p1")
	}

	s, _ := tr.Stats("p1")
	require.Equal(t, 7, s.CurrentStreak)
	require.Equal(t, 5, s.BestStreak)

	tr.RecordDeath("p1")

	s, _ = tr.Stats("p1")
	assert.Equal(t, 7, s.BestStreak)
	assert.Equal(t, 0, s.CurrentStreak)
	assert.Equal(t, 2, s.Deaths)
	assert.Equal(t, 12, s.Kills)
	assert.Equal(t, int64(1_700_000_000_000), s.LastDeathTime)
}

func TestBestStreakOnlyReconciledOnDeath(t *testing.T) {
	tr := newTestTracker(t)
	tr.Track("p1")

	for i := 0; i < 3; i++ {
		tr.RecordKill("p1")
	}

	s, _ := tr.Stats("p1")
	assert.Equal(t, 3, s.CurrentStreak)
	assert.Equal(t, 0, s.BestStreak)
}

func TestCenturyKillerUnlocksOnce(t *testing.T) {
	tr := newTestTracker(t)
	tr.Track("p1")

	var events []Unlock
	tr.Subscribe(func(u Unlock) { events = append(events, u) })

	for i := 0; i < 100; i++ {
		tr.RecordKill("p1")
		if i%10 == 9 {
			tr.RecordDeath("p1") // keep the streak below UNSTOPPABLE
		}
	}

	assert.Equal(t, []AchievementID{CenturyKiller}, tr.EvaluateAchievements("p1"))
	assert.Empty(t, tr.EvaluateAchievements("p1"), "second evaluation must not re-unlock")

	require.Len(t, events, 1)
	assert.Equal(t, Unlock{PlayerID: "p1", AchievementID: CenturyKiller}, events[0])
	assert.Equal(t, EventAchievementUnlocked, events[0].Name())

	s, _ := tr.Stats("p1")
	assert.Equal(t, []AchievementID{CenturyKiller}, s.Achievements)
}

func TestAchievementsPersistAfterPredicateTurnsFalse(t *testing.T) {
	tr := newTestTracker(t)
	tr.Track("p1")

	for i := 0; i < 10; i++ {
		tr.RecordKill("p1")
	}
	assert.Equal(t, []AchievementID{Unstoppable}, tr.EvaluateAchievements("p1"))

	tr.RecordDeath("p1")
	assert.Empty(t, tr.EvaluateAchievements("p1"))

	s, _ := tr.Stats("p1")
	assert.True(t, s.HasAchievement(Unstoppable))
}

func TestUnlockOrderFollowsRuleTable(t *testing.T) {
	tr := newTestTracker(t)
	tr.Track("p1")

	var events []AchievementID
	tr.Subscribe(func(u Unlock) { events = append(events, u.AchievementID) })

	for i := 0; i < 100; i++ {
		tr.RecordKill("p1")
	}
	tr.EvaluateAchievements("p1")

	assert.Equal(t, []AchievementID{CenturyKiller, Unstoppable}, events)
}

func TestSubscribeCancel(t *testing.T) {
	tr := newTestTracker(t)
	tr.Track("p1")

	calls := 0
	cancel := tr.Subscribe(func(Unlock) { calls++ })
	cancel()

	for i := 0; i < 10; i++ {
		tr.RecordKill("p1")
	}
	tr.EvaluateAchievements("p1")
	assert.Zero(t, calls)
}

func TestObserverMayCallBackIntoTracker(t *testing.T) {
	tr := newTestTracker(t)
	tr.Track("p1")

	var report Report
	tr.Subscribe(func(u Unlock) {
		report, _ = tr.BuildReport(u.PlayerID)
	})

	for i := 0; i < 10; i++ {
		tr.RecordKill("p1")
	}
	tr.EvaluateAchievements("p1")
	assert.Equal(t, []AchievementID{Unstoppable}, report.Achievements)
}

func TestCustomRules(t *testing.T) {
	marathon, err := ThresholdRule("MARATHON", "timePlayed", 60, "")
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.Rules = MergeRules(cfg.Rules, marathon)
	tr := NewTracker(cfg, nil, nil)
	tr.Track("p1")

	tr.AddPlayTime("p1", 59*time.Second)
	assert.Empty(t, tr.EvaluateAchievements("p1"))
	tr.AddPlayTime("p1", time.Second)
	assert.Equal(t, []AchievementID{"MARATHON"}, tr.EvaluateAchievements("p1"))
}

func TestSupplementaryCounters(t *testing.T) {
	tr := newTestTracker(t)
	tr.Track("p1")

	tr.RecordAssist("p1")
	tr.RecordScore("p1", 150)
	tr.RecordDamage("p1", 40, 15)
	tr.RecordPowerup("p1")
	tr.RecordMatch("p1", true)
	tr.RecordMatch("p1", false)
	tr.RecordReactionTime("p1", 250)
	tr.AddPlayTime("p1", 1500*time.Millisecond)

	s, _ := tr.Stats("p1")
	assert.Equal(t, 1, s.Assists)
	assert.Equal(t, 150, s.Score)
	assert.Equal(t, 40, s.DamageDealt)
	assert.Equal(t, 15, s.DamageTaken)
	assert.Equal(t, 1, s.PowerupsCollected)
	assert.Equal(t, 2, s.MatchesPlayed)
	assert.Equal(t, 1, s.Wins)
	assert.Equal(t, 1, s.Losses)
	assert.Equal(t, []float64{250}, s.ReactionTime)
	assert.InDelta(t, 1.5, s.TimePlayed, 1e-9)
}

func TestRecordReactionTimeDropsNonFinite(t *testing.T) {
	slot := newMapSlot()
	tr := NewTracker(DefaultConfig(), slot, nil)
	tr.Track("p1")

	tr.RecordReactionTime("p1", math.NaN())
	tr.RecordReactionTime("p1", math.Inf(1))
	tr.RecordReactionTime("p1", math.Inf(-1))
	tr.RecordReactionTime("p1", 180)

	s, _ := tr.Stats("p1")
	assert.Equal(t, []float64{180}, s.ReactionTime)
	require.NoError(t, tr.Persist())
}

func TestStatsReturnsCopy(t *testing.T) {
	tr := newTestTracker(t)
	tr.Track("p1")
	tr.RecordMovement("p1", 1, 1, 1)

	s, _ := tr.Stats("p1")
	s.HeatmapData["0,0"] = 99
	s.MovementHistory[0].X = 99

	again, _ := tr.Stats("p1")
	assert.Equal(t, 1, again.HeatmapData["0,0"])
	assert.Equal(t, float64(1), again.MovementHistory[0].X)
}

func TestPlayersSorted(t *testing.T) {
	tr := newTestTracker(t)
	for _, id := range []PlayerID{"zed", "amy", "kim"} {
		tr.Track(id)
	}
	assert.Equal(t, []PlayerID{"amy", "kim", "zed"}, tr.Players())
}

func TestConcurrentRecording(t *testing.T) {
	tr := newTestTracker(t)
	const players = 8
	for i := 0; i < players; i++ {
		tr.Track(PlayerID(fmt.Sprintf("p%d", i)))
	}

	done := make(chan struct{})
	for i := 0; i < players; i++ {
		go func(id PlayerID) {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 200; j++ {
				tr.RecordMovement(id, float64(j), float64(j), int64(j))
				tr.RecordKill(id)
				tr.EvaluateAchievements(id)
			}
		}(PlayerID(fmt.Sprintf("p%d", i)))
	}
	for i := 0; i < players; i++ {
		<-done
	}

	for _, id := range tr.Players() {
		s, _ := tr.Stats(id)
		assert.Equal(t, 200, s.Kills)
		assert.Len(t, s.Achievements, 2)
	}
}
