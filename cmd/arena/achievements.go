package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/sprite-arena/internal/app"
	"github.com/vovakirdan/sprite-arena/internal/stats"
)

var achievementsCmd = &cobra.Command{
	Use:   "achievements",
	Short: "List achievements",
	Long: `List every achievement, marking the ones --player has unlocked.

Extra achievements are configured in the arena config:

  achievements:
    - id: EXPLORER
      metric: cellsVisited
      threshold: 50
      description: Visit 50 heatmap cells

Examples:
  arena achievements
  arena achievements --player alice`,
	Args: cobra.NoArgs,
	Run:  runAchievements,
}

func runAchievements(_ *cobra.Command, _ []string) {
	a := openApp(app.NewLogger(os.Stderr, "arena"), true)
	defer closeApp(a)

	s, tracked := a.Tracker.Stats(stats.PlayerID(flagPlayer))

	rules := a.Tracker.Rules()
	maxIDLen := 2 // "ID" header
	for _, r := range rules {
		maxIDLen = max(maxIDLen, len(r.ID))
	}

	fmt.Printf("Achievements - %s\n", flagPlayer)
	fmt.Println()
	fmt.Printf("     %-*s  %s\n", maxIDLen, "ID", "Description")
	fmt.Printf("     %-*s  %s\n", maxIDLen, "--", "-----------")
	for _, r := range rules {
		mark := "[ ]"
		if tracked && s.HasAchievement(r.ID) {
			mark = "[x]"
		}
		fmt.Printf("  %s %-*s  %s\n", mark, maxIDLen, r.ID, r.Description)
	}

	fmt.Println()
	fmt.Printf("Metrics for custom achievements: %s\n", strings.Join(stats.Metrics(), ", "))
}
