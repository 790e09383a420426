package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/sprite-arena/internal/app"
	"github.com/vovakirdan/sprite-arena/internal/platform/tui"
	"github.com/vovakirdan/sprite-arena/internal/stats"
)

var flagJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats [player]",
	Short: "Show player statistics",
	Long: `Show the statistics report of a player, or a table of every player
when no player is given.

Examples:
  arena stats              # Interactive table of all players
  arena stats alice        # Report for alice
  arena stats alice --json # Report as JSON`,
	Args: cobra.MaximumNArgs(1),
	Run:  runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&flagJSON, "json", false, "Print the report as JSON")
}

func runStats(_ *cobra.Command, args []string) {
	a := openApp(app.NewLogger(os.Stderr, "arena"), true)
	defer closeApp(a)

	if len(args) == 0 {
		showAllStats(a.Tracker)
		return
	}

	id := stats.PlayerID(args[0])
	report, ok := a.Tracker.BuildReport(id)
	if !ok {
		fmt.Printf("No stats recorded for %s yet.\n", id)
		fmt.Println()
		fmt.Printf("Play 'arena play --player %s' to start!\n", id)
		return
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding report: %v\n", err)
		}
		return
	}

	s, _ := a.Tracker.Stats(id)
	printReport(os.Stdout, id, s, report)
}

// showAllStats shows the interactive board on a terminal and a plain table
// otherwise.
func showAllStats(tracker *stats.Tracker) {
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		if err := tui.RunStatsBoard(tracker, w, h); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return
	}

	players := tracker.Players()
	if len(players) == 0 {
		fmt.Println("No stats recorded yet.")
		return
	}

	fmt.Printf("  %-16s  %-8s  %-9s  %s\n", "Player", "Score", "K/D", "Best")
	fmt.Printf("  %-16s  %-8s  %-9s  %s\n", "------", "-----", "---", "----")
	for _, id := range players {
		s, _ := tracker.Stats(id)
		fmt.Printf("  %-16s  %-8d  %-9s  %d\n", id, s.Score, fmt.Sprintf("%d/%d", s.Kills, s.Deaths), s.BestStreak)
	}
}

// printReport writes a human readable report.
func printReport(w io.Writer, id stats.PlayerID, s stats.PlayerStats, r stats.Report) {
	fmt.Fprintf(w, "Stats - %s\n", id)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Overview")
	fmt.Fprintf(w, "  %-22s %.2f\n", "K/D ratio", r.Overview.KDR)
	fmt.Fprintf(w, "  %-22s %s\n", "Win rate", r.Overview.WinRate)
	fmt.Fprintf(w, "  %-22s %.2f\n", "Average score", r.Overview.AverageScore)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Performance")
	fmt.Fprintf(w, "  %-22s %d\n", "Best streak", r.Performance.BestStreak)
	fmt.Fprintf(w, "  %-22s %.2f\n", "Damage per game", r.Performance.AverageDamagePerGame)
	fmt.Fprintf(w, "  %-22s %.4f\n", "Powerups per second", r.Performance.PowerupEfficiency)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Activity")
	fmt.Fprintf(w, "  %-22s %.0fs\n", "Time played", s.TimePlayed)
	fmt.Fprintf(w, "  %-22s %.1f\n", "Average speed", s.AverageSpeed)
	fmt.Fprintf(w, "  %-22s %d\n", "Cells visited", len(s.HeatmapData))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Achievements")
	if len(r.Achievements) == 0 {
		fmt.Fprintln(w, "  none yet")
	}
	for _, a := range r.Achievements {
		fmt.Fprintf(w, "  %s\n", a)
	}
}
