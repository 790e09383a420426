package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/sprite-arena/internal/app"
)

var flagHistoryLimit int

var historyCmd = &cobra.Command{
	Use:   "history <player>",
	Short: "Show recent sessions of a player",
	Long: `Display the most recent play sessions recorded for a player.

Examples:
  arena history alice
  arena history alice --limit 5`,
	Args: cobra.ExactArgs(1),
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 10, "Number of sessions to show")
}

func runHistory(_ *cobra.Command, args []string) {
	player := args[0]

	a := openApp(app.NewLogger(os.Stderr, "arena"), true)
	defer closeApp(a)

	if a.Store == nil {
		fmt.Fprintln(os.Stderr, "Error: session history needs the stats database")
		return
	}

	sessions, err := a.Store.PlayerSessions(player, flagHistoryLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving sessions: %v\n", err)
		return
	}

	fmt.Printf("Sessions - %s\n", player)
	fmt.Println()

	if len(sessions) == 0 {
		fmt.Println("No sessions recorded yet.")
		return
	}

	fmt.Printf("  %-16s  %-8s  %-6s  %-6s  %-8s  %s\n", "Date", "Score", "Kills", "Deaths", "Duration", "ID")
	fmt.Printf("  %-16s  %-8s  %-6s  %-6s  %-8s  %s\n", "----", "-----", "-----", "------", "--------", "--")
	for _, s := range sessions {
		fmt.Printf("  %-16s  %-8d  %-6d  %-6d  %-8s  %s\n",
			s.CreatedAt.Format("2006-01-02 15:04"),
			s.Score, s.Kills, s.Deaths,
			fmt.Sprintf("%ds", s.Duration),
			s.ID,
		)
	}

	if best, err := a.Store.BestScore(player); err == nil {
		fmt.Println()
		fmt.Printf("Best: %d\n", best)
	}
}
