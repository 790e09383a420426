// arena is a terminal arcade arena: steer a sprite around a bounded world
// while your statistics, heatmap and achievements are tracked.
//
// Usage:
//
//	arena play                 - Play locally
//	arena stats [player]       - Show player statistics
//	arena history <player>     - Show recent sessions of a player
//	arena achievements         - List achievements
//	arena serve                - Start SSH server for remote play
//
// Global flags:
//
//	--fps <rate>      - Set tick rate (default: 60)
//	--db <path>       - Set database path (default: ~/.arena/arena.db)
//	--config <path>   - Use a custom arena config YAML
//	--player <id>     - Player to play or report as (default: player1)
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/sprite-arena/internal/app"
)

var (
	// Global flags
	flagFPS    int
	flagDBPath string
	flagConfig string
	flagPlayer string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "arena",
	Short: "Sprite Arena - a tiny arcade arena with player statistics",
	Long: `Sprite Arena is a terminal arcade arena. Click to start, then steer
your sprite with the arrow keys while kills, streaks, movement heatmaps
and achievements are recorded per player.

Available commands:
  play          - Play in this terminal
  stats         - Show player statistics
  history       - Show recent sessions of a player
  achievements  - List achievements
  serve         - Start SSH server for remote play

Examples:
  arena play --player alice
  arena stats alice
  arena stats alice --json
  arena history alice
  arena serve --ssh :2222`,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.arena/arena.db", "Path to stats database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom arena config YAML")
	rootCmd.PersistentFlags().StringVar(&flagPlayer, "player", "player1", "Player ID")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(achievementsCmd)
	rootCmd.AddCommand(serveCmd)
}

// openApp builds the application context from the global flags.
// Read-only commands pass readOnly so closing never rewrites saved stats.
func openApp(logger *log.Logger, readOnly bool) *app.App {
	a, err := app.New(app.Options{
		ConfigPath: flagConfig,
		DBPath:     flagDBPath,
		Logger:     logger,
		ReadOnly:   readOnly,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return a
}

// closeApp saves statistics and closes storage, reporting failures.
func closeApp(a *app.App) {
	if err := a.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
}
