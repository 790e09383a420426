package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/sprite-arena/internal/app"
	"github.com/vovakirdan/sprite-arena/internal/core"
	"github.com/vovakirdan/sprite-arena/internal/platform/tui"
)

var flagLogPath string

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in this terminal",
	Long: `Start the arena in this terminal.

Controls:
  Click/Enter/Space  - Start
  Arrows/WASD        - Move (hold or repeat)
  ?                  - Toggle help
  Q/Ctrl+C           - Quit

Statistics are saved when you quit and periodically while playing.

Examples:
  arena play
  arena play --player alice
  arena play --fps 30 --config ./my-arena.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagLogPath, "log", "~/.arena/arena.log", "Path to log file")
}

func runPlay(_ *cobra.Command, _ []string) {
	// Logs go to a file so they do not corrupt the alternate screen.
	logFile, err := app.OpenLogFile(flagLogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	a := openApp(app.NewLogger(logFile, "arena"), false)

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	cfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		PlayerID: flagPlayer,
	}

	runErr := tui.Run(a, cfg)

	// Close app before potential exit
	closeApp(a)

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running arena: %v\n", runErr)
		os.Exit(1)
	}
}
