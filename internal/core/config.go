package core

// RuntimeConfig contains configuration passed to a session at start.
// Scenes use this to adapt to terminal size and to identify the local player.
type RuntimeConfig struct {
	ScreenW  int    // Screen width in characters
	ScreenH  int    // Screen height in characters
	TickRate int    // Frames per second (default 60)
	PlayerID string // Player the session records statistics for
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		PlayerID: "player1",
	}
}
