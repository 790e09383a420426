package config

import (
	_ "embed"
)

//go:embed defaults/arena.yaml
var defaultArenaYAML []byte

// DefaultArenaConfig returns the built-in arena configuration.
func DefaultArenaConfig() ArenaConfig {
	return ArenaConfig{
		World: WorldConfig{
			Width:  800,
			Height: 600,
		},
		Player: PlayerConfig{
			Speed:  200,
			Size:   32,
			SpawnX: 400,
			SpawnY: 300,
		},
		Stats: StatsConfig{
			HistoryLimit:    1000,
			CellSize:        32,
			SlotKey:         "playerStats",
			AutosaveSeconds: 30,
		},
		Achievements: []AchievementRule{},
		Input: InputConfig{
			HoldMillis: 150,
		},
		UI: UIConfig{
			MenuPrompt:   "Click to Start",
			PromptX:      400,
			PromptY:      300,
			OverlayX:     16,
			OverlayY:     16,
			ToastSeconds: 3,
		},
	}
}
