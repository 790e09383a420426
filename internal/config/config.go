// Package config provides YAML-based configuration loading for the arena.
package config

import (
	"errors"
	"fmt"
	"time"
)

// ArenaConfig contains all tunable settings for the arena and its statistics.
type ArenaConfig struct {
	World        WorldConfig       `yaml:"world"`
	Player       PlayerConfig      `yaml:"player"`
	Stats        StatsConfig       `yaml:"stats"`
	Achievements []AchievementRule `yaml:"achievements"`
	Input        InputConfig       `yaml:"input"`
	UI           UIConfig          `yaml:"ui"`
}

// WorldConfig defines the logical canvas the sprite lives in.
type WorldConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// PlayerConfig defines the player sprite.
type PlayerConfig struct {
	Speed  float64 `yaml:"speed"` // Units per second along each held axis
	Size   float64 `yaml:"size"`  // Display size (square)
	SpawnX float64 `yaml:"spawn_x"`
	SpawnY float64 `yaml:"spawn_y"`
}

// StatsConfig defines statistics tracking and persistence.
type StatsConfig struct {
	HistoryLimit    int     `yaml:"history_limit"`    // Movement samples kept per player
	CellSize        float64 `yaml:"cell_size"`        // Heatmap grid cell size
	SlotKey         string  `yaml:"slot_key"`         // Storage slot the stats are saved under
	AutosaveSeconds int     `yaml:"autosave_seconds"` // 0 disables periodic saves
}

// AchievementRule is an extra threshold achievement: unlocked once Metric >= Threshold.
type AchievementRule struct {
	ID          string  `yaml:"id"`
	Metric      string  `yaml:"metric"`
	Threshold   float64 `yaml:"threshold"`
	Description string  `yaml:"description"`
}

// InputConfig defines how terminal key presses become held directions.
type InputConfig struct {
	// HoldMillis is how long a direction stays held after its last key event.
	// Terminals report presses and auto-repeats but never releases.
	HoldMillis int `yaml:"hold_ms"`
}

// UIConfig defines text placement on the logical canvas.
type UIConfig struct {
	MenuPrompt   string  `yaml:"menu_prompt"`
	PromptX      float64 `yaml:"prompt_x"`
	PromptY      float64 `yaml:"prompt_y"`
	OverlayX     float64 `yaml:"overlay_x"`
	OverlayY     float64 `yaml:"overlay_y"`
	ToastSeconds int     `yaml:"toast_seconds"`
}

// AutosaveInterval returns the periodic save interval, zero when disabled.
func (s StatsConfig) AutosaveInterval() time.Duration {
	if s.AutosaveSeconds <= 0 {
		return 0
	}
	return time.Duration(s.AutosaveSeconds) * time.Second
}

// HoldWindow returns the held-key window as a duration.
func (i InputConfig) HoldWindow() time.Duration {
	return time.Duration(i.HoldMillis) * time.Millisecond
}

// ToastDuration returns how long achievement toasts stay on screen.
func (u UIConfig) ToastDuration() time.Duration {
	return time.Duration(u.ToastSeconds) * time.Second
}

// Validate checks the config for values the arena cannot run with.
func (c ArenaConfig) Validate() error {
	var errs []error
	if c.World.Width <= 0 || c.World.Height <= 0 {
		errs = append(errs, fmt.Errorf("world size must be positive, got %vx%v", c.World.Width, c.World.Height))
	}
	if c.Player.Speed < 0 {
		errs = append(errs, fmt.Errorf("player speed must not be negative, got %v", c.Player.Speed))
	}
	if c.Player.Size <= 0 {
		errs = append(errs, fmt.Errorf("player size must be positive, got %v", c.Player.Size))
	}
	if c.Stats.HistoryLimit <= 0 {
		errs = append(errs, fmt.Errorf("stats.history_limit must be positive, got %d", c.Stats.HistoryLimit))
	}
	if c.Stats.CellSize <= 0 {
		errs = append(errs, fmt.Errorf("stats.cell_size must be positive, got %v", c.Stats.CellSize))
	}
	if c.Stats.SlotKey == "" {
		errs = append(errs, errors.New("stats.slot_key must not be empty"))
	}
	for i, r := range c.Achievements {
		if r.ID == "" || r.Metric == "" {
			errs = append(errs, fmt.Errorf("achievements[%d]: id and metric are required", i))
		}
	}
	return errors.Join(errs...)
}
