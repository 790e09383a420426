// Package scene implements the arena's two scenes: a menu waiting for a
// click and the gameplay scene where the player steers a sprite around a
// bounded world while their statistics are recorded.
package scene

import (
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/sprite-arena/internal/config"
	"github.com/vovakirdan/sprite-arena/internal/core"
	"github.com/vovakirdan/sprite-arena/internal/physics"
	"github.com/vovakirdan/sprite-arena/internal/stats"
)

// State is the active scene.
type State int

const (
	StateMenu State = iota
	StateGameplay
)

func (s State) String() string {
	switch s {
	case StateMenu:
		return "menu"
	case StateGameplay:
		return "gameplay"
	default:
		return "unknown"
	}
}

// Controller drives the scenes for one player.
type Controller struct {
	cfg     config.ArenaConfig
	tracker *stats.Tracker
	player  stats.PlayerID
	logger  *log.Logger
	now     func() time.Time

	state   State
	world   physics.World
	body    *physics.Body
	overlay core.TextOverlay

	started   time.Time     // Wall clock at gameplay start
	elapsed   time.Duration // Gameplay time so far
	sinceSave time.Duration
}

// NewController creates a controller in the menu scene.
// tracker may be nil, in which case nothing is recorded.
func NewController(cfg config.ArenaConfig, tracker *stats.Tracker, player stats.PlayerID, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Controller{
		cfg:     cfg,
		tracker: tracker,
		player:  player,
		logger:  logger,
		now:     time.Now,
		state:   StateMenu,
		world:   physics.NewWorld(cfg.World.Width, cfg.World.Height),
	}
}

// State returns the active scene.
func (c *Controller) State() State {
	return c.state
}

// Player returns the player the controller records for.
func (c *Controller) Player() stats.PlayerID {
	return c.player
}

// Click starts gameplay from the menu. It returns true if the scene changed.
// Clicks during gameplay are ignored.
func (c *Controller) Click() bool {
	if c.state != StateMenu {
		return false
	}

	size := c.cfg.Player.Size
	c.body = physics.NewBody(core.Vec2{X: c.cfg.Player.SpawnX, Y: c.cfg.Player.SpawnY}, size, size)
	c.body.CollideWorldBounds = true
	c.started = c.now()
	c.elapsed = 0
	c.sinceSave = 0
	c.state = StateGameplay

	if c.tracker != nil {
		c.tracker.Track(c.player)
		c.tracker.RenderSummary(c.player, &c.overlay)
	}
	c.logger.Info("scene changed", "player", c.player, "scene", c.state)
	return true
}

// Tick advances gameplay by dt using the held directions in in.
// The menu has no per-frame behaviour.
func (c *Controller) Tick(dt time.Duration, in core.InputFrame) {
	if c.state != StateGameplay {
		return
	}

	speed := c.cfg.Player.Speed
	c.body.SetVelocity(0, 0)
	if in.Has(core.ActionLeft) {
		c.body.SetVelocityX(-speed)
	}
	if in.Has(core.ActionRight) {
		c.body.SetVelocityX(speed)
	}
	if in.Has(core.ActionUp) {
		c.body.SetVelocityY(-speed)
	}
	if in.Has(core.ActionDown) {
		c.body.SetVelocityY(speed)
	}
	c.world.Step(c.body, dt.Seconds())
	c.elapsed += dt

	if c.tracker == nil {
		return
	}
	ts := c.started.Add(c.elapsed).UnixMilli()
	c.tracker.RecordMovement(c.player, c.body.Pos.X, c.body.Pos.Y, ts)
	c.tracker.AddPlayTime(c.player, dt)
	c.tracker.EvaluateAchievements(c.player)
	c.tracker.RenderSummary(c.player, &c.overlay)

	c.autosave(dt)
}

func (c *Controller) autosave(dt time.Duration) {
	interval := c.cfg.Stats.AutosaveInterval()
	if interval == 0 {
		return
	}
	c.sinceSave += dt
	if c.sinceSave < interval {
		return
	}
	c.sinceSave = 0
	if err := c.tracker.Persist(); err != nil && !errors.Is(err, stats.ErrSavingDisabled) {
		c.logger.Warn("autosave failed", "player", c.player, "error", err)
	}
}

// Body returns a copy of the player's body. ok is false in the menu.
func (c *Controller) Body() (physics.Body, bool) {
	if c.body == nil {
		return physics.Body{}, false
	}
	return *c.body, true
}

// Elapsed returns the gameplay time so far.
func (c *Controller) Elapsed() time.Duration {
	return c.elapsed
}

// OverlayLines returns the stats overlay contents.
func (c *Controller) OverlayLines() []string {
	return c.overlay.Lines()
}
