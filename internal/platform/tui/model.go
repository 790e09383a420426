package tui

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/sprite-arena/internal/app"
	"github.com/vovakirdan/sprite-arena/internal/core"
	"github.com/vovakirdan/sprite-arena/internal/scene"
	"github.com/vovakirdan/sprite-arena/internal/stats"
)

// unlockMsg carries an achievement unlock from the app bus.
type unlockMsg stats.Unlock

// busClosedMsg is sent once the unlock subscription has been closed.
type busClosedMsg struct{}

// waitForUnlock blocks until the next unlock arrives on ch.
func waitForUnlock(ch <-chan stats.Unlock) tea.Cmd {
	return func() tea.Msg {
		u, ok := <-ch
		if !ok {
			return busClosedMsg{}
		}
		return unlockMsg(u)
	}
}

// playSession is the part of a Model shared between its copies and the
// goroutine that cleans up after a dropped SSH connection.
type playSession struct {
	mu      sync.Mutex
	app     *app.App
	player  stats.PlayerID
	events  chan stats.Unlock
	session *app.Session
	done    bool
}

func (p *playSession) start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.session == nil && !p.done {
		p.session = p.app.StartSession(p.player)
	}
}

// finish records the session and drops the bus subscription. Only the first
// call has any effect.
func (p *playSession) finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done {
		return
	}
	p.done = true
	p.app.Bus.Unsubscribe(p.events)
	if p.session == nil {
		return
	}
	if _, err := p.session.End(); err != nil {
		p.app.Logger.Error("could not save session", "player", p.player, "error", err)
	}
}

// Model is the Bubble Tea model for one player's arena session.
// The last screen row is reserved for the help line.
type Model struct {
	ctrl     *scene.Controller
	play     *playSession
	screen   *core.Screen
	config   core.RuntimeConfig
	keys     KeyMap
	help     help.Model
	held     *HeldKeys
	toastFor time.Duration

	toast      string
	toastUntil time.Time
	lastTick   time.Time
	quitting   bool
	now        func() time.Time
}

// NewModel creates a model for cfg.PlayerID backed by the shared app context.
func NewModel(a *app.App, cfg core.RuntimeConfig) Model {
	player := stats.PlayerID(cfg.PlayerID)
	if player == "" {
		player = stats.PlayerID(core.DefaultConfig().PlayerID)
	}

	return Model{
		ctrl: scene.NewController(a.Config, a.Tracker, player, a.Logger),
		play: &playSession{
			app:    a,
			player: player,
			events: a.Bus.Subscribe(),
		},
		screen:   core.NewScreen(cfg.ScreenW, max(cfg.ScreenH-1, 1)),
		config:   cfg,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		held:     NewHeldKeys(a.Config.Input.HoldWindow()),
		toastFor: a.Config.UI.ToastDuration(),
		now:      time.Now,
	}
}

// Init starts the tick loop and the unlock listener.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(m.config.TickRate),
		waitForUnlock(m.play.events),
	)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			m.click()
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, max(msg.Height-1, 1))
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick(time.Time(msg))

	case unlockMsg:
		if msg.PlayerID == m.ctrl.Player() {
			m.toast = fmt.Sprintf("Achievement unlocked: %s", msg.AchievementID)
			m.toastUntil = m.now().Add(m.toastFor)
		}
		return m, waitForUnlock(m.play.events)

	case busClosedMsg:
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a := m.keys.MapKey(msg); a {
	case core.ActionQuit:
		m.quitting = true
		m.play.finish()
		return m, tea.Quit
	case core.ActionHelp:
		m.help.ShowAll = !m.help.ShowAll
	case core.ActionClick:
		m.click()
	case core.ActionUp, core.ActionDown, core.ActionLeft, core.ActionRight:
		m.held.Press(a, m.now())
	}
	return m, nil
}

func (m *Model) click() {
	if m.ctrl.Click() {
		m.play.start()
		m.held.Reset()
	}
}

// handleTick advances the scene by the time since the previous tick.
func (m Model) handleTick(t time.Time) (tea.Model, tea.Cmd) {
	dt := tickInterval(m.config.TickRate)
	if !m.lastTick.IsZero() {
		// Cap catch-up after a stall at a few frames.
		dt = min(max(t.Sub(m.lastTick), 0), 4*dt)
	}
	m.lastTick = t

	m.ctrl.Tick(dt, m.held.Frame(m.now()))

	if m.toast != "" && !m.now().Before(m.toastUntil) {
		m.toast = ""
	}
	return m, tickCmd(m.config.TickRate)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.ctrl.Render(m.screen)
	if m.toast != "" {
		m.screen.DrawTextCentered(m.screen.Width()/2, m.screen.Height()-2, " "+m.toast+" ", core.ColorGreen)
	}

	return RenderScreen(m.screen) + "\n" + helpStyle.Render(m.help.View(m.keys))
}

// State returns the active scene.
func (m Model) State() scene.State {
	return m.ctrl.State()
}

// Toast returns the achievement notice currently shown, if any.
func (m Model) Toast() string {
	return m.toast
}

// Finish records the session. It is safe to call more than once.
func (m Model) Finish() {
	m.play.finish()
}

// Run starts the Bubble Tea program for a local player.
func Run(a *app.App, cfg core.RuntimeConfig) error {
	model := NewModel(a, cfg)
	defer model.Finish()

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err := p.Run()
	return err
}
