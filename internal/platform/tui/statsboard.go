package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/sprite-arena/internal/stats"
)

// StatsBoardKeyMap defines the key bindings for the stats board.
type StatsBoardKeyMap struct {
	Up   key.Binding
	Down key.Binding
	Quit key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k StatsBoardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k StatsBoardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.Quit}}
}

// DefaultStatsBoardKeyMap returns default key bindings.
func DefaultStatsBoardKeyMap() StatsBoardKeyMap {
	return StatsBoardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q/esc", "quit"),
		),
	}
}

// StatsBoardModel shows every tracked player in a table.
type StatsBoardModel struct {
	tracker  *stats.Tracker
	players  []stats.PlayerID
	table    table.Model
	help     help.Model
	keys     StatsBoardKeyMap
	width    int
	height   int
	quitting bool
}

// NewStatsBoardModel creates a stats board over tracker.
func NewStatsBoardModel(tracker *stats.Tracker, width, height int) StatsBoardModel {
	m := StatsBoardModel{
		tracker: tracker,
		players: tracker.Players(),
		help:    help.New(),
		keys:    DefaultStatsBoardKeyMap(),
		width:   width,
		height:  height,
	}
	m.table = m.createTable()
	m.table.SetRows(m.rows())
	return m
}

// createTable creates a table sized to the current window.
func (m *StatsBoardModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Player", Width: 16},
		{Title: "Score", Width: 8},
		{Title: "K/D", Width: 9},
		{Title: "KDR", Width: 6},
		{Title: "Win %", Width: 8},
		{Title: "Best", Width: 5},
		{Title: "Achievements", Width: 14},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-6, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// rows builds one table row per player.
func (m StatsBoardModel) rows() []table.Row {
	rows := make([]table.Row, 0, len(m.players))
	for _, id := range m.players {
		s, ok := m.tracker.Stats(id)
		if !ok {
			continue
		}
		r, _ := m.tracker.BuildReport(id)
		rows = append(rows, table.Row{
			string(id),
			fmt.Sprintf("%d", s.Score),
			fmt.Sprintf("%d/%d", s.Kills, s.Deaths),
			fmt.Sprintf("%.2f", r.Overview.KDR),
			r.Overview.WinRate,
			fmt.Sprintf("%d", r.Performance.BestStreak),
			fmt.Sprintf("%d", len(r.Achievements)),
		})
	}
	return rows
}

// Init initializes the stats board.
func (m StatsBoardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the stats board.
func (m StatsBoardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.table.SetRows(m.rows())
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the stats board.
func (m StatsBoardModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229"))
	b.WriteString(titleStyle.Render(centerText("PLAYER STATS", m.width)))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	if len(m.players) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		b.WriteString(tableStyle.Render(emptyStyle.Render("No stats recorded yet.\nRun 'arena play' to start!")))
	} else {
		b.WriteString(tableStyle.Render(m.table.View()))
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// RunStatsBoard runs the stats board until the user quits.
func RunStatsBoard(tracker *stats.Tracker, width, height int) error {
	p := tea.NewProgram(
		NewStatsBoardModel(tracker, width, height),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
