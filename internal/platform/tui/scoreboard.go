package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/wordguess/internal/config"
	"github.com/vovakirdan/wordguess/internal/score"
	"github.com/vovakirdan/wordguess/internal/storage"
)

// Scoreboard layout constants
const (
	minWidthForSidebar = 80 // Minimum width to show mode list sidebar
	sidebarWidth       = 20 // Width of mode list sidebar
	recentGames        = 5  // History entries shown under the table
)

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextMode key.Binding
	PrevMode key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextMode, k.PrevMode, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextMode, k.PrevMode},
		{k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextMode: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next mode"),
		),
		PrevMode: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev mode"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// highScoreRows builds one table row per stored high score of modes,
// in difficulty order. A nil store yields no rows.
func highScoreRows(kv storage.KV, scoring config.ScoringConfig, modes []config.GameMode) ([]table.Row, error) {
	if kv == nil {
		return nil, nil
	}
	scores, err := score.LoadHighScores(kv)
	if err != nil {
		return nil, err
	}

	var rows []table.Row
	for _, mode := range modes {
		for _, diff := range scoring.DifficultyNames() {
			hs, ok := scores[score.HighScoreKey(mode, diff)]
			if !ok {
				continue
			}
			rows = append(rows, table.Row{
				string(mode),
				string(diff),
				fmt.Sprintf("%d", hs.Score),
				fmt.Sprintf("%d%%", hs.Accuracy),
				fmt.Sprintf("%d", hs.MaxStreak),
				hs.Date.Format("Jan 02 15:04"),
			})
		}
	}
	return rows, nil
}

// newHighScoreTable creates a high score table sized for width.
func newHighScoreTable(rows []table.Row, width int) table.Model {
	columns := []table.Column{
		{Title: "Mode", Width: 11},
		{Title: "Level", Width: 7},
		{Title: "Score", Width: 7},
		{Title: "Acc", Width: 5},
		{Title: "Streak", Width: 6},
		{Title: "Date", Width: 12},
	}
	if width > 80 {
		columns[5].Width = 14
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(max(len(rows), 1)+3),
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

// ScoreboardModel is the Bubble Tea model for the high score screen.
type ScoreboardModel struct {
	modes       []config.GameMode
	modeCursor  int
	scoring     config.ScoringConfig
	store       storage.KV
	rows        []table.Row
	recent      []score.Summary
	loadErr     error
	table       table.Model
	help        help.Model
	keys        ScoreboardKeyMap
	width       int
	height      int
	quitting    bool
	showSidebar bool
}

// NewScoreboardModel creates a new scoreboard model.
func NewScoreboardModel(store storage.KV, scoring config.ScoringConfig, width, height int) ScoreboardModel {
	h := help.New()
	h.ShowAll = false

	m := ScoreboardModel{
		modes:       scoring.ModeNames(),
		scoring:     scoring,
		store:       store,
		keys:        DefaultScoreboardKeyMap(),
		help:        h,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}
	m.loadScores()
	return m
}

// loadScores loads the high scores and recent games of the selected mode.
func (m *ScoreboardModel) loadScores() {
	m.rows, m.recent, m.loadErr = nil, nil, nil
	if len(m.modes) > 0 {
		mode := m.modes[m.modeCursor]
		m.rows, m.loadErr = highScoreRows(m.store, m.scoring, []config.GameMode{mode})
		if m.loadErr == nil && m.store != nil {
			var history []score.Summary
			history, m.loadErr = score.LoadHistory(m.store)
			for i := len(history) - 1; i >= 0 && len(m.recent) < recentGames; i-- {
				if history[i].GameMode == mode {
					m.recent = append(m.recent, history[i])
				}
			}
		}
	}
	m.table = newHighScoreTable(m.rows, m.width)
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextMode):
			if len(m.modes) > 0 {
				m.modeCursor = (m.modeCursor + 1) % len(m.modes)
				m.loadScores()
			}
			return m, nil

		case key.Matches(msg, m.keys.PrevMode):
			if len(m.modes) > 0 {
				m.modeCursor--
				if m.modeCursor < 0 {
					m.modeCursor = len(m.modes) - 1
				}
				m.loadScores()
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = newHighScoreTable(m.rows, m.width)
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	title := "HIGH SCORES"
	if len(m.modes) > 0 {
		modeCfg, _ := m.scoring.Mode(m.modes[m.modeCursor])
		title = fmt.Sprintf("HIGH SCORES - %s", modeCfg.Name)
	}
	b.WriteString(titleStyle.MarginBottom(1).Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	if m.showSidebar {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), "  ", m.renderTable()))
	} else {
		b.WriteString(m.renderTabs())
		b.WriteString("\n\n")
		b.WriteString(m.renderTable())
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m ScoreboardModel) renderSidebar() string {
	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	var sidebar strings.Builder
	sidebar.WriteString("Modes\n")
	sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
	sidebar.WriteString("\n")

	for i, mode := range m.modes {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.modeCursor {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}
		sidebar.WriteString(style.Render(cursor + string(mode)))
		sidebar.WriteString("\n")
	}
	return sidebarStyle.Render(sidebar.String())
}

func (m ScoreboardModel) renderTabs() string {
	activeTabStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	tabs := make([]string, len(m.modes))
	for i, mode := range m.modes {
		if i == m.modeCursor {
			tabs[i] = activeTabStyle.Render(string(mode))
		} else {
			tabs[i] = dimStyle.Render(" " + string(mode) + " ")
		}
	}
	return centerText(strings.Join(tabs, " "), m.width)
}

// renderTable renders the table, an error, or the empty message.
func (m ScoreboardModel) renderTable() string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	switch {
	case m.loadErr != nil:
		return boxStyle.Render(badStyle.Render("Could not load scores: " + m.loadErr.Error()))
	case len(m.rows) == 0:
		emptyStyle := dimStyle.Italic(true).Padding(2, 4)
		return boxStyle.Render(emptyStyle.Render("No scores recorded yet.\nPlay a game to set a high score!"))
	}

	var b strings.Builder
	b.WriteString(m.table.View())
	if len(m.recent) > 0 {
		b.WriteString("\n\nRecent games\n")
		for _, s := range m.recent {
			fmt.Fprintf(&b, "%s  %-7s %5d  %3d%%\n",
				s.Date.Format("Jan 02 15:04"), s.Difficulty, s.FinalScore, s.Accuracy)
		}
	}
	return boxStyle.Render(strings.TrimRight(b.String(), "\n"))
}

// IsQuitting returns true if user wants to quit.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the scoreboard screen.
func RunScoreboard(store storage.KV, scoring config.ScoringConfig, width, height int) error {
	model := NewScoreboardModel(store, scoring, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
