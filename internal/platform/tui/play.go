package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/wordguess/internal/config"
	"github.com/vovakirdan/wordguess/internal/events"
	"github.com/vovakirdan/wordguess/internal/questions"
	"github.com/vovakirdan/wordguess/internal/reward"
	"github.com/vovakirdan/wordguess/internal/score"
	"github.com/vovakirdan/wordguess/internal/storage"
)

// perfectGameBonus is awarded when every question of a game is answered correctly.
const perfectGameBonus = 100

// PlayOptions configures a play session.
type PlayOptions struct {
	Mode       config.GameMode
	Difficulty config.Difficulty
	Scoring    config.ScoringConfig
	Bank       questions.Bank
	Rounds     int   // Questions per game, 0 for the whole bank
	Seed       int64 // Question order
	Store      storage.KV
	Logger     *log.Logger
	Now        func() time.Time
}

type playPhase int

const (
	phaseQuestion playPhase = iota
	phaseOver
)

// hudState collects bus notifications. It is shared by every copy of the
// model, so handlers registered once keep writing to the live screen.
type hudState struct {
	banner       string
	newHighScore bool
}

// PlayModel is the Bubble Tea model for one player's game.
type PlayModel struct {
	opts    PlayOptions
	logger  *log.Logger
	now     func() time.Time
	bus     *events.Bus
	calc    *score.Calculator
	rewards *reward.Engine // Nil unless the mode awards rewards
	toasts  *toastPresenter
	gen     *questions.Generator
	hud     *hudState

	phase      playPhase
	question   questions.Question
	questionAt time.Time
	answered   bool
	lastDelta  score.Delta
	lastAnswer string
	summary    score.Summary
	highScores table.Model

	keys     PlayKeyMap
	help     help.Model
	width    int
	height   int
	quitting bool
}

// NewPlayModel builds a play session and deals the first question.
func NewPlayModel(opts PlayOptions) (PlayModel, error) {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Scoring.Modes == nil {
		opts.Scoring = config.DefaultScoringConfig()
	}

	modeCfg, _ := opts.Scoring.Mode(opts.Mode)
	gen, err := questions.NewGenerator(opts.Bank, opts.Mode, modeCfg.Rewards, opts.Rounds, opts.Seed)
	if err != nil {
		return PlayModel{}, err
	}

	bus := events.NewBus()
	calcOpts := []score.Option{
		score.WithClock(opts.Now),
		score.WithBus(bus),
		score.WithLogger(opts.Logger),
	}
	if opts.Store != nil {
		calcOpts = append(calcOpts, score.WithStore(opts.Store))
	}

	m := PlayModel{
		opts:   opts,
		logger: opts.Logger,
		now:    opts.Now,
		bus:    bus,
		calc:   score.New(opts.Scoring, calcOpts...),
		gen:    gen,
		hud:    &hudState{},
		keys:   DefaultPlayKeyMap(),
		help:   help.New(),
	}

	if modeCfg.Rewards {
		m.toasts = newToastPresenter(opts.Now)
		m.rewards = reward.NewEngine(
			reward.WithClock(opts.Now),
			reward.WithBus(bus),
			reward.WithLogger(opts.Logger),
			reward.WithPresenter(m.toasts),
		)
	}

	m.subscribe()
	m.start()
	return m, nil
}

func (m *PlayModel) subscribe() {
	hud := m.hud
	logger := m.logger

	m.bus.SubscribeAll(func(ev events.Event) {
		logger.Debug("event", "name", ev.EventName())
	})
	m.bus.Subscribe(events.StreakUpdated, func(ev events.Event) {
		if e, ok := ev.(score.StreakUpdatedEvent); ok {
			hud.banner = ""
			if e.Streak >= 3 {
				hud.banner = fmt.Sprintf("%d in a row!", e.Streak)
			}
		}
	})
	m.bus.Subscribe(events.StreakBroken, func(ev events.Event) {
		if e, ok := ev.(score.StreakBrokenEvent); ok {
			hud.banner = fmt.Sprintf("Streak of %d broken", e.PreviousStreak)
		}
	})
	m.bus.Subscribe(events.SpecialBonus, func(ev events.Event) {
		if e, ok := ev.(score.SpecialBonusEvent); ok {
			hud.banner = fmt.Sprintf("+%d %s", e.Amount, e.Reason)
		}
	})
	m.bus.Subscribe(events.NewHighScore, func(events.Event) {
		hud.newHighScore = true
	})
	m.bus.Subscribe(events.RewardUnlocked, func(ev events.Event) {
		if e, ok := ev.(reward.UnlockedEvent); ok {
			hud.banner = fmt.Sprintf("Unlocked %s %s", e.Record.Icon, e.Record.Title)
		}
	})
}

// start begins a fresh game with the current generator.
func (m *PlayModel) start() {
	m.calc.StartGame(m.opts.Mode, m.opts.Difficulty)
	if m.rewards != nil {
		m.rewards.Reset()
	}
	m.hud.banner = ""
	m.hud.newHighScore = false
	m.phase = phaseQuestion
	m.answered = false
	m.lastDelta = score.Delta{}
	m.nextQuestion()
}

func (m *PlayModel) restart() {
	m.opts.Seed++
	modeCfg, _ := m.opts.Scoring.Mode(m.opts.Mode)
	gen, err := questions.NewGenerator(m.opts.Bank, m.opts.Mode, modeCfg.Rewards, m.opts.Rounds, m.opts.Seed)
	if err != nil {
		m.logger.Error("could not deal questions", "error", err)
		return
	}
	m.gen = gen
	m.start()
}

func (m *PlayModel) nextQuestion() {
	q, ok := m.gen.Next()
	if !ok {
		m.finish()
		return
	}
	m.question = q
	m.calc.StartQuestion()
	m.questionAt = m.now()
}

func (m *PlayModel) answer(outcome score.Outcome) {
	q := m.question
	m.lastDelta = m.calc.CalculateScore(outcome, q.Meta())
	m.lastAnswer = q.AnswerText()
	m.answered = true
	if m.rewards != nil {
		m.rewards.ProcessAnswer(outcome.IsCorrect(), q.Comparison)
	}
	m.nextQuestion()
}

// finish ends the game, saves it and loads the high scores for the mode.
func (m *PlayModel) finish() {
	s := m.calc.Snapshot()
	if s.TotalAnswered == m.gen.Total() && s.TotalAnswered > 0 && s.CorrectAnswers == s.TotalAnswered {
		m.calc.ApplySpecialBonus("perfect_game", perfectGameBonus, "perfect game")
	}
	m.summary = m.calc.SaveGameScore()
	m.phase = phaseOver

	rows, err := highScoreRows(m.opts.Store, m.opts.Scoring, []config.GameMode{m.opts.Mode})
	if err != nil {
		m.logger.Warn("could not load high scores", "error", err)
	}
	m.highScores = newHighScoreTable(rows, m.width)
}

// remaining returns the seconds left on the current question.
func (m PlayModel) remaining() float64 {
	return m.calc.TimeLimit() - m.now().Sub(m.questionAt).Seconds()
}

// Init starts the countdown.
func (m PlayModel) Init() tea.Cmd {
	return tickCmd(tickInterval)
}

// Update handles messages.
func (m PlayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case TickMsg:
		return m.handleTick()
	}
	return m, nil
}

func (m PlayModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.phase == phaseQuestion && m.calc.Snapshot().TotalAnswered > 0 {
			m.finish()
		}
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Pin):
		m.pinNewest()
		return m, nil

	case m.phase == phaseOver && key.Matches(msg, m.keys.Again):
		m.restart()
		return m, tickCmd(tickInterval)

	case m.phase == phaseQuestion && key.Matches(msg, m.keys.Skip):
		m.answer(score.Skipped)
		return m, nil

	case m.phase == phaseQuestion && key.Matches(msg, m.keys.Answer):
		idx, ok := answerIndex(msg.String())
		if !ok || idx >= len(m.question.Options) {
			return m, nil
		}
		outcome := score.Incorrect
		if m.question.IsCorrect(idx) {
			outcome = score.Correct
		}
		m.answer(outcome)
		return m, nil
	}
	return m, nil
}

func (m PlayModel) handleTick() (tea.Model, tea.Cmd) {
	if m.quitting || m.phase == phaseOver {
		return m, nil
	}
	if m.toasts != nil {
		m.toasts.Expire(m.now())
	}
	if m.calc.TimeLimit() > 0 && m.remaining() <= 0 {
		m.answer(score.Timeout)
	}
	return m, tickCmd(tickInterval)
}

// pinNewest toggles the pin on the most recently unlocked active reward.
func (m *PlayModel) pinNewest() {
	if m.rewards == nil {
		return
	}
	var newest *reward.Record
	for _, rec := range m.rewards.Active() {
		if newest == nil || !rec.Unlocked.Before(newest.Unlocked) {
			newest = rec
		}
	}
	if newest != nil {
		m.rewards.TogglePin(newest)
	}
}

// View renders the play screen.
func (m PlayModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	if m.phase == phaseOver {
		b.WriteString(m.renderGameOver())
	} else {
		b.WriteString(m.renderQuestion())
	}

	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m PlayModel) renderHeader() string {
	modeCfg, _ := m.opts.Scoring.Mode(m.opts.Mode)
	diffCfg, _ := m.opts.Scoring.Difficulty(m.opts.Difficulty)
	title := fmt.Sprintf("WORDGUESS - %s (%s)", modeCfg.Name, diffCfg.Name)
	if m.phase == phaseQuestion {
		title += fmt.Sprintf("  Q%d/%d", m.gen.Index(), m.gen.Total())
	}
	return titleStyle.Render(title)
}

func (m PlayModel) renderQuestion() string {
	var b strings.Builder
	b.WriteString(renderWidgets(m.calc.Snapshot()))
	b.WriteString("\n")
	b.WriteString(renderCountdown(m.remaining(), m.calc.TimeLimit()))
	b.WriteString("\n\n")
	b.WriteString(clueStyle.Render(m.question.Clue))
	b.WriteString("\n")
	for i, opt := range m.question.Options {
		b.WriteString(optionStyle.Render(fmt.Sprintf("  %d) %s", i+1, opt)))
		b.WriteString("\n")
	}

	if m.answered {
		b.WriteString("\n")
		b.WriteString(renderDelta(m.lastDelta, m.lastAnswer))
	}
	if m.hud.banner != "" {
		b.WriteString("\n")
		b.WriteString(warnStyle.Render(m.hud.banner))
	}

	if toasts := m.Toasts(); len(toasts) > 0 {
		rendered := make([]string, len(toasts))
		for i, rec := range toasts {
			rendered[i] = renderToast(rec)
		}
		b.WriteString("\n\n")
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
	}
	return b.String()
}

func (m PlayModel) renderGameOver() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("GAME OVER"))
	if m.hud.newHighScore {
		b.WriteString("  ")
		b.WriteString(goodStyle.Render("New high score!"))
	}
	b.WriteString("\n\n")
	b.WriteString(renderSummary(m.summary))

	if m.rewards != nil {
		if hist := m.rewards.History(); len(hist) > 0 {
			fmt.Fprintf(&b, "\n%s", dimStyle.Render(fmt.Sprintf("Rewards unlocked this session: %d", len(hist))))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(titleStyle.Render("HIGH SCORES"))
	b.WriteString("\n")
	b.WriteString(widgetStyle.Render(m.highScores.View()))
	return b.String()
}

// Session returns a copy of the live score session.
func (m PlayModel) Session() score.Session {
	return m.calc.Snapshot()
}

// Summary returns the saved summary once the game is over.
func (m PlayModel) Summary() score.Summary {
	return m.summary
}

// Question returns the question on screen.
func (m PlayModel) Question() questions.Question {
	return m.question
}

// GameOver reports whether the summary screen is showing.
func (m PlayModel) GameOver() bool {
	return m.phase == phaseOver
}

// IsQuitting returns true if the player quit.
func (m PlayModel) IsQuitting() bool {
	return m.quitting
}

// NewHighScore reports whether the finished game set a high score.
func (m PlayModel) NewHighScore() bool {
	return m.hud.newHighScore
}

// Toasts returns the reward records on screen.
func (m PlayModel) Toasts() []*reward.Record {
	if m.toasts == nil {
		return nil
	}
	return m.toasts.Visible()
}

// Rewards returns the reward engine, or nil for modes without rewards.
func (m PlayModel) Rewards() *reward.Engine {
	return m.rewards
}

// RunPlay runs the play screen until the player quits.
func RunPlay(opts PlayOptions) (score.Summary, error) {
	model, err := NewPlayModel(opts)
	if err != nil {
		return score.Summary{}, err
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return score.Summary{}, err
	}

	m, ok := finalModel.(PlayModel)
	if !ok {
		return score.Summary{}, nil
	}
	return m.Summary(), nil
}
