// Package score implements the score calculator: it owns the live score,
// streak, answer counters and timing for one game session and turns each
// question outcome into a reproducible point delta.
package score

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/wordguess/internal/config"
	"github.com/vovakirdan/wordguess/internal/events"
	"github.com/vovakirdan/wordguess/internal/storage"
)

// quickFraction is the share of the time limit inside which a correct
// answer earns a time bonus.
const quickFraction = 0.25

// Calculator maintains the authoritative score state for one session.
// Not safe for concurrent use; callers serialize calls in game order.
type Calculator struct {
	table  config.ScoringConfig
	now    func() time.Time
	logger *log.Logger
	bus    *events.Bus
	store  storage.KV

	session Session
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithClock replaces the wall clock, for deterministic timing.
func WithClock(now func() time.Time) Option {
	return func(c *Calculator) { c.now = now }
}

// WithLogger sets the logger used for degraded-path reporting.
func WithLogger(l *log.Logger) Option {
	return func(c *Calculator) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithBus sets the bus notifications are published on.
func WithBus(b *events.Bus) Option {
	return func(c *Calculator) { c.bus = b }
}

// WithStore sets the persistence store for history and high scores.
func WithStore(kv storage.KV) Option {
	return func(c *Calculator) { c.store = kv }
}

// New creates an idle calculator over a read-only scoring table.
func New(table config.ScoringConfig, opts ...Option) *Calculator {
	c := &Calculator{
		table:  table,
		now:    time.Now,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.session = Session{Categories: make(map[string]CategoryStats)}
	return c
}

// StartGame resets the session for a new game and records its start time.
// Calling it again acts as a full reset.
func (c *Calculator) StartGame(mode config.GameMode, difficulty config.Difficulty) {
	c.session = Session{
		GameMode:      mode,
		Difficulty:    difficulty,
		GameStartTime: c.now(),
		Categories:    make(map[string]CategoryStats),
	}

	if _, ok := c.table.Mode(mode); !ok {
		c.logger.Warn("unknown game mode, using defaults", "mode", mode)
	}
	if _, ok := c.table.Difficulty(difficulty); !ok {
		c.logger.Warn("unknown difficulty, using defaults", "difficulty", difficulty)
	}

	c.bus.Publish(GameStartedEvent{
		GameMode:   mode,
		Difficulty: difficulty,
		TimeLimit:  c.TimeLimit(),
		StartedAt:  c.session.GameStartTime,
	})
}

// StartQuestion marks the start of the next question's timer.
func (c *Calculator) StartQuestion() {
	c.session.QuestionStartTime = c.now()
}

// TimeLimit returns the per-question limit in seconds for the current
// mode and difficulty.
func (c *Calculator) TimeLimit() float64 {
	mode, _ := c.table.Mode(c.session.GameMode)
	diff, _ := c.table.Difficulty(c.session.Difficulty)
	return mode.TimeLimit * diff.TimeMultiplier
}

// CalculateScore scores one question outcome and applies it to the session.
// It never fails: internal errors yield a zeroed delta with Error set and
// leave the session untouched.
func (c *Calculator) CalculateScore(outcome Outcome, meta QuestionMeta) Delta {
	delta, err := c.computeDelta(outcome)
	if err != nil {
		c.logger.Error("score calculation failed", "outcome", outcome, "error", err)
		return Delta{
			Outcome:       outcome,
			PreviousScore: c.session.CurrentScore,
			Error:         true,
		}
	}

	s := &c.session
	prevStreak := s.CurrentStreak
	if outcome.IsCorrect() {
		s.CurrentStreak++
		if s.CurrentStreak > s.MaxStreak {
			s.MaxStreak = s.CurrentStreak
		}
		s.CorrectAnswers++
	} else {
		s.CurrentStreak = 0
	}

	s.CurrentScore += delta.TotalQuestionScore
	s.TotalAnswered++
	s.QuestionStartTime = time.Time{}

	if meta.Category != "" {
		cs := s.Categories[meta.Category]
		cs.Answered++
		if outcome.IsCorrect() {
			cs.Correct++
		}
		s.Categories[meta.Category] = cs
	}

	if delta.TimeBonus != 0 || delta.StreakBonus != 0 {
		s.BonusHistory = append(s.BonusHistory, BonusRecord{
			Timestamp:     c.now(),
			Kind:          BonusQuestion,
			TimeBonus:     delta.TimeBonus,
			StreakBonus:   delta.StreakBonus,
			StreakAtTime:  s.CurrentStreak,
			QuestionIndex: s.TotalAnswered - 1,
		})
	}

	if outcome.IsCorrect() {
		c.bus.Publish(StreakUpdatedEvent{Streak: s.CurrentStreak, MaxStreak: s.MaxStreak})
	} else if prevStreak > 0 {
		c.bus.Publish(StreakBrokenEvent{PreviousStreak: prevStreak})
	}

	c.bus.Publish(UpdatedEvent{
		Delta:        delta,
		CurrentScore: s.CurrentScore,
		Accuracy:     accuracy(s.CorrectAnswers, s.TotalAnswered),
		Streak:       s.CurrentStreak,
	})

	return delta
}

// computeDelta derives the delta from the current state without mutating it.
func (c *Calculator) computeDelta(outcome Outcome) (d Delta, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic computing delta: %v", r)
		}
	}()

	mode, _ := c.table.Mode(c.session.GameMode)
	if err := mode.Validate(); err != nil {
		return Delta{}, fmt.Errorf("mode %q: %w", c.session.GameMode, err)
	}
	diff, _ := c.table.Difficulty(c.session.Difficulty)
	if err := diff.Validate(); err != nil {
		return Delta{}, fmt.Errorf("difficulty %q: %w", c.session.Difficulty, err)
	}

	var points int
	switch outcome {
	case Correct:
		points = mode.Points.Correct
	case Incorrect:
		points = mode.Points.Incorrect
	case Skipped:
		points = c.table.Penalties.Skip
	case Timeout:
		points = c.table.Penalties.Timeout
	default:
		return Delta{}, fmt.Errorf("unknown outcome %q", outcome)
	}

	d = Delta{
		BaseScore:            int(math.Round(float64(points) * diff.TimeMultiplier)),
		DifficultyMultiplier: diff.TimeMultiplier,
		PreviousScore:        c.session.CurrentScore,
		Outcome:              outcome,
	}

	if outcome.IsCorrect() {
		d.TimeBonus = c.timeBonus(mode, mode.TimeLimit*diff.TimeMultiplier)
		d.StreakBonus = streakBonus(mode, c.session.CurrentStreak)
	}

	d.TotalQuestionScore = max(0, d.BaseScore+d.TimeBonus+d.StreakBonus)
	return d, nil
}

// timeBonus rewards answers given within the quick threshold.
// Without a running question timer the bonus is zero.
func (c *Calculator) timeBonus(mode config.ModeConfig, timeLimit float64) int {
	if c.session.QuestionStartTime.IsZero() {
		return 0
	}
	elapsed := c.now().Sub(c.session.QuestionStartTime).Seconds()
	if elapsed < 0 {
		elapsed = 0
	}
	quick := timeLimit * quickFraction
	if elapsed > quick {
		return 0
	}
	return int(math.Round(mode.TimeBonus * (quick - elapsed)))
}

// streakBonus is based on the streak before the current answer and the
// mode's un-multiplied correct points.
func streakBonus(mode config.ModeConfig, streak int) int {
	if streak < 2 {
		return 0
	}
	effective := min(streak, mode.MaxStreak)
	return int(math.Round(float64(mode.Points.Correct) * (mode.StreakMultiplier - 1) * float64(effective)))
}

// ApplySpecialBonus adds a one-off bonus (e.g., a perfect round) to the score.
func (c *Calculator) ApplySpecialBonus(bonusType string, amount int, reason string) {
	s := &c.session
	s.CurrentScore = max(0, s.CurrentScore+amount)
	s.BonusHistory = append(s.BonusHistory, BonusRecord{
		Timestamp:     c.now(),
		Kind:          BonusSpecial,
		StreakAtTime:  s.CurrentStreak,
		QuestionIndex: s.TotalAnswered,
		SpecialType:   bonusType,
		Amount:        amount,
		Reason:        reason,
	})

	c.bus.Publish(SpecialBonusEvent{
		Type:         bonusType,
		Amount:       amount,
		Reason:       reason,
		CurrentScore: s.CurrentScore,
	})
}

// GameSummary reports the session without modifying it.
func (c *Calculator) GameSummary() Summary {
	s := c.session
	now := c.now()

	var duration time.Duration
	if !s.GameStartTime.IsZero() {
		duration = max(0, now.Sub(s.GameStartTime))
	}

	var bonuses BonusTotals
	for _, b := range s.BonusHistory {
		bonuses.Time += b.TimeBonus
		bonuses.Streak += b.StreakBonus
		if b.Kind == BonusSpecial {
			bonuses.Special += b.Amount
		}
	}

	perMinute := 0
	if minutes := duration.Minutes(); minutes > 0 {
		perMinute = int(math.Round(float64(s.CurrentScore) / minutes))
	}

	categories := make(map[string]CategoryStats, len(s.Categories))
	for k, v := range s.Categories {
		categories[k] = v
	}

	return Summary{
		GameMode:       s.GameMode,
		Difficulty:     s.Difficulty,
		FinalScore:     s.CurrentScore,
		TotalAnswered:  s.TotalAnswered,
		CorrectAnswers: s.CorrectAnswers,
		Accuracy:       accuracy(s.CorrectAnswers, s.TotalAnswered),
		MaxStreak:      s.MaxStreak,
		CurrentStreak:  s.CurrentStreak,
		Duration:       duration,
		ScorePerMinute: perMinute,
		Bonuses:        bonuses,
		Categories:     categories,
		Date:           now,
	}
}

// Snapshot returns a copy of the session for export or display.
func (c *Calculator) Snapshot() Session {
	s := c.session
	s.BonusHistory = append([]BonusRecord(nil), c.session.BonusHistory...)
	s.Categories = make(map[string]CategoryStats, len(c.session.Categories))
	for k, v := range c.session.Categories {
		s.Categories[k] = v
	}
	return s
}

// ResetGame zeroes the mutable session fields, keeping mode and difficulty.
func (c *Calculator) ResetGame() {
	c.session = Session{
		GameMode:   c.session.GameMode,
		Difficulty: c.session.Difficulty,
		Categories: make(map[string]CategoryStats),
	}
}

// accuracy returns the rounded percentage of correct answers, 0 when nothing was answered.
func accuracy(correct, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}
