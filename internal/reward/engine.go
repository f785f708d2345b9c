// Package reward implements the streak reward engine: it watches
// per-answer correctness for a streak-rewarding mode and unlocks one
// record per tier per uninterrupted streak.
package reward

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/wordguess/internal/events"
)

// DefaultDismissAfter is how long an unpinned record stays on screen.
const DefaultDismissAfter = 5 * time.Second

// Presenter shows reward records to the player. Timing of auto-dismissal
// belongs to the presenter; the engine has no timers.
type Presenter interface {
	// Show presents rec. A zero dismissAfter means keep it until hidden.
	Show(rec *Record, dismissAfter time.Duration)
	// Hide removes rec from the screen.
	Hide(rec *Record)
	// Refresh re-renders rec after its pinned flag changed.
	Refresh(rec *Record)
}

type nopPresenter struct{}

func (nopPresenter) Show(*Record, time.Duration) {}
func (nopPresenter) Hide(*Record)                {}
func (nopPresenter) Refresh(*Record)             {}

// Engine tracks the reward streak for one game.
// It mirrors the answer stream on its own and shares no state with the
// score calculator. Not safe for concurrent use.
type Engine struct {
	now          func() time.Time
	logger       *log.Logger
	bus          *events.Bus
	presenter    Presenter
	dismissAfter time.Duration

	streak       int
	totalCorrect int
	active       map[Tier]*Record
	history      []*Record
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces the wall clock used for unlock timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithBus sets the bus unlock events are published on.
func WithBus(b *events.Bus) Option {
	return func(e *Engine) { e.bus = b }
}

// WithPresenter sets the UI collaborator that displays records.
func WithPresenter(p Presenter) Option {
	return func(e *Engine) {
		if p != nil {
			e.presenter = p
		}
	}
}

// WithDismissAfter overrides DefaultDismissAfter.
func WithDismissAfter(d time.Duration) Option {
	return func(e *Engine) { e.dismissAfter = d }
}

// NewEngine creates an engine with an empty streak.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		now:          time.Now,
		logger:       log.New(io.Discard),
		presenter:    nopPresenter{},
		dismissAfter: DefaultDismissAfter,
		active:       make(map[Tier]*Record),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ProcessAnswer advances or breaks the streak and unlocks any tier whose
// threshold is reached for the first time in this streak. meta may be nil.
// Returns the active tiers in threshold order.
func (e *Engine) ProcessAnswer(isCorrect bool, meta *Metadata) []Tier {
	if !isCorrect {
		e.streak = 0
		for _, t := range tiers {
			rec, ok := e.active[t]
			if !ok || rec.Pinned {
				continue
			}
			e.presenter.Hide(rec)
			delete(e.active, t)
		}
		return e.ActiveTiers()
	}

	e.streak++
	e.totalCorrect++
	for _, t := range tiers {
		if e.streak < t.Threshold() {
			continue
		}
		if _, ok := e.active[t]; ok {
			continue
		}
		e.unlock(t, meta)
	}
	return e.ActiveTiers()
}

func (e *Engine) unlock(t Tier, meta *Metadata) {
	rec := e.buildRecord(t, meta)
	e.active[t] = rec
	e.history = append(e.history, rec)

	e.logger.Debug("reward unlocked", "tier", t, "streak", e.streak)
	e.bus.Publish(UnlockedEvent{Record: *rec, Streak: e.streak})
	e.presenter.Show(rec, e.dismissAfter)
}

// buildRecord derives the display record. Malformed metadata degrades
// to placeholder text; it never prevents the unlock.
func (e *Engine) buildRecord(t Tier, meta *Metadata) (rec *Record) {
	rec = &Record{Type: t, Unlocked: e.now()}
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("could not build reward data", "tier", t, "panic", r)
			rec.Data = Data{
				Left:       Entry{Label: unknownName, Value: missingValue},
				Right:      Entry{Label: unknownName, Value: missingValue},
				Comparison: noComparison,
			}
		}
	}()

	var m Metadata
	if meta != nil {
		m = *meta
	}

	switch t {
	case BoxOffice:
		rec.Title, rec.Icon = "Box Office Showdown", "🎬"
		rec.Data = boxOfficeData(m)
	case Director:
		rec.Title, rec.Icon = "Director Face-off", "🎥"
		rec.Data = partyData(m.Left.Director, m.Left.Film, m.Right.Director, m.Right.Film)
	case Hero:
		rec.Title, rec.Icon = "Hero Face-off", "🦸"
		rec.Data = partyData(m.Left.Hero, m.Left.Film, m.Right.Hero, m.Right.Film)
	}
	return rec
}

func boxOfficeData(m Metadata) Data {
	left := nameOrPlaceholder(m.Left.Film)
	right := nameOrPlaceholder(m.Right.Film)
	return Data{
		Left:       Entry{Label: left, Caption: m.Left.Industry, Value: moneyOrPlaceholder(m.Left.BoxOffice)},
		Right:      Entry{Label: right, Caption: m.Right.Industry, Value: moneyOrPlaceholder(m.Right.BoxOffice)},
		Comparison: compare(boxOfficePhrasing, left, m.Left.BoxOffice, right, m.Right.BoxOffice),
	}
}

func partyData(l Party, lFilm string, r Party, rFilm string) Data {
	left := nameOrPlaceholder(l.Name)
	right := nameOrPlaceholder(r.Name)
	return Data{
		Left:       Entry{Label: left, Caption: lFilm, Value: moneyOrPlaceholder(l.NetWorth)},
		Right:      Entry{Label: right, Caption: rFilm, Value: moneyOrPlaceholder(r.NetWorth)},
		Comparison: compare(netWorthPhrasing, left, l.NetWorth, right, r.NetWorth),
	}
}

// TogglePin flips the pinned flag of rec and returns the new value.
// Pinned records survive streak breaks and are not auto-dismissed.
func (e *Engine) TogglePin(rec *Record) bool {
	if rec == nil {
		return false
	}
	rec.Pinned = !rec.Pinned
	e.presenter.Refresh(rec)
	return rec.Pinned
}

// Reset clears the streak and every active record, pinned or not.
// History is kept.
func (e *Engine) Reset() {
	e.streak = 0
	e.clearActive()
}

// Destroy releases all presented records and drops the history.
func (e *Engine) Destroy() {
	e.clearActive()
	e.streak = 0
	e.totalCorrect = 0
	e.history = nil
}

func (e *Engine) clearActive() {
	for _, t := range tiers {
		if rec, ok := e.active[t]; ok {
			e.presenter.Hide(rec)
		}
	}
	e.active = make(map[Tier]*Record)
}

// Streak returns the current reward streak.
func (e *Engine) Streak() int { return e.streak }

// TotalCorrect returns the number of correct answers seen.
func (e *Engine) TotalCorrect() int { return e.totalCorrect }

// ActiveTiers returns the unlocked tiers of the current streak in threshold order.
func (e *Engine) ActiveTiers() []Tier {
	out := make([]Tier, 0, len(e.active))
	for _, t := range tiers {
		if _, ok := e.active[t]; ok {
			out = append(out, t)
		}
	}
	return out
}

// Active returns the active records in threshold order.
func (e *Engine) Active() []*Record {
	out := make([]*Record, 0, len(e.active))
	for _, t := range tiers {
		if rec, ok := e.active[t]; ok {
			out = append(out, rec)
		}
	}
	return out
}

// ActiveRecord returns the active record for a tier.
func (e *Engine) ActiveRecord(t Tier) (*Record, bool) {
	rec, ok := e.active[t]
	return rec, ok
}

// History returns copies of all unlocked records, oldest first.
func (e *Engine) History() []Record {
	out := make([]Record, len(e.history))
	for i, rec := range e.history {
		out[i] = *rec
	}
	return out
}
