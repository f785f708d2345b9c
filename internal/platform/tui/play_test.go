package tui

import (
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/wordguess/internal/config"
	"github.com/vovakirdan/wordguess/internal/questions"
	"github.com/vovakirdan/wordguess/internal/reward"
	"github.com/vovakirdan/wordguess/internal/score"
	"github.com/vovakirdan/wordguess/internal/storage"
)

type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time          { return f.t }
func (f *fakeClock) Advance(d time.Duration) { f.t = f.t.Add(d) }

func testBank() questions.Bank {
	opts := []string{"ALPHA", "BRAVO", "CHARLIE", "DELTA"}
	meta := &reward.Metadata{
		Left:  reward.Side{Industry: "Hollywood", Film: "Skyfall Road", BoxOffice: 900_000_000},
		Right: reward.Side{Industry: "Bollywood", Film: "Monsoon Line", BoxOffice: 300_000_000},
	}
	return questions.Bank{Questions: []questions.Question{
		{ID: "w1", Clue: "first", Options: opts, Answer: 0, Category: "words"},
		{ID: "w2", Clue: "second", Options: opts, Answer: 1, Category: "words"},
		{ID: "w3", Clue: "third", Options: opts, Answer: 2, Category: "science"},
		{ID: "h1", Clue: "film one", Options: opts, Answer: 3, Modes: []string{"hollybolly"}, Comparison: meta},
		{ID: "h2", Clue: "film two", Options: opts, Answer: 0, Modes: []string{"hollybolly"}, Comparison: meta},
		{ID: "h3", Clue: "film three", Options: opts, Answer: 1, Modes: []string{"hollybolly"}, Comparison: meta},
		{ID: "h4", Clue: "film four", Options: opts, Answer: 2, Modes: []string{"hollybolly"}, Comparison: meta},
	}}
}

func newTestPlay(t *testing.T, mode config.GameMode, rounds int) (PlayModel, *fakeClock, *storage.MemoryStore) {
	t.Helper()
	clock := newFakeClock()
	kv := storage.NewMemoryStore()
	m, err := NewPlayModel(PlayOptions{
		Mode:       mode,
		Difficulty: config.DifficultyMedium,
		Scoring:    config.DefaultScoringConfig(),
		Bank:       testBank(),
		Rounds:     rounds,
		Seed:       7,
		Store:      kv,
		Now:        clock.Now,
	})
	if err != nil {
		t.Fatalf("NewPlayModel: %v", err)
	}
	return m, clock, kv
}

func press(t *testing.T, m PlayModel, k string) PlayModel {
	t.Helper()
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
	pm, ok := next.(PlayModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return pm
}

func tick(t *testing.T, m PlayModel, clock *fakeClock) PlayModel {
	t.Helper()
	next, _ := m.Update(TickMsg(clock.Now()))
	return next.(PlayModel)
}

func correctKey(q questions.Question) string {
	return strconv.Itoa(q.Answer + 1)
}

func wrongKey(q questions.Question) string {
	return strconv.Itoa((q.Answer+1)%len(q.Options) + 1)
}

func TestPlayCorrectAnswerScores(t *testing.T) {
	m, _, _ := newTestPlay(t, config.ModeClassic, 3)

	m = press(t, m, correctKey(m.Question()))

	s := m.Session()
	// 10 base + round(5 * 15) instant time bonus
	if s.CurrentScore != 85 {
		t.Errorf("score = %d, want 85", s.CurrentScore)
	}
	if s.CorrectAnswers != 1 || s.CurrentStreak != 1 {
		t.Errorf("correct=%d streak=%d, want 1/1", s.CorrectAnswers, s.CurrentStreak)
	}
	if !strings.Contains(m.View(), "Correct!") {
		t.Error("view should report the correct answer")
	}
}

func TestPlayWrongAnswerBreaksStreak(t *testing.T) {
	m, _, _ := newTestPlay(t, config.ModeClassic, 3)

	m = press(t, m, correctKey(m.Question()))
	m = press(t, m, wrongKey(m.Question()))

	s := m.Session()
	if s.CurrentStreak != 0 || s.MaxStreak != 1 {
		t.Errorf("streak=%d max=%d, want 0/1", s.CurrentStreak, s.MaxStreak)
	}
	if s.CurrentScore != 85 {
		t.Errorf("score = %d, want 85", s.CurrentScore)
	}
	if !strings.Contains(m.View(), "Streak of 1 broken") {
		t.Error("view should show the broken streak banner")
	}
}

func TestPlayIgnoresOutOfRangeOption(t *testing.T) {
	bank := questions.Bank{Questions: []questions.Question{
		{ID: "yn", Clue: "yes or no", Options: []string{"YES", "NO"}, Answer: 0},
	}}
	m, err := NewPlayModel(PlayOptions{Mode: config.ModeClassic, Bank: bank, Now: newFakeClock().Now})
	if err != nil {
		t.Fatal(err)
	}

	m = press(t, m, "4")
	if got := m.Session().TotalAnswered; got != 0 {
		t.Errorf("answered = %d, want 0", got)
	}
}

func TestPlaySkip(t *testing.T) {
	m, _, _ := newTestPlay(t, config.ModeClassic, 3)
	first := m.Question().ID

	m = press(t, m, "s")

	s := m.Session()
	if s.TotalAnswered != 1 || s.CorrectAnswers != 0 {
		t.Errorf("answered=%d correct=%d, want 1/0", s.TotalAnswered, s.CorrectAnswers)
	}
	if m.Question().ID == first {
		t.Error("skip should deal the next question")
	}
}

func TestPlayCountdownTimesOut(t *testing.T) {
	m, clock, _ := newTestPlay(t, config.ModeClassic, 3)

	clock.Advance(30 * time.Second)
	m = tick(t, m, clock)
	if got := m.Session().TotalAnswered; got != 0 {
		t.Fatalf("answered before limit = %d", got)
	}

	clock.Advance(30 * time.Second)
	m = tick(t, m, clock)
	s := m.Session()
	if s.TotalAnswered != 1 || s.CorrectAnswers != 0 {
		t.Errorf("answered=%d correct=%d, want 1/0", s.TotalAnswered, s.CorrectAnswers)
	}
	if s.CurrentScore != 0 {
		t.Errorf("score = %d, want 0 after timeout", s.CurrentScore)
	}
	if !strings.Contains(m.View(), "Time's up!") {
		t.Error("view should report the timeout")
	}
}

func TestPlayPerfectGameSavesHighScore(t *testing.T) {
	m, _, kv := newTestPlay(t, config.ModeClassic, 3)

	for range 3 {
		m = press(t, m, correctKey(m.Question()))
	}

	if !m.GameOver() {
		t.Fatal("game should be over after the last question")
	}
	// 85 + 85 + (85 + 10 streak) + 100 perfect game
	sum := m.Summary()
	if sum.FinalScore != 365 {
		t.Errorf("final score = %d, want 365", sum.FinalScore)
	}
	if sum.Bonuses.Special != perfectGameBonus {
		t.Errorf("special bonus = %d, want %d", sum.Bonuses.Special, perfectGameBonus)
	}
	if !m.NewHighScore() {
		t.Error("first game should set a high score")
	}

	scores, err := score.LoadHighScores(kv)
	if err != nil {
		t.Fatal(err)
	}
	if hs := scores["classic_medium"]; hs.Score != 365 {
		t.Errorf("stored high score = %d, want 365", hs.Score)
	}
	view := m.View()
	for _, want := range []string{"GAME OVER", "New high score!", "HIGH SCORES", "365"} {
		if !strings.Contains(view, want) {
			t.Errorf("game over view missing %q", want)
		}
	}
}

func TestPlayQuitSavesPartialGame(t *testing.T) {
	m, _, kv := newTestPlay(t, config.ModeClassic, 3)

	m = press(t, m, correctKey(m.Question()))
	m = press(t, m, "q")

	if !m.IsQuitting() {
		t.Fatal("q should quit")
	}
	history, err := score.LoadHistory(kv)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 1 {
		t.Fatalf("history = %d entries, want 1", len(history))
	}
	if history[0].Bonuses.Special != 0 {
		t.Error("an unfinished game must not get the perfect game bonus")
	}
	if m.View() != "" {
		t.Error("view should be empty after quitting")
	}
}

func TestPlayQuitWithoutAnswersSavesNothing(t *testing.T) {
	m, _, kv := newTestPlay(t, config.ModeClassic, 3)

	_ = press(t, m, "q")

	if kv.Len() != 0 {
		t.Errorf("store has %d keys, want 0", kv.Len())
	}
}

func TestPlayAgainStartsFreshGame(t *testing.T) {
	m, _, _ := newTestPlay(t, config.ModeClassic, 2)
	m = press(t, m, "s")
	m = press(t, m, "s")
	if !m.GameOver() {
		t.Fatal("game should be over")
	}

	m = press(t, m, "r")
	if m.GameOver() {
		t.Fatal("r should start a new game")
	}
	if got := m.Session().TotalAnswered; got != 0 {
		t.Errorf("answered = %d, want 0 after restart", got)
	}
}

func TestPlayRewardsAndPin(t *testing.T) {
	m, clock, _ := newTestPlay(t, config.ModeHollyBolly, 4)
	if m.Rewards() == nil {
		t.Fatal("hollybolly should run the reward engine")
	}

	for range 3 {
		m = press(t, m, correctKey(m.Question()))
	}
	if got := len(m.Toasts()); got != 3 {
		t.Fatalf("toasts = %d, want 3", got)
	}

	m = press(t, m, "p")
	hero, ok := m.Rewards().ActiveRecord(reward.Hero)
	if !ok || !hero.Pinned {
		t.Fatal("p should pin the newest reward")
	}

	clock.Advance(reward.DefaultDismissAfter + time.Second)
	m = tick(t, m, clock)
	toasts := m.Toasts()
	if len(toasts) != 1 || toasts[0] != hero {
		t.Fatalf("after dismiss toasts = %v, want only the pinned hero record", toasts)
	}

	m = press(t, m, wrongKey(m.Question()))
	if got := m.Rewards().ActiveTiers(); len(got) != 1 || got[0] != reward.Hero {
		t.Errorf("active tiers after break = %v, want [hero]", got)
	}
	if len(m.Toasts()) != 1 {
		t.Error("pinned toast should survive the streak break")
	}
}

func TestPlayClassicHasNoRewards(t *testing.T) {
	m, _, _ := newTestPlay(t, config.ModeClassic, 3)
	if m.Rewards() != nil {
		t.Error("classic mode should not run the reward engine")
	}
	m = press(t, m, "p")
	if len(m.Toasts()) != 0 {
		t.Error("classic mode should show no toasts")
	}
}

func TestNewPlayModelWithoutQuestions(t *testing.T) {
	bank := questions.Bank{Questions: testBank().Questions[:3]}
	_, err := NewPlayModel(PlayOptions{Mode: config.ModeHollyBolly, Bank: bank})
	if !errors.Is(err, questions.ErrNoQuestions) {
		t.Errorf("err = %v, want ErrNoQuestions", err)
	}
}
