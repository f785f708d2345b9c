package score

import (
	"errors"
	"math"
	"math/rand"
	"reflect"
	"testing"
	"time"

	"github.com/vovakirdan/wordguess/internal/config"
	"github.com/vovakirdan/wordguess/internal/events"
	"github.com/vovakirdan/wordguess/internal/storage"
)

// fakeClock is a manually advanced clock.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time          { return f.t }
func (f *fakeClock) Advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestCalculator(t *testing.T, opts ...Option) (*Calculator, *fakeClock, *events.Recorder) {
	t.Helper()
	clock := newFakeClock()
	bus := events.NewBus()
	rec := &events.Recorder{}
	rec.Attach(bus)

	all := append([]Option{WithClock(clock.Now), WithBus(bus)}, opts...)
	return New(config.DefaultScoringConfig(), all...), clock, rec
}

func TestClassicEasyInstantAnswer(t *testing.T) {
	c, _, _ := newTestCalculator(t)
	c.StartGame(config.ModeClassic, config.DifficultyEasy)

	if c.TimeLimit() != 90 {
		t.Fatalf("Expected time limit 90s, got %v", c.TimeLimit())
	}

	c.StartQuestion()
	d := c.CalculateScore(Correct, QuestionMeta{})

	if d.Error {
		t.Fatal("Unexpected error delta")
	}
	if d.DifficultyMultiplier != 1.5 {
		t.Errorf("Expected multiplier 1.5, got %v", d.DifficultyMultiplier)
	}
	if d.BaseScore != 15 {
		t.Errorf("Expected base score 15, got %d", d.BaseScore)
	}

	// quick threshold = 90 * 0.25 = 22.5s, elapsed = 0
	wantTime := int(math.Round(5 * 22.5))
	if d.TimeBonus != wantTime {
		t.Errorf("Expected time bonus %d, got %d", wantTime, d.TimeBonus)
	}
	if d.StreakBonus != 0 {
		t.Errorf("Expected no streak bonus on first answer, got %d", d.StreakBonus)
	}
	if d.TotalQuestionScore != 15+wantTime {
		t.Errorf("Expected total %d, got %d", 15+wantTime, d.TotalQuestionScore)
	}
	if c.Snapshot().CurrentScore != d.TotalQuestionScore {
		t.Errorf("Score not applied: %d", c.Snapshot().CurrentScore)
	}
}

func TestTimeBonusDecays(t *testing.T) {
	c, clock, _ := newTestCalculator(t)
	c.StartGame(config.ModeClassic, config.DifficultyMedium)

	// Limit 60s, quick threshold 15s, 10s elapsed -> 5 * 5 = 25
	c.StartQuestion()
	clock.Advance(10 * time.Second)
	d := c.CalculateScore(Correct, QuestionMeta{})
	if d.TimeBonus != 25 {
		t.Errorf("Expected time bonus 25, got %d", d.TimeBonus)
	}

	// Past the threshold
	c.StartQuestion()
	clock.Advance(16 * time.Second)
	d = c.CalculateScore(Correct, QuestionMeta{})
	if d.TimeBonus != 0 {
		t.Errorf("Expected no time bonus after threshold, got %d", d.TimeBonus)
	}
}

func TestTimeBonusWithoutStartQuestion(t *testing.T) {
	c, _, _ := newTestCalculator(t)
	c.StartGame(config.ModeClassic, config.DifficultyMedium)

	d := c.CalculateScore(Correct, QuestionMeta{})
	if d.Error {
		t.Fatal("Missing StartQuestion must not be an error")
	}
	if d.TimeBonus != 0 {
		t.Errorf("Expected zero time bonus without a question timer, got %d", d.TimeBonus)
	}

	// The timer is consumed by each scoring call
	c.StartQuestion()
	c.CalculateScore(Correct, QuestionMeta{})
	d = c.CalculateScore(Correct, QuestionMeta{})
	if d.TimeBonus != 0 {
		t.Errorf("Expected zero time bonus for reused timer, got %d", d.TimeBonus)
	}
}

func TestStreakBonus(t *testing.T) {
	c, _, rec := newTestCalculator(t)
	c.StartGame(config.ModeClassic, config.DifficultyMedium)

	// Streak before each answer: 0, 1, 2, 3
	want := []int{0, 0, 10, 15}
	for i, w := range want {
		d := c.CalculateScore(Correct, QuestionMeta{})
		if d.StreakBonus != w {
			t.Errorf("Answer %d: expected streak bonus %d, got %d", i+1, w, d.StreakBonus)
		}
	}

	s := c.Snapshot()
	if s.CurrentStreak != 4 || s.MaxStreak != 4 {
		t.Errorf("Expected streak 4/4, got %d/%d", s.CurrentStreak, s.MaxStreak)
	}
	if s.CurrentScore != 40+25 {
		t.Errorf("Expected score 65, got %d", s.CurrentScore)
	}
	if len(s.BonusHistory) != 2 {
		t.Errorf("Expected 2 bonus records, got %d", len(s.BonusHistory))
	}
	if got := len(rec.Named(events.StreakUpdated)); got != 4 {
		t.Errorf("Expected 4 streak updates, got %d", got)
	}
}

func TestStreakBonusCapped(t *testing.T) {
	c, _, _ := newTestCalculator(t)
	c.StartGame(config.ModeSpeed, config.DifficultyMedium)

	var d Delta
	for i := 0; i < 8; i++ {
		d = c.CalculateScore(Correct, QuestionMeta{})
	}

	// Streak before the 8th answer is 7, capped at 5: round(15 * 0.2 * 5) = 15
	if d.StreakBonus != 15 {
		t.Errorf("Expected capped streak bonus 15, got %d", d.StreakBonus)
	}
}

func TestPenaltiesClampAndBreakStreak(t *testing.T) {
	c, _, rec := newTestCalculator(t)
	c.StartGame(config.ModeClassic, config.DifficultyMedium)

	c.CalculateScore(Correct, QuestionMeta{})
	c.CalculateScore(Correct, QuestionMeta{})
	before := c.Snapshot().CurrentScore

	d := c.CalculateScore(Skipped, QuestionMeta{})
	if d.BaseScore != -5 {
		t.Errorf("Expected skip base -5, got %d", d.BaseScore)
	}
	if d.TotalQuestionScore != 0 {
		t.Errorf("Expected clamped total 0, got %d", d.TotalQuestionScore)
	}
	if c.Snapshot().CurrentScore != before {
		t.Errorf("Score changed on clamped penalty: %d -> %d", before, c.Snapshot().CurrentScore)
	}
	if c.Snapshot().CurrentStreak != 0 {
		t.Errorf("Expected streak reset, got %d", c.Snapshot().CurrentStreak)
	}

	broken := rec.Named(events.StreakBroken)
	if len(broken) != 1 {
		t.Fatalf("Expected 1 streak broken event, got %d", len(broken))
	}
	if broken[0].(StreakBrokenEvent).PreviousStreak != 2 {
		t.Errorf("Expected previous streak 2, got %d", broken[0].(StreakBrokenEvent).PreviousStreak)
	}

	// Breaking an empty streak emits nothing
	c.CalculateScore(Timeout, QuestionMeta{})
	if len(rec.Named(events.StreakBroken)) != 1 {
		t.Error("Expected no streak broken event for zero streak")
	}

	d = c.CalculateScore(Timeout, QuestionMeta{})
	if d.BaseScore != -3 || d.Outcome != Timeout {
		t.Errorf("Unexpected timeout delta: %+v", d)
	}
}

func TestInvariantsHoldForRandomSequences(t *testing.T) {
	outcomes := []Outcome{Correct, Correct, Correct, Incorrect, Skipped, Timeout}
	rng := rand.New(rand.NewSource(7))

	for _, mode := range []config.GameMode{config.ModeClassic, config.ModeSpeed, config.ModeHollyBolly} {
		for _, diff := range []config.Difficulty{config.DifficultyEasy, config.DifficultyMedium, config.DifficultyHard} {
			c, clock, _ := newTestCalculator(t)
			c.StartGame(mode, diff)

			for i := 0; i < 200; i++ {
				c.StartQuestion()
				clock.Advance(time.Duration(rng.Intn(40000)) * time.Millisecond)
				d := c.CalculateScore(outcomes[rng.Intn(len(outcomes))], QuestionMeta{})

				if d.TotalQuestionScore < 0 {
					t.Fatalf("%s/%s: negative question score %d", mode, diff, d.TotalQuestionScore)
				}
				s := c.Snapshot()
				if s.MaxStreak < s.CurrentStreak {
					t.Fatalf("%s/%s: max streak %d below current %d", mode, diff, s.MaxStreak, s.CurrentStreak)
				}
				if s.CurrentScore < 0 {
					t.Fatalf("%s/%s: negative score %d", mode, diff, s.CurrentScore)
				}
			}
		}
	}
}

func TestClampWithLargeNegativePenalty(t *testing.T) {
	table := config.DefaultScoringConfig()
	table.Penalties.Skip = -1_000_000

	c := New(table)
	c.StartGame(config.ModeClassic, config.DifficultyEasy)
	d := c.CalculateScore(Skipped, QuestionMeta{})
	if d.TotalQuestionScore != 0 {
		t.Errorf("Expected clamped 0, got %d", d.TotalQuestionScore)
	}
}

func TestDeterminism(t *testing.T) {
	run := func() ([]Delta, int) {
		c, clock, _ := newTestCalculator(t)
		c.StartGame(config.ModeHollyBolly, config.DifficultyHard)

		seq := []struct {
			outcome Outcome
			elapsed time.Duration
		}{
			{Correct, 2 * time.Second},
			{Correct, 500 * time.Millisecond},
			{Correct, 7 * time.Second},
			{Incorrect, 3 * time.Second},
			{Correct, 1 * time.Second},
			{Skipped, 0},
			{Timeout, 34 * time.Second},
		}

		var deltas []Delta
		for _, step := range seq {
			c.StartQuestion()
			clock.Advance(step.elapsed)
			deltas = append(deltas, c.CalculateScore(step.outcome, QuestionMeta{Category: "movies"}))
		}
		return deltas, c.Snapshot().CurrentScore
	}

	d1, s1 := run()
	d2, s2 := run()
	if !reflect.DeepEqual(d1, d2) {
		t.Errorf("Delta sequences differ:\n%+v\n%+v", d1, d2)
	}
	if s1 != s2 {
		t.Errorf("Final scores differ: %d vs %d", s1, s2)
	}
}

func TestMalformedModeYieldsErrorDelta(t *testing.T) {
	table := config.DefaultScoringConfig()
	bad := table.Modes[config.ModeClassic]
	bad.TimeLimit = 0
	table.Modes[config.ModeClassic] = bad

	bus := events.NewBus()
	rec := &events.Recorder{}
	rec.Attach(bus)

	c := New(table, WithBus(bus))
	c.StartGame(config.ModeClassic, config.DifficultyMedium)
	rec.Reset()

	d := c.CalculateScore(Correct, QuestionMeta{})
	if !d.Error {
		t.Fatal("Expected error delta for malformed mode")
	}
	if d.TotalQuestionScore != 0 || d.BaseScore != 0 || d.TimeBonus != 0 || d.StreakBonus != 0 {
		t.Errorf("Expected zeroed delta, got %+v", d)
	}

	s := c.Snapshot()
	if s.TotalAnswered != 0 || s.CurrentStreak != 0 || s.CurrentScore != 0 {
		t.Errorf("Session mutated on error: %+v", s)
	}
	if len(rec.Events) != 0 {
		t.Errorf("Expected no events on error, got %d", len(rec.Events))
	}
}

func TestUnknownOutcomeYieldsErrorDelta(t *testing.T) {
	c, _, _ := newTestCalculator(t)
	c.StartGame(config.ModeClassic, config.DifficultyMedium)

	d := c.CalculateScore(Outcome("bogus"), QuestionMeta{})
	if !d.Error {
		t.Error("Expected error delta for unknown outcome")
	}
}

func TestUnknownModeFallsBackToDefaults(t *testing.T) {
	c, _, _ := newTestCalculator(t)
	c.StartGame("arcade", "insane")

	d := c.CalculateScore(Correct, QuestionMeta{})
	if d.Error {
		t.Fatal("Unknown mode must fall back, not fail")
	}
	if d.BaseScore != config.DefaultModeConfig().Points.Correct {
		t.Errorf("Expected default correct points, got %d", d.BaseScore)
	}
}

func TestResetGameIdempotent(t *testing.T) {
	c, _, _ := newTestCalculator(t)
	c.StartGame(config.ModeClassic, config.DifficultyEasy)
	c.StartQuestion()
	c.CalculateScore(Correct, QuestionMeta{Category: "animals"})
	c.ApplySpecialBonus("perfect", 50, "perfect round")

	c.ResetGame()
	once := c.Snapshot()
	c.ResetGame()
	twice := c.Snapshot()

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("Reset not idempotent:\n%+v\n%+v", once, twice)
	}
	if once.CurrentScore != 0 || once.TotalAnswered != 0 || once.MaxStreak != 0 || len(once.BonusHistory) != 0 {
		t.Errorf("Expected zeroed state, got %+v", once)
	}
	if once.GameMode != config.ModeClassic {
		t.Errorf("Expected mode to survive reset, got %q", once.GameMode)
	}
}

func TestStartGameActsAsReset(t *testing.T) {
	c, _, rec := newTestCalculator(t)
	c.StartGame(config.ModeClassic, config.DifficultyMedium)
	c.CalculateScore(Correct, QuestionMeta{})

	c.StartGame(config.ModeSpeed, config.DifficultyHard)
	s := c.Snapshot()
	if s.CurrentScore != 0 || s.TotalAnswered != 0 || s.GameMode != config.ModeSpeed {
		t.Errorf("StartGame did not reset: %+v", s)
	}

	started := rec.Named(events.GameStarted)
	if len(started) != 2 {
		t.Fatalf("Expected 2 game started events, got %d", len(started))
	}
	ev := started[1].(GameStartedEvent)
	if ev.TimeLimit != 22.5 {
		t.Errorf("Expected speed/hard time limit 22.5, got %v", ev.TimeLimit)
	}
}

func TestSpecialBonus(t *testing.T) {
	c, _, rec := newTestCalculator(t)
	c.StartGame(config.ModeClassic, config.DifficultyMedium)

	c.ApplySpecialBonus("perfect_round", 100, "all answers correct")

	s := c.Snapshot()
	if s.CurrentScore != 100 {
		t.Errorf("Expected score 100, got %d", s.CurrentScore)
	}
	if len(s.BonusHistory) != 1 || s.BonusHistory[0].Kind != BonusSpecial {
		t.Fatalf("Expected one special bonus record, got %+v", s.BonusHistory)
	}

	evs := rec.Named(events.SpecialBonus)
	if len(evs) != 1 {
		t.Fatalf("Expected 1 special bonus event, got %d", len(evs))
	}
	if ev := evs[0].(SpecialBonusEvent); ev.Amount != 100 || ev.CurrentScore != 100 {
		t.Errorf("Unexpected event payload: %+v", ev)
	}
}

func TestScoreUpdatedPayload(t *testing.T) {
	c, _, rec := newTestCalculator(t)
	c.StartGame(config.ModeClassic, config.DifficultyMedium)

	c.CalculateScore(Correct, QuestionMeta{})
	c.CalculateScore(Incorrect, QuestionMeta{})
	c.CalculateScore(Correct, QuestionMeta{})

	updates := rec.Named(events.ScoreUpdated)
	if len(updates) != 3 {
		t.Fatalf("Expected 3 score updates, got %d", len(updates))
	}
	last := updates[2].(UpdatedEvent)
	if last.Accuracy != 67 {
		t.Errorf("Expected accuracy 67, got %d", last.Accuracy)
	}
	if last.CurrentScore != 20 {
		t.Errorf("Expected score 20, got %d", last.CurrentScore)
	}
	if last.Delta.PreviousScore != 10 {
		t.Errorf("Expected previous score 10, got %d", last.Delta.PreviousScore)
	}
}

func TestSummaryEmptyGame(t *testing.T) {
	c, _, _ := newTestCalculator(t)
	summary := c.GameSummary()
	if summary.Accuracy != 0 {
		t.Errorf("Expected accuracy 0 for empty game, got %d", summary.Accuracy)
	}
	if summary.ScorePerMinute != 0 {
		t.Errorf("Expected 0 score per minute, got %d", summary.ScorePerMinute)
	}
}

func TestSummary(t *testing.T) {
	c, clock, _ := newTestCalculator(t)
	c.StartGame(config.ModeClassic, config.DifficultyMedium)

	c.StartQuestion()
	clock.Advance(5 * time.Second)
	c.CalculateScore(Correct, QuestionMeta{Category: "animals"}) // 10 + 50
	c.CalculateScore(Correct, QuestionMeta{Category: "animals"}) // 10
	c.CalculateScore(Correct, QuestionMeta{Category: "food"})    // 10 + 10 streak
	c.CalculateScore(Incorrect, QuestionMeta{Category: "food"})  // 0
	c.ApplySpecialBonus("perfect", 20, "test")
	clock.Advance(55 * time.Second)

	before := c.Snapshot()
	summary := c.GameSummary()
	if !reflect.DeepEqual(before, c.Snapshot()) {
		t.Error("GameSummary mutated the session")
	}

	if summary.FinalScore != 110 {
		t.Errorf("Expected final score 110, got %d", summary.FinalScore)
	}
	if summary.Accuracy != 75 {
		t.Errorf("Expected accuracy 75, got %d", summary.Accuracy)
	}
	if summary.MaxStreak != 3 || summary.CurrentStreak != 0 {
		t.Errorf("Expected streaks 3/0, got %d/%d", summary.MaxStreak, summary.CurrentStreak)
	}
	if summary.Duration != time.Minute {
		t.Errorf("Expected 1m duration, got %v", summary.Duration)
	}
	if summary.ScorePerMinute != 110 {
		t.Errorf("Expected 110 points per minute, got %d", summary.ScorePerMinute)
	}
	want := BonusTotals{Time: 50, Streak: 10, Special: 20}
	if summary.Bonuses != want {
		t.Errorf("Expected bonuses %+v, got %+v", want, summary.Bonuses)
	}
	if summary.Categories["food"] != (CategoryStats{Answered: 2, Correct: 1}) {
		t.Errorf("Unexpected food stats: %+v", summary.Categories["food"])
	}
}

func TestSaveGameScoreHistoryCap(t *testing.T) {
	kv := storage.NewMemoryStore()
	seed := make([]Summary, MaxHistory)
	for i := range seed {
		seed[i] = Summary{FinalScore: i}
	}
	if err := storage.SetJSON(kv, HistoryKey, seed); err != nil {
		t.Fatal(err)
	}

	c, _, _ := newTestCalculator(t, WithStore(kv))
	c.StartGame(config.ModeClassic, config.DifficultyMedium)
	c.CalculateScore(Correct, QuestionMeta{})
	c.SaveGameScore()

	history, err := LoadHistory(kv)
	if err != nil {
		t.Fatalf("LoadHistory() failed: %v", err)
	}
	if len(history) != MaxHistory {
		t.Fatalf("Expected %d entries, got %d", MaxHistory, len(history))
	}
	if history[0].FinalScore != 1 {
		t.Errorf("Expected oldest entry dropped, first is %d", history[0].FinalScore)
	}
	if last := history[len(history)-1]; last.FinalScore != 10 || last.GameMode != config.ModeClassic {
		t.Errorf("Expected newest entry last, got %+v", last)
	}
}

func TestHighScoreStrictlyGreater(t *testing.T) {
	kv := storage.NewMemoryStore()
	c, _, rec := newTestCalculator(t, WithStore(kv))

	play := func(correct int) Summary {
		c.StartGame(config.ModeClassic, config.DifficultyMedium)
		for i := 0; i < correct; i++ {
			c.CalculateScore(Correct, QuestionMeta{})
			c.CalculateScore(Incorrect, QuestionMeta{}) // keep streak bonus out
		}
		return c.SaveGameScore()
	}

	play(2)
	if got := len(rec.Named(events.NewHighScore)); got != 1 {
		t.Fatalf("Expected first game to set high score, got %d events", got)
	}

	play(2) // equal
	if got := len(rec.Named(events.NewHighScore)); got != 1 {
		t.Errorf("Equal score must not trigger new high score, got %d events", got)
	}

	play(1) // lower
	play(3) // higher
	highs := rec.Named(events.NewHighScore)
	if len(highs) != 2 {
		t.Fatalf("Expected 2 high score events, got %d", len(highs))
	}
	ev := highs[1].(NewHighScoreEvent)
	if ev.Score != 30 || ev.PreviousScore != 20 || !ev.HadPrevious {
		t.Errorf("Unexpected high score event: %+v", ev)
	}

	scores, _ := LoadHighScores(kv)
	hs := scores[HighScoreKey(config.ModeClassic, config.DifficultyMedium)]
	if hs.Score != 30 || hs.Accuracy != 50 {
		t.Errorf("Unexpected stored high score: %+v", hs)
	}

	history, _ := LoadHistory(kv)
	if len(history) != 4 {
		t.Errorf("Expected 4 history entries, got %d", len(history))
	}
}

func TestHighScoresSeparatedByDifficulty(t *testing.T) {
	kv := storage.NewMemoryStore()
	c, _, _ := newTestCalculator(t, WithStore(kv))

	c.StartGame(config.ModeClassic, config.DifficultyEasy)
	c.CalculateScore(Correct, QuestionMeta{})
	c.SaveGameScore()

	c.StartGame(config.ModeClassic, config.DifficultyHard)
	c.CalculateScore(Correct, QuestionMeta{})
	c.SaveGameScore()

	scores, _ := LoadHighScores(kv)
	if len(scores) != 2 {
		t.Fatalf("Expected 2 high score keys, got %d", len(scores))
	}
	if scores["classic_easy"].Score != 15 || scores["classic_hard"].Score != 8 {
		t.Errorf("Unexpected high scores: %+v", scores)
	}
}

// failingKV fails every operation.
type failingKV struct{}

var errBroken = errors.New("disk on fire")

func (failingKV) Get(string) ([]byte, error) { return nil, errBroken }
func (failingKV) Set(string, []byte) error   { return errBroken }
func (failingKV) Remove(string) error        { return errBroken }
func (failingKV) Close() error               { return nil }

func TestSaveGameScoreSwallowsStorageErrors(t *testing.T) {
	c, _, rec := newTestCalculator(t, WithStore(failingKV{}))
	c.StartGame(config.ModeClassic, config.DifficultyMedium)
	c.CalculateScore(Correct, QuestionMeta{})

	summary := c.SaveGameScore()
	if summary.FinalScore != 10 {
		t.Errorf("Expected in-memory summary with score 10, got %d", summary.FinalScore)
	}
	if len(rec.Named(events.NewHighScore)) != 0 {
		t.Error("Expected no high score event when storage fails")
	}
	if c.Snapshot().CurrentScore != 10 {
		t.Error("Storage failure must not roll back in-memory state")
	}
}

func TestClearScores(t *testing.T) {
	kv := storage.NewMemoryStore()
	c, _, _ := newTestCalculator(t, WithStore(kv))
	c.StartGame(config.ModeClassic, config.DifficultyMedium)
	c.CalculateScore(Correct, QuestionMeta{})
	c.SaveGameScore()

	if err := ClearScores(kv); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}
	if kv.Len() != 0 {
		t.Errorf("Expected empty store, got %d keys", kv.Len())
	}
	history, err := LoadHistory(kv)
	if err != nil || len(history) != 0 {
		t.Errorf("Expected empty history, got %d (err=%v)", len(history), err)
	}
}
