package score

import (
	"time"

	"github.com/vovakirdan/wordguess/internal/config"
	"github.com/vovakirdan/wordguess/internal/events"
)

// Outcome is the result of a single question.
type Outcome string

const (
	Correct   Outcome = "correct"
	Incorrect Outcome = "incorrect"
	Skipped   Outcome = "skipped"
	Timeout   Outcome = "timeout"
)

// IsCorrect reports whether the outcome extends the streak.
func (o Outcome) IsCorrect() bool {
	return o == Correct
}

// QuestionMeta is the metadata the question generator attaches to a question.
type QuestionMeta struct {
	Category   string
	Difficulty string
}

// BonusKind distinguishes formula bonuses from one-off special bonuses.
type BonusKind string

const (
	BonusQuestion BonusKind = "question"
	BonusSpecial  BonusKind = "special"
)

// BonusRecord is an append-only entry in the session's bonus history.
type BonusRecord struct {
	Timestamp     time.Time `json:"timestamp"`
	Kind          BonusKind `json:"kind"`
	TimeBonus     int       `json:"timeBonus,omitempty"`
	StreakBonus   int       `json:"streakBonus,omitempty"`
	StreakAtTime  int       `json:"streakAtTime"`
	QuestionIndex int       `json:"questionIndex"`

	// Special bonuses only
	SpecialType string `json:"type,omitempty"`
	Amount      int    `json:"amount,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

// Session is the live state of one game. Owned by the Calculator.
type Session struct {
	GameMode          config.GameMode
	Difficulty        config.Difficulty
	CurrentScore      int
	CurrentStreak     int
	MaxStreak         int
	TotalAnswered     int
	CorrectAnswers    int
	GameStartTime     time.Time
	QuestionStartTime time.Time // Zero when no question is running
	BonusHistory      []BonusRecord
	Categories        map[string]CategoryStats
}

// CategoryStats counts answers per question category.
type CategoryStats struct {
	Answered int `json:"answered"`
	Correct  int `json:"correct"`
}

// Delta is the point change produced by one CalculateScore call.
// TotalQuestionScore = max(0, BaseScore + TimeBonus + StreakBonus), where
// BaseScore already includes the difficulty multiplier.
type Delta struct {
	BaseScore            int
	DifficultyMultiplier float64
	TimeBonus            int
	StreakBonus          int
	TotalQuestionScore   int
	PreviousScore        int
	Outcome              Outcome
	Error                bool
}

// BonusTotals sums bonuses by category.
type BonusTotals struct {
	Time    int `json:"time"`
	Streak  int `json:"streak"`
	Special int `json:"special"`
}

// Summary is the end-of-game report; it is also the persisted history entry.
type Summary struct {
	GameMode       config.GameMode          `json:"gameMode"`
	Difficulty     config.Difficulty        `json:"difficulty"`
	FinalScore     int                      `json:"finalScore"`
	TotalAnswered  int                      `json:"totalAnswered"`
	CorrectAnswers int                      `json:"correctAnswers"`
	Accuracy       int                      `json:"accuracy"` // Percent, 0-100
	MaxStreak      int                      `json:"maxStreak"`
	CurrentStreak  int                      `json:"currentStreak"`
	Duration       time.Duration            `json:"duration"`
	ScorePerMinute int                      `json:"scorePerMinute"`
	Bonuses        BonusTotals              `json:"bonuses"`
	Categories     map[string]CategoryStats `json:"categories,omitempty"`
	Date           time.Time                `json:"date"`
}

// HighScore is the best result stored for a (mode, difficulty) pair.
type HighScore struct {
	Score     int       `json:"score"`
	Accuracy  int       `json:"accuracy"`
	MaxStreak int       `json:"maxStreak"`
	Date      time.Time `json:"date"`
}

// GameStartedEvent is published by StartGame.
type GameStartedEvent struct {
	GameMode   config.GameMode
	Difficulty config.Difficulty
	TimeLimit  float64 // Seconds per question
	StartedAt  time.Time
}

func (GameStartedEvent) EventName() events.Name { return events.GameStarted }

// UpdatedEvent is published after every scored question.
type UpdatedEvent struct {
	Delta        Delta
	CurrentScore int
	Accuracy     int
	Streak       int
}

func (UpdatedEvent) EventName() events.Name { return events.ScoreUpdated }

// StreakUpdatedEvent is published when a correct answer extends the streak.
type StreakUpdatedEvent struct {
	Streak    int
	MaxStreak int
}

func (StreakUpdatedEvent) EventName() events.Name { return events.StreakUpdated }

// StreakBrokenEvent is published when a non-correct answer ends a streak.
type StreakBrokenEvent struct {
	PreviousStreak int
}

func (StreakBrokenEvent) EventName() events.Name { return events.StreakBroken }

// SpecialBonusEvent is published by ApplySpecialBonus.
type SpecialBonusEvent struct {
	Type         string
	Amount       int
	Reason       string
	CurrentScore int
}

func (SpecialBonusEvent) EventName() events.Name { return events.SpecialBonus }

// NewHighScoreEvent is published when a stored high score is replaced.
type NewHighScoreEvent struct {
	GameMode      config.GameMode
	Difficulty    config.Difficulty
	Score         int
	PreviousScore int
	HadPrevious   bool
}

func (NewHighScoreEvent) EventName() events.Name { return events.NewHighScore }
