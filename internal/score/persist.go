package score

import (
	"fmt"

	"github.com/vovakirdan/wordguess/internal/config"
	"github.com/vovakirdan/wordguess/internal/storage"
)

// Persistence keys and limits.
const (
	HistoryKey    = "score_history"
	HighScoresKey = "high_scores"
	MaxHistory    = 100
)

// HighScoreKey returns the composite high-score key for a mode and difficulty.
func HighScoreKey(mode config.GameMode, difficulty config.Difficulty) string {
	return fmt.Sprintf("%s_%s", mode, difficulty)
}

// SaveGameScore appends the current summary to the score history and
// updates the high score table. Storage failures are logged, never
// returned; the in-memory summary is always returned.
func (c *Calculator) SaveGameScore() Summary {
	summary := c.GameSummary()
	if c.store == nil {
		c.logger.Debug("no score store configured, skipping save")
		return summary
	}

	history, err := LoadHistory(c.store)
	if err != nil {
		c.logger.Warn("could not load score history", "key", HistoryKey, "error", err)
	} else {
		history = append(history, summary)
		if len(history) > MaxHistory {
			history = history[len(history)-MaxHistory:]
		}
		if err := storage.SetJSON(c.store, HistoryKey, history); err != nil {
			c.logger.Warn("could not save score history", "key", HistoryKey, "error", err)
		}
	}

	c.UpdateHighScores(summary)
	return summary
}

// UpdateHighScores stores summary as the high score for its mode and
// difficulty if it strictly beats the stored one. Returns whether the
// high score was replaced.
func (c *Calculator) UpdateHighScores(summary Summary) bool {
	if c.store == nil {
		return false
	}

	scores, err := LoadHighScores(c.store)
	if err != nil {
		c.logger.Warn("could not load high scores", "key", HighScoresKey, "error", err)
		return false
	}

	key := HighScoreKey(summary.GameMode, summary.Difficulty)
	prev, had := scores[key]
	if had && summary.FinalScore <= prev.Score {
		return false
	}

	scores[key] = HighScore{
		Score:     summary.FinalScore,
		Accuracy:  summary.Accuracy,
		MaxStreak: summary.MaxStreak,
		Date:      summary.Date,
	}
	if err := storage.SetJSON(c.store, HighScoresKey, scores); err != nil {
		c.logger.Warn("could not save high scores", "key", HighScoresKey, "error", err)
		return false
	}

	c.bus.Publish(NewHighScoreEvent{
		GameMode:      summary.GameMode,
		Difficulty:    summary.Difficulty,
		Score:         summary.FinalScore,
		PreviousScore: prev.Score,
		HadPrevious:   had,
	})
	return true
}

// LoadHistory returns the persisted game summaries, oldest first.
func LoadHistory(kv storage.KV) ([]Summary, error) {
	var history []Summary
	if _, err := storage.GetJSON(kv, HistoryKey, &history); err != nil {
		return nil, err
	}
	return history, nil
}

// LoadHighScores returns the persisted high scores keyed by HighScoreKey.
func LoadHighScores(kv storage.KV) (map[string]HighScore, error) {
	scores := make(map[string]HighScore)
	if _, err := storage.GetJSON(kv, HighScoresKey, &scores); err != nil {
		return nil, err
	}
	if scores == nil {
		scores = make(map[string]HighScore)
	}
	return scores, nil
}

// ClearScores removes all persisted history and high scores.
func ClearScores(kv storage.KV) error {
	if err := kv.Remove(HistoryKey); err != nil {
		return err
	}
	return kv.Remove(HighScoresKey)
}
