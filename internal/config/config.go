// Package config provides YAML-based scoring configuration loading and
// difficulty management for the word guessing game.
package config

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrUnknownMode is returned when a game mode has no entry in the scoring table.
var ErrUnknownMode = errors.New("config: unknown game mode")

// ErrUnknownDifficulty is returned when a difficulty has no entry in the scoring table.
var ErrUnknownDifficulty = errors.New("config: unknown difficulty")

// GameMode identifies a game mode (e.g., "classic", "hollybolly").
type GameMode string

const (
	ModeClassic    GameMode = "classic"
	ModeSpeed      GameMode = "speed"
	ModeHollyBolly GameMode = "hollybolly"
)

// Difficulty represents a named difficulty level.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ScoringConfig is the per-mode and per-difficulty scoring table.
// It is treated as read-only once handed to the score calculator.
type ScoringConfig struct {
	Modes        map[GameMode]ModeConfig         `yaml:"modes"`
	Difficulties map[Difficulty]DifficultyConfig `yaml:"difficulties"`
	Penalties    PenaltyConfig                   `yaml:"penalties"`
}

// ModeConfig defines scoring parameters for one game mode.
type ModeConfig struct {
	Name             string       `yaml:"name"`
	TimeLimit        float64      `yaml:"time_limit"` // Seconds per question before difficulty scaling
	Points           PointsConfig `yaml:"points"`
	TimeBonus        float64      `yaml:"time_bonus"` // Points per second saved under the quick threshold
	StreakMultiplier float64      `yaml:"streak_multiplier"`
	MaxStreak        int          `yaml:"max_streak"` // Cap on the streak used for streak bonus
	Rewards          bool         `yaml:"rewards"`    // Whether the mode unlocks streak rewards
}

// PointsConfig defines base points per answer outcome.
type PointsConfig struct {
	Correct   int `yaml:"correct"`
	Incorrect int `yaml:"incorrect"`
}

// DifficultyConfig defines parameters for one difficulty level.
type DifficultyConfig struct {
	Name           string  `yaml:"name"`
	TimeMultiplier float64 `yaml:"time_multiplier"` // Scales the time limit and the base score
}

// PenaltyConfig holds the global penalties for non-answers.
type PenaltyConfig struct {
	Skip    int `yaml:"skip"`
	Timeout int `yaml:"timeout"`
}

// Mode returns the configuration for the given mode.
// Unknown modes fall back to DefaultModeConfig with ok=false.
func (c ScoringConfig) Mode(mode GameMode) (cfg ModeConfig, ok bool) {
	if m, found := c.Modes[mode]; found {
		return m, true
	}
	return DefaultModeConfig(), false
}

// Difficulty returns the configuration for the given difficulty.
// Unknown difficulties fall back to DefaultDifficultyConfig with ok=false.
func (c ScoringConfig) Difficulty(d Difficulty) (cfg DifficultyConfig, ok bool) {
	if dc, found := c.Difficulties[d]; found {
		return dc, true
	}
	return DefaultDifficultyConfig(), false
}

// ModeNames returns all configured modes sorted by name.
func (c ScoringConfig) ModeNames() []GameMode {
	names := make([]GameMode, 0, len(c.Modes))
	for m := range c.Modes {
		names = append(names, m)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// DifficultyNames returns all configured difficulties ordered by
// descending time multiplier (most forgiving first).
func (c ScoringConfig) DifficultyNames() []Difficulty {
	names := make([]Difficulty, 0, len(c.Difficulties))
	for d := range c.Difficulties {
		names = append(names, d)
	}
	sort.Slice(names, func(i, j int) bool {
		mi, mj := c.Difficulties[names[i]].TimeMultiplier, c.Difficulties[names[j]].TimeMultiplier
		if mi != mj {
			return mi > mj
		}
		return names[i] < names[j]
	})
	return names
}

// Validate reports the first malformed entry in the table.
func (c ScoringConfig) Validate() error {
	if len(c.Modes) == 0 {
		return errors.New("config: no game modes defined")
	}
	for _, name := range c.ModeNames() {
		if err := c.Modes[name].Validate(); err != nil {
			return fmt.Errorf("config: mode %q: %w", name, err)
		}
	}
	for d, dc := range c.Difficulties {
		if err := dc.Validate(); err != nil {
			return fmt.Errorf("config: difficulty %q: %w", d, err)
		}
	}
	return nil
}

// Validate checks that the mode parameters can produce a finite score.
func (m ModeConfig) Validate() error {
	switch {
	case !finite(m.TimeLimit) || m.TimeLimit <= 0:
		return fmt.Errorf("time_limit must be positive, got %v", m.TimeLimit)
	case !finite(m.TimeBonus) || m.TimeBonus < 0:
		return fmt.Errorf("time_bonus must be non-negative, got %v", m.TimeBonus)
	case !finite(m.StreakMultiplier) || m.StreakMultiplier < 1:
		return fmt.Errorf("streak_multiplier must be at least 1, got %v", m.StreakMultiplier)
	case m.MaxStreak < 0:
		return fmt.Errorf("max_streak must be non-negative, got %d", m.MaxStreak)
	}
	return nil
}

// Validate checks that the difficulty multiplier is usable.
func (d DifficultyConfig) Validate() error {
	if !finite(d.TimeMultiplier) || d.TimeMultiplier <= 0 {
		return fmt.Errorf("time_multiplier must be positive, got %v", d.TimeMultiplier)
	}
	return nil
}

// ParseDifficulty normalizes a user-supplied difficulty name.
// "normal" is accepted as an alias for medium; empty selects medium.
func ParseDifficulty(s string) Difficulty {
	switch s {
	case "", "normal":
		return DifficultyMedium
	default:
		return Difficulty(s)
	}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
