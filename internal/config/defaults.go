package config

import (
	_ "embed"
)

//go:embed defaults/scoring.yaml
var defaultScoringYAML []byte

// DefaultModeConfig returns the built-in constants used when a mode is missing.
func DefaultModeConfig() ModeConfig {
	return ModeConfig{
		Name:      "Classic",
		TimeLimit: 60,
		Points: PointsConfig{
			Correct:   10,
			Incorrect: 0,
		},
		TimeBonus:        5,
		StreakMultiplier: 1.5,
		MaxStreak:        10,
	}
}

// DefaultDifficultyConfig returns the built-in constants used when a difficulty is missing.
func DefaultDifficultyConfig() DifficultyConfig {
	return DifficultyConfig{
		Name:           "Medium",
		TimeMultiplier: 1.0,
	}
}

// DefaultPenalties returns the global penalty table.
func DefaultPenalties() PenaltyConfig {
	return PenaltyConfig{
		Skip:    -5,
		Timeout: -3,
	}
}

// DefaultScoringConfig returns the default scoring table.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		Modes: map[GameMode]ModeConfig{
			ModeClassic: DefaultModeConfig(),
			ModeSpeed: {
				Name:      "Speed Round",
				TimeLimit: 30,
				Points: PointsConfig{
					Correct:   15,
					Incorrect: 0,
				},
				TimeBonus:        10,
				StreakMultiplier: 1.2,
				MaxStreak:        5,
			},
			ModeHollyBolly: {
				Name:      "Holly vs Bolly",
				TimeLimit: 45,
				Points: PointsConfig{
					Correct:   20,
					Incorrect: 0,
				},
				TimeBonus:        5,
				StreakMultiplier: 1.25,
				MaxStreak:        8,
				Rewards:          true,
			},
		},
		Difficulties: map[Difficulty]DifficultyConfig{
			DifficultyEasy:   {Name: "Easy", TimeMultiplier: 1.5},
			DifficultyMedium: DefaultDifficultyConfig(),
			DifficultyHard:   {Name: "Hard", TimeMultiplier: 0.75},
		},
		Penalties: DefaultPenalties(),
	}
}
