package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/wordguess/internal/config"
	"github.com/vovakirdan/wordguess/internal/platform/tui"
)

var (
	flagMode       string
	flagDifficulty string
	flagRounds     int
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a game",
	Long: `Start a game of wordguess.

Controls:
  1-4        - Answer
  S          - Skip (costs points and breaks the streak)
  P          - Pin or unpin the newest reward
  R          - Play again (after game over)
  Q/Ctrl+C   - Quit (an unfinished game is still saved)

Difficulty options scale the time per question:
  easy    - 1.5x time
  medium  - normal time (alias: normal)
  hard    - 0.75x time

Examples:
  wordguess play
  wordguess play --mode speed --difficulty easy
  wordguess play --mode hollybolly --rounds 5
  wordguess play --config ./my-scoring.yaml --questions ./my-bank.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagMode, "mode", string(config.ModeClassic), "Game mode (see 'wordguess modes')")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", string(config.DifficultyMedium), "Difficulty: easy, medium, hard")
	playCmd.Flags().IntVar(&flagRounds, "rounds", 10, "Questions per game (0 = whole question bank)")
}

func runPlay(_ *cobra.Command, _ []string) {
	table, bank := mustLoadGame(appCfg)

	mode, err := parseMode(table, flagMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	difficulty, err := parseDifficulty(table, flagDifficulty)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	store := openStoreOrWarn(appCfg)

	summary, runErr := tui.RunPlay(tui.PlayOptions{
		Mode:       mode,
		Difficulty: difficulty,
		Scoring:    table,
		Bank:       bank,
		Rounds:     flagRounds,
		Seed:       seed,
		Store:      store,
		Logger:     logger,
	})

	// Close store before potential exit
	if store != nil {
		if err := store.Close(); err != nil {
			logger.Warn("could not close score store", "error", err)
		}
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
	if summary.TotalAnswered > 0 {
		fmt.Printf("Final score: %d (%d/%d correct, best streak %d)\n",
			summary.FinalScore, summary.CorrectAnswers, summary.TotalAnswered, summary.MaxStreak)
	}
}
