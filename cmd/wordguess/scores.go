package main

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/wordguess/internal/config"
	"github.com/vovakirdan/wordguess/internal/platform/tui"
	"github.com/vovakirdan/wordguess/internal/score"
	"github.com/vovakirdan/wordguess/internal/storage"
)

const recentLimit = 10

var (
	flagScoresMode       string
	flagScoresDifficulty string
	flagScoresTUI        bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show high scores and recent games",
	Long: `Display the high score of every mode and difficulty, followed by the
most recent games. Filter with --mode and --difficulty, or browse
interactively with --tui.

Examples:
  wordguess scores
  wordguess scores --mode speed
  wordguess scores --mode classic --difficulty hard
  wordguess scores --tui`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().StringVar(&flagScoresMode, "mode", "", "Only show this game mode")
	scoresCmd.Flags().StringVar(&flagScoresDifficulty, "difficulty", "", "Only show this difficulty")
	scoresCmd.Flags().BoolVar(&flagScoresTUI, "tui", false, "Browse scores in an interactive table")
}

func runScores(_ *cobra.Command, _ []string) {
	table, err := loadScoring(appCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading scoring config: %v\n", err)
		os.Exit(1)
	}

	store, err := openStore(appCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening score store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagScoresTUI {
		width, height := 80, 24 // Defaults
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		if err := tui.RunScoreboard(store, table, width, height); err != nil {
			fmt.Fprintf(os.Stderr, "Error running scoreboard: %v\n", err)
			os.Exit(1)
		}
		return
	}

	modes := table.ModeNames()
	if flagScoresMode != "" {
		mode, err := parseMode(table, flagScoresMode)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		modes = []config.GameMode{mode}
	}
	difficulties := table.DifficultyNames()
	if flagScoresDifficulty != "" {
		d, err := parseDifficulty(table, flagScoresDifficulty)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		difficulties = []config.Difficulty{d}
	}

	if err := printScores(store, modes, difficulties); err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		os.Exit(1)
	}
}

func printScores(store storage.KV, modes []config.GameMode, difficulties []config.Difficulty) error {
	highScores, err := score.LoadHighScores(store)
	if err != nil {
		return err
	}
	history, err := score.LoadHistory(store)
	if err != nil {
		return err
	}

	fmt.Println("High Scores")
	fmt.Println()
	fmt.Printf("  %-11s  %-7s  %-7s  %-4s  %-6s  %s\n", "Mode", "Level", "Score", "Acc", "Streak", "Date")
	fmt.Printf("  %-11s  %-7s  %-7s  %-4s  %-6s  %s\n", "----", "-----", "-----", "---", "------", "----")

	found := 0
	for _, m := range modes {
		for _, d := range difficulties {
			hs, ok := highScores[score.HighScoreKey(m, d)]
			if !ok {
				continue
			}
			found++
			fmt.Printf("  %-11s  %-7s  %-7d  %3d%%  %-6d  %s\n",
				m, d, hs.Score, hs.Accuracy, hs.MaxStreak, hs.Date.Format("2006-01-02 15:04"))
		}
	}
	if found == 0 {
		fmt.Println()
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'wordguess play' to set the first high score!")
		return nil
	}

	fmt.Println()
	fmt.Println("Recent games")
	fmt.Println()
	shown := 0
	for i := len(history) - 1; i >= 0 && shown < recentLimit; i-- {
		s := history[i]
		if !slices.Contains(modes, s.GameMode) || !slices.Contains(difficulties, s.Difficulty) {
			continue
		}
		shown++
		fmt.Printf("  %s  %-11s  %-7s  %5d  %d/%d correct\n",
			s.Date.Format("2006-01-02 15:04"), s.GameMode, s.Difficulty,
			s.FinalScore, s.CorrectAnswers, s.TotalAnswered)
	}
	return nil
}
