package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/wordguess/internal/score"
)

var flagResetYes bool

var resetScoresCmd = &cobra.Command{
	Use:   "reset-scores",
	Short: "Delete saved scores",
	Long: `Remove the score history and every high score from the score store.

Examples:
  wordguess reset-scores --yes
  wordguess reset-scores --backend redis --yes`,
	Args: cobra.NoArgs,
	Run:  runResetScores,
}

func init() {
	resetScoresCmd.Flags().BoolVarP(&flagResetYes, "yes", "y", false, "Confirm deletion")
}

func runResetScores(_ *cobra.Command, _ []string) {
	if !flagResetYes {
		fmt.Fprintln(os.Stderr, "Refusing to delete scores without --yes.")
		os.Exit(1)
	}

	store, err := openStore(appCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening score store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := score.ClearScores(store); err != nil {
		fmt.Fprintf(os.Stderr, "Error clearing scores: %v\n", err)
		os.Exit(1)
	}
	logger.Info("scores cleared", "backend", appCfg.Backend)
	fmt.Println("All scores deleted.")
}
