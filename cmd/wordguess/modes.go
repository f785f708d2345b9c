package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var modesCmd = &cobra.Command{
	Use:   "modes",
	Short: "List game modes and difficulties",
	Long:  `Shows the game modes and difficulties of the active scoring table.`,
	Args:  cobra.NoArgs,
	Run:   runModes,
}

func runModes(_ *cobra.Command, _ []string) {
	table, err := loadScoring(appCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading scoring config: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Game modes:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, m := range table.ModeNames() {
		maxIDLen = max(maxIDLen, len(m))
	}

	fmt.Printf("  %-*s  %-14s  %6s  %7s  %6s  %s\n", maxIDLen, "ID", "Name", "Time", "Correct", "Streak", "Rewards")
	fmt.Printf("  %-*s  %-14s  %6s  %7s  %6s  %s\n", maxIDLen, "--", "----", "----", "-------", "------", "-------")
	for _, id := range table.ModeNames() {
		m := table.Modes[id]
		rewards := "no"
		if m.Rewards {
			rewards = "yes"
		}
		fmt.Printf("  %-*s  %-14s  %5.0fs  %7d  %5.2fx  %s\n",
			maxIDLen, id, m.Name, m.TimeLimit, m.Points.Correct, m.StreakMultiplier, rewards)
	}

	fmt.Println()
	fmt.Println("Difficulties:")
	fmt.Println()
	for _, id := range table.DifficultyNames() {
		d := table.Difficulties[id]
		fmt.Printf("  %-8s  %-8s  %.2fx time\n", id, d.Name, d.TimeMultiplier)
	}

	fmt.Println()
	fmt.Printf("Penalties: skip %d, timeout %d\n", table.Penalties.Skip, table.Penalties.Timeout)
	fmt.Println()
	fmt.Println("Run 'wordguess play --mode <id> --difficulty <level>' to play.")
}
