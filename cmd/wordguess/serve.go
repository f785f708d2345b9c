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
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
	flagServeMode   string
	flagServeDiff   string
	flagServeRounds int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the wordguess SSH server",
	Long: `Start an SSH server that lets users connect and play.

Each SSH connection gets its own single-player game. Scores are stored
per-server (all users share the same high scores).

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.wordguess/host_key

Examples:
  wordguess serve                           # Listen on :23235 with auto-generated key
  wordguess serve --ssh :2222               # Listen on port 2222
  wordguess serve --mode speed --rounds 20  # Speed games for everyone
  wordguess serve --backend redis           # Share scores through redis

Users can connect with:
  ssh localhost -p 23235`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23235", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().StringVar(&flagServeMode, "mode", string(config.ModeClassic), "Game mode for every session")
	serveCmd.Flags().StringVar(&flagServeDiff, "difficulty", string(config.DifficultyMedium), "Difficulty for every session")
	serveCmd.Flags().IntVar(&flagServeRounds, "rounds", 10, "Questions per game")
}

func runServe(_ *cobra.Command, _ []string) {
	table, bank := mustLoadGame(appCfg)

	mode, err := parseMode(table, flagServeMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	difficulty, err := parseDifficulty(table, flagServeDiff)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg := tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
		Mode:        mode,
		Difficulty:  difficulty,
		Rounds:      flagServeRounds,
	}

	server, err := tui.NewSSHServer(cfg, openStoreOrWarn(appCfg), table, bank, logger.WithPrefix("wordguess-ssh"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting wordguess SSH server on %s\n", cfg.Address)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
