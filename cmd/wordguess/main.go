// wordguess is a terminal word-guessing game with streak scoring and
// movie-comparison rewards.
//
// Usage:
//
//	wordguess play            - Play a game
//	wordguess modes           - List game modes and difficulties
//	wordguess scores          - Show high scores and recent games
//	wordguess reset-scores    - Delete all saved scores
//	wordguess serve           - Start SSH server for remote play
//
// Global flags (each also readable from a WORDGUESS_* variable):
//
//	--db <path>          - Score database path (default: ~/.wordguess/scores.db)
//	--backend <name>     - Score store: sqlite, redis or memory
//	--redis-addr <addr>  - Redis address for the redis backend
//	--config <path>      - Custom scoring table YAML
//	--questions <path>   - Custom question bank YAML
//	--log-level <level>  - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/wordguess/internal/config"
)

var (
	// Global flags
	flagDBPath    string
	flagBackend   string
	flagRedisAddr string
	flagConfig    string
	flagQuestions string
	flagLogLevel  string
	flagSeed      int64

	// Resolved in PersistentPreRunE
	appCfg config.AppConfig
	logger *log.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "wordguess",
	Short: "Wordguess - guess the word, keep the streak",
	Long: `Wordguess is a terminal word-guessing game. Answer quickly for a time
bonus, chain correct answers for a streak bonus, and in hollybolly mode
unlock box office and star face-offs as your streak grows.

Available commands:
  play          - Play a game
  modes         - List game modes and difficulties
  scores        - View high scores and recent games
  reset-scores  - Delete saved scores
  serve         - Start SSH server for remote play

Examples:
  wordguess play
  wordguess play --mode hollybolly --difficulty hard
  wordguess scores --mode speed
  wordguess serve --ssh :2222`,
	SilenceUsage:      true,
	PersistentPreRunE: resolveConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to scores database (env WORDGUESS_DB)")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "Score store: sqlite, redis, memory (env WORDGUESS_BACKEND)")
	rootCmd.PersistentFlags().StringVar(&flagRedisAddr, "redis-addr", "", "Redis address (env WORDGUESS_REDIS_ADDR)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom scoring YAML (env WORDGUESS_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&flagQuestions, "questions", "", "Path to custom question bank YAML (env WORDGUESS_QUESTIONS)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error (env WORDGUESS_LOG_LEVEL)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "Question order seed (0 = random based on time)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(modesCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(resetScoresCmd)
	rootCmd.AddCommand(serveCmd)
}

// resolveConfig reads WORDGUESS_* variables, applies explicitly set flags
// on top, and builds the process logger.
func resolveConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadApp()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg.DBPath = flagDBPath
	}
	if flags.Changed("backend") {
		cfg.Backend = flagBackend
	}
	if flags.Changed("redis-addr") {
		cfg.RedisAddr = flagRedisAddr
	}
	if flags.Changed("config") {
		cfg.ConfigPath = flagConfig
	}
	if flags.Changed("questions") {
		cfg.QuestionsPath = flagQuestions
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = flagLogLevel
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "wordguess",
		Level:           level,
	})

	appCfg = cfg
	return nil
}
