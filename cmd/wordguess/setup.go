package main

import (
	"fmt"
	"os"

	"github.com/vovakirdan/wordguess/internal/config"
	"github.com/vovakirdan/wordguess/internal/questions"
	"github.com/vovakirdan/wordguess/internal/storage"
)

// openStore opens the configured score store.
func openStore(cfg config.AppConfig) (storage.KV, error) {
	switch cfg.Backend {
	case config.BackendSQLite, "":
		return storage.OpenSQLite(cfg.DBPath)
	case config.BackendRedis:
		return storage.OpenRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	case config.BackendMemory:
		return storage.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// openStoreOrWarn opens the score store for gameplay. A game still runs
// without persistence, so failures only produce a warning.
func openStoreOrWarn(cfg config.AppConfig) storage.KV {
	store, err := openStore(cfg)
	if err != nil {
		logger.Warn("could not open score store, scores will not be saved",
			"backend", cfg.Backend, "error", err)
		return nil
	}
	return store
}

// loadScoring loads and validates the scoring table.
func loadScoring(cfg config.AppConfig) (config.ScoringConfig, error) {
	table, err := config.LoadScoring(cfg.ConfigPath)
	if err != nil {
		return table, err
	}
	if err := table.Validate(); err != nil {
		return table, err
	}
	return table, nil
}

// mustLoadGame loads the scoring table and question bank or exits.
func mustLoadGame(cfg config.AppConfig) (config.ScoringConfig, questions.Bank) {
	table, err := loadScoring(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading scoring config: %v\n", err)
		os.Exit(1)
	}
	bank, err := questions.Load(cfg.QuestionsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading questions: %v\n", err)
		os.Exit(1)
	}
	return table, bank
}

// parseMode checks a --mode value against the scoring table.
func parseMode(table config.ScoringConfig, s string) (config.GameMode, error) {
	mode := config.GameMode(s)
	if _, ok := table.Modes[mode]; !ok {
		return mode, fmt.Errorf("%w %q (run 'wordguess modes')", config.ErrUnknownMode, s)
	}
	return mode, nil
}

// parseDifficulty checks a --difficulty value against the scoring table.
func parseDifficulty(table config.ScoringConfig, s string) (config.Difficulty, error) {
	d := config.ParseDifficulty(s)
	if _, ok := table.Difficulties[d]; !ok {
		return d, fmt.Errorf("%w %q (run 'wordguess modes')", config.ErrUnknownDifficulty, s)
	}
	return d, nil
}
