// Package questions supplies word-guessing questions from a YAML bank.
package questions

import (
	_ "embed"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/wordguess/internal/config"
	"github.com/vovakirdan/wordguess/internal/reward"
	"github.com/vovakirdan/wordguess/internal/score"
)

//go:embed defaults/questions.yaml
var defaultQuestionsYAML []byte

// ErrNoQuestions is returned when a bank has no questions for a mode.
var ErrNoQuestions = errors.New("questions: no questions for mode")

// Question is one clue with multiple-choice answers.
type Question struct {
	ID         string           `yaml:"id"`
	Clue       string           `yaml:"clue"`
	Options    []string         `yaml:"options"`
	Answer     int              `yaml:"answer"` // Index into Options
	Category   string           `yaml:"category"`
	Difficulty string           `yaml:"difficulty"`
	Modes      []string         `yaml:"modes"` // Empty means every non-reward mode
	Comparison *reward.Metadata `yaml:"comparison"`
}

// IsCorrect reports whether the option at index choice is the answer.
func (q Question) IsCorrect(choice int) bool {
	return choice == q.Answer
}

// AnswerText returns the text of the correct option.
func (q Question) AnswerText() string {
	if q.Answer < 0 || q.Answer >= len(q.Options) {
		return ""
	}
	return q.Options[q.Answer]
}

// Meta returns the metadata the score calculator records per answer.
func (q Question) Meta() score.QuestionMeta {
	return score.QuestionMeta{Category: q.Category, Difficulty: q.Difficulty}
}

// Bank is a collection of questions.
type Bank struct {
	Questions []Question `yaml:"questions"`
}

// Validate reports the first malformed question.
func (b Bank) Validate() error {
	for i, q := range b.Questions {
		if len(q.Options) < 2 {
			return fmt.Errorf("questions: question %d (%s) needs at least 2 options", i, q.ID)
		}
		if q.Answer < 0 || q.Answer >= len(q.Options) {
			return fmt.Errorf("questions: question %d (%s) answer %d out of range", i, q.ID, q.Answer)
		}
	}
	return nil
}

// ForMode returns the questions playable in a mode. Reward modes only
// get questions that list them explicitly.
func (b Bank) ForMode(mode config.GameMode, rewards bool) []Question {
	var out []Question
	for _, q := range b.Questions {
		switch {
		case slices.Contains(q.Modes, string(mode)):
			out = append(out, q)
		case len(q.Modes) == 0 && !rewards:
			out = append(out, q)
		}
	}
	return out
}

// Load reads a question bank.
// Search order: customPath -> ~/.wordguess/configs/questions.yaml -> ./configs/questions.yaml -> embedded default
func Load(customPath string) (Bank, error) {
	var bank Bank

	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return bank, fmt.Errorf("failed to read questions %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &bank); err != nil {
			return bank, fmt.Errorf("failed to parse questions %s: %w", customPath, err)
		}
		return bank, bank.Validate()
	}

	candidates := []string{"configs/questions.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append([]string{filepath.Join(home, ".wordguess", "configs", "questions.yaml")}, candidates...)
	}
	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var b Bank
		if err := yaml.Unmarshal(data, &b); err == nil && b.Validate() == nil {
			return b, nil
		}
	}

	if err := yaml.Unmarshal(defaultQuestionsYAML, &bank); err != nil {
		return bank, fmt.Errorf("failed to parse embedded questions: %w", err)
	}
	return bank, bank.Validate()
}

// Generator deals questions for one game in a seeded random order.
type Generator struct {
	questions []Question
	next      int
}

// NewGenerator shuffles the questions for mode with seed and limits the
// game to rounds questions (0 means all of them).
func NewGenerator(bank Bank, mode config.GameMode, rewards bool, rounds int, seed int64) (*Generator, error) {
	qs := bank.ForMode(mode, rewards)
	if len(qs) == 0 {
		return nil, fmt.Errorf("%w %q", ErrNoQuestions, mode)
	}

	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(qs), func(i, j int) { qs[i], qs[j] = qs[j], qs[i] })

	if rounds > 0 && rounds < len(qs) {
		qs = qs[:rounds]
	}
	return &Generator{questions: qs}, nil
}

// Next returns the next question, or false when the game is over.
func (g *Generator) Next() (Question, bool) {
	if g.next >= len(g.questions) {
		return Question{}, false
	}
	q := g.questions[g.next]
	g.next++
	return q, true
}

// Total returns the number of questions in the game.
func (g *Generator) Total() int { return len(g.questions) }

// Index returns how many questions have been dealt.
func (g *Generator) Index() int { return g.next }
