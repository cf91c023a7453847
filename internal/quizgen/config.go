package quizgen

import (
	"time"

	"github.com/abhisek/codiz/internal/course"
)

// Config controls LLMGenerator.
type Config struct {
	// Validators run in order; the first failure stops the pipeline.
	Validators []Validator

	MaxTokens   int
	Temperature float64

	// MaxPrior caps how many prior questions go into the prompt.
	MaxPrior int

	// TimeLimit is used when the lesson quiz has none.
	TimeLimit time.Duration
}

// DefaultConfig returns the standard validator chain.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&DuplicateValidator{},
		},
		MaxTokens:   512,
		Temperature: 0.7,
		MaxPrior:    8,
		TimeLimit:   course.DefaultQuizTime,
	}
}
