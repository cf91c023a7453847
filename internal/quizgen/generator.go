// Package quizgen asks an LLM for extra practice questions shaped like the
// catalog's lesson quizzes.
package quizgen

import (
	"context"

	"github.com/abhisek/codiz/internal/course"
)

// Generator produces practice quizzes.
type Generator interface {
	// Generate returns a validated quiz for input. All configured
	// validators run before returning.
	Generate(ctx context.Context, input Input) (*course.Quiz, error)
}

// Input is the lesson context a question is generated for.
type Input struct {
	Course *course.Course
	Lesson *course.Lesson

	// Prior holds question texts already shown, oldest first.
	Prior []string
}
