package quizgen

import (
	"fmt"
	"strings"

	"github.com/abhisek/codiz/internal/course"
)

// Validator checks a generated quiz.
type Validator interface {
	Name() string
	Validate(q *course.Quiz, input Input) *ValidationError
}

// ValidationError describes why a quiz was rejected.
type ValidationError struct {
	Validator string
	Message   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

// StructuralValidator checks lengths and the option set.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(q *course.Quiz, _ Input) *ValidationError {
	fail := func(msg string) *ValidationError {
		return &ValidationError{Validator: v.Name(), Message: msg}
	}

	switch {
	case strings.TrimSpace(q.Question) == "":
		return fail("question is empty")
	case len(q.Question) > 200:
		return fail("question exceeds 200 characters")
	case len(q.Options) != 3:
		return fail(fmt.Sprintf("expected 3 options, got %d", len(q.Options)))
	case q.CorrectIndex() < 0:
		return fail("no correct option")
	}

	seen := make(map[string]bool, len(q.Options))
	for i, o := range q.Options {
		text := strings.ToLower(strings.TrimSpace(o.Text))
		if text == "" {
			return fail(fmt.Sprintf("option %d is empty", i+1))
		}
		if len(o.Text) > 60 {
			return fail(fmt.Sprintf("option %d exceeds 60 characters", i+1))
		}
		if seen[text] {
			return fail(fmt.Sprintf("option %d duplicates another option", i+1))
		}
		seen[text] = true
	}
	return nil
}

// DuplicateValidator rejects questions already asked, including the
// lesson's own quiz.
type DuplicateValidator struct{}

func (v *DuplicateValidator) Name() string { return "duplicate" }

func (v *DuplicateValidator) Validate(q *course.Quiz, input Input) *ValidationError {
	asked := input.Prior
	if input.Lesson != nil {
		asked = append([]string{input.Lesson.Quiz.Question}, asked...)
	}
	norm := normalize(q.Question)
	for _, p := range asked {
		if normalize(p) == norm {
			return &ValidationError{Validator: v.Name(), Message: "question was already asked"}
		}
	}
	return nil
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimRight(s, "?. "))), " ")
}
