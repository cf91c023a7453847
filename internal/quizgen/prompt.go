package quizgen

import (
	"fmt"
	"strings"
)

const systemPrompt = `You write practice questions for beginners learning to program.

Rules:
- Write a single multiple choice question about the given lesson.
- Use plain text only. No markdown, no code fences. The question is read aloud by screen readers, so spell out symbols when they matter.
- Keep the question under 200 characters and each option under 60 characters.
- Give exactly 3 options where exactly one is correct. Distractors should reflect common beginner mistakes.
- The explanation should be one or two short sentences.
- Do not repeat any question from the "already asked" list.`

// buildUserMessage describes the lesson and prior questions.
func buildUserMessage(input Input, cfg Config) string {
	var b strings.Builder

	if input.Course != nil {
		fmt.Fprintf(&b, "Course: %s\n", input.Course.Title)
	}
	if l := input.Lesson; l != nil {
		fmt.Fprintf(&b, "Lesson %d: %s (%s)\n", l.Number, l.Title, l.Subtitle)
		b.WriteString("\nLesson content:\n")
		for _, c := range l.Flashcards {
			fmt.Fprintf(&b, "- %s: %s\n", c.Subtitle, c.Body)
		}
		if l.Quiz.Question != "" {
			fmt.Fprintf(&b, "\nThe lesson quiz already asks: %s\n", l.Quiz.Question)
		}
	}

	b.WriteString("\nAlready asked:\n")
	b.WriteString(buildDedup(input.Prior, cfg.MaxPrior))
	return b.String()
}

// buildDedup lists the most recent max prior questions, or "None".
func buildDedup(prior []string, max int) string {
	if len(prior) == 0 {
		return "None"
	}
	if max > 0 && len(prior) > max {
		prior = prior[len(prior)-max:]
	}

	var b strings.Builder
	for i, q := range prior {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q)
	}
	return strings.TrimRight(b.String(), "\n")
}
