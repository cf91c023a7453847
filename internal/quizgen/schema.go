package quizgen

import "github.com/abhisek/codiz/internal/llm"

// QuizSchema is the structured output requested from the model.
var QuizSchema = &llm.Schema{
	Name:        "practice-quiz",
	Description: "One multiple choice programming question with three options",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question": map[string]any{
				"type":        "string",
				"description": "The question shown and read to the learner, plain text",
			},
			"options": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"minItems":    3,
				"maxItems":    3,
				"description": "Exactly 3 short answer options",
			},
			"correct_index": map[string]any{
				"type":        "integer",
				"minimum":     0,
				"maximum":     2,
				"description": "Zero-based index of the single correct option",
			},
			"explanation": map[string]any{
				"type":        "string",
				"description": "One or two sentences explaining the correct answer",
			},
		},
		"required":             []any{"question", "options", "correct_index", "explanation"},
		"additionalProperties": false,
	},
}
