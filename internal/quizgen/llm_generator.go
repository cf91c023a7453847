package quizgen

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/abhisek/codiz/internal/course"
	"github.com/abhisek/codiz/internal/llm"
)

// LLMGenerator implements Generator with an llm.Provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
}

// New creates an LLMGenerator.
func New(provider llm.Provider, cfg Config) *LLMGenerator {
	return &LLMGenerator{provider: provider, config: cfg}
}

// quizOutput is the raw model response before validation.
type quizOutput struct {
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
	Explanation  string   `json:"explanation"`
}

func (g *LLMGenerator) Generate(ctx context.Context, input Input) (*course.Quiz, error) {
	ctx = llm.WithPurpose(ctx, "practice-quiz")

	resp, err := g.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Messages:    llm.User(buildUserMessage(input, g.config)),
		Schema:      QuizSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("generate practice quiz: %w", err)
	}

	var raw quizOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("parse practice quiz: %w", err)
	}

	q := &course.Quiz{
		Question:    raw.Question,
		Explanation: raw.Explanation,
		TimeLimit:   g.config.TimeLimit,
	}
	if input.Lesson != nil && input.Lesson.Quiz.TimeLimit > 0 {
		q.TimeLimit = input.Lesson.Quiz.TimeLimit
	}
	for i, text := range raw.Options {
		q.Options = append(q.Options, course.Option{Text: text, Correct: i == raw.CorrectIndex})
	}

	for _, v := range g.config.Validators {
		if verr := v.Validate(q, input); verr != nil {
			return nil, verr
		}
	}
	return q, nil
}
