package quizgen

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/codiz/internal/course"
	"github.com/abhisek/codiz/internal/llm"
)

func testInput(t *testing.T) Input {
	t.Helper()
	cat, err := course.Default()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	co, ok := cat.Course("data-types")
	if !ok {
		t.Fatal("data-types course missing")
	}
	l, ok := co.Lesson(5)
	if !ok {
		t.Fatal("lesson 5 missing")
	}
	return Input{Course: co, Lesson: l}
}

func validQuizJSON() json.RawMessage {
	return json.RawMessage(`{
		"question": "Which type stores true or false?",
		"options": ["String", "Boolean", "Integer"],
		"correct_index": 1,
		"explanation": "A boolean holds one of two values, true or false."
	}`)
}

func TestGenerate_HappyPath(t *testing.T) {
	fake := llm.NewFake(llm.Reply{Content: validQuizJSON()})
	q, err := New(fake, DefaultConfig()).Generate(context.Background(), testInput(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Question != "Which type stores true or false?" {
		t.Fatalf("question = %q", q.Question)
	}
	if len(q.Options) != 3 || q.CorrectIndex() != 1 {
		t.Fatalf("unexpected options: %+v", q.Options)
	}
	if q.TimeLimit != 30*time.Second {
		t.Fatalf("time limit = %s", q.TimeLimit)
	}

	calls := fake.Calls()
	if len(calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(calls))
	}
	if calls[0].Schema != QuizSchema {
		t.Fatal("quiz schema not requested")
	}
	if !strings.Contains(calls[0].Messages[0].Content, "Lesson 5: Data types") {
		t.Fatalf("lesson missing from prompt:\n%s", calls[0].Messages[0].Content)
	}
}

func TestGenerate_SchemaViolation(t *testing.T) {
	fake := llm.NewFake(llm.Reply{Content: json.RawMessage(`{"question":"q","options":["a","b"],"correct_index":0,"explanation":"e"}`)})
	_, err := New(fake, DefaultConfig()).Generate(context.Background(), testInput(t))
	if !errors.Is(err, llm.ErrInvalidResponse) {
		t.Fatalf("expected ErrInvalidResponse, got %v", err)
	}
}

func TestGenerate_ProviderError(t *testing.T) {
	_, err := New(llm.NewFake(), DefaultConfig()).Generate(context.Background(), testInput(t))
	if !errors.Is(err, llm.ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestGenerate_RejectsLessonQuestion(t *testing.T) {
	in := testInput(t)
	dup := json.RawMessage(`{
		"question": "` + in.Lesson.Quiz.Question + `",
		"options": ["Integers", "Decimals", "Negatives"],
		"correct_index": 1,
		"explanation": "Floats hold decimals."
	}`)
	_, err := New(llm.NewFake(llm.Reply{Content: dup}), DefaultConfig()).Generate(context.Background(), in)

	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Validator != "duplicate" {
		t.Fatalf("expected duplicate validation error, got %v", err)
	}
}

func TestBuildDedup(t *testing.T) {
	if got := buildDedup(nil, 8); got != "None" {
		t.Fatalf("got %q", got)
	}
	got := buildDedup([]string{"a", "b", "c"}, 2)
	if got != "1. b\n2. c" {
		t.Fatalf("got %q", got)
	}
}
