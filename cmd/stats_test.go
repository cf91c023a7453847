package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/codiz/internal/store"
)

func TestPrintStats(t *testing.T) {
	var buf bytes.Buffer
	printStats(&buf,
		store.LessonStats{Attempts: 2, Correct: 1, Errors: 1, Expired: 1, XP: 100},
		[]store.LessonResult{
			{Timestamp: time.Now(), CourseID: "data-types", Lesson: 5, Errors: 1, Speed: "30s", Expired: true, ScreenReader: true},
			{Timestamp: time.Now(), CourseID: "data-types", Lesson: 5, Correct: 1, Speed: "12s"},
		},
		store.LLMUsage{Requests: 3, Failures: 1, InputTokens: 300, OutputTokens: 90},
	)
	out := buf.String()

	for _, want := range []string{"Lessons:  2", "XP:       100", "30s ⏱", "12s", "3 requests (1 failed)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintStatsEmpty(t *testing.T) {
	var buf bytes.Buffer
	printStats(&buf, store.LessonStats{}, nil, store.LLMUsage{})
	if got := buf.String(); got != "No lessons finished yet.\n" {
		t.Errorf("unexpected output %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("data-types", 20); got != "data-types" {
		t.Errorf("short string changed: %q", got)
	}
	if got := truncate("control-structures", 8); got != "control…" {
		t.Errorf("truncate = %q", got)
	}
}
