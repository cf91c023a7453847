package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "codiz.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	for _, table := range []string{tableKV, tableLessonResults, tableLLMEvents, "global_sequence"} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Fatalf("query sqlite_master for %s: %v", table, err)
		}
		if name != table {
			t.Errorf("table name = %q, want %q", name, table)
		}
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "codiz.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.KV().Set(ctx, "profile.email", "ana@example.com"); err != nil {
		t.Fatalf("set: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	got, err := s.KV().Get(ctx, "profile.email")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "ana@example.com" {
		t.Errorf("value = %q, want ana@example.com", got)
	}
}

func TestKV(t *testing.T) {
	s := openTestStore(t)
	kv := s.KV()
	ctx := context.Background()

	if _, err := kv.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get missing: err = %v, want ErrNotFound", err)
	}

	if err := kv.Set(ctx, "k", "one"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := kv.Set(ctx, "k", "two"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err := kv.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "two" {
		t.Errorf("value = %q, want two", got)
	}

	if err := kv.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := kv.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete twice: %v", err)
	}
	if _, err := kv.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Errorf("get after delete: err = %v, want ErrNotFound", err)
	}
}

func TestLessonResults(t *testing.T) {
	s := openTestStore(t)
	repo := s.Lessons()
	ctx := context.Background()

	base := time.Now().Truncate(time.Millisecond)
	inputs := []LessonResult{
		{CourseID: "data-types", Lesson: 5, Correct: 1, Speed: "12s", XP: 50, Timestamp: base},
		{CourseID: "data-types", Lesson: 5, Errors: 1, Speed: "30s", Expired: true, ScreenReader: true, XP: 50, Timestamp: base.Add(time.Minute)},
		{CourseID: "functions", Lesson: 1, Correct: 1, Speed: "7s", XP: 50, Timestamp: base.Add(2 * time.Minute)},
	}
	for i := range inputs {
		if err := repo.Append(ctx, &inputs[i]); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
		if inputs[i].ID == "" {
			t.Errorf("append %d: id not assigned", i)
		}
	}

	all, err := repo.List(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len = %d, want 3", len(all))
	}
	if all[0].CourseID != "functions" || all[2].Speed != "12s" {
		t.Errorf("unexpected order: %+v", all)
	}
	if !all[1].Expired || !all[1].ScreenReader {
		t.Errorf("flags not round-tripped: %+v", all[1])
	}
	if !all[2].Timestamp.Equal(base) {
		t.Errorf("timestamp = %v, want %v", all[2].Timestamp, base)
	}

	dt, err := repo.List(ctx, QueryOpts{CourseID: "data-types", Limit: 1})
	if err != nil {
		t.Fatalf("list filtered: %v", err)
	}
	if len(dt) != 1 || dt[0].Speed != "30s" {
		t.Errorf("filtered = %+v, want the expired attempt", dt)
	}

	after, err := repo.List(ctx, QueryOpts{After: inputs[0].Sequence})
	if err != nil {
		t.Fatalf("list after: %v", err)
	}
	if len(after) != 2 {
		t.Errorf("after = %d results, want 2", len(after))
	}

	st, err := repo.Stats(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	want := LessonStats{Attempts: 3, Correct: 2, Errors: 1, Expired: 1, XP: 150}
	if st != want {
		t.Errorf("stats = %+v, want %+v", st, want)
	}
}

func TestLessonStatsEmpty(t *testing.T) {
	s := openTestStore(t)
	st, err := s.Lessons().Stats(context.Background(), QueryOpts{})
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st != (LessonStats{}) {
		t.Errorf("stats = %+v, want zero", st)
	}
}

func TestLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "anthropic", Model: "m", Purpose: "quizgen", InputTokens: 100, OutputTokens: 40, Success: true},
		{Provider: "anthropic", Model: "m", Purpose: "quizgen", InputTokens: 90, Success: false, ErrorMessage: "rate limit"},
	}
	for i, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	u, err := repo.LLMUsage(ctx)
	if err != nil {
		t.Fatalf("usage: %v", err)
	}
	want := LLMUsage{Requests: 2, Failures: 1, InputTokens: 190, OutputTokens: 40}
	if u != want {
		t.Errorf("usage = %+v, want %+v", u, want)
	}

	list, err := repo.ListLLMRequests(ctx, QueryOpts{Limit: 1})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 event, got %d", len(list))
	}
	if list[0].ErrorMessage != "rate limit" || list[0].Success {
		t.Errorf("expected newest event first, got %+v", list[0])
	}
	if list[0].Timestamp.IsZero() {
		t.Error("timestamp not set")
	}
}

func TestReset(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.KV().Set(ctx, "k", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Lessons().Append(ctx, &LessonResult{CourseID: "c", Lesson: 1, Speed: "1s"}); err != nil {
		t.Fatalf("append: %v", err)
	}

	if err := s.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}

	if _, err := s.KV().Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Errorf("kv survived reset: %v", err)
	}
	st, err := s.Lessons().Stats(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.Attempts != 0 {
		t.Errorf("attempts = %d after reset, want 0", st.Attempts)
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()
	ctx := context.Background()

	sc, err := newSequenceCounter(db)
	if err != nil {
		t.Fatalf("new sequence counter: %v", err)
	}

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := sc.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	// Should be monotonically increasing starting from 1.
	for i, seq := range seqs {
		expected := int64(i + 1)
		if seq != expected {
			t.Errorf("seq[%d] = %d, want %d", i, seq, expected)
		}
	}
}

func TestDefaultDBPathFromEnv(t *testing.T) {
	want := filepath.Join(t.TempDir(), "nested", "x.db")
	t.Setenv("CODIZ_DB", want)

	got, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("default path: %v", err)
	}
	if got != want {
		t.Errorf("path = %q, want %q", got, want)
	}
}
