package store

import (
	"context"
	"database/sql"
	"fmt"
)

const (
	tableKV            = "kv"
	tableLessonResults = "lesson_results"
	tableLLMEvents     = "llm_request_events"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS lesson_results (
		id TEXT PRIMARY KEY,
		sequence INTEGER NOT NULL UNIQUE,
		timestamp INTEGER NOT NULL,
		course_id TEXT NOT NULL,
		lesson INTEGER NOT NULL,
		aciertos INTEGER NOT NULL,
		errores INTEGER NOT NULL,
		rapidez TEXT NOT NULL,
		expired INTEGER NOT NULL DEFAULT 0,
		screen_reader INTEGER NOT NULL DEFAULT 0,
		xp INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS lesson_results_course ON lesson_results (course_id, lesson)`,
	`CREATE TABLE IF NOT EXISTS llm_request_events (
		sequence INTEGER PRIMARY KEY,
		timestamp INTEGER NOT NULL,
		provider TEXT NOT NULL,
		model TEXT NOT NULL,
		purpose TEXT NOT NULL,
		input_tokens INTEGER NOT NULL,
		output_tokens INTEGER NOT NULL,
		latency_ms INTEGER NOT NULL,
		success INTEGER NOT NULL,
		error_message TEXT NOT NULL DEFAULT ''
	)`,
}

func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
