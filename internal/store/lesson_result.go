package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

var lessonColumns = []string{
	"id", "sequence", "timestamp", "course_id", "lesson",
	"aciertos", "errores", "rapidez", "expired", "screen_reader", "xp",
}

type lessonRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *lessonRepo) Append(ctx context.Context, res *LessonResult) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}
	res.Sequence = seqNum
	if res.ID == "" {
		res.ID = uuid.New().String()
	}
	if res.Timestamp.IsZero() {
		res.Timestamp = time.Now()
	}

	query, args := builder().Insert(tableLessonResults).
		Columns(lessonColumns...).
		Values(
			res.ID, res.Sequence, res.Timestamp.UnixMilli(), res.CourseID, res.Lesson,
			res.Correct, res.Errors, res.Speed, res.Expired, res.ScreenReader, res.XP,
		).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save lesson result: %w", err)
	}
	return nil
}

func (r *lessonRepo) List(ctx context.Context, opts QueryOpts) ([]LessonResult, error) {
	b := builder()
	sel := b.Select(lessonColumns...).
		From(b.Table(tableLessonResults)).
		OrderBy(entsql.Desc("sequence"))
	if p := lessonFilter(opts); p != nil {
		sel.Where(p)
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query lesson results: %w", err)
	}
	defer rows.Close()

	var out []LessonResult
	for rows.Next() {
		var (
			res LessonResult
			ts  int64
		)
		if err := rows.Scan(
			&res.ID, &res.Sequence, &ts, &res.CourseID, &res.Lesson,
			&res.Correct, &res.Errors, &res.Speed, &res.Expired, &res.ScreenReader, &res.XP,
		); err != nil {
			return nil, fmt.Errorf("scan lesson result: %w", err)
		}
		res.Timestamp = time.UnixMilli(ts)
		out = append(out, res)
	}
	return out, rows.Err()
}

func (r *lessonRepo) Stats(ctx context.Context, opts QueryOpts) (LessonStats, error) {
	b := builder()
	sel := b.Select(
		entsql.Count("*"),
		"COALESCE("+entsql.Sum("aciertos")+", 0)",
		"COALESCE("+entsql.Sum("errores")+", 0)",
		"COALESCE("+entsql.Sum("expired")+", 0)",
		"COALESCE("+entsql.Sum("xp")+", 0)",
	).From(b.Table(tableLessonResults))
	if p := lessonFilter(opts); p != nil {
		sel.Where(p)
	}

	query, args := sel.Query()
	var st LessonStats
	err := r.db.QueryRowContext(ctx, query, args...).
		Scan(&st.Attempts, &st.Correct, &st.Errors, &st.Expired, &st.XP)
	if err != nil {
		return LessonStats{}, fmt.Errorf("lesson stats: %w", err)
	}
	return st, nil
}

func lessonFilter(opts QueryOpts) *entsql.Predicate {
	ps := rangePredicates(opts)
	if opts.CourseID != "" {
		ps = append(ps, entsql.EQ("course_id", opts.CourseID))
	}
	return and(ps)
}

// rangeFilter applies the sequence and time bounds shared by every table.
func rangeFilter(opts QueryOpts) *entsql.Predicate {
	return and(rangePredicates(opts))
}

func rangePredicates(opts QueryOpts) []*entsql.Predicate {
	var ps []*entsql.Predicate
	if opts.After > 0 {
		ps = append(ps, entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		ps = append(ps, entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		ps = append(ps, entsql.GTE("timestamp", opts.From.UnixMilli()))
	}
	if !opts.To.IsZero() {
		ps = append(ps, entsql.LTE("timestamp", opts.To.UnixMilli()))
	}
	return ps
}

func and(ps []*entsql.Predicate) *entsql.Predicate {
	switch len(ps) {
	case 0:
		return nil
	case 1:
		return ps[0]
	}
	return entsql.And(ps...)
}
