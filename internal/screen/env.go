package screen

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/codiz/internal/course"
	"github.com/abhisek/codiz/internal/lessonflow"
	"github.com/abhisek/codiz/internal/logger"
	"github.com/abhisek/codiz/internal/profile"
	"github.com/abhisek/codiz/internal/quizgen"
	"github.com/abhisek/codiz/internal/store"
)

// storeTimeout bounds the store calls screens make from commands.
const storeTimeout = 5 * time.Second

// Env is what screens share: content, the narration stack and persistence.
// Lessons, Profile and Generator may be nil.
type Env struct {
	Catalog   *course.Catalog
	Flow      lessonflow.Deps
	Quiz      lessonflow.QuizConfig
	Lessons   store.LessonRepo
	Profile   profile.Store
	Generator quizgen.Generator
	Log       *logger.Logger
}

// Controller returns a fresh lesson flow controller for one screen.
func (e *Env) Controller() *lessonflow.Controller {
	return lessonflow.NewController(e.Flow)
}

// Logger never returns nil.
func (e *Env) Logger() *logger.Logger {
	return logger.OrNop(e.Log)
}

// Context returns a bounded context for a store call.
func (e *Env) Context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), storeTimeout)
}

// Announce speaks text when a screen reader is active. Screens without a
// controller use it for one-off confirmations.
func (e *Env) Announce(text string) {
	if e.Flow.Monitor == nil || e.Flow.Announcer == nil {
		return
	}
	ctx, cancel := e.Context()
	defer cancel()
	if e.Flow.Monitor.Probe(ctx) {
		e.Flow.Announcer.Announce(text)
	}
}

// StatsMsg carries the learner's totals for the header.
type StatsMsg struct {
	Stats store.LessonStats
}

// LoadStats reads lesson totals. Failures are logged and produce no message.
func (e *Env) LoadStats() tea.Cmd {
	if e.Lessons == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := e.Context()
		defer cancel()
		st, err := e.Lessons.Stats(ctx, store.QueryOpts{})
		if err != nil {
			e.Logger().Warn("failed to load lesson stats", "error", err)
			return nil
		}
		return StatsMsg{Stats: st}
	}
}
