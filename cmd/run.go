package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/codiz/internal/a11y"
	"github.com/abhisek/codiz/internal/app"
	"github.com/abhisek/codiz/internal/course"
	"github.com/abhisek/codiz/internal/lessonflow"
	"github.com/abhisek/codiz/internal/llm"
	"github.com/abhisek/codiz/internal/logger"
	"github.com/abhisek/codiz/internal/quizgen"
	"github.com/abhisek/codiz/internal/screen"
)

// transcriptSize is how many announcements the live region remembers.
const transcriptSize = 20

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()

	st, cfg, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	log, err := logger.New(cfg.LogMode, cfg.LogFile)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer log.Sync()

	catalog, err := course.Default()
	if err != nil {
		return fmt.Errorf("load courses: %w", err)
	}

	transcript := a11y.NewTranscript(transcriptSize)
	announcers := a11y.Multi{transcript}
	if speech := a11y.NewSpeech(cfg.Speech, log); speech != nil {
		announcers = append(announcers, speech)
	}
	monitor := a11y.NewMonitor(a11y.PlatformDetector(cfg.ScreenReader), cfg.A11y, log)

	env := &screen.Env{
		Catalog: catalog,
		Flow: lessonflow.Deps{
			Monitor:   monitor,
			Announcer: a11y.Logged(announcers, log),
			A11y:      cfg.A11y,
			Countdown: cfg.Countdown,
			Log:       log,
		},
		Quiz:    cfg.Quiz,
		Lessons: st.Lessons(),
		Profile: st.KV(),
		Log:     log,
	}

	provider, err := llm.New(ctx, cfg.LLM, st.EventRepo(), log)
	switch {
	case errors.Is(err, llm.ErrDisabled):
		log.Info("no LLM provider configured, practice questions disabled")
	case err != nil:
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Practice questions will be unavailable.")
	default:
		env.Generator = quizgen.New(provider, quizgen.DefaultConfig())
	}

	log.Info("starting", "version", version, "screen_reader", cfg.ScreenReader, "llm", cfg.LLM.Provider)
	return app.Run(ctx, app.Options{
		Env:          env,
		Monitor:      monitor,
		Transcript:   transcript,
		PollInterval: cfg.A11y.PollInterval,
		Log:          log,
	})
}
