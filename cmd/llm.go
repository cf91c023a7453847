package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/codiz/internal/course"
	"github.com/abhisek/codiz/internal/llm"
	"github.com/abhisek/codiz/internal/logger"
	"github.com/abhisek/codiz/internal/quizgen"
	"github.com/abhisek/codiz/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Check the practice question provider and its usage",
}

var llmTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Generate one practice question with the configured provider",
	RunE: func(cmd *cobra.Command, args []string) error {
		courseID, _ := cmd.Flags().GetString("course")
		lessonNum, _ := cmd.Flags().GetInt("lesson")
		timeout, _ := cmd.Flags().GetDuration("timeout")

		st, cfg, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		catalog, err := course.Default()
		if err != nil {
			return fmt.Errorf("load courses: %w", err)
		}
		co, ok := catalog.Course(courseID)
		if !ok {
			return fmt.Errorf("unknown course %q", courseID)
		}
		lesson, ok := co.Lesson(lessonNum)
		if !ok {
			return fmt.Errorf("course %q has no lesson %d", courseID, lessonNum)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		provider, err := llm.New(ctx, cfg.LLM, st.EventRepo(), logger.Nop())
		if errors.Is(err, llm.ErrDisabled) {
			return fmt.Errorf("no LLM provider configured; set CODIZ_LLM_PROVIDER or an API key such as ANTHROPIC_API_KEY")
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Provider: %s (%s)\n\n", cfg.LLM.Provider, provider.Model())

		start := time.Now()
		q, err := quizgen.New(provider, quizgen.DefaultConfig()).Generate(ctx, quizgen.Input{Course: co, Lesson: lesson})
		if err != nil {
			return fmt.Errorf("generate: %w", err)
		}

		fmt.Fprintln(out, q.Question)
		for i, o := range q.Options {
			mark := " "
			if o.Correct {
				mark = "✓"
			}
			fmt.Fprintf(out, "  %s %d. %s\n", mark, i+1, o.Text)
		}
		if q.Explanation != "" {
			fmt.Fprintf(out, "\n%s\n", q.Explanation)
		}
		fmt.Fprintf(out, "\nGenerated in %s\n", time.Since(start).Round(time.Millisecond))
		return nil
	},
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		st, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		events, err := st.EventRepo().ListLLMRequests(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(out, "No LLM events found.")
			return nil
		}

		fmt.Fprintf(out, "%-5s  %-19s  %-14s  %-28s  %-6s  %-6s  %-7s  %s\n",
			"Seq", "Timestamp", "Purpose", "Model", "In", "Out", "Ms", "OK")
		fmt.Fprintln(out, strings.Repeat("─", 100))
		for _, e := range events {
			ok := "✓"
			if !e.Success {
				ok = "✗ " + e.ErrorMessage
			}
			fmt.Fprintf(out, "%-5d  %-19s  %-14s  %-28s  %-6d  %-6d  %-7d  %s\n",
				e.Sequence,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				truncate(e.Purpose, 14),
				truncate(e.Model, 28),
				e.InputTokens,
				e.OutputTokens,
				e.LatencyMs,
				ok,
			)
		}
		return nil
	},
}

func init() {
	llmTestCmd.Flags().String("course", "data-types", "Course id")
	llmTestCmd.Flags().Int("lesson", 5, "Lesson number")
	llmTestCmd.Flags().Duration("timeout", 60*time.Second, "Overall timeout")

	llmListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")

	llmCmd.AddCommand(llmTestCmd)
	llmCmd.AddCommand(llmListCmd)
}
