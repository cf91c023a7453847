package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/codiz/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show lesson history and totals",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		courseID, _ := cmd.Flags().GetString("course")

		st, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		opts := store.QueryOpts{CourseID: courseID}
		totals, err := st.Lessons().Stats(ctx, opts)
		if err != nil {
			return fmt.Errorf("query totals: %w", err)
		}
		opts.Limit = limit
		rows, err := st.Lessons().List(ctx, opts)
		if err != nil {
			return fmt.Errorf("query lessons: %w", err)
		}
		usage, err := st.EventRepo().LLMUsage(ctx)
		if err != nil {
			return fmt.Errorf("query llm usage: %w", err)
		}

		printStats(cmd.OutOrStdout(), totals, rows, usage)
		return nil
	},
}

func init() {
	statsCmd.Flags().Int("limit", 10, "Number of recent attempts to show")
	statsCmd.Flags().String("course", "", "Only show attempts for this course id")
}

func printStats(w io.Writer, totals store.LessonStats, rows []store.LessonResult, usage store.LLMUsage) {
	if totals.Attempts == 0 {
		fmt.Fprintln(w, "No lessons finished yet.")
	} else {
		fmt.Fprintf(w, "Lessons:  %d (%d correct, %d with errors, %d timed out)\n",
			totals.Attempts, totals.Correct, totals.Errors, totals.Expired)
		fmt.Fprintf(w, "XP:       %d\n", totals.XP)

		fmt.Fprintln(w)
		fmt.Fprintf(w, "%-19s  %-14s  %6s  %8s  %7s  %6s  %s\n",
			"Timestamp", "Course", "Lesson", "Aciertos", "Errores", "Rapidez", "Reader")
		fmt.Fprintln(w, strings.Repeat("─", 80))
		for _, r := range rows {
			reader := ""
			if r.ScreenReader {
				reader = "✓"
			}
			speed := r.Speed
			if r.Expired {
				speed += " ⏱"
			}
			fmt.Fprintf(w, "%-19s  %-14s  %6d  %8d  %7d  %6s  %s\n",
				r.Timestamp.Local().Format("2006-01-02 15:04:05"),
				truncate(r.CourseID, 14),
				r.Lesson, r.Correct, r.Errors, speed, reader)
		}
	}

	if usage.Requests > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Practice questions: %d requests (%d failed), %d tokens in / %d out\n",
			usage.Requests, usage.Failures, usage.InputTokens, usage.OutputTokens)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
