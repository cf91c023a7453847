package lessonflow

import (
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/codiz/internal/a11y"
	"github.com/abhisek/codiz/internal/course"
)

// QuizScript narrates the intro with the question, the options, then the
// start cue.
func QuizScript(cfg a11y.Config, lessonTitle string, q course.Quiz) a11y.Script {
	secs := int(q.TimeLimit / time.Second)
	intro := fmt.Sprintf("Quiz on %s. Listen to the question and the options. The %d second timer starts afterwards. Question: %s",
		lessonTitle, secs, q.Question)
	return a11y.BuildScript(cfg,
		intro,
		OptionsText(q),
		fmt.Sprintf("Now! You have %d seconds.", secs),
	)
}

// OptionsText reads every option with its number.
func OptionsText(q course.Quiz) string {
	parts := make([]string, len(q.Options))
	for i, o := range q.Options {
		parts[i] = fmt.Sprintf("Option %d: %s", i+1, o.Text)
	}
	return strings.Join(parts, ". ") + "."
}

// FlashcardScript narrates card i of the lesson.
func FlashcardScript(cfg a11y.Config, lessonTitle string, cards []course.Flashcard, i int) a11y.Script {
	card := cards[i]
	var examples []string
	for _, e := range card.Examples {
		examples = append(examples, strings.TrimSpace(e.Label+" "+e.Description))
	}
	nav := "Press next to continue."
	if i == len(cards)-1 {
		nav = "Press next to start the quiz."
	}
	return a11y.BuildScript(cfg,
		fmt.Sprintf("%s. %s. Card %d of %d.", lessonTitle, card.Subtitle, i+1, len(cards)),
		card.Body,
		strings.Join(examples, ". "),
		nav,
	)
}

// FeedbackScript narrates the learner's stats.
func FeedbackScript(cfg a11y.Config, name string, xp int, r Result) a11y.Script {
	return a11y.BuildScript(cfg,
		fmt.Sprintf("Congratulations %s! You earned %d XP.", name, xp),
		fmt.Sprintf("Correct answers: %d. Speed: %s. Errors: %d.", r.Correct, r.Speed, r.Errors),
		"Press continue to go back to the levels.",
	)
}

// CourseMapScript narrates the course map summary.
func CourseMapScript(cfg a11y.Config, co *course.Course) a11y.Script {
	summary := fmt.Sprintf("%s. %d of %d levels completed.", co.Title, co.Progress, co.Total)
	next := "All levels completed."
	if cur, ok := co.Current(); ok {
		next = fmt.Sprintf("Current level: %d.", cur.Number)
		if cur.Lesson != nil {
			next = fmt.Sprintf("Current level: %d, %s. Press enter to start.", cur.Number, cur.Lesson.Subtitle)
		}
	}
	return a11y.BuildScript(cfg, summary, next)
}
