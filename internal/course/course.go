// Package course holds the static lesson catalog: courses, their level maps,
// and the flashcards and quiz of each playable lesson.
package course

import (
	_ "embed"
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// DefaultQuizTime applies to quizzes that do not set time_limit.
const DefaultQuizTime = 30 * time.Second

// LevelStatus is how a level is drawn on the course map.
type LevelStatus string

const (
	LevelUnlocked LevelStatus = "unlocked"
	LevelCurrent  LevelStatus = "current"
	LevelLocked   LevelStatus = "locked"
)

// Catalog is the full set of courses.
type Catalog struct {
	Courses []Course `yaml:"courses"`
}

// Course is one entry in the course list.
type Course struct {
	ID          string   `yaml:"id"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Total       int      `yaml:"total"`
	Progress    int      `yaml:"progress"`
	Lessons     []Lesson `yaml:"lessons"`
}

// Lesson is the playable content behind one level.
type Lesson struct {
	Number     int         `yaml:"number"`
	Title      string      `yaml:"title"`
	Subtitle   string      `yaml:"subtitle"`
	Flashcards []Flashcard `yaml:"flashcards"`
	Quiz       Quiz        `yaml:"quiz"`
}

// Flashcard is a single reading card.
type Flashcard struct {
	Subtitle string    `yaml:"subtitle"`
	Body     string    `yaml:"body"`
	Examples []Example `yaml:"examples"`
}

// Example is a labelled row on a flashcard.
type Example struct {
	Label       string `yaml:"label"`
	Description string `yaml:"description"`
}

// Quiz is a single multiple-choice question with a time limit.
type Quiz struct {
	Question    string        `yaml:"question"`
	Options     []Option      `yaml:"options"`
	Explanation string        `yaml:"explanation"`
	TimeLimit   time.Duration `yaml:"time_limit"`
}

// Option is one answer choice.
type Option struct {
	Text    string `yaml:"text"`
	Correct bool   `yaml:"correct"`
}

// Level is a node on a course map.
type Level struct {
	Number int
	Status LevelStatus
	Lesson *Lesson
}

// Default parses the embedded catalog.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Parse decodes and validates a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	for i := range c.Courses {
		for j := range c.Courses[i].Lessons {
			q := &c.Courses[i].Lessons[j].Quiz
			if q.TimeLimit == 0 {
				q.TimeLimit = DefaultQuizTime
			}
		}
	}
	return &c, nil
}

// Validate checks catalog invariants.
func (c *Catalog) Validate() error {
	var errs []error
	seen := map[string]bool{}
	for _, co := range c.Courses {
		if co.ID == "" {
			errs = append(errs, errors.New("course with empty id"))
			continue
		}
		if seen[co.ID] {
			errs = append(errs, fmt.Errorf("duplicate course id %q", co.ID))
		}
		seen[co.ID] = true
		if co.Progress < 0 || co.Progress > co.Total {
			errs = append(errs, fmt.Errorf("course %q: progress %d outside 0..%d", co.ID, co.Progress, co.Total))
		}
		for _, l := range co.Lessons {
			if l.Number < 1 || l.Number > co.Total {
				errs = append(errs, fmt.Errorf("course %q: lesson %d outside level map", co.ID, l.Number))
			}
			if len(l.Flashcards) == 0 {
				errs = append(errs, fmt.Errorf("course %q lesson %d: no flashcards", co.ID, l.Number))
			}
			if err := l.Quiz.validate(); err != nil {
				errs = append(errs, fmt.Errorf("course %q lesson %d: %w", co.ID, l.Number, err))
			}
		}
	}
	return errors.Join(errs...)
}

func (q Quiz) validate() error {
	if q.Question == "" {
		return errors.New("quiz has no question")
	}
	if len(q.Options) < 2 {
		return fmt.Errorf("quiz needs at least 2 options, has %d", len(q.Options))
	}
	if q.CorrectIndex() < 0 {
		return errors.New("quiz has no correct option")
	}
	if q.TimeLimit < 0 {
		return errors.New("quiz time_limit is negative")
	}
	return nil
}

// Course looks up a course by id.
func (c *Catalog) Course(id string) (*Course, bool) {
	for i := range c.Courses {
		if c.Courses[i].ID == id {
			return &c.Courses[i], true
		}
	}
	return nil, false
}

// Playable reports whether the course has any lesson content.
func (co *Course) Playable() bool {
	return len(co.Lessons) > 0
}

// Lesson returns the lesson behind level n, if any.
func (co *Course) Lesson(n int) (*Lesson, bool) {
	for i := range co.Lessons {
		if co.Lessons[i].Number == n {
			return &co.Lessons[i], true
		}
	}
	return nil, false
}

// Status derives a level's state from the course progress.
func (co *Course) Status(n int) LevelStatus {
	switch {
	case n <= co.Progress:
		return LevelUnlocked
	case n == co.Progress+1:
		return LevelCurrent
	default:
		return LevelLocked
	}
}

// Levels returns the course map in order.
func (co *Course) Levels() []Level {
	out := make([]Level, 0, co.Total)
	for n := 1; n <= co.Total; n++ {
		lv := Level{Number: n, Status: co.Status(n)}
		if l, ok := co.Lesson(n); ok {
			lv.Lesson = l
		}
		out = append(out, lv)
	}
	return out
}

// Current returns the level the learner is on.
func (co *Course) Current() (Level, bool) {
	n := co.Progress + 1
	if n > co.Total {
		return Level{}, false
	}
	lv := Level{Number: n, Status: LevelCurrent}
	if l, ok := co.Lesson(n); ok {
		lv.Lesson = l
	}
	return lv, true
}

// Percent is the completed share of the course in [0, 100].
func (co *Course) Percent() int {
	if co.Total <= 0 {
		return 0
	}
	return co.Progress * 100 / co.Total
}

// CorrectIndex returns the index of the correct option, or -1.
func (q Quiz) CorrectIndex() int {
	for i, o := range q.Options {
		if o.Correct {
			return i
		}
	}
	return -1
}

// IsCorrect reports whether option i is the correct one.
func (q Quiz) IsCorrect(i int) bool {
	return i >= 0 && i < len(q.Options) && q.Options[i].Correct
}
