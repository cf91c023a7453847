package lessonflow

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/codiz/internal/course"
)

// FlashcardFlow pages through a lesson's cards. Each card is its own
// narrated, untimed unit.
type FlashcardFlow struct {
	ctl   *Controller
	title string
	cards []course.Flashcard
	index int
}

// NewFlashcardFlow binds cards to a controller. cards must not be empty.
func NewFlashcardFlow(ctl *Controller, lessonTitle string, cards []course.Flashcard) *FlashcardFlow {
	return &FlashcardFlow{ctl: ctl, title: lessonTitle, cards: cards}
}

func (f *FlashcardFlow) Controller() *Controller { return f.ctl }
func (f *FlashcardFlow) Index() int              { return f.index }
func (f *FlashcardFlow) Len() int                { return len(f.cards) }
func (f *FlashcardFlow) Card() course.Flashcard  { return f.cards[f.index] }
func (f *FlashcardFlow) Title() string           { return f.title }

// Progress is the share of cards reached, in (0, 1].
func (f *FlashcardFlow) Progress() float64 {
	return float64(f.index+1) / float64(len(f.cards))
}

func (f *FlashcardFlow) unit() Unit {
	return Unit{Script: FlashcardScript(f.ctl.deps.A11y, f.title, f.cards, f.index)}
}

// Mount narrates the first card.
func (f *FlashcardFlow) Mount() tea.Cmd {
	f.index = 0
	return f.ctl.Mount(f.unit())
}

// Unmount cancels pending narration.
func (f *FlashcardFlow) Unmount() {
	f.ctl.Unmount()
}

// Next moves forward. finished is true when the last card was showing.
func (f *FlashcardFlow) Next() (finished bool, cmd tea.Cmd) {
	if !f.ctl.Interactive() {
		return false, nil
	}
	if f.index >= len(f.cards)-1 {
		f.ctl.Finish(StateCompleted)
		return true, nil
	}
	f.index++
	return false, f.ctl.Load(f.unit())
}

// Prev moves back one card; a no-op on the first.
func (f *FlashcardFlow) Prev() tea.Cmd {
	if !f.ctl.Interactive() || f.index == 0 {
		return nil
	}
	f.index--
	return f.ctl.Load(f.unit())
}

// Update forwards controller traffic.
func (f *FlashcardFlow) Update(msg tea.Msg) tea.Cmd {
	_, cmd := f.ctl.Update(msg)
	return cmd
}
