package a11y

import (
	"context"
	"os/exec"
	"strings"
	"sync"

	"github.com/abhisek/codiz/internal/logger"
)

// Announcer speaks a message through the accessibility service. It is
// fire-and-forget: there is no completion or success signal.
type Announcer interface {
	Announce(text string)
}

// AnnouncerFunc adapts a function to Announcer.
type AnnouncerFunc func(text string)

func (f AnnouncerFunc) Announce(text string) { f(text) }

// Multi fans an announcement out to several announcers.
type Multi []Announcer

func (m Multi) Announce(text string) {
	for _, a := range m {
		if a != nil {
			a.Announce(text)
		}
	}
}

// Transcript keeps recent announcements so the UI can render them as a live
// region a terminal screen reader will pick up.
type Transcript struct {
	mu      sync.Mutex
	limit   int
	entries []string
}

// NewTranscript keeps at most limit entries.
func NewTranscript(limit int) *Transcript {
	if limit <= 0 {
		limit = 20
	}
	return &Transcript{limit: limit}
}

func (t *Transcript) Announce(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = append(t.entries, text)
	if len(t.entries) > t.limit {
		t.entries = t.entries[len(t.entries)-t.limit:]
	}
}

// Last returns the most recent announcement or "".
func (t *Transcript) Last() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.entries) == 0 {
		return ""
	}
	return t.entries[len(t.entries)-1]
}

// Entries returns a copy of the retained announcements, oldest first.
func (t *Transcript) Entries() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.entries...)
}

// Speech hands announcements to an external speech command such as spd-say
// (speech-dispatcher, which Orca also uses). Each call starts the process and
// returns immediately.
type Speech struct {
	command []string
	log     *logger.Logger
}

// NewSpeech returns a Speech announcer for a command line such as
// "spd-say -C" (the text is appended as the last argument). It returns nil
// when the command is empty or not installed.
func NewSpeech(commandLine string, log *logger.Logger) *Speech {
	fields := strings.Fields(commandLine)
	if len(fields) == 0 {
		return nil
	}
	if _, err := exec.LookPath(fields[0]); err != nil {
		logger.OrNop(log).Warn("speech command not found, narration is text-only", "command", fields[0])
		return nil
	}
	return &Speech{command: fields, log: logger.OrNop(log)}
}

func (s *Speech) Announce(text string) {
	if s == nil || strings.TrimSpace(text) == "" {
		return
	}
	args := append(append([]string(nil), s.command[1:]...), text)
	cmd := exec.CommandContext(context.Background(), s.command[0], args...)
	if err := cmd.Start(); err != nil {
		s.log.Warn("speech command failed to start", "error", err)
		return
	}
	go func() { _ = cmd.Wait() }()
}

// Logged decorates an announcer with a debug log line per announcement.
func Logged(inner Announcer, log *logger.Logger) Announcer {
	log = logger.OrNop(log)
	return AnnouncerFunc(func(text string) {
		log.Debug("announce", "text", text)
		if inner != nil {
			inner.Announce(text)
		}
	})
}

// Recorder captures announcements in memory. Useful in tests and previews.
type Recorder struct {
	mu    sync.Mutex
	texts []string
}

func (r *Recorder) Announce(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.texts = append(r.texts, text)
}

// Texts returns a copy of everything announced so far.
func (r *Recorder) Texts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.texts...)
}

// Count returns how many announcements were made.
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.texts)
}

// Reset clears the recorded announcements.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.texts = nil
}
