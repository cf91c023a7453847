package lessonflow

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Result is the completion payload handed from a quiz to the feedback
// screen. Its JSON form is the stable wire format between lesson screens.
type Result struct {
	Correct int    `json:"aciertos"`
	Speed   string `json:"rapidez"`
	Errors  int    `json:"errores"`
}

// NewResult builds the payload for a verified answer after elapsed.
func NewResult(correct bool, elapsed time.Duration) Result {
	r := Result{Speed: FormatSpeed(elapsed)}
	if correct {
		r.Correct = 1
	} else {
		r.Errors = 1
	}
	return r
}

// ExpiredResult is the payload when the timer ran out unanswered.
func ExpiredResult(limit time.Duration) Result {
	return Result{Correct: 0, Speed: FormatSpeed(limit), Errors: 1}
}

// FormatSpeed floors d to whole seconds, as in "12s".
func FormatSpeed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return strconv.Itoa(int(d/time.Second)) + "s"
}

// Seconds parses Speed back into whole seconds.
func (r Result) Seconds() (int, error) {
	n, err := strconv.Atoi(strings.TrimSuffix(r.Speed, "s"))
	if err != nil {
		return 0, fmt.Errorf("parse rapidez %q: %w", r.Speed, err)
	}
	return n, nil
}

// Passed reports whether the answer was correct.
func (r Result) Passed() bool {
	return r.Correct > 0 && r.Errors == 0
}

// Encode renders the wire form.
func (r Result) Encode() ([]byte, error) {
	return json.Marshal(r)
}

// DecodeResult parses the wire form.
func DecodeResult(b []byte) (Result, error) {
	var r Result
	if err := json.Unmarshal(b, &r); err != nil {
		return Result{}, fmt.Errorf("decode lesson result: %w", err)
	}
	return r, nil
}
