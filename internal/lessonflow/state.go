package lessonflow

// State is where a lesson screen is in its narration/timer lifecycle.
type State int

const (
	StateInit      State = iota // waiting for the screen reader probe
	StateNarrating              // gate closed, timer armed, script playing
	StateReady                  // narration over, about to open the gate
	StateRunning                // gate open, timer running, input accepted
	StateAnswered               // learner verified an answer
	StateCompleted              // flow finished without an answer
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateNarrating:
		return "narrating"
	case StateReady:
		return "ready"
	case StateRunning:
		return "running"
	case StateAnswered:
		return "answered"
	case StateCompleted:
		return "completed"
	}
	return "unknown"
}

// Terminal reports whether no further transitions happen on this unit.
func (s State) Terminal() bool {
	return s == StateAnswered || s == StateCompleted
}

// Event tells the owning flow what a handled message meant.
type Event int

const (
	EventNone     Event = iota
	EventRunning        // gate opened, input accepted
	EventTick           // countdown advanced
	EventExpired        // countdown reached zero
	EventDeferred       // a DeferredMsg for this controller arrived
)
