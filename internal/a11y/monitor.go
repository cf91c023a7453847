package a11y

import (
	"context"
	"sync"
	"time"

	"github.com/abhisek/codiz/internal/logger"
)

// Unsubscribe removes a subscription. Calling it more than once is a no-op.
type Unsubscribe func()

// ScreenReaderChangedMsg is sent into the program when the screen reader
// state flips while the app is running.
type ScreenReaderChangedMsg struct {
	Active bool
}

// Monitor is the single source of truth for whether a screen reader is
// active. It is shared by every screen and safe for concurrent use; all other
// narration state lives inside the event loop.
type Monitor struct {
	detector Detector
	cfg      Config
	log      *logger.Logger

	mu     sync.Mutex
	probed bool
	active bool
	nextID int
	subs   map[int]func(bool)
}

// NewMonitor creates a Monitor backed by detector.
func NewMonitor(detector Detector, cfg Config, log *logger.Logger) *Monitor {
	if detector == nil {
		detector = Static(false)
	}
	return &Monitor{
		detector: detector,
		cfg:      cfg.withDefaults(),
		log:      logger.OrNop(log),
		subs:     make(map[int]func(bool)),
	}
}

// Probe returns the screen reader state, querying the platform only the
// first time. Failures resolve to inactive.
func (m *Monitor) Probe(ctx context.Context) bool {
	m.mu.Lock()
	if m.probed {
		active := m.active
		m.mu.Unlock()
		return active
	}
	m.mu.Unlock()
	return m.Refresh(ctx)
}

// Refresh queries the platform again and records the result.
func (m *Monitor) Refresh(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, m.cfg.ProbeTimeout)
	defer cancel()

	active, err := m.detector.ScreenReaderActive(ctx)
	if err != nil {
		m.log.Debug("screen reader probe failed, assuming inactive", "error", err)
		active = false
	}
	m.Set(active)
	return active
}

// Active returns the last known state without querying the platform.
func (m *Monitor) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// Set records a platform change notification. Subscribers run only on an
// actual transition, outside the lock.
func (m *Monitor) Set(active bool) {
	m.mu.Lock()
	first := !m.probed
	m.probed = true
	if m.active == active {
		m.mu.Unlock()
		return
	}
	m.active = active
	subs := make([]func(bool), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.Unlock()

	m.log.Info("screen reader state changed", "active", active, "initial", first)
	for _, fn := range subs {
		fn(active)
	}
}

// Subscribe registers onChange for state transitions.
func (m *Monitor) Subscribe(onChange func(active bool)) Unsubscribe {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.subs[id] = onChange
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subs, id)
			m.mu.Unlock()
		})
	}
}

// Watch polls the platform until ctx is done. interval <= 0 uses the
// configured PollInterval.
func (m *Monitor) Watch(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = m.cfg.PollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			m.Refresh(ctx)
		}
	}
}
