package a11y

// Gate blocks or exposes a screen's interactive region. While blocked the
// screen shows only an overlay whose text is the whole narration, so a reader
// that ignores timed announcements can still read everything on demand.
type Gate struct {
	blocked bool
	label   string
}

// NewGate returns a gate, blocked when the screen reader is already active at
// mount.
func NewGate(blocked bool) *Gate {
	return &Gate{blocked: blocked}
}

// Close blocks interaction and sets the overlay description.
func (g *Gate) Close(label string) {
	g.blocked = true
	g.label = label
}

// Open removes the overlay.
func (g *Gate) Open() {
	g.blocked = false
	g.label = ""
}

// IsBlocked reports whether the overlay is up.
func (g *Gate) IsBlocked() bool { return g.blocked }

// OverlayLabel is the overlay's accessible description ("" when open).
func (g *Gate) OverlayLabel() string { return g.label }
