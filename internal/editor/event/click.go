package event

import "time"

// ClickTracker synthesises Click and DoubleClick messages from left button
// press/release pairs for surfaces that do not report clicks themselves.
type ClickTracker struct {
	// Slop is the maximum pointer travel in pixels for a press and release to
	// count as a click.
	Slop float32
	// Window is the maximum time between two clicks of a double click.
	Window time.Duration

	down      bool
	downX     float32
	downY     float32
	lastClick time.Time
	lastX     float32
	lastY     float32
	armed     bool
}

// NewClickTracker creates a tracker with the given slop and double-click window.
func NewClickTracker(slop float32, window time.Duration) *ClickTracker {
	return &ClickTracker{Slop: slop, Window: window}
}

// Down records a press.
func (c *ClickTracker) Down(e PointerDown) {
	if e.Button != ButtonLeft {
		return
	}
	c.down = true
	c.downX, c.downY = e.X, e.Y
}

// Up records a release and returns the synthesised messages, if any. A
// double click is reported after the click that completes it.
func (c *ClickTracker) Up(e PointerUp) []Message {
	if e.Button != ButtonLeft || !c.down {
		return nil
	}
	c.down = false
	if !c.within(e.X, e.Y, c.downX, c.downY) {
		c.armed = false
		return nil
	}

	out := []Message{Click{X: e.X, Y: e.Y}}
	if c.armed && e.Time.Sub(c.lastClick) <= c.Window && c.within(e.X, e.Y, c.lastX, c.lastY) {
		out = append(out, DoubleClick{X: e.X, Y: e.Y})
		c.armed = false
		return out
	}
	c.armed = true
	c.lastClick = e.Time
	c.lastX, c.lastY = e.X, e.Y
	return out
}

// Reset forgets any pending press or click.
func (c *ClickTracker) Reset() {
	c.down = false
	c.armed = false
}

func (c *ClickTracker) within(x, y, ox, oy float32) bool {
	dx, dy := x-ox, y-oy
	return dx*dx+dy*dy <= c.Slop*c.Slop
}
