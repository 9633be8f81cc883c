// Package event defines the typed messages the editor consumes.
//
// The render surface translates its native events into these values and the
// editor dispatches them in arrival order on the UI goroutine.
package event

import (
	"time"

	"github.com/Faultbox/tekalign/internal/engine/mesh"
)

// Button identifies a pointer button.
type Button int

const (
	ButtonLeft Button = iota
	ButtonMiddle
	ButtonRight
)

// Message is any editor input.
type Message interface {
	isMessage()
}

// PointerDown is a button press at surface pixel coordinates.
type PointerDown struct {
	X, Y   float32
	Button Button
	Time   time.Time
}

// PointerMove is a pointer motion sample.
type PointerMove struct {
	X, Y float32
}

// PointerUp is a button release.
type PointerUp struct {
	X, Y   float32
	Button Button
	Time   time.Time
}

// PointerLeave is sent when the pointer exits the surface or focus is lost.
type PointerLeave struct{}

// Click is a press and release without significant motion.
type Click struct {
	X, Y float32
}

// DoubleClick is the second click of a pair within the double-click window.
type DoubleClick struct {
	X, Y float32
}

// Wheel is a scroll step; positive zooms in.
type Wheel struct {
	Delta float32
}

// KeyDown carries the surface's key name, for example "Delete" or "W".
type KeyDown struct {
	Key string
}

// Resize reports the new surface size in pixels.
type Resize struct {
	Width, Height int
}

// Ticket identifies one asynchronous part load.
type Ticket = uint64

// PartReady is posted when an asynchronous part load completes. Mesh is nil
// when Err is set.
type PartReady struct {
	Ticket Ticket
	Path   string
	Mesh   *mesh.Mesh
	Err    error
}

func (PointerDown) isMessage()  {}
func (PointerMove) isMessage()  {}
func (PointerUp) isMessage()    {}
func (PointerLeave) isMessage() {}
func (Click) isMessage()        {}
func (DoubleClick) isMessage()  {}
func (Wheel) isMessage()        {}
func (KeyDown) isMessage()      {}
func (Resize) isMessage()       {}
func (PartReady) isMessage()    {}
