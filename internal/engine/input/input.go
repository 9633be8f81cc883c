// Package input translates SDL2 events into editor messages.
package input

import (
	"time"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/tekalign/internal/editor/event"
)

// Capturer keeps pointer events flowing while a button is held.
type Capturer interface {
	Capture(on bool)
}

// Input polls SDL and converts what it finds.
type Input struct {
	messages []event.Message
	capture  Capturer
	held     int
	quit     bool
}

// New creates an input handler. capture may be nil.
func New(capture Capturer) *Input {
	return &Input{
		messages: make([]event.Message, 0, 16),
		capture:  capture,
	}
}

// Update polls SDL events and converts them to messages.
// Returns true if the application should quit.
func (i *Input) Update() bool {
	i.messages = i.messages[:0]

	for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
		switch e := ev.(type) {
		case *sdl.QuitEvent:
			i.quit = true

		case *sdl.WindowEvent:
			switch e.Event {
			case sdl.WINDOWEVENT_SIZE_CHANGED:
				i.messages = append(i.messages, event.Resize{Width: int(e.Data1), Height: int(e.Data2)})
			case sdl.WINDOWEVENT_LEAVE:
				// a captured drag still gets its button-up
				if i.held == 0 {
					i.messages = append(i.messages, event.PointerLeave{})
				}
			case sdl.WINDOWEVENT_FOCUS_LOST:
				i.held = 0
				if i.capture != nil {
					i.capture.Capture(false)
				}
				i.messages = append(i.messages, event.PointerLeave{})
			}

		case *sdl.KeyboardEvent:
			if e.Type == sdl.KEYDOWN && e.Repeat == 0 {
				i.messages = append(i.messages, event.KeyDown{Key: sdl.GetKeyName(e.Keysym.Sym)})
			}

		case *sdl.MouseMotionEvent:
			i.messages = append(i.messages, event.PointerMove{X: float32(e.X), Y: float32(e.Y)})

		case *sdl.MouseButtonEvent:
			b, ok := button(e.Button)
			if !ok {
				continue
			}
			now := time.Now()
			if e.Type == sdl.MOUSEBUTTONDOWN {
				i.press(true)
				i.messages = append(i.messages, event.PointerDown{X: float32(e.X), Y: float32(e.Y), Button: b, Time: now})
			} else {
				i.press(false)
				i.messages = append(i.messages, event.PointerUp{X: float32(e.X), Y: float32(e.Y), Button: b, Time: now})
			}

		case *sdl.MouseWheelEvent:
			i.messages = append(i.messages, event.Wheel{Delta: float32(e.Y)})
		}
	}

	return i.quit
}

// press tracks held buttons and captures the pointer while any is down.
func (i *Input) press(down bool) {
	if down {
		i.held++
	} else if i.held > 0 {
		i.held--
	}
	if i.capture != nil {
		i.capture.Capture(i.held > 0)
	}
}

func button(b uint8) (event.Button, bool) {
	switch b {
	case sdl.BUTTON_LEFT:
		return event.ButtonLeft, true
	case sdl.BUTTON_MIDDLE:
		return event.ButtonMiddle, true
	case sdl.BUTTON_RIGHT:
		return event.ButtonRight, true
	}
	return 0, false
}

// Messages returns the messages from the last Update.
func (i *Input) Messages() []event.Message {
	return i.messages
}
