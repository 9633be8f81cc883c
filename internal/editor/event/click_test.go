package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClickTracker(t *testing.T) {
	t0 := time.Unix(100, 0)
	ms := func(n int) time.Time { return t0.Add(time.Duration(n) * time.Millisecond) }

	tests := []struct {
		name  string
		steps func(c *ClickTracker) []Message
		want  []Message
	}{
		{
			name: "single click",
			steps: func(c *ClickTracker) []Message {
				c.Down(PointerDown{X: 10, Y: 10, Time: ms(0)})
				return c.Up(PointerUp{X: 11, Y: 10, Time: ms(50)})
			},
			want: []Message{Click{X: 11, Y: 10}},
		},
		{
			name: "drag is not a click",
			steps: func(c *ClickTracker) []Message {
				c.Down(PointerDown{X: 10, Y: 10, Time: ms(0)})
				return c.Up(PointerUp{X: 60, Y: 10, Time: ms(50)})
			},
			want: nil,
		},
		{
			name: "double click",
			steps: func(c *ClickTracker) []Message {
				c.Down(PointerDown{X: 10, Y: 10, Time: ms(0)})
				c.Up(PointerUp{X: 10, Y: 10, Time: ms(50)})
				c.Down(PointerDown{X: 10, Y: 10, Time: ms(150)})
				return c.Up(PointerUp{X: 11, Y: 11, Time: ms(200)})
			},
			want: []Message{Click{X: 11, Y: 11}, DoubleClick{X: 11, Y: 11}},
		},
		{
			name: "second click too late",
			steps: func(c *ClickTracker) []Message {
				c.Down(PointerDown{X: 10, Y: 10, Time: ms(0)})
				c.Up(PointerUp{X: 10, Y: 10, Time: ms(50)})
				c.Down(PointerDown{X: 10, Y: 10, Time: ms(900)})
				return c.Up(PointerUp{X: 10, Y: 10, Time: ms(950)})
			},
			want: []Message{Click{X: 10, Y: 10}},
		},
		{
			name: "second click elsewhere",
			steps: func(c *ClickTracker) []Message {
				c.Down(PointerDown{X: 10, Y: 10, Time: ms(0)})
				c.Up(PointerUp{X: 10, Y: 10, Time: ms(50)})
				c.Down(PointerDown{X: 80, Y: 80, Time: ms(100)})
				return c.Up(PointerUp{X: 80, Y: 80, Time: ms(150)})
			},
			want: []Message{Click{X: 80, Y: 80}},
		},
		{
			name: "right button ignored",
			steps: func(c *ClickTracker) []Message {
				c.Down(PointerDown{X: 10, Y: 10, Button: ButtonRight, Time: ms(0)})
				return c.Up(PointerUp{X: 10, Y: 10, Button: ButtonRight, Time: ms(20)})
			},
			want: nil,
		},
		{
			name: "release without press",
			steps: func(c *ClickTracker) []Message {
				return c.Up(PointerUp{X: 10, Y: 10, Time: ms(20)})
			},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClickTracker(4, 400*time.Millisecond)
			assert.Equal(t, tt.want, tt.steps(c))
		})
	}
}

func TestClickTrackerTripleClick(t *testing.T) {
	c := NewClickTracker(4, 400*time.Millisecond)
	t0 := time.Unix(0, 0)
	var doubles int
	for i := 0; i < 3; i++ {
		at := t0.Add(time.Duration(i*100) * time.Millisecond)
		c.Down(PointerDown{X: 5, Y: 5, Time: at})
		for _, m := range c.Up(PointerUp{X: 5, Y: 5, Time: at.Add(10 * time.Millisecond)}) {
			if _, ok := m.(DoubleClick); ok {
				doubles++
			}
		}
	}
	assert.Equal(t, 1, doubles)
}

func TestClickTrackerReset(t *testing.T) {
	c := NewClickTracker(4, 400*time.Millisecond)
	now := time.Unix(0, 0)
	c.Down(PointerDown{X: 1, Y: 1, Time: now})
	c.Up(PointerUp{X: 1, Y: 1, Time: now})
	c.Reset()
	c.Down(PointerDown{X: 1, Y: 1, Time: now})
	assert.Equal(t, []Message{Click{X: 1, Y: 1}}, c.Up(PointerUp{X: 1, Y: 1, Time: now}))
}
