package input

import (
	"testing"

	"github.com/veandco/go-sdl2/sdl"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name  string
		event sdl.Event
		want  Event
		ok    bool
	}{
		{
			name:  "quit",
			event: &sdl.QuitEvent{Type: sdl.QUIT},
			want:  Event{Type: EventQuit},
			ok:    true,
		},
		{
			name:  "resize",
			event: &sdl.WindowEvent{Type: sdl.WINDOWEVENT, Event: sdl.WINDOWEVENT_SIZE_CHANGED, Data1: 1024, Data2: 768},
			want:  Event{Type: EventResize, Width: 1024, Height: 768},
			ok:    true,
		},
		{
			name:  "window close",
			event: &sdl.WindowEvent{Type: sdl.WINDOWEVENT, Event: sdl.WINDOWEVENT_CLOSE},
			want:  Event{Type: EventQuit},
			ok:    true,
		},
		{
			name:  "window focus ignored",
			event: &sdl.WindowEvent{Type: sdl.WINDOWEVENT, Event: sdl.WINDOWEVENT_FOCUS_GAINED},
		},
		{
			name:  "key down",
			event: &sdl.KeyboardEvent{Type: sdl.KEYDOWN, Keysym: sdl.Keysym{Scancode: sdl.SCANCODE_F12}},
			want:  Event{Type: EventKeyDown, Key: sdl.SCANCODE_F12},
			ok:    true,
		},
		{
			name:  "key repeat ignored",
			event: &sdl.KeyboardEvent{Type: sdl.KEYDOWN, Repeat: 1, Keysym: sdl.Keysym{Scancode: sdl.SCANCODE_F12}},
		},
		{
			name:  "key up",
			event: &sdl.KeyboardEvent{Type: sdl.KEYUP, Keysym: sdl.Keysym{Scancode: sdl.SCANCODE_ESCAPE}},
			want:  Event{Type: EventKeyUp, Key: sdl.SCANCODE_ESCAPE},
			ok:    true,
		},
		{
			name:  "mouse move",
			event: &sdl.MouseMotionEvent{Type: sdl.MOUSEMOTION, X: 10, Y: 20, XRel: 3, YRel: -4, State: sdl.ButtonLMask()},
			want:  Event{Type: EventMouseMove, MouseX: 10, MouseY: 20, DX: 3, DY: -4, Buttons: sdl.ButtonLMask()},
			ok:    true,
		},
		{
			name:  "mouse up",
			event: &sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONUP, X: 1, Y: 2, Button: sdl.BUTTON_RIGHT},
			want:  Event{Type: EventMouseUp, MouseX: 1, MouseY: 2, Button: sdl.BUTTON_RIGHT},
			ok:    true,
		},
		{
			name:  "wheel",
			event: &sdl.MouseWheelEvent{Type: sdl.MOUSEWHEEL, Y: 2},
			want:  Event{Type: EventWheel, WheelY: 2},
			ok:    true,
		},
		{
			name:  "flipped wheel",
			event: &sdl.MouseWheelEvent{Type: sdl.MOUSEWHEEL, Y: 2, Direction: sdl.MOUSEWHEEL_FLIPPED},
			want:  Event{Type: EventWheel, WheelY: -2},
			ok:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Translate(tt.event)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("Translate = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDragging(t *testing.T) {
	move := Event{Type: EventMouseMove, Buttons: sdl.ButtonLMask()}
	if !move.Dragging(ButtonLeft) {
		t.Error("left drag not detected")
	}
	if move.Dragging(ButtonRight) {
		t.Error("right drag reported without the right button held")
	}
	click := Event{Type: EventMouseDown, Button: ButtonLeft, Buttons: sdl.ButtonLMask()}
	if click.Dragging(ButtonLeft) {
		t.Error("button press is not a drag")
	}
}
