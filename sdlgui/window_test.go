package sdlgui

import (
	"testing"

	"github.com/guslan/chip8"
	"github.com/veandco/go-sdl2/sdl"
)

var _ chip8.Display = (*Window)(nil)
var _ chip8.Input = (*Window)(nil)

type recordingController struct {
	keypad  chip8.Keypad
	pauses  int
	quitted bool
}

func (c *recordingController) KeyDown(k byte) { c.keypad[k] = true }
func (c *recordingController) KeyUp(k byte)   { c.keypad[k] = false }
func (c *recordingController) TogglePause()   { c.pauses++ }
func (c *recordingController) RequestQuit()   { c.quitted = true }

func keyEvent(kind uint32, sym sdl.Keycode, repeat uint8) *sdl.KeyboardEvent {
	return &sdl.KeyboardEvent{Type: kind, Repeat: repeat, Keysym: sdl.Keysym{Sym: sym}}
}

func TestHandleKeys(t *testing.T) {
	win := NewWindow(chip8.NewConfig(), chip8.DefaultKeyboardLayout)
	ctl := &recordingController{}

	win.handle(keyEvent(sdl.KEYDOWN, sdl.Keycode('w'), 0), ctl)
	if !ctl.keypad[0x5] {
		t.Fatalf(`key 0x5 should be down after pressing w`)
	}
	win.handle(keyEvent(sdl.KEYUP, sdl.Keycode('w'), 0), ctl)
	if ctl.keypad[0x5] {
		t.Fatalf(`key 0x5 should be up after releasing w`)
	}

	// unmapped keys are ignored
	win.handle(keyEvent(sdl.KEYDOWN, sdl.Keycode('p'), 0), ctl)
	if _, pressed := ctl.keypad.Pressed(); pressed {
		t.Fatalf(`no key should be pressed`)
	}
}

func TestHandleControls(t *testing.T) {
	win := NewWindow(chip8.NewConfig(), chip8.DefaultKeyboardLayout)
	ctl := &recordingController{}

	win.handle(keyEvent(sdl.KEYDOWN, sdl.K_SPACE, 0), ctl)
	win.handle(keyEvent(sdl.KEYDOWN, sdl.K_SPACE, 1), ctl)
	win.handle(keyEvent(sdl.KEYUP, sdl.K_SPACE, 0), ctl)
	if ctl.pauses != 1 {
		t.Fatalf(`pauses = %d, expected 1`, ctl.pauses)
	}

	win.handle(keyEvent(sdl.KEYDOWN, sdl.K_ESCAPE, 0), ctl)
	if !ctl.quitted {
		t.Fatalf(`escape should quit`)
	}

	ctl = &recordingController{}
	win.handle(&sdl.QuitEvent{Type: sdl.QUIT}, ctl)
	if !ctl.quitted {
		t.Fatalf(`closing the window should quit`)
	}
}

func TestPixelRects(t *testing.T) {
	var screen chip8.Screen
	screen[0] = true
	screen[chip8.ScreenWidth*2+3] = true

	rects := pixelRects(&screen, 10, nil)
	if len(rects) != 2 {
		t.Fatalf(`got %d rects, expected 2`, len(rects))
	}
	if rects[1] != (sdl.Rect{X: 30, Y: 20, W: 10, H: 10}) {
		t.Fatalf(`unexpected rect %+v`, rects[1])
	}
}
