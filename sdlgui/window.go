// Package sdlgui is a plain SDL2 window frontend.
// Every method must be called from the main OS thread.
package sdlgui

import (
	"fmt"
	"log/slog"

	"github.com/guslan/chip8"
	"github.com/veandco/go-sdl2/sdl"
)

// Window implements chip8.Display and chip8.Input
type Window struct {
	Title string

	window   *sdl.Window
	renderer *sdl.Renderer

	winW, winH int32
	keys       map[sdl.Keycode]byte

	// reused between frames
	rects []sdl.Rect
}

func NewWindow(config chip8.Config, layout chip8.KeyboardLayout) *Window {
	w, h := config.WindowSize()

	return &Window{
		Title: "chip8",
		winW:  int32(w),
		winH:  int32(h),
		keys:  keyCodes(layout),
		rects: make([]sdl.Rect, 0, chip8.ScreenWidth*chip8.ScreenHeight),
	}
}

// keyCodes maps the SDL key codes of the layout to the keypad codes.
// SDL uses the ASCII code of the lowercase letter.
func keyCodes(layout chip8.KeyboardLayout) map[sdl.Keycode]byte {
	m := map[sdl.Keycode]byte{}
	for r, k := range chip8.LookupMap(layout) {
		m[sdl.Keycode(r)] = k
	}

	return m
}

// Boot implements chip8.Display and chip8.Input. The window is opened once.
func (win *Window) Boot() error {
	if win.window != nil {
		return nil
	}

	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return fmt.Errorf("failed to initialize SDL2: %w", err)
	}

	window, err := sdl.CreateWindow(win.Title, sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED, win.winW, win.winH, sdl.WINDOW_SHOWN)
	if err != nil {
		sdl.Quit()
		return fmt.Errorf("failed to create window: %w", err)
	}
	win.window = window

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		win.Close()
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	win.renderer = renderer

	slog.Debug("window ready", slog.Int("width", int(win.winW)), slog.Int("height", int(win.winH)))

	return nil
}

func (win *Window) Close() {
	if win.renderer != nil {
		_ = win.renderer.Destroy()
		win.renderer = nil
	}
	if win.window != nil {
		_ = win.window.Destroy()
		win.window = nil
	}
	sdl.Quit()
}

// pixelRects returns the rectangles of the pixels that are on
func pixelRects(screen *chip8.Screen, scale int32, rects []sdl.Rect) []sdl.Rect {
	rects = rects[:0]
	for y := 0; y < chip8.ScreenHeight; y++ {
		for x := 0; x < chip8.ScreenWidth; x++ {
			if screen.Pixel(x, y) {
				rects = append(rects, sdl.Rect{X: int32(x) * scale, Y: int32(y) * scale, W: scale, H: scale})
			}
		}
	}

	return rects
}

// Render implements chip8.Display.
func (win *Window) Render(screen chip8.Screen, config chip8.Config) error {
	r, g, b, a := config.Background.RGBA()
	if err := win.renderer.SetDrawColor(r, g, b, a); err != nil {
		return err
	}
	if err := win.renderer.Clear(); err != nil {
		return err
	}

	win.rects = pixelRects(&screen, int32(config.Scale), win.rects)
	if len(win.rects) > 0 {
		r, g, b, a = config.Foreground.RGBA()
		if err := win.renderer.SetDrawColor(r, g, b, a); err != nil {
			return err
		}
		if err := win.renderer.FillRects(win.rects); err != nil {
			return err
		}
	}

	win.renderer.Present()

	return nil
}

// Poll implements chip8.Input. Closing the window or pressing escape quits, space toggles the pause.
func (win *Window) Poll(ctl chip8.Controller) error {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		win.handle(event, ctl)
	}

	return nil
}

func (win *Window) handle(event sdl.Event, ctl chip8.Controller) {
	switch ev := event.(type) {
	case *sdl.QuitEvent:
		ctl.RequestQuit()

	case *sdl.KeyboardEvent:
		down := ev.Type == sdl.KEYDOWN
		switch ev.Keysym.Sym {
		case sdl.K_ESCAPE:
			if down {
				ctl.RequestQuit()
			}
		case sdl.K_SPACE:
			if down && ev.Repeat == 0 {
				ctl.TogglePause()
			}
		default:
			k, ok := win.keys[ev.Keysym.Sym]
			if !ok {
				return
			}
			if down {
				ctl.KeyDown(k)
			} else {
				ctl.KeyUp(k)
			}
		}
	}
}
