package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/guslan/chip8"
)

// Poll implements chip8.Input. Closing the window or pressing escape quits, space toggles the pause.
func (app *App) Poll(ctl chip8.Controller) error {
	if rl.WindowShouldClose() {
		if !app.isClosing {
			app.isClosing = true
			ctl.RequestQuit()
		}
		return nil
	}

	for code, key := range app.keyboardLookupMap {
		if rl.IsKeyDown(code) {
			ctl.KeyDown(key)
		} else {
			ctl.KeyUp(key)
		}
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		ctl.TogglePause()
	}

	app.handleFileLoad()
	app.handleActions(ctl)

	return nil
}
