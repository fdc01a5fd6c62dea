package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/guslan/chip8"
)

func color(c chip8.Color) rl.Color {
	r, g, b, a := c.RGBA()
	return rl.NewColor(r, g, b, a)
}

// Boot implements chip8.Display, chip8.Input and chip8.Buzzer. The window is opened once.
func (app *App) Boot() error {
	if app.isBooted {
		return nil
	}

	rl.SetTraceLogLevel(rl.LogWarning)
	rl.InitWindow(int32(app.winW), int32(app.winH), app.Title)
	app.isBooted = true

	rl.InitAudioDevice()
	if rl.IsAudioDeviceReady() {
		app.beep = rl.LoadSoundFromWave(squareWave(beepSampleRate, beepFrequency, beepSamples))
		app.hasBeep = true
	}

	return nil
}

// Render implements chip8.Display.
func (app *App) Render(screen chip8.Screen, config chip8.Config) error {
	rl.BeginDrawing()
	defer rl.EndDrawing()

	rl.ClearBackground(rl.Black)

	// Sections are drawn from the bottom up so that the toolbar stays on top
	app.drawMessageBar()
	app.drawScreen(screen, config)
	app.drawToolbar()

	return nil
}

func (app *App) drawScreen(screen chip8.Screen, config chip8.Config) {
	fg, bg := color(config.Foreground), color(config.Background)
	size := int32(config.Scale)

	for y := 0; y < chip8.ScreenHeight; y++ {
		for x := 0; x < chip8.ScreenWidth; x++ {
			c := bg
			if screen.Pixel(x, y) {
				c = fg
			}
			rl.DrawRectangle(
				ScreenPositionX+size*int32(x),
				ScreenPositionY+size*int32(y),
				size,
				size,
				c)
		}
	}
}
