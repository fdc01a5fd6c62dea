package gui

import (
	"encoding/binary"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	beepSampleRate = 44100
	beepFrequency  = 440
	// A tick worth of samples, Play restarts the sound while the timer is active
	beepSamples = beepSampleRate / 10
	beepVolume  = 6000
)

// squareWave returns a mono 16-bit wave
func squareWave(sampleRate, frequency, samples int) rl.Wave {
	data := squareSamples(sampleRate, frequency, samples)
	return rl.NewWave(uint32(samples), uint32(sampleRate), 16, 1, data)
}

func squareSamples(sampleRate, frequency, samples int) []byte {
	period := max(sampleRate/frequency, 2)
	data := make([]byte, samples*2)
	for i := 0; i < samples; i++ {
		v := int16(beepVolume)
		if i%period >= period/2 {
			v = -beepVolume
		}
		binary.LittleEndian.PutUint16(data[i*2:], uint16(v))
	}

	return data
}

// Play implements chip8.Buzzer.
func (app *App) Play() {
	if app.hasBeep && !rl.IsSoundPlaying(app.beep) {
		rl.PlaySound(app.beep)
	}
}

// Stop implements chip8.Buzzer.
func (app *App) Stop() {
	if app.hasBeep && rl.IsSoundPlaying(app.beep) {
		rl.StopSound(app.beep)
	}
}
