// Package audio plays the buzzer of the console as a square wave.
package audio

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/ebitengine/oto/v3"
)

const (
	DefaultSampleRate = 44100
	DefaultFrequency  = 440
	DefaultVolume     = 0.2
)

// Tone is an endless signed 16-bit little-endian mono square wave.
// It produces silence while it is off.
type Tone struct {
	on        atomic.Bool
	period    int
	amplitude int16
	phase     int
}

func NewTone(sampleRate, frequency int, volume float64) *Tone {
	period := max(sampleRate/max(frequency, 1), 2)
	volume = min(max(volume, 0), 1)

	return &Tone{
		period:    period,
		amplitude: int16(volume * 32767),
	}
}

func (t *Tone) SetOn(on bool) {
	t.on.Store(on)
}

func (t *Tone) IsOn() bool {
	return t.on.Load()
}

// Read implements io.Reader. It is called from the audio goroutine.
func (t *Tone) Read(p []byte) (int, error) {
	n := len(p) &^ 1
	on := t.on.Load()

	for i := 0; i < n; i += 2 {
		var sample int16
		if on {
			sample = t.amplitude
			if t.phase >= t.period/2 {
				sample = -t.amplitude
			}
		}
		binary.LittleEndian.PutUint16(p[i:], uint16(sample))
		t.phase = (t.phase + 1) % t.period
	}

	return n, nil
}

type BeeperConfig struct {
	SampleRate int
	Frequency  int
	Volume     float64
}

type BeeperConfigCb func(config *BeeperConfig)

// Beeper implements chip8.Buzzer on top of an oto context
type Beeper struct {
	config BeeperConfig
	tone   *Tone

	mu     sync.Mutex
	ctx    *oto.Context
	player *oto.Player
}

func NewBeeper(configs ...BeeperConfigCb) *Beeper {
	config := &BeeperConfig{
		SampleRate: DefaultSampleRate,
		Frequency:  DefaultFrequency,
		Volume:     DefaultVolume,
	}
	for _, cb := range configs {
		cb(config)
	}

	return &Beeper{
		config: *config,
		tone:   NewTone(config.SampleRate, config.Frequency, config.Volume),
	}
}

// Boot implements chip8.Buzzer. It opens the audio device and starts the silent tone.
func (b *Beeper) Boot() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.player != nil {
		return nil
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   b.config.SampleRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return fmt.Errorf("opening audio device: %w", err)
	}
	<-ready

	b.ctx = ctx
	b.player = ctx.NewPlayer(b.tone)
	b.player.Play()

	slog.Debug("audio ready",
		slog.Int("sample_rate", b.config.SampleRate),
		slog.Int("frequency", b.config.Frequency))

	return nil
}

// Play implements chip8.Buzzer.
func (b *Beeper) Play() {
	b.tone.SetOn(true)
}

// Stop implements chip8.Buzzer.
func (b *Beeper) Stop() {
	b.tone.SetOn(false)
}

func (b *Beeper) IsPlaying() bool {
	return b.tone.IsOn()
}

// Close silences the player. The oto context lives until the process exits.
func (b *Beeper) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.tone.SetOn(false)
	if b.player == nil {
		return nil
	}

	b.player.Pause()
	err := b.player.Err()
	b.player = nil

	return err
}
