package chip8

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidConfig = errors.New("invalid configuration")

const (
	DefaultScale = 20
	// Instructions per second
	DefaultSpeed uint = 500
	// Slowest speed that runs at least one instruction per tick
	MinSpeed uint = TicksPerSecond
	// Timer and frame rate of the console
	TicksPerSecond = 60
)

const (
	DefaultForeground Color = 0xF3E2D4FF
	DefaultBackground Color = 0x17313EFF
)

// Color is a packed 0xRRGGBBAA value
type Color uint32

func (c Color) RGBA() (r, g, b, a uint8) {
	return uint8(c >> 24), uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// String implements flag.Value.
func (c Color) String() string {
	return fmt.Sprintf("0x%08X", uint32(c))
}

// Set implements flag.Value. It accepts 0xRRGGBBAA, #RRGGBBAA and RRGGBBAA.
func (c *Color) Set(s string) error {
	s = strings.TrimPrefix(strings.TrimPrefix(strings.ToLower(s), "0x"), "#")
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return fmt.Errorf("%w: color %q: %w", ErrInvalidConfig, s, err)
	}
	*c = Color(v)

	return nil
}

// RandomSource produces the bytes used by RND
type RandomSource interface {
	Uint32() uint32
}

// Config of the console and the frontends
type Config struct {
	// Size in screen pixels of a console pixel
	Scale int
	// Color of the pixels that are on
	Foreground Color
	// Color of the pixels that are off
	Background Color
	// Instructions executed per second
	InstructionsPerSecond uint
	// Logs every executed instruction at debug level
	Trace bool
	// Source of RND values. Defaults to a time seeded PCG.
	Random RandomSource
	// Defaults to slog.Default()
	Logger *slog.Logger
}

type ConfigCb func(config *Config)

func DefaultConfig() Config {
	return Config{
		Scale:                 DefaultScale,
		Foreground:            DefaultForeground,
		Background:            DefaultBackground,
		InstructionsPerSecond: DefaultSpeed,
		Trace:                 false,
		Random:                nil,
		Logger:                nil,
	}
}

func NewConfig(configs ...ConfigCb) Config {
	config := DefaultConfig()
	for _, cb := range configs {
		cb(&config)
	}

	if config.Random == nil {
		seed := uint64(time.Now().UnixNano())
		config.Random = rand.New(rand.NewPCG(seed, seed>>32|1))
	}

	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	return config
}

func (config Config) Validate() error {
	if config.Scale <= 0 {
		return fmt.Errorf("%w: scale must be positive, got %d", ErrInvalidConfig, config.Scale)
	}
	if config.InstructionsPerSecond < MinSpeed {
		return fmt.Errorf("%w: the speed must be at least %d, got %d", ErrInvalidConfig, MinSpeed, config.InstructionsPerSecond)
	}

	return nil
}

// CyclesPerTick is the number of instructions run between two timer ticks
func (config Config) CyclesPerTick() int {
	return int(config.InstructionsPerSecond / TicksPerSecond)
}

// WindowSize returns the size in screen pixels of the scaled framebuffer
func (config Config) WindowSize() (int, int) {
	return ScreenWidth * config.Scale, ScreenHeight * config.Scale
}
