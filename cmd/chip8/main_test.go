package main

import (
	"errors"
	"io"
	"testing"

	"github.com/guslan/chip8"
)

func TestParseFlags(t *testing.T) {
	opts, err := parseFlags([]string{"-scale", "10", "-fg", "#FF0000FF", "-rate", "700", "-frontend", "term", "pong.ch8"}, io.Discard)
	if err != nil {
		t.Fatalf(`parseFlags() returned an error %v`, err)
	}

	if opts.romPath != "pong.ch8" {
		t.Fatalf(`romPath = %q`, opts.romPath)
	}
	if opts.config.Scale != 10 || opts.config.InstructionsPerSecond != 700 {
		t.Fatalf(`unexpected config %+v`, opts.config)
	}
	if opts.config.Foreground != 0xFF0000FF || opts.config.Background != chip8.DefaultBackground {
		t.Fatalf(`unexpected colors %s %s`, opts.config.Foreground, opts.config.Background)
	}
	if opts.frontend != "term" || opts.port != 9999 {
		t.Fatalf(`frontend = %q, port = %d`, opts.frontend, opts.port)
	}
}

func TestParseFlagsErrors(t *testing.T) {
	cases := map[string][]string{
		"no rom":        {},
		"two roms":      {"a.ch8", "b.ch8"},
		"bad frontend":  {"-frontend", "vga", "a.ch8"},
		"zero rate":     {"-rate", "0", "a.ch8"},
		"slow rate":     {"-rate", "30", "a.ch8"},
		"bad color":     {"-bg", "purple", "a.ch8"},
		"unknown flag":  {"-turbo", "a.ch8"},
		"negative size": {"-scale", "-1", "a.ch8"},
	}

	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := parseFlags(args, io.Discard); err == nil {
				t.Fatalf(`parseFlags(%v) should fail`, args)
			}
		})
	}
}

func TestParseFlagsRejectsUnknownFrontend(t *testing.T) {
	_, err := parseFlags([]string{"-frontend", "vga", "a.ch8"}, io.Discard)
	if !errors.Is(err, chip8.ErrInvalidConfig) {
		t.Fatalf(`expected ErrInvalidConfig, got %v`, err)
	}
}
