// Package tty renders the console on an ANSI terminal and reads the keypad from a raw mode tty.
package tty

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/guslan/chip8"
	xterm "golang.org/x/term"
)

var ErrNotATerminal = errors.New("the output is not a terminal")
var ErrTerminalTooSmall = errors.New("the terminal is too small to fit the screen")

const ESC = 0x1B

// Display draws every console pixel with two terminal cells using 24-bit background colors
type Display struct {
	terminal io.Writer
	// checked on Boot when the output is a terminal
	fd        int
	checkSize bool

	OnChar, OffChar string

	last  chip8.Screen
	drawn bool
}

func NewDisplay() *Display {
	d := NewDisplayWithOutput(os.Stdout)
	d.fd = int(os.Stdout.Fd())
	d.checkSize = true

	return d
}

func NewDisplayWithOutput(out io.Writer) *Display {
	return &Display{
		terminal:  out,
		checkSize: false,
		OnChar:    "  ",
		OffChar:   "  ",
	}
}

// Boot implements chip8.Display.
func (disp *Display) Boot() error {
	if disp.checkSize {
		if !xterm.IsTerminal(disp.fd) {
			return ErrNotATerminal
		}

		w, h, err := xterm.GetSize(disp.fd)
		if err != nil {
			return fmt.Errorf("reading the terminal size: %w", err)
		}
		if w < chip8.ScreenWidth*2 || h < chip8.ScreenHeight {
			return fmt.Errorf("%w: %dx%d, need %dx%d", ErrTerminalTooSmall, w, h, chip8.ScreenWidth*2, chip8.ScreenHeight)
		}
	}

	_, err := disp.terminal.Write([]byte{
		// Move the cursor to the start
		ESC, '[', '1', 'H',
		// clear the terminal
		ESC, '[', '2', 'J',
		// hide the cursor
		ESC, '[', '?', '2', '5', 'l',
	})

	return err
}

// Close restores the cursor and the colors
func (disp *Display) Close() error {
	_, err := fmt.Fprintf(disp.terminal, "%c[0m%c[?25h\n", ESC, ESC)
	return err
}

// Render implements chip8.Display. Unchanged frames are not written again.
func (disp *Display) Render(screen chip8.Screen, config chip8.Config) error {
	if disp.drawn && screen == disp.last {
		return nil
	}

	on := sgr(config.Foreground)
	off := sgr(config.Background)

	buff := make([]byte, 0, chip8.ScreenWidth*chip8.ScreenHeight*4+chip8.ScreenHeight*32)
	buff = append(buff, ESC, '[', '1', 'H')
	for y := 0; y < chip8.ScreenHeight; y++ {
		current := ""
		for x := 0; x < chip8.ScreenWidth; x++ {
			color, cell := off, disp.OffChar
			if screen.Pixel(x, y) {
				color, cell = on, disp.OnChar
			}

			if color != current {
				buff = append(buff, color...)
				current = color
			}
			buff = append(buff, cell...)
		}
		buff = append(buff, ESC, '[', '0', 'm', '\r', '\n')
	}

	if _, err := disp.terminal.Write(buff); err != nil {
		return err
	}

	disp.last = screen
	disp.drawn = true

	return nil
}

// sgr returns the escape sequence selecting c as background color
func sgr(c chip8.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("%c[48;2;%d;%d;%dm", ESC, r, g, b)
}
