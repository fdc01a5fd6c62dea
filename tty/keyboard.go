package tty

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"unicode"

	"github.com/guslan/chip8"
	"github.com/pkg/term"
)

const (
	ctrlC = 0x03
	space = ' '
)

// DefaultHoldTicks is how long a key stays pressed after its last repeat.
// Terminals only report key presses, never releases.
const DefaultHoldTicks = 6

// Keyboard reads keypad events from a terminal in raw mode.
// ESC or Ctrl-C quits, space toggles the pause.
type Keyboard struct {
	path string
	tty  *term.Term
	in   io.Reader

	HoldTicks int

	lookup map[rune]byte
	held   [chip8.KeyCount]int

	chunks chan []byte
	errs   chan error
}

// NewKeyboard opens the terminal at path, usually /dev/tty
func NewKeyboard(path string) *Keyboard {
	kb := newKeyboard()
	kb.path = path

	return kb
}

// NewKeyboardWithInput reads the key presses from r without touching any terminal mode
func NewKeyboardWithInput(r io.Reader) *Keyboard {
	kb := newKeyboard()
	kb.in = r

	return kb
}

func newKeyboard() *Keyboard {
	return &Keyboard{
		HoldTicks: DefaultHoldTicks,
		lookup:    chip8.LookupMap(chip8.DefaultKeyboardLayout),
		chunks:    make(chan []byte, 64),
		errs:      make(chan error, 1),
	}
}

// Boot implements chip8.Input.
func (kb *Keyboard) Boot() error {
	if kb.in == nil {
		t, err := term.Open(kb.path, term.RawMode)
		if err != nil {
			return fmt.Errorf("opening %s: %w", kb.path, err)
		}
		kb.tty = t
		kb.in = t
	}

	go kb.readLoop()

	return nil
}

// Close restores the terminal mode
func (kb *Keyboard) Close() error {
	if kb.tty == nil {
		return nil
	}

	if err := kb.tty.Restore(); err != nil {
		return err
	}

	return kb.tty.Close()
}

func (kb *Keyboard) readLoop() {
	buf := make([]byte, 32)
	for {
		n, err := kb.in.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			kb.chunks <- chunk
		}

		if errors.Is(err, io.EOF) {
			slog.Debug("keyboard input closed")
			return
		}
		if err != nil {
			kb.errs <- err
			return
		}
	}
}

// Poll implements chip8.Input.
func (kb *Keyboard) Poll(ctl chip8.Controller) error {
	kb.release(ctl)

	for {
		select {
		case err := <-kb.errs:
			return fmt.Errorf("reading the keyboard: %w", err)
		case chunk := <-kb.chunks:
			kb.handle(chunk, ctl)
		default:
			return nil
		}
	}
}

// release lets go of the keys that were not repeated in time
func (kb *Keyboard) release(ctl chip8.Controller) {
	for k, left := range kb.held {
		if left == 0 {
			continue
		}

		kb.held[k]--
		if kb.held[k] == 0 {
			ctl.KeyUp(byte(k))
		}
	}
}

func (kb *Keyboard) handle(chunk []byte, ctl chip8.Controller) {
	// a lone ESC is the key itself, longer chunks are escape sequences
	if len(chunk) == 1 && chunk[0] == ESC {
		ctl.RequestQuit()
		return
	}
	if chunk[0] == ESC {
		return
	}

	for _, b := range chunk {
		switch b {
		case ctrlC:
			ctl.RequestQuit()
		case space:
			ctl.TogglePause()
		default:
			if k, ok := kb.lookup[unicode.ToLower(rune(b))]; ok {
				ctl.KeyDown(k)
				kb.held[k] = max(kb.HoldTicks, 1)
			}
		}
	}
}
