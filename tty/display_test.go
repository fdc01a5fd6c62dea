package tty_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/guslan/chip8"
	"github.com/guslan/chip8/tty"
)

func TestDisplayRendersColors(t *testing.T) {
	buf := &bytes.Buffer{}
	disp := tty.NewDisplayWithOutput(buf)
	if err := disp.Boot(); err != nil {
		t.Fatalf(`Boot() returned an error %v`, err)
	}
	buf.Reset()

	config := chip8.NewConfig()
	var screen chip8.Screen
	screen[0] = true

	if err := disp.Render(screen, config); err != nil {
		t.Fatalf(`Render() returned an error %v`, err)
	}

	out := buf.String()
	// 0xF3E2D4 and 0x17313E
	if !strings.HasPrefix(out, "\x1b[1H\x1b[48;2;243;226;212m  \x1b[48;2;23;49;62m") {
		t.Fatalf(`unexpected first row %q`, out[:min(len(out), 64)])
	}
	if n := strings.Count(out, "\r\n"); n != chip8.ScreenHeight {
		t.Fatalf(`%d rows rendered, expected %d`, n, chip8.ScreenHeight)
	}
}

func TestDisplaySkipsUnchangedFrames(t *testing.T) {
	buf := &bytes.Buffer{}
	disp := tty.NewDisplayWithOutput(buf)
	config := chip8.NewConfig()

	var screen chip8.Screen
	if err := disp.Render(screen, config); err != nil {
		t.Fatalf(`Render() returned an error %v`, err)
	}
	n := buf.Len()

	if err := disp.Render(screen, config); err != nil {
		t.Fatalf(`Render() returned an error %v`, err)
	}
	if buf.Len() != n {
		t.Fatalf(`an unchanged frame was written again`)
	}

	screen[100] = true
	if err := disp.Render(screen, config); err != nil {
		t.Fatalf(`Render() returned an error %v`, err)
	}
	if buf.Len() == n {
		t.Fatalf(`a changed frame was not written`)
	}
}
