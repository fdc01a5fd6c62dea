package chip8_test

import (
	"testing"

	"github.com/guslan/chip8"
)

func TestDecode(t *testing.T) {
	inst := chip8.Decode(0xD3A7)

	if inst.OpCode != 0xD3A7 {
		t.Fatalf(`OpCode = %X, expected D3A7`, inst.OpCode)
	}
	if inst.NNN != 0x3A7 {
		t.Fatalf(`NNN = %X, expected 3A7`, inst.NNN)
	}
	if inst.NN != 0xA7 {
		t.Fatalf(`NN = %X, expected A7`, inst.NN)
	}
	if inst.N != 0x7 {
		t.Fatalf(`N = %X, expected 7`, inst.N)
	}
	if inst.X != 0x3 || inst.Y != 0xA {
		t.Fatalf(`X, Y = %X, %X, expected 3, A`, inst.X, inst.Y)
	}
	if inst.Family() != 0xD {
		t.Fatalf(`Family() = %X, expected D`, inst.Family())
	}
}

func TestInstructionString(t *testing.T) {
	tests := []struct {
		opCode uint16
		want   string
	}{
		{0x00E0, "CLS"},
		{0x00EE, "RET"},
		{0x0123, "SYS 0x123"},
		{0x1ABC, "JP 0xABC"},
		{0x2ABC, "CALL 0xABC"},
		{0x3A12, "SE VA, 0x12"},
		{0x4A12, "SNE VA, 0x12"},
		{0x5AB0, "SE VA, VB"},
		{0x5AB1, "DW 0x5AB1"},
		{0x6A12, "LD VA, 0x12"},
		{0x7A12, "ADD VA, 0x12"},
		{0x8AB4, "ADD VA, VB"},
		{0x8AB7, "SUBN VA, VB"},
		{0x8ABE, "SHL VA, VB"},
		{0x8AB9, "DW 0x8AB9"},
		{0x9AB0, "SNE VA, VB"},
		{0xA123, "LD I, 0x123"},
		{0xB123, "JP V0, 0x123"},
		{0xCA0F, "RND VA, 0x0F"},
		{0xDAB5, "DRW VA, VB, 5"},
		{0xEA9E, "SKP VA"},
		{0xEAA1, "SKNP VA"},
		{0xEA00, "DW 0xEA00"},
		{0xFA0A, "LD VA, K"},
		{0xFA33, "LD B, VA"},
		{0xFA55, "LD [I], VA"},
		{0xFA65, "LD VA, [I]"},
		{0xFAFF, "DW 0xFAFF"},
	}

	for _, tt := range tests {
		if got := chip8.Decode(tt.opCode).String(); got != tt.want {
			t.Errorf(`Decode(0x%04X).String() = %q, expected %q`, tt.opCode, got, tt.want)
		}
	}
}
