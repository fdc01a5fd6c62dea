package chip8

import "fmt"

// Instruction holds the fields of a decoded opcode
type Instruction struct {
	OpCode uint16
	// 12-bit address or constant
	NNN uint16
	// 8-bit constant
	NN byte
	// 4-bit constant
	N byte
	// Register indexes
	X, Y byte
}

// Decode extracts the operand fields of opCode
func Decode(opCode uint16) Instruction {
	return Instruction{
		OpCode: opCode,
		NNN:    opCode & 0x0FFF,
		NN:     byte(opCode & 0x00FF),
		N:      byte(opCode & 0x000F),
		X:      byte((opCode >> 8) & 0x000F),
		Y:      byte((opCode >> 4) & 0x000F),
	}
}

// Family returns the top nibble of the opcode
func (inst Instruction) Family() byte {
	return byte(inst.OpCode >> 12)
}

// String returns the mnemonic of the instruction. Unknown opcodes are rendered as raw data words.
func (inst Instruction) String() string {
	switch inst.Family() {
	case 0x0:
		switch inst.OpCode {
		case 0x00E0:
			return "CLS"
		case 0x00EE:
			return "RET"
		}
		return fmt.Sprintf("SYS 0x%03X", inst.NNN)
	case 0x1:
		return fmt.Sprintf("JP 0x%03X", inst.NNN)
	case 0x2:
		return fmt.Sprintf("CALL 0x%03X", inst.NNN)
	case 0x3:
		return fmt.Sprintf("SE V%X, 0x%02X", inst.X, inst.NN)
	case 0x4:
		return fmt.Sprintf("SNE V%X, 0x%02X", inst.X, inst.NN)
	case 0x5:
		if inst.N == 0 {
			return fmt.Sprintf("SE V%X, V%X", inst.X, inst.Y)
		}
	case 0x6:
		return fmt.Sprintf("LD V%X, 0x%02X", inst.X, inst.NN)
	case 0x7:
		return fmt.Sprintf("ADD V%X, 0x%02X", inst.X, inst.NN)
	case 0x8:
		if m, ok := aluMnemonics[inst.N]; ok {
			return fmt.Sprintf("%s V%X, V%X", m, inst.X, inst.Y)
		}
	case 0x9:
		if inst.N == 0 {
			return fmt.Sprintf("SNE V%X, V%X", inst.X, inst.Y)
		}
	case 0xA:
		return fmt.Sprintf("LD I, 0x%03X", inst.NNN)
	case 0xB:
		return fmt.Sprintf("JP V0, 0x%03X", inst.NNN)
	case 0xC:
		return fmt.Sprintf("RND V%X, 0x%02X", inst.X, inst.NN)
	case 0xD:
		return fmt.Sprintf("DRW V%X, V%X, %d", inst.X, inst.Y, inst.N)
	case 0xE:
		switch inst.NN {
		case 0x9E:
			return fmt.Sprintf("SKP V%X", inst.X)
		case 0xA1:
			return fmt.Sprintf("SKNP V%X", inst.X)
		}
	case 0xF:
		if f, ok := miscFormats[inst.NN]; ok {
			return fmt.Sprintf(f, inst.X)
		}
	}

	return fmt.Sprintf("DW 0x%04X", inst.OpCode)
}

var aluMnemonics = map[byte]string{
	0x0: "LD",
	0x1: "OR",
	0x2: "AND",
	0x3: "XOR",
	0x4: "ADD",
	0x5: "SUB",
	0x6: "SHR",
	0x7: "SUBN",
	0xE: "SHL",
}

var miscFormats = map[byte]string{
	0x07: "LD V%X, DT",
	0x0A: "LD V%X, K",
	0x15: "LD DT, V%X",
	0x18: "LD ST, V%X",
	0x1E: "ADD I, V%X",
	0x29: "LD F, V%X",
	0x33: "LD B, V%X",
	0x55: "LD [I], V%X",
	0x65: "LD V%X, [I]",
}
