package chip8

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var ErrRomTooLarge = errors.New("the program does not fit into memory")
var ErrRomUnreadable = errors.New("the program could not be read")

const StartOfProgram = 0x200

const MemorySize = 4096

// MaxProgramSize is the number of bytes available between the start of the program and the end of memory
const MaxProgramSize = MemorySize - StartOfProgram

// FontSize is the number of bytes of the font table, 5 bytes per hexadecimal digit
const FontSize = 16 * 5

const addressMask = 0x0FFF

type Memory [MemorySize]byte

// NewMemory creates an empty memory of 4096 bytes with the font table loaded
func NewMemory() *Memory {
	m := Memory([MemorySize]byte{})
	loadCharactersInto(&m)

	return &m
}

func (mem Memory) Clone() *Memory {
	m := new(Memory)

	copy(m[:], mem[:])

	return m
}

func (mem Memory) String() string {
	sb := strings.Builder{}

	sb.WriteString("[ ")
	for _, b := range mem[:StartOfProgram] {
		sb.WriteString(fmt.Sprintf("%X ", b))
	}
	sb.WriteString("]\n")
	sb.WriteString("[ ")
	for _, b := range mem[StartOfProgram:] {
		sb.WriteString(fmt.Sprintf("%X ", b))
	}
	sb.WriteString("]")

	return sb.String()
}

// Word reads the big-endian 16-bit word at addr. Addresses wrap around the 4K address space.
func (mem *Memory) Word(addr uint16) uint16 {
	return uint16(mem[addr&addressMask])<<8 | uint16(mem[(addr+1)&addressMask])
}

// LoadProgram clears the memory, loads the font table and copies the program at the start-of-program address
func (mem *Memory) LoadProgram(program []byte) error {
	if len(program) > MaxProgramSize {
		return fmt.Errorf("%w: %d bytes, at most %d allowed", ErrRomTooLarge, len(program), MaxProgramSize)
	}

	*mem = Memory{}
	loadCharactersInto(mem)
	copy(mem[StartOfProgram:], program)

	return nil
}

// ReadProgram reads a raw program image. It reads at most one byte past the limit so oversized
// images are rejected without buffering them entirely.
func ReadProgram(r io.Reader) ([]byte, error) {
	program, err := io.ReadAll(io.LimitReader(r, MaxProgramSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRomUnreadable, err)
	}

	if len(program) > MaxProgramSize {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrRomTooLarge, MaxProgramSize)
	}

	return program, nil
}

// ReadProgramFile reads the program stored at path
func ReadProgramFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRomUnreadable, err)
	}
	defer f.Close()

	return ReadProgram(f)
}

func loadCharactersInto(mem *Memory) {
	copy(mem[:], []byte{
		// 0
		0xF0, 0x90, 0x90, 0x90, 0xF0,
		// 1
		0x20, 0x60, 0x20, 0x20, 0x70,
		// 2
		0xF0, 0x10, 0xF0, 0x80, 0xF0,
		// 3
		0xF0, 0x10, 0xF0, 0x10, 0xF0,
		// 4
		0x90, 0x90, 0xF0, 0x10, 0x10,
		// 5
		0xF0, 0x80, 0xF0, 0x10, 0xF0,
		// 6
		0xF0, 0x80, 0xF0, 0x90, 0xF0,
		// 7
		0xF0, 0x10, 0x20, 0x40, 0x40,
		// 8
		0xF0, 0x90, 0xF0, 0x90, 0xF0,
		// 9
		0xF0, 0x90, 0xF0, 0x10, 0xF0,
		// A
		0xF0, 0x90, 0xF0, 0x90, 0x90,
		// B
		0xE0, 0x90, 0xE0, 0x90, 0xE0,
		// C
		0xF0, 0x80, 0x80, 0x80, 0xF0,
		// D
		0xE0, 0x90, 0x90, 0x90, 0xE0,
		// E
		0xF0, 0x80, 0xF0, 0x80, 0xF0,
		// F
		0xF0, 0x80, 0xF0, 0x80, 0x80})
}
