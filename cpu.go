package chip8

import (
	"errors"
	"fmt"
	"log/slog"
)

var ErrCpuIsNotBooted = errors.New("the CPU has not been booted properly")

var ErrStackUnderflow = errors.New("stack underflow: try to pop an empty stack")
var ErrStackOverflow = errors.New("stack overflow: try to push to a full stack")

// StackSize is the maximum depth of nested subroutine calls
const StackSize = 16

// Chip-8 CPU
type Cpu struct {
	Memory *Memory
	// V 8-bit registers. VF doubles as the carry, borrow and collision flag.
	V [16]byte
	// I 16-bit register (12-bit usable)
	I uint16
	// Delay timer register
	Dt byte
	// Sound timer register
	St byte
	// Program counter
	Pc uint16
	// Stack pointer
	Sp byte
	// Stack
	Stack [StackSize]uint16
	// Last fetched instruction
	Inst Instruction

	cycles uint
	ticks  uint

	config Config
	logger *slog.Logger

	screen Screen
	keypad Keypad

	Display Display
	Input   Input
	Buzzer  Buzzer

	program  []byte
	isBooted bool
	state    RunState

	// Hooks that run before every tick
	beforeTickHooks []Hook
	// Hooks that run after every instruction
	afterStepHooks []Hook
	// Hooks that run after every tick
	afterTickHooks []Hook
}

func NewCpu(display Display, input Input, buzzer Buzzer, configs ...ConfigCb) *Cpu {
	config := NewConfig(configs...)

	return &Cpu{
		Memory: NewMemory(),

		V:     [16]byte{},
		I:     0,
		Dt:    0,
		St:    0,
		Pc:    StartOfProgram,
		Sp:    0,
		Stack: [StackSize]uint16{},

		config: config,
		logger: config.Logger,

		Display: display,
		Input:   input,
		Buzzer:  buzzer,

		isBooted: false,
		state:    Running,

		beforeTickHooks: make([]Hook, 0),
		afterStepHooks:  make([]Hook, 0),
		afterTickHooks:  make([]Hook, 0),
	}
}

func (cpu *Cpu) Config() Config {
	return cpu.config
}

func (cpu *Cpu) Cycles() uint {
	return cpu.cycles
}

func (cpu *Cpu) Ticks() uint {
	return cpu.ticks
}

func (cpu *Cpu) CyclesPerTick() int {
	return cpu.config.CyclesPerTick()
}

func (cpu *Cpu) IsSoundTimerActive() bool {
	return cpu.St > 0
}

// Screen returns a copy of the framebuffer
func (cpu *Cpu) Screen() Screen {
	return cpu.screen
}

// Keypad returns a copy of the keypad state
func (cpu *Cpu) Keypad() Keypad {
	return cpu.keypad
}

// KeyDown implements Controller. Codes above 0xF are ignored.
func (cpu *Cpu) KeyDown(k byte) {
	if k >= KeyCount {
		return
	}
	cpu.keypad[k] = true
}

// KeyUp implements Controller. Codes above 0xF are ignored.
func (cpu *Cpu) KeyUp(k byte) {
	if k >= KeyCount {
		return
	}
	cpu.keypad[k] = false
}

// Boot validates the configuration and initializes all the components.
// If the CPU was already booted, this method is a noop
func (cpu *Cpu) Boot() error {
	if cpu.isBooted {
		return nil
	}

	if err := cpu.config.Validate(); err != nil {
		return err
	}

	if err := cpu.Display.Boot(); err != nil {
		return fmt.Errorf("booting display: %w", err)
	}

	if err := cpu.Input.Boot(); err != nil {
		return fmt.Errorf("booting input: %w", err)
	}

	if err := cpu.Buzzer.Boot(); err != nil {
		return fmt.Errorf("booting buzzer: %w", err)
	}

	cpu.isBooted = true

	return nil
}

// LoadProgram loads the program into memory and resets the CPU
func (cpu *Cpu) LoadProgram(program []byte) error {
	if err := cpu.Memory.LoadProgram(program); err != nil {
		return err
	}

	cpu.program = append(cpu.program[:0], program...)
	cpu.Reset()

	cpu.logger.Info("program loaded", slog.Int("size", len(program)))

	return nil
}

// LoadFile reads and loads the program stored at path
func (cpu *Cpu) LoadFile(path string) error {
	program, err := ReadProgramFile(path)
	if err != nil {
		return err
	}

	return cpu.LoadProgram(program)
}

// Reset restores the boot state with the last loaded program in memory. Run state is not affected.
func (cpu *Cpu) Reset() {
	// program was validated when loaded
	_ = cpu.Memory.LoadProgram(cpu.program)

	cpu.V = [16]byte{}
	cpu.I = 0
	cpu.Dt = 0
	cpu.St = 0
	cpu.Pc = StartOfProgram
	cpu.Sp = 0
	cpu.Stack = [StackSize]uint16{}
	cpu.Inst = Instruction{}

	cpu.cycles = 0
	cpu.ticks = 0
	cpu.screen.clear()
	cpu.keypad = Keypad{}
}

// Step fetches, decodes and executes a single instruction
func (cpu *Cpu) Step() error {
	pc := cpu.Pc
	cpu.Inst = Decode(cpu.Memory.Word(pc))
	cpu.Pc += 2

	if cpu.config.Trace {
		cpu.logger.Debug("exec",
			slog.String("address", fmt.Sprintf("0x%04X", pc)),
			slog.String("opcode", fmt.Sprintf("0x%04X", cpu.Inst.OpCode)),
			slog.String("inst", cpu.Inst.String()))
	}

	if err := cpu.executeInstruction(cpu.Inst); err != nil {
		return fmt.Errorf("executing 0x%04X at 0x%04X: %w", cpu.Inst.OpCode, pc, err)
	}

	cpu.cycles++
	cpu.runHooks(cpu.afterStepHooks)

	return nil
}

func (cpu *Cpu) push(addr uint16) error {
	if int(cpu.Sp) >= StackSize {
		return ErrStackOverflow
	}
	cpu.Stack[cpu.Sp] = addr
	cpu.Sp++

	return nil
}

func (cpu *Cpu) pop() (uint16, error) {
	if cpu.Sp == 0 {
		return 0, ErrStackUnderflow
	}
	cpu.Sp--

	return cpu.Stack[cpu.Sp], nil
}

// Snapshot is a copy of the registers and timers of the CPU
type Snapshot struct {
	Inst   Instruction
	Pc     uint16
	V      [16]byte
	I      uint16
	Sp     byte
	Stack  [StackSize]uint16
	Dt     byte
	St     byte
	State  RunState
	Cycles uint
}

func (cpu *Cpu) Snapshot() Snapshot {
	return Snapshot{
		Inst:   cpu.Inst,
		Pc:     cpu.Pc,
		V:      cpu.V,
		I:      cpu.I,
		Sp:     cpu.Sp,
		Stack:  cpu.Stack,
		Dt:     cpu.Dt,
		St:     cpu.St,
		State:  cpu.state,
		Cycles: cpu.cycles,
	}
}
