package chip8

import "log/slog"

// RunState gates the scheduler
type RunState byte

const (
	Running RunState = iota
	Paused
	Quit
)

func (s RunState) String() string {
	switch s {
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Quit:
		return "quit"
	}

	return "unknown"
}

func (cpu *Cpu) State() RunState {
	return cpu.state
}

func (cpu *Cpu) IsRunning() bool {
	return cpu.state == Running
}

// TogglePause switches between running and paused. It has no effect once quit was requested.
func (cpu *Cpu) TogglePause() {
	switch cpu.state {
	case Running:
		cpu.state = Paused
		cpu.logger.Info("paused")
	case Paused:
		cpu.state = Running
		cpu.logger.Info("resumed")
	}
}

// RequestQuit stops the scheduler loop at the next tick boundary
func (cpu *Cpu) RequestQuit() {
	if cpu.state != Quit {
		cpu.logger.Info("quit requested", slog.Uint64("cycles", uint64(cpu.cycles)))
	}
	cpu.state = Quit
}
