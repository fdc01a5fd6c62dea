package chip8

import (
	"context"
	"log/slog"
	"time"
)

// TickDuration is the period of the 60Hz timers
const TickDuration = time.Second / TicksPerSecond

// Run executes ticks until quit is requested, the context is done or an instruction fails.
// Each tick is padded with a sleep so the loop runs at 60Hz.
func (cpu *Cpu) Run(ctx context.Context) error {
	if !cpu.isBooted {
		return ErrCpuIsNotBooted
	}

	cpu.logger.Info("starting loop",
		slog.Uint64("speed", uint64(cpu.config.InstructionsPerSecond)),
		slog.Int("cycles_per_tick", cpu.CyclesPerTick()))

	for cpu.state != Quit {
		start := time.Now()

		if err := cpu.Tick(); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(max(TickDuration-time.Since(start), 0)):
		}
	}

	return nil
}

// Tick runs a batch of instructions, updates the timers and then yields to the display, the buzzer
// and the input. While paused only the collaborators are serviced.
func (cpu *Cpu) Tick() error {
	cpu.runHooks(cpu.beforeTickHooks)

	if cpu.state == Running {
		for i := 0; i < cpu.CyclesPerTick(); i++ {
			if err := cpu.Step(); err != nil {
				cpu.logger.Error("cpu halted", slog.Any("error", err))
				return err
			}
		}

		cpu.updateTimers()
		cpu.ticks++
	}

	if cpu.St > 0 {
		cpu.Buzzer.Play()
	} else {
		cpu.Buzzer.Stop()
	}

	if err := cpu.Display.Render(cpu.screen, cpu.config); err != nil {
		return err
	}

	if err := cpu.Input.Poll(cpu); err != nil {
		return err
	}

	cpu.runHooks(cpu.afterTickHooks)

	return nil
}

func (cpu *Cpu) updateTimers() {
	if cpu.Dt > 0 {
		cpu.Dt--
	}

	if cpu.St > 0 {
		cpu.St--
	}
}
