package chip8

type Hook func(cpu *Cpu)

// AddBeforeTickHook adds a hook that will run before every tick of the CPU
func (cpu *Cpu) AddBeforeTickHook(h Hook) int {
	cpu.beforeTickHooks = append(cpu.beforeTickHooks, h)

	return len(cpu.beforeTickHooks)
}

// AddAfterStepHook adds a hook that will run after every executed instruction
func (cpu *Cpu) AddAfterStepHook(h Hook) int {
	cpu.afterStepHooks = append(cpu.afterStepHooks, h)

	return len(cpu.afterStepHooks)
}

// AddAfterTickHook adds a hook that will run after every tick of the CPU, once the frame was rendered
func (cpu *Cpu) AddAfterTickHook(h Hook) int {
	cpu.afterTickHooks = append(cpu.afterTickHooks, h)

	return len(cpu.afterTickHooks)
}

func (cpu *Cpu) runHooks(hooks []Hook) {
	for _, h := range hooks {
		h(cpu)
	}
}
