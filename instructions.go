package chip8

// executeInstruction runs the instruction. The PC already points to the next instruction.
// Unknown opcodes are ignored.
func (cpu *Cpu) executeInstruction(inst Instruction) error {
	x, y := inst.X, inst.Y
	kk, nnn := inst.NN, inst.NNN

	switch inst.Family() {
	case 0x0:
		switch inst.OpCode {
		case 0x00E0:
			// CLS :: Clear the display.
			cpu.screen.clear()

		case 0x00EE:
			// RET :: Return from a subroutine.
			addr, err := cpu.pop()
			if err != nil {
				return err
			}
			cpu.Pc = addr
		}
		// SYS addr called machine code on the COSMAC VIP and is ignored here.

	case 0x1:
		// JP addr :: Jump to location nnn.
		cpu.Pc = nnn

	case 0x2:
		// CALL addr :: Call subroutine at nnn.
		if err := cpu.push(cpu.Pc); err != nil {
			return err
		}
		cpu.Pc = nnn

	case 0x3:
		// SE Vx, byte :: Skip next instruction if Vx = kk.
		if cpu.V[x] == kk {
			cpu.Pc += 2
		}

	case 0x4:
		// SNE Vx, byte :: Skip next instruction if Vx != kk.
		if cpu.V[x] != kk {
			cpu.Pc += 2
		}

	case 0x5:
		// SE Vx, Vy :: Skip next instruction if Vx = Vy.
		if inst.N == 0 && cpu.V[x] == cpu.V[y] {
			cpu.Pc += 2
		}

	case 0x6:
		// LD Vx, byte :: Set Vx = kk.
		cpu.V[x] = kk

	case 0x7:
		// ADD Vx, byte :: Set Vx = Vx + kk.
		cpu.V[x] += kk

	case 0x8:
		cpu.executeAlu(inst)

	case 0x9:
		// SNE Vx, Vy :: Skip next instruction if Vx != Vy.
		if inst.N == 0 && cpu.V[x] != cpu.V[y] {
			cpu.Pc += 2
		}

	case 0xA:
		// LD I, addr :: Set I = nnn.
		cpu.I = nnn

	case 0xB:
		// JP V0, addr :: Jump to location nnn + V0.
		cpu.Pc = (uint16(cpu.V[0]) + nnn) & addressMask

	case 0xC:
		// RND Vx, byte :: Set Vx = random byte AND kk.
		cpu.V[x] = byte(cpu.config.Random.Uint32()) & kk

	case 0xD:
		// DRW Vx, Vy, nibble :: Display n-byte sprite starting at memory location I at (Vx, Vy), set VF = collision.
		sprite := make([]byte, inst.N)
		for i := range sprite {
			sprite[i] = cpu.Memory[(cpu.I+uint16(i))&addressMask]
		}
		cpu.V[0xF] = bool2byte(cpu.screen.drawSprite(cpu.V[x], cpu.V[y], sprite))

	case 0xE:
		switch kk {
		case 0x9E:
			// SKP Vx :: Skip next instruction if key with the value of Vx is pressed.
			if cpu.keypad[cpu.V[x]&0xF] {
				cpu.Pc += 2
			}
		case 0xA1:
			// SKNP Vx :: Skip next instruction if key with the value of Vx is not pressed.
			if !cpu.keypad[cpu.V[x]&0xF] {
				cpu.Pc += 2
			}
		}

	case 0xF:
		cpu.executeMisc(inst)
	}

	return nil
}

// executeAlu runs the 8XYN inter-register operations.
// ADD computes the carry from the operands. The other flag operations write VF first and then read the
// registers, so an operand or a result in VF sees the flag.
func (cpu *Cpu) executeAlu(inst Instruction) {
	x, y := inst.X, inst.Y

	switch inst.N {
	case 0x0:
		// LD Vx, Vy :: Set Vx = Vy.
		cpu.V[x] = cpu.V[y]

	case 0x1:
		// OR Vx, Vy :: Set Vx = Vx OR Vy.
		cpu.V[x] |= cpu.V[y]

	case 0x2:
		// AND Vx, Vy :: Set Vx = Vx AND Vy.
		cpu.V[x] &= cpu.V[y]

	case 0x3:
		// XOR Vx, Vy :: Set Vx = Vx XOR Vy.
		cpu.V[x] ^= cpu.V[y]

	case 0x4:
		// ADD Vx, Vy :: Set Vx = Vx + Vy, set VF = carry.
		r := uint16(cpu.V[x]) + uint16(cpu.V[y])
		cpu.V[0xF] = bool2byte(r > 0xFF)
		cpu.V[x] = byte(r)

	case 0x5:
		// SUB Vx, Vy :: Set VF = NOT borrow, Vx = Vx - Vy.
		cpu.V[0xF] = bool2byte(cpu.V[y] <= cpu.V[x])
		cpu.V[x] -= cpu.V[y]

	case 0x6:
		// SHR Vx {, Vy} :: Set VF = Vx & 1, Vx = Vx SHR 1.
		cpu.V[0xF] = cpu.V[x] & 0b00000001
		cpu.V[x] >>= 1

	case 0x7:
		// SUBN Vx, Vy :: Set VF = NOT borrow, Vx = Vy - Vx.
		cpu.V[0xF] = bool2byte(cpu.V[x] <= cpu.V[y])
		cpu.V[x] = cpu.V[y] - cpu.V[x]

	case 0xE:
		// SHL Vx {, Vy} :: Set VF = Vx >> 7, Vx = Vx SHL 1.
		cpu.V[0xF] = (cpu.V[x] & 0b10000000) >> 7
		cpu.V[x] <<= 1
	}
}

// executeMisc runs the FXNN timer, keyboard and memory operations
func (cpu *Cpu) executeMisc(inst Instruction) {
	x := inst.X

	switch inst.NN {
	case 0x07:
		// LD Vx, DT :: Set Vx = delay timer value.
		cpu.V[x] = cpu.Dt

	case 0x0A:
		// LD Vx, K :: Wait for a key press, store the value of the key in Vx.
		// Without a key the instruction is fetched again on the next cycle.
		if k, pressed := cpu.keypad.Pressed(); pressed {
			cpu.V[x] = k
		} else {
			cpu.Pc -= 2
		}

	case 0x15:
		// LD DT, Vx :: Set delay timer = Vx.
		cpu.Dt = cpu.V[x]

	case 0x18:
		// LD ST, Vx :: Set sound timer = Vx.
		cpu.St = cpu.V[x]

	case 0x1E:
		// ADD I, Vx :: Set I = I + Vx.
		cpu.I = (cpu.I + uint16(cpu.V[x])) & addressMask

	case 0x29:
		// LD F, Vx :: Set I = location of sprite for digit Vx.
		cpu.I = (uint16(cpu.V[x]) * 5) & addressMask

	case 0x33:
		// LD B, Vx :: Store BCD representation of Vx in memory locations I, I+1, and I+2.
		v := cpu.V[x]
		cpu.store(cpu.I+0, v/100)
		cpu.store(cpu.I+1, (v/10)%10)
		cpu.store(cpu.I+2, v%10)

	case 0x55:
		// LD [I], Vx :: Store registers V0 through Vx in memory starting at location I.
		for i := uint16(0); i <= uint16(x); i++ {
			cpu.store(cpu.I+i, cpu.V[i])
		}

	case 0x65:
		// LD Vx, [I] :: Read registers V0 through Vx from memory starting at location I.
		for i := uint16(0); i <= uint16(x); i++ {
			if addr := cpu.I + i; addr < MemorySize {
				cpu.V[i] = cpu.Memory[addr]
			}
		}
	}
}

// store writes b at addr, skipping addresses outside of memory
func (cpu *Cpu) store(addr uint16, b byte) {
	if addr < MemorySize {
		cpu.Memory[addr] = b
	}
}

func bool2byte(b bool) byte {
	if b {
		return 1
	}

	return 0
}
