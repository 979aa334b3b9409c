package machine

import "fmt"

// Step executes exactly one fetch, decode and execute cycle. If the
// instruction fails the machine state is left as it was before the call.
func (m *Machine) Step() error {
	address := m.pc
	word, err := m.fetch()
	if err != nil {
		return err
	}

	ins := Decode(word)
	if err := m.execute(ins); err != nil {
		m.pc = address
		return fmt.Errorf("executing %s at $%03X: %w", ins, address, err)
	}

	if m.tracer != nil {
		m.tracer.Trace(address, ins)
	}
	return nil
}

// fetch reads the big-endian instruction word at the program counter and
// advances the program counter past it.
func (m *Machine) fetch() (uint16, error) {
	if err := checkRange("fetch", m.pc, InstructionSize); err != nil {
		return 0, err
	}
	word := uint16(m.memory[m.pc])<<8 | uint16(m.memory[m.pc+1])
	m.pc += InstructionSize
	return word, nil
}

// execute applies the semantics of a decoded instruction. The program counter
// already points to the next instruction. Every handler validates its memory,
// stack and key accesses before it modifies any state.
func (m *Machine) execute(ins Instruction) error {
	v := &m.registers

	switch ins.Op {
	case OpNop:

	case OpClear:
		m.screen.clear()

	case OpReturn:
		address, err := m.pop()
		if err != nil {
			return err
		}
		m.pc = address

	case OpJump:
		m.pc = ins.NNN

	case OpCall:
		if err := m.push(m.pc); err != nil {
			return err
		}
		m.pc = ins.NNN

	case OpSkipEqualByte:
		m.skipIf(v[ins.X] == ins.NN)

	case OpSkipNotEqualByte:
		m.skipIf(v[ins.X] != ins.NN)

	case OpSkipEqualReg:
		m.skipIf(v[ins.X] == v[ins.Y])

	case OpSkipNotEqualReg:
		m.skipIf(v[ins.X] != v[ins.Y])

	case OpLoadByte:
		v[ins.X] = ins.NN

	case OpAddByte:
		v[ins.X] += ins.NN

	case OpLoadReg, OpOr, OpAnd, OpXor, OpAddReg, OpSub, OpShiftRight, OpSubReverse, OpShiftLeft:
		m.executeALU(ins)

	case OpLoadIndex:
		m.index = ins.NNN

	case OpJumpOffset:
		m.pc = uint16(v[0]) + ins.NNN

	case OpRandom:
		v[ins.X] = m.randomByte() & ins.NN

	case OpDraw:
		return m.draw(ins)

	case OpSkipKey, OpSkipNotKey:
		key := v[ins.X]
		if key >= KeyCount {
			return fmt.Errorf("%w: V%X holds $%02X", ErrInvalidKey, ins.X, key)
		}
		m.skipIf(m.keys[key] == (ins.Op == OpSkipKey))

	case OpLoadDelay:
		v[ins.X] = m.delayTimer

	case OpWaitKey:
		m.waitKey(ins.X)

	case OpSetDelay:
		m.delayTimer = v[ins.X]

	case OpSetSound:
		m.soundTimer = v[ins.X]

	case OpAddIndex:
		m.index += uint16(v[ins.X])

	case OpLoadGlyph:
		m.index = FontAddress + uint16(v[ins.X])*GlyphSize

	case OpStoreBCD:
		if err := checkRange("bcd store", m.index, 3); err != nil {
			return err
		}
		value := v[ins.X]
		m.memory[m.index] = value / 100
		m.memory[m.index+1] = value / 10 % 10
		m.memory[m.index+2] = value % 10

	case OpStoreRegs:
		n := int(ins.X) + 1
		if err := checkRange("register store", m.index, n); err != nil {
			return err
		}
		copy(m.memory[m.index:int(m.index)+n], v[:n])

	case OpLoadRegs:
		n := int(ins.X) + 1
		if err := checkRange("register load", m.index, n); err != nil {
			return err
		}
		copy(v[:n], m.memory[m.index:int(m.index)+n])

	default:
		return &UnknownInstructionError{Address: m.pc - InstructionSize, Word: ins.Word}
	}

	return nil
}

// executeALU handles the 8XYN register to register operations. VF is written
// after the result so that it holds the flag even if X is F.
func (m *Machine) executeALU(ins Instruction) {
	v := &m.registers
	x, y := v[ins.X], v[ins.Y]

	switch ins.Op {
	case OpLoadReg:
		v[ins.X] = y

	case OpOr:
		v[ins.X] = x | y

	case OpAnd:
		v[ins.X] = x & y

	case OpXor:
		v[ins.X] = x ^ y

	case OpAddReg:
		sum := uint16(x) + uint16(y)
		v[ins.X] = byte(sum)
		v[FlagRegister] = byte(sum >> 8)

	case OpSub:
		v[ins.X] = x - y
		v[FlagRegister] = boolToFlag(x >= y)

	case OpSubReverse:
		v[ins.X] = y - x
		v[FlagRegister] = boolToFlag(y >= x)

	case OpShiftRight:
		v[ins.X] = x >> 1
		v[FlagRegister] = x & 0x01

	case OpShiftLeft:
		v[ins.X] = x << 1
		v[FlagRegister] = x >> 7
	}
}

// draw renders an N row sprite from memory at I to the position held in
// registers X and Y and sets VF on collision.
func (m *Machine) draw(ins Instruction) error {
	rows := int(ins.N)
	if err := checkRange("sprite read", m.index, rows); err != nil {
		return err
	}

	sprite := m.memory[m.index : int(m.index)+rows]
	collision := m.screen.drawSprite(m.registers[ins.X], m.registers[ins.Y], sprite)
	m.registers[FlagRegister] = boolToFlag(collision)
	return nil
}

// waitKey stores the lowest pressed key in register x. Without a pressed key
// the program counter is rewound so that the instruction is executed again
// on the next step.
func (m *Machine) waitKey(x uint8) {
	for key, pressed := range m.keys {
		if pressed {
			m.registers[x] = byte(key)
			return
		}
	}
	m.pc -= InstructionSize
}

func (m *Machine) skipIf(condition bool) {
	if condition {
		m.pc += InstructionSize
	}
}

func boolToFlag(b bool) byte {
	if b {
		return 1
	}
	return 0
}
