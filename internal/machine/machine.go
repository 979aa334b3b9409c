// Package machine implements the CHIP-8 interpreter core: memory, registers,
// call stack, framebuffer, keypad and timers, advanced one instruction at a
// time by the host.
package machine

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// CHIP-8 memory layout and hardware constants.
//
// CHIP-8 memory map (4KB total):
//
//	0x000-0x04F: Built-in font glyphs (16 glyphs, 5 bytes each)
//	0x050-0x1FF: Unused interpreter area
//	0x200-0xFFF: Program space
const (
	// MemorySize is the size of the addressable memory in bytes.
	MemorySize = 4096

	// ProgramStart is the address the program image is loaded to and where
	// execution starts.
	ProgramStart = 0x200

	// MaxProgramSize is the largest program image that fits above ProgramStart.
	MaxProgramSize = MemorySize - ProgramStart

	// RegisterCount is the number of general purpose registers V0-VF.
	RegisterCount = 16

	// FlagRegister is the register used as carry, borrow and collision flag.
	FlagRegister = 0xF

	// StackDepth is the maximum number of nested subroutine calls.
	StackDepth = 16

	// KeyCount is the number of keys on the hexadecimal keypad.
	KeyCount = 16

	// InstructionSize is the size of every instruction in bytes.
	InstructionSize = 2
)

// state is the complete machine state. It only consists of fixed size arrays
// and scalars so that a plain assignment produces an independent copy.
type state struct {
	memory    [MemorySize]byte
	registers [RegisterCount]byte
	index     uint16
	pc        uint16
	stack     [StackDepth]uint16
	sp        uint16

	delayTimer byte
	soundTimer byte

	screen Framebuffer
	keys   [KeyCount]bool

	rng rand.PCG
}

// Tracer observes executed instructions. It is called after every
// successfully executed step with the address the instruction was fetched from.
type Tracer interface {
	Trace(address uint16, ins Instruction)
}

// Option configures a Machine on construction.
type Option func(*Machine)

// WithSeed sets the seed of the random source used by the RND instruction.
// Machines created with the same seed produce the same random sequence.
func WithSeed(seed uint64) Option {
	return func(m *Machine) {
		m.seed = seed
	}
}

// WithTracer sets a tracer that gets called for every executed instruction.
func WithTracer(tracer Tracer) Option {
	return func(m *Machine) {
		m.tracer = tracer
	}
}

// Machine is a CHIP-8 interpreter instance. It never runs on its own, the
// host drives it by calling Step and TickTimers.
// A Machine is not safe for concurrent use.
type Machine struct {
	state

	seed   uint64
	tracer Tracer
}

// New returns a new machine with the font loaded and all other state cleared.
func New(opts ...Option) *Machine {
	m := &Machine{
		seed: uint64(time.Now().UnixNano()),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.Reset()
	return m
}

// Reset returns the machine to its initial state, discarding any loaded
// program. The random source is reseeded with the construction seed.
func (m *Machine) Reset() {
	m.state = state{
		pc: ProgramStart,
	}
	copy(m.memory[FontAddress:], fontSet[:])
	m.rng.Seed(m.seed, m.seed^rngStream)
}

// LoadProgram copies the program image verbatim into memory starting at
// ProgramStart. Images that do not fit are rejected before any byte is copied.
func (m *Machine) LoadProgram(program []byte) error {
	if len(program) > MaxProgramSize {
		return fmt.Errorf("%w: %d bytes, %d available", ErrProgramTooLarge, len(program), MaxProgramSize)
	}
	copy(m.memory[ProgramStart:], program)
	return nil
}

// PC returns the program counter.
func (m *Machine) PC() uint16 {
	return m.pc
}

// Index returns the index register I.
func (m *Machine) Index() uint16 {
	return m.index
}

// Register returns the value of register Vx. Only the low nibble of x is used.
func (m *Machine) Register(x uint8) byte {
	return m.registers[x&0xF]
}

// Registers returns a copy of all general purpose registers.
func (m *Machine) Registers() [RegisterCount]byte {
	return m.registers
}

// StackPointer returns the number of return addresses on the stack.
func (m *Machine) StackPointer() int {
	return int(m.sp)
}

// DelayTimer returns the current delay timer value.
func (m *Machine) DelayTimer() byte {
	return m.delayTimer
}

// SoundTimer returns the current sound timer value.
func (m *Machine) SoundTimer() byte {
	return m.soundTimer
}

// SoundActive returns whether the host should currently output a tone.
func (m *Machine) SoundActive() bool {
	return m.soundTimer > 0
}

// Framebuffer returns a copy of the current display state.
func (m *Machine) Framebuffer() Framebuffer {
	return m.screen
}

// ReadMemory returns a copy of n bytes of memory starting at address.
func (m *Machine) ReadMemory(address uint16, n int) ([]byte, error) {
	if err := checkRange("read", address, n); err != nil {
		return nil, err
	}
	data := make([]byte, n)
	copy(data, m.memory[address:])
	return data, nil
}

// SkipInstruction advances the program counter past the current instruction
// without executing it. Hosts use it to step over an unknown instruction.
func (m *Machine) SkipInstruction() error {
	if err := checkRange("skip", m.pc, InstructionSize); err != nil {
		return err
	}
	m.pc += InstructionSize
	return nil
}
