package machine

import (
	"fmt"

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Op identifies the form of a decoded instruction.
type Op uint8

// Instruction forms of the CHIP-8 instruction set. The comment shows the
// nibble pattern that selects the form.
const (
	OpUnknown         Op = iota // word not in the instruction set
	OpNop                       // 0000
	OpClear                     // 00E0
	OpReturn                    // 00EE
	OpJump                      // 1NNN
	OpCall                      // 2NNN
	OpSkipEqualByte             // 3XNN
	OpSkipNotEqualByte          // 4XNN
	OpSkipEqualReg              // 5XY0
	OpLoadByte                  // 6XNN
	OpAddByte                   // 7XNN
	OpLoadReg                   // 8XY0
	OpOr                        // 8XY1
	OpAnd                       // 8XY2
	OpXor                       // 8XY3
	OpAddReg                    // 8XY4
	OpSub                       // 8XY5
	OpShiftRight                // 8XY6
	OpSubReverse                // 8XY7
	OpShiftLeft                 // 8XYE
	OpSkipNotEqualReg           // 9XY0
	OpLoadIndex                 // ANNN
	OpJumpOffset                // BNNN
	OpRandom                    // CXNN
	OpDraw                      // DXYN
	OpSkipKey                   // EX9E
	OpSkipNotKey                // EXA1
	OpLoadDelay                 // FX07
	OpWaitKey                   // FX0A
	OpSetDelay                  // FX15
	OpSetSound                  // FX18
	OpAddIndex                  // FX1E
	OpLoadGlyph                 // FX29
	OpStoreBCD                  // FX33
	OpStoreRegs                 // FX55
	OpLoadRegs                  // FX65
)

// mnemonics maps every instruction form to its assembler instruction.
// OpUnknown and OpNop have no mnemonic and are rendered as data words.
var mnemonics = map[Op]*chip8.Instruction{
	OpClear:            chip8.ClsInst,
	OpReturn:           chip8.RetInst,
	OpJump:             chip8.JpInst,
	OpCall:             chip8.CallInst,
	OpSkipEqualByte:    chip8.SeInst,
	OpSkipNotEqualByte: chip8.SneInst,
	OpSkipEqualReg:     chip8.SeInst,
	OpLoadByte:         chip8.LdInst,
	OpAddByte:          chip8.AddInst,
	OpLoadReg:          chip8.LdInst,
	OpOr:               chip8.OrInst,
	OpAnd:              chip8.AndInst,
	OpXor:              chip8.XorInst,
	OpAddReg:           chip8.AddInst,
	OpSub:              chip8.SubInst,
	OpShiftRight:       chip8.ShrInst,
	OpSubReverse:       chip8.SubnInst,
	OpShiftLeft:        chip8.ShlInst,
	OpSkipNotEqualReg:  chip8.SneInst,
	OpLoadIndex:        chip8.LdInst,
	OpJumpOffset:       chip8.JpInst,
	OpRandom:           chip8.RndInst,
	OpDraw:             chip8.DrwInst,
	OpSkipKey:          chip8.SkpInst,
	OpSkipNotKey:       chip8.SknpInst,
	OpLoadDelay:        chip8.LdInst,
	OpWaitKey:          chip8.LdInst,
	OpSetDelay:         chip8.LdInst,
	OpSetSound:         chip8.LdInst,
	OpAddIndex:         chip8.AddInst,
	OpLoadGlyph:        chip8.LdInst,
	OpStoreBCD:         chip8.LdInst,
	OpStoreRegs:        chip8.LdInst,
	OpLoadRegs:         chip8.LdInst,
}

// Instruction is a decoded instruction word. Only the operand fields used by
// the instruction form are meaningful.
type Instruction struct {
	Op   Op
	Word uint16

	X   uint8  // register index, second nibble
	Y   uint8  // register index, third nibble
	N   uint8  // 4 bit immediate, fourth nibble
	NN  uint8  // 8 bit immediate, low byte
	NNN uint16 // 12 bit address, low three nibbles
}

// Decode splits an instruction word into its nibble fields and selects the
// instruction form. Exact patterns are matched before wildcard fields, words
// outside of the instruction set decode to OpUnknown.
func Decode(word uint16) Instruction {
	ins := Instruction{
		Word: word,
		X:    uint8(word>>8) & 0xF,
		Y:    uint8(word>>4) & 0xF,
		N:    uint8(word) & 0xF,
		NN:   uint8(word),
		NNN:  word & 0x0FFF,
	}
	ins.Op = decodeOp(word, ins.Y, ins.N)
	return ins
}

func decodeOp(word uint16, y, n uint8) Op {
	switch word >> 12 {
	case 0x0:
		switch word {
		case 0x0000:
			return OpNop
		case 0x00E0:
			return OpClear
		case 0x00EE:
			return OpReturn
		}
	case 0x1:
		return OpJump
	case 0x2:
		return OpCall
	case 0x3:
		return OpSkipEqualByte
	case 0x4:
		return OpSkipNotEqualByte
	case 0x5:
		if n == 0 {
			return OpSkipEqualReg
		}
	case 0x6:
		return OpLoadByte
	case 0x7:
		return OpAddByte
	case 0x8:
		return decodeALU(n)
	case 0x9:
		if n == 0 {
			return OpSkipNotEqualReg
		}
	case 0xA:
		return OpLoadIndex
	case 0xB:
		return OpJumpOffset
	case 0xC:
		return OpRandom
	case 0xD:
		return OpDraw
	case 0xE:
		switch y<<4 | n {
		case 0x9E:
			return OpSkipKey
		case 0xA1:
			return OpSkipNotKey
		}
	case 0xF:
		return decodeMisc(y<<4 | n)
	}
	return OpUnknown
}

func decodeALU(n uint8) Op {
	switch n {
	case 0x0:
		return OpLoadReg
	case 0x1:
		return OpOr
	case 0x2:
		return OpAnd
	case 0x3:
		return OpXor
	case 0x4:
		return OpAddReg
	case 0x5:
		return OpSub
	case 0x6:
		return OpShiftRight
	case 0x7:
		return OpSubReverse
	case 0xE:
		return OpShiftLeft
	}
	return OpUnknown
}

func decodeMisc(nn uint8) Op {
	switch nn {
	case 0x07:
		return OpLoadDelay
	case 0x0A:
		return OpWaitKey
	case 0x15:
		return OpSetDelay
	case 0x18:
		return OpSetSound
	case 0x1E:
		return OpAddIndex
	case 0x29:
		return OpLoadGlyph
	case 0x33:
		return OpStoreBCD
	case 0x55:
		return OpStoreRegs
	case 0x65:
		return OpLoadRegs
	}
	return OpUnknown
}

// Name returns the assembler mnemonic of the instruction, or an empty string
// for words without one.
func (i Instruction) Name() string {
	ins, ok := mnemonics[i.Op]
	if !ok {
		return ""
	}
	return ins.Name
}

// IsJump returns true for jumps with a static target address.
func (i Instruction) IsJump() bool {
	return i.Op == OpJump
}

// IsCall returns true for subroutine calls.
func (i Instruction) IsCall() bool {
	return i.Op == OpCall
}

// IsReturn returns true for subroutine returns.
func (i Instruction) IsReturn() bool {
	return i.Op == OpReturn
}

// IsSkip returns true if the instruction conditionally skips the next one.
func (i Instruction) IsSkip() bool {
	name := i.Name()
	if name == "" {
		return false
	}
	return chip8.SkipInstructions.Contains(name)
}

// IsDataReference returns true if the instruction loads an address into the
// index register (LD I, addr).
func (i Instruction) IsDataReference() bool {
	return i.Op == OpLoadIndex
}

// String returns the instruction in assembler syntax.
func (i Instruction) String() string {
	name := i.Name()
	if name == "" {
		return fmt.Sprintf(".word $%04X", i.Word)
	}
	if params := i.params(); params != "" {
		return fmt.Sprintf("%s %s", name, params)
	}
	return name
}

// params formats the operands of the instruction.
func (i Instruction) params() string {
	switch i.Op {
	case OpJump, OpCall:
		return fmt.Sprintf("$%03X", i.NNN)
	case OpJumpOffset:
		return fmt.Sprintf("V0, $%03X", i.NNN)
	case OpLoadIndex:
		return fmt.Sprintf("I, $%03X", i.NNN)
	case OpSkipEqualByte, OpSkipNotEqualByte, OpLoadByte, OpAddByte, OpRandom:
		return fmt.Sprintf("V%X, $%02X", i.X, i.NN)
	case OpSkipEqualReg, OpSkipNotEqualReg, OpLoadReg, OpOr, OpAnd, OpXor,
		OpAddReg, OpSub, OpSubReverse:
		return fmt.Sprintf("V%X, V%X", i.X, i.Y)
	case OpShiftRight, OpShiftLeft, OpSkipKey, OpSkipNotKey:
		return fmt.Sprintf("V%X", i.X)
	case OpDraw:
		return fmt.Sprintf("V%X, V%X, $%X", i.X, i.Y, i.N)
	case OpLoadDelay:
		return fmt.Sprintf("V%X, DT", i.X)
	case OpWaitKey:
		return fmt.Sprintf("V%X, K", i.X)
	case OpSetDelay:
		return fmt.Sprintf("DT, V%X", i.X)
	case OpSetSound:
		return fmt.Sprintf("ST, V%X", i.X)
	case OpAddIndex:
		return fmt.Sprintf("I, V%X", i.X)
	case OpLoadGlyph:
		return fmt.Sprintf("F, V%X", i.X)
	case OpStoreBCD:
		return fmt.Sprintf("B, V%X", i.X)
	case OpStoreRegs:
		return fmt.Sprintf("[I], V%X", i.X)
	case OpLoadRegs:
		return fmt.Sprintf("V%X, [I]", i.X)
	}
	return ""
}
