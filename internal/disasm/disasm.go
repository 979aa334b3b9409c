// Package disasm produces an assembler listing of a CHIP-8 program image by
// tracing the control flow from the program entry point.
package disasm

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrogolib/log"
)

// ErrEmptyProgram is returned for program images without any bytes.
var ErrEmptyProgram = errors.New("empty program")

// maxBytesPerLine limits the number of data bytes per .byte line.
const maxBytesPerLine = 8

type offsetType uint8

const (
	unvisited offsetType = iota
	codeStart
	codeOperand
)

// offset holds the disassembly information of a single program byte.
type offset struct {
	typ   offsetType
	label string
	ins   machine.Instruction
}

// Options controls the listing output.
type Options struct {
	HexComments    bool // output the instruction bytes as comment
	OffsetComments bool // output the address as comment
}

// DefaultOptions returns the default listing options.
func DefaultOptions() Options {
	return Options{
		HexComments:    true,
		OffsetComments: true,
	}
}

// Disasm traces a program image and collects code, data and labels.
type Disasm struct {
	logger  *log.Logger
	options Options

	program []byte
	offsets []offset
	queue   []uint16
}

// New returns a disassembler for the program image, which is expected to be
// loaded at machine.ProgramStart.
func New(logger *log.Logger, program []byte, options Options) (*Disasm, error) {
	if len(program) == 0 {
		return nil, ErrEmptyProgram
	}
	if len(program) > machine.MaxProgramSize {
		return nil, fmt.Errorf("%w: %d bytes", machine.ErrProgramTooLarge, len(program))
	}

	dis := &Disasm{
		logger:  logger,
		options: options,
		program: program,
		offsets: make([]offset, len(program)),
	}
	return dis, nil
}

// Process traces the program and writes the listing.
func (dis *Disasm) Process(w io.Writer) error {
	dis.trace()
	if err := dis.write(w); err != nil {
		return fmt.Errorf("writing listing: %w", err)
	}
	return nil
}

// trace follows all reachable instructions starting at the entry point.
func (dis *Disasm) trace() {
	dis.setLabel(machine.ProgramStart, "Start")
	dis.addAddressToParse(machine.ProgramStart)

	for len(dis.queue) > 0 {
		address := dis.queue[0]
		dis.queue = dis.queue[1:]
		dis.processAddress(address)
	}
}

// addAddressToParse queues an address for tracing if it lies inside the
// program image.
func (dis *Disasm) addAddressToParse(address uint16) {
	if _, ok := dis.index(address); !ok {
		return
	}
	dis.queue = append(dis.queue, address)
}

// processAddress decodes the instruction at the address and queues all
// addresses the control flow can continue at.
func (dis *Disasm) processAddress(address uint16) {
	i, ok := dis.index(address)
	if !ok || i+1 >= len(dis.program) {
		return
	}
	if dis.offsets[i].typ != unvisited || dis.offsets[i+1].typ != unvisited {
		return // already processed or overlapping an instruction
	}

	word := uint16(dis.program[i])<<8 | uint16(dis.program[i+1])
	ins := machine.Decode(word)
	if ins.Op == machine.OpUnknown {
		// Consider an unknown instruction as start of data
		dis.logger.Debug("Unknown instruction",
			log.Hex("address", address),
			log.Hex("word", word))
		return
	}

	dis.offsets[i].typ = codeStart
	dis.offsets[i].ins = ins
	dis.offsets[i+1].typ = codeOperand

	dis.handleControlFlow(address, ins)
}

// handleControlFlow queues the follow up addresses of an instruction.
func (dis *Disasm) handleControlFlow(address uint16, ins machine.Instruction) {
	next := address + machine.InstructionSize

	switch {
	case ins.IsJump():
		dis.setLabel(ins.NNN, fmt.Sprintf("label_%03X", ins.NNN))
		dis.addAddressToParse(ins.NNN)

	case ins.IsCall():
		dis.setLabel(ins.NNN, fmt.Sprintf("sub_%03X", ins.NNN))
		dis.addAddressToParse(ins.NNN)
		dis.addAddressToParse(next)

	case ins.IsSkip():
		dis.addAddressToParse(next)
		dis.addAddressToParse(next + machine.InstructionSize)

	case ins.IsDataReference():
		dis.setLabel(ins.NNN, fmt.Sprintf("data_%03X", ins.NNN))
		dis.addAddressToParse(next)

	case ins.IsReturn(), ins.Op == machine.OpJumpOffset:
		// target is not known statically

	default:
		dis.addAddressToParse(next)
	}
}

// setLabel sets a label for an address inside the program image, keeping an
// already existing label.
func (dis *Disasm) setLabel(address uint16, label string) {
	i, ok := dis.index(address)
	if !ok || dis.offsets[i].label != "" {
		return
	}
	dis.offsets[i].label = label
}

// index converts a memory address to an index into the program image.
func (dis *Disasm) index(address uint16) (int, bool) {
	if address < machine.ProgramStart {
		return 0, false
	}
	i := int(address - machine.ProgramStart)
	if i >= len(dis.program) {
		return 0, false
	}
	return i, true
}

// write outputs the listing, instructions for traced code and .byte lines
// for everything else.
func (dis *Disasm) write(w io.Writer) error {
	var data []byte
	var dataStart int

	flush := func() error {
		if len(data) == 0 {
			return nil
		}
		err := dis.writeData(w, dataStart, data)
		data = data[:0]
		return err
	}

	for i := 0; i < len(dis.program); i++ {
		off := dis.offsets[i]
		if off.label != "" || off.typ == codeStart || len(data) == maxBytesPerLine {
			if err := flush(); err != nil {
				return err
			}
		}
		if off.label != "" {
			if _, err := fmt.Fprintf(w, "\n%s:\n", off.label); err != nil {
				return err
			}
		}

		if off.typ == codeStart && i+1 < len(dis.program) && dis.offsets[i+1].label == "" {
			if err := dis.writeCode(w, i, off.ins); err != nil {
				return err
			}
			i++
			continue
		}

		if len(data) == 0 {
			dataStart = i
		}
		data = append(data, dis.program[i])
	}
	return flush()
}

func (dis *Disasm) writeCode(w io.Writer, i int, ins machine.Instruction) error {
	line := "  " + ins.String()
	comment := dis.comment(i, dis.program[i:i+machine.InstructionSize])
	if comment != "" {
		line = fmt.Sprintf("%-32s; %s", line, comment)
	}
	_, err := fmt.Fprintln(w, line)
	return err
}

func (dis *Disasm) writeData(w io.Writer, i int, data []byte) error {
	values := make([]string, len(data))
	for j, b := range data {
		values[j] = fmt.Sprintf("$%02X", b)
	}

	line := "  .byte " + strings.Join(values, ", ")
	if dis.options.OffsetComments {
		line = fmt.Sprintf("%-32s; $%03X", line, machine.ProgramStart+i)
	}
	_, err := fmt.Fprintln(w, line)
	return err
}

func (dis *Disasm) comment(i int, opcode []byte) string {
	var parts []string
	if dis.options.OffsetComments {
		parts = append(parts, fmt.Sprintf("$%03X", machine.ProgramStart+i))
	}
	if dis.options.HexComments {
		parts = append(parts, fmt.Sprintf("%02X %02X", opcode[0], opcode[1]))
	}
	return strings.Join(parts, " ")
}
