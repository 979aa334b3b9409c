package machine

import (
	"errors"
	"fmt"
)

var (
	// ErrProgramTooLarge is returned when a program image does not fit into
	// memory above ProgramStart.
	ErrProgramTooLarge = errors.New("program too large")

	// ErrStackOverflow is returned by a call with a full stack.
	ErrStackOverflow = errors.New("stack overflow")

	// ErrStackUnderflow is returned by a return with an empty stack.
	ErrStackUnderflow = errors.New("stack underflow")

	// ErrMemoryBounds is wrapped by every MemoryError.
	ErrMemoryBounds = errors.New("memory access out of bounds")

	// ErrInvalidKey is returned for key indexes outside of 0x0-0xF.
	ErrInvalidKey = errors.New("invalid key index")
)

// UnknownInstructionError is returned by Step for instruction words that are
// not part of the instruction set. The machine state is left unchanged.
type UnknownInstructionError struct {
	Address uint16
	Word    uint16
}

func (e *UnknownInstructionError) Error() string {
	return fmt.Sprintf("unknown instruction $%04X at $%03X", e.Word, e.Address)
}

// MemoryError describes a memory access outside of the address space.
type MemoryError struct {
	Op      string
	Address uint16
	Length  int
}

func (e *MemoryError) Error() string {
	return fmt.Sprintf("%s of %d bytes at $%04X: %s", e.Op, e.Length, e.Address, ErrMemoryBounds)
}

// Unwrap allows errors.Is checks against ErrMemoryBounds.
func (e *MemoryError) Unwrap() error {
	return ErrMemoryBounds
}

// checkRange validates that n bytes starting at address are inside memory.
func checkRange(op string, address uint16, n int) error {
	if n < 0 || int(address)+n > MemorySize {
		return &MemoryError{Op: op, Address: address, Length: n}
	}
	return nil
}
