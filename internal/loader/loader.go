// Package loader handles program image loading.
package loader

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrogolib/arch"
)

var (
	ErrUnsupportedSystem = errors.New("unsupported system")
	ErrEmptyProgram      = errors.New("empty program file")
)

// Loader handles loading program images from disk.
type Loader struct{}

// New creates a new program loader.
func New() *Loader {
	return &Loader{}
}

// Load reads the raw program image of the input file. Images that do not fit
// into the program memory are rejected before any machine sees them.
func (l *Loader) Load(path string, system arch.System) ([]byte, error) {
	if system != arch.CHIP8System {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSystem, system)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	return l.LoadFromReader(file)
}

// LoadFromReader reads a raw program image.
func (l *Loader) LoadFromReader(reader io.Reader) ([]byte, error) {
	// read one byte more than fits to detect oversize images
	data, err := io.ReadAll(io.LimitReader(reader, machine.MaxProgramSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading program: %w", err)
	}

	switch {
	case len(data) == 0:
		return nil, ErrEmptyProgram
	case len(data) > machine.MaxProgramSize:
		return nil, fmt.Errorf("%w: more than %d bytes", machine.ErrProgramTooLarge, machine.MaxProgramSize)
	}
	return data, nil
}
