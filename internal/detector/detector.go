// Package detector handles system detection.
package detector

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/arch"
	"github.com/retroenv/retrogolib/log"
)

// ErrUnsupportedSystem is returned for systems other than CHIP-8.
var ErrUnsupportedSystem = errors.New("unsupported system")

// Detector handles system detection from file extensions and options.
type Detector struct {
	logger *log.Logger
}

// New creates a new system detector.
func New(logger *log.Logger) *Detector {
	return &Detector{
		logger: logger,
	}
}

// Detect determines the system from the options or the input file name.
// An explicitly specified system takes precedence, only CHIP-8 programs are
// supported.
func (d *Detector) Detect(opts options.Program) (arch.System, error) {
	system, _ := arch.SystemFromString(opts.System)
	if opts.System == "" {
		system = d.detectFromFile(opts.Input)
		d.logger.Debug("Auto-detected system",
			log.Stringer("system", system),
			log.String("file", opts.Input))
	}

	if system != arch.CHIP8System {
		name := opts.System
		if name == "" {
			name = system.String()
		}
		return "", fmt.Errorf("%w: %s", ErrUnsupportedSystem, name)
	}
	return system, nil
}

// detectFromFile determines the system type based on file extension.
// Raw program images often come without a known extension, so anything that
// is not a NES ROM is assumed to be a CHIP-8 program.
func (d *Detector) detectFromFile(filename string) arch.System {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".nes":
		return arch.NES
	default:
		return arch.CHIP8System
	}
}
