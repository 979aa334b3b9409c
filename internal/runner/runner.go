// Package runner implements the host frame loop around a machine: key input,
// a fixed number of instructions per frame, a timer tick per frame and the
// renderer and beeper outputs.
package runner

import (
	"context"
	"errors"
	"fmt"

	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrogolib/log"
)

// DefaultInstructionsPerFrame is the number of steps executed per 60 Hz frame.
const DefaultInstructionsPerFrame = 10

// ErrorPolicy defines how the runner reacts to a failing step.
type ErrorPolicy int

const (
	// HaltOnError stops the run on any step error.
	HaltOnError ErrorPolicy = iota
	// SkipUnknown skips unknown instructions and halts on all other errors.
	SkipUnknown
)

// Renderer receives the framebuffer at the end of every frame.
type Renderer interface {
	Render(frame int, fb machine.Framebuffer)
}

// Beeper receives the sound state at the end of every frame.
type Beeper interface {
	Beep(frame int, active bool)
}

// Config holds the runner settings.
type Config struct {
	InstructionsPerFrame int
	Policy               ErrorPolicy
	Keys                 []KeyEvent
}

// Option configures an optional runner output.
type Option func(*Runner)

// WithRenderer adds a renderer that is called at the end of every frame.
func WithRenderer(renderer Renderer) Option {
	return func(r *Runner) {
		r.renderers = append(r.renderers, renderer)
	}
}

// WithBeeper adds a beeper that is called at the end of every frame.
func WithBeeper(beeper Beeper) Option {
	return func(r *Runner) {
		r.beepers = append(r.beepers, beeper)
	}
}

// Runner drives a machine frame by frame.
type Runner struct {
	logger  *log.Logger
	machine *machine.Machine

	instructionsPerFrame int
	policy               ErrorPolicy
	keys                 *keyQueue

	renderers []Renderer
	beepers   []Beeper

	frame  int
	paused bool
	slots  [SaveSlots]*machine.Snapshot
}

// New returns a runner for the machine, which is expected to have its
// program loaded already.
func New(logger *log.Logger, m *machine.Machine, cfg Config, options ...Option) *Runner {
	ipf := cfg.InstructionsPerFrame
	if ipf < 1 {
		ipf = DefaultInstructionsPerFrame
	}

	r := &Runner{
		logger:               logger,
		machine:              m,
		instructionsPerFrame: ipf,
		policy:               cfg.Policy,
		keys:                 newKeyQueue(cfg.Keys),
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// Frame returns the number of completed frames.
func (r *Runner) Frame() int {
	return r.frame
}

// SetPaused pauses or resumes execution. A paused frame applies key events and
// renders, but neither steps the machine nor ticks its timers.
func (r *Runner) SetPaused(paused bool) {
	if r.paused == paused {
		return
	}
	r.paused = paused
	if paused {
		r.logger.Debug("Execution paused", log.Int("frame", r.frame))
	} else {
		r.logger.Debug("Execution resumed", log.Int("frame", r.frame))
	}
}

// Paused returns whether execution is paused.
func (r *Runner) Paused() bool {
	return r.paused
}

// Run executes the given number of frames, or runs until the context is
// cancelled if frames is 0.
func (r *Runner) Run(ctx context.Context, frames int) error {
	for i := 0; frames == 0 || i < frames; i++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("run stopped at frame %d: %w", r.frame, err)
		}
		if err := r.RunFrame(); err != nil {
			return err
		}
	}
	return nil
}

// RunFrame executes a single frame: queued script events for the frame are
// applied, the configured number of instructions executed, the timers ticked
// once and the outputs called.
func (r *Runner) RunFrame() error {
	for _, event := range r.keys.due(r.frame) {
		if err := r.apply(event); err != nil {
			return fmt.Errorf("applying script event in frame %d: %w", r.frame, err)
		}
	}

	if !r.paused {
		for range r.instructionsPerFrame {
			if err := r.step(); err != nil {
				return fmt.Errorf("frame %d: %w", r.frame, err)
			}
		}
		r.machine.TickTimers()
	}

	fb := r.machine.Framebuffer()
	for _, renderer := range r.renderers {
		renderer.Render(r.frame, fb)
	}
	active := r.machine.SoundActive()
	for _, beeper := range r.beepers {
		beeper.Beep(r.frame, active)
	}

	r.frame++
	return nil
}

// apply executes a scripted event.
func (r *Runner) apply(event KeyEvent) error {
	switch event.Action {
	case KeyAction:
		return r.machine.SetKey(event.Key, event.Pressed)
	case SaveAction:
		return r.Save(event.Slot)
	case LoadAction:
		return r.Load(event.Slot)
	case PauseAction:
		r.SetPaused(true)
	case ResumeAction:
		r.SetPaused(false)
	default:
		return fmt.Errorf("unsupported script action %d", event.Action)
	}
	return nil
}

// step executes one instruction and applies the error policy.
func (r *Runner) step() error {
	err := r.machine.Step()
	if err == nil {
		return nil
	}

	var unknown *machine.UnknownInstructionError
	if r.policy != SkipUnknown || !errors.As(err, &unknown) {
		return err
	}

	r.logger.Warn("Skipping unknown instruction",
		log.Hex("address", unknown.Address),
		log.Hex("word", unknown.Word))
	if err := r.machine.SkipInstruction(); err != nil {
		return fmt.Errorf("skipping unknown instruction: %w", err)
	}
	return nil
}
