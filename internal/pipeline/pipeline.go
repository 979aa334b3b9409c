// Package pipeline orchestrates the workflow stages of a program run or
// disassembly.
package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/retroenv/retrochip8/internal/audio"
	"github.com/retroenv/retrochip8/internal/detector"
	"github.com/retroenv/retrochip8/internal/digest"
	"github.com/retroenv/retrochip8/internal/disasm"
	"github.com/retroenv/retrochip8/internal/loader"
	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/runner"
	"github.com/retroenv/retrogolib/log"
)

// Result contains the outcome of a program run.
type Result struct {
	Frames int                 // number of completed frames
	Digest string              // chained fingerprint of all rendered frames
	Screen machine.Framebuffer // last rendered frame
}

// Pipeline orchestrates the complete workflow.
type Pipeline struct {
	logger   *log.Logger
	detector *detector.Detector
	loader   *loader.Loader
}

// New creates a new pipeline.
func New(logger *log.Logger) *Pipeline {
	return &Pipeline{
		logger:   logger,
		detector: detector.New(logger),
		loader:   loader.New(),
	}
}

// Execute runs the complete pipeline for the input file. The result is nil
// when a disassembly listing was requested.
func (p *Pipeline) Execute(ctx context.Context, opts options.Program, writer io.Writer) (*Result, error) {
	system, err := p.detector.Detect(opts)
	if err != nil {
		return nil, fmt.Errorf("detecting system: %w", err)
	}

	program, err := p.loader.Load(opts.Input, system)
	if err != nil {
		return nil, fmt.Errorf("loading program: %w", err)
	}

	return p.ExecuteWithProgram(ctx, program, opts, writer)
}

// ExecuteWithProgram runs the pipeline with a program image that is already
// in memory.
func (p *Pipeline) ExecuteWithProgram(ctx context.Context, program []byte, opts options.Program,
	writer io.Writer) (*Result, error) {

	if opts.Disassemble {
		if err := p.disassemble(program, opts, writer); err != nil {
			return nil, fmt.Errorf("disassembling: %w", err)
		}
		return nil, nil
	}

	result, err := p.run(ctx, program, opts, writer)
	if err != nil {
		return nil, fmt.Errorf("running program: %w", err)
	}
	return result, nil
}

// disassemble writes the listing of the program.
func (p *Pipeline) disassemble(program []byte, opts options.Program, writer io.Writer) error {
	p.printInfo("Disassembling CHIP-8 program", opts, len(program))

	listingOpts := disasm.DefaultOptions()
	listingOpts.HexComments = !opts.NoHexComments
	listingOpts.OffsetComments = !opts.NoOffsets
	dis, err := disasm.New(p.logger, program, listingOpts)
	if err != nil {
		return fmt.Errorf("creating disassembler: %w", err)
	}
	if err := dis.Process(writer); err != nil {
		return fmt.Errorf("processing disassembly: %w", err)
	}
	return nil
}

// run executes the program headless for the configured number of frames and
// writes the final screen and register state.
func (p *Pipeline) run(ctx context.Context, program []byte, opts options.Program, writer io.Writer) (*Result, error) {
	keys, err := runner.ParseKeyScript(opts.Keys)
	if err != nil {
		return nil, fmt.Errorf("parsing key script: %w", err)
	}

	m := machine.New(p.machineOptions(opts)...)
	if err := m.LoadProgram(program); err != nil {
		return nil, fmt.Errorf("loading program into memory: %w", err)
	}

	video := digest.NewVideo()
	screen := digest.NewText()
	runnerOpts := []runner.Option{
		runner.WithRenderer(video),
		runner.WithRenderer(screen),
	}

	var recorder *audio.Recorder
	if opts.Wav != "" {
		recorder = audio.NewRecorder(p.logger)
		runnerOpts = append(runnerOpts, runner.WithBeeper(recorder))
	}

	cfg := runner.Config{
		InstructionsPerFrame: opts.InstructionsPerFrame,
		Keys:                 keys,
	}
	if opts.SkipUnknown {
		cfg.Policy = runner.SkipUnknown
	}
	r := runner.New(p.logger, m, cfg, runnerOpts...)

	p.printInfo("Running CHIP-8 program", opts, len(program))

	if err := r.Run(ctx, opts.Frames); err != nil {
		p.logger.Debug("Machine state at error",
			log.Hex("pc", m.PC()),
			log.Hex("index", m.Index()),
			log.Int("stack_pointer", m.StackPointer()),
			log.String("registers", m.RegisterDump()))
		return nil, err
	}

	result := &Result{
		Frames: r.Frame(),
		Digest: video.Hash(),
		Screen: m.Framebuffer(),
	}
	p.logger.Info("Run finished",
		log.Int("frames", result.Frames),
		log.String("digest", result.Digest))

	if _, err := fmt.Fprintf(writer, "%s\n%s\n", screen.String(), m.RegisterDump()); err != nil {
		return nil, fmt.Errorf("writing screen: %w", err)
	}

	if recorder != nil {
		if err := recorder.WriteFile(opts.Wav); err != nil {
			return nil, fmt.Errorf("writing audio: %w", err)
		}
	}

	return result, nil
}

func (p *Pipeline) machineOptions(opts options.Program) []machine.Option {
	var machineOpts []machine.Option
	if opts.Seed != 0 {
		machineOpts = append(machineOpts, machine.WithSeed(opts.Seed))
	}
	if opts.Trace {
		machineOpts = append(machineOpts, machine.WithTracer(runner.NewTraceLogger(p.logger)))
	}
	return machineOpts
}

// printInfo prints information about the program being processed.
func (p *Pipeline) printInfo(msg string, opts options.Program, size int) {
	if opts.Quiet {
		return
	}

	if opts.Disassemble {
		p.logger.Info(msg,
			log.String("file", opts.Input),
			log.Int("size", size),
		)
		return
	}

	p.logger.Info(msg,
		log.String("file", opts.Input),
		log.Int("size", size),
		log.Int("frames", opts.Frames),
		log.Int("instructions_per_frame", opts.InstructionsPerFrame),
	)
}
