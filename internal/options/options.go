// Package options contains the program options.
package options

// Parameters contains file path options.
type Parameters struct {
	Input  string `flag:"i" usage:"input program image"`
	Output string `flag:"o" usage:"output file for the listing or final screen (default: stdout)"`
	Wav    string `flag:"wav" usage:"record the sound timer as WAV file"`
}

// Flags contains behavior options.
type Flags struct {
	System      string `flag:"s" usage:"target system: chip8 (default: auto-detect)"`
	Disassemble bool   `flag:"disasm" usage:"write a disassembly listing instead of running"`
	SkipUnknown bool   `flag:"skip-unknown" usage:"skip unknown instructions instead of halting"`
	Trace       bool   `flag:"trace" usage:"log every executed instruction"`
	Debug       bool   `flag:"debug" usage:"enable debug logging"`
	Quiet       bool   `flag:"q" usage:"quiet mode"`
}

// RunFlags contains options of headless runs.
type RunFlags struct {
	Frames               int    `flag:"frames" usage:"number of frames to run, 0 runs until interrupted" default:"600"`
	InstructionsPerFrame int    `flag:"ipf" usage:"instructions executed per frame" default:"10"`
	Seed                 uint64 `flag:"seed" usage:"random seed, 0 uses a time based seed"`
	Keys                 string `flag:"keys" usage:"key script, frame:key:down|up, frame:save|load:slot, frame:pause|resume[,...]"`
}

// OutputFlags contains listing formatting options.
type OutputFlags struct {
	NoHexComments bool `flag:"nohexcomments" usage:"omit hex opcode bytes in comments"`
	NoOffsets     bool `flag:"nooffsets" usage:"omit addresses in comments"`
}

// Program options of the interpreter.
type Program struct {
	Parameters
	Flags
	RunFlags
	OutputFlags
}
