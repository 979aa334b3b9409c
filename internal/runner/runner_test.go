package runner

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func program(words ...uint16) []byte {
	data := make([]byte, 0, len(words)*2)
	for _, w := range words {
		data = append(data, byte(w>>8), byte(w))
	}
	return data
}

func newTestRunner(t *testing.T, cfg Config, words []uint16, options ...Option) (*Runner, *machine.Machine) {
	t.Helper()
	m := machine.New(machine.WithSeed(1))
	assert.NoError(t, m.LoadProgram(program(words...)))
	return New(log.NewTestLogger(t), m, cfg, options...), m
}

func TestRunFrameSteps(t *testing.T) {
	// add 1 to V0 forever
	r, m := newTestRunner(t, Config{InstructionsPerFrame: 4}, []uint16{0x7001, 0x1200})

	assert.NoError(t, r.RunFrame())
	assert.Equal(t, byte(2), m.Register(0))
	assert.Equal(t, 1, r.Frame())

	assert.NoError(t, r.RunFrame())
	assert.Equal(t, byte(4), m.Register(0))
	assert.Equal(t, 2, r.Frame())
}

func TestRunFrameDefaultInstructionsPerFrame(t *testing.T) {
	r, m := newTestRunner(t, Config{}, []uint16{0x7001, 0x1200})

	assert.NoError(t, r.RunFrame())
	assert.Equal(t, byte(DefaultInstructionsPerFrame/2), m.Register(0))
}

func TestRunFrameTicksTimersOnce(t *testing.T) {
	// set delay and sound timer to 3, then loop
	r, m := newTestRunner(t, Config{InstructionsPerFrame: 10},
		[]uint16{0x6003, 0xF015, 0xF018, 0x1206})

	assert.NoError(t, r.RunFrame())
	assert.Equal(t, byte(2), m.DelayTimer())
	assert.Equal(t, byte(2), m.SoundTimer())

	assert.NoError(t, r.RunFrame())
	assert.Equal(t, byte(1), m.DelayTimer())
}

func TestRunFrameOutputs(t *testing.T) {
	renderer := &mockRenderer{}
	beeper := &mockBeeper{}
	// draw glyph 2 at 2,2, set sound timer to 2, loop
	r, _ := newTestRunner(t, Config{InstructionsPerFrame: 5},
		[]uint16{0x6002, 0xF029, 0xD005, 0xF018, 0x1208},
		WithRenderer(renderer), WithBeeper(beeper))

	assert.NoError(t, r.Run(context.Background(), 3))

	assert.True(t, slices.Equal([]int{0, 1, 2}, renderer.frames))
	assert.True(t, slices.Equal([]int{14, 14, 14}, renderer.lit))
	assert.True(t, renderer.last.Pixel(2, 2))
	assert.True(t, renderer.last.Pixel(5, 2))
	assert.False(t, renderer.last.Pixel(0, 0))

	assert.True(t, slices.Equal([]int{0, 1, 2}, beeper.frames))
	assert.True(t, slices.Equal([]bool{true, false, false}, beeper.active))
}

func TestRunFrameAppliesKeyEvents(t *testing.T) {
	keys := []KeyEvent{
		{Frame: 2, Key: 0x5, Pressed: false},
		{Frame: 1, Key: 0x5, Pressed: true},
	}
	// wait for a key into V1, then loop
	r, m := newTestRunner(t, Config{InstructionsPerFrame: 2, Keys: keys},
		[]uint16{0xF10A, 0x1202})

	assert.NoError(t, r.RunFrame())
	assert.Equal(t, uint16(0x200), m.PC())
	assert.False(t, m.Key(0x5))

	assert.NoError(t, r.RunFrame())
	assert.True(t, m.Key(0x5))
	assert.Equal(t, byte(0x5), m.Register(1))
	assert.Equal(t, uint16(0x202), m.PC())

	assert.NoError(t, r.RunFrame())
	assert.False(t, m.Key(0x5))
}

func TestRunFrameInvalidKeyEvent(t *testing.T) {
	r, _ := newTestRunner(t, Config{Keys: []KeyEvent{{Key: machine.KeyCount, Pressed: true}}},
		[]uint16{0x1200})

	err := r.RunFrame()
	assert.True(t, errors.Is(err, machine.ErrInvalidKey))
}

func TestRunFrameAppliesScriptActions(t *testing.T) {
	keys := []KeyEvent{
		{Frame: 1, Action: SaveAction, Slot: 2},
		{Frame: 2, Action: PauseAction},
		{Frame: 3, Action: ResumeAction},
		{Frame: 4, Action: LoadAction, Slot: 2},
	}
	// add 1 to V0 forever
	r, m := newTestRunner(t, Config{InstructionsPerFrame: 2, Keys: keys}, []uint16{0x7001, 0x1200})

	assert.NoError(t, r.RunFrame())
	assert.Equal(t, byte(1), m.Register(0))

	assert.NoError(t, r.RunFrame())
	assert.Equal(t, byte(2), m.Register(0))

	assert.NoError(t, r.RunFrame())
	assert.True(t, r.Paused())
	assert.Equal(t, byte(2), m.Register(0))

	assert.NoError(t, r.RunFrame())
	assert.False(t, r.Paused())
	assert.Equal(t, byte(3), m.Register(0))

	// restores V0 from frame 1 and continues from there
	assert.NoError(t, r.RunFrame())
	assert.Equal(t, byte(2), m.Register(0))
}

func TestRunFrameLoadEmptySlot(t *testing.T) {
	keys := []KeyEvent{{Frame: 0, Action: LoadAction, Slot: 0}}
	r, _ := newTestRunner(t, Config{Keys: keys}, []uint16{0x1200})

	err := r.RunFrame()
	assert.True(t, errors.Is(err, ErrEmptySlot))
}

func TestPause(t *testing.T) {
	renderer := &mockRenderer{}
	r, m := newTestRunner(t, Config{InstructionsPerFrame: 2},
		[]uint16{0x6005, 0xF015, 0x7101, 0x1204}, WithRenderer(renderer))

	assert.NoError(t, r.RunFrame())
	assert.Equal(t, byte(4), m.DelayTimer())
	pc := m.PC()

	r.SetPaused(true)
	assert.True(t, r.Paused())
	assert.NoError(t, r.RunFrame())
	assert.Equal(t, pc, m.PC())
	assert.Equal(t, byte(4), m.DelayTimer())
	assert.Len(t, renderer.frames, 2)

	r.SetPaused(false)
	assert.NoError(t, r.RunFrame())
	assert.Equal(t, byte(3), m.DelayTimer())
}

func TestErrorPolicy(t *testing.T) {
	words := []uint16{0x5001, 0x6007, 0x1204}

	t.Run("halt on error", func(t *testing.T) {
		r, m := newTestRunner(t, Config{InstructionsPerFrame: 3}, words)

		err := r.RunFrame()
		var unknown *machine.UnknownInstructionError
		assert.True(t, errors.As(err, &unknown))
		assert.Equal(t, uint16(0x200), unknown.Address)
		assert.Equal(t, uint16(0x200), m.PC())
		assert.Equal(t, 0, r.Frame())
	})

	t.Run("skip unknown", func(t *testing.T) {
		r, m := newTestRunner(t, Config{InstructionsPerFrame: 3, Policy: SkipUnknown}, words)

		assert.NoError(t, r.RunFrame())
		assert.Equal(t, byte(7), m.Register(0))
		assert.Equal(t, 1, r.Frame())
	})

	t.Run("skip unknown halts on other errors", func(t *testing.T) {
		r, _ := newTestRunner(t, Config{Policy: SkipUnknown}, []uint16{0x00EE})

		err := r.RunFrame()
		assert.True(t, errors.Is(err, machine.ErrStackUnderflow))
	})
}

func TestRunCancelled(t *testing.T) {
	r, _ := newTestRunner(t, Config{}, []uint16{0x1200})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := r.Run(ctx, 0)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 0, r.Frame())
}

func TestRunFrames(t *testing.T) {
	r, _ := newTestRunner(t, Config{}, []uint16{0x1200})

	assert.NoError(t, r.Run(context.Background(), 5))
	assert.Equal(t, 5, r.Frame())
}

func TestTraceLogger(t *testing.T) {
	m := machine.New(machine.WithTracer(NewTraceLogger(log.NewTestLogger(t))))
	assert.NoError(t, m.LoadProgram(program(0x6001)))
	assert.NoError(t, m.Step())
}
