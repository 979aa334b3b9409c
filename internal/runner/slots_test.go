package runner

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestSaveAndLoad(t *testing.T) {
	// random value into V0, add 1 to V1 forever
	r, m := newTestRunner(t, Config{InstructionsPerFrame: 3}, []uint16{0xC0FF, 0x7101, 0x1200})

	assert.NoError(t, r.RunFrame())
	assert.NoError(t, r.Save(0))
	saved := m.Registers()

	assert.NoError(t, r.RunFrame())
	first := m.Registers()
	assert.True(t, first != saved)

	assert.NoError(t, r.Load(0))
	assert.Equal(t, saved, m.Registers())

	// the restored random source replays the same values
	assert.NoError(t, r.RunFrame())
	assert.Equal(t, first, m.Registers())

	// the slot can be loaded again
	assert.NoError(t, r.Load(0))
	assert.Equal(t, saved, m.Registers())
}

func TestSlotErrors(t *testing.T) {
	r, _ := newTestRunner(t, Config{}, []uint16{0x1200})

	assert.True(t, errors.Is(r.Save(-1), ErrInvalidSlot))
	assert.True(t, errors.Is(r.Save(SaveSlots), ErrInvalidSlot))
	assert.True(t, errors.Is(r.Load(SaveSlots), ErrInvalidSlot))
	assert.True(t, errors.Is(r.Load(SaveSlots-1), ErrEmptySlot))

	assert.NoError(t, r.Save(SaveSlots-1))
	assert.NoError(t, r.Load(SaveSlots-1))
}
