package runner

import (
	"errors"
	"slices"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestParseKeyScript(t *testing.T) {
	events, err := ParseKeyScript(" 20:F:up, 5:a:DOWN ,20:0:down")
	assert.NoError(t, err)

	expected := []KeyEvent{
		{Frame: 5, Key: 0xA, Pressed: true},
		{Frame: 20, Key: 0xF, Pressed: false},
		{Frame: 20, Key: 0x0, Pressed: true},
	}
	assert.True(t, slices.Equal(expected, events))
}

func TestParseKeyScriptActions(t *testing.T) {
	events, err := ParseKeyScript("9:load:1,2:save:1,4:PAUSE,6:resume")
	assert.NoError(t, err)

	expected := []KeyEvent{
		{Frame: 2, Action: SaveAction, Slot: 1},
		{Frame: 4, Action: PauseAction},
		{Frame: 6, Action: ResumeAction},
		{Frame: 9, Action: LoadAction, Slot: 1},
	}
	assert.True(t, slices.Equal(expected, events))
}

func TestParseKeyScriptEmpty(t *testing.T) {
	events, err := ParseKeyScript("  ")
	assert.NoError(t, err)
	assert.Len(t, events, 0)
}

func TestParseKeyScriptErrors(t *testing.T) {
	tests := []struct {
		name   string
		script string
	}{
		{"missing state", "1:a"},
		{"negative frame", "-1:a:down"},
		{"invalid frame", "x:a:down"},
		{"key out of range", "1:10:down"},
		{"invalid key", "1:g:down"},
		{"invalid state", "1:a:pressed"},
		{"empty entry", "1:a:down,"},
		{"save without slot", "1:save"},
		{"slot out of range", "1:save:4"},
		{"invalid slot", "1:load:x"},
		{"pause with argument", "1:pause:1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseKeyScript(tt.script)
			assert.True(t, errors.Is(err, ErrInvalidKeyScript))
		})
	}
}

func TestKeyQueue(t *testing.T) {
	q := newKeyQueue([]KeyEvent{
		{Frame: 3, Key: 1},
		{Frame: 0, Key: 2},
		{Frame: 3, Key: 3},
	})

	assert.True(t, slices.Equal([]KeyEvent{{Frame: 0, Key: 2}}, q.due(0)))
	assert.Len(t, q.due(1), 0)
	assert.True(t, slices.Equal([]KeyEvent{{Frame: 3, Key: 1}, {Frame: 3, Key: 3}}, q.due(5)))
	assert.Len(t, q.due(6), 0)
}
