package loader

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrogolib/arch"
	"github.com/retroenv/retrogolib/assert"
)

func TestLoad(t *testing.T) {
	t.Run("load CHIP8 file", func(t *testing.T) {
		tmpFile := createTempFile(t, []byte{0x12, 0x34, 0x56, 0x78})

		data, err := New().Load(tmpFile, arch.CHIP8System)
		assert.NoError(t, err)
		assert.True(t, bytes.Equal([]byte{0x12, 0x34, 0x56, 0x78}, data))
	})

	t.Run("maximum program size", func(t *testing.T) {
		tmpFile := createTempFile(t, make([]byte, machine.MaxProgramSize))

		data, err := New().Load(tmpFile, arch.CHIP8System)
		assert.NoError(t, err)
		assert.Len(t, data, machine.MaxProgramSize)
	})

	t.Run("error on oversize file", func(t *testing.T) {
		tmpFile := createTempFile(t, make([]byte, machine.MaxProgramSize+1))

		_, err := New().Load(tmpFile, arch.CHIP8System)
		assert.True(t, errors.Is(err, machine.ErrProgramTooLarge))
	})

	t.Run("error on empty file", func(t *testing.T) {
		tmpFile := createTempFile(t, nil)

		_, err := New().Load(tmpFile, arch.CHIP8System)
		assert.True(t, errors.Is(err, ErrEmptyProgram))
	})

	t.Run("error on non-existent file", func(t *testing.T) {
		_, err := New().Load("/nonexistent/file.ch8", arch.CHIP8System)
		assert.Error(t, err)
	})

	t.Run("error on unsupported system", func(t *testing.T) {
		tmpFile := createTempFile(t, []byte{0x12, 0x00})

		_, err := New().Load(tmpFile, arch.NES)
		assert.True(t, errors.Is(err, ErrUnsupportedSystem))
	})
}

func TestLoadFromReader(t *testing.T) {
	data, err := New().LoadFromReader(bytes.NewReader([]byte{0x00, 0xE0}))
	assert.NoError(t, err)
	assert.True(t, bytes.Equal([]byte{0x00, 0xE0}, data))
}

func createTempFile(t *testing.T, data []byte) string {
	t.Helper()
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "test.ch8")
	if err := os.WriteFile(tmpFile, data, 0600); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	return tmpFile
}
