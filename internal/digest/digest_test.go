package digest

import (
	"strings"
	"testing"

	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrogolib/assert"
)

func TestVideoChainsFrames(t *testing.T) {
	var lit machine.Framebuffer
	lit[0] = true

	a := NewVideo()
	a.Render(0, machine.Framebuffer{})
	first := a.Hash()
	a.Render(1, lit)
	assert.Equal(t, 2, a.Frames())

	b := NewVideo()
	b.Render(0, machine.Framebuffer{})
	assert.Equal(t, first, b.Hash())
	b.Render(1, lit)
	assert.Equal(t, a.Hash(), b.Hash())

	// same frames in a different order result in a different fingerprint
	c := NewVideo()
	c.Render(0, lit)
	c.Render(1, machine.Framebuffer{})
	assert.True(t, a.Hash() != c.Hash())
}

func TestVideoRepeatedFramesDiffer(t *testing.T) {
	v := NewVideo()
	v.Render(0, machine.Framebuffer{})
	h1 := v.Hash()
	v.Render(1, machine.Framebuffer{})
	assert.True(t, h1 != v.Hash())
	assert.Equal(t, 40, len(v.Hash()))
}

func TestVideoReset(t *testing.T) {
	v := NewVideo()
	empty := v.Hash()
	v.Render(0, machine.Framebuffer{})
	v.Reset()

	assert.Equal(t, empty, v.Hash())
	assert.Equal(t, 0, v.Frames())
}

func TestText(t *testing.T) {
	r := NewText()
	_, ok := r.Frame()
	assert.False(t, ok)

	var fb machine.Framebuffer
	fb[machine.Width+1] = true
	r.Render(7, fb)

	frame, ok := r.Frame()
	assert.True(t, ok)
	assert.Equal(t, 7, frame)

	lines := strings.Split(r.String(), "\n")
	assert.Equal(t, "."+"#"+strings.Repeat(".", machine.Width-2), lines[1])
}
