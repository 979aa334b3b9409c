package runner

import "github.com/retroenv/retrochip8/internal/machine"

// mockRenderer records every rendered frame.
type mockRenderer struct {
	frames []int
	lit    []int
	last   machine.Framebuffer
}

func (m *mockRenderer) Render(frame int, fb machine.Framebuffer) {
	m.frames = append(m.frames, frame)
	m.lit = append(m.lit, fb.Lit())
	m.last = fb
}

// mockBeeper records the sound state of every frame.
type mockBeeper struct {
	frames []int
	active []bool
}

func (m *mockBeeper) Beep(frame int, active bool) {
	m.frames = append(m.frames, frame)
	m.active = append(m.active, active)
}
