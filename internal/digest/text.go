package digest

import "github.com/retroenv/retrochip8/internal/machine"

// Text implements runner.Renderer and keeps the last rendered frame.
type Text struct {
	frame int
	fb    machine.Framebuffer
	valid bool
}

// NewText returns a new text renderer.
func NewText() *Text {
	return &Text{}
}

// Render stores the frame.
func (t *Text) Render(frame int, fb machine.Framebuffer) {
	t.frame = frame
	t.fb = fb
	t.valid = true
}

// Frame returns the number of the last rendered frame and whether any frame
// was rendered.
func (t *Text) Frame() (int, bool) {
	return t.frame, t.valid
}

// String returns the last rendered frame as text.
func (t *Text) String() string {
	return t.fb.String()
}
