package machine

import "strings"

// Display dimensions in pixels.
const (
	Width  = 64
	Height = 32
)

// Framebuffer is the monochrome display, stored row-major with (0,0) at the
// top left corner.
type Framebuffer [Width * Height]bool

// Pixel returns whether the pixel at x,y is set. Coordinates outside of the
// display return false.
func (f Framebuffer) Pixel(x, y int) bool {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return false
	}
	return f[y*Width+x]
}

// Lit returns the number of set pixels.
func (f Framebuffer) Lit() int {
	n := 0
	for _, p := range f {
		if p {
			n++
		}
	}
	return n
}

// String renders the framebuffer as text, one line per row, '#' for set and
// '.' for cleared pixels.
func (f Framebuffer) String() string {
	var sb strings.Builder
	sb.Grow((Width + 1) * Height)
	for y := range Height {
		for x := range Width {
			if f[y*Width+x] {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// drawSprite XORs a sprite of len(sprite) rows, 8 pixels wide, onto the
// framebuffer at x,y. Pixels past the right or bottom edge wrap around.
// It returns whether any set pixel was cleared.
func (f *Framebuffer) drawSprite(x, y byte, sprite []byte) bool {
	collision := false
	for row, bits := range sprite {
		py := (int(y) + row) % Height
		for col := range 8 {
			if bits&(0x80>>col) == 0 {
				continue
			}
			px := (int(x) + col) % Width
			i := py*Width + px
			if f[i] {
				collision = true
			}
			f[i] = !f[i]
		}
	}
	return collision
}

// clear resets all pixels.
func (f *Framebuffer) clear() {
	*f = Framebuffer{}
}
