// Package digest provides renderers that fingerprint or capture the frames of
// a run. The fingerprint is not a security feature, it is used to compare
// headless runs for regressions.
package digest

import (
	"crypto/sha1"
	"fmt"

	"github.com/retroenv/retrochip8/internal/machine"
)

// Video implements runner.Renderer and chains a SHA-1 fingerprint over every
// rendered frame.
type Video struct {
	digest [sha1.Size]byte
	pixels []byte
	frames int
}

// NewVideo returns a new video digest.
func NewVideo() *Video {
	return &Video{
		// room for the previous digest followed by one byte per pixel
		pixels: make([]byte, sha1.Size+machine.Width*machine.Height),
	}
}

// Render adds the frame to the fingerprint.
func (v *Video) Render(_ int, fb machine.Framebuffer) {
	// chain fingerprints by copying the value of the last fingerprint
	// to the head of the video data
	copy(v.pixels, v.digest[:])

	for i, p := range fb {
		if p {
			v.pixels[sha1.Size+i] = 1
		} else {
			v.pixels[sha1.Size+i] = 0
		}
	}

	v.digest = sha1.Sum(v.pixels)
	v.frames++
}

// Hash returns the current fingerprint as hex string.
func (v *Video) Hash() string {
	return fmt.Sprintf("%x", v.digest)
}

// Frames returns the number of frames in the fingerprint.
func (v *Video) Frames() int {
	return v.frames
}

// Reset clears the fingerprint.
func (v *Video) Reset() {
	v.digest = [sha1.Size]byte{}
	v.frames = 0
}
