package machine

import "fmt"

// SetKey sets the pressed state of a keypad key.
func (m *Machine) SetKey(key uint8, pressed bool) error {
	if key >= KeyCount {
		return fmt.Errorf("%w: %d", ErrInvalidKey, key)
	}
	m.keys[key] = pressed
	return nil
}

// Key returns whether a keypad key is pressed. Keys outside of 0x0-0xF are
// never pressed.
func (m *Machine) Key(key uint8) bool {
	if key >= KeyCount {
		return false
	}
	return m.keys[key]
}
