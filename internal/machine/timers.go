package machine

// TickTimers decrements the delay and sound timers by one if they are not
// already zero. The host calls it at a fixed rate, conventionally 60 Hz,
// independent of the number of executed instructions.
func (m *Machine) TickTimers() {
	if m.delayTimer > 0 {
		m.delayTimer--
	}
	if m.soundTimer > 0 {
		m.soundTimer--
	}
}
