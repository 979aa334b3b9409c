package machine

// Snapshot is an independent copy of the complete machine state, including
// the state of the random source.
type Snapshot struct {
	state state
}

// PC returns the program counter stored in the snapshot.
func (s Snapshot) PC() uint16 {
	return s.state.pc
}

// Snapshot returns a copy of the current machine state. Later changes to the
// machine do not affect the snapshot.
func (m *Machine) Snapshot() Snapshot {
	return Snapshot{state: m.state}
}

// Restore replaces the complete machine state with the snapshot. The snapshot
// itself is not modified and can be restored again.
func (m *Machine) Restore(s Snapshot) {
	m.state = s.state
}
