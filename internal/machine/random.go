package machine

// rngStream is mixed into the seed to derive the second PCG seed word.
const rngStream = 0x9E3779B97F4A7C15

// randomByte returns the next byte of the random source. The source is part
// of the machine state, a restored snapshot replays the same sequence.
func (m *Machine) randomByte() byte {
	return byte(m.rng.Uint64() >> 56)
}
