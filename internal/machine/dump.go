package machine

import (
	"fmt"
	"strings"
)

// RegisterDump returns the general purpose registers as text, four registers
// per line.
func (m *Machine) RegisterDump() string {
	var sb strings.Builder
	for row := 0; row < RegisterCount; row += 4 {
		if row > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString("[")
		for i := row; i < row+4; i++ {
			fmt.Fprintf(&sb, " V%02d: %02X", i, m.registers[i])
		}
		sb.WriteString(" ]")
	}
	return sb.String()
}
