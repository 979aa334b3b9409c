package runner

import (
	"github.com/retroenv/retrochip8/internal/machine"
	"github.com/retroenv/retrogolib/log"
)

// TraceLogger logs every executed instruction at debug level.
type TraceLogger struct {
	logger *log.Logger
}

var _ machine.Tracer = (*TraceLogger)(nil)

// NewTraceLogger returns a machine tracer that logs to the logger.
func NewTraceLogger(logger *log.Logger) *TraceLogger {
	return &TraceLogger{logger: logger}
}

// Trace implements machine.Tracer.
func (t *TraceLogger) Trace(address uint16, ins machine.Instruction) {
	t.logger.Debug("Executed instruction",
		log.Hex("address", address),
		log.Hex("word", ins.Word),
		log.Stringer("instruction", ins))
}
