package serial

import (
	"bytes"
	"log/slog"
)

// LogSink logs outgoing bytes as text, one log record per line.
// Handy for test roms that report results over serial.
type LogSink struct {
	logger *slog.Logger
	line   []byte
}

func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger}
}

func (s *LogSink) Send(b byte) {
	if b == 0 || b == '\n' || b == '\r' {
		s.Flush()
		return
	}
	s.line = append(s.line, b)
}

// Flush logs any partial line.
func (s *LogSink) Flush() {
	if len(s.line) == 0 {
		return
	}
	s.logger.Info("serial", "line", string(s.line))
	s.line = s.line[:0]
}

// Buffer collects every outgoing byte.
type Buffer struct {
	bytes.Buffer
}

func (b *Buffer) Send(c byte) {
	b.WriteByte(c)
}

// Tee sends each byte to all sinks.
type Tee []Sink

func (t Tee) Send(b byte) {
	for _, s := range t {
		s.Send(b)
	}
}
