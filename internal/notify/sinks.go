package notify

import (
	"log/slog"
	"sync"
)

// SlogSink mirrors notices to a structured logger.
type SlogSink struct {
	logger *slog.Logger
}

// NewSlogSink creates a sink writing to logger.
func NewSlogSink(logger *slog.Logger) *SlogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogSink{logger: logger}
}

func (s *SlogSink) Notify(n Notice) {
	switch n.Level {
	case LevelFailure:
		s.logger.Warn("notice", "level", n.Level, "message", n.Message)
	default:
		s.logger.Info("notice", "level", n.Level, "message", n.Message)
	}
}

// PanelSink buffers notices for the chat panel to poll. It keeps the most
// recent capacity notices and drops the oldest beyond that.
type PanelSink struct {
	mu       sync.Mutex
	buf      []Notice
	capacity int
}

// NewPanelSink creates a buffered sink. capacity <= 0 means 64.
func NewPanelSink(capacity int) *PanelSink {
	if capacity <= 0 {
		capacity = 64
	}
	return &PanelSink{capacity: capacity}
}

func (s *PanelSink) Notify(n Notice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buf = append(s.buf, n)
	if len(s.buf) > s.capacity {
		s.buf = s.buf[len(s.buf)-s.capacity:]
	}
}

// Drain returns buffered notices and clears the buffer.
func (s *PanelSink) Drain() []Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.buf
	s.buf = nil
	return out
}

// Fanout duplicates notices to several sinks.
type Fanout []Sink

func (f Fanout) Notify(n Notice) {
	for _, sink := range f {
		sink.Notify(n)
	}
}
