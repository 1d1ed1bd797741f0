package progress

import (
	"log/slog"

	"lectern/internal/logging"
)

// Event is one progress update from the pipeline. Percent is -1 when the
// stage has no measurable completion.
type Event struct {
	Source  string
	Stage   string
	Message string
	Percent int
}

// Reporter receives pipeline progress. Implementations must not block the
// pipeline.
type Reporter interface {
	Publish(event Event)
}

// Nop discards all events.
type Nop struct{}

func (Nop) Publish(Event) {}

// Logger publishes events to a structured logger.
type Logger struct {
	logger *slog.Logger
}

// NewLogger builds a Reporter that writes events at info level.
func NewLogger(logger *slog.Logger) *Logger {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Logger{logger: logger}
}

func (l *Logger) Publish(event Event) {
	attrs := []any{
		logging.String("stage", event.Stage),
		logging.String("source", event.Source),
	}
	if event.Percent >= 0 {
		attrs = append(attrs, logging.Int("percent", event.Percent))
	}
	l.logger.Info(event.Message, attrs...)
}

// Channel forwards events to a channel without blocking. When the receiver
// falls behind, events are dropped rather than stalling the pipeline.
type Channel struct {
	events chan Event
}

// NewChannel builds a Reporter buffering up to size events.
func NewChannel(size int) *Channel {
	if size < 1 {
		size = 1
	}
	return &Channel{events: make(chan Event, size)}
}

// Events exposes the receive side.
func (c *Channel) Events() <-chan Event {
	return c.events
}

func (c *Channel) Publish(event Event) {
	select {
	case c.events <- event:
	default:
	}
}

// Close releases the channel. Publish must not be called afterwards.
func (c *Channel) Close() {
	close(c.events)
}

// Multi fans one event out to several reporters.
type Multi []Reporter

func (m Multi) Publish(event Event) {
	for _, reporter := range m {
		if reporter != nil {
			reporter.Publish(event)
		}
	}
}
