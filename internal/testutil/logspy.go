// internal/testutil/logspy.go
package testutil

import (
	"context"
	"log/slog"
	"sync"
)

// LogHandlerSpy is a slog.Handler that keeps every record for assertions.
type LogHandlerSpy struct {
	mu      sync.Mutex
	records []slog.Record
}

// NewLogHandlerSpy returns an empty spy that records every level.
func NewLogHandlerSpy() *LogHandlerSpy {
	return &LogHandlerSpy{records: make([]slog.Record, 0)}
}

// Logger returns a logger writing into the spy.
func (s *LogHandlerSpy) Logger() *slog.Logger {
	return slog.New(s)
}

func (s *LogHandlerSpy) Handle(_ context.Context, record slog.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record.Clone())
	return nil
}

func (s *LogHandlerSpy) Enabled(_ context.Context, _ slog.Level) bool {
	return true
}

// WithAttrs drops the attributes; tests look at messages and levels.
func (s *LogHandlerSpy) WithAttrs(_ []slog.Attr) slog.Handler {
	return s
}

func (s *LogHandlerSpy) WithGroup(_ string) slog.Handler {
	return s
}

// Messages returns the messages logged at level, in order.
func (s *LogHandlerSpy) Messages(level slog.Level) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := make([]string, 0)
	for _, r := range s.records {
		if r.Level == level {
			msgs = append(msgs, r.Message)
		}
	}
	return msgs
}

// Attr returns the value of key on the first record with msg.
func (s *LogHandlerSpy) Attr(msg, key string) (slog.Value, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.records {
		if r.Message != msg {
			continue
		}
		var (
			found slog.Value
			ok    bool
		)
		r.Attrs(func(a slog.Attr) bool {
			if a.Key == key {
				found, ok = a.Value, true
				return false
			}
			return true
		})
		return found, ok
	}
	return slog.Value{}, false
}
