package testdoubles

import (
	"context"
	"log/slog"
	"sync"
)

// LogHandlerSpy captures slog records at every level.
type LogHandlerSpy struct {
	mu      sync.Mutex
	records []slog.Record
}

func NewLogHandlerSpy() *LogHandlerSpy {
	return &LogHandlerSpy{}
}

// NewLoggerSpy returns a slog.Logger writing into a fresh spy.
func NewLoggerSpy() (*slog.Logger, *LogHandlerSpy) {
	spy := NewLogHandlerSpy()
	return slog.New(spy), spy
}

func (s *LogHandlerSpy) Handle(_ context.Context, record slog.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, record.Clone())

	return nil
}

func (s *LogHandlerSpy) Enabled(context.Context, slog.Level) bool {
	return true
}

func (s *LogHandlerSpy) WithAttrs([]slog.Attr) slog.Handler {
	return s
}

func (s *LogHandlerSpy) WithGroup(string) slog.Handler {
	return s
}

// Records returns a copy of all captured records.
func (s *LogHandlerSpy) Records() []slog.Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]slog.Record(nil), s.records...)
}

// HasLog reports whether a record with level and message was captured.
func (s *LogHandlerSpy) HasLog(level slog.Level, message string) bool {
	return s.CountLogs(level, message) > 0
}

// CountLogs counts the records with level and message.
func (s *LogHandlerSpy) CountLogs(level slog.Level, message string) int {
	count := 0

	for _, record := range s.Records() {
		if record.Level == level && record.Message == message {
			count++
		}
	}

	return count
}

// AttrOf returns the value of key on the first record with message.
func (s *LogHandlerSpy) AttrOf(message, key string) (slog.Value, bool) {
	for _, record := range s.Records() {
		if record.Message != message {
			continue
		}

		var found slog.Value
		ok := false

		record.Attrs(func(attr slog.Attr) bool {
			if attr.Key == key {
				found, ok = attr.Value, true
				return false
			}

			return true
		})

		if ok {
			return found, true
		}
	}

	return slog.Value{}, false
}
