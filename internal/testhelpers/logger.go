package testhelpers

import (
	"slices"
	"sync"
	"testing"

	"go.uber.org/zap/zapcore"

	infralogger "github.com/jonesrussell/north-cloud/duplicate-as/infrastructure/logger"
)

// NewTestLogger returns a logger that only prints errors, to stderr.
func NewTestLogger(t *testing.T) infralogger.Logger {
	t.Helper()

	log, err := infralogger.New(infralogger.Config{Level: "error", OutputPaths: []string{"stderr"}})
	if err != nil {
		return infralogger.NewNop()
	}
	return log
}

// LogEntry is one line captured by a RecordingLogger.
type LogEntry struct {
	Level   string
	Message string
	Fields  map[string]any
}

// RecordingLogger captures log lines, including the fields added by With.
type RecordingLogger struct {
	mu      *sync.Mutex
	entries *[]LogEntry
	fields  []infralogger.Field
}

// NewRecordingLogger returns an empty RecordingLogger.
func NewRecordingLogger() *RecordingLogger {
	return &RecordingLogger{mu: &sync.Mutex{}, entries: &[]LogEntry{}}
}

func (r *RecordingLogger) Debug(msg string, fields ...infralogger.Field) { r.add("debug", msg, fields) }
func (r *RecordingLogger) Info(msg string, fields ...infralogger.Field)  { r.add("info", msg, fields) }
func (r *RecordingLogger) Warn(msg string, fields ...infralogger.Field)  { r.add("warn", msg, fields) }
func (r *RecordingLogger) Error(msg string, fields ...infralogger.Field) { r.add("error", msg, fields) }
func (r *RecordingLogger) Fatal(msg string, fields ...infralogger.Field) { r.add("fatal", msg, fields) }
func (r *RecordingLogger) Sync() error                                   { return nil }

// With returns a logger sharing r's entries whose lines also carry fields.
func (r *RecordingLogger) With(fields ...infralogger.Field) infralogger.Logger {
	return &RecordingLogger{mu: r.mu, entries: r.entries, fields: slices.Concat(r.fields, fields)}
}

// Entries returns the captured lines in order.
func (r *RecordingLogger) Entries() []LogEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(*r.entries)
}

// Find returns the first captured line with msg.
func (r *RecordingLogger) Find(msg string) (LogEntry, bool) {
	for _, e := range r.Entries() {
		if e.Message == msg {
			return e, true
		}
	}
	return LogEntry{}, false
}

func (r *RecordingLogger) add(level, msg string, fields []infralogger.Field) {
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range slices.Concat(r.fields, fields) {
		f.AddTo(enc)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	*r.entries = append(*r.entries, LogEntry{Level: level, Message: msg, Fields: enc.Fields})
}
