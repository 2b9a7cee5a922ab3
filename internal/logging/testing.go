// pattern: Imperative Shell

package logging

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NopLogger returns a logger that discards all output.
func NopLogger() *ScopedLogger {
	return &ScopedLogger{}
}

// TestLogManager records every entry at debug level so tests can assert on
// the diagnostics a component emitted.
type TestLogManager struct {
	*Recorder
	baseZap *zap.Logger
	loggers map[string]*ScopedLogger
	mu      sync.Mutex
}

// NewTestLogManager creates a LoggerProvider that keeps the last limit entries in memory.
func NewTestLogManager(limit int) *TestLogManager {
	rec := NewRecorder(limit)
	return &TestLogManager{
		Recorder: rec,
		baseZap:  zap.New(zapcore.NewCore(jsonEncoder(), zapcore.AddSync(rec), zapcore.DebugLevel)),
		loggers:  make(map[string]*ScopedLogger),
	}
}

// For returns a scoped logger for the given scope name.
func (m *TestLogManager) For(scope string) *ScopedLogger {
	m.mu.Lock()
	defer m.mu.Unlock()

	if logger, ok := m.loggers[scope]; ok {
		return logger
	}
	logger := newScopedLogger(m.baseZap, scope, zapcore.DebugLevel)
	m.loggers[scope] = logger
	return logger
}

// Drain returns the recorded entries and forgets them.
func (m *TestLogManager) Drain() []LogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	entries := m.Entries()
	m.Reset()
	return entries
}
