// pattern: Imperative Shell

package logging

import (
	"encoding/json"
	"errors"
	"sync"
	"time"
)

// ErrRecorderClosed is returned by writes after Close.
var ErrRecorderClosed = errors.New("recorder closed")

// Recorder is a zapcore.WriteSyncer that decodes the JSON lines zap writes and
// keeps the most recent limit entries in memory.
type Recorder struct {
	mu      sync.Mutex
	entries []LogEntry
	limit   int
	closed  bool
}

// NewRecorder creates a recorder holding at most limit entries.
// A non-positive limit keeps everything.
func NewRecorder(limit int) *Recorder {
	return &Recorder{limit: limit}
}

// Write decodes one JSON line. Lines that are not JSON are dropped silently.
func (r *Recorder) Write(p []byte) (int, error) {
	entry, err := parseEntry(p)
	if err != nil {
		return len(p), nil
	}
	if !r.Record(entry) {
		return 0, ErrRecorderClosed
	}
	return len(p), nil
}

// Record appends entry, evicting the oldest one past the limit.
// It reports false once the recorder is closed.
func (r *Recorder) Record(entry LogEntry) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return false
	}
	r.entries = append(r.entries, entry)
	if r.limit > 0 && len(r.entries) > r.limit {
		r.entries = append(r.entries[:0], r.entries[len(r.entries)-r.limit:]...)
	}
	return true
}

// Entries returns a copy of the recorded entries, oldest first.
func (r *Recorder) Entries() []LogEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]LogEntry(nil), r.entries...)
}

// Diagnostics returns the recorded entries whose diag field equals diag.
func (r *Recorder) Diagnostics(diag string) []LogEntry {
	var out []LogEntry
	for _, e := range r.Entries() {
		if e.Diag() == diag {
			out = append(out, e)
		}
	}
	return out
}

// Reset forgets every recorded entry.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.entries = nil
	r.mu.Unlock()
}

// Sync implements zapcore.WriteSyncer.
func (r *Recorder) Sync() error {
	return nil
}

// Close stops recording. Safe to call multiple times.
func (r *Recorder) Close() error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	return nil
}

// parseEntry converts a zap JSON line into a LogEntry.
func parseEntry(data []byte) (LogEntry, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return LogEntry{}, err
	}

	entry := LogEntry{
		Timestamp: time.Now(),
		Level:     "INFO",
		Fields:    make(map[string]any, len(raw)),
	}
	for k, v := range raw {
		switch k {
		case "msg":
			entry.Message, _ = v.(string)
		case "level":
			if s, ok := v.(string); ok {
				entry.Level = ParseLevel(s)
			}
		case "logger":
			entry.Scope, _ = v.(string)
		case "ts":
			if ts, ok := v.(float64); ok {
				sec := int64(ts)
				entry.Timestamp = time.Unix(sec, int64((ts-float64(sec))*1e9))
			}
		case "caller", "stacktrace":
		default:
			entry.Fields[k] = v
		}
	}
	return entry, nil
}
