package logging

import (
	"strings"
	"testing"
	"time"
)

func TestLogEntry_String(t *testing.T) {
	e := LogEntry{
		Timestamp: time.Date(2025, 1, 27, 10, 30, 0, 0, time.UTC),
		Level:     "WARN",
		Scope:     "resolver",
		Message:   "name conflict",
		Fields:    map[string]any{"path": "/ws/core", "candidate": "core"},
	}

	got := e.String()
	want := "10:30:00 WARN [resolver] name conflict candidate=core path=/ws/core"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestLogEntry_Field(t *testing.T) {
	e := LogEntry{Fields: map[string]any{"name": "core", "count": float64(3)}}

	if got := e.Field("name"); got != "core" {
		t.Errorf("Field(name) = %q", got)
	}
	if got := e.Field("count"); got != "3" {
		t.Errorf("Field(count) = %q", got)
	}
	if got := e.Field("missing"); got != "" {
		t.Errorf("Field(missing) = %q", got)
	}
}

func TestLogEntry_Diag(t *testing.T) {
	if got := (LogEntry{Fields: map[string]any{"diag": "name_conflict"}}).Diag(); got != "name_conflict" {
		t.Errorf("Diag() = %q, want name_conflict", got)
	}
	if got := (LogEntry{}).Diag(); got != "" {
		t.Errorf("Diag() on empty entry = %q", got)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"debug", "DEBUG"},
		{"INFO", "INFO"},
		{"warning", "WARN"},
		{"error", "ERROR"},
		{"", "INFO"},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestLogEntry_StringWithoutFields(t *testing.T) {
	e := LogEntry{Level: "INFO", Scope: "app", Message: "done"}
	if strings.HasSuffix(e.String(), " ") {
		t.Errorf("String() has trailing space: %q", e.String())
	}
}
