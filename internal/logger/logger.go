// Package logger appends one JSONL audit event per decision. Events are
// redacted before they touch disk, and the log rotates with gzip
// compression so a busy agent session cannot grow it without bound.
package logger

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/gzhole/hookguard/internal/redact"
)

// TimestampFormat is used for audit event timestamps.
const TimestampFormat = time.RFC3339Nano

// Event is a single audit record.
type Event struct {
	Timestamp  string  `json:"timestamp"`
	SessionID  string  `json:"session_id,omitempty"`
	ToolName   string  `json:"tool_name"`
	Command    string  `json:"command,omitempty"`
	Cwd        string  `json:"cwd,omitempty"`
	Behavior   string  `json:"behavior"`
	Source     string  `json:"source"`
	Reason     string  `json:"reason,omitempty"`
	Checkpoint string  `json:"checkpoint,omitempty"`
	DurationMs float64 `json:"duration_ms"`
}

// AuditLogger serializes writes to a single JSONL file.
type AuditLogger struct {
	mu   sync.Mutex
	path string
	file *os.File
}

// New opens (or creates, 0600) the audit file in append mode.
func New(path string) (*AuditLogger, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, err
	}
	return &AuditLogger{path: path, file: file}, nil
}

// Log redacts the event's free-text fields and appends it. Rotation is
// checked before the write so the size bound holds per file.
func (l *AuditLogger) Log(event Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	event.Command = redact.String(event.Command)
	event.Reason = redact.String(event.Reason)
	if event.Timestamp == "" {
		event.Timestamp = time.Now().Format(TimestampFormat)
	}

	if err := l.rotateIfNeeded(); err != nil {
		return err
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = l.file.Write(append(data, '\n'))
	return err
}

// Close releases the underlying file.
func (l *AuditLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
