// Package audit appends one decision record per guard invocation to a
// JSONL log. The log is strictly observational: every write failure is
// swallowed and never influences the decision already made.
package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Decision status values recorded per entry.
const (
	StatusAllowed = "ALLOWED"
	StatusBlocked = "BLOCKED"
)

// Entry is one persisted invocation record.
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	SessionID string    `json:"session_id,omitempty"`
	Status    string    `json:"status"`
	Lines     int64     `json:"lines"`
	Bytes     int64     `json:"bytes"`
	Reason    string    `json:"reason"`
	FilePath  string    `json:"file_path"`
}

// Sink receives one Entry per guard invocation. Implementations must not
// surface failures to the caller.
type Sink interface {
	Append(e Entry)
}

// FileSink appends entries to a JSONL file, creating parent directories
// on demand. Each append opens, writes one line, and closes, so records
// from overlapping invocations stay line-atomic without locking.
type FileSink struct {
	path string
}

// NewFileSink returns a FileSink writing to path.
func NewFileSink(path string) *FileSink {
	return &FileSink{path: path}
}

// Append writes one entry, silently dropping it on any failure.
func (s *FileSink) Append(e Entry) {
	if s.path == "" {
		return
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return
	}
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()

	encoded, err := json.Marshal(e)
	if err != nil {
		return
	}
	// Single write call per entry; O_APPEND keeps lines intact across
	// concurrent short-lived hook processes.
	_, _ = f.Write(append(encoded, '\n'))
}

// NopSink discards every entry.
type NopSink struct{}

// Append implements Sink.
func (NopSink) Append(Entry) {}

// MemorySink collects entries in memory for tests.
type MemorySink struct {
	mu      sync.Mutex
	entries []Entry
}

// Append implements Sink.
func (s *MemorySink) Append(e Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
}

// All returns a copy of the collected entries.
func (s *MemorySink) All() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}
