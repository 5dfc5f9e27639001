// Package audit maintains the shared append-only transaction log. Every
// attempted ledger operation produces exactly one line per logged side;
// entries are never rewritten or truncated.
package audit

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"
)

// Status records the outcome of an attempted operation.
type Status string

const (
	// StatusSuccess marks an operation that completed its mutation (or read).
	StatusSuccess Status = "Success"
	// StatusFailed marks an operation that aborted without (visible) mutation.
	StatusFailed Status = "Failed"
)

const timestampLayout = "2006-01-02 15:04:05"

// Log appends audit records to a single shared file. A mutex serializes
// appends so no two entries interleave their bytes.
type Log struct {
	mu     sync.Mutex
	path   string
	logger *slog.Logger
}

// New creates an audit log writing to path. Diagnostics for failed appends
// go to logger; they are never surfaced to the financial operation.
func New(path string, logger *slog.Logger) *Log {
	return &Log{path: path, logger: logger}
}

// Append records one attempted operation. A failure to open or write the log
// is reported on the side channel and otherwise swallowed: audit problems
// must not roll back or block the operation they describe.
func (l *Log) Append(opKind, actorID, detail string, status Status) {
	timestamp := time.Now().Format(timestampLayout)
	line := fmt.Sprintf("%s | %s | %s | %s | %s\n", timestamp, opKind, actorID, detail, status)

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		l.logger.Error("open transaction log", "path", l.path, "error", err)
		return
	}
	defer f.Close()

	if _, err := f.WriteString(line); err != nil {
		l.logger.Error("append transaction log entry", "path", l.path, "error", err)
	}
}
