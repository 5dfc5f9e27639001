package audit

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/ledgerfs/ledgerfs/internal/logging"
)

func TestLog_AppendFormatsOneLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transactions.log")
	l := New(path, logging.Discard())

	l.Append("Deposit", "User1", "Amount: 250", StatusSuccess)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(lines))
	}

	fields := strings.Split(lines[0], " | ")
	if len(fields) != 5 {
		t.Fatalf("expected 5 fields, got %d: %q", len(fields), lines[0])
	}
	if fields[1] != "Deposit" || fields[2] != "User1" || fields[3] != "Amount: 250" || fields[4] != "Success" {
		t.Fatalf("unexpected entry: %q", lines[0])
	}
	if len(fields[0]) != len("2006-01-02 15:04:05") {
		t.Fatalf("unexpected timestamp format: %q", fields[0])
	}
}

func TestLog_AppendsAccumulate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transactions.log")
	l := New(path, logging.Discard())

	l.Append("Create Account", "User1", "Initial balance: 1000", StatusSuccess)
	l.Append("Withdraw", "User1", "Amount: 5000", StatusFailed)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(lines))
	}
	if !strings.HasSuffix(lines[0], "| Success") || !strings.HasSuffix(lines[1], "| Failed") {
		t.Fatalf("entries out of order or malformed: %v", lines)
	}
}

func TestLog_ConcurrentAppendsDoNotInterleave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transactions.log")
	l := New(path, logging.Discard())

	const writers = 10
	const perWriter = 20

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			actor := fmt.Sprintf("User%d", w)
			for i := 0; i < perWriter; i++ {
				l.Append("Deposit", actor, fmt.Sprintf("Amount: %d", i), StatusSuccess)
			}
		}(w)
	}
	wg.Wait()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != writers*perWriter {
		t.Fatalf("expected %d entries, got %d", writers*perWriter, len(lines))
	}
	for _, line := range lines {
		if len(strings.Split(line, " | ")) != 5 {
			t.Fatalf("interleaved or malformed entry: %q", line)
		}
	}
}

func TestLog_AppendFailureIsSwallowed(t *testing.T) {
	// Point the log at a path whose parent does not exist; Append must not
	// panic or surface an error.
	path := filepath.Join(t.TempDir(), "missing", "transactions.log")
	l := New(path, logging.Discard())

	l.Append("Deposit", "User1", "Amount: 1", StatusSuccess)

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected no log file, stat err: %v", err)
	}
}
