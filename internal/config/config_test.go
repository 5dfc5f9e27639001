package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DataDir != "accounts" {
		t.Fatalf("expected default data dir accounts, got %s", cfg.DataDir)
	}
	if cfg.MaxAccounts != 100 {
		t.Fatalf("expected default capacity 100, got %d", cfg.MaxAccounts)
	}
	if cfg.AuditLogPath() != filepath.Join("accounts", "transactions.log") {
		t.Fatalf("unexpected audit log path %s", cfg.AuditLogPath())
	}
	if cfg.ReportPath() != filepath.Join("accounts", "central_log.txt") {
		t.Fatalf("unexpected report path %s", cfg.ReportPath())
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATA_DIR", "/tmp/ledger-data")
	t.Setenv("MAX_ACCOUNTS", "7")
	t.Setenv("OP_DELAY_MIN", "5ms")
	t.Setenv("OP_DELAY_MAX", "20ms")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DataDir != "/tmp/ledger-data" || cfg.MaxAccounts != 7 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.OpDelayMin != 5*time.Millisecond || cfg.OpDelayMax != 20*time.Millisecond {
		t.Fatalf("delay overrides not applied: %+v", cfg)
	}
}

func TestLoad_RejectsBadValues(t *testing.T) {
	t.Setenv("MAX_ACCOUNTS", "lots")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for non-numeric MAX_ACCOUNTS")
	}

	t.Setenv("MAX_ACCOUNTS", "0")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for zero MAX_ACCOUNTS")
	}

	t.Setenv("MAX_ACCOUNTS", "10")
	t.Setenv("OP_DELAY_MIN", "100ms")
	t.Setenv("OP_DELAY_MAX", "10ms")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for inverted delay bounds")
	}
}
