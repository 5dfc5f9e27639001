package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAppName      = "ledgerfs"
	defaultAppEnv       = "development"
	defaultLogLevel     = "info"
	defaultLogFormat    = "json"
	defaultDataDir      = "accounts"
	defaultMaxAccounts  = 100
	defaultWorkers      = 3
	defaultOpsPerWorker = 10
	defaultOpDelayMin   = 100 * time.Millisecond
	defaultOpDelayMax   = 500 * time.Millisecond

	auditLogName = "transactions.log"
	reportName   = "central_log.txt"
)

// Config captures runtime configuration loaded from environment variables.
type Config struct {
	AppName      string
	AppEnv       string
	LogLevel     string
	LogFormat    string
	DataDir      string
	MaxAccounts  int
	Workers      int
	OpsPerWorker int
	OpDelayMin   time.Duration
	OpDelayMax   time.Duration
}

// Load reads configuration values from the environment and populates a
// Config instance.
func Load() (Config, error) {
	cfg := Config{
		AppName:   getEnv("APP_NAME", defaultAppName),
		AppEnv:    getEnv("APP_ENV", defaultAppEnv),
		LogLevel:  strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		LogFormat: strings.ToLower(getEnv("LOG_FORMAT", defaultLogFormat)),
		DataDir:   getEnv("DATA_DIR", defaultDataDir),
	}

	var err error
	if cfg.MaxAccounts, err = getIntEnv("MAX_ACCOUNTS", defaultMaxAccounts); err != nil {
		return Config{}, err
	}
	if cfg.Workers, err = getIntEnv("WORKERS", defaultWorkers); err != nil {
		return Config{}, err
	}
	if cfg.OpsPerWorker, err = getIntEnv("OPS_PER_WORKER", defaultOpsPerWorker); err != nil {
		return Config{}, err
	}
	if cfg.OpDelayMin, err = getDurationEnv("OP_DELAY_MIN", defaultOpDelayMin); err != nil {
		return Config{}, err
	}
	if cfg.OpDelayMax, err = getDurationEnv("OP_DELAY_MAX", defaultOpDelayMax); err != nil {
		return Config{}, err
	}

	if cfg.MaxAccounts <= 0 {
		return Config{}, fmt.Errorf("MAX_ACCOUNTS must be positive, got %d", cfg.MaxAccounts)
	}
	if cfg.OpDelayMax < cfg.OpDelayMin {
		return Config{}, fmt.Errorf("OP_DELAY_MAX (%s) must not be below OP_DELAY_MIN (%s)", cfg.OpDelayMax, cfg.OpDelayMin)
	}

	return cfg, nil
}

// AuditLogPath returns the location of the shared append-only audit log.
func (c Config) AuditLogPath() string {
	return filepath.Join(c.DataDir, auditLogName)
}

// ReportPath returns the location of the generated balance report.
func (c Config) ReportPath() string {
	return filepath.Join(c.DataDir, reportName)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getIntEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getDurationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
