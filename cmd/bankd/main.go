package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/ledgerfs/ledgerfs/internal/audit"
	"github.com/ledgerfs/ledgerfs/internal/config"
	"github.com/ledgerfs/ledgerfs/internal/identity"
	"github.com/ledgerfs/ledgerfs/internal/ledger"
	"github.com/ledgerfs/ledgerfs/internal/logging"
	"github.com/ledgerfs/ledgerfs/internal/registry"
	"github.com/ledgerfs/ledgerfs/internal/report"
	"github.com/ledgerfs/ledgerfs/internal/store"
)

const (
	seedBalance = 1_000
	demoPIN     = "4321"
)

func main() {
	_ = godotenv.Load() // allow .env for local runs

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat).With("run", uuid.NewString())

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		logger.Error("create data directory", "dir", cfg.DataDir, "error", err)
		os.Exit(1)
	}

	reg := registry.New(cfg.MaxAccounts)
	st := store.New(cfg.DataDir)
	aud := audit.New(cfg.AuditLogPath(), logger)
	svc := ledger.NewService(reg, st, aud, logger)
	guard := identity.NewGuard(cfg.DataDir)
	gen := report.New(reg, st, cfg.ReportPath(), logger)

	ctx := context.Background()

	users := make([]string, 0, cfg.Workers)
	for i := 1; i <= cfg.Workers; i++ {
		users = append(users, fmt.Sprintf("User%d", i))
	}

	logger.Info("seeding accounts", "count", len(users), "balance", seedBalance)
	for _, id := range users {
		if err := svc.CreateAccount(ctx, id, seedBalance); err != nil && !errors.Is(err, ledger.ErrDuplicateAccount) {
			logger.Error("seed account", "account", id, "error", err)
			os.Exit(1)
		}
		if err := guard.Enroll(id, demoPIN); err != nil {
			logger.Error("enroll PIN", "account", id, "error", err)
			os.Exit(1)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, id := range users {
		id := id
		g.Go(func() error {
			runOperations(gctx, cfg, svc, guard, logger, id, users)
			return nil
		})
	}
	// Workers swallow operational failures (they are expected outcomes); the
	// group exists to join them before the report runs.
	_ = g.Wait()

	if err := gen.Generate(); err != nil {
		logger.Error("generate report", "error", err)
		os.Exit(1)
	}
	logger.Info("all operations completed", "report", cfg.ReportPath())
}

// runOperations drives one account through a random mix of transfers,
// deposits, withdrawals and balance inquiries, pausing between operations to
// simulate real-world pacing.
func runOperations(ctx context.Context, cfg config.Config, svc *ledger.Service, guard *identity.Guard, logger *slog.Logger, id string, users []string) {
	for i := 0; i < cfg.OpsPerWorker; i++ {
		switch rand.Intn(4) {
		case 0:
			target := pickTarget(id, users)
			amount := 10 + rand.Int63n(991)
			if err := guard.Verify(id, demoPIN); err != nil {
				logger.Warn("transfer blocked", "account", id, "error", err)
				break
			}
			if res, err := svc.Transfer(ctx, id, target, amount); err != nil {
				logger.Warn("transfer failed", "from", id, "to", target, "amount", amount, "error", err)
			} else {
				logger.Info("transfer", "from", id, "to", target, "amount", amount, "from_balance", res.FromBalance)
			}
		case 1:
			amount := 10 + rand.Int63n(491)
			if balance, err := svc.Deposit(ctx, id, amount); err != nil {
				logger.Warn("deposit failed", "account", id, "amount", amount, "error", err)
			} else {
				logger.Info("deposit", "account", id, "amount", amount, "balance", balance)
			}
		case 2:
			amount := 10 + rand.Int63n(491)
			if err := guard.Verify(id, demoPIN); err != nil {
				logger.Warn("withdrawal blocked", "account", id, "error", err)
				break
			}
			if balance, err := svc.Withdraw(ctx, id, amount); err != nil {
				logger.Warn("withdrawal failed", "account", id, "amount", amount, "error", err)
			} else {
				logger.Info("withdrawal", "account", id, "amount", amount, "balance", balance)
			}
		case 3:
			if balance, err := svc.ViewBalance(ctx, id); err != nil {
				logger.Warn("balance inquiry failed", "account", id, "error", err)
			} else {
				logger.Info("balance", "account", id, "balance", balance)
			}
		}

		sleepJitter(cfg.OpDelayMin, cfg.OpDelayMax)
	}
}

func pickTarget(self string, users []string) string {
	if len(users) < 2 {
		return self
	}
	for {
		target := users[rand.Intn(len(users))]
		if target != self {
			return target
		}
	}
}

func sleepJitter(lo, hi time.Duration) {
	d := lo
	if hi > lo {
		d += time.Duration(rand.Int63n(int64(hi - lo)))
	}
	time.Sleep(d)
}
