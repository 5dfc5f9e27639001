// Package ledger implements the account operations: create, deposit,
// withdraw, transfer and balance inquiry. Each operation runs inside the
// account's critical section, re-reads the balance from disk, mutates it
// through the store's atomic write, and records its outcome in the audit log
// before returning.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ledgerfs/ledgerfs/internal/audit"
	"github.com/ledgerfs/ledgerfs/internal/registry"
	"github.com/ledgerfs/ledgerfs/internal/store"
)

var (
	// ErrInsufficientFunds occurs when the debited account's balance does not
	// cover the requested amount.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrDuplicateAccount occurs when creating an account whose balance
	// record already exists.
	ErrDuplicateAccount = errors.New("account already exists")

	// ErrSelfTransfer occurs when a transfer names the same account on both
	// sides.
	ErrSelfTransfer = errors.New("cannot transfer to the same account")
)

// Operation kinds as they appear in the audit log.
const (
	opCreate   = "Create Account"
	opDeposit  = "Deposit"
	opWithdraw = "Withdraw"
	opTransfer = "Transfer"
	opView     = "View Balance"
)

// TransferResult captures the post-transfer balances of both sides.
type TransferResult struct {
	FromBalance int64
	ToBalance   int64
}

// Service exposes the ledger operations over a registry of account locks, a
// balance store and the audit log.
type Service struct {
	registry *registry.Registry
	store    *store.Store
	audit    *audit.Log
	logger   *slog.Logger
}

// NewService builds a ledger service instance.
func NewService(reg *registry.Registry, st *store.Store, aud *audit.Log, logger *slog.Logger) *Service {
	return &Service{registry: reg, store: st, audit: aud, logger: logger}
}

// CreateAccount materializes a balance record with the given initial value.
// Fails with ErrDuplicateAccount if the record already exists and with
// registry.ErrCapacityExceeded if no more accounts can be registered.
func (s *Service) CreateAccount(_ context.Context, id string, initialBalance int64) error {
	detail := fmt.Sprintf("Initial balance: %d", initialBalance)

	acct, err := s.registry.Resolve(id)
	if err != nil {
		s.audit.Append(opCreate, id, detail, audit.StatusFailed)
		return fmt.Errorf("account %s: %w", id, err)
	}

	acct.Lock()
	defer acct.Unlock()

	if s.store.Exists(id) {
		s.audit.Append(opCreate, id, detail, audit.StatusFailed)
		return fmt.Errorf("account %s: %w", id, ErrDuplicateAccount)
	}
	if err := s.store.Write(id, initialBalance); err != nil {
		s.audit.Append(opCreate, id, detail, audit.StatusFailed)
		return err
	}

	s.audit.Append(opCreate, id, detail, audit.StatusSuccess)
	s.logger.Info("account created", "account", id, "balance", initialBalance)
	return nil
}

// Deposit adds amount to the account's balance and returns the new balance.
// The amount is not bounded or sign-checked.
func (s *Service) Deposit(_ context.Context, id string, amount int64) (int64, error) {
	detail := fmt.Sprintf("Amount: %d", amount)

	acct, err := s.registry.Resolve(id)
	if err != nil {
		s.audit.Append(opDeposit, id, detail, audit.StatusFailed)
		return 0, fmt.Errorf("account %s: %w", id, err)
	}

	acct.Lock()
	defer acct.Unlock()

	balance, err := s.store.Read(id)
	if err != nil {
		s.audit.Append(opDeposit, id, detail, audit.StatusFailed)
		return 0, err
	}
	newBalance := balance + amount
	if err := s.store.Write(id, newBalance); err != nil {
		s.audit.Append(opDeposit, id, detail, audit.StatusFailed)
		return 0, err
	}

	s.audit.Append(opDeposit, id, detail, audit.StatusSuccess)
	return newBalance, nil
}

// Withdraw removes amount from the account's balance and returns the new
// balance. Fails with ErrInsufficientFunds, leaving the balance untouched,
// when the current balance does not cover the amount.
func (s *Service) Withdraw(_ context.Context, id string, amount int64) (int64, error) {
	detail := fmt.Sprintf("Amount: %d", amount)

	acct, err := s.registry.Resolve(id)
	if err != nil {
		s.audit.Append(opWithdraw, id, detail, audit.StatusFailed)
		return 0, fmt.Errorf("account %s: %w", id, err)
	}

	acct.Lock()
	defer acct.Unlock()

	balance, err := s.store.Read(id)
	if err != nil {
		s.audit.Append(opWithdraw, id, detail, audit.StatusFailed)
		return 0, err
	}
	if balance < amount {
		s.audit.Append(opWithdraw, id, detail, audit.StatusFailed)
		return 0, fmt.Errorf("account %s: %w", id, ErrInsufficientFunds)
	}
	newBalance := balance - amount
	if err := s.store.Write(id, newBalance); err != nil {
		s.audit.Append(opWithdraw, id, detail, audit.StatusFailed)
		return 0, err
	}

	s.audit.Append(opWithdraw, id, detail, audit.StatusSuccess)
	return newBalance, nil
}

// Transfer moves amount between two accounts. Both account locks are taken
// in the global order given by orderIDs, so concurrent transfers over the
// same pair can never deadlock. On success one entry is logged per side; an
// aborted transfer logs a single Failed entry and mutates nothing. If one of
// the two balance writes fails, the side already written is rolled back to
// its pre-transaction value on a best-effort basis.
func (s *Service) Transfer(_ context.Context, from, to string, amount int64) (TransferResult, error) {
	fromDetail := fmt.Sprintf("To: %s, Amount: %d", to, amount)
	toDetail := fmt.Sprintf("From: %s, Amount: %d", from, amount)

	if from == to {
		s.audit.Append(opTransfer, from, fmt.Sprintf("Attempted to transfer to self: %d", amount), audit.StatusFailed)
		return TransferResult{}, ErrSelfTransfer
	}

	fromAcct, err := s.registry.Resolve(from)
	if err != nil {
		s.audit.Append(opTransfer, from, fromDetail, audit.StatusFailed)
		return TransferResult{}, fmt.Errorf("account %s: %w", from, err)
	}
	toAcct, err := s.registry.Resolve(to)
	if err != nil {
		s.audit.Append(opTransfer, from, fromDetail, audit.StatusFailed)
		return TransferResult{}, fmt.Errorf("account %s: %w", to, err)
	}

	first, second := fromAcct, toAcct
	if firstID, _ := orderIDs(from, to); firstID != from {
		first, second = toAcct, fromAcct
	}

	first.Lock()
	second.Lock()
	// Deferred unlocks run LIFO: second releases before first, the reverse
	// of acquisition order.
	defer first.Unlock()
	defer second.Unlock()

	fromBalance, err := s.store.Read(from)
	if err != nil {
		s.audit.Append(opTransfer, from, fromDetail, audit.StatusFailed)
		return TransferResult{}, err
	}
	toBalance, err := s.store.Read(to)
	if err != nil {
		s.audit.Append(opTransfer, from, fromDetail, audit.StatusFailed)
		return TransferResult{}, err
	}

	if fromBalance < amount {
		s.audit.Append(opTransfer, from, fromDetail, audit.StatusFailed)
		return TransferResult{}, fmt.Errorf("account %s: %w", from, ErrInsufficientFunds)
	}

	newFrom := fromBalance - amount
	newTo := toBalance + amount

	errFrom := s.store.Write(from, newFrom)
	errTo := s.store.Write(to, newTo)

	if errFrom != nil || errTo != nil {
		if errFrom == nil {
			if rbErr := s.store.Write(from, fromBalance); rbErr != nil {
				s.logger.Error("rollback of debited account failed", "account", from, "error", rbErr)
			}
		}
		if errTo == nil {
			if rbErr := s.store.Write(to, toBalance); rbErr != nil {
				s.logger.Error("rollback of credited account failed", "account", to, "error", rbErr)
			}
		}
		s.audit.Append(opTransfer, from, fromDetail, audit.StatusFailed)
		s.audit.Append(opTransfer, to, toDetail, audit.StatusFailed)
		if errFrom != nil {
			return TransferResult{}, errFrom
		}
		return TransferResult{}, errTo
	}

	s.audit.Append(opTransfer, from, fromDetail, audit.StatusSuccess)
	s.audit.Append(opTransfer, to, toDetail, audit.StatusSuccess)
	return TransferResult{FromBalance: newFrom, ToBalance: newTo}, nil
}

// ViewBalance returns the account's current balance. The account lock is
// held for the read so the inquiry serializes with concurrent mutators.
func (s *Service) ViewBalance(_ context.Context, id string) (int64, error) {
	acct, err := s.registry.Resolve(id)
	if err != nil {
		s.audit.Append(opView, id, fmt.Sprintf("Error: %v", err), audit.StatusFailed)
		return 0, fmt.Errorf("account %s: %w", id, err)
	}

	acct.Lock()
	defer acct.Unlock()

	balance, err := s.store.Read(id)
	if err != nil {
		s.audit.Append(opView, id, fmt.Sprintf("Error: %v", err), audit.StatusFailed)
		return 0, err
	}

	s.audit.Append(opView, id, fmt.Sprintf("Balance: %d", balance), audit.StatusSuccess)
	return balance, nil
}
