// Package identity gives accounts an optional PIN. Credentials live in a
// sibling file per account, written with the same temp-file-and-rename
// discipline as balances; the ledger operations themselves never consult
// them, callers verify before invoking a debit.
package identity

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrUnknownAccount occurs when no credential is enrolled for the id.
	ErrUnknownAccount = errors.New("no credential enrolled for account")

	// ErrPINMismatch occurs when the presented PIN does not match the
	// enrolled hash.
	ErrPINMismatch = errors.New("incorrect PIN")
)

const credentialSuffix = ".cred"

// Guard stores one bcrypt PIN hash per account under a data directory.
type Guard struct {
	dir string
}

// NewGuard creates a guard rooted at dir. The directory must already exist.
func NewGuard(dir string) *Guard {
	return &Guard{dir: dir}
}

func (g *Guard) path(id string) string {
	return filepath.Join(g.dir, id+credentialSuffix)
}

// Enroll hashes the PIN and writes the credential file atomically,
// replacing any previous enrollment for the account.
func (g *Guard) Enroll(id, pin string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash PIN for %s: %w", id, err)
	}

	path := g.path(id)
	tmp := path + "." + uuid.NewString() + ".tmp"
	if err := os.WriteFile(tmp, hash, 0o600); err != nil {
		return fmt.Errorf("write credential for %s: %w", id, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace credential for %s: %w", id, err)
	}
	return nil
}

// Verify checks the presented PIN against the enrolled hash.
func (g *Guard) Verify(id, pin string) error {
	hash, err := os.ReadFile(g.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("account %s: %w", id, ErrUnknownAccount)
		}
		return fmt.Errorf("read credential for %s: %w", id, err)
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(pin)); err != nil {
		return fmt.Errorf("account %s: %w", id, ErrPINMismatch)
	}
	return nil
}
