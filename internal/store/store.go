// Package store persists one balance per account as the entire content of a
// file. Writes go through a temporary file and an atomic rename, so a reader
// only ever observes a fully written balance. The store keeps no in-memory
// state: callers serialize access with the account's lock.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrNotFound occurs when the account has no balance record on disk.
	ErrNotFound = errors.New("account does not exist")

	// ErrBadBalance indicates the balance record's content is not a valid
	// integer.
	ErrBadBalance = errors.New("invalid balance format")
)

const balanceSuffix = ".txt"

// Store reads and atomically writes per-account balance files under a single
// data directory.
type Store struct {
	dir string
}

// New creates a store rooted at dir. The directory must already exist.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Path returns the balance file location for an account.
func (s *Store) Path(id string) string {
	return filepath.Join(s.dir, id+balanceSuffix)
}

// Exists reports whether a balance record exists for the account.
func (s *Store) Exists(id string) bool {
	_, err := os.Stat(s.Path(id))
	return err == nil
}

// Read returns the account's current balance. ErrNotFound if there is no
// record, ErrBadBalance if its content does not parse.
func (s *Store) Read(id string) (int64, error) {
	data, err := os.ReadFile(s.Path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, fmt.Errorf("account %s: %w", id, ErrNotFound)
		}
		return 0, fmt.Errorf("read balance for %s: %w", id, err)
	}

	balance, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("account %s: %w", id, ErrBadBalance)
	}
	return balance, nil
}

// Write replaces the account's balance record with balance. The new value is
// written to a uniquely named temporary file in the same directory and then
// renamed over the record, so concurrent readers see either the old value or
// the new one, never a partial write. On failure the temporary file is
// removed and the original record is left untouched; the caller must not
// assume the write happened.
func (s *Store) Write(id string, balance int64) error {
	path := s.Path(id)
	tmp := path + "." + uuid.NewString() + ".tmp"

	content := strconv.FormatInt(balance, 10) + "\n"
	if err := os.WriteFile(tmp, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write balance for %s: %w", id, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace balance for %s: %w", id, err)
	}
	return nil
}
