// Package registry resolves account identifiers to their lock handles. The
// per-account mutex is the sole serialization point for that account's
// balance file; handles live for the life of the process.
package registry

import (
	"errors"
	"sync"
)

// ErrCapacityExceeded occurs when a new account would push the registry past
// its configured maximum.
var ErrCapacityExceeded = errors.New("account capacity exceeded")

// Account couples an account identifier with the mutex that serializes every
// operation touching that account's balance.
type Account struct {
	id string
	mu sync.Mutex
}

// ID returns the account identifier.
func (a *Account) ID() string { return a.id }

// Lock acquires the account's exclusive lock.
func (a *Account) Lock() { a.mu.Lock() }

// Unlock releases the account's exclusive lock.
func (a *Account) Unlock() { a.mu.Unlock() }

// Registry is a capacity-bounded mapping from account id to its lock handle.
// Resolution-or-creation is atomic: two concurrent first-time resolutions of
// the same id always yield the same handle.
type Registry struct {
	mu       sync.Mutex
	capacity int
	accounts map[string]*Account
	order    []string
}

// New creates an empty registry bounded by capacity.
func New(capacity int) *Registry {
	return &Registry{
		capacity: capacity,
		accounts: make(map[string]*Account),
	}
}

// Resolve returns the handle for id, creating and registering one on first
// use. Returns ErrCapacityExceeded when the registry is full and the id is
// unknown.
func (r *Registry) Resolve(id string) (*Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a, ok := r.accounts[id]; ok {
		return a, nil
	}
	if len(r.accounts) >= r.capacity {
		return nil, ErrCapacityExceeded
	}
	a := &Account{id: id}
	r.accounts[id] = a
	r.order = append(r.order, id)
	return a, nil
}

// Len reports the number of registered accounts.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.accounts)
}

// Scan invokes fn for every registered account in insertion order while
// holding the registry lock, so no account can be added mid-scan. fn may
// acquire the account's own lock; it must not call back into the registry.
func (r *Registry) Scan(fn func(*Account)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.order {
		fn(r.accounts[id])
	}
}
