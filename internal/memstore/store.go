// Package memstore is an in-memory implementation of the service storage
// interfaces. It backs the tests and the server's --in-memory mode.
package memstore

import (
	"context"
	"sync"

	"github.com/dmitrymomot/notesaas/svc/account"
	"github.com/dmitrymomot/notesaas/svc/notes"
)

type tables struct {
	users       map[int64]account.User
	plans       map[int64]account.Plan
	accounts    map[int64]account.Account
	memberships map[int64]account.Membership
	notes       map[int64]notes.Note
	seq         int64
}

// Store keeps every table in maps guarded by one mutex. Writes are serialized
// with transactions, and a failed transaction undoes only its own writes.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	t    tables
}

func New() *Store {
	return &Store{t: tables{
		users:       map[int64]account.User{},
		plans:       map[int64]account.Plan{},
		accounts:    map[int64]account.Account{},
		memberships: map[int64]account.Membership{},
		notes:       map[int64]notes.Note{},
	}}
}

// nextID must be called with mu held for writing. Like a database sequence,
// it is not rolled back.
func (s *Store) nextID() int64 {
	s.t.seq++
	return s.t.seq
}

type txKey struct{}

// txLog records how to revert each row a transaction touched.
type txLog struct {
	undo []func()
}

// remember must be called with mu held for writing, before m[id] changes.
func remember[V any](ctx context.Context, m map[int64]V, id int64) {
	log, ok := ctx.Value(txKey{}).(*txLog)
	if !ok {
		return
	}
	prev, existed := m[id]
	log.undo = append(log.undo, func() {
		if existed {
			m[id] = prev
		} else {
			delete(m, id)
		}
	})
}

// set and del must be called with mu held for writing.
func set[V any](ctx context.Context, m map[int64]V, id int64, v V) {
	remember(ctx, m, id)
	m[id] = v
}

func del[V any](ctx context.Context, m map[int64]V, id int64) {
	remember(ctx, m, id)
	delete(m, id)
}

// lock takes the write lock. Outside a transaction it first waits for the
// running transaction, if any, to finish.
func (s *Store) lock(ctx context.Context) (unlock func()) {
	if _, ok := ctx.Value(txKey{}).(*txLog); ok {
		s.mu.Lock()
		return s.mu.Unlock
	}
	s.txMu.Lock()
	s.mu.Lock()
	return func() {
		s.mu.Unlock()
		s.txMu.Unlock()
	}
}

// WithTx runs fn under the store's transaction lock. When fn fails, the rows
// it wrote are restored; writes made outside the transaction are kept.
// Nested calls join the outer transaction.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*txLog); ok {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	log := &txLog{}
	if err := fn(context.WithValue(ctx, txKey{}, log)); err != nil {
		s.mu.Lock()
		for i := len(log.undo) - 1; i >= 0; i-- {
			log.undo[i]()
		}
		s.mu.Unlock()
		return err
	}
	return nil
}
