// Package repository implements the service storage interfaces on
// PostgreSQL with explicit SQL over a pgx pool.
package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/notesaas/pkg/pg"
)

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DB is satisfied by *pgxpool.Pool.
type DB interface {
	querier
	pg.TxBeginner
}

// Repository is safe for concurrent use. Calls made with a context handed
// out by WithTx run inside that transaction.
type Repository struct {
	db DB
}

func New(db DB) *Repository {
	return &Repository{db: db}
}

type txKey struct{}

func txFromContext(ctx context.Context) (pgx.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(pgx.Tx)
	return tx, ok
}

func (r *Repository) q(ctx context.Context) querier {
	if tx, ok := txFromContext(ctx); ok {
		return tx
	}
	return r.db
}

// WithTx runs fn in a transaction. Nested calls join the outer one.
func (r *Repository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := txFromContext(ctx); ok {
		return fn(ctx)
	}
	return pg.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// guarded runs a statement that may violate a constraint. Inside a
// transaction it gets its own savepoint so the caller can recover from the
// violation and keep using the transaction.
func (r *Repository) guarded(ctx context.Context, fn func(q querier) error) error {
	tx, ok := txFromContext(ctx)
	if !ok {
		return fn(r.db)
	}
	return pg.WithTx(ctx, tx, func(sp pgx.Tx) error { return fn(sp) })
}
