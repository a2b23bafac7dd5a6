package pg_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/notesaas/pkg/pg"
)

func TestIsNotFoundError(t *testing.T) {
	t.Parallel()
	assert.False(t, pg.IsNotFoundError(nil))
	assert.True(t, pg.IsNotFoundError(pgx.ErrNoRows))
	assert.True(t, pg.IsNotFoundError(fmt.Errorf("get note: %w", pgx.ErrNoRows)))
	assert.False(t, pg.IsNotFoundError(errors.New("other")))
}

func TestConstraintErrors(t *testing.T) {
	t.Parallel()

	dup := &pgconn.PgError{Code: "23505", ConstraintName: "membership_user_account_key"}
	fk := &pgconn.PgError{Code: "23503", ConstraintName: "note_account_id_fkey"}

	assert.True(t, pg.IsDuplicateKeyError(fmt.Errorf("insert: %w", dup)))
	assert.False(t, pg.IsDuplicateKeyError(fk))
	assert.False(t, pg.IsDuplicateKeyError(nil))

	assert.True(t, pg.IsForeignKeyViolationError(fk))
	assert.False(t, pg.IsForeignKeyViolationError(dup))

	assert.Equal(t, "membership_user_account_key", pg.ConstraintName(dup))
	assert.Empty(t, pg.ConstraintName(errors.New("plain")))
}
