package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/notesaas/pkg/pg"
	"github.com/dmitrymomot/notesaas/svc/account"
)

const userColumns = `id, auth_subject, email, display_name`

func scanUser(row pgx.Row) (account.User, error) {
	var u account.User
	if err := row.Scan(&u.ID, &u.AuthSubject, &u.Email, &u.DisplayName); err != nil {
		if pg.IsNotFoundError(err) {
			return account.User{}, account.ErrUserNotFound
		}
		return account.User{}, fmt.Errorf("scan user: %w", err)
	}
	return u, nil
}

func (r *Repository) GetUser(ctx context.Context, id int64) (account.User, error) {
	return scanUser(r.q(ctx).QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *Repository) GetUserBySubject(ctx context.Context, subject string) (account.User, error) {
	return scanUser(r.q(ctx).QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE auth_subject = $1`, subject))
}

func (r *Repository) CreateUser(ctx context.Context, u account.User) (account.User, error) {
	var out account.User
	err := r.guarded(ctx, func(q querier) error {
		var err error
		out, err = scanUser(q.QueryRow(ctx, `
			INSERT INTO users (auth_subject, email, display_name)
			VALUES ($1, $2, $3)
			RETURNING `+userColumns, u.AuthSubject, u.Email, u.DisplayName))
		return err
	})
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return account.User{}, errors.Join(account.ErrUserExists, err)
		}
		return account.User{}, err
	}
	return out, nil
}

// DeleteUser fails with ErrRestricted while the user still has memberships.
func (r *Repository) DeleteUser(ctx context.Context, id int64) error {
	var deleted int64
	err := r.guarded(ctx, func(q querier) error {
		tag, err := q.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
		deleted = tag.RowsAffected()
		return err
	})
	switch {
	case pg.IsForeignKeyViolationError(err):
		return errors.Join(ErrRestricted, err)
	case err != nil:
		return fmt.Errorf("delete user: %w", err)
	case deleted == 0:
		return account.ErrUserNotFound
	}
	return nil
}
