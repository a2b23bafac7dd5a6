package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/notesaas/pkg/pg"
	"github.com/dmitrymomot/notesaas/svc/account"
)

const membershipColumns = `m.id, m.user_id, m.account_id, m.access::text, m.pending`

func scanMembership(row pgx.Row, extra ...any) (account.Membership, error) {
	var (
		m      account.Membership
		access string
	)
	dest := append([]any{&m.ID, &m.UserID, &m.AccountID, &access, &m.Pending}, extra...)
	if err := row.Scan(dest...); err != nil {
		if pg.IsNotFoundError(err) {
			return account.Membership{}, account.ErrMembershipNotFound
		}
		return account.Membership{}, fmt.Errorf("scan membership: %w", err)
	}
	m.Access = account.Access(access)
	return m, nil
}

func (r *Repository) GetMembership(ctx context.Context, id int64) (account.Membership, error) {
	return scanMembership(r.q(ctx).QueryRow(ctx,
		`SELECT `+membershipColumns+` FROM membership m WHERE m.id = $1`, id))
}

func (r *Repository) GetUserMembership(ctx context.Context, userID, accountID int64) (account.Membership, error) {
	return scanMembership(r.q(ctx).QueryRow(ctx,
		`SELECT `+membershipColumns+` FROM membership m WHERE m.user_id = $1 AND m.account_id = $2`,
		userID, accountID))
}

func (r *Repository) ListAccountMembers(ctx context.Context, accountID int64) ([]account.MembershipWithUser, error) {
	rows, err := r.q(ctx).Query(ctx, `
		SELECT `+membershipColumns+`, u.id, u.auth_subject, u.email, u.display_name
		FROM membership m
		JOIN users u ON u.id = m.user_id
		WHERE m.account_id = $1
		ORDER BY m.id`, accountID)
	if err != nil {
		return nil, fmt.Errorf("list account members: %w", err)
	}
	defer rows.Close()

	out := []account.MembershipWithUser{}
	for rows.Next() {
		var u account.User
		m, err := scanMembership(rows, &u.ID, &u.AuthSubject, &u.Email, &u.DisplayName)
		if err != nil {
			return nil, err
		}
		out = append(out, account.MembershipWithUser{Membership: m, User: u})
	}
	return out, rows.Err()
}

func (r *Repository) ListUserMemberships(ctx context.Context, userID int64) ([]account.MembershipWithAccount, error) {
	rows, err := r.q(ctx).Query(ctx, `
		SELECT `+membershipColumns+`, a.id, a.name, a.current_period_ends, a.features, a.plan_id, a.plan_name,
			a.max_notes, a.stripe_subscription_id, a.stripe_customer_id, a.max_members, a.join_password,
			a.ai_gen_max_pm, a.ai_gen_count
		FROM membership m
		JOIN account a ON a.id = m.account_id
		WHERE m.user_id = $1
		ORDER BY m.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list user memberships: %w", err)
	}
	defer rows.Close()

	out := []account.MembershipWithAccount{}
	for rows.Next() {
		var (
			a                 account.Account
			subID, customerID *string
		)
		m, err := scanMembership(rows, &a.ID, &a.Name, &a.CurrentPeriodEnds, &a.Features, &a.PlanID, &a.PlanName,
			&a.MaxNotes, &subID, &customerID, &a.MaxMembers, &a.JoinPassword, &a.AIGenMaxPM, &a.AIGenCount)
		if err != nil {
			return nil, err
		}
		a.StripeSubscriptionID = deref(subID)
		a.StripeCustomerID = deref(customerID)
		out = append(out, account.MembershipWithAccount{Membership: m, Account: a})
	}
	return out, rows.Err()
}

func (r *Repository) CreateMembership(ctx context.Context, m account.Membership) (account.Membership, error) {
	if m.Access == "" {
		m.Access = account.AccessReadOnly
	}
	var out account.Membership
	err := r.guarded(ctx, func(q querier) error {
		var err error
		out, err = scanMembership(q.QueryRow(ctx, `
			INSERT INTO membership AS m (user_id, account_id, access, pending)
			VALUES ($1, $2, $3::account_access, $4)
			RETURNING `+membershipColumns,
			m.UserID, m.AccountID, string(m.Access), m.Pending))
		return err
	})
	switch {
	case err == nil:
		return out, nil
	case pg.IsDuplicateKeyError(err):
		return account.Membership{}, errors.Join(account.ErrAlreadyMember, err)
	case pg.IsForeignKeyViolationError(err) && pg.ConstraintName(err) == "membership_user_id_fkey":
		return account.Membership{}, errors.Join(account.ErrUserNotFound, err)
	case pg.IsForeignKeyViolationError(err):
		return account.Membership{}, errors.Join(account.ErrAccountNotFound, err)
	default:
		return account.Membership{}, err
	}
}

func (r *Repository) SetMembershipPending(ctx context.Context, id int64, pending bool) (account.Membership, error) {
	return scanMembership(r.q(ctx).QueryRow(ctx, `
		UPDATE membership AS m SET pending = $2 WHERE m.id = $1
		RETURNING `+membershipColumns, id, pending))
}

func (r *Repository) SetMembershipAccess(ctx context.Context, id int64, access account.Access) (account.Membership, error) {
	return scanMembership(r.q(ctx).QueryRow(ctx, `
		UPDATE membership AS m SET access = $2::account_access WHERE m.id = $1
		RETURNING `+membershipColumns, id, string(access)))
}

func (r *Repository) DowngradeOwners(ctx context.Context, accountID int64) error {
	_, err := r.q(ctx).Exec(ctx, `
		UPDATE membership SET access = 'ADMIN'
		WHERE account_id = $1 AND access = 'OWNER'`, accountID)
	if err != nil {
		return fmt.Errorf("downgrade owners: %w", err)
	}
	return nil
}

func (r *Repository) DeleteMembership(ctx context.Context, id int64) (account.Membership, error) {
	return scanMembership(r.q(ctx).QueryRow(ctx, `
		DELETE FROM membership AS m WHERE m.id = $1
		RETURNING `+membershipColumns, id))
}

func (r *Repository) DeleteUserMemberships(ctx context.Context, userID int64) error {
	if _, err := r.q(ctx).Exec(ctx, `DELETE FROM membership WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete user memberships: %w", err)
	}
	return nil
}
