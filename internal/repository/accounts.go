package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/notesaas/pkg/pg"
	"github.com/dmitrymomot/notesaas/svc/account"
)

const accountColumns = `id, name, current_period_ends, features, plan_id, plan_name, max_notes,
	stripe_subscription_id, stripe_customer_id, max_members, join_password, ai_gen_max_pm, ai_gen_count`

func scanAccount(row pgx.Row) (account.Account, error) {
	var (
		a                 account.Account
		subID, customerID *string
	)
	err := row.Scan(&a.ID, &a.Name, &a.CurrentPeriodEnds, &a.Features, &a.PlanID, &a.PlanName, &a.MaxNotes,
		&subID, &customerID, &a.MaxMembers, &a.JoinPassword, &a.AIGenMaxPM, &a.AIGenCount)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return account.Account{}, account.ErrAccountNotFound
		}
		return account.Account{}, fmt.Errorf("scan account: %w", err)
	}
	a.StripeSubscriptionID = deref(subID)
	a.StripeCustomerID = deref(customerID)
	return a, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// nullable stores "" as NULL.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (r *Repository) getAccountWhere(ctx context.Context, where string, arg any) (account.Account, error) {
	return scanAccount(r.q(ctx).QueryRow(ctx, `SELECT `+accountColumns+` FROM account WHERE `+where, arg))
}

func (r *Repository) GetAccount(ctx context.Context, id int64) (account.Account, error) {
	return r.getAccountWhere(ctx, "id = $1", id)
}

func (r *Repository) GetAccountByJoinPassword(ctx context.Context, password string) (account.Account, error) {
	return r.getAccountWhere(ctx, "join_password = $1", password)
}

func (r *Repository) GetAccountByStripeCustomerID(ctx context.Context, customerID string) (account.Account, error) {
	if customerID == "" {
		return account.Account{}, account.ErrAccountNotFound
	}
	return r.getAccountWhere(ctx, "stripe_customer_id = $1", customerID)
}

func joinPasswordConflict(err error) error {
	if pg.IsDuplicateKeyError(err) && pg.ConstraintName(err) == "account_join_password_key" {
		return errors.Join(account.ErrJoinPasswordTaken, err)
	}
	return err
}

func (r *Repository) CreateAccount(ctx context.Context, a account.Account) (account.Account, error) {
	var out account.Account
	err := r.guarded(ctx, func(q querier) error {
		var err error
		out, err = scanAccount(q.QueryRow(ctx, `
			INSERT INTO account (name, current_period_ends, features, plan_id, plan_name, max_notes,
				stripe_subscription_id, stripe_customer_id, max_members, join_password, ai_gen_max_pm, ai_gen_count)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			RETURNING `+accountColumns,
			a.Name, a.CurrentPeriodEnds, a.Features, a.PlanID, a.PlanName, a.MaxNotes,
			nullable(a.StripeSubscriptionID), nullable(a.StripeCustomerID), a.MaxMembers,
			a.JoinPassword, a.AIGenMaxPM, a.AIGenCount))
		return err
	})
	if err != nil {
		if pg.IsForeignKeyViolationError(err) {
			return account.Account{}, errors.Join(account.ErrPlanNotFound, err)
		}
		return account.Account{}, joinPasswordConflict(err)
	}
	return out, nil
}

func (r *Repository) UpdateAccount(ctx context.Context, id int64, upd account.AccountUpdate) (account.Account, error) {
	var (
		sets []string
		args []any
	)
	set := func(column string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if upd.Name != nil {
		set("name", *upd.Name)
	}
	if upd.JoinPassword != nil {
		set("join_password", *upd.JoinPassword)
	}
	if upd.StripeCustomerID != nil {
		set("stripe_customer_id", nullable(*upd.StripeCustomerID))
	}
	if upd.StripeSubscriptionID != nil {
		set("stripe_subscription_id", nullable(*upd.StripeSubscriptionID))
	}
	if upd.CurrentPeriodEnds != nil {
		set("current_period_ends", *upd.CurrentPeriodEnds)
	}
	if upd.AIGenCount != nil {
		set("ai_gen_count", *upd.AIGenCount)
	}
	if p := upd.Plan; p != nil {
		set("plan_id", p.ID)
		set("plan_name", p.Name)
		set("features", p.Features)
		set("max_notes", p.MaxNotes)
		set("max_members", p.MaxMembers)
		set("ai_gen_max_pm", p.AIGenMaxPM)
	}
	if len(sets) == 0 {
		return r.GetAccount(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE account SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), accountColumns)

	var out account.Account
	err := r.guarded(ctx, func(q querier) error {
		var err error
		out, err = scanAccount(q.QueryRow(ctx, query, args...))
		return err
	})
	if err != nil {
		return account.Account{}, joinPasswordConflict(err)
	}
	return out, nil
}

func (r *Repository) RolloverPeriod(ctx context.Context, id int64, from, to time.Time) (account.Account, error) {
	a, err := scanAccount(r.q(ctx).QueryRow(ctx, `
		UPDATE account SET current_period_ends = $3, ai_gen_count = 0
		WHERE id = $1 AND current_period_ends = $2
		RETURNING `+accountColumns, id, from, to))
	if errors.Is(err, account.ErrAccountNotFound) {
		// Either the account is gone or its period moved; tell them apart.
		if _, getErr := r.GetAccount(ctx, id); getErr != nil {
			return account.Account{}, getErr
		}
		return account.Account{}, account.ErrPeriodChanged
	}
	return a, err
}

func (r *Repository) IncrementAIGenCount(ctx context.Context, id int64) (account.Account, error) {
	return scanAccount(r.q(ctx).QueryRow(ctx, `
		UPDATE account SET ai_gen_count = ai_gen_count + 1
		WHERE id = $1
		RETURNING `+accountColumns, id))
}

func (r *Repository) CountAccountNotes(ctx context.Context, accountID int64) (int, error) {
	var n int
	if err := r.q(ctx).QueryRow(ctx, `SELECT count(*) FROM note WHERE account_id = $1`, accountID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count notes: %w", err)
	}
	return n, nil
}
