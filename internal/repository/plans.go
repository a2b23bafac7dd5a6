package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/notesaas/pkg/pg"
	"github.com/dmitrymomot/notesaas/svc/account"
)

const planColumns = `id, name, features, max_notes, stripe_product_id, max_members, ai_gen_max_pm`

func scanPlan(row pgx.Row) (account.Plan, error) {
	var (
		p         account.Plan
		productID *string
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Features, &p.MaxNotes, &productID, &p.MaxMembers, &p.AIGenMaxPM); err != nil {
		if pg.IsNotFoundError(err) {
			return account.Plan{}, account.ErrPlanNotFound
		}
		return account.Plan{}, fmt.Errorf("scan plan: %w", err)
	}
	p.StripeProductID = deref(productID)
	return p, nil
}

func (r *Repository) GetPlan(ctx context.Context, id int64) (account.Plan, error) {
	return scanPlan(r.q(ctx).QueryRow(ctx, `SELECT `+planColumns+` FROM plan WHERE id = $1`, id))
}

func (r *Repository) GetPlanByName(ctx context.Context, name string) (account.Plan, error) {
	return scanPlan(r.q(ctx).QueryRow(ctx, `SELECT `+planColumns+` FROM plan WHERE name = $1`, name))
}

func (r *Repository) GetPlanByStripeProductID(ctx context.Context, productID string) (account.Plan, error) {
	if productID == "" {
		return account.Plan{}, account.ErrPlanNotFound
	}
	return scanPlan(r.q(ctx).QueryRow(ctx,
		`SELECT `+planColumns+` FROM plan WHERE stripe_product_id = $1 ORDER BY id LIMIT 1`, productID))
}

// UpsertPlan inserts p or, when a plan with the same name exists, replaces
// its limits.
func (r *Repository) UpsertPlan(ctx context.Context, p account.Plan) (account.Plan, error) {
	return scanPlan(r.q(ctx).QueryRow(ctx, `
		INSERT INTO plan (name, features, max_notes, stripe_product_id, max_members, ai_gen_max_pm)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (name) DO UPDATE SET
			features = EXCLUDED.features,
			max_notes = EXCLUDED.max_notes,
			stripe_product_id = EXCLUDED.stripe_product_id,
			max_members = EXCLUDED.max_members,
			ai_gen_max_pm = EXCLUDED.ai_gen_max_pm
		RETURNING `+planColumns,
		p.Name, p.Features, p.MaxNotes, nullable(p.StripeProductID), p.MaxMembers, p.AIGenMaxPM))
}

func (r *Repository) ListPlans(ctx context.Context) ([]account.Plan, error) {
	rows, err := r.q(ctx).Query(ctx, `SELECT `+planColumns+` FROM plan ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()

	out := []account.Plan{}
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
