package account

import (
	"context"
	"fmt"
)

// Plan features.
const (
	FeatureAddNotes           = "ADD_NOTES"
	FeatureEditNotes          = "EDIT_NOTES"
	FeatureViewNotes          = "VIEW_NOTES"
	FeatureSpecial            = "SPECIAL_FEATURE"
	FeatureSpecialTeamFeature = "SPECIAL_TEAM_FEATURE"
)

// PlanProducts maps the paid plans to their Stripe products.
type PlanProducts struct {
	IndividualProductID string `env:"STRIPE_INDIVIDUAL_PRODUCT_ID" envDefault:"prod_NQR7vwUulvIeqW"`
	TeamProductID       string `env:"STRIPE_TEAM_PRODUCT_ID" envDefault:"prod_NQR8IkkdhqBwu2"`
}

// DefaultPlans returns the built-in catalogue: the initial free plan and two
// paid plans.
func DefaultPlans(initialPlanName string, products PlanProducts) []Plan {
	if initialPlanName == "" {
		initialPlanName = DefaultInitialPlanName
	}
	return []Plan{
		{
			Name:       initialPlanName,
			Features:   []string{FeatureAddNotes, FeatureEditNotes, FeatureViewNotes},
			MaxNotes:   10,
			MaxMembers: 1,
			AIGenMaxPM: 7,
		},
		{
			Name:            "Individual Plan",
			Features:        []string{FeatureAddNotes, FeatureEditNotes, FeatureViewNotes, FeatureSpecial},
			MaxNotes:        100,
			MaxMembers:      1,
			AIGenMaxPM:      50,
			StripeProductID: products.IndividualProductID,
		},
		{
			Name:            "Team Plan",
			Features:        []string{FeatureAddNotes, FeatureEditNotes, FeatureViewNotes, FeatureSpecial, FeatureSpecialTeamFeature},
			MaxNotes:        200,
			MaxMembers:      10,
			AIGenMaxPM:      500,
			StripeProductID: products.TeamProductID,
		},
	}
}

// PlanUpserter inserts a plan or updates the one with the same name.
type PlanUpserter interface {
	UpsertPlan(ctx context.Context, p Plan) (Plan, error)
}

// SeedPlans upserts plans by name and returns them with their ids.
func SeedPlans(ctx context.Context, store PlanUpserter, plans []Plan) ([]Plan, error) {
	out := make([]Plan, 0, len(plans))
	for _, p := range plans {
		saved, err := store.UpsertPlan(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("seed plan %q: %w", p.Name, err)
		}
		out = append(out, saved)
	}
	return out, nil
}
