package billing

import (
	"context"
	"errors"
	"strconv"

	stripe "github.com/stripe/stripe-go/v82"
	portalsession "github.com/stripe/stripe-go/v82/billingportal/session"
	checkoutsession "github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/customer"
)

// Gateway is the subset of the Stripe API the service calls.
type Gateway interface {
	CreateCustomer(ctx context.Context, email string, accountID int64) (string, error)
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (string, error)
	CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error)
}

type CheckoutRequest struct {
	CustomerID string
	PriceID    string
	AccountID  int64
	SuccessURL string
	CancelURL  string
}

// StripeGateway calls Stripe with its own API key instead of the global
// stripe.Key.
type StripeGateway struct {
	customers *customer.Client
	checkout  *checkoutsession.Client
	portal    *portalsession.Client
}

func NewStripeGateway(secretKey string) *StripeGateway {
	backend := stripe.GetBackend(stripe.APIBackend)
	return &StripeGateway{
		customers: &customer.Client{B: backend, Key: secretKey},
		checkout:  &checkoutsession.Client{B: backend, Key: secretKey},
		portal:    &portalsession.Client{B: backend, Key: secretKey},
	}
}

func (g *StripeGateway) CreateCustomer(ctx context.Context, email string, accountID int64) (string, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
		Metadata: map[string]string{
			"account_id": strconv.FormatInt(accountID, 10),
		},
	}
	params.Context = ctx
	c, err := g.customers.New(params)
	if err != nil {
		return "", errors.Join(ErrGatewayFailed, err)
	}
	return c.ID, nil
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		Customer:          stripe.String(req.CustomerID),
		ClientReferenceID: stripe.String(strconv.FormatInt(req.AccountID, 10)),
		SuccessURL:        stripe.String(req.SuccessURL),
		CancelURL:         stripe.String(req.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(req.PriceID), Quantity: stripe.Int64(1)},
		},
	}
	params.Context = ctx
	s, err := g.checkout.New(params)
	if err != nil {
		return "", errors.Join(ErrGatewayFailed, err)
	}
	return s.URL, nil
}

func (g *StripeGateway) CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(returnURL),
	}
	params.Context = ctx
	s, err := g.portal.New(params)
	if err != nil {
		return "", errors.Join(ErrGatewayFailed, err)
	}
	return s.URL, nil
}
