package billing

import "errors"

var (
	ErrBillingDisabled      = errors.New("billing is not configured")
	ErrNoStripeCustomer     = errors.New("account has no stripe customer")
	ErrWebhookNotConfigured = errors.New("stripe webhook secret is not configured")
	ErrInvalidSignature     = errors.New("invalid stripe signature")
	ErrMalformedEvent       = errors.New("malformed stripe event")
	ErrGatewayFailed        = errors.New("stripe request failed")
)
