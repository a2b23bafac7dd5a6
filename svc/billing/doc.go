// Package billing connects accounts to Stripe subscriptions: hosted checkout,
// the customer portal, and the webhook that moves an account between plans.
package billing
