package billing

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/dmitrymomot/notesaas/pkg/logger"
	"github.com/dmitrymomot/notesaas/svc/account"
)

// Accounts is the part of the account service billing drives.
type Accounts interface {
	GetAccountByID(ctx context.Context, id int64) (account.AccountWithMembers, error)
	UpdateAccountStripeCustomerID(ctx context.Context, accountID int64, customerID string) (account.Account, error)
	UpdateStripeSubscriptionDetails(ctx context.Context, customerID, subscriptionID string, periodEnds time.Time, productID string) (account.Account, error)
}

type Service struct {
	accounts Accounts
	gateway  Gateway
	cfg      Config
	log      *slog.Logger
}

type ServiceOption func(*Service)

func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// NewService creates the billing service. gateway may be nil when billing is
// disabled; checkout and portal calls then fail with ErrBillingDisabled.
func NewService(accounts Accounts, gateway Gateway, cfg Config, opts ...ServiceOption) *Service {
	s := &Service{
		accounts: accounts,
		gateway:  gateway,
		cfg:      cfg,
		log:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("billing"))
	return s
}

// CreateCheckoutSession starts a subscription checkout for the account and
// returns the hosted checkout URL. The Stripe customer is created on first use.
func (s *Service) CreateCheckoutSession(ctx context.Context, accountID int64, email, priceID string) (string, error) {
	if s.gateway == nil {
		return "", ErrBillingDisabled
	}
	acc, err := s.accounts.GetAccountByID(ctx, accountID)
	if err != nil {
		return "", err
	}

	customerID := acc.StripeCustomerID
	if customerID == "" {
		if customerID, err = s.gateway.CreateCustomer(ctx, email, accountID); err != nil {
			return "", err
		}
		if _, err := s.accounts.UpdateAccountStripeCustomerID(ctx, accountID, customerID); err != nil {
			return "", err
		}
		s.log.InfoContext(ctx, "stripe customer created", logger.AccountID(accountID))
	}

	return s.gateway.CreateCheckoutSession(ctx, CheckoutRequest{
		CustomerID: customerID,
		PriceID:    priceID,
		AccountID:  accountID,
		SuccessURL: s.cfg.SuccessURL,
		CancelURL:  s.cfg.CancelURL,
	})
}

// CreatePortalSession returns a customer portal URL for managing the
// account's subscription.
func (s *Service) CreatePortalSession(ctx context.Context, accountID int64) (string, error) {
	if s.gateway == nil {
		return "", ErrBillingDisabled
	}
	acc, err := s.accounts.GetAccountByID(ctx, accountID)
	if err != nil {
		return "", err
	}
	if acc.StripeCustomerID == "" {
		return "", ErrNoStripeCustomer
	}
	return s.gateway.CreatePortalSession(ctx, acc.StripeCustomerID, s.cfg.PortalReturnURL)
}

const (
	EventSubscriptionCreated = "customer.subscription.created"
	EventSubscriptionUpdated = "customer.subscription.updated"
)

// HandleWebhook verifies a Stripe delivery and applies subscription changes
// to the matching account. It returns the event type, empty when the payload
// could not be verified.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, signature string) (string, error) {
	if s.cfg.WebhookSecret == "" {
		return "", ErrWebhookNotConfigured
	}
	event, err := webhook.ConstructEventWithOptions(payload, signature, s.cfg.WebhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return "", errors.Join(ErrInvalidSignature, err)
	}
	eventType := string(event.Type)

	switch eventType {
	case EventSubscriptionCreated, EventSubscriptionUpdated:
	default:
		s.log.DebugContext(ctx, "stripe event ignored", logger.EventType(eventType))
		return eventType, nil
	}

	if event.Data == nil {
		return eventType, ErrMalformedEvent
	}
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return eventType, errors.Join(ErrMalformedEvent, err)
	}
	if sub.Customer == nil || sub.Customer.ID == "" || sub.Items == nil || len(sub.Items.Data) == 0 {
		return eventType, ErrMalformedEvent
	}
	item := sub.Items.Data[0]
	if item == nil || item.Price == nil || item.Price.Product == nil {
		return eventType, ErrMalformedEvent
	}

	acc, err := s.accounts.UpdateStripeSubscriptionDetails(ctx, sub.Customer.ID, sub.ID,
		time.Unix(item.CurrentPeriodEnd, 0).UTC(), item.Price.Product.ID)
	if err != nil {
		return eventType, err
	}
	s.log.InfoContext(ctx, "subscription applied",
		logger.EventType(eventType), logger.AccountID(acc.ID), logger.PlanID(acc.PlanID))
	return eventType, nil
}
