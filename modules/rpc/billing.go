package rpc

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/notesaas/handler"
	"github.com/dmitrymomot/notesaas/pkg/logger"
	"github.com/dmitrymomot/notesaas/pkg/metrics"
	"github.com/dmitrymomot/notesaas/pkg/rbac"
	"github.com/dmitrymomot/notesaas/pkg/sanitizer"
	"github.com/dmitrymomot/notesaas/pkg/validator"
	"github.com/dmitrymomot/notesaas/svc/account"
	"github.com/dmitrymomot/notesaas/svc/auth"
	"github.com/dmitrymomot/notesaas/svc/billing"
)

// maxWebhookBodySize follows Stripe's recommendation for webhook payloads.
const maxWebhookBodySize = 65536

type billingProcedures struct {
	billing *billing.Service
	authz   *rbac.Authorizer
}

func (p *billingProcedures) register(r router) {
	procedure(r, "createCheckoutSession", p.createCheckoutSession,
		requires[checkoutInput](p.authz, account.PermBillingManage))
	procedure(r, "createPortalSession", p.createPortalSession,
		requires[empty](p.authz, account.PermBillingManage))
}

type checkoutInput struct {
	PriceID string `json:"price_id"`
}

func (in *checkoutInput) Sanitize() { in.PriceID = sanitizer.Trim(in.PriceID) }

func (in checkoutInput) Validate() error {
	return validator.Apply(validator.RequiredString("price_id", in.PriceID))
}

func (p *billingProcedures) createCheckoutSession(ctx handler.Context, in checkoutInput) handler.Response {
	user, _ := auth.UserFromContext(ctx)
	url, err := p.billing.CreateCheckoutSession(ctx, activeAccountID(ctx), user.Email, in.PriceID)
	if err != nil {
		return fail(err)
	}
	return handler.JSON(map[string]any{"url": url})
}

func (p *billingProcedures) createPortalSession(ctx handler.Context, _ empty) handler.Response {
	url, err := p.billing.CreatePortalSession(ctx, activeAccountID(ctx))
	if err != nil {
		return fail(err)
	}
	return handler.JSON(map[string]any{"url": url})
}

var errWebhookUnavailable = handler.HTTPError{Code: http.StatusServiceUnavailable, Key: "unavailable"}

// WebhookHandler serves Stripe event deliveries.
func WebhookHandler(svc *billing.Service, log *slog.Logger) http.HandlerFunc {
	if log == nil {
		log = slog.Default()
	}
	log = log.With(logger.Component("stripe_webhook"))

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBodySize))
		if err != nil {
			metrics.WebhookRequestsTotal.WithLabelValues("unknown", "rejected").Inc()
			_ = handler.JSONError(handler.ErrBadRequest.Wrap(err)).Render(w, r)
			return
		}

		eventType, err := svc.HandleWebhook(ctx, payload, r.Header.Get("Stripe-Signature"))
		label := eventType
		if label == "" {
			label = "unknown"
		}
		if err != nil {
			outcome := "error"
			var resp handler.Response
			switch {
			case errors.Is(err, billing.ErrWebhookNotConfigured):
				resp = handler.JSONError(errWebhookUnavailable.Wrap(err))
			case errors.Is(err, billing.ErrInvalidSignature), errors.Is(err, billing.ErrMalformedEvent):
				outcome = "rejected"
				resp = handler.JSONError(handler.ErrBadRequest.Wrap(err).WithMessage("invalid webhook payload"))
			default:
				resp = handler.JSONError(Classify(err))
			}
			metrics.WebhookRequestsTotal.WithLabelValues(label, outcome).Inc()
			log.WarnContext(ctx, "stripe webhook failed", logger.EventType(label), logger.Error(err))
			_ = resp.Render(w, r)
			return
		}

		metrics.WebhookRequestsTotal.WithLabelValues(label, "ok").Inc()
		_ = handler.JSON(map[string]any{"received": true}).Render(w, r)
	}
}
