package rpc_test

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/dmitrymomot/notesaas/modules/rpc"
	"github.com/dmitrymomot/notesaas/svc/billing"
)

const webhookSecret = "whsec_test_secret"

func postWebhook(h http.Handler, payload []byte, signature string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", bytes.NewReader(payload))
	r.Header.Set("Stripe-Signature", signature)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func TestWebhookHandler(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	e := newEnv(t)
	_, u := e.signIn(t, "alice")
	accountID := u.Memberships[0].AccountID

	_, err := e.accounts.UpdateAccountStripeCustomerID(ctx, accountID, "cus_alice")
	require.NoError(t, err)

	svc := billing.NewService(e.accounts, nil, billing.Config{WebhookSecret: webhookSecret})
	h := rpc.WebhookHandler(svc, nil)

	periodEnd := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
	payload := fmt.Sprintf(`{"id":"evt_1","object":"event","type":"customer.subscription.updated","data":{"object":{"id":"sub_1","object":"subscription","customer":"cus_alice","items":{"object":"list","data":[{"id":"si_1","current_period_end":%d,"price":{"id":"price_1","product":"prod_team"}}]}}}}`,
		periodEnd.Unix())
	sp := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   []byte(payload),
		Secret:    webhookSecret,
		Timestamp: time.Now(),
		Scheme:    "v1",
	})

	w := postWebhook(h, sp.Payload, sp.Header)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	acc, err := e.accounts.GetAccountByID(ctx, accountID)
	require.NoError(t, err)
	assert.Equal(t, "Team Plan", acc.PlanName)
	assert.Equal(t, "sub_1", acc.StripeSubscriptionID)
	assert.True(t, periodEnd.Equal(acc.CurrentPeriodEnds))

	w = postWebhook(h, sp.Payload, "t=1,v1=bad")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebhookHandlerNotConfigured(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	h := rpc.WebhookHandler(billing.NewService(e.accounts, nil, billing.Config{}), nil)

	w := postWebhook(h, []byte(`{}`), "sig")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
