package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"hytale-list/internal/config"
	"hytale-list/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolarCreateCheckout(t *testing.T) {
	var (
		gotAuth string
		gotBody map[string]any
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/checkouts/", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(raw, &gotBody))
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"id":"chk_1","url":"https://pay.example/chk_1","status":"open"}`)
	}))
	defer srv.Close()

	client := NewPolarClient(&config.Config{PolarAccessToken: "polar-token", PolarAPIURL: srv.URL}, zerolog.Nop())
	checkout, err := client.CreateCheckout(context.Background(), CheckoutRequest{
		PriceID:    "price_1",
		SuccessURL: "https://app.example/success",
		Metadata:   map[string]string{"sponsorshipId": "sp-1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "chk_1", checkout.ID)
	assert.Equal(t, "https://pay.example/chk_1", checkout.URL)
	assert.Equal(t, "Bearer polar-token", gotAuth)
	assert.Equal(t, []any{"price_1"}, gotBody["products"])
	assert.Equal(t, map[string]any{"sponsorshipId": "sp-1"}, gotBody["metadata"])
}

func TestPolarCreateCheckoutError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		io.WriteString(w, `{"detail":"bad price"}`)
	}))
	defer srv.Close()

	client := NewPolarClient(&config.Config{PolarAccessToken: "t", PolarAPIURL: srv.URL}, zerolog.Nop())
	_, err := client.CreateCheckout(context.Background(), CheckoutRequest{PriceID: "nope"})
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnprocessableEntity, statusErr.Code)
}

func fixedClock(t time.Time) domain.Clock {
	return func() time.Time { return t }
}

func TestWebhookVerify(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	v, err := NewWebhookVerifier(&config.Config{PolarWebhookSecret: "polar_whs_secret"}, fixedClock(now))
	require.NoError(t, err)

	body := []byte(`{"type":"checkout.updated","data":{"id":"chk_1","status":"confirmed"}}`)
	ts, sig := v.Sign("msg_1", now.Add(-time.Minute), body)

	header := http.Header{}
	header.Set("webhook-id", "msg_1")
	header.Set("webhook-timestamp", ts)
	header.Set("webhook-signature", "v1,AAAA "+sig)
	require.NoError(t, v.Verify(header, body))

	assert.ErrorIs(t, v.Verify(header, append(body, ' ')), ErrInvalidSignature)

	header.Set("webhook-id", "msg_2")
	assert.ErrorIs(t, v.Verify(header, body), ErrInvalidSignature)

	staleTS, staleSig := v.Sign("msg_1", now.Add(-10*time.Minute), body)
	header.Set("webhook-id", "msg_1")
	header.Set("webhook-timestamp", staleTS)
	header.Set("webhook-signature", staleSig)
	assert.ErrorIs(t, v.Verify(header, body), ErrStaleWebhook)

	assert.ErrorIs(t, v.Verify(http.Header{}, body), ErrMissingSignature)
}

func TestWebhookKeyPrefixed(t *testing.T) {
	key, err := webhookKey("whsec_c2VjcmV0")
	require.NoError(t, err)
	assert.Equal(t, []byte("secret"), key)

	_, err = webhookKey("whsec_***")
	assert.Error(t, err)
}

func TestParseWebhookEvent(t *testing.T) {
	body := []byte(`{
		"type": "checkout.updated",
		"data": {
			"id": "chk_9",
			"status": "confirmed",
			"metadata": {"sponsorshipId": "sp-meta", "serverId": "srv-1", "attempt": 2},
			"customer_metadata": {"sponsorshipId": "sp-customer"}
		}
	}`)
	event, err := ParseWebhookEvent("msg_1", body)
	require.NoError(t, err)
	assert.Equal(t, "checkout.updated", event.Type)
	assert.Equal(t, "confirmed", event.Status)
	assert.Equal(t, "chk_9", event.CheckoutID)
	assert.Equal(t, "sp-customer", event.SponsorshipID)
	require.NotNil(t, event.SettlementRef)
	assert.Equal(t, "chk_9", *event.SettlementRef)

	event, err = ParseWebhookEvent("msg_2", []byte(`{"type":"checkout.updated","data":{"id":"chk_9","status":"failed","metadata":{"sponsorshipId":"sp-meta"}}}`))
	require.NoError(t, err)
	assert.Equal(t, "sp-meta", event.SponsorshipID)

	event, err = ParseWebhookEvent("msg_3", []byte(`{"type":"benefit.granted","data":{"id":"b_1"}}`))
	require.NoError(t, err)
	assert.Empty(t, event.SponsorshipID)

	_, err = ParseWebhookEvent("msg_4", []byte(`{"data":{}}`))
	assert.Error(t, err)
}
