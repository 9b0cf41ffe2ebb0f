package api

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
	"hytale-list/internal/config"
	"hytale-list/internal/constants"
	"hytale-list/internal/domain"

	jsoniter "github.com/json-iterator/go"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

var (
	ErrMissingSignature = errors.New("missing webhook signature headers")
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrStaleWebhook     = errors.New("webhook timestamp outside tolerance")
)

// WebhookVerifier checks Standard Webhooks signatures as sent by Polar:
// base64 HMAC-SHA256 over "<webhook-id>.<webhook-timestamp>.<body>".
type WebhookVerifier struct {
	key       []byte
	tolerance time.Duration
	now       domain.Clock
}

func NewWebhookVerifier(cfg *config.Config, clock domain.Clock) (*WebhookVerifier, error) {
	key, err := webhookKey(cfg.PolarWebhookSecret)
	if err != nil {
		return nil, err
	}
	return &WebhookVerifier{key: key, tolerance: constants.WebhookTolerance, now: clock}, nil
}

// "whsec_" secrets carry a base64 key, anything else is used as raw bytes
func webhookKey(secret string) ([]byte, error) {
	if rest, ok := strings.CutPrefix(secret, "whsec_"); ok {
		key, err := base64.StdEncoding.DecodeString(rest)
		if err != nil {
			return nil, fmt.Errorf("failed to decode webhook secret: %w", err)
		}
		return key, nil
	}
	return []byte(secret), nil
}

func (v *WebhookVerifier) Verify(header http.Header, body []byte) error {
	id := header.Get("webhook-id")
	ts := header.Get("webhook-timestamp")
	sigs := header.Get("webhook-signature")
	if id == "" || ts == "" || sigs == "" {
		return ErrMissingSignature
	}

	sec, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: bad timestamp", ErrInvalidSignature)
	}
	sent := time.Unix(sec, 0)
	if d := v.now().Sub(sent); d > v.tolerance || d < -v.tolerance {
		return ErrStaleWebhook
	}

	expected := v.sign(id, ts, body)
	for _, sig := range strings.Fields(sigs) {
		version, value, ok := strings.Cut(sig, ",")
		if !ok || version != "v1" {
			continue
		}
		got, err := base64.StdEncoding.DecodeString(value)
		if err != nil {
			continue
		}
		if hmac.Equal(got, expected) {
			return nil
		}
	}
	return ErrInvalidSignature
}

func (v *WebhookVerifier) sign(id, ts string, body []byte) []byte {
	mac := hmac.New(sha256.New, v.key)
	mac.Write([]byte(id))
	mac.Write([]byte{'.'})
	mac.Write([]byte(ts))
	mac.Write([]byte{'.'})
	mac.Write(body)
	return mac.Sum(nil)
}

// Sign returns a webhook-signature header value for body.
func (v *WebhookVerifier) Sign(id string, at time.Time, body []byte) (ts, signature string) {
	ts = strconv.FormatInt(at.Unix(), 10)
	return ts, "v1," + base64.StdEncoding.EncodeToString(v.sign(id, ts, body))
}

type webhookEnvelope struct {
	Type string              `json:"type"`
	Data jsoniter.RawMessage `json:"data"`
}

type webhookData struct {
	ID               string              `json:"id"`
	Status           string              `json:"status"`
	CheckoutID       string              `json:"checkout_id"`
	Metadata         jsoniter.RawMessage `json:"metadata"`
	CustomerMetadata jsoniter.RawMessage `json:"customer_metadata"`
}

// ParseWebhookEvent decodes a verified webhook body. The sponsorship id is
// taken from customer metadata first, then checkout metadata.
func ParseWebhookEvent(deliveryID string, body []byte) (*domain.PaymentEvent, error) {
	var env webhookEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("failed to decode webhook: %w", err)
	}
	if env.Type == "" {
		return nil, errors.New("webhook has no event type")
	}

	event := &domain.PaymentEvent{ID: deliveryID, Type: env.Type}
	if len(env.Data) == 0 {
		return event, nil
	}

	var data webhookData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to decode webhook data: %w", err)
	}

	event.Status = data.Status
	event.CheckoutID = data.ID
	if data.CheckoutID != "" {
		event.CheckoutID = data.CheckoutID
	}
	if data.ID != "" {
		ref := data.ID
		event.SettlementRef = &ref
	}

	for _, raw := range []jsoniter.RawMessage{data.CustomerMetadata, data.Metadata} {
		id, err := metadataString(raw, "sponsorshipId")
		if err != nil {
			return nil, err
		}
		if id != "" {
			event.SponsorshipID = id
			break
		}
	}
	return event, nil
}

// metadata values are free-form JSON, so they go through structpb rather
// than a fixed struct
func metadataString(raw []byte, key string) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	var meta structpb.Struct
	if err := (protojson.UnmarshalOptions{DiscardUnknown: true}).Unmarshal(raw, &meta); err != nil {
		return "", fmt.Errorf("failed to decode webhook metadata: %w", err)
	}
	return meta.GetFields()[key].GetStringValue(), nil
}
