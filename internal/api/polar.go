package api

import (
	"context"
	"fmt"
	"hytale-list/internal/config"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

type PolarClient struct {
	accessToken string
	baseURL     string
	client      *fasthttp.Client
	logger      zerolog.Logger
}

func NewPolarClient(cfg *config.Config, logger zerolog.Logger) *PolarClient {
	return &PolarClient{
		accessToken: cfg.PolarAccessToken,
		baseURL:     cfg.PolarAPIURL,
		client:      newHTTPClient(),
		logger:      logger,
	}
}

type CheckoutRequest struct {
	PriceID       string
	SuccessURL    string
	CustomerEmail string
	// opaque values echoed back on webhook events
	Metadata map[string]string
}

type Checkout struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Status string `json:"status"`
}

type createCheckoutBody struct {
	Products         []string          `json:"products"`
	SuccessURL       string            `json:"success_url"`
	CustomerEmail    string            `json:"customer_email,omitempty"`
	Metadata         map[string]string `json:"metadata"`
	CustomerMetadata map[string]string `json:"customer_metadata"`
}

func (c *PolarClient) CreateCheckout(ctx context.Context, in CheckoutRequest) (*Checkout, error) {
	body, err := json.Marshal(createCheckoutBody{
		Products:         []string{in.PriceID},
		SuccessURL:       in.SuccessURL,
		CustomerEmail:    in.CustomerEmail,
		Metadata:         in.Metadata,
		CustomerMetadata: in.Metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode checkout: %w", err)
	}

	checkout, err := doRequest[Checkout](ctx, c.client, request{
		method:      fasthttp.MethodPost,
		url:         c.baseURL + "/v1/checkouts/",
		contentType: "application/json",
		headers:     map[string]string{"Authorization": "Bearer " + c.accessToken},
		body:        body,
	}, fasthttp.StatusOK, fasthttp.StatusCreated)
	if err != nil {
		c.logger.Error().Err(err).Str("price_id", in.PriceID).Msg("failed to create checkout")
		return nil, err
	}
	if checkout.ID == "" || checkout.URL == "" {
		return nil, fmt.Errorf("checkout response missing id or url")
	}

	c.logger.Info().
		Str("checkout_id", checkout.ID).
		Str("price_id", in.PriceID).
		Msg("checkout created")
	return checkout, nil
}
