package service

import (
	"context"
	"hytale-list/internal/api"

	"github.com/finnbear/moderation"
)

// CaptchaVerifier asks the human verification provider about a token. An
// error means the provider could not answer.
type CaptchaVerifier interface {
	Check(ctx context.Context, token, remoteIP string) (bool, error)
}

type CheckoutCreator interface {
	CreateCheckout(ctx context.Context, in api.CheckoutRequest) (*api.Checkout, error)
}

// inappropriate flags text at moderate severity or worse.
func inappropriate(text string) bool {
	return moderation.Scan(text).Is(moderation.Inappropriate & moderation.Moderate)
}
