package service

import (
	"context"
	"fmt"
	"time"
	"hytale-list/internal/api"
	"hytale-list/internal/catalog"
	"hytale-list/internal/config"
	"hytale-list/internal/constants"
	"hytale-list/internal/domain"
	"hytale-list/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type SponsorshipService struct {
	servers      *repository.ServerRepository
	sponsorships *repository.SponsorshipRepository
	catalog      *catalog.Catalog
	checkout     CheckoutCreator
	appURL       string
	clock        domain.Clock
	logger       zerolog.Logger
}

func NewSponsorshipService(
	servers *repository.ServerRepository,
	sponsorships *repository.SponsorshipRepository,
	cat *catalog.Catalog,
	checkout CheckoutCreator,
	cfg *config.Config,
	clock domain.Clock,
	logger zerolog.Logger,
) *SponsorshipService {
	return &SponsorshipService{
		servers:      servers,
		sponsorships: sponsorships,
		catalog:      cat,
		checkout:     checkout,
		appURL:       cfg.AppURL,
		clock:        clock,
		logger:       logger,
	}
}

type PurchaseResult struct {
	SponsorshipID string
	CheckoutURL   string
}

// Purchase reserves a pending sponsorship starting now and opens a provider
// checkout for it. A checkout failure leaves the pending row behind; pending
// rows never count as active.
func (s *SponsorshipService) Purchase(
	ctx context.Context,
	serverID string,
	purchaser domain.Identity,
	sponsorshipType domain.SponsorshipType,
	duration domain.Duration,
) (*PurchaseResult, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	if !purchaser.Authenticated() {
		return nil, domain.NewUnauthenticatedError()
	}

	amount, err := catalog.PriceFor(sponsorshipType, duration)
	if err != nil {
		return nil, err
	}
	window, err := catalog.WindowLengthFor(duration)
	if err != nil {
		return nil, err
	}
	priceID, err := s.catalog.ProductPriceID(sponsorshipType, duration)
	if err != nil {
		return nil, err
	}

	server, err := s.servers.Get(ctx, serverID)
	if err != nil {
		return nil, err
	}
	if server.OwnerID != purchaser.Actor() {
		return nil, domain.NewUnauthorizedError("you do not own this server")
	}
	if server.Status != domain.ServerApproved {
		return nil, domain.NewNotFoundError("only approved servers can be sponsored")
	}

	now := s.clock()
	sp := &domain.Sponsorship{
		ID:            uuid.NewString(),
		ServerID:      serverID,
		PurchaserID:   purchaser.Actor(),
		Type:          sponsorshipType,
		Duration:      duration,
		AmountCents:   amount,
		PaymentStatus: domain.PaymentPending,
		StartsAt:      now,
		EndsAt:        now.Add(window),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	logger := s.logger.With().
		Str("server_id", serverID).
		Str("sponsorship_id", sp.ID).
		Str("type", string(sponsorshipType)).
		Str("duration", string(duration)).
		Logger()

	blocking, err := s.sponsorships.CreatePending(ctx, sp, now)
	if err != nil {
		logger.Error().Err(err).Msg("failed to reserve sponsorship")
		return nil, err
	}
	if blocking != nil {
		logger.Info().Str("blocking_id", blocking.ID).Msg("sponsorship conflicts with an active one")
		return nil, domain.NewConflictError(fmt.Sprintf(
			"Server already has an active %s sponsorship until %s",
			sponsorshipType, blocking.EndsAt.Format(time.RFC3339),
		))
	}

	checkoutCtx, checkoutCancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer checkoutCancel()

	checkout, err := s.checkout.CreateCheckout(checkoutCtx, api.CheckoutRequest{
		PriceID:       priceID,
		SuccessURL:    s.appURL + "/dashboard/sponsorships/success?checkout_id={CHECKOUT_ID}",
		CustomerEmail: purchaser.Email,
		Metadata: map[string]string{
			"sponsorshipId": sp.ID,
			"serverId":      serverID,
			"userId":        purchaser.Actor(),
			"type":          string(sponsorshipType),
			"duration":      string(duration),
		},
	})
	if err != nil {
		logger.Error().Err(err).Msg("checkout creation failed, pending sponsorship left in place")
		return nil, domain.NewExternalError("payment provider is unavailable, please try again", err)
	}

	// the webhook carries the sponsorship id, so a lost checkout id only
	// costs the back reference
	if err := s.sponsorships.SetCheckout(ctx, sp.ID, checkout.ID, s.clock()); err != nil {
		logger.Warn().Err(err).Str("checkout_id", checkout.ID).Msg("failed to store checkout id")
	}

	logger.Info().Str("checkout_id", checkout.ID).Int64("amount_cents", amount).Msg("sponsorship checkout started")
	return &PurchaseResult{SponsorshipID: sp.ID, CheckoutURL: checkout.URL}, nil
}

// ListServerSponsorships returns every sponsorship of a server, any status,
// for its owner or an admin.
func (s *SponsorshipService) ListServerSponsorships(ctx context.Context, serverID string, viewer domain.Identity) ([]domain.Sponsorship, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if _, err := requireOwnedServer(ctx, s.servers, serverID, viewer); err != nil {
		return nil, err
	}
	return s.sponsorships.ListByServer(ctx, serverID)
}

func (s *SponsorshipService) ListMySponsorships(ctx context.Context, viewer domain.Identity) ([]domain.Sponsorship, error) {
	if !viewer.Authenticated() {
		return nil, domain.NewUnauthenticatedError()
	}
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()
	return s.sponsorships.ListByUser(ctx, viewer.Actor())
}

func (s *SponsorshipService) GetSponsorship(ctx context.Context, id string, viewer domain.Identity) (*domain.Sponsorship, error) {
	if !viewer.Authenticated() {
		return nil, domain.NewUnauthenticatedError()
	}
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	sp, err := s.sponsorships.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sp.PurchaserID != viewer.Actor() && !viewer.IsAdmin() {
		return nil, domain.NewNotFoundError("sponsorship not found")
	}
	return sp, nil
}

func (s *SponsorshipService) Catalog() []catalog.Offer {
	return s.catalog.Offers()
}
