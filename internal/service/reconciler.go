package service

import (
	"context"
	"hytale-list/internal/constants"
	"hytale-list/internal/domain"
	"hytale-list/internal/repository"

	"github.com/rs/zerolog"
)

const (
	EventCheckoutCreated = "checkout.created"
	EventCheckoutUpdated = "checkout.updated"
	EventOrderCreated    = "order.created"
)

// ReconcilerService applies payment provider outcomes to sponsorships. Every
// transition is a conditional update on the current status, so redelivered
// or reordered events settle to the same state.
type ReconcilerService struct {
	sponsorships *repository.SponsorshipRepository
	clock        domain.Clock
	logger       zerolog.Logger
}

func NewReconcilerService(sponsorships *repository.SponsorshipRepository, clock domain.Clock, logger zerolog.Logger) *ReconcilerService {
	return &ReconcilerService{sponsorships: sponsorships, clock: clock, logger: logger}
}

// Confirm moves a pending or failed sponsorship to succeeded. It reports
// false when nothing changed. The payment has already moved, so a window
// that collides with another paid one is still confirmed and logged for an
// admin refund.
func (s *ReconcilerService) Confirm(ctx context.Context, sponsorshipID string, settlementRef *string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	applied, err := s.sponsorships.Confirm(ctx, sponsorshipID, settlementRef, s.clock())
	if err != nil {
		return false, err
	}
	s.logTransition(sponsorshipID, domain.PaymentSucceeded, applied)
	if !applied {
		return false, nil
	}

	overlapping, err := s.sponsorships.Overlapping(ctx, sponsorshipID)
	if err != nil {
		s.logger.Warn().Err(err).Str("sponsorship_id", sponsorshipID).Msg("failed to check for overlapping sponsorships")
		return true, nil
	}
	if len(overlapping) > 0 {
		ids := make([]string, len(overlapping))
		for i, o := range overlapping {
			ids[i] = o.ID
		}
		s.logger.Error().
			Str("sponsorship_id", sponsorshipID).
			Strs("overlapping_ids", ids).
			Msg("confirmed sponsorship overlaps a paid window, refund required")
	}
	return true, nil
}

// Fail moves a pending sponsorship to failed. A failure arriving after a
// success is ignored.
func (s *ReconcilerService) Fail(ctx context.Context, sponsorshipID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	applied, err := s.sponsorships.Fail(ctx, sponsorshipID, s.clock())
	if err != nil {
		return false, err
	}
	s.logTransition(sponsorshipID, domain.PaymentFailed, applied)
	return applied, nil
}

func (s *ReconcilerService) Refund(ctx context.Context, sponsorshipID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	applied, err := s.sponsorships.Refund(ctx, sponsorshipID, s.clock())
	if err != nil {
		return false, err
	}
	s.logTransition(sponsorshipID, domain.PaymentRefunded, applied)
	return applied, nil
}

func (s *ReconcilerService) logTransition(id string, to domain.PaymentStatus, applied bool) {
	evt := s.logger.Info()
	if !applied {
		evt = s.logger.Debug()
	}
	evt.Str("sponsorship_id", id).
		Str("to", string(to)).
		Bool("applied", applied).
		Msg("payment transition")
}

// HandleEvent routes a verified provider event. Unknown event types and
// events without a sponsorship reference are logged and dropped.
func (s *ReconcilerService) HandleEvent(ctx context.Context, event *domain.PaymentEvent) error {
	logger := s.logger.With().
		Str("event_id", event.ID).
		Str("event_type", event.Type).
		Str("checkout_id", event.CheckoutID).
		Str("status", event.Status).
		Logger()

	switch event.Type {
	case EventCheckoutCreated, EventOrderCreated:
		logger.Info().Msg("payment event received")
		return nil
	case EventCheckoutUpdated:
	default:
		logger.Info().Msg("unhandled payment event type")
		return nil
	}

	if event.SponsorshipID == "" {
		logger.Warn().Msg("payment event has no sponsorship id")
		return nil
	}

	switch event.Status {
	case "confirmed", "succeeded":
		_, err := s.Confirm(ctx, event.SponsorshipID, event.SettlementRef)
		return err
	case "failed", "expired":
		_, err := s.Fail(ctx, event.SponsorshipID)
		return err
	default:
		logger.Debug().Msg("checkout status needs no transition")
		return nil
	}
}
