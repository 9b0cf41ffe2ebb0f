package service

import (
	"context"
	"hytale-list/internal/constants"
	"hytale-list/internal/domain"
	"hytale-list/internal/repository"

	"github.com/rs/zerolog"
)

// ExpiryService reports paid sponsorships whose window has closed. Expiry is
// derived from ends_at at read time, so the sweep changes no rows.
type ExpiryService struct {
	sponsorships *repository.SponsorshipRepository
	clock        domain.Clock
	logger       zerolog.Logger
}

func NewExpiryService(sponsorships *repository.SponsorshipRepository, clock domain.Clock, logger zerolog.Logger) *ExpiryService {
	return &ExpiryService{sponsorships: sponsorships, clock: clock, logger: logger}
}

func (s *ExpiryService) Sweep(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	now := s.clock()
	expired, err := s.sponsorships.ExpiredSucceeded(ctx, now)
	if err != nil {
		return 0, err
	}

	for _, e := range expired {
		s.logger.Info().
			Str("sponsorship_id", e.Sponsorship.ID).
			Str("server_id", e.Sponsorship.ServerID).
			Str("server_name", e.ServerName).
			Str("type", string(e.Sponsorship.Type)).
			Time("ended_at", e.Sponsorship.EndsAt).
			Msg("sponsorship expired")
	}

	s.logger.Info().Int("expired", len(expired)).Msg("expiry sweep complete")
	return len(expired), nil
}
