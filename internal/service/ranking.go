package service

import (
	"context"
	"fmt"
	"time"
	"hytale-list/internal/constants"
	"hytale-list/internal/domain"
	"hytale-list/internal/repository"

	"github.com/rs/zerolog"
)

// RankingService resolves which sponsorships are in effect at a point in
// time. Nothing here writes; activity is always derived from timestamps.
type RankingService struct {
	servers      *repository.ServerRepository
	sponsorships *repository.SponsorshipRepository
	logger       zerolog.Logger
}

func NewRankingService(
	servers *repository.ServerRepository,
	sponsorships *repository.SponsorshipRepository,
	logger zerolog.Logger,
) *RankingService {
	return &RankingService{servers: servers, sponsorships: sponsorships, logger: logger}
}

// ActiveSponsorshipsFor folds active sponsorships into one ActiveSet per
// requested server. Every requested id is present in the result.
func (s *RankingService) ActiveSponsorshipsFor(ctx context.Context, serverIDs []string, now time.Time) (map[string]domain.ActiveSet, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	result := make(map[string]domain.ActiveSet, len(serverIDs))
	for _, id := range serverIDs {
		result[id] = domain.ActiveSet{}
	}

	ids := make([]string, 0, len(result))
	for id := range result {
		ids = append(ids, id)
	}

	for start := 0; start < len(ids); start += constants.MaxActiveLookupBatch {
		end := min(start+constants.MaxActiveLookupBatch, len(ids))

		active, err := s.sponsorships.ActiveTypes(ctx, ids[start:end], now)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve active sponsorships: %w", err)
		}
		for _, a := range active {
			set := result[a.ServerID]
			set.Set(a.Type)
			result[a.ServerID] = set
		}
	}
	return result, nil
}

// FeaturedSlate is the homepage ranking: servers with an active featured
// sponsorship, newest purchase first, then approved servers by votes to fill
// the remaining slots.
func (s *RankingService) FeaturedSlate(ctx context.Context, limit int, now time.Time) ([]domain.Server, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if limit <= 0 {
		return []domain.Server{}, nil
	}

	entries, err := s.sponsorships.ActiveFeatured(ctx, now)
	if err != nil {
		return nil, err
	}

	slate := make([]domain.Server, 0, limit)
	seen := make(map[string]bool, limit)
	for _, e := range entries {
		if len(slate) == limit {
			break
		}
		if seen[e.Server.ID] {
			continue
		}
		seen[e.Server.ID] = true
		slate = append(slate, e.Server)
	}
	paid := len(slate)

	if remaining := limit - len(slate); remaining > 0 {
		exclude := make([]string, 0, len(seen))
		for id := range seen {
			exclude = append(exclude, id)
		}
		organic, err := s.servers.TopVoted(ctx, remaining, exclude)
		if err != nil {
			return nil, err
		}
		slate = append(slate, organic...)
	}

	s.logger.Debug().
		Int("limit", limit).
		Int("sponsored", paid).
		Int("organic", len(slate)-paid).
		Msg("featured slate resolved")
	return slate, nil
}
