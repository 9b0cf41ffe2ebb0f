package service

import (
	"context"
	"fmt"
	"time"
	"hytale-list/internal/constants"
	"hytale-list/internal/domain"
	"hytale-list/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type VoteService struct {
	servers *repository.ServerRepository
	votes   *repository.VoteRepository
	captcha CaptchaVerifier
	clock   domain.Clock
	logger  zerolog.Logger
}

func NewVoteService(
	servers *repository.ServerRepository,
	votes *repository.VoteRepository,
	captcha CaptchaVerifier,
	clock domain.Clock,
	logger zerolog.Logger,
) *VoteService {
	return &VoteService{servers: servers, votes: votes, captcha: captcha, clock: clock, logger: logger}
}

// CheckEligibility reports whether identity may vote for serverID now and,
// if not, when it may.
func (s *VoteService) CheckEligibility(ctx context.Context, serverID string, identity domain.Identity) (domain.Eligibility, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	now := s.clock()
	latest, err := s.votes.LatestSince(ctx, serverID, identity, now.Add(-constants.VoteCooldown))
	if err != nil {
		return domain.Eligibility{}, fmt.Errorf("failed to check eligibility: %w", err)
	}
	return eligibilityFrom(latest, now), nil
}

func eligibilityFrom(latest *domain.Vote, now time.Time) domain.Eligibility {
	if latest == nil {
		return domain.Eligibility{CanVote: true}
	}
	next := latest.CreatedAt.Add(constants.VoteCooldown)
	return domain.Eligibility{
		CanVote:        false,
		NextEligibleAt: &next,
		HoursRemaining: domain.HoursUntil(next, now),
	}
}

// CastVote verifies the CAPTCHA, then records one vote and bumps the
// server's counter unless the identity is still cooling down.
func (s *VoteService) CastVote(ctx context.Context, serverID string, identity domain.Identity, captchaToken string) (*domain.Vote, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	logger := s.logger.With().
		Str("server_id", serverID).
		Str("cooldown_key", identity.CooldownKey()).
		Logger()

	if captchaToken == "" {
		return nil, domain.NewValidationError("CAPTCHA verification required")
	}

	captchaCtx, captchaCancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	ok, err := s.captcha.Check(captchaCtx, captchaToken, identity.IP)
	captchaCancel()
	if err != nil {
		logger.Warn().Err(err).Msg("captcha provider unavailable, rejecting vote")
		return nil, domain.NewExternalError("CAPTCHA verification is unavailable. Please try again", err)
	}
	if !ok {
		logger.Info().Msg("captcha rejected")
		return nil, domain.NewValidationError("Invalid CAPTCHA. Please try again")
	}

	server, err := s.servers.Get(ctx, serverID)
	if err != nil {
		return nil, err
	}
	if server.Status != domain.ServerApproved {
		return nil, domain.NewNotFoundError("server not found")
	}

	now := s.clock()
	vote := &domain.Vote{
		ID:        uuid.NewString(),
		ServerID:  serverID,
		ActorID:   identity.ActorID,
		IPAddress: identity.IP,
		UserAgent: identity.UserAgent,
		CreatedAt: now,
	}
	if vote.UserAgent == "" {
		vote.UserAgent = "unknown"
	}

	blocking, err := s.votes.Cast(ctx, vote, identity, now.Add(-constants.VoteCooldown))
	if err != nil {
		logger.Error().Err(err).Msg("failed to record vote")
		return nil, err
	}
	if blocking != nil {
		next := blocking.CreatedAt.Add(constants.VoteCooldown)
		logger.Info().Time("next_eligible_at", next).Msg("vote rejected by cooldown")
		return nil, domain.NewCooldownError(next, now)
	}

	logger.Info().Str("vote_id", vote.ID).Msg("vote recorded")
	return vote, nil
}

// RecentVotes lists the latest votes on a server for its owner or an admin.
func (s *VoteService) RecentVotes(ctx context.Context, serverID string, viewer domain.Identity, limit int) ([]domain.Vote, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if _, err := s.ownedServer(ctx, serverID, viewer); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = constants.RecentVotesLimit
	}
	if limit > constants.MaxRecentVotesLimit {
		limit = constants.MaxRecentVotesLimit
	}
	return s.votes.Recent(ctx, serverID, limit)
}

// VoteTrends counts votes per UTC day over the last days days, oldest first,
// including days without votes.
func (s *VoteService) VoteTrends(ctx context.Context, serverID string, viewer domain.Identity, days int) ([]domain.DailyCount, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if _, err := s.ownedServer(ctx, serverID, viewer); err != nil {
		return nil, err
	}
	if days <= 0 {
		days = constants.DefaultTrendDays
	}
	if days > constants.MaxTrendDays {
		return nil, domain.NewValidationError(fmt.Sprintf("trends cover at most %d days", constants.MaxTrendDays))
	}

	now := s.clock().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	start := today.AddDate(0, 0, -(days - 1))

	times, err := s.votes.TimesSince(ctx, serverID, start)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, days)
	for _, t := range times {
		counts[t.UTC().Format(time.DateOnly)]++
	}

	trend := make([]domain.DailyCount, days)
	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i).Format(time.DateOnly)
		trend[i] = domain.DailyCount{Date: day, Count: counts[day]}
	}
	return trend, nil
}

func (s *VoteService) ownedServer(ctx context.Context, serverID string, viewer domain.Identity) (*domain.Server, error) {
	return requireOwnedServer(ctx, s.servers, serverID, viewer)
}

// requireOwnedServer loads a server the viewer owns or administers.
func requireOwnedServer(ctx context.Context, servers *repository.ServerRepository, serverID string, viewer domain.Identity) (*domain.Server, error) {
	if !viewer.Authenticated() {
		return nil, domain.NewUnauthenticatedError()
	}
	server, err := servers.Get(ctx, serverID)
	if err != nil {
		return nil, err
	}
	if server.OwnerID != viewer.Actor() && !viewer.IsAdmin() {
		return nil, domain.NewUnauthorizedError("you do not own this server")
	}
	return server, nil
}
