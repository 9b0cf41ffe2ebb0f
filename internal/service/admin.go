package service

import (
	"context"
	"fmt"
	"hytale-list/internal/constants"
	"hytale-list/internal/domain"
	"hytale-list/internal/repository"

	"github.com/rs/zerolog"
)

type AdminService struct {
	servers      *repository.ServerRepository
	sponsorships *repository.SponsorshipRepository
	reconciler   *ReconcilerService
	clock        domain.Clock
	logger       zerolog.Logger
}

func NewAdminService(
	servers *repository.ServerRepository,
	sponsorships *repository.SponsorshipRepository,
	reconciler *ReconcilerService,
	clock domain.Clock,
	logger zerolog.Logger,
) *AdminService {
	return &AdminService{
		servers:      servers,
		sponsorships: sponsorships,
		reconciler:   reconciler,
		clock:        clock,
		logger:       logger,
	}
}

func requireAdmin(viewer domain.Identity) error {
	if !viewer.Authenticated() {
		return domain.NewUnauthenticatedError()
	}
	if !viewer.IsAdmin() {
		return domain.NewUnauthorizedError("admin access required")
	}
	return nil
}

// ListServers pages through listings for moderation. An empty status lists
// every listing; "pending" is the review queue, oldest first.
func (s *AdminService) ListServers(ctx context.Context, viewer domain.Identity, status string, limit, offset int) ([]domain.Server, error) {
	if err := requireAdmin(viewer); err != nil {
		return nil, err
	}

	if limit == 0 {
		limit = constants.DefaultAdminListLimit
	}
	if limit < 1 || limit > constants.MaxListLimit {
		return nil, domain.NewValidationError(fmt.Sprintf("limit must be between 1 and %d", constants.MaxListLimit))
	}
	if offset < 0 {
		return nil, domain.NewValidationError("offset must not be negative")
	}

	var filter *domain.ServerStatus
	if status != "" {
		st, err := domain.ParseServerStatus(status)
		if err != nil {
			return nil, err
		}
		filter = &st
	}

	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	return s.servers.ListByStatus(ctx, filter, limit, offset)
}

func (s *AdminService) ApproveServer(ctx context.Context, serverID string, viewer domain.Identity) (*domain.Server, error) {
	return s.transition(ctx, serverID, viewer, domain.ServerApproved)
}

func (s *AdminService) RejectServer(ctx context.Context, serverID string, viewer domain.Identity) (*domain.Server, error) {
	return s.transition(ctx, serverID, viewer, domain.ServerRejected)
}

func (s *AdminService) SuspendServer(ctx context.Context, serverID string, viewer domain.Identity) (*domain.Server, error) {
	return s.transition(ctx, serverID, viewer, domain.ServerSuspended)
}

func (s *AdminService) UnsuspendServer(ctx context.Context, serverID string, viewer domain.Identity) (*domain.Server, error) {
	return s.transition(ctx, serverID, viewer, domain.ServerApproved)
}

func (s *AdminService) transition(ctx context.Context, serverID string, viewer domain.Identity, to domain.ServerStatus) (*domain.Server, error) {
	if err := requireAdmin(viewer); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	server, err := s.servers.Get(ctx, serverID)
	if err != nil {
		return nil, err
	}
	from := server.Status
	if !from.CanTransitionTo(to) {
		return nil, domain.NewConflictError(fmt.Sprintf("cannot move a %s server to %s", from, to))
	}

	applied, err := s.servers.Transition(ctx, serverID, from, to, s.clock())
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, domain.NewConflictError("server status changed concurrently, reload and retry")
	}

	s.logger.Info().
		Str("server_id", serverID).
		Str("from", string(from)).
		Str("to", string(to)).
		Str("admin_id", viewer.Actor()).
		Msg("server status changed")

	return s.servers.Get(ctx, serverID)
}

// ToggleFeatured flips the legacy editorial flag. It has no effect on paid
// sponsorships.
func (s *AdminService) ToggleFeatured(ctx context.Context, serverID string, viewer domain.Identity) (bool, error) {
	if err := requireAdmin(viewer); err != nil {
		return false, err
	}

	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	featured, err := s.servers.ToggleFeatured(ctx, serverID, s.clock())
	if err != nil {
		return false, err
	}
	s.logger.Info().Str("server_id", serverID).Bool("featured", featured).Msg("featured flag toggled")
	return featured, nil
}

// RecountVotes rebuilds a server's vote counter from the vote rows.
func (s *AdminService) RecountVotes(ctx context.Context, serverID string, viewer domain.Identity) (int, error) {
	if err := requireAdmin(viewer); err != nil {
		return 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	total, err := s.servers.RecountVotes(ctx, serverID, s.clock())
	if err != nil {
		return 0, err
	}
	s.logger.Info().Str("server_id", serverID).Int("total_votes", total).Msg("votes recounted")
	return total, nil
}

func (s *AdminService) RefundSponsorship(ctx context.Context, sponsorshipID string, viewer domain.Identity) error {
	if err := requireAdmin(viewer); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	sp, err := s.sponsorships.Get(ctx, sponsorshipID)
	if err != nil {
		return err
	}
	switch sp.PaymentStatus {
	case domain.PaymentRefunded:
		return domain.NewConflictError("Sponsorship already refunded")
	case domain.PaymentSucceeded:
	default:
		return domain.NewValidationError("Can only refund succeeded payments")
	}

	applied, err := s.reconciler.Refund(ctx, sponsorshipID)
	if err != nil {
		return err
	}
	if !applied {
		return domain.NewConflictError("Sponsorship already refunded")
	}

	s.logger.Info().
		Str("sponsorship_id", sponsorshipID).
		Str("admin_id", viewer.Actor()).
		Int64("amount_cents", sp.AmountCents).
		Msg("sponsorship refunded")
	return nil
}

func (s *AdminService) SponsorshipStats(ctx context.Context, viewer domain.Identity) (*domain.SponsorshipStats, error) {
	if err := requireAdmin(viewer); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	return s.sponsorships.Stats(ctx, s.clock())
}
