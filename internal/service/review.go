package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"
	"hytale-list/internal/constants"
	"hytale-list/internal/domain"
	"hytale-list/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	minReviewLength = 20
	maxReviewLength = 2000
)

type ReviewService struct {
	servers *repository.ServerRepository
	reviews *repository.ReviewRepository
	clock   domain.Clock
	logger  zerolog.Logger
}

func NewReviewService(
	servers *repository.ServerRepository,
	reviews *repository.ReviewRepository,
	clock domain.Clock,
	logger zerolog.Logger,
) *ReviewService {
	return &ReviewService{servers: servers, reviews: reviews, clock: clock, logger: logger}
}

func validateReview(rating int, content string) (string, error) {
	if rating < 1 || rating > 5 {
		return "", domain.NewValidationError("Rating must be between 1 and 5")
	}
	content = strings.TrimSpace(content)
	n := utf8.RuneCountInString(content)
	if n < minReviewLength {
		return "", domain.NewValidationError(fmt.Sprintf("Review must be at least %d characters", minReviewLength))
	}
	if n > maxReviewLength {
		return "", domain.NewValidationError("Review too long")
	}
	if inappropriate(content) {
		return "", domain.NewValidationError("Review contains inappropriate language")
	}
	return content, nil
}

func (s *ReviewService) CreateReview(ctx context.Context, serverID string, author domain.Identity, rating int, content string) (*domain.Review, error) {
	if !author.Authenticated() {
		return nil, domain.NewUnauthenticatedError()
	}
	content, err := validateReview(rating, content)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	server, err := s.servers.Get(ctx, serverID)
	if err != nil {
		return nil, err
	}
	if server.Status != domain.ServerApproved {
		return nil, domain.NewNotFoundError("server not found")
	}

	now := s.clock()
	review := &domain.Review{
		ID:        uuid.NewString(),
		ServerID:  serverID,
		ActorID:   author.Actor(),
		Rating:    rating,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}

	s.logger.Info().Str("server_id", serverID).Str("review_id", review.ID).Int("rating", rating).Msg("review created")
	return review, nil
}

// UpdateReview lets the author change rating and text.
func (s *ReviewService) UpdateReview(ctx context.Context, reviewID string, author domain.Identity, rating int, content string) (*domain.Review, error) {
	if !author.Authenticated() {
		return nil, domain.NewUnauthenticatedError()
	}
	content, err := validateReview(rating, content)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	review, err := s.reviews.Get(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review.ActorID != author.Actor() {
		return nil, domain.NewUnauthorizedError("you can only edit your own review")
	}

	review.Rating = rating
	review.Content = content
	review.UpdatedAt = s.clock()
	if err := s.reviews.Update(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// DeleteReview removes a review for its author or an admin.
func (s *ReviewService) DeleteReview(ctx context.Context, reviewID string, viewer domain.Identity) error {
	if !viewer.Authenticated() {
		return domain.NewUnauthenticatedError()
	}

	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	review, err := s.reviews.Get(ctx, reviewID)
	if err != nil {
		return err
	}
	if review.ActorID != viewer.Actor() && !viewer.IsAdmin() {
		return domain.NewUnauthorizedError("you can only delete your own review")
	}
	if err := s.reviews.Delete(ctx, review, s.clock()); err != nil {
		return err
	}

	s.logger.Info().Str("review_id", reviewID).Str("server_id", review.ServerID).Bool("by_admin", review.ActorID != viewer.Actor()).Msg("review deleted")
	return nil
}

func (s *ReviewService) ListReviews(ctx context.Context, serverID string, limit int) ([]domain.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if limit <= 0 || limit > constants.MaxListLimit {
		limit = constants.DefaultReviewLimit
	}
	return s.reviews.ListByServer(ctx, serverID, limit)
}
