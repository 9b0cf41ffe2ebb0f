package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
	"hytale-list/internal/db"
	"hytale-list/internal/domain"

	"github.com/rs/zerolog"
)

type ReviewRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewReviewRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *ReviewRepository {
	return &ReviewRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

// Create inserts the review and recomputes the server's rating aggregates in
// the same transaction.
func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	return r.mutate(ctx, review.ServerID, review.CreatedAt, func(qtx *db.Queries) error {
		err := qtx.CreateReview(ctx, db.CreateReviewParams{
			ID:        review.ID,
			ServerID:  review.ServerID,
			UserID:    review.ActorID,
			Rating:    int64(review.Rating),
			Content:   review.Content,
			CreatedAt: utc(review.CreatedAt),
			UpdatedAt: utc(review.UpdatedAt),
		})
		if isUniqueViolation(err) {
			return domain.NewConflictError("you have already reviewed this server")
		}
		return err
	})
}

func (r *ReviewRepository) Update(ctx context.Context, review *domain.Review) error {
	return r.mutate(ctx, review.ServerID, review.UpdatedAt, func(qtx *db.Queries) error {
		return qtx.UpdateReview(ctx, db.UpdateReviewParams{
			Rating:    int64(review.Rating),
			Content:   review.Content,
			UpdatedAt: utc(review.UpdatedAt),
			ID:        review.ID,
		})
	})
}

func (r *ReviewRepository) Delete(ctx context.Context, review *domain.Review, now time.Time) error {
	return r.mutate(ctx, review.ServerID, now, func(qtx *db.Queries) error {
		return qtx.DeleteReview(ctx, review.ID)
	})
}

func (r *ReviewRepository) mutate(ctx context.Context, serverID string, now time.Time, fn func(qtx *db.Queries) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)
	if err := fn(qtx); err != nil {
		if _, ok := domain.KindOf(err); ok {
			return err
		}
		return fmt.Errorf("failed to write review: %w", err)
	}

	err = qtx.RefreshServerRating(ctx, db.RefreshServerRatingParams{
		UpdatedAt: utc(now),
		ID:        serverID,
	})
	if err != nil {
		return fmt.Errorf("failed to refresh server rating: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit review: %w", err)
	}

	r.logger.Debug().Str("server_id", serverID).Msg("server rating refreshed")
	return nil
}

func (r *ReviewRepository) Get(ctx context.Context, id string) (*domain.Review, error) {
	row, err := r.queries.GetReview(ctx, id)
	if isNoRows(err) {
		return nil, domain.NewNotFoundError("review not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	review := toDomainReview(row)
	return &review, nil
}

func (r *ReviewRepository) ListByServer(ctx context.Context, serverID string, limit int) ([]domain.Review, error) {
	rows, err := r.queries.ListReviewsByServer(ctx, db.ListReviewsByServerParams{
		ServerID: serverID,
		Limit:    int64(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	reviews := make([]domain.Review, len(rows))
	for i, row := range rows {
		reviews[i] = toDomainReview(row)
	}
	return reviews, nil
}
