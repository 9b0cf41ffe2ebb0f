package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
	"hytale-list/internal/db"
	"hytale-list/internal/domain"

	sq "github.com/Masterminds/squirrel"
	"github.com/mattn/go-sqlite3"
)

var serverColumns = []string{
	"id", "owner_id", "name", "slug", "description", "category", "host", "port", "status",
	"total_votes", "average_rating", "total_reviews", "featured", "created_at", "updated_at", "approved_at",
}

// all persisted times are UTC so stored text compares in chronological order
func utc(t time.Time) time.Time {
	return t.UTC()
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanServer(row rowScanner) (db.Server, error) {
	var s db.Server
	err := row.Scan(
		&s.ID,
		&s.OwnerID,
		&s.Name,
		&s.Slug,
		&s.Description,
		&s.Category,
		&s.Host,
		&s.Port,
		&s.Status,
		&s.TotalVotes,
		&s.AverageRating,
		&s.TotalReviews,
		&s.Featured,
		&s.CreatedAt,
		&s.UpdatedAt,
		&s.ApprovedAt,
	)
	return s, err
}

func toDomainServer(s db.Server) domain.Server {
	var approvedAt *time.Time
	if s.ApprovedAt != nil {
		t := s.ApprovedAt.UTC()
		approvedAt = &t
	}
	return domain.Server{
		ID:            s.ID,
		OwnerID:       s.OwnerID,
		Name:          s.Name,
		Slug:          s.Slug,
		Description:   s.Description,
		Category:      domain.Category(s.Category),
		Host:          s.Host,
		Port:          int(s.Port),
		Status:        domain.ServerStatus(s.Status),
		TotalVotes:    int(s.TotalVotes),
		AverageRating: s.AverageRating,
		TotalReviews:  int(s.TotalReviews),
		Featured:      s.Featured,
		CreatedAt:     s.CreatedAt.UTC(),
		UpdatedAt:     s.UpdatedAt.UTC(),
		ApprovedAt:    approvedAt,
	}
}

func toDomainVote(v db.Vote) domain.Vote {
	return domain.Vote{
		ID:        v.ID,
		ServerID:  v.ServerID,
		ActorID:   v.UserID,
		IPAddress: v.IpAddress,
		UserAgent: v.UserAgent,
		CreatedAt: v.CreatedAt.UTC(),
	}
}

func toDomainSponsorship(s db.Sponsorship) domain.Sponsorship {
	return domain.Sponsorship{
		ID:            s.ID,
		ServerID:      s.ServerID,
		PurchaserID:   s.UserID,
		Type:          domain.SponsorshipType(s.Type),
		Duration:      domain.Duration(s.Duration),
		AmountCents:   s.AmountCents,
		CheckoutID:    s.CheckoutID,
		SettlementRef: s.SettlementRef,
		PaymentStatus: domain.PaymentStatus(s.PaymentStatus),
		StartsAt:      s.StartsAt.UTC(),
		EndsAt:        s.EndsAt.UTC(),
		CreatedAt:     s.CreatedAt.UTC(),
		UpdatedAt:     s.UpdatedAt.UTC(),
	}
}

func toDomainReview(r db.Review) domain.Review {
	return domain.Review{
		ID:        r.ID,
		ServerID:  r.ServerID,
		ActorID:   r.UserID,
		Rating:    int(r.Rating),
		Content:   r.Content,
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}

func qQuery(ctx context.Context, conn db.DBTX, q sq.SelectBuilder) (*sql.Rows, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}
	return conn.QueryContext(ctx, query, args...)
}

func qExec(ctx context.Context, conn db.DBTX, q sq.UpdateBuilder) (int64, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build statement: %w", err)
	}
	res, err := conn.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
