package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
	"hytale-list/internal/db"
	"hytale-list/internal/domain"

	sq "github.com/Masterminds/squirrel"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type SponsorshipRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewSponsorshipRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *SponsorshipRepository {
	return &SponsorshipRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

// FeaturedEntry is an active featured sponsorship joined with its server.
type FeaturedEntry struct {
	SponsorshipID string
	SponsoredAt   time.Time
	Server        domain.Server
}

// ExpiredEntry is a paid sponsorship whose window has closed.
type ExpiredEntry struct {
	Sponsorship domain.Sponsorship
	ServerName  string
}

// ActiveType is one (server, type) pair with a window covering now.
type ActiveType struct {
	ServerID string
	Type     domain.SponsorshipType
}

// CreatePending inserts sp as a pending purchase unless a paid sponsorship of
// the same type on the same server covers now. The conflict check and the
// insert share one immediate transaction. A blocking sponsorship is returned
// without writing anything.
func (r *SponsorshipRepository) CreatePending(ctx context.Context, sp *domain.Sponsorship, now time.Time) (*domain.Sponsorship, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)

	existing, err := qtx.FindActiveSponsorship(ctx, db.FindActiveSponsorshipParams{
		ServerID: sp.ServerID,
		Type:     string(sp.Type),
		Now:      utc(now),
	})
	switch {
	case err == nil:
		blocking := toDomainSponsorship(existing)
		return &blocking, nil
	case !isNoRows(err):
		return nil, fmt.Errorf("failed to check active sponsorship: %w", err)
	}

	err = qtx.CreateSponsorship(ctx, db.CreateSponsorshipParams{
		ID:            sp.ID,
		ServerID:      sp.ServerID,
		UserID:        sp.PurchaserID,
		Type:          string(sp.Type),
		Duration:      string(sp.Duration),
		AmountCents:   sp.AmountCents,
		PaymentStatus: string(domain.PaymentPending),
		StartsAt:      utc(sp.StartsAt),
		EndsAt:        utc(sp.EndsAt),
		CreatedAt:     utc(sp.CreatedAt),
		UpdatedAt:     utc(sp.UpdatedAt),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert sponsorship: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit sponsorship: %w", err)
	}
	return nil, nil
}

func (r *SponsorshipRepository) SetCheckout(ctx context.Context, id, checkoutID string, now time.Time) error {
	err := r.queries.SetSponsorshipCheckout(ctx, db.SetSponsorshipCheckoutParams{
		CheckoutID: &checkoutID,
		UpdatedAt:  utc(now),
		ID:         id,
	})
	if err != nil {
		return fmt.Errorf("failed to store checkout id: %w", err)
	}
	return nil
}

func (r *SponsorshipRepository) Get(ctx context.Context, id string) (*domain.Sponsorship, error) {
	row, err := r.queries.GetSponsorship(ctx, id)
	if isNoRows(err) {
		return nil, domain.NewNotFoundError("sponsorship not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sponsorship: %w", err)
	}
	sp := toDomainSponsorship(row)
	return &sp, nil
}

// Confirm marks a sponsorship succeeded. It reports false when the row was
// not in a state that may succeed, or is missing.
func (r *SponsorshipRepository) Confirm(ctx context.Context, id string, settlementRef *string, now time.Time) (bool, error) {
	return r.transition(ctx, id, domain.PaymentSucceeded, map[string]any{"settlement_ref": settlementRef}, now)
}

func (r *SponsorshipRepository) Fail(ctx context.Context, id string, now time.Time) (bool, error) {
	return r.transition(ctx, id, domain.PaymentFailed, nil, now)
}

func (r *SponsorshipRepository) Refund(ctx context.Context, id string, now time.Time) (bool, error) {
	return r.transition(ctx, id, domain.PaymentRefunded, nil, now)
}

// transition moves a row to `to`, guarded on the payment states allowed to
// reach it, so a duplicate or out-of-order event changes nothing.
func (r *SponsorshipRepository) transition(ctx context.Context, id string, to domain.PaymentStatus, set map[string]any, now time.Time) (bool, error) {
	sources := domain.PaymentSources(to)
	from := make([]string, len(sources))
	for i, s := range sources {
		from[i] = string(s)
	}

	q := sq.Update("sponsorships").
		Set("payment_status", string(to)).
		Set("updated_at", utc(now)).
		SetMap(set).
		Where(sq.Eq{"id": id, "payment_status": from})

	n, err := qExec(ctx, r.db, q)
	if err != nil {
		return false, fmt.Errorf("failed to move sponsorship to %s: %w", to, err)
	}
	return n == 1, nil
}

// Overlapping lists other paid sponsorships of the same server and type whose
// window intersects the window of id.
func (r *SponsorshipRepository) Overlapping(ctx context.Context, id string) ([]domain.Sponsorship, error) {
	rows, err := r.queries.ListOverlappingSucceeded(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list overlapping sponsorships: %w", err)
	}
	result := make([]domain.Sponsorship, len(rows))
	for i, row := range rows {
		result[i] = toDomainSponsorship(row)
	}
	return result, nil
}

// ActiveTypes returns the distinct (server, type) pairs active at now for the
// given servers.
func (r *SponsorshipRepository) ActiveTypes(ctx context.Context, serverIDs []string, now time.Time) ([]ActiveType, error) {
	if len(serverIDs) == 0 {
		return []ActiveType{}, nil
	}

	q := sq.Select("DISTINCT server_id", "type").
		From("sponsorships").
		Where(sq.Eq{
			"server_id":      serverIDs,
			"payment_status": string(domain.PaymentSucceeded),
		}).
		Where(sq.LtOrEq{"starts_at": utc(now)}).
		Where(sq.Gt{"ends_at": utc(now)})

	rows, err := qQuery(ctx, r.db, q)
	if err != nil {
		return nil, fmt.Errorf("failed to query active sponsorships: %w", err)
	}
	defer rows.Close()

	result := []ActiveType{}
	for rows.Next() {
		var serverID, sponsorshipType string
		if err := rows.Scan(&serverID, &sponsorshipType); err != nil {
			return nil, fmt.Errorf("failed to scan active sponsorship: %w", err)
		}
		result = append(result, ActiveType{ServerID: serverID, Type: domain.SponsorshipType(sponsorshipType)})
	}
	return result, rows.Err()
}

// ActiveFeatured lists approved servers with a featured window covering now,
// newest purchase first. A server with several overlapping purchases appears
// once per purchase.
func (r *SponsorshipRepository) ActiveFeatured(ctx context.Context, now time.Time) ([]FeaturedEntry, error) {
	rows, err := r.queries.ListActiveFeatured(ctx, utc(now))
	if err != nil {
		return nil, fmt.Errorf("failed to list featured sponsorships: %w", err)
	}
	entries := make([]FeaturedEntry, len(rows))
	for i, row := range rows {
		entries[i] = FeaturedEntry{
			SponsorshipID: row.SponsorshipID,
			SponsoredAt:   row.SponsoredAt.UTC(),
			Server:        toDomainServer(row.Server),
		}
	}
	return entries, nil
}

func (r *SponsorshipRepository) ExpiredSucceeded(ctx context.Context, now time.Time) ([]ExpiredEntry, error) {
	rows, err := r.queries.ListExpiredSucceeded(ctx, utc(now))
	if err != nil {
		return nil, fmt.Errorf("failed to list expired sponsorships: %w", err)
	}
	entries := make([]ExpiredEntry, len(rows))
	for i, row := range rows {
		entries[i] = ExpiredEntry{
			Sponsorship: toDomainSponsorship(row.Sponsorship),
			ServerName:  row.ServerName,
		}
	}
	return entries, nil
}

func (r *SponsorshipRepository) ListByServer(ctx context.Context, serverID string) ([]domain.Sponsorship, error) {
	rows, err := r.queries.ListSponsorshipsByServer(ctx, serverID)
	if err != nil {
		return nil, fmt.Errorf("failed to list server sponsorships: %w", err)
	}
	result := make([]domain.Sponsorship, len(rows))
	for i, row := range rows {
		result[i] = toDomainSponsorship(row)
	}
	return result, nil
}

func (r *SponsorshipRepository) ListByUser(ctx context.Context, userID string) ([]domain.Sponsorship, error) {
	rows, err := r.queries.ListSponsorshipsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user sponsorships: %w", err)
	}
	result := make([]domain.Sponsorship, len(rows))
	for i, row := range rows {
		result[i] = toDomainSponsorship(row)
	}
	return result, nil
}

func (r *SponsorshipRepository) Stats(ctx context.Context, now time.Time) (*domain.SponsorshipStats, error) {
	stats := &domain.SponsorshipStats{
		ByStatus: map[domain.PaymentStatus]int{},
		ByType:   map[domain.SponsorshipType]int{},
	}

	var (
		byStatus []db.CountSponsorshipsByStatusRow
		byType   []db.CountSponsorshipsByTypeRow
		active   int64
		revenue  int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		byStatus, err = r.queries.CountSponsorshipsByStatus(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		byType, err = r.queries.CountSponsorshipsByType(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		active, err = r.queries.CountActiveSponsorships(gctx, utc(now))
		return err
	})
	g.Go(func() error {
		var err error
		revenue, err = r.queries.SumSucceededRevenue(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load sponsorship stats: %w", err)
	}

	for _, row := range byStatus {
		stats.ByStatus[domain.PaymentStatus(row.PaymentStatus)] = int(row.Count)
	}
	for _, row := range byType {
		stats.ByType[domain.SponsorshipType(row.Type)] = int(row.Count)
	}
	stats.ActiveCount = int(active)
	stats.RevenueCents = revenue
	return stats, nil
}
