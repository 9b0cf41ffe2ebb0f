package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
	"hytale-list/internal/db"
	"hytale-list/internal/domain"

	sq "github.com/Masterminds/squirrel"
	"github.com/rs/zerolog"
)

type ServerRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewServerRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *ServerRepository {
	return &ServerRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

func (r *ServerRepository) Create(ctx context.Context, s *domain.Server) error {
	err := r.queries.CreateServer(ctx, db.CreateServerParams{
		ID:          s.ID,
		OwnerID:     s.OwnerID,
		Name:        s.Name,
		Slug:        s.Slug,
		Description: s.Description,
		Category:    string(s.Category),
		Host:        s.Host,
		Port:        int64(s.Port),
		Status:      string(s.Status),
		CreatedAt:   utc(s.CreatedAt),
		UpdatedAt:   utc(s.UpdatedAt),
	})
	if isUniqueViolation(err) {
		return domain.NewConflictError("a server with this slug already exists")
	}
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	return nil
}

// Update stores the editable fields of s.
func (r *ServerRepository) Update(ctx context.Context, s *domain.Server) error {
	n, err := r.queries.UpdateServer(ctx, db.UpdateServerParams{
		Name:        s.Name,
		Slug:        s.Slug,
		Description: s.Description,
		Category:    string(s.Category),
		Host:        s.Host,
		Port:        int64(s.Port),
		UpdatedAt:   utc(s.UpdatedAt),
		ID:          s.ID,
	})
	if isUniqueViolation(err) {
		return domain.NewConflictError("a server with this slug already exists")
	}
	if err != nil {
		return fmt.Errorf("failed to update server: %w", err)
	}
	if n == 0 {
		return domain.NewNotFoundError("server not found")
	}
	return nil
}

// Delete removes a server. Its votes, sponsorships and reviews go with it.
func (r *ServerRepository) Delete(ctx context.Context, id string) error {
	n, err := r.queries.DeleteServer(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete server: %w", err)
	}
	if n == 0 {
		return domain.NewNotFoundError("server not found")
	}
	return nil
}

func (r *ServerRepository) Get(ctx context.Context, id string) (*domain.Server, error) {
	row, err := r.queries.GetServer(ctx, id)
	if isNoRows(err) {
		return nil, domain.NewNotFoundError("server not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get server: %w", err)
	}
	server := toDomainServer(row)
	return &server, nil
}

func (r *ServerRepository) GetBySlug(ctx context.Context, slug string) (*domain.Server, error) {
	row, err := r.queries.GetServerBySlug(ctx, slug)
	if isNoRows(err) {
		return nil, domain.NewNotFoundError("server not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get server by slug: %w", err)
	}
	server := toDomainServer(row)
	return &server, nil
}

func (r *ServerRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	exists, err := r.queries.SlugExists(ctx, slug)
	if err != nil {
		return false, fmt.Errorf("failed to check slug: %w", err)
	}
	return exists == 1, nil
}

func (r *ServerRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Server, error) {
	rows, err := r.queries.ListServersByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list owner servers: %w", err)
	}
	result := make([]domain.Server, len(rows))
	for i, row := range rows {
		result[i] = toDomainServer(row)
	}
	return result, nil
}

// List returns approved servers matching filter. Limit and offset are expected
// to be normalized by the caller.
func (r *ServerRepository) List(ctx context.Context, filter domain.ServerFilter) ([]domain.Server, error) {
	q := sq.Select(serverColumns...).
		From("servers").
		Where(sq.Eq{"status": string(domain.ServerApproved)})

	if filter.Category != nil {
		q = q.Where(sq.Eq{"category": string(*filter.Category)})
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + search + "%"
		q = q.Where(sq.Or{
			sq.Like{"name": pattern},
			sq.Like{"description": pattern},
		})
	}

	switch filter.Sort {
	case domain.SortRating:
		q = q.OrderBy("average_rating DESC", "total_reviews DESC", "created_at ASC")
	case domain.SortNew:
		q = q.OrderBy("created_at DESC")
	default:
		q = q.OrderBy("total_votes DESC", "created_at ASC")
	}

	q = q.Limit(uint64(filter.Limit)).Offset(uint64(filter.Offset))

	servers, err := r.query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list servers: %w", err)
	}

	r.logger.Debug().
		Str("search", filter.Search).
		Str("sort", string(filter.Sort)).
		Int("count", len(servers)).
		Msg("listed servers")
	return servers, nil
}

// ListByStatus pages through servers in any status, or only status when it
// is set. The pending queue is oldest first, everything else newest first.
func (r *ServerRepository) ListByStatus(ctx context.Context, status *domain.ServerStatus, limit, offset int) ([]domain.Server, error) {
	q := sq.Select(serverColumns...).From("servers")
	if status != nil {
		q = q.Where(sq.Eq{"status": string(*status)})
	}
	if status != nil && *status == domain.ServerPending {
		q = q.OrderBy("created_at ASC")
	} else {
		q = q.OrderBy("created_at DESC")
	}
	q = q.Limit(uint64(limit)).Offset(uint64(offset))

	servers, err := r.query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list servers by status: %w", err)
	}
	return servers, nil
}

// TopVoted returns approved servers by total votes desc, ties broken by the
// oldest listing, skipping the ids in exclude.
func (r *ServerRepository) TopVoted(ctx context.Context, limit int, exclude []string) ([]domain.Server, error) {
	if limit <= 0 {
		return []domain.Server{}, nil
	}

	q := sq.Select(serverColumns...).
		From("servers").
		Where(sq.Eq{"status": string(domain.ServerApproved)}).
		OrderBy("total_votes DESC", "created_at ASC").
		Limit(uint64(limit))
	if len(exclude) > 0 {
		q = q.Where(sq.NotEq{"id": exclude})
	}

	servers, err := r.query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list top voted servers: %w", err)
	}
	return servers, nil
}

func (r *ServerRepository) query(ctx context.Context, q sq.SelectBuilder) ([]domain.Server, error) {
	rows, err := qQuery(ctx, r.db, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	servers := []domain.Server{}
	for rows.Next() {
		row, err := scanServer(rows)
		if err != nil {
			return nil, err
		}
		servers = append(servers, toDomainServer(row))
	}
	return servers, rows.Err()
}

// Transition moves a server from one status to another. It reports false
// when the server was not in the expected status.
func (r *ServerRepository) Transition(ctx context.Context, id string, from, to domain.ServerStatus, now time.Time) (bool, error) {
	var approvedAt *time.Time
	if to == domain.ServerApproved && from == domain.ServerPending {
		t := utc(now)
		approvedAt = &t
	}

	n, err := r.queries.TransitionServerStatus(ctx, db.TransitionServerStatusParams{
		NewStatus:  string(to),
		ApprovedAt: approvedAt,
		UpdatedAt:  utc(now),
		ID:         id,
		FromStatus: string(from),
	})
	if err != nil {
		return false, fmt.Errorf("failed to transition server: %w", err)
	}

	r.logger.Info().
		Str("server_id", id).
		Str("from", string(from)).
		Str("to", string(to)).
		Bool("applied", n == 1).
		Msg("server status transition")
	return n == 1, nil
}

func (r *ServerRepository) ToggleFeatured(ctx context.Context, id string, now time.Time) (bool, error) {
	featured, err := r.queries.ToggleServerFeatured(ctx, db.ToggleServerFeaturedParams{
		UpdatedAt: utc(now),
		ID:        id,
	})
	if isNoRows(err) {
		return false, domain.NewNotFoundError("server not found")
	}
	if err != nil {
		return false, fmt.Errorf("failed to toggle featured: %w", err)
	}
	return featured, nil
}

// RecountVotes rebuilds total_votes from the vote log.
func (r *ServerRepository) RecountVotes(ctx context.Context, id string, now time.Time) (int, error) {
	total, err := r.queries.RecountServerVotes(ctx, db.RecountServerVotesParams{
		UpdatedAt: utc(now),
		ID:        id,
	})
	if isNoRows(err) {
		return 0, domain.NewNotFoundError("server not found")
	}
	if err != nil {
		return 0, fmt.Errorf("failed to recount votes: %w", err)
	}
	return int(total), nil
}
