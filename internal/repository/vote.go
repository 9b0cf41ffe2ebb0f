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

type VoteRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewVoteRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *VoteRepository {
	return &VoteRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

// LatestSince returns the newest vote on serverID created strictly after
// since that shares the identity's cooldown key, or nil.
func (r *VoteRepository) LatestSince(ctx context.Context, serverID string, identity domain.Identity, since time.Time) (*domain.Vote, error) {
	return latestSince(ctx, r.queries, serverID, identity, since)
}

func latestSince(ctx context.Context, q *db.Queries, serverID string, identity domain.Identity, since time.Time) (*domain.Vote, error) {
	var (
		row db.Vote
		err error
	)
	if identity.Authenticated() {
		row, err = q.GetLatestVoteByUser(ctx, db.GetLatestVoteByUserParams{
			ServerID:  serverID,
			UserID:    identity.ActorID,
			CreatedAt: utc(since),
		})
	} else {
		row, err = q.GetLatestVoteByIP(ctx, db.GetLatestVoteByIPParams{
			ServerID:  serverID,
			IpAddress: identity.IP,
			CreatedAt: utc(since),
		})
	}
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest vote: %w", err)
	}
	vote := toDomainVote(row)
	return &vote, nil
}

// Cast records vote unless the same cooldown key already voted on the server
// after since. The check, the insert and the counter increment share one
// immediate transaction, so concurrent casts for one key serialize on the
// write lock and at most one of them inserts. When a prior vote blocks the
// cast it is returned and nothing is written.
func (r *VoteRepository) Cast(ctx context.Context, vote *domain.Vote, identity domain.Identity, since time.Time) (*domain.Vote, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)

	blocking, err := latestSince(ctx, qtx, vote.ServerID, identity, since)
	if err != nil {
		return nil, err
	}
	if blocking != nil {
		r.logger.Debug().
			Str("server_id", vote.ServerID).
			Str("cooldown_key", identity.CooldownKey()).
			Time("last_vote_at", blocking.CreatedAt).
			Msg("vote blocked by cooldown")
		return blocking, nil
	}

	err = qtx.CreateVote(ctx, db.CreateVoteParams{
		ID:        vote.ID,
		ServerID:  vote.ServerID,
		UserID:    vote.ActorID,
		IpAddress: vote.IPAddress,
		UserAgent: vote.UserAgent,
		CreatedAt: utc(vote.CreatedAt),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert vote: %w", err)
	}

	n, err := qtx.IncrementServerVotes(ctx, db.IncrementServerVotesParams{
		UpdatedAt: utc(vote.CreatedAt),
		ID:        vote.ServerID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to increment votes: %w", err)
	}
	if n == 0 {
		return nil, domain.NewNotFoundError("server not found")
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit vote: %w", err)
	}
	return nil, nil
}

func (r *VoteRepository) Recent(ctx context.Context, serverID string, limit int) ([]domain.Vote, error) {
	rows, err := r.queries.ListRecentVotes(ctx, db.ListRecentVotesParams{
		ServerID: serverID,
		Limit:    int64(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list recent votes: %w", err)
	}
	votes := make([]domain.Vote, len(rows))
	for i, row := range rows {
		votes[i] = toDomainVote(row)
	}
	return votes, nil
}

func (r *VoteRepository) TimesSince(ctx context.Context, serverID string, since time.Time) ([]time.Time, error) {
	times, err := r.queries.ListVoteTimesSince(ctx, db.ListVoteTimesSinceParams{
		ServerID:  serverID,
		CreatedAt: utc(since),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list vote times: %w", err)
	}
	for i := range times {
		times[i] = times[i].UTC()
	}
	return times, nil
}
