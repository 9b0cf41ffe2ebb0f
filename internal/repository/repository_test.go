package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"
	"hytale-list/internal/database"
	"hytale-list/internal/db"
	"hytale-list/internal/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) (*sql.DB, *db.Queries) {
	t.Helper()
	sqlDB, err := database.Open(filepath.Join(t.TempDir(), "test.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return sqlDB, db.New(sqlDB)
}

func seedServer(t *testing.T, repo *ServerRepository, slug string, status domain.ServerStatus, votes int, createdAt time.Time) *domain.Server {
	t.Helper()
	s := &domain.Server{
		ID:          uuid.NewString(),
		OwnerID:     "owner-1",
		Name:        "Server " + slug,
		Slug:        slug,
		Description: "A friendly Hytale server called " + slug,
		Category:    domain.CategorySurvival,
		Host:        "play." + slug + ".example",
		Port:        5520,
		Status:      domain.ServerPending,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, s))
	if status != domain.ServerPending {
		from := domain.ServerPending
		if status == domain.ServerSuspended {
			_, err := repo.Transition(ctx, s.ID, domain.ServerPending, domain.ServerApproved, createdAt)
			require.NoError(t, err)
			from = domain.ServerApproved
		}
		ok, err := repo.Transition(ctx, s.ID, from, status, createdAt)
		require.NoError(t, err)
		require.True(t, ok)
	}
	if votes > 0 {
		_, err := repo.db.ExecContext(ctx, "UPDATE servers SET total_votes = ? WHERE id = ?", votes, s.ID)
		require.NoError(t, err)
	}
	s.Status = status
	s.TotalVotes = votes
	return s
}

func strPtr(s string) *string { return &s }
