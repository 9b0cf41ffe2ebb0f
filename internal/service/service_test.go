package service

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"
	"hytale-list/internal/api"
	"hytale-list/internal/catalog"
	"hytale-list/internal/config"
	"hytale-list/internal/database"
	"hytale-list/internal/db"
	"hytale-list/internal/domain"
	"hytale-list/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeCaptcha struct {
	reject bool
	err    error
	calls  atomic.Int32
}

func (f *fakeCaptcha) Check(ctx context.Context, token, remoteIP string) (bool, error) {
	f.calls.Add(1)
	if f.err != nil {
		return false, f.err
	}
	return !f.reject, nil
}

type fakeCheckout struct {
	mu       sync.Mutex
	err      error
	requests []api.CheckoutRequest
}

func (f *fakeCheckout) CreateCheckout(ctx context.Context, in api.CheckoutRequest) (*api.Checkout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, in)
	if f.err != nil {
		return nil, f.err
	}
	id := "chk_" + in.Metadata["sponsorshipId"]
	return &api.Checkout{ID: id, URL: "https://checkout.test/" + id, Status: "open"}, nil
}

func (f *fakeCheckout) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

var errProviderDown = errors.New("provider down")

type harness struct {
	db       *sql.DB
	now      time.Time
	captcha  *fakeCaptcha
	checkout *fakeCheckout

	servers      *repository.ServerRepository
	sponsorships *repository.SponsorshipRepository

	votes      *VoteService
	purchases  *SponsorshipService
	ranking    *RankingService
	reconciler *ReconcilerService
	listing    *ServerService
	reviews    *ReviewService
	admin      *AdminService
	expiry     *ExpiryService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	sqlDB, err := database.Open(filepath.Join(t.TempDir(), "test.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	h := &harness{
		db:       sqlDB,
		now:      baseTime,
		captcha:  &fakeCaptcha{},
		checkout: &fakeCheckout{},
	}
	clock := func() time.Time { return h.now }
	logger := zerolog.Nop()
	queries := db.New(sqlDB)

	cfg := &config.Config{
		AppURL: "https://hytale.test",
		PolarPriceIDs: map[string]string{
			"featured/daily":   "price_fd",
			"featured/weekly":  "price_fw",
			"featured/monthly": "price_fm",
			"premium/daily":    "price_pd",
			"premium/weekly":   "price_pw",
			"premium/monthly":  "price_pm",
			"bump/1h":          "price_b1",
		},
	}

	h.servers = repository.NewServerRepository(sqlDB, queries, logger)
	h.sponsorships = repository.NewSponsorshipRepository(sqlDB, queries, logger)
	voteRepo := repository.NewVoteRepository(sqlDB, queries, logger)
	reviewRepo := repository.NewReviewRepository(sqlDB, queries, logger)

	h.votes = NewVoteService(h.servers, voteRepo, h.captcha, clock, logger)
	h.purchases = NewSponsorshipService(h.servers, h.sponsorships, catalog.New(cfg), h.checkout, cfg, clock, logger)
	h.ranking = NewRankingService(h.servers, h.sponsorships, logger)
	h.reconciler = NewReconcilerService(h.sponsorships, clock, logger)
	h.listing = NewServerService(h.servers, reviewRepo, h.ranking, h.votes, clock, logger)
	h.reviews = NewReviewService(h.servers, reviewRepo, clock, logger)
	h.admin = NewAdminService(h.servers, h.sponsorships, h.reconciler, clock, logger)
	h.expiry = NewExpiryService(h.sponsorships, clock, logger)
	return h
}

func (h *harness) advance(d time.Duration) {
	h.now = h.now.Add(d)
}

// seedServer inserts an approved server owned by ownerID with the given
// vote counter.
func (h *harness) seedServer(t *testing.T, slug, ownerID string, votes int) *domain.Server {
	t.Helper()
	ctx := context.Background()
	s := &domain.Server{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Name:        "Server " + slug,
		Slug:        slug,
		Description: "A friendly Hytale server called " + slug,
		Category:    domain.CategorySurvival,
		Host:        "play." + slug + ".example",
		Port:        5520,
		Status:      domain.ServerPending,
		CreatedAt:   h.now,
		UpdatedAt:   h.now,
	}
	require.NoError(t, h.servers.Create(ctx, s))
	ok, err := h.servers.Transition(ctx, s.ID, domain.ServerPending, domain.ServerApproved, h.now)
	require.NoError(t, err)
	require.True(t, ok)
	if votes > 0 {
		_, err := h.db.ExecContext(ctx, "UPDATE servers SET total_votes = ? WHERE id = ?", votes, s.ID)
		require.NoError(t, err)
	}
	s.Status = domain.ServerApproved
	s.TotalVotes = votes
	return s
}

// buy purchases and confirms a sponsorship at the current time.
func (h *harness) buy(t *testing.T, server *domain.Server, st domain.SponsorshipType, d domain.Duration) string {
	t.Helper()
	res, err := h.purchases.Purchase(context.Background(), server.ID, user(server.OwnerID), st, d)
	require.NoError(t, err)
	applied, err := h.reconciler.Confirm(context.Background(), res.SponsorshipID, nil)
	require.NoError(t, err)
	require.True(t, applied)
	return res.SponsorshipID
}

func user(id string) domain.Identity {
	return domain.Identity{ActorID: &id, Role: domain.RolePlayer, Email: id + "@example.com", IP: "10.0.0.1", UserAgent: "test"}
}

func admin() domain.Identity {
	id := "admin-1"
	return domain.Identity{ActorID: &id, Role: domain.RoleAdmin, IP: "10.0.0.9"}
}

func anonymous(ip string) domain.Identity {
	return domain.Identity{Role: domain.RolePlayer, IP: ip}
}
