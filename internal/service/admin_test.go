package service

import (
	"context"
	"testing"
	"time"
	"hytale-list/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminServerLifecycle(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	created, err := h.listing.CreateServer(ctx, user("owner-1"), CreateServerInput{
		Name:        "Orbis Realms",
		Description: "Survival with custom quests and towns",
		Category:    "survival",
		Host:        "play.orbis.example",
	})
	require.NoError(t, err)

	_, err = h.admin.ApproveServer(ctx, created.ID, user("owner-1"))
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = h.admin.ApproveServer(ctx, created.ID, anonymous("1.1.1.1"))
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = h.admin.SuspendServer(ctx, created.ID, admin())
	assert.ErrorIs(t, err, domain.ErrConflict, "pending servers cannot be suspended")

	h.advance(time.Hour)
	approved, err := h.admin.ApproveServer(ctx, created.ID, admin())
	require.NoError(t, err)
	assert.Equal(t, domain.ServerApproved, approved.Status)
	require.NotNil(t, approved.ApprovedAt)
	assert.True(t, approved.ApprovedAt.Equal(h.now))

	_, err = h.admin.ApproveServer(ctx, created.ID, admin())
	assert.ErrorIs(t, err, domain.ErrConflict)

	suspended, err := h.admin.SuspendServer(ctx, created.ID, admin())
	require.NoError(t, err)
	assert.Equal(t, domain.ServerSuspended, suspended.Status)

	_, err = h.listing.GetServerBySlug(ctx, created.Slug)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	restored, err := h.admin.UnsuspendServer(ctx, created.ID, admin())
	require.NoError(t, err)
	assert.Equal(t, domain.ServerApproved, restored.Status)

	_, err = h.admin.RejectServer(ctx, created.ID, admin())
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = h.admin.ApproveServer(ctx, "missing", admin())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAdminToggleFeaturedAndRecount(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	server := h.seedServer(t, "alpha", "owner-1", 99)

	_, err := h.votes.CastVote(ctx, server.ID, user("p1"), "token")
	require.NoError(t, err)

	featured, err := h.admin.ToggleFeatured(ctx, server.ID, admin())
	require.NoError(t, err)
	assert.True(t, featured)
	featured, err = h.admin.ToggleFeatured(ctx, server.ID, admin())
	require.NoError(t, err)
	assert.False(t, featured)

	total, err := h.admin.RecountVotes(ctx, server.ID, admin())
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	_, err = h.admin.RecountVotes(ctx, server.ID, user("owner-1"))
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAdminRefundSponsorship(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	server := h.seedServer(t, "alpha", "owner-1", 0)

	res, err := h.purchases.Purchase(ctx, server.ID, user("owner-1"), domain.SponsorshipPremium, domain.DurationWeekly)
	require.NoError(t, err)

	err = h.admin.RefundSponsorship(ctx, res.SponsorshipID, admin())
	assert.ErrorIs(t, err, domain.ErrValidation, "pending payments cannot be refunded")

	_, err = h.reconciler.Confirm(ctx, res.SponsorshipID, nil)
	require.NoError(t, err)

	err = h.admin.RefundSponsorship(ctx, res.SponsorshipID, user("owner-1"))
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	require.NoError(t, h.admin.RefundSponsorship(ctx, res.SponsorshipID, admin()))
	assert.Equal(t, domain.PaymentRefunded, statusOf(t, h, res.SponsorshipID))

	err = h.admin.RefundSponsorship(ctx, res.SponsorshipID, admin())
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, "Sponsorship already refunded", err.Error())

	err = h.admin.RefundSponsorship(ctx, "missing", admin())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	active, err := h.ranking.ActiveSponsorshipsFor(ctx, []string{server.ID}, h.now)
	require.NoError(t, err)
	assert.False(t, active[server.ID].Premium)
}

func TestAdminSponsorshipStats(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	server := h.seedServer(t, "alpha", "owner-1", 0)

	h.buy(t, server, domain.SponsorshipFeatured, domain.DurationDaily)
	h.buy(t, server, domain.SponsorshipBump, domain.DurationOneHour)
	_, err := h.purchases.Purchase(ctx, server.ID, user("owner-1"), domain.SponsorshipPremium, domain.DurationDaily)
	require.NoError(t, err)

	stats, err := h.admin.SponsorshipStats(ctx, admin())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.ByStatus[domain.PaymentSucceeded])
	assert.Equal(t, 1, stats.ByStatus[domain.PaymentPending])
	assert.Equal(t, 1, stats.ByType[domain.SponsorshipPremium])
	assert.Equal(t, 2, stats.ActiveCount)
	assert.EqualValues(t, 999+199, stats.RevenueCents)

	_, err = h.admin.SponsorshipStats(ctx, user("owner-1"))
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestExpirySweep(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	server := h.seedServer(t, "alpha", "owner-1", 0)

	h.buy(t, server, domain.SponsorshipBump, domain.DurationOneHour)
	h.buy(t, server, domain.SponsorshipFeatured, domain.DurationDaily)

	n, err := h.expiry.Sweep(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	h.advance(time.Hour)
	n, err = h.expiry.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	h.advance(24 * time.Hour)
	n, err = h.expiry.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, domain.PaymentSucceeded, statusOf(t, h, h.mustOnlyID(t, server.ID, domain.SponsorshipBump)))
}

func (h *harness) mustOnlyID(t *testing.T, serverID string, st domain.SponsorshipType) string {
	t.Helper()
	list, err := h.sponsorships.ListByServer(context.Background(), serverID)
	require.NoError(t, err)
	for _, sp := range list {
		if sp.Type == st {
			return sp.ID
		}
	}
	t.Fatalf("no %s sponsorship on %s", st, serverID)
	return ""
}

func TestAdminListServers(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	live := h.seedServer(t, "live", "owner-1", 0)

	var queued []string
	for _, name := range []string{"First Queued", "Second Queued"} {
		h.advance(time.Minute)
		s, err := h.listing.CreateServer(ctx, user("owner-2"), CreateServerInput{
			Name:        name,
			Description: "Waiting for a moderator to look",
			Category:    "creative",
			Host:        "play.queued.example",
		})
		require.NoError(t, err)
		queued = append(queued, s.ID)
	}

	_, err := h.admin.ListServers(ctx, user("owner-1"), "pending", 0, 0)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	pending, err := h.admin.ListServers(ctx, admin(), "pending", 0, 0)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, queued, []string{pending[0].ID, pending[1].ID})

	all, err := h.admin.ListServers(ctx, admin(), "", 0, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, live.ID, all[2].ID)

	page, err := h.admin.ListServers(ctx, admin(), "", 1, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, live.ID, page[0].ID)

	_, err = h.admin.ApproveServer(ctx, pending[0].ID, admin())
	require.NoError(t, err)
	pending, err = h.admin.ListServers(ctx, admin(), "pending", 0, 0)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, queued[1], pending[0].ID)

	_, err = h.admin.ListServers(ctx, admin(), "archived", 0, 0)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = h.admin.ListServers(ctx, admin(), "", 101, 0)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = h.admin.ListServers(ctx, admin(), "", 10, -1)
	assert.ErrorIs(t, err, domain.ErrValidation)
}
