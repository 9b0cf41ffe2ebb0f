package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
	"hytale-list/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCastVoteCooldown(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	server := h.seedServer(t, "alpha", "owner-1", 0)
	voter := user("player-1")

	_, err := h.votes.CastVote(ctx, server.ID, voter, "token")
	require.NoError(t, err)

	h.advance(23*time.Hour + 59*time.Minute)
	_, err = h.votes.CastVote(ctx, server.ID, voter, "token")
	require.ErrorIs(t, err, domain.ErrConflict)

	var de *domain.Error
	require.True(t, errors.As(err, &de))
	require.NotNil(t, de.NextEligibleAt)
	assert.True(t, de.NextEligibleAt.Equal(baseTime.Add(24*time.Hour)))
	assert.Equal(t, "You can vote again in 1 hour", de.Message)

	elig, err := h.votes.CheckEligibility(ctx, server.ID, voter)
	require.NoError(t, err)
	assert.False(t, elig.CanVote)
	assert.Equal(t, 1, elig.HoursRemaining)

	h.advance(time.Minute + time.Second)
	elig, err = h.votes.CheckEligibility(ctx, server.ID, voter)
	require.NoError(t, err)
	assert.True(t, elig.CanVote)

	_, err = h.votes.CastVote(ctx, server.ID, voter, "token")
	require.NoError(t, err)

	got, err := h.servers.Get(ctx, server.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.TotalVotes)
}

func TestCastVoteCaptcha(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	server := h.seedServer(t, "alpha", "owner-1", 0)
	voter := user("player-1")

	_, err := h.votes.CastVote(ctx, server.ID, voter, "")
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.EqualValues(t, 0, h.captcha.calls.Load())

	h.captcha.reject = true
	_, err = h.votes.CastVote(ctx, server.ID, voter, "token")
	assert.ErrorIs(t, err, domain.ErrValidation)

	h.captcha.reject = false
	h.captcha.err = errProviderDown
	_, err = h.votes.CastVote(ctx, server.ID, voter, "token")
	assert.ErrorIs(t, err, domain.ErrExternal)
	assert.ErrorIs(t, err, errProviderDown)

	elig, err := h.votes.CheckEligibility(ctx, server.ID, voter)
	require.NoError(t, err)
	assert.True(t, elig.CanVote, "rejected attempts must not start a cooldown")
}

func TestCastVoteAnonymousUsesIP(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	server := h.seedServer(t, "alpha", "owner-1", 0)

	_, err := h.votes.CastVote(ctx, server.ID, anonymous("1.2.3.4"), "token")
	require.NoError(t, err)

	_, err = h.votes.CastVote(ctx, server.ID, anonymous("1.2.3.4"), "token")
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = h.votes.CastVote(ctx, server.ID, anonymous("5.6.7.8"), "token")
	assert.NoError(t, err)

	signedIn := user("player-1")
	signedIn.IP = "1.2.3.4"
	_, err = h.votes.CastVote(ctx, server.ID, signedIn, "token")
	assert.NoError(t, err, "a signed-in voter is keyed by account, not address")
}

func TestCastVoteConcurrent(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	server := h.seedServer(t, "alpha", "owner-1", 0)
	voter := user("player-1")

	const attempts = 10
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		accepted  int
		conflicts int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := h.votes.CastVote(ctx, server.ID, voter, "token")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				accepted++
			case errors.Is(err, domain.ErrConflict):
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, accepted)
	assert.Equal(t, attempts-1, conflicts)

	got, err := h.servers.Get(ctx, server.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.TotalVotes)
}

func TestCastVoteRequiresApprovedServer(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	server := h.seedServer(t, "alpha", "owner-1", 0)
	_, err := h.admin.SuspendServer(ctx, server.ID, admin())
	require.NoError(t, err)

	_, err = h.votes.CastVote(ctx, server.ID, user("player-1"), "token")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = h.votes.CastVote(ctx, "missing", user("player-1"), "token")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVoteTrendsAndRecent(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	server := h.seedServer(t, "alpha", "owner-1", 0)

	_, err := h.votes.CastVote(ctx, server.ID, user("a"), "token")
	require.NoError(t, err)
	_, err = h.votes.CastVote(ctx, server.ID, user("b"), "token")
	require.NoError(t, err)
	h.advance(48 * time.Hour)
	_, err = h.votes.CastVote(ctx, server.ID, user("a"), "token")
	require.NoError(t, err)

	trend, err := h.votes.VoteTrends(ctx, server.ID, user("owner-1"), 3)
	require.NoError(t, err)
	assert.Equal(t, []domain.DailyCount{
		{Date: "2026-03-01", Count: 2},
		{Date: "2026-03-02", Count: 0},
		{Date: "2026-03-03", Count: 1},
	}, trend)

	recent, err := h.votes.RecentVotes(ctx, server.ID, user("owner-1"), 0)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, "a", *recent[0].ActorID)

	_, err = h.votes.VoteTrends(ctx, server.ID, user("stranger"), 3)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = h.votes.VoteTrends(ctx, server.ID, user("owner-1"), 400)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = h.votes.RecentVotes(ctx, server.ID, admin(), 5)
	assert.NoError(t, err)
}
