package service

import (
	"context"
	"strings"
	"testing"
	"time"
	"hytale-list/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Orbis Realms":         "orbis-realms",
		"  Kweebec's  Haven!!": "kweebec-s-haven",
		"PvP -- Arena 2":       "pvp-arena-2",
		"???":                  "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestCreateServer(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	owner := user("owner-1")
	input := CreateServerInput{
		Name:        "Orbis Realms",
		Description: "Survival with custom quests and towns",
		Category:    "survival",
		Host:        "play.orbis.example",
	}

	first, err := h.listing.CreateServer(ctx, owner, input)
	require.NoError(t, err)
	assert.Equal(t, "orbis-realms", first.Slug)
	assert.Equal(t, domain.ServerPending, first.Status)
	assert.Equal(t, 5520, first.Port)
	assert.Equal(t, "owner-1", first.OwnerID)

	second, err := h.listing.CreateServer(ctx, owner, input)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(second.Slug, "orbis-realms-"))
	assert.Len(t, second.Slug, len("orbis-realms-")+6)

	_, err = h.listing.GetServerBySlug(ctx, first.Slug)
	assert.ErrorIs(t, err, domain.ErrNotFound, "pending servers are not public")

	mine, err := h.listing.ListOwnerServers(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	_, err = h.listing.CreateServer(ctx, anonymous("1.1.1.1"), input)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestCreateServerValidation(t *testing.T) {
	h := newHarness(t)
	valid := CreateServerInput{
		Name:        "Orbis Realms",
		Description: "Survival with custom quests and towns",
		Category:    "survival",
		Host:        "play.orbis.example",
		Port:        25565,
	}

	tests := []struct {
		name   string
		mutate func(in *CreateServerInput)
	}{
		{"short name", func(in *CreateServerInput) { in.Name = "ab" }},
		{"long name", func(in *CreateServerInput) { in.Name = strings.Repeat("a", 101) }},
		{"short description", func(in *CreateServerInput) { in.Description = "too short" }},
		{"long description", func(in *CreateServerInput) { in.Description = strings.Repeat("a", 501) }},
		{"missing host", func(in *CreateServerInput) { in.Host = " " }},
		{"bad port", func(in *CreateServerInput) { in.Port = 70000 }},
		{"unknown category", func(in *CreateServerInput) { in.Category = "racing" }},
		{"no slug characters", func(in *CreateServerInput) { in.Name = "!!!!" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			_, err := h.listing.CreateServer(context.Background(), user("owner-1"), in)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestListServers(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	a := h.seedServer(t, "a", "owner-1", 3)
	h.seedServer(t, "b", "owner-1", 7)
	h.buy(t, a, domain.SponsorshipPremium, domain.DurationDaily)

	listed, err := h.listing.ListServers(ctx, domain.ServerFilter{})
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "b", listed[0].Server.Slug)
	assert.Equal(t, domain.ActiveSet{}, listed[0].Active)
	assert.Equal(t, domain.ActiveSet{Premium: true}, listed[1].Active)

	_, err = h.listing.ListServers(ctx, domain.ServerFilter{Limit: 101})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = h.listing.ListServers(ctx, domain.ServerFilter{Offset: -1})
	assert.ErrorIs(t, err, domain.ErrValidation)

	listed, err = h.listing.ListServers(ctx, domain.ServerFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "a", listed[0].Server.Slug)
}

func TestGetServerPage(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	server := h.seedServer(t, "alpha", "owner-1", 0)
	h.buy(t, server, domain.SponsorshipFeatured, domain.DurationDaily)

	voter := user("player-1")
	_, err := h.votes.CastVote(ctx, server.ID, voter, "token")
	require.NoError(t, err)
	_, err = h.reviews.CreateReview(ctx, server.ID, voter, 4, "Great players and very fair staff.")
	require.NoError(t, err)

	h.advance(2 * time.Hour)
	page, err := h.listing.GetServerPage(ctx, "alpha", voter)
	require.NoError(t, err)
	assert.Equal(t, server.ID, page.Server.ID)
	assert.Equal(t, 1, page.Server.TotalVotes)
	assert.Equal(t, 1, page.Server.TotalReviews)
	assert.True(t, page.Active.Featured)
	assert.False(t, page.Eligibility.CanVote)
	assert.Equal(t, 22, page.Eligibility.HoursRemaining)
	assert.Len(t, page.Reviews, 1)

	page, err = h.listing.GetServerPage(ctx, "alpha", anonymous("9.9.9.9"))
	require.NoError(t, err)
	assert.True(t, page.Eligibility.CanVote)

	_, err = h.listing.GetServerPage(ctx, "missing", voter)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func strPtr(s string) *string { return &s }

func TestUpdateServer(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	server := h.seedServer(t, "orbis-realms", "owner-1", 4)

	_, err := h.listing.UpdateServer(ctx, server.ID, user("intruder"), UpdateServerInput{Host: strPtr("evil.example")})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = h.listing.UpdateServer(ctx, server.ID, anonymous("1.1.1.1"), UpdateServerInput{})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	port := 25565
	h.advance(time.Hour)
	updated, err := h.listing.UpdateServer(ctx, server.ID, user("owner-1"), UpdateServerInput{
		Host: strPtr(" mc.orbis.example "),
		Port: &port,
	})
	require.NoError(t, err)
	assert.Equal(t, "orbis-realms", updated.Slug, "slug kept while the name is unchanged")
	assert.Equal(t, "mc.orbis.example", updated.Host)
	assert.Equal(t, 25565, updated.Port)
	assert.Equal(t, server.Description, updated.Description)
	assert.Equal(t, domain.ServerApproved, updated.Status)

	renamed, err := h.listing.UpdateServer(ctx, server.ID, admin(), UpdateServerInput{Name: strPtr("Orbis Reborn")})
	require.NoError(t, err)
	assert.Equal(t, "orbis-reborn", renamed.Slug)

	page, err := h.listing.GetServerBySlug(ctx, "orbis-reborn")
	require.NoError(t, err)
	assert.Equal(t, 4, page.TotalVotes)
	assert.Equal(t, 25565, page.Port)

	_, err = h.listing.UpdateServer(ctx, server.ID, user("owner-1"), UpdateServerInput{Description: strPtr("short")})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = h.listing.UpdateServer(ctx, server.ID, user("owner-1"), UpdateServerInput{Category: strPtr("racing")})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = h.listing.UpdateServer(ctx, "missing", user("owner-1"), UpdateServerInput{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateServerSlugCollision(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.seedServer(t, "kweebec-haven", "owner-2", 0)
	server := h.seedServer(t, "orbis-realms", "owner-1", 0)

	renamed, err := h.listing.UpdateServer(ctx, server.ID, user("owner-1"), UpdateServerInput{Name: strPtr("Kweebec Haven")})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(renamed.Slug, "kweebec-haven-"))
	assert.Len(t, renamed.Slug, len("kweebec-haven-")+6)
}

func TestDeleteServer(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	mine := h.seedServer(t, "alpha", "owner-1", 0)
	theirs := h.seedServer(t, "beta", "owner-2", 0)
	h.buy(t, mine, domain.SponsorshipFeatured, domain.DurationDaily)

	assert.ErrorIs(t, h.listing.DeleteServer(ctx, theirs.ID, user("owner-1")), domain.ErrUnauthorized)

	require.NoError(t, h.listing.DeleteServer(ctx, mine.ID, user("owner-1")))
	_, err := h.listing.GetServerBySlug(ctx, "alpha")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	slate, err := h.ranking.FeaturedSlate(ctx, 6, h.now)
	require.NoError(t, err)
	for _, s := range slate {
		assert.NotEqual(t, mine.ID, s.ID)
	}

	require.NoError(t, h.listing.DeleteServer(ctx, theirs.ID, admin()))
	assert.ErrorIs(t, h.listing.DeleteServer(ctx, theirs.ID, admin()), domain.ErrNotFound)
}
