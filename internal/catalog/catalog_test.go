package catalog

import (
	"testing"
	"time"
	"hytale-list/internal/config"
	"hytale-list/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceFor(t *testing.T) {
	cases := []struct {
		t     domain.SponsorshipType
		d     domain.Duration
		cents int64
	}{
		{domain.SponsorshipFeatured, domain.DurationDaily, 999},
		{domain.SponsorshipFeatured, domain.DurationWeekly, 5999},
		{domain.SponsorshipFeatured, domain.DurationMonthly, 19999},
		{domain.SponsorshipPremium, domain.DurationDaily, 499},
		{domain.SponsorshipPremium, domain.DurationWeekly, 2999},
		{domain.SponsorshipPremium, domain.DurationMonthly, 9999},
		{domain.SponsorshipBump, domain.DurationOneHour, 199},
		{domain.SponsorshipBump, domain.DurationThreeHr, 499},
	}
	for _, c := range cases {
		t.Run(Key(c.t, c.d), func(t *testing.T) {
			cents, err := PriceFor(c.t, c.d)
			require.NoError(t, err)
			assert.Equal(t, c.cents, cents)
		})
	}
}

func TestInvalidPairs(t *testing.T) {
	_, err := PriceFor(domain.SponsorshipBump, domain.DurationDaily)
	assert.ErrorIs(t, err, domain.ErrValidation)

	err = Validate(domain.SponsorshipFeatured, domain.DurationOneHour)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = WindowLengthFor("fortnight")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestWindowLengthFor(t *testing.T) {
	w, err := WindowLengthFor(domain.DurationMonthly)
	require.NoError(t, err)
	assert.Equal(t, 30*24*time.Hour, w)

	w, err = WindowLengthFor(domain.DurationThreeHr)
	require.NoError(t, err)
	assert.Equal(t, 3*time.Hour, w)

	for _, p := range Packages() {
		w, err := WindowLengthFor(p.Duration)
		require.NoError(t, err, Key(p.Type, p.Duration))
		assert.Positive(t, w)
	}
}

func TestProductPriceID(t *testing.T) {
	c := New(&config.Config{PolarPriceIDs: map[string]string{"featured/daily": "price_fd"}})

	id, err := c.ProductPriceID(domain.SponsorshipFeatured, domain.DurationDaily)
	require.NoError(t, err)
	assert.Equal(t, "price_fd", id)

	_, err = c.ProductPriceID(domain.SponsorshipPremium, domain.DurationDaily)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "Premium Listing - 1 Day")

	offers := c.Offers()
	require.Len(t, offers, 8)
	assert.True(t, offers[0].Purchasable)
	assert.Equal(t, "Featured Spot", offers[0].Name)
	assert.False(t, offers[3].Purchasable)
}
