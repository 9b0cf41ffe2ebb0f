package catalog

import (
	"fmt"
	"time"
	"hytale-list/internal/config"
	"hytale-list/internal/domain"
)

type Package struct {
	Type       domain.SponsorshipType
	Duration   domain.Duration
	PriceCents int64
}

// fixed product table, prices in cents
var packages = []Package{
	{domain.SponsorshipFeatured, domain.DurationDaily, 999},
	{domain.SponsorshipFeatured, domain.DurationWeekly, 5999},
	{domain.SponsorshipFeatured, domain.DurationMonthly, 19999},
	{domain.SponsorshipPremium, domain.DurationDaily, 499},
	{domain.SponsorshipPremium, domain.DurationWeekly, 2999},
	{domain.SponsorshipPremium, domain.DurationMonthly, 9999},
	{domain.SponsorshipBump, domain.DurationOneHour, 199},
	{domain.SponsorshipBump, domain.DurationThreeHr, 499},
}

// window lengths per duration, shared by every type sold with it
var windows = map[domain.Duration]time.Duration{
	domain.DurationDaily:   24 * time.Hour,
	domain.DurationWeekly:  7 * 24 * time.Hour,
	domain.DurationMonthly: 30 * 24 * time.Hour,
	domain.DurationOneHour: time.Hour,
	domain.DurationThreeHr: 3 * time.Hour,
}

var displayNames = map[domain.SponsorshipType]string{
	domain.SponsorshipFeatured: "Featured Spot",
	domain.SponsorshipPremium:  "Premium Listing",
	domain.SponsorshipBump:     "Bump",
}

var displayDurations = map[domain.Duration]string{
	domain.DurationDaily:   "1 Day",
	domain.DurationWeekly:  "7 Days",
	domain.DurationMonthly: "30 Days",
	domain.DurationOneHour: "1 Hour",
	domain.DurationThreeHr: "3 Hours",
}

func Key(t domain.SponsorshipType, d domain.Duration) string {
	return string(t) + "/" + string(d)
}

func lookup(t domain.SponsorshipType, d domain.Duration) (Package, error) {
	for _, p := range packages {
		if p.Type == t && p.Duration == d {
			return p, nil
		}
	}
	return Package{}, domain.NewValidationError(fmt.Sprintf("%s sponsorships are not sold for %s", t, d))
}

// Validate rejects pairs outside the product table, such as a daily bump.
func Validate(t domain.SponsorshipType, d domain.Duration) error {
	_, err := lookup(t, d)
	return err
}

func PriceFor(t domain.SponsorshipType, d domain.Duration) (int64, error) {
	p, err := lookup(t, d)
	if err != nil {
		return 0, err
	}
	return p.PriceCents, nil
}

func WindowLengthFor(d domain.Duration) (time.Duration, error) {
	w, ok := windows[d]
	if !ok {
		return 0, domain.NewValidationError(fmt.Sprintf("unknown duration %q", d))
	}
	return w, nil
}

func DisplayName(t domain.SponsorshipType) string {
	return displayNames[t]
}

func DisplayDuration(d domain.Duration) string {
	return displayDurations[d]
}

func Packages() []Package {
	out := make([]Package, len(packages))
	copy(out, packages)
	return out
}

// Catalog binds the product table to the payment provider's price ids.
type Catalog struct {
	priceIDs map[string]string
}

func New(cfg *config.Config) *Catalog {
	return &Catalog{priceIDs: cfg.PolarPriceIDs}
}

func (c *Catalog) ProductPriceID(t domain.SponsorshipType, d domain.Duration) (string, error) {
	if err := Validate(t, d); err != nil {
		return "", err
	}
	id := c.priceIDs[Key(t, d)]
	if id == "" {
		return "", domain.NewValidationError(fmt.Sprintf("%s - %s is not available for purchase", DisplayName(t), DisplayDuration(d)))
	}
	return id, nil
}

type Offer struct {
	Package
	Name          string
	DurationLabel string
	Purchasable   bool
}

// Offers lists every package with display labels, flagging the ones without
// a configured price id.
func (c *Catalog) Offers() []Offer {
	offers := make([]Offer, len(packages))
	for i, p := range packages {
		offers[i] = Offer{
			Package:       p,
			Name:          DisplayName(p.Type),
			DurationLabel: DisplayDuration(p.Duration),
			Purchasable:   c.priceIDs[Key(p.Type, p.Duration)] != "",
		}
	}
	return offers
}
