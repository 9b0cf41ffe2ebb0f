package domain

import (
	"time"
)

type Server struct {
	ID            string
	OwnerID       string
	Name          string
	Slug          string
	Description   string
	Category      Category
	Host          string
	Port          int
	Status        ServerStatus
	TotalVotes    int
	AverageRating float64
	TotalReviews  int
	Featured      bool // legacy admin flag, unrelated to paid sponsorships
	CreatedAt     time.Time
	UpdatedAt     time.Time
	ApprovedAt    *time.Time
}

type Vote struct {
	ID        string
	ServerID  string
	ActorID   *string // nil for anonymous votes
	IPAddress string
	UserAgent string
	CreatedAt time.Time
}

type Sponsorship struct {
	ID            string
	ServerID      string
	PurchaserID   string
	Type          SponsorshipType
	Duration      Duration
	AmountCents   int64
	CheckoutID    *string
	SettlementRef *string
	PaymentStatus PaymentStatus
	StartsAt      time.Time
	EndsAt        time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ActiveAt reports whether the sponsorship affects ranking at now: paid and
// inside the half-open window [StartsAt, EndsAt).
func (s *Sponsorship) ActiveAt(now time.Time) bool {
	return s.PaymentStatus == PaymentSucceeded &&
		!now.Before(s.StartsAt) &&
		now.Before(s.EndsAt)
}

type Review struct {
	ID        string
	ServerID  string
	ActorID   string
	Rating    int
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ActiveSet is the per-server fold of currently active sponsorship types.
type ActiveSet struct {
	Featured bool `json:"featured"`
	Premium  bool `json:"premium"`
	Bump     bool `json:"bump"`
}

func (a *ActiveSet) Set(t SponsorshipType) {
	switch t {
	case SponsorshipFeatured:
		a.Featured = true
	case SponsorshipPremium:
		a.Premium = true
	case SponsorshipBump:
		a.Bump = true
	}
}

func (a ActiveSet) Has(t SponsorshipType) bool {
	switch t {
	case SponsorshipFeatured:
		return a.Featured
	case SponsorshipPremium:
		return a.Premium
	case SponsorshipBump:
		return a.Bump
	}
	return false
}

type Eligibility struct {
	CanVote        bool
	NextEligibleAt *time.Time
	HoursRemaining int
}

type DailyCount struct {
	Date  string // YYYY-MM-DD, UTC
	Count int
}

type SponsorshipStats struct {
	ByStatus     map[PaymentStatus]int
	ByType       map[SponsorshipType]int
	ActiveCount  int
	RevenueCents int64
}

type Clock func() time.Time

func SystemClock() Clock {
	return func() time.Time { return time.Now().UTC() }
}

// ServerFilter narrows the public listing. Only approved servers are listed.
type ServerFilter struct {
	Category *Category
	Search   string
	Sort     ServerSort
	Limit    int
	Offset   int
}

// PaymentEvent is a verified, decoded payment provider notification.
type PaymentEvent struct {
	ID            string // provider delivery id
	Type          string
	CheckoutID    string
	Status        string
	SponsorshipID string
	SettlementRef *string
}
