package server

import (
	"time"
	"hytale-list/internal/catalog"
	"hytale-list/internal/domain"
	"hytale-list/internal/service"
)

type Empty struct{}

type Server struct {
	ID            string           `json:"id"`
	Slug          string           `json:"slug"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Category      string           `json:"category"`
	CategoryLabel string           `json:"categoryLabel"`
	CategoryIcon  string           `json:"categoryIcon"`
	Host          string           `json:"host"`
	Port          int              `json:"port"`
	Status        string           `json:"status"`
	TotalVotes    int              `json:"totalVotes"`
	AverageRating float64          `json:"averageRating"`
	TotalReviews  int              `json:"totalReviews"`
	EditorsPick   bool             `json:"editorsPick"`
	Sponsorships  domain.ActiveSet `json:"sponsorships"`
	CreatedAt     time.Time        `json:"createdAt"`
	ApprovedAt    *time.Time       `json:"approvedAt,omitempty"`
}

func toServer(s domain.Server, active domain.ActiveSet) Server {
	return Server{
		ID:            s.ID,
		Slug:          s.Slug,
		Name:          s.Name,
		Description:   s.Description,
		Category:      string(s.Category),
		CategoryLabel: s.Category.Label(),
		CategoryIcon:  s.Category.Icon(),
		Host:          s.Host,
		Port:          s.Port,
		Status:        string(s.Status),
		TotalVotes:    s.TotalVotes,
		AverageRating: s.AverageRating,
		TotalReviews:  s.TotalReviews,
		EditorsPick:   s.Featured,
		Sponsorships:  active,
		CreatedAt:     s.CreatedAt,
		ApprovedAt:    s.ApprovedAt,
	}
}

func toListedServers(listed []service.ListedServer) []Server {
	out := make([]Server, len(listed))
	for i, l := range listed {
		out[i] = toServer(l.Server, l.Active)
	}
	return out
}

type Eligibility struct {
	CanVote        bool       `json:"canVote"`
	NextEligibleAt *time.Time `json:"nextEligibleAt,omitempty"`
	HoursRemaining int        `json:"hoursRemaining"`
}

func toEligibility(e domain.Eligibility) Eligibility {
	return Eligibility{CanVote: e.CanVote, NextEligibleAt: e.NextEligibleAt, HoursRemaining: e.HoursRemaining}
}

type Review struct {
	ID        string    `json:"id"`
	ServerID  string    `json:"serverId"`
	AuthorID  string    `json:"authorId"`
	Rating    int       `json:"rating"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toReview(r domain.Review) Review {
	return Review{
		ID:        r.ID,
		ServerID:  r.ServerID,
		AuthorID:  r.ActorID,
		Rating:    r.Rating,
		Content:   r.Content,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func toReviews(reviews []domain.Review) []Review {
	out := make([]Review, len(reviews))
	for i, r := range reviews {
		out[i] = toReview(r)
	}
	return out
}

type Sponsorship struct {
	ID            string    `json:"id"`
	ServerID      string    `json:"serverId"`
	Type          string    `json:"type"`
	Duration      string    `json:"duration"`
	AmountCents   int64     `json:"amountCents"`
	PaymentStatus string    `json:"paymentStatus"`
	Active        bool      `json:"active"`
	StartsAt      time.Time `json:"startsAt"`
	EndsAt        time.Time `json:"endsAt"`
	CreatedAt     time.Time `json:"createdAt"`
}

func toSponsorship(sp domain.Sponsorship, now time.Time) Sponsorship {
	return Sponsorship{
		ID:            sp.ID,
		ServerID:      sp.ServerID,
		Type:          string(sp.Type),
		Duration:      string(sp.Duration),
		AmountCents:   sp.AmountCents,
		PaymentStatus: string(sp.PaymentStatus),
		Active:        sp.ActiveAt(now),
		StartsAt:      sp.StartsAt,
		EndsAt:        sp.EndsAt,
		CreatedAt:     sp.CreatedAt,
	}
}

func toSponsorships(list []domain.Sponsorship, now time.Time) []Sponsorship {
	out := make([]Sponsorship, len(list))
	for i, sp := range list {
		out[i] = toSponsorship(sp, now)
	}
	return out
}

type Offer struct {
	Type          string `json:"type"`
	Duration      string `json:"duration"`
	Name          string `json:"name"`
	DurationLabel string `json:"durationLabel"`
	PriceCents    int64  `json:"priceCents"`
	Purchasable   bool   `json:"purchasable"`
}

func toOffers(offers []catalog.Offer) []Offer {
	out := make([]Offer, len(offers))
	for i, o := range offers {
		out[i] = Offer{
			Type:          string(o.Type),
			Duration:      string(o.Duration),
			Name:          o.Name,
			DurationLabel: o.DurationLabel,
			PriceCents:    o.PriceCents,
			Purchasable:   o.Purchasable,
		}
	}
	return out
}

type ServerIDRequest struct {
	ServerID string `json:"serverId"`
}

type SponsorshipIDRequest struct {
	SponsorshipID string `json:"sponsorshipId"`
}

type CastVoteRequest struct {
	ServerID     string `json:"serverId"`
	CaptchaToken string `json:"captchaToken"`
}

type CastVoteResponse struct {
	VoteID         string    `json:"voteId"`
	NextEligibleAt time.Time `json:"nextEligibleAt"`
}

type PurchaseSponsorshipRequest struct {
	ServerID string `json:"serverId"`
	Type     string `json:"type"`
	Duration string `json:"duration"`
}

type PurchaseSponsorshipResponse struct {
	SponsorshipID string `json:"sponsorshipId"`
	CheckoutURL   string `json:"checkoutUrl"`
}

type ActiveSponsorshipsRequest struct {
	ServerIDs []string `json:"serverIds"`
}

type ActiveSponsorshipsResponse struct {
	Active map[string]domain.ActiveSet `json:"active"`
}

type FeaturedSlateRequest struct {
	Limit int `json:"limit"`
}

type ListServersRequest struct {
	Category string `json:"category"`
	Search   string `json:"search"`
	Sort     string `json:"sort"`
	Limit    int    `json:"limit"`
	Offset   int    `json:"offset"`
}

type ServersResponse struct {
	Servers []Server `json:"servers"`
}

type GetServerRequest struct {
	Slug string `json:"slug"`
}

type GetServerResponse struct {
	Server      Server      `json:"server"`
	Eligibility Eligibility `json:"eligibility"`
	Reviews     []Review    `json:"reviews"`
}

type CreateServerRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Host        string `json:"host"`
	Port        int    `json:"port"`
}

// UpdateServerRequest changes only the fields that are present.
type UpdateServerRequest struct {
	ServerID    string  `json:"serverId"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
	Host        *string `json:"host,omitempty"`
	Port        *int    `json:"port,omitempty"`
}

type AdminListServersRequest struct {
	Status string `json:"status"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
}

type ServerResponse struct {
	Server Server `json:"server"`
}

type CreateReviewRequest struct {
	ServerID string `json:"serverId"`
	Rating   int    `json:"rating"`
	Content  string `json:"content"`
}

type UpdateReviewRequest struct {
	ReviewID string `json:"reviewId"`
	Rating   int    `json:"rating"`
	Content  string `json:"content"`
}

type DeleteReviewRequest struct {
	ReviewID string `json:"reviewId"`
}

type ListReviewsRequest struct {
	ServerID string `json:"serverId"`
	Limit    int    `json:"limit"`
}

type ReviewResponse struct {
	Review Review `json:"review"`
}

type ReviewsResponse struct {
	Reviews []Review `json:"reviews"`
}

type CatalogResponse struct {
	Offers []Offer `json:"offers"`
}

type SponsorshipResponse struct {
	Sponsorship Sponsorship `json:"sponsorship"`
}

type SponsorshipsResponse struct {
	Sponsorships []Sponsorship `json:"sponsorships"`
}

type RecentVotesRequest struct {
	ServerID string `json:"serverId"`
	Limit    int    `json:"limit"`
}

type RecentVote struct {
	ID        string    `json:"id"`
	SignedIn  bool      `json:"signedIn"`
	CreatedAt time.Time `json:"createdAt"`
}

type RecentVotesResponse struct {
	Votes []RecentVote `json:"votes"`
}

type VoteTrendsRequest struct {
	ServerID string `json:"serverId"`
	Days     int    `json:"days"`
}

type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type VoteTrendsResponse struct {
	Days []DailyCount `json:"days"`
}

type ToggleFeaturedResponse struct {
	EditorsPick bool `json:"editorsPick"`
}

type RecountVotesResponse struct {
	TotalVotes int `json:"totalVotes"`
}

type SponsorshipStatsResponse struct {
	ByStatus     map[string]int `json:"byStatus"`
	ByType       map[string]int `json:"byType"`
	ActiveCount  int            `json:"activeCount"`
	RevenueCents int64          `json:"revenueCents"`
}
