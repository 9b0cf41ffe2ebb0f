package server

import (
	"context"
	"net/http"
	"hytale-list/internal/constants"
	"hytale-list/internal/domain"
	"hytale-list/internal/identity"
	"hytale-list/internal/service"

	"connectrpc.com/connect"
)

const ListingServicePath = "/hytale.v1.ListingService/"

type ListingServer struct {
	resolver     *identity.Resolver
	votes        *service.VoteService
	sponsorships *service.SponsorshipService
	ranking      *service.RankingService
	servers      *service.ServerService
	reviews      *service.ReviewService
	admin        *service.AdminService
	clock        domain.Clock
}

func NewListingServer(
	resolver *identity.Resolver,
	votes *service.VoteService,
	sponsorships *service.SponsorshipService,
	ranking *service.RankingService,
	servers *service.ServerService,
	reviews *service.ReviewService,
	admin *service.AdminService,
	clock domain.Clock,
) *ListingServer {
	return &ListingServer{
		resolver:     resolver,
		votes:        votes,
		sponsorships: sponsorships,
		ranking:      ranking,
		servers:      servers,
		reviews:      reviews,
		admin:        admin,
		clock:        clock,
	}
}

// Handler returns the mount path and the handler serving every procedure.
func (s *ListingServer) Handler() (string, http.Handler) {
	mux := http.NewServeMux()

	register(mux, s, "CheckEligibility", s.CheckEligibility)
	register(mux, s, "CastVote", s.CastVote)
	register(mux, s, "RecentVotes", s.RecentVotes)
	register(mux, s, "VoteTrends", s.VoteTrends)

	register(mux, s, "ListCatalog", s.ListCatalog)
	register(mux, s, "PurchaseSponsorship", s.PurchaseSponsorship)
	register(mux, s, "GetSponsorship", s.GetSponsorship)
	register(mux, s, "ListServerSponsorships", s.ListServerSponsorships)
	register(mux, s, "ListMySponsorships", s.ListMySponsorships)
	register(mux, s, "ActiveSponsorships", s.ActiveSponsorships)
	register(mux, s, "FeaturedSlate", s.FeaturedSlate)

	register(mux, s, "ListServers", s.ListServers)
	register(mux, s, "GetServer", s.GetServer)
	register(mux, s, "CreateServer", s.CreateServer)
	register(mux, s, "ListMyServers", s.ListMyServers)
	register(mux, s, "UpdateServer", s.UpdateServer)
	register(mux, s, "DeleteServer", s.DeleteServer)

	register(mux, s, "ListReviews", s.ListReviews)
	register(mux, s, "CreateReview", s.CreateReview)
	register(mux, s, "UpdateReview", s.UpdateReview)
	register(mux, s, "DeleteReview", s.DeleteReview)

	register(mux, s, "AdminListServers", s.AdminListServers)
	register(mux, s, "ApproveServer", s.ApproveServer)
	register(mux, s, "RejectServer", s.RejectServer)
	register(mux, s, "SuspendServer", s.SuspendServer)
	register(mux, s, "UnsuspendServer", s.UnsuspendServer)
	register(mux, s, "ToggleFeatured", s.ToggleFeatured)
	register(mux, s, "RecountVotes", s.RecountVotes)
	register(mux, s, "RefundSponsorship", s.RefundSponsorship)
	register(mux, s, "SponsorshipStats", s.SponsorshipStats)

	return ListingServicePath, mux
}

// register mounts fn as a unary procedure. The caller identity is resolved
// from the request headers before fn runs.
func register[Req, Res any](
	mux *http.ServeMux,
	s *ListingServer,
	name string,
	fn func(ctx context.Context, caller domain.Identity, req *Req) (*Res, error),
) {
	procedure := ListingServicePath + name
	mux.Handle(procedure, connect.NewUnaryHandler(
		procedure,
		func(ctx context.Context, req *connect.Request[Req]) (*connect.Response[Res], error) {
			caller := s.resolver.Resolve(ctx, req.Header(), req.Peer().Addr)
			res, err := fn(ctx, caller, req.Msg)
			if err != nil {
				return nil, toConnectError(ctx, procedure, err)
			}
			return connect.NewResponse(res), nil
		},
		connect.WithCodec(jsonCodec{}),
	))
}

func (s *ListingServer) CheckEligibility(ctx context.Context, caller domain.Identity, req *ServerIDRequest) (*Eligibility, error) {
	e, err := s.votes.CheckEligibility(ctx, req.ServerID, caller)
	if err != nil {
		return nil, err
	}
	res := toEligibility(e)
	return &res, nil
}

func (s *ListingServer) CastVote(ctx context.Context, caller domain.Identity, req *CastVoteRequest) (*CastVoteResponse, error) {
	vote, err := s.votes.CastVote(ctx, req.ServerID, caller, req.CaptchaToken)
	if err != nil {
		return nil, err
	}
	return &CastVoteResponse{
		VoteID:         vote.ID,
		NextEligibleAt: vote.CreatedAt.Add(constants.VoteCooldown),
	}, nil
}

func (s *ListingServer) RecentVotes(ctx context.Context, caller domain.Identity, req *RecentVotesRequest) (*RecentVotesResponse, error) {
	votes, err := s.votes.RecentVotes(ctx, req.ServerID, caller, req.Limit)
	if err != nil {
		return nil, err
	}
	out := make([]RecentVote, len(votes))
	for i, v := range votes {
		out[i] = RecentVote{ID: v.ID, SignedIn: v.ActorID != nil, CreatedAt: v.CreatedAt}
	}
	return &RecentVotesResponse{Votes: out}, nil
}

func (s *ListingServer) VoteTrends(ctx context.Context, caller domain.Identity, req *VoteTrendsRequest) (*VoteTrendsResponse, error) {
	trend, err := s.votes.VoteTrends(ctx, req.ServerID, caller, req.Days)
	if err != nil {
		return nil, err
	}
	days := make([]DailyCount, len(trend))
	for i, d := range trend {
		days[i] = DailyCount{Date: d.Date, Count: d.Count}
	}
	return &VoteTrendsResponse{Days: days}, nil
}

func (s *ListingServer) ListCatalog(ctx context.Context, caller domain.Identity, req *Empty) (*CatalogResponse, error) {
	return &CatalogResponse{Offers: toOffers(s.sponsorships.Catalog())}, nil
}

func (s *ListingServer) PurchaseSponsorship(ctx context.Context, caller domain.Identity, req *PurchaseSponsorshipRequest) (*PurchaseSponsorshipResponse, error) {
	st, err := domain.ParseSponsorshipType(req.Type)
	if err != nil {
		return nil, err
	}
	d, err := domain.ParseDuration(req.Duration)
	if err != nil {
		return nil, err
	}
	res, err := s.sponsorships.Purchase(ctx, req.ServerID, caller, st, d)
	if err != nil {
		return nil, err
	}
	return &PurchaseSponsorshipResponse{SponsorshipID: res.SponsorshipID, CheckoutURL: res.CheckoutURL}, nil
}

func (s *ListingServer) GetSponsorship(ctx context.Context, caller domain.Identity, req *SponsorshipIDRequest) (*SponsorshipResponse, error) {
	sp, err := s.sponsorships.GetSponsorship(ctx, req.SponsorshipID, caller)
	if err != nil {
		return nil, err
	}
	return &SponsorshipResponse{Sponsorship: toSponsorship(*sp, s.clock())}, nil
}

func (s *ListingServer) ListServerSponsorships(ctx context.Context, caller domain.Identity, req *ServerIDRequest) (*SponsorshipsResponse, error) {
	list, err := s.sponsorships.ListServerSponsorships(ctx, req.ServerID, caller)
	if err != nil {
		return nil, err
	}
	return &SponsorshipsResponse{Sponsorships: toSponsorships(list, s.clock())}, nil
}

func (s *ListingServer) ListMySponsorships(ctx context.Context, caller domain.Identity, req *Empty) (*SponsorshipsResponse, error) {
	list, err := s.sponsorships.ListMySponsorships(ctx, caller)
	if err != nil {
		return nil, err
	}
	return &SponsorshipsResponse{Sponsorships: toSponsorships(list, s.clock())}, nil
}

func (s *ListingServer) ActiveSponsorships(ctx context.Context, caller domain.Identity, req *ActiveSponsorshipsRequest) (*ActiveSponsorshipsResponse, error) {
	active, err := s.ranking.ActiveSponsorshipsFor(ctx, req.ServerIDs, s.clock())
	if err != nil {
		return nil, err
	}
	return &ActiveSponsorshipsResponse{Active: active}, nil
}

func (s *ListingServer) FeaturedSlate(ctx context.Context, caller domain.Identity, req *FeaturedSlateRequest) (*ServersResponse, error) {
	limit := req.Limit
	if limit == 0 {
		limit = constants.FeaturedSlateLimit
	}
	if limit < 0 || limit > constants.FeaturedSlateMax {
		return nil, domain.NewValidationError("limit out of range")
	}

	now := s.clock()
	slate, err := s.ranking.FeaturedSlate(ctx, limit, now)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(slate))
	for i, srv := range slate {
		ids[i] = srv.ID
	}
	active, err := s.ranking.ActiveSponsorshipsFor(ctx, ids, now)
	if err != nil {
		return nil, err
	}

	out := make([]Server, len(slate))
	for i, srv := range slate {
		out[i] = toServer(srv, active[srv.ID])
	}
	return &ServersResponse{Servers: out}, nil
}

func (s *ListingServer) ListServers(ctx context.Context, caller domain.Identity, req *ListServersRequest) (*ServersResponse, error) {
	filter := domain.ServerFilter{Search: req.Search, Limit: req.Limit, Offset: req.Offset}
	if req.Category != "" {
		c, err := domain.ParseCategory(req.Category)
		if err != nil {
			return nil, err
		}
		filter.Category = &c
	}
	sort, err := domain.ParseServerSort(req.Sort)
	if err != nil {
		return nil, err
	}
	filter.Sort = sort

	listed, err := s.servers.ListServers(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ServersResponse{Servers: toListedServers(listed)}, nil
}

func (s *ListingServer) GetServer(ctx context.Context, caller domain.Identity, req *GetServerRequest) (*GetServerResponse, error) {
	page, err := s.servers.GetServerPage(ctx, req.Slug, caller)
	if err != nil {
		return nil, err
	}
	return &GetServerResponse{
		Server:      toServer(page.Server, page.Active),
		Eligibility: toEligibility(page.Eligibility),
		Reviews:     toReviews(page.Reviews),
	}, nil
}

func (s *ListingServer) CreateServer(ctx context.Context, caller domain.Identity, req *CreateServerRequest) (*ServerResponse, error) {
	srv, err := s.servers.CreateServer(ctx, caller, service.CreateServerInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Host:        req.Host,
		Port:        req.Port,
	})
	if err != nil {
		return nil, err
	}
	return &ServerResponse{Server: toServer(*srv, domain.ActiveSet{})}, nil
}

func (s *ListingServer) ListMyServers(ctx context.Context, caller domain.Identity, req *Empty) (*ServersResponse, error) {
	listed, err := s.servers.ListOwnerServers(ctx, caller)
	if err != nil {
		return nil, err
	}
	return &ServersResponse{Servers: toListedServers(listed)}, nil
}

func (s *ListingServer) UpdateServer(ctx context.Context, caller domain.Identity, req *UpdateServerRequest) (*ServerResponse, error) {
	return serverResponse(s.servers.UpdateServer(ctx, req.ServerID, caller, service.UpdateServerInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Host:        req.Host,
		Port:        req.Port,
	}))
}

func (s *ListingServer) DeleteServer(ctx context.Context, caller domain.Identity, req *ServerIDRequest) (*Empty, error) {
	if err := s.servers.DeleteServer(ctx, req.ServerID, caller); err != nil {
		return nil, err
	}
	return &Empty{}, nil
}

func (s *ListingServer) ListReviews(ctx context.Context, caller domain.Identity, req *ListReviewsRequest) (*ReviewsResponse, error) {
	reviews, err := s.reviews.ListReviews(ctx, req.ServerID, req.Limit)
	if err != nil {
		return nil, err
	}
	return &ReviewsResponse{Reviews: toReviews(reviews)}, nil
}

func (s *ListingServer) CreateReview(ctx context.Context, caller domain.Identity, req *CreateReviewRequest) (*ReviewResponse, error) {
	r, err := s.reviews.CreateReview(ctx, req.ServerID, caller, req.Rating, req.Content)
	if err != nil {
		return nil, err
	}
	return &ReviewResponse{Review: toReview(*r)}, nil
}

func (s *ListingServer) UpdateReview(ctx context.Context, caller domain.Identity, req *UpdateReviewRequest) (*ReviewResponse, error) {
	r, err := s.reviews.UpdateReview(ctx, req.ReviewID, caller, req.Rating, req.Content)
	if err != nil {
		return nil, err
	}
	return &ReviewResponse{Review: toReview(*r)}, nil
}

func (s *ListingServer) DeleteReview(ctx context.Context, caller domain.Identity, req *DeleteReviewRequest) (*Empty, error) {
	if err := s.reviews.DeleteReview(ctx, req.ReviewID, caller); err != nil {
		return nil, err
	}
	return &Empty{}, nil
}

func (s *ListingServer) AdminListServers(ctx context.Context, caller domain.Identity, req *AdminListServersRequest) (*ServersResponse, error) {
	servers, err := s.admin.ListServers(ctx, caller, req.Status, req.Limit, req.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]Server, len(servers))
	for i, srv := range servers {
		out[i] = toServer(srv, domain.ActiveSet{})
	}
	return &ServersResponse{Servers: out}, nil
}

func (s *ListingServer) ApproveServer(ctx context.Context, caller domain.Identity, req *ServerIDRequest) (*ServerResponse, error) {
	return serverResponse(s.admin.ApproveServer(ctx, req.ServerID, caller))
}

func (s *ListingServer) RejectServer(ctx context.Context, caller domain.Identity, req *ServerIDRequest) (*ServerResponse, error) {
	return serverResponse(s.admin.RejectServer(ctx, req.ServerID, caller))
}

func (s *ListingServer) SuspendServer(ctx context.Context, caller domain.Identity, req *ServerIDRequest) (*ServerResponse, error) {
	return serverResponse(s.admin.SuspendServer(ctx, req.ServerID, caller))
}

func (s *ListingServer) UnsuspendServer(ctx context.Context, caller domain.Identity, req *ServerIDRequest) (*ServerResponse, error) {
	return serverResponse(s.admin.UnsuspendServer(ctx, req.ServerID, caller))
}

func serverResponse(srv *domain.Server, err error) (*ServerResponse, error) {
	if err != nil {
		return nil, err
	}
	return &ServerResponse{Server: toServer(*srv, domain.ActiveSet{})}, nil
}

func (s *ListingServer) ToggleFeatured(ctx context.Context, caller domain.Identity, req *ServerIDRequest) (*ToggleFeaturedResponse, error) {
	featured, err := s.admin.ToggleFeatured(ctx, req.ServerID, caller)
	if err != nil {
		return nil, err
	}
	return &ToggleFeaturedResponse{EditorsPick: featured}, nil
}

func (s *ListingServer) RecountVotes(ctx context.Context, caller domain.Identity, req *ServerIDRequest) (*RecountVotesResponse, error) {
	total, err := s.admin.RecountVotes(ctx, req.ServerID, caller)
	if err != nil {
		return nil, err
	}
	return &RecountVotesResponse{TotalVotes: total}, nil
}

func (s *ListingServer) RefundSponsorship(ctx context.Context, caller domain.Identity, req *SponsorshipIDRequest) (*Empty, error) {
	if err := s.admin.RefundSponsorship(ctx, req.SponsorshipID, caller); err != nil {
		return nil, err
	}
	return &Empty{}, nil
}

func (s *ListingServer) SponsorshipStats(ctx context.Context, caller domain.Identity, req *Empty) (*SponsorshipStatsResponse, error) {
	stats, err := s.admin.SponsorshipStats(ctx, caller)
	if err != nil {
		return nil, err
	}
	res := &SponsorshipStatsResponse{
		ByStatus:     make(map[string]int, len(stats.ByStatus)),
		ByType:       make(map[string]int, len(stats.ByType)),
		ActiveCount:  stats.ActiveCount,
		RevenueCents: stats.RevenueCents,
	}
	for k, v := range stats.ByStatus {
		res.ByStatus[string(k)] = v
	}
	for k, v := range stats.ByType {
		res.ByType[string(k)] = v
	}
	return res, nil
}
