package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
	"hytale-list/internal/constants"
	"hytale-list/internal/domain"
	"hytale-list/internal/repository"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	defaultServerPort = 5520
	slugSuffixAlpha   = "abcdefghijklmnopqrstuvwxyz0123456789"
	slugSuffixLength  = 6
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

type ServerService struct {
	servers *repository.ServerRepository
	reviews *repository.ReviewRepository
	ranking *RankingService
	votes   *VoteService
	clock   domain.Clock
	logger  zerolog.Logger
}

func NewServerService(
	servers *repository.ServerRepository,
	reviews *repository.ReviewRepository,
	ranking *RankingService,
	votes *VoteService,
	clock domain.Clock,
	logger zerolog.Logger,
) *ServerService {
	return &ServerService{
		servers: servers,
		reviews: reviews,
		ranking: ranking,
		votes:   votes,
		clock:   clock,
		logger:  logger,
	}
}

type CreateServerInput struct {
	Name        string
	Description string
	Category    string
	Host        string
	Port        int
}

// ListedServer is a server together with the sponsorships in effect for it.
type ListedServer struct {
	Server domain.Server
	Active domain.ActiveSet
}

type ServerPage struct {
	Server      domain.Server
	Active      domain.ActiveSet
	Eligibility domain.Eligibility
	Reviews     []domain.Review
}

func Slugify(name string) string {
	return strings.Trim(nonSlugChars.ReplaceAllString(strings.ToLower(name), "-"), "-")
}

func (in CreateServerInput) validate() (domain.Category, error) {
	name := utf8.RuneCountInString(strings.TrimSpace(in.Name))
	if name < 3 {
		return "", domain.NewValidationError("Name must be at least 3 characters")
	}
	if name > 100 {
		return "", domain.NewValidationError("Name too long")
	}
	desc := utf8.RuneCountInString(strings.TrimSpace(in.Description))
	if desc < 10 {
		return "", domain.NewValidationError("Description must be at least 10 characters")
	}
	if desc > 500 {
		return "", domain.NewValidationError("Description too long")
	}
	if strings.TrimSpace(in.Host) == "" {
		return "", domain.NewValidationError("IP address is required")
	}
	if in.Port < 0 || in.Port > 65535 {
		return "", domain.NewValidationError("Port must be between 1 and 65535")
	}
	if inappropriate(in.Name) || inappropriate(in.Description) {
		return "", domain.NewValidationError("Listing contains inappropriate language")
	}
	return domain.ParseCategory(in.Category)
}

// CreateServer submits a listing for review. New listings start pending.
func (s *ServerService) CreateServer(ctx context.Context, owner domain.Identity, in CreateServerInput) (*domain.Server, error) {
	if !owner.Authenticated() {
		return nil, domain.NewUnauthenticatedError()
	}
	category, err := in.validate()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	slug, err := s.uniqueSlug(ctx, in.Name)
	if err != nil {
		return nil, err
	}

	port := in.Port
	if port == 0 {
		port = defaultServerPort
	}

	now := s.clock()
	server := &domain.Server{
		ID:          uuid.NewString(),
		OwnerID:     owner.Actor(),
		Name:        strings.TrimSpace(in.Name),
		Slug:        slug,
		Description: strings.TrimSpace(in.Description),
		Category:    category,
		Host:        strings.TrimSpace(in.Host),
		Port:        port,
		Status:      domain.ServerPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.servers.Create(ctx, server); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("server_id", server.ID).
		Str("slug", slug).
		Str("owner_id", server.OwnerID).
		Msg("server submitted")
	return server, nil
}

// uniqueSlug slugs name, adding a random suffix when the slug is taken.
func (s *ServerService) uniqueSlug(ctx context.Context, name string) (string, error) {
	slug := Slugify(name)
	if slug == "" {
		return "", domain.NewValidationError("Name must contain letters or digits")
	}
	taken, err := s.servers.SlugExists(ctx, slug)
	if err != nil {
		return "", err
	}
	if taken {
		suffix, err := gonanoid.Generate(slugSuffixAlpha, slugSuffixLength)
		if err != nil {
			return "", fmt.Errorf("failed to generate slug suffix: %w", err)
		}
		slug = slug + "-" + suffix
	}
	return slug, nil
}

// UpdateServerInput carries the fields to change; nil fields keep their
// current value.
type UpdateServerInput struct {
	Name        *string
	Description *string
	Category    *string
	Host        *string
	Port        *int
}

// UpdateServer edits a listing for its owner or an admin. A new name gets a
// new slug. The listing keeps its status.
func (s *ServerService) UpdateServer(ctx context.Context, serverID string, viewer domain.Identity, in UpdateServerInput) (*domain.Server, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	server, err := requireOwnedServer(ctx, s.servers, serverID, viewer)
	if err != nil {
		return nil, err
	}

	merged := CreateServerInput{
		Name:        server.Name,
		Description: server.Description,
		Category:    string(server.Category),
		Host:        server.Host,
		Port:        server.Port,
	}
	if in.Name != nil {
		merged.Name = *in.Name
	}
	if in.Description != nil {
		merged.Description = *in.Description
	}
	if in.Category != nil {
		merged.Category = *in.Category
	}
	if in.Host != nil {
		merged.Host = *in.Host
	}
	if in.Port != nil {
		merged.Port = *in.Port
	}
	category, err := merged.validate()
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(merged.Name)
	if name != server.Name && Slugify(name) != server.Slug {
		slug, err := s.uniqueSlug(ctx, name)
		if err != nil {
			return nil, err
		}
		server.Slug = slug
	}
	if merged.Port == 0 {
		merged.Port = defaultServerPort
	}

	server.Name = name
	server.Description = strings.TrimSpace(merged.Description)
	server.Category = category
	server.Host = strings.TrimSpace(merged.Host)
	server.Port = merged.Port
	server.UpdatedAt = s.clock()
	if err := s.servers.Update(ctx, server); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("server_id", serverID).
		Str("slug", server.Slug).
		Str("actor_id", viewer.Actor()).
		Msg("server updated")
	return server, nil
}

// DeleteServer removes a listing with its votes, reviews and sponsorships,
// for its owner or an admin.
func (s *ServerService) DeleteServer(ctx context.Context, serverID string, viewer domain.Identity) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	server, err := requireOwnedServer(ctx, s.servers, serverID, viewer)
	if err != nil {
		return err
	}
	if err := s.servers.Delete(ctx, serverID); err != nil {
		return err
	}

	s.logger.Info().
		Str("server_id", serverID).
		Str("slug", server.Slug).
		Str("actor_id", viewer.Actor()).
		Bool("by_admin", server.OwnerID != viewer.Actor()).
		Msg("server deleted")
	return nil
}

// GetServerBySlug returns a publicly visible server.
func (s *ServerService) GetServerBySlug(ctx context.Context, slug string) (*domain.Server, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	server, err := s.servers.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if server.Status != domain.ServerApproved {
		return nil, domain.NewNotFoundError("server not found")
	}
	return server, nil
}

// GetServerPage loads everything the server detail view shows for viewer.
func (s *ServerService) GetServerPage(ctx context.Context, slug string, viewer domain.Identity) (*ServerPage, error) {
	server, err := s.GetServerBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	page := &ServerPage{Server: *server}
	now := s.clock()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		active, err := s.ranking.ActiveSponsorshipsFor(gctx, []string{server.ID}, now)
		if err != nil {
			return err
		}
		page.Active = active[server.ID]
		return nil
	})
	g.Go(func() error {
		eligibility, err := s.votes.CheckEligibility(gctx, server.ID, viewer)
		if err != nil {
			return err
		}
		page.Eligibility = eligibility
		return nil
	})
	g.Go(func() error {
		reviews, err := s.reviews.ListByServer(gctx, server.ID, constants.DefaultReviewLimit)
		if err != nil {
			return err
		}
		page.Reviews = reviews
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load server page: %w", err)
	}
	return page, nil
}

// ListServers returns approved servers for the public directory with their
// active sponsorships resolved.
func (s *ServerService) ListServers(ctx context.Context, filter domain.ServerFilter) ([]ListedServer, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if filter.Limit == 0 {
		filter.Limit = constants.DefaultListLimit
	}
	if filter.Limit < 1 || filter.Limit > constants.MaxListLimit {
		return nil, domain.NewValidationError(fmt.Sprintf("limit must be between 1 and %d", constants.MaxListLimit))
	}
	if filter.Offset < 0 {
		return nil, domain.NewValidationError("offset must not be negative")
	}
	if filter.Sort == "" {
		filter.Sort = domain.SortVotes
	}

	servers, err := s.servers.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.withActive(ctx, servers)
}

// ListOwnerServers returns every listing of the owner in any status.
func (s *ServerService) ListOwnerServers(ctx context.Context, owner domain.Identity) ([]ListedServer, error) {
	if !owner.Authenticated() {
		return nil, domain.NewUnauthenticatedError()
	}
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	servers, err := s.servers.ListByOwner(ctx, owner.Actor())
	if err != nil {
		return nil, err
	}
	return s.withActive(ctx, servers)
}

func (s *ServerService) withActive(ctx context.Context, servers []domain.Server) ([]ListedServer, error) {
	ids := make([]string, len(servers))
	for i, srv := range servers {
		ids[i] = srv.ID
	}
	active, err := s.ranking.ActiveSponsorshipsFor(ctx, ids, s.clock())
	if err != nil {
		return nil, err
	}

	listed := make([]ListedServer, len(servers))
	for i, srv := range servers {
		listed[i] = ListedServer{Server: srv, Active: active[srv.ID]}
	}
	return listed, nil
}
