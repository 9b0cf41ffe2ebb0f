package fx

import (
	"database/sql"
	"hytale-list/internal/api"
	"hytale-list/internal/catalog"
	"hytale-list/internal/config"
	"hytale-list/internal/database"
	"hytale-list/internal/db"
	"hytale-list/internal/domain"
	"hytale-list/internal/identity"
	"hytale-list/internal/logger"
	"hytale-list/internal/repository"
	"hytale-list/internal/server"
	"hytale-list/internal/service"

	"go.uber.org/fx"
)

func ProvideQueries(sqlDB *sql.DB) *db.Queries {
	return db.New(sqlDB)
}

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(domain.SystemClock),
	fx.Provide(database.New),
	fx.Provide(ProvideQueries),
	// repos
	fx.Provide(repository.NewServerRepository),
	fx.Provide(repository.NewVoteRepository),
	fx.Provide(repository.NewSponsorshipRepository),
	fx.Provide(repository.NewReviewRepository),
	// identity
	fx.Provide(fx.Annotate(identity.NewJWTSessions, fx.As(new(identity.SessionProvider)))),
	fx.Provide(identity.NewResolver),
	// api clients
	fx.Provide(fx.Annotate(api.NewHCaptchaClient, fx.As(new(service.CaptchaVerifier)))),
	fx.Provide(fx.Annotate(api.NewPolarClient, fx.As(new(service.CheckoutCreator)))),
	fx.Provide(api.NewWebhookVerifier),
	// svc
	fx.Provide(catalog.New),
	fx.Provide(service.NewVoteService),
	fx.Provide(service.NewSponsorshipService),
	fx.Provide(service.NewRankingService),
	fx.Provide(service.NewReconcilerService),
	fx.Provide(service.NewServerService),
	fx.Provide(service.NewReviewService),
	fx.Provide(service.NewAdminService),
	fx.Provide(service.NewExpiryService),
	// server
	fx.Provide(server.NewListingServer),
	fx.Provide(server.NewHooksController),
	fx.Provide(server.NewRouter),
	fx.Invoke(logger.Configure),
)
