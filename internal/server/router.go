package server

import (
	"fmt"
	"net/http"
	"hytale-list/internal/config"
	"hytale-list/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

// NewRouter assembles the HTTP surface: connect procedures under
// ListingServicePath plus the gin routes of HooksController, behind CORS.
// Forwarding headers are honoured only from cfg.TrustedProxies.
func NewRouter(
	cfg *config.Config,
	listing *ListingServer,
	hooks *HooksController,
	logger zerolog.Logger,
) (http.Handler, error) {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid TRUSTED_PROXIES: %w", err)
	}
	engine.Use(gin.Recovery(), middleware.RequestID(logger))

	hooks.RegisterRoutes(engine)

	path, handler := listing.Handler()
	engine.Any(path+"*procedure", gin.WrapH(handler))

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{middleware.RequestIDHeader, NextEligibleAtHeader},
		AllowCredentials: true,
	})
	return c.Handler(engine), nil
}
