package server

import (
	"crypto/subtle"
	"database/sql"
	"net/http"
	"strings"
	"time"
	"hytale-list/internal/api"
	"hytale-list/internal/config"
	"hytale-list/internal/domain"
	"hytale-list/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// HooksController serves the plain HTTP endpoints called by machines: the
// payment provider, the scheduler and health checks.
type HooksController struct {
	verifier   *api.WebhookVerifier
	reconciler *service.ReconcilerService
	expiry     *service.ExpiryService
	db         *sql.DB
	cronSecret string
	clock      domain.Clock
	logger     zerolog.Logger
}

func NewHooksController(
	verifier *api.WebhookVerifier,
	reconciler *service.ReconcilerService,
	expiry *service.ExpiryService,
	sqlDB *sql.DB,
	cfg *config.Config,
	clock domain.Clock,
	logger zerolog.Logger,
) *HooksController {
	return &HooksController{
		verifier:   verifier,
		reconciler: reconciler,
		expiry:     expiry,
		db:         sqlDB,
		cronSecret: cfg.CronSecret,
		clock:      clock,
		logger:     logger,
	}
}

func (h *HooksController) RegisterRoutes(engine *gin.Engine) {
	group := engine.Group("/api")

	group.POST("/webhooks/polar", h.polarWebhook)
	group.GET("/cron/expire-sponsorships", h.expireSponsorships)

	engine.GET("/healthz", h.health)
}

func (h *HooksController) polarWebhook(c *gin.Context) {
	logger := zerolog.Ctx(c.Request.Context())

	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid body"})
		return
	}

	if err := h.verifier.Verify(c.Request.Header, body); err != nil {
		logger.Warn().Err(err).Msg("rejected webhook")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signature"})
		return
	}

	event, err := api.ParseWebhookEvent(c.GetHeader("webhook-id"), body)
	if err != nil {
		logger.Warn().Err(err).Msg("undecodable webhook")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	if err := h.reconciler.HandleEvent(c.Request.Context(), event); err != nil {
		logger.Error().Err(err).Str("event_id", event.ID).Str("event_type", event.Type).Msg("webhook processing failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Webhook processing failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

func (h *HooksController) expireSponsorships(c *gin.Context) {
	token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	if !ok || token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(h.cronSecret)) != 1 {
		h.logger.Warn().Str("path", c.Request.URL.Path).Msg("unauthorized cron call")
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	expired, err := h.expiry.Sweep(c.Request.Context())
	if err != nil {
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("expiry sweep failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to expire sponsorships"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"expired":   expired,
		"timestamp": h.clock().UTC().Format(time.RFC3339),
	})
}

func (h *HooksController) health(c *gin.Context) {
	if err := h.db.PingContext(c.Request.Context()); err != nil {
		h.logger.Error().Err(err).Msg("health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

