package constants

import "time"

const (
	VoteCooldown = 24 * time.Hour

	// window within which a provider webhook timestamp is accepted
	WebhookTolerance = 5 * time.Minute
)

const (
	ExternalAPITimeout = 10 * time.Second
	DatabaseTimeout    = 5 * time.Second
	RequestTimeout     = 30 * time.Second
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
	DBBusyTimeoutMs   = 5000
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	FeaturedSlateLimit    = 6
	FeaturedSlateMax      = 24
	DefaultListLimit      = 12
	MaxListLimit          = 100
	DefaultAdminListLimit = 50
	RecentVotesLimit      = 10
	MaxRecentVotesLimit   = 50
	DefaultTrendDays      = 30
	MaxTrendDays          = 365
	DefaultReviewLimit    = 20
	MaxActiveLookupBatch  = 200
)

const (
	SessionCookieName = "session_token"
	UnknownIP         = "unknown"
)
