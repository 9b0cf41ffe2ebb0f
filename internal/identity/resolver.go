package identity

import (
	"context"
	"net"
	"net/http"
	"strings"
	"hytale-list/internal/constants"
	"hytale-list/internal/domain"
	"hytale-list/internal/middleware"

	"github.com/rs/zerolog"
)

type Resolver struct {
	sessions SessionProvider
	logger   zerolog.Logger
}

func NewResolver(sessions SessionProvider, logger zerolog.Logger) *Resolver {
	return &Resolver{sessions: sessions, logger: logger}
}

// Resolve builds the caller identity for a request. A missing or invalid
// session yields an anonymous identity, never an error. The address comes
// from the request middleware; remoteAddr is only used outside it.
func (r *Resolver) Resolve(ctx context.Context, header http.Header, remoteAddr string) domain.Identity {
	ip := middleware.GetClientIP(ctx)
	if ip == "" {
		ip = peerIP(remoteAddr)
	}
	id := domain.Identity{
		IP:        ip,
		UserAgent: header.Get("User-Agent"),
	}

	token := sessionToken(header)
	if token == "" {
		return id
	}

	session, err := r.sessions.Session(ctx, token)
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Msg("ignoring invalid session token")
		return id
	}

	userID := session.UserID
	id.ActorID = &userID
	id.Role = session.Role
	id.Email = session.Email
	return id
}

func sessionToken(header http.Header) string {
	if auth := header.Get("Authorization"); auth != "" {
		if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	req := http.Request{Header: header}
	if c, err := req.Cookie(constants.SessionCookieName); err == nil {
		return c.Value
	}
	return ""
}

func peerIP(remoteAddr string) string {
	if remoteAddr == "" {
		return constants.UnknownIP
	}
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil && host != "" {
		return host
	}
	return remoteAddr
}
