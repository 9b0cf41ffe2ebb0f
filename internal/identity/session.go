package identity

import (
	"context"
	"errors"
	"fmt"
	"time"
	"hytale-list/internal/config"
	"hytale-list/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidSession = errors.New("invalid session token")

// Session is the authenticated user behind a session token.
type Session struct {
	UserID string
	Role   domain.Role
	Email  string
}

// SessionProvider turns a session token into a Session. Authentication itself
// lives outside this service; only verification happens here.
type SessionProvider interface {
	Session(ctx context.Context, token string) (*Session, error)
}

type claims struct {
	Role  string `json:"role"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// JWTSessions verifies HS256 session tokens signed with the shared secret.
type JWTSessions struct {
	secret []byte
}

func NewJWTSessions(cfg *config.Config) *JWTSessions {
	return &JWTSessions{secret: []byte(cfg.SessionSecret)}
}

func (j *JWTSessions) Session(ctx context.Context, token string) (*Session, error) {
	tok, err := jwt.ParseWithClaims(token, &claims{}, func(t *jwt.Token) (any, error) {
		return j.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSession, err)
	}

	cl, ok := tok.Claims.(*claims)
	if !ok || !tok.Valid || cl.Subject == "" {
		return nil, ErrInvalidSession
	}

	role := domain.Role(cl.Role)
	switch role {
	case domain.RolePlayer, domain.RoleServerOwner, domain.RoleAdmin:
	default:
		role = domain.RolePlayer
	}

	return &Session{UserID: cl.Subject, Role: role, Email: cl.Email}, nil
}

// Issue signs a session token. The auth service owns login; this exists for
// tooling and tests that need a valid token.
func (j *JWTSessions) Issue(s Session, ttl time.Duration, now time.Time) (string, error) {
	cl := claims{
		Role:  string(s.Role),
		Email: s.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, cl).SignedString(j.secret)
}
