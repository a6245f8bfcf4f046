package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrInvalidSession  = errors.New("invalid session token")
	ErrExpiredSession  = errors.New("session token expired")
	ErrRevokedSession  = errors.New("session token revoked")
)

// IsSessionError reports whether err means the caller presented no usable
// session, as opposed to a failure looking the session up.
func IsSessionError(err error) bool {
	return errors.Is(err, ErrUnauthenticated) ||
		errors.Is(err, ErrInvalidSession) ||
		errors.Is(err, ErrExpiredSession) ||
		errors.Is(err, ErrRevokedSession)
}

const issuer = "contently"

// Identity is the signed-in user as reported by the identity provider.
type Identity struct {
	UserID    string `json:"id"`
	Email     string `json:"email,omitempty"`
	Name      string `json:"name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Claims carries the identity inside a session token. The user id is the subject.
type Claims struct {
	Email     string `json:"email,omitempty"`
	Name      string `json:"name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
	jwt.RegisteredClaims
}

// Sessions issues and validates HS256 session tokens. Each token carries a
// unique id (jti) so a signed-out token can be refused before it expires.
type Sessions struct {
	secret      []byte
	ttl         time.Duration
	now         func() time.Time
	revocations Revocations
}

type SessionOption func(*Sessions)

// WithRevocations replaces the in-process revocation list, e.g. with the
// database so sign-outs survive restarts and are shared between instances.
func WithRevocations(r Revocations) SessionOption {
	return func(s *Sessions) {
		if r != nil {
			s.revocations = r
		}
	}
}

func NewSessions(secret []byte, ttl time.Duration, opts ...SessionOption) (*Sessions, error) {
	if len(secret) == 0 {
		return nil, errors.New("session secret is required")
	}
	if ttl <= 0 {
		return nil, errors.New("session ttl must be positive")
	}
	s := &Sessions{secret: secret, ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if s.revocations == nil {
		s.revocations = NewMemoryRevocations(func() time.Time { return s.now() })
	}
	return s, nil
}

// TTL is how long an issued session stays valid.
func (s *Sessions) TTL() time.Duration { return s.ttl }

// Issue signs a session token for id and returns it with its expiry.
func (s *Sessions) Issue(id Identity) (string, time.Time, error) {
	if id.UserID == "" {
		return "", time.Time{}, errors.New("user id is required")
	}
	now := s.now()
	expires := now.Add(s.ttl)
	claims := &Claims{
		Email:     id.Email,
		Name:      id.Name,
		AvatarURL: id.AvatarURL,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session: %w", err)
	}
	return token, expires, nil
}

// Resolve validates a session token and returns its identity.
func (s *Sessions) Resolve(ctx context.Context, token string) (*Identity, error) {
	claims, err := s.parse(token)
	if err != nil {
		return nil, err
	}
	revoked, err := s.revocations.SessionRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check session revocation: %w", err)
	}
	if revoked {
		return nil, ErrRevokedSession
	}
	return &Identity{
		UserID:    claims.Subject,
		Email:     claims.Email,
		Name:      claims.Name,
		AvatarURL: claims.AvatarURL,
	}, nil
}

// Revoke ends a session before its expiry. Tokens that are already invalid
// or expired are reported with the matching session error.
func (s *Sessions) Revoke(ctx context.Context, token string) error {
	claims, err := s.parse(token)
	if err != nil {
		return err
	}
	if err := s.revocations.RevokeSession(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

func (s *Sessions) parse(token string) (*Claims, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredSession
		}
		return nil, ErrInvalidSession
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" || claims.ID == "" {
		return nil, ErrInvalidSession
	}
	return claims, nil
}
