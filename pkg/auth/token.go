package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"squido/pkg/domain"
)

const (
	defaultIssuer   = "squido-api"
	defaultAudience = "squido-admin"
)

var defaultLeeway = 30 * time.Second

// ErrInvalidToken covers expired, malformed, and mis-signed access tokens.
var ErrInvalidToken = errors.New("invalid access token")

// TokenClaims is what an access token carries about its subject.
type TokenClaims struct {
	UserID   string
	Username string
	Role     domain.UserRole
}

// TokenIssuer issues and validates HS256 access tokens.
type TokenIssuer struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	leeway   time.Duration
}

// TokenOptions configures claim validation behavior.
type TokenOptions struct {
	Issuer   string
	Audience string
	Leeway   time.Duration
}

// NewTokenIssuer builds an issuer with the shared signing secret and TTL.
func NewTokenIssuer(secret string, ttl time.Duration, opts TokenOptions) (*TokenIssuer, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("jwt secret required")
	}
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	issuer := strings.TrimSpace(opts.Issuer)
	if issuer == "" {
		issuer = defaultIssuer
	}
	audience := strings.TrimSpace(opts.Audience)
	if audience == "" {
		audience = defaultAudience
	}
	leeway := opts.Leeway
	if leeway <= 0 {
		leeway = defaultLeeway
	}
	return &TokenIssuer{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
		ttl:      ttl,
		leeway:   leeway,
	}, nil
}

type accessClaims struct {
	Username string `json:"username,omitempty"`
	Role     string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Issue signs an access token for the user.
func (t *TokenIssuer) Issue(user domain.User) (string, error) {
	now := time.Now().UTC()
	claims := accessClaims{
		Username: user.Username,
		Role:     string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    t.issuer,
			Audience:  jwt.ClaimStrings{t.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token, returning its claims.
func (t *TokenIssuer) Verify(tokenString string) (TokenClaims, error) {
	claims := &accessClaims{}
	parsed, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
			}
			return t.secret, nil
		},
		jwt.WithIssuer(t.issuer),
		jwt.WithAudience(t.audience),
		jwt.WithLeeway(t.leeway),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil || !parsed.Valid {
		return TokenClaims{}, ErrInvalidToken
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return TokenClaims{}, ErrInvalidToken
	}
	return TokenClaims{
		UserID:   claims.Subject,
		Username: claims.Username,
		Role:     domain.UserRole(claims.Role),
	}, nil
}

// TTL exposes the configured access token lifetime.
func (t *TokenIssuer) TTL() time.Duration {
	return t.ttl
}
