package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

func (k Kind) Valid() bool {
	return k == KindAccess || k == KindRefresh
}

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
	ErrWrongKind    = errors.New("unexpected token kind")
)

// Identity is what a token asserts about its bearer. Subject is the user's email.
type Identity struct {
	Subject string
	Role    string
}

type Claims struct {
	Kind Kind   `json:"typ"`
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

func (c *Claims) Identity() Identity {
	return Identity{Subject: c.Subject, Role: c.Role}
}

func (c *Claims) Expiry() time.Time {
	return c.ExpiresAt.Time
}

// ExpiredAt reports whether the token is no longer usable at now.
func (c *Claims) ExpiredAt(now time.Time) bool {
	return !now.Before(c.ExpiresAt.Time)
}

type Config struct {
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Codec signs and parses HS256 tokens. It is immutable after NewCodec.
type Codec struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	parser     *jwt.Parser
}

func NewCodec(cfg Config) (*Codec, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("tokens: signing secret is empty")
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("tokens: token lifetimes must be positive")
	}

	secret := make([]byte, len(cfg.Secret))
	copy(secret, cfg.Secret)

	return &Codec{
		secret:     secret,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		// expiry is checked explicitly by callers, not while parsing
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithoutClaimsValidation(),
		),
	}, nil
}

func (c *Codec) TTL(kind Kind) time.Duration {
	switch kind {
	case KindAccess:
		return c.accessTTL
	case KindRefresh:
		return c.refreshTTL
	default:
		return 0
	}
}

func (c *Codec) Encode(id Identity, kind Kind, now time.Time) (string, error) {
	ttl := c.TTL(kind)
	if ttl == 0 {
		return "", fmt.Errorf("%w: %q", ErrWrongKind, kind)
	}
	if id.Subject == "" {
		return "", errors.New("tokens: empty subject")
	}

	claims := Claims{
		Kind: kind,
		Role: id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Decode verifies the signature and shape of a token. It does not look at the clock.
func (c *Codec) Decode(token string) (*Claims, error) {
	var claims Claims
	tkn, err := c.parser.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !tkn.Valid || claims.Subject == "" || claims.ExpiresAt == nil || !claims.Kind.Valid() {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}

func (c *Codec) IsExpired(token string, now time.Time) bool {
	claims, err := c.Decode(token)
	if err != nil {
		return true
	}
	return claims.ExpiredAt(now)
}

// Validate decodes the token and checks its kind and expiry.
func (c *Codec) Validate(token string, kind Kind, now time.Time) (*Claims, error) {
	claims, err := c.Decode(token)
	if err != nil {
		return nil, err
	}
	if claims.Kind != kind {
		return nil, ErrWrongKind
	}
	if claims.ExpiredAt(now) {
		return nil, ErrExpiredToken
	}
	return claims, nil
}
