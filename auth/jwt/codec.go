// Package jwt signs and verifies session tokens as compact HMAC JWTs.
//
// The codec is generic over the project's claims type, which embeds
// jwt.RegisteredClaims and exposes it through Registered():
//
//	type SessionClaims struct {
//	    Email string `json:"email"`
//	    gojwt.RegisteredClaims
//	}
//
//	codec, err := jwt.NewCodec(cfg, func() *SessionClaims { return &SessionClaims{} })
//	token, err := codec.Issue(&SessionClaims{...}, 0)
//	claims, err := codec.Verify(token)
package jwt

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Verification errors. Verify wraps exactly one of these.
var (
	ErrMalformed        = errors.New("jwt: malformed token")
	ErrInvalidSignature = errors.New("jwt: invalid signature")
	ErrExpired          = errors.New("jwt: token expired")
	ErrInvalidClaims    = errors.New("jwt: invalid claims")
)

// Claims is the constraint for token payloads.
type Claims interface {
	gojwt.Claims
	Registered() *gojwt.RegisteredClaims
}

// Codec issues and verifies tokens carrying claims of type T.
type Codec[T Claims] struct {
	cfg      Config
	newEmpty func() T
	now      func() time.Time
}

// Option configures a Codec.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides the time source used for issuing and verifying.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// NewCodec creates a codec. It fails when the configuration has no secret.
func NewCodec[T Claims](cfg *Config, newEmpty func() T, opts ...Option) (*Codec[T], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("jwt: %w", err)
	}
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Codec[T]{cfg: *cfg, newEmpty: newEmpty, now: o.now}, nil
}

// TTL returns the configured token lifetime.
func (c *Codec[T]) TTL() time.Duration { return c.cfg.TTL }

// Issue stamps claims with a fresh token id, issued-at, expiry, issuer and
// audience, then signs them. A non-positive ttl uses the configured TTL.
// The registered part of claims is overwritten.
func (c *Codec[T]) Issue(claims T, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = c.cfg.TTL
	}
	now := c.now().Truncate(time.Second)

	rc := claims.Registered()
	rc.ID = uuid.NewString()
	rc.IssuedAt = gojwt.NewNumericDate(now)
	rc.ExpiresAt = gojwt.NewNumericDate(now.Add(ttl))
	rc.Issuer = c.cfg.Issuer
	if len(c.cfg.Audience) > 0 {
		rc.Audience = gojwt.ClaimStrings(c.cfg.Audience)
	}

	token := gojwt.NewWithClaims(c.cfg.signingMethod(), claims)
	signed, err := token.SignedString([]byte(c.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("jwt: sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature first and the expiry second, then returns
// the decoded claims. The error wraps ErrMalformed, ErrInvalidSignature,
// ErrExpired or ErrInvalidClaims.
func (c *Codec[T]) Verify(tokenString string) (T, error) {
	var zero T
	token, err := gojwt.ParseWithClaims(tokenString, c.newEmpty(), c.keyFunc, c.parserOptions()...)
	if err != nil {
		return zero, classify(err)
	}
	if !token.Valid {
		return zero, ErrInvalidSignature
	}
	claims, ok := token.Claims.(T)
	if !ok {
		return zero, ErrInvalidClaims
	}
	return claims, nil
}

func (c *Codec[T]) keyFunc(token *gojwt.Token) (interface{}, error) {
	if token.Method.Alg() != c.cfg.signingMethod().Alg() {
		return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
	}
	return []byte(c.cfg.Secret), nil
}

func (c *Codec[T]) parserOptions() []gojwt.ParserOption {
	opts := []gojwt.ParserOption{
		gojwt.WithValidMethods([]string{c.cfg.signingMethod().Alg()}),
		gojwt.WithExpirationRequired(),
		gojwt.WithIssuedAt(),
		gojwt.WithTimeFunc(c.now),
	}
	if c.cfg.Issuer != "" {
		opts = append(opts, gojwt.WithIssuer(c.cfg.Issuer))
	}
	if len(c.cfg.Audience) > 0 {
		opts = append(opts, gojwt.WithAudience(c.cfg.Audience[0]))
	}
	return opts
}

// classify maps golang-jwt parse errors onto the package's verification errors.
// golang-jwt verifies the signature before validating claims, so an expired
// forgery reports ErrInvalidSignature.
func classify(err error) error {
	switch {
	case errors.Is(err, gojwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	case errors.Is(err, gojwt.ErrTokenSignatureInvalid), errors.Is(err, gojwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	case errors.Is(err, gojwt.ErrTokenExpired):
		return fmt.Errorf("%w: %w", ErrExpired, err)
	default:
		return fmt.Errorf("%w: %w", ErrInvalidClaims, err)
	}
}
