package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/huzzdev/sincrolab-backend/auth"
	"github.com/huzzdev/sincrolab-backend/auth/authctx"
	apperrors "github.com/huzzdev/sincrolab-backend/errors"
	"github.com/huzzdev/sincrolab-backend/logger"
	"github.com/huzzdev/sincrolab-backend/observability"
)

const bearerPrefix = "Bearer "

// Gate failure reasons. They are logged and never sent to the client.
var (
	ErrMissingCredentials = errors.New("missing bearer token")
	ErrRevokedToken       = errors.New("token revoked")
	ErrRevocationLookup   = errors.New("revocation lookup failed")
	ErrInvalidToken       = errors.New("invalid token")
)

// TokenAuthority checks revocation and verifies session tokens.
// *auth.Service satisfies it.
type TokenAuthority interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
	VerifyToken(token string) (*auth.SessionClaims, error)
}

var _ TokenAuthority = (*auth.Service)(nil)

// AccessGate authenticates requests on non-public routes.
type AccessGate struct {
	authority TokenAuthority
	metrics   *observability.AuthMetrics
	log       *logger.Logger
}

// GateOption configures an AccessGate.
type GateOption func(*AccessGate)

// WithGateMetrics records every gate decision.
func WithGateMetrics(m *observability.AuthMetrics) GateOption {
	return func(g *AccessGate) { g.metrics = m }
}

// WithGateLogger sets the logger used for rejections.
func WithGateLogger(l *logger.Logger) GateOption {
	return func(g *AccessGate) { g.log = l.WithComponent("access-gate") }
}

// NewAccessGate creates a gate backed by authority.
func NewAccessGate(authority TokenAuthority, opts ...GateOption) *AccessGate {
	g := &AccessGate{authority: authority, log: logger.Nop()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// BearerToken extracts the token from an Authorization header value. The
// header must be exactly "Bearer <token>" with a case-sensitive scheme.
func BearerToken(header string) (string, bool) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	token := header[len(bearerPrefix):]
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", false
	}
	return token, true
}

// Authenticate runs the gate checks against an Authorization header value:
// token extraction, then revocation, then signature and expiry. It returns
// the verified claims and the raw token.
func (g *AccessGate) Authenticate(ctx context.Context, header string) (*auth.SessionClaims, string, error) {
	token, ok := BearerToken(header)
	if !ok {
		return nil, "", ErrMissingCredentials
	}

	revoked, err := g.authority.IsRevoked(ctx, token)
	if err != nil {
		return nil, "", errors.Join(ErrRevocationLookup, err)
	}
	if revoked {
		return nil, "", ErrRevokedToken
	}

	claims, err := g.authority.VerifyToken(token)
	if err != nil {
		return nil, "", errors.Join(ErrInvalidToken, err)
	}
	return claims, token, nil
}

// Handler returns the Gin middleware. Every failure aborts with the same
// 401 body.
func (g *AccessGate) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		claims, token, err := g.Authenticate(ctx, c.GetHeader("Authorization"))
		if err != nil {
			g.metrics.RecordGateDecision(ctx, observability.OutcomeRejected)
			g.log.WithContext(ctx).Debug("request rejected", logger.Fields(
				logger.FieldError, err.Error(),
				"path", c.FullPath(),
			))
			c.AbortWithStatusJSON(http.StatusUnauthorized, apperrors.Unauthorized("").ToResponse())
			return
		}

		g.metrics.RecordGateDecision(ctx, observability.OutcomeSuccess)
		ctx = authctx.WithToken(authctx.Set(ctx, claims), token)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// Public passes the request through untouched and records the bypass.
func (g *AccessGate) Public() gin.HandlerFunc {
	return func(c *gin.Context) {
		g.metrics.RecordGateDecision(c.Request.Context(), observability.OutcomePublic)
		c.Next()
	}
}
