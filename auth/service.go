// Package auth owns registration, sign-in, logout and session token
// issuance. HTTP handlers call the Service directly; the request gates in
// server/middleware use it to check revocation and verify tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/huzzdev/sincrolab-backend/account"
	"github.com/huzzdev/sincrolab-backend/auth/password"
	"github.com/huzzdev/sincrolab-backend/auth/revocation"
	apperrors "github.com/huzzdev/sincrolab-backend/errors"
	"github.com/huzzdev/sincrolab-backend/logger"
	"github.com/huzzdev/sincrolab-backend/observability"
)

// MsgUserExists is the conflict message returned for a taken email.
const MsgUserExists = "User already exists"

// TokenCodec issues and verifies session tokens.
type TokenCodec interface {
	Issue(claims *SessionClaims, ttl time.Duration) (string, error)
	Verify(token string) (*SessionClaims, error)
}

// Service implements the authentication operations.
type Service struct {
	store   account.Store
	hasher  password.Hasher
	codec   TokenCodec
	revoked revocation.Registry
	metrics *observability.AuthMetrics
	log     *logger.Logger

	decoyOnce sync.Once
	decoy     string
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Service) { s.log = l.WithComponent("auth") }
}

// WithMetrics sets the auth instruments.
func WithMetrics(m *observability.AuthMetrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService creates the authentication service. The revocation registry is
// owned by the caller so it can be shared with anything else that needs it.
func NewService(store account.Store, hasher password.Hasher, codec TokenCodec, revoked revocation.Registry, opts ...Option) *Service {
	s := &Service{
		store:   store,
		hasher:  hasher,
		codec:   codec,
		revoked: revoked,
		log:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates a therapist account and issues its first session token.
func (s *Service) Register(ctx context.Context, email, plaintext string) (*Session, error) {
	ctx, span := observability.StartSpan(ctx, "auth.register")
	defer span.End()

	acc, err := s.CreateAccount(ctx, email, plaintext, account.DefaultRole)
	if err != nil {
		if apperrors.HasCode(err, apperrors.ErrCodeAlreadyExists) {
			s.metrics.RecordRegistration(ctx, observability.OutcomeConflict)
		}
		span.SetStatus(codes.Error, "register failed")
		return nil, err
	}
	s.metrics.RecordRegistration(ctx, observability.OutcomeSuccess)

	session, err := s.issue(ctx, acc)
	if err != nil {
		span.SetStatus(codes.Error, "issue failed")
		return nil, err
	}
	s.log.WithContext(ctx).Info("account registered", logger.Fields(
		logger.FieldUserID, acc.ID.String(),
		logger.FieldRole, string(acc.Role),
	))
	return session, nil
}

// CreateAccount stores a new account with role after hashing its password.
// A taken email fails with ALREADY_EXISTS before anything is written.
func (s *Service) CreateAccount(ctx context.Context, email, plaintext string, role account.Role) (*account.Account, error) {
	if !role.Valid() {
		return nil, apperrors.Validation(fmt.Sprintf("role must be one of: %s, %s", account.RoleTherapist, account.RoleAdmin))
	}

	_, err := s.store.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, apperrors.AlreadyExists(MsgUserExists)
	case !errors.Is(err, account.ErrNotFound):
		return nil, apperrors.Internal(fmt.Errorf("find account: %w", err))
	}

	digest, err := s.hasher.Hash(plaintext)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("hash password: %w", err))
	}

	acc, err := s.store.Create(ctx, email, digest, role)
	if errors.Is(err, account.ErrEmailTaken) {
		// lost a race with a concurrent registration
		return nil, apperrors.AlreadyExists(MsgUserExists)
	}
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("create account: %w", err))
	}
	return acc, nil
}

// SignIn verifies credentials and issues a session token. Unknown emails
// and wrong passwords fail with the same INVALID_CREDENTIALS error.
func (s *Service) SignIn(ctx context.Context, email, plaintext string) (*Session, error) {
	ctx, span := observability.StartSpan(ctx, "auth.sign_in")
	defer span.End()

	acc, err := s.store.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, account.ErrNotFound):
		// keep the unknown-email path as slow as a real comparison
		s.hasher.Verify(plaintext, s.decoyDigest())
		return nil, s.rejectSignIn(ctx, span)
	case err != nil:
		span.SetStatus(codes.Error, "lookup failed")
		return nil, apperrors.Internal(fmt.Errorf("find account: %w", err))
	}

	if !s.hasher.Verify(plaintext, acc.PasswordHash) {
		return nil, s.rejectSignIn(ctx, span)
	}
	s.metrics.RecordSignIn(ctx, observability.OutcomeSuccess)

	session, err := s.issue(ctx, acc)
	if err != nil {
		span.SetStatus(codes.Error, "issue failed")
		return nil, err
	}
	s.log.WithContext(ctx).Info("signed in", logger.Fields(logger.FieldUserID, acc.ID.String()))
	return session, nil
}

func (s *Service) rejectSignIn(ctx context.Context, span trace.Span) error {
	span.SetAttributes(attribute.String("auth.outcome", observability.OutcomeRejected))
	s.metrics.RecordSignIn(ctx, observability.OutcomeRejected)
	s.log.WithContext(ctx).Warn("sign-in rejected")
	return apperrors.InvalidCredentials()
}

// Logout revokes token. Unknown, malformed and already revoked tokens are
// revoked all the same and the call succeeds.
func (s *Service) Logout(ctx context.Context, token string) error {
	if err := s.revoked.Revoke(ctx, token); err != nil {
		return apperrors.Internal(fmt.Errorf("revoke token: %w", err))
	}
	s.metrics.RecordRevocation(ctx)
	s.log.WithContext(ctx).Info("logged out")
	return nil
}

// IsRevoked reports whether token was revoked by Logout.
func (s *Service) IsRevoked(ctx context.Context, token string) (bool, error) {
	return s.revoked.IsRevoked(ctx, token)
}

// VerifyToken checks a token's signature and expiry and returns its claims.
// It does not consult the revocation registry.
func (s *Service) VerifyToken(token string) (*SessionClaims, error) {
	return s.codec.Verify(token)
}

// ClaimsFor projects an account onto session claims.
func (s *Service) ClaimsFor(acc *account.Account) *SessionClaims {
	c := &SessionClaims{Email: acc.Email, Role: acc.Role}
	c.Subject = acc.ID.String()
	return c
}

// EnsureAdmin creates an admin account with email unless one already exists.
func (s *Service) EnsureAdmin(ctx context.Context, email, plaintext string) error {
	existing, err := s.store.FindByEmail(ctx, email)
	if err == nil {
		if existing.Role != account.RoleAdmin {
			s.log.Warn("seed admin email belongs to a non-admin account", logger.Fields(logger.FieldUserID, existing.ID.String()))
		}
		return nil
	}
	if !errors.Is(err, account.ErrNotFound) {
		return fmt.Errorf("find seed admin: %w", err)
	}
	acc, err := s.CreateAccount(ctx, email, plaintext, account.RoleAdmin)
	if err != nil {
		return fmt.Errorf("create seed admin: %w", err)
	}
	s.log.Info("seed admin created", logger.Fields(logger.FieldUserID, acc.ID.String()))
	return nil
}

func (s *Service) issue(ctx context.Context, acc *account.Account) (*Session, error) {
	claims := s.ClaimsFor(acc)
	token, err := s.codec.Issue(claims, 0)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("issue token: %w", err))
	}
	s.metrics.RecordTokenIssued(ctx)
	return &Session{User: claims.Payload(), AccessToken: token}, nil
}

func (s *Service) decoyDigest() string {
	s.decoyOnce.Do(func() {
		s.decoy, _ = s.hasher.Hash("decoy-password-never-matches")
	})
	return s.decoy
}
