// Package authctx carries the authenticated identity through a request context.
//
//	ctx = authctx.Set(ctx, claims)
//	ctx = authctx.WithToken(ctx, rawToken)
//
//	claims, ok := authctx.Get[*auth.SessionClaims](ctx)
//	token, ok := authctx.Token(ctx)
package authctx

import (
	"context"
	"errors"
)

type claimsKey struct{}

type tokenKey struct{}

// Set stores authentication claims in the context.
func Set(ctx context.Context, claims any) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// Get retrieves typed authentication claims from the context.
// It returns false when nothing is stored or the stored value is not a T.
func Get[T any](ctx context.Context) (T, bool) {
	claims, ok := ctx.Value(claimsKey{}).(T)
	return claims, ok
}

// ErrNoClaims is returned when claims are not found in the context.
var ErrNoClaims = errors.New("authctx: no claims in context")

// GetOrError retrieves typed claims from the context.
func GetOrError[T any](ctx context.Context) (T, error) {
	claims, ok := Get[T](ctx)
	if !ok {
		var zero T
		return zero, ErrNoClaims
	}
	return claims, nil
}

// WithToken stores the raw bearer token the claims were decoded from.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// Token returns the raw bearer token stored in the context.
func Token(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey{}).(string)
	return token, ok && token != ""
}
