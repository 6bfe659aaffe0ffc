// Package revocation tracks session tokens invalidated by logout.
package revocation

import (
	"context"
	"sync"
)

// Registry records revoked tokens. Implementations must make a Revoke
// visible to every IsRevoked call that starts after it returns.
type Registry interface {
	Revoke(ctx context.Context, token string) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// MemoryRegistry is a process-local Registry. Entries are never evicted;
// the set grows with every logout until the process restarts.
type MemoryRegistry struct {
	mu     sync.RWMutex
	tokens map[string]struct{}
}

var _ Registry = (*MemoryRegistry)(nil)

// NewMemoryRegistry creates an empty registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{tokens: make(map[string]struct{})}
}

// Revoke adds token to the set. Revoking the same token twice is a no-op.
func (r *MemoryRegistry) Revoke(_ context.Context, token string) error {
	r.mu.Lock()
	r.tokens[token] = struct{}{}
	r.mu.Unlock()
	return nil
}

// IsRevoked reports whether token has been revoked.
func (r *MemoryRegistry) IsRevoked(_ context.Context, token string) (bool, error) {
	r.mu.RLock()
	_, ok := r.tokens[token]
	r.mu.RUnlock()
	return ok, nil
}

// Len returns the number of revoked tokens.
func (r *MemoryRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tokens)
}
