package account

import (
	"context"
	"errors"
	"math"
)

var (
	// ErrNotFound is returned when no account matches the lookup.
	ErrNotFound = errors.New("account: not found")
	// ErrEmailTaken is returned when creating an account whose email exists.
	ErrEmailTaken = errors.New("account: email already registered")
)

// Page selects a window of a listing. Page numbers are 1-based.
type Page struct {
	Number int
	Size   int
}

// Offset returns the number of rows skipped before this page. It saturates
// at math.MaxInt instead of overflowing.
func (p Page) Offset() int {
	if p.Number < 1 || p.Size < 1 {
		return 0
	}
	if p.Number-1 > math.MaxInt/p.Size {
		return math.MaxInt
	}
	return (p.Number - 1) * p.Size
}

// Store persists accounts.
type Store interface {
	// FindByEmail returns ErrNotFound when no account has that exact email.
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByID(ctx context.Context, id string) (*Account, error)
	// Create returns ErrEmailTaken when the email is already registered.
	Create(ctx context.Context, email, passwordHash string, role Role) (*Account, error)
	List(ctx context.Context, page Page) ([]Account, int64, error)
	UpdateRole(ctx context.Context, id string, role Role) (*Account, error)
	Delete(ctx context.Context, id string) error
}
