package account

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/huzzdev/sincrolab-backend/database"
	apperrors "github.com/huzzdev/sincrolab-backend/errors"
)

// GormStore implements Store on GORM. Errors other than ErrNotFound and
// ErrEmailTaken come back as DATABASE_ERROR application errors.
type GormStore struct {
	db *database.DB
}

var _ Store = (*GormStore)(nil)

// NewGormStore creates a store backed by db.
func NewGormStore(db *database.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) FindByEmail(ctx context.Context, email string) (*Account, error) {
	var a Account
	if err := s.db.WithContext(ctx).Where("email = ?", email).Take(&a).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (s *GormStore) FindByID(ctx context.Context, id string) (*Account, error) {
	return findByID(s.db.WithContext(ctx), id)
}

func findByID(tx *gorm.DB, id string) (*Account, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var a Account
	if err := tx.Where("id = ?", uid).Take(&a).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (s *GormStore) Create(ctx context.Context, email, passwordHash string, role Role) (*Account, error) {
	a := &Account{Email: email, PasswordHash: passwordHash, Role: role}
	if err := s.db.WithContext(ctx).Create(a).Error; err != nil {
		return nil, translate(err)
	}
	return a, nil
}

func (s *GormStore) List(ctx context.Context, page Page) ([]Account, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&Account{}).Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}
	var out []Account
	err := s.db.WithContext(ctx).
		Order("created_at ASC, id ASC").
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&out).Error
	if err != nil {
		return nil, 0, translate(err)
	}
	return out, total, nil
}

func (s *GormStore) UpdateRole(ctx context.Context, id string, role Role) (*Account, error) {
	var out *Account
	err := s.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		a, err := findByID(tx, id)
		if err != nil {
			return err
		}
		if err := tx.Model(a).Update("role", role).Error; err != nil {
			return translate(err)
		}
		a.Role = role
		out = a
		return nil
	})
	if err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (s *GormStore) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	res := s.db.WithContext(ctx).Where("id = ?", uid).Delete(&Account{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func translate(err error) error {
	if _, ok := apperrors.AsAppError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrEmailTaken):
		return err
	case database.IsNotFoundError(err):
		return ErrNotFound
	case database.IsDuplicateError(err):
		return ErrEmailTaken
	default:
		return database.FromDatabase(err, "account")
	}
}
