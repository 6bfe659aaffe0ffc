package database

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "github.com/huzzdev/sincrolab-backend/errors"
)

// IsNotFoundError checks if the error is a GORM record-not-found error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicateError checks if the error is a unique-constraint violation.
// It relies on gorm.Config.TranslateError, which NewWithContext enables.
func IsDuplicateError(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// FromDatabase converts a database error to an AppError.
func FromDatabase(err error, resource string) *apperrors.AppError {
	switch {
	case err == nil:
		return nil
	case IsNotFoundError(err):
		return apperrors.NotFound(resource, "").WithCause(err)
	case IsDuplicateError(err):
		return apperrors.AlreadyExists(fmt.Sprintf("A %s with these details already exists.", resource)).WithCause(err)
	default:
		return apperrors.DatabaseError(err)
	}
}
