// Package account holds the persisted identity used by authentication.
package account

import (
	"github.com/huzzdev/sincrolab-backend/database"
)

// Role is an account's authorization role.
type Role string

const (
	RoleTherapist Role = "therapist"
	RoleAdmin     Role = "admin"
)

// DefaultRole is assigned to every self-registered account.
const DefaultRole = RoleTherapist

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleTherapist || r == RoleAdmin
}

// Account is a registered user. Email matches are case-sensitive and no
// normalization is applied.
type Account struct {
	database.BaseModel
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"column:password;not null"`
	Role         Role   `gorm:"type:varchar(16);not null;default:therapist"`
}

// View is the client-facing projection of an Account. It never carries
// the password hash.
type View struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// View returns the client-facing projection.
func (a *Account) View() View {
	return View{ID: a.ID.String(), Email: a.Email, Role: a.Role}
}
