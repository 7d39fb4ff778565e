// internal/core/domain/user.go
package domain

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

// Role is a user role.
type Role string

const (
	RoleAdmin      Role = "admin"
	RolePharmacist Role = "pharmacist"
)

// User is an account that records purchases and sales.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserUpdate holds the optional fields of an account update. Password is
// the new plain-text password.
type UserUpdate struct {
	Name     *string
	Email    *string
	Password *string
	Role     *Role
}

// IsEmpty reports whether no field is set.
func (u *UserUpdate) IsEmpty() bool {
	return u.Name == nil && u.Email == nil && u.Password == nil && u.Role == nil
}

// Validate normalises and checks the fields that are set.
func (u *UserUpdate) Validate() error {
	if u.IsEmpty() {
		return NewValidation("body", "at least one field is required")
	}
	if u.Name != nil {
		name := strings.TrimSpace(*u.Name)
		if n := len(name); n < 2 || n > 100 {
			return NewValidation("name", "must be between 2 and 100 characters")
		}
		u.Name = &name
	}
	if u.Email != nil {
		email := NormalizeEmail(*u.Email)
		if _, err := mail.ParseAddress(email); err != nil {
			return NewValidation("email", "must be a valid email address")
		}
		u.Email = &email
	}
	if u.Password != nil && len(*u.Password) < MinPasswordLength {
		return NewValidation("password", fmt.Sprintf("must be at least %d characters", MinPasswordLength))
	}
	if u.Role != nil && *u.Role != RoleAdmin && *u.Role != RolePharmacist {
		return NewValidation("role", "must be admin or pharmacist")
	}
	return nil
}

// Changes lists the names of the fields that are set, for audit details.
func (u *UserUpdate) Changes() []string {
	var fields []string
	if u.Name != nil {
		fields = append(fields, "name")
	}
	if u.Email != nil {
		fields = append(fields, "email")
	}
	if u.Password != nil {
		fields = append(fields, "password")
	}
	if u.Role != nil {
		fields = append(fields, "role="+string(*u.Role))
	}
	return fields
}

// Identity is the verified caller of a request.
type Identity struct {
	ID   int64 `json:"id"`
	Role Role  `json:"role"`
}

// IsAdmin reports whether the identity has the admin role.
func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// TokenPair is issued on login and refresh.
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	TokenType    string    `json:"token_type"`
}
