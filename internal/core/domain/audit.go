// internal/core/domain/audit.go
package domain

import (
	"strings"
	"time"
)

// Actions recorded by the server itself.
const (
	AuditUserUpdated = "user.updated"
	AuditUserDeleted = "user.deleted"
)

// AuditLog records an action taken by a user. UserID is nil once the user
// has been deleted.
type AuditLog struct {
	ID        int64     `json:"id"`
	UserID    *int64    `json:"user_id"`
	UserName  string    `json:"user_name,omitempty"`
	UserEmail string    `json:"user_email,omitempty"`
	UserRole  Role      `json:"user_role,omitempty"`
	Action    string    `json:"action"`
	Details   string    `json:"details,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate trims and bounds the action and details.
func (a *AuditLog) Validate() error {
	a.Action = strings.TrimSpace(a.Action)
	if n := len(a.Action); n == 0 || n > 100 {
		return NewValidation("action", "must be between 1 and 100 characters")
	}
	if len(a.Details) > 2000 {
		return NewValidation("details", "must be at most 2000 characters")
	}
	if a.UserID == nil || *a.UserID <= 0 {
		return NewValidation("user_id", "must be a positive integer")
	}
	return nil
}

// AuditLogFilter paginates audit listings. UserID zero means all users.
type AuditLogFilter struct {
	UserID int64
	Page   int
	Limit  int
}

// Normalize applies pagination defaults.
func (f *AuditLogFilter) Normalize() { normalizePaging(&f.Page, &f.Limit) }

// Offset returns the row offset for the current page.
func (f AuditLogFilter) Offset() int { return (f.Page - 1) * f.Limit }

// AuditLogPage is one page of audit entries, newest first.
type AuditLogPage = Page[AuditLog]
