package domain

import "time"

// StaffRole is the coarse role of an internal console account. Fine-grained
// access is controlled by the Permissions capability tags.
type StaffRole string

const (
	StaffAdmin   StaffRole = "admin"
	StaffManager StaffRole = "manager"
	StaffAnalyst StaffRole = "analyst"
)

// InternalUser is a staff account of the administration console.
type InternalUser struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"-"`
	Role         StaffRole `json:"role"`
	Permissions  []string  `json:"permissions"` // capability tags, e.g. "billing:write"
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u InternalUser) EntityID() string       { return u.ID }
func (u InternalUser) EntityKind() EntityKind { return KindStaff }

// HasPermission reports whether the account carries the given capability tag.
// Admins implicitly hold every permission.
func (u InternalUser) HasPermission(tag string) bool {
	if u.Role == StaffAdmin {
		return true
	}
	for _, p := range u.Permissions {
		if p == tag {
			return true
		}
	}
	return false
}
