package access

import (
	"schoolku_backend/internals/constants"
)

// Identity is the authenticated actor as resolved from a verified token.
// SchoolID is nil only for super admins; every other role is created with a
// school and keeps it for life.
type Identity struct {
	UserID   uint
	Role     string
	SchoolID *uint
}

func (i Identity) IsSuperAdmin() bool {
	return i.Role == constants.RoleSuperAdmin
}

// BelongsTo reports whether the identity is a member of the given tenant.
func (i Identity) BelongsTo(schoolID uint) bool {
	return i.SchoolID != nil && *i.SchoolID == schoolID
}

// Decision is the result of a policy check. Reason is only set on deny and is
// safe to surface to the client.
type Decision struct {
	Allowed bool
	Reason  string
}

func Allow() Decision {
	return Decision{Allowed: true}
}

func Deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}
