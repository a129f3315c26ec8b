package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role is a user's primary role on the platform.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleVendor  Role = "vendor"
	RoleCitizen Role = "citizen"
	RoleStudent Role = "student"
	RoleSenior  Role = "senior"
	RoleParent  Role = "parent"
)

// UserType refines a role. For admins it names the staff function; for
// cardholders it may flag a program such as assistance.
type UserType string

const (
	TypeAccountant UserType = "accountant"
	TypeTreasury   UserType = "treasury"
	TypeSupport    UserType = "support"
	TypeAssistance UserType = "assistance"
	TypeStandard   UserType = "standard"
)

// IsCardholder reports whether the role holds a spendable benefit wallet.
func (r Role) IsCardholder() bool {
	switch r {
	case RoleCitizen, RoleStudent, RoleSenior, RoleParent:
		return true
	}
	return false
}

// User is a platform account holder: citizen, student, senior, parent,
// vendor or staff member.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Type      UserType  `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

// Actor identifies the authenticated caller of an operation, as carried in
// the session token.
type Actor struct {
	ID    uuid.UUID
	Email string
	Role  Role
	Type  UserType
}
