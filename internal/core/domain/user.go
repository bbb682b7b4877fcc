package domain

import (
	"strings"
	"time"
)

const (
	RoleAdmin  = "admin"
	RoleStaff  = "staff"
	RoleTenant = "tenant"
)

const (
	StatusActive    = "active"
	StatusSuspended = "suspended"
)

// PasswordHashSentinel is stored in place of a password hash: the gateway
// never holds credentials, the identity provider does.
const PasswordHashSentinel = "N/A"

// ValidRole reports whether role belongs to the closed role set. Only the
// role-assignment path enforces this; Create stores the role string as given.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleStaff || role == RoleTenant
}

// User is the document-store record for an account, keyed by the identity
// provider uid.
type User struct {
	ID           string    `json:"id" bson:"_id"`
	Username     string    `json:"username" bson:"username"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	FirstName    string    `json:"first_name" bson:"first_name"`
	LastName     string    `json:"last_name" bson:"last_name"`
	PhoneNumber  *string   `json:"phone_number" bson:"phone_number"`
	Department   *string   `json:"department" bson:"department"`
	UserRole     string    `json:"user_role" bson:"user_role"`
	Status       string    `json:"status" bson:"status"`
	BuildingID   *string   `json:"building_id" bson:"building_id"`
	UnitID       *string   `json:"unit_id" bson:"unit_id"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

// UsernameFromEmail derives the username stored at creation: the local part
// of the email address, up to the first '@'.
func UsernameFromEmail(email string) string {
	if i := strings.Index(email, "@"); i >= 0 {
		return email[:i]
	}
	return email
}

// Caller identifies the authenticated actor invoking an operation, as read
// from the credential claims. An empty UID means the call is unauthenticated.
type Caller struct {
	UID  string
	Role string
}

// IsAdmin reports whether the caller carries the admin role claim.
func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// Authenticated reports whether a caller identity is present at all.
func (c Caller) Authenticated() bool {
	return c.UID != ""
}
