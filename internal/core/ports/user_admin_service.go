package ports

import (
	"context"

	"github.com/AssetAkire/Capstone-FacilityFix/internal/core/domain"
)

// CreateUserInput carries all data needed to provision a new user.
// BuildingID and UnitID are optional links to external entities.
type CreateUserInput struct {
	Email      string
	Password   string
	FirstName  string
	LastName   string
	UserRole   string
	BuildingID *string
	UnitID     *string
}

// CreateUserResult is returned after a successful creation.
type CreateUserResult struct {
	UID     string
	Message string
}

// ConfirmResult is the shared success envelope for mutations that return no
// entity data.
type ConfirmResult struct {
	Success bool
	Message string
}

// ListUsersInput carries the optional filters for the listing operation.
type ListUsersInput struct {
	BuildingID string
	Role       string
	Limit      int
}

// ListUsersResult is the ordered page plus its count.
type ListUsersResult struct {
	Users []*domain.User
	Count int
}

// UpdateProfileInput carries a partial update keyed by document field name.
// Fields outside the caller's allow-list are silently dropped.
type UpdateProfileInput struct {
	TargetUID  string
	UpdateData map[string]any
}

// UserStatistics holds the four aggregates over the users collection.
// ByRole and ByStatus are pre-seeded with their fixed buckets; values outside
// the fixed sets still increment dynamically keyed entries.
type UserStatistics struct {
	Total      int            `json:"total"`
	ByRole     map[string]int `json:"byRole"`
	ByStatus   map[string]int `json:"byStatus"`
	ByBuilding map[string]int `json:"byBuilding"`
}

// UserAdminService defines the six gateway operations. Every operation takes
// the explicit caller identity and performs its own authorization check
// before touching a collaborator.
type UserAdminService interface {
	CreateUser(ctx context.Context, caller domain.Caller, in CreateUserInput) (*CreateUserResult, error)
	SetUserRole(ctx context.Context, caller domain.Caller, targetUID, newRole string) (*ConfirmResult, error)
	DeleteUser(ctx context.Context, caller domain.Caller, targetUID string) (*ConfirmResult, error)
	ListUsers(ctx context.Context, caller domain.Caller, in ListUsersInput) (*ListUsersResult, error)
	UpdateProfile(ctx context.Context, caller domain.Caller, in UpdateProfileInput) (*ConfirmResult, error)
	GetStatistics(ctx context.Context, caller domain.Caller) (*UserStatistics, error)
}
