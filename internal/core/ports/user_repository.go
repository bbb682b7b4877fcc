package ports

import (
	"context"

	"github.com/AssetAkire/Capstone-FacilityFix/internal/core/domain"
)

// ListUsersFilter carries the query parameters for listing user records.
// Empty fields mean "no filter"; Limit <= 0 falls back to the repository
// default of 100. Results are ordered by first name ascending.
type ListUsersFilter struct {
	BuildingID string
	Role       string
	Limit      int
}

// UserRepository defines persistence operations on the users collection.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	// UpdateFields applies a partial update to the record. fields maps
	// document field names to new values; the repository stamps updated_at.
	UpdateFields(ctx context.Context, uid string, fields map[string]any) error
	// Delete removes the record in a single batched commit.
	Delete(ctx context.Context, uid string) error
	List(ctx context.Context, filter ListUsersFilter) ([]*domain.User, error)
	// All streams every record, invoking fn per document. Used by the
	// statistics scan.
	All(ctx context.Context, fn func(*domain.User) error) error
}

// AuditRepository persists audit trail entries.
type AuditRepository interface {
	Insert(ctx context.Context, e *domain.AuditEntry) error
}
