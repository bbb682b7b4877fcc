package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/AssetAkire/Capstone-FacilityFix/internal/core/domain"
	"github.com/AssetAkire/Capstone-FacilityFix/internal/core/ports"
)

// CredentialRevoker tombstones issued credentials for a uid so that deleting
// an account also invalidates its outstanding tokens (Redis-backed).
type CredentialRevoker interface {
	Revoke(ctx context.Context, uid string) error
}

// profileFields is the allow-list applied to profile updates. Admins may
// additionally touch adminOnlyFields. Anything else is silently dropped.
var profileFields = []string{
	"first_name",
	"last_name",
	"phone_number",
	"department",
	"building_id",
	"unit_id",
}

var adminOnlyFields = []string{"user_role", "status"}

const defaultListLimit = 100

// UserAdminService implements the administrative gateway operations over the
// identity provider and the users collection. It holds no state of its own;
// every operation is a sequential composition of an authorization check,
// argument validation, and one or two collaborator calls.
type UserAdminService struct {
	identity ports.IdentityProvider
	users    ports.UserRepository
	revoker  CredentialRevoker
	audit    ports.AuditSink
	log      zerolog.Logger
}

func NewUserAdminService(
	identity ports.IdentityProvider,
	users ports.UserRepository,
	revoker CredentialRevoker,
	audit ports.AuditSink,
	log zerolog.Logger,
) *UserAdminService {
	return &UserAdminService{
		identity: identity,
		users:    users,
		revoker:  revoker,
		audit:    audit,
		log:      log,
	}
}

// CreateUser provisions an identity account, attaches the role claim, and
// writes the user record. The three steps are sequential and not atomic: a
// crash after account creation leaves an orphaned identity account with no
// record. That window is accepted and logged, not reconciled.
func (s *UserAdminService) CreateUser(ctx context.Context, caller domain.Caller, in ports.CreateUserInput) (*ports.CreateUserResult, error) {
	if !caller.Authenticated() {
		return nil, domain.E(domain.KindUnauthenticated, "the operation must be called while authenticated")
	}
	if in.Email == "" || in.Password == "" || in.FirstName == "" || in.LastName == "" || in.UserRole == "" {
		return nil, domain.E(domain.KindInvalidArgument, "missing required user data")
	}

	displayName := in.FirstName + " " + in.LastName
	uid, err := s.identity.CreateAccount(ctx, in.Email, in.Password, displayName)
	if err != nil {
		s.log.Error().Err(err).Str("email", in.Email).Msg("identity account creation failed")
		return nil, collaboratorErr(err, "failed to create user")
	}

	if err := s.identity.SetClaims(ctx, uid, map[string]string{ports.ClaimUserRole: in.UserRole}); err != nil {
		s.log.Error().Err(err).Str("uid", uid).Msg("failed to set role claim on new account")
		return nil, collaboratorErr(err, "failed to create user")
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uid,
		Username:     domain.UsernameFromEmail(in.Email),
		Email:        in.Email,
		PasswordHash: domain.PasswordHashSentinel,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		UserRole:     in.UserRole,
		Status:       domain.StatusActive,
		BuildingID:   in.BuildingID,
		UnitID:       in.UnitID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// Orphaned identity account from here on.
		s.log.Error().Err(err).Str("uid", uid).Msg("user record write failed after account creation")
		return nil, collaboratorErr(err, "failed to create user")
	}

	s.audit.Record(caller.UID, domain.AuditUserCreated, uid, in.Email)
	s.log.Info().Str("uid", uid).Str("email", in.Email).Str("role", in.UserRole).Msg("user created")

	return &ports.CreateUserResult{UID: uid, Message: "User created successfully!"}, nil
}

// SetUserRole updates the role claim on the identity account and mirrors it
// into the user record. Admin only; the role must belong to the closed set.
func (s *UserAdminService) SetUserRole(ctx context.Context, caller domain.Caller, targetUID, newRole string) (*ports.ConfirmResult, error) {
	if !caller.IsAdmin() {
		return nil, domain.E(domain.KindPermissionDenied, "only administrators can set user roles")
	}
	if targetUID == "" || newRole == "" {
		return nil, domain.E(domain.KindInvalidArgument, "missing target uid or new role")
	}
	if !domain.ValidRole(newRole) {
		return nil, domain.E(domain.KindInvalidArgument, "invalid role specified")
	}

	if err := s.identity.SetClaims(ctx, targetUID, map[string]string{ports.ClaimUserRole: newRole}); err != nil {
		s.log.Error().Err(err).Str("uid", targetUID).Msg("failed to set role claim")
		return nil, collaboratorErr(err, "failed to set user role")
	}
	if err := s.users.UpdateFields(ctx, targetUID, map[string]any{"user_role": newRole}); err != nil {
		s.log.Error().Err(err).Str("uid", targetUID).Msg("failed to update role on user record")
		return nil, collaboratorErr(err, "failed to set user role")
	}

	s.audit.Record(caller.UID, domain.AuditRoleChanged, targetUID, newRole)
	s.log.Info().Str("uid", targetUID).Str("role", newRole).Msg("user role updated")

	return &ports.ConfirmResult{Success: true, Message: fmt.Sprintf("User role updated to %s", newRole)}, nil
}

// DeleteUser removes the identity account first, then the user record in a
// single batched commit, then tombstones outstanding credentials. A crash
// between the first two steps leaves a record without an account, the
// reverse orphan of CreateUser, equally accepted.
func (s *UserAdminService) DeleteUser(ctx context.Context, caller domain.Caller, targetUID string) (*ports.ConfirmResult, error) {
	if !caller.IsAdmin() {
		return nil, domain.E(domain.KindPermissionDenied, "only administrators can delete user accounts")
	}
	if targetUID == "" {
		return nil, domain.E(domain.KindInvalidArgument, "missing target uid")
	}
	if caller.UID == targetUID {
		return nil, domain.E(domain.KindPermissionDenied, "an administrator cannot delete their own account using this operation")
	}

	if err := s.identity.DeleteAccount(ctx, targetUID); err != nil {
		s.log.Error().Err(err).Str("uid", targetUID).Msg("identity account deletion failed")
		return nil, collaboratorErr(err, "failed to delete user")
	}
	if err := s.users.Delete(ctx, targetUID); err != nil {
		s.log.Error().Err(err).Str("uid", targetUID).Msg("user record deletion failed after account removal")
		return nil, collaboratorErr(err, "failed to delete user")
	}
	if s.revoker != nil {
		if err := s.revoker.Revoke(ctx, targetUID); err != nil {
			// Outstanding tokens expire on their own; log and move on.
			s.log.Warn().Err(err).Str("uid", targetUID).Msg("failed to tombstone credentials")
		}
	}

	s.audit.Record(caller.UID, domain.AuditUserDeleted, targetUID, "")
	s.log.Info().Str("uid", targetUID).Msg("user and record deleted")

	return &ports.ConfirmResult{Success: true, Message: "User and associated data deleted successfully."}, nil
}

// ListUsers returns user records ordered by first name ascending, optionally
// filtered by building and role. The password hash sentinel never leaves the
// service.
func (s *UserAdminService) ListUsers(ctx context.Context, caller domain.Caller, in ports.ListUsersInput) (*ports.ListUsersResult, error) {
	if !caller.IsAdmin() {
		return nil, domain.E(domain.KindPermissionDenied, "only administrators can view all users")
	}

	limit := in.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	users, err := s.users.List(ctx, ports.ListUsersFilter{
		BuildingID: in.BuildingID,
		Role:       in.Role,
		Limit:      limit,
	})
	if err != nil {
		s.log.Error().Err(err).Msg("user listing query failed")
		return nil, collaboratorErr(err, "failed to retrieve users")
	}

	for _, u := range users {
		u.PasswordHash = ""
	}

	return &ports.ListUsersResult{Users: users, Count: len(users)}, nil
}

// UpdateProfile applies a partial, allow-listed update to the target record.
// Callers may update themselves; admins may update anyone and additionally
// touch user_role and status. A role change by an admin is mirrored into the
// identity claims. An update whose allowed field set is empty still succeeds
// and only stamps updated_at.
func (s *UserAdminService) UpdateProfile(ctx context.Context, caller domain.Caller, in ports.UpdateProfileInput) (*ports.ConfirmResult, error) {
	if !caller.Authenticated() {
		return nil, domain.E(domain.KindUnauthenticated, "the operation must be called while authenticated")
	}
	if in.TargetUID == "" || in.UpdateData == nil {
		return nil, domain.E(domain.KindInvalidArgument, "missing target uid or update data")
	}

	isAdmin := caller.IsAdmin()
	if !isAdmin && caller.UID != in.TargetUID {
		return nil, domain.E(domain.KindPermissionDenied, "you can only update your own profile or be an admin")
	}

	allowed := make(map[string]struct{}, len(profileFields)+len(adminOnlyFields))
	for _, f := range profileFields {
		allowed[f] = struct{}{}
	}
	if isAdmin {
		for _, f := range adminOnlyFields {
			allowed[f] = struct{}{}
		}
	}

	filtered := make(map[string]any, len(in.UpdateData))
	for k, v := range in.UpdateData {
		if _, ok := allowed[k]; ok {
			filtered[k] = v
		}
	}

	if err := s.users.UpdateFields(ctx, in.TargetUID, filtered); err != nil {
		s.log.Error().Err(err).Str("uid", in.TargetUID).Msg("profile update failed")
		return nil, collaboratorErr(err, "failed to update user profile")
	}

	if role, ok := filtered["user_role"].(string); ok && role != "" && isAdmin {
		if err := s.identity.SetClaims(ctx, in.TargetUID, map[string]string{ports.ClaimUserRole: role}); err != nil {
			s.log.Error().Err(err).Str("uid", in.TargetUID).Msg("claim sync failed after profile update")
			return nil, collaboratorErr(err, "failed to update user profile")
		}
	}

	s.audit.Record(caller.UID, domain.AuditProfileUpdated, in.TargetUID, fmt.Sprintf("%d fields", len(filtered)))
	s.log.Info().Str("uid", in.TargetUID).Int("fields", len(filtered)).Msg("user profile updated")

	return &ports.ConfirmResult{Success: true, Message: "Profile updated successfully"}, nil
}

// GetStatistics scans every user record and accumulates the four aggregates.
func (s *UserAdminService) GetStatistics(ctx context.Context, caller domain.Caller) (*ports.UserStatistics, error) {
	if !caller.IsAdmin() {
		return nil, domain.E(domain.KindPermissionDenied, "only administrators can view user statistics")
	}

	stats := &ports.UserStatistics{
		ByRole:     map[string]int{domain.RoleAdmin: 0, domain.RoleStaff: 0, domain.RoleTenant: 0},
		ByStatus:   map[string]int{domain.StatusActive: 0, domain.StatusSuspended: 0},
		ByBuilding: map[string]int{},
	}

	err := s.users.All(ctx, func(u *domain.User) error {
		stats.Total++
		if u.UserRole != "" {
			stats.ByRole[u.UserRole]++
		}
		if u.Status != "" {
			stats.ByStatus[u.Status]++
		}
		if u.BuildingID != nil && *u.BuildingID != "" {
			stats.ByBuilding[*u.BuildingID]++
		}
		return nil
	})
	if err != nil {
		s.log.Error().Err(err).Msg("user statistics scan failed")
		return nil, collaboratorErr(err, "failed to retrieve user statistics")
	}

	return stats, nil
}

// collaboratorErr re-classifies a collaborator failure: kinded errors pass
// through untouched, anything else becomes internal with the original text
// preserved as detail.
func collaboratorErr(err error, message string) error {
	var ge *domain.Error
	if errors.As(err, &ge) {
		return ge
	}
	return domain.Internal(message, err)
}
