package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/AssetAkire/Capstone-FacilityFix/internal/core/domain"
	"github.com/AssetAkire/Capstone-FacilityFix/internal/core/ports"
)

// --- stubs ---

type stubIdentity struct {
	calls []string

	createErr error
	claimsErr error
	deleteErr error

	createdEmail string
	nextUID      string
	claims       map[string]map[string]string

	verifyUID    string
	verifyClaims map[string]string
	verifyErr    error
}

func newStubIdentity() *stubIdentity {
	return &stubIdentity{nextUID: "uid-1", claims: make(map[string]map[string]string)}
}

func (s *stubIdentity) CreateAccount(_ context.Context, email, password, displayName string) (string, error) {
	s.calls = append(s.calls, "create_account")
	if s.createErr != nil {
		return "", s.createErr
	}
	s.createdEmail = email
	return s.nextUID, nil
}

func (s *stubIdentity) SetClaims(_ context.Context, uid string, claims map[string]string) error {
	s.calls = append(s.calls, "set_claims")
	if s.claimsErr != nil {
		return s.claimsErr
	}
	s.claims[uid] = claims
	return nil
}

func (s *stubIdentity) DeleteAccount(_ context.Context, uid string) error {
	s.calls = append(s.calls, "delete_account")
	return s.deleteErr
}

func (s *stubIdentity) VerifyPassword(_ context.Context, email, password string) (string, map[string]string, error) {
	s.calls = append(s.calls, "verify_password")
	if s.verifyErr != nil {
		return "", nil, s.verifyErr
	}
	return s.verifyUID, s.verifyClaims, nil
}

type stubUserRepo struct {
	calls []string

	created       *domain.User
	updatedUID    string
	updatedFields map[string]any
	deletedUID    string
	listFilter    ports.ListUsersFilter
	listResult    []*domain.User
	allResult     []*domain.User

	createErr error
	updateErr error
	deleteErr error
	listErr   error
	allErr    error
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) error {
	r.calls = append(r.calls, "create")
	if r.createErr != nil {
		return r.createErr
	}
	r.created = u
	return nil
}

func (r *stubUserRepo) UpdateFields(_ context.Context, uid string, fields map[string]any) error {
	r.calls = append(r.calls, "update")
	if r.updateErr != nil {
		return r.updateErr
	}
	r.updatedUID = uid
	r.updatedFields = fields
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, uid string) error {
	r.calls = append(r.calls, "delete")
	if r.deleteErr != nil {
		return r.deleteErr
	}
	r.deletedUID = uid
	return nil
}

func (r *stubUserRepo) List(_ context.Context, filter ports.ListUsersFilter) ([]*domain.User, error) {
	r.calls = append(r.calls, "list")
	if r.listErr != nil {
		return nil, r.listErr
	}
	r.listFilter = filter
	return r.listResult, nil
}

func (r *stubUserRepo) All(_ context.Context, fn func(*domain.User) error) error {
	r.calls = append(r.calls, "all")
	if r.allErr != nil {
		return r.allErr
	}
	for _, u := range r.allResult {
		if err := fn(u); err != nil {
			return err
		}
	}
	return nil
}

type stubRevoker struct {
	revoked []string
}

func (s *stubRevoker) Revoke(_ context.Context, uid string) error {
	s.revoked = append(s.revoked, uid)
	return nil
}

type stubAudit struct {
	actions []string
}

func (s *stubAudit) Record(actorUID, action, targetUID, detail string) {
	s.actions = append(s.actions, action)
}

func newService(identity *stubIdentity, repo *stubUserRepo) (*UserAdminService, *stubRevoker, *stubAudit) {
	revoker := &stubRevoker{}
	audit := &stubAudit{}
	svc := NewUserAdminService(identity, repo, revoker, audit, zerolog.Nop())
	return svc, revoker, audit
}

func str(s string) *string { return &s }

var (
	admin  = domain.Caller{UID: "admin-1", Role: domain.RoleAdmin}
	tenant = domain.Caller{UID: "tenant-1", Role: domain.RoleTenant}
	nobody = domain.Caller{}
)

// --- CreateUser ---

func TestCreateUser_Success(t *testing.T) {
	identity := newStubIdentity()
	repo := &stubUserRepo{}
	svc, _, audit := newService(identity, repo)

	result, err := svc.CreateUser(context.Background(), tenant, ports.CreateUserInput{
		Email:     "a@b.com",
		Password:  "s3cret",
		FirstName: "Ana",
		LastName:  "Reyes",
		UserRole:  domain.RoleTenant,
	})
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}
	if result.UID != "uid-1" {
		t.Fatalf("unexpected uid: %s", result.UID)
	}

	u := repo.created
	if u == nil {
		t.Fatalf("expected record write")
	}
	if u.Username != "a" {
		t.Fatalf("expected username %q, got %q", "a", u.Username)
	}
	if u.PasswordHash != domain.PasswordHashSentinel {
		t.Fatalf("expected sentinel hash, got %q", u.PasswordHash)
	}
	if u.Status != domain.StatusActive {
		t.Fatalf("expected active status, got %q", u.Status)
	}
	if u.CreatedAt.IsZero() || !u.CreatedAt.Equal(u.UpdatedAt) {
		t.Fatalf("expected matching creation timestamps, got %v / %v", u.CreatedAt, u.UpdatedAt)
	}

	if got := identity.claims["uid-1"]["user_role"]; got != domain.RoleTenant {
		t.Fatalf("expected role claim %q, got %q", domain.RoleTenant, got)
	}
	// Account first, then claim, then record.
	want := []string{"create_account", "set_claims"}
	for i, call := range want {
		if identity.calls[i] != call {
			t.Fatalf("unexpected call order: %v", identity.calls)
		}
	}
	if len(audit.actions) != 1 || audit.actions[0] != domain.AuditUserCreated {
		t.Fatalf("unexpected audit trail: %v", audit.actions)
	}
}

func TestCreateUser_Unauthenticated(t *testing.T) {
	identity := newStubIdentity()
	repo := &stubUserRepo{}
	svc, _, _ := newService(identity, repo)

	_, err := svc.CreateUser(context.Background(), nobody, ports.CreateUserInput{
		Email: "a@b.com", Password: "x", FirstName: "A", LastName: "B", UserRole: "tenant",
	})
	if domain.KindOf(err) != domain.KindUnauthenticated {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
	if len(identity.calls) != 0 {
		t.Fatalf("provider should not be called: %v", identity.calls)
	}
}

func TestCreateUser_MissingPassword(t *testing.T) {
	identity := newStubIdentity()
	repo := &stubUserRepo{}
	svc, _, _ := newService(identity, repo)

	_, err := svc.CreateUser(context.Background(), tenant, ports.CreateUserInput{
		Email: "a@b.com", FirstName: "A", LastName: "B", UserRole: "tenant",
	})
	if domain.KindOf(err) != domain.KindInvalidArgument {
		t.Fatalf("expected invalid_argument, got %v", err)
	}
	if len(identity.calls) != 0 {
		t.Fatalf("provider should not be called before validation: %v", identity.calls)
	}
}

func TestCreateUser_EmailTaken(t *testing.T) {
	identity := newStubIdentity()
	identity.createErr = domain.E(domain.KindAlreadyExists, "the email address is already in use by another account")
	repo := &stubUserRepo{}
	svc, _, _ := newService(identity, repo)

	_, err := svc.CreateUser(context.Background(), tenant, ports.CreateUserInput{
		Email: "a@b.com", Password: "x", FirstName: "A", LastName: "B", UserRole: "tenant",
	})
	if domain.KindOf(err) != domain.KindAlreadyExists {
		t.Fatalf("expected already_exists, got %v", err)
	}
	if len(repo.calls) != 0 {
		t.Fatalf("record must not be written: %v", repo.calls)
	}
}

func TestCreateUser_AcceptsAnyRoleString(t *testing.T) {
	// Role validation is enforced only by SetUserRole; Create stores the
	// string as given.
	identity := newStubIdentity()
	repo := &stubUserRepo{}
	svc, _, _ := newService(identity, repo)

	_, err := svc.CreateUser(context.Background(), tenant, ports.CreateUserInput{
		Email: "m@b.com", Password: "x", FirstName: "A", LastName: "B", UserRole: "manager",
	})
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}
	if repo.created.UserRole != "manager" {
		t.Fatalf("expected role stored verbatim, got %q", repo.created.UserRole)
	}
}

// --- SetUserRole ---

func TestSetUserRole_NonAdminDenied(t *testing.T) {
	identity := newStubIdentity()
	repo := &stubUserRepo{}
	svc, _, _ := newService(identity, repo)

	_, err := svc.SetUserRole(context.Background(), tenant, "uid-2", domain.RoleStaff)
	if domain.KindOf(err) != domain.KindPermissionDenied {
		t.Fatalf("expected permission_denied, got %v", err)
	}
	if len(identity.calls) != 0 || len(repo.calls) != 0 {
		t.Fatalf("no collaborator mutation expected: %v %v", identity.calls, repo.calls)
	}
}

func TestSetUserRole_InvalidRole(t *testing.T) {
	identity := newStubIdentity()
	repo := &stubUserRepo{}
	svc, _, _ := newService(identity, repo)

	_, err := svc.SetUserRole(context.Background(), admin, "uid-2", "superuser")
	if domain.KindOf(err) != domain.KindInvalidArgument {
		t.Fatalf("expected invalid_argument, got %v", err)
	}
	if len(identity.calls) != 0 {
		t.Fatalf("provider should not be called: %v", identity.calls)
	}
}

func TestSetUserRole_Success(t *testing.T) {
	identity := newStubIdentity()
	repo := &stubUserRepo{}
	svc, _, audit := newService(identity, repo)

	result, err := svc.SetUserRole(context.Background(), admin, "uid-2", domain.RoleStaff)
	if err != nil {
		t.Fatalf("SetUserRole returned error: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected success")
	}
	if got := identity.claims["uid-2"]["user_role"]; got != domain.RoleStaff {
		t.Fatalf("expected claim update, got %q", got)
	}
	if repo.updatedUID != "uid-2" || repo.updatedFields["user_role"] != domain.RoleStaff {
		t.Fatalf("unexpected record update: %s %v", repo.updatedUID, repo.updatedFields)
	}
	if len(audit.actions) != 1 || audit.actions[0] != domain.AuditRoleChanged {
		t.Fatalf("unexpected audit trail: %v", audit.actions)
	}
}

// --- DeleteUser ---

func TestDeleteUser_SelfTargetDenied(t *testing.T) {
	identity := newStubIdentity()
	repo := &stubUserRepo{}
	svc, _, _ := newService(identity, repo)

	_, err := svc.DeleteUser(context.Background(), admin, admin.UID)
	if domain.KindOf(err) != domain.KindPermissionDenied {
		t.Fatalf("expected permission_denied for self-delete, got %v", err)
	}
	if len(identity.calls) != 0 || len(repo.calls) != 0 {
		t.Fatalf("no collaborator mutation expected: %v %v", identity.calls, repo.calls)
	}
}

func TestDeleteUser_NonAdminDenied(t *testing.T) {
	identity := newStubIdentity()
	repo := &stubUserRepo{}
	svc, _, _ := newService(identity, repo)

	_, err := svc.DeleteUser(context.Background(), tenant, "uid-2")
	if domain.KindOf(err) != domain.KindPermissionDenied {
		t.Fatalf("expected permission_denied, got %v", err)
	}
}

func TestDeleteUser_Success(t *testing.T) {
	identity := newStubIdentity()
	repo := &stubUserRepo{}
	svc, revoker, audit := newService(identity, repo)

	result, err := svc.DeleteUser(context.Background(), admin, "uid-2")
	if err != nil {
		t.Fatalf("DeleteUser returned error: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected success")
	}
	if repo.deletedUID != "uid-2" {
		t.Fatalf("expected record deletion, got %q", repo.deletedUID)
	}
	if len(revoker.revoked) != 1 || revoker.revoked[0] != "uid-2" {
		t.Fatalf("expected credential revocation: %v", revoker.revoked)
	}
	if len(audit.actions) != 1 || audit.actions[0] != domain.AuditUserDeleted {
		t.Fatalf("unexpected audit trail: %v", audit.actions)
	}
}

func TestDeleteUser_AccountNotFound(t *testing.T) {
	identity := newStubIdentity()
	identity.deleteErr = domain.E(domain.KindNotFound, "user not found")
	repo := &stubUserRepo{}
	svc, _, _ := newService(identity, repo)

	_, err := svc.DeleteUser(context.Background(), admin, "ghost")
	if domain.KindOf(err) != domain.KindNotFound {
		t.Fatalf("expected not_found, got %v", err)
	}
	if len(repo.calls) != 0 {
		t.Fatalf("record must not be touched when account deletion fails: %v", repo.calls)
	}
}

// --- ListUsers ---

func TestListUsers_NonAdminDenied(t *testing.T) {
	identity := newStubIdentity()
	repo := &stubUserRepo{}
	svc, _, _ := newService(identity, repo)

	_, err := svc.ListUsers(context.Background(), tenant, ports.ListUsersInput{})
	if domain.KindOf(err) != domain.KindPermissionDenied {
		t.Fatalf("expected permission_denied, got %v", err)
	}
	if len(repo.calls) != 0 {
		t.Fatalf("no query expected: %v", repo.calls)
	}
}

func TestListUsers_DefaultLimitAndHashStripping(t *testing.T) {
	identity := newStubIdentity()
	repo := &stubUserRepo{
		listResult: []*domain.User{
			{ID: "u1", FirstName: "Ana", PasswordHash: domain.PasswordHashSentinel},
			{ID: "u2", FirstName: "Ben", PasswordHash: domain.PasswordHashSentinel},
		},
	}
	svc, _, _ := newService(identity, repo)

	result, err := svc.ListUsers(context.Background(), admin, ports.ListUsersInput{})
	if err != nil {
		t.Fatalf("ListUsers returned error: %v", err)
	}
	if repo.listFilter.Limit != 100 {
		t.Fatalf("expected default limit 100, got %d", repo.listFilter.Limit)
	}
	if result.Count != 2 {
		t.Fatalf("expected count 2, got %d", result.Count)
	}
	for _, u := range result.Users {
		if u.PasswordHash != "" {
			t.Fatalf("password hash leaked for %s", u.ID)
		}
	}
}

func TestListUsers_FiltersPassedThrough(t *testing.T) {
	identity := newStubIdentity()
	repo := &stubUserRepo{}
	svc, _, _ := newService(identity, repo)

	_, err := svc.ListUsers(context.Background(), admin, ports.ListUsersInput{
		BuildingID: "bldg-7",
		Role:       domain.RoleTenant,
		Limit:      10,
	})
	if err != nil {
		t.Fatalf("ListUsers returned error: %v", err)
	}
	if repo.listFilter.BuildingID != "bldg-7" || repo.listFilter.Role != domain.RoleTenant || repo.listFilter.Limit != 10 {
		t.Fatalf("unexpected filter: %+v", repo.listFilter)
	}
}

// --- UpdateProfile ---

func TestUpdateProfile_StrangerDenied(t *testing.T) {
	identity := newStubIdentity()
	repo := &stubUserRepo{}
	svc, _, _ := newService(identity, repo)

	_, err := svc.UpdateProfile(context.Background(), tenant, ports.UpdateProfileInput{
		TargetUID:  "someone-else",
		UpdateData: map[string]any{"first_name": "X"},
	})
	if domain.KindOf(err) != domain.KindPermissionDenied {
		t.Fatalf("expected permission_denied, got %v", err)
	}
	if len(repo.calls) != 0 {
		t.Fatalf("no update expected: %v", repo.calls)
	}
}

func TestUpdateProfile_SelfCannotEscalateRole(t *testing.T) {
	identity := newStubIdentity()
	repo := &stubUserRepo{}
	svc, _, _ := newService(identity, repo)

	result, err := svc.UpdateProfile(context.Background(), tenant, ports.UpdateProfileInput{
		TargetUID:  tenant.UID,
		UpdateData: map[string]any{"user_role": "admin", "first_name": "X"},
	})
	if err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected success")
	}
	if _, ok := repo.updatedFields["user_role"]; ok {
		t.Fatalf("user_role must be dropped for non-admin: %v", repo.updatedFields)
	}
	if repo.updatedFields["first_name"] != "X" {
		t.Fatalf("first_name should be applied: %v", repo.updatedFields)
	}
	if len(identity.calls) != 0 {
		t.Fatalf("claims must not be touched: %v", identity.calls)
	}
}

func TestUpdateProfile_AdminRoleChangeSyncsClaim(t *testing.T) {
	identity := newStubIdentity()
	repo := &stubUserRepo{}
	svc, _, _ := newService(identity, repo)

	_, err := svc.UpdateProfile(context.Background(), admin, ports.UpdateProfileInput{
		TargetUID:  "uid-2",
		UpdateData: map[string]any{"user_role": domain.RoleStaff},
	})
	if err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}
	if repo.updatedFields["user_role"] != domain.RoleStaff {
		t.Fatalf("record update missing role: %v", repo.updatedFields)
	}
	if got := identity.claims["uid-2"]["user_role"]; got != domain.RoleStaff {
		t.Fatalf("expected claim sync, got %q", got)
	}
}

func TestUpdateProfile_EmptyAllowedSetStillSucceeds(t *testing.T) {
	identity := newStubIdentity()
	repo := &stubUserRepo{}
	svc, _, _ := newService(identity, repo)

	result, err := svc.UpdateProfile(context.Background(), tenant, ports.UpdateProfileInput{
		TargetUID:  tenant.UID,
		UpdateData: map[string]any{"email": "new@b.com", "id": "forged"},
	})
	if err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected success")
	}
	if len(repo.updatedFields) != 0 {
		t.Fatalf("expected empty filtered update, got %v", repo.updatedFields)
	}
	if len(repo.calls) != 1 || repo.calls[0] != "update" {
		t.Fatalf("updated_at stamp still expected: %v", repo.calls)
	}
}

func TestUpdateProfile_MissingPayload(t *testing.T) {
	identity := newStubIdentity()
	repo := &stubUserRepo{}
	svc, _, _ := newService(identity, repo)

	_, err := svc.UpdateProfile(context.Background(), tenant, ports.UpdateProfileInput{TargetUID: tenant.UID})
	if domain.KindOf(err) != domain.KindInvalidArgument {
		t.Fatalf("expected invalid_argument, got %v", err)
	}
}

// --- GetStatistics ---

func TestGetStatistics_NonAdminDenied(t *testing.T) {
	identity := newStubIdentity()
	repo := &stubUserRepo{}
	svc, _, _ := newService(identity, repo)

	_, err := svc.GetStatistics(context.Background(), tenant)
	if domain.KindOf(err) != domain.KindPermissionDenied {
		t.Fatalf("expected permission_denied, got %v", err)
	}
	if len(repo.calls) != 0 {
		t.Fatalf("no scan expected: %v", repo.calls)
	}
}

func TestGetStatistics_Aggregates(t *testing.T) {
	identity := newStubIdentity()
	repo := &stubUserRepo{
		allResult: []*domain.User{
			{UserRole: "admin", Status: "active", BuildingID: str("b1")},
			{UserRole: "admin", Status: "active", BuildingID: str("b1")},
			{UserRole: "admin", Status: "active"},
			{UserRole: "staff", Status: "active", BuildingID: str("b2")},
			{UserRole: "staff", Status: "active"},
			{UserRole: "tenant", Status: "suspended", BuildingID: str("b2")},
		},
	}
	svc, _, _ := newService(identity, repo)

	stats, err := svc.GetStatistics(context.Background(), admin)
	if err != nil {
		t.Fatalf("GetStatistics returned error: %v", err)
	}
	if stats.Total != 6 {
		t.Fatalf("expected total 6, got %d", stats.Total)
	}
	if stats.ByRole["admin"] != 3 || stats.ByRole["staff"] != 2 || stats.ByRole["tenant"] != 1 {
		t.Fatalf("unexpected byRole: %v", stats.ByRole)
	}
	if stats.ByStatus["active"] != 5 || stats.ByStatus["suspended"] != 1 {
		t.Fatalf("unexpected byStatus: %v", stats.ByStatus)
	}
	if stats.ByBuilding["b1"] != 2 || stats.ByBuilding["b2"] != 2 {
		t.Fatalf("unexpected byBuilding: %v", stats.ByBuilding)
	}
	if len(stats.ByBuilding) != 2 {
		t.Fatalf("byBuilding must only contain observed ids: %v", stats.ByBuilding)
	}
}

func TestGetStatistics_DynamicBuckets(t *testing.T) {
	identity := newStubIdentity()
	repo := &stubUserRepo{
		allResult: []*domain.User{
			{UserRole: "contractor", Status: "archived"},
		},
	}
	svc, _, _ := newService(identity, repo)

	stats, err := svc.GetStatistics(context.Background(), admin)
	if err != nil {
		t.Fatalf("GetStatistics returned error: %v", err)
	}
	if stats.ByRole["contractor"] != 1 || stats.ByRole["admin"] != 0 {
		t.Fatalf("unexpected byRole: %v", stats.ByRole)
	}
	if stats.ByStatus["archived"] != 1 || stats.ByStatus["active"] != 0 {
		t.Fatalf("unexpected byStatus: %v", stats.ByStatus)
	}
}
