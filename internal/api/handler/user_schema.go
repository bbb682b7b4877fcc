package handler

import "github.com/AssetAkire/Capstone-FacilityFix/internal/core/domain"

// createUserRequest carries everything needed to provision a user. Role is a
// free string at this boundary; only the role-assignment endpoint enforces
// the closed set.
type createUserRequest struct {
	Email      string  `json:"email"       validate:"required,email"`
	Password   string  `json:"password"    validate:"required"`
	FirstName  string  `json:"first_name"  validate:"required"`
	LastName   string  `json:"last_name"   validate:"required"`
	UserRole   string  `json:"user_role"   validate:"required"`
	BuildingID *string `json:"building_id"`
	UnitID     *string `json:"unit_id"`
}

type createUserResponse struct {
	UID     string `json:"uid"`
	Message string `json:"message"`
}

type setUserRoleRequest struct {
	NewRole string `json:"new_role" validate:"required"`
}

// confirmResponse is the shared success envelope for mutations that return
// no entity data.
type confirmResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type listUsersResponse struct {
	Users []*domain.User `json:"users"`
	Count int            `json:"count"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string `json:"token"`
}
