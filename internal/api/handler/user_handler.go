package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/AssetAkire/Capstone-FacilityFix/internal/api/metrics"
	"github.com/AssetAkire/Capstone-FacilityFix/internal/core/domain"
	"github.com/AssetAkire/Capstone-FacilityFix/internal/core/ports"
)

// UserAdminHandler exposes the six gateway operations over HTTP. All error
// rendering is delegated to the central HTTPErrorHandler.
type UserAdminHandler struct {
	service ports.UserAdminService
}

func NewUserAdminHandler(service ports.UserAdminService) *UserAdminHandler {
	return &UserAdminHandler{service: service}
}

// Create handles POST /v1/users.
//
// @Summary      Create a user with a role claim
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "User details"
// @Success      201   {object}  createUserResponse
// @Failure      400   {object}  map[string]any
// @Failure      401   {object}  map[string]any
// @Failure      409   {object}  map[string]any
// @Failure      500   {object}  map[string]any
// @Router       /v1/users [post]
func (h *UserAdminHandler) Create(c echo.Context) error {
	defer track("create_user", time.Now())

	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return record("create_user", domain.E(domain.KindInvalidArgument, "invalid payload"))
	}
	if err := c.Validate(&req); err != nil {
		return record("create_user", domain.E(domain.KindInvalidArgument, err.Error()))
	}

	result, err := h.service.CreateUser(c.Request().Context(), ctxCaller(c), ports.CreateUserInput{
		Email:      req.Email,
		Password:   req.Password,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		UserRole:   req.UserRole,
		BuildingID: req.BuildingID,
		UnitID:     req.UnitID,
	})
	if err != nil {
		return record("create_user", err)
	}

	metrics.OperationsTotal.WithLabelValues("create_user", "ok").Inc()
	metrics.UsersCreatedTotal.WithLabelValues(req.UserRole).Inc()
	return c.JSON(http.StatusCreated, createUserResponse{UID: result.UID, Message: result.Message})
}

// SetRole handles POST /v1/users/:uid/role.
//
// @Summary      Assign a role to a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        uid   path      string              true  "Target uid"
// @Param        body  body      setUserRoleRequest  true  "New role (admin, staff, tenant)"
// @Success      200   {object}  confirmResponse
// @Failure      400   {object}  map[string]any
// @Failure      403   {object}  map[string]any
// @Failure      500   {object}  map[string]any
// @Router       /v1/users/{uid}/role [post]
func (h *UserAdminHandler) SetRole(c echo.Context) error {
	defer track("set_user_role", time.Now())

	var req setUserRoleRequest
	if err := c.Bind(&req); err != nil {
		return record("set_user_role", domain.E(domain.KindInvalidArgument, "invalid payload"))
	}

	result, err := h.service.SetUserRole(c.Request().Context(), ctxCaller(c), c.Param("uid"), req.NewRole)
	if err != nil {
		return record("set_user_role", err)
	}

	metrics.OperationsTotal.WithLabelValues("set_user_role", "ok").Inc()
	return c.JSON(http.StatusOK, confirmResponse{Success: result.Success, Message: result.Message})
}

// Delete handles DELETE /v1/users/:uid.
//
// @Summary      Delete a user and their record
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        uid  path      string  true  "Target uid"
// @Success      200  {object}  confirmResponse
// @Failure      400  {object}  map[string]any
// @Failure      403  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Failure      500  {object}  map[string]any
// @Router       /v1/users/{uid} [delete]
func (h *UserAdminHandler) Delete(c echo.Context) error {
	defer track("delete_user", time.Now())

	result, err := h.service.DeleteUser(c.Request().Context(), ctxCaller(c), c.Param("uid"))
	if err != nil {
		return record("delete_user", err)
	}

	metrics.OperationsTotal.WithLabelValues("delete_user", "ok").Inc()
	return c.JSON(http.StatusOK, confirmResponse{Success: result.Success, Message: result.Message})
}

// List handles GET /v1/users.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        building_id  query     string  false  "Filter by building id"
// @Param        role         query     string  false  "Filter by role"
// @Param        limit        query     int     false  "Result cap (default 100)"
// @Success      200          {object}  listUsersResponse
// @Failure      403          {object}  map[string]any
// @Failure      500          {object}  map[string]any
// @Router       /v1/users [get]
func (h *UserAdminHandler) List(c echo.Context) error {
	defer track("list_users", time.Now())

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return record("list_users", domain.E(domain.KindInvalidArgument, "limit must be an integer"))
		}
		limit = n
	}

	result, err := h.service.ListUsers(c.Request().Context(), ctxCaller(c), ports.ListUsersInput{
		BuildingID: c.QueryParam("building_id"),
		Role:       c.QueryParam("role"),
		Limit:      limit,
	})
	if err != nil {
		return record("list_users", err)
	}

	metrics.OperationsTotal.WithLabelValues("list_users", "ok").Inc()
	return c.JSON(http.StatusOK, listUsersResponse{Users: result.Users, Count: result.Count})
}

// UpdateProfile handles PATCH /v1/users/:uid. The body is the partial update
// map; fields outside the caller's allow-list are silently dropped.
//
// @Summary      Update a user profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        uid   path      string          true  "Target uid"
// @Param        body  body      map[string]any  true  "Partial update, keyed by field name"
// @Success      200   {object}  confirmResponse
// @Failure      400   {object}  map[string]any
// @Failure      401   {object}  map[string]any
// @Failure      403   {object}  map[string]any
// @Failure      500   {object}  map[string]any
// @Router       /v1/users/{uid} [patch]
func (h *UserAdminHandler) UpdateProfile(c echo.Context) error {
	defer track("update_profile", time.Now())

	var updateData map[string]any
	if err := c.Bind(&updateData); err != nil {
		return record("update_profile", domain.E(domain.KindInvalidArgument, "invalid payload"))
	}

	result, err := h.service.UpdateProfile(c.Request().Context(), ctxCaller(c), ports.UpdateProfileInput{
		TargetUID:  c.Param("uid"),
		UpdateData: updateData,
	})
	if err != nil {
		return record("update_profile", err)
	}

	metrics.OperationsTotal.WithLabelValues("update_profile", "ok").Inc()
	return c.JSON(http.StatusOK, confirmResponse{Success: result.Success, Message: result.Message})
}

// Statistics handles GET /v1/users/statistics.
//
// @Summary      Aggregate user statistics
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.UserStatistics
// @Failure      403  {object}  map[string]any
// @Failure      500  {object}  map[string]any
// @Router       /v1/users/statistics [get]
func (h *UserAdminHandler) Statistics(c echo.Context) error {
	defer track("get_statistics", time.Now())

	stats, err := h.service.GetStatistics(c.Request().Context(), ctxCaller(c))
	if err != nil {
		return record("get_statistics", err)
	}

	metrics.OperationsTotal.WithLabelValues("get_statistics", "ok").Inc()
	return c.JSON(http.StatusOK, stats)
}

// record counts a failed operation under its outcome bucket and passes the
// error through to the central handler.
func record(operation string, err error) error {
	outcome := "error"
	switch domain.KindOf(err) {
	case domain.KindUnauthenticated, domain.KindPermissionDenied:
		outcome = "denied"
	case domain.KindInvalidArgument:
		outcome = "invalid"
	}
	metrics.OperationsTotal.WithLabelValues(operation, outcome).Inc()
	return err
}

// track observes the operation duration from start to handler return.
func track(operation string, start time.Time) {
	metrics.OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
