package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/AssetAkire/Capstone-FacilityFix/internal/core/domain"
)

// ctxCaller extracts the caller identity injected by the Auth middleware.
// An empty UID means the middleware did not run (public route hitting an
// authenticated handler) and the service layer will reject the call as
// unauthenticated, so no fast-fail is needed here.
func ctxCaller(c echo.Context) domain.Caller {
	uid, _ := c.Get("uid").(string)
	role, _ := c.Get("user_role").(string)
	return domain.Caller{UID: uid, Role: role}
}
