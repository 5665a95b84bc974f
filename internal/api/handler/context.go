package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxIdentity extracts the identity injected by the Auth middleware. An
// empty jti or zero user id means the middleware did not run; reject with
// 401 before any service call.
func ctxIdentity(c echo.Context) (userID int64, jti string, err error) {
	userID, _ = c.Get("user_id").(int64)
	jti, _ = c.Get("jti").(string)
	if userID == 0 || jti == "" {
		return 0, "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return userID, jti, nil
}
