package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxClaims extracts the auth claims injected by the Auth middleware and
// fails fast when they are missing: a token without a subject is structurally
// valid but cannot identify the caller.
func ctxClaims(c echo.Context) (userID, roleID string, err error) {
	userID, _ = c.Get("user_id").(string)
	if userID == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	roleID, _ = c.Get("role_id").(string)
	return userID, roleID, nil
}
