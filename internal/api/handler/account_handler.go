package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/admin-console/internal/api/metrics"
	"github.com/99minutos/admin-console/internal/core/ports"
)

// AccountHandler serves the signed-in user's settings page.
type AccountHandler struct {
	accounts ports.AccountService
}

func NewAccountHandler(accounts ports.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// Me handles GET /v1/me.
//
// @Summary      Current user's profile
// @Tags         account
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/me [get]
func (h *AccountHandler) Me(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}
	user, err := h.accounts.Profile(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// UpdateProfile handles PATCH /v1/me.
//
// @Summary      Update the current user's profile
// @Tags         account
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      profileRequest  true  "Name, department, location"
// @Success      200   {object}  userResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/me [patch]
func (h *AccountHandler) UpdateProfile(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}
	var req profileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}

	user, err := h.accounts.UpdateProfile(c.Request().Context(), userID, ports.ProfileInput{
		Name:       req.Name,
		Department: req.Department,
		Location:   req.Location,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// ChangePassword handles POST /v1/me/password.
//
// @Summary      Change the current user's password
// @Tags         account
// @Accept       json
// @Security     BearerAuth
// @Param        body  body  passwordChangeRequest  true  "Current and new password"
// @Success      204
// @Failure      400  {object}  errorResponse  "Incorrect current password"
// @Failure      422  {object}  errorResponse
// @Router       /v1/me/password [post]
func (h *AccountHandler) ChangePassword(c echo.Context) error {
	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}
	var req passwordChangeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}

	err = h.accounts.ChangePassword(c.Request().Context(), userID, ports.PasswordChangeInput{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmPassword,
	})
	metrics.PasswordChangesTotal.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
