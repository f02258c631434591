package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/admin-console/internal/core/domain"
)

func TestHTTPErrorHandler_StatusMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"echo error", echo.NewHTTPError(http.StatusUnauthorized, "invalid token"), http.StatusUnauthorized, "invalid token"},
		{"validation", domain.NewValidationError("email", "Invalid email address."), http.StatusUnprocessableEntity, "validation failed"},
		{"user not found", fmt.Errorf("get user: %w", domain.ErrUserNotFound), http.StatusNotFound, "user not found"},
		{"role not found", domain.ErrRoleNotFound, http.StatusNotFound, "role not found"},
		{"duplicate email", domain.ErrDuplicateEmail, http.StatusConflict, "email already exists"},
		{"role in use", domain.ErrRoleInUse, http.StatusConflict, "role is assigned to users"},
		{"protected role", domain.ErrProtectedRole, http.StatusForbidden, "the Admin role cannot be modified"},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, "access forbidden"},
		{"incorrect password", domain.ErrIncorrectPassword, http.StatusBadRequest, "incorrect current password"},
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
		{"transient", fmt.Errorf("list users: %w", domain.ErrTransient), http.StatusServiceUnavailable, domain.ErrTransient.Error()},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			NewHTTPErrorHandler(zerolog.Nop())(tt.err, c)

			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}
			var resp errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp.Error != tt.wantMsg {
				t.Fatalf("expected %q, got %q", tt.wantMsg, resp.Error)
			}
		})
	}
}

func TestHTTPErrorHandler_ValidationFields(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/users", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := domain.ValidationErrors{
		{Field: "name", Message: "Name must be at least 2 characters."},
		{Field: "confirmPassword", Message: "Passwords don't match"},
	}
	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Fields["confirmPassword"] != "Passwords don't match" || len(resp.Fields) != 2 {
		t.Fatalf("unexpected fields: %+v", resp.Fields)
	}
}

func TestHTTPErrorHandler_Head(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodHead, "/v1/users/usr_404", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(domain.ErrUserNotFound, c)

	if rec.Code != http.StatusNotFound || rec.Body.Len() != 0 {
		t.Fatalf("expected bare 404, got %d %q", rec.Code, rec.Body.String())
	}
}
