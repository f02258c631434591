package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/99minutos/admin-console/internal/core/domain"
	"github.com/99minutos/admin-console/internal/core/ports"
)

// AccountLookup resolves a token subject to the current user record.
// ports.AccountService satisfies it.
type AccountLookup interface {
	Profile(ctx context.Context, userID string) (*ports.UserView, error)
}

// Auth validates the JWT, then re-reads the subject so deleted or deactivated
// accounts lose access immediately. It injects the caller's user_id, current
// role_id and email into the context.
func Auth(jwtSecret string, accounts AccountLookup) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			sub, _ := claims.GetSubject()
			if sub == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "token missing subject")
			}

			user, err := accounts.Profile(c.Request().Context(), sub)
			if errors.Is(err, domain.ErrUserNotFound) {
				return echo.NewHTTPError(http.StatusUnauthorized, "account no longer exists")
			}
			if err != nil {
				return err
			}
			if user.Status != domain.StatusActive {
				return echo.NewHTTPError(http.StatusForbidden, "account is not active")
			}

			c.Set("user_id", user.ID)
			c.Set("role_id", user.RoleID)
			c.Set("email", user.Email)

			return next(c)
		}
	}
}
