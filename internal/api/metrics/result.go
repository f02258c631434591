package metrics

import (
	"errors"

	"github.com/99minutos/admin-console/internal/core/domain"
)

// Result maps a command error to the low-cardinality result label.
func Result(err error) string {
	if err == nil {
		return "ok"
	}
	if _, ok := domain.AsValidation(err); ok {
		return "invalid"
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrProtectedRole):
		return "protected"
	case errors.Is(err, domain.ErrDuplicateEmail), errors.Is(err, domain.ErrRoleInUse):
		return "conflict"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrIncorrectPassword):
		return "incorrect_password"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	default:
		return "error"
	}
}
