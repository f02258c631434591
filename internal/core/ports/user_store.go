package ports

import (
	"context"

	"github.com/99minutos/admin-console/internal/core/domain"
)

// UserStore is the authoritative user collection.
//
// Every method returns copies; mutating a returned value never changes the
// store. Mutations are visible to every subsequent read.
type UserStore interface {
	// ListUsers returns a snapshot of every user. Order is stable between
	// calls with no intervening mutation but carries no other meaning.
	ListUsers(ctx context.Context) ([]domain.User, error)
	FindUser(ctx context.Context, id string) (domain.User, error)
	FindUserByEmail(ctx context.Context, email string) (domain.User, error)
	// InsertUser assigns a fresh ID and CreatedAt and stores the record.
	InsertUser(ctx context.Context, u domain.User) (domain.User, error)
	// UpdateUser merges patch into the record; domain.ErrUserNotFound when absent.
	UpdateUser(ctx context.Context, id string, patch domain.UserPatch) (domain.User, error)
	// DeleteUser reports whether a record was actually removed.
	DeleteUser(ctx context.Context, id string) (bool, error)
}

// RoleStore is the authoritative role collection.
type RoleStore interface {
	ListRoles(ctx context.Context) ([]domain.Role, error)
	FindRole(ctx context.Context, id string) (domain.Role, error)
	// FindRoleByName matches case-insensitively.
	FindRoleByName(ctx context.Context, name string) (domain.Role, error)
	// InsertRole rejects short names, duplicate names and empty permission
	// sets with domain.ValidationErrors, leaving the collection unchanged.
	InsertRole(ctx context.Context, r domain.Role) (domain.Role, error)
	UpdateRole(ctx context.Context, id string, patch domain.RolePatch) (domain.Role, error)
	DeleteRole(ctx context.Context, id string) (bool, error)
}

// IdempotencyStore remembers which record a client-supplied Idempotency-Key
// produced so a retried create returns the original record.
type IdempotencyStore interface {
	Lookup(ctx context.Context, key string) (string, bool, error)
	Remember(ctx context.Context, key, id string) error
}
