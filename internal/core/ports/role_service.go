package ports

import (
	"context"

	"github.com/99minutos/admin-console/internal/core/domain"
)

// RoleInput is the raw payload of the role form.
type RoleInput struct {
	Name        string
	Description string
	Permissions []string
}

// RoleService is the query and command surface for roles.
type RoleService interface {
	ListRoles(ctx context.Context) ([]domain.Role, error)
	GetRole(ctx context.Context, id string) (*domain.Role, error)
	CreateRole(ctx context.Context, in RoleInput) (*domain.Role, error)
	UpdateRole(ctx context.Context, id string, in RoleInput) (*domain.Role, error)
	SetPermission(ctx context.Context, id, permission string, enabled bool) (*domain.Role, error)
	DeleteRole(ctx context.Context, id string) (DeleteResult, error)
	HasPermission(ctx context.Context, roleID, permission string) (bool, error)
}
