package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/99minutos/admin-console/internal/core/domain"
	"github.com/99minutos/admin-console/internal/core/ports"
	"github.com/99minutos/admin-console/internal/core/validate"
)

// RoleService manages roles and answers permission checks.
type RoleService struct {
	roles     ports.RoleStore
	users     ports.UserStore
	validator *validate.Validator
	logger    zerolog.Logger
}

func NewRoleService(roles ports.RoleStore, users ports.UserStore, logger zerolog.Logger) *RoleService {
	return &RoleService{
		roles:     roles,
		users:     users,
		validator: validate.New(),
		logger:    logger,
	}
}

func (s *RoleService) ListRoles(ctx context.Context) ([]domain.Role, error) {
	roles, err := s.roles.ListRoles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	return roles, nil
}

func (s *RoleService) GetRole(ctx context.Context, id string) (*domain.Role, error) {
	r, err := s.roles.FindRole(ctx, id)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *RoleService) CreateRole(ctx context.Context, in ports.RoleInput) (*domain.Role, error) {
	if err := s.validator.Struct(roleForm(in)); err != nil {
		return nil, err
	}

	created, err := s.roles.InsertRole(ctx, domain.Role{
		Name:        in.Name,
		Description: in.Description,
		Permissions: in.Permissions,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("role_id", created.ID).Str("name", created.Name).Msg("role created")
	return &created, nil
}

// UpdateRole replaces name, description and permissions of a role. The
// protected role is rejected before anything is written.
func (s *RoleService) UpdateRole(ctx context.Context, id string, in ports.RoleInput) (*domain.Role, error) {
	if err := s.validator.Struct(roleForm(in)); err != nil {
		return nil, err
	}
	current, err := s.roles.FindRole(ctx, id)
	if err != nil {
		return nil, err
	}
	if domain.IsProtectedRole(current) || domain.IsProtectedRole(domain.Role{Name: in.Name}) {
		s.logger.Warn().Str("role_id", id).Msg("update rejected: protected role")
		return nil, domain.ErrProtectedRole
	}

	updated, err := s.roles.UpdateRole(ctx, id, domain.RolePatch{
		Name:        &in.Name,
		Description: &in.Description,
		Permissions: in.Permissions,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("role_id", id).Msg("role updated")
	return &updated, nil
}

// SetPermission grants or revokes a single permission key. Revoking the last
// permission is rejected and leaves the role unchanged.
func (s *RoleService) SetPermission(ctx context.Context, id, permission string, enabled bool) (*domain.Role, error) {
	if !domain.IsKnownPermission(permission) {
		return nil, domain.NewValidationError("permission", fmt.Sprintf("%q is not a known permission", permission))
	}
	current, err := s.roles.FindRole(ctx, id)
	if err != nil {
		return nil, err
	}
	if domain.IsProtectedRole(current) {
		return nil, domain.ErrProtectedRole
	}
	if current.Has(permission) == enabled {
		return &current, nil
	}

	next := current.WithPermission(permission, enabled)
	if len(next.Permissions) == 0 {
		return nil, domain.NewValidationError("permissions", "At least one permission is required.")
	}
	updated, err := s.roles.UpdateRole(ctx, id, domain.RolePatch{Permissions: next.Permissions})
	if err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("role_id", id).
		Str("permission", permission).
		Bool("enabled", enabled).
		Msg("role permission changed")
	return &updated, nil
}

// DeleteRole removes a role that no user references.
func (s *RoleService) DeleteRole(ctx context.Context, id string) (ports.DeleteResult, error) {
	current, err := s.roles.FindRole(ctx, id)
	if isNotFound(err) {
		s.logger.Info().Str("role_id", id).Msg("delete: role already absent")
		return ports.DeleteResult{ID: id}, nil
	}
	if err != nil {
		return ports.DeleteResult{ID: id}, err
	}
	if domain.IsProtectedRole(current) {
		return ports.DeleteResult{ID: id}, domain.ErrProtectedRole
	}

	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return ports.DeleteResult{ID: id}, fmt.Errorf("check role usage: %w", err)
	}
	for _, u := range users {
		if u.RoleID == id {
			return ports.DeleteResult{ID: id}, domain.ErrRoleInUse
		}
	}

	deleted, err := s.roles.DeleteRole(ctx, id)
	if err != nil {
		return ports.DeleteResult{ID: id}, err
	}
	s.logger.Info().Str("role_id", id).Bool("deleted", deleted).Msg("role deleted")
	return ports.DeleteResult{ID: id, Deleted: deleted}, nil
}

// HasPermission reports whether roleID grants permission. The protected role
// grants everything; an unknown role grants nothing.
func (s *RoleService) HasPermission(ctx context.Context, roleID, permission string) (bool, error) {
	r, err := s.roles.FindRole(ctx, roleID)
	if isNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return domain.IsProtectedRole(r) || r.Has(permission), nil
}

func roleForm(in ports.RoleInput) validate.RoleForm {
	return validate.RoleForm{
		Name:        in.Name,
		Description: in.Description,
		Permissions: in.Permissions,
	}
}
