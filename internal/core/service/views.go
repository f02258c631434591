package service

import (
	"context"
	"fmt"

	"github.com/99minutos/admin-console/internal/core/domain"
	"github.com/99minutos/admin-console/internal/core/ports"
)

// roleNames loads every role once and resolves ids to names for a request.
func roleNames(ctx context.Context, roles ports.RoleStore) (map[string]string, error) {
	list, err := roles.ListRoles(ctx)
	if err != nil {
		return nil, fmt.Errorf("load roles: %w", err)
	}
	names := make(map[string]string, len(list))
	for _, r := range list {
		names[r.ID] = r.Name
	}
	return names, nil
}

func toUserView(u domain.User, roleName string) ports.UserView {
	return ports.UserView{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		RoleID:     u.RoleID,
		Role:       roleName,
		Status:     u.Status,
		Department: u.Department,
		Location:   u.Location,
		CreatedAt:  u.CreatedAt,
		LastLogin:  u.LastLogin,
	}
}

// viewOf resolves a single user's role and renders it.
func viewOf(ctx context.Context, roles ports.RoleStore, u domain.User) (*ports.UserView, error) {
	name := ""
	r, err := roles.FindRole(ctx, u.RoleID)
	switch {
	case err == nil:
		name = r.Name
	case !isNotFound(err):
		return nil, fmt.Errorf("resolve role: %w", err)
	}
	v := toUserView(u, name)
	return &v, nil
}

func ptr[T any](v T) *T { return &v }
