package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/99minutos/admin-console/internal/core/domain"
	"github.com/99minutos/admin-console/internal/core/ports"
	"github.com/99minutos/admin-console/internal/infrastructure/memory"
)

func newRoleService(t *testing.T) (*RoleService, *memory.Store) {
	t.Helper()
	store := memory.NewSeededStore(memory.Options{})
	return NewRoleService(store, store, zerolog.Nop()), store
}

func TestRoleService_CreateRole_Success(t *testing.T) {
	svc, store := newRoleService(t)

	role, err := svc.CreateRole(context.Background(), ports.RoleInput{
		Name:        "Auditor",
		Description: "Reads the audit log",
		Permissions: []string{domain.PermAuditLogView, domain.PermDashboardView},
	})
	if err != nil {
		t.Fatalf("CreateRole returned error: %v", err)
	}
	if role.ID == "" {
		t.Fatalf("expected generated id")
	}
	if role.Permissions[0] != domain.PermDashboardView {
		t.Fatalf("expected catalog order, got %v", role.Permissions)
	}
	roles, _ := store.ListRoles(context.Background())
	if len(roles) != 5 {
		t.Fatalf("expected 5 roles, got %d", len(roles))
	}
}

func TestRoleService_CreateRole_EmptyPermissions(t *testing.T) {
	svc, store := newRoleService(t)

	_, err := svc.CreateRole(context.Background(), ports.RoleInput{Name: "Ghost"})
	ve, ok := domain.AsValidation(err)
	if !ok || ve.Fields()["permissions"] != "At least one permission is required." {
		t.Fatalf("expected permissions error, got %v", err)
	}
	roles, _ := store.ListRoles(context.Background())
	if len(roles) != 4 {
		t.Fatalf("store must be unchanged, got %d roles", len(roles))
	}
}

func TestRoleService_CreateRole_UnknownPermission(t *testing.T) {
	svc, _ := newRoleService(t)

	_, err := svc.CreateRole(context.Background(), ports.RoleInput{Name: "Ops", Permissions: []string{"ships:sail"}})
	if _, ok := domain.AsValidation(err); !ok {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
}

func TestRoleService_CreateRole_DuplicateName(t *testing.T) {
	svc, _ := newRoleService(t)

	_, err := svc.CreateRole(context.Background(), ports.RoleInput{Name: "staff", Permissions: []string{domain.PermUsersRead}})
	ve, ok := domain.AsValidation(err)
	if !ok || !ve.Has("name") {
		t.Fatalf("expected name error, got %v", err)
	}
}

func TestRoleService_UpdateRole_Protected(t *testing.T) {
	svc, _ := newRoleService(t)

	_, err := svc.UpdateRole(context.Background(), memory.RoleAdminID, ports.RoleInput{
		Name:        "Superuser",
		Permissions: []string{domain.PermDashboardView},
	})
	if !errors.Is(err, domain.ErrProtectedRole) {
		t.Fatalf("expected ErrProtectedRole, got %v", err)
	}

	_, err = svc.UpdateRole(context.Background(), memory.RoleViewerID, ports.RoleInput{
		Name:        "ADMIN",
		Permissions: []string{domain.PermDashboardView},
	})
	if !errors.Is(err, domain.ErrProtectedRole) {
		t.Fatalf("renaming to the protected name: expected ErrProtectedRole, got %v", err)
	}
}

func TestRoleService_SetPermission(t *testing.T) {
	svc, _ := newRoleService(t)

	role, err := svc.SetPermission(context.Background(), memory.RoleViewerID, domain.PermAuditLogView, true)
	if err != nil {
		t.Fatalf("grant failed: %v", err)
	}
	if !role.Has(domain.PermAuditLogView) {
		t.Fatalf("permission not granted: %v", role.Permissions)
	}

	role, err = svc.SetPermission(context.Background(), memory.RoleViewerID, domain.PermAuditLogView, false)
	if err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	if role.Has(domain.PermAuditLogView) {
		t.Fatalf("permission not revoked: %v", role.Permissions)
	}
}

func TestRoleService_SetPermission_LastPermission(t *testing.T) {
	svc, store := newRoleService(t)
	viewer, _ := store.FindRole(context.Background(), memory.RoleViewerID)

	var err error
	for i, p := range viewer.Permissions {
		_, err = svc.SetPermission(context.Background(), memory.RoleViewerID, p, false)
		if i < len(viewer.Permissions)-1 && err != nil {
			t.Fatalf("revoke %s failed: %v", p, err)
		}
	}
	if _, ok := domain.AsValidation(err); !ok {
		t.Fatalf("revoking the last permission: expected ValidationErrors, got %v", err)
	}
	after, _ := store.FindRole(context.Background(), memory.RoleViewerID)
	if len(after.Permissions) != 1 {
		t.Fatalf("expected the last permission to survive, got %v", after.Permissions)
	}
}

func TestRoleService_SetPermission_Protected(t *testing.T) {
	svc, _ := newRoleService(t)

	if _, err := svc.SetPermission(context.Background(), memory.RoleAdminID, domain.PermUsersDelete, false); !errors.Is(err, domain.ErrProtectedRole) {
		t.Fatalf("expected ErrProtectedRole, got %v", err)
	}
}

func TestRoleService_DeleteRole(t *testing.T) {
	svc, _ := newRoleService(t)

	if _, err := svc.DeleteRole(context.Background(), memory.RoleAdminID); !errors.Is(err, domain.ErrProtectedRole) {
		t.Fatalf("expected ErrProtectedRole, got %v", err)
	}
	if _, err := svc.DeleteRole(context.Background(), memory.RoleStaffID); !errors.Is(err, domain.ErrRoleInUse) {
		t.Fatalf("expected ErrRoleInUse, got %v", err)
	}

	res, err := svc.DeleteRole(context.Background(), memory.RoleViewerID)
	if err != nil || !res.Deleted {
		t.Fatalf("delete viewer: res=%+v err=%v", res, err)
	}
	res, err = svc.DeleteRole(context.Background(), memory.RoleViewerID)
	if err != nil || res.Deleted {
		t.Fatalf("second delete: res=%+v err=%v", res, err)
	}
}

func TestRoleService_HasPermission(t *testing.T) {
	svc, _ := newRoleService(t)

	ok, err := svc.HasPermission(context.Background(), memory.RoleViewerID, domain.PermUsersDelete)
	if err != nil || ok {
		t.Fatalf("viewer must not delete users: ok=%v err=%v", ok, err)
	}
	ok, _ = svc.HasPermission(context.Background(), memory.RoleAdminID, domain.PermDashboardView)
	if !ok {
		t.Fatalf("admin must be granted every permission")
	}
	ok, err = svc.HasPermission(context.Background(), "role_missing", domain.PermDashboardView)
	if err != nil || ok {
		t.Fatalf("unknown role grants nothing: ok=%v err=%v", ok, err)
	}
}
