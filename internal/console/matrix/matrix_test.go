package matrix

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/99minutos/admin-console/internal/core/domain"
)

type stubSetter struct {
	err    error
	calls  int
	during func()
}

func (s *stubSetter) SetPermission(_ context.Context, roleID, permission string, enabled bool) (*domain.Role, error) {
	s.calls++
	if s.during != nil {
		s.during()
	}
	if s.err != nil {
		return nil, s.err
	}
	r := domain.Role{ID: roleID, Name: "Staff", Permissions: []string{domain.PermUsersRead}}.WithPermission(permission, enabled)
	return &r, nil
}

func roles() []domain.Role {
	return []domain.Role{
		{ID: "role_admin", Name: "Admin", Permissions: []string{domain.PermUsersRead}},
		{ID: "role_staff", Name: "Staff", Permissions: []string{domain.PermUsersRead}},
	}
}

func TestMatrix_ToggleAdoptsServerRole(t *testing.T) {
	setter := &stubSetter{}
	m := New(setter, roles(), zerolog.Nop())

	setter.during = func() {
		if !m.Granted("role_staff", domain.PermUsersEdit) {
			t.Errorf("toggle must be visible before the server answers")
		}
	}
	r, err := m.Toggle(context.Background(), "role_staff", domain.PermUsersEdit)
	if err != nil {
		t.Fatalf("Toggle returned error: %v", err)
	}
	if !r.Has(domain.PermUsersEdit) || !m.Granted("role_staff", domain.PermUsersEdit) {
		t.Fatalf("grant not kept: %v", r.Permissions)
	}
}

func TestMatrix_ToggleRevertsOnFailure(t *testing.T) {
	setter := &stubSetter{err: domain.ErrTransient}
	m := New(setter, roles(), zerolog.Nop())

	setter.during = func() {
		if m.Granted("role_staff", domain.PermUsersRead) {
			t.Errorf("revoke must be visible before the server answers")
		}
	}
	_, err := m.Toggle(context.Background(), "role_staff", domain.PermUsersRead)
	if !errors.Is(err, domain.ErrTransient) {
		t.Fatalf("expected ErrTransient, got %v", err)
	}
	if !m.Granted("role_staff", domain.PermUsersRead) {
		t.Fatalf("failed toggle was not reverted")
	}
}

func TestMatrix_ProtectedRoleIsReadOnly(t *testing.T) {
	setter := &stubSetter{}
	m := New(setter, roles(), zerolog.Nop())

	if m.Editable("role_admin") || !m.Editable("role_staff") {
		t.Fatalf("unexpected editability")
	}
	if _, err := m.Toggle(context.Background(), "role_admin", domain.PermUsersEdit); !errors.Is(err, domain.ErrProtectedRole) {
		t.Fatalf("expected ErrProtectedRole, got %v", err)
	}
	if setter.calls != 0 {
		t.Fatalf("protected toggle must not reach the server")
	}
}

func TestMatrix_UnknownRole(t *testing.T) {
	m := New(&stubSetter{}, roles(), zerolog.Nop())

	if _, err := m.Toggle(context.Background(), "role_missing", domain.PermUsersEdit); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMatrix_RolesKeepOrder(t *testing.T) {
	m := New(&stubSetter{}, roles(), zerolog.Nop())

	got := m.Roles()
	if len(got) != 2 || got[0].ID != "role_admin" || got[1].ID != "role_staff" {
		t.Fatalf("unexpected rows: %+v", got)
	}
	if len(m.Permissions()) != len(domain.AllPermissions) {
		t.Fatalf("expected the full catalog as columns")
	}
}
