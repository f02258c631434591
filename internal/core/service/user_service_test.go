package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/admin-console/internal/core/domain"
	"github.com/99minutos/admin-console/internal/core/ports"
	"github.com/99minutos/admin-console/internal/infrastructure/memory"
)

type stubIdempotency struct {
	keys map[string]string
}

func newStubIdempotency() *stubIdempotency {
	return &stubIdempotency{keys: make(map[string]string)}
}

func (s *stubIdempotency) Lookup(_ context.Context, key string) (string, bool, error) {
	id, ok := s.keys[key]
	return id, ok, nil
}

func (s *stubIdempotency) Remember(_ context.Context, key, id string) error {
	s.keys[key] = id
	return nil
}

func newUserService(t *testing.T) (*UserService, *memory.Store) {
	t.Helper()
	store := memory.NewSeededStore(memory.Options{})
	return NewUserService(store, store, newStubIdempotency(), zerolog.Nop()), store
}

func validUserInput() ports.UserInput {
	return ports.UserInput{
		Name:            "Kara Thrace",
		Email:           "kara@example.com",
		Role:            "Staff",
		Status:          "Active",
		Department:      "Flight",
		Password:        "starbuck1",
		ConfirmPassword: "starbuck1",
	}
}

// ----- ListUsers -----

func TestUserService_ListUsers_SecondPage(t *testing.T) {
	svc, _ := newUserService(t)

	page, err := svc.ListUsers(context.Background(), ports.UserQuery{Page: 2, PageSize: 5})
	if err != nil {
		t.Fatalf("ListUsers returned error: %v", err)
	}
	if page.Total != 10 || page.TotalPages != 2 {
		t.Fatalf("unexpected totals: total=%d pages=%d", page.Total, page.TotalPages)
	}
	want := []string{"usr_6", "usr_7", "usr_8", "usr_9", "usr_10"}
	if len(page.Users) != len(want) {
		t.Fatalf("expected %d users, got %d", len(want), len(page.Users))
	}
	for i, id := range want {
		if page.Users[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, page.Users[i].ID)
		}
	}
}

func TestUserService_ListUsers_FilterByRoleName(t *testing.T) {
	svc, _ := newUserService(t)

	page, err := svc.ListUsers(context.Background(), ports.UserQuery{
		Page:     1,
		PageSize: 10,
		Filters:  map[string]string{"role": "admin"},
	})
	if err != nil {
		t.Fatalf("ListUsers returned error: %v", err)
	}
	if page.Total != 2 {
		t.Fatalf("expected 2 admins, got %d", page.Total)
	}
	for _, u := range page.Users {
		if u.Role != "Admin" {
			t.Fatalf("unexpected role %q for %s", u.Role, u.ID)
		}
	}
}

func TestUserService_ListUsers_NormalizesPaging(t *testing.T) {
	svc, _ := newUserService(t)

	page, err := svc.ListUsers(context.Background(), ports.UserQuery{Page: 0, PageSize: 0})
	if err != nil {
		t.Fatalf("ListUsers returned error: %v", err)
	}
	if page.Page != 1 || page.PageSize != DefaultPageSize {
		t.Fatalf("expected page 1 size %d, got page %d size %d", DefaultPageSize, page.Page, page.PageSize)
	}
	if len(page.Users) != DefaultPageSize {
		t.Fatalf("expected %d users, got %d", DefaultPageSize, len(page.Users))
	}

	page, _ = svc.ListUsers(context.Background(), ports.UserQuery{Page: 1, PageSize: 1000})
	if page.PageSize != MaxPageSize {
		t.Fatalf("expected size clamped to %d, got %d", MaxPageSize, page.PageSize)
	}
}

func TestUserService_ListUsers_StoreFailure(t *testing.T) {
	store := memory.NewSeededStore(memory.Options{Fault: func(string) error { return domain.ErrTransient }})
	svc := NewUserService(store, store, nil, zerolog.Nop())

	if _, err := svc.ListUsers(context.Background(), ports.UserQuery{}); !errors.Is(err, domain.ErrTransient) {
		t.Fatalf("expected ErrTransient, got %v", err)
	}
}

// ----- CreateUser -----

func TestUserService_CreateUser_Success(t *testing.T) {
	svc, store := newUserService(t)

	view, replayed, err := svc.CreateUser(context.Background(), validUserInput(), "")
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}
	if replayed {
		t.Fatalf("first create must not be a replay")
	}
	if view.RoleID != memory.RoleStaffID || view.Role != "Staff" {
		t.Fatalf("role not resolved: %+v", view)
	}

	stored, err := store.FindUser(context.Background(), view.ID)
	if err != nil {
		t.Fatalf("created user not found: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("starbuck1")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}

	users, _ := store.ListUsers(context.Background())
	if len(users) != 11 || users[0].ID != view.ID {
		t.Fatalf("expected new user first of 11, got first=%s len=%d", users[0].ID, len(users))
	}
}

func TestUserService_CreateUser_AcceptsRoleID(t *testing.T) {
	svc, _ := newUserService(t)
	in := validUserInput()
	in.Role = memory.RoleViewerID

	view, _, err := svc.CreateUser(context.Background(), in, "")
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}
	if view.Role != "Viewer" {
		t.Fatalf("expected Viewer, got %q", view.Role)
	}
}

func TestUserService_CreateUser_Validation(t *testing.T) {
	svc, store := newUserService(t)

	in := validUserInput()
	in.Name = "K"
	in.Email = "not-an-email"
	in.ConfirmPassword = "different"

	_, _, err := svc.CreateUser(context.Background(), in, "")
	ve, ok := domain.AsValidation(err)
	if !ok {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
	for _, field := range []string{"name", "email", "confirmPassword"} {
		if !ve.Has(field) {
			t.Fatalf("expected error on %s, got %v", field, ve)
		}
	}
	users, _ := store.ListUsers(context.Background())
	if len(users) != 10 {
		t.Fatalf("store must be unchanged, got %d users", len(users))
	}
}

func TestUserService_CreateUser_UnknownRole(t *testing.T) {
	svc, _ := newUserService(t)
	in := validUserInput()
	in.Role = "Pilot"

	_, _, err := svc.CreateUser(context.Background(), in, "")
	ve, ok := domain.AsValidation(err)
	if !ok || !ve.Has("role") {
		t.Fatalf("expected role validation error, got %v", err)
	}
}

func TestUserService_CreateUser_DuplicateEmail(t *testing.T) {
	svc, _ := newUserService(t)
	in := validUserInput()
	in.Email = "ALICE@example.com"

	if _, _, err := svc.CreateUser(context.Background(), in, ""); !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestUserService_CreateUser_IdempotentReplay(t *testing.T) {
	svc, store := newUserService(t)

	first, _, err := svc.CreateUser(context.Background(), validUserInput(), "key-1")
	if err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	second, replayed, err := svc.CreateUser(context.Background(), validUserInput(), "key-1")
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	if !replayed || second.ID != first.ID {
		t.Fatalf("expected replay of %s, got %s (replayed=%v)", first.ID, second.ID, replayed)
	}
	users, _ := store.ListUsers(context.Background())
	if len(users) != 11 {
		t.Fatalf("expected exactly one insert, got %d users", len(users))
	}
}

// ----- UpdateUser -----

func TestUserService_UpdateUser_PartialFields(t *testing.T) {
	svc, store := newUserService(t)
	before, _ := store.FindUser(context.Background(), "usr_3")

	view, err := svc.UpdateUser(context.Background(), "usr_3", ports.UserUpdate{
		Status: ptr("Active"),
		Role:   ptr("Manager"),
	})
	if err != nil {
		t.Fatalf("UpdateUser returned error: %v", err)
	}
	if view.Status != domain.StatusActive || view.RoleID != memory.RoleManagerID {
		t.Fatalf("update not applied: %+v", view)
	}
	if view.Name != before.Name || !view.CreatedAt.Equal(before.CreatedAt) {
		t.Fatalf("untouched fields changed: %+v", view)
	}
	after, _ := store.FindUser(context.Background(), "usr_3")
	if after.PasswordHash != before.PasswordHash {
		t.Fatalf("password must not change without a new password")
	}
}

func TestUserService_UpdateUser_PasswordMismatch(t *testing.T) {
	svc, _ := newUserService(t)

	_, err := svc.UpdateUser(context.Background(), "usr_2", ports.UserUpdate{
		Password:        "newsecret1",
		ConfirmPassword: "newsecret2",
	})
	ve, ok := domain.AsValidation(err)
	if !ok || !ve.Has("confirmPassword") {
		t.Fatalf("expected confirmPassword error, got %v", err)
	}
}

func TestUserService_PasswordOverBcryptLimit(t *testing.T) {
	svc, store := newUserService(t)
	long := strings.Repeat("x", 80)

	in := validUserInput()
	in.Password, in.ConfirmPassword = long, long
	_, _, err := svc.CreateUser(context.Background(), in, "")
	if ve, ok := domain.AsValidation(err); !ok || !ve.Has("password") {
		t.Fatalf("create: expected password validation error, got %v", err)
	}

	_, err = svc.UpdateUser(context.Background(), "usr_2", ports.UserUpdate{Password: long, ConfirmPassword: long})
	if ve, ok := domain.AsValidation(err); !ok || !ve.Has("password") {
		t.Fatalf("update: expected password validation error, got %v", err)
	}
	users, _ := store.ListUsers(context.Background())
	if len(users) != 10 {
		t.Fatalf("store must be unchanged, got %d users", len(users))
	}
}

func TestUserService_UpdateUser_NotFound(t *testing.T) {
	svc, _ := newUserService(t)

	if _, err := svc.UpdateUser(context.Background(), "usr_missing", ports.UserUpdate{Name: ptr("Nobody")}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// ----- DeleteUser -----

func TestUserService_DeleteUser_Idempotent(t *testing.T) {
	svc, store := newUserService(t)

	res, err := svc.DeleteUser(context.Background(), "usr_4")
	if err != nil || !res.Deleted {
		t.Fatalf("first delete: res=%+v err=%v", res, err)
	}
	res, err = svc.DeleteUser(context.Background(), "usr_4")
	if err != nil {
		t.Fatalf("second delete returned error: %v", err)
	}
	if res.Deleted {
		t.Fatalf("second delete must report nothing removed")
	}
	users, _ := store.ListUsers(context.Background())
	if len(users) != 9 {
		t.Fatalf("expected 9 users, got %d", len(users))
	}
}
