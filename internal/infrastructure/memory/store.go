// Package memory is the in-process data store: the default backend and the
// one every test runs against.
package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/99minutos/admin-console/internal/core/domain"
)

// Options tunes the simulated behaviour of the store.
type Options struct {
	// Latency delays every operation, mimicking a network round trip.
	// The delay honours context cancellation.
	Latency time.Duration
	// Fault, when set, is consulted before each operation; a non-nil return
	// aborts the operation with that error and no mutation.
	Fault func(op string) error
	// Now overrides the clock used for CreatedAt. Defaults to time.Now.
	Now func() time.Time
}

// Store holds users and roles for the lifetime of the process.
type Store struct {
	mu    sync.RWMutex
	users []domain.User
	roles []domain.Role
	opts  Options
}

// NewStore returns an empty store.
func NewStore(opts Options) *Store {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Store{opts: opts}
}

// NewSeededStore returns a store pre-filled with the demo users and roles.
func NewSeededStore(opts Options) *Store {
	s := NewStore(opts)
	s.roles = SeedRoles()
	s.users = SeedUsers()
	return s
}

func (s *Store) begin(ctx context.Context, op string) error {
	if s.opts.Latency > 0 {
		t := time.NewTimer(s.opts.Latency)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	} else if err := ctx.Err(); err != nil {
		return err
	}
	if s.opts.Fault != nil {
		if err := s.opts.Fault(op); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return nil
}

// ── Users ─────────────────────────────────────────────────────────────────────

func (s *Store) ListUsers(ctx context.Context) ([]domain.User, error) {
	if err := s.begin(ctx, "list users"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.User, len(s.users))
	for i, u := range s.users {
		out[i] = u.Clone()
	}
	return out, nil
}

func (s *Store) FindUser(ctx context.Context, id string) (domain.User, error) {
	if err := s.begin(ctx, "find user"); err != nil {
		return domain.User{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.userIndex(id); i >= 0 {
		return s.users[i].Clone(), nil
	}
	return domain.User{}, domain.ErrUserNotFound
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (domain.User, error) {
	if err := s.begin(ctx, "find user by email"); err != nil {
		return domain.User{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.emailIndex(email); i >= 0 {
		return s.users[i].Clone(), nil
	}
	return domain.User{}, domain.ErrUserNotFound
}

// InsertUser prepends the new record so the newest user lists first.
func (s *Store) InsertUser(ctx context.Context, u domain.User) (domain.User, error) {
	if err := s.begin(ctx, "insert user"); err != nil {
		return domain.User{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.emailIndex(u.Email) >= 0 {
		return domain.User{}, domain.ErrDuplicateEmail
	}
	u.ID = "usr_" + uuid.NewString()
	u.CreatedAt = s.opts.Now().UTC()
	u = u.Clone()
	s.users = slices.Insert(s.users, 0, u)
	return u.Clone(), nil
}

func (s *Store) UpdateUser(ctx context.Context, id string, patch domain.UserPatch) (domain.User, error) {
	if err := s.begin(ctx, "update user"); err != nil {
		return domain.User{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.userIndex(id)
	if i < 0 {
		return domain.User{}, domain.ErrUserNotFound
	}
	if patch.Email != nil {
		if j := s.emailIndex(*patch.Email); j >= 0 && j != i {
			return domain.User{}, domain.ErrDuplicateEmail
		}
	}
	updated := s.users[i].Clone()
	patch.Apply(&updated)
	s.users[i] = updated
	return updated.Clone(), nil
}

func (s *Store) DeleteUser(ctx context.Context, id string) (bool, error) {
	if err := s.begin(ctx, "delete user"); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.userIndex(id)
	if i < 0 {
		return false, nil
	}
	s.users = slices.Delete(s.users, i, i+1)
	return true, nil
}

func (s *Store) userIndex(id string) int {
	return slices.IndexFunc(s.users, func(u domain.User) bool { return u.ID == id })
}

func (s *Store) emailIndex(email string) int {
	return slices.IndexFunc(s.users, func(u domain.User) bool { return strings.EqualFold(u.Email, email) })
}

// ── Roles ─────────────────────────────────────────────────────────────────────

func (s *Store) ListRoles(ctx context.Context) ([]domain.Role, error) {
	if err := s.begin(ctx, "list roles"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Role, len(s.roles))
	for i, r := range s.roles {
		out[i] = r.Clone()
	}
	return out, nil
}

func (s *Store) FindRole(ctx context.Context, id string) (domain.Role, error) {
	if err := s.begin(ctx, "find role"); err != nil {
		return domain.Role{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.roleIndex(id); i >= 0 {
		return s.roles[i].Clone(), nil
	}
	return domain.Role{}, domain.ErrRoleNotFound
}

func (s *Store) FindRoleByName(ctx context.Context, name string) (domain.Role, error) {
	if err := s.begin(ctx, "find role by name"); err != nil {
		return domain.Role{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.roleNameIndex(name); i >= 0 {
		return s.roles[i].Clone(), nil
	}
	return domain.Role{}, domain.ErrRoleNotFound
}

// InsertRole appends the role after checking the store-level invariants.
func (s *Store) InsertRole(ctx context.Context, r domain.Role) (domain.Role, error) {
	if err := s.begin(ctx, "insert role"); err != nil {
		return domain.Role{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkRole(r, -1); err != nil {
		return domain.Role{}, err
	}
	r = r.Clone()
	r.ID = "role_" + uuid.NewString()
	r.Permissions = domain.NormalizePermissions(r.Permissions)
	s.roles = append(s.roles, r)
	return r.Clone(), nil
}

func (s *Store) UpdateRole(ctx context.Context, id string, patch domain.RolePatch) (domain.Role, error) {
	if err := s.begin(ctx, "update role"); err != nil {
		return domain.Role{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.roleIndex(id)
	if i < 0 {
		return domain.Role{}, domain.ErrRoleNotFound
	}
	updated := s.roles[i].Clone()
	patch.Apply(&updated)
	if err := s.checkRole(updated, i); err != nil {
		return domain.Role{}, err
	}
	s.roles[i] = updated
	return updated.Clone(), nil
}

func (s *Store) DeleteRole(ctx context.Context, id string) (bool, error) {
	if err := s.begin(ctx, "delete role"); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.roleIndex(id)
	if i < 0 {
		return false, nil
	}
	s.roles = slices.Delete(s.roles, i, i+1)
	return true, nil
}

// checkRole enforces the invariants every stored role satisfies. self is the
// index of the role being updated, or -1 on insert.
func (s *Store) checkRole(r domain.Role, self int) error {
	if utf8.RuneCountInString(r.Name) < 2 {
		return domain.NewValidationError("name", "Role name is too short.")
	}
	if j := s.roleNameIndex(r.Name); j >= 0 && j != self {
		return domain.NewValidationError("name", fmt.Sprintf("Role with name %q already exists.", r.Name))
	}
	if len(r.Permissions) == 0 {
		return domain.NewValidationError("permissions", "Role must have at least one permission.")
	}
	return nil
}

func (s *Store) roleIndex(id string) int {
	return slices.IndexFunc(s.roles, func(r domain.Role) bool { return r.ID == id })
}

func (s *Store) roleNameIndex(name string) int {
	return slices.IndexFunc(s.roles, func(r domain.Role) bool { return strings.EqualFold(r.Name, name) })
}
