package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/admin-console/internal/core/domain"
	"github.com/99minutos/admin-console/internal/core/ports"
	"github.com/99minutos/admin-console/internal/core/query"
	"github.com/99minutos/admin-console/internal/core/validate"
)

const (
	DefaultPageSize = 5
	MaxPageSize     = 100
)

// UserService answers user queries and applies user commands.
type UserService struct {
	users     ports.UserStore
	roles     ports.RoleStore
	idem      ports.IdempotencyStore
	validator *validate.Validator
	logger    zerolog.Logger
}

// NewUserService wires the service. idem may be nil to disable
// Idempotency-Key replay.
func NewUserService(users ports.UserStore, roles ports.RoleStore, idem ports.IdempotencyStore, logger zerolog.Logger) *UserService {
	return &UserService{
		users:     users,
		roles:     roles,
		idem:      idem,
		validator: validate.New(),
		logger:    logger,
	}
}

// NormalizeQuery clamps paging so the query layer can assume a positive page size.
func NormalizeQuery(q ports.UserQuery) ports.UserQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	return q
}

// ListUsers returns one page of users matching the search text and filters.
func (s *UserService) ListUsers(ctx context.Context, q ports.UserQuery) (*ports.UserPage, error) {
	q = NormalizeQuery(q)

	snapshot, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	names, err := roleNames(ctx, s.roles)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	lookup := func(id string) string { return names[id] }

	res := query.Users(snapshot, q, lookup)
	views := make([]ports.UserView, len(res.Users))
	for i, u := range res.Users {
		views[i] = toUserView(u, lookup(u.RoleID))
	}

	return &ports.UserPage{
		Users:      views,
		Total:      res.Total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: query.PageCount(res.Total, q.PageSize),
	}, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*ports.UserView, error) {
	u, err := s.users.FindUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return viewOf(ctx, s.roles, u)
}

// CreateUser validates the form, resolves the role reference and inserts the
// user. When idempotencyKey was already used, the original user is returned
// with replayed=true and nothing is written.
func (s *UserService) CreateUser(ctx context.Context, in ports.UserInput, idempotencyKey string) (*ports.UserView, bool, error) {
	if idempotencyKey != "" && s.idem != nil {
		if id, ok, err := s.idem.Lookup(ctx, idempotencyKey); err != nil {
			s.logger.Warn().Err(err).Str("idempotency_key", idempotencyKey).Msg("idempotency lookup failed, creating anyway")
		} else if ok {
			if u, err := s.users.FindUser(ctx, id); err == nil {
				s.logger.Info().Str("idempotency_key", idempotencyKey).Str("user_id", id).Msg("idempotent replay")
				v, err := viewOf(ctx, s.roles, u)
				return v, true, err
			}
		}
	}

	form := validate.UserForm{
		Name:            in.Name,
		Email:           in.Email,
		Role:            in.Role,
		Status:          in.Status,
		Department:      in.Department,
		Location:        in.Location,
		Password:        in.Password,
		ConfirmPassword: in.ConfirmPassword,
	}
	if err := s.validator.Struct(form); err != nil {
		return nil, false, err
	}

	role, err := s.resolveRole(ctx, in.Role)
	if err != nil {
		return nil, false, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, false, fmt.Errorf("hash password: %w", err)
	}

	created, err := s.users.InsertUser(ctx, domain.User{
		Name:         in.Name,
		Email:        in.Email,
		RoleID:       role.ID,
		Status:       domain.UserStatus(in.Status),
		Department:   in.Department,
		Location:     in.Location,
		PasswordHash: string(hash),
	})
	if err != nil {
		s.logger.Error().Err(err).Str("email", in.Email).Msg("failed to create user")
		return nil, false, err
	}

	if idempotencyKey != "" && s.idem != nil {
		if err := s.idem.Remember(ctx, idempotencyKey, created.ID); err != nil {
			s.logger.Warn().Err(err).Str("idempotency_key", idempotencyKey).Msg("failed to store idempotency key")
		}
	}

	s.logger.Info().Str("user_id", created.ID).Str("role", role.Name).Msg("user created")
	v := toUserView(created, role.Name)
	return &v, false, nil
}

// UpdateUser validates the merged form and writes only the supplied fields.
func (s *UserService) UpdateUser(ctx context.Context, id string, in ports.UserUpdate) (*ports.UserView, error) {
	current, err := s.users.FindUser(ctx, id)
	if err != nil {
		return nil, err
	}
	currentRole, err := s.roles.FindRole(ctx, current.RoleID)
	if err != nil && !isNotFound(err) {
		return nil, fmt.Errorf("resolve role: %w", err)
	}

	form := validate.UserForm{
		ID:              current.ID,
		Name:            pick(in.Name, current.Name),
		Email:           pick(in.Email, current.Email),
		Role:            pick(in.Role, firstNonEmpty(currentRole.Name, current.RoleID)),
		Status:          pick(in.Status, string(current.Status)),
		Department:      pick(in.Department, current.Department),
		Location:        pick(in.Location, current.Location),
		Password:        in.Password,
		ConfirmPassword: in.ConfirmPassword,
	}
	if err := s.validator.Struct(form); err != nil {
		return nil, err
	}

	patch := domain.UserPatch{
		Name:       in.Name,
		Email:      in.Email,
		Department: in.Department,
		Location:   in.Location,
	}
	if in.Status != nil {
		patch.Status = ptr(domain.UserStatus(*in.Status))
	}
	if in.Role != nil {
		role, err := s.resolveRole(ctx, *in.Role)
		if err != nil {
			return nil, err
		}
		patch.RoleID = &role.ID
	}
	if in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		patch.PasswordHash = ptr(string(hash))
	}

	updated, err := s.users.UpdateUser(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", id).Msg("user updated")
	return viewOf(ctx, s.roles, updated)
}

// DeleteUser removes the user. Deleting an id that no longer exists is
// reported through DeleteResult.Deleted, never as an error.
func (s *UserService) DeleteUser(ctx context.Context, id string) (ports.DeleteResult, error) {
	deleted, err := s.users.DeleteUser(ctx, id)
	if err != nil {
		return ports.DeleteResult{ID: id}, err
	}
	if !deleted {
		s.logger.Info().Str("user_id", id).Msg("delete: user already absent")
	} else {
		s.logger.Info().Str("user_id", id).Msg("user deleted")
	}
	return ports.DeleteResult{ID: id, Deleted: deleted}, nil
}

// resolveRole accepts a role id or a role name.
func (s *UserService) resolveRole(ctx context.Context, ref string) (domain.Role, error) {
	r, err := s.roles.FindRole(ctx, ref)
	if err == nil {
		return r, nil
	}
	if !isNotFound(err) {
		return domain.Role{}, fmt.Errorf("resolve role: %w", err)
	}
	r, err = s.roles.FindRoleByName(ctx, ref)
	if err == nil {
		return r, nil
	}
	if !isNotFound(err) {
		return domain.Role{}, fmt.Errorf("resolve role: %w", err)
	}
	return domain.Role{}, domain.NewValidationError("role", fmt.Sprintf("Unknown role %q.", ref))
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}

func pick(v *string, fallback string) string {
	if v != nil {
		return *v
	}
	return fallback
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
