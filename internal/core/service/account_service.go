package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/admin-console/internal/core/domain"
	"github.com/99minutos/admin-console/internal/core/ports"
	"github.com/99minutos/admin-console/internal/core/validate"
)

// AccountService implements login and the signed-in user's settings page.
type AccountService struct {
	users     ports.UserStore
	roles     ports.RoleStore
	validator *validate.Validator
	jwtSecret string
	tokenTTL  time.Duration
	now       func() time.Time
	logger    zerolog.Logger
}

func NewAccountService(users ports.UserStore, roles ports.RoleStore, jwtSecret string, tokenTTL time.Duration, logger zerolog.Logger) *AccountService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AccountService{
		users:     users,
		roles:     roles,
		validator: validate.New(),
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		now:       time.Now,
		logger:    logger,
	}
}

func (s *AccountService) Login(ctx context.Context, email, password string) (string, *ports.UserView, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindUserByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return "", nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}

	if user.PasswordHash == "" || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.logger.Warn().Str("user_id", user.ID).Msg("login rejected: bad password")
		return "", nil, domain.ErrInvalidCredentials
	}
	if user.Status != domain.StatusActive {
		s.logger.Warn().Str("user_id", user.ID).Str("status", string(user.Status)).Msg("login rejected: account not active")
		return "", nil, domain.ErrForbidden
	}

	now := s.now().UTC()
	if updated, err := s.users.UpdateUser(ctx, user.ID, domain.UserPatch{LastLogin: &now}); err != nil {
		s.logger.Warn().Err(err).Str("user_id", user.ID).Msg("failed to record last login")
	} else {
		user = updated
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}
	view, err := viewOf(ctx, s.roles, user)
	if err != nil {
		return "", nil, err
	}
	return token, view, nil
}

func (s *AccountService) Profile(ctx context.Context, userID string) (*ports.UserView, error) {
	u, err := s.users.FindUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return viewOf(ctx, s.roles, u)
}

// UpdateProfile edits name, department and location. Email and role are not
// self-service.
func (s *AccountService) UpdateProfile(ctx context.Context, userID string, in ports.ProfileInput) (*ports.UserView, error) {
	current, err := s.users.FindUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	form := validate.ProfileForm{
		Name:       pick(in.Name, current.Name),
		Department: pick(in.Department, current.Department),
		Location:   pick(in.Location, current.Location),
	}
	if err := s.validator.Struct(form); err != nil {
		return nil, err
	}

	updated, err := s.users.UpdateUser(ctx, userID, domain.UserPatch{
		Name:       in.Name,
		Department: in.Department,
		Location:   in.Location,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", userID).Msg("profile updated")
	return viewOf(ctx, s.roles, updated)
}

// ChangePassword replaces the stored hash only when the current password
// matches.
func (s *AccountService) ChangePassword(ctx context.Context, userID string, in ports.PasswordChangeInput) error {
	form := validate.PasswordChangeForm{
		CurrentPassword: in.CurrentPassword,
		NewPassword:     in.NewPassword,
		ConfirmPassword: in.ConfirmPassword,
	}
	if err := s.validator.Struct(form); err != nil {
		return err
	}

	user, err := s.users.FindUser(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.CurrentPassword)) != nil {
		s.logger.Warn().Str("user_id", userID).Msg("password change rejected: incorrect current password")
		return domain.ErrIncorrectPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if _, err := s.users.UpdateUser(ctx, userID, domain.UserPatch{PasswordHash: ptr(string(hash))}); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", userID).Msg("password changed")
	return nil
}

func (s *AccountService) generateToken(user domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":     user.ID,
		"email":   user.Email,
		"role_id": user.RoleID,
		"exp":     s.now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
