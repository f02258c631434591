package ports

import (
	"context"
)

// ProfileInput carries the self-service profile fields. Nil leaves a field as is.
type ProfileInput struct {
	Name       *string
	Department *string
	Location   *string
}

// PasswordChangeInput is the payload of the change-password form.
type PasswordChangeInput struct {
	CurrentPassword string
	NewPassword     string
	ConfirmPassword string
}

// AccountService authenticates users and serves the signed-in user's settings.
type AccountService interface {
	Login(ctx context.Context, email, password string) (string, *UserView, error)
	Profile(ctx context.Context, userID string) (*UserView, error)
	UpdateProfile(ctx context.Context, userID string, in ProfileInput) (*UserView, error)
	ChangePassword(ctx context.Context, userID string, in PasswordChangeInput) error
}
