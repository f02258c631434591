package validate

import (
	"github.com/go-playground/validator/v10"
)

// UserForm is the create/edit user payload. ID is empty when creating.
type UserForm struct {
	ID              string `json:"id"`
	Name            string `json:"name"            validate:"min=2,max=100"`
	Email           string `json:"email"           validate:"required,email"`
	Role            string `json:"role"            validate:"required"`
	Status          string `json:"status"          validate:"required,oneof=Active Inactive Pending"`
	Department      string `json:"department"      validate:"max=100"`
	Location        string `json:"location"        validate:"max=100"`
	Password        string `json:"password"        validate:"omitempty,min=8,bcrypt"`
	ConfirmPassword string `json:"confirmPassword"`
}

// userPasswordRule requires a password on create and a matching confirmation
// whenever a password is supplied. Both failures surface as one error on
// confirmPassword.
func userPasswordRule(sl validator.StructLevel) {
	f := sl.Current().Interface().(UserForm)
	missing := f.ID == "" && f.Password == ""
	mismatch := f.Password != "" && f.Password != f.ConfirmPassword
	if missing || mismatch {
		sl.ReportError(f.ConfirmPassword, "confirmPassword", "ConfirmPassword", "passwords", "")
	}
}

// RoleForm is the create/edit role payload.
type RoleForm struct {
	Name        string   `json:"name"        validate:"min=2,max=50"`
	Description string   `json:"description" validate:"max=200"`
	Permissions []string `json:"permissions" validate:"min=1,dive,permission"`
}

// PasswordChangeForm is the settings page password form.
type PasswordChangeForm struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword"     validate:"min=8,bcrypt"`
	ConfirmPassword string `json:"confirmPassword" validate:"eqfield=NewPassword"`
}

// ProfileForm is the settings page profile form.
type ProfileForm struct {
	Name       string `json:"name"       validate:"min=2,max=100"`
	Department string `json:"department" validate:"max=100"`
	Location   string `json:"location"   validate:"max=100"`
}
