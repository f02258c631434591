// Package validate holds the declarative form schemas checked before any
// command reaches a store.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/99minutos/admin-console/internal/core/domain"
)

// MaxPasswordBytes is the longest secret bcrypt accepts.
const MaxPasswordBytes = 72

// Validator wraps go-playground/validator with the console's custom rules and
// renders failures as domain.ValidationErrors keyed by JSON field name.
type Validator struct {
	v *validator.Validate
}

// New returns a Validator with every form rule registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("permission", func(fl validator.FieldLevel) bool {
		return domain.IsKnownPermission(fl.Field().String())
	})
	// bcrypt hashes at most 72 bytes; max= would count runes.
	_ = v.RegisterValidation("bcrypt", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= MaxPasswordBytes
	})
	v.RegisterStructValidation(userPasswordRule, UserForm{})
	return &Validator{v: v}
}

// Struct validates a form and returns domain.ValidationErrors on failure.
func (val *Validator) Struct(form any) error {
	err := val.v.Struct(form)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	out := make(domain.ValidationErrors, 0, len(ve))
	for _, fe := range ve {
		out = append(out, domain.FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

// Validate satisfies echo.Validator so handlers can call c.Validate(req).
func (val *Validator) Validate(i any) error {
	return val.Struct(i)
}

// messages overrides the generic wording for specific form fields, keyed by
// "<Form>.<field>.<tag>".
var messages = map[string]string{
	"UserForm.name.min":                           "Name must be at least 2 characters.",
	"UserForm.email.email":                        "Invalid email address.",
	"UserForm.email.required":                     "Invalid email address.",
	"UserForm.role.required":                      "Role is required.",
	"UserForm.status.required":                    "Status is required.",
	"UserForm.password.min":                       "Password must be at least 8 characters.",
	"UserForm.password.bcrypt":                    "Password must be at most 72 bytes.",
	"UserForm.confirmPassword.passwords":          "Passwords required or do not match",
	"RoleForm.name.min":                           "Role name must be at least 2 characters.",
	"RoleForm.permissions.min":                    "At least one permission is required.",
	"PasswordChangeForm.currentPassword.required": "Current password is required.",
	"PasswordChangeForm.newPassword.min":          "New password must be at least 8 characters.",
	"PasswordChangeForm.newPassword.bcrypt":       "New password must be at most 72 bytes.",
	"PasswordChangeForm.confirmPassword.eqfield":  "New passwords don't match",
	"ProfileForm.name.min":                        "Name must be at least 2 characters.",
}

func message(fe validator.FieldError) string {
	if m, ok := messages[formField(fe)+"."+fe.Tag()]; ok {
		return m
	}
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min", "max":
		bound := "at least"
		if fe.Tag() == "max" {
			bound = "at most"
		}
		switch fe.Kind() {
		case reflect.Slice:
			return fmt.Sprintf("%s must contain %s %s item(s)", field, bound, fe.Param())
		case reflect.Int, reflect.Int64:
			return fmt.Sprintf("%s must be %s %s", field, bound, fe.Param())
		}
		return fmt.Sprintf("%s must be %s %s characters", field, bound, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "permission":
		return fmt.Sprintf("%q is not a known permission", fe.Value())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}

// formField turns "UserForm.permissions[2]" into "UserForm.permissions".
func formField(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '['); i >= 0 {
		ns = ns[:i]
	}
	return ns
}
