package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrNotFound                 = errors.New("not found")
	ErrUserNotFound       error = &notFoundError{msg: "user not found"}
	ErrRoleNotFound       error = &notFoundError{msg: "role not found"}
	ErrDuplicateEmail           = errors.New("email already exists")
	ErrProtectedRole            = errors.New("role is protected")
	ErrRoleInUse                = errors.New("role is assigned to users")
	ErrIncorrectPassword        = errors.New("incorrect current password")
	ErrInvalidCredentials       = errors.New("invalid credentials")
	ErrForbidden                = errors.New("access forbidden")
	// ErrTransient marks a command that failed for a reason worth reporting
	// but not retrying automatically (simulated network failure, store outage).
	ErrTransient = errors.New("temporary failure, please try again")
)

// notFoundError lets ErrUserNotFound and ErrRoleNotFound match ErrNotFound.
type notFoundError struct{ msg string }

func (e *notFoundError) Error() string        { return e.msg }
func (e *notFoundError) Is(target error) bool { return target == ErrNotFound }

// FieldError is a single field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is returned by form validators and by store-level
// invariants. It is never partially applied: when it is returned, no
// mutation happened.
type ValidationErrors []FieldError

// NewValidationError builds a ValidationErrors with a single entry.
func NewValidationError(field, message string) ValidationErrors {
	return ValidationErrors{{Field: field, Message: message}}
}

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, fe := range v {
		msgs = append(msgs, fe.Field+": "+fe.Message)
	}
	return strings.Join(msgs, "; ")
}

// Fields returns the first message per field, keyed by field path.
func (v ValidationErrors) Fields() map[string]string {
	out := make(map[string]string, len(v))
	for _, fe := range v {
		if _, ok := out[fe.Field]; !ok {
			out[fe.Field] = fe.Message
		}
	}
	return out
}

// Has reports whether field failed validation.
func (v ValidationErrors) Has(field string) bool {
	for _, fe := range v {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// Sorted returns the errors ordered by field path.
func (v ValidationErrors) Sorted() ValidationErrors {
	out := append(ValidationErrors(nil), v...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Field < out[j].Field })
	return out
}

// AsValidation unwraps err into ValidationErrors when possible.
func AsValidation(err error) (ValidationErrors, bool) {
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
