package ports

import (
	"context"
	"time"

	"github.com/99minutos/admin-console/internal/core/domain"
)

// FilterAll disables a field filter, as does an empty value.
const FilterAll = "all"

// UserQuery asks for one page of users matching Search and Filters.
type UserQuery struct {
	Page     int // 1-based
	PageSize int
	Search   string
	// Filters maps a field name to the exact (case-insensitive) value it must
	// have. Entries are ANDed together.
	Filters map[string]string
}

// UserView is a user with its role reference resolved for display.
type UserView struct {
	ID         string
	Name       string
	Email      string
	RoleID     string
	Role       string
	Status     domain.UserStatus
	Department string
	Location   string
	CreatedAt  time.Time
	LastLogin  *time.Time
}

// UserPage is one page of a filtered user listing.
type UserPage struct {
	Users      []UserView
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// UserInput is the raw payload of the create/edit user form.
type UserInput struct {
	Name            string
	Email           string
	Role            string // role name or role id
	Status          string
	Department      string
	Location        string
	Password        string
	ConfirmPassword string
}

// UserUpdate is a partial edit. Nil fields keep their stored value; an empty
// Password keeps the current password.
type UserUpdate struct {
	Name            *string
	Email           *string
	Role            *string
	Status          *string
	Department      *string
	Location        *string
	Password        string
	ConfirmPassword string
}

// DeleteResult reports whether a delete removed anything. A missing record is
// informational, not a failure.
type DeleteResult struct {
	ID      string
	Deleted bool
}

// UserService is the query and command surface for users.
type UserService interface {
	ListUsers(ctx context.Context, q UserQuery) (*UserPage, error)
	GetUser(ctx context.Context, id string) (*UserView, error)
	CreateUser(ctx context.Context, in UserInput, idempotencyKey string) (*UserView, bool, error)
	UpdateUser(ctx context.Context, id string, in UserUpdate) (*UserView, error)
	DeleteUser(ctx context.Context, id string) (DeleteResult, error)
}
