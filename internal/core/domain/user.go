package domain

import "time"

// UserStatus is the account state shown in the user table.
type UserStatus string

const (
	StatusActive   UserStatus = "Active"
	StatusInactive UserStatus = "Inactive"
	StatusPending  UserStatus = "Pending"
)

// Valid reports whether s is one of the known statuses.
func (s UserStatus) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusPending:
		return true
	}
	return false
}

// User models a managed account. RoleID references Role.ID; the role name is
// resolved at the boundary so renaming a role never orphans its users.
type User struct {
	ID           string     `json:"id" bson:"_id"`
	Name         string     `json:"name" bson:"name"`
	Email        string     `json:"email" bson:"email"`
	RoleID       string     `json:"role_id" bson:"role_id"`
	Status       UserStatus `json:"status" bson:"status"`
	Department   string     `json:"department,omitempty" bson:"department,omitempty"`
	Location     string     `json:"location,omitempty" bson:"location,omitempty"`
	CreatedAt    time.Time  `json:"created_at" bson:"created_at"`
	LastLogin    *time.Time `json:"last_login,omitempty" bson:"last_login,omitempty"`
	PasswordHash string     `json:"-" bson:"password_hash,omitempty"`
}

// UserPatch carries a partial update. Nil fields are left untouched.
type UserPatch struct {
	Name         *string
	Email        *string
	RoleID       *string
	Status       *UserStatus
	Department   *string
	Location     *string
	LastLogin    *time.Time
	PasswordHash *string
}

// Apply merges the non-nil fields of p into u. ID and CreatedAt never change.
func (p UserPatch) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.RoleID != nil {
		u.RoleID = *p.RoleID
	}
	if p.Status != nil {
		u.Status = *p.Status
	}
	if p.Department != nil {
		u.Department = *p.Department
	}
	if p.Location != nil {
		u.Location = *p.Location
	}
	if p.LastLogin != nil {
		t := *p.LastLogin
		u.LastLogin = &t
	}
	if p.PasswordHash != nil {
		u.PasswordHash = *p.PasswordHash
	}
}

// Clone returns a deep copy so callers never share LastLogin with the store.
func (u User) Clone() User {
	if u.LastLogin != nil {
		t := *u.LastLogin
		u.LastLogin = &t
	}
	return u
}
