package table

import (
	"cmp"
	"slices"
	"strings"

	"github.com/99minutos/admin-console/internal/core/ports"
)

const (
	DateLayout  = "Jan 2, 2006"
	NeverLabel  = "Never"
	absentLabel = "N/A"
)

// Row is a user formatted for display.
type Row struct {
	ID         string
	Name       string
	Email      string
	Role       string
	Status     string
	Department string
	Location   string
	CreatedAt  string
	LastLogin  string
}

// RowOf formats a user for the table.
func RowOf(u ports.UserView) Row {
	r := Row{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       orNA(u.Role),
		Status:     string(u.Status),
		Department: orNA(u.Department),
		Location:   orNA(u.Location),
		CreatedAt:  u.CreatedAt.Format(DateLayout),
		LastLogin:  NeverLabel,
	}
	if u.LastLogin != nil {
		r.LastLogin = u.LastLogin.Format(DateLayout)
	}
	return r
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return absentLabel
	}
	return s
}

// Direction is a sort direction. The zero value leaves rows in fetch order.
type Direction int

const (
	Unsorted Direction = iota
	Asc
	Desc
)

// Sort orders the current page by one column.
type Sort struct {
	Column    string
	Direction Direction
}

func sortUsers(users []ports.UserView, s Sort) {
	if s.Direction == Unsorted || s.Column == "" {
		return
	}
	slices.SortStableFunc(users, func(a, b ports.UserView) int {
		var c int
		switch s.Column {
		case "createdAt", "created_at":
			c = a.CreatedAt.Compare(b.CreatedAt)
		case "lastLogin", "last_login":
			c = compareLastLogin(a, b)
		default:
			c = cmp.Compare(strings.ToLower(sortKey(a, s.Column)), strings.ToLower(sortKey(b, s.Column)))
		}
		if s.Direction == Desc {
			return -c
		}
		return c
	})
}

func compareLastLogin(a, b ports.UserView) int {
	switch {
	case a.LastLogin == nil && b.LastLogin == nil:
		return 0
	case a.LastLogin == nil:
		return -1
	case b.LastLogin == nil:
		return 1
	default:
		return a.LastLogin.Compare(*b.LastLogin)
	}
}

func sortKey(u ports.UserView, column string) string {
	switch column {
	case "id":
		return u.ID
	case "name":
		return u.Name
	case "email":
		return u.Email
	case "role":
		return u.Role
	case "status":
		return string(u.Status)
	case "department":
		return u.Department
	case "location":
		return u.Location
	default:
		return ""
	}
}
