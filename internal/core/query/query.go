// Package query answers "page N of users matching a search and filters"
// over a store snapshot. Everything here is pure: same snapshot, same answer.
package query

import (
	"strings"

	"github.com/99minutos/admin-console/internal/core/domain"
	"github.com/99minutos/admin-console/internal/core/ports"
)

// RoleNameFunc resolves a role id to its display name ("" when unknown).
type RoleNameFunc func(roleID string) string

// Result is a page of matches plus the match count before paging.
type Result struct {
	Users []domain.User
	Total int
}

// Users filters, searches and paginates snapshot. It assumes q.PageSize > 0;
// callers normalise the request first.
func Users(snapshot []domain.User, q ports.UserQuery, roleName RoleNameFunc) Result {
	matched := make([]domain.User, 0, len(snapshot))
	search := strings.ToLower(q.Search)
	for _, u := range snapshot {
		if search != "" && !matchesSearch(u, search) {
			continue
		}
		if !matchesFilters(u, q.Filters, roleName) {
			continue
		}
		matched = append(matched, u)
	}

	return Result{Users: Paginate(matched, q.Page, q.PageSize), Total: len(matched)}
}

// Paginate returns the 1-based page of items. A window past the end yields a
// short or empty page, never an error.
func Paginate[T any](items []T, page, pageSize int) []T {
	if pageSize <= 0 {
		return []T{}
	}
	start := (page - 1) * pageSize
	if start < 0 || start >= len(items) {
		return []T{}
	}
	end := min(start+pageSize, len(items))
	return items[start:end]
}

// PageCount is ceil(total/pageSize), or 0 when pageSize is not positive.
func PageCount(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

func matchesSearch(u domain.User, lowered string) bool {
	return strings.Contains(strings.ToLower(u.Name), lowered) ||
		strings.Contains(strings.ToLower(u.Email), lowered)
}

func matchesFilters(u domain.User, filters map[string]string, roleName RoleNameFunc) bool {
	for field, want := range filters {
		if want == "" || want == ports.FilterAll {
			continue
		}
		if !strings.EqualFold(FieldValue(u, field, roleName), want) {
			return false
		}
	}
	return true
}

// FieldValue stringifies a filterable field. Unknown fields stringify to ""
// and therefore never match a non-empty filter.
func FieldValue(u domain.User, field string, roleName RoleNameFunc) string {
	switch field {
	case "id":
		return u.ID
	case "name":
		return u.Name
	case "email":
		return u.Email
	case "role":
		if roleName == nil {
			return ""
		}
		return roleName(u.RoleID)
	case "role_id", "roleId":
		return u.RoleID
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
