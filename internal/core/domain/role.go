package domain

import (
	"slices"
	"strings"
)

// ProtectedRoleName is the role that can be neither edited nor deleted.
const ProtectedRoleName = "Admin"

// Permission keys, in the order the permission matrix renders them.
const (
	PermDashboardView  = "dashboard:view"
	PermUsersRead      = "users:read"
	PermUsersCreate    = "users:create"
	PermUsersEdit      = "users:edit"
	PermUsersDelete    = "users:delete"
	PermRolesManage    = "roles:manage"
	PermSettingsManage = "settings:manage"
	PermAuditLogView   = "auditlog:view"
)

// AllPermissions is the fixed permission catalog.
var AllPermissions = []string{
	PermDashboardView,
	PermUsersRead,
	PermUsersCreate,
	PermUsersEdit,
	PermUsersDelete,
	PermRolesManage,
	PermSettingsManage,
	PermAuditLogView,
}

// IsKnownPermission reports whether key belongs to the catalog.
func IsKnownPermission(key string) bool {
	return slices.Contains(AllPermissions, key)
}

// Role groups a set of permission keys under a unique name.
type Role struct {
	ID          string   `json:"id" bson:"_id"`
	Name        string   `json:"name" bson:"name"`
	Description string   `json:"description,omitempty" bson:"description,omitempty"`
	Permissions []string `json:"permissions" bson:"permissions"`
}

// Has reports whether the role grants key.
func (r Role) Has(key string) bool {
	return slices.Contains(r.Permissions, key)
}

// WithPermission returns a copy of r with key granted or revoked.
// Permissions stay unique and keep catalog order.
func (r Role) WithPermission(key string, enabled bool) Role {
	out := r.Clone()
	set := make(map[string]struct{}, len(out.Permissions)+1)
	for _, p := range out.Permissions {
		set[p] = struct{}{}
	}
	if enabled {
		set[key] = struct{}{}
	} else {
		delete(set, key)
	}
	out.Permissions = NormalizePermissions(keys(set))
	return out
}

// Clone returns a copy that does not share the permission slice.
func (r Role) Clone() Role {
	r.Permissions = slices.Clone(r.Permissions)
	return r
}

// RolePatch carries a partial role update. Nil fields are left untouched.
type RolePatch struct {
	Name        *string
	Description *string
	Permissions []string
}

// Apply merges p into r.
func (p RolePatch) Apply(r *Role) {
	if p.Name != nil {
		r.Name = *p.Name
	}
	if p.Description != nil {
		r.Description = *p.Description
	}
	if p.Permissions != nil {
		r.Permissions = NormalizePermissions(p.Permissions)
	}
}

// IsProtectedRole is the policy consulted by every role command: the Admin
// role is immutable regardless of what the caller's UI allows.
func IsProtectedRole(r Role) bool {
	return strings.EqualFold(strings.TrimSpace(r.Name), ProtectedRoleName)
}

// NormalizePermissions removes duplicates and orders catalog keys first in
// catalog order, followed by any unknown keys sorted lexically.
func NormalizePermissions(perms []string) []string {
	seen := make(map[string]struct{}, len(perms))
	for _, p := range perms {
		seen[p] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for _, p := range AllPermissions {
		if _, ok := seen[p]; ok {
			out = append(out, p)
			delete(seen, p)
		}
	}
	rest := keys(seen)
	slices.Sort(rest)
	return append(out, rest...)
}

func keys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
