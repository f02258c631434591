// Package matrix holds the role × permission grid. Toggles are applied to the
// local grid first and reconciled with the authoritative role returned by the
// server; a failed toggle restores the last confirmed role.
package matrix

import (
	"context"
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"github.com/99minutos/admin-console/internal/core/domain"
)

// PermissionSetter applies a single permission change and returns the stored
// role. ports.RoleService and the HTTP admin client both satisfy it.
type PermissionSetter interface {
	SetPermission(ctx context.Context, roleID, permission string, enabled bool) (*domain.Role, error)
}

// Matrix is the permission grid's view state. It is safe for concurrent use.
type Matrix struct {
	setter PermissionSetter
	logger zerolog.Logger

	mu        sync.Mutex
	order     []string
	confirmed map[string]domain.Role
	view      map[string]domain.Role
}

func New(setter PermissionSetter, roles []domain.Role, logger zerolog.Logger) *Matrix {
	m := &Matrix{setter: setter, logger: logger}
	m.Reset(roles)
	return m
}

// Reset replaces the grid with freshly loaded roles.
func (m *Matrix) Reset(roles []domain.Role) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.order = make([]string, 0, len(roles))
	m.confirmed = make(map[string]domain.Role, len(roles))
	m.view = make(map[string]domain.Role, len(roles))
	for _, r := range roles {
		m.order = append(m.order, r.ID)
		m.confirmed[r.ID] = r.Clone()
		m.view[r.ID] = r.Clone()
	}
}

// Roles returns the grid rows as currently displayed, including unconfirmed
// toggles.
func (m *Matrix) Roles() []domain.Role {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Role, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.view[id].Clone())
	}
	return out
}

// Permissions are the grid columns.
func (m *Matrix) Permissions() []string {
	return slices.Clone(domain.AllPermissions)
}

// Granted reports the displayed state of one cell.
func (m *Matrix) Granted(roleID, permission string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view[roleID].Has(permission)
}

// Editable reports whether a role's cells accept toggles.
func (m *Matrix) Editable(roleID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.view[roleID]
	return ok && !domain.IsProtectedRole(r)
}

// Toggle flips one cell. The grid shows the new value immediately; when the
// server rejects the change the role reverts to its last confirmed state and
// the error is returned.
func (m *Matrix) Toggle(ctx context.Context, roleID, permission string) (domain.Role, error) {
	m.mu.Lock()
	current, ok := m.view[roleID]
	if !ok {
		m.mu.Unlock()
		return domain.Role{}, domain.ErrRoleNotFound
	}
	if domain.IsProtectedRole(current) {
		m.mu.Unlock()
		return current.Clone(), domain.ErrProtectedRole
	}
	enabled := !current.Has(permission)
	m.view[roleID] = current.WithPermission(permission, enabled)
	m.mu.Unlock()

	stored, err := m.setter.SetPermission(ctx, roleID, permission, enabled)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		confirmed := m.confirmed[roleID]
		m.view[roleID] = confirmed.Clone()
		m.logger.Warn().
			Err(err).
			Str("role_id", roleID).
			Str("permission", permission).
			Msg("permission toggle reverted")
		return confirmed.Clone(), err
	}
	m.confirmed[roleID] = stored.Clone()
	m.view[roleID] = stored.Clone()
	return stored.Clone(), nil
}
