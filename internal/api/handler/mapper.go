package handler

import (
	"github.com/99minutos/admin-console/internal/core/domain"
	"github.com/99minutos/admin-console/internal/core/ports"
)

// --- Request → Service input ---

func toUserQuery(req listUsersRequest) ports.UserQuery {
	filters := make(map[string]string, 8)
	for field, value := range map[string]string{
		"id":         req.ID,
		"name":       req.Name,
		"email":      req.Email,
		"role_id":    req.RoleID,
		"role":       req.Role,
		"status":     req.Status,
		"department": req.Department,
		"location":   req.Location,
	} {
		if value != "" {
			filters[field] = value
		}
	}
	return ports.UserQuery{
		Page:     req.Page,
		PageSize: req.Limit,
		Search:   req.Search,
		Filters:  filters,
	}
}

func toUserInput(req createUserRequest) ports.UserInput {
	return ports.UserInput{
		Name:            req.Name,
		Email:           req.Email,
		Role:            req.Role,
		Status:          req.Status,
		Department:      req.Department,
		Location:        req.Location,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	}
}

func toUserUpdate(req updateUserRequest) ports.UserUpdate {
	return ports.UserUpdate{
		Name:            req.Name,
		Email:           req.Email,
		Role:            req.Role,
		Status:          req.Status,
		Department:      req.Department,
		Location:        req.Location,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	}
}

func toRoleInput(req roleRequest) ports.RoleInput {
	return ports.RoleInput{
		Name:        req.Name,
		Description: req.Description,
		Permissions: req.Permissions,
	}
}

// --- Service result → HTTP response ---

func toUserResponse(v *ports.UserView) *userResponse {
	if v == nil {
		return nil
	}
	return &userResponse{
		ID:         v.ID,
		Name:       v.Name,
		Email:      v.Email,
		RoleID:     v.RoleID,
		Role:       v.Role,
		Status:     string(v.Status),
		Department: v.Department,
		Location:   v.Location,
		CreatedAt:  v.CreatedAt.UTC(),
		LastLogin:  v.LastLogin,
	}
}

func toListUsersResponse(p *ports.UserPage) listUsersResponse {
	users := make([]userResponse, len(p.Users))
	for i := range p.Users {
		users[i] = *toUserResponse(&p.Users[i])
	}
	return listUsersResponse{
		Users:      users,
		Total:      p.Total,
		Page:       p.Page,
		Limit:      p.PageSize,
		TotalPages: p.TotalPages,
	}
}

func toRoleResponse(r domain.Role) roleResponse {
	perms := r.Permissions
	if perms == nil {
		perms = []string{}
	}
	return roleResponse{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Permissions: perms,
		Protected:   domain.IsProtectedRole(r),
	}
}

func toStatsResponse(s *ports.DashboardStats) statsResponse {
	return statsResponse{
		TotalUsers:    s.TotalUsers,
		ActiveUsers:   s.ActiveUsers,
		InactiveUsers: s.InactiveUsers,
		PendingUsers:  s.PendingUsers,
		UsersByRole:   s.UsersByRole,
		RecentSignups: s.RecentSignups,
	}
}
