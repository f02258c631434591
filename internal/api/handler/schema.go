package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// --- Users ---

type listUsersRequest struct {
	Page       int    `query:"page"       json:"page"       validate:"omitempty,min=1"`
	Limit      int    `query:"limit"      json:"limit"      validate:"omitempty,min=1,max=100"`
	Search     string `query:"q"          json:"q"`
	ID         string `query:"id"         json:"id"`
	Name       string `query:"name"       json:"name"`
	Email      string `query:"email"      json:"email"`
	RoleID     string `query:"role_id"    json:"role_id"`
	Role       string `query:"role"       json:"role"`
	Status     string `query:"status"     json:"status"`
	Department string `query:"department" json:"department"`
	Location   string `query:"location"   json:"location"`
}

// listUsersParams are the query parameters bound by listUsersRequest.
var listUsersParams = map[string]struct{}{
	"page": {}, "limit": {}, "q": {}, "id": {}, "name": {}, "email": {},
	"role_id": {}, "role": {}, "status": {}, "department": {}, "location": {},
}

type createUserRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Role            string `json:"role"`
	Status          string `json:"status"`
	Department      string `json:"department"`
	Location        string `json:"location"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type updateUserRequest struct {
	Name            *string `json:"name"`
	Email           *string `json:"email"`
	Role            *string `json:"role"`
	Status          *string `json:"status"`
	Department      *string `json:"department"`
	Location        *string `json:"location"`
	Password        string  `json:"password"`
	ConfirmPassword string  `json:"confirmPassword"`
}

type userResponse struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	RoleID     string     `json:"role_id"`
	Role       string     `json:"role"`
	Status     string     `json:"status"`
	Department string     `json:"department,omitempty"`
	Location   string     `json:"location,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	LastLogin  *time.Time `json:"last_login,omitempty"`
}

type listUsersResponse struct {
	Users      []userResponse `json:"users"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
}

type deleteResponse struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

// --- Roles ---

type roleRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
}

type setPermissionRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

type roleResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Permissions []string `json:"permissions"`
	Protected   bool     `json:"protected"`
}

// --- Account ---

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string        `json:"token"`
	User  *userResponse `json:"user"`
}

type profileRequest struct {
	Name       *string `json:"name"`
	Department *string `json:"department"`
	Location   *string `json:"location"`
}

type passwordChangeRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// --- Dashboard ---

type statsResponse struct {
	TotalUsers    int            `json:"total_users"`
	ActiveUsers   int            `json:"active_users"`
	InactiveUsers int            `json:"inactive_users"`
	PendingUsers  int            `json:"pending_users"`
	UsersByRole   map[string]int `json:"users_by_role"`
	RecentSignups int            `json:"recent_signups"`
}

type growthPoint struct {
	Month      string `json:"month"`
	TotalUsers int    `json:"total_users"`
}
