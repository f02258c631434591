package memory

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/admin-console/internal/core/domain"
)

// SeedPassword is the password every demo account starts with.
const SeedPassword = "password123"

// Role ids of the demo roles.
const (
	RoleAdminID   = "role_admin"
	RoleManagerID = "role_manager"
	RoleStaffID   = "role_staff"
	RoleViewerID  = "role_viewer"
)

// SeedRoles returns the demo roles.
func SeedRoles() []domain.Role {
	return []domain.Role{
		{
			ID: RoleAdminID, Name: "Admin", Description: "Full access to all features",
			Permissions: []string{domain.PermUsersRead, domain.PermUsersCreate, domain.PermUsersEdit, domain.PermUsersDelete, domain.PermRolesManage, domain.PermSettingsManage},
		},
		{
			ID: RoleManagerID, Name: "Manager", Description: "Manage users within their department",
			Permissions: []string{domain.PermDashboardView, domain.PermUsersRead, domain.PermUsersCreate, domain.PermUsersEdit},
		},
		{
			ID: RoleStaffID, Name: "Staff", Description: "Standard user access",
			Permissions: []string{domain.PermDashboardView, domain.PermUsersRead},
		},
		{
			ID: RoleViewerID, Name: "Viewer", Description: "Read-only access",
			Permissions: []string{domain.PermUsersRead},
		},
	}
}

// seedHash is computed once; bcrypt is deliberately slow.
var seedHash = func() string {
	h, err := bcrypt.GenerateFromPassword([]byte(SeedPassword), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return string(h)
}()

// SeedUsers returns the ten demo users, two of them Admins.
func SeedUsers() []domain.User {
	day := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }
	lastLogin := day(2024, time.July, 20)

	users := []domain.User{
		{ID: "usr_1", Name: "Alice Wonderland", Email: "alice@example.com", RoleID: RoleAdminID, Status: domain.StatusActive, CreatedAt: day(2023, time.January, 15), Department: "IT", Location: "New York"},
		{ID: "usr_2", Name: "Bob The Builder", Email: "bob@example.com", RoleID: RoleManagerID, Status: domain.StatusActive, CreatedAt: day(2023, time.February, 20), Department: "Engineering", LastLogin: &lastLogin},
		{ID: "usr_3", Name: "Charlie Chaplin", Email: "charlie@example.com", RoleID: RoleStaffID, Status: domain.StatusInactive, CreatedAt: day(2023, time.March, 10), Department: "Marketing"},
		{ID: "usr_4", Name: "Diana Prince", Email: "diana@example.com", RoleID: RoleStaffID, Status: domain.StatusPending, CreatedAt: day(2024, time.July, 1), Department: "Sales", Location: "London"},
		{ID: "usr_5", Name: "Ethan Hunt", Email: "ethan@example.com", RoleID: RoleManagerID, Status: domain.StatusActive, CreatedAt: day(2023, time.May, 5), Department: "Operations"},
		{ID: "usr_6", Name: "Fiona Shrek", Email: "fiona@example.com", RoleID: RoleAdminID, Status: domain.StatusActive, CreatedAt: day(2022, time.November, 11), Department: "HR"},
		{ID: "usr_7", Name: "George Costanza", Email: "george@example.com", RoleID: RoleStaffID, Status: domain.StatusActive, CreatedAt: day(2024, time.January, 30), Department: "Sales"},
		{ID: "usr_8", Name: "Hermione Granger", Email: "hermione@example.com", RoleID: RoleStaffID, Status: domain.StatusInactive, CreatedAt: day(2023, time.September, 1), Department: "Research"},
		{ID: "usr_9", Name: "Indiana Jones", Email: "indy@example.com", RoleID: RoleManagerID, Status: domain.StatusActive, CreatedAt: day(2023, time.June, 15), Department: "Archaeology"},
		{ID: "usr_10", Name: "Jack Sparrow", Email: "jack@example.com", RoleID: RoleStaffID, Status: domain.StatusPending, CreatedAt: day(2024, time.July, 15), Department: "Maritime"},
	}
	for i := range users {
		users[i].PasswordHash = seedHash
	}
	return users
}
