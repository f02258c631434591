package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/99minutos/admin-console/docs"
	"github.com/99minutos/admin-console/internal/api/handler"
	"github.com/99minutos/admin-console/internal/api/middleware"
	"github.com/99minutos/admin-console/internal/core/domain"
	"github.com/99minutos/admin-console/internal/core/ports"
	"github.com/99minutos/admin-console/internal/core/validate"
)

// Deps are the services and settings the router wires into handlers.
type Deps struct {
	Users     ports.UserService
	Roles     ports.RoleService
	Accounts  ports.AccountService
	Dashboard ports.DashboardService
	JWTSecret string
	// Checks are the readiness probes for the configured dependencies.
	Checks map[string]handler.DependencyCheck
	Logger zerolog.Logger
	// Registry receives the HTTP metrics. Defaults to the global Prometheus
	// registry; tests pass a fresh one.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validate.New()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Logger))
	var registerer prometheus.Registerer = prometheus.DefaultRegisterer
	var gatherer prometheus.Gatherer = prometheus.DefaultGatherer
	if d.Registry != nil {
		registerer, gatherer = d.Registry, d.Registry
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "admin",
		Registerer: registerer,
	}))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(d.Accounts)
	userHandler := handler.NewUserHandler(d.Users)
	roleHandler := handler.NewRoleHandler(d.Roles)
	accountHandler := handler.NewAccountHandler(d.Accounts)
	dashboardHandler := handler.NewDashboardHandler(d.Dashboard)
	authMiddleware := middleware.Auth(d.JWTSecret, d.Accounts)
	can := func(permission string) echo.MiddlewareFunc {
		return middleware.RequirePermission(d.Roles, permission)
	}

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login)

	// --- Protected API ---
	v1 := e.Group("/v1", authMiddleware)

	users := v1.Group("/users")
	users.GET("", userHandler.List, can(domain.PermUsersRead))
	users.GET("/:id", userHandler.Get, can(domain.PermUsersRead))
	users.POST("", userHandler.Create, can(domain.PermUsersCreate))
	users.PATCH("/:id", userHandler.Update, can(domain.PermUsersEdit))
	users.DELETE("/:id", userHandler.Delete, can(domain.PermUsersDelete))

	roles := v1.Group("/roles")
	roles.GET("", roleHandler.List, can(domain.PermUsersRead))
	roles.GET("/:id", roleHandler.Get, can(domain.PermUsersRead))
	roles.POST("", roleHandler.Create, can(domain.PermRolesManage))
	roles.PATCH("/:id", roleHandler.Update, can(domain.PermRolesManage))
	roles.PUT("/:id/permissions/:permission", roleHandler.SetPermission, can(domain.PermRolesManage))
	roles.DELETE("/:id", roleHandler.Delete, can(domain.PermRolesManage))

	v1.GET("/me", accountHandler.Me)
	v1.PATCH("/me", accountHandler.UpdateProfile)
	v1.POST("/me/password", accountHandler.ChangePassword)

	v1.GET("/dashboard/stats", dashboardHandler.Stats, can(domain.PermDashboardView))
	v1.GET("/dashboard/growth", dashboardHandler.Growth, can(domain.PermDashboardView))

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Checks)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Operability ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
