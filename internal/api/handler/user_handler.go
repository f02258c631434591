package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/admin-console/internal/api/metrics"
	"github.com/99minutos/admin-console/internal/core/ports"
)

// UserHandler handles HTTP requests for user management.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// List handles GET /v1/users.
//
// @Summary      List users
// @Description  Search matches name or email; filters are ANDed; "all" disables a filter.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        page        query     int     false  "1-based page"  default(1)
// @Param        limit       query     int     false  "Page size"     default(5)
// @Param        q           query     string  false  "Search text"
// @Param        id          query     string  false  "User id"
// @Param        name        query     string  false  "Exact name"
// @Param        email       query     string  false  "Exact email"
// @Param        role_id     query     string  false  "Role id"
// @Param        role        query     string  false  "Role name"
// @Param        status      query     string  false  "Active, Inactive or Pending"
// @Param        department  query     string  false  "Department"
// @Param        location    query     string  false  "Location"
// @Success      200         {object}  listUsersResponse
// @Failure      401         {object}  errorResponse
// @Failure      403         {object}  errorResponse
// @Failure      422         {object}  errorResponse
// @Router       /v1/users [get]
func (h *UserHandler) List(c echo.Context) error {
	var req listUsersRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid query"})
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	q := toUserQuery(req)
	// Unbound parameters are field filters too, so unknown fields match
	// nothing instead of being ignored.
	for key, values := range c.QueryParams() {
		if _, bound := listUsersParams[key]; !bound && len(values) > 0 && values[0] != "" {
			q.Filters[key] = values[0]
		}
	}

	start := time.Now()
	page, err := h.service.ListUsers(c.Request().Context(), q)
	metrics.UserQueryDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toListUsersResponse(page))
}

// Get handles GET /v1/users/:id.
//
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  userResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.service.GetUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Create handles POST /v1/users.
//
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string             false  "Idempotency key to prevent duplicate submissions"
// @Param        body             body      createUserRequest  true   "User details"
// @Success      201              {object}  userResponse
// @Success      200              {object}  userResponse  "Replayed request"
// @Failure      400              {object}  errorResponse
// @Failure      409              {object}  errorResponse
// @Failure      422              {object}  errorResponse
// @Router       /v1/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}

	idempotencyKey := c.Request().Header.Get("Idempotency-Key")
	user, replayed, err := h.service.CreateUser(c.Request().Context(), toUserInput(req), idempotencyKey)
	metrics.UserCommandsTotal.WithLabelValues("create", metrics.Result(err)).Inc()
	if err != nil {
		return err
	}

	if idempotencyKey != "" {
		result := "miss"
		if replayed {
			result = "hit"
		}
		metrics.IdempotencyTotal.WithLabelValues(result).Inc()
	}
	if replayed {
		c.Response().Header().Set("Idempotent-Replayed", "true")
		return c.JSON(http.StatusOK, toUserResponse(user))
	}
	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// Update handles PATCH /v1/users/:id.
//
// @Summary      Update a user
// @Description  Omitted fields keep their value; an empty password keeps the current one.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User id"
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  userResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/users/{id} [patch]
func (h *UserHandler) Update(c echo.Context) error {
	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}

	user, err := h.service.UpdateUser(c.Request().Context(), c.Param("id"), toUserUpdate(req))
	metrics.UserCommandsTotal.WithLabelValues("update", metrics.Result(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Delete handles DELETE /v1/users/:id. Deleting a missing user succeeds with
// deleted=false.
//
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  deleteResponse
// @Router       /v1/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	res, err := h.service.DeleteUser(c.Request().Context(), c.Param("id"))
	metrics.UserCommandsTotal.WithLabelValues("delete", metrics.Result(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, deleteResponse{ID: res.ID, Deleted: res.Deleted})
}
