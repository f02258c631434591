package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/admin-console/internal/api/metrics"
	"github.com/99minutos/admin-console/internal/core/ports"
)

// RoleHandler handles HTTP requests for roles and the permission matrix.
type RoleHandler struct {
	service ports.RoleService
}

func NewRoleHandler(service ports.RoleService) *RoleHandler {
	return &RoleHandler{service: service}
}

// List handles GET /v1/roles.
//
// @Summary      List roles
// @Tags         roles
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   roleResponse
// @Router       /v1/roles [get]
func (h *RoleHandler) List(c echo.Context) error {
	roles, err := h.service.ListRoles(c.Request().Context())
	if err != nil {
		return err
	}
	resp := make([]roleResponse, len(roles))
	for i, r := range roles {
		resp[i] = toRoleResponse(r)
	}
	return c.JSON(http.StatusOK, resp)
}

// Get handles GET /v1/roles/:id.
//
// @Summary      Get a role
// @Tags         roles
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Role id"
// @Success      200  {object}  roleResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/roles/{id} [get]
func (h *RoleHandler) Get(c echo.Context) error {
	role, err := h.service.GetRole(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRoleResponse(*role))
}

// Create handles POST /v1/roles.
//
// @Summary      Create a role
// @Tags         roles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      roleRequest  true  "Role details"
// @Success      201   {object}  roleResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/roles [post]
func (h *RoleHandler) Create(c echo.Context) error {
	var req roleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}

	role, err := h.service.CreateRole(c.Request().Context(), toRoleInput(req))
	metrics.RoleCommandsTotal.WithLabelValues("create", metrics.Result(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toRoleResponse(*role))
}

// Update handles PATCH /v1/roles/:id.
//
// @Summary      Update a role
// @Tags         roles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string       true  "Role id"
// @Param        body  body      roleRequest  true  "Role details"
// @Success      200   {object}  roleResponse
// @Failure      403   {object}  errorResponse  "Protected role"
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/roles/{id} [patch]
func (h *RoleHandler) Update(c echo.Context) error {
	var req roleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}

	role, err := h.service.UpdateRole(c.Request().Context(), c.Param("id"), toRoleInput(req))
	metrics.RoleCommandsTotal.WithLabelValues("update", metrics.Result(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRoleResponse(*role))
}

// SetPermission handles PUT /v1/roles/:id/permissions/:permission.
//
// @Summary      Grant or revoke one permission
// @Tags         roles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id          path      string                true  "Role id"
// @Param        permission  path      string                true  "Permission key, e.g. users:edit"
// @Param        body        body      setPermissionRequest  true  "Desired state"
// @Success      200         {object}  roleResponse
// @Failure      403         {object}  errorResponse  "Protected role"
// @Failure      404         {object}  errorResponse
// @Failure      422         {object}  errorResponse
// @Router       /v1/roles/{id}/permissions/{permission} [put]
func (h *RoleHandler) SetPermission(c echo.Context) error {
	var req setPermissionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	role, err := h.service.SetPermission(c.Request().Context(), c.Param("id"), c.Param("permission"), *req.Enabled)
	metrics.RoleCommandsTotal.WithLabelValues("set_permission", metrics.Result(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRoleResponse(*role))
}

// Delete handles DELETE /v1/roles/:id.
//
// @Summary      Delete a role
// @Tags         roles
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Role id"
// @Success      200  {object}  deleteResponse
// @Failure      403  {object}  errorResponse  "Protected role"
// @Failure      409  {object}  errorResponse  "Role still assigned"
// @Router       /v1/roles/{id} [delete]
func (h *RoleHandler) Delete(c echo.Context) error {
	res, err := h.service.DeleteRole(c.Request().Context(), c.Param("id"))
	metrics.RoleCommandsTotal.WithLabelValues("delete", metrics.Result(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, deleteResponse{ID: res.ID, Deleted: res.Deleted})
}
