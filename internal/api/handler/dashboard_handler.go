package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/admin-console/internal/core/ports"
)

type DashboardHandler struct {
	service ports.DashboardService
}

func NewDashboardHandler(service ports.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Stats handles GET /v1/dashboard/stats.
//
// @Summary      Dashboard cards
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  statsResponse
// @Router       /v1/dashboard/stats [get]
func (h *DashboardHandler) Stats(c echo.Context) error {
	stats, err := h.service.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toStatsResponse(stats))
}

// Growth handles GET /v1/dashboard/growth.
//
// @Summary      Cumulative user growth per month
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  growthPoint
// @Router       /v1/dashboard/growth [get]
func (h *DashboardHandler) Growth(c echo.Context) error {
	points, err := h.service.Growth(c.Request().Context())
	if err != nil {
		return err
	}
	resp := make([]growthPoint, len(points))
	for i, p := range points {
		resp[i] = growthPoint{Month: p.Month, TotalUsers: p.TotalUsers}
	}
	return c.JSON(http.StatusOK, resp)
}
