package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rcsnext/crm-api/internal/core/ports"
)

type StatsHandler struct {
	statsService ports.StatsService
}

func NewStatsHandler(statsService ports.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// Dashboard aggregates the caller-visible ledger into the dashboard view.
//
// @Summary      Dashboard statistics
// @Tags         stats
// @Produce      json
// @Success      200  {object}  ports.DashboardStats
// @Failure      403  {object}  map[string]string
// @Router       /stats [get]
func (h *StatsHandler) Dashboard(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	stats, err := h.statsService.Dashboard(c.Request().Context(), claims.Role, claims.EntityCode)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
