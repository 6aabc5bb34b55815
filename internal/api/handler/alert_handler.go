package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rcsnext/crm-api/internal/core/domain"
	"github.com/rcsnext/crm-api/internal/core/ports"
)

type AlertHandler struct {
	alertService ports.AlertService
}

func NewAlertHandler(alertService ports.AlertService) *AlertHandler {
	return &AlertHandler{alertService: alertService}
}

type alertRequest struct {
	Receiver  string    `json:"receiver" validate:"required"`
	Title     string    `json:"title" validate:"required"`
	Body      string    `json:"body"`
	Priority  string    `json:"priority" validate:"omitempty,oneof=low normal high"`
	ExpiresAt time.Time `json:"expires_at"`
}

// List returns the unexpired alerts addressed to the caller's role or
// entity code.
//
// @Summary      List own alerts
// @Tags         alerts
// @Produce      json
// @Success      200  {array}  domain.Alert
// @Router       /alerts [get]
func (h *AlertHandler) List(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	alerts, err := h.alertService.ListAlerts(c.Request().Context(), claims.Role, claims.EntityCode)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, alerts)
}

// Create publishes an alert to a role or entity code. Admin and agent
// only, enforced at the route.
//
// @Summary      Create an alert
// @Tags         alerts
// @Accept       json
// @Produce      json
// @Param        body  body      alertRequest  true  "Alert details"
// @Success      201   {object}  domain.Alert
// @Failure      400   {object}  map[string]string
// @Router       /alerts [post]
func (h *AlertHandler) Create(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req alertRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	alert, err := h.alertService.CreateAlert(c.Request().Context(), &domain.Alert{
		Sender:    claims.UserID,
		Receiver:  req.Receiver,
		Title:     req.Title,
		Body:      req.Body,
		Priority:  req.Priority,
		ExpiresAt: req.ExpiresAt,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, alert)
}

// Update rewrites an alert. Admin and agent only, enforced at the route.
//
// @Summary      Update an alert
// @Tags         alerts
// @Accept       json
// @Produce      json
// @Param        id    path      string        true  "Alert ID"
// @Param        body  body      alertRequest  true  "Alert details"
// @Success      200   {object}  domain.Alert
// @Failure      404   {object}  map[string]string
// @Router       /alerts/{id} [put]
func (h *AlertHandler) Update(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req alertRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	alert := &domain.Alert{
		ID:        c.Param("id"),
		Sender:    claims.UserID,
		Receiver:  req.Receiver,
		Title:     req.Title,
		Body:      req.Body,
		Priority:  req.Priority,
		ExpiresAt: req.ExpiresAt,
	}
	if err := h.alertService.UpdateAlert(c.Request().Context(), alert); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, alert)
}

// Delete removes an alert. Admin only, enforced at the route.
//
// @Summary      Delete an alert
// @Tags         alerts
// @Param        id  path  string  true  "Alert ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /alerts/{id} [delete]
func (h *AlertHandler) Delete(c echo.Context) error {
	if err := h.alertService.DeleteAlert(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
