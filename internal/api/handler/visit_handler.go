package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rcsnext/crm-api/internal/core/domain"
	"github.com/rcsnext/crm-api/internal/core/ports"
)

type VisitHandler struct {
	visitService ports.VisitService
}

func NewVisitHandler(visitService ports.VisitService) *VisitHandler {
	return &VisitHandler{visitService: visitService}
}

type visitRequest struct {
	ClientCode string    `json:"client_code" validate:"required"`
	AgentCode  string    `json:"agent_code"`
	Date       time.Time `json:"date" validate:"required"`
	Type       string    `json:"type" validate:"required"`
	Reason     string    `json:"reason"`
	Notes      string    `json:"notes"`
	Completed  bool      `json:"completed"`
}

// List returns the visits visible to the caller's role scope.
//
// @Summary      List visits
// @Tags         visits
// @Produce      json
// @Success      200  {array}  domain.Visit
// @Failure      403  {object}  map[string]string
// @Router       /visits [get]
func (h *VisitHandler) List(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	visits, err := h.visitService.ListVisits(c.Request().Context(), claims.Role, claims.EntityCode)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, visits)
}

// Create records a visit. Agents always create under their own code.
//
// @Summary      Create a visit
// @Tags         visits
// @Accept       json
// @Produce      json
// @Param        body  body      visitRequest  true  "Visit details"
// @Success      201   {object}  domain.Visit
// @Failure      400   {object}  map[string]string
// @Router       /visits [post]
func (h *VisitHandler) Create(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req visitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	agentCode := req.AgentCode
	if claims.Role == domain.RoleAgent {
		agentCode = claims.EntityCode
	}
	if agentCode == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "agent_code is required")
	}

	visit, err := h.visitService.CreateVisit(c.Request().Context(), &domain.Visit{
		AgentCode:  agentCode,
		ClientCode: req.ClientCode,
		Date:       req.Date,
		Type:       req.Type,
		Reason:     req.Reason,
		Notes:      req.Notes,
		Completed:  req.Completed,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, visit)
}

// Update rewrites a visit record.
//
// @Summary      Update a visit
// @Tags         visits
// @Accept       json
// @Produce      json
// @Param        id    path      string        true  "Visit ID"
// @Param        body  body      visitRequest  true  "Visit details"
// @Success      200   {object}  domain.Visit
// @Failure      404   {object}  map[string]string
// @Router       /visits/{id} [put]
func (h *VisitHandler) Update(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req visitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	agentCode := req.AgentCode
	if claims.Role == domain.RoleAgent {
		agentCode = claims.EntityCode
	}

	visit := &domain.Visit{
		ID:         c.Param("id"),
		AgentCode:  agentCode,
		ClientCode: req.ClientCode,
		Date:       req.Date,
		Type:       req.Type,
		Reason:     req.Reason,
		Notes:      req.Notes,
		Completed:  req.Completed,
	}
	if err := h.visitService.UpdateVisit(c.Request().Context(), visit); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, visit)
}

// Delete removes a visit record.
//
// @Summary      Delete a visit
// @Tags         visits
// @Param        id  path  string  true  "Visit ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /visits/{id} [delete]
func (h *VisitHandler) Delete(c echo.Context) error {
	if err := h.visitService.DeleteVisit(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
