package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rcsnext/crm-api/internal/core/domain"
	"github.com/rcsnext/crm-api/internal/core/ports"
)

type MovementHandler struct {
	movementService ports.MovementService
}

func NewMovementHandler(movementService ports.MovementService) *MovementHandler {
	return &MovementHandler{movementService: movementService}
}

type movementReplaceRequest struct {
	Date        time.Time `json:"date" validate:"required"`
	ClientCode  string    `json:"client_code" validate:"required"`
	ClientName  string    `json:"client_name"`
	AgentCode   string    `json:"agent_code" validate:"required"`
	Brand       string    `json:"brand"`
	Description string    `json:"description"`
	Quantity    float64   `json:"quantity"`
	UnitPrice   float64   `json:"unit_price"`
	Total       float64   `json:"total"`
	Kind        string    `json:"kind"`
}

type movementPatchRequest struct {
	Date        *time.Time `json:"date"`
	Brand       *string    `json:"brand"`
	Description *string    `json:"description"`
	Quantity    *float64   `json:"quantity"`
	UnitPrice   *float64   `json:"unit_price"`
	Total       *float64   `json:"total"`
	Kind        *string    `json:"kind"`
}

// List returns the movements visible to the caller's role scope.
//
// @Summary      List movements
// @Tags         movements
// @Produce      json
// @Success      200  {array}  domain.Movement
// @Failure      403  {object}  map[string]string
// @Router       /movements [get]
func (h *MovementHandler) List(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	movements, err := h.movementService.ListMovements(c.Request().Context(), claims.Role, claims.EntityCode)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, movements)
}

// Replace overwrites every ledger line sharing the list number.
//
// @Summary      Replace a movement
// @Tags         movements
// @Accept       json
// @Produce      json
// @Param        listNumber  path      int                     true  "List number"
// @Param        body        body      movementReplaceRequest  true  "Replacement line"
// @Success      200         {object}  messageResponse
// @Failure      404         {object}  map[string]string
// @Router       /movements/{listNumber} [put]
func (h *MovementHandler) Replace(c echo.Context) error {
	listNumber, err := strconv.Atoi(c.Param("listNumber"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid list number")
	}

	var req movementReplaceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	m := &domain.Movement{
		ListNumber:  listNumber,
		Date:        req.Date,
		ClientCode:  req.ClientCode,
		ClientName:  req.ClientName,
		AgentCode:   req.AgentCode,
		Brand:       req.Brand,
		Description: req.Description,
		Quantity:    req.Quantity,
		UnitPrice:   req.UnitPrice,
		Total:       req.Total,
		Kind:        req.Kind,
	}
	if err := h.movementService.ReplaceMovement(c.Request().Context(), listNumber, m); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "movement replaced"})
}

// Patch updates selected fields on every line sharing the list number.
//
// @Summary      Update a movement
// @Tags         movements
// @Accept       json
// @Produce      json
// @Param        listNumber  path      int                   true  "List number"
// @Param        body        body      movementPatchRequest  true  "Fields to update"
// @Success      200         {object}  messageResponse
// @Failure      404         {object}  map[string]string
// @Router       /movements/{listNumber} [patch]
func (h *MovementHandler) Patch(c echo.Context) error {
	listNumber, err := strconv.Atoi(c.Param("listNumber"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid list number")
	}

	var req movementPatchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	patch := ports.MovementPatch{
		Date:        req.Date,
		Brand:       req.Brand,
		Description: req.Description,
		Quantity:    req.Quantity,
		UnitPrice:   req.UnitPrice,
		Total:       req.Total,
		Kind:        req.Kind,
	}
	if err := h.movementService.UpdateMovement(c.Request().Context(), listNumber, patch); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "movement updated"})
}
