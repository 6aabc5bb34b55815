package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rcsnext/crm-api/internal/core/domain"
	"github.com/rcsnext/crm-api/internal/core/ports"
)

type PromoHandler struct {
	promoService ports.PromoService
}

func NewPromoHandler(promoService ports.PromoService) *PromoHandler {
	return &PromoHandler{promoService: promoService}
}

type promoRequest struct {
	Name        string    `json:"name" validate:"required"`
	Description string    `json:"description"`
	Discount    float64   `json:"discount" validate:"gt=0"`
	StartDate   time.Time `json:"start_date" validate:"required"`
	EndDate     time.Time `json:"end_date" validate:"required"`
}

// List returns every campaign. Visible to all authenticated roles.
//
// @Summary      List promos
// @Tags         promos
// @Produce      json
// @Success      200  {array}  domain.Promo
// @Router       /promos [get]
func (h *PromoHandler) List(c echo.Context) error {
	promos, err := h.promoService.ListPromos(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, promos)
}

// Create registers a campaign. Admin only, enforced at the route.
//
// @Summary      Create a promo
// @Tags         promos
// @Accept       json
// @Produce      json
// @Param        body  body      promoRequest  true  "Campaign details"
// @Success      201   {object}  domain.Promo
// @Failure      400   {object}  map[string]string
// @Router       /promos [post]
func (h *PromoHandler) Create(c echo.Context) error {
	var req promoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	promo, err := h.promoService.CreatePromo(c.Request().Context(), &domain.Promo{
		Name:        req.Name,
		Description: req.Description,
		Discount:    req.Discount,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, promo)
}

// Update rewrites a campaign. Admin only, enforced at the route.
//
// @Summary      Update a promo
// @Tags         promos
// @Accept       json
// @Produce      json
// @Param        id    path      string        true  "Promo ID"
// @Param        body  body      promoRequest  true  "Campaign details"
// @Success      200   {object}  domain.Promo
// @Failure      404   {object}  map[string]string
// @Router       /promos/{id} [put]
func (h *PromoHandler) Update(c echo.Context) error {
	var req promoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	promo := &domain.Promo{
		ID:          c.Param("id"),
		Name:        req.Name,
		Description: req.Description,
		Discount:    req.Discount,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	}
	if err := h.promoService.UpdatePromo(c.Request().Context(), promo); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, promo)
}
