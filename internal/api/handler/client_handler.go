package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rcsnext/crm-api/internal/core/domain"
	"github.com/rcsnext/crm-api/internal/core/ports"
)

type ClientHandler struct {
	clientService ports.ClientService
}

func NewClientHandler(clientService ports.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

type clientUpdateRequest struct {
	Name      string `json:"name" validate:"required"`
	Address   string `json:"address"`
	City      string `json:"city"`
	Province  string `json:"province"`
	AgentCode string `json:"agent_code"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone"`
	VATNumber string `json:"vat_number"`
}

// List returns the clients visible to the caller: all of them for admins,
// the agent's own book for agents.
//
// @Summary      List clients
// @Tags         clients
// @Produce      json
// @Success      200  {array}  domain.Client
// @Failure      403  {object}  map[string]string
// @Router       /clients [get]
func (h *ClientHandler) List(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	clients, err := h.clientService.ListClients(c.Request().Context(), claims.Role, claims.EntityCode)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, clients)
}

// Get returns one client record, scoped by role in the service.
//
// @Summary      Get a client
// @Tags         clients
// @Produce      json
// @Param        code  path      string  true  "Client code"
// @Success      200   {object}  domain.Client
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /clients/{code} [get]
func (h *ClientHandler) Get(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	client, err := h.clientService.GetClient(c.Request().Context(), claims.Role, claims.EntityCode, c.Param("code"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, client)
}

// Mine returns the calling client's own record.
//
// @Summary      Get own client record
// @Tags         clients
// @Produce      json
// @Success      200  {object}  domain.Client
// @Failure      403  {object}  map[string]string
// @Router       /clients/me [get]
func (h *ClientHandler) Mine(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	if claims.Role != domain.RoleClient {
		return domain.ErrForbidden
	}
	client, err := h.clientService.GetClient(c.Request().Context(), claims.Role, claims.EntityCode, claims.EntityCode)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, client)
}

// Update rewrites a client record. Admin only, enforced at the route.
//
// @Summary      Update a client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        code  path      string               true  "Client code"
// @Param        body  body      clientUpdateRequest  true  "Client profile"
// @Success      200   {object}  domain.Client
// @Failure      404   {object}  map[string]string
// @Router       /clients/{code} [put]
func (h *ClientHandler) Update(c echo.Context) error {
	var req clientUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	client := &domain.Client{
		Code:      c.Param("code"),
		Name:      req.Name,
		Address:   req.Address,
		City:      req.City,
		Province:  req.Province,
		AgentCode: req.AgentCode,
		Email:     req.Email,
		Phone:     req.Phone,
		VATNumber: req.VATNumber,
	}
	if err := h.clientService.UpdateClient(c.Request().Context(), client); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, client)
}
