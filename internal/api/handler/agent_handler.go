package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rcsnext/crm-api/internal/core/domain"
	"github.com/rcsnext/crm-api/internal/core/ports"
)

type AgentHandler struct {
	agentService ports.AgentService
}

func NewAgentHandler(agentService ports.AgentService) *AgentHandler {
	return &AgentHandler{agentService: agentService}
}

type agentUpdateRequest struct {
	Name    string              `json:"name" validate:"required"`
	Email   string              `json:"email" validate:"omitempty,email"`
	Phone   string              `json:"phone"`
	Clients []domain.ClientLink `json:"clients"`
}

// List returns every agent profile. Admin only, enforced at the route.
//
// @Summary      List agents
// @Tags         agents
// @Produce      json
// @Success      200  {array}  domain.Agent
// @Router       /agents [get]
func (h *AgentHandler) List(c echo.Context) error {
	agents, err := h.agentService.ListAgents(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, agents)
}

// Get returns one agent. Agents may only read their own profile; a client
// gets the agent that owns its book entry.
//
// @Summary      Get an agent
// @Tags         agents
// @Produce      json
// @Param        code  path      string  true  "Agent code"
// @Success      200   {object}  domain.Agent
// @Failure      404   {object}  map[string]string
// @Router       /agents/{code} [get]
func (h *AgentHandler) Get(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	code := c.Param("code")
	switch claims.Role {
	case domain.RoleAdmin:
		// unrestricted
	case domain.RoleAgent:
		if claims.EntityCode != code {
			return domain.ErrForbidden
		}
	case domain.RoleClient:
		agent, err := h.agentService.GetAgentForClient(c.Request().Context(), claims.EntityCode)
		if err != nil {
			return err
		}
		if agent.Code != code {
			return domain.ErrForbidden
		}
		return c.JSON(http.StatusOK, agent)
	default:
		return domain.ErrForbidden
	}

	agent, err := h.agentService.GetAgent(c.Request().Context(), code)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, agent)
}

// Mine returns the agent profile attached to the caller: the agent's own
// profile, or the agent serving the calling client.
//
// @Summary      Get the caller's agent
// @Tags         agents
// @Produce      json
// @Success      200  {object}  domain.Agent
// @Failure      404  {object}  map[string]string
// @Router       /agents/me [get]
func (h *AgentHandler) Mine(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	switch claims.Role {
	case domain.RoleAgent:
		agent, err := h.agentService.GetAgent(c.Request().Context(), claims.EntityCode)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, agent)
	case domain.RoleClient:
		agent, err := h.agentService.GetAgentForClient(c.Request().Context(), claims.EntityCode)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, agent)
	default:
		return domain.ErrForbidden
	}
}

// Update rewrites an agent profile. Admin only, enforced at the route.
//
// @Summary      Update an agent
// @Tags         agents
// @Accept       json
// @Produce      json
// @Param        code  path      string              true  "Agent code"
// @Param        body  body      agentUpdateRequest  true  "Agent profile"
// @Success      200   {object}  domain.Agent
// @Failure      404   {object}  map[string]string
// @Router       /agents/{code} [put]
func (h *AgentHandler) Update(c echo.Context) error {
	var req agentUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	agent := &domain.Agent{
		Code:    c.Param("code"),
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Clients: req.Clients,
	}
	if err := h.agentService.UpdateAgent(c.Request().Context(), agent); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, agent)
}
