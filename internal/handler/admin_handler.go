package handler

import (
	"net/http"
	"strconv"
	"time"

	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /admin（superadmin）
type AdminHandler struct {
	uc *usecase.AdminUsecase
}

func NewAdminHandler(uc *usecase.AdminUsecase) *AdminHandler {
	return &AdminHandler{uc: uc}
}

type createShopRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	OwnerID     string `json:"owner_id"`
}

type assignRoleRequest struct {
	Role string `json:"role"`
}

func (h *AdminHandler) RegisterRoutes(e *echo.Echo, requireSuperadmin echo.MiddlewareFunc) {
	g := e.Group("/admin", requireSuperadmin)

	g.GET("", h.stats)
	g.GET("/stats", h.stats)
	g.GET("/shops", h.listShops)
	g.POST("/shops", h.createShop)
	g.POST("/shops/:id/toggle", h.toggleShop)
	g.GET("/users", h.listUsers)
	g.POST("/users/:id/roles", h.assignRole)
	g.DELETE("/users/:id/roles/:role", h.revokeRole)
	g.GET("/audit-logs", h.auditLogs)
}

func (h *AdminHandler) stats(c echo.Context) error {
	out, err := h.uc.Stats(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) listShops(c echo.Context) error {
	out, err := h.uc.ListShops(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) createShop(c echo.Context) error {
	actor, ok := identityFrom(c)
	if !ok {
		return unauthorized(c)
	}

	var req createShopRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.CreateShop(c.Request().Context(), actor.ID, usecase.CreateShopInput{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		OwnerID:     req.OwnerID,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *AdminHandler) toggleShop(c echo.Context) error {
	actor, ok := identityFrom(c)
	if !ok {
		return unauthorized(c)
	}
	out, err := h.uc.ToggleShop(c.Request().Context(), actor.ID, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) listUsers(c echo.Context) error {
	out, err := h.uc.ListUsers(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) assignRole(c echo.Context) error {
	actor, ok := identityFrom(c)
	if !ok {
		return unauthorized(c)
	}

	var req assignRoleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	n, err := h.uc.AssignRole(c.Request().Context(), actor.ID, c.Param("id"), req.Role)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, n)
}

func (h *AdminHandler) revokeRole(c echo.Context) error {
	actor, ok := identityFrom(c)
	if !ok {
		return unauthorized(c)
	}
	n, err := h.uc.RevokeRole(c.Request().Context(), actor.ID, c.Param("id"), c.Param("role"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, n)
}

func atoiOrZero(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

// from/toはRFC3339
func queryTime(c echo.Context, name string) (*time.Time, error) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (h *AdminHandler) auditLogs(c echo.Context) error {
	limit, err := atoiOrZero(c.QueryParam("limit"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
	}
	offset, err := atoiOrZero(c.QueryParam("offset"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid offset"})
	}
	from, err := queryTime(c, "from")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid from"})
	}
	to, err := queryTime(c, "to")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid to"})
	}

	out, err := h.uc.AuditLogs(c.Request().Context(), usecase.AuditLogQuery{
		ActorUserID:  c.QueryParam("actor_user_id"),
		Action:       c.QueryParam("action"),
		ResourceType: c.QueryParam("resource_type"),
		ResourceID:   c.QueryParam("resource_id"),
		From:         from,
		To:           to,
		Limit:        limit,
		Offset:       offset,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
