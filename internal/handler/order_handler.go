package handler

import (
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /checkout, /orders
type OrderHandler struct {
	uc *usecase.OrderUsecase
}

// DI
func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo, requireIdentity echo.MiddlewareFunc) {
	e.POST("/checkout", h.checkout, requireIdentity)

	g := e.Group("/orders", requireIdentity)
	g.GET("", h.list)
	g.GET("/stats", h.stats)
	g.GET("/:id", h.get)
}

func (h *OrderHandler) checkout(c echo.Context) error {
	id, ok := identityFrom(c)
	if !ok {
		return unauthorized(c)
	}

	var req usecase.CheckoutInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	order, err := h.uc.Checkout(c.Request().Context(), middleware.SessionIDFrom(c), *id, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) list(c echo.Context) error {
	id, ok := identityFrom(c)
	if !ok {
		return unauthorized(c)
	}
	out, err := h.uc.List(c.Request().Context(), id.ID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) get(c echo.Context) error {
	id, ok := identityFrom(c)
	if !ok {
		return unauthorized(c)
	}
	out, err := h.uc.Get(c.Request().Context(), id.ID, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) stats(c echo.Context) error {
	id, ok := identityFrom(c)
	if !ok {
		return unauthorized(c)
	}
	out, err := h.uc.Stats(c.Request().Context(), id.ID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
