package handler

import (
	"net/http"

	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

type WishlistHandler struct {
	uc *usecase.WishlistUsecase
}

func NewWishlistHandler(uc *usecase.WishlistUsecase) *WishlistHandler {
	return &WishlistHandler{uc: uc}
}

// requireIdentityはログイン必須のゲート
func (h *WishlistHandler) RegisterRoutes(e *echo.Echo, requireIdentity echo.MiddlewareFunc) {
	g := e.Group("/wishlist", requireIdentity)

	g.GET("", h.list)
	g.POST("/:productID", h.add)
	g.DELETE("/:productID", h.remove)
	g.POST("/:productID/toggle", h.toggle)
}

func (h *WishlistHandler) list(c echo.Context) error {
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

func (h *WishlistHandler) add(c echo.Context) error {
	id, ok := identityFrom(c)
	if !ok {
		return unauthorized(c)
	}
	n, err := h.uc.Add(c.Request().Context(), id.ID, c.Param("productID"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, n)
}

func (h *WishlistHandler) remove(c echo.Context) error {
	id, ok := identityFrom(c)
	if !ok {
		return unauthorized(c)
	}
	n, err := h.uc.Remove(c.Request().Context(), id.ID, c.Param("productID"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, n)
}

func (h *WishlistHandler) toggle(c echo.Context) error {
	id, ok := identityFrom(c)
	if !ok {
		return unauthorized(c)
	}
	out, err := h.uc.Toggle(c.Request().Context(), id.ID, c.Param("productID"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
