package handler

import (
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /cartのHTTP。ログイン不要（匿名セッション単位）
type CartHandler struct {
	uc *usecase.CartUsecase
}

// DI
func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

type CartItemRequest struct {
	ProductID string `json:"product_id" query:"product_id"`
	Size      string `json:"size" query:"size"`
	Color     string `json:"color" query:"color"`
	Quantity  int    `json:"quantity" query:"quantity"`
}

func (h *CartHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/cart")

	g.GET("", h.getCart)
	g.DELETE("", h.clear)
	g.POST("/items", h.addItem)
	g.PATCH("/items", h.updateItem)
	g.DELETE("/items", h.removeItem)
	g.POST("/open", h.open)
	g.POST("/close", h.close)
	g.POST("/toggle", h.toggle)
}

func (h *CartHandler) getCart(c echo.Context) error {
	return c.JSON(http.StatusOK, h.uc.Get(c.Request().Context(), middleware.SessionIDFrom(c)))
}

func (h *CartHandler) addItem(c echo.Context) error {
	var req CartItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	// 省略時は1
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	out, err := h.uc.Add(c.Request().Context(), middleware.SessionIDFrom(c), usecase.AddCartItemInput{
		ProductID: req.ProductID,
		Size:      req.Size,
		Color:     req.Color,
		Quantity:  req.Quantity,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) updateItem(c echo.Context) error {
	var req CartItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Update(c.Request().Context(), middleware.SessionIDFrom(c), usecase.UpdateCartItemInput{
		CartItemKeyInput: usecase.CartItemKeyInput{ProductID: req.ProductID, Size: req.Size, Color: req.Color},
		Quantity:         req.Quantity,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) removeItem(c echo.Context) error {
	var req CartItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Remove(c.Request().Context(), middleware.SessionIDFrom(c), usecase.CartItemKeyInput{
		ProductID: req.ProductID,
		Size:      req.Size,
		Color:     req.Color,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) clear(c echo.Context) error {
	return c.JSON(http.StatusOK, h.uc.Clear(c.Request().Context(), middleware.SessionIDFrom(c)))
}

func (h *CartHandler) open(c echo.Context) error {
	return c.JSON(http.StatusOK, h.uc.Open(c.Request().Context(), middleware.SessionIDFrom(c)))
}

func (h *CartHandler) close(c echo.Context) error {
	return c.JSON(http.StatusOK, h.uc.Close(c.Request().Context(), middleware.SessionIDFrom(c)))
}

func (h *CartHandler) toggle(c echo.Context) error {
	return c.JSON(http.StatusOK, h.uc.Toggle(c.Request().Context(), middleware.SessionIDFrom(c)))
}
