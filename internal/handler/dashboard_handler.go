package handler

import (
	"net/http"

	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// /dashboard（shop_owner）
type DashboardHandler struct {
	uc *usecase.ShopOwnerUsecase
}

func NewDashboardHandler(uc *usecase.ShopOwnerUsecase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

type productRequest struct {
	Name           string           `json:"name"`
	Slug           string           `json:"slug"`
	Description    string           `json:"description"`
	Price          decimal.Decimal  `json:"price"`
	CompareAtPrice *decimal.Decimal `json:"compare_at_price"`
	Images         []string         `json:"images"`
	Category       string           `json:"category"`
	Sizes          []string         `json:"sizes"`
	Colors         []string         `json:"colors"`
	Stock          int              `json:"stock"`
	IsNew          bool             `json:"is_new"`
	IsTrending     bool             `json:"is_trending"`
}

func (r productRequest) input() usecase.ProductInput {
	return usecase.ProductInput{
		Name:           r.Name,
		Slug:           r.Slug,
		Description:    r.Description,
		Price:          r.Price,
		CompareAtPrice: r.CompareAtPrice,
		Images:         r.Images,
		Category:       r.Category,
		Sizes:          r.Sizes,
		Colors:         r.Colors,
		Stock:          r.Stock,
		IsNew:          r.IsNew,
		IsTrending:     r.IsTrending,
	}
}

type orderStatusRequest struct {
	Status string `json:"status"`
}

type shopSettingsRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	LogoURL     string `json:"logo_url"`
	BannerURL   string `json:"banner_url"`
}

func (h *DashboardHandler) RegisterRoutes(e *echo.Echo, requireShopOwner echo.MiddlewareFunc) {
	g := e.Group("/dashboard", requireShopOwner)

	g.GET("", h.stats)
	g.GET("/stats", h.stats)

	g.GET("/products", h.listProducts)
	g.POST("/products", h.createProduct)
	g.PUT("/products/:id", h.updateProduct)
	g.DELETE("/products/:id", h.deleteProduct)
	g.POST("/products/:id/toggle", h.toggleProduct)

	g.GET("/orders", h.listOrders)
	g.PATCH("/orders/:id/status", h.updateOrderStatus)

	g.GET("/settings", h.settings)
	g.PUT("/settings", h.updateSettings)
}

func (h *DashboardHandler) stats(c echo.Context) error {
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

func (h *DashboardHandler) listProducts(c echo.Context) error {
	id, ok := identityFrom(c)
	if !ok {
		return unauthorized(c)
	}
	out, err := h.uc.ListProducts(c.Request().Context(), id.ID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *DashboardHandler) createProduct(c echo.Context) error {
	id, ok := identityFrom(c)
	if !ok {
		return unauthorized(c)
	}
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	out, err := h.uc.CreateProduct(c.Request().Context(), id.ID, req.input())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *DashboardHandler) updateProduct(c echo.Context) error {
	id, ok := identityFrom(c)
	if !ok {
		return unauthorized(c)
	}
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	out, err := h.uc.UpdateProduct(c.Request().Context(), id.ID, c.Param("id"), req.input())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *DashboardHandler) deleteProduct(c echo.Context) error {
	id, ok := identityFrom(c)
	if !ok {
		return unauthorized(c)
	}
	if err := h.uc.DeleteProduct(c.Request().Context(), id.ID, c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *DashboardHandler) toggleProduct(c echo.Context) error {
	id, ok := identityFrom(c)
	if !ok {
		return unauthorized(c)
	}
	out, err := h.uc.ToggleProduct(c.Request().Context(), id.ID, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *DashboardHandler) listOrders(c echo.Context) error {
	id, ok := identityFrom(c)
	if !ok {
		return unauthorized(c)
	}
	out, err := h.uc.ListOrders(c.Request().Context(), id.ID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *DashboardHandler) updateOrderStatus(c echo.Context) error {
	id, ok := identityFrom(c)
	if !ok {
		return unauthorized(c)
	}
	var req orderStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	out, err := h.uc.UpdateOrderStatus(c.Request().Context(), id.ID, c.Param("id"), req.Status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *DashboardHandler) settings(c echo.Context) error {
	id, ok := identityFrom(c)
	if !ok {
		return unauthorized(c)
	}
	out, err := h.uc.Settings(c.Request().Context(), id.ID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *DashboardHandler) updateSettings(c echo.Context) error {
	id, ok := identityFrom(c)
	if !ok {
		return unauthorized(c)
	}
	var req shopSettingsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	out, err := h.uc.UpdateSettings(c.Request().Context(), id.ID, usecase.ShopSettingsInput{
		Name:        req.Name,
		Description: req.Description,
		LogoURL:     req.LogoURL,
		BannerURL:   req.BannerURL,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
