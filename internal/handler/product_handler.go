package handler

import (
	"net/http"
	"strconv"

	"storefront/internal/domain/model"
	"storefront/internal/middleware"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// ゲートを通った後なので基本は必ずある
func identityFrom(c echo.Context) (*model.Identity, bool) {
	id := middleware.IdentityFrom(c)
	return id, id != nil
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
}

// 公開カタログ
type ProductHandler struct {
	uc *usecase.ProductUsecase
}

// DI
func NewProductHandler(uc *usecase.ProductUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// 公開商品のルートを登録
func (h *ProductHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/products", h.list)
	e.GET("/products/:id", h.detail)
	e.GET("/category/:category", h.category)
	e.GET("/new", h.newArrivals)
	e.GET("/sale", h.sale)
	e.GET("/shop/:slug", h.shop)
}

func queryBool(c echo.Context, name string) (bool, error) {
	v := c.QueryParam(name)
	if v == "" {
		return false, nil
	}
	return strconv.ParseBool(v)
}

func queryLimit(c echo.Context) (int, error) {
	v := c.QueryParam("limit")
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}

func (h *ProductHandler) list(c echo.Context) error {
	in := usecase.ListProductsInput{
		ShopID:   c.QueryParam("shop_id"),
		Category: c.QueryParam("category"),
	}

	var err error
	if in.New, err = queryBool(c, "new"); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid new"})
	}
	if in.Trending, err = queryBool(c, "trending"); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid trending"})
	}
	if in.Sale, err = queryBool(c, "sale"); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid sale"})
	}
	if in.Limit, err = queryLimit(c); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
	}

	return h.respondList(c, in)
}

func (h *ProductHandler) respondList(c echo.Context, in usecase.ListProductsInput) error {
	out, err := h.uc.List(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) category(c echo.Context) error {
	return h.respondList(c, usecase.ListProductsInput{Category: c.Param("category")})
}

func (h *ProductHandler) newArrivals(c echo.Context) error {
	return h.respondList(c, usecase.ListProductsInput{New: true})
}

func (h *ProductHandler) sale(c echo.Context) error {
	return h.respondList(c, usecase.ListProductsInput{Sale: true})
}

func (h *ProductHandler) detail(c echo.Context) error {
	p, err := h.uc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) shop(c echo.Context) error {
	out, err := h.uc.ShopPage(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
