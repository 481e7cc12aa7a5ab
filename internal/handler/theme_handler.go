package handler

import (
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ThemeHandler struct {
	uc *usecase.ThemeUsecase
}

func NewThemeHandler(uc *usecase.ThemeUsecase) *ThemeHandler {
	return &ThemeHandler{uc: uc}
}

type themeRequest struct {
	Theme string `json:"theme"`
}

func (h *ThemeHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/settings/theme", h.get)
	e.PUT("/settings/theme", h.put)
}

func (h *ThemeHandler) get(c echo.Context) error {
	return c.JSON(http.StatusOK, h.uc.Get(c.Request().Context(), middleware.SessionIDFrom(c)))
}

func (h *ThemeHandler) put(c echo.Context) error {
	var req themeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	out, err := h.uc.Set(c.Request().Context(), middleware.SessionIDFrom(c), req.Theme)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
