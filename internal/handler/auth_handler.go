package handler

import (
	"net/http"
	"time"

	"storefront/internal/middleware"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	uc           *usecase.AuthUsecase
	cookieSecure bool
}

// DIコンストラクタ
func NewAuthHandler(uc *usecase.AuthUsecase, cookieSecure bool) *AuthHandler {
	return &AuthHandler{uc: uc, cookieSecure: cookieSecure}
}

func (h *AuthHandler) RegisterRoutes(e *echo.Echo, requireIdentity echo.MiddlewareFunc) {
	g := e.Group("/auth")
	g.POST("/register", h.register)
	g.POST("/login", h.login)
	g.POST("/logout", h.logout)
	g.GET("/me", h.me)

	// プロフィール画面はログイン必須
	e.GET("/settings/profile", h.me, requireIdentity)
}

func (h *AuthHandler) register(c echo.Context) error {
	var req usecase.AuthRegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	user, err := h.uc.Register(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{"user": user})
}

func (h *AuthHandler) login(c echo.Context) error {
	var req usecase.AuthLoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Login(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}

	// ブラウザ用にCookieにも入れる
	c.SetCookie(&http.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    out.AccessToken,
		Path:     "/",
		Expires:  out.ExpiresAt,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	return c.JSON(http.StatusOK, out)
}

func (h *AuthHandler) logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	return c.JSON(http.StatusOK, usecase.Notice{Level: usecase.NoticeSuccess, Message: "Signed out"})
}

func (h *AuthHandler) me(c echo.Context) error {
	id, ok := identityFrom(c)
	if !ok {
		return unauthorized(c)
	}
	out, err := h.uc.Me(c.Request().Context(), *id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
