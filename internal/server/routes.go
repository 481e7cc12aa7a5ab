package server

import (
	"storefront/internal/domain/model"
	"storefront/internal/handler"
	"storefront/internal/middleware"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

type Handlers struct {
	Auth      *handler.AuthHandler
	Products  *handler.ProductHandler
	Cart      *handler.CartHandler
	Theme     *handler.ThemeHandler
	Wishlist  *handler.WishlistHandler
	Orders    *handler.OrderHandler
	Admin     *handler.AdminHandler
	Dashboard *handler.DashboardHandler
}

// RegisterRoutesは公開ルートとロール付きルートを登録する
func RegisterRoutes(e *echo.Echo, h Handlers, gate *usecase.AccessGate, roles middleware.RoleLookup) {
	requireIdentity := middleware.RequireRoles(gate, roles)
	requireSuperadmin := middleware.RequireRoles(gate, roles, model.RoleSuperadmin)
	requireShopOwner := middleware.RequireRoles(gate, roles, model.RoleShopOwner)

	// 公開
	h.Products.RegisterRoutes(e)
	h.Cart.RegisterRoutes(e)
	h.Theme.RegisterRoutes(e)
	h.Auth.RegisterRoutes(e, requireIdentity)

	// ログイン必須
	h.Wishlist.RegisterRoutes(e, requireIdentity)
	h.Orders.RegisterRoutes(e, requireIdentity)

	// ロール必須
	h.Admin.RegisterRoutes(e, requireSuperadmin)
	h.Dashboard.RegisterRoutes(e, requireShopOwner)
}
