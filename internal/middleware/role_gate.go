package middleware

import (
	"context"
	"net/http"

	"storefront/internal/domain/model"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

const CtxRolesKey = "roles" // model.RoleSet

type RoleLookup interface {
	Roles(ctx context.Context, sessionID string, st model.AuthState) usecase.RoleResult
}

// RequireRolesはAccessGateの判定で次へ進めるかを決める
// roles無しならログインだけ必要。複数指定はどれか1つでOK
func RequireRoles(gate *usecase.AccessGate, lookup RoleLookup, roles ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := IdentityFrom(c)
			st := model.AuthState{Identity: id}

			var res usecase.RoleResult
			if id != nil && len(roles) > 0 {
				res = lookup.Roles(c.Request().Context(), SessionIDFrom(c), st)
			}

			d := gate.Decide(usecase.GateInput{
				AuthLoading: st.Loading,
				RoleLoading: res.Loading,
				Identity:    id,
				Roles:       res.Roles,
				Required:    roles,
				Target:      c.Request().URL.RequestURI(),
			})

			switch d.Kind {
			case usecase.DecisionRender:
				if res.Roles != nil {
					c.Set(CtxRolesKey, res.Roles)
				}
				return next(c)
			case usecase.DecisionRedirect:
				return c.Redirect(http.StatusFound, d.Location)
			default:
				c.Response().Header().Set("Retry-After", "1")
				return c.JSON(http.StatusServiceUnavailable, errorJSON("loading"))
			}
		}
	}
}
