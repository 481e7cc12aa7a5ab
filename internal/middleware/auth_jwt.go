package middleware

import (
	"net/http"
	"strings"

	"storefront/internal/domain/model"

	"github.com/labstack/echo/v4"
)

const (
	CtxIdentityKey = "identity" // *model.Identity

	AccessTokenCookie = "access_token"
)

type TokenParser interface {
	Parse(raw string) (model.Identity, error)
}

// AuthJWTはBearerヘッダかaccess_token CookieからIdentityを取り出す
// トークンが無い/不正でもここでは弾かない（必要なルートはRequireRolesで判定）
func AuthJWT(parser TokenParser) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := bearerToken(c.Request())
			if raw == "" {
				if ck, err := c.Cookie(AccessTokenCookie); err == nil {
					raw = ck.Value
				}
			}
			if raw == "" {
				return next(c)
			}

			id, err := parser.Parse(raw)
			if err != nil {
				return next(c)
			}

			c.Set(CtxIdentityKey, &id)
			return next(c)
		}
	}
}

func bearerToken(r *http.Request) string {
	authz := r.Header.Get("Authorization")
	if authz == "" {
		return ""
	}
	//Bearer形式か確認してtokenを抜く
	parts := strings.SplitN(authz, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// IdentityFromはログインしていなければnil
func IdentityFrom(c echo.Context) *model.Identity {
	id, _ := c.Get(CtxIdentityKey).(*model.Identity)
	return id
}

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}
