package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
)

const (
	CtxSessionIDKey = "session_id" // string

	SessionName     = "storefront-session"
	sessionValueKey = "sid"
)

// Sessionは匿名セッションIDを払い出す
// カートやテーマはこのIDごとに保存される
func Session(store sessions.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// 署名が壊れていても新しいセッションとして扱う
			sess, _ := store.Get(c.Request(), SessionName)

			sid, _ := sess.Values[sessionValueKey].(string)
			if sid == "" {
				sid = uuid.NewString()
				sess.Values[sessionValueKey] = sid
				if err := sess.Save(c.Request(), c.Response()); err != nil {
					return c.JSON(http.StatusInternalServerError, errorJSON("session error"))
				}
			}

			c.Set(CtxSessionIDKey, sid)
			return next(c)
		}
	}
}

// NewCookieStoreはセッションCookieの設定
func NewCookieStore(secret string, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   60 * 60 * 24 * 30,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

func SessionIDFrom(c echo.Context) string {
	sid, _ := c.Get(CtxSessionIDKey).(string)
	return sid
}
