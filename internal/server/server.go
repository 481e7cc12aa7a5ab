package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"storefront/internal/infra/token"
	"storefront/internal/middleware"
	"storefront/internal/pkg/logger"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// Newは共通ミドルウェア（ログ・recover・セッション・JWT）を付けたechoを返す
func New(log logger.Logger, sessionStore sessions.Store, tokens *token.JWTIssuer) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Logger = logger.Gommon(log)

	e.Use(echomw.Recover())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			fields := logger.Fields{
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency_ms": v.Latency.Milliseconds(),
			}
			if v.Error != nil {
				log.Error("request", v.Error, fields)
				return nil
			}
			log.Info("request", fields)
			return nil
		},
	}))
	e.Use(middleware.Session(sessionStore))
	e.Use(middleware.AuthJWT(tokens))

	return e
}

// Startはctxがキャンセルされたらgracefulに止める
func Start(ctx context.Context, e *echo.Echo, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
