package usecase

import (
	"context"
	"net/http"

	"storefront/internal/domain/model"
	"storefront/internal/infra/kv"
	"storefront/internal/pkg/logger"
)

type ThemeUsecase struct {
	store kv.Store
	log   logger.Logger
}

func NewThemeUsecase(store kv.Store, log logger.Logger) *ThemeUsecase {
	return &ThemeUsecase{store: store, log: log}
}

type ThemeOutput struct {
	Theme  model.ThemeName   `json:"theme"`
	Themes []model.ThemeName `json:"themes"`
}

// 未保存・不正値はデフォルト
func (u *ThemeUsecase) Get(ctx context.Context, sessionID string) ThemeOutput {
	out := ThemeOutput{Theme: model.DefaultTheme, Themes: model.Themes()}

	raw, err := kv.Namespace(u.store, sessionID).Get(ctx, kv.KeyAppTheme)
	if err != nil {
		if err != kv.ErrMiss {
			u.log.Warn("theme load failed", logger.Fields{"error": err.Error()})
		}
		return out
	}
	if t, ok := model.ParseTheme(raw); ok {
		out.Theme = t
	}
	return out
}

func (u *ThemeUsecase) Set(ctx context.Context, sessionID string, name string) (ThemeOutput, error) {
	t, ok := model.ParseTheme(name)
	if !ok {
		return ThemeOutput{}, NewHTTPError(http.StatusBadRequest, "unknown theme")
	}
	if err := kv.Namespace(u.store, sessionID).Set(ctx, kv.KeyAppTheme, string(t), 0); err != nil {
		u.log.Warn("theme persist failed", logger.Fields{"error": err.Error()})
	}
	return ThemeOutput{Theme: t, Themes: model.Themes()}, nil
}
