package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// ShopSettingsはオーナーが変更できる項目
type ShopSettings struct {
	Name        string
	Description *string
	LogoURL     *string
	BannerURL   *string
}

type ShopCounts struct {
	Total  int64
	Active int64
}

type ShopRepository interface {
	Create(ctx context.Context, shop *model.Shop) error
	FindByID(ctx context.Context, shopID string) (model.Shop, error)
	//公開中のショップだけ
	FindActiveBySlug(ctx context.Context, slug string) (model.Shop, error)
	FindByOwnerID(ctx context.Context, ownerID string) (model.Shop, error)
	List(ctx context.Context) ([]model.Shop, error)
	UpdateSettings(ctx context.Context, shopID string, s ShopSettings) error
	SetActive(ctx context.Context, shopID string, active bool) error
	Counts(ctx context.Context) (ShopCounts, error)
}
