package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// 公開商品の絞り込み。新しい順で返す
type ProductFilter struct {
	ShopID     string
	Category   string
	IsNew      bool
	IsTrending bool
	OnSale     bool
	Limit      int
}

type ProductRepository interface {
	ListPublic(ctx context.Context, f ProductFilter) ([]model.Product, error)
	//公開/非公開に関係なく取得（shopを結合）
	FindByID(ctx context.Context, productID string) (model.Product, error)
	ListByShopID(ctx context.Context, shopID string) ([]model.Product, error)

	Create(ctx context.Context, p *model.Product) error
	Update(ctx context.Context, p model.Product) error
	Delete(ctx context.Context, productID string) error
	SetActive(ctx context.Context, productID string, active bool) error

	Count(ctx context.Context) (int64, error)
	CountByShopID(ctx context.Context, shopID string) (int64, error)
}
