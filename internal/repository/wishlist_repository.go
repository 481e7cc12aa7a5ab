package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type WishlistRepository interface {
	// 商品とショップを結合して返す
	ListByUserID(ctx context.Context, userID string) ([]model.WishlistItem, error)
	// 既に入っていればErrDuplicate
	Add(ctx context.Context, item *model.WishlistItem) error
	Remove(ctx context.Context, userID string, productID string) error
}
