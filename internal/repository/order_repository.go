package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	CreateItems(ctx context.Context, items []model.OrderItem) error

	// 明細付き・新しい順
	ListByUserID(ctx context.Context, userID string) ([]model.Order, error)
	// 他人の注文はErrNotFound
	FindByIDForUser(ctx context.Context, orderID string, userID string) (model.Order, error)

	ListByShopID(ctx context.Context, shopID string) ([]model.Order, error)
	FindByIDForShop(ctx context.Context, orderID string, shopID string) (model.Order, error)
	UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error

	Count(ctx context.Context) (int64, error)
}
