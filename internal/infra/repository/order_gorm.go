package repository

import (
	"context"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
)

type OrderGormRepository struct {
	db *gorm.DB
}

func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

func (r *OrderGormRepository) Create(ctx context.Context, order *model.Order) error {
	return translate(r.db.WithContext(ctx).Omit("Items").Create(order).Error)
}

func (r *OrderGormRepository) CreateItems(ctx context.Context, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return translate(r.db.WithContext(ctx).Create(&items).Error)
}

func (r *OrderGormRepository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_items.created_at asc")
	})
}

func (r *OrderGormRepository) ListByUserID(ctx context.Context, userID string) ([]model.Order, error) {
	var orders []model.Order
	err := r.withItems(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&orders).Error
	if err != nil {
		return []model.Order{}, err
	}
	return orders, nil
}

func (r *OrderGormRepository) FindByIDForUser(ctx context.Context, orderID string, userID string) (model.Order, error) {
	var o model.Order
	err := r.withItems(ctx).
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&o).Error
	if err != nil {
		return model.Order{}, translate(err)
	}
	return o, nil
}

func (r *OrderGormRepository) ListByShopID(ctx context.Context, shopID string) ([]model.Order, error) {
	var orders []model.Order
	err := r.withItems(ctx).
		Where("shop_id = ?", shopID).
		Order("created_at desc").
		Find(&orders).Error
	if err != nil {
		return []model.Order{}, err
	}
	return orders, nil
}

func (r *OrderGormRepository) FindByIDForShop(ctx context.Context, orderID string, shopID string) (model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).
		Where("id = ? AND shop_id = ?", orderID, shopID).
		First(&o).Error
	if err != nil {
		return model.Order{}, translate(err)
	}
	return o, nil
}

func (r *OrderGormRepository) UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	return affected(r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ?", orderID).
		Update("status", status))
}

func (r *OrderGormRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).Count(&n).Error
	return n, err
}

var _ repo.OrderRepository = (*OrderGormRepository)(nil)
