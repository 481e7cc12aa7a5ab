package repository

import (
	"context"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
)

type wishlistGormRepository struct {
	db *gorm.DB
}

func NewWishlistGormRepository(db *gorm.DB) repo.WishlistRepository {
	return &wishlistGormRepository{db: db}
}

func (r *wishlistGormRepository) ListByUserID(ctx context.Context, userID string) ([]model.WishlistItem, error) {
	var items []model.WishlistItem
	err := r.db.WithContext(ctx).
		Preload("Product.Shop").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&items).Error
	if err != nil {
		return []model.WishlistItem{}, err
	}
	return items, nil
}

func (r *wishlistGormRepository) Add(ctx context.Context, item *model.WishlistItem) error {
	return translate(r.db.WithContext(ctx).Omit("Product").Create(item).Error)
}

func (r *wishlistGormRepository) Remove(ctx context.Context, userID string, productID string) error {
	return affected(r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&model.WishlistItem{}))
}
