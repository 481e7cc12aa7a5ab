package repository

import (
	"context"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
)

type ShopGormRepository struct {
	db *gorm.DB
}

// DI
func NewShopGormRepository(db *gorm.DB) *ShopGormRepository {
	return &ShopGormRepository{db: db}
}

func (r *ShopGormRepository) Create(ctx context.Context, shop *model.Shop) error {
	return translate(r.db.WithContext(ctx).Create(shop).Error)
}

func (r *ShopGormRepository) FindByID(ctx context.Context, shopID string) (model.Shop, error) {
	var s model.Shop
	if err := r.db.WithContext(ctx).Where("id = ?", shopID).First(&s).Error; err != nil {
		return model.Shop{}, translate(err)
	}
	return s, nil
}

func (r *ShopGormRepository) FindActiveBySlug(ctx context.Context, slug string) (model.Shop, error) {
	var s model.Shop
	err := r.db.WithContext(ctx).
		Where("slug = ? AND is_active = ?", slug, true).
		First(&s).Error
	if err != nil {
		return model.Shop{}, translate(err)
	}
	return s, nil
}

// オーナー1人につきショップ1つの想定。複数あれば一番古いもの
func (r *ShopGormRepository) FindByOwnerID(ctx context.Context, ownerID string) (model.Shop, error) {
	var s model.Shop
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at asc").
		First(&s).Error
	if err != nil {
		return model.Shop{}, translate(err)
	}
	return s, nil
}

func (r *ShopGormRepository) List(ctx context.Context) ([]model.Shop, error) {
	var shops []model.Shop
	if err := r.db.WithContext(ctx).Order("created_at desc").Find(&shops).Error; err != nil {
		return []model.Shop{}, err
	}
	return shops, nil
}

func (r *ShopGormRepository) UpdateSettings(ctx context.Context, shopID string, s repo.ShopSettings) error {
	return affected(r.db.WithContext(ctx).
		Model(&model.Shop{}).
		Where("id = ?", shopID).
		Updates(map[string]interface{}{
			"name":        s.Name,
			"description": s.Description,
			"logo_url":    s.LogoURL,
			"banner_url":  s.BannerURL,
		}))
}

func (r *ShopGormRepository) SetActive(ctx context.Context, shopID string, active bool) error {
	return affected(r.db.WithContext(ctx).
		Model(&model.Shop{}).
		Where("id = ?", shopID).
		Update("is_active", active))
}

func (r *ShopGormRepository) Counts(ctx context.Context) (repo.ShopCounts, error) {
	var c repo.ShopCounts
	if err := r.db.WithContext(ctx).Model(&model.Shop{}).Count(&c.Total).Error; err != nil {
		return repo.ShopCounts{}, err
	}
	if err := r.db.WithContext(ctx).Model(&model.Shop{}).Where("is_active = ?", true).Count(&c.Active).Error; err != nil {
		return repo.ShopCounts{}, err
	}
	return c, nil
}

var _ repo.ShopRepository = (*ShopGormRepository)(nil)
