package repository

import (
	"context"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
)

type ProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

// 公開商品のみ（商品・ショップともにis_active）を新しい順で返す。
func (r *ProductGormRepository) ListPublic(ctx context.Context, f repo.ProductFilter) ([]model.Product, error) {
	var products []model.Product

	tx := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Select("products.*").
		Preload("Shop").
		Joins("JOIN shops ON shops.id = products.shop_id AND shops.is_active = ?", true).
		Where("products.is_active = ?", true)

	if f.ShopID != "" {
		tx = tx.Where("products.shop_id = ?", f.ShopID)
	}
	if f.Category != "" {
		tx = tx.Where("products.category = ?", f.Category)
	}
	if f.IsNew {
		tx = tx.Where("products.is_new = ?", true)
	}
	if f.IsTrending {
		tx = tx.Where("products.is_trending = ?", true)
	}
	if f.OnSale {
		tx = tx.Where("products.compare_at_price IS NOT NULL AND products.compare_at_price > products.price")
	}
	if f.Limit > 0 {
		tx = tx.Limit(f.Limit)
	}

	if err := tx.Order("products.created_at desc").Find(&products).Error; err != nil {
		return []model.Product{}, err
	}
	return products, nil
}

func (r *ProductGormRepository) FindByID(ctx context.Context, productID string) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Preload("Shop").
		Where("id = ?", productID).
		First(&p).Error
	if err != nil {
		return model.Product{}, translate(err)
	}
	return p, nil
}

func (r *ProductGormRepository) ListByShopID(ctx context.Context, shopID string) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Where("shop_id = ?", shopID).
		Order("created_at desc").
		Find(&products).Error
	if err != nil {
		return []model.Product{}, err
	}
	return products, nil
}

func (r *ProductGormRepository) Create(ctx context.Context, p *model.Product) error {
	return translate(r.db.WithContext(ctx).Omit("Shop").Create(p).Error)
}

// 商品の更新（is_activeは別メソッド）
func (r *ProductGormRepository) Update(ctx context.Context, p model.Product) error {
	return affected(r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ?", p.ID).
		Updates(map[string]interface{}{
			"name":             p.Name,
			"slug":             p.Slug,
			"description":      p.Description,
			"price":            p.Price,
			"compare_at_price": p.CompareAtPrice,
			"images":           p.Images,
			"category":         p.Category,
			"sizes":            p.Sizes,
			"colors":           p.Colors,
			"stock":            p.Stock,
			"is_new":           p.IsNew,
			"is_trending":      p.IsTrending,
		}))
}

func (r *ProductGormRepository) Delete(ctx context.Context, productID string) error {
	return affected(r.db.WithContext(ctx).Where("id = ?", productID).Delete(&model.Product{}))
}

func (r *ProductGormRepository) SetActive(ctx context.Context, productID string, active bool) error {
	return affected(r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ?", productID).
		Update("is_active", active))
}

func (r *ProductGormRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Count(&n).Error
	return n, err
}

func (r *ProductGormRepository) CountByShopID(ctx context.Context, shopID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Where("shop_id = ?", shopID).Count(&n).Error
	return n, err
}

var _ repo.ProductRepository = (*ProductGormRepository)(nil)
