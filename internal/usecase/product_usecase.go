package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

// ProductUsecaseは公開カタログ（商品・ショップページ）
type ProductUsecase struct {
	products repo.ProductRepository
	shops    repo.ShopRepository
}

// DI
func NewProductUsecase(products repo.ProductRepository, shops repo.ShopRepository) *ProductUsecase {
	return &ProductUsecase{products: products, shops: shops}
}

// GET /productsの入力DTO
type ListProductsInput struct {
	ShopID   string
	Category string
	New      bool
	Trending bool
	Sale     bool
	Limit    int
}

type ShopPageOutput struct {
	Shop     model.Shop      `json:"shop"`
	Products []model.Product `json:"products"`
}

const maxProductLimit = 100

func (u *ProductUsecase) List(ctx context.Context, in ListProductsInput) ([]model.Product, error) {
	if in.Limit < 0 || in.Limit > maxProductLimit {
		return []model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	products, err := u.products.ListPublic(ctx, repo.ProductFilter{
		ShopID:     strings.TrimSpace(in.ShopID),
		Category:   strings.TrimSpace(in.Category),
		IsNew:      in.New,
		IsTrending: in.Trending,
		OnSale:     in.Sale,
		Limit:      in.Limit,
	})
	if err != nil {
		return []model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return products, nil
}

// 非公開の商品・ショップは404
func (u *ProductUsecase) Get(ctx context.Context, productID string) (model.Product, error) {
	p, err := u.products.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !p.IsActive || (p.Shop != nil && !p.Shop.IsActive) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	return p, nil
}

func (u *ProductUsecase) ShopPage(ctx context.Context, slug string) (ShopPageOutput, error) {
	shop, err := u.shops.FindActiveBySlug(ctx, strings.TrimSpace(slug))
	if errors.Is(err, repo.ErrNotFound) {
		return ShopPageOutput{}, NewHTTPError(http.StatusNotFound, "shop not found")
	}
	if err != nil {
		return ShopPageOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	products, err := u.products.ListPublic(ctx, repo.ProductFilter{ShopID: shop.ID})
	if err != nil {
		return ShopPageOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return ShopPageOutput{Shop: shop, Products: products}, nil
}
