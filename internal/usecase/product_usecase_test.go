package usecase

import (
	"context"
	"net/http"
	"testing"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestProductUsecase_ListPassesFilter(t *testing.T) {
	products := new(MockProductRepository)
	products.On("ListPublic", mock.Anything, repo.ProductFilter{Category: "tops", OnSale: true, Limit: 8}).
		Return([]model.Product{activeProduct()}, nil)

	uc := NewProductUsecase(products, new(MockShopRepository))
	out, err := uc.List(context.Background(), ListProductsInput{Category: " tops ", Sale: true, Limit: 8})
	require.NoError(t, err)
	assert.Len(t, out, 1)

	_, err = uc.List(context.Background(), ListProductsInput{Limit: 101})
	assert.Equal(t, http.StatusBadRequest, statusOf(err))
}

// Test: 非公開の商品は404
func TestProductUsecase_GetHidden(t *testing.T) {
	hidden := activeProduct()
	hidden.Shop.IsActive = false

	products := new(MockProductRepository)
	products.On("FindByID", mock.Anything, "p1").Return(hidden, nil)

	uc := NewProductUsecase(products, new(MockShopRepository))
	_, err := uc.Get(context.Background(), "p1")
	assert.Equal(t, http.StatusNotFound, statusOf(err))
}

func TestProductUsecase_ShopPage(t *testing.T) {
	shops := new(MockShopRepository)
	products := new(MockProductRepository)
	shops.On("FindActiveBySlug", mock.Anything, "cyber").Return(model.Shop{ID: "shop-1", Slug: "cyber"}, nil)
	shops.On("FindActiveBySlug", mock.Anything, "gone").Return(model.Shop{}, repo.ErrNotFound)
	products.On("ListPublic", mock.Anything, repo.ProductFilter{ShopID: "shop-1"}).Return([]model.Product{activeProduct()}, nil)

	uc := NewProductUsecase(products, shops)
	page, err := uc.ShopPage(context.Background(), "cyber")
	require.NoError(t, err)
	assert.Equal(t, "shop-1", page.Shop.ID)
	assert.Len(t, page.Products, 1)

	_, err = uc.ShopPage(context.Background(), "gone")
	assert.Equal(t, http.StatusNotFound, statusOf(err))
}
