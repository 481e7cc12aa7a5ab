package usecase

import (
	"context"
	"net/http"
	"testing"

	"storefront/internal/domain/model"
	"storefront/internal/infra/kv"
	"storefront/internal/pkg/logger"
	repo "storefront/internal/repository"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func activeProduct() model.Product {
	return model.Product{
		ID:       "p1",
		ShopID:   "shop-1",
		Name:     "Neon Tee",
		Price:    decimal.RequireFromString("25.00"),
		Images:   pq.StringArray{"a.png"},
		Sizes:    pq.StringArray{"S", "M"},
		Colors:   pq.StringArray{"black", "white"},
		IsActive: true,
		Shop:     &model.Shop{ID: "shop-1", Name: "Cyber Shop", IsActive: true},
	}
}

func newCartUsecase(products repo.ProductRepository) *CartUsecase {
	return NewCartUsecase(NewCartSessions(kv.NewMemoryStore(), logger.Nop()), products)
}

// Test: 追加すると商品情報がスナップショットされる
func TestCartUsecase_Add(t *testing.T) {
	ctx := context.Background()
	products := new(MockProductRepository)
	products.On("FindByID", mock.Anything, "p1").Return(activeProduct(), nil)

	uc := newCartUsecase(products)
	out, err := uc.Add(ctx, "s1", AddCartItemInput{ProductID: "p1", Size: "M", Color: "black", Quantity: 2})
	require.NoError(t, err)

	require.Len(t, out.Items, 1)
	assert.Equal(t, "Cyber Shop", out.Items[0].Product.Brand)
	assert.Equal(t, 2, out.TotalItems)
	assert.True(t, out.TotalPrice.Equal(decimal.RequireFromString("50")))
	assert.True(t, out.IsOpen)
	products.AssertExpectations(t)
}

// Test: サイズ/カラー/公開状態のチェック
func TestCartUsecase_AddRejects(t *testing.T) {
	ctx := context.Background()

	inactive := activeProduct()
	inactive.ID = "p2"
	inactive.IsActive = false

	closedShop := activeProduct()
	closedShop.ID = "p3"
	closedShop.Shop = &model.Shop{ID: "shop-2", IsActive: false}

	products := new(MockProductRepository)
	products.On("FindByID", mock.Anything, "p1").Return(activeProduct(), nil)
	products.On("FindByID", mock.Anything, "p2").Return(inactive, nil)
	products.On("FindByID", mock.Anything, "p3").Return(closedShop, nil)
	products.On("FindByID", mock.Anything, "nope").Return(model.Product{}, repo.ErrNotFound)

	uc := newCartUsecase(products)

	cases := []struct {
		name string
		in   AddCartItemInput
		msg  string
	}{
		{"empty id", AddCartItemInput{ProductID: " "}, "invalid product_id"},
		{"unknown product", AddCartItemInput{ProductID: "nope"}, "invalid product_id"},
		{"inactive product", AddCartItemInput{ProductID: "p2", Size: "M", Color: "black"}, "product not available"},
		{"inactive shop", AddCartItemInput{ProductID: "p3", Size: "M", Color: "black"}, "product not available"},
		{"bad size", AddCartItemInput{ProductID: "p1", Size: "XXL", Color: "black"}, "invalid size"},
		{"bad color", AddCartItemInput{ProductID: "p1", Size: "M", Color: "pink"}, "invalid color"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Add(ctx, "s1", tc.in)
			he, ok := AsHTTPError(err)
			require.True(t, ok)
			assert.Equal(t, http.StatusBadRequest, he.Status)
			assert.Equal(t, tc.msg, he.Message)
		})
	}

	assert.Equal(t, 0, uc.Get(ctx, "s1").TotalItems)
}

// Test: 後から価格が変わってもカートは追加時の価格
func TestCartUsecase_PriceLockedAtAdd(t *testing.T) {
	ctx := context.Background()
	cheap := activeProduct()
	pricey := activeProduct()
	pricey.Price = decimal.RequireFromString("40.00")

	products := new(MockProductRepository)
	products.On("FindByID", mock.Anything, "p1").Return(cheap, nil).Once()
	products.On("FindByID", mock.Anything, "p1").Return(pricey, nil).Once()

	uc := newCartUsecase(products)
	_, err := uc.Add(ctx, "s1", AddCartItemInput{ProductID: "p1", Size: "M", Color: "black", Quantity: 1})
	require.NoError(t, err)
	out, err := uc.Add(ctx, "s1", AddCartItemInput{ProductID: "p1", Size: "M", Color: "black", Quantity: 1})
	require.NoError(t, err)

	require.Len(t, out.Items, 1)
	assert.True(t, out.TotalPrice.Equal(decimal.RequireFromString("50.00")))
}

func TestCartUsecase_UpdateRemoveClear(t *testing.T) {
	ctx := context.Background()
	products := new(MockProductRepository)
	products.On("FindByID", mock.Anything, "p1").Return(activeProduct(), nil)

	uc := newCartUsecase(products)
	_, err := uc.Add(ctx, "s1", AddCartItemInput{ProductID: "p1", Size: "M", Color: "black", Quantity: 1})
	require.NoError(t, err)
	_, err = uc.Add(ctx, "s1", AddCartItemInput{ProductID: "p1", Size: "S", Color: "white", Quantity: 1})
	require.NoError(t, err)

	out, err := uc.Update(ctx, "s1", UpdateCartItemInput{
		CartItemKeyInput: CartItemKeyInput{ProductID: "p1", Size: "M", Color: "black"},
		Quantity:         4,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, out.TotalItems)

	out, err = uc.Remove(ctx, "s1", CartItemKeyInput{ProductID: "p1", Size: "S", Color: "white"})
	require.NoError(t, err)
	assert.Equal(t, 4, out.TotalItems)

	_, err = uc.Update(ctx, "s1", UpdateCartItemInput{})
	assert.Equal(t, http.StatusBadRequest, statusOf(err))

	out = uc.Clear(ctx, "s1")
	assert.Empty(t, out.Items)
	assert.Equal(t, 0, out.TotalItems)
}
