package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"storefront/internal/domain/model"
	"storefront/internal/infra/kv"
	"storefront/internal/pkg/logger"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type orderFixture struct {
	uc       *OrderUsecase
	carts    *CartSessions
	orders   *MockOrderRepository
	products *MockProductRepository
	tx       *fakeTxManager
	mail     *fakeMailer
}

func newOrderFixture(validatorErr error) orderFixture {
	orders := new(MockOrderRepository)
	products := new(MockProductRepository)
	tx := &fakeTxManager{repos: fakeTxRepos{orders: orders, products: products}}
	carts := NewCartSessions(kv.NewMemoryStore(), logger.Nop())
	mail := &fakeMailer{}
	uc := NewOrderUsecase(tx, orders, carts, stubCheckoutValidator{err: validatorErr}, mail, logger.Nop())
	return orderFixture{uc: uc, carts: carts, orders: orders, products: products, tx: tx, mail: mail}
}

func checkoutInput() CheckoutInput {
	return CheckoutInput{
		Shipping: ShippingInput{
			FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com",
			Address: "1 Main St", City: "Tokyo", State: "Tokyo", ZipCode: "100-0001", Country: "JP",
		},
		Payment: PaymentInput{CardNumber: "4242 4242 4242 4242", CardName: "Ada", Expiry: "12/30", CVV: "123"},
	}
}

var buyer = model.Identity{ID: "u1", Email: "u1@example.com"}

// Test: 注文作成（税8%・送料0）、カートは空になる
func TestOrderUsecase_Checkout(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture(nil)
	f.carts.For(ctx, "s1").AddItem(ctx, tee(), "M", "black", 3)

	p := activeProduct()
	f.products.On("FindByID", mock.Anything, "p1").Return(p, nil)
	f.orders.On("Create", mock.Anything, mock.AnythingOfType("*model.Order")).Return(nil)
	f.orders.On("CreateItems", mock.Anything, mock.AnythingOfType("[]model.OrderItem")).Return(nil)

	order, err := f.uc.Checkout(ctx, "s1", buyer, checkoutInput())
	require.NoError(t, err)

	assert.Equal(t, "u1", order.UserID)
	assert.Equal(t, model.OrderStatusPending, order.Status)
	require.NotNil(t, order.ShopID)
	assert.Equal(t, "shop-1", *order.ShopID)
	assert.True(t, order.Subtotal.Equal(decimal.RequireFromString("59.97")))
	assert.True(t, order.Shipping.Equal(decimal.Zero))
	assert.True(t, order.Tax.Equal(decimal.RequireFromString("4.80")))
	assert.True(t, order.Total.Equal(decimal.RequireFromString("64.77")))
	assert.Equal(t, "Tokyo", order.ShippingAddress.City)

	require.Len(t, order.Items, 1)
	assert.Equal(t, order.ID, order.Items[0].OrderID)
	assert.Equal(t, "Neon Tee", order.Items[0].ProductName)
	assert.Equal(t, 3, order.Items[0].Quantity)
	require.NotNil(t, order.Items[0].ProductImage)
	assert.Equal(t, "a.png", *order.Items[0].ProductImage)

	assert.Equal(t, 1, f.tx.calls)
	assert.Empty(t, f.carts.For(ctx, "s1").Snapshot().Items)

	require.Len(t, f.mail.sent, 1)
	assert.Equal(t, "ada@example.com", f.mail.sent[0].to)
	assert.Contains(t, f.mail.sent[0].body, order.ID)
	f.orders.AssertExpectations(t)
}

// Test: 空のカートは400
func TestOrderUsecase_CheckoutEmptyCart(t *testing.T) {
	f := newOrderFixture(nil)

	_, err := f.uc.Checkout(context.Background(), "s1", buyer, checkoutInput())
	he, ok := AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
	assert.Equal(t, "cart is empty", he.Message)
	assert.Equal(t, 0, f.tx.calls)
}

// Test: 入力エラーは400でメッセージをそのまま返す
func TestOrderUsecase_CheckoutValidation(t *testing.T) {
	f := newOrderFixture(fmt.Errorf("%w: invalid card number", ErrValidation))

	_, err := f.uc.Checkout(context.Background(), "s1", buyer, checkoutInput())
	he, ok := AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
	assert.Equal(t, "invalid card number", he.Message)
}

// Test: 未ログインは401
func TestOrderUsecase_CheckoutUnauthorized(t *testing.T) {
	f := newOrderFixture(nil)
	_, err := f.uc.Checkout(context.Background(), "s1", model.Identity{}, checkoutInput())
	assert.Equal(t, http.StatusUnauthorized, statusOf(err))
}

// Test: 保存に失敗したらカートは残す
func TestOrderUsecase_CheckoutTxFailureKeepsCart(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture(nil)
	f.carts.For(ctx, "s1").AddItem(ctx, tee(), "M", "black", 1)

	f.products.On("FindByID", mock.Anything, "p1").Return(activeProduct(), nil)
	f.orders.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.orders.On("CreateItems", mock.Anything, mock.Anything).Return(errors.New("deadlock"))

	_, err := f.uc.Checkout(ctx, "s1", buyer, checkoutInput())
	assert.Equal(t, http.StatusInternalServerError, statusOf(err))
	assert.Len(t, f.carts.For(ctx, "s1").Snapshot().Items, 1)
	assert.Empty(t, f.mail.sent)
}

// Test: メール送信に失敗しても注文は成功
func TestOrderUsecase_CheckoutMailFailure(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture(nil)
	f.mail.err = errors.New("smtp down")
	f.carts.For(ctx, "s1").AddItem(ctx, tee(), "M", "black", 1)

	f.products.On("FindByID", mock.Anything, "p1").Return(model.Product{}, repo.ErrNotFound)
	f.orders.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.orders.On("CreateItems", mock.Anything, mock.Anything).Return(nil)

	order, err := f.uc.Checkout(ctx, "s1", buyer, checkoutInput())
	require.NoError(t, err)
	assert.Nil(t, order.ShopID)
	assert.Len(t, f.mail.sent, 1)
}

// Test: チェックアウト中に追加した明細は注文されず、カートに残る
func TestOrderUsecase_CheckoutKeepsItemsAddedMeanwhile(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture(nil)
	cart := f.carts.For(ctx, "s1")
	cart.AddItem(ctx, tee(), "M", "black", 1)

	f.products.On("FindByID", mock.Anything, "p1").
		Run(func(mock.Arguments) {
			// トランザクション中に別リクエストが追加した想定
			cart.AddItem(ctx, tee(), "L", "black", 2)
			cart.AddItem(ctx, tee(), "M", "black", 1)
		}).
		Return(activeProduct(), nil)
	f.orders.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.orders.On("CreateItems", mock.Anything, mock.Anything).Return(nil)

	order, err := f.uc.Checkout(ctx, "s1", buyer, checkoutInput())
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 1, order.Items[0].Quantity)

	left := cart.Snapshot().Items
	require.Len(t, left, 2)
	assert.Equal(t, model.CartKey{ProductID: "p1", Size: "M", Color: "black"}, left[0].Key())
	assert.Equal(t, 1, left[0].Quantity)
	assert.Equal(t, model.CartKey{ProductID: "p1", Size: "L", Color: "black"}, left[1].Key())
	assert.Equal(t, 2, left[1].Quantity)
}

// Test: 同じカートの同時チェックアウトは1件だけ通る
func TestOrderUsecase_CheckoutConcurrentSameCart(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture(nil)
	f.carts.For(ctx, "s1").AddItem(ctx, tee(), "M", "black", 1)

	f.products.On("FindByID", mock.Anything, "p1").Return(activeProduct(), nil)
	f.orders.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.orders.On("CreateItems", mock.Anything, mock.Anything).Return(nil)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.uc.Checkout(ctx, "s1", buyer, checkoutInput())
		}(i)
	}
	wg.Wait()

	ok, empty := 0, 0
	for _, err := range errs {
		if err == nil {
			ok++
		} else if statusOf(err) == http.StatusBadRequest {
			empty++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, empty)
	f.orders.AssertNumberOfCalls(t, "Create", 1)
	assert.Empty(t, f.carts.For(ctx, "s1").Snapshot().Items)
}

// Test: 他人の注文は404
func TestOrderUsecase_GetOtherUsersOrder(t *testing.T) {
	f := newOrderFixture(nil)
	f.orders.On("FindByIDForUser", mock.Anything, "o1", "u1").Return(model.Order{}, repo.ErrNotFound)

	_, err := f.uc.Get(context.Background(), "u1", "o1")
	assert.Equal(t, http.StatusNotFound, statusOf(err))
}

func TestOrderUsecase_Stats(t *testing.T) {
	f := newOrderFixture(nil)
	orders := make([]model.Order, 0, 7)
	for i := 0; i < 7; i++ {
		orders = append(orders, model.Order{ID: fmt.Sprintf("o%d", i), Total: decimal.RequireFromString("10.50")})
	}
	f.orders.On("ListByUserID", mock.Anything, "u1").Return(orders, nil)

	stats, err := f.uc.Stats(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 7, stats.TotalOrders)
	assert.True(t, stats.TotalSpent.Equal(decimal.RequireFromString("73.50")))
	require.Len(t, stats.Recent, 5)
	assert.Equal(t, "o0", stats.Recent[0].ID)
}

func TestOrderAmounts_RoundsTax(t *testing.T) {
	shipping, tax, total := orderAmounts(decimal.RequireFromString("10.05"))
	assert.True(t, shipping.IsZero())
	assert.True(t, tax.Equal(decimal.RequireFromString("0.80")))
	assert.True(t, total.Equal(decimal.RequireFromString("10.85")))
}
