package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
)

// CartUsecaseは/cartの業務ロジック
// カートはDBではなくセッションごとのCartStoreに持つ
type CartUsecase struct {
	sessions *CartSessions
	products repo.ProductRepository
}

func NewCartUsecase(sessions *CartSessions, products repo.ProductRepository) *CartUsecase {
	return &CartUsecase{sessions: sessions, products: products}
}

type CartOutput struct {
	Items      []model.CartLineItem `json:"items"`
	IsOpen     bool                 `json:"is_open"`
	TotalItems int                  `json:"total_items"`
	TotalPrice decimal.Decimal      `json:"total_price"`
}

func toCartOutput(s model.CartState) CartOutput {
	return CartOutput{
		Items:      s.Items,
		IsOpen:     s.IsOpen,
		TotalItems: s.TotalItems(),
		TotalPrice: s.TotalPrice(),
	}
}

type AddCartItemInput struct {
	ProductID string
	Size      string
	Color     string
	Quantity  int
}

// 明細を指定するキー
type CartItemKeyInput struct {
	ProductID string
	Size      string
	Color     string
}

type UpdateCartItemInput struct {
	CartItemKeyInput
	Quantity int
}

func (u *CartUsecase) Get(ctx context.Context, sessionID string) CartOutput {
	return toCartOutput(u.sessions.For(ctx, sessionID).Snapshot())
}

// Addは商品を確認してからカートに入れる（同じキーは数量加算）
func (u *CartUsecase) Add(ctx context.Context, sessionID string, in AddCartItemInput) (CartOutput, error) {
	in.ProductID = strings.TrimSpace(in.ProductID)
	if in.ProductID == "" {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}

	p, err := u.products.FindByID(ctx, in.ProductID)
	if errors.Is(err, repo.ErrNotFound) {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}
	if err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !p.IsActive || (p.Shop != nil && !p.Shop.IsActive) {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "product not available")
	}

	// サイズ/カラーは商品の選択肢の中から
	if !p.AllowsSize(in.Size) {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "invalid size")
	}
	if !p.AllowsColor(in.Color) {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "invalid color")
	}

	state := u.sessions.For(ctx, sessionID).AddItem(ctx, toCartProduct(p), in.Size, in.Color, in.Quantity)
	return toCartOutput(state), nil
}

func (u *CartUsecase) Update(ctx context.Context, sessionID string, in UpdateCartItemInput) (CartOutput, error) {
	if strings.TrimSpace(in.ProductID) == "" {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}
	state := u.sessions.For(ctx, sessionID).UpdateQuantity(ctx, in.ProductID, in.Size, in.Color, in.Quantity)
	return toCartOutput(state), nil
}

func (u *CartUsecase) Remove(ctx context.Context, sessionID string, in CartItemKeyInput) (CartOutput, error) {
	if strings.TrimSpace(in.ProductID) == "" {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}
	state := u.sessions.For(ctx, sessionID).RemoveItem(ctx, in.ProductID, in.Size, in.Color)
	return toCartOutput(state), nil
}

func (u *CartUsecase) Clear(ctx context.Context, sessionID string) CartOutput {
	return toCartOutput(u.sessions.For(ctx, sessionID).Clear(ctx))
}

func (u *CartUsecase) Open(ctx context.Context, sessionID string) CartOutput {
	return toCartOutput(u.sessions.For(ctx, sessionID).Open())
}

func (u *CartUsecase) Close(ctx context.Context, sessionID string) CartOutput {
	return toCartOutput(u.sessions.For(ctx, sessionID).Close())
}

func (u *CartUsecase) Toggle(ctx context.Context, sessionID string) CartOutput {
	return toCartOutput(u.sessions.For(ctx, sessionID).Toggle())
}

// 追加時点の価格で固定する
func toCartProduct(p model.Product) model.CartProduct {
	brand := ""
	if p.Shop != nil {
		brand = p.Shop.Name
	}
	return model.CartProduct{
		ID:     p.ID,
		Name:   p.Name,
		Brand:  brand,
		Price:  p.Price,
		Images: append([]string{}, p.Images...),
		Sizes:  append([]string{}, p.Sizes...),
		Colors: append([]string{}, p.Colors...),
	}
}
