package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"storefront/internal/domain/model"
	"storefront/internal/pkg/logger"
	repo "storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// 税率8%
var taxRate = decimal.RequireFromString("0.08")

type ShippingInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zipCode"`
	Country   string `json:"country"`
}

// カード情報は検証のみで保存しない
type PaymentInput struct {
	CardNumber string `json:"cardNumber"`
	CardName   string `json:"cardName"`
	Expiry     string `json:"expiry"`
	CVV        string `json:"cvv"`
}

type CheckoutInput struct {
	Shipping ShippingInput `json:"shipping"`
	Payment  PaymentInput  `json:"payment"`
}

type CheckoutValidator interface {
	ValidateCheckout(in CheckoutInput) error
}

type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type OrderStats struct {
	TotalOrders int             `json:"total_orders"`
	TotalSpent  decimal.Decimal `json:"total_spent"`
	Recent      []model.Order   `json:"recent_orders"`
}

type OrderUsecase struct {
	tx        repo.TransactionManager
	orders    repo.OrderRepository
	carts     *CartSessions
	validator CheckoutValidator
	mailer    Mailer
	log       logger.Logger
}

func NewOrderUsecase(
	tx repo.TransactionManager,
	orders repo.OrderRepository,
	carts *CartSessions,
	validator CheckoutValidator,
	mailer Mailer,
	log logger.Logger,
) *OrderUsecase {
	return &OrderUsecase{
		tx:        tx,
		orders:    orders,
		carts:     carts,
		validator: validator,
		mailer:    mailer,
		log:       log,
	}
}

// 小計・送料・税・合計
func orderAmounts(subtotal decimal.Decimal) (shipping, tax, total decimal.Decimal) {
	shipping = decimal.Zero
	tax = subtotal.Mul(taxRate).Round(2)
	total = subtotal.Add(shipping).Add(tax)
	return shipping, tax, total
}

// Checkoutはセッションのカートから注文を作る
// 価格はカートに入れた時点のもの
func (u *OrderUsecase) Checkout(ctx context.Context, sessionID string, id model.Identity, in CheckoutInput) (model.Order, error) {
	if id.ID == "" {
		return model.Order{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := u.validator.ValidateCheckout(in); err != nil {
		return model.Order{}, validationToHTTP(err)
	}

	cart := u.carts.For(ctx, sessionID)
	unlock := cart.LockCheckout()
	defer unlock()

	snap := cart.Snapshot()
	if len(snap.Items) == 0 {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "cart is empty")
	}

	subtotal := snap.TotalPrice()
	shipping, tax, total := orderAmounts(subtotal)

	s := in.Shipping
	order := model.Order{
		ID:       uuid.NewString(),
		UserID:   id.ID,
		Status:   model.OrderStatusPending,
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    total,
		ShippingAddress: model.ShippingAddress{
			FirstName: strings.TrimSpace(s.FirstName),
			LastName:  strings.TrimSpace(s.LastName),
			Address:   strings.TrimSpace(s.Address),
			City:      strings.TrimSpace(s.City),
			State:     strings.TrimSpace(s.State),
			ZipCode:   strings.TrimSpace(s.ZipCode),
			Country:   strings.TrimSpace(s.Country),
			Phone:     strings.TrimSpace(s.Phone),
		},
	}

	items := make([]model.OrderItem, 0, len(snap.Items))
	for _, it := range snap.Items {
		var image *string
		if len(it.Product.Images) > 0 {
			img := it.Product.Images[0]
			image = &img
		}
		items = append(items, model.OrderItem{
			ID:           uuid.NewString(),
			OrderID:      order.ID,
			ProductID:    it.Product.ID,
			ProductName:  it.Product.Name,
			ProductImage: image,
			Price:        it.Product.Price,
			Quantity:     it.Quantity,
			Size:         it.Size,
			Color:        it.Color,
		})
	}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		// 最初の商品のショップを注文に付ける
		p, err := r.Products().FindByID(ctx, snap.Items[0].Product.ID)
		if err == nil {
			shopID := p.ShopID
			order.ShopID = &shopID
		} else if !errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.Orders().Create(ctx, &order); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.Orders().CreateItems(ctx, items); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
	if err != nil {
		if _, ok := AsHTTPError(err); ok {
			return model.Order{}, err
		}
		u.log.Error("checkout tx failed", err, logger.Fields{"user_id": id.ID})
		return model.Order{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	order.Items = items

	// 途中で追加された明細はカートに残す
	cart.RemoveLines(ctx, snap.Items)
	u.sendConfirmation(ctx, order, firstNonEmpty(s.Email, id.Email))

	return order, nil
}

func (u *OrderUsecase) sendConfirmation(ctx context.Context, o model.Order, to string) {
	if to == "" {
		return
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Thank you for your purchase!\n\nOrder: %s\n\n", o.ID)
	for _, it := range o.Items {
		fmt.Fprintf(&b, "%s x%d  $%s\n", it.ProductName, it.Quantity, it.Price.StringFixed(2))
	}
	fmt.Fprintf(&b, "\nSubtotal: $%s\nShipping: $%s\nTax: $%s\nTotal: $%s\n",
		o.Subtotal.StringFixed(2), o.Shipping.StringFixed(2), o.Tax.StringFixed(2), o.Total.StringFixed(2))

	if err := u.mailer.Send(ctx, to, "Order confirmation", b.String()); err != nil {
		u.log.Warn("order confirmation mail failed", logger.Fields{"order_id": o.ID, "error": err.Error()})
	}
}

func firstNonEmpty(vs ...string) string {
	for _, v := range vs {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func (u *OrderUsecase) List(ctx context.Context, userID string) ([]model.Order, error) {
	orders, err := u.orders.ListByUserID(ctx, userID)
	if err != nil {
		return []model.Order{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return orders, nil
}

// 他人の注文は404
func (u *OrderUsecase) Get(ctx context.Context, userID string, orderID string) (model.Order, error) {
	o, err := u.orders.FindByIDForUser(ctx, orderID, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Order{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Order{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return o, nil
}

const recentOrderCount = 5

func (u *OrderUsecase) Stats(ctx context.Context, userID string) (OrderStats, error) {
	orders, err := u.orders.ListByUserID(ctx, userID)
	if err != nil {
		return OrderStats{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	spent := decimal.Zero
	for _, o := range orders {
		spent = spent.Add(o.Total)
	}
	recent := orders
	if len(recent) > recentOrderCount {
		recent = recent[:recentOrderCount]
	}
	return OrderStats{TotalOrders: len(orders), TotalSpent: spent, Recent: recent}, nil
}
