package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"storefront/internal/domain/model"
	"storefront/internal/pkg/logger"
	repo "storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// ShopOwnerUsecaseは/dashboard（自分のショップだけ操作できる）
type ShopOwnerUsecase struct {
	shops    repo.ShopRepository
	products repo.ProductRepository
	orders   repo.OrderRepository
	audit    repo.AuditLogRepository
	log      logger.Logger
}

func NewShopOwnerUsecase(
	shops repo.ShopRepository,
	products repo.ProductRepository,
	orders repo.OrderRepository,
	audit repo.AuditLogRepository,
	log logger.Logger,
) *ShopOwnerUsecase {
	return &ShopOwnerUsecase{shops: shops, products: products, orders: orders, audit: audit, log: log}
}

type ShopStats struct {
	TotalProducts int64           `json:"total_products"`
	TotalOrders   int             `json:"total_orders"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	PendingOrders int             `json:"pending_orders"`
}

// 商品の入力。カンマ区切りではなく配列で受ける
type ProductInput struct {
	Name           string
	Slug           string
	Description    string
	Price          decimal.Decimal
	CompareAtPrice *decimal.Decimal
	Images         []string
	Category       string
	Sizes          []string
	Colors         []string
	Stock          int
	IsNew          bool
	IsTrending     bool
}

type ShopSettingsInput struct {
	Name        string
	Description string
	LogoURL     string
	BannerURL   string
}

func (u *ShopOwnerUsecase) MyShop(ctx context.Context, ownerID string) (model.Shop, error) {
	shop, err := u.shops.FindByOwnerID(ctx, ownerID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Shop{}, NewHTTPError(http.StatusNotFound, "no shop assigned")
	}
	if err != nil {
		return model.Shop{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return shop, nil
}

func (u *ShopOwnerUsecase) Stats(ctx context.Context, ownerID string) (ShopStats, error) {
	shop, err := u.MyShop(ctx, ownerID)
	if err != nil {
		return ShopStats{}, err
	}

	n, err := u.products.CountByShopID(ctx, shop.ID)
	if err != nil {
		return ShopStats{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	orders, err := u.orders.ListByShopID(ctx, shop.ID)
	if err != nil {
		return ShopStats{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	st := ShopStats{TotalProducts: n, TotalOrders: len(orders), TotalRevenue: decimal.Zero}
	for _, o := range orders {
		st.TotalRevenue = st.TotalRevenue.Add(o.Total)
		if o.Status == model.OrderStatusPending {
			st.PendingOrders++
		}
	}
	return st, nil
}

func (u *ShopOwnerUsecase) ListProducts(ctx context.Context, ownerID string) ([]model.Product, error) {
	shop, err := u.MyShop(ctx, ownerID)
	if err != nil {
		return []model.Product{}, err
	}
	products, err := u.products.ListByShopID(ctx, shop.ID)
	if err != nil {
		return []model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return products, nil
}

func cleanList(in []string) pq.StringArray {
	out := pq.StringArray{}
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func optString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func (in ProductInput) validate() error {
	if strings.TrimSpace(in.Name) == "" || NormalizeSlug(in.Slug) == "" || in.Price.IsZero() {
		return NewHTTPError(http.StatusBadRequest, "Please fill in all required fields")
	}
	if in.Price.IsNegative() || in.Stock < 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid price or stock")
	}
	return nil
}

func (in ProductInput) apply(p *model.Product) {
	p.Name = strings.TrimSpace(in.Name)
	p.Slug = NormalizeSlug(in.Slug)
	p.Description = optString(in.Description)
	p.Price = in.Price
	p.CompareAtPrice = decimal.NullDecimal{}
	if in.CompareAtPrice != nil {
		p.CompareAtPrice = decimal.NewNullDecimal(*in.CompareAtPrice)
	}
	p.Images = cleanList(in.Images)
	p.Category = optString(in.Category)
	p.Sizes = cleanList(in.Sizes)
	p.Colors = cleanList(in.Colors)
	p.Stock = in.Stock
	p.IsNew = in.IsNew
	p.IsTrending = in.IsTrending
}

func (u *ShopOwnerUsecase) CreateProduct(ctx context.Context, ownerID string, in ProductInput) (model.Product, error) {
	if err := in.validate(); err != nil {
		return model.Product{}, err
	}
	shop, err := u.MyShop(ctx, ownerID)
	if err != nil {
		return model.Product{}, err
	}

	p := model.Product{ID: uuid.NewString(), ShopID: shop.ID, IsActive: true}
	in.apply(&p)

	if err := u.products.Create(ctx, &p); err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "Failed to create product")
	}
	return p, nil
}

// 自分のショップの商品だけ。他は404
func (u *ShopOwnerUsecase) ownProduct(ctx context.Context, ownerID string, productID string) (model.Product, error) {
	shop, err := u.MyShop(ctx, ownerID)
	if err != nil {
		return model.Product{}, err
	}
	p, err := u.products.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) || (err == nil && p.ShopID != shop.ID) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return p, nil
}

func (u *ShopOwnerUsecase) UpdateProduct(ctx context.Context, ownerID string, productID string, in ProductInput) (model.Product, error) {
	if err := in.validate(); err != nil {
		return model.Product{}, err
	}
	p, err := u.ownProduct(ctx, ownerID, productID)
	if err != nil {
		return model.Product{}, err
	}

	in.apply(&p)
	if err := u.products.Update(ctx, p); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "Failed to update product")
	}
	p.Shop = nil
	return p, nil
}

func (u *ShopOwnerUsecase) DeleteProduct(ctx context.Context, ownerID string, productID string) error {
	if _, err := u.ownProduct(ctx, ownerID, productID); err != nil {
		return err
	}
	if err := u.products.Delete(ctx, productID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "Failed to delete product")
	}
	return nil
}

func (u *ShopOwnerUsecase) ToggleProduct(ctx context.Context, ownerID string, productID string) (model.Product, error) {
	p, err := u.ownProduct(ctx, ownerID, productID)
	if err != nil {
		return model.Product{}, err
	}
	if err := u.products.SetActive(ctx, productID, !p.IsActive); err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "Failed to update product")
	}
	p.IsActive = !p.IsActive
	p.Shop = nil
	return p, nil
}

func (u *ShopOwnerUsecase) ListOrders(ctx context.Context, ownerID string) ([]model.Order, error) {
	shop, err := u.MyShop(ctx, ownerID)
	if err != nil {
		return []model.Order{}, err
	}
	orders, err := u.orders.ListByShopID(ctx, shop.ID)
	if err != nil {
		return []model.Order{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return orders, nil
}

func (u *ShopOwnerUsecase) UpdateOrderStatus(ctx context.Context, ownerID string, orderID string, status string) (model.Order, error) {
	newStatus, ok := model.ParseOrderStatus(strings.TrimSpace(status))
	if !ok {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}
	shop, err := u.MyShop(ctx, ownerID)
	if err != nil {
		return model.Order{}, err
	}

	o, err := u.orders.FindByIDForShop(ctx, orderID, shop.ID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Order{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Order{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	// 同じなら何もしない
	if o.Status == newStatus {
		return o, nil
	}

	before := o.Status
	if err := u.orders.UpdateStatus(ctx, orderID, newStatus); err != nil {
		return model.Order{}, NewHTTPError(http.StatusInternalServerError, "Failed to update order status")
	}
	o.Status = newStatus

	writeAuditLog(ctx, u.audit, u.log, ownerID, model.AuditActionUpdateOrderStatus, model.AuditResourceOrder, orderID,
		map[string]string{"status": string(before)}, map[string]string{"status": string(newStatus)})
	return o, nil
}

func (u *ShopOwnerUsecase) Settings(ctx context.Context, ownerID string) (model.Shop, error) {
	return u.MyShop(ctx, ownerID)
}

func (u *ShopOwnerUsecase) UpdateSettings(ctx context.Context, ownerID string, in ShopSettingsInput) (model.Shop, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.Shop{}, NewHTTPError(http.StatusBadRequest, "name is required")
	}
	shop, err := u.MyShop(ctx, ownerID)
	if err != nil {
		return model.Shop{}, err
	}

	s := repo.ShopSettings{
		Name:        name,
		Description: optString(in.Description),
		LogoURL:     optString(in.LogoURL),
		BannerURL:   optString(in.BannerURL),
	}
	if err := u.shops.UpdateSettings(ctx, shop.ID, s); err != nil {
		return model.Shop{}, NewHTTPError(http.StatusInternalServerError, "Failed to update shop settings")
	}

	shop.Name = s.Name
	shop.Description = s.Description
	shop.LogoURL = s.LogoURL
	shop.BannerURL = s.BannerURL
	return shop, nil
}
