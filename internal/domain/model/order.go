package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return OrderStatus(s), true
	}
	return "", false
}

// 配送先。jsonbで保存する
type ShippingAddress struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zipCode"`
	Country   string `json:"country"`
	Phone     string `json:"phone"`
}

func (a ShippingAddress) Value() (driver.Value, error) {
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (a *ShippingAddress) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*a = ShippingAddress{}
		return nil
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	default:
		return errors.New("unsupported shipping_address type")
	}
}

type Order struct {
	ID              string          `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          string          `gorm:"type:uuid;not null;index" json:"user_id"`
	ShopID          *string         `gorm:"type:uuid;index" json:"shop_id"`
	Status          OrderStatus     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Subtotal        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"subtotal"`
	Shipping        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"shipping"`
	Tax             decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"tax"`
	Total           decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total"`
	ShippingAddress ShippingAddress `gorm:"type:jsonb;not null" json:"shipping_address"`
	CreatedAt       time.Time       `gorm:"not null;autoCreateTime;index" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"order_items"`
}

// 注文時点の商品名・画像・価格を保存
type OrderItem struct {
	ID           string          `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID      string          `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID    string          `gorm:"type:uuid;not null;index" json:"product_id"`
	ProductName  string          `gorm:"type:varchar(255);not null" json:"product_name"`
	ProductImage *string         `gorm:"type:text" json:"product_image"`
	Price        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Quantity     int             `gorm:"not null" json:"quantity"`
	Size         string          `gorm:"type:varchar(50)" json:"size"`
	Color        string          `gorm:"type:varchar(50)" json:"color"`
	CreatedAt    time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
}
