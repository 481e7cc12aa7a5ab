package model

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID             string              `gorm:"type:uuid;primaryKey" json:"id"`
	ShopID         string              `gorm:"type:uuid;not null;index" json:"shop_id"`
	Name           string              `gorm:"type:varchar(255);not null" json:"name"`
	Slug           string              `gorm:"type:varchar(255);not null" json:"slug"`
	Description    *string             `gorm:"type:text" json:"description"`
	Price          decimal.Decimal     `gorm:"type:numeric(12,2);not null" json:"price"`
	CompareAtPrice decimal.NullDecimal `gorm:"type:numeric(12,2)" json:"compare_at_price"`
	Images         pq.StringArray      `gorm:"type:text[];not null;default:'{}'" json:"images"`
	Category       *string             `gorm:"type:varchar(100);index" json:"category"`
	Sizes          pq.StringArray      `gorm:"type:text[];not null;default:'{}'" json:"sizes"`
	Colors         pq.StringArray      `gorm:"type:text[];not null;default:'{}'" json:"colors"`
	Stock          int                 `gorm:"not null;default:0" json:"stock"`
	IsActive       bool                `gorm:"not null;default:true" json:"is_active"`
	IsNew          bool                `gorm:"not null;default:false" json:"is_new"`
	IsTrending     bool                `gorm:"not null;default:false" json:"is_trending"`
	CreatedAt      time.Time           `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time           `gorm:"not null;autoUpdateTime" json:"updated_at"`

	// 結合データ
	Shop *Shop `gorm:"foreignKey:ShopID" json:"shop,omitempty"`
}

// OnSaleは定価より安く売っているか
func (p Product) OnSale() bool {
	return p.CompareAtPrice.Valid && p.CompareAtPrice.Decimal.GreaterThan(p.Price)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// AllowsSizeはサイズ指定がない商品ならどれでも許す
func (p Product) AllowsSize(size string) bool {
	return len(p.Sizes) == 0 || contains(p.Sizes, size)
}

func (p Product) AllowsColor(color string) bool {
	return len(p.Colors) == 0 || contains(p.Colors, color)
}
