package model

import "time"

// (user_id, product_id)はユニーク
type WishlistItem struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:ux_wishlists_user_product" json:"user_id"`
	ProductID string    `gorm:"type:uuid;not null;uniqueIndex:ux_wishlists_user_product" json:"product_id"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (WishlistItem) TableName() string { return "wishlists" }
