package model

import "time"

type Shop struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID     string    `gorm:"type:uuid;not null;index" json:"owner_id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Slug        string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"slug"`
	Description *string   `gorm:"type:text" json:"description"`
	LogoURL     *string   `gorm:"type:text" json:"logo_url"`
	BannerURL   *string   `gorm:"type:text" json:"banner_url"`
	IsActive    bool      `gorm:"not null;default:false" json:"is_active"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
