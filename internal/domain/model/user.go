package model

import "time"

// ユーザー兼プロフィール
type User struct {
	ID           string     `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"column:password_hash;not null" json:"-"`
	FullName     *string    `gorm:"type:varchar(255)" json:"full_name"`
	AvatarURL    *string    `gorm:"type:text" json:"avatar_url"`
	LastLoginAt  *time.Time `json:"last_login_at"`
	CreatedAt    time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (u User) Identity() Identity {
	return Identity{ID: u.ID, Email: u.Email}
}
