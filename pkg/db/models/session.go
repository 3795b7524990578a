package models

import "time"

// Session stores a platform OAuth session handed back by the embedded admin.
// Kept as an opaque row; token verification lives behind internal/shops.
type Session struct {
	ID          string     `gorm:"column:id;primaryKey"`
	Shop        string     `gorm:"column:shop;not null;index"`
	State       string     `gorm:"column:state;not null;default:''"`
	IsOnline    bool       `gorm:"column:is_online;not null;default:false"`
	Scope       *string    `gorm:"column:scope"`
	AccessToken *string    `gorm:"column:access_token"`
	Expires     *time.Time `gorm:"column:expires"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
