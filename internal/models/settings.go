package models

import "time"

// Settings is a single-row table keyed by "app".
type Settings struct {
	ID            string    `json:"id" gorm:"primaryKey;default:'app'"`
	Theme         string    `json:"theme" gorm:"default:'light'"`
	Language      string    `json:"language" gorm:"default:'es'"`
	Notifications bool      `json:"notifications" gorm:"default:true"`
	AutoAssign    bool      `json:"autoAssign" gorm:"default:false"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (Settings) TableName() string {
	return "settings"
}
