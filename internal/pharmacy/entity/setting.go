package entity

import (
	"time"
)

// Well-known setting keys
const (
	SettingSiteName          = "site_name"
	SettingItemsPerPage      = "items_per_page"
	SettingLowStockThreshold = "low_stock_threshold"
)

// Setting is one key/value site configuration entry.
type Setting struct {
	Key       string    `json:"key" gorm:"primaryKey;size:64"`
	Value     string    `json:"value" gorm:"type:text;not null"`
	UpdatedBy string    `json:"updated_by" gorm:"size:32"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Setting) TableName() string {
	return "settings"
}
