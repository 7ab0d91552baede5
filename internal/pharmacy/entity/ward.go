package entity

import (
	"time"
)

// Ward statuses
const (
	WardStatusActive   = "active"
	WardStatusInactive = "inactive"
)

// Ward is a hospital unit that consumes medicines.
type Ward struct {
	ID          string    `json:"id" gorm:"primaryKey;size:32"`
	Name        string    `json:"name" gorm:"size:128;not null;uniqueIndex"`
	Description string    `json:"description" gorm:"type:text"`
	Status      string    `json:"status" gorm:"size:16;not null;default:active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Ward) TableName() string {
	return "wards"
}
