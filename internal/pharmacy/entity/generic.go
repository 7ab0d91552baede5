package entity

import (
	"time"
)

// Generic is the pharmacological classification a medicine belongs to.
type Generic struct {
	ID          string    `json:"id" gorm:"primaryKey;size:32"`
	Name        string    `json:"name" gorm:"size:128;not null;uniqueIndex"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Generic) TableName() string {
	return "generics"
}
