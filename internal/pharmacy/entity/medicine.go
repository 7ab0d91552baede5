package entity

import (
	"time"
)

// Medicine statuses
const (
	MedicineStatusActive   = "active"
	MedicineStatusInactive = "inactive"
)

// Stock movement types. Only approve and return mutate the counters;
// pending and reject are accepted as log categories.
const (
	MovementTypeApprove = "approve"
	MovementTypeReturn  = "return"
	MovementTypePending = "pending"
	MovementTypeReject  = "reject"
)

// ValidMovementTypes enumerates the accepted movement types and whether
// each one mutates the medicine counters.
var ValidMovementTypes = map[string]bool{
	MovementTypeApprove: true,
	MovementTypeReturn:  true,
	MovementTypePending: false,
	MovementTypeReject:  false,
}

// Medicine is a stocked, dispensable item. The quantity counters are
// mutated only through stock movements.
type Medicine struct {
	ID               string     `json:"id" gorm:"primaryKey;size:32"`
	Name             string     `json:"name" gorm:"size:128;not null;index"`
	GenericID        string     `json:"generic_id" gorm:"size:32;index"`
	Category         string     `json:"category" gorm:"size:64"`
	Route            string     `json:"route" gorm:"size:64"`
	BatchNo          string     `json:"batch_no" gorm:"size:64"`
	ExpiryDate       *time.Time `json:"expiry_date" gorm:"type:date"`
	OnHandQty        int        `json:"on_hand_qty" gorm:"not null;default:0"`
	TotalReceivedQty int        `json:"total_received_qty" gorm:"not null;default:0"`
	Status           string     `json:"status" gorm:"size:16;not null;default:active"`
	Description      string     `json:"description" gorm:"type:text"`
	CreatedBy        string     `json:"created_by" gorm:"size:32"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	Generic *Generic `json:"generic,omitempty" gorm:"foreignKey:GenericID"`
}

func (Medicine) TableName() string {
	return "medicines"
}

// StockMovement is one immutable ledger entry against a medicine.
// Rows are only ever inserted; there is no update or delete path.
type StockMovement struct {
	ID              string     `json:"id" gorm:"primaryKey;size:32"`
	MedicineID      string     `json:"medicine_id" gorm:"size:32;not null;index"`
	MovementType    string     `json:"movement_type" gorm:"size:16;not null;index"`
	Quantity        int        `json:"quantity" gorm:"not null"`
	TransactionDate time.Time  `json:"transaction_date" gorm:"type:date;not null"`
	Note            string     `json:"note" gorm:"type:text"`
	NewExpiryDate   *time.Time `json:"new_expiry_date" gorm:"type:date"`
	CreatedBy       string     `json:"created_by" gorm:"size:32"`
	CreatedAt       time.Time  `json:"created_at"`

	Medicine *Medicine `json:"medicine,omitempty" gorm:"foreignKey:MedicineID"`
}

func (StockMovement) TableName() string {
	return "stock_movements"
}
