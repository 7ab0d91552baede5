package entity

import (
	"time"
)

// Expense is one ward's consumption batch for one calendar date.
// The (expense_date, ward_id) pair is unique at the database level so
// concurrent submissions for the same key resolve to a single row.
type Expense struct {
	ID          string    `json:"id" gorm:"primaryKey;size:32"`
	ExpenseDate time.Time `json:"expense_date" gorm:"type:date;not null;uniqueIndex:idx_expenses_date_ward"`
	WardID      string    `json:"ward_id" gorm:"size:32;not null;uniqueIndex:idx_expenses_date_ward"`
	Note        string    `json:"note" gorm:"type:text"`
	CreatedBy   string    `json:"created_by" gorm:"size:32"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Ward    *Ward           `json:"ward,omitempty" gorm:"foreignKey:WardID"`
	Records []ExpenseRecord `json:"records,omitempty" gorm:"foreignKey:ExpenseID"`
}

func (Expense) TableName() string {
	return "expenses"
}

// ExpenseRecord is one medicine line item within an expense. Appending
// records never touches the medicine counters.
type ExpenseRecord struct {
	ID         string    `json:"id" gorm:"primaryKey;size:32"`
	ExpenseID  string    `json:"expense_id" gorm:"size:32;not null;index"`
	MedicineID string    `json:"medicine_id" gorm:"size:32;not null;index"`
	Quantity   int       `json:"quantity" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at"`

	Medicine *Medicine `json:"medicine,omitempty" gorm:"foreignKey:MedicineID"`
}

func (ExpenseRecord) TableName() string {
	return "expense_records"
}
