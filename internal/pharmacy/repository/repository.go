package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
)

// Repositories bundles the data access layer.
type Repositories struct {
	Medicine *MedicineRepository
	Movement *MovementRepository
	Generic  *GenericRepository
	Ward     *WardRepository
	Expense  *ExpenseRepository
	User     *UserRepository
	Setting  *SettingRepository
	Backup   *BackupRepository
}

// NewRepositories creates the repository bundle.
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Medicine: NewMedicineRepository(db),
		Movement: NewMovementRepository(db),
		Generic:  NewGenericRepository(db),
		Ward:     NewWardRepository(db),
		Expense:  NewExpenseRepository(db),
		User:     NewUserRepository(db),
		Setting:  NewSettingRepository(db),
		Backup:   NewBackupRepository(db),
	}
}
