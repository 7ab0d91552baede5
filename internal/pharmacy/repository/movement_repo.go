package repository

import (
	"context"
	"errors"

	"github.com/zenhealth/pharmacy/internal/pharmacy/entity"
	"gorm.io/gorm"
)

// MovementRepository reads the stock ledger. Ledger entries are written
// only inside the stock service's transaction and are never updated or
// deleted.
type MovementRepository struct {
	db *gorm.DB
}

func NewMovementRepository(db *gorm.DB) *MovementRepository {
	return &MovementRepository{db: db}
}

// FindByMedicine lists a medicine's ledger entries, newest first.
func (r *MovementRepository) FindByMedicine(ctx context.Context, medicineID string, page, pageSize int, movementType string) ([]entity.StockMovement, int64, error) {
	var items []entity.StockMovement
	var total int64

	query := r.db.WithContext(ctx).
		Model(&entity.StockMovement{}).
		Where("medicine_id = ?", medicineID)

	if movementType != "" {
		query = query.Where("movement_type = ?", movementType)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindByID looks up one ledger entry.
func (r *MovementRepository) FindByID(ctx context.Context, id string) (*entity.StockMovement, error) {
	var movement entity.StockMovement
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&movement).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &movement, nil
}
