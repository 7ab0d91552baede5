package repository

import (
	"context"
	"errors"

	"github.com/zenhealth/pharmacy/internal/pharmacy/entity"
	"gorm.io/gorm"
)

// WardRepository persists wards.
type WardRepository struct {
	db *gorm.DB
}

func NewWardRepository(db *gorm.DB) *WardRepository {
	return &WardRepository{db: db}
}

// FindAll lists wards with pagination and filters.
func (r *WardRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Ward, int64, error) {
	var items []entity.Ward
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Ward{})

	if search := filters["search"]; search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}
	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order("name ASC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindByID looks up a ward.
func (r *WardRepository) FindByID(ctx context.Context, id string) (*entity.Ward, error) {
	var ward entity.Ward
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&ward).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ward, nil
}

// Create inserts a ward.
func (r *WardRepository) Create(ctx context.Context, ward *entity.Ward) error {
	return r.db.WithContext(ctx).Create(ward).Error
}

// Update saves a ward.
func (r *WardRepository) Update(ctx context.Context, ward *entity.Ward) error {
	return r.db.WithContext(ctx).Save(ward).Error
}

// Delete removes a ward.
func (r *WardRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Ward{}).Error
}

// CountExpenses counts the expenses recorded against a ward.
func (r *WardRepository) CountExpenses(ctx context.Context, wardID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Expense{}).
		Where("ward_id = ?", wardID).
		Count(&count).Error
	return count, err
}
