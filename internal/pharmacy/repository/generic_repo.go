package repository

import (
	"context"
	"errors"

	"github.com/zenhealth/pharmacy/internal/pharmacy/entity"
	"gorm.io/gorm"
)

// GenericRepository persists generic drug names.
type GenericRepository struct {
	db *gorm.DB
}

func NewGenericRepository(db *gorm.DB) *GenericRepository {
	return &GenericRepository{db: db}
}

// FindAll lists generics with pagination and an optional name search.
func (r *GenericRepository) FindAll(ctx context.Context, page, pageSize int, search string) ([]entity.Generic, int64, error) {
	var items []entity.Generic
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Generic{})

	if search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
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

// FindByID looks up a generic.
func (r *GenericRepository) FindByID(ctx context.Context, id string) (*entity.Generic, error) {
	var generic entity.Generic
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&generic).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &generic, nil
}

// Create inserts a generic.
func (r *GenericRepository) Create(ctx context.Context, generic *entity.Generic) error {
	return r.db.WithContext(ctx).Create(generic).Error
}

// Update saves a generic.
func (r *GenericRepository) Update(ctx context.Context, generic *entity.Generic) error {
	return r.db.WithContext(ctx).Save(generic).Error
}

// Delete removes a generic.
func (r *GenericRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Generic{}).Error
}
