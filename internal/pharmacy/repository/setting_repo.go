package repository

import (
	"context"

	"github.com/zenhealth/pharmacy/internal/pharmacy/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingRepository persists site settings.
type SettingRepository struct {
	db *gorm.DB
}

func NewSettingRepository(db *gorm.DB) *SettingRepository {
	return &SettingRepository{db: db}
}

// FindAll returns every setting.
func (r *SettingRepository) FindAll(ctx context.Context) ([]entity.Setting, error) {
	var settings []entity.Setting
	err := r.db.WithContext(ctx).Order("key ASC").Find(&settings).Error
	return settings, err
}

// Upsert writes a batch of settings, inserting or overwriting by key.
func (r *SettingRepository) Upsert(ctx context.Context, settings []entity.Setting) error {
	if len(settings) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_by", "updated_at"}),
		}).
		Create(&settings).Error
}
