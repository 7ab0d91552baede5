package repository

import (
	"context"
	"errors"
	"time"

	"github.com/zenhealth/pharmacy/internal/pharmacy/entity"
	"gorm.io/gorm"
)

// BackupRepository persists backup run tracking records.
type BackupRepository struct {
	db *gorm.DB
}

func NewBackupRepository(db *gorm.DB) *BackupRepository {
	return &BackupRepository{db: db}
}

// FindAll lists backup runs, newest first.
func (r *BackupRepository) FindAll(ctx context.Context, page, pageSize int) ([]entity.BackupRun, int64, error) {
	var items []entity.BackupRun
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.BackupRun{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order("started_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindByID looks up a backup run.
func (r *BackupRepository) FindByID(ctx context.Context, id string) (*entity.BackupRun, error) {
	var run entity.BackupRun
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&run).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &run, nil
}

// Create inserts a backup run.
func (r *BackupRepository) Create(ctx context.Context, run *entity.BackupRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

// MarkCompleted records a successful run.
func (r *BackupRepository) MarkCompleted(ctx context.Context, id, objectKey string, sizeBytes int64) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&entity.BackupRun{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      entity.BackupStatusCompleted,
			"object_key":  objectKey,
			"size_bytes":  sizeBytes,
			"finished_at": &now,
		}).Error
}

// MarkFailed records a failed run with its error message.
func (r *BackupRepository) MarkFailed(ctx context.Context, id, errMsg string) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&entity.BackupRun{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      entity.BackupStatusFailed,
			"error":       errMsg,
			"finished_at": &now,
		}).Error
}
