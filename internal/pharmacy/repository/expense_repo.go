package repository

import (
	"context"
	"errors"
	"time"

	"github.com/zenhealth/pharmacy/internal/pharmacy/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ExpenseRepository persists expenses and their line items.
type ExpenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

// FindAll lists expenses with pagination and filters.
func (r *ExpenseRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Expense, int64, error) {
	var items []entity.Expense
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Expense{})

	if wardID := filters["ward_id"]; wardID != "" {
		query = query.Where("ward_id = ?", wardID)
	}
	if from := filters["from"]; from != "" {
		query = query.Where("expense_date >= ?", from)
	}
	if to := filters["to"]; to != "" {
		query = query.Where("expense_date <= ?", to)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Ward").
		Order("expense_date DESC, created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindByID looks up an expense with its ward and records preloaded.
func (r *ExpenseRepository) FindByID(ctx context.Context, id string) (*entity.Expense, error) {
	var expense entity.Expense
	err := r.db.WithContext(ctx).
		Preload("Ward").
		Preload("Records").
		Preload("Records.Medicine").
		Where("id = ?", id).
		First(&expense).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &expense, nil
}

// FindByDateWard looks up the expense for one (date, ward) key.
func (r *ExpenseRepository) FindByDateWard(ctx context.Context, date time.Time, wardID string) (*entity.Expense, error) {
	var expense entity.Expense
	err := r.db.WithContext(ctx).
		Where("expense_date = ? AND ward_id = ?", date, wardID).
		First(&expense).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &expense, nil
}

// Create inserts an expense. The unique index on (expense_date, ward_id)
// makes a concurrent duplicate insert fail; callers treat that failure as
// "already exists" and re-fetch.
func (r *ExpenseRepository) Create(ctx context.Context, expense *entity.Expense) error {
	return r.db.WithContext(ctx).Create(expense).Error
}

// Update saves an expense without touching its associations.
func (r *ExpenseRepository) Update(ctx context.Context, expense *entity.Expense) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(expense).Error
}

// Delete removes an expense and its records in one transaction.
func (r *ExpenseRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("expense_id = ?", id).Delete(&entity.ExpenseRecord{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entity.Expense{}).Error
	})
}

// CreateRecords inserts a batch of line items, all or nothing.
func (r *ExpenseRepository) CreateRecords(ctx context.Context, records []entity.ExpenseRecord) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&records).Error
	})
}

// FindRecords lists an expense's line items with medicines preloaded.
func (r *ExpenseRepository) FindRecords(ctx context.Context, expenseID string) ([]entity.ExpenseRecord, error) {
	var records []entity.ExpenseRecord
	err := r.db.WithContext(ctx).
		Preload("Medicine").
		Preload("Medicine.Generic").
		Where("expense_id = ?", expenseID).
		Order("created_at ASC").
		Find(&records).Error
	return records, err
}

// CountByDateWard counts the expense rows for one (date, ward) key.
func (r *ExpenseRepository) CountByDateWard(ctx context.Context, date time.Time, wardID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Expense{}).
		Where("expense_date = ? AND ward_id = ?", date, wardID).
		Count(&count).Error
	return count, err
}
