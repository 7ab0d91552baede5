package repository

import (
	"context"
	"errors"

	"github.com/zenhealth/pharmacy/internal/pharmacy/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MedicineRepository persists medicines.
type MedicineRepository struct {
	db *gorm.DB
}

func NewMedicineRepository(db *gorm.DB) *MedicineRepository {
	return &MedicineRepository{db: db}
}

// FindAll lists medicines with pagination and filters.
func (r *MedicineRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Medicine, int64, error) {
	var items []entity.Medicine
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Medicine{})

	if search := filters["search"]; search != "" {
		query = query.Where("name ILIKE ? OR batch_no ILIKE ?",
			"%"+search+"%", "%"+search+"%")
	}
	if genericID := filters["generic_id"]; genericID != "" {
		query = query.Where("generic_id = ?", genericID)
	}
	if category := filters["category"]; category != "" {
		query = query.Where("category = ?", category)
	}
	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Generic").
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindByID looks up a medicine with its generic preloaded.
func (r *MedicineRepository) FindByID(ctx context.Context, id string) (*entity.Medicine, error) {
	var medicine entity.Medicine
	err := r.db.WithContext(ctx).
		Preload("Generic").
		Where("id = ?", id).
		First(&medicine).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &medicine, nil
}

// Create inserts a medicine.
func (r *MedicineRepository) Create(ctx context.Context, medicine *entity.Medicine) error {
	return r.db.WithContext(ctx).Create(medicine).Error
}

// Update saves a medicine without touching its associations.
func (r *MedicineRepository) Update(ctx context.Context, medicine *entity.Medicine) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(medicine).Error
}

// Delete removes a medicine.
func (r *MedicineRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Medicine{}).Error
}

// CountExpenseRecords counts the expense line items referencing a medicine.
func (r *MedicineRepository) CountExpenseRecords(ctx context.Context, medicineID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.ExpenseRecord{}).
		Where("medicine_id = ?", medicineID).
		Count(&count).Error
	return count, err
}

// CountMovements counts the ledger entries referencing a medicine.
func (r *MedicineRepository) CountMovements(ctx context.Context, medicineID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.StockMovement{}).
		Where("medicine_id = ?", medicineID).
		Count(&count).Error
	return count, err
}

// CountByGeneric counts medicines belonging to a generic.
func (r *MedicineRepository) CountByGeneric(ctx context.Context, genericID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Medicine{}).
		Where("generic_id = ?", genericID).
		Count(&count).Error
	return count, err
}

// MedicineUsage is the export read shape: a medicine with the number of
// expense records that reference it.
type MedicineUsage struct {
	entity.Medicine
	UsageCount int64 `json:"usage_count"`
}

// FindAllWithUsage lists every medicine joined with its usage count.
func (r *MedicineRepository) FindAllWithUsage(ctx context.Context) ([]MedicineUsage, error) {
	var rows []MedicineUsage
	err := r.db.WithContext(ctx).
		Model(&entity.Medicine{}).
		Select("medicines.*, COUNT(expense_records.id) AS usage_count").
		Joins("LEFT JOIN expense_records ON expense_records.medicine_id = medicines.id").
		Group("medicines.id").
		Order("medicines.name ASC").
		Preload("Generic").
		Find(&rows).Error
	return rows, err
}
