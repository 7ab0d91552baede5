package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/zenhealth/pharmacy/internal/pharmacy/entity"
	"github.com/zenhealth/pharmacy/internal/pharmacy/repository"
)

var (
	ErrMedicineReferenced = errors.New("medicine is referenced by expense records or movements")
)

// MedicineService manages the medicine catalog. Quantity counters are
// not writable here; they belong to the stock service.
type MedicineService struct {
	repo *repository.MedicineRepository
}

func NewMedicineService(repo *repository.MedicineRepository) *MedicineService {
	return &MedicineService{repo: repo}
}

// CreateMedicineRequest creates a catalog entry with zero counters.
type CreateMedicineRequest struct {
	Name        string  `json:"name" binding:"required"`
	GenericID   string  `json:"generic_id"`
	Category    string  `json:"category"`
	Route       string  `json:"route"`
	BatchNo     string  `json:"batch_no"`
	ExpiryDate  *string `json:"expiry_date"`
	Description string  `json:"description"`
}

// UpdateMedicineRequest updates descriptive fields only.
type UpdateMedicineRequest struct {
	Name        *string `json:"name"`
	GenericID   *string `json:"generic_id"`
	Category    *string `json:"category"`
	Route       *string `json:"route"`
	BatchNo     *string `json:"batch_no"`
	ExpiryDate  *string `json:"expiry_date"`
	Status      *string `json:"status"`
	Description *string `json:"description"`
}

// List pages the catalog.
func (s *MedicineService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Medicine, int64, error) {
	return s.repo.FindAll(ctx, page, pageSize, filters)
}

// Get fetches one medicine.
func (s *MedicineService) Get(ctx context.Context, id string) (*entity.Medicine, error) {
	return s.repo.FindByID(ctx, id)
}

// Create adds a medicine with zero on-hand and total counters.
func (s *MedicineService) Create(ctx context.Context, userID string, req *CreateMedicineRequest) (*entity.Medicine, error) {
	var expiry *time.Time
	if req.ExpiryDate != nil && *req.ExpiryDate != "" {
		d, err := time.Parse("2006-01-02", *req.ExpiryDate)
		if err != nil {
			return nil, fmt.Errorf("invalid expiry_date: %w", err)
		}
		expiry = &d
	}

	medicine := &entity.Medicine{
		ID:          uuid.New().String()[:32],
		Name:        req.Name,
		GenericID:   req.GenericID,
		Category:    req.Category,
		Route:       req.Route,
		BatchNo:     req.BatchNo,
		ExpiryDate:  expiry,
		Status:      entity.MedicineStatusActive,
		Description: req.Description,
		CreatedBy:   userID,
	}

	if err := s.repo.Create(ctx, medicine); err != nil {
		return nil, fmt.Errorf("create medicine: %w", err)
	}

	return medicine, nil
}

// Update applies partial descriptive changes.
func (s *MedicineService) Update(ctx context.Context, id string, req *UpdateMedicineRequest) (*entity.Medicine, error) {
	medicine, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		medicine.Name = *req.Name
	}
	if req.GenericID != nil {
		medicine.GenericID = *req.GenericID
	}
	if req.Category != nil {
		medicine.Category = *req.Category
	}
	if req.Route != nil {
		medicine.Route = *req.Route
	}
	if req.BatchNo != nil {
		medicine.BatchNo = *req.BatchNo
	}
	if req.ExpiryDate != nil {
		if *req.ExpiryDate == "" {
			medicine.ExpiryDate = nil
		} else {
			d, err := time.Parse("2006-01-02", *req.ExpiryDate)
			if err != nil {
				return nil, fmt.Errorf("invalid expiry_date: %w", err)
			}
			medicine.ExpiryDate = &d
		}
	}
	if req.Status != nil {
		medicine.Status = *req.Status
	}
	if req.Description != nil {
		medicine.Description = *req.Description
	}

	if err := s.repo.Update(ctx, medicine); err != nil {
		return nil, fmt.Errorf("update medicine: %w", err)
	}

	return medicine, nil
}

// Delete removes a medicine unless the ledger or any expense still
// references it.
func (s *MedicineService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}

	recordCount, err := s.repo.CountExpenseRecords(ctx, id)
	if err != nil {
		return err
	}
	if recordCount > 0 {
		return ErrMedicineReferenced
	}

	movementCount, err := s.repo.CountMovements(ctx, id)
	if err != nil {
		return err
	}
	if movementCount > 0 {
		return ErrMedicineReferenced
	}

	return s.repo.Delete(ctx, id)
}
