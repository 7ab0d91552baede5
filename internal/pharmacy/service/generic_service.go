package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/zenhealth/pharmacy/internal/pharmacy/entity"
	"github.com/zenhealth/pharmacy/internal/pharmacy/repository"
)

var (
	ErrGenericReferenced = errors.New("generic is referenced by medicines")
)

// GenericService manages generic drug names.
type GenericService struct {
	repo         *repository.GenericRepository
	medicineRepo *repository.MedicineRepository
}

func NewGenericService(repo *repository.GenericRepository, medicineRepo *repository.MedicineRepository) *GenericService {
	return &GenericService{repo: repo, medicineRepo: medicineRepo}
}

// CreateGenericRequest creates a generic name.
type CreateGenericRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// UpdateGenericRequest edits a generic name.
type UpdateGenericRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// List pages generics.
func (s *GenericService) List(ctx context.Context, page, pageSize int, search string) ([]entity.Generic, int64, error) {
	return s.repo.FindAll(ctx, page, pageSize, search)
}

// Get fetches one generic.
func (s *GenericService) Get(ctx context.Context, id string) (*entity.Generic, error) {
	return s.repo.FindByID(ctx, id)
}

// Create adds a generic.
func (s *GenericService) Create(ctx context.Context, req *CreateGenericRequest) (*entity.Generic, error) {
	generic := &entity.Generic{
		ID:          uuid.New().String()[:32],
		Name:        req.Name,
		Description: req.Description,
	}

	if err := s.repo.Create(ctx, generic); err != nil {
		return nil, fmt.Errorf("create generic: %w", err)
	}

	return generic, nil
}

// Update applies partial changes.
func (s *GenericService) Update(ctx context.Context, id string, req *UpdateGenericRequest) (*entity.Generic, error) {
	generic, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		generic.Name = *req.Name
	}
	if req.Description != nil {
		generic.Description = *req.Description
	}

	if err := s.repo.Update(ctx, generic); err != nil {
		return nil, fmt.Errorf("update generic: %w", err)
	}

	return generic, nil
}

// Delete removes a generic unless medicines still reference it.
func (s *GenericService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}

	count, err := s.medicineRepo.CountByGeneric(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrGenericReferenced
	}

	return s.repo.Delete(ctx, id)
}
