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
	ErrWardReferenced = errors.New("ward is referenced by expenses")
)

// WardService manages hospital wards.
type WardService struct {
	repo *repository.WardRepository
}

func NewWardService(repo *repository.WardRepository) *WardService {
	return &WardService{repo: repo}
}

// CreateWardRequest creates a ward.
type CreateWardRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// UpdateWardRequest edits a ward.
type UpdateWardRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

// List pages wards.
func (s *WardService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Ward, int64, error) {
	return s.repo.FindAll(ctx, page, pageSize, filters)
}

// Get fetches one ward.
func (s *WardService) Get(ctx context.Context, id string) (*entity.Ward, error) {
	return s.repo.FindByID(ctx, id)
}

// Create adds a ward.
func (s *WardService) Create(ctx context.Context, req *CreateWardRequest) (*entity.Ward, error) {
	ward := &entity.Ward{
		ID:          uuid.New().String()[:32],
		Name:        req.Name,
		Description: req.Description,
		Status:      entity.WardStatusActive,
	}

	if err := s.repo.Create(ctx, ward); err != nil {
		return nil, fmt.Errorf("create ward: %w", err)
	}

	return ward, nil
}

// Update applies partial changes.
func (s *WardService) Update(ctx context.Context, id string, req *UpdateWardRequest) (*entity.Ward, error) {
	ward, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		ward.Name = *req.Name
	}
	if req.Description != nil {
		ward.Description = *req.Description
	}
	if req.Status != nil {
		ward.Status = *req.Status
	}

	if err := s.repo.Update(ctx, ward); err != nil {
		return nil, fmt.Errorf("update ward: %w", err)
	}

	return ward, nil
}

// Delete removes a ward unless expenses still reference it.
func (s *WardService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}

	count, err := s.repo.CountExpenses(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrWardReferenced
	}

	return s.repo.Delete(ctx, id)
}
