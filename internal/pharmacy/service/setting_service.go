package service

import (
	"context"
	"fmt"
	"time"

	"github.com/zenhealth/pharmacy/internal/pharmacy/entity"
	"github.com/zenhealth/pharmacy/internal/pharmacy/repository"
)

// SettingService reads and writes site settings. Values are fetched per
// request and injected into consumers rather than held in a global.
type SettingService struct {
	repo *repository.SettingRepository
}

func NewSettingService(repo *repository.SettingRepository) *SettingService {
	return &SettingService{repo: repo}
}

// UpdateSettingsRequest writes a batch of key/value pairs.
type UpdateSettingsRequest struct {
	Settings map[string]string `json:"settings" binding:"required"`
}

// GetAll returns every setting as a key/value map.
func (s *SettingService) GetAll(ctx context.Context) (map[string]string, error) {
	settings, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	result := make(map[string]string, len(settings))
	for _, setting := range settings {
		result[setting.Key] = setting.Value
	}
	return result, nil
}

// Update upserts a batch of settings.
func (s *SettingService) Update(ctx context.Context, userID string, req *UpdateSettingsRequest) (map[string]string, error) {
	now := time.Now()
	settings := make([]entity.Setting, 0, len(req.Settings))
	for key, value := range req.Settings {
		settings = append(settings, entity.Setting{
			Key:       key,
			Value:     value,
			UpdatedBy: userID,
			UpdatedAt: now,
		})
	}

	if err := s.repo.Upsert(ctx, settings); err != nil {
		return nil, fmt.Errorf("update settings: %w", err)
	}

	return s.GetAll(ctx)
}
