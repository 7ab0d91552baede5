package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zenhealth/pharmacy/internal/pharmacy/entity"
	"github.com/zenhealth/pharmacy/internal/pharmacy/repository"
)

var (
	ErrInsufficientStock   = errors.New("insufficient on-hand stock")
	ErrInvalidMovementType = errors.New("invalid movement type")
)

// StockService owns the medicine quantity counters. Every counter change
// goes through RecordMovement, which updates the counters and appends a
// ledger entry in one transaction.
type StockService struct {
	db           *gorm.DB
	medicineRepo *repository.MedicineRepository
	movementRepo *repository.MovementRepository
}

func NewStockService(db *gorm.DB, medicineRepo *repository.MedicineRepository, movementRepo *repository.MovementRepository) *StockService {
	return &StockService{
		db:           db,
		medicineRepo: medicineRepo,
		movementRepo: movementRepo,
	}
}

// RecordMovementRequest is one stock movement submission.
type RecordMovementRequest struct {
	MovementType    string  `json:"movement_type" binding:"required"`
	Quantity        int     `json:"quantity" binding:"required,gt=0"`
	TransactionDate string  `json:"transaction_date" binding:"required"`
	Note            string  `json:"note"`
	NewExpiryDate   *string `json:"new_expiry_date"`
}

// RecordMovement applies a stock movement to a medicine.
//
// approve adds to both counters and may overwrite the expiry date.
// return subtracts from on-hand, refusing to go below zero, and floors
// the cumulative total at zero. pending and reject only log. The counter
// update is a single conditional UPDATE so two concurrent returns cannot
// both pass the on-hand check.
func (s *StockService) RecordMovement(ctx context.Context, medicineID, userID string, req *RecordMovementRequest) (*entity.StockMovement, error) {
	if _, ok := entity.ValidMovementTypes[req.MovementType]; !ok {
		return nil, ErrInvalidMovementType
	}

	txDate, err := time.Parse("2006-01-02", req.TransactionDate)
	if err != nil {
		return nil, fmt.Errorf("invalid transaction_date: %w", err)
	}

	var newExpiry *time.Time
	if req.MovementType == entity.MovementTypeApprove && req.NewExpiryDate != nil && *req.NewExpiryDate != "" {
		d, err := time.Parse("2006-01-02", *req.NewExpiryDate)
		if err != nil {
			return nil, fmt.Errorf("invalid new_expiry_date: %w", err)
		}
		newExpiry = &d
	}

	movement := &entity.StockMovement{
		ID:              uuid.New().String()[:32],
		MedicineID:      medicineID,
		MovementType:    req.MovementType,
		Quantity:        req.Quantity,
		TransactionDate: txDate,
		Note:            req.Note,
		NewExpiryDate:   newExpiry,
		CreatedBy:       userID,
		CreatedAt:       time.Now(),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var medicine entity.Medicine
		if err := tx.Where("id = ?", medicineID).First(&medicine).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return repository.ErrNotFound
			}
			return err
		}

		switch req.MovementType {
		case entity.MovementTypeApprove:
			updates := map[string]interface{}{
				"on_hand_qty":        gorm.Expr("on_hand_qty + ?", req.Quantity),
				"total_received_qty": gorm.Expr("total_received_qty + ?", req.Quantity),
				"updated_at":         time.Now(),
			}
			if newExpiry != nil {
				updates["expiry_date"] = *newExpiry
			}
			if err := tx.Model(&entity.Medicine{}).Where("id = ?", medicineID).UpdateColumns(updates).Error; err != nil {
				return err
			}

		case entity.MovementTypeReturn:
			res := tx.Model(&entity.Medicine{}).
				Where("id = ? AND on_hand_qty >= ?", medicineID, req.Quantity).
				UpdateColumns(map[string]interface{}{
					"on_hand_qty":        gorm.Expr("on_hand_qty - ?", req.Quantity),
					"total_received_qty": gorm.Expr("GREATEST(total_received_qty - ?, 0)", req.Quantity),
					"updated_at":         time.Now(),
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrInsufficientStock
			}

		default:
			// pending and reject are log-only categories
		}

		return tx.Create(movement).Error
	})
	if err != nil {
		return nil, err
	}

	return movement, nil
}

// ListMovements pages a medicine's ledger entries.
func (s *StockService) ListMovements(ctx context.Context, medicineID string, page, pageSize int, movementType string) ([]entity.StockMovement, int64, error) {
	if _, err := s.medicineRepo.FindByID(ctx, medicineID); err != nil {
		return nil, 0, err
	}
	return s.movementRepo.FindByMedicine(ctx, medicineID, page, pageSize, movementType)
}
