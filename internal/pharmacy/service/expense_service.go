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

// ExpenseService groups per-ward, per-day consumption entries. Appending
// records never mutates the medicine counters.
type ExpenseService struct {
	repo         *repository.ExpenseRepository
	wardRepo     *repository.WardRepository
	medicineRepo *repository.MedicineRepository
}

func NewExpenseService(repo *repository.ExpenseRepository, wardRepo *repository.WardRepository, medicineRepo *repository.MedicineRepository) *ExpenseService {
	return &ExpenseService{
		repo:         repo,
		wardRepo:     wardRepo,
		medicineRepo: medicineRepo,
	}
}

// OpenExpenseRequest opens or reuses a ward's batch for one date.
type OpenExpenseRequest struct {
	Date   string `json:"date" binding:"required"`
	WardID string `json:"ward_id" binding:"required"`
	Note   string `json:"note"`
}

// ExpenseRecordInput is one consumption line item.
type ExpenseRecordInput struct {
	MedicineID string `json:"medicine_id" binding:"required"`
	Quantity   int    `json:"quantity" binding:"required,gt=0"`
}

// AppendRecordsRequest attaches line items to an expense.
type AppendRecordsRequest struct {
	Records []ExpenseRecordInput `json:"records" binding:"required,min=1,dive"`
}

// UpdateExpenseRequest edits the free-text note.
type UpdateExpenseRequest struct {
	Note *string `json:"note"`
}

// Open finds or creates the expense for a (date, ward) key. It inserts
// first and falls back to fetching the existing row when the unique
// index rejects the insert, so two concurrent calls converge on one row.
// The second return value reports whether a new row was created.
func (s *ExpenseService) Open(ctx context.Context, userID string, req *OpenExpenseRequest) (*entity.Expense, bool, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, false, fmt.Errorf("invalid date: %w", err)
	}

	if _, err := s.wardRepo.FindByID(ctx, req.WardID); err != nil {
		return nil, false, err
	}

	existing, err := s.repo.FindByDateWard(ctx, date, req.WardID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, false, err
	}

	expense := &entity.Expense{
		ID:          uuid.New().String()[:32],
		ExpenseDate: date,
		WardID:      req.WardID,
		Note:        req.Note,
		CreatedBy:   userID,
	}

	if createErr := s.repo.Create(ctx, expense); createErr != nil {
		// A concurrent call may have won the insert; the unique index
		// guarantees at most one row, so re-fetch before failing.
		existing, fetchErr := s.repo.FindByDateWard(ctx, date, req.WardID)
		if fetchErr == nil {
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("create expense: %w", createErr)
	}

	return expense, true, nil
}

// AppendRecords attaches a batch of line items, all or nothing.
func (s *ExpenseService) AppendRecords(ctx context.Context, expenseID string, req *AppendRecordsRequest) ([]entity.ExpenseRecord, error) {
	if _, err := s.repo.FindByID(ctx, expenseID); err != nil {
		return nil, err
	}

	for _, input := range req.Records {
		if _, err := s.medicineRepo.FindByID(ctx, input.MedicineID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("medicine %s: %w", input.MedicineID, repository.ErrNotFound)
			}
			return nil, err
		}
	}

	now := time.Now()
	records := make([]entity.ExpenseRecord, 0, len(req.Records))
	for _, input := range req.Records {
		records = append(records, entity.ExpenseRecord{
			ID:         uuid.New().String()[:32],
			ExpenseID:  expenseID,
			MedicineID: input.MedicineID,
			Quantity:   input.Quantity,
			CreatedAt:  now,
		})
	}

	if err := s.repo.CreateRecords(ctx, records); err != nil {
		return nil, fmt.Errorf("append records: %w", err)
	}

	return records, nil
}

// List pages expenses.
func (s *ExpenseService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Expense, int64, error) {
	return s.repo.FindAll(ctx, page, pageSize, filters)
}

// Get fetches an expense with its records.
func (s *ExpenseService) Get(ctx context.Context, id string) (*entity.Expense, error) {
	return s.repo.FindByID(ctx, id)
}

// Update edits the note.
func (s *ExpenseService) Update(ctx context.Context, id string, req *UpdateExpenseRequest) (*entity.Expense, error) {
	expense, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Note != nil {
		expense.Note = *req.Note
	}

	if err := s.repo.Update(ctx, expense); err != nil {
		return nil, fmt.Errorf("update expense: %w", err)
	}

	return expense, nil
}

// Delete removes an expense and cascades its records.
func (s *ExpenseService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
