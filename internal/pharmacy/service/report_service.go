package service

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/zenhealth/pharmacy/internal/pharmacy/repository"
)

var medicineExportHeaders = []string{
	"Name", "Generic", "Category", "Route", "Batch No",
	"On Hand", "Total Received", "Status", "Expiry Date", "Usage Count",
}

var expenseExportHeaders = []string{
	"Medicine", "Generic", "Quantity", "Recorded At",
}

// ReportService renders read-only spreadsheet exports.
type ReportService struct {
	medicineRepo *repository.MedicineRepository
	expenseRepo  *repository.ExpenseRepository
}

func NewReportService(medicineRepo *repository.MedicineRepository, expenseRepo *repository.ExpenseRepository) *ReportService {
	return &ReportService{
		medicineRepo: medicineRepo,
		expenseRepo:  expenseRepo,
	}
}

// ExportMedicines renders the full catalog with usage counts.
func (s *ReportService) ExportMedicines(ctx context.Context) (*excelize.File, string, error) {
	rows, err := s.medicineRepo.FindAllWithUsage(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("list medicines: %w", err)
	}

	f := excelize.NewFile()
	sheet := "Medicines"
	f.SetSheetName("Sheet1", sheet)

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	for i, h := range medicineExportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}

	for rowIdx, m := range rows {
		row := rowIdx + 2
		genericName := ""
		if m.Generic != nil {
			genericName = m.Generic.Name
		}
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), m.Name)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), genericName)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), m.Category)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), m.Route)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), m.BatchNo)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), m.OnHandQty)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), m.TotalReceivedQty)
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), m.Status)
		if m.ExpiryDate != nil {
			f.SetCellValue(sheet, fmt.Sprintf("I%d", row), m.ExpiryDate.Format("2006-01-02"))
		}
		f.SetCellValue(sheet, fmt.Sprintf("J%d", row), m.UsageCount)
	}

	colWidths := []float64{24, 20, 14, 14, 14, 10, 14, 10, 12, 12}
	for i, w := range colWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, w)
	}

	filename := fmt.Sprintf("medicines_%s.xlsx", time.Now().Format("20060102"))
	return f, filename, nil
}

// ExportExpense renders one expense's line items.
func (s *ReportService) ExportExpense(ctx context.Context, expenseID string) (*excelize.File, string, error) {
	expense, err := s.expenseRepo.FindByID(ctx, expenseID)
	if err != nil {
		return nil, "", err
	}

	records, err := s.expenseRepo.FindRecords(ctx, expenseID)
	if err != nil {
		return nil, "", fmt.Errorf("list records: %w", err)
	}

	f := excelize.NewFile()
	sheet := "Expense"
	f.SetSheetName("Sheet1", sheet)

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	for i, h := range expenseExportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}

	var totalQty int
	for rowIdx, r := range records {
		row := rowIdx + 2
		name := r.MedicineID
		genericName := ""
		if r.Medicine != nil {
			name = r.Medicine.Name
			if r.Medicine.Generic != nil {
				genericName = r.Medicine.Generic.Name
			}
		}
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), name)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), genericName)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), r.Quantity)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), r.CreatedAt.Format("2006-01-02 15:04"))
		totalQty += r.Quantity
	}

	summaryRow := len(records) + 2
	summaryStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	f.SetCellValue(sheet, fmt.Sprintf("A%d", summaryRow), "Total")
	f.SetCellValue(sheet, fmt.Sprintf("C%d", summaryRow), totalQty)
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("D%d", summaryRow), summaryStyle)

	colWidths := []float64{24, 20, 10, 18}
	for i, w := range colWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, w)
	}

	filename := fmt.Sprintf("expense_%s_%s.xlsx", expense.WardID, expense.ExpenseDate.Format("2006-01-02"))
	return f, filename, nil
}
