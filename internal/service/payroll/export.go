package payroll

import (
	"context"
	"fmt"
	"io"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Payroll"

var exportHeaders = []string{
	"Record ID", "Employee ID", "Employee", "Department", "Period",
	"Present Days", "Paid Leave Days", "Payable Days", "Working Hours",
	"Basic Salary", "Amount", "Status", "Paid At",
}

// ExportRecords writes the filtered records to w as an .xlsx workbook.
func (s *PayrollServiceImpl) ExportRecords(ctx context.Context, filter payroll.PayrollFilter, w io.Writer) error {
	records, err := s.listRecords(ctx, filter)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("failed to prepare workbook: %w", err)
	}

	for col, header := range exportHeaders {
		if err := setCell(f, col+1, 1, header); err != nil {
			return err
		}
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		last, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
		_ = f.SetCellStyle(exportSheet, "A1", last, style)
	}

	for i, r := range records {
		paidAt := ""
		if r.PaidAt != nil {
			paidAt = r.PaidAt.Format("2006-01-02 15:04:05")
		}
		values := []interface{}{
			r.ID,
			r.EmployeeID,
			deref(r.EmployeeName, ""),
			deref(r.EmployeeDepartment, ""),
			r.PeriodKey,
			r.Details.PresentDays,
			r.Details.PaidLeaveDays,
			r.Details.TotalPayableDays,
			r.Details.TotalWorkingHours.InexactFloat64(),
			r.Details.Basic.InexactFloat64(),
			r.Amount.InexactFloat64(),
			string(r.Status),
			paidAt,
		}
		for col, v := range values {
			if err := setCell(f, col+1, i+2, v); err != nil {
				return err
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func setCell(f *excelize.File, col, row int, value interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("failed to resolve cell: %w", err)
	}
	if err := f.SetCellValue(exportSheet, cell, value); err != nil {
		return fmt.Errorf("failed to set cell %s: %w", cell, err)
	}
	return nil
}
