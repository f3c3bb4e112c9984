package payroll

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/jung-kurt/gofpdf"
)

// Payslip renders a stored record as a one-page PDF and returns it together
// with a download file name.
func (s *PayrollServiceImpl) Payslip(ctx context.Context, id string) ([]byte, string, error) {
	record, err := s.loadRecord(ctx, id)
	if err != nil {
		return nil, "", err
	}

	data, err := renderPayslip(record)
	if err != nil {
		return nil, "", fmt.Errorf("failed to render payslip: %w", err)
	}

	return data, payslipFileName(record), nil
}

func renderPayslip(record payroll.PayrollRecord) ([]byte, error) {
	d := record.Details

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s", deref(record.EmployeeName, record.EmployeeID)))
	pdf.Ln(7)
	if record.EmployeeEmail != nil {
		pdf.Cell(0, 8, fmt.Sprintf("Email: %s", *record.EmployeeEmail))
		pdf.Ln(7)
	}
	if record.EmployeeDepartment != nil {
		pdf.Cell(0, 8, fmt.Sprintf("Department: %s", *record.EmployeeDepartment))
		pdf.Ln(7)
	}
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s", record.PeriodKey))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Status: %s", record.Status))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Calculation")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 12)

	rows := [][2]string{
		{"Basic salary", d.Basic.StringFixed(2)},
		{"Per-day salary", d.PerDaySalary.StringFixed(2)},
		{"Present days", fmt.Sprint(d.PresentDays)},
		{"Paid leave days", fmt.Sprint(d.PaidLeaveDays)},
		{"Total payable days", fmt.Sprint(d.TotalPayableDays)},
		{"Working hours", d.TotalWorkingHours.StringFixed(2)},
	}
	for _, row := range rows {
		pdf.CellFormat(80, 8, row[0], "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 8, row[1], "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 8, fmt.Sprintf("%s / %d x %d days", d.Basic.StringFixed(2), payroll.DaysPerMonth, d.TotalPayableDays))
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 10, fmt.Sprintf("Net pay: %s", record.Amount.StringFixed(0)))
	pdf.Ln(10)

	if record.PaidAt != nil {
		pdf.SetFont("Helvetica", "", 10)
		pdf.Cell(0, 8, fmt.Sprintf("Paid at: %s", record.PaidAt.Format("2006-01-02 15:04")))
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func payslipFileName(record payroll.PayrollRecord) string {
	period := strings.ReplaceAll(strings.ToLower(record.PeriodKey), " ", "-")
	return fmt.Sprintf("payslip-%s-%s.pdf", record.EmployeeID, period)
}

func deref(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}
