package payroll

import (
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== REQUEST DTOs ==========

type PreviewRequest struct {
	EmployeeID string `json:"employee_id" validate:"required"`
	Month      string `json:"month" validate:"required"`
	Year       int    `json:"year" validate:"required,gte=1000,lte=9999"`
}

func (r *PreviewRequest) Validate() error {
	errs := validator.Struct(r)
	errs = appendMonthError(errs, r.Month)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CommitRequest struct {
	EmployeeID string  `json:"employee_id" validate:"required"`
	Month      string  `json:"month" validate:"required"`
	Year       int     `json:"year" validate:"required,gte=1000,lte=9999"`
	Status     *string `json:"status,omitempty" validate:"omitempty,oneof=Pending Processing Paid"`
}

func (r *CommitRequest) Validate() error {
	errs := validator.Struct(r)
	errs = appendMonthError(errs, r.Month)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// StatusOverride returns the requested status, nil when none was given.
func (r *CommitRequest) StatusOverride() *PayrollStatus {
	if r.Status == nil {
		return nil
	}
	s := PayrollStatus(*r.Status)
	return &s
}

type UpdateStatusRequest struct {
	ID     string `json:"-" validate:"required"`
	Status string `json:"status" validate:"required"`
}

// Validate only checks presence; an unrecognized status is reported as
// ErrInvalidStatus by the service.
func (r *UpdateStatusRequest) Validate() error {
	errs := validator.Struct(r)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func appendMonthError(errs validator.ValidationErrors, month string) validator.ValidationErrors {
	if validator.IsEmpty(month) {
		return errs
	}
	if _, ok := NormalizeMonth(month); !ok {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be a full English month name"})
	}
	return errs
}

type PayrollFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Status     *string `json:"status,omitempty"`
	PeriodKey  *string `json:"period,omitempty"`
}

// Normalize validates the optional status and period filters and rewrites the
// period into its canonical key.
func (f PayrollFilter) Normalize() (PayrollFilter, error) {
	if f.Status != nil {
		if _, err := ParseStatus(*f.Status); err != nil {
			return f, err
		}
	}
	if f.PeriodKey != nil {
		p, err := ParsePeriodKey(*f.PeriodKey)
		if err != nil {
			return f, err
		}
		f.PeriodKey = &p.Key
	}
	return f, nil
}

// ========== RESPONSE DTOs ==========

type PreviewResponse struct {
	Employee    employee.Summary `json:"employee"`
	Period      string           `json:"period"`
	PeriodStart string           `json:"period_start"`
	PeriodEnd   string           `json:"period_end"`
	Details     PayrollDetails   `json:"details"`
	Amount      decimal.Decimal  `json:"amount"`
}

type PayrollRecordResponse struct {
	ID                 string          `json:"id"`
	EmployeeID         string          `json:"employee_id"`
	EmployeeName       *string         `json:"employee_name,omitempty"`
	EmployeeEmail      *string         `json:"employee_email,omitempty"`
	EmployeeDepartment *string         `json:"employee_department,omitempty"`
	Period             string          `json:"period"`
	PeriodMonth        int             `json:"period_month"`
	PeriodYear         int             `json:"period_year"`
	Amount             decimal.Decimal `json:"amount"`
	Status             string          `json:"status"`
	Details            PayrollDetails  `json:"details"`
	PaidAt             *string         `json:"paid_at,omitempty"`
	CreatedAt          string          `json:"created_at"`
	UpdatedAt          string          `json:"updated_at"`
}

// ToResponse maps a stored record onto its API shape.
func (r PayrollRecord) ToResponse() PayrollRecordResponse {
	resp := PayrollRecordResponse{
		ID:                 r.ID,
		EmployeeID:         r.EmployeeID,
		EmployeeName:       r.EmployeeName,
		EmployeeEmail:      r.EmployeeEmail,
		EmployeeDepartment: r.EmployeeDepartment,
		Period:             r.PeriodKey,
		PeriodMonth:        r.PeriodMonth,
		PeriodYear:         r.PeriodYear,
		Amount:             r.Amount,
		Status:             string(r.Status),
		Details:            r.Details,
		CreatedAt:          r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          r.UpdatedAt.Format(time.RFC3339),
	}
	if r.PaidAt != nil {
		paidAt := r.PaidAt.Format(time.RFC3339)
		resp.PaidAt = &paidAt
	}
	return resp
}

type StatusSummary struct {
	Status string          `json:"status"`
	Count  int             `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

type PayrollSummaryResponse struct {
	TotalRecords int             `json:"total_records"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	ByStatus     []StatusSummary `json:"by_status"`
}

type RunResult struct {
	Period    string   `json:"period"`
	Committed int      `json:"committed"`
	Created   int      `json:"created"`
	Skipped   []string `json:"skipped,omitempty"`
}
