package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

// Employee is the read model the payroll engine needs from user management.
type Employee struct {
	ID               string
	FullName         string
	Email            string
	Department       *string
	BaseSalary       *decimal.Decimal
	EmploymentStatus EmploymentStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type EmploymentStatus string

const (
	EmploymentStatusActive     EmploymentStatus = "active"
	EmploymentStatusResigned   EmploymentStatus = "resigned"
	EmploymentStatusTerminated EmploymentStatus = "terminated"
)

// Summary is the employee projection embedded in payroll responses.
type Summary struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Department *string `json:"department,omitempty"`
}

func (e Employee) Summary() Summary {
	return Summary{
		ID:         e.ID,
		Name:       e.FullName,
		Email:      e.Email,
		Department: e.Department,
	}
}
