package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
)

type employeeRepository struct {
	db *sql.DB
}

func NewEmployeeRepository(db *sql.DB) employee.EmployeeRepository {
	return &employeeRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEmployee(row rowScanner) (employee.Employee, error) {
	var (
		emp                  employee.Employee
		createdAt, updatedAt string
	)
	if err := row.Scan(
		&emp.ID, &emp.FullName, &emp.Email, &emp.Department, &emp.BaseSalary,
		&emp.EmploymentStatus, &createdAt, &updatedAt,
	); err != nil {
		return employee.Employee{}, err
	}

	var err error
	if emp.CreatedAt, err = parseTime(createdAt); err != nil {
		return employee.Employee{}, err
	}
	if emp.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return employee.Employee{}, err
	}
	return emp, nil
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, full_name, email, department, base_salary, employment_status, created_at, updated_at
		FROM employees
		WHERE id = ?
	`, id)

	emp, err := scanEmployee(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee with id %s: %w", id, err)
	}
	return emp, nil
}

func (r *employeeRepository) ListActive(ctx context.Context) ([]employee.Employee, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, full_name, email, department, base_salary, employment_status, created_at, updated_at
		FROM employees
		WHERE employment_status = ?
		ORDER BY full_name, id
	`, employee.EmploymentStatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}
