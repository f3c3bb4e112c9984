package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
)

type payrollRepository struct {
	db *sql.DB
}

func NewPayrollRepository(db *sql.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

const payrollRecordSelect = `
	SELECT pr.id, pr.employee_id, pr.period_key, pr.period_year, pr.period_month,
		pr.amount, pr.status, pr.details, pr.paid_at, pr.created_at, pr.updated_at,
		e.full_name, e.email, e.department
	FROM payroll_records pr
	JOIN employees e ON pr.employee_id = e.id`

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func scanPayrollRecord(row rowScanner) (payroll.PayrollRecord, error) {
	var (
		rec                  payroll.PayrollRecord
		details              string
		paidAt               sql.NullString
		createdAt, updatedAt string
	)
	if err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.PeriodKey, &rec.PeriodYear, &rec.PeriodMonth,
		&rec.Amount, &rec.Status, &details, &paidAt, &createdAt, &updatedAt,
		&rec.EmployeeName, &rec.EmployeeEmail, &rec.EmployeeDepartment,
	); err != nil {
		return payroll.PayrollRecord{}, err
	}

	if err := rec.Details.Scan(details); err != nil {
		return payroll.PayrollRecord{}, err
	}
	var err error
	if rec.PaidAt, err = parseTimePtr(paidAt); err != nil {
		return payroll.PayrollRecord{}, err
	}
	if rec.CreatedAt, err = parseTime(createdAt); err != nil {
		return payroll.PayrollRecord{}, err
	}
	if rec.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return payroll.PayrollRecord{}, err
	}
	return rec, nil
}

func getPayrollRecord(ctx context.Context, q queryer, where string, args ...interface{}) (payroll.PayrollRecord, error) {
	rec, err := scanPayrollRecord(q.QueryRowContext(ctx, payrollRecordSelect+" WHERE "+where, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.PayrollRecord{}, fmt.Errorf("%w: failed to get payroll record: %w", payroll.ErrStorage, err)
	}
	return rec, nil
}

// withTx runs fn in an immediate transaction; the connection DSN sets
// _txlock=immediate so the write lock is taken at BEGIN.
func (r *payrollRepository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %w", payroll.ErrStorage, err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit transaction: %w", payroll.ErrStorage, err)
	}
	return nil
}

func (r *payrollRepository) UpsertPayrollRecord(ctx context.Context, record payroll.PayrollRecord, statusOverride *payroll.PayrollStatus) (payroll.PayrollRecord, bool, error) {
	var (
		result  payroll.PayrollRecord
		created bool
	)

	err := r.withTx(ctx, func(tx *sql.Tx) error {
		now := time.Now().UTC()
		status := payroll.InitialStatus(statusOverride)
		var paidAt *time.Time
		if status == payroll.PayrollStatusPaid {
			paidAt = &now
		}

		details, err := record.Details.Value()
		if err != nil {
			return fmt.Errorf("%w: encode details: %w", payroll.ErrStorage, err)
		}

		res, err := tx.ExecContext(ctx, `
			INSERT INTO payroll_records (
				id, employee_id, period_key, period_year, period_month,
				amount, status, details, paid_at, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (employee_id, period_key) DO NOTHING
		`,
			record.ID, record.EmployeeID, record.PeriodKey, record.PeriodYear, record.PeriodMonth,
			record.Amount.String(), status, details, formatTimePtr(paidAt), formatTime(now), formatTime(now),
		)
		if err != nil {
			if strings.Contains(err.Error(), "FOREIGN KEY") {
				return fmt.Errorf("%w: employee %s does not exist: %w", payroll.ErrStorage, record.EmployeeID, err)
			}
			return fmt.Errorf("%w: failed to insert payroll record: %w", payroll.ErrStorage, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("%w: %w", payroll.ErrStorage, err)
		}
		if affected == 1 {
			created = true
			result, err = getPayrollRecord(ctx, tx, "pr.id = ?", record.ID)
			return err
		}

		existing, err := getPayrollRecord(ctx, tx, "pr.employee_id = ? AND pr.period_key = ?", record.EmployeeID, record.PeriodKey)
		if err != nil {
			return err
		}
		if err := existing.ApplyRecompute(record, statusOverride, now); err != nil {
			return err
		}

		details, err = existing.Details.Value()
		if err != nil {
			return fmt.Errorf("%w: encode details: %w", payroll.ErrStorage, err)
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE payroll_records
			SET amount = ?, status = ?, details = ?, paid_at = ?, updated_at = ?
			WHERE id = ?
		`, existing.Amount.String(), existing.Status, details, formatTimePtr(existing.PaidAt), formatTime(existing.UpdatedAt), existing.ID); err != nil {
			return fmt.Errorf("%w: failed to update payroll record: %w", payroll.ErrStorage, err)
		}
		result, err = getPayrollRecord(ctx, tx, "pr.id = ?", existing.ID)
		return err
	})
	if err != nil {
		return payroll.PayrollRecord{}, false, err
	}
	return result, created, nil
}

func (r *payrollRepository) GetPayrollRecordByID(ctx context.Context, id string) (payroll.PayrollRecord, error) {
	return getPayrollRecord(ctx, r.db, "pr.id = ?", id)
}

func (r *payrollRepository) GetPayrollRecordByEmployeePeriod(ctx context.Context, employeeID string, periodKey string) (payroll.PayrollRecord, error) {
	return getPayrollRecord(ctx, r.db, "pr.employee_id = ? AND pr.period_key = ?", employeeID, periodKey)
}

func (r *payrollRepository) UpdatePayrollStatus(ctx context.Context, id string, status payroll.PayrollStatus) (payroll.PayrollRecord, error) {
	if !status.IsValid() {
		return payroll.PayrollRecord{}, fmt.Errorf("%w: %q", payroll.ErrInvalidStatus, status)
	}

	var result payroll.PayrollRecord
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		existing, err := getPayrollRecord(ctx, tx, "pr.id = ?", id)
		if err != nil {
			return err
		}
		if err := existing.TransitionTo(status, time.Now().UTC()); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE payroll_records SET status = ?, paid_at = ?, updated_at = ? WHERE id = ?
		`, existing.Status, formatTimePtr(existing.PaidAt), formatTime(existing.UpdatedAt), existing.ID); err != nil {
			return fmt.Errorf("%w: failed to update payroll status: %w", payroll.ErrStorage, err)
		}
		result = existing
		return nil
	})
	if err != nil {
		return payroll.PayrollRecord{}, err
	}
	return result, nil
}

func (r *payrollRepository) ListPayrollRecords(ctx context.Context, filter payroll.PayrollFilter) ([]payroll.PayrollRecord, error) {
	query := payrollRecordSelect + " WHERE 1 = 1"
	args := []interface{}{}

	if filter.EmployeeID != nil {
		query += " AND pr.employee_id = ?"
		args = append(args, *filter.EmployeeID)
	}
	if filter.Status != nil {
		query += " AND pr.status = ?"
		args = append(args, *filter.Status)
	}
	if filter.PeriodKey != nil {
		query += " AND pr.period_key = ?"
		args = append(args, *filter.PeriodKey)
	}
	query += " ORDER BY pr.created_at DESC, pr.id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list payroll records: %w", payroll.ErrStorage, err)
	}
	defer rows.Close()

	records := make([]payroll.PayrollRecord, 0)
	for rows.Next() {
		rec, err := scanPayrollRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to scan payroll record: %w", payroll.ErrStorage, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", payroll.ErrStorage, err)
	}
	return records, nil
}
