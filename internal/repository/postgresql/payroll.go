package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

const payrollRecordColumns = `
	pr.id, pr.employee_id, pr.period_key, pr.period_year, pr.period_month,
	pr.amount, pr.status, pr.details, pr.paid_at, pr.created_at, pr.updated_at,
	e.full_name, e.email, e.department`

func scanPayrollRecord(row pgx.Row) (payroll.PayrollRecord, error) {
	var rec payroll.PayrollRecord
	var detailsBytes []byte
	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.PeriodKey, &rec.PeriodYear, &rec.PeriodMonth,
		&rec.Amount, &rec.Status, &detailsBytes, &rec.PaidAt, &rec.CreatedAt, &rec.UpdatedAt,
		&rec.EmployeeName, &rec.EmployeeEmail, &rec.EmployeeDepartment,
	)
	if err != nil {
		return payroll.PayrollRecord{}, err
	}
	if err := rec.Details.Scan(detailsBytes); err != nil {
		return payroll.PayrollRecord{}, err
	}
	return rec, nil
}

// UpsertPayrollRecord inserts or recomputes the record for (employee, period)
// in one transaction. The insert is conflict-tolerant and the existing row is
// locked before it is rewritten, so concurrent commits serialize on the row.
func (r *payrollRepository) UpsertPayrollRecord(ctx context.Context, record payroll.PayrollRecord, statusOverride *payroll.PayrollStatus) (payroll.PayrollRecord, bool, error) {
	var (
		id      string
		created bool
	)

	err := WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		txCtx := ContextWithTx(ctx, tx)
		q := GetQuerier(txCtx, r.db)
		now := time.Now().UTC()

		status := payroll.InitialStatus(statusOverride)
		var paidAt *time.Time
		if status == payroll.PayrollStatusPaid {
			paidAt = &now
		}

		insert := `
			INSERT INTO payroll_records (
				id, employee_id, period_key, period_year, period_month,
				amount, status, details, paid_at, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
			ON CONFLICT (employee_id, period_key) DO NOTHING
			RETURNING id
		`
		err := q.QueryRow(txCtx, insert,
			record.ID, record.EmployeeID, record.PeriodKey, record.PeriodYear, record.PeriodMonth,
			record.Amount, status, record.Details, paidAt, now,
		).Scan(&id)
		if err == nil {
			created = true
			return nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: failed to insert payroll record: %w", payroll.ErrStorage, err)
		}

		lock := `
			SELECT ` + payrollRecordColumns + `
			FROM payroll_records pr
			JOIN employees e ON pr.employee_id = e.id
			WHERE pr.employee_id = $1 AND pr.period_key = $2
			FOR UPDATE OF pr
		`
		existing, err := scanPayrollRecord(q.QueryRow(txCtx, lock, record.EmployeeID, record.PeriodKey))
		if err != nil {
			return fmt.Errorf("%w: failed to lock payroll record: %w", payroll.ErrStorage, err)
		}

		if err := existing.ApplyRecompute(record, statusOverride, now); err != nil {
			return err
		}

		update := `
			UPDATE payroll_records
			SET amount = $1, status = $2, details = $3, paid_at = $4, updated_at = $5
			WHERE id = $6
		`
		if _, err := q.Exec(txCtx, update,
			existing.Amount, existing.Status, existing.Details, existing.PaidAt, existing.UpdatedAt, existing.ID,
		); err != nil {
			return fmt.Errorf("%w: failed to update payroll record: %w", payroll.ErrStorage, err)
		}
		id = existing.ID
		return nil
	})
	if err != nil {
		return payroll.PayrollRecord{}, false, err
	}

	rec, err := r.GetPayrollRecordByID(ctx, id)
	if err != nil {
		return payroll.PayrollRecord{}, false, err
	}
	return rec, created, nil
}

func (r *payrollRepository) GetPayrollRecordByID(ctx context.Context, id string) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payrollRecordColumns + `
		FROM payroll_records pr
		JOIN employees e ON pr.employee_id = e.id
		WHERE pr.id = $1
	`

	rec, err := scanPayrollRecord(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.PayrollRecord{}, fmt.Errorf("%w: failed to get payroll record: %w", payroll.ErrStorage, err)
	}
	return rec, nil
}

func (r *payrollRepository) GetPayrollRecordByEmployeePeriod(ctx context.Context, employeeID string, periodKey string) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payrollRecordColumns + `
		FROM payroll_records pr
		JOIN employees e ON pr.employee_id = e.id
		WHERE pr.employee_id = $1 AND pr.period_key = $2
	`

	rec, err := scanPayrollRecord(q.QueryRow(ctx, query, employeeID, periodKey))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.PayrollRecord{}, fmt.Errorf("%w: failed to get payroll record: %w", payroll.ErrStorage, err)
	}
	return rec, nil
}

// UpdatePayrollStatus validates the transition against the locked row so two
// concurrent updates cannot both leave the same state.
func (r *payrollRepository) UpdatePayrollStatus(ctx context.Context, id string, status payroll.PayrollStatus) (payroll.PayrollRecord, error) {
	if !status.IsValid() {
		return payroll.PayrollRecord{}, fmt.Errorf("%w: %q", payroll.ErrInvalidStatus, status)
	}

	err := WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		txCtx := ContextWithTx(ctx, tx)
		q := GetQuerier(txCtx, r.db)

		lock := `
			SELECT ` + payrollRecordColumns + `
			FROM payroll_records pr
			JOIN employees e ON pr.employee_id = e.id
			WHERE pr.id = $1
			FOR UPDATE OF pr
		`
		existing, err := scanPayrollRecord(q.QueryRow(txCtx, lock, id))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return payroll.ErrPayrollRecordNotFound
			}
			return fmt.Errorf("%w: failed to lock payroll record: %w", payroll.ErrStorage, err)
		}

		if err := existing.TransitionTo(status, time.Now().UTC()); err != nil {
			return err
		}

		update := `
			UPDATE payroll_records
			SET status = $1, paid_at = $2, updated_at = $3
			WHERE id = $4
		`
		if _, err := q.Exec(txCtx, update, existing.Status, existing.PaidAt, existing.UpdatedAt, existing.ID); err != nil {
			return fmt.Errorf("%w: failed to update payroll status: %w", payroll.ErrStorage, err)
		}
		return nil
	})
	if err != nil {
		return payroll.PayrollRecord{}, err
	}

	return r.GetPayrollRecordByID(ctx, id)
}

func (r *payrollRepository) ListPayrollRecords(ctx context.Context, filter payroll.PayrollFilter) ([]payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payrollRecordColumns + `
		FROM payroll_records pr
		JOIN employees e ON pr.employee_id = e.id
		WHERE 1 = 1
	`
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil {
		query += fmt.Sprintf(" AND pr.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND pr.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.PeriodKey != nil {
		query += fmt.Sprintf(" AND pr.period_key = $%d", argIdx)
		args = append(args, *filter.PeriodKey)
	}
	query += " ORDER BY pr.created_at DESC, pr.id DESC"

	rows, err := q.Query(ctx, query, args...)
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
		return nil, fmt.Errorf("%w: failed to iterate payroll records: %w", payroll.ErrStorage, err)
	}

	return records, nil
}
