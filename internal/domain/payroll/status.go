package payroll

import (
	"fmt"
	"time"
)

var statusOrder = map[PayrollStatus]int{
	PayrollStatusPending:    0,
	PayrollStatusProcessing: 1,
	PayrollStatusPaid:       2,
}

func (s PayrollStatus) IsValid() bool {
	_, ok := statusOrder[s]
	return ok
}

func (s PayrollStatus) IsTerminal() bool {
	return s == PayrollStatusPaid
}

// ParseStatus accepts exactly one of Pending, Processing or Paid.
func ParseStatus(s string) (PayrollStatus, error) {
	status := PayrollStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return status, nil
}

// ValidateTransition allows only forward moves along Pending -> Processing -> Paid.
// Paid is terminal and a move to the current status is not a transition.
func ValidateTransition(from, to PayrollStatus) error {
	if !to.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, to)
	}
	if from.IsTerminal() {
		return fmt.Errorf("%w: record is already %s", ErrInvalidTransition, from)
	}
	if statusOrder[to] <= statusOrder[from] {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

// TransitionTo moves the record to status, stamping PaidAt on entering Paid.
func (r *PayrollRecord) TransitionTo(status PayrollStatus, now time.Time) error {
	if err := ValidateTransition(r.Status, status); err != nil {
		return err
	}
	r.Status = status
	if status == PayrollStatusPaid {
		paidAt := now
		r.PaidAt = &paidAt
	}
	r.UpdatedAt = now
	return nil
}

// ApplyRecompute overwrites amount and details from a fresh calculation. The
// status only changes when override names a different, reachable status.
func (r *PayrollRecord) ApplyRecompute(computed PayrollRecord, override *PayrollStatus, now time.Time) error {
	if r.Status.IsTerminal() {
		return ErrPayrollRecordAlreadyPaid
	}
	if override != nil && *override != r.Status {
		if err := r.TransitionTo(*override, now); err != nil {
			return err
		}
	}
	r.Amount = computed.Amount
	r.Details = computed.Details
	r.UpdatedAt = now
	return nil
}

// InitialStatus is the status of a newly created record.
func InitialStatus(override *PayrollStatus) PayrollStatus {
	if override != nil {
		return *override
	}
	return PayrollStatusPending
}
