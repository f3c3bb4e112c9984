package cron

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
)

const PayrollAutoRunJobName = "payroll_auto_run_previous_month"

// PayrollJobs commits last month's payroll for every active employee once per
// calendar month.
type PayrollJobs struct {
	payrollService payroll.PayrollService
	logger         *slog.Logger
	now            func() time.Time

	mu        sync.Mutex
	lastRunAt string
}

func NewPayrollJobs(payrollService payroll.PayrollService, logger *slog.Logger) *PayrollJobs {
	if logger == nil {
		logger = slog.Default()
	}
	return &PayrollJobs{
		payrollService: payrollService,
		logger:         logger,
		now:            time.Now,
	}
}

func (j *PayrollJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob(PayrollAutoRunJobName, interval, j.AutoRunPreviousMonth)
}

func (j *PayrollJobs) AutoRunPreviousMonth(ctx context.Context) error {
	now := j.now().UTC()
	period := payroll.NewPeriod(now.Year(), now.Month()).Previous()

	j.mu.Lock()
	if j.lastRunAt == period.Key {
		j.mu.Unlock()
		return nil
	}
	j.mu.Unlock()

	j.logger.Info("Cron: Starting payroll auto-run", "period", period.Key)

	result, err := j.payrollService.RunPeriod(ctx, period.Month.String(), period.Year)
	if err != nil {
		return fmt.Errorf("payroll auto-run for %s: %w", period.Key, err)
	}

	j.mu.Lock()
	j.lastRunAt = period.Key
	j.mu.Unlock()

	j.logger.Info("Cron: Payroll auto-run completed",
		"period", result.Period,
		"committed", result.Committed,
		"created", result.Created,
		"skipped", len(result.Skipped),
	)
	return nil
}
