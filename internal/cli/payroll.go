package cli

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/spf13/cobra"
)

type periodFlags struct {
	month string
	year  int
}

func (p *periodFlags) register(cmd *cobra.Command) {
	now := time.Now()
	cmd.Flags().StringVar(&p.month, "month", now.Month().String(), "Month name, e.g. October")
	cmd.Flags().IntVar(&p.year, "year", now.Year(), "Four-digit year")
}

func newPreviewCmd(with withEnv) *cobra.Command {
	var (
		employeeID string
		period     periodFlags
	)
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Compute an employee's payroll without storing it",
		Args:  cobra.NoArgs,
		RunE: with(func(cmd *cobra.Command, args []string, env *Env) error {
			result, err := env.Service.Preview(cmd.Context(), payroll.PreviewRequest{
				EmployeeID: employeeID,
				Month:      period.month,
				Year:       period.year,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		}),
	}
	cmd.Flags().StringVar(&employeeID, "employee", "", "Employee ID")
	period.register(cmd)
	return cmd
}

func newCommitCmd(with withEnv) *cobra.Command {
	var (
		employeeID string
		status     string
		period     periodFlags
	)
	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Compute and store an employee's payroll record",
		Args:  cobra.NoArgs,
		RunE: with(func(cmd *cobra.Command, args []string, env *Env) error {
			result, created, err := env.Service.Commit(cmd.Context(), payroll.CommitRequest{
				EmployeeID: employeeID,
				Month:      period.month,
				Year:       period.year,
				Status:     optional(status),
			})
			if err != nil {
				return err
			}
			verb := "updated"
			if created {
				verb = "created"
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "payroll record %s %s\n", result.ID, verb)
			return printJSON(cmd.OutOrStdout(), result)
		}),
	}
	cmd.Flags().StringVar(&employeeID, "employee", "", "Employee ID")
	cmd.Flags().StringVar(&status, "status", "", "Status to set: Pending, Processing or Paid")
	period.register(cmd)
	return cmd
}

func newRunCmd(with withEnv) *cobra.Command {
	var period periodFlags
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Commit the period for every active employee",
		Args:  cobra.NoArgs,
		RunE: with(func(cmd *cobra.Command, args []string, env *Env) error {
			result, err := env.Service.RunPeriod(cmd.Context(), period.month, period.year)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		}),
	}
	period.register(cmd)
	return cmd
}

func newStatusCmd(with withEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "status <record-id> <Pending|Processing|Paid>",
		Short: "Move a payroll record to a later status",
		Args:  cobra.ExactArgs(2),
		RunE: with(func(cmd *cobra.Command, args []string, env *Env) error {
			result, err := env.Service.UpdateStatus(cmd.Context(), payroll.UpdateStatusRequest{
				ID:     args[0],
				Status: args[1],
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		}),
	}
}
