package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/spf13/cobra"
)

type filterFlags struct {
	employeeID string
	status     string
	period     string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.employeeID, "employee", "", "Only records of this employee")
	cmd.Flags().StringVar(&f.status, "status", "", "Only records with this status")
	cmd.Flags().StringVar(&f.period, "period", "", `Only records of this period, e.g. "October 2025"`)
}

func (f *filterFlags) filter() payroll.PayrollFilter {
	return payroll.PayrollFilter{
		EmployeeID: optional(f.employeeID),
		Status:     optional(f.status),
		PeriodKey:  optional(f.period),
	}
}

func newListCmd(with withEnv) *cobra.Command {
	var (
		filters filterFlags
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List payroll records, newest first",
		Args:  cobra.NoArgs,
		RunE: with(func(cmd *cobra.Command, args []string, env *Env) error {
			records, err := env.Service.ListRecords(cmd.Context(), filters.filter())
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), records)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tEMPLOYEE\tPERIOD\tDAYS\tAMOUNT\tSTATUS")
			for _, r := range records {
				name := r.EmployeeID
				if r.EmployeeName != nil {
					name = *r.EmployeeName
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
					r.ID, name, r.Period, r.Details.TotalPayableDays, r.Amount.StringFixed(0), r.Status)
			}
			return tw.Flush()
		}),
	}
	filters.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}

func newSummaryCmd(with withEnv) *cobra.Command {
	var filters filterFlags
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Count and total payroll records per status",
		Args:  cobra.NoArgs,
		RunE: with(func(cmd *cobra.Command, args []string, env *Env) error {
			summary, err := env.Service.Summary(cmd.Context(), filters.filter())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), summary)
		}),
	}
	filters.register(cmd)
	return cmd
}

func newExportCmd(with withEnv) *cobra.Command {
	var (
		filters filterFlags
		out     string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write payroll records to an .xlsx register",
		Args:  cobra.NoArgs,
		RunE: with(func(cmd *cobra.Command, args []string, env *Env) error {
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := env.Service.ExportRecords(cmd.Context(), filters.filter(), f); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return nil
		}),
	}
	filters.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "payroll-register.xlsx", "Output file")
	return cmd
}

func newPayslipCmd(with withEnv) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "payslip <record-id>",
		Short: "Render a payroll record as a PDF payslip",
		Args:  cobra.ExactArgs(1),
		RunE: with(func(cmd *cobra.Command, args []string, env *Env) error {
			data, name, err := env.Service.Payslip(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if out == "" {
				out = name
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (defaults to the payslip name)")
	return cmd
}
