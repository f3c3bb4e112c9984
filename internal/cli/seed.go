package cli

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/repository/sqlite"
	"github.com/spf13/cobra"
)

var errSeedRequiresSQLite = errors.New("seed only works against the sqlite driver")

func newSeedCmd(with withEnv) *cobra.Command {
	var (
		period  periodFlags
		seed    int64
		fullRun bool
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill the SQLite store with sample employees, attendance and leave",
		Long: `seed clears attendance, leave and payroll rows, creates five sample
employees when the store has none, and generates weekday attendance and a few
leave requests for the given month. Use --run to commit the month afterwards.`,
		Args: cobra.NoArgs,
		RunE: with(func(cmd *cobra.Command, args []string, env *Env) error {
			if env.Storage == nil || env.Storage.SQLite == nil {
				return errSeedRequiresSQLite
			}
			p, err := payroll.ResolvePeriod(period.month, period.year)
			if err != nil {
				return err
			}
			if seed == 0 {
				seed = time.Now().UnixNano()
			}

			result, err := sqlite.NewSeeder(env.Storage.SQLite).SeedSample(cmd.Context(), p, time.Now(), rand.New(rand.NewSource(seed)))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %s: %d employees, %d attendance entries, %d leave requests\n",
				p.Key, result.Employees, result.Attendances, result.LeaveRequests)

			if !fullRun {
				return nil
			}
			run, err := env.Service.RunPeriod(cmd.Context(), p.Month.String(), p.Year)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), run)
		}),
	}
	period.register(cmd)
	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed (defaults to the current time)")
	cmd.Flags().BoolVar(&fullRun, "run", false, "Commit payroll for every employee after seeding")
	return cmd
}
