// Package bootstrap wires configuration into the storage, event and service
// graph shared by the API server and payrollctl.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-payroll-go/internal/config"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/events"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/sse"
	"github.com/cmlabs-hris/hris-payroll-go/internal/repository/postgresql"
	"github.com/cmlabs-hris/hris-payroll-go/internal/repository/sqlite"
	payrollService "github.com/cmlabs-hris/hris-payroll-go/internal/service/payroll"
)

// Storage bundles the repositories of the configured driver.
type Storage struct {
	Driver     string
	Payroll    payroll.PayrollRepository
	Employee   employee.EmployeeRepository
	Attendance attendance.AttendanceRepository
	Leave      leave.LeaveRequestRepository

	// SQLite is set only for the sqlite driver; the seeder writes through it.
	SQLite *sql.DB

	close func()
}

func (s *Storage) Close() {
	if s.close != nil {
		s.close()
	}
}

// OpenStorage connects to the configured backend and makes sure its schema exists.
func OpenStorage(ctx context.Context, cfg *config.Config) (*Storage, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverPostgres:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		if err := postgresql.EnsureSchema(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to prepare postgres schema: %w", err)
		}
		return &Storage{
			Driver:     cfg.Storage.Driver,
			Payroll:    postgresql.NewPayrollRepository(db),
			Employee:   postgresql.NewEmployeeRepository(db),
			Attendance: postgresql.NewAttendanceRepository(db),
			Leave:      postgresql.NewLeaveRequestRepository(db),
			close:      db.Close,
		}, nil

	case config.StorageDriverSQLite:
		db, err := database.NewSQLiteDB(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		if err := sqlite.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to prepare sqlite schema: %w", err)
		}
		return &Storage{
			Driver:     cfg.Storage.Driver,
			Payroll:    sqlite.NewPayrollRepository(db),
			Employee:   sqlite.NewEmployeeRepository(db),
			Attendance: sqlite.NewAttendanceRepository(db),
			Leave:      sqlite.NewLeaveRequestRepository(db),
			SQLite:     db,
			close:      func() { _ = db.Close() },
		}, nil

	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
}

// NewPublisher returns the event sink for payroll changes: Kafka when brokers
// are configured, plus hub when one is given for live SSE clients.
func NewPublisher(cfg *config.Config, logger *slog.Logger, hub *sse.Hub) events.Publisher {
	var publishers []events.Publisher
	if len(cfg.Kafka.Brokers) > 0 {
		logger.Info("publishing payroll events to kafka",
			"brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.PayrollTopic)
		publishers = append(publishers, events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.PayrollTopic, cfg.Kafka.PublishTimeout))
	}
	if hub != nil {
		publishers = append(publishers, hub)
	}

	switch len(publishers) {
	case 0:
		logger.Info("no event sinks configured, payroll events are dropped")
		return events.NewNoopPublisher()
	case 1:
		return publishers[0]
	default:
		return events.NewMultiPublisher(publishers...)
	}
}

// NewPayrollService builds the payroll service over storage.
func NewPayrollService(st *Storage, publisher events.Publisher, logger *slog.Logger) payroll.PayrollService {
	return payrollService.NewPayrollService(st.Payroll, st.Employee, st.Attendance, st.Leave, publisher, logger)
}
