package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-payroll-go/internal/repository/postgresql"
)

// TestDatabaseSetup holds the shared integration database.
type TestDatabaseSetup struct {
	DB *database.DB
}

var (
	testSetup     *TestDatabaseSetup
	testSetupErr  error
	testSetupOnce sync.Once
)

// NewTestDatabase connects to TEST_DATABASE_URL and makes sure the payroll schema exists.
func NewTestDatabase() (*TestDatabaseSetup, error) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		return nil, fmt.Errorf("TEST_DATABASE_URL is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.NewPostgreSQLDB(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to test database: %w", err)
	}
	if err := postgresql.EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &TestDatabaseSetup{DB: db}, nil
}

// requireDatabase skips the test when no integration database is configured
// and returns a freshly truncated database otherwise.
func requireDatabase(t *testing.T) *database.DB {
	t.Helper()
	testSetupOnce.Do(func() {
		testSetup, testSetupErr = NewTestDatabase()
	})
	if testSetupErr != nil {
		t.Skipf("integration database unavailable: %v", testSetupErr)
	}
	if err := testSetup.TruncateAllTables(context.Background()); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
	return testSetup.DB
}

// TruncateAllTables removes every row the payroll tests may have written.
func (t *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tx, err := t.DB.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tables := []string{
		"payroll_records",
		"leave_requests",
		"attendances",
		"employees",
	}

	for _, table := range tables {
		_, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}

func (t *TestDatabaseSetup) Close() {
	t.DB.Close()
}
