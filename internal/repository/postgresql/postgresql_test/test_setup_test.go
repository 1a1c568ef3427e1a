package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/cmlabs-hris/practice-kpi-backend/internal/pkg/database"
)

const schema = `
CREATE TABLE IF NOT EXISTS timesheets (
	id BIGSERIAL PRIMARY KEY,
	organization_id UUID NOT NULL,
	staff_name TEXT,
	date DATE NOT NULL,
	time NUMERIC,
	billable_amount NUMERIC,
	billable BOOLEAN NOT NULL DEFAULT FALSE,
	capacity_reducing BOOLEAN NOT NULL DEFAULT FALSE,
	client_group TEXT,
	account_manager TEXT,
	job_manager TEXT,
	job_name TEXT
);
CREATE TABLE IF NOT EXISTS invoices (
	id BIGSERIAL PRIMARY KEY,
	organization_id UUID NOT NULL,
	date DATE NOT NULL,
	amount NUMERIC,
	client_group TEXT,
	account_manager TEXT,
	job_manager TEXT
);
CREATE TABLE IF NOT EXISTS wip (
	id BIGSERIAL PRIMARY KEY,
	organization_id UUID NOT NULL,
	date DATE,
	billable_amount NUMERIC
);
CREATE TABLE IF NOT EXISTS recoverability (
	id BIGSERIAL PRIMARY KEY,
	organization_id UUID NOT NULL,
	staff_name TEXT,
	date DATE NOT NULL,
	write_on_amount NUMERIC,
	invoiced_amount NUMERIC
);
CREATE TABLE IF NOT EXISTS staff_settings (
	organization_id UUID NOT NULL,
	staff_name TEXT NOT NULL,
	default_daily_hours NUMERIC,
	fte NUMERIC,
	target_billable_percentage NUMERIC,
	start_date DATE,
	end_date DATE,
	is_hidden BOOLEAN NOT NULL DEFAULT FALSE,
	report BOOLEAN,
	PRIMARY KEY (organization_id, staff_name)
);
`

var tables = []string{"timesheets", "invoices", "wip", "recoverability", "staff_settings"}

// TestDatabaseSetup holds the connection to the integration test database
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL and creates the schema. The
// test is skipped when no database is configured.
func NewTestDatabase(t *testing.T) *TestDatabaseSetup {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}
	setup := &TestDatabaseSetup{DB: db}

	if _, err := db.Exec(context.Background(), schema); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
	if err := setup.TruncateAllTables(context.Background()); err != nil {
		t.Fatalf("%v", err)
	}
	t.Cleanup(setup.Close)
	return setup
}

// TruncateAllTables removes every row from the report tables
func (t *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	if _, err := t.DB.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s", strings.Join(tables, ", "))); err != nil {
		return fmt.Errorf("failed to truncate tables: %w", err)
	}
	return nil
}

func (t *TestDatabaseSetup) Close() {
	t.DB.Close()
}
