package postgresql

import (
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/practice-kpi-backend/internal/domain/report"
	"github.com/cmlabs-hris/practice-kpi-backend/internal/pkg/fiscal"
	"github.com/stretchr/testify/assert"
)

func TestWhereBuilder_Filters(t *testing.T) {
	where := newWhere("org-1")
	where.filters(report.TableTimesheets, report.FilterSet{
		{Type: report.FilterClientGroup, Value: "Acme"},
		{Type: report.FilterJobName, Operator: report.OperatorContains, Value: "audit"},
		{Type: report.FilterJobName, Operator: report.OperatorNotContains, Value: "100%_done"},
		{Type: report.FilterAccountManager, Value: "all"},
	})

	assert.Equal(t,
		"organization_id = $1 AND client_group = $2 AND job_name ILIKE $3 AND (job_name IS NULL OR job_name NOT ILIKE $4)",
		where.String(),
	)
	assert.Equal(t, []interface{}{"org-1", "Acme", "%audit%", `%100\%\_done%`}, where.args)
}

func TestWhereBuilder_DropsUnsupportedFilters(t *testing.T) {
	where := newWhere("org-1")
	where.filters(report.TableInvoices, report.FilterSet{
		{Type: report.FilterStaff, Value: "A"},
		{Type: report.FilterJobName, Operator: report.OperatorContains, Value: "audit"},
		{Type: report.FilterJobManager, Value: "Kim"},
	})

	assert.Equal(t, "organization_id = $1 AND job_manager = $2", where.String())
	assert.Equal(t, []interface{}{"org-1", "Kim"}, where.args)
}

func TestTimeRecordsQuery(t *testing.T) {
	yes := true
	q := report.RecordQuery{
		OrganizationID: "org-1",
		Window:         fiscal.YearWindow(2024),
		Billable:       &yes,
		Filters:        report.FilterSet{{Type: report.FilterStaff, Value: "A"}},
	}

	query, args := timeRecordsQuery(q, report.Page{Offset: 2000, Limit: 1000})

	assert.Contains(t, query, "FROM timesheets")
	assert.Contains(t, query, "organization_id = $1 AND date >= $2 AND date <= $3 AND billable = $4 AND staff_name = $5")
	assert.Contains(t, query, "LIMIT $6 OFFSET $7")
	assert.NotContains(t, query, "capacity_reducing = ")
	assert.Equal(t, []interface{}{
		"org-1",
		time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC),
		true,
		"A",
		1000,
		2000,
	}, args)
}

func TestWipQuery_HasNoWindow(t *testing.T) {
	query, args := wipQuery("org-1", report.Page{Limit: 50})

	assert.False(t, strings.Contains(query, "date >="))
	assert.Contains(t, query, "organization_id = $1")
	assert.Contains(t, query, "LIMIT $2 OFFSET $3")
	assert.Equal(t, []interface{}{"org-1", 50, 0}, args)
}

func TestRecoverabilityQuery_StaffOnly(t *testing.T) {
	q := report.RecordQuery{
		OrganizationID: "org-1",
		Window:         fiscal.YearWindow(2023),
		Filters: report.FilterSet{
			{Type: report.FilterClientGroup, Value: "Acme"},
			{Type: report.FilterStaff, Value: "B"},
		},
	}

	query, args := recoverabilityQuery(q, report.Page{Limit: 10})

	assert.Contains(t, query, "staff_name = $4")
	assert.NotContains(t, query, "client_group")
	assert.Len(t, args, 6)
}

func TestRawValue(t *testing.T) {
	s := "12.50"
	assert.Equal(t, "12.50", rawValue(&s))
	assert.Nil(t, rawValue(nil))
}
