package memory

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/practice-kpi-backend/internal/domain/report"
	"github.com/cmlabs-hris/practice-kpi-backend/internal/pkg/fiscal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const org = "org-1"

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func seed() *Store {
	s := NewStore()
	s.AddTimeRecords(
		report.TimeRecord{OrganizationID: org, StaffName: "A", Date: time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC), Time: 112, Billable: true, ClientGroup: strPtr("Acme"), JobName: strPtr("Audit 2024")},
		report.TimeRecord{OrganizationID: org, StaffName: "A", Date: time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC), Time: 30, Billable: true, ClientGroup: strPtr("Beta")},
		report.TimeRecord{OrganizationID: org, StaffName: "B", Date: time.Date(2024, 8, 2, 0, 0, 0, 0, time.UTC), Time: 800, CapacityReducing: true},
		report.TimeRecord{OrganizationID: "other", StaffName: "C", Date: time.Date(2024, 8, 2, 0, 0, 0, 0, time.UTC), Time: 100, Billable: true},
		report.TimeRecord{OrganizationID: org, StaffName: "A", Date: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), Time: 100, Billable: true},
	)
	return s
}

func TestTimeRecords_WindowAndOrganization(t *testing.T) {
	s := seed()
	q := report.RecordQuery{OrganizationID: org, Window: fiscal.YearWindow(2024)}

	rows, err := s.TimeRecords(context.Background(), q, report.Page{Limit: 100})
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestTimeRecords_Flags(t *testing.T) {
	s := seed()
	q := report.RecordQuery{OrganizationID: org, Window: fiscal.YearWindow(2024), CapacityReducing: boolPtr(true)}

	rows, err := s.TimeRecords(context.Background(), q, report.Page{Limit: 100})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "B", rows[0].StaffName)

	q = report.RecordQuery{OrganizationID: org, Window: fiscal.YearWindow(2024), Billable: boolPtr(true)}
	rows, err = s.TimeRecords(context.Background(), q, report.Page{Limit: 100})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestTimeRecords_NotContainsKeepsNullJobName(t *testing.T) {
	s := seed()
	q := report.RecordQuery{
		OrganizationID: org,
		Window:         fiscal.YearWindow(2024),
		Billable:       boolPtr(true),
		Filters:        report.FilterSet{{Type: report.FilterJobName, Operator: report.OperatorNotContains, Value: "audit"}},
	}

	rows, err := s.TimeRecords(context.Background(), q, report.Page{Limit: 100})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Beta", *rows[0].ClientGroup)
}

func TestTimeRecords_Pagination(t *testing.T) {
	s := seed()
	q := report.RecordQuery{OrganizationID: org, Window: fiscal.YearWindow(2024)}

	first, err := s.TimeRecords(context.Background(), q, report.Page{Offset: 0, Limit: 2})
	require.NoError(t, err)
	second, err := s.TimeRecords(context.Background(), q, report.Page{Offset: 2, Limit: 2})
	require.NoError(t, err)
	third, err := s.TimeRecords(context.Background(), q, report.Page{Offset: 4, Limit: 2})
	require.NoError(t, err)

	assert.Len(t, first, 2)
	assert.Len(t, second, 1)
	assert.Empty(t, third)
}

func TestInvoices_IgnoresUnsupportedFilters(t *testing.T) {
	s := NewStore()
	s.AddInvoices(report.InvoiceRecord{OrganizationID: org, Date: time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC), Amount: "100", ClientGroup: strPtr("Acme")})

	q := report.RecordQuery{
		OrganizationID: org,
		Window:         fiscal.YearWindow(2024),
		Filters:        report.FilterSet{{Type: report.FilterStaff, Value: "A"}, {Type: report.FilterClientGroup, Value: "Acme"}},
	}
	rows, err := s.Invoices(context.Background(), q, report.Page{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestWipRecords_IgnoresDates(t *testing.T) {
	s := NewStore()
	s.AddWipRecords(
		report.WipRecord{OrganizationID: org, Date: time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC), BillableAmount: 10.0},
		report.WipRecord{OrganizationID: org, BillableAmount: 5.0},
	)
	rows, err := s.WipRecords(context.Background(), org, report.Page{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := seed().TimeRecords(ctx, report.RecordQuery{OrganizationID: org}, report.Page{Limit: 10})
	assert.ErrorIs(t, err, context.Canceled)
}
