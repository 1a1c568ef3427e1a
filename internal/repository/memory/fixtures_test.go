package memory

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/practice-kpi-backend/internal/domain/report"
	"github.com/cmlabs-hris/practice-kpi-backend/internal/pkg/fiscal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureJSON = `{
	"time_records": [
		{"organization_id": "org-1", "staff_name": "A", "date": "2024-07-15", "time": 112, "billable_amount": "300.50", "billable": true, "client_group": "Acme"},
		{"organization_id": "org-1", "staff_name": "A", "date": "2024-07-16", "time": 800, "capacity_reducing": true}
	],
	"invoices": [{"organization_id": "org-1", "date": "2024-08-01", "amount": 250, "client_group": "Acme"}],
	"wip": [{"organization_id": "org-1", "date": null, "billable_amount": 40}],
	"recoverability": [{"organization_id": "org-1", "staff_name": "A", "date": "2024-08-01", "write_on_amount": -10, "invoiced_amount": 100}],
	"staff_settings": [{"organization_id": "org-1", "staff_name": "A", "fte": 0.5, "start_date": "2024-07-08", "report": false}]
}`

func TestLoadFixtures(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.LoadFixtures(strings.NewReader(fixtureJSON)))
	ctx := context.Background()
	q := report.RecordQuery{OrganizationID: "org-1", Window: fiscal.YearWindow(2024)}

	rows, err := s.TimeRecords(ctx, report.RecordQuery{OrganizationID: "org-1", Window: fiscal.YearWindow(2024), Billable: boolPtr(true)}, report.Page{Limit: 10})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC), rows[0].Date)
	assert.Equal(t, 112.0, rows[0].Time)
	assert.Equal(t, "300.50", rows[0].BillableAmount)
	assert.Equal(t, "Acme", *rows[0].ClientGroup)
	assert.Nil(t, rows[0].JobName)

	invoices, err := s.Invoices(ctx, q, report.Page{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, invoices, 1)

	wip, err := s.WipRecords(ctx, "org-1", report.Page{Limit: 10})
	require.NoError(t, err)
	require.Len(t, wip, 1)
	assert.True(t, wip[0].Date.IsZero())

	rec, err := s.RecoverabilityRecords(ctx, q, report.Page{Limit: 10})
	require.NoError(t, err)
	require.Len(t, rec, 1)
	assert.Equal(t, -10.0, rec[0].WriteOnAmount)

	settings, err := s.ListByOrganization(ctx, "org-1")
	require.NoError(t, err)
	require.Len(t, settings, 1)
	assert.Equal(t, 0.5, settings[0].FTEFraction())
	require.NotNil(t, settings[0].StartDate)
	assert.Equal(t, time.Date(2024, 7, 8, 0, 0, 0, 0, time.UTC), *settings[0].StartDate)
	assert.Nil(t, settings[0].EndDate)
	assert.False(t, settings[0].Reportable())
}

func TestLoadFixtures_RejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"bad date":      `{"time_records": [{"date": "15/07/2024"}]}`,
		"unknown field": `{"timesheets": []}`,
		"not json":      `time_records`,
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			s := NewStore()
			assert.ErrorContains(t, s.LoadFixtures(strings.NewReader(input)), "failed to decode fixtures")
		})
	}
}

func TestLoadFixturesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixtures.json")
	require.NoError(t, os.WriteFile(path, []byte(fixtureJSON), 0o600))

	s := NewStore()
	require.NoError(t, s.LoadFixturesFile(path))
	settings, err := s.ListByOrganization(context.Background(), "org-1")
	require.NoError(t, err)
	assert.Len(t, settings, 1)

	assert.ErrorContains(t, NewStore().LoadFixturesFile(filepath.Join(t.TempDir(), "missing.json")), "failed to open fixtures")
}
