package report

import (
	"context"

	"github.com/cmlabs-hris/practice-kpi-backend/internal/pkg/fiscal"
)

// Page is an offset/limit slice of a full scan
type Page struct {
	Offset int
	Limit  int
}

// RecordQuery selects rows of one organization inside an inclusive window.
// Implementations apply only the filters the table supports (see Table.Supports).
type RecordQuery struct {
	OrganizationID   string
	Window           fiscal.Window
	Filters          FilterSet
	Billable         *bool
	CapacityReducing *bool
}

// RecordSource is paginated read access to the raw record tables. A page
// shorter than the requested limit signals the end of the scan.
type RecordSource interface {
	TimeRecords(ctx context.Context, q RecordQuery, p Page) ([]TimeRecord, error)
	Invoices(ctx context.Context, q RecordQuery, p Page) ([]InvoiceRecord, error)
	WipRecords(ctx context.Context, organizationID string, p Page) ([]WipRecord, error)
	RecoverabilityRecords(ctx context.Context, q RecordQuery, p Page) ([]RecoverabilityRecord, error)
}

// StaffSettingRepository reads staff working-pattern settings
type StaffSettingRepository interface {
	ListByOrganization(ctx context.Context, organizationID string) ([]StaffSetting, error)
}
