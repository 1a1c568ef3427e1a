package report

import "time"

// TimeRecord is one logged unit of work. Time and BillableAmount hold the raw
// stored value (number, numeric string or nil); they are coerced during
// aggregation.
type TimeRecord struct {
	OrganizationID   string
	StaffName        string
	Date             time.Time
	Time             any
	BillableAmount   any
	Billable         bool
	CapacityReducing bool
	ClientGroup      *string
	AccountManager   *string
	JobManager       *string
	JobName          *string
}

// InvoiceRecord is one billed invoice line
type InvoiceRecord struct {
	OrganizationID string
	Date           time.Time
	Amount         any
	ClientGroup    *string
	AccountManager *string
	JobManager     *string
}

// WipRecord is unbilled work in progress
type WipRecord struct {
	OrganizationID string
	Date           time.Time
	BillableAmount any
}

// RecoverabilityRecord compares write-on/off with invoiced value for a staff member.
// WriteOnAmount is signed.
type RecoverabilityRecord struct {
	OrganizationID string
	StaffName      string
	Date           time.Time
	WriteOnAmount  any
	InvoicedAmount any
}

// StaffSetting is a staff member's working pattern and reporting configuration
type StaffSetting struct {
	OrganizationID           string
	StaffName                string
	DefaultDailyHours        *float64
	FTE                      *float64
	TargetBillablePercentage *float64
	StartDate                *time.Time
	EndDate                  *time.Time
	IsHidden                 bool
	Report                   *bool
}

const (
	DefaultDailyHours = 8.0
	DefaultFTE        = 1.0
)

// DailyHours returns the configured daily hours, or the default when unset or out of range
func (s StaffSetting) DailyHours() float64 {
	if s.DefaultDailyHours == nil || *s.DefaultDailyHours <= 0 || *s.DefaultDailyHours > 24 {
		return DefaultDailyHours
	}
	return *s.DefaultDailyHours
}

// FTEFraction returns the configured FTE clamped to [0,1], or 1.0 when unset
func (s StaffSetting) FTEFraction() float64 {
	if s.FTE == nil {
		return DefaultFTE
	}
	switch {
	case *s.FTE < 0:
		return 0
	case *s.FTE > 1:
		return 1
	}
	return *s.FTE
}

// Reportable is true unless the staff member is hidden or explicitly excluded from rollups
func (s StaffSetting) Reportable() bool {
	if s.IsHidden {
		return false
	}
	return s.Report == nil || *s.Report
}
