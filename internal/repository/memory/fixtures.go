package memory

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cmlabs-hris/practice-kpi-backend/internal/domain/report"
	"github.com/cmlabs-hris/practice-kpi-backend/internal/pkg/fiscal"
)

// fixtures is the JSON layout accepted by LoadFixtures. Dates are YYYY-MM-DD;
// time and amount fields keep their stored form (number, numeric string or null).
type fixtures struct {
	TimeRecords    []timeFixture           `json:"time_records"`
	Invoices       []invoiceFixture        `json:"invoices"`
	Wip            []wipFixture            `json:"wip"`
	Recoverability []recoverabilityFixture `json:"recoverability"`
	StaffSettings  []staffSettingFixture   `json:"staff_settings"`
}

type fixtureDate struct{ time.Time }

func (d *fixtureDate) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	t, err := time.Parse(fiscal.DateLayout, s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func (d *fixtureDate) ptr() *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	return &d.Time
}

type timeFixture struct {
	OrganizationID   string      `json:"organization_id"`
	StaffName        string      `json:"staff_name"`
	Date             fixtureDate `json:"date"`
	Time             any         `json:"time"`
	BillableAmount   any         `json:"billable_amount"`
	Billable         bool        `json:"billable"`
	CapacityReducing bool        `json:"capacity_reducing"`
	ClientGroup      *string     `json:"client_group"`
	AccountManager   *string     `json:"account_manager"`
	JobManager       *string     `json:"job_manager"`
	JobName          *string     `json:"job_name"`
}

type invoiceFixture struct {
	OrganizationID string      `json:"organization_id"`
	Date           fixtureDate `json:"date"`
	Amount         any         `json:"amount"`
	ClientGroup    *string     `json:"client_group"`
	AccountManager *string     `json:"account_manager"`
	JobManager     *string     `json:"job_manager"`
}

type wipFixture struct {
	OrganizationID string      `json:"organization_id"`
	Date           fixtureDate `json:"date"`
	BillableAmount any         `json:"billable_amount"`
}

type recoverabilityFixture struct {
	OrganizationID string      `json:"organization_id"`
	StaffName      string      `json:"staff_name"`
	Date           fixtureDate `json:"date"`
	WriteOnAmount  any         `json:"write_on_amount"`
	InvoicedAmount any         `json:"invoiced_amount"`
}

type staffSettingFixture struct {
	OrganizationID           string       `json:"organization_id"`
	StaffName                string       `json:"staff_name"`
	DefaultDailyHours        *float64     `json:"default_daily_hours"`
	FTE                      *float64     `json:"fte"`
	TargetBillablePercentage *float64     `json:"target_billable_percentage"`
	StartDate                *fixtureDate `json:"start_date"`
	EndDate                  *fixtureDate `json:"end_date"`
	IsHidden                 bool         `json:"is_hidden"`
	Report                   *bool        `json:"report"`
}

// LoadFixtures decodes fixtures from r and appends them to the store
func (s *Store) LoadFixtures(r io.Reader) error {
	var fx fixtures
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&fx); err != nil {
		return fmt.Errorf("failed to decode fixtures: %w", err)
	}

	for _, f := range fx.TimeRecords {
		s.AddTimeRecords(report.TimeRecord{
			OrganizationID:   f.OrganizationID,
			StaffName:        f.StaffName,
			Date:             f.Date.Time,
			Time:             f.Time,
			BillableAmount:   f.BillableAmount,
			Billable:         f.Billable,
			CapacityReducing: f.CapacityReducing,
			ClientGroup:      f.ClientGroup,
			AccountManager:   f.AccountManager,
			JobManager:       f.JobManager,
			JobName:          f.JobName,
		})
	}
	for _, f := range fx.Invoices {
		s.AddInvoices(report.InvoiceRecord{
			OrganizationID: f.OrganizationID,
			Date:           f.Date.Time,
			Amount:         f.Amount,
			ClientGroup:    f.ClientGroup,
			AccountManager: f.AccountManager,
			JobManager:     f.JobManager,
		})
	}
	for _, f := range fx.Wip {
		s.AddWipRecords(report.WipRecord{OrganizationID: f.OrganizationID, Date: f.Date.Time, BillableAmount: f.BillableAmount})
	}
	for _, f := range fx.Recoverability {
		s.AddRecoverabilityRecords(report.RecoverabilityRecord{
			OrganizationID: f.OrganizationID,
			StaffName:      f.StaffName,
			Date:           f.Date.Time,
			WriteOnAmount:  f.WriteOnAmount,
			InvoicedAmount: f.InvoicedAmount,
		})
	}
	for _, f := range fx.StaffSettings {
		s.AddStaffSettings(report.StaffSetting{
			OrganizationID:           f.OrganizationID,
			StaffName:                f.StaffName,
			DefaultDailyHours:        f.DefaultDailyHours,
			FTE:                      f.FTE,
			TargetBillablePercentage: f.TargetBillablePercentage,
			StartDate:                f.StartDate.ptr(),
			EndDate:                  f.EndDate.ptr(),
			IsHidden:                 f.IsHidden,
			Report:                   f.Report,
		})
	}
	return nil
}

// LoadFixturesFile seeds the store from a JSON file on disk
func (s *Store) LoadFixturesFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open fixtures: %w", err)
	}
	defer file.Close()
	return s.LoadFixtures(file)
}
