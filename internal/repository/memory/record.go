// Package memory provides in-memory record and staff setting stores for
// development and tests.
package memory

import (
	"context"
	"sync"

	"github.com/cmlabs-hris/practice-kpi-backend/internal/domain/report"
)

type Store struct {
	mu             sync.RWMutex
	time           []report.TimeRecord
	invoices       []report.InvoiceRecord
	wip            []report.WipRecord
	recoverability []report.RecoverabilityRecord
	settings       []report.StaffSetting
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) AddTimeRecords(rows ...report.TimeRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.time = append(s.time, rows...)
}

func (s *Store) AddInvoices(rows ...report.InvoiceRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invoices = append(s.invoices, rows...)
}

func (s *Store) AddWipRecords(rows ...report.WipRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wip = append(s.wip, rows...)
}

func (s *Store) AddRecoverabilityRecords(rows ...report.RecoverabilityRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recoverability = append(s.recoverability, rows...)
}

func (s *Store) AddStaffSettings(rows ...report.StaffSetting) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = append(s.settings, rows...)
}

// TimeRecords returns matching timesheet rows in insertion order
func (s *Store) TimeRecords(ctx context.Context, q report.RecordQuery, p report.Page) ([]report.TimeRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	filters := q.Filters.For(report.TableTimesheets)
	out := make([]report.TimeRecord, 0)
	for _, r := range s.time {
		if r.OrganizationID != q.OrganizationID || !q.Window.Contains(r.Date) {
			continue
		}
		if q.Billable != nil && r.Billable != *q.Billable {
			continue
		}
		if q.CapacityReducing != nil && r.CapacityReducing != *q.CapacityReducing {
			continue
		}
		if !filters.Match(r.Dimensions()) {
			continue
		}
		out = append(out, r)
	}
	return paginate(out, p), nil
}

func (s *Store) Invoices(ctx context.Context, q report.RecordQuery, p report.Page) ([]report.InvoiceRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	filters := q.Filters.For(report.TableInvoices)
	out := make([]report.InvoiceRecord, 0)
	for _, r := range s.invoices {
		if r.OrganizationID == q.OrganizationID && q.Window.Contains(r.Date) && filters.Match(r.Dimensions()) {
			out = append(out, r)
		}
	}
	return paginate(out, p), nil
}

// WipRecords returns every WIP row of the organization regardless of date
func (s *Store) WipRecords(ctx context.Context, organizationID string, p report.Page) ([]report.WipRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]report.WipRecord, 0)
	for _, r := range s.wip {
		if r.OrganizationID == organizationID {
			out = append(out, r)
		}
	}
	return paginate(out, p), nil
}

func (s *Store) RecoverabilityRecords(ctx context.Context, q report.RecordQuery, p report.Page) ([]report.RecoverabilityRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	filters := q.Filters.For(report.TableRecoverability)
	out := make([]report.RecoverabilityRecord, 0)
	for _, r := range s.recoverability {
		if r.OrganizationID == q.OrganizationID && q.Window.Contains(r.Date) && filters.Match(r.Dimensions()) {
			out = append(out, r)
		}
	}
	return paginate(out, p), nil
}

func (s *Store) ListByOrganization(ctx context.Context, organizationID string) ([]report.StaffSetting, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]report.StaffSetting, 0)
	for _, r := range s.settings {
		if r.OrganizationID == organizationID {
			out = append(out, r)
		}
	}
	return out, nil
}

func paginate[T any](rows []T, p report.Page) []T {
	if p.Offset >= len(rows) {
		return []T{}
	}
	end := len(rows)
	if p.Limit > 0 && p.Offset+p.Limit < end {
		end = p.Offset + p.Limit
	}
	return rows[p.Offset:end]
}
