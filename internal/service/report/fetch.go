package report

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/practice-kpi-backend/internal/domain/report"
	"github.com/cmlabs-hris/practice-kpi-backend/internal/pkg/fiscal"
	"github.com/cmlabs-hris/practice-kpi-backend/internal/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

// DefaultPageSize is used when the configured page size is not positive
const DefaultPageSize = 1000

// fetchAll pages through one table sequentially until a short page
func fetchAll[T any](ctx context.Context, table report.Table, pageSize int, fetch func(context.Context, report.Page) ([]T, error)) ([]T, error) {
	var all []T
	for offset := 0; ; offset += pageSize {
		start := time.Now()
		page, err := fetch(ctx, report.Page{Offset: offset, Limit: pageSize})
		metrics.ObservePage(string(table), start, len(page), err)
		if err != nil {
			return nil, fmt.Errorf("fetch %s at offset %d: %w", table, offset, err)
		}
		all = append(all, page...)
		if len(page) < pageSize {
			return all, nil
		}
	}
}

// fetchWindows schedules one fetch per window on g
func fetchWindows[T any](g *errgroup.Group, ctx context.Context, w fiscal.Windows, fetch func(context.Context, fiscal.Window) ([]T, error), current, last *[]T) {
	g.Go(func() error {
		rows, err := fetch(ctx, w.Current)
		*current = rows
		return err
	})
	g.Go(func() error {
		rows, err := fetch(ctx, w.Last)
		*last = rows
		return err
	})
}

func boolPtr(b bool) *bool { return &b }

// billableTime reads billable timesheet rows under the given filters
func (s *ReportServiceImpl) billableTime(organizationID string, filters report.FilterSet) func(context.Context, fiscal.Window) ([]report.TimeRecord, error) {
	return func(ctx context.Context, w fiscal.Window) ([]report.TimeRecord, error) {
		q := report.RecordQuery{OrganizationID: organizationID, Window: w, Filters: filters, Billable: boolPtr(true)}
		return fetchAll(ctx, report.TableTimesheets, s.pageSize, func(ctx context.Context, p report.Page) ([]report.TimeRecord, error) {
			return s.source.TimeRecords(ctx, q, p)
		})
	}
}

// capacityTime reads capacity-reducing timesheet rows. Only the staff filter applies.
func (s *ReportServiceImpl) capacityTime(organizationID string, filters report.FilterSet) func(context.Context, fiscal.Window) ([]report.TimeRecord, error) {
	staffOnly := filters.Only(report.FilterStaff)
	return func(ctx context.Context, w fiscal.Window) ([]report.TimeRecord, error) {
		q := report.RecordQuery{OrganizationID: organizationID, Window: w, Filters: staffOnly, CapacityReducing: boolPtr(true)}
		return fetchAll(ctx, report.TableTimesheets, s.pageSize, func(ctx context.Context, p report.Page) ([]report.TimeRecord, error) {
			return s.source.TimeRecords(ctx, q, p)
		})
	}
}

func (s *ReportServiceImpl) invoices(organizationID string, filters report.FilterSet) func(context.Context, fiscal.Window) ([]report.InvoiceRecord, error) {
	return func(ctx context.Context, w fiscal.Window) ([]report.InvoiceRecord, error) {
		q := report.RecordQuery{OrganizationID: organizationID, Window: w, Filters: filters}
		return fetchAll(ctx, report.TableInvoices, s.pageSize, func(ctx context.Context, p report.Page) ([]report.InvoiceRecord, error) {
			return s.source.Invoices(ctx, q, p)
		})
	}
}

func (s *ReportServiceImpl) recoverability(organizationID string, filters report.FilterSet) func(context.Context, fiscal.Window) ([]report.RecoverabilityRecord, error) {
	return func(ctx context.Context, w fiscal.Window) ([]report.RecoverabilityRecord, error) {
		q := report.RecordQuery{OrganizationID: organizationID, Window: w, Filters: filters}
		return fetchAll(ctx, report.TableRecoverability, s.pageSize, func(ctx context.Context, p report.Page) ([]report.RecoverabilityRecord, error) {
			return s.source.RecoverabilityRecords(ctx, q, p)
		})
	}
}

func (s *ReportServiceImpl) wip(ctx context.Context, organizationID string) ([]report.WipRecord, error) {
	return fetchAll(ctx, report.TableWip, s.pageSize, func(ctx context.Context, p report.Page) ([]report.WipRecord, error) {
		return s.source.WipRecords(ctx, organizationID, p)
	})
}
