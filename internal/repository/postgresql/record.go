package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/practice-kpi-backend/internal/domain/report"
	"github.com/cmlabs-hris/practice-kpi-backend/internal/pkg/database"
)

type recordRepositoryImpl struct {
	db *database.DB
}

// NewRecordRepository returns a RecordSource over the timesheets, invoices,
// wip and recoverability tables. Numeric columns are read as text and coerced
// during aggregation.
func NewRecordRepository(db *database.DB) report.RecordSource {
	return &recordRepositoryImpl{db: db}
}

func timeRecordsQuery(q report.RecordQuery, p report.Page) (string, []interface{}) {
	where := newWhere(q.OrganizationID)
	where.window(q.Window)
	where.flag("billable", q.Billable)
	where.flag("capacity_reducing", q.CapacityReducing)
	where.filters(report.TableTimesheets, q.Filters)
	limit := where.page(p)

	query := fmt.Sprintf(`
		SELECT
			organization_id, COALESCE(staff_name, ''), date, time::text, billable_amount::text,
			billable, capacity_reducing, client_group, account_manager, job_manager, job_name
		FROM timesheets
		WHERE %s
		ORDER BY date, id
		%s
	`, where.String(), limit)
	return query, where.args
}

// TimeRecords implements report.RecordSource.
func (r *recordRepositoryImpl) TimeRecords(ctx context.Context, q report.RecordQuery, p report.Page) ([]report.TimeRecord, error) {
	query, args := timeRecordsQuery(q, p)

	rows, err := GetQuerier(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query timesheets: %w", err)
	}
	defer rows.Close()

	records := make([]report.TimeRecord, 0, p.Limit)
	for rows.Next() {
		var rec report.TimeRecord
		var hours, amount *string
		err := rows.Scan(
			&rec.OrganizationID, &rec.StaffName, &rec.Date, &hours, &amount,
			&rec.Billable, &rec.CapacityReducing, &rec.ClientGroup, &rec.AccountManager,
			&rec.JobManager, &rec.JobName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan timesheet: %w", err)
		}
		rec.Time, rec.BillableAmount = rawValue(hours), rawValue(amount)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate timesheets: %w", err)
	}
	return records, nil
}

func invoicesQuery(q report.RecordQuery, p report.Page) (string, []interface{}) {
	where := newWhere(q.OrganizationID)
	where.window(q.Window)
	where.filters(report.TableInvoices, q.Filters)
	limit := where.page(p)

	query := fmt.Sprintf(`
		SELECT organization_id, date, amount::text, client_group, account_manager, job_manager
		FROM invoices
		WHERE %s
		ORDER BY date, id
		%s
	`, where.String(), limit)
	return query, where.args
}

// Invoices implements report.RecordSource.
func (r *recordRepositoryImpl) Invoices(ctx context.Context, q report.RecordQuery, p report.Page) ([]report.InvoiceRecord, error) {
	query, args := invoicesQuery(q, p)

	rows, err := GetQuerier(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoices: %w", err)
	}
	defer rows.Close()

	records := make([]report.InvoiceRecord, 0, p.Limit)
	for rows.Next() {
		var rec report.InvoiceRecord
		var amount *string
		if err := rows.Scan(&rec.OrganizationID, &rec.Date, &amount, &rec.ClientGroup, &rec.AccountManager, &rec.JobManager); err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		rec.Amount = rawValue(amount)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate invoices: %w", err)
	}
	return records, nil
}

func wipQuery(organizationID string, p report.Page) (string, []interface{}) {
	where := newWhere(organizationID)
	limit := where.page(p)

	query := fmt.Sprintf(`
		SELECT organization_id, date, billable_amount::text
		FROM wip
		WHERE %s
		ORDER BY id
		%s
	`, where.String(), limit)
	return query, where.args
}

// WipRecords implements report.RecordSource. WIP is read without a date window.
func (r *recordRepositoryImpl) WipRecords(ctx context.Context, organizationID string, p report.Page) ([]report.WipRecord, error) {
	query, args := wipQuery(organizationID, p)

	rows, err := GetQuerier(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query wip: %w", err)
	}
	defer rows.Close()

	records := make([]report.WipRecord, 0, p.Limit)
	for rows.Next() {
		var rec report.WipRecord
		var amount *string
		var date *time.Time
		if err := rows.Scan(&rec.OrganizationID, &date, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan wip: %w", err)
		}
		if date != nil {
			rec.Date = *date
		}
		rec.BillableAmount = rawValue(amount)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate wip: %w", err)
	}
	return records, nil
}

func recoverabilityQuery(q report.RecordQuery, p report.Page) (string, []interface{}) {
	where := newWhere(q.OrganizationID)
	where.window(q.Window)
	where.filters(report.TableRecoverability, q.Filters)
	limit := where.page(p)

	query := fmt.Sprintf(`
		SELECT organization_id, COALESCE(staff_name, ''), date, write_on_amount::text, invoiced_amount::text
		FROM recoverability
		WHERE %s
		ORDER BY date, id
		%s
	`, where.String(), limit)
	return query, where.args
}

// RecoverabilityRecords implements report.RecordSource.
func (r *recordRepositoryImpl) RecoverabilityRecords(ctx context.Context, q report.RecordQuery, p report.Page) ([]report.RecoverabilityRecord, error) {
	query, args := recoverabilityQuery(q, p)

	rows, err := GetQuerier(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query recoverability: %w", err)
	}
	defer rows.Close()

	records := make([]report.RecoverabilityRecord, 0, p.Limit)
	for rows.Next() {
		var rec report.RecoverabilityRecord
		var writeOn, invoiced *string
		if err := rows.Scan(&rec.OrganizationID, &rec.StaffName, &rec.Date, &writeOn, &invoiced); err != nil {
			return nil, fmt.Errorf("failed to scan recoverability: %w", err)
		}
		rec.WriteOnAmount, rec.InvoicedAmount = rawValue(writeOn), rawValue(invoiced)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recoverability: %w", err)
	}
	return records, nil
}
