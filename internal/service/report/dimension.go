package report

import (
	"context"
	"sort"

	"github.com/cmlabs-hris/practice-kpi-backend/internal/domain/report"
	"github.com/cmlabs-hris/practice-kpi-backend/internal/pkg/aggregate"
	"github.com/cmlabs-hris/practice-kpi-backend/internal/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

const tagAccountManager = "account_manager"

func timeKey(d report.Dimension) func(report.TimeRecord) string {
	switch d {
	case report.DimensionAccountManager:
		return func(r report.TimeRecord) string { return aggregate.Deref(r.AccountManager) }
	case report.DimensionJobManager:
		return func(r report.TimeRecord) string { return aggregate.Deref(r.JobManager) }
	case report.DimensionStaff:
		return staffKey
	}
	return func(r report.TimeRecord) string { return aggregate.Deref(r.ClientGroup) }
}

// invoiceKey is nil for dimensions the invoice table does not carry
func invoiceKey(d report.Dimension) func(report.InvoiceRecord) string {
	switch d {
	case report.DimensionClientGroup:
		return func(r report.InvoiceRecord) string { return aggregate.Deref(r.ClientGroup) }
	case report.DimensionAccountManager:
		return func(r report.InvoiceRecord) string { return aggregate.Deref(r.AccountManager) }
	case report.DimensionJobManager:
		return func(r report.InvoiceRecord) string { return aggregate.Deref(r.JobManager) }
	}
	return nil
}

// GetDimensionReport groups billable amount, hours and revenue by one dimension.
// Rows are ordered by current billable amount, largest first.
func (s *ReportServiceImpl) GetDimensionReport(ctx context.Context, req report.DimensionReportRequest) (result *report.DimensionReport, err error) {
	defer func() { metrics.ObserveReport("dimension", err) }()

	if err := req.Validate(); err != nil {
		return nil, err
	}
	sc := s.resolve(req.ReportRequest, true)
	invKey := invoiceKey(req.Dimension)

	var (
		curTime, lastTime []report.TimeRecord
		curInv, lastInv   []report.InvoiceRecord
	)

	g, gCtx := errgroup.WithContext(ctx)
	fetchWindows(g, gCtx, sc.windows, s.billableTime(sc.organizationID, sc.filters), &curTime, &lastTime)
	if invKey != nil {
		fetchWindows(g, gCtx, sc.windows, s.invoices(sc.organizationID, sc.filters), &curInv, &lastInv)
	}
	if err := g.Wait(); err != nil {
		return nil, s.fail(ctx, "dimension", sc, err)
	}

	spec := timeSpec(timeKey(req.Dimension))
	if req.Dimension == report.DimensionClientGroup {
		spec.Tags = map[string]func(report.TimeRecord) string{
			tagAccountManager: func(r report.TimeRecord) string { return aggregate.Deref(r.AccountManager) },
		}
	}

	curBill, lastBill := aggregate.Fold(curTime, spec), aggregate.Fold(lastTime, spec)
	cur, last := aggregate.ByKey(curBill), aggregate.ByKey(lastBill)

	keys := make([]string, 0, len(curBill))
	seen := make(map[string]bool)
	addKeys := func(buckets []aggregate.Bucket) {
		for _, b := range buckets {
			if !seen[b.Key] {
				seen[b.Key] = true
				keys = append(keys, b.Key)
			}
		}
	}
	addKeys(curBill)
	addKeys(lastBill)

	var curRev, lastRev map[string]aggregate.Bucket
	if invKey != nil {
		curRevBuckets := aggregate.Fold(curInv, invoiceSpec(invKey))
		lastRevBuckets := aggregate.Fold(lastInv, invoiceSpec(invKey))
		addKeys(curRevBuckets)
		addKeys(lastRevBuckets)
		curRev, lastRev = aggregate.ByKey(curRevBuckets), aggregate.ByKey(lastRevBuckets)
	}

	rows := make([]report.DimensionRow, 0, len(keys))
	var sum dimensionSum
	for _, key := range keys {
		part := dimensionSum{
			curAmount:  aggregate.Float(cur[key].Amount),
			lastAmount: aggregate.Float(last[key].Amount),
			curHours:   cur[key].Hours,
			lastHours:  last[key].Hours,
		}
		if invKey != nil {
			part.curRevenue = aggregate.Float(curRev[key].Amount)
			part.lastRevenue = aggregate.Float(lastRev[key].Amount)
		}
		sum = sum.add(part)

		row := part.row(key, invKey != nil)
		if req.Dimension == report.DimensionClientGroup {
			row.AccountManager = accountManagerOf(key, cur, last)
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].BillableAmount.CurrentYear != rows[j].BillableAmount.CurrentYear {
			return rows[i].BillableAmount.CurrentYear > rows[j].BillableAmount.CurrentYear
		}
		return rows[i].GroupKey < rows[j].GroupKey
	})

	return &report.DimensionReport{
		Dimension: req.Dimension,
		Period:    sc.period,
		Rows:      rows,
		Total:     sum.row("Total", invKey != nil),
	}, nil
}

// accountManagerOf prefers the current year's most common account manager
func accountManagerOf(key string, cur, last map[string]aggregate.Bucket) string {
	if b, ok := cur[key]; ok {
		return b.Tag(tagAccountManager)
	}
	if b, ok := last[key]; ok {
		return b.Tag(tagAccountManager)
	}
	return aggregate.Uncategorized
}

type dimensionSum struct {
	curAmount, lastAmount   float64
	curHours, lastHours     float64
	curRevenue, lastRevenue float64
}

func (d dimensionSum) add(o dimensionSum) dimensionSum {
	return dimensionSum{
		curAmount:   d.curAmount + o.curAmount,
		lastAmount:  d.lastAmount + o.lastAmount,
		curHours:    d.curHours + o.curHours,
		lastHours:   d.lastHours + o.lastHours,
		curRevenue:  d.curRevenue + o.curRevenue,
		lastRevenue: d.lastRevenue + o.lastRevenue,
	}
}

func (d dimensionSum) row(key string, withRevenue bool) report.DimensionRow {
	row := report.DimensionRow{
		GroupKey:       key,
		BillableAmount: compare(d.curAmount, d.lastAmount),
		BillableHours:  compare(d.curHours, d.lastHours),
	}
	if withRevenue {
		revenue := compare(d.curRevenue, d.lastRevenue)
		row.Revenue = &revenue
	}
	return row
}
