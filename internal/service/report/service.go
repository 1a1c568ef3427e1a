package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/practice-kpi-backend/internal/domain/report"
	"github.com/cmlabs-hris/practice-kpi-backend/internal/pkg/aggregate"
	"github.com/cmlabs-hris/practice-kpi-backend/internal/pkg/fiscal"
	"github.com/cmlabs-hris/practice-kpi-backend/internal/pkg/kpi"
	"github.com/cmlabs-hris/practice-kpi-backend/internal/pkg/metrics"
	"github.com/cmlabs-hris/practice-kpi-backend/internal/pkg/validator"
	"golang.org/x/sync/errgroup"
)

type ReportServiceImpl struct {
	source   report.RecordSource
	settings report.StaffSettingRepository
	pageSize int
	now      func() time.Time
}

func NewReportService(source report.RecordSource, settings report.StaffSettingRepository, pageSize int) report.ReportService {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &ReportServiceImpl{
		source:   source,
		settings: settings,
		pageSize: pageSize,
		now:      time.Now,
	}
}

// scope is the resolved period and filter set of one request
type scope struct {
	organizationID string
	windows        fiscal.Windows
	years          fiscal.Windows
	filters        report.FilterSet
	staff          string
	singleStaff    bool
	period         report.PeriodInfo
}

// resolve reads the clock once. A valid as_of gives the truncated as-of view,
// anything else gives full financial years around today.
func (s *ReportServiceImpl) resolve(req report.ReportRequest, withMonth bool) scope {
	ref, truncate := fiscal.Date(s.now()), false
	if asOf, ok := validator.IsValidDate(req.AsOf); ok {
		ref, truncate = fiscal.Date(asOf), true
	}

	sc := scope{
		organizationID: req.OrganizationID,
		windows:        fiscal.Resolve(ref, truncate),
		years:          fiscal.FullYearWindows(ref),
		filters:        report.ParseFilters(req.Filters).WithStaff(req.Staff).Active(),
	}
	sc.staff, sc.singleStaff = sc.filters.Staff()

	if m, ok := fiscal.ParseMonth(req.Month); ok && withMonth {
		sc.windows = fiscal.MonthWindows(ref, m)
		sc.period.Month = m.String()
	}

	sc.period.CurrentStart = sc.windows.Current.StartString()
	sc.period.CurrentEnd = sc.windows.Current.EndString()
	sc.period.LastStart = sc.windows.Last.StartString()
	sc.period.LastEnd = sc.windows.Last.EndString()
	sc.period.AsOf = ref.Format(fiscal.DateLayout)
	return sc
}

func (s *ReportServiceImpl) fail(ctx context.Context, name string, sc scope, err error) error {
	slog.ErrorContext(ctx, "Failed to generate report", "report", name, "organization_id", sc.organizationID, "error", err)
	return fmt.Errorf("%w: %w", report.ErrReportGenerationFailed, err)
}

func compare(current, last float64) report.Comparison {
	return report.Comparison{
		CurrentYear:      kpi.Round2(current),
		LastYear:         kpi.Round2(last),
		PercentageChange: kpi.PercentageChange(current, last),
	}
}

func comparePoints(current, last float64) report.PointComparison {
	return report.PointComparison{
		CurrentYear: kpi.Round1(current),
		LastYear:    kpi.Round1(last),
		Difference:  kpi.PointDifference(current, last),
	}
}

var (
	staffKey = func(r report.TimeRecord) string { return r.StaffName }

	timeSpec = func(key func(report.TimeRecord) string) aggregate.Spec[report.TimeRecord] {
		return aggregate.Spec[report.TimeRecord]{
			Key:    key,
			Amount: func(r report.TimeRecord) any { return r.BillableAmount },
			Hours:  func(r report.TimeRecord) any { return r.Time },
		}
	}

	invoiceSpec = func(key func(report.InvoiceRecord) string) aggregate.Spec[report.InvoiceRecord] {
		return aggregate.Spec[report.InvoiceRecord]{
			Key:    key,
			Amount: func(r report.InvoiceRecord) any { return r.Amount },
		}
	}

	writeOnSpec = aggregate.Spec[report.RecoverabilityRecord]{
		Key:    func(r report.RecoverabilityRecord) string { return r.StaffName },
		Amount: func(r report.RecoverabilityRecord) any { return r.WriteOnAmount },
	}

	invoicedSpec = aggregate.Spec[report.RecoverabilityRecord]{
		Key:    func(r report.RecoverabilityRecord) string { return r.StaffName },
		Amount: func(r report.RecoverabilityRecord) any { return r.InvoicedAmount },
	}
)

// GetKPISummary computes the headline cards for the current and last window
func (s *ReportServiceImpl) GetKPISummary(ctx context.Context, req report.ReportRequest) (summary *report.KPISummary, err error) {
	defer func() { metrics.ObserveReport("kpi_summary", err) }()

	if err := req.Validate(); err != nil {
		return nil, err
	}
	sc := s.resolve(req, true)

	var (
		curTime, lastTime []report.TimeRecord
		curInv, lastInv   []report.InvoiceRecord
		curRec, lastRec   []report.RecoverabilityRecord
		wip               []report.WipRecord
		roster            rosterData
	)

	g, gCtx := errgroup.WithContext(ctx)
	fetchWindows(g, gCtx, sc.windows, s.billableTime(sc.organizationID, sc.filters), &curTime, &lastTime)
	fetchWindows(g, gCtx, sc.windows, s.invoices(sc.organizationID, sc.filters), &curInv, &lastInv)
	fetchWindows(g, gCtx, sc.windows, s.recoverability(sc.organizationID, sc.filters), &curRec, &lastRec)
	g.Go(func() error {
		rows, err := s.wip(gCtx, sc.organizationID)
		wip = rows
		return err
	})
	s.fetchRoster(g, gCtx, sc, &roster)

	if err := g.Wait(); err != nil {
		return nil, s.fail(ctx, "kpi_summary", sc, err)
	}

	curBill := aggregate.Fold(curTime, timeSpec(staffKey))
	lastBill := aggregate.Fold(lastTime, timeSpec(staffKey))
	curTotal, lastTotal := aggregate.Total(curBill), aggregate.Total(lastBill)

	curAmount, lastAmount := aggregate.Float(curTotal.Amount), aggregate.Float(lastTotal.Amount)
	curRevenue := aggregate.Float(aggregate.Total(aggregate.Fold(curInv, invoiceSpec(nil))).Amount)
	lastRevenue := aggregate.Float(aggregate.Total(aggregate.Fold(lastInv, invoiceSpec(nil))).Amount)

	r := roster.build(sc)
	curUtil := r.totals(sc.windows.Current, curBill, roster.curCap)
	lastUtil := r.totals(sc.windows.Last, lastBill, roster.lastCap)

	wipTotal := aggregate.Total(aggregate.Fold(wip, aggregate.Spec[report.WipRecord]{
		Amount: func(r report.WipRecord) any { return r.BillableAmount },
	}))

	return &report.KPISummary{
		Period:         sc.period,
		BillableAmount: compare(curAmount, lastAmount),
		Revenue:        compare(curRevenue, lastRevenue),
		BillableHours:  compare(curTotal.Hours, lastTotal.Hours),
		AverageRate: compare(
			kpi.AverageRate(curAmount, curTotal.Hours),
			kpi.AverageRate(lastAmount, lastTotal.Hours),
		),
		BillablePercentage: comparePoints(curUtil.Percentage(), lastUtil.Percentage()),
		Recoverability:     comparePoints(recoverabilityOf(curRec), recoverabilityOf(lastRec)),
		Wip:                report.WipTotal{Total: kpi.Round2(aggregate.Float(wipTotal.Amount))},
	}, nil
}

// recoverabilityOf computes recoverability over every row given
func recoverabilityOf(rows []report.RecoverabilityRecord) float64 {
	writeOn := aggregate.Total(aggregate.Fold(rows, writeOnSpec)).Amount
	invoiced := aggregate.Total(aggregate.Fold(rows, invoicedSpec)).Amount
	return kpi.Recoverability(aggregate.Float(writeOn), aggregate.Float(invoiced))
}

// GetMonthlyTrend buckets one metric by calendar month across the July..June
// year. The month parameter is ignored; the series always spans the windows.
func (s *ReportServiceImpl) GetMonthlyTrend(ctx context.Context, req report.MonthlyTrendRequest) (trend *report.MonthlyTrend, err error) {
	defer func() { metrics.ObserveReport("monthly_trend", err) }()

	if err := req.Validate(); err != nil {
		return nil, err
	}
	sc := s.resolve(req.ReportRequest, false)

	var current, last map[string]aggregate.Bucket

	g, gCtx := errgroup.WithContext(ctx)
	switch req.Metric {
	case report.MetricRevenue:
		var curInv, lastInv []report.InvoiceRecord
		fetchWindows(g, gCtx, sc.windows, s.invoices(sc.organizationID, sc.filters), &curInv, &lastInv)
		if err := g.Wait(); err != nil {
			return nil, s.fail(ctx, "monthly_trend", sc, err)
		}
		byMonth := invoiceSpec(func(r report.InvoiceRecord) string { return monthLabel(r.Date.Month()) })
		current = aggregate.ByKey(aggregate.Fold(curInv, byMonth))
		last = aggregate.ByKey(aggregate.Fold(lastInv, byMonth))
	default:
		var curTime, lastTime []report.TimeRecord
		fetchWindows(g, gCtx, sc.windows, s.billableTime(sc.organizationID, sc.filters), &curTime, &lastTime)
		if err := g.Wait(); err != nil {
			return nil, s.fail(ctx, "monthly_trend", sc, err)
		}
		byMonth := timeSpec(func(r report.TimeRecord) string { return monthLabel(r.Date.Month()) })
		current = aggregate.ByKey(aggregate.Fold(curTime, byMonth))
		last = aggregate.ByKey(aggregate.Fold(lastTime, byMonth))
	}

	value := func(b aggregate.Bucket) float64 {
		if req.Metric == report.MetricBillableHours {
			return kpi.Round2(b.Hours)
		}
		return kpi.Round2(aggregate.Float(b.Amount))
	}

	months := fiscal.ColumnMonths()
	points := make([]report.MonthlyPoint, 0, len(months))
	for _, m := range months {
		label := monthLabel(m)
		points = append(points, report.MonthlyPoint{
			Month:       label,
			CurrentYear: value(current[label]),
			LastYear:    value(last[label]),
		})
	}

	return &report.MonthlyTrend{
		Metric: req.Metric,
		Period: sc.period,
		Points: points,
	}, nil
}

func monthLabel(m time.Month) string {
	return m.String()[:3]
}
