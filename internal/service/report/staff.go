package report

import (
	"context"
	"sort"

	"github.com/cmlabs-hris/practice-kpi-backend/internal/domain/report"
	"github.com/cmlabs-hris/practice-kpi-backend/internal/pkg/aggregate"
	"github.com/cmlabs-hris/practice-kpi-backend/internal/pkg/fiscal"
	"github.com/cmlabs-hris/practice-kpi-backend/internal/pkg/kpi"
	"github.com/cmlabs-hris/practice-kpi-backend/internal/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

// staffTotals are the additive quantities behind one StaffMetrics
type staffTotals struct {
	amount, hours     float64
	capacity          Capacity
	available         float64
	writeOn, invoiced float64
}

func (t staffTotals) add(o staffTotals) staffTotals {
	return staffTotals{
		amount: t.amount + o.amount,
		hours:  t.hours + o.hours,
		capacity: Capacity{
			Standard:         t.capacity.Standard + o.capacity.Standard,
			CapacityReducing: t.capacity.CapacityReducing + o.capacity.CapacityReducing,
		},
		available: t.available + o.available,
		writeOn:   t.writeOn + o.writeOn,
		invoiced:  t.invoiced + o.invoiced,
	}
}

func (t staffTotals) summarize(target *float64) report.StaffMetrics {
	percentage := kpi.BillablePercentage(t.hours, t.available, 0)
	recoverability := kpi.Recoverability(t.writeOn, t.invoiced)
	return report.StaffMetrics{
		BillableAmount:         kpi.Round2(t.amount),
		BillableHours:          kpi.Round2(t.hours),
		StandardHours:          kpi.Round2(t.capacity.Standard),
		CapacityReducingHours:  kpi.Round2(t.capacity.CapacityReducing),
		AvailableHours:         kpi.Round2(t.available),
		BillablePercentage:     kpi.Round1(percentage),
		BillableVariance:       kpi.Variance(percentage, target),
		AverageRate:            kpi.Round2(kpi.AverageRate(t.amount, t.hours)),
		WriteOnAmount:          kpi.Round2(t.writeOn),
		InvoicedAmount:         kpi.Round2(t.invoiced),
		Recoverability:         kpi.Round1(recoverability),
		RecoverabilityVariance: kpi.RecoverabilityVariance(recoverability),
	}
}

func performanceRow(name string, eligible bool, target *float64, cur, last staffTotals) report.StaffPerformanceRow {
	curMetrics, lastMetrics := cur.summarize(target), last.summarize(target)
	return report.StaffPerformanceRow{
		StaffName:                    name,
		Eligible:                     eligible,
		TargetBillablePercentage:     target,
		Current:                      curMetrics,
		Last:                         lastMetrics,
		BillableAmountChange:         kpi.PercentageChange(cur.amount, last.amount),
		AverageRateChange:            kpi.PercentageChange(kpi.AverageRate(cur.amount, cur.hours), kpi.AverageRate(last.amount, last.hours)),
		BillablePercentageDifference: kpi.PointDifference(curMetrics.BillablePercentage, lastMetrics.BillablePercentage),
		RecoverabilityDifference:     kpi.PointDifference(curMetrics.Recoverability, lastMetrics.Recoverability),
	}
}

// staffWindow indexes one window's buckets by staff name
type staffWindow struct {
	window   fiscal.Window
	billable map[string]aggregate.Bucket
	capacity map[string]aggregate.Bucket
	writeOn  map[string]aggregate.Bucket
	invoiced map[string]aggregate.Bucket
}

func newStaffWindow(w fiscal.Window, billable []aggregate.Bucket, capRows []report.TimeRecord, recRows []report.RecoverabilityRecord) staffWindow {
	return staffWindow{
		window:   w,
		billable: aggregate.ByKey(billable),
		capacity: aggregate.ByKey(aggregate.Fold(capRows, timeSpec(staffKey))),
		writeOn:  aggregate.ByKey(aggregate.Fold(recRows, writeOnSpec)),
		invoiced: aggregate.ByKey(aggregate.Fold(recRows, invoicedSpec)),
	}
}

// totals returns one staff member's quantities. Capacity only counts for
// eligible staff.
func (sw staffWindow) totals(r roster, name string, eligible bool) staffTotals {
	t := staffTotals{
		amount:   aggregate.Float(sw.billable[name].Amount),
		hours:    sw.billable[name].Hours,
		writeOn:  aggregate.Float(sw.writeOn[name].Amount),
		invoiced: aggregate.Float(sw.invoiced[name].Amount),
	}
	if eligible {
		t.capacity = r.capacity(name, sw.window, sw.capacity)
		t.available = t.capacity.Available()
	}
	return t
}

// GetStaffPerformance returns one row per staff member plus a Total row summed
// over eligible staff only. Hidden staff are left out unless asked for by name.
func (s *ReportServiceImpl) GetStaffPerformance(ctx context.Context, req report.ReportRequest) (result *report.StaffPerformanceReport, err error) {
	defer func() { metrics.ObserveReport("staff_performance", err) }()

	if err := req.Validate(); err != nil {
		return nil, err
	}
	sc := s.resolve(req, true)

	var (
		curTime, lastTime []report.TimeRecord
		curRec, lastRec   []report.RecoverabilityRecord
		data              rosterData
	)

	g, gCtx := errgroup.WithContext(ctx)
	fetchWindows(g, gCtx, sc.windows, s.billableTime(sc.organizationID, sc.filters), &curTime, &lastTime)
	fetchWindows(g, gCtx, sc.windows, s.recoverability(sc.organizationID, sc.filters), &curRec, &lastRec)
	s.fetchRoster(g, gCtx, sc, &data)
	if err := g.Wait(); err != nil {
		return nil, s.fail(ctx, "staff_performance", sc, err)
	}

	r := data.build(sc)
	curBill := aggregate.Fold(curTime, timeSpec(staffKey))
	lastBill := aggregate.Fold(lastTime, timeSpec(staffKey))
	cur := newStaffWindow(sc.windows.Current, curBill, data.curCap, curRec)
	last := newStaffWindow(sc.windows.Last, lastBill, data.lastCap, lastRec)

	names := staffNames(sc, r, curBill, lastBill)
	rows := make([]report.StaffPerformanceRow, 0, len(names))
	var curSum, lastSum staffTotals
	for _, name := range names {
		eligible := r.eligible[name]
		curT, lastT := cur.totals(r, name, eligible), last.totals(r, name, eligible)
		if eligible {
			curSum, lastSum = curSum.add(curT), lastSum.add(lastT)
		}
		rows = append(rows, performanceRow(name, eligible, r.resolver.Setting(name).TargetBillablePercentage, curT, lastT))
	}

	return &report.StaffPerformanceReport{
		Period: sc.period,
		Rows:   rows,
		Total:  performanceRow("Total", true, nil, curSum, lastSum),
	}, nil
}

// staffNames is the sorted union of staff with billable activity in either
// window and the eligible roster
func staffNames(sc scope, r roster, billable ...[]aggregate.Bucket) []string {
	if sc.singleStaff {
		return []string{sc.staff}
	}
	seen := make(map[string]bool)
	names := make([]string, 0)
	add := func(name string) {
		if seen[name] || r.resolver.Setting(name).IsHidden {
			return
		}
		seen[name] = true
		names = append(names, name)
	}
	for _, buckets := range billable {
		for _, b := range buckets {
			add(b.Key)
		}
	}
	for _, name := range r.staff {
		add(name)
	}
	sort.Strings(names)
	return names
}
