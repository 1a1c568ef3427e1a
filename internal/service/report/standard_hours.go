package report

import (
	"time"

	"github.com/cmlabs-hris/practice-kpi-backend/internal/domain/report"
	"github.com/cmlabs-hris/practice-kpi-backend/internal/pkg/fiscal"
	"github.com/cmlabs-hris/practice-kpi-backend/internal/pkg/kpi"
)

// CountWeekdays counts Monday to Friday days in [start, end]
func CountWeekdays(start, end time.Time) int {
	start, end = fiscal.Date(start), fiscal.Date(end)
	count := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			count++
		}
	}
	return count
}

// StandardHours returns the expected working hours of a staff member inside w.
// Each month contributes the weekdays where the staff member's effective range,
// the calendar month and w overlap, times daily hours and FTE.
func StandardHours(setting report.StaffSetting, w fiscal.Window) float64 {
	rangeStart, rangeEnd := fiscal.Date(w.Start), fiscal.Date(w.End)
	if rangeStart.After(rangeEnd) {
		return 0
	}

	perDay := setting.DailyHours() * setting.FTEFraction()
	total := 0.0

	cursor := time.Date(rangeStart.Year(), rangeStart.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !cursor.After(rangeEnd) {
		month := fiscal.MonthWindow(cursor.Year(), cursor.Month())
		from := latest(month.Start, rangeStart, setting.StartDate)
		to := earliest(month.End, rangeEnd, setting.EndDate)

		if !from.After(to) {
			total += float64(CountWeekdays(from, to)) * perDay
		}
		cursor = cursor.AddDate(0, 1, 0)
	}
	return total
}

// Capacity is the hours picture for one staff member in one window
type Capacity struct {
	Standard         float64
	CapacityReducing float64
}

// Available is standard hours less capacity-reducing hours, never negative
func (c Capacity) Available() float64 {
	return kpi.AvailableHours(c.Standard, c.CapacityReducing)
}

func latest(a, b time.Time, c *time.Time) time.Time {
	out := a
	if b.After(out) {
		out = b
	}
	if c != nil && fiscal.Date(*c).After(out) {
		out = fiscal.Date(*c)
	}
	return out
}

func earliest(a, b time.Time, c *time.Time) time.Time {
	out := a
	if b.Before(out) {
		out = b
	}
	if c != nil && fiscal.Date(*c).Before(out) {
		out = fiscal.Date(*c)
	}
	return out
}
