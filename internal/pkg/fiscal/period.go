package fiscal

import (
	"strings"
	"time"
)

// DateLayout is the ISO date format used for window bounds
const DateLayout = "2006-01-02"

// StartMonth is the first month of the financial year
const StartMonth = time.July

// Window is an inclusive date range
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether d falls within [Start, End], comparing dates only
func (w Window) Contains(d time.Time) bool {
	day := Date(d)
	return !day.Before(w.Start) && !day.After(w.End)
}

// StartString returns the window start as YYYY-MM-DD
func (w Window) StartString() string {
	return w.Start.Format(DateLayout)
}

// EndString returns the window end as YYYY-MM-DD
func (w Window) EndString() string {
	return w.End.Format(DateLayout)
}

// Windows pairs the current financial-year window with the last one
type Windows struct {
	Current Window
	Last    Window
}

// Date truncates t to midnight UTC of its calendar day
func Date(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// FinancialYearStart returns the start year of the financial year containing ref.
// July onwards belongs to the year that starts in the same calendar year.
func FinancialYearStart(ref time.Time) int {
	if ref.Month() >= StartMonth {
		return ref.Year()
	}
	return ref.Year() - 1
}

// YearWindow returns July 1 of startYear through June 30 of startYear+1
func YearWindow(startYear int) Window {
	return Window{
		Start: time.Date(startYear, StartMonth, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(startYear+1, time.June, 30, 0, 0, 0, 0, time.UTC),
	}
}

// FullYearWindows returns the complete current and last financial years around ref
func FullYearWindows(ref time.Time) Windows {
	start := FinancialYearStart(ref)
	return Windows{
		Current: YearWindow(start),
		Last:    YearWindow(start - 1),
	}
}

// AsOfWindows returns financial-year windows truncated at ref. The current window
// ends on ref itself, the last window ends on the same calendar day one year
// earlier, clamped to the prior financial year's June 30.
func AsOfWindows(ref time.Time) Windows {
	ref = Date(ref)
	w := FullYearWindows(ref)
	w.Current.End = ref

	lastEnd := SameDayLastYear(ref)
	if !lastEnd.After(w.Last.End) {
		w.Last.End = lastEnd
	}
	return w
}

// Resolve picks AsOfWindows when truncate is set, FullYearWindows otherwise
func Resolve(ref time.Time, truncate bool) Windows {
	if truncate {
		return AsOfWindows(ref)
	}
	return FullYearWindows(ref)
}

// SameDayLastYear shifts d back one year. Feb 29 becomes Feb 28.
func SameDayLastYear(d time.Time) time.Time {
	year, month, day := d.Year()-1, d.Month(), d.Day()
	if last := daysIn(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// MonthColumn maps a calendar month onto its zero-based position in a
// July..June financial year.
func MonthColumn(m time.Month) int {
	if m >= StartMonth {
		return int(m - StartMonth)
	}
	return int(m) + 5
}

// ColumnMonths lists the months of a financial year in column order
func ColumnMonths() []time.Month {
	months := make([]time.Month, 0, 12)
	for i := 0; i < 12; i++ {
		months = append(months, time.Month((int(StartMonth)-1+i)%12+1))
	}
	return months
}

// MonthWindows returns the full day range of month m inside the current and the
// last financial year relative to ref.
func MonthWindows(ref time.Time, m time.Month) Windows {
	year := FinancialYearStart(ref)
	if m < StartMonth {
		year++
	}
	return Windows{
		Current: MonthWindow(year, m),
		Last:    MonthWindow(year-1, m),
	}
}

// MonthWindow returns the first through last day of month m in year
func MonthWindow(year int, m time.Month) Window {
	return Window{
		Start: time.Date(year, m, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(year, m, daysIn(year, m), 0, 0, 0, 0, time.UTC),
	}
}

var monthNames = map[string]time.Month{}

func init() {
	for m := time.January; m <= time.December; m++ {
		name := strings.ToLower(m.String())
		monthNames[name] = m
		monthNames[name[:3]] = m
	}
	monthNames["sept"] = time.September
}

// ParseMonth resolves an English month name or three-letter abbreviation
func ParseMonth(name string) (time.Month, bool) {
	m, ok := monthNames[strings.ToLower(strings.TrimSpace(name))]
	return m, ok
}

func daysIn(year int, m time.Month) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
