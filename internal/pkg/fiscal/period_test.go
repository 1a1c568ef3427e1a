package fiscal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestFinancialYearStart(t *testing.T) {
	cases := []struct {
		ref  time.Time
		want int
	}{
		{day(2024, time.July, 1), 2024},
		{day(2024, time.June, 30), 2023},
		{day(2024, time.December, 31), 2024},
		{day(2025, time.January, 1), 2024},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, FinancialYearStart(c.ref), c.ref.Format(DateLayout))
	}
}

func TestFullYearWindows(t *testing.T) {
	w := FullYearWindows(day(2025, time.June, 1))

	assert.Equal(t, "2024-07-01", w.Current.StartString())
	assert.Equal(t, "2025-06-30", w.Current.EndString())
	assert.Equal(t, "2023-07-01", w.Last.StartString())
	assert.Equal(t, "2024-06-30", w.Last.EndString())
	assert.Equal(t, w.Current.Start.Year()+1, w.Current.End.Year())
}

func TestAsOfWindows(t *testing.T) {
	w := AsOfWindows(day(2025, time.March, 15))

	assert.Equal(t, "2024-07-01", w.Current.StartString())
	assert.Equal(t, "2025-03-15", w.Current.EndString())
	assert.Equal(t, "2023-07-01", w.Last.StartString())
	assert.Equal(t, "2024-03-15", w.Last.EndString())
}

func TestAsOfWindows_LeapDay(t *testing.T) {
	w := AsOfWindows(day(2024, time.February, 29))

	assert.Equal(t, "2024-02-29", w.Current.EndString())
	assert.Equal(t, "2023-02-28", w.Last.EndString())
	assert.True(t, !w.Last.End.After(day(2023, time.June, 30)))
}

func TestAsOfWindows_LastYearEndOnBoundary(t *testing.T) {
	w := AsOfWindows(day(2025, time.June, 30))

	assert.Equal(t, "2024-06-30", w.Last.EndString())
	assert.Equal(t, "2023-07-01", w.Last.StartString())
}

func TestSameDayLastYear(t *testing.T) {
	assert.Equal(t, day(2023, time.February, 28), SameDayLastYear(day(2024, time.February, 29)))
	assert.Equal(t, day(2024, time.July, 1), SameDayLastYear(day(2025, time.July, 1)))
}

func TestMonthColumn(t *testing.T) {
	assert.Equal(t, 0, MonthColumn(time.July))
	assert.Equal(t, 5, MonthColumn(time.December))
	assert.Equal(t, 6, MonthColumn(time.January))
	assert.Equal(t, 11, MonthColumn(time.June))

	for i, m := range ColumnMonths() {
		assert.Equal(t, i, MonthColumn(m), m.String())
	}
}

func TestMonthWindows(t *testing.T) {
	ref := day(2025, time.March, 10)

	jan := MonthWindows(ref, time.January)
	assert.Equal(t, "2025-01-01", jan.Current.StartString())
	assert.Equal(t, "2025-01-31", jan.Current.EndString())
	assert.Equal(t, "2024-01-01", jan.Last.StartString())

	aug := MonthWindows(ref, time.August)
	assert.Equal(t, "2024-08-01", aug.Current.StartString())
	assert.Equal(t, "2023-08-31", aug.Last.EndString())

	feb := MonthWindows(ref, time.February)
	assert.Equal(t, "2025-02-28", feb.Current.EndString())
	assert.Equal(t, "2024-02-29", feb.Last.EndString())
}

func TestParseMonth(t *testing.T) {
	m, ok := ParseMonth("January")
	assert.True(t, ok)
	assert.Equal(t, time.January, m)

	m, ok = ParseMonth(" sep ")
	assert.True(t, ok)
	assert.Equal(t, time.September, m)

	_, ok = ParseMonth("Smarch")
	assert.False(t, ok)
}

func TestWindowContains(t *testing.T) {
	w := YearWindow(2024)
	assert.True(t, w.Contains(day(2024, time.July, 1)))
	assert.True(t, w.Contains(time.Date(2025, time.June, 30, 23, 0, 0, 0, time.UTC)))
	assert.False(t, w.Contains(day(2024, time.June, 30)))
}
