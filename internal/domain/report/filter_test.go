package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestParseFilters_Compact(t *testing.T) {
	fs := ParseFilters("client_group:Acme|job_name:not_contains:PG|bogus:x|broken|account_manager:all|job_name:Audit")
	require.Len(t, fs, 4)

	assert.Equal(t, Filter{Type: FilterClientGroup, Value: "Acme"}, fs[0])
	assert.Equal(t, Filter{Type: FilterJobName, Operator: OperatorNotContains, Value: "PG"}, fs[1])
	assert.True(t, fs[2].Skipped())
	assert.Equal(t, Filter{Type: FilterJobName, Operator: OperatorContains, Value: "Audit"}, fs[3])
	assert.Len(t, fs.Active(), 3)
}

func TestParseFilters_ValueWithColon(t *testing.T) {
	fs := ParseFilters("client_group:Acme: Holdings")
	require.Len(t, fs, 1)
	assert.Equal(t, "Acme: Holdings", fs[0].Value)
}

func TestParseFilters_JSON(t *testing.T) {
	fs := ParseFilters(`[{"type":"job_name","value":"PG","operator":"not_contains"},{"type":"staff","value":"A"},{"type":"nope","value":"x"}]`)
	require.Len(t, fs, 2)
	assert.Equal(t, OperatorNotContains, fs[0].Operator)
	assert.Equal(t, FilterStaff, fs[1].Type)

	fs = ParseFilters(`[{"type":"client_group","value":"Acme"},{"type":"job_name","value":5},"staff:A"]`)
	require.Len(t, fs, 1)
	assert.Equal(t, Filter{Type: FilterClientGroup, Value: "Acme"}, fs[0])

	assert.Nil(t, ParseFilters(`[{"type":`))
	assert.Nil(t, ParseFilters("   "))
}

func TestFilter_NotContainsKeepsNullJobName(t *testing.T) {
	fs := ParseFilters("job_name:not_contains:PG")

	assert.True(t, fs.Match(TimeRecord{JobName: nil}.Dimensions()))
	assert.False(t, fs.Match(TimeRecord{JobName: strPtr("PG Audit")}.Dimensions()))
	assert.False(t, fs.Match(TimeRecord{JobName: strPtr("annual pg review")}.Dimensions()))
	assert.True(t, fs.Match(TimeRecord{JobName: strPtr("Tax Return")}.Dimensions()))
}

func TestFilter_ContainsIsCaseInsensitive(t *testing.T) {
	fs := ParseFilters("job_name:audit")

	assert.True(t, fs.Match(TimeRecord{JobName: strPtr("PG AUDIT 2024")}.Dimensions()))
	assert.False(t, fs.Match(TimeRecord{JobName: nil}.Dimensions()))
}

func TestFilter_EqualityIsExact(t *testing.T) {
	fs := ParseFilters("client_group:Acme|account_manager:Jo")

	assert.True(t, fs.Match(TimeRecord{ClientGroup: strPtr("Acme"), AccountManager: strPtr("Jo")}.Dimensions()))
	assert.False(t, fs.Match(TimeRecord{ClientGroup: strPtr("acme"), AccountManager: strPtr("Jo")}.Dimensions()))
	assert.False(t, fs.Match(TimeRecord{ClientGroup: nil, AccountManager: strPtr("Jo")}.Dimensions()))
}

func TestFilterSet_WithStaff(t *testing.T) {
	fs := ParseFilters("staff:Filter Staff").WithStaff("Param Staff")
	staff, ok := fs.Staff()
	assert.True(t, ok)
	assert.Equal(t, "Filter Staff", staff)

	fs = ParseFilters("client_group:Acme").WithStaff("Param Staff")
	staff, ok = fs.Staff()
	assert.True(t, ok)
	assert.Equal(t, "Param Staff", staff)

	_, ok = FilterSet(nil).WithStaff("all").Staff()
	assert.False(t, ok)
}

func TestFilterSet_For(t *testing.T) {
	fs := ParseFilters("client_group:Acme|job_name:PG|staff:A")

	assert.Len(t, fs.For(TableTimesheets), 3)
	assert.Equal(t, FilterSet{{Type: FilterClientGroup, Value: "Acme"}}, fs.For(TableInvoices))
	assert.Equal(t, FilterSet{{Type: FilterStaff, Value: "A"}}, fs.For(TableRecoverability))
	assert.Empty(t, fs.For(TableWip))
}

func TestStaffSetting_Defaults(t *testing.T) {
	var s StaffSetting
	assert.Equal(t, DefaultDailyHours, s.DailyHours())
	assert.Equal(t, DefaultFTE, s.FTEFraction())
	assert.True(t, s.Reportable())

	hours, fte, no := 7.5, 0.6, false
	s = StaffSetting{DefaultDailyHours: &hours, FTE: &fte, Report: &no}
	assert.Equal(t, 7.5, s.DailyHours())
	assert.Equal(t, 0.6, s.FTEFraction())
	assert.False(t, s.Reportable())

	assert.False(t, StaffSetting{IsHidden: true}.Reportable())
}
