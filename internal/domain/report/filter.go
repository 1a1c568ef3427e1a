package report

import (
	"encoding/json"
	"strings"
)

type FilterType string

const (
	FilterClientGroup    FilterType = "client_group"
	FilterAccountManager FilterType = "account_manager"
	FilterJobManager     FilterType = "job_manager"
	FilterJobName        FilterType = "job_name"
	FilterStaff          FilterType = "staff"
)

type FilterOperator string

const (
	OperatorContains    FilterOperator = "contains"
	OperatorNotContains FilterOperator = "not_contains"
)

// FilterAll is the sentinel value meaning "no constraint"
const FilterAll = "all"

func (t FilterType) valid() bool {
	switch t {
	case FilterClientGroup, FilterAccountManager, FilterJobManager, FilterJobName, FilterStaff:
		return true
	}
	return false
}

func (o FilterOperator) valid() bool {
	return o == OperatorContains || o == OperatorNotContains
}

// Filter is one dimension constraint. Operator only applies to job_name.
type Filter struct {
	Type     FilterType     `json:"type"`
	Value    string         `json:"value"`
	Operator FilterOperator `json:"operator,omitempty"`
}

// Skipped reports whether the filter places no constraint
func (f Filter) Skipped() bool {
	v := strings.TrimSpace(f.Value)
	return v == "" || strings.EqualFold(v, FilterAll)
}

// Matches applies the filter to a single nullable column value
func (f Filter) Matches(value *string) bool {
	if f.Skipped() {
		return true
	}
	if f.Type != FilterJobName {
		return value != nil && *value == f.Value
	}

	needle := strings.ToLower(f.Value)
	if f.Operator == OperatorNotContains {
		return value == nil || !strings.Contains(strings.ToLower(*value), needle)
	}
	return value != nil && strings.Contains(strings.ToLower(*value), needle)
}

// Dimensions are the filterable attributes of a record. Nil means NULL.
type Dimensions struct {
	ClientGroup    *string
	AccountManager *string
	JobManager     *string
	JobName        *string
	Staff          *string
}

func (d Dimensions) column(t FilterType) *string {
	switch t {
	case FilterClientGroup:
		return d.ClientGroup
	case FilterAccountManager:
		return d.AccountManager
	case FilterJobManager:
		return d.JobManager
	case FilterJobName:
		return d.JobName
	case FilterStaff:
		return d.Staff
	}
	return nil
}

// Table names a record table for filter capability checks
type Table string

const (
	TableTimesheets     Table = "timesheets"
	TableInvoices       Table = "invoices"
	TableWip            Table = "wip"
	TableRecoverability Table = "recoverability"
)

var tableFilters = map[Table][]FilterType{
	TableTimesheets:     {FilterClientGroup, FilterAccountManager, FilterJobManager, FilterJobName, FilterStaff},
	TableInvoices:       {FilterClientGroup, FilterAccountManager, FilterJobManager},
	TableRecoverability: {FilterStaff},
}

// Supports reports whether the table carries the filter's column
func (t Table) Supports(ft FilterType) bool {
	for _, s := range tableFilters[t] {
		if s == ft {
			return true
		}
	}
	return false
}

// FilterSet is a conjunction of filters
type FilterSet []Filter

// Active drops filters that place no constraint
func (fs FilterSet) Active() FilterSet {
	out := make(FilterSet, 0, len(fs))
	for _, f := range fs {
		if !f.Skipped() {
			out = append(out, f)
		}
	}
	return out
}

// For keeps only the active filters the table can apply
func (fs FilterSet) For(t Table) FilterSet {
	out := make(FilterSet, 0, len(fs))
	for _, f := range fs.Active() {
		if t.Supports(f.Type) {
			out = append(out, f)
		}
	}
	return out
}

// Only keeps active filters of the given types
func (fs FilterSet) Only(types ...FilterType) FilterSet {
	out := make(FilterSet, 0, len(fs))
	for _, f := range fs.Active() {
		for _, t := range types {
			if f.Type == t {
				out = append(out, f)
				break
			}
		}
	}
	return out
}

// WithStaff merges an explicit staff parameter into the set. A staff filter
// already present in the list wins.
func (fs FilterSet) WithStaff(staff string) FilterSet {
	if len(fs.Only(FilterStaff)) > 0 {
		return fs
	}
	staff = strings.TrimSpace(staff)
	if staff == "" || strings.EqualFold(staff, FilterAll) {
		return fs
	}
	out := make(FilterSet, 0, len(fs)+1)
	out = append(out, fs...)
	return append(out, Filter{Type: FilterStaff, Value: staff})
}

// Staff returns the effective single-staff constraint, if any
func (fs FilterSet) Staff() (string, bool) {
	staff := fs.Only(FilterStaff)
	if len(staff) == 0 {
		return "", false
	}
	return staff[len(staff)-1].Value, true
}

// Match reports whether every active filter accepts the record's dimensions
func (fs FilterSet) Match(d Dimensions) bool {
	for _, f := range fs.Active() {
		if !f.Matches(d.column(f.Type)) {
			return false
		}
	}
	return true
}

// ParseFilters reads either a JSON array of {type,value,operator} or the
// compact form "type:value|type:operator:value". Malformed entries are dropped.
func ParseFilters(raw string) FilterSet {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var candidates []Filter
	if strings.HasPrefix(raw, "[") {
		var elements []json.RawMessage
		if err := json.Unmarshal([]byte(raw), &elements); err != nil {
			return nil
		}
		for _, element := range elements {
			var f Filter
			if err := json.Unmarshal(element, &f); err == nil {
				candidates = append(candidates, f)
			}
		}
	} else {
		for _, segment := range strings.Split(raw, "|") {
			if f, ok := parseSegment(segment); ok {
				candidates = append(candidates, f)
			}
		}
	}

	out := make(FilterSet, 0, len(candidates))
	for _, f := range candidates {
		if f, ok := normalize(f); ok {
			out = append(out, f)
		}
	}
	return out
}

func parseSegment(segment string) (Filter, bool) {
	parts := strings.SplitN(strings.TrimSpace(segment), ":", 3)
	switch len(parts) {
	case 2:
		return Filter{Type: FilterType(parts[0]), Value: parts[1]}, true
	case 3:
		if op := FilterOperator(strings.TrimSpace(parts[1])); op.valid() {
			return Filter{Type: FilterType(parts[0]), Operator: op, Value: parts[2]}, true
		}
		return Filter{Type: FilterType(parts[0]), Value: parts[1] + ":" + parts[2]}, true
	}
	return Filter{}, false
}

func normalize(f Filter) (Filter, bool) {
	f.Type = FilterType(strings.TrimSpace(string(f.Type)))
	f.Value = strings.TrimSpace(f.Value)
	if !f.Type.valid() {
		return Filter{}, false
	}
	if f.Type != FilterJobName {
		f.Operator = ""
		return f, true
	}
	if !f.Operator.valid() {
		f.Operator = OperatorContains
	}
	return f, true
}

// Dimensions returns the filterable attributes of the time record
func (r TimeRecord) Dimensions() Dimensions {
	staff := r.StaffName
	return Dimensions{
		ClientGroup:    r.ClientGroup,
		AccountManager: r.AccountManager,
		JobManager:     r.JobManager,
		JobName:        r.JobName,
		Staff:          &staff,
	}
}

// Dimensions returns the filterable attributes of the invoice line
func (r InvoiceRecord) Dimensions() Dimensions {
	return Dimensions{
		ClientGroup:    r.ClientGroup,
		AccountManager: r.AccountManager,
		JobManager:     r.JobManager,
	}
}

// Dimensions returns the filterable attributes of the recoverability row
func (r RecoverabilityRecord) Dimensions() Dimensions {
	staff := r.StaffName
	return Dimensions{Staff: &staff}
}
