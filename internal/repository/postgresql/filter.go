package postgresql

import (
	"fmt"
	"strings"

	"github.com/cmlabs-hris/practice-kpi-backend/internal/domain/report"
	"github.com/cmlabs-hris/practice-kpi-backend/internal/pkg/fiscal"
)

var filterColumns = map[report.FilterType]string{
	report.FilterClientGroup:    "client_group",
	report.FilterAccountManager: "account_manager",
	report.FilterJobManager:     "job_manager",
	report.FilterJobName:        "job_name",
	report.FilterStaff:          "staff_name",
}

// whereBuilder accumulates AND-ed conditions with positional arguments
type whereBuilder struct {
	conditions []string
	args       []interface{}
	argIdx     int
}

func newWhere(organizationID string) *whereBuilder {
	return &whereBuilder{
		conditions: []string{"organization_id = $1"},
		args:       []interface{}{organizationID},
		argIdx:     2,
	}
}

func (w *whereBuilder) add(condition string, arg interface{}) {
	w.conditions = append(w.conditions, strings.ReplaceAll(condition, "?", fmt.Sprintf("$%d", w.argIdx)))
	w.args = append(w.args, arg)
	w.argIdx++
}

// window restricts date to the inclusive range
func (w *whereBuilder) window(win fiscal.Window) {
	w.add("date >= ?", win.Start)
	w.add("date <= ?", win.End)
}

// flag adds an equality on a boolean column when set
func (w *whereBuilder) flag(column string, value *bool) {
	if value != nil {
		w.add(column+" = ?", *value)
	}
}

// filters applies the filters the table supports. job_name matches by
// case-insensitive substring; not_contains keeps NULL job names.
func (w *whereBuilder) filters(table report.Table, fs report.FilterSet) {
	for _, f := range fs.For(table) {
		column := filterColumns[f.Type]
		if f.Type != report.FilterJobName {
			w.add(column+" = ?", f.Value)
			continue
		}
		pattern := "%" + escapeLike(f.Value) + "%"
		if f.Operator == report.OperatorNotContains {
			w.add(fmt.Sprintf("(%s IS NULL OR %s NOT ILIKE ?)", column, column), pattern)
		} else {
			w.add(column+" ILIKE ?", pattern)
		}
	}
}

func (w *whereBuilder) String() string {
	return strings.Join(w.conditions, " AND ")
}

// page appends LIMIT/OFFSET placeholders and returns the clause
func (w *whereBuilder) page(p report.Page) string {
	clause := fmt.Sprintf("LIMIT $%d OFFSET $%d", w.argIdx, w.argIdx+1)
	w.args = append(w.args, p.Limit, p.Offset)
	w.argIdx += 2
	return clause
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// rawValue turns a nullable text column into the raw value the aggregator expects
func rawValue(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
