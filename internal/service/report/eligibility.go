package report

import (
	"github.com/cmlabs-hris/practice-kpi-backend/internal/domain/report"
	"github.com/cmlabs-hris/practice-kpi-backend/internal/pkg/aggregate"
)

// EligibilityResolver decides which staff take part in firm-wide rollups.
// Activity is measured over the full current and last financial years, not the
// as-of window, so the roster stays stable as the as-of date moves.
type EligibilityResolver struct {
	settings map[string]report.StaffSetting
}

func NewEligibilityResolver(settings []report.StaffSetting) *EligibilityResolver {
	m := make(map[string]report.StaffSetting, len(settings))
	for _, s := range settings {
		m[s.StaffName] = s
	}
	return &EligibilityResolver{settings: m}
}

// Setting returns the staff member's setting, or the zero setting (visible,
// reportable, default working pattern) when none exists.
func (r *EligibilityResolver) Setting(staff string) report.StaffSetting {
	if s, ok := r.settings[staff]; ok {
		return s
	}
	return report.StaffSetting{StaffName: staff}
}

// Visible reports whether the staff member's setting allows rollup reporting
func (r *EligibilityResolver) Visible(staff string) bool {
	return r.Setting(staff).Reportable()
}

// Resolve returns the eligible staff given billable hours per staff for the
// full current and last financial years. Rows without a staff name fold into
// the Uncategorized bucket, which is never a roster member.
func (r *EligibilityResolver) Resolve(currentYear, lastYear []aggregate.Bucket) map[string]bool {
	eligible := make(map[string]bool)
	for _, buckets := range [][]aggregate.Bucket{currentYear, lastYear} {
		for _, b := range buckets {
			if b.Key == aggregate.Uncategorized {
				continue
			}
			if b.Hours > 0 && r.Visible(b.Key) {
				eligible[b.Key] = true
			}
		}
	}
	return eligible
}
