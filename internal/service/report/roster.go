package report

import (
	"context"
	"fmt"
	"sort"

	"github.com/cmlabs-hris/practice-kpi-backend/internal/domain/report"
	"github.com/cmlabs-hris/practice-kpi-backend/internal/pkg/aggregate"
	"github.com/cmlabs-hris/practice-kpi-backend/internal/pkg/fiscal"
	"github.com/cmlabs-hris/practice-kpi-backend/internal/pkg/kpi"
	"golang.org/x/sync/errgroup"
)

// rosterData is the raw input for capacity and eligibility
type rosterData struct {
	settings          []report.StaffSetting
	curCap, lastCap   []report.TimeRecord
	curYear, lastYear []report.TimeRecord
}

// fetchRoster schedules the staff settings, capacity-reducing and eligibility
// reads. Eligibility is skipped for a single-staff view.
func (s *ReportServiceImpl) fetchRoster(g *errgroup.Group, ctx context.Context, sc scope, d *rosterData) {
	g.Go(func() error {
		settings, err := s.settings.ListByOrganization(ctx, sc.organizationID)
		if err != nil {
			return fmt.Errorf("list staff settings: %w", err)
		}
		d.settings = settings
		return nil
	})
	fetchWindows(g, ctx, sc.windows, s.capacityTime(sc.organizationID, sc.filters), &d.curCap, &d.lastCap)
	if !sc.singleStaff {
		fetchWindows(g, ctx, sc.years, s.billableTime(sc.organizationID, nil), &d.curYear, &d.lastYear)
	}
}

// roster is the set of staff whose capacity counts toward rollups
type roster struct {
	resolver *EligibilityResolver
	eligible map[string]bool
	staff    []string
}

func (d rosterData) build(sc scope) roster {
	r := roster{resolver: NewEligibilityResolver(d.settings)}
	if sc.singleStaff {
		r.eligible = map[string]bool{sc.staff: true}
	} else {
		r.eligible = r.resolver.Resolve(
			aggregate.Fold(d.curYear, timeSpec(staffKey)),
			aggregate.Fold(d.lastYear, timeSpec(staffKey)),
		)
	}
	for name := range r.eligible {
		r.staff = append(r.staff, name)
	}
	sort.Strings(r.staff)
	return r
}

// capacity returns one staff member's hours picture inside w
func (r roster) capacity(staff string, w fiscal.Window, capReducing map[string]aggregate.Bucket) Capacity {
	return Capacity{
		Standard:         StandardHours(r.resolver.Setting(staff), w),
		CapacityReducing: capReducing[staff].Hours,
	}
}

// utilisation sums billable and available hours across the roster
type utilisation struct {
	BillableHours    float64
	Standard         float64
	CapacityReducing float64
	Available        float64
}

func (u utilisation) Percentage() float64 {
	return kpi.BillablePercentage(u.BillableHours, u.Available, 0)
}

// totals computes roster utilisation inside w. Available hours are clamped per
// staff member before summing.
func (r roster) totals(w fiscal.Window, billable []aggregate.Bucket, capRows []report.TimeRecord) utilisation {
	hours := aggregate.ByKey(billable)
	capReducing := aggregate.ByKey(aggregate.Fold(capRows, timeSpec(staffKey)))

	var u utilisation
	for _, name := range r.staff {
		c := r.capacity(name, w, capReducing)
		u.BillableHours += hours[name].Hours
		u.Standard += c.Standard
		u.CapacityReducing += c.CapacityReducing
		u.Available += c.Available()
	}
	return u
}
